package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
)

var (
	ErrDevBuild      = errors.New("selfupdate: development builds cannot be updated")
	ErrAlreadyLatest = errors.New("selfupdate: already on the latest release")
	ErrChecksum      = errors.New("selfupdate: checksum mismatch")
)

const checksumsFile = "checksums.txt"

// UpdateInput selects the version to move to. An empty TargetVersion
// means the latest release.
type UpdateInput struct {
	CurrentVersion string
	TargetVersion  string
}

// UpdateProgress is reported once per stage: check, download, verify,
// extract, apply, done.
type UpdateProgress struct {
	Stage   string
	Message string
}

// releaseAsset is one downloadable build of the binary.
type releaseAsset struct {
	tag   string
	asset string
}

func (r releaseAsset) url(base, owner, repo, file string) string {
	return strings.TrimRight(base, "/") + "/" + path.Join(owner, repo, "releases", "download", r.tag, file)
}

// Update replaces the running executable with the release named by input,
// or the latest release when none is named. The archive is verified
// against the release's checksum list before anything is written.
func (c *Checker) Update(ctx context.Context, input *UpdateInput, progress func(UpdateProgress)) error {
	if input.CurrentVersion == "(devel)" {
		return ErrDevBuild
	}
	report := func(stage, format string, args ...any) {
		progress(UpdateProgress{Stage: stage, Message: fmt.Sprintf(format, args...)})
	}

	tag, err := c.targetTag(ctx, input, report)
	if err != nil {
		return err
	}
	asset, err := assetName()
	if err != nil {
		return err
	}
	rel := releaseAsset{tag: tag, asset: asset}

	report("download", "Downloading %s...", rel.tag)
	archive, err := c.fetch(ctx, rel.url(c.downloadBaseURL, c.owner, c.repo, rel.asset))
	if err != nil {
		return fmt.Errorf("download archive: %w", err)
	}

	report("verify", "Verifying checksum...")
	if err := c.verifyRelease(ctx, rel, archive); err != nil {
		return err
	}

	report("extract", "Extracting %s...", BinaryName)
	binary, err := extractBinary(archive, rel.asset)
	if err != nil {
		return fmt.Errorf("extract binary: %w", err)
	}

	report("apply", "Replacing executable...")
	target, err := c.execPath()
	if err != nil {
		return fmt.Errorf("resolve executable path: %w", err)
	}
	sum := sha256.Sum256(binary)
	if err := applyUpdate(binary, target, sum[:]); err != nil {
		return fmt.Errorf("apply update: %w", err)
	}

	report("done", "Updated to %s", rel.tag)
	return nil
}

func (c *Checker) targetTag(ctx context.Context, input *UpdateInput, report func(string, string, ...any)) (string, error) {
	if input.TargetVersion != "" {
		return input.TargetVersion, nil
	}
	report("check", "Looking up the latest release...")
	result, err := c.Check(ctx, &CheckInput{Version: input.CurrentVersion})
	if err != nil {
		return "", fmt.Errorf("check for updates: %w", err)
	}
	if !result.UpdateAvailable {
		return "", ErrAlreadyLatest
	}
	return result.LatestVersion, nil
}

func (c *Checker) verifyRelease(ctx context.Context, rel releaseAsset, archive []byte) error {
	list, err := c.fetch(ctx, rel.url(c.downloadBaseURL, c.owner, c.repo, checksumsFile))
	if err != nil {
		return fmt.Errorf("download checksums: %w", err)
	}
	want, ok := parseChecksums(list)[rel.asset]
	if !ok {
		return fmt.Errorf("%s has no entry for %s", checksumsFile, rel.asset)
	}
	return verifyChecksum(archive, want)
}

func (c *Checker) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// releaseArch maps GOARCH to the architecture label used in asset names.
var releaseArch = map[string]string{
	"amd64": "x86_64",
	"arm64": "arm64",
	"386":   "i386",
}

func assetName() (string, error) {
	return assetNameFor(runtime.GOOS, runtime.GOARCH)
}

// assetNameFor returns the archive name published for a platform. macOS
// ships one universal archive.
func assetNameFor(goos, goarch string) (string, error) {
	var osLabel, ext string
	switch goos {
	case "darwin":
		return BinaryName + "_Darwin_all.tar.gz", nil
	case "linux":
		osLabel, ext = "Linux", ".tar.gz"
	case "windows":
		osLabel, ext = "Windows", ".zip"
	default:
		return "", fmt.Errorf("no release for %s", goos)
	}
	arch, ok := releaseArch[goarch]
	if !ok {
		return "", fmt.Errorf("no %s release for %s", goos, goarch)
	}
	return BinaryName + "_" + osLabel + "_" + arch + ext, nil
}

// parseChecksums reads "<hex>  <file>" lines as produced by sha256sum.
// Malformed lines are skipped.
func parseChecksums(data []byte) map[string]string {
	sums := map[string]string{}
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 2 {
			sums[fields[1]] = fields[0]
		}
	}
	return sums
}

func verifyChecksum(data []byte, wantHex string) error {
	sum := sha256.Sum256(data)
	if got := hex.EncodeToString(sum[:]); got != wantHex {
		return fmt.Errorf("%w: want %s, have %s", ErrChecksum, wantHex, got)
	}
	return nil
}

// extractBinary pulls the executable out of a release archive. Windows
// releases are zips holding BinaryName.exe.
func extractBinary(archive []byte, asset string) ([]byte, error) {
	if strings.HasSuffix(asset, ".zip") {
		return fromZip(archive, BinaryName+".exe")
	}
	return fromTarGz(archive, BinaryName)
}

func fromTarGz(data []byte, name string) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%q not found in archive", name)
		}
		if err != nil {
			return nil, fmt.Errorf("tar: %w", err)
		}
		if hdr.Typeflag == tar.TypeReg && filepath.Base(hdr.Name) == name {
			return io.ReadAll(tr)
		}
	}
}

func fromZip(data []byte, name string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("zip: %w", err)
	}
	for _, f := range zr.File {
		if filepath.Base(f.Name) != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer func() { _ = rc.Close() }()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%q not found in archive", name)
}

// applyUpdate stages the new binary next to target, re-reads it to confirm
// wantSum, and renames it into place with target's original mode.
func applyUpdate(binary []byte, target string, wantSum []byte) error {
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("stat %s: %w", target, err)
	}

	staging, err := os.MkdirTemp(filepath.Dir(target), "."+BinaryName+"-update-*")
	if err != nil {
		return fmt.Errorf("staging dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(staging) }()

	staged := filepath.Join(staging, BinaryName)
	if err := os.WriteFile(staged, binary, 0o600); err != nil {
		return fmt.Errorf("write staged binary: %w", err)
	}
	onDisk, err := os.ReadFile(staged)
	if err != nil {
		return fmt.Errorf("read staged binary: %w", err)
	}
	if sum := sha256.Sum256(onDisk); !bytes.Equal(sum[:], wantSum) {
		return fmt.Errorf("%w: staged binary changed on disk", ErrChecksum)
	}

	if err := os.Rename(staged, target); err != nil {
		return fmt.Errorf("replace %s: %w", target, err)
	}
	return os.Chmod(target, info.Mode())
}
