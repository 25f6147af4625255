package selfupdate

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetNameFor(t *testing.T) {
	tests := []struct {
		name    string
		goos    string
		goarch  string
		want    string
		wantErr bool
	}{
		{"darwin amd64", "darwin", "amd64", "examprep_Darwin_all.tar.gz", false},
		{"darwin arm64", "darwin", "arm64", "examprep_Darwin_all.tar.gz", false},
		{"linux amd64", "linux", "amd64", "examprep_Linux_x86_64.tar.gz", false},
		{"linux arm64", "linux", "arm64", "examprep_Linux_arm64.tar.gz", false},
		{"linux 386", "linux", "386", "examprep_Linux_i386.tar.gz", false},
		{"windows amd64", "windows", "amd64", "examprep_Windows_x86_64.zip", false},
		{"windows arm64", "windows", "arm64", "examprep_Windows_arm64.zip", false},
		{"unsupported os", "freebsd", "amd64", "", true},
		{"unsupported arch", "linux", "mips", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := assetNameFor(tt.goos, tt.goarch)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseChecksums(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]string
	}{
		{
			name:  "normal",
			input: "abc123  examprep_Darwin_all.tar.gz\ndef456  examprep_Linux_x86_64.tar.gz\n",
			want: map[string]string{
				"examprep_Darwin_all.tar.gz":   "abc123",
				"examprep_Linux_x86_64.tar.gz": "def456",
			},
		},
		{
			name:  "empty",
			input: "",
			want:  map[string]string{},
		},
		{
			name:  "malformed lines skipped",
			input: "abc123  file.tar.gz\nbadline\n  \nfoo  bar  baz\nghi789  other.tar.gz\n",
			want: map[string]string{
				"file.tar.gz":  "abc123",
				"other.tar.gz": "ghi789",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseChecksums([]byte(tt.input))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVerifyChecksum(t *testing.T) {
	data := []byte("hello world")
	h := sha256.Sum256(data)
	correctHex := hex.EncodeToString(h[:])

	t.Run("match", func(t *testing.T) {
		assert.NoError(t, verifyChecksum(data, correctHex))
	})

	t.Run("mismatch", func(t *testing.T) {
		err := verifyChecksum(data, "0000000000000000000000000000000000000000000000000000000000000000")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrChecksum)
	})
}

func TestExtractBinary(t *testing.T) {
	binaryContent := []byte("#!/bin/sh\necho examprep")

	t.Run("tar.gz", func(t *testing.T) {
		archive := buildTarGz(t, "examprep", binaryContent)
		got, err := extractBinary(archive, "examprep_Darwin_all.tar.gz")
		require.NoError(t, err)
		assert.Equal(t, binaryContent, got)
	})

	t.Run("missing binary", func(t *testing.T) {
		archive := buildTarGz(t, "other-file", binaryContent)
		_, err := extractBinary(archive, "examprep_Darwin_all.tar.gz")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestApplyUpdate(t *testing.T) {
	target := filepath.Join(t.TempDir(), "examprep")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o755))

	next := []byte("new-binary-content")
	sum := sha256.Sum256(next)
	require.NoError(t, applyUpdate(next, target, sum[:]))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, next, got)

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm(), "mode is preserved")

	t.Run("hash mismatch leaves target alone", func(t *testing.T) {
		err := applyUpdate([]byte("other"), target, sum[:])
		assert.ErrorIs(t, err, ErrChecksum)
		got, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, next, got)
	})
}

func TestReleaseAssetURL(t *testing.T) {
	rel := releaseAsset{tag: "v2.0.0", asset: "examprep_Linux_x86_64.tar.gz"}
	assert.Equal(t,
		"https://github.com/abhisek/examprep/releases/download/v2.0.0/examprep_Linux_x86_64.tar.gz",
		rel.url("https://github.com/", "abhisek", "examprep", rel.asset))
	assert.Equal(t,
		"http://127.0.0.1:8080/abhisek/examprep/releases/download/v2.0.0/checksums.txt",
		rel.url("http://127.0.0.1:8080", "abhisek", "examprep", checksumsFile))
}

// releaseServer serves a fake v2.0.0 release. Nil archive or checksums
// entries answer 404.
func releaseServer(t *testing.T, asset string, archive, checksums []byte) *httptest.Server {
	t.Helper()
	files := map[string][]byte{
		"/repos/abhisek/examprep/releases/latest": []byte(`{"tag_name":"v2.0.0","html_url":"https://example.com/v2.0.0"}`),
	}
	if archive != nil {
		files["/abhisek/examprep/releases/download/v2.0.0/"+asset] = archive
	}
	if checksums != nil {
		files["/abhisek/examprep/releases/download/v2.0.0/checksums.txt"] = checksums
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := files[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write(body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestUpdate(t *testing.T) {
	binary := []byte("new-examprep-binary")
	archive := buildTarGz(t, "examprep", binary)
	sum := sha256.Sum256(archive)
	asset, err := assetName()
	require.NoError(t, err)
	noop := func(UpdateProgress) {}

	t.Run("replaces the executable", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("release archives for windows are zips")
		}
		execPath := filepath.Join(t.TempDir(), "examprep")
		require.NoError(t, os.WriteFile(execPath, []byte("old"), 0o755))

		checksums := fmt.Sprintf("%s  %s\n", hex.EncodeToString(sum[:]), asset)
		server := releaseServer(t, asset, archive, []byte(checksums))
		checker := NewChecker(
			WithBaseURL(server.URL),
			WithDownloadBaseURL(server.URL),
			withExecPath(func() (string, error) { return execPath, nil }),
		)

		var stages []string
		err := checker.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, func(p UpdateProgress) {
			stages = append(stages, p.Stage)
		})
		require.NoError(t, err)

		got, err := os.ReadFile(execPath)
		require.NoError(t, err)
		assert.Equal(t, binary, got)
		assert.Equal(t, []string{"check", "download", "verify", "extract", "apply", "done"}, stages)
	})

	t.Run("explicit version skips the check", func(t *testing.T) {
		server := releaseServer(t, asset, nil, nil)
		checker := NewChecker(WithBaseURL(server.URL), WithDownloadBaseURL(server.URL))

		var stages []string
		err := checker.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0", TargetVersion: "v2.0.0"}, func(p UpdateProgress) {
			stages = append(stages, p.Stage)
		})
		require.Error(t, err)
		assert.Equal(t, []string{"download"}, stages)
	})

	t.Run("dev build", func(t *testing.T) {
		err := NewChecker().Update(context.Background(), &UpdateInput{CurrentVersion: "(devel)"}, noop)
		assert.ErrorIs(t, err, ErrDevBuild)
	})

	t.Run("already latest", func(t *testing.T) {
		server := releaseServer(t, asset, nil, nil)
		err := NewChecker(WithBaseURL(server.URL)).Update(context.Background(), &UpdateInput{CurrentVersion: "v2.0.0"}, noop)
		assert.ErrorIs(t, err, ErrAlreadyLatest)
	})

	t.Run("checksum mismatch", func(t *testing.T) {
		checksums := strings.Repeat("0", 64) + "  " + asset + "\n"
		server := releaseServer(t, asset, archive, []byte(checksums))
		checker := NewChecker(WithBaseURL(server.URL), WithDownloadBaseURL(server.URL))
		err := checker.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, noop)
		assert.ErrorIs(t, err, ErrChecksum)
	})

	t.Run("checksum list lacks asset", func(t *testing.T) {
		server := releaseServer(t, asset, archive, []byte("abc  something-else.tar.gz\n"))
		checker := NewChecker(WithBaseURL(server.URL), WithDownloadBaseURL(server.URL))
		err := checker.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, noop)
		require.Error(t, err)
		assert.Contains(t, err.Error(), asset)
	})

	t.Run("download failure", func(t *testing.T) {
		server := releaseServer(t, asset, nil, nil)
		checker := NewChecker(WithBaseURL(server.URL), WithDownloadBaseURL(server.URL))
		err := checker.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, noop)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "download archive")
	})
}

func TestCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/abhisek/examprep/releases/latest", r.URL.Path)
		_, _ = w.Write([]byte(`{"tag_name":"v1.4.0","html_url":"https://example.com/v1.4.0"}`))
	}))
	defer server.Close()
	checker := NewChecker(WithBaseURL(server.URL))

	tests := []struct {
		current string
		want    bool
	}{
		{"v1.3.9", true},
		{"1.3.9", true},
		{"v1.4.0", false},
		{"v1.10.0", false},
		{"(devel)", false},
	}
	for _, tt := range tests {
		t.Run(tt.current, func(t *testing.T) {
			res, err := checker.Check(context.Background(), &CheckInput{Version: tt.current})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.UpdateAvailable)
			assert.Equal(t, "v1.4.0", res.LatestVersion)
			assert.Equal(t, "https://example.com/v1.4.0", res.ReleaseURL)
		})
	}
}

func TestCheck_BadTag(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tag_name":"nightly"}`))
	}))
	defer server.Close()

	_, err := NewChecker(WithBaseURL(server.URL)).Check(context.Background(), &CheckInput{Version: "v1.0.0"})
	assert.Error(t, err)
}

func TestCanonical(t *testing.T) {
	assert.Equal(t, "v1.2.0", canonical("1.2"))
	assert.Equal(t, "v2.0.1", canonical(" v2.0.1 "))
	assert.Equal(t, "", canonical("(devel)"))
	assert.Equal(t, "", canonical(""))
}

// buildTarGz creates a tar.gz archive containing a single file.
func buildTarGz(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)

	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name: name,
		Size: int64(len(content)),
		Mode: 0755,
	}))
	_, err := tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	return buf.Bytes()
}
