package problemgen

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/abhisek/examprep/internal/profile"
)

var errNotComputable = errors.New("not computable")

// MathCheckValidator recomputes plain arithmetic found in a math question
// and checks it against the marked option. Word problems and questions
// whose options are not numbers pass through silently.
type MathCheckValidator struct{}

func (v *MathCheckValidator) Name() string { return "math-check" }

func (v *MathCheckValidator) Validate(q profile.Question) *ValidationError {
	if q.Category != profile.Math {
		return nil
	}
	claimed, ok := numericOption(q.CorrectText())
	if !ok {
		return nil
	}
	computed, err := computeAnswer(q.QuestionText)
	if err != nil {
		return nil
	}
	if !sameNumber(computed, claimed) {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("computed %q but option claims %q", computed, claimed),
		}
	}
	return nil
}

var (
	// Fraction arithmetic: "a/b + c/d", "a/b - c/d", "a/b * c/d", "a/b ÷ c/d"
	fractionArithRe = regexp.MustCompile(`(-?\d+)\s*/\s*(\d+)\s*([+\-*×÷])\s*(-?\d+)\s*/\s*(\d+)`)

	// Integer or decimal arithmetic with +, -, *, ×
	intArithRe = regexp.MustCompile(`(?:^|[^\d/])(-?\d+(?:\.\d+)?)\s*([+\-*×x])\s*(-?\d+(?:\.\d+)?)\s*(?:=\s*\?|\?)`)

	// Division needs spaces around the operator so 3/4 stays a fraction.
	intDivRe = regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s+[/÷]\s+(-?\d+(?:\.\d+)?)\s*(?:=\s*\?|\?)`)

	// A numeric option, optionally with a currency sign or trailing unit.
	numericOptionRe = regexp.MustCompile(`^\$?\s*(-?\d+(?:\.\d+)?(?:/\d+)?)(?:\s*[a-zA-Z%. ]*)?$`)
)

// computeAnswer extracts a bare expression ending in "?" from text and
// evaluates it. Results are normalized the way numericOption normalizes.
func computeAnswer(text string) (string, error) {
	if m := fractionArithRe.FindStringSubmatch(text); m != nil {
		return fractionArith(m)
	}
	if m := intArithRe.FindStringSubmatch(text); m != nil {
		return computeOp(m[1], normalizeOp(m[2]), m[3])
	}
	if m := intDivRe.FindStringSubmatch(text); m != nil {
		return computeOp(m[1], "/", m[2])
	}
	return "", errNotComputable
}

func fractionArith(m []string) (string, error) {
	aN, _ := strconv.ParseInt(m[1], 10, 64)
	aD, _ := strconv.ParseInt(m[2], 10, 64)
	op := normalizeOp(m[3])
	bN, _ := strconv.ParseInt(m[4], 10, 64)
	bD, _ := strconv.ParseInt(m[5], 10, 64)
	if aD == 0 || bD == 0 {
		return "", errNotComputable
	}

	var rN, rD int64
	switch op {
	case "+":
		rN, rD = aN*bD+bN*aD, aD*bD
	case "-":
		rN, rD = aN*bD-bN*aD, aD*bD
	case "*":
		rN, rD = aN*bN, aD*bD
	case "/":
		if bN == 0 {
			return "", errNotComputable
		}
		rN, rD = aN*bD, aD*bN
	default:
		return "", errNotComputable
	}
	return formatFraction(rN, rD), nil
}

func computeOp(aStr, op, bStr string) (string, error) {
	a, err := strconv.ParseFloat(aStr, 64)
	if err != nil {
		return "", err
	}
	b, err := strconv.ParseFloat(bStr, 64)
	if err != nil {
		return "", err
	}

	var result float64
	switch op {
	case "+":
		result = a + b
	case "-":
		result = a - b
	case "*":
		result = a * b
	case "/":
		if b == 0 {
			return "", errNotComputable
		}
		result = a / b
	default:
		return "", errNotComputable
	}
	return formatDecimal(result), nil
}

// numericOption normalizes an option such as "$30", "28 sq cm" or "6/8"
// to a canonical number string.
func numericOption(text string) (string, bool) {
	m := numericOptionRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return "", false
	}
	if num, den, err := parseFraction(m[1]); err == nil {
		if den == 0 {
			return "", false
		}
		return formatFraction(num, den), true
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return "", false
	}
	return formatDecimal(f), true
}

// formatDecimal rounds to six places so float noise does not cause a
// mismatch.
func formatDecimal(f float64) string {
	return strconv.FormatFloat(math.Round(f*1e6)/1e6, 'f', -1, 64)
}

// sameNumber compares two canonical number strings by value, so "3/4"
// equals "0.75".
func sameNumber(a, b string) bool {
	if a == b {
		return true
	}
	fa, okA := toFloat(a)
	fb, okB := toFloat(b)
	return okA && okB && math.Abs(fa-fb) < 1e-6
}

func toFloat(s string) (float64, bool) {
	if n, d, err := parseFraction(s); err == nil && d != 0 {
		return float64(n) / float64(d), true
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

// normalizeOp normalizes multiplication and division symbols.
func normalizeOp(op string) string {
	switch op {
	case "×", "x":
		return "*"
	case "÷":
		return "/"
	default:
		return op
	}
}

// formatFraction reduces n/d and renders whole numbers without a
// denominator.
func formatFraction(n, d int64) string {
	if d < 0 {
		n, d = -n, -d
	}
	g := gcd(abs(n), d)
	n /= g
	d /= g
	if d == 1 {
		return strconv.FormatInt(n, 10)
	}
	return fmt.Sprintf("%d/%d", n, d)
}

// parseFraction parses "a/b" into numerator and denominator.
func parseFraction(s string) (int64, int64, error) {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		return 0, 0, fmt.Errorf("invalid fraction format: %q", s)
	}
	n, err := strconv.ParseInt(strings.TrimSpace(num), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid numerator: %w", err)
	}
	d, err := strconv.ParseInt(strings.TrimSpace(den), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid denominator: %w", err)
	}
	return n, d, nil
}

// gcd returns the greatest common divisor of a and b.
// Both a and b must be non-negative.
func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
