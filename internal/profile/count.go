package profile

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Count is an integer counter read from persisted state. Decoding is
// lenient: numbers are floored, numeric strings are parsed, and anything
// else (null, booleans, junk) decodes to zero instead of failing the whole
// profile.
type Count int

func (c *Count) UnmarshalJSON(b []byte) error {
	*c = 0
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		return nil
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return nil
		}
		s = strings.TrimSpace(str)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	if f > math.MaxInt32 {
		f = math.MaxInt32
	}
	if f < math.MinInt32 {
		f = math.MinInt32
	}
	*c = Count(math.Floor(f))
	return nil
}

// Int returns c as a plain int.
func (c Count) Int() int { return int(c) }
