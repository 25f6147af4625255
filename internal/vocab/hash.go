package vocab

import "unicode/utf16"

// Hash is the pinned 32-bit rolling string hash used for reproducible
// review ordering: h = h*31 + c over UTF-16 code units with int32
// wraparound, returned as an absolute value. Changing it changes every
// stored stage's review batch.
func Hash(s string) int64 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(c)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}
