package edit

import (
	"math"
	"strconv"
	"strings"
)

// ParseInt reads a leading optionally signed decimal integer, ignoring
// surrounding whitespace and any trailing text ("12.9kg" is 12).
// Input without a leading integer yields 0.
func ParseInt(raw string) int64 {
	s := strings.TrimSpace(raw)
	end := scanSign(s, 0)
	digits := scanDigits(s, end)
	if digits == end {
		return 0
	}
	v, err := strconv.ParseInt(s[:digits], 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseFloat reads a leading decimal number with optional fraction and
// exponent, ignoring trailing text. Input without a leading number, or one
// that overflows, yields 0.
func ParseFloat(raw string) float64 {
	s := strings.TrimSpace(raw)
	i := scanSign(s, 0)
	intEnd := scanDigits(s, i)
	end := intEnd
	if end < len(s) && s[end] == '.' {
		fracEnd := scanDigits(s, end+1)
		if fracEnd > end+1 || intEnd > i {
			end = fracEnd
		}
	}
	if end == i {
		return 0
	}
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		expStart := scanSign(s, end+1)
		if expEnd := scanDigits(s, expStart); expEnd > expStart {
			end = expEnd
		}
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func scanSign(s string, i int) int {
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		return i + 1
	}
	return i
}

func scanDigits(s string, i int) int {
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}
