package forms

import (
	"strconv"
	"strings"
)

// CoerceInt converts numeric form input to an int. Leading digits are read
// the way a browser number field reports them ("12abc" is 12); empty or
// non-numeric input becomes 0.
func CoerceInt(s string) int {
	prefix := numericPrefix(strings.TrimSpace(s), false)
	if prefix == "" {
		return 0
	}
	n, err := strconv.Atoi(prefix)
	if err != nil {
		return 0
	}
	return n
}

// CoerceFloat is CoerceInt for decimal fields such as hours played.
func CoerceFloat(s string) float64 {
	prefix := numericPrefix(strings.TrimSpace(strings.ReplaceAll(s, ",", ".")), true)
	if prefix == "" {
		return 0
	}
	f, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return 0
	}
	return f
}

// CoerceBool reads checkbox-style input. Anything unrecognised is false.
func CoerceBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "on", "yes", "si", "sí", "x":
		return true
	default:
		return false
	}
}

func numericPrefix(s string, decimal bool) string {
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := 0
	seenDot := false
	for end < len(s) {
		c := s[end]
		switch {
		case c >= '0' && c <= '9':
			digits++
		case decimal && c == '.' && !seenDot:
			seenDot = true
		default:
			goto done
		}
		end++
	}
done:
	if digits == 0 {
		return ""
	}
	return strings.TrimSuffix(s[:end], ".")
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
