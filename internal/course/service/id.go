package service

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseID reads a course id from a path segment the lenient way clients of
// this API rely on: leading whitespace and an optional sign are accepted,
// a 0x prefix selects hex, and parsing stops at the first non-digit
// ("2abc" is 2). ok is false when no digits could be read.
func ParseID(raw string) (id int, ok bool) {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	base := 10
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}
	end := 0
	for end < len(s) && isDigit(s[end], base) {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:end], base, 64)
	if err != nil {
		// out of range can never match a stored id
		return 0, false
	}
	if neg {
		n = -n
	}
	return int(n), true
}

func isDigit(c byte, base int) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case base == 16 && c >= 'a' && c <= 'f', base == 16 && c >= 'A' && c <= 'F':
		return true
	}
	return false
}
