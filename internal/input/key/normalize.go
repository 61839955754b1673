package key

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize lower-cases an identifier, code or pattern for comparison.
// Whitespace is preserved; callers trim where the grammar says so.
func Normalize(s string) string {
	if isLowerASCII(s) {
		return s
	}
	// cases.Caser is stateful and not safe for concurrent use, so build one per call.
	return cases.Lower(language.Und).String(s)
}

func isLowerASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x80 || ('A' <= c && c <= 'Z') {
			return false
		}
	}
	return true
}

// Trim normalises s and strips surrounding whitespace.
func Trim(s string) string {
	return strings.TrimSpace(Normalize(s))
}
