// Package keys canonicalizes free text into the comparison keys shared by
// the ordered index and the attribute index.
package keys

import "strings"

// Normalize returns the canonical key for s: bytes outside printable ASCII
// are dropped, surrounding spaces trimmed, ASCII letters lowercased.
// Used for both title keys and attribute keys.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 32 || c > 126 {
			continue
		}
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		b.WriteByte(c)
	}
	return strings.Trim(b.String(), " ")
}

// Clean strips control characters and trailing spaces for display.
// Case, leading spaces and non-ASCII bytes are kept.
func Clean(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= 32 {
			b.WriteByte(s[i])
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// Equal reports whether a and b normalize to the same key.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
