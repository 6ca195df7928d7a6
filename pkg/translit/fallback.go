package translit

import (
	"strings"
	"unicode/utf8"
)

// Placeholder is the substitute used when the engine cannot handle a
// string: ASCII is kept and every other code point becomes '?'. Each
// undecodable byte counts as one code point.
func Placeholder(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r < utf8.RuneSelf {
			b.WriteByte(byte(r))
		} else {
			b.WriteByte('?')
		}
	}
	return b.String()
}

// isASCII reports whether s holds only 7-bit bytes.
func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
