package textnorm

import (
	"iter"
	"slices"
	"strings"
)

// Tokens streams the tokens of text in the given mode. Tokens shorter than
// minLength code points are dropped; a minLength below 1 is treated as 1.
func Tokens(mode Mode, text string, minLength int) iter.Seq[string] {
	if minLength < 1 {
		minLength = 1
	}
	return func(yield func(string) bool) {
		var buf strings.Builder
		n := 0 // code points in buf

		flush := func() bool {
			if n == 0 {
				return true
			}
			tok := buf.String()
			long := n >= minLength
			buf.Reset()
			n = 0
			if !long {
				return true
			}
			return yield(tok)
		}

		for _, r := range text {
			switch Classify(mode, r) {
			case Keep:
				buf.WriteRune(r)
				n++
			case Whitespace:
				if !flush() {
					return
				}
			}
		}
		flush()
	}
}

// Tokenize returns the tokens of text in order. The result is never nil.
func Tokenize(mode Mode, text string, minLength int) []string {
	tokens := slices.Collect(Tokens(mode, text, minLength))
	if tokens == nil {
		return []string{}
	}
	return tokens
}
