// CLAUDE:SUMMARY Address normalization for comparison: lowercase, tokenize, optional latinize, join, length gate.
package addresses

import (
	"strings"

	"github.com/hazyhaar/touchstone-normalize/pkg/textnorm"
	"github.com/hazyhaar/touchstone-normalize/pkg/translit"
)

// DefaultMinLength is the shortest normalized address worth comparing.
const DefaultMinLength = 4

// Normalize reduces address to lowercase tokens joined by single spaces.
// The output is meant for matching, not display. It reports false when the
// result is shorter than minLength bytes.
func Normalize(address string, latinize bool, minLength int) (string, bool) {
	return NormalizeWith(translit.Default(), address, latinize, minLength)
}

// NormalizeWith is Normalize with an explicit transliterator, for callers
// that hold their own translit.Context.
func NormalizeWith(tr translit.Transliterator, address string, latinize bool, minLength int) (string, bool) {
	var b strings.Builder
	b.Grow(len(address))
	add := func(tok string) {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(tok)
	}

	for tok := range textnorm.Tokens(textnorm.Address, textnorm.Lower(address), 1) {
		if !latinize {
			add(tok)
			continue
		}
		// Romanizers emit capitals and spaces; split again so every
		// output token is still a lowercase address token.
		for sub := range textnorm.Tokens(textnorm.Address, textnorm.Lower(tr.ASCII(tok)), 1) {
			add(sub)
		}
	}

	joined := b.String()
	if len(joined) < minLength {
		return "", false
	}
	return joined, true
}
