// CLAUDE:SUMMARY Person and organization name normalization: case folding, tokenization and joining.
package names

import (
	"strings"

	"github.com/hazyhaar/touchstone-normalize/pkg/textnorm"
)

const (
	// DefaultSeparator joins tokens in Normalize.
	DefaultSeparator = " "
	// DefaultTokenMinLength keeps every non-empty token.
	DefaultTokenMinLength = 1
)

// Prenormalize case-folds name. It is the cheap step applied before any
// name comparison.
func Prenormalize(name string) string {
	return textnorm.Fold(name)
}

// Tokenize splits text into name tokens without changing case. Apostrophes
// and periods vanish ("O'Brien" -> "OBrien"); other punctuation separates.
func Tokenize(text string, tokenMinLength int) []string {
	return textnorm.Tokenize(textnorm.Name, text, tokenMinLength)
}

// Normalize folds and tokenizes name, then joins the tokens with sep.
// It reports false when name holds no tokens at all.
func Normalize(name, sep string) (string, bool) {
	if name == "" {
		return "", false
	}
	tokens := Tokenize(Prenormalize(name), DefaultTokenMinLength)
	if len(tokens) == 0 {
		return "", false
	}
	return strings.Join(tokens, sep), true
}
