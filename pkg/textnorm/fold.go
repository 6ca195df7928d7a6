package textnorm

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Fold applies full Unicode case folding, including one-to-many
// expansions such as ß -> ss.
func Fold(s string) string {
	// A Caser carries state; one per call keeps Fold safe for concurrent use.
	return cases.Fold().String(s)
}

// Lower lowercases s using the root locale rules.
func Lower(s string) string {
	return cases.Lower(language.Und).String(s)
}
