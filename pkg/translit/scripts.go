package translit

import "unicode"

// latinBlock bounds the code points accepted as Latin without a script
// lookup: everything below U+02E4 (Basic Latin through the IPA and
// spacing modifier letters).
const latinBlock = 740

var (
	modernAlphabets = []*unicode.RangeTable{
		unicode.Latin, unicode.Cyrillic, unicode.Greek, unicode.Armenian,
	}
	latinizable = []*unicode.RangeTable{
		unicode.Latin, unicode.Cyrillic, unicode.Greek, unicode.Armenian,
		unicode.Georgian, unicode.Hangul,
	}
)

func alnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

// IsLatin reports whether every letter and digit in word is Latin.
func IsLatin(word string) bool {
	for _, r := range word {
		if r < latinBlock || !alnum(r) {
			continue
		}
		if !unicode.Is(unicode.Latin, r) {
			return false
		}
	}
	return true
}

// IsModernAlphabet reports whether word is written only in Latin,
// Cyrillic, Greek or Armenian.
func IsModernAlphabet(word string) bool {
	return onlyScripts(word, modernAlphabets)
}

// CanLatinize reports whether word is in a script that transliterates to
// Latin reliably.
func CanLatinize(word string) bool {
	return onlyScripts(word, latinizable)
}

func onlyScripts(word string, tables []*unicode.RangeTable) bool {
	for _, r := range word {
		if r < latinBlock || !alnum(r) {
			continue
		}
		if !unicode.In(r, tables...) {
			return false
		}
	}
	return true
}
