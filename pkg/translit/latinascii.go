package translit

import (
	"unicode"
	"unicode/utf8"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// latinASCII is the last stage: it maps what is left to ASCII and drops
// whatever has no ASCII rendering. Its output is always ASCII.
type latinASCII struct {
	transform.NopResetter
	set *ruleSet
}

func (t latinASCII) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		if c := src[nSrc]; c < utf8.RuneSelf {
			if nDst >= len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			dst[nDst] = c
			nDst++
			nSrc++
			continue
		}
		r, size := utf8.DecodeRune(src[nSrc:])
		if r == utf8.RuneError && size <= 1 {
			if !atEOF && !utf8.FullRune(src[nSrc:]) {
				return nDst, nSrc, transform.ErrShortSrc
			}
			return nDst, nSrc, ErrInvalidUTF8
		}
		out, ok := t.set.lookup(string(src[nSrc : nSrc+size]))
		if !ok {
			out = asciiOnly(unidecode.Unidecode(string(r)))
		}
		if nDst+len(out) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += copy(dst[nDst:], out)
		nSrc += size
	}
	return nDst, nSrc, nil
}

func asciiOnly(s string) string {
	if s == "[?]" {
		return ""
	}
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			b := make([]byte, 0, len(s))
			for j := 0; j < len(s); j++ {
				if s[j] < utf8.RuneSelf {
					b = append(b, s[j])
				}
			}
			return string(b)
		}
	}
	return s
}

// accentsAny turns spacing accents into their combining forms so the
// mark removal that follows strips them.
var accentsAny = runes.Map(func(r rune) rune {
	if c, ok := spacingAccents[r]; ok {
		return c
	}
	return r
})

var spacingAccents = map[rune]rune{
	'\u00b4': '\u0301', // acute
	'\u02cb': '\u0300', // grave
	'\u02c6': '\u0302', // circumflex
	'\u02dc': '\u0303', // tilde
	'\u00af': '\u0304', // macron
	'\u02d8': '\u0306', // breve
	'\u02d9': '\u0307', // dot above
	'\u00a8': '\u0308', // diaeresis
	'\u02da': '\u030a', // ring above
	'\u02dd': '\u030b', // double acute
	'\u02c7': '\u030c', // caron
	'\u00b8': '\u0327', // cedilla
	'\u02db': '\u0328', // ogonek
}

var (
	removeMarks   = runes.Remove(runes.In(unicode.Mn))
	removeSymbols = runes.Remove(runes.In(unicode.S))
)
