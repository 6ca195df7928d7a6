package translit

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// anyLatin romanizes every script it has a table for, preferring the
// longest matching key. Letters from scripts without a table go through
// unidecode; Han ideographs come out as space separated syllables.
type anyLatin struct {
	set *ruleSet
	// prevHan is set when the last rune written was a Han ideograph.
	prevHan bool
}

func (t *anyLatin) Reset() { t.prevHan = false }

func (t *anyLatin) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		if c := src[nSrc]; c < utf8.RuneSelf {
			if nDst >= len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			dst[nDst] = c
			nDst++
			nSrc++
			t.prevHan = false
			continue
		}
		out, size, han, err := t.step(src[nSrc:], atEOF)
		if err != nil {
			return nDst, nSrc, err
		}
		if nDst+len(out) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += copy(dst[nDst:], out)
		nSrc += size
		t.prevHan = han
	}
	return nDst, nSrc, nil
}

// step converts the text at the head of src. It never mutates t so a
// short destination can be retried.
func (t *anyLatin) step(src []byte, atEOF bool) (out string, size int, han bool, err error) {
	r, size := utf8.DecodeRune(src)
	if r == utf8.RuneError && size <= 1 {
		if !atEOF && !utf8.FullRune(src) {
			return "", 0, false, transform.ErrShortSrc
		}
		return "", 0, false, ErrInvalidUTF8
	}

	if t.set.maxRunes > 1 {
		out, n, err := t.longest(src, atEOF)
		if err != nil || n > 0 {
			return out, n, false, err
		}
	} else if out, ok := t.set.lookup(string(src[:size])); ok {
		return out, size, false, nil
	}

	if out, ok := t.decomposed(r); ok {
		return out, size, false, nil
	}

	switch {
	case unicode.Is(unicode.Han, r):
		s := romanize(r)
		if s == "" {
			return "", size, false, nil
		}
		s = strings.ToLower(s)
		if t.prevHan {
			s = " " + s
		}
		return s, size, true, nil
	case needsRomanizing(r):
		return romanize(r), size, false, nil
	}
	return string(src[:size]), size, false, nil
}

// longest finds the longest rule key at the head of src. It reports
// ErrShortSrc when more input could extend the match.
func (t *anyLatin) longest(src []byte, atEOF bool) (string, int, error) {
	var ends [8]int
	limit := min(t.set.maxRunes, len(ends))
	n, p := 0, 0
	for n < limit && p < len(src) && utf8.FullRune(src[p:]) {
		_, sz := utf8.DecodeRune(src[p:])
		p += sz
		ends[n] = p
		n++
	}
	if !atEOF && n < limit && t.set.isPrefix(string(src[:p])) {
		return "", 0, transform.ErrShortSrc
	}
	for k := n; k > 0; k-- {
		if out, ok := t.set.lookup(string(src[:ends[k-1]])); ok {
			return out, ends[k-1], nil
		}
	}
	return "", 0, nil
}

// decomposed handles precomposed letters such as Greek ά by applying the
// base letter rule and keeping the marks for later stages.
func (t *anyLatin) decomposed(r rune) (string, bool) {
	d := norm.NFD.String(string(r))
	base, size := utf8.DecodeRuneInString(d)
	if size == len(d) {
		return "", false
	}
	out, ok := t.set.lookup(string(base))
	if !ok {
		return "", false
	}
	for _, m := range d[size:] {
		if !unicode.Is(unicode.Mn, m) {
			return "", false
		}
	}
	return out + d[size:], true
}

// needsRomanizing reports letters and digits outside the Latin script
// that no table covered.
func needsRomanizing(r rune) bool {
	if !unicode.IsLetter(r) && !unicode.IsNumber(r) {
		return false
	}
	return !unicode.In(r, unicode.Latin, unicode.Common, unicode.Inherited)
}

func romanize(r rune) string {
	s := strings.TrimSpace(unidecode.Unidecode(string(r)))
	if s == "[?]" {
		return ""
	}
	return s
}
