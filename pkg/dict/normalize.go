// CLAUDE:SUMMARY Dictionary key normalizers built on the name, address and transliteration pipelines.
package dict

import (
	"strings"

	"github.com/hazyhaar/touchstone-normalize/pkg/addresses"
	"github.com/hazyhaar/touchstone-normalize/pkg/names"
	"github.com/hazyhaar/touchstone-normalize/pkg/textnorm"
	"github.com/hazyhaar/touchstone-normalize/pkg/translit"
)

// Normalizer transforms a term before lookup. An empty result means the
// term has no usable key.
type Normalizer func(string) string

// Normalizer modes accepted in manifest format.normalize.
const (
	ModeName         = "name"
	ModeNameASCII    = "name_ascii"
	ModeAddress      = "address"
	ModeAddressLatin = "address_latin"
	ModeASCII        = "ascii"
	ModeCasefold     = "casefold"
	ModeNone         = "none"
)

// Modes lists every valid normalizer mode.
var Modes = []string{ModeName, ModeNameASCII, ModeAddress, ModeAddressLatin, ModeASCII, ModeCasefold, ModeNone}

// ValidMode reports whether mode names a normalizer. The empty string is
// valid and selects ModeName.
func ValidMode(mode string) bool {
	if mode == "" {
		return true
	}
	for _, m := range Modes {
		if m == mode {
			return true
		}
	}
	return false
}

// NewNormalizer returns the normalizer for mode, transliterating through
// tr where the mode needs it. Unknown modes fall back to ModeName.
func NewNormalizer(mode string, tr translit.Transliterator) Normalizer {
	if tr == nil {
		tr = translit.Default()
	}
	switch mode {
	case ModeNameASCII:
		return func(s string) string { return normalizeName(tr.ASCII(s)) }
	case ModeAddress:
		return func(s string) string {
			out, _ := addresses.NormalizeWith(tr, s, false, 1)
			return out
		}
	case ModeAddressLatin:
		return func(s string) string {
			out, _ := addresses.NormalizeWith(tr, s, true, 1)
			return out
		}
	case ModeASCII:
		return func(s string) string { return strings.ToLower(strings.TrimSpace(tr.ASCII(s))) }
	case ModeCasefold:
		return func(s string) string { return textnorm.Fold(strings.TrimSpace(s)) }
	case ModeNone:
		return func(s string) string { return s }
	default:
		return normalizeName
	}
}

func normalizeName(s string) string {
	out, _ := names.Normalize(s, names.DefaultSeparator)
	return out
}
