// CLAUDE:SUMMARY Transliteration engine: a fixed x/text transform chain from any script to ASCII.
package translit

import (
	"errors"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrInvalidUTF8 is returned by an Engine fed bytes that do not decode.
var ErrInvalidUTF8 = errors.New("translit: invalid UTF-8")

// Engine converts text from any script to ASCII. The stages run in order:
//
//	any script -> Latin
//	NFKD, drop nonspacing marks
//	spacing accents -> combining, drop symbols, drop nonspacing marks
//	Latin -> ASCII
//
// An Engine holds per-run state and must not be used concurrently. Use a
// Context or a Pool to share one safely.
type Engine struct {
	chain transform.Transformer
}

// NewEngine compiles the embedded rule tables (once per process) and
// builds a fresh transform chain.
func NewEngine() (*Engine, error) {
	rules, err := loadRules()
	if err != nil {
		return nil, err
	}
	return &Engine{
		chain: transform.Chain(
			&anyLatin{set: rules.latin},
			norm.NFKD,
			removeMarks,
			accentsAny,
			removeSymbols,
			removeMarks,
			latinASCII{set: rules.ascii},
		),
	}, nil
}

// Transliterate runs text through the chain. The result is pure ASCII on
// success; invalid input yields ErrInvalidUTF8.
func (e *Engine) Transliterate(text string) (string, error) {
	out, _, err := transform.String(e.chain, text)
	if err != nil {
		return "", err
	}
	return out, nil
}

// Scripts lists the scripts the engine has dedicated tables for.
func Scripts() ([]string, error) {
	rules, err := loadRules()
	if err != nil {
		return nil, err
	}
	return append([]string(nil), rules.latin.scripts...), nil
}
