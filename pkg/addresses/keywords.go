package addresses

import (
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed forms.yaml
var formsYAML []byte

type form struct {
	Form     string   `yaml:"form"`
	Variants []string `yaml:"variants"`
}

// Replacer rewrites known address keywords in a normalized address. Keys
// are matched greedily, longest run of tokens first.
type Replacer struct {
	mapping map[string]string
	// maxTokens is the longest key in tokens.
	maxTokens int
}

// NewReplacer normalizes every form and variant the way addresses are
// normalized so lookups agree with Normalize output.
func NewReplacer(data []byte, latinize bool) (*Replacer, error) {
	var forms []form
	if err := yaml.Unmarshal(data, &forms); err != nil {
		return nil, fmt.Errorf("parse address forms: %w", err)
	}
	r := &Replacer{mapping: make(map[string]string), maxTokens: 1}
	for _, f := range forms {
		canon, ok := Normalize(f.Form, latinize, 1)
		if !ok {
			slog.Warn("address form normalizes to nothing", "form", f.Form)
			continue
		}
		r.set(canon, canon)
		for _, v := range f.Variants {
			norm, ok := Normalize(v, latinize, 1)
			if !ok || norm == canon {
				continue
			}
			if prev, dup := r.mapping[norm]; dup && prev != canon {
				slog.Warn("duplicate address keyword", "variant", norm, "form", canon, "previous", prev)
			}
			r.set(norm, canon)
		}
	}
	return r, nil
}

func (r *Replacer) set(key, value string) {
	r.mapping[key] = value
	if n := strings.Count(key, " ") + 1; n > r.maxTokens {
		r.maxTokens = n
	}
}

// Len reports the number of keys, forms included.
func (r *Replacer) Len() int { return len(r.mapping) }

// apply walks the tokens of address and calls emit for every token or
// matched keyword. Matching ignores case.
func (r *Replacer) apply(address string, emit func(tok, canon string, matched bool)) {
	tokens := strings.Fields(address)
	lower := strings.Fields(strings.ToLower(address))
	if len(lower) != len(tokens) {
		lower = tokens
	}
	for i := 0; i < len(tokens); {
		n := min(r.maxTokens, len(tokens)-i)
		for ; n > 0; n-- {
			if canon, ok := r.mapping[strings.Join(lower[i:i+n], " ")]; ok {
				emit(strings.Join(tokens[i:i+n], " "), canon, true)
				break
			}
		}
		if n == 0 {
			emit(tokens[i], "", false)
			n = 1
		}
		i += n
	}
}

// Shorten replaces every keyword variant with its short form.
func (r *Replacer) Shorten(address string) string {
	out := make([]string, 0, 8)
	r.apply(address, func(tok, canon string, matched bool) {
		if matched {
			tok = canon
		}
		out = append(out, tok)
	})
	return strings.Join(out, " ")
}

// Remove replaces every keyword, short or long, with replacement.
// Surrounding spaces are kept, so the output may hold runs of spaces.
func (r *Replacer) Remove(address, replacement string) string {
	out := make([]string, 0, 8)
	r.apply(address, func(tok, _ string, matched bool) {
		if matched {
			tok = replacement
		}
		out = append(out, tok)
	})
	return strings.Join(out, " ")
}

var replacers = [2]func() (*Replacer, error){
	sync.OnceValues(func() (*Replacer, error) { return NewReplacer(formsYAML, false) }),
	sync.OnceValues(func() (*Replacer, error) { return NewReplacer(formsYAML, true) }),
}

// Keywords returns the shared replacer for the embedded address forms.
func Keywords(latinize bool) (*Replacer, error) {
	if latinize {
		return replacers[1]()
	}
	return replacers[0]()
}

func mustKeywords(latinize bool) *Replacer {
	r, err := Keywords(latinize)
	if err != nil {
		panic(err)
	}
	return r
}

// ShortenKeywords shortens common address keywords ("street" -> "st") in an
// address already passed through Normalize with the same latinize flag.
func ShortenKeywords(address string, latinize bool) string {
	return mustKeywords(latinize).Shorten(address)
}

// RemoveKeywords replaces common address keywords with replacement.
// Consecutive spaces in the output are not collapsed.
func RemoveKeywords(address string, latinize bool, replacement string) string {
	return mustKeywords(latinize).Remove(address, replacement)
}
