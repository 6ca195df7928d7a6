// CLAUDE:SUMMARY Embedded YAML transliteration tables, parsed once and shared read-only by every engine.
package translit

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

//go:embed rules/*.yaml
var ruleFS embed.FS

// asciiRuleFile holds the final Latin to ASCII table. Every other file
// contributes to the script to Latin table.
const asciiRuleFile = "latin-ascii.yaml"

// ruleFile is the on-disk form of one table.
type ruleFile struct {
	Script string `yaml:"script"`
	// DeriveCase adds upper and title case keys derived from the lower
	// case ones. Defaults to true.
	DeriveCase *bool             `yaml:"derive_case"`
	Rules      map[string]string `yaml:"rules"`
}

// ruleSet is a compiled replacement table keyed by source text.
type ruleSet struct {
	rules map[string]string
	// prefixes holds every proper prefix of a multi-rune key.
	prefixes map[string]struct{}
	maxRunes int
	scripts  []string
}

func newRuleSet() *ruleSet {
	return &ruleSet{
		rules:    make(map[string]string),
		prefixes: make(map[string]struct{}),
		maxRunes: 1,
	}
}

func (s *ruleSet) lookup(key string) (string, bool) {
	out, ok := s.rules[key]
	return out, ok
}

func (s *ruleSet) isPrefix(key string) bool {
	_, ok := s.prefixes[key]
	return ok
}

// add registers key. An explicit rule that conflicts with an earlier one
// is an error; derived rules never override anything.
func (s *ruleSet) add(key, out string, derived bool) error {
	if key == "" {
		return fmt.Errorf("empty rule key")
	}
	if !utf8.ValidString(key) || !utf8.ValidString(out) {
		return fmt.Errorf("rule %q: invalid UTF-8", key)
	}
	if prev, ok := s.rules[key]; ok {
		if derived || prev == out {
			return nil
		}
		return fmt.Errorf("rule %q: conflicting outputs %q and %q", key, prev, out)
	}
	s.rules[key] = out
	n := utf8.RuneCountInString(key)
	if n > s.maxRunes {
		s.maxRunes = n
	}
	for i := range key {
		if i > 0 {
			s.prefixes[key[:i]] = struct{}{}
		}
	}
	return nil
}

type compiledRules struct {
	latin *ruleSet
	ascii *ruleSet
}

// loadRules parses every embedded table. Tables are immutable once
// compiled so they are shared across engines.
var loadRules = sync.OnceValues(func() (*compiledRules, error) {
	return compileRules(ruleFS, "rules")
})

func compileRules(fsys fs.FS, dir string) (*compiledRules, error) {
	names, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no rule files in %s", dir)
	}
	slices.Sort(names)

	c := &compiledRules{latin: newRuleSet(), ascii: newRuleSet()}
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		var rf ruleFile
		if err := yaml.Unmarshal(data, &rf); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		if len(rf.Rules) == 0 {
			return nil, fmt.Errorf("%s: no rules", name)
		}
		dst := c.latin
		if path.Base(name) == asciiRuleFile {
			dst = c.ascii
		}
		if err := dst.addFile(&rf); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	return c, nil
}

func (s *ruleSet) addFile(rf *ruleFile) error {
	keys := make([]string, 0, len(rf.Rules))
	for k := range rf.Rules {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		if err := s.add(k, rf.Rules[k], false); err != nil {
			return err
		}
	}
	if rf.DeriveCase == nil || *rf.DeriveCase {
		for _, k := range keys {
			out := rf.Rules[k]
			upper := strings.ToUpper(k)
			if utf8.RuneCountInString(k) == 1 {
				// Ж -> Ž, Θ -> Th
				s.add(upper, titleCase(out), true)
				continue
			}
			s.add(upper, strings.ToUpper(out), true)
			s.add(titleCase(k), titleCase(out), true)
		}
	}
	s.scripts = append(s.scripts, rf.Script)
	return nil
}

func titleCase(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
