// CLAUDE:SUMMARY Per-mode category->action tables (address, name) and their override sets.
package textnorm

// Action is what the tokenizer does with a code point.
type Action uint8

// Keep is the zero value, so a category absent from a table is kept.
const (
	// Keep appends the code point to the current token.
	Keep Action = iota
	// Skip drops the code point without ending the token.
	Skip
	// Whitespace drops the code point and ends the current token.
	Whitespace
)

func (a Action) String() string {
	switch a {
	case Keep:
		return "keep"
	case Skip:
		return "skip"
	case Whitespace:
		return "whitespace"
	default:
		return "unknown"
	}
}

// Mode selects a classification table and its overrides.
type Mode uint8

const (
	// Address keeps ASCII alphanumerics, '&' and '№' regardless of category.
	Address Mode = iota
	// Name silently drops apostrophes and periods so O'Brien stays one token.
	Name
)

func (m Mode) String() string {
	switch m {
	case Address:
		return "address"
	case Name:
		return "name"
	default:
		return "unknown"
	}
}

type modeRules struct {
	actions  [numCategories]Action
	override func(r rune) (Action, bool)
}

var modes = [...]modeRules{
	Address: {
		actions: [numCategories]Action{
			Lu: Keep, Ll: Keep, Lt: Keep, Lo: Keep,
			Nd: Keep, Nl: Keep, No: Skip,
			Lm: Skip,
			Mn: Skip, Mc: Whitespace, Me: Skip,
			Pc: Whitespace, Pd: Whitespace, Ps: Whitespace, Pe: Whitespace,
			Pi: Whitespace, Pf: Whitespace, Po: Whitespace,
			Sm: Whitespace, Sc: Skip, Sk: Skip, So: Whitespace,
			Zs: Whitespace, Zl: Whitespace, Zp: Whitespace,
			Cc: Whitespace, Cf: Skip,
			Cs: Skip, Co: Skip, Cn: Skip,
		},
		override: addressOverride,
	},
	Name: {
		actions: [numCategories]Action{
			Lu: Keep, Ll: Keep, Lt: Keep, Lo: Keep,
			Nd: Keep, Nl: Keep, No: Skip,
			Lm: Skip,
			Mn: Skip, Mc: Whitespace, Me: Skip,
			Pc: Whitespace, Pd: Whitespace, Ps: Whitespace, Pe: Whitespace,
			Pi: Whitespace, Pf: Whitespace, Po: Whitespace,
			Sm: Whitespace, Sc: Skip, Sk: Skip, So: Whitespace,
			Zs: Whitespace, Zl: Whitespace, Zp: Whitespace,
			Cc: Whitespace, Cf: Skip,
			Cs: Skip, Co: Skip, Cn: Skip,
		},
		override: nameOverride,
	},
}

func addressOverride(r rune) (Action, bool) {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return Keep, true
	case r == '&', r == '№':
		return Keep, true
	}
	return Keep, false
}

func nameOverride(r rune) (Action, bool) {
	switch r {
	case '\'', '’', '.':
		return Skip, true
	}
	return Keep, false
}

// Classify resolves the action for r in the given mode: the mode override
// first, then the category table.
func Classify(mode Mode, r rune) Action {
	if int(mode) >= len(modes) {
		return Keep
	}
	rules := &modes[mode]
	if a, ok := rules.override(r); ok {
		return a
	}
	return rules.actions[CategoryOf(r)]
}
