// CLAUDE:SUMMARY Unicode general category lookup backed by the Go unicode tables, with a dense BMP index built once.
package textnorm

import (
	"sync"
	"unicode"
)

// Category is a two-letter Unicode general category.
type Category uint8

// Unassigned (Cn) is the zero value: a code point found in no table.
const (
	Cn Category = iota
	Lu
	Ll
	Lt
	Lm
	Lo
	Mn
	Mc
	Me
	Nd
	Nl
	No
	Pc
	Pd
	Ps
	Pe
	Pi
	Pf
	Po
	Sm
	Sc
	Sk
	So
	Zs
	Zl
	Zp
	Cc
	Cf
	Cs
	Co

	numCategories
)

var categoryNames = [numCategories]string{
	Cn: "Cn", Lu: "Lu", Ll: "Ll", Lt: "Lt", Lm: "Lm", Lo: "Lo",
	Mn: "Mn", Mc: "Mc", Me: "Me", Nd: "Nd", Nl: "Nl", No: "No",
	Pc: "Pc", Pd: "Pd", Ps: "Ps", Pe: "Pe", Pi: "Pi", Pf: "Pf", Po: "Po",
	Sm: "Sm", Sc: "Sc", Sk: "Sk", So: "So",
	Zs: "Zs", Zl: "Zl", Zp: "Zp",
	Cc: "Cc", Cf: "Cf", Cs: "Cs", Co: "Co",
}

func (c Category) String() string {
	if c >= numCategories {
		return "??"
	}
	return categoryNames[c]
}

// categoryTables lists every assigned category with its range table.
// Order matters only for supplementary-plane lookups, where the most
// populated categories are tried first.
var categoryTables = []struct {
	cat   Category
	table *unicode.RangeTable
}{
	{Lo, unicode.Lo}, {Ll, unicode.Ll}, {Lu, unicode.Lu}, {So, unicode.So},
	{Mn, unicode.Mn}, {Nd, unicode.Nd}, {No, unicode.No}, {Po, unicode.Po},
	{Sm, unicode.Sm}, {Mc, unicode.Mc}, {Lm, unicode.Lm}, {Nl, unicode.Nl},
	{Co, unicode.Co}, {Cf, unicode.Cf}, {Sk, unicode.Sk}, {Sc, unicode.Sc},
	{Lt, unicode.Lt}, {Me, unicode.Me}, {Pd, unicode.Pd}, {Ps, unicode.Ps},
	{Pe, unicode.Pe}, {Pi, unicode.Pi}, {Pf, unicode.Pf}, {Pc, unicode.Pc},
	{Zs, unicode.Zs}, {Zl, unicode.Zl}, {Zp, unicode.Zp}, {Cc, unicode.Cc},
	{Cs, unicode.Cs},
}

var bmpCategories = sync.OnceValue(func() *[0x10000]Category {
	var idx [0x10000]Category
	for _, ct := range categoryTables {
		for _, rg := range ct.table.R16 {
			for r := uint32(rg.Lo); r <= uint32(rg.Hi); r += uint32(rg.Stride) {
				idx[r] = ct.cat
			}
		}
	}
	return &idx
})

// CategoryOf returns the general category of r. Code points outside the
// Unicode range report Cn.
func CategoryOf(r rune) Category {
	if r < 0 || r > unicode.MaxRune {
		return Cn
	}
	if r <= 0xFFFF {
		return bmpCategories()[r]
	}
	for _, ct := range categoryTables {
		if unicode.Is(ct.table, r) {
			return ct.cat
		}
	}
	return Cn
}
