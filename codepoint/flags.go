package codepoint

import (
	"cmp"
	"log/slog"
	"slices"
	"sync"
	"time"
	"unicode"

	"github.com/ollama/pretokenizer/logutil"
)

// Category is the primary Unicode category of a codepoint. Every codepoint
// has exactly one.
type Category uint8

const (
	Undefined Category = iota
	Number
	Letter
	Separator
	AccentMark
	Punctuation
	Symbol
	Control
)

func (c Category) String() string {
	switch c {
	case Number:
		return "number"
	case Letter:
		return "letter"
	case Separator:
		return "separator"
	case AccentMark:
		return "accent_mark"
	case Punctuation:
		return "punctuation"
	case Symbol:
		return "symbol"
	case Control:
		return "control"
	default:
		return "undefined"
	}
}

// Flags packs a codepoint's category with its whitespace, case and NFD marks.
// The zero value describes an undefined codepoint.
type Flags uint16

const (
	categoryMask Flags = 0x0f

	flagWhitespace Flags = 1 << (iota + 3)
	flagLowercase
	flagUppercase
	flagNFD
)

func (f Flags) Category() Category  { return Category(f & categoryMask) }
func (f Flags) IsUndefined() bool   { return f.Category() == Undefined }
func (f Flags) IsNumber() bool      { return f.Category() == Number }
func (f Flags) IsLetter() bool      { return f.Category() == Letter }
func (f Flags) IsSeparator() bool   { return f.Category() == Separator }
func (f Flags) IsAccentMark() bool  { return f.Category() == AccentMark }
func (f Flags) IsPunctuation() bool { return f.Category() == Punctuation }
func (f Flags) IsSymbol() bool      { return f.Category() == Symbol }
func (f Flags) IsControl() bool     { return f.Category() == Control }
func (f Flags) IsWhitespace() bool  { return f&flagWhitespace != 0 }
func (f Flags) IsLowercase() bool   { return f&flagLowercase != 0 }
func (f Flags) IsUppercase() bool   { return f&flagUppercase != 0 }
func (f Flags) IsNFD() bool         { return f&flagNFD != 0 }

func (f Flags) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("category", f.Category().String()),
		slog.Bool("whitespace", f.IsWhitespace()),
		slog.Bool("lowercase", f.IsLowercase()),
		slog.Bool("uppercase", f.IsUppercase()),
		slog.Bool("nfd", f.IsNFD()),
	)
}

// rangeFlag starts a half-open range that runs until the next entry's start.
type rangeFlag struct {
	start    rune
	category Category
}

var categoryTables = []struct {
	category Category
	table    *unicode.RangeTable
}{
	{Number, unicode.N},
	{Letter, unicode.L},
	{Separator, unicode.Z},
	{AccentMark, unicode.M},
	{Punctuation, unicode.P},
	{Symbol, unicode.S},
	// Cc, Cf, Co and Cs; unassigned codepoints stay undefined
	{Control, unicode.C},
}

// rangeFlagTable derives the range table from the Unicode data compiled into
// the unicode package. The last entry is a sentinel at MaxCodepoints.
func rangeFlagTable() []rangeFlag {
	type span struct {
		lo, hi   rune
		category Category
	}

	var spans []span
	add := func(lo, hi, stride rune, category Category) {
		if stride == 1 {
			spans = append(spans, span{lo, hi, category})
			return
		}

		for cp := lo; cp <= hi; cp += stride {
			spans = append(spans, span{cp, cp, category})
		}
	}

	for _, t := range categoryTables {
		for _, r := range t.table.R16 {
			add(rune(r.Lo), rune(r.Hi), rune(r.Stride), t.category)
		}
		for _, r := range t.table.R32 {
			add(rune(r.Lo), rune(r.Hi), rune(r.Stride), t.category)
		}
	}

	slices.SortFunc(spans, func(a, b span) int {
		return cmp.Compare(a.lo, b.lo)
	})

	var ranges []rangeFlag
	emit := func(start rune, category Category) {
		if n := len(ranges); n > 0 && ranges[n-1].category == category {
			return
		}

		ranges = append(ranges, rangeFlag{start, category})
	}

	var next rune
	for _, s := range spans {
		if s.lo > next {
			emit(next, Undefined)
		}

		emit(s.lo, s.category)
		next = s.hi + 1
	}

	if next < MaxCodepoints {
		emit(next, Undefined)
	}

	return append(ranges, rangeFlag{MaxCodepoints, Undefined})
}

var flagsTable = sync.OnceValue(func() []Flags {
	t := time.Now()
	ranges := rangeFlagTable()

	table := make([]Flags, MaxCodepoints)
	for i := 1; i < len(ranges); i++ {
		for cp := ranges[i-1].start; cp < ranges[i].start; cp++ {
			table[cp] = Flags(ranges[i-1].category)
		}
	}

	eachRune(unicode.White_Space, func(cp rune) {
		table[cp] |= flagWhitespace
	})

	for _, cr := range unicode.CaseRanges {
		for cp := rune(cr.Lo); cp <= rune(cr.Hi); cp++ {
			if lower := unicode.ToLower(cp); lower != cp {
				table[lower] |= flagLowercase
			}

			if upper := unicode.ToUpper(cp); upper != cp {
				table[upper] |= flagUppercase
			}
		}
	}

	for _, r := range nfdTable() {
		table[r.target] |= flagNFD
	}

	logutil.Logger().Debug("codepoint flags table built", "ranges", len(ranges), "elapsed", time.Since(t))
	return table
})

func eachRune(t *unicode.RangeTable, fn func(rune)) {
	for _, r := range t.R16 {
		for cp := rune(r.Lo); cp <= rune(r.Hi); cp += rune(r.Stride) {
			fn(cp)
		}
	}
	for _, r := range t.R32 {
		for cp := rune(r.Lo); cp <= rune(r.Hi); cp += rune(r.Stride) {
			fn(cp)
		}
	}
}

// FlagsOf returns the flags of cp. Codepoints outside the table are undefined.
func FlagsOf(cp rune) Flags {
	if cp < 0 || cp >= MaxCodepoints {
		return 0
	}

	return flagsTable()[cp]
}

// FlagsOfString returns the flags of the first codepoint in s. Empty or
// malformed input is undefined.
func FlagsOfString(s string) Flags {
	if s == "" {
		return 0
	}

	cp, _, err := decodeRune(s, 0)
	if err != nil {
		return 0
	}

	return FlagsOf(cp)
}

// ToLower returns the simple lowercase mapping of cp, or cp if it has none.
func ToLower(cp rune) rune {
	return unicode.ToLower(cp)
}
