package codepoint

import (
	"fmt"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagsOf(t *testing.T) {
	cases := []struct {
		cp         rune
		category   Category
		whitespace bool
		lowercase  bool
		uppercase  bool
	}{
		{'a', Letter, false, true, false},
		{'Z', Letter, false, false, true},
		{0xe9, Letter, false, true, false},    // é
		{0x3a3, Letter, false, false, true},   // Σ
		{0x4e00, Letter, false, false, false}, // CJK ideograph
		{'7', Number, false, false, false},
		{0xbd, Number, false, false, false}, // ½
		{' ', Separator, true, false, false},
		{0xa0, Separator, true, false, false},
		{0x3000, Separator, true, false, false},
		{'\n', Control, true, false, false},
		{'\r', Control, true, false, false},
		{0x85, Control, true, false, false},
		{0x200d, Control, false, false, false}, // zero width joiner
		{0xe000, Control, false, false, false}, // private use
		{'!', Punctuation, false, false, false},
		{'\'', Punctuation, false, false, false},
		{'$', Symbol, false, false, false},
		{'+', Symbol, false, false, false},
		{0x1f600, Symbol, false, false, false}, // 😀
		{0x301, AccentMark, false, false, false},
		{0x378, Undefined, false, false, false},
		{0x10ffff, Undefined, false, false, false},
	}

	for _, tt := range cases {
		t.Run(fmt.Sprintf("%U", tt.cp), func(t *testing.T) {
			f := FlagsOf(tt.cp)
			assert.Equal(t, tt.category, f.Category())
			assert.Equal(t, tt.whitespace, f.IsWhitespace())
			assert.Equal(t, tt.lowercase, f.IsLowercase())
			assert.Equal(t, tt.uppercase, f.IsUppercase())
		})
	}
}

func TestFlagsOfTotal(t *testing.T) {
	for cp := rune(0); cp < MaxCodepoints; cp++ {
		if c := FlagsOf(cp).Category(); c > Control {
			t.Fatalf("FlagsOf(%U) has category %d", cp, c)
		}
	}

	assert.True(t, FlagsOf(-1).IsUndefined())
	assert.True(t, FlagsOf(MaxCodepoints).IsUndefined())
	assert.Equal(t, Flags(0), FlagsOf(MaxCodepoints+10))
}

func TestFlagsMatchUnicode(t *testing.T) {
	for cp := rune(0); cp < MaxCodepoints; cp++ {
		f := FlagsOf(cp)
		if f.IsLetter() != unicode.IsLetter(cp) {
			t.Fatalf("%U: IsLetter = %v", cp, f.IsLetter())
		}

		if f.IsNumber() != unicode.IsNumber(cp) {
			t.Fatalf("%U: IsNumber = %v", cp, f.IsNumber())
		}

		if f.IsWhitespace() != unicode.Is(unicode.White_Space, cp) {
			t.Fatalf("%U: IsWhitespace = %v", cp, f.IsWhitespace())
		}
	}
}

func TestFlagsOfString(t *testing.T) {
	assert.True(t, FlagsOfString("").IsUndefined())
	assert.True(t, FlagsOfString("\xff").IsUndefined())
	assert.True(t, FlagsOfString("abc").IsLetter())
	assert.True(t, FlagsOfString("9 lives").IsNumber())
	assert.Equal(t, FlagsOf(0xe9), FlagsOfString("é"))
}

func TestRangeFlagTable(t *testing.T) {
	ranges := rangeFlagTable()
	require.NotEmpty(t, ranges)
	assert.Equal(t, rune(0), ranges[0].start)
	assert.Equal(t, rangeFlag{MaxCodepoints, Undefined}, ranges[len(ranges)-1])

	for i := 1; i < len(ranges); i++ {
		if ranges[i-1].start >= ranges[i].start {
			t.Fatalf("ranges not increasing at %d: %U >= %U", i, ranges[i-1].start, ranges[i].start)
		}
	}

	for i := 1; i < len(ranges)-1; i++ {
		if ranges[i-1].category == ranges[i].category {
			t.Fatalf("adjacent ranges %U and %U share category %s", ranges[i-1].start, ranges[i].start, ranges[i].category)
		}
	}
}

func TestToLower(t *testing.T) {
	cases := map[rune]rune{
		'A':   'a',
		'a':   'a',
		'S':   's',
		'1':   '1',
		0xc4:  0xe4,  // Ä
		0x3a3: 0x3c3, // Σ
		0x410: 0x430, // А
		'\'':  '\'',
	}

	for in, want := range cases {
		assert.Equal(t, want, ToLower(in), "ToLower(%U)", in)
	}
}
