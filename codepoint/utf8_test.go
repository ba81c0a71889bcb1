package codepoint

import (
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ollama/pretokenizer/types/errtypes"
)

func TestRoundTrip(t *testing.T) {
	for cp := rune(0); cp < MaxCodepoints; cp++ {
		b, err := Encode(cp)
		if err != nil {
			t.Fatalf("Encode(%U): %v", cp, err)
		}

		cps, err := Decode(string(b))
		if err != nil {
			t.Fatalf("Decode(Encode(%U)): %v", cp, err)
		}

		if len(cps) != 1 || cps[0] != cp {
			t.Fatalf("Decode(Encode(%U)) = %U", cp, cps)
		}
	}
}

func TestEncodeMatchesStdlib(t *testing.T) {
	for cp := rune(0); cp < MaxCodepoints; cp += 7 {
		if !utf8.ValidRune(cp) {
			continue
		}

		got, err := Encode(cp)
		require.NoError(t, err)
		if want := utf8.AppendRune(nil, cp); string(got) != string(want) {
			t.Fatalf("Encode(%U) = % x, want % x", cp, got, want)
		}
	}
}

func TestEncodeInvalid(t *testing.T) {
	for _, cp := range []rune{-1, MaxCodepoints, 0x7fffffff} {
		_, err := Encode(cp)

		var target *errtypes.InvalidCodepointError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, cp, target.Codepoint)
	}
}

func TestDecode(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []rune
	}{
		{"empty", "", []rune{}},
		{"ascii", "abc", []rune{'a', 'b', 'c'}},
		{"two bytes", "é", []rune{0xe9}},
		{"three bytes", "€", []rune{0x20ac}},
		{"four bytes", "𝄞", []rune{0x1d11e}},
		{"mixed", "a€𝄞", []rune{'a', 0x20ac, 0x1d11e}},
		{"surrogate", "\xed\xa0\x80", []rune{0xd800}},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeInvalid(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		offset int
		b      byte
	}{
		{"leading continuation", "\x80", 0, 0x80},
		{"truncated two bytes", "a\xc3", 1, 0xc3},
		{"truncated three bytes", "\xe2\x82", 0, 0xe2},
		{"truncated four bytes", "\xf0\x9d\x84", 0, 0xf0},
		{"bad continuation", "a\xc3\x28", 2, 0x28},
		{"five byte lead", "\xf8\x88\x80\x80\x80", 0, 0xf8},
		{"all bits set", "\xff", 0, 0xff},
		{"above max", "\xf4\x90\x80\x80", 0, 0xf4},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			cps, err := Decode(tt.input)
			assert.Nil(t, cps)

			var target *errtypes.InvalidEncodingError
			if !errors.As(err, &target) {
				t.Fatalf("expected InvalidEncodingError, got %v", err)
			}

			assert.Equal(t, tt.offset, target.Offset)
			assert.Equal(t, tt.b, target.Byte)
		})
	}
}

func TestEncodeAll(t *testing.T) {
	s, err := EncodeAll([]rune{'h', 0xe9, 0x20ac, 0x1d11e})
	require.NoError(t, err)
	assert.Equal(t, "hé€𝄞", s)

	_, err = EncodeAll([]rune{'a', -5})
	var target *errtypes.InvalidCodepointError
	require.ErrorAs(t, err, &target)
}
