// Package bytelevel maps raw bytes onto a printable alphabet of 256
// codepoints so any byte sequence can be carried as ordinary text by a
// byte-level BPE vocabulary.
package bytelevel

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ollama/pretokenizer/codepoint"
	"github.com/ollama/pretokenizer/types/errtypes"
)

type alphabet struct {
	chars [256]rune
	bytes map[rune]byte
}

// printable bytes are their own codepoints; every other byte value is
// assigned the next codepoint from 256 upwards, in byte order
var table = sync.OnceValue(func() *alphabet {
	a := alphabet{bytes: make(map[rune]byte, 256)}

	var assigned [256]bool
	for _, r := range [][2]int{{0x21, 0x7e}, {0xa1, 0xac}, {0xae, 0xff}} {
		for b := r[0]; b <= r[1]; b++ {
			a.chars[b] = rune(b)
			assigned[b] = true
		}
	}

	n := 0
	for b := 0; b < 256; b++ {
		if !assigned[b] {
			a.chars[b] = rune(256 + n)
			n++
		}
	}

	for b, r := range a.chars {
		a.bytes[r] = byte(b)
	}

	return &a
})

// ByteToChar returns the printable codepoint standing in for b.
func ByteToChar(b byte) rune {
	return table().chars[b]
}

// ByteToString is ByteToChar encoded as UTF-8.
func ByteToString(b byte) string {
	return string(ByteToChar(b))
}

// LookupByte returns the byte r stands for and whether r is part of the
// alphabet at all.
func LookupByte(r rune) (byte, bool) {
	b, ok := table().bytes[r]
	return b, ok
}

// CharToByte is the inverse of ByteToChar. It panics if r is not part of the
// alphabet.
func CharToByte(r rune) byte {
	b, ok := LookupByte(r)
	if !ok {
		panic(fmt.Sprintf("bytelevel: %U is not in the byte-level alphabet", r))
	}

	return b
}

// StringToByte is CharToByte for s, which must hold exactly one codepoint.
func StringToByte(s string) byte {
	cps, err := codepoint.Decode(s)
	if err != nil || len(cps) != 1 {
		panic(fmt.Sprintf("bytelevel: %q is not in the byte-level alphabet", s))
	}

	return CharToByte(cps[0])
}

// Remap re-encodes word through the UTF-8 codec and replaces each resulting
// byte with its printable codepoint.
func Remap(word string) (string, error) {
	cps, err := codepoint.Decode(word)
	if err != nil {
		return "", err
	}

	raw, err := codepoint.EncodeAll(cps)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.Grow(2 * len(raw))
	for i := 0; i < len(raw); i++ {
		sb.WriteRune(ByteToChar(raw[i]))
	}

	return sb.String(), nil
}

// RemapWords applies Remap to every word. It fails on the first word that
// is not valid UTF-8.
func RemapWords(words []string) ([]string, error) {
	remapped := make([]string, len(words))
	for i, word := range words {
		var err error
		if remapped[i], err = Remap(word); err != nil {
			return nil, fmt.Errorf("word %d: %w", i, err)
		}
	}

	return remapped, nil
}

// Restore inverts Remap, returning the raw bytes word stands for.
func Restore(word string) ([]byte, error) {
	cps, err := codepoint.Decode(word)
	if err != nil {
		return nil, err
	}

	raw := make([]byte, len(cps))
	for i, r := range cps {
		b, ok := LookupByte(r)
		if !ok {
			return nil, &errtypes.AlphabetError{Codepoint: r}
		}

		raw[i] = b
	}

	return raw, nil
}
