// Package codepoint decodes UTF-8 and classifies codepoints by Unicode
// category for the pretokenizer.
package codepoint

import (
	"github.com/ollama/pretokenizer/types/errtypes"
)

// MaxCodepoints is the size of the codepoint space, one past U+10FFFF.
const MaxCodepoints = 0x110000

// Decode converts UTF-8 text into codepoints. Surrogate values are decoded
// as-is so they survive a round trip through Encode.
func Decode(s string) ([]rune, error) {
	cps := make([]rune, 0, len(s))
	for offset := 0; offset < len(s); {
		cp, n, err := decodeRune(s, offset)
		if err != nil {
			return nil, err
		}

		cps = append(cps, cp)
		offset += n
	}

	return cps, nil
}

func decodeRune(s string, offset int) (rune, int, error) {
	b := s[offset]
	var n int
	var cp rune
	switch {
	case b&0x80 == 0:
		return rune(b), 1, nil
	case b&0x40 == 0:
		// continuation byte in leading position
		return 0, 0, &errtypes.InvalidEncodingError{Offset: offset, Byte: b}
	case b&0x20 == 0:
		n, cp = 2, rune(b&0x1f)
	case b&0x10 == 0:
		n, cp = 3, rune(b&0x0f)
	case b&0x08 == 0:
		n, cp = 4, rune(b&0x07)
	default:
		return 0, 0, &errtypes.InvalidEncodingError{Offset: offset, Byte: b}
	}

	if offset+n > len(s) {
		return 0, 0, &errtypes.InvalidEncodingError{Offset: offset, Byte: b}
	}

	for i := 1; i < n; i++ {
		c := s[offset+i]
		if c&0xc0 != 0x80 {
			return 0, 0, &errtypes.InvalidEncodingError{Offset: offset + i, Byte: c}
		}

		cp = cp<<6 | rune(c&0x3f)
	}

	if cp >= MaxCodepoints {
		return 0, 0, &errtypes.InvalidEncodingError{Offset: offset, Byte: b}
	}

	return cp, n, nil
}

// Encode returns the UTF-8 encoding of cp.
func Encode(cp rune) ([]byte, error) {
	return AppendRune(make([]byte, 0, 4), cp)
}

// AppendRune appends the UTF-8 encoding of cp to dst. Unlike utf8.AppendRune,
// surrogates are encoded rather than replaced with U+FFFD.
func AppendRune(dst []byte, cp rune) ([]byte, error) {
	switch {
	case cp < 0:
		return dst, &errtypes.InvalidCodepointError{Codepoint: cp}
	case cp <= 0x7f:
		return append(dst, byte(cp)), nil
	case cp <= 0x7ff:
		return append(dst,
			0xc0|byte(cp>>6&0x1f),
			0x80|byte(cp&0x3f),
		), nil
	case cp <= 0xffff:
		return append(dst,
			0xe0|byte(cp>>12&0x0f),
			0x80|byte(cp>>6&0x3f),
			0x80|byte(cp&0x3f),
		), nil
	case cp < MaxCodepoints:
		return append(dst,
			0xf0|byte(cp>>18&0x07),
			0x80|byte(cp>>12&0x3f),
			0x80|byte(cp>>6&0x3f),
			0x80|byte(cp&0x3f),
		), nil
	default:
		return dst, &errtypes.InvalidCodepointError{Codepoint: cp}
	}
}

// EncodeAll concatenates the UTF-8 encodings of cps.
func EncodeAll(cps []rune) (string, error) {
	b := make([]byte, 0, len(cps))
	for _, cp := range cps {
		var err error
		if b, err = AppendRune(b, cp); err != nil {
			return "", err
		}
	}

	return string(b), nil
}
