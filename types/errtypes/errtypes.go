// Package errtypes contains custom error types
package errtypes

import (
	"fmt"
)

const (
	InvalidEncodingErrMsg    = "invalid utf-8 encoding"
	InvalidCodepointErrMsg   = "invalid codepoint"
	UnsupportedPatternErrMsg = "pattern mixes unicode categories with non-ASCII characters"
	NotInAlphabetErrMsg      = "codepoint is not part of the byte-level alphabet"
)

type InvalidEncodingError struct {
	Offset int
	Byte   byte
}

func (e *InvalidEncodingError) Error() string {
	return fmt.Sprintf("%s: byte 0x%02x at offset %d", InvalidEncodingErrMsg, e.Byte, e.Offset)
}

type InvalidCodepointError struct {
	Codepoint rune
}

func (e *InvalidCodepointError) Error() string {
	return fmt.Sprintf("%s: 0x%x", InvalidCodepointErrMsg, e.Codepoint)
}

// ConfigurationError reports a pattern the fallback matcher refuses to run
// because its category shorthands cannot be collapsed safely.
type ConfigurationError struct {
	Pattern string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %s", e.Pattern, e.Reason)
}

// PatternError wraps a failure to compile or execute a pattern.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("failed to process pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

type AlphabetError struct {
	Codepoint rune
}

func (e *AlphabetError) Error() string {
	return fmt.Sprintf("%s: %U", NotInAlphabetErrMsg, e.Codepoint)
}
