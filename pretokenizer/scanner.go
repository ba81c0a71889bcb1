package pretokenizer

import (
	"github.com/ollama/pretokenizer/codepoint"
)

// scanner walks one segment and records the lengths of the tokens it cuts.
// Positions past either end of the segment read as codepoint 0 with
// undefined flags, which terminates every run.
type scanner struct {
	cps     []rune
	prev    int
	offsets []int
}

func (s *scanner) at(pos int) rune {
	if pos < 0 || pos >= len(s.cps) {
		return 0
	}

	return s.cps[pos]
}

func (s *scanner) flags(pos int) codepoint.Flags {
	if pos < 0 || pos >= len(s.cps) {
		return 0
	}

	return codepoint.FlagsOf(s.cps[pos])
}

// emit closes the token running from the previous cut to end and returns end.
func (s *scanner) emit(end int) int {
	if n := end - s.prev; n > 0 {
		s.offsets = append(s.offsets, n)
	}

	s.prev = end
	return end
}

// isSymbol reports codepoints matched by [^\s\p{L}\p{N}].
func isSymbol(f codepoint.Flags) bool {
	return !(f.IsWhitespace() || f.IsLetter() || f.IsNumber() || f.IsUndefined())
}

func isCRLF(cp rune) bool {
	return cp == '\r' || cp == '\n'
}

// contraction returns the length of an apostrophe contraction starting at
// pos, or 0. fold maps codepoints before they are compared.
func (s *scanner) contraction(pos int, fold func(rune) rune) int {
	if s.at(pos) != '\'' || pos+1 >= len(s.cps) {
		return 0
	}

	switch next := fold(s.at(pos + 1)); next {
	case 's', 't', 'm', 'd':
		return 2
	case 'r', 'v', 'l':
		if pos+2 >= len(s.cps) {
			return 0
		}

		want := 'e'
		if next == 'l' {
			want = 'l'
		}

		if fold(s.at(pos+2)) == want {
			return 3
		}
	}

	return 0
}

// segments runs fn over every segment described by offsets and collects the
// refined offsets.
func segments(cps []rune, offsets []int, fn func(*scanner)) []int {
	refined := make([]int, 0, len(offsets))
	var start int
	for _, n := range offsets {
		s := scanner{cps: cps[start : start+n], offsets: refined}
		fn(&s)
		refined = s.offsets
		start += n
	}

	return refined
}

func identity(r rune) rune { return r }

// splitGPT2 reproduces
//
//	's|'t|'re|'ve|'m|'ll|'d| ?\p{L}+| ?\p{N}+| ?[^\s\p{L}\p{N}]+|\s+(?!\S)|\s+
func splitGPT2(cps []rune, offsets []int) []int {
	return segments(cps, offsets, func(s *scanner) {
		for pos := 0; pos < len(s.cps); {
			if n := s.contraction(pos, identity); n > 0 {
				pos = s.emit(pos + n)
				continue
			}

			cp := s.at(pos)
			f := s.flags(pos)

			// a single leading space joins the run that follows it
			lead := 0
			if cp == ' ' {
				lead = 1
				f = s.flags(pos + 1)
			}

			switch {
			case f.IsLetter():
				pos += lead
				for s.flags(pos).IsLetter() {
					pos++
				}
				pos = s.emit(pos)
				continue
			case f.IsNumber():
				pos += lead
				for s.flags(pos).IsNumber() {
					pos++
				}
				pos = s.emit(pos)
				continue
			case isSymbol(f):
				pos += lead
				for isSymbol(s.flags(pos)) {
					pos++
				}
				pos = s.emit(pos)
				continue
			}

			pos = s.whitespace(pos)
		}
	})
}

// whitespace handles \s+(?!\S)|\s+ and, failing both, a single codepoint.
func (s *scanner) whitespace(pos int) int {
	n := 0
	for s.flags(pos + n).IsWhitespace() {
		n++
	}

	switch {
	case n > 1 && pos+n < len(s.cps):
		// leave the last whitespace for the token that follows
		return s.emit(pos + n - 1)
	case n > 0:
		return s.emit(pos + n)
	default:
		return s.emit(pos + 1)
	}
}

// splitLlama3 reproduces
//
//	(?i:'s|'t|'re|'ve|'m|'ll|'d)|[^\r\n\p{L}\p{N}]?\p{L}+|\p{N}{1,3}| ?[^\s\p{L}\p{N}]+[\r\n]*|\s*[\r\n]+|\s+(?!\S)|\s+
func splitLlama3(cps []rune, offsets []int) []int {
	return segments(cps, offsets, func(s *scanner) {
		for pos := 0; pos < len(s.cps); {
			if n := s.contraction(pos, codepoint.ToLower); n > 0 {
				pos = s.emit(pos + n)
				continue
			}

			cp := s.at(pos)
			f := s.flags(pos)

			if !isCRLF(cp) && !f.IsNumber() && (f.IsLetter() || s.flags(pos+1).IsLetter()) {
				pos++
				for s.flags(pos).IsLetter() {
					pos++
				}
				pos = s.emit(pos)
				continue
			}

			if f.IsNumber() {
				start := pos
				for s.flags(pos).IsNumber() {
					pos++
					if pos-start == 3 {
						s.emit(pos)
						start = pos
					}
				}
				pos = s.emit(pos)
				continue
			}

			lead := 0
			if cp == ' ' {
				lead = 1
				f = s.flags(pos + 1)
			}

			if isSymbol(f) {
				pos += lead
				for isSymbol(s.flags(pos)) {
					pos++
				}
				for isCRLF(s.at(pos)) {
					pos++
				}
				pos = s.emit(pos)
				continue
			}

			// \s*[\r\n]+ takes the whitespace run up to its last line break
			n, end := 0, 0
			for s.flags(pos + n).IsWhitespace() {
				if isCRLF(s.at(pos + n)) {
					end = pos + n + 1
				}
				n++
			}

			if end > 0 {
				pos = s.emit(end)
				continue
			}

			pos = s.whitespace(pos)
		}
	})
}
