package pretokenizer

import (
	"fmt"
	"strings"

	"github.com/ollama/pretokenizer/codepoint"
	"github.com/ollama/pretokenizer/types/errtypes"
)

// Generic patterns that use category shorthands run against a collapsed copy
// of the text in which every non-ASCII codepoint is replaced by one sentinel
// per category. Each shorthand in the pattern is rewritten into a class
// holding its sentinel and the ASCII members of the category.
// ref: https://github.com/ggerganov/llama.cpp/pull/6920#issuecomment-2081479935
var shorthands = []struct {
	shorthand string
	category  codepoint.Category
	sentinel  rune
	ascii     string
}{
	{`\p{N}`, codepoint.Number, 0xd1, `\x30-\x39`},
	{`\p{L}`, codepoint.Letter, 0xd2, `\x41-\x5A\x61-\x7A`},
	{`\p{P}`, codepoint.Punctuation, 0xd3, `\x21-\x23\x25-\x2A\x2C-\x2F\x3A-\x3B\x3F-\x40\x5B-\x5D\x5F\x7B\x7D`},
}

// sentinelOther stands in for non-ASCII codepoints of any other category.
const sentinelOther rune = 0xd0

func usesCategories(expr string) bool {
	for _, s := range shorthands {
		if strings.Contains(expr, s.shorthand) {
			return true
		}
	}

	return false
}

func collapse(cps []rune) []rune {
	collapsed := make([]rune, len(cps))
	for i, cp := range cps {
		collapsed[i] = cp
		if cp < 0x80 {
			continue
		}

		collapsed[i] = sentinelOther
		category := codepoint.FlagsOf(cp).Category()
		for _, s := range shorthands {
			if s.category == category {
				collapsed[i] = s.sentinel
				break
			}
		}
	}

	return collapsed
}

// collapsePattern rewrites the category shorthands in expr. Literal
// non-ASCII characters cannot match collapsed text so they are rejected.
func collapsePattern(expr string) (string, error) {
	cps, err := codepoint.Decode(expr)
	if err != nil {
		return "", &errtypes.PatternError{Pattern: expr, Err: err}
	}

	for _, cp := range cps {
		if cp >= 0x80 {
			return "", &errtypes.ConfigurationError{Pattern: expr, Reason: errtypes.UnsupportedPatternErrMsg}
		}
	}

	var sb strings.Builder
	// character classes do not nest, so a shorthand inside one only
	// contributes its members
	var inside bool
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		switch {
		case c == '[' && (i == 0 || expr[i-1] != '\\'):
			inside = true
			sb.WriteByte(c)
			continue
		case c == ']' && inside && expr[i-1] != '\\':
			inside = false
			sb.WriteByte(c)
			continue
		}

		if c == '\\' && i+4 < len(expr) && expr[i+1] == 'p' && expr[i+2] == '{' && expr[i+4] == '}' {
			if class, ok := classFor(expr[i : i+5]); ok {
				if !inside {
					class = "[" + class + "]"
				}

				sb.WriteString(class)
				i += 4
				continue
			}
		}

		sb.WriteByte(c)
	}

	return sb.String(), nil
}

func classFor(shorthand string) (string, bool) {
	for _, s := range shorthands {
		if s.shorthand == shorthand {
			return fmt.Sprintf(`\x%02X%s`, s.sentinel, s.ascii), true
		}
	}

	return "", false
}

// split refines offsets with the matches of p over text. Text between
// matches becomes a segment of its own; empty matches add nothing.
func (p *Pattern) split(text []rune, offsets []int) ([]int, error) {
	refined := make([]int, 0, len(offsets))
	var start int
	for _, n := range offsets {
		segment := text[start : start+n]
		start += n

		var prev int
		m, err := p.re.FindRunesMatch(segment)
		for m != nil {
			if m.Index > prev {
				refined = append(refined, m.Index-prev)
			}

			if m.Length > 0 {
				refined = append(refined, m.Length)
			}

			prev = m.Index + m.Length
			m, err = p.re.FindNextMatch(m)
		}

		if err != nil {
			return nil, &errtypes.PatternError{Pattern: p.expr, Err: err}
		}

		if prev < n {
			refined = append(refined, n-prev)
		}
	}

	return refined, nil
}
