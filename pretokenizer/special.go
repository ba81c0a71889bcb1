package pretokenizer

import (
	"slices"
	"strings"
)

// Fragment is one piece of pretokenized text. Special fragments hold a
// special string verbatim; the rest hold a remapped word.
type Fragment struct {
	Text    string
	Special bool
}

// splitSpecial cuts every occurrence of specials out of s. Specials are
// applied in order; earlier ones win at overlapping positions.
func splitSpecial(s string, specials []string) []Fragment {
	fragments := []Fragment{{Text: s}}
	for _, special := range specials {
		if special == "" || !strings.Contains(s, special) {
			continue
		}

		for i := 0; i < len(fragments); i++ {
			frag := fragments[i]
			if frag.Special {
				continue
			}

			var middle []Fragment
			switch idx := strings.Index(frag.Text, special); {
			case idx < 0:
				middle = append(middle, frag)
			case idx > 0:
				middle = append(middle, Fragment{Text: frag.Text[:idx]})
				fallthrough
			default:
				middle = append(middle, Fragment{Text: special, Special: true})
				if rest := frag.Text[idx+len(special):]; rest != "" {
					middle = append(middle, Fragment{Text: rest})
				}
			}

			fragments = slices.Replace(fragments, i, i+1, middle...)
		}
	}

	return fragments
}

// Fragments splits text like Split but passes specials through untouched.
func (s *Splitter) Fragments(text string, specials []string) ([]Fragment, error) {
	var fragments []Fragment
	for _, frag := range splitSpecial(text, specials) {
		if frag.Special {
			fragments = append(fragments, frag)
			continue
		}

		words, err := s.Split(frag.Text)
		if err != nil {
			return nil, err
		}

		for _, word := range words {
			fragments = append(fragments, Fragment{Text: word})
		}
	}

	return fragments, nil
}
