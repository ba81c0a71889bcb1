// Package pretokenizer cuts text into the words a byte-level BPE vocabulary
// merges within. Words never cross the boundaries chosen here.
package pretokenizer

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ollama/pretokenizer/bytelevel"
	"github.com/ollama/pretokenizer/codepoint"
	"github.com/ollama/pretokenizer/envconfig"
	"github.com/ollama/pretokenizer/logutil"
)

// Splitter applies an ordered list of patterns, each one refining the
// segments left by the previous.
type Splitter struct {
	patterns []*Pattern
}

// New compiles exprs. A splitter without expressions keeps the whole text
// as a single segment.
func New(exprs []string, opts ...Option) (*Splitter, error) {
	s := Splitter{patterns: make([]*Pattern, len(exprs))}
	for i, expr := range exprs {
		p, err := Compile(expr, opts...)
		if err != nil {
			return nil, err
		}

		logutil.Logger().Debug("pretokenizer pattern", "index", i, "kind", p.Kind(), "collapsed", p.collapsed)
		s.patterns[i] = p
	}

	return &s, nil
}

// NewDefault returns a splitter for the GPT2 pattern.
func NewDefault(opts ...Option) (*Splitter, error) {
	return New([]string{GPT2}, opts...)
}

// Offsets returns the lengths in codepoints of consecutive segments of cps.
func (s *Splitter) Offsets(cps []rune) ([]int, error) {
	if len(cps) == 0 {
		return nil, nil
	}

	collapsed := sync.OnceValue(func() []rune { return collapse(cps) })

	offsets := []int{len(cps)}
	for _, p := range s.patterns {
		var err error
		switch p.kind {
		case KindGPT2:
			offsets = splitGPT2(cps, offsets)
		case KindLlama3:
			offsets = splitLlama3(cps, offsets)
		default:
			text := cps
			if p.collapsed {
				text = collapsed()
			}

			if offsets, err = p.split(text, offsets); err != nil {
				return nil, err
			}
		}
	}

	return offsets, nil
}

type lazyOffsets []int

func (o lazyOffsets) LogValue() slog.Value {
	return slog.AnyValue(fmt.Sprint([]int(o)))
}

// Words splits text into segments without remapping them.
func (s *Splitter) Words(text string) ([]string, error) {
	cps, err := codepoint.Decode(text)
	if err != nil {
		return nil, err
	}

	offsets, err := s.Offsets(cps)
	if err != nil {
		return nil, err
	}

	logutil.Trace("split", "codepoints", len(cps), "offsets", lazyOffsets(offsets))

	words := make([]string, 0, len(offsets))
	var start int
	for _, n := range offsets {
		word, err := codepoint.EncodeAll(cps[start : start+n])
		if err != nil {
			return nil, err
		}

		words = append(words, word)
		start += n
	}

	return words, nil
}

// Split splits text and remaps every word into the byte-level alphabet.
func (s *Splitter) Split(text string) ([]string, error) {
	words, err := s.Words(text)
	if err != nil {
		return nil, err
	}

	return bytelevel.RemapWords(words)
}

var splitters = sync.OnceValue(func() *lru.Cache[string, *Splitter] {
	cache, err := lru.New[string, *Splitter](max(envconfig.PatternCacheSize, 1))
	if err != nil {
		panic(err)
	}

	return cache
})

// Split splits text with the patterns exprs, reusing splitters compiled by
// earlier calls.
func Split(text string, exprs []string) ([]string, error) {
	key := strings.Join(exprs, "\x00")
	s, ok := splitters().Get(key)
	if !ok {
		var err error
		if s, err = New(exprs); err != nil {
			return nil, err
		}

		splitters().Add(key, s)
	}

	return s.Split(text)
}
