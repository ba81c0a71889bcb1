package pretokenizer

import (
	"time"

	"github.com/dlclark/regexp2"

	"github.com/ollama/pretokenizer/envconfig"
	"github.com/ollama/pretokenizer/types/errtypes"
)

const (
	// GPT2 is the byte-level pretokenizer used by GPT-2 and most BPE
	// vocabularies derived from it. It is the default when no pattern is given.
	GPT2 = `'s|'t|'re|'ve|'m|'ll|'d| ?\p{L}+| ?\p{N}+| ?[^\s\p{L}\p{N}]+|\s+(?!\S)|\s+`

	// Llama3 is the pretokenizer used by LLaMA 3 style vocabularies.
	Llama3 = `(?i:'s|'t|'re|'ve|'m|'ll|'d)|[^\r\n\p{L}\p{N}]?\p{L}+|\p{N}{1,3}| ?[^\s\p{L}\p{N}]+[\r\n]*|\s*[\r\n]+|\s+(?!\S)|\s+`
)

// spellings of the same expressions found in vocabulary metadata
const (
	gpt2Lookahead    = `'s|'t|'re|'ve|'m|'ll|'d| ?\p{L}+| ?\p{N}+| ?[^\s\p{L}\p{N}]+|\s+(?!\S)`
	llama3CaseTokens = `(?:'[sS]|'[tT]|'[rR][eE]|'[vV][eE]|'[mM]|'[lL][lL]|'[dD])|[^\r\n\p{L}\p{N}]?\p{L}+|\p{N}{1,3}| ?[^\s\p{L}\p{N}]+[\r\n]*|\s*[\r\n]+|\s+(?!\S)|\s+`
)

func resolve(expr string) Kind {
	switch expr {
	case GPT2, gpt2Lookahead:
		return KindGPT2
	case Llama3, llama3CaseTokens:
		return KindLlama3
	default:
		return KindGeneric
	}
}

// Kind is the implementation a pattern resolves to.
type Kind int

const (
	KindGeneric Kind = iota
	KindGPT2
	KindLlama3
)

func (k Kind) String() string {
	switch k {
	case KindGPT2:
		return "gpt2"
	case KindLlama3:
		return "llama3"
	default:
		return "generic"
	}
}

type options struct {
	nativeCategories bool
	matchTimeout     time.Duration
}

type Option func(*options)

// WithNativeCategories lets the regular expression engine evaluate \p{..}
// classes directly instead of matching against collapsed text. Patterns may
// then mix categories with non-ASCII literals.
func WithNativeCategories(native bool) Option {
	return func(o *options) {
		o.nativeCategories = native
	}
}

// WithMatchTimeout bounds a single match of a generic pattern. Zero means no
// limit.
func WithMatchTimeout(d time.Duration) Option {
	return func(o *options) {
		o.matchTimeout = d
	}
}

func newOptions(opts []Option) options {
	o := options{
		nativeCategories: envconfig.NativeCategories,
		matchTimeout:     envconfig.MatchTimeout,
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// Pattern is a pretokenizer expression resolved to either a fast-path
// scanner or a compiled regular expression. It is safe for concurrent use.
type Pattern struct {
	expr string
	kind Kind

	re        *regexp2.Regexp
	collapsed bool
}

// Compile resolves expr. Known GPT-2 and LLaMA 3 expressions use dedicated
// scanners; anything else is compiled with regexp2.
func Compile(expr string, opts ...Option) (*Pattern, error) {
	if kind := resolve(expr); kind != KindGeneric {
		return &Pattern{expr: expr, kind: kind}, nil
	}

	o := newOptions(opts)

	p := Pattern{expr: expr, kind: KindGeneric}

	source := expr
	if !o.nativeCategories && usesCategories(expr) {
		var err error
		if source, err = collapsePattern(expr); err != nil {
			return nil, err
		}

		p.collapsed = true
	}

	re, err := regexp2.Compile(source, regexp2.RE2)
	if err != nil {
		return nil, &errtypes.PatternError{Pattern: expr, Err: err}
	}

	if o.matchTimeout > 0 {
		re.MatchTimeout = o.matchTimeout
	}

	p.re = re
	return &p, nil
}

func (p *Pattern) String() string {
	return p.expr
}

func (p *Pattern) Kind() Kind {
	return p.kind
}
