package pretokenizer

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ollama/pretokenizer/types/errtypes"
)

func TestCollapsePattern(t *testing.T) {
	cases := []struct {
		expr string
		want string
	}{
		{`\p{N}+`, `[\xD1\x30-\x39]+`},
		{`\p{L}+|[\p{N}\s]+`, `[\xD2\x41-\x5A\x61-\x7A]+|[\xD1\x30-\x39\s]+`},
		{`[^\s\p{L}\p{N}]+`, `[^\s\xD2\x41-\x5A\x61-\x7A\xD1\x30-\x39]+`},
		{`\p{P}`, `[\xD3\x21-\x23\x25-\x2A\x2C-\x2F\x3A-\x3B\x3F-\x40\x5B-\x5D\x5F\x7B\x7D]`},
		{`[\]]\p{N}`, `[\]][\xD1\x30-\x39]`},
		{`\p{Lu}`, `\p{Lu}`},
	}

	for _, tt := range cases {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := collapsePattern(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCollapse(t *testing.T) {
	// the no-break space is a separator and takes the fallback sentinel
	got := collapse([]rune("a1!\u65e5\u0663\u3001 \U0001f600\u00a0"))
	want := []rune{'a', '1', '!', 0xd2, 0xd1, 0xd3, ' ', 0xd0, 0xd0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("no match (-want +got):\n%s", diff)
	}
}

func TestCompile(t *testing.T) {
	cases := []struct {
		expr      string
		kind      Kind
		collapsed bool
	}{
		{GPT2, KindGPT2, false},
		{gpt2Lookahead, KindGPT2, false},
		{Llama3, KindLlama3, false},
		{llama3CaseTokens, KindLlama3, false},
		{`\p{N}+`, KindGeneric, true},
		{`\s+`, KindGeneric, false},
	}

	for _, tt := range cases {
		t.Run(tt.expr, func(t *testing.T) {
			p, err := Compile(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, p.Kind())
			assert.Equal(t, tt.collapsed, p.collapsed)
			assert.Equal(t, tt.expr, p.String())
		})
	}
}

func TestCompileErrors(t *testing.T) {
	t.Run("mixed literal", func(t *testing.T) {
		_, err := Compile(`\p{L}+|é`)

		var target *errtypes.ConfigurationError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, `\p{L}+|é`, target.Pattern)
	})

	t.Run("mixed literal native", func(t *testing.T) {
		p, err := Compile(`\p{L}+|é`, WithNativeCategories(true))
		require.NoError(t, err)
		assert.False(t, p.collapsed)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := Compile(`(`)

		var target *errtypes.PatternError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, `(`, target.Pattern)
		assert.Error(t, errors.Unwrap(err))
	})

	t.Run("invalid collapsed", func(t *testing.T) {
		_, err := Compile(`\p{N}(`)

		var target *errtypes.PatternError
		require.ErrorAs(t, err, &target)
	})
}

func TestMatchTimeout(t *testing.T) {
	p, err := Compile(`\s+`, WithMatchTimeout(5*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, p.re.MatchTimeout)
}

func TestGeneric(t *testing.T) {
	cases := []struct {
		name   string
		exprs  []string
		native bool
		text   string
		want   []string
	}{
		{"gaps", []string{`\p{N}+`}, false, "abc123def", []string{"abc", "123", "def"}},
		{"collapsed letters", []string{`\p{N}+`}, false, "日本123語", []string{"日本", "123", "語"}},
		{"collapsed numbers", []string{`\p{N}+`}, false, "x٣٤y", []string{"x", "٣٤", "y"}},
		{"native numbers", []string{`\p{N}+`}, true, "x٣٤y", []string{"x", "٣٤", "y"}},
		{"punctuation", []string{`\p{P}+`}, false, "a、b!!c", []string{"a", "、", "b", "!!", "c"}},
		{"plain", []string{`\s+`}, false, "a  b", []string{"a", "  ", "b"}},
		{"empty matches", []string{`x*`}, false, "abxc", []string{"a", "b", "x", "c"}},
		{"no match", []string{`\d+`}, false, "abc", []string{"abc"}},
		{"native literal", []string{`é+|\p{L}`}, true, "céé", []string{"c", "éé"}},
		{"refined", []string{Llama3, `\p{N}`}, false, "abc 12345", []string{"abc", " ", "1", "2", "3", "4", "5"}},
		{"refined generic first", []string{`\s+`, GPT2}, false, "a b", []string{"a", " ", "b"}},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.exprs, WithNativeCategories(tt.native))
			require.NoError(t, err)

			got, err := s.Words(tt.text)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("no match (-want +got):\n%s", diff)
			}
		})
	}
}
