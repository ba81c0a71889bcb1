package codepoint

import (
	"sort"
	"sync"

	"golang.org/x/text/unicode/norm"
)

// nfdLimit bounds the planes scanned for canonical decompositions; nothing
// above the CJK compatibility supplement decomposes.
const nfdLimit = 0x30000

type nfdRange struct {
	first, last rune
	target      rune
}

// nfdTable maps every codepoint with a canonical decomposition to the first
// codepoint of its full decomposition, merging neighbours with equal targets.
var nfdTable = sync.OnceValue(func() []nfdRange {
	var ranges []nfdRange
	for cp := rune(0); cp < nfdLimit; cp++ {
		if cp >= 0xd800 && cp <= 0xdfff {
			continue
		}

		target, ok := decompose(cp)
		if !ok {
			continue
		}

		if n := len(ranges); n > 0 && ranges[n-1].last == cp-1 && ranges[n-1].target == target {
			ranges[n-1].last = cp
			continue
		}

		ranges = append(ranges, nfdRange{first: cp, last: cp, target: target})
	}

	return ranges
})

const (
	hangulFirst = 0xac00
	hangulLast  = 0xd7a3

	// syllables sharing a leading consonant form runs of 21 vowels * 28 trailing consonants
	hangulRun   = 588
	leadingJamo = 0x1100
)

// decompose follows canonical decompositions until it reaches a codepoint that
// has none. Hangul syllables decompose algorithmically to their leading jamo.
func decompose(cp rune) (rune, bool) {
	if cp >= hangulFirst && cp <= hangulLast {
		return leadingJamo + (cp-hangulFirst)/hangulRun, true
	}

	var buf [4]byte
	target, decomposed := cp, false
	for {
		b, err := AppendRune(buf[:0], target)
		if err != nil {
			return cp, false
		}

		d := norm.NFD.Properties(b).Decomposition()
		if len(d) == 0 {
			return target, decomposed
		}

		first, _, err := decodeRune(string(d), 0)
		if err != nil || first == target {
			return target, decomposed
		}

		target, decomposed = first, true
	}
}

// NormalizeNFD replaces every codepoint that has a canonical decomposition
// with the base codepoint it decomposes to. The result has the same length.
func NormalizeNFD(cps []rune) []rune {
	ranges := nfdTable()
	normalized := make([]rune, len(cps))
	for i, cp := range cps {
		normalized[i] = cp

		j := sort.Search(len(ranges), func(j int) bool {
			return ranges[j].first > cp
		}) - 1
		if j >= 0 && ranges[j].first <= cp && cp <= ranges[j].last {
			normalized[i] = ranges[j].target
		}
	}

	return normalized
}
