package strutil

import (
	"cmp"
	"strings"
)

// MatchKind tags a FuzzyResult.
type MatchKind int

const (
	MatchNone MatchKind = iota
	MatchConcrete
	MatchFuzzy
)

func (k MatchKind) String() string {
	switch k {
	case MatchConcrete:
		return "concrete"
	case MatchFuzzy:
		return "fuzzy"
	default:
		return "none"
	}
}

// FuzzyResult is the outcome of matching one value against one query.
// Score only means something for MatchFuzzy; lower is closer.
type FuzzyResult struct {
	Kind  MatchKind
	Score float64
}

// Matched reports whether the result is a concrete or fuzzy match.
func (r FuzzyResult) Matched() bool {
	return r.Kind != MatchNone
}

// MicroFuzzy matches query against value.
//
// An empty query, or one found verbatim inside value, is a concrete match.
// Otherwise, if the runes of query appear in value in order, the match is
// fuzzy and scored by the span they cover divided by the query length, so
// 1.0 is a contiguous run and larger values are more spread out.
func MicroFuzzy(value, query string) FuzzyResult {
	if query == "" || strings.Contains(value, query) {
		return FuzzyResult{Kind: MatchConcrete}
	}

	q := []rune(query)
	qi := 0
	first, last := -1, -1
	pos := 0
	for _, r := range value {
		if r == q[qi] {
			if first < 0 {
				first = pos
			}
			last = pos
			qi++
			if qi == len(q) {
				return FuzzyResult{
					Kind:  MatchFuzzy,
					Score: float64(last-first+1) / float64(len(q)),
				}
			}
		}
		pos++
	}
	return FuzzyResult{Kind: MatchNone}
}

// CompareFuzzy orders results from best to worst: concrete matches, then fuzzy
// matches by ascending score, then misses.
func CompareFuzzy(a, b FuzzyResult) int {
	if c := cmp.Compare(rank(a.Kind), rank(b.Kind)); c != 0 {
		return c
	}
	if a.Kind == MatchFuzzy {
		return cmp.Compare(a.Score, b.Score)
	}
	return 0
}

func rank(k MatchKind) int {
	switch k {
	case MatchConcrete:
		return 0
	case MatchFuzzy:
		return 1
	default:
		return 2
	}
}
