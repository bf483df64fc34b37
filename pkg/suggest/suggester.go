package suggest

import (
	"cmp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bastiangx/complements/internal/utils"
	"github.com/bastiangx/complements/pkg/index"
	"github.com/bastiangx/complements/pkg/model"
	"github.com/bastiangx/complements/pkg/strutil"
)

// HistoryRanker orders words by how they were picked before.
type HistoryRanker interface {
	// LatestUpdated returns the most recent selection time among words, in unix ms.
	LatestUpdated(words []model.Word) int64
	// Compare is negative when a should rank before b.
	Compare(a, b model.Word, latestUpdated int64) int
}

// FuzzyOptions admits fuzzy matches scoring at most MinMatchScore.
type FuzzyOptions struct {
	MinMatchScore float64
}

// Options are the per call knobs of a strategy.
type Options struct {
	// FrontMatter restricts candidates to the words of this front matter key.
	FrontMatter string
	History     HistoryRanker
	Fuzzy       *FuzzyOptions
}

// judgement is a candidate accepted by a strategy
type judgement struct {
	source *model.Word
	word   model.Word
	alias  bool
	starts bool
	order  int
	fuzzy  strutil.FuzzyResult
}

type judgeFunc func(w *model.Word, query string, upper bool) (judgement, bool)

func suggestByPrefix(words *index.IndexedWords, query string, max int, opts Options) []model.Word {
	return suggestWords(words, query, max, opts, judgeByPrefix, false)
}

func suggestByPartial(words *index.IndexedWords, query string, max int, opts Options) []model.Word {
	return suggestWords(words, query, max, opts, judgeByPartial, true)
}

// startsWithUpper reports whether the first rune of query is upper case
func startsWithUpper(query string) bool {
	r, _ := utf8.DecodeRuneInString(query)
	return unicode.IsUpper(r)
}

// hitValue copies w with Hit on its value, capitalized when the query is
func hitValue(w *model.Word, upper bool) model.Word {
	c := *w
	if upper && w.Type != model.InternalLink && w.Type != model.FrontMatter {
		c.Value = strutil.CapitalizeFirstLetter(c.Value)
	}
	c.Hit = c.Value
	return c
}

func hitAlias(w *model.Word, alias string) model.Word {
	c := *w
	c.Hit = alias
	return c
}

func judgeByPrefix(w *model.Word, query string, upper bool) (judgement, bool) {
	if strutil.LowerStartsWith(w.Value, query) {
		return judgement{word: hitValue(w, upper), starts: true}, true
	}
	for _, alias := range w.Aliases {
		if strutil.LowerStartsWith(alias, query) {
			return judgement{word: hitAlias(w, alias), alias: true, starts: true}, true
		}
	}
	return judgement{}, false
}

func judgeByPartial(w *model.Word, query string, upper bool) (judgement, bool) {
	if j, ok := judgeByPrefix(w, query, upper); ok {
		return j, true
	}
	if strutil.LowerIncludes(w.Value, query) {
		return judgement{word: hitValue(w, false)}, true
	}
	for _, alias := range w.Aliases {
		if strutil.LowerIncludes(alias, query) {
			return judgement{word: hitAlias(w, alias), alias: true}, true
		}
	}
	return judgement{}, false
}

// judgeByFuzzy scores the closest literal of w. A literal containing the
// query scores as a contiguous run.
func judgeByFuzzy(w *model.Word, lowerQuery string, threshold float64) (judgement, bool) {
	best := strutil.FuzzyResult{Kind: strutil.MatchNone}
	hit := ""
	for _, literal := range w.Literals() {
		r := strutil.MicroFuzzy(strings.ToLower(literal), lowerQuery)
		if r.Kind == strutil.MatchConcrete {
			r = strutil.FuzzyResult{Kind: strutil.MatchFuzzy, Score: 1}
		}
		if r.Matched() && (!best.Matched() || strutil.CompareFuzzy(r, best) < 0) {
			best, hit = r, literal
		}
	}
	if !best.Matched() || best.Score > threshold {
		return judgement{}, false
	}

	c := *w
	c.Hit = hit
	return judgement{word: c, alias: hit != w.Value, fuzzy: best}, true
}

type candidate struct {
	word  *model.Word
	order int
}

// candidates returns the words worth judging, numbered in source order.
// Without all, only words with a literal starting with the query are taken.
func candidates(words *index.IndexedWords, query string, opts Options, all bool) []candidate {
	var snapshots []*index.Snapshot
	if opts.FrontMatter != "" {
		if s, ok := words.FrontMatter(opts.FrontMatter); ok {
			snapshots = append(snapshots, s)
		}
	} else {
		for _, idx := range words.Sources() {
			snapshots = append(snapshots, idx.Snapshot())
		}
	}

	lowerQuery := strings.ToLower(query)
	var out []candidate
	for _, s := range snapshots {
		ws := s.Words()
		if !all {
			ws = s.WithPrefix(lowerQuery)
		}
		for _, w := range ws {
			out = append(out, candidate{word: w, order: len(out)})
		}
	}
	return out
}

func suggestWords(words *index.IndexedWords, query string, max int, opts Options, judge judgeFunc, all bool) []model.Word {
	if words == nil || max <= 0 {
		return []model.Word{}
	}

	upper := startsWithUpper(query)
	lowerQuery := strings.ToLower(query)

	var concrete, fuzzy []judgement
	for _, c := range candidates(words, query, opts, all || opts.Fuzzy != nil) {
		if j, ok := judge(c.word, query, upper); ok {
			j.source, j.order = c.word, c.order
			j.fuzzy = strutil.FuzzyResult{Kind: strutil.MatchConcrete}
			concrete = append(concrete, j)
			continue
		}
		if opts.Fuzzy == nil {
			continue
		}
		if j, ok := judgeByFuzzy(c.word, lowerQuery, opts.Fuzzy.MinMatchScore); ok {
			j.source, j.order = c.word, c.order
			fuzzy = append(fuzzy, j)
		}
	}

	var latestUpdated int64
	if opts.History != nil {
		latestUpdated = opts.History.LatestUpdated(sourcesOf(concrete))
	}
	slices.SortStableFunc(concrete, func(a, b judgement) int {
		return compareConcrete(a, b, opts, latestUpdated)
	})
	slices.SortStableFunc(fuzzy, func(a, b judgement) int {
		if c := strutil.CompareFuzzy(a.fuzzy, b.fuzzy); c != 0 {
			return c
		}
		return cmp.Compare(a.order, b.order)
	})

	ranked := wordsOf(append(concrete, fuzzy...))
	if len(ranked) > max {
		ranked = ranked[:max]
	}
	return utils.UniqWith(ranked, func(a, b model.Word) bool {
		return a.Value == b.Value && a.Type.Group() == b.Type.Group()
	})
}

func compareConcrete(a, b judgement, opts Options, latestUpdated int64) int {
	if opts.FrontMatter != "" && a.word.Type != b.word.Type {
		if a.word.Type == model.FrontMatter {
			return -1
		}
		if b.word.Type == model.FrontMatter {
			return 1
		}
	}
	if opts.History != nil {
		// history is keyed by the indexed value, not the capitalized one
		if c := opts.History.Compare(*a.source, *b.source, latestUpdated); c != 0 {
			return c
		}
	}
	if a.starts != b.starts {
		if a.starts {
			return -1
		}
		return 1
	}
	if c := cmp.Compare(utf8.RuneCountInString(a.word.Value), utf8.RuneCountInString(b.word.Value)); c != 0 {
		return c
	}
	if c := cmp.Compare(utf8.RuneCountInString(a.word.Hit), utf8.RuneCountInString(b.word.Hit)); c != 0 {
		return c
	}
	if a.alias != b.alias {
		if b.alias {
			return -1
		}
		return 1
	}
	return cmp.Compare(a.order, b.order)
}

func wordsOf(js []judgement) []model.Word {
	out := make([]model.Word, len(js))
	for i, j := range js {
		out[i] = j.word
	}
	return out
}

func sourcesOf(js []judgement) []model.Word {
	out := make([]model.Word, len(js))
	for i, j := range js {
		out[i] = *j.source
	}
	return out
}
