package suggest

import (
	"strings"
	"unicode/utf8"

	"github.com/bastiangx/complements/pkg/index"
	"github.com/bastiangx/complements/pkg/model"
	"github.com/bastiangx/complements/pkg/strutil"
	"github.com/bastiangx/complements/pkg/tokenizer"
	"github.com/charmbracelet/log"
)

// DefaultLimit is used when a request sets no limit.
const DefaultLimit = 10

// History is a HistoryRanker that can also record selections.
type History interface {
	HistoryRanker
	Increment(w model.Word)
}

// Request carries the per call settings of a completion.
type Request struct {
	// Strategy defaults to the completer's strategy when zero or Inherit.
	Strategy       MatchStrategy
	Limit          int
	MinQueryLength int
	FrontMatter    string
	Fuzzy          *FuzzyOptions
}

// Result is what Complete found. Offset is the byte offset of Query in the
// completed text, so the caller knows which span the suggestion replaces.
type Result struct {
	Query  string
	Offset int
	Words  []model.Word
}

// Completer ties the indexes, the tokenizer and the selection history together.
type Completer struct {
	words    *index.IndexedWords
	tok      tokenizer.Tokenizer
	strategy MatchStrategy
	history  History
}

// NewCompleter creates a completer. An Inherit strategy falls back to Prefix.
func NewCompleter(words *index.IndexedWords, tok tokenizer.Tokenizer, strategy MatchStrategy) *Completer {
	return &Completer{
		words:    words,
		tok:      tok,
		strategy: strategy.Resolve(Prefix),
	}
}

// SetHistory enables history ranking and recording. nil disables it.
func (c *Completer) SetHistory(h History) {
	c.history = h
}

func (c *Completer) Words() *index.IndexedWords { return c.words }

func (c *Completer) Tokenizer() tokenizer.Tokenizer { return c.tok }

// Strategy returns the default strategy.
func (c *Completer) Strategy() MatchStrategy { return c.strategy }

// Complete suggests words for the end of text, the text before the cursor.
// Candidate queries are tried from the longest suffix to the shortest and
// the first one with results wins.
func (c *Completer) Complete(text string, req Request) Result {
	strategy := req.Strategy.Resolve(c.strategy)
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	opts := Options{FrontMatter: req.FrontMatter, Fuzzy: req.Fuzzy}
	if c.history != nil {
		opts.History = c.history
	}

	for _, token := range c.tok.RecursiveTokenize(text) {
		query := token.Word
		if c.tok.ShouldIgnoreOnCurrent(query) || utf8.RuneCountInString(query) < req.MinQueryLength {
			continue
		}

		words, err := strategy.Run(c.words, query, limit, opts)
		if err != nil {
			log.Errorf("Completion for %q failed: %v", query, err)
			return Result{Words: []model.Word{}}
		}
		if len(words) > 0 {
			log.Debugf("%d suggestions for %q at %d (%s)", len(words), query, token.Offset, strategy)
			return Result{Query: query, Offset: token.Offset, Words: words}
		}
	}
	return Result{Words: []model.Word{}}
}

// Select records that w was inserted. w may be a suggestion capitalized
// after the query; history is kept under the indexed value.
func (c *Completer) Select(w model.Word) {
	if c.history == nil {
		return
	}
	c.history.Increment(c.indexed(w))
}

// indexed returns the source word w was suggested from, w itself when the
// index no longer has it.
func (c *Completer) indexed(w model.Word) model.Word {
	idx := c.words.ByType(w.Type)
	if idx == nil {
		return w
	}
	snapshot := idx.Snapshot()
	if src, ok := snapshot.ByValue(w.Value); ok {
		return *src
	}
	for _, src := range snapshot.WithPrefix(strings.ToLower(w.Value)) {
		if strutil.CapitalizeFirstLetter(src.Value) == w.Value {
			return *src
		}
	}
	return w
}

// Stats reports the size of every index.
func (c *Completer) Stats() map[string]int {
	stats := c.words.Stats()
	stats["totalWords"] = c.words.Len()
	return stats
}
