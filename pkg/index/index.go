/*
Package index keeps the words of each source in an immutable snapshot.

A snapshot holds the words in insertion order, a patricia trie keyed by the
lower-cased value and aliases of every word, and a value lookup. Rebuild
builds a whole new snapshot and swaps it in atomically, so a query that took
a snapshot keeps a consistent view while a refresh runs.
*/
package index

import (
	"slices"
	"strings"
	"sync/atomic"

	"github.com/bastiangx/complements/internal/utils"
	"github.com/bastiangx/complements/pkg/model"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Snapshot is a read-only view of one index.
type Snapshot struct {
	words   []*model.Word
	trie    *patricia.Trie
	byValue map[string]int
}

var emptySnapshot = newSnapshot(nil, "")

// newSnapshot keeps the first word of every value and stamps wordType on
// words that have none.
func newSnapshot(words []model.Word, wordType model.WordType) *Snapshot {
	unique := utils.UniqBy(words, func(w model.Word) string { return w.Value })

	s := &Snapshot{
		words:   make([]*model.Word, 0, len(unique)),
		trie:    patricia.NewTrie(),
		byValue: make(map[string]int, len(unique)),
	}
	for _, w := range unique {
		if w.Value == "" {
			continue
		}
		if w.Type == "" {
			w.Type = wordType
		}
		w.Aliases = slices.Clone(w.Aliases)

		pos := len(s.words)
		word := w
		s.words = append(s.words, &word)
		s.byValue[w.Value] = pos
		for _, literal := range word.Literals() {
			if literal != "" {
				s.insert(strings.ToLower(literal), pos)
			}
		}
	}
	return s
}

// insert appends pos to the positions stored under key
func (s *Snapshot) insert(key string, pos int) {
	prefix := patricia.Prefix(key)
	item := s.trie.Get(prefix)
	if item == nil {
		s.trie.Insert(prefix, []int{pos})
		return
	}
	positions := item.([]int)
	if !slices.Contains(positions, pos) {
		s.trie.Set(prefix, append(positions, pos))
	}
}

// Len returns the number of words.
func (s *Snapshot) Len() int {
	return len(s.words)
}

// Words returns the words in insertion order. Callers must not modify them.
func (s *Snapshot) Words() []*model.Word {
	return s.words
}

// Values returns the word values in insertion order.
func (s *Snapshot) Values() []string {
	values := make([]string, len(s.words))
	for i, w := range s.words {
		values[i] = w.Value
	}
	return values
}

// ByValue finds the word with exactly this value.
func (s *Snapshot) ByValue(value string) (*model.Word, bool) {
	pos, ok := s.byValue[value]
	if !ok {
		return nil, false
	}
	return s.words[pos], true
}

// WithPrefix returns, in insertion order, the words whose value or one of
// whose aliases starts with lowerPrefix. lowerPrefix must be lower-cased.
func (s *Snapshot) WithPrefix(lowerPrefix string) []*model.Word {
	var positions []int
	err := s.trie.VisitSubtree(patricia.Prefix(lowerPrefix), func(p patricia.Prefix, item patricia.Item) error {
		positions = append(positions, item.([]int)...)
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting trie subtree: %v", err)
		return nil
	}

	slices.Sort(positions)
	positions = slices.Compact(positions)

	out := make([]*model.Word, len(positions))
	for i, pos := range positions {
		out[i] = s.words[pos]
	}
	return out
}

// Index is the independently refreshable word index of one source.
type Index struct {
	wordType model.WordType
	snapshot atomic.Pointer[Snapshot]
}

// New creates an empty index for words of wordType.
func New(wordType model.WordType) *Index {
	idx := &Index{wordType: wordType}
	idx.snapshot.Store(emptySnapshot)
	return idx
}

// Type returns the word type of the source.
func (i *Index) Type() model.WordType {
	return i.wordType
}

// Snapshot returns the current view. It stays valid after later rebuilds.
func (i *Index) Snapshot() *Snapshot {
	return i.snapshot.Load()
}

// Rebuild replaces the index with words. A later word with a value already
// seen is dropped. changed reports whether the values or their order differ
// from the previous snapshot; order breaks ranking ties.
func (i *Index) Rebuild(words []model.Word) (changed bool) {
	next := newSnapshot(words, i.wordType)
	prev := i.snapshot.Swap(next)

	changed = !sameValues(prev, next)
	log.Debugf("Rebuilt %s index: %d words (changed: %t)", i.wordType, next.Len(), changed)
	return changed
}

// sameValues reports whether a and b hold the same values in the same order.
func sameValues(a, b *Snapshot) bool {
	av, bv := a.Values(), b.Values()
	if !utils.EqualsAsSet(av, bv) {
		return false
	}
	if !utils.ArrayEquals(av, bv, -1) {
		log.Debugf("Same %d values in a new order", len(bv))
		return false
	}
	return true
}

// Clear empties the index.
func (i *Index) Clear() bool {
	return i.Rebuild(nil)
}
