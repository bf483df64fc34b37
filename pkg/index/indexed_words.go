package index

import (
	"maps"
	"slices"
	"sync/atomic"

	"github.com/bastiangx/complements/internal/utils"
	"github.com/bastiangx/complements/pkg/model"
	"github.com/charmbracelet/log"
)

// IndexedWords holds one index per word source. Front matter words get one
// index per front matter key, swapped as a whole.
type IndexedWords struct {
	CurrentFile      *Index
	CurrentVault     *Index
	CustomDictionary *Index
	InternalLink     *Index

	frontMatter atomic.Pointer[map[string]*Snapshot]
}

// NewIndexedWords creates empty indexes for every source.
func NewIndexedWords() *IndexedWords {
	iw := &IndexedWords{
		CurrentFile:      New(model.CurrentFile),
		CurrentVault:     New(model.CurrentVault),
		CustomDictionary: New(model.CustomDictionary),
		InternalLink:     New(model.InternalLink),
	}
	empty := map[string]*Snapshot{}
	iw.frontMatter.Store(&empty)
	return iw
}

// Sources returns the non front matter indexes in the order their words are
// offered as candidates.
func (iw *IndexedWords) Sources() []*Index {
	return []*Index{iw.CurrentFile, iw.CustomDictionary, iw.InternalLink, iw.CurrentVault}
}

// ByType returns the index holding words of t, nil for FrontMatter.
func (iw *IndexedWords) ByType(t model.WordType) *Index {
	for _, idx := range iw.Sources() {
		if idx.Type() == t {
			return idx
		}
	}
	return nil
}

// FrontMatter returns the snapshot of the words found under key.
func (iw *IndexedWords) FrontMatter(key string) (*Snapshot, bool) {
	s, ok := (*iw.frontMatter.Load())[key]
	return s, ok
}

// FrontMatterKeys lists the known front matter keys in sorted order.
func (iw *IndexedWords) FrontMatterKeys() []string {
	return slices.Sorted(maps.Keys(*iw.frontMatter.Load()))
}

// RebuildFrontMatter replaces every front matter index with words grouped by
// their Key. changed reports whether any key, value or value order differs.
func (iw *IndexedWords) RebuildFrontMatter(words []model.Word) (changed bool) {
	grouped := utils.GroupBy(words, func(w model.Word) string { return w.Key })
	delete(grouped, "")

	next := make(map[string]*Snapshot, len(grouped))
	for key, ws := range grouped {
		next[key] = newSnapshot(ws, model.FrontMatter)
	}
	prev := *iw.frontMatter.Swap(&next)

	changed = len(prev) != len(next)
	for key, s := range next {
		if changed {
			break
		}
		old, ok := prev[key]
		changed = !ok || !sameValues(old, s)
	}
	log.Debugf("Rebuilt front matter indexes: %d keys (changed: %t)", len(next), changed)
	return changed
}

// Len returns the number of words over every source, front matter included.
func (iw *IndexedWords) Len() int {
	n := 0
	for _, idx := range iw.Sources() {
		n += idx.Snapshot().Len()
	}
	for _, s := range *iw.frontMatter.Load() {
		n += s.Len()
	}
	return n
}

// Stats reports the word count of every source.
func (iw *IndexedWords) Stats() map[string]int {
	stats := make(map[string]int, 5)
	for _, idx := range iw.Sources() {
		stats[string(idx.Type())] = idx.Snapshot().Len()
	}
	fm := 0
	for _, s := range *iw.frontMatter.Load() {
		fm += s.Len()
	}
	stats[string(model.FrontMatter)] = fm
	return stats
}
