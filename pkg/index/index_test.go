package index

import (
	"sync"
	"testing"

	"github.com/bastiangx/complements/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func values(words []*model.Word) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = w.Value
	}
	return out
}

func TestRebuildDedupesAndStampsType(t *testing.T) {
	idx := New(model.CurrentFile)
	changed := idx.Rebuild([]model.Word{
		{Value: "obsidian", Description: "first"},
		{Value: "vault"},
		{Value: "obsidian", Description: "second"},
		{Value: ""},
	})
	require.True(t, changed)

	s := idx.Snapshot()
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"obsidian", "vault"}, s.Values())

	w, ok := s.ByValue("obsidian")
	require.True(t, ok)
	assert.Equal(t, "first", w.Description)
	assert.Equal(t, model.CurrentFile, w.Type)
}

func TestRebuildIdempotent(t *testing.T) {
	words := []model.Word{{Value: "a"}, {Value: "b"}, {Value: "c"}}
	idx := New(model.CurrentVault)

	assert.True(t, idx.Rebuild(words))
	first := idx.Snapshot()
	assert.False(t, idx.Rebuild(words))
	assert.ElementsMatch(t, first.Values(), idx.Snapshot().Values())

	reordered := []model.Word{{Value: "c"}, {Value: "a"}, {Value: "b"}}
	assert.True(t, idx.Rebuild(reordered), "order breaks ranking ties")
	assert.False(t, idx.Rebuild(reordered))
	assert.True(t, idx.Rebuild(words[:2]))
	assert.True(t, idx.Clear())
	assert.Zero(t, idx.Snapshot().Len())
}

func TestSnapshotSurvivesRebuild(t *testing.T) {
	idx := New(model.CustomDictionary)
	idx.Rebuild([]model.Word{{Value: "old"}})
	held := idx.Snapshot()

	idx.Rebuild([]model.Word{{Value: "new"}})

	assert.Equal(t, []string{"old"}, held.Values())
	assert.Equal(t, []string{"new"}, idx.Snapshot().Values())
}

func TestWithPrefix(t *testing.T) {
	idx := New(model.CurrentVault)
	idx.Rebuild([]model.Word{
		{Value: "Obsidian"},
		{Value: "note"},
		{Value: "obsolete"},
		{Value: "cbá", Aliases: []string{"cba"}},
		{Value: "Observe", Aliases: []string{"obs"}},
	})
	s := idx.Snapshot()

	assert.Equal(t, []string{"Obsidian", "obsolete", "Observe"}, values(s.WithPrefix("obs")))
	assert.Equal(t, []string{"cbá"}, values(s.WithPrefix("cb")))
	assert.Equal(t, []string{"cbá"}, values(s.WithPrefix("cba")), "alias hit")
	assert.Empty(t, s.WithPrefix("zzz"))
	assert.Len(t, s.WithPrefix(""), 5)
}

func TestConcurrentRebuildAndRead(t *testing.T) {
	idx := New(model.CurrentFile)
	a := []model.Word{{Value: "alpha"}, {Value: "alpine"}}
	b := []model.Word{{Value: "beta"}, {Value: "bravo"}, {Value: "alpha"}}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range 200 {
			if i%2 == 0 {
				idx.Rebuild(a)
			} else {
				idx.Rebuild(b)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for range 200 {
			s := idx.Snapshot()
			n := s.Len()
			assert.True(t, n == 0 || n == 2 || n == 3)
			assert.Len(t, s.Values(), n)
		}
	}()
	wg.Wait()
}

func TestIndexedWordsFrontMatter(t *testing.T) {
	iw := NewIndexedWords()
	assert.Empty(t, iw.FrontMatterKeys())

	changed := iw.RebuildFrontMatter([]model.Word{
		{Value: "draft", Key: "status"},
		{Value: "go", Key: "tags"},
		{Value: "published", Key: "status"},
		{Value: "go", Key: "tags"},
		{Value: "orphan"},
	})
	require.True(t, changed)
	assert.Equal(t, []string{"status", "tags"}, iw.FrontMatterKeys())

	s, ok := iw.FrontMatter("status")
	require.True(t, ok)
	assert.Equal(t, []string{"draft", "published"}, s.Values())
	w, _ := s.ByValue("draft")
	assert.Equal(t, model.FrontMatter, w.Type)

	_, ok = iw.FrontMatter("missing")
	assert.False(t, ok)

	assert.False(t, iw.RebuildFrontMatter([]model.Word{
		{Value: "draft", Key: "status"},
		{Value: "go", Key: "tags"},
		{Value: "published", Key: "status"},
	}), "same values per key")
	assert.True(t, iw.RebuildFrontMatter([]model.Word{
		{Value: "published", Key: "status"},
		{Value: "draft", Key: "status"},
		{Value: "go", Key: "tags"},
	}), "reordered values")
	assert.True(t, iw.RebuildFrontMatter([]model.Word{{Value: "go", Key: "tags"}}))
}

func TestIndexedWordsSources(t *testing.T) {
	iw := NewIndexedWords()
	iw.CurrentFile.Rebuild([]model.Word{{Value: "a"}})
	iw.InternalLink.Rebuild([]model.Word{{Value: "Note"}, {Value: "Other"}})
	iw.RebuildFrontMatter([]model.Word{{Value: "x", Key: "k"}})

	assert.Equal(t, 4, iw.Len())
	assert.Same(t, iw.InternalLink, iw.ByType(model.InternalLink))
	assert.Nil(t, iw.ByType(model.FrontMatter))
	assert.Equal(t, map[string]int{
		"currentFile":      1,
		"currentVault":     0,
		"customDictionary": 0,
		"internalLink":     2,
		"frontMatter":      1,
	}, iw.Stats())
}
