package index

import (
	"testing"

	"github.com/bastiangx/complements/pkg/model"
	"github.com/bastiangx/complements/pkg/strutil"
	"github.com/bastiangx/complements/pkg/tokenizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordsFromText(t *testing.T) {
	tok, err := tokenizer.Default.New(tokenizer.Options{})
	require.NoError(t, err)

	words := WordsFromText(tok, "I am tadashi-aikawa. I like café and 🍰cake, v1.2.3!", TextOptions{
		Type:      model.CurrentFile,
		Path:      "notes/today.md",
		MinLength: 2,
		Aliases:   strutil.AliasOptions{Emoji: true, AccentsDiacritics: true},
	})

	got := make([]string, len(words))
	for i, w := range words {
		got[i] = w.Value
	}
	assert.Equal(t, []string{"am", "tadashi-aikawa", "like", "café", "and", "🍰cake", "v1.2.3"}, got)

	assert.Equal(t, []string{"cafe"}, words[3].Aliases)
	assert.Equal(t, []string{"cake"}, words[5].Aliases)
	assert.Empty(t, words[0].Aliases)
	assert.Equal(t, model.CurrentFile, words[0].Type)
	assert.Equal(t, "notes/today.md", words[0].CreatedPath)
}

func TestParseDictionary(t *testing.T) {
	content := "# comment line\r\n" +
		"obsidian\tA note app\tobs\tObsidian.md\n" +
		"\n" +
		"console.log(<CARET>)\tlog it\n" +
		"multi\\nline\n" +
		"back\\\\slash\n" +
		"cbá\t\t\tcba\n" +
		"   \n"

	words := ParseDictionary(content, DictionaryOptions{
		CaretSymbol: "<CARET>",
		Path:        "dict.txt",
		Aliases:     strutil.AliasOptions{AccentsDiacritics: true},
	})
	require.Len(t, words, 5)

	assert.Equal(t, model.Word{
		Value:       "obsidian",
		Description: "A note app",
		Aliases:     []string{"obs", "Obsidian.md"},
		Type:        model.CustomDictionary,
		CreatedPath: "dict.txt",
	}, words[0])

	assert.Equal(t, "console.log(<CARET>)", words[1].Value)
	assert.Equal(t, "<CARET>", words[1].CaretSymbol)
	assert.Equal(t, "log it", words[1].Description)

	assert.Equal(t, "multi\nline", words[2].Value)
	assert.Empty(t, words[2].CaretSymbol)
	assert.Equal(t, `back\slash`, words[3].Value)

	assert.Equal(t, "cbá", words[4].Value)
	assert.Equal(t, []string{"cba"}, words[4].Aliases, "explicit and folded alias merged")
}

func TestParseDictionaryDelimiter(t *testing.T) {
	words := ParseDictionary("go,a language,golang\nrust,,", DictionaryOptions{Delimiter: ","})
	require.Len(t, words, 2)
	assert.Equal(t, "a language", words[0].Description)
	assert.Equal(t, []string{"golang"}, words[0].Aliases)
	assert.Equal(t, "rust", words[1].Value)
	assert.Empty(t, words[1].Aliases)
}

func TestParseFrontMatter(t *testing.T) {
	testCases := []struct {
		content     string
		ok          bool
		description string
	}{
		{"---\ntitle: Hello\n---\nbody", true, "Fenced block"},
		{"---\r\ntitle: Hello\r\n---\r\n", true, "CRLF"},
		{"title: Hello\n---\n", false, "No opening fence"},
		{"---\ntitle: Hello\n", false, "No closing fence"},
		{"---\n: [broken\n---\n", false, "Malformed YAML"},
		{"---\n---\n", false, "Empty block"},
		{"", false, "Empty content"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			fm, ok := ParseFrontMatter(tc.content)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, "Hello", fm["title"])
			}
		})
	}
}

func TestFrontMatterWordsAndAliases(t *testing.T) {
	notes := []Note{
		{Path: "a.md", Content: "---\ntags: [go, cli]\nstatus: draft\nmeta:\n  nested: skipped\nrating: 5\n---\n"},
		{Path: "b.md", Content: "no front matter"},
	}

	words := FrontMatterWords(notes, strutil.AliasOptions{})
	var got [][2]string
	for _, w := range words {
		got = append(got, [2]string{w.Key, w.Value})
		assert.Equal(t, model.FrontMatter, w.Type)
		assert.Equal(t, "a.md", w.CreatedPath)
	}
	assert.Equal(t, [][2]string{
		{"rating", "5"},
		{"status", "draft"},
		{"tags", "go"},
		{"tags", "cli"},
	}, got)

	assert.Equal(t, []string{"one", "two"}, FrontMatterAliases(map[string]any{"aliases": []any{"one", "two"}}))
	assert.Equal(t, []string{"one", "two"}, FrontMatterAliases(map[string]any{"alias": "one, two"}))
	assert.Nil(t, FrontMatterAliases(map[string]any{"title": "x"}))
}

func TestInternalLinkWords(t *testing.T) {
	notes := []Note{
		{Path: "vault/Go Patterns.md", Content: "---\naliases:\n  - patterns\n  - Motifs Gó\n---\n"},
		{Path: "vault/daily/2024-01-01.md"},
		{Path: "vault/Go Patterns.md"},
	}

	words := InternalLinkWords(notes, strutil.AliasOptions{AccentsDiacritics: true})
	require.Len(t, words, 3)

	assert.Equal(t, "Go Patterns", words[0].Value)
	assert.Equal(t, model.InternalLink, words[0].Type)
	assert.Equal(t, []string{"patterns", "Motifs Gó", "Motifs Go"}, words[0].Aliases)
	assert.Equal(t, "2024-01-01", words[1].Value)
	assert.Empty(t, words[1].Aliases)

	idx := New(model.InternalLink)
	idx.Rebuild(words)
	assert.Equal(t, 2, idx.Snapshot().Len(), "same note path collapses")
}
