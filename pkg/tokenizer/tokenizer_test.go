package tokenizer

import (
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNew(t *testing.T, s Strategy, opts Options) Tokenizer {
	t.Helper()
	tok, err := s.New(opts)
	require.NoError(t, err)
	return tok
}

func words(seq func(func(Token) bool)) []string {
	var out []string
	for token := range seq {
		out = append(out, token.Word)
	}
	return out
}

func TestTokensReconstructInput(t *testing.T) {
	inputs := []string{
		"",
		"I am tadashi-aikawa.",
		"  leading and trailing  ",
		"[[Obsidian]] is a (note) app!",
		"日本語と English の mix",
		"emoji 🍰🍊 inside",
		"unbalanced [[[ brackets ))",
		"ctrl\x00chars\x1b[0m",
		"broken \xff utf8",
	}

	for _, s := range Strategies() {
		tok := mustNew(t, s, Options{})
		for _, target := range []TrimTarget{Indexing, Input} {
			for _, input := range inputs {
				got := strings.Join(words(tok.Tokens(input, target)), "")
				assert.Equal(t, input, got, "%s/%s %q", s.Name(), target, input)
			}
		}
	}
}

func TestTokensOffsets(t *testing.T) {
	tok := mustNew(t, Default, Options{})
	for token := range tok.Tokens("ab cd, 日本 ef", Input) {
		assert.True(t, strings.HasPrefix("ab cd, 日本 ef"[token.Offset:], token.Word))
	}
}

func TestTokensEmptyInput(t *testing.T) {
	tok := mustNew(t, Default, Options{})
	got := slices.Collect(tok.Tokens("", Indexing))
	assert.Equal(t, []Token{{Word: "", Offset: 0}}, got)
}

func TestTokensCustomBoundary(t *testing.T) {
	tok := mustNew(t, Default, Options{TrimPattern: regexp.MustCompile(`[ \-.]`)})

	got := words(tok.Tokens("I am tadashi-aikawa.", Input))
	assert.Equal(t, []string{"I", " ", "am", " ", "tadashi", "-", "aikawa", "."}, got)
}

func TestTokensStopEarly(t *testing.T) {
	tok := mustNew(t, Default, Options{})
	var got []string
	for token := range tok.Tokens("one two three", Indexing) {
		got = append(got, token.Word)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"one", " "}, got)
}

func TestDefaultTokenize(t *testing.T) {
	tok := mustNew(t, Default, Options{})

	testCases := []struct {
		content     string
		raw         bool
		expected    []string
		description string
	}{
		{"I am tadashi-aikawa.", false, []string{"I", "am", "tadashi-aikawa"}, "Sentence"},
		{"I am tadashi-aikawa.", true, []string{"I", " ", "am", " ", "tadashi-aikawa"}, "Sentence raw"},
		{"released 1.2.3 on 2020/01/01", false, []string{"released", "1.2.3", "on", "2020/01/01"}, "Version and date"},
		{"at 12:34.", false, []string{"at", "12:34"}, "Time with trailing dot"},
		{"snake_case word", false, []string{"snake", "case", "word"}, "Underscore separates"},
		{"[[Link]] (paren)", false, []string{"Link", "paren"}, "Brackets"},
		{"日本語 テキスト", false, []string{"日本語", "テキスト"}, "Multi-byte"},
		{"...", false, []string{}, "Only dots"},
		{"", false, []string{}, "Empty"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.expected, tok.Tokenize(tc.content, tc.raw))
		})
	}
}

func TestDefaultTokenizeUnderscoreOption(t *testing.T) {
	tok := mustNew(t, Default, Options{TreatUnderscoreAsPartOfWord: true})

	assert.Equal(t, []string{"snake_case", "word"}, tok.Tokenize("snake_case word", false))
	assert.False(t, tok.TrimPattern(Indexing).MatchString("_"))
	assert.False(t, tok.TrimPattern(Input).MatchString("_"))
	assert.True(t, IndexingTrimPattern.MatchString("_"))
}

func TestEnglishOnlyTokenize(t *testing.T) {
	tok := mustNew(t, EnglishOnly, Options{})

	testCases := []struct {
		content     string
		raw         bool
		expected    []string
		description string
	}{
		{"Obsidianは最高", false, []string{"Obsidian"}, "Latin word glued to Japanese"},
		{"use go-patricia\\trie now", false, []string{"use", "go-patricia\\trie", "now"}, "Hyphen and backslash kept"},
		{"日本語だけ", false, nil, "No latin"},
		{"a b", true, []string{"a", "b"}, "Raw still drops tokens without latin"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.expected, tok.Tokenize(tc.content, tc.raw))
		})
	}
}

func TestRecursiveTokenize(t *testing.T) {
	testCases := []struct {
		strategy    Strategy
		content     string
		expected    []Token
		description string
	}{
		{Default, "I am tadashi", []Token{
			{Word: "I am tadashi", Offset: 0},
			{Word: "am tadashi", Offset: 2},
			{Word: "tadashi", Offset: 5},
		}, "Words separated by spaces"},
		{Default, "see [[Obs", []Token{
			{Word: "see [[Obs", Offset: 0},
			{Word: "Obs", Offset: 6},
		}, "Link opener is a boundary"},
		{Default, " lead", []Token{
			{Word: "lead", Offset: 1},
		}, "Leading trim"},
		{EnglishOnly, "日本語Obs", []Token{
			{Word: "日本語Obs", Offset: 0},
			{Word: "Obs", Offset: 9},
		}, "Class change is a boundary"},
		{Default, "", nil, "Empty"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			tok := mustNew(t, tc.strategy, Options{})
			assert.Equal(t, tc.expected, tok.RecursiveTokenize(tc.content))
		})
	}
}

func TestShouldIgnoreOnCurrent(t *testing.T) {
	tok := mustNew(t, Default, Options{})
	assert.True(t, tok.ShouldIgnoreOnCurrent(""))
	assert.True(t, tok.ShouldIgnoreOnCurrent(" ."))
	assert.False(t, tok.ShouldIgnoreOnCurrent("ob"))
}

func TestStrategyRegistry(t *testing.T) {
	names := make([]string, 0, len(Strategies()))
	for _, s := range Strategies() {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"default", "english-only"}, names)

	s, ok := StrategyFromName("english-only")
	require.True(t, ok)
	assert.Equal(t, "english-only", s.Name())

	_, ok = StrategyFromName("japanese")
	assert.False(t, ok)

	_, err := Strategy{name: "ghost"}.New(Options{})
	assert.Error(t, err)
}
