package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfigCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.FileExists(t, path)

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), loaded)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[match]
strategy = "partial"
fuzzy = true
min_fuzzy_score = 3

[index]
vault_dir = "~/notes"
dictionary_paths = ["words.tsv", "names.csv"]

[history]
save_delay_ms = 250
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "partial", cfg.Match.Strategy)
	assert.True(t, cfg.Match.Fuzzy)
	assert.Equal(t, 3.0, cfg.Match.MinFuzzyScore)
	assert.Equal(t, "~/notes", cfg.Index.VaultDir)
	assert.Equal(t, []string{"words.tsv", "names.csv"}, cfg.Index.DictionaryPaths)
	assert.Equal(t, 250*time.Millisecond, cfg.History.SaveDelay())
	assert.Equal(t, DefaultConfig().Server, cfg.Server, "missing sections keep defaults")
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	// max_results has the wrong type, so the struct decode fails as a whole
	content := `
[match]
strategy = "partial"
max_results = "many"
min_fuzzy_score = 2.5

[index]
extensions = [".md", 3]
min_word_length = 4

[server]
max_limit = 8
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	defaults := DefaultConfig()
	assert.Equal(t, "partial", cfg.Match.Strategy)
	assert.Equal(t, defaults.Match.MaxResults, cfg.Match.MaxResults)
	assert.Equal(t, 2.5, cfg.Match.MinFuzzyScore)
	assert.Equal(t, defaults.Index.Extensions, cfg.Index.Extensions, "mixed arrays are dropped")
	assert.Equal(t, 4, cfg.Index.MinWordLength)
	assert.Equal(t, 8, cfg.Server.MaxLimit)
}

func TestLoadConfigGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[match\nstrategy = "), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestRequest(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.MaxLimit = 20
	cfg.Match.MaxResults = 7

	testCases := []struct {
		limit       int
		expected    int
		description string
	}{
		{0, 7, "Configured default"},
		{15, 15, "Explicit limit"},
		{100, 20, "Capped by max_limit"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.expected, cfg.Request(tc.limit).Limit)
		})
	}

	assert.Nil(t, cfg.Request(0).Fuzzy)
	cfg.Match.Fuzzy = true
	require.NotNil(t, cfg.Request(0).Fuzzy)
	assert.Equal(t, cfg.Match.MinFuzzyScore, cfg.Request(0).Fuzzy.MinMatchScore)
}

func TestStrategyAndTokenizer(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "prefix", cfg.MatchStrategy().Name())

	cfg.Match.Strategy = "inherit"
	assert.Equal(t, "prefix", cfg.MatchStrategy().Name())

	cfg.Match.Strategy = "nonsense"
	assert.Equal(t, "prefix", cfg.MatchStrategy().Name())

	cfg.Match.Tokenizer = "english-only"
	tok, err := cfg.Tokenizer()
	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, tok.Tokenize("hello こんにちは", false))

	cfg.Match.Tokenizer = "klingon"
	_, err = cfg.Tokenizer()
	assert.NoError(t, err, "unknown tokenizers fall back to default")
}

func TestHistoryResolvedPath(t *testing.T) {
	h := HistoryConfig{}
	assert.Equal(t, filepath.Join("conf", "history.msgpack"), h.ResolvedPath("conf"))
	h.Path = "/var/lib/history.msgpack"
	assert.Equal(t, "/var/lib/history.msgpack", h.ResolvedPath("conf"))
}
