/*
Package config manages the TOML config of complements.
*/
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/bastiangx/complements/internal/utils"
	"github.com/bastiangx/complements/pkg/suggest"
	"github.com/bastiangx/complements/pkg/tokenizer"
	"github.com/charmbracelet/log"
)

// AppName names the config directory.
const AppName = "complements"

// Config holds the entire config structure
type Config struct {
	Match   MatchConfig   `toml:"match"`
	Index   IndexConfig   `toml:"index"`
	History HistoryConfig `toml:"history"`
	Server  ServerConfig  `toml:"server"`
}

// MatchConfig has the query side options.
type MatchConfig struct {
	Strategy                    string  `toml:"strategy"`
	MaxResults                  int     `toml:"max_results"`
	MinQueryLength              int     `toml:"min_query_length"`
	Fuzzy                       bool    `toml:"fuzzy"`
	MinFuzzyScore               float64 `toml:"min_fuzzy_score"`
	Tokenizer                   string  `toml:"tokenizer"`
	TreatUnderscoreAsPartOfWord bool    `toml:"treat_underscore_as_part_of_word"`
}

// IndexConfig holds where words come from and how they are indexed.
type IndexConfig struct {
	VaultDir            string   `toml:"vault_dir"`
	Extensions          []string `toml:"extensions"`
	MinWordLength       int      `toml:"min_word_length"`
	DictionaryPaths     []string `toml:"dictionary_paths"`
	DictionaryDelimiter string   `toml:"dictionary_delimiter"`
	CaretSymbol         string   `toml:"caret_symbol"`
	ExcludeEmoji        bool     `toml:"exclude_emoji"`
	FoldAccents         bool     `toml:"fold_accents"`
	WatchDictionaries   bool     `toml:"watch_dictionaries"`
}

// HistoryConfig holds selection history options.
type HistoryConfig struct {
	// Path defaults to history.msgpack next to the config file.
	Path          string `toml:"path"`
	SaveDelayMs   int    `toml:"save_delay_ms"`
	MaxDaysToKeep int    `toml:"max_days_to_keep"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxLimit int `toml:"max_limit"`
	// MaxQuery caps, in bytes, the text a complete request may carry.
	MaxQuery int `toml:"max_query"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Match: MatchConfig{
			Strategy:       suggest.Prefix.Name(),
			MaxResults:     suggest.DefaultLimit,
			MinQueryLength: 1,
			Fuzzy:          false,
			MinFuzzyScore:  2,
			Tokenizer:      tokenizer.Default.Name(),
		},
		Index: IndexConfig{
			Extensions:          []string{".md"},
			MinWordLength:       2,
			DictionaryDelimiter: "\t",
			ExcludeEmoji:        true,
			FoldAccents:         true,
			WatchDictionaries:   true,
		},
		History: HistoryConfig{
			SaveDelayMs:   5000,
			MaxDaysToKeep: 30,
		},
		Server: ServerConfig{
			MaxLimit: 64,
			MaxQuery: 1024,
		},
	}
}

// SaveDelay is the debounce of history writes.
func (h HistoryConfig) SaveDelay() time.Duration {
	return time.Duration(h.SaveDelayMs) * time.Millisecond
}

// ResolvedPath returns the history file path, relative to configDir when unset.
func (h HistoryConfig) ResolvedPath(configDir string) string {
	if h.Path == "" {
		return filepath.Join(configDir, "history.msgpack")
	}
	return h.Path
}

// GetConfigDir returns the config directory with fallback priority:
// 1. $XDG_CONFIG_HOME/complements or ~/.config/complements
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := utils.UserConfigDir(homeDir, AppName)
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	// Not conventional, fallback from ~/.config if not writable
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", AppName)
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/complements/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file. A file that does not decode as a whole
// keeps every value that does.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse attempts to parse a TOML file
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "match"); ok {
		extractMatchConfig(section, &config.Match)
	}
	if section, ok := utils.ExtractSection(tempConfig, "index"); ok {
		extractIndexConfig(section, &config.Index)
	}
	if section, ok := utils.ExtractSection(tempConfig, "history"); ok {
		extractHistoryConfig(section, &config.History)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	return config, nil
}

func extractMatchConfig(data map[string]any, match *MatchConfig) {
	if val, ok := utils.ExtractString(data, "strategy"); ok {
		match.Strategy = val
	}
	if val, ok := utils.ExtractInt64(data, "max_results"); ok {
		match.MaxResults = val
	}
	if val, ok := utils.ExtractInt64(data, "min_query_length"); ok {
		match.MinQueryLength = val
	}
	if val, ok := utils.ExtractBool(data, "fuzzy"); ok {
		match.Fuzzy = val
	}
	if val, ok := utils.ExtractFloat(data, "min_fuzzy_score"); ok {
		match.MinFuzzyScore = val
	}
	if val, ok := utils.ExtractString(data, "tokenizer"); ok {
		match.Tokenizer = val
	}
	if val, ok := utils.ExtractBool(data, "treat_underscore_as_part_of_word"); ok {
		match.TreatUnderscoreAsPartOfWord = val
	}
}

func extractIndexConfig(data map[string]any, index *IndexConfig) {
	if val, ok := utils.ExtractString(data, "vault_dir"); ok {
		index.VaultDir = val
	}
	if val, ok := utils.ExtractStrings(data, "extensions"); ok {
		index.Extensions = val
	}
	if val, ok := utils.ExtractInt64(data, "min_word_length"); ok {
		index.MinWordLength = val
	}
	if val, ok := utils.ExtractStrings(data, "dictionary_paths"); ok {
		index.DictionaryPaths = val
	}
	if val, ok := utils.ExtractString(data, "dictionary_delimiter"); ok {
		index.DictionaryDelimiter = val
	}
	if val, ok := utils.ExtractString(data, "caret_symbol"); ok {
		index.CaretSymbol = val
	}
	if val, ok := utils.ExtractBool(data, "exclude_emoji"); ok {
		index.ExcludeEmoji = val
	}
	if val, ok := utils.ExtractBool(data, "fold_accents"); ok {
		index.FoldAccents = val
	}
	if val, ok := utils.ExtractBool(data, "watch_dictionaries"); ok {
		index.WatchDictionaries = val
	}
}

func extractHistoryConfig(data map[string]any, history *HistoryConfig) {
	if val, ok := utils.ExtractString(data, "path"); ok {
		history.Path = val
	}
	if val, ok := utils.ExtractInt64(data, "save_delay_ms"); ok {
		history.SaveDelayMs = val
	}
	if val, ok := utils.ExtractInt64(data, "max_days_to_keep"); ok {
		history.MaxDaysToKeep = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "max_query"); ok {
		server.MaxQuery = val
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	return SaveConfig(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// MatchStrategy resolves the configured strategy name. An unknown name falls
// back to prefix with a warning.
func (c *Config) MatchStrategy() suggest.MatchStrategy {
	s, err := suggest.StrategyFromName(c.Match.Strategy)
	if err != nil {
		log.Warnf("%v, using %s", err, suggest.Prefix)
		return suggest.Prefix
	}
	return s.Resolve(suggest.Prefix)
}

// Tokenizer builds the configured tokenizer.
func (c *Config) Tokenizer() (tokenizer.Tokenizer, error) {
	strategy, ok := tokenizer.StrategyFromName(c.Match.Tokenizer)
	if !ok {
		log.Warnf("Unknown tokenizer %q, using %s", c.Match.Tokenizer, tokenizer.Default.Name())
		strategy = tokenizer.Default
	}
	return strategy.New(tokenizer.Options{
		TreatUnderscoreAsPartOfWord: c.Match.TreatUnderscoreAsPartOfWord,
	})
}

// Request builds the per call completion settings. limit overrides
// max_results when positive and is capped by the server max_limit.
func (c *Config) Request(limit int) suggest.Request {
	if limit <= 0 {
		limit = c.Match.MaxResults
	}
	if c.Server.MaxLimit > 0 && limit > c.Server.MaxLimit {
		limit = c.Server.MaxLimit
	}
	req := suggest.Request{
		Strategy:       c.MatchStrategy(),
		Limit:          limit,
		MinQueryLength: c.Match.MinQueryLength,
	}
	if c.Match.Fuzzy {
		req.Fuzzy = &suggest.FuzzyOptions{MinMatchScore: c.Match.MinFuzzyScore}
	}
	return req
}
