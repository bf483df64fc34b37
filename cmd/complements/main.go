// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the complements completion server and its CLI [DBG] mode.

complements suggests words for the text before the cursor. Words come from
the file being edited, custom dictionaries and the notes of a vault, which
also provide internal link targets and front matter values. Suggestions are
matched by prefix or substring, optionally extended by a fuzzy pass, and
ranked by how recently and how often they were selected.

# Usage

Start the server with the config at the default location:

	complements

Index a vault and a dictionary, with debug logs:

	complements -vault ~/notes -dict words.tsv -d

Run in CLI mode for interactive testing:

	complements -c -limit 5

# Configuration

The TOML config is created with defaults when missing:

	[match]
	strategy = "prefix"
	max_results = 10
	fuzzy = false
	min_fuzzy_score = 2.0

	[index]
	vault_dir = "~/notes"
	dictionary_paths = ["words.tsv"]

	[history]
	max_days_to_keep = 30

Relative paths are resolved against the directory of the config file.

# IPC Protocol

The server speaks msgpack over stdin/stdout, see package server:

	{"id": "req1", "cmd": "complete", "p": "I like obs"}

# Command Line Flags

	-config string
	    Path to config.toml
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-vault string
	    Vault directory, overrides index.vault_dir
	-dict string
	    Comma separated dictionary files, added to index.dictionary_paths.
	    Files missing from the working dir are looked up next to the config.
	-limit int
	    Number of suggestions to return
	-rebuild-config
	    Recreate config.toml with defaults
	-version
	    Show current version
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/bastiangx/complements/internal/cli"
	"github.com/bastiangx/complements/internal/logger"
	"github.com/bastiangx/complements/internal/utils"
	"github.com/bastiangx/complements/pkg/config"
	"github.com/bastiangx/complements/pkg/dictionary"
	"github.com/bastiangx/complements/pkg/history"
	"github.com/bastiangx/complements/pkg/index"
	"github.com/bastiangx/complements/pkg/server"
	"github.com/bastiangx/complements/pkg/strutil"
	"github.com/bastiangx/complements/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0-beta"
	AppName = config.AppName
	gh      = "https://github.com/bastiangx/complements"
)

// sigHandler runs cleanup on SIGINT and SIGTERM before exiting.
func sigHandler(cleanup func()) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		cleanup()
		os.Exit(0)
	}()
}

// main wires the packages together and only manages the flow.
func main() {
	showVersion := flag.Bool("version", false, "Show current version")
	configPath := flag.String("config", "", "Path to config.toml")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	vaultDir := flag.String("vault", "", "Vault directory to index (overrides config)")
	dicts := flag.String("dict", "", "Comma separated custom dictionary files")
	limit := flag.Int("limit", 0, "Number of suggestions to return (default from config)")
	rebuildConfig := flag.Bool("rebuild-config", false, "Recreate config.toml with defaults at the default location")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger.Setup(*debugMode)

	if *rebuildConfig {
		if err := config.RebuildConfigFile(); err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		log.Info("Rebuilt config with defaults", "path", config.GetActiveConfigPath(""))
		os.Exit(0)
	}

	cfg, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	configDir := filepath.Dir(activePath)
	if activePath == "" {
		if configDir, err = config.GetConfigDir(); err != nil {
			log.Fatalf("Failed to determine config dir: %v", err)
		}
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(activePath))

	if *limit > 0 {
		cfg.Match.MaxResults = *limit
	}

	// flag paths are relative to the working dir, config paths to the config file
	cwd := utils.NewPathResolver("")
	resolver := utils.NewPathResolver(configDir)
	vault := resolver.Resolve(cfg.Index.VaultDir)
	if *vaultDir != "" {
		vault = cwd.Resolve(*vaultDir)
	}
	dictPaths := resolver.ResolveAll(cfg.Index.DictionaryPaths)
	if *dicts != "" {
		for _, name := range strings.Split(*dicts, ",") {
			if name = strings.TrimSpace(name); name == "" {
				continue
			}
			dictPaths = append(dictPaths, findDictionary(cwd, resolver, name))
		}
	}
	log.Debug("Runtime", "info", cwd.GetRuntimeInfo(), "config_base", resolver.BaseDir())

	tok, err := cfg.Tokenizer()
	if err != nil {
		log.Fatalf("Failed to build tokenizer: %v", err)
	}

	words := index.NewIndexedWords()
	loader := dictionary.NewLoader(words, tok, dictionary.Options{
		VaultDir:        vault,
		Extensions:      cfg.Index.Extensions,
		DictionaryPaths: dictPaths,
		Delimiter:       cfg.Index.DictionaryDelimiter,
		CaretSymbol:     cfg.Index.CaretSymbol,
		MinWordLength:   cfg.Index.MinWordLength,
		Aliases: strutil.AliasOptions{
			Emoji:             cfg.Index.ExcludeEmoji,
			AccentsDiacritics: cfg.Index.FoldAccents,
		},
	})
	if _, err := loader.LoadAll(); err != nil {
		log.Warnf("Some word sources failed to load: %v", err)
	}
	log.Debug("Indexes loaded", "stats", words.Stats())

	historyPath := resolver.Resolve(cfg.History.ResolvedPath(configDir))
	data, err := history.Load(historyPath)
	if err != nil {
		log.Warnf("Starting with an empty history: %v", err)
		data = history.Data{}
	}
	storage := history.NewStorage(data, history.Config{MaxDaysToKeep: cfg.History.MaxDaysToKeep})
	if purged := storage.Purge(); purged > 0 {
		log.Debugf("Purged %d stale history entries", purged)
	}
	persister := history.NewPersister(historyPath, storage, cfg.History.SaveDelay())

	completer := suggest.NewCompleter(words, tok, cfg.MatchStrategy())
	completer.SetHistory(storage)

	var watcher *dictionary.Watcher
	if cfg.Index.WatchDictionaries {
		if watcher, err = dictionary.NewWatcher(loader, dictionary.DefaultReloadDelay); err != nil {
			log.Warnf("Not watching word sources: %v", err)
		}
	}

	cleanup := func() {
		if watcher != nil {
			watcher.Close()
		}
		if err := persister.Flush(); err != nil {
			log.Errorf("Failed to save history to %s: %v", persister.Path(), err)
		}
	}
	sigHandler(cleanup)
	defer cleanup()

	// CLI would be mainly used for testing and dbg purposes.
	if *cliMode {
		inputHandler := cli.NewInputHandler(completer, cfg.Request(0))
		if err := inputHandler.Start(); err != nil {
			log.Errorf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	showStartupInfo(vault, words.Len())
	srv := server.NewServer(completer, loader, cfg)
	if err := srv.Start(); err != nil {
		log.Errorf("Server stopped: %v", err)
	}
}

// findDictionary resolves a -dict entry against the working dir, falling back
// to the config dir and its dictionaries folder.
func findDictionary(cwd, configDir *utils.PathResolver, name string) string {
	path := cwd.Resolve(name)
	if utils.FileExists(path) || filepath.IsAbs(name) {
		return path
	}
	if found, err := configDir.FindFileInPaths(name, []string{".", "dictionaries"}); err == nil {
		return found
	}
	return path
}

func printVersion() {
	banner := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ complements ] Word completions from your notes and dictionaries")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
	banner.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(vault string, words int) {
	if vault == "" {
		vault = "none"
	}
	info := logger.New(AppName)
	info.SetLevel(log.InfoLevel)
	info.Info("status: ready", "pid", os.Getpid(), "version", Version, "vault", vault, "words", words)
}
