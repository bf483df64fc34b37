/*
Package dictionary feeds the word indexes from disk: custom dictionary files,
and the notes of a vault directory for vault words, internal links and front
matter values.
*/
package dictionary

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bastiangx/complements/internal/utils"
	"github.com/bastiangx/complements/pkg/index"
	"github.com/bastiangx/complements/pkg/model"
	"github.com/bastiangx/complements/pkg/strutil"
	"github.com/bastiangx/complements/pkg/tokenizer"
	"github.com/charmbracelet/log"
	"github.com/samber/lo"
)

var (
	// ErrNoVault is returned by vault operations when no vault dir is set.
	ErrNoVault = errors.New("no vault directory configured")
	// ErrUnknownSource is returned by Refresh for an unknown source name.
	ErrUnknownSource = errors.New("unknown word source")
)

// Options describes where words are loaded from.
type Options struct {
	VaultDir string
	// Extensions of the vault files read as notes, with the leading dot.
	Extensions      []string
	DictionaryPaths []string
	// Delimiter of plain text dictionaries. csv and tsv files use their own.
	Delimiter     string
	CaretSymbol   string
	MinWordLength int
	Aliases       strutil.AliasOptions
}

// LoaderStats provides statistics about the last loads
type LoaderStats struct {
	Dictionaries int
	Notes        int
	LastLoad     time.Time
}

// Loader reads words from disk into the indexes. Loads are serialized; the
// indexes stay readable while a load runs.
type Loader struct {
	words *index.IndexedWords
	tok   tokenizer.Tokenizer
	opts  Options

	mu    sync.Mutex
	stats LoaderStats
}

// NewLoader creates a loader filling words.
func NewLoader(words *index.IndexedWords, tok tokenizer.Tokenizer, opts Options) *Loader {
	if len(opts.Extensions) == 0 {
		opts.Extensions = []string{".md"}
	}
	// config paths and -dict flags may name the same file
	opts.Extensions = utils.Uniq(lo.Map(opts.Extensions, func(ext string, _ int) string { return strings.ToLower(ext) }))
	opts.DictionaryPaths = utils.Uniq(opts.DictionaryPaths)
	return &Loader{words: words, tok: tok, opts: opts}
}

// Options returns the loader options.
func (l *Loader) Options() Options { return l.opts }

// LoadAll loads the dictionaries and scans the vault when one is set.
// Failures of single sources are joined, the others are still loaded.
// changed is true when any index changed.
func (l *Loader) LoadAll() (changed bool, err error) {
	var errs []error
	dictChanged, err := l.LoadDictionaries()
	if err != nil {
		errs = append(errs, err)
	}
	changed = dictChanged
	if l.opts.VaultDir != "" {
		vaultChanged, err := l.ScanVault()
		if err != nil {
			errs = append(errs, err)
		}
		changed = changed || vaultChanged
	}
	return changed, errors.Join(errs...)
}

// LoadDictionaries rebuilds the custom dictionary index from every
// dictionary file. Unreadable files are skipped and reported in the error.
func (l *Loader) LoadDictionaries() (changed bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var words []model.Word
	var errs []error
	loaded := 0
	for _, path := range l.opts.DictionaryPaths {
		ws, err := l.readDictionary(path)
		if err != nil {
			log.Warnf("Skipping dictionary %s: %v", path, err)
			errs = append(errs, err)
			continue
		}
		words = append(words, ws...)
		loaded++
	}

	changed = l.words.CustomDictionary.Rebuild(words)
	l.stats.Dictionaries = loaded
	l.stats.LastLoad = time.Now()
	log.Debugf("Loaded %d words from %d dictionaries", len(words), loaded)
	return changed, errors.Join(errs...)
}

func (l *Loader) readDictionary(path string) ([]model.Word, error) {
	if err := ValidateFileFormat(path); err != nil {
		return nil, err
	}
	if format, err := DetectFileFormat(path); err == nil {
		if info, ok := GetFormatInfo(format); ok {
			log.Debugf("Reading %s %s", info.Description, path)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary %s: %w", path, err)
	}
	return index.ParseDictionary(string(data), index.DictionaryOptions{
		Delimiter:   DelimiterFor(path, l.opts.Delimiter),
		CaretSymbol: l.opts.CaretSymbol,
		Path:        path,
		Aliases:     l.opts.Aliases,
	}), nil
}

// ScanVault reads every note of the vault and rebuilds the vault, internal
// link and front matter indexes.
func (l *Loader) ScanVault() (changed bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	notes, err := l.readNotes()
	if err != nil {
		return false, err
	}

	var vaultWords []model.Word
	for _, note := range notes {
		vaultWords = append(vaultWords, index.WordsFromText(l.tok, note.Content, index.TextOptions{
			Type:      model.CurrentVault,
			Path:      note.Path,
			MinLength: l.opts.MinWordLength,
			Aliases:   l.opts.Aliases,
		})...)
	}

	vaultChanged := l.words.CurrentVault.Rebuild(vaultWords)
	linkChanged := l.words.InternalLink.Rebuild(index.InternalLinkWords(notes, l.opts.Aliases))
	fmChanged := l.words.RebuildFrontMatter(index.FrontMatterWords(notes, l.opts.Aliases))

	l.stats.Notes = len(notes)
	l.stats.LastLoad = time.Now()
	log.Debugf("Scanned %d notes in %s", len(notes), l.opts.VaultDir)
	return vaultChanged || linkChanged || fmChanged, nil
}

// readNotes walks the vault, skipping hidden files and directories.
func (l *Loader) readNotes() ([]index.Note, error) {
	if l.opts.VaultDir == "" {
		return nil, ErrNoVault
	}

	var notes []index.Note
	err := filepath.WalkDir(l.opts.VaultDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == l.opts.VaultDir {
				return err
			}
			log.Debugf("Skipping %s: %v", path, err)
			return nil
		}
		if path != l.opts.VaultDir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !l.isNote(path) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			log.Warnf("Failed to read note %s: %v", path, err)
			return nil
		}
		notes = append(notes, index.Note{Path: path, Content: string(data)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan vault %s: %w", l.opts.VaultDir, err)
	}
	return notes, nil
}

func (l *Loader) isNote(path string) bool {
	return slices.Contains(l.opts.Extensions, strings.ToLower(filepath.Ext(path)))
}

// RefreshCurrentFile rebuilds the current file index from text.
func (l *Loader) RefreshCurrentFile(path, text string) bool {
	return l.words.CurrentFile.Rebuild(index.WordsFromText(l.tok, text, index.TextOptions{
		Type:      model.CurrentFile,
		Path:      path,
		MinLength: l.opts.MinWordLength,
		Aliases:   l.opts.Aliases,
	}))
}

// Sources lists the names Refresh accepts.
func Sources() []string {
	return append(lo.Map(model.WordTypes(), func(t model.WordType, _ int) string { return string(t) }), "all")
}

// Refresh reloads one source by name. currentFile takes its text from the
// caller. currentVault, internalLink and frontMatter all rescan the vault.
func (l *Loader) Refresh(source, path, text string) (bool, error) {
	if source == "all" {
		fileChanged := l.RefreshCurrentFile(path, text)
		changed, err := l.LoadAll()
		return fileChanged || changed, err
	}

	t, err := model.ParseWordType(source)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrUnknownSource, err)
	}
	switch t {
	case model.CurrentFile:
		return l.RefreshCurrentFile(path, text), nil
	case model.CustomDictionary:
		return l.LoadDictionaries()
	default:
		return l.ScanVault()
	}
}

// Stats returns a copy of the load statistics.
func (l *Loader) Stats() LoaderStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}
