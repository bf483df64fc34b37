package dictionary

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bastiangx/complements/internal/logger"
	"github.com/bastiangx/complements/internal/utils"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultReloadDelay is how long the watcher waits for writes to settle.
const DefaultReloadDelay = 300 * time.Millisecond

// ErrWatcherClosed is returned when using a closed watcher.
var ErrWatcherClosed = errors.New("watcher is closed")

// ReloadFunc is called after the watcher reloaded a source.
type ReloadFunc func(source string, changed bool, err error)

// Watcher reloads dictionaries and the vault while the process runs, as
// files change on disk. Bursts of events are debounced into one reload.
type Watcher struct {
	loader  *Loader
	watcher *fsnotify.Watcher
	log     *log.Logger

	dictFiles map[string]bool
	vaultDir  string

	dictReload  *utils.Debouncer
	vaultReload *utils.Debouncer

	mu       sync.Mutex
	onReload ReloadFunc
	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// NewWatcher starts watching the dictionaries and the vault of loader.
// Dictionary files are watched through their directory so editors that save
// by rename are followed.
func NewWatcher(loader *Loader, delay time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if delay <= 0 {
		delay = DefaultReloadDelay
	}

	w := &Watcher{
		loader:    loader,
		watcher:   fsw,
		log:       logger.New("watcher"),
		dictFiles: make(map[string]bool),
		closeCh:   make(chan struct{}),
	}
	w.dictReload = utils.NewDebouncer(delay, func() {
		changed, err := loader.LoadDictionaries()
		w.notify("customDictionary", changed, err)
	})
	w.vaultReload = utils.NewDebouncer(delay, func() {
		changed, err := loader.ScanVault()
		w.notify("currentVault", changed, err)
	})

	opts := loader.Options()
	dirs := make(map[string]bool)
	for _, path := range opts.DictionaryPaths {
		abs, err := filepath.Abs(path)
		if err != nil {
			continue
		}
		w.dictFiles[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			w.log.Warnf("Cannot watch dictionary dir %s: %v", dir, err)
		}
	}
	if opts.VaultDir != "" {
		if w.vaultDir, err = filepath.Abs(opts.VaultDir); err == nil {
			w.watchRecursive(w.vaultDir)
		}
	}

	w.closedWg.Add(1)
	go w.processLoop()
	return w, nil
}

// OnReload sets the callback run after every reload.
func (w *Watcher) OnReload(fn ReloadFunc) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReload = fn
}

func (w *Watcher) notify(source string, changed bool, err error) {
	if err != nil {
		w.log.Warnf("Reloading %s failed: %v", source, err)
	} else {
		w.log.Debugf("Reloaded %s (changed: %t)", source, changed)
	}
	w.mu.Lock()
	fn := w.onReload
	w.mu.Unlock()
	if fn != nil {
		fn(source, changed, err)
	}
}

// WatchedPaths returns the watched directories.
func (w *Watcher) WatchedPaths() []string {
	return w.watcher.WatchList()
}

// Close stops the watcher. Pending reloads are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWatcherClosed
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	w.closedWg.Wait()
	w.dictReload.Cancel()
	w.vaultReload.Cancel()
	return w.watcher.Close()
}

// watchRecursive adds root and its non hidden subdirectories.
func (w *Watcher) watchRecursive(root string) {
	_ = filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(p); err != nil {
			w.log.Debugf("Cannot watch %s: %v", p, err)
		}
		return nil
	})
}

func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ev)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warnf("Watcher error: %v", err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if ev.Op == fsnotify.Chmod {
		return
	}

	if w.dictFiles[ev.Name] {
		w.dictReload.Call()
		return
	}
	if w.vaultDir == "" || !isWithin(w.vaultDir, ev.Name) {
		return
	}
	if strings.HasPrefix(filepath.Base(ev.Name), ".") {
		return
	}

	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			w.watchRecursive(ev.Name)
			w.vaultReload.Call()
			return
		}
	}
	// a removed directory has no extension, rescan to drop its notes
	if w.loader.isNote(ev.Name) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
		w.vaultReload.Call()
	}
}

func isWithin(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
