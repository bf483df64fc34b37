package history

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/bastiangx/complements/internal/utils"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// DefaultSaveDelay is the quiet period before pending selections are written.
const DefaultSaveDelay = 5 * time.Second

// Load reads a history file written by a Persister. A missing file is an
// empty history.
func Load(path string) (Data, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Data{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read selection history %s: %w", path, err)
	}
	if len(raw) == 0 {
		return Data{}, nil
	}

	var data Data
	if err := msgpack.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode selection history %s: %w", path, err)
	}
	if data == nil {
		data = Data{}
	}
	return data, nil
}

// Persister writes a Storage to disk a quiet period after it last changed.
// Selections made after the last write are lost if the process dies before
// Flush.
type Persister struct {
	path      string
	storage   *Storage
	debouncer *utils.Debouncer

	mu      sync.Mutex
	lastErr error
}

// NewPersister hooks into storage so every change schedules a write to path.
func NewPersister(path string, storage *Storage, delay time.Duration) *Persister {
	if delay <= 0 {
		delay = DefaultSaveDelay
	}
	p := &Persister{path: path, storage: storage}
	p.debouncer = utils.NewDebouncer(delay, p.save)
	storage.OnChange(p.debouncer.Call)
	return p
}

func (p *Persister) save() {
	err := p.Save()
	p.mu.Lock()
	p.lastErr = err
	p.mu.Unlock()
	if err != nil {
		log.Errorf("Failed to save selection history: %v", err)
	}
}

// Save writes the storage now.
func (p *Persister) Save() error {
	raw, err := msgpack.Marshal(p.storage.Data())
	if err != nil {
		return fmt.Errorf("encode selection history: %w", err)
	}
	if err := utils.WriteFileAtomic(p.path, raw); err != nil {
		return fmt.Errorf("write selection history: %w", err)
	}
	log.Debugf("Saved selection history of %d words to %s", p.storage.Len(), p.path)
	return nil
}

// Pending reports whether a write is scheduled.
func (p *Persister) Pending() bool {
	return p.debouncer.IsPending()
}

// Flush writes a scheduled change immediately. Call it before exiting.
func (p *Persister) Flush() error {
	p.mu.Lock()
	p.lastErr = nil
	p.mu.Unlock()

	p.debouncer.Flush()

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// Path returns the file written to.
func (p *Persister) Path() string {
	return p.path
}
