/*
Package history records which suggestions were picked and ranks words by it.

Selections are counted per word value and word type. A word picked often and
recently scores higher; the recency weight is taken relative to the most
recent selection among the words being ranked, so rankings do not drift
while the user is idle.
*/
package history

import (
	"maps"
	"sync"
	"time"

	"github.com/bastiangx/complements/internal/utils"
	"github.com/bastiangx/complements/pkg/model"
	"github.com/charmbracelet/log"
)

// SelectionHistory is the record of one word.
type SelectionHistory struct {
	Count int `msgpack:"c"`
	// LastUpdated is in unix milliseconds.
	LastUpdated int64 `msgpack:"t"`
}

// Data maps a word value to its history per word type.
type Data map[string]map[model.WordType]SelectionHistory

func (d Data) clone() Data {
	out := make(Data, len(d))
	for value, byType := range d {
		out[value] = maps.Clone(byType)
	}
	return out
}

const (
	minute = int64(time.Minute / time.Millisecond)
	hour   = int64(time.Hour / time.Millisecond)
	day    = int64(24 * time.Hour / time.Millisecond)
	week   = 7 * day
)

// score weights the count by how far behind the latest selection it is
func score(h SelectionHistory, latestUpdated int64) float64 {
	behind := latestUpdated - h.LastUpdated
	count := float64(h.Count)
	switch {
	case behind < minute:
		return 8 * count
	case behind < hour:
		return 4 * count
	case behind < day:
		return 2 * count
	case behind < week:
		return 0.5 * count
	default:
		return 0.25 * count
	}
}

// Config tunes a Storage.
type Config struct {
	// MaxDaysToKeep drops records older than this many days on Purge.
	// Zero or less keeps everything.
	MaxDaysToKeep int
	// Now defaults to time.Now.
	Now func() time.Time
}

// Storage is the in-memory selection history. It is safe for concurrent use.
type Storage struct {
	mu            sync.RWMutex
	data          Data
	maxDaysToKeep int
	now           func() time.Time
	onChange      func()
}

// NewStorage wraps data, which may be nil.
func NewStorage(data Data, cfg Config) *Storage {
	if data == nil {
		data = Data{}
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Storage{
		data:          data.clone(),
		maxDaysToKeep: cfg.MaxDaysToKeep,
		now:           now,
	}
}

// OnChange registers fn to run after every mutation, outside the lock.
func (s *Storage) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Get returns the record of w.
func (s *Storage) Get(w model.Word) (SelectionHistory, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.data[w.Value][w.Type]
	return h, ok
}

// Increment counts one more selection of w.
func (s *Storage) Increment(w model.Word) {
	s.mu.Lock()
	byType, ok := s.data[w.Value]
	if !ok {
		byType = make(map[model.WordType]SelectionHistory)
		s.data[w.Value] = byType
	}
	h := byType[w.Type]
	h.Count++
	h.LastUpdated = s.now().UnixMilli()
	byType[w.Type] = h
	onChange := s.onChange
	s.mu.Unlock()

	log.Debugf("Selected %q (%s) %d times", w.Value, w.Type, h.Count)
	if onChange != nil {
		onChange()
	}
}

// LatestUpdated returns the newest selection time among words, 0 if none was picked.
func (s *Storage) LatestUpdated(words []model.Word) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var times []int64
	for _, w := range words {
		if h, ok := s.data[w.Value][w.Type]; ok {
			times = append(times, h.LastUpdated)
		}
	}
	return utils.Max(times, 0)
}

// Compare ranks picked words before others and higher scores first.
func (s *Storage) Compare(a, b model.Word, latestUpdated int64) int {
	s.mu.RLock()
	ha, okA := s.data[a.Value][a.Type]
	hb, okB := s.data[b.Value][b.Type]
	s.mu.RUnlock()

	switch {
	case !okA && !okB:
		return 0
	case okA && !okB:
		return -1
	case !okA && okB:
		return 1
	}

	sa, sb := score(ha, latestUpdated), score(hb, latestUpdated)
	switch {
	case sa > sb:
		return -1
	case sa < sb:
		return 1
	default:
		return 0
	}
}

// Purge drops records not updated within MaxDaysToKeep and returns how many went.
func (s *Storage) Purge() int {
	if s.maxDaysToKeep <= 0 {
		return 0
	}

	s.mu.Lock()
	threshold := s.now().UnixMilli() - int64(s.maxDaysToKeep)*day
	purged := 0
	for value, byType := range s.data {
		for t, h := range byType {
			if h.LastUpdated < threshold {
				delete(byType, t)
				purged++
			}
		}
		if len(byType) == 0 {
			delete(s.data, value)
		}
	}
	onChange := s.onChange
	s.mu.Unlock()

	if purged > 0 {
		log.Debugf("Purged %d selection history records older than %d days", purged, s.maxDaysToKeep)
		if onChange != nil {
			onChange()
		}
	}
	return purged
}

// Data returns a copy of every record.
func (s *Storage) Data() Data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.clone()
}

// Len returns the number of recorded words.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
