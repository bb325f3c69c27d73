// internal/store/memory.go
//
// Persistence for the score ledger.
// A Store reads and writes the whole ledger Record as one unit; there is
// no partial update. Backends:
//   - memory (this file): process-local, lost on restart. Used by tests and
//     the ephemeral mode.
//   - file:   JSON document replaced atomically on every save.
//   - sqlite: single-row tables updated inside one transaction.

package store

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Load when nothing has been saved yet.
var ErrNotFound = errors.New("store: ledger not found")

// Record is the persisted shape of the score ledger.
type Record struct {
	TotalScore          int         `json:"totalScore"`
	GamesPlayed         int         `json:"gamesPlayed"`
	GamesWon            int         `json:"gamesWon"`
	AttemptDistribution map[int]int `json:"attemptDistribution"`
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	out := r
	out.AttemptDistribution = make(map[int]int, len(r.AttemptDistribution))
	for k, v := range r.AttemptDistribution {
		out.AttemptDistribution[k] = v
	}
	return out
}

// Store defines the persistence interface for the ledger.
type Store interface {
	// Load returns the saved record, or ErrNotFound if there is none.
	Load(ctx context.Context) (Record, error)

	// Save replaces the saved record.
	Save(ctx context.Context, r Record) error
}

// memory is an in-memory Store implementation.
type memory struct {
	mu    sync.RWMutex // guards rec and saved
	rec   Record
	saved bool
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{}
}

// Save keeps a copy of r.
func (m *memory) Save(ctx context.Context, r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = r.Clone()
	m.saved = true
	return nil
}

// Load returns a copy of the last saved record.
func (m *memory) Load(ctx context.Context) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.saved {
		return Record{}, ErrNotFound
	}
	return m.rec.Clone(), nil
}
