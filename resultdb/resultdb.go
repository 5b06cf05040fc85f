// Package resultdb implements the persistent result cache described in
// spec.md §4.8: a WossManager consults it before invoking the engine and
// populates it after a successful run, so repeated queries for the same
// (tx, rx, frequency, time) link never re-run the engine.
package resultdb

import (
	"sync"

	"github.com/oceanbench/woss"
)

// Key identifies one cached engine result. Frequency must already be a
// member of the FrequencySet the job was quantized against (spec.md
// §4.6) so that two requests for "the same" frequency always produce an
// identical Key.
type Key struct {
	Tx, Rx woss.CoordZ
	Freq   float64
	Time   woss.Time
}

// Entry is the cached per-link, per-frequency, per-instant result.
type Entry struct {
	Pressure woss.Pressure
	TimeArr  woss.TimeArr
}

// ResultDB is the persistent cache interface a WossManager consults. It
// is intentionally narrow: callers are expected to build the Key from
// already-quantized coordinates/frequency/time so a cache hit/miss is a
// pure function of those four values.
type ResultDB interface {
	Get(key Key) (Entry, bool, error)
	Put(key Key, e Entry) error
	Close() error
}

// MemDB is an in-process, map-backed ResultDB, and is what tests
// exercise to avoid a real TileDB dependency in unit tests. control.New
// does not install it: with no TileDB array URI configured, the manager
// runs without a result DB.
type MemDB struct {
	mu   sync.RWMutex
	data map[Key]Entry
}

// NewMemDB constructs an empty in-memory result cache.
func NewMemDB() *MemDB {
	return &MemDB{data: make(map[Key]Entry)}
}

func (m *MemDB) Get(key Key) (Entry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.data[key]
	return e, ok, nil
}

func (m *MemDB) Put(key Key, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = e
	return nil
}

func (m *MemDB) Close() error { return nil }
