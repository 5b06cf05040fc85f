package woss

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/alitto/pond"

	"github.com/oceanbench/woss/engine"
	"github.com/oceanbench/woss/internal/util"
)

// wossEntry bundles a managed Woss with the per-entry condition variable
// a WossManager uses to let a second caller block on a job that is
// already being initialized/run by another goroutine, rather than
// racing to start a duplicate engine invocation (spec.md §5).
type wossEntry struct {
	woss    *Woss
	cond    *sync.Cond
	running bool
}

// WossManager is the process-wide dispatcher and cache described in
// spec.md §5: it maps (tx, rx) coordinate pairs, compared up to an
// equivalence radius, onto at most one live Woss each, funnels
// concurrent lookups for the same link onto a single engine run, and
// (when configured with a ResultDB) consults the persistent cache
// before paying for a run at all.
//
// Concurrency model: a single mutex guards the tx/rx lookup map (the
// "request spinlock" in the original design); each entry's sync.Cond
// lets a second caller wait for the first caller's in-flight
// Initialize+Run instead of busy-polling (the original's per-Woss
// condition variables). When Concurrent is true, the actual engine
// invocation is handed to a pond worker pool so multiple distinct links
// run in parallel; the per-entry Cond still serializes duplicate
// requests for the *same* link.
type WossManager struct {
	Creator            *WossCreator
	Invoker            engine.Invoker
	EquivalenceRadiusM float64

	DB ResultDBConsultant

	mu      sync.Mutex
	entries map[CoordZ]map[CoordZ]*wossEntry

	pool *pond.WorkerPool
}

// ResultDBConsultant is the subset of resultdb.ResultDB the manager
// needs, kept local to avoid an import cycle (resultdb imports woss for
// its value types).
type ResultDBConsultant interface {
	GetPressure(tx, rx CoordZ, freq float64, t Time) (Pressure, bool)
	PutPressure(tx, rx CoordZ, freq float64, t Time, p Pressure)
}

// NewWossManager constructs a manager. When maxWorkers > 0, engine runs
// for distinct links execute concurrently on a bounded pond pool;
// maxWorkers <= 0 runs every job synchronously on the calling goroutine.
func NewWossManager(creator *WossCreator, inv engine.Invoker, equivalenceRadiusM float64, maxWorkers int) *WossManager {
	m := &WossManager{
		Creator:            creator,
		Invoker:            inv,
		EquivalenceRadiusM: equivalenceRadiusM,
		entries:            make(map[CoordZ]map[CoordZ]*wossEntry),
	}
	if maxWorkers > 0 {
		m.pool = pond.New(maxWorkers, maxWorkers*4)
	}
	return m
}

// Close releases the worker pool, if any.
func (m *WossManager) Close() {
	if m.pool != nil {
		m.pool.StopAndWait()
	}
	if m.DB != nil {
		// best-effort; ResultDBConsultant does not require Close
	}
}

// findEquivalentTx returns the stored key within EquivalenceRadiusM of
// tx, if any, else tx itself (a fresh key).
func (m *WossManager) findEquivalentTx(tx CoordZ) (CoordZ, bool) {
	for k := range m.entries {
		if k.WithinRadius(tx, m.EquivalenceRadiusM) {
			return k, true
		}
	}
	return tx, false
}

func (m *WossManager) findEquivalentRx(rxMap map[CoordZ]*wossEntry, rx CoordZ) (CoordZ, bool) {
	for k := range rxMap {
		if k.WithinRadius(rx, m.EquivalenceRadiusM) {
			return k, true
		}
	}
	return rx, false
}

// GetWoss resolves the Woss for (tx, rx) spanning [start, end],
// creating and running it on first request and handing back the cached
// instance (after waiting for any in-flight run to finish) on
// subsequent requests for an equivalent link, per spec.md §5/§4.6.
func (m *WossManager) GetWoss(ctx context.Context, tx, rx CoordZ, start, end Time) *Woss {
	entry, created := m.lookupOrCreate(tx, rx, start, end)

	if created {
		// This goroutine registered the entry and owns running it. It
		// must kick the run off before ever waiting on entry.cond —
		// waiting first would block forever, since nothing else yet
		// holds a reference to broadcast completion.
		m.runEntry(ctx, entry)
	}

	entry.cond.L.Lock()
	for entry.running {
		entry.cond.Wait()
	}
	w := entry.woss
	entry.cond.L.Unlock()

	return w
}

// lookupOrCreate returns the entry for (tx, rx), creating and
// registering a fresh one if no equivalent link exists yet. The second
// return value tells the caller whether it is responsible for running
// the entry (true) or must wait on an in-flight/completed run by
// another goroutine (false).
func (m *WossManager) lookupOrCreate(tx, rx CoordZ, start, end Time) (*wossEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	txKey, txFound := m.findEquivalentTx(tx)
	rxMap, ok := m.entries[txKey]
	if !ok {
		rxMap = make(map[CoordZ]*wossEntry)
		m.entries[txKey] = rxMap
	}

	rxKey, rxFound := m.findEquivalentRx(rxMap, rx)
	if e, ok := rxMap[rxKey]; ok && txFound && rxFound {
		return e, false
	}

	w := m.Creator.CreateWoss(tx, rx, start, end)
	e := &wossEntry{woss: w, cond: sync.NewCond(&sync.Mutex{}), running: true}
	rxMap[rxKey] = e
	return e, true
}

// runEntry performs the one-time Initialize+Run for a freshly created
// entry, consulting and populating the result DB per frequency when
// configured, then wakes every goroutine waiting on entry.cond.
func (m *WossManager) runEntry(ctx context.Context, entry *wossEntry) {
	w := entry.woss

	finish := func() {
		entry.cond.L.Lock()
		entry.running = false
		entry.cond.L.Unlock()
		entry.cond.Broadcast()
	}

	task := func() {
		defer finish()

		if !w.Initialize() {
			log.Printf("woss: manager: woss %d failed to initialize", w.ID)
			return
		}

		if m.DB != nil && m.allCached(w) {
			return
		}

		if !w.Run(ctx, m.Invoker) {
			log.Printf("woss: manager: woss %d engine run failed", w.ID)
			return
		}

		if m.DB != nil {
			m.populateDB(w)
		}
	}

	if m.pool != nil {
		m.pool.Submit(task)
		return
	}
	task()
}

func (m *WossManager) allCached(w *Woss) bool {
	for _, f := range w.Frequencies.Frequencies() {
		if _, hit := m.DB.GetPressure(w.Tx, w.Rx, f, w.CurrentTime); !hit {
			return false
		}
	}
	return true
}

func (m *WossManager) populateDB(w *Woss) {
	for _, f := range w.Frequencies.Frequencies() {
		reader, ok := w.readers[f]
		if !ok {
			continue
		}
		for _, sd := range w.Params.SourceDepths {
			for _, rd := range w.Params.ReceiverDepths {
				for _, rr := range w.Params.ReceiverRanges {
					p := reader.Pressure(sd, rd, rr)
					if p.Valid() {
						m.DB.PutPressure(w.Tx, w.Rx, f, w.CurrentTime, p)
					}
				}
			}
		}
	}
}

// Prune removes every file under the creator's WorkDir whose
// modification time is before cutoff, first logging how many `.arr`
// engine outputs (of any age) the tree holds, and returns the number of
// files removed. A long-running WossManager should call this
// periodically to bound its disk footprint (spec.md §6's per-run
// working directory tree otherwise grows without limit).
func (m *WossManager) Prune(cutoff time.Time) (int, error) {
	stale, err := util.FindEngineOutputs(m.Creator.WorkDir, "*.arr")
	if err == nil && len(stale) > 0 {
		log.Printf("woss: manager: pruning files older than %s (%d engine .arr outputs present)", cutoff, len(stale))
	}
	return util.PruneOlderThan(m.Creator.WorkDir, cutoff)
}

// CoherentSum combines the per-frequency pressures of an already-run
// Woss into a single wideband pressure sample, per spec.md §4.6
// "Coherent summation across frequencies".
func CoherentSum(w *Woss, txDepth, rxDepth, rxRange float64) Pressure {
	sum := ZeroPressure()
	any := false
	for _, f := range w.Frequencies.Frequencies() {
		p := w.GetPressure(f, txDepth, rxDepth, rxRange)
		if !p.Valid() {
			continue
		}
		sum = sum.Add(p)
		any = true
	}
	if !any {
		return InvalidPressure()
	}
	return sum
}
