// Package control wires the acoustic-channel orchestrator's pieces
// (providers, registry, creator, manager, result cache) into a single
// entry point for applications, resolving every dependency once before
// any work is submitted.
//
// It lives outside package woss specifically because resultdb imports
// woss for its value types; putting the result-cache wiring here
// instead of in woss avoids a woss -> resultdb -> woss import cycle.
package control

import (
	"context"

	"github.com/oceanbench/woss"
	"github.com/oceanbench/woss/engine"
	"github.com/oceanbench/woss/resultdb"
)

// Controller is the top-level wiring object from spec.md §4.7: the
// single entry point an application holds, bundling the environment
// providers, the definition registry, the per-link tunable creator, the
// manager cache, and (optionally) a persistent result database, so
// callers never construct a Woss directly.
type Controller struct {
	Providers woss.EnvironmentProviders
	Registry  *woss.DefinitionRegistry
	Creator   *woss.WossCreator
	Manager   *woss.WossManager
	DB        resultdb.ResultDB
}

// Config collects the construction-time choices a Controller needs:
// where the engine binary lives, where per-run working directories are
// written, how many links may run concurrently, the
// coordinate-equivalence radius for cache reuse, and (optionally) a
// TileDB URI for persistent result caching.
type Config struct {
	EnginePath         string
	WorkDir            string
	EquivalenceRadiusM float64
	MaxConcurrentLinks int

	ResultDBURI       string
	ResultDBConfigURI string
}

// New wires a Controller from providers, a registry, and a config
// block, resolving every dependency (TileDB config/context, worker
// pool) up front in one place before any work is submitted.
func New(providers woss.EnvironmentProviders, registry *woss.DefinitionRegistry, cfg Config, inv engine.Invoker) (*Controller, error) {
	if registry == nil {
		registry = woss.NewDefaultDefinitionRegistry()
	}

	creator := woss.NewWossCreator(providers, registry, cfg.WorkDir, cfg.EnginePath)

	manager := woss.NewWossManager(creator, inv, cfg.EquivalenceRadiusM, cfg.MaxConcurrentLinks)

	c := &Controller{
		Providers: providers,
		Registry:  registry,
		Creator:   creator,
		Manager:   manager,
	}

	if cfg.ResultDBURI != "" {
		store, err := resultdb.OpenTileDBStore(cfg.ResultDBURI, cfg.ResultDBConfigURI)
		if err != nil {
			return nil, err
		}
		c.DB = store
		manager.DB = resultDBAdapter{store: store}
	}

	return c, nil
}

// resultDBAdapter narrows a resultdb.ResultDB to the
// woss.ResultDBConsultant shape WossManager needs, translating its (tx,
// rx, freq, time) lookup into a resultdb.Key and swallowing arrival-time
// data on the read path since the manager only consults the cache for
// pressure hits.
type resultDBAdapter struct {
	store resultdb.ResultDB
}

func (a resultDBAdapter) GetPressure(tx, rx woss.CoordZ, freq float64, t woss.Time) (woss.Pressure, bool) {
	key := resultdb.Key{Tx: tx, Rx: rx, Freq: freq, Time: t}
	entry, ok, err := a.store.Get(key)
	if err != nil || !ok {
		return woss.InvalidPressure(), false
	}
	return entry.Pressure, true
}

func (a resultDBAdapter) PutPressure(tx, rx woss.CoordZ, freq float64, t woss.Time, p woss.Pressure) {
	key := resultdb.Key{Tx: tx, Rx: rx, Freq: freq, Time: t}
	_ = a.store.Put(key, resultdb.Entry{Pressure: p, TimeArr: woss.CreateNotValid()})
}

// Close shuts down the manager's worker pool and, if open, the result
// database.
func (c *Controller) Close() error {
	c.Manager.Close()
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// Query is the single high-level operation spec.md §4.7 exposes to
// callers: resolve the Woss for (tx, rx) over [start, end], run it if
// necessary, and return the coherently-summed pressure and the arrival
// structure of the job's first frequency at the requested geometry and
// instant.
func (c *Controller) Query(ctx context.Context, tx, rx woss.CoordZ, start, end, at woss.Time) (woss.Pressure, woss.TimeArr, bool) {
	w := c.Manager.GetWoss(ctx, tx, rx, start, end)
	if !w.Valid() {
		return woss.InvalidPressure(), woss.CreateNotValid(), false
	}

	// TimeEvolve reports true only when the clock moved far enough (or
	// this is the first query) that the engine must be re-run; false is
	// the common "cached state is still valid" case and is not a
	// failure.
	if w.TimeEvolve(at) {
		if !w.Run(ctx, c.Manager.Invoker) {
			return woss.InvalidPressure(), woss.CreateNotValid(), false
		}
	}

	txDepth := tx.Depth()
	rxDepth := rx.Depth()
	rxRange := tx.GreatCircleDistance(rx)

	p := woss.CoherentSum(w, txDepth, rxDepth, rxRange)

	freqs := w.Frequencies.Frequencies()
	if len(freqs) == 0 {
		return p, woss.CreateNotValid(), p.Valid()
	}
	ta := w.GetTimeArr(freqs[0], txDepth, rxDepth, rxRange)

	return p, ta, p.Valid()
}
