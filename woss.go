package woss

import (
	"sync/atomic"
)

// EngineMode selects which on-disk result format the engine is asked to
// produce, and therefore which result-reader implementation is used to
// parse it back (spec.md §4.4). This is the "fixed enumeration" a valid
// Woss must set, per the validity rule in spec.md §4.3.
type EngineMode int

const (
	// ModeUnset marks a Woss that has not had an engine mode configured;
	// a Woss in this mode is never valid.
	ModeUnset EngineMode = iota
	// ModeArrivalsASCII drives the engine to produce a text `.arr` file,
	// parsed by the ASCII arrivals reader.
	ModeArrivalsASCII
	// ModeArrivalsBinary drives the engine to produce a binary `.arr`
	// file, parsed by the binary arrivals reader.
	ModeArrivalsBinary
	// ModeTransmissionLoss drives the engine to produce a binary `.shd`
	// transmission-loss field, parsed by the SHD reader.
	ModeTransmissionLoss
)

var wossIDCounter int64

// nextWossID returns a process-wide unique Woss id, guarded by a single
// atomic counter per spec.md §5 ("The process-wide unique Woss id
// counter is guarded by a single spinlock" — an atomic increment is the
// idiomatic Go equivalent of that single spinlock).
func nextWossID() int64 {
	return atomic.AddInt64(&wossIDCounter, 1)
}

// FrequencySet is the ordered, deduplicated set of frequencies (Hz) a
// Woss steps over. Quantization must be reproducible so that a result
// database keyed by frequency gets stable cache hits across repeated
// band requests (spec.md §4.6 "Multi-frequency stepping").
type FrequencySet struct {
	freqs []float64
}

// NewFrequencySet builds the quantized frequency set for [low, high]
// stepped by step (Hz). step <= 0 degenerates to the single frequency
// low (treated as equal to high).
func NewFrequencySet(low, high, step float64) FrequencySet {
	if high < low {
		low, high = high, low
	}
	if step <= 0 {
		return FrequencySet{freqs: []float64{low}}
	}

	var freqs []float64
	for f := low; f <= high+1e-9; f += step {
		freqs = append(freqs, f)
	}
	if len(freqs) == 0 {
		freqs = []float64{low}
	}

	return FrequencySet{freqs: freqs}
}

// Frequencies returns the ordered frequency list.
func (f FrequencySet) Frequencies() []float64 { return f.freqs }

// Len returns the number of frequencies in the set.
func (f FrequencySet) Len() int { return len(f.freqs) }

// LowerBound returns the index of the first frequency >= target,
// mirroring the std::set::lower_bound used by the WOSS manager to
// iterate a sub-range of a Woss's internal frequency set (spec.md §4.6).
func (f FrequencySet) LowerBound(target float64) int {
	lo, hi := 0, len(f.freqs)
	for lo < hi {
		mid := (lo + hi) / 2
		if f.freqs[mid] < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// Woss is the per-link simulation job described in spec.md §3/§4.3. It
// is constructed invalid, configured by a WossCreator, then driven
// through Initialize/Run/TimeEvolve by a WossManager. A Woss is
// referenced by at most one active query round at a time (spec.md §5).
type Woss struct {
	ID int64

	WorkDir string

	StartTime, CurrentTime, EndTime Time
	EvolutionQuantum                float64 // seconds; negative means "no re-run after first"

	Frequencies FrequencySet
	TotalRuns   int

	Tx, Rx          CoordZ
	Bearing         float64
	TotalDistance   float64 // great-circle metres, tx -> rx

	Mode EngineMode

	Params BellhopParams

	Providers EnvironmentProviders
	Registry  *DefinitionRegistry
	RNG       RandomGenerator

	running    bool
	hasRunOnce bool

	// environment sampling results populated by ACToolboxInitialize
	rangeVector  []float64
	coordzVector []CoordZ
	minBathy     float64
	maxBathy     float64
	sediment     Sediment
	altimetry    Altimetry
	sspByRange   []SoundSpeedProfile // one per range sample
	uniqueIdx    []int               // indices into rangeVector that are "unique" SSP positions
	minSSPMin    float64
	maxSSPMax    float64
	sspStepsMin  int
	sspStepsMax  int
	allTransform bool

	// bellhop-specific normalized state populated by BellhopInitialize
	normalizedSSP map[int]SoundSpeedProfile // keyed by range index (one per unique index)
	minNormDepth  float64
	maxNormDepth  float64
	boxDepth      float64
	boxRange      float64

	readers map[float64]ResultReader

	valid bool
}

// NewWoss constructs a Woss with a fresh process-wide id and empty
// lifecycle state; it is not valid until a WossCreator populates it and
// Initialize succeeds.
func NewWoss() *Woss {
	return &Woss{ID: nextWossID(), Mode: ModeUnset}
}

// IsRunning reports whether an engine invocation for this Woss is
// currently in flight.
func (w *Woss) IsRunning() bool { return w.running }

// HasRunOnce reports whether Run() has completed successfully at least
// once for this Woss.
func (w *Woss) HasRunOnce() bool { return w.hasRunOnce }

// Valid reports whether the job is configured: start and end times
// valid with start not after end, both coordinates valid, frequency set
// non-empty, an engine mode set, and the range-step, ray and run counts
// positive. The source-depth, receiver-depth and receiver-range lists
// are not checked.
func (w *Woss) Valid() bool {
	if !w.StartTime.Valid() || !w.EndTime.Valid() || w.StartTime.After(w.EndTime) {
		return false
	}
	if !w.Tx.Valid() || !w.Rx.Valid() {
		return false
	}
	if w.Frequencies.Len() == 0 {
		return false
	}
	if w.Mode == ModeUnset {
		return false
	}
	if w.Params.RangeSteps <= 0 || w.Params.RayCount <= 0 || w.TotalRuns <= 0 {
		return false
	}
	return true
}
