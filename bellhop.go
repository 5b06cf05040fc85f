package woss

import (
	"context"
	"fmt"
	"log"
	"math"
	"path/filepath"

	"github.com/oceanbench/woss/engine"
)

// sspNormalizationShape records which of the three shapes described in
// spec.md §4.3 "SSP normalization" was used, so file emission and
// lookup code can branch without re-deriving the decision.
type sspNormalizationShape int

const (
	shapeTransformed sspNormalizationShape = iota
	shapeAlreadyNormalized
	shapeSingleProfile
)

// Initialize runs the full BellhopWoss initialization sequence: the
// ACToolboxWoss environment sampling base, SSP normalization, offset and
// angle sanity clamps, ray-box defaults, and per-(frequency,run) config
// file emission (spec.md §4.3 "initialize() sequence").
func (w *Woss) Initialize() bool {
	if !w.actoolboxInitialize() {
		w.valid = false
		return false
	}

	if !w.Valid() {
		log.Printf("woss: woss %d: configuration invalid after environment sampling", w.ID)
		w.valid = false
		return false
	}

	shape := w.normalizeSSP()
	w.applyOffsetSanity()
	w.applyAngleClamp()
	w.applyBoxDefaults()

	if err := w.emitConfigFiles(shape); err != nil {
		log.Printf("woss: woss %d: failed emitting engine config files: %v", w.ID, err)
		w.valid = false
		return false
	}

	w.valid = true
	return true
}

// normalizeSSP implements spec.md §4.3 "SSP normalization", choosing one
// of three shapes and populating w.normalizedSSP / w.minNormDepth /
// w.maxNormDepth accordingly.
func (w *Woss) normalizeSSP() sspNormalizationShape {
	w.normalizedSSP = make(map[int]SoundSpeedProfile)

	if w.allTransform && w.Params.TransformSSPDepthSteps > 0 {
		zMin := math.Min(w.minAltimetryDepth(), w.minSSPMin)
		zMax := math.Min(w.maxBathy, w.maxSSPMax)

		for _, idx := range w.uniqueIdx {
			w.normalizedSSP[idx] = w.sspByRange[idx].Transform(w.coordzVector[idx], zMin, zMax, w.Params.TransformSSPDepthSteps)
		}
		w.minNormDepth, w.maxNormDepth = zMin, zMax
		return shapeTransformed
	}

	if w.sspStepsMin == w.sspStepsMax && sameMinMaxDepth(w.sspByRange, w.uniqueIdx) {
		for _, idx := range w.uniqueIdx {
			w.normalizedSSP[idx] = w.sspByRange[idx].Truncate(w.maxBathy)
		}
		w.minNormDepth = w.minSSPMin
		w.maxNormDepth = math.Min(w.maxBathy, w.maxSSPMax)
		return shapeAlreadyNormalized
	}

	first := w.sspByRange[0].Clone()
	w.normalizedSSP[0] = first
	w.minNormDepth = first.MinDepth()
	w.maxNormDepth = first.MaxDepth()
	return shapeSingleProfile
}

func sameMinMaxDepth(ssps []SoundSpeedProfile, unique []int) bool {
	if len(unique) == 0 {
		return true
	}
	minD, maxD := ssps[unique[0]].MinDepth(), ssps[unique[0]].MaxDepth()
	for _, idx := range unique[1:] {
		if ssps[idx].MinDepth() != minD || ssps[idx].MaxDepth() != maxD {
			return false
		}
	}
	return true
}

func (w *Woss) minAltimetryDepth() float64 {
	if !w.altimetry.Valid() {
		return w.minSSPMin
	}
	min, _ := w.altimetry.MinMax()
	return min
}

// applyOffsetSanity clamps tx/rx depth and range offsets per spec.md
// §4.3 "Offset sanity".
func (w *Woss) applyOffsetSanity() {
	lowerBound := w.minNormDepth
	upperBound := math.Min(w.maxBathy, w.maxNormDepth)
	margin := 0.02 * (upperBound - lowerBound)

	clampDepth := func(d float64) float64 {
		if d < lowerBound+margin {
			return lowerBound + margin
		}
		if d > upperBound-margin {
			return upperBound - margin
		}
		return d
	}

	w.Params.TxDepthOffset = clampDepth(w.Params.TxDepthOffset)
	w.Params.RxDepthOffset = clampDepth(w.Params.RxDepthOffset)

	lowRange := -w.TotalDistance
	highRange := 1.1 * w.TotalDistance
	if w.Params.RxRangeOffset <= lowRange {
		w.Params.RxRangeOffset = lowRange + 1e-6
	}
	if w.Params.RxRangeOffset >= highRange {
		w.Params.RxRangeOffset = highRange - 1e-6
	}
}

// applyAngleClamp implements spec.md §4.3 "Angle clamp": a pure
// vertical channel (great-circle distance 0, 3-D distance > 0) forces
// launch angles to +/- max(|min|, |max|).
func (w *Woss) applyAngleClamp() {
	if w.TotalDistance == 0 && w.Tx.CartesianDistance(w.Rx) > 0 {
		m := math.Max(math.Abs(w.Params.MinAngleDeg), math.Abs(w.Params.MaxAngleDeg))
		w.Params.MinAngleDeg = -m
		w.Params.MaxAngleDeg = m
	}
}

// applyBoxDefaults implements spec.md §4.3 "Box": ray-box depth/range
// default to 110% of environment depth / requested range when not
// user-set (i.e. left at zero).
func (w *Woss) applyBoxDefaults() {
	if w.Params.BoxDepth <= 0 {
		w.boxDepth = 1.10 * w.maxBathy
	} else {
		w.boxDepth = w.Params.BoxDepth
	}

	if w.Params.BoxRange <= 0 {
		reqRange := w.TotalDistance
		if len(w.Params.ReceiverRanges) > 0 {
			reqRange = lastOf(w.Params.ReceiverRanges)
		}
		w.boxRange = 1.10 * reqRange
	} else {
		w.boxRange = w.Params.BoxRange
	}
}

func lastOf(s []float64) float64 {
	m := s[0]
	for _, v := range s[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// workDirFor returns the working subdirectory for a (frequency, run)
// pair, per spec.md §6 "Working directory layout":
// <work_dir>/woss<id>/freq<hz>/time<unix_seconds>/run<n>.
func (w *Woss) workDirFor(freq float64, run int) string {
	return filepath.Join(w.WorkDir,
		fmt.Sprintf("woss%d", w.ID),
		fmt.Sprintf("freq%d", int64(freq)),
		fmt.Sprintf("time%d", w.CurrentTime.Std().Unix()),
		fmt.Sprintf("run%d", run))
}

// Run invokes the engine once per (frequency, run) pair in the job's
// frequency set, per spec.md §4.3 "run()". Non-zero exit terminates the
// job with an error; successful invocations populate w.readers.
func (w *Woss) Run(ctx context.Context, inv engine.Invoker) bool {
	if !w.valid {
		return false
	}

	w.running = true
	defer func() { w.running = false }()

	if w.readers == nil {
		w.readers = make(map[float64]ResultReader)
	}

	for _, f := range w.Frequencies.Frequencies() {
		dirs := make([]string, 0, w.TotalRuns)
		for run := 0; run < w.TotalRuns; run++ {
			dir := w.workDirFor(f, run)
			argv := []string{filepath.Join(w.Params.EnginePath, "bellhop.exe"), "bellhop"}

			exitCode, err := inv.Run(ctx, dir, argv, nil)
			if err != nil || exitCode != 0 {
				log.Printf("woss: woss %d: engine exited with code %d for freq %.1f run %d: %v", w.ID, exitCode, f, run, err)
				return false
			}
			dirs = append(dirs, dir)
		}

		reader, err := w.openResultReader(dirs, f)
		if err != nil {
			log.Printf("woss: woss %d: failed opening result reader for freq %.1f: %v", w.ID, f, err)
			return false
		}
		w.readers[f] = reader
	}

	w.hasRunOnce = true
	return true
}

// openResultReader constructs and initializes the result reader variant
// selected by w.Mode, reading and summing every run's output file the
// engine just produced in dirs (spec.md §4.3
// "run()", §3 glossary "Run" — each Monte-Carlo run accumulates into
// the same logical job rather than replacing the prior run's result).
func (w *Woss) openResultReader(dirs []string, freq float64) (ResultReader, error) {
	switch w.Mode {
	case ModeArrivalsASCII:
		return NewArrivalsASCIIReader(arrPaths(dirs, "bellhop.arr"), freq)
	case ModeArrivalsBinary:
		return NewArrivalsBinaryReader(arrPaths(dirs, "bellhop.arr"), freq)
	case ModeTransmissionLoss:
		r, err := NewSHDReader(filepath.Join(dirs[0], "bellhop.shd"))
		for i := 1; err == nil && i < len(dirs); i++ {
			var o *SHDReader
			if o, err = NewSHDReader(filepath.Join(dirs[i], "bellhop.shd")); err == nil {
				for ti, plane := range r.grid.cells {
					for di, row := range plane {
						for ri := range row {
							row[ri] = row[ri].Add(o.grid.get(ti, di, ri))
						}
					}
				}
				o.Close()
			}
		}
		return r, err
	default:
		return nil, ErrWossInvalid
	}
}

func arrPaths(dirs []string, name string) []string {
	paths := make([]string, len(dirs))
	for i, d := range dirs {
		paths[i] = filepath.Join(d, name)
	}
	return paths
}

// TimeEvolve implements spec.md §4.3 "timeEvolve(t)". It returns true
// when the caller must re-run the engine (first run, or a jump beyond
// the evolution quantum), false when the cached state is still valid.
func (w *Woss) TimeEvolve(t Time) bool {
	if !t.Valid() {
		return false
	}

	if w.EvolutionQuantum < 0 {
		return !w.hasRunOnce
	}

	clamped := t.Clamp(w.StartTime, w.EndTime)

	if math.Abs(clamped.SubSeconds(w.CurrentTime)) >= w.EvolutionQuantum || !w.hasRunOnce {
		w.CurrentTime = clamped
		w.Initialize()
		return true
	}

	return !w.hasRunOnce
}

// clampIndex quantizes value onto an axis with N+1 samples spanning
// [axis0, axisLast], per the shared grid-quantization rule in spec.md
// §4.4: floor((value-axis0)/step), snapping to-range and rounding
// ties (fractional part >= 0.5) up.
func clampIndex(value, axis0, axisLast float64, n int) int {
	if n <= 0 {
		return 0
	}
	if value <= axis0 {
		return 0
	}
	if value >= axisLast {
		return n
	}

	step := (axisLast - axis0) / float64(n)
	raw := (value - axis0) / step
	idx := math.Floor(raw)
	if raw-idx >= 0.5 {
		idx++
	}
	if int(idx) > n {
		return n
	}
	if int(idx) < 0 {
		return 0
	}
	return int(idx)
}

// GetPressure looks up the Monte-Carlo averaged pressure for a single
// frequency already present in w.readers (spec.md §4.3 lookup methods).
func (w *Woss) GetPressure(freq, txDepth, rxDepth, rxRange float64) Pressure {
	reader, ok := w.readers[freq]
	if !ok {
		return InvalidPressure()
	}
	return reader.Pressure(txDepth, rxDepth, rxRange).DivScalar(float64(w.TotalRuns))
}

// GetAvgPressure looks up the cached average-pressure window query for
// a single frequency (spec.md §4.4 "Average-pressure queries").
func (w *Woss) GetAvgPressure(freq, txDepth float64, rxDepthLo, rxDepthHi, rxRangeLo, rxRangeHi float64) Pressure {
	reader, ok := w.readers[freq]
	if !ok {
		return InvalidPressure()
	}
	return reader.AvgPressure(txDepth, rxDepthLo, rxDepthHi, rxRangeLo, rxRangeHi).DivScalar(float64(w.TotalRuns))
}

// GetTimeArr looks up the Monte-Carlo averaged impulse response for a
// single frequency already present in w.readers.
func (w *Woss) GetTimeArr(freq, txDepth, rxDepth, rxRange float64) TimeArr {
	reader, ok := w.readers[freq]
	if !ok {
		return CreateNotValid()
	}
	return reader.TimeArr(txDepth, rxDepth, rxRange).DivScalar(float64(w.TotalRuns))
}
