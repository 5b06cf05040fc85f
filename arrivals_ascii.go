package woss

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// ArrivalsASCIIReader parses a text `.arr` arrivals file produced by the
// engine in ModeArrivalsASCII, per spec.md §4.4. It tolerates the three
// column-count variants the engine has shipped over time (6, 8 or 10
// fields per arrival record) and recovers from the "glitch" where two
// numbers on a Fortran-formatted line run together without a separating
// space by re-splitting on a sign character.
type ArrivalsASCIIReader struct {
	grid *arrGrid
	freq float64
}

// NewArrivalsASCIIReader opens and sums one arrivals file per entry in
// paths into a single grid, matching the engine's behavior of being
// re-invoked once per Monte-Carlo run with each run's output summed
// into the same logical job (spec.md §4.3 "run()", §3 glossary "Run").
// The caller later divides by len(paths) to get the Monte-Carlo average.
func NewArrivalsASCIIReader(paths []string, freq float64) (*ArrivalsASCIIReader, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("woss: arrivals file: no run outputs given")
	}

	r := &ArrivalsASCIIReader{freq: freq}
	for i, path := range paths {
		grid, err := parseArrivalsASCIIFile(path)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			r.grid = grid
			continue
		}
		accumulateGrid(r.grid, grid)
	}
	return r, nil
}

func parseArrivalsASCIIFile(path string) (*arrGrid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("woss: open arrivals file: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lines := make([]string, 0, 1024)
	for sc.Scan() {
		lines = append(lines, strings.TrimSpace(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("woss: read arrivals file: %w", err)
	}

	return parseArrivalsASCIILines(lines)
}

func parseArrivalsASCIILines(lines []string) (*arrGrid, error) {
	cur := 0
	nextLine := func() (string, error) {
		if cur >= len(lines) {
			return "", fmt.Errorf("woss: arrivals file: unexpected EOF")
		}
		l := lines[cur]
		cur++
		return l, nil
	}
	nextFloats := func() ([]float64, error) {
		l, err := nextLine()
		if err != nil {
			return nil, err
		}
		return parseFloats(l)
	}

	if _, err := nextLine(); err != nil { // frequency header line, value already known from the job
		return nil, err
	}

	sd, err := readCountedAxis(nextLine, nextFloats)
	if err != nil {
		return nil, fmt.Errorf("woss: arrivals file: source depths: %w", err)
	}
	rd, err := readCountedAxis(nextLine, nextFloats)
	if err != nil {
		return nil, fmt.Errorf("woss: arrivals file: receiver depths: %w", err)
	}
	rr, err := readCountedAxis(nextLine, nextFloats)
	if err != nil {
		return nil, fmt.Errorf("woss: arrivals file: receiver ranges: %w", err)
	}

	grid := newArrGrid(sd, rd, rr)

	for ti := range sd {
		for di := range rd {
			for ri := range rr {
				narrLine, err := nextLine()
				if err != nil {
					return nil, fmt.Errorf("woss: arrivals file: arrival count at (%d,%d,%d): %w", ti, di, ri, err)
				}
				narr, err := strconv.Atoi(strings.Fields(narrLine)[0])
				if err != nil {
					return nil, fmt.Errorf("woss: arrivals file: bad arrival count %q: %w", narrLine, err)
				}

				t := CreateNotValid()
				for a := 0; a < narr; a++ {
					line, err := nextLine()
					if err != nil {
						return nil, fmt.Errorf("woss: arrivals file: arrival record: %w", err)
					}
					fields, err := parseArrivalFields(line)
					if err != nil {
						return nil, err
					}
					amp, phaseDeg, delay := fields[0], fields[1], fields[2]
					phase := phaseDeg * math.Pi / 180.0
					p := NewPressureFromAmplPhase(amp, phase)
					t.SumValue(delay, p)
				}
				grid.set(ti, di, ri, t)
			}
		}
	}

	return grid, nil
}

// accumulateGrid sums src's cells into dst, used to fold a later run's
// arrivals into the grid a prior run already populated. The two grids
// always share the same axes since they come from the same job.
func accumulateGrid(dst, src *arrGrid) {
	for ti := range src.cells {
		for di := range src.cells[ti] {
			for ri := range src.cells[ti][di] {
				dst.accumulate(ti, di, ri, src.cells[ti][di][ri])
			}
		}
	}
}

// readCountedAxis reads an axis in the "count line, then value line(s)"
// shape shared by source depths/receiver depths/receiver ranges.
func readCountedAxis(nextLine func() (string, error), nextFloats func() ([]float64, error)) ([]float64, error) {
	countLine, err := nextLine()
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(strings.Fields(countLine)[0])
	if err != nil {
		return nil, fmt.Errorf("bad count %q: %w", countLine, err)
	}

	vals, err := nextFloats()
	if err != nil {
		return nil, err
	}
	for len(vals) < n {
		more, err := nextFloats()
		if err != nil {
			return nil, err
		}
		vals = append(vals, more...)
	}
	return vals[:n], nil
}

func parseFloats(line string) ([]float64, error) {
	fields := strings.Fields(line)
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("bad float %q in %q: %w", f, line, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// parseArrivalFields handles the three arrival-record variants (6, 8 or
// 10 whitespace-separated fields: amplitude, phase, delay[, delay_im],
// source angle, receiver angle[, nic, nsb][, Nx, Ny]) and the glitch
// where two adjacent numbers are concatenated without a space (e.g.
// "1.23-4.56" meaning 1.23 followed by -4.56).
func parseArrivalFields(line string) ([]float64, error) {
	fields, err := parseFloats(line)
	if err == nil && len(fields) >= 3 {
		return fields, nil
	}

	fixed := fixGlitchedLine(line)
	fields, err = parseFloats(fixed)
	if err != nil || len(fields) < 3 {
		return nil, fmt.Errorf("woss: arrivals file: malformed arrival record %q: %w", line, ErrRecordMalformed)
	}
	return fields, nil
}

// fixGlitchedLine inserts a separating space before any '-' that
// follows a digit without intervening whitespace, recovering the
// Fortran fixed-width glitch where a negative number abuts its
// predecessor.
func fixGlitchedLine(line string) string {
	var b strings.Builder
	for i, r := range line {
		if r == '-' && i > 0 {
			prev := line[i-1]
			if prev >= '0' && prev <= '9' {
				b.WriteByte(' ')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (r *ArrivalsASCIIReader) Pressure(txDepth, rxDepth, rxRange float64) Pressure {
	return r.grid.pressureAt(txDepth, rxDepth, rxRange)
}

func (r *ArrivalsASCIIReader) AvgPressure(txDepth, rxDepthLo, rxDepthHi, rxRangeLo, rxRangeHi float64) Pressure {
	return r.grid.avgPressureAt(txDepth, rxDepthLo, rxDepthHi, rxRangeLo, rxRangeHi)
}

func (r *ArrivalsASCIIReader) TimeArr(txDepth, rxDepth, rxRange float64) TimeArr {
	ti, di, ri := r.grid.indexOf(txDepth, rxDepth, rxRange)
	return r.grid.get(ti, di, ri)
}

func (r *ArrivalsASCIIReader) Close() error { return nil }
