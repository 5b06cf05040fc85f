package woss

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// ArrivalsBinaryReader parses the binary `.arr` arrivals file produced
// by the engine in ModeArrivalsBinary, per spec.md §4.4. The on-disk
// layout, little-endian throughout:
//
//	float32            frequency
//	int32, int32, int32  Nsd, Nrd, Nrr (axis counts)
//	float32 x Nsd        source depths
//	float32 x Nrd        receiver depths
//	float32 x Nrr        receiver ranges
//	8 bytes              padding (two unused int32 record markers)
//	for each (sd, rd, rr) in that nesting order:
//	    int32            narr
//	    narr x (float32 amp, float32 phaseDeg, float32 delayRe, float32 delayIm)
//	2 x float32          trailing padding
type ArrivalsBinaryReader struct {
	grid *arrGrid
}

// NewArrivalsBinaryReader opens and sums one binary arrivals file per
// entry in paths into a single grid, matching the engine's behavior of
// being re-invoked once per Monte-Carlo run with each run's output
// summed into the same logical job (spec.md §4.3 "run()"). The caller
// later divides by len(paths) to get the Monte-Carlo average.
func NewArrivalsBinaryReader(paths []string, freq float64) (*ArrivalsBinaryReader, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("woss: binary arrivals: no run outputs given")
	}

	var grid *arrGrid
	for i, path := range paths {
		g, err := parseArrivalsBinaryFile(path)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			grid = g
			continue
		}
		accumulateGrid(grid, g)
	}

	return &ArrivalsBinaryReader{grid: grid}, nil
}

func parseArrivalsBinaryFile(path string) (*arrGrid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("woss: open binary arrivals file: %w", err)
	}
	defer f.Close()

	br := bufio.NewReader(f)

	var hdrFreq float32
	if err := binary.Read(br, binary.LittleEndian, &hdrFreq); err != nil {
		return nil, fmt.Errorf("woss: binary arrivals: frequency header: %w", err)
	}

	counts := make([]int32, 3)
	if err := binary.Read(br, binary.LittleEndian, &counts); err != nil {
		return nil, fmt.Errorf("woss: binary arrivals: axis counts: %w", err)
	}
	nsd, nrd, nrr := int(counts[0]), int(counts[1]), int(counts[2])
	if nsd <= 0 || nrd <= 0 || nrr <= 0 {
		return nil, fmt.Errorf("woss: binary arrivals: %w: non-positive axis count", ErrRecordMalformed)
	}

	sd, err := readFloat32Axis(br, nsd)
	if err != nil {
		return nil, fmt.Errorf("woss: binary arrivals: source depths: %w", err)
	}
	rd, err := readFloat32Axis(br, nrd)
	if err != nil {
		return nil, fmt.Errorf("woss: binary arrivals: receiver depths: %w", err)
	}
	rr, err := readFloat32Axis(br, nrr)
	if err != nil {
		return nil, fmt.Errorf("woss: binary arrivals: receiver ranges: %w", err)
	}

	var pad [8]byte
	if _, err := io.ReadFull(br, pad[:]); err != nil {
		return nil, fmt.Errorf("woss: binary arrivals: header padding: %w", err)
	}

	grid := newArrGrid(sd, rd, rr)

	for ti := 0; ti < nsd; ti++ {
		for di := 0; di < nrd; di++ {
			for ri := 0; ri < nrr; ri++ {
				var narr int32
				if err := binary.Read(br, binary.LittleEndian, &narr); err != nil {
					return nil, fmt.Errorf("woss: binary arrivals: arrival count at (%d,%d,%d): %w", ti, di, ri, err)
				}

				t := CreateNotValid()
				for a := int32(0); a < narr; a++ {
					var rec [4]float32
					if err := binary.Read(br, binary.LittleEndian, &rec); err != nil {
						return nil, fmt.Errorf("woss: binary arrivals: arrival record: %w", err)
					}
					amp, phaseDeg, delayRe := float64(rec[0]), float64(rec[1]), float64(rec[2])
					phase := phaseDeg * math.Pi / 180.0
					t.SumValue(delayRe, NewPressureFromAmplPhase(amp, phase))
				}
				grid.set(ti, di, ri, t)
			}
		}
	}

	var trailer [2]float32
	_ = binary.Read(br, binary.LittleEndian, &trailer) // best-effort; EOF here is not an error

	return grid, nil
}

func readFloat32Axis(r io.Reader, n int) ([]float64, error) {
	raw := make([]float32, n)
	if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i, v := range raw {
		out[i] = float64(v)
	}
	return out, nil
}

func (r *ArrivalsBinaryReader) Pressure(txDepth, rxDepth, rxRange float64) Pressure {
	return r.grid.pressureAt(txDepth, rxDepth, rxRange)
}

func (r *ArrivalsBinaryReader) AvgPressure(txDepth, rxDepthLo, rxDepthHi, rxRangeLo, rxRangeHi float64) Pressure {
	return r.grid.avgPressureAt(txDepth, rxDepthLo, rxDepthHi, rxRangeLo, rxRangeHi)
}

func (r *ArrivalsBinaryReader) TimeArr(txDepth, rxDepth, rxRange float64) TimeArr {
	ti, di, ri := r.grid.indexOf(txDepth, rxDepth, rxRange)
	return r.grid.get(ti, di, ri)
}

func (r *ArrivalsBinaryReader) Close() error { return nil }
