package woss

import "sync"

// arrGrid is the common storage and lookup shape shared by the ASCII and
// binary arrivals readers: a 3-D grid of accumulated impulse responses
// indexed by (source depth, receiver depth, receiver range), per
// spec.md §4.4. Multiple engine runs accumulate into the same cell via
// Add; callers divide by the run count to get the Monte-Carlo average.
type arrGrid struct {
	txDepths, rxDepths, rxRanges []float64
	cells                        [][][]TimeArr // [tx][rx][range]

	mu      sync.Mutex
	avgMemo map[avgKey]Pressure
}

type avgKey struct {
	txDepth                                   float64
	rxDepthLo, rxDepthHi, rxRangeLo, rxRangeHi float64
}

func newArrGrid(txDepths, rxDepths, rxRanges []float64) *arrGrid {
	cells := make([][][]TimeArr, len(txDepths))
	for i := range cells {
		cells[i] = make([][]TimeArr, len(rxDepths))
		for j := range cells[i] {
			row := make([]TimeArr, len(rxRanges))
			for k := range row {
				row[k] = CreateNotValid()
			}
			cells[i][j] = row
		}
	}
	return &arrGrid{
		txDepths: txDepths, rxDepths: rxDepths, rxRanges: rxRanges,
		cells:   cells,
		avgMemo: make(map[avgKey]Pressure),
	}
}

// indexOf quantizes a (tx_depth, rx_depth, rx_range) query onto the
// nearest grid cell, per the quantization rule in spec.md §4.4.
func (g *arrGrid) indexOf(txDepth, rxDepth, rxRange float64) (ti, di, ri int) {
	ti = nearestAxisIndex(g.txDepths, txDepth)
	di = nearestAxisIndex(g.rxDepths, rxDepth)
	ri = nearestAxisIndex(g.rxRanges, rxRange)
	return
}

// nearestAxisIndex quantizes value onto axis, which need not be
// evenly spaced: it finds the closest sample, with ties broken toward
// the larger index (matching the half-up rounding rule used elsewhere
// for evenly-spaced grids).
func nearestAxisIndex(axis []float64, value float64) int {
	if len(axis) == 0 {
		return 0
	}
	if len(axis) == 1 {
		return 0
	}
	if value <= axis[0] {
		return 0
	}
	if value >= axis[len(axis)-1] {
		return len(axis) - 1
	}

	best := 0
	bestDist := absF(axis[0] - value)
	for i := 1; i < len(axis); i++ {
		d := absF(axis[i] - value)
		if d < bestDist || (d == bestDist && axis[i] > axis[best]) {
			best = i
			bestDist = d
		}
	}
	return best
}

func (g *arrGrid) set(ti, di, ri int, t TimeArr) {
	g.cells[ti][di][ri] = t
}

func (g *arrGrid) accumulate(ti, di, ri int, t TimeArr) {
	g.cells[ti][di][ri] = g.cells[ti][di][ri].Add(t)
}

func (g *arrGrid) get(ti, di, ri int) TimeArr {
	return g.cells[ti][di][ri]
}

// Pressure implements ResultReader.Pressure for arrivals-backed readers.
func (g *arrGrid) pressureAt(txDepth, rxDepth, rxRange float64) Pressure {
	ti, di, ri := g.indexOf(txDepth, rxDepth, rxRange)
	return g.get(ti, di, ri).ToPressure()
}

// avgPressureAt implements ResultReader.AvgPressure: coherent sum of
// every cell inside the closed window divided by the number of cells
// summed, memoized per distinct window so repeated identical queries
// (common in a WossManager hot path) don't
// re-sum the grid (spec.md §4.4 "Average-pressure queries").
func (g *arrGrid) avgPressureAt(txDepth, rxDepthLo, rxDepthHi, rxRangeLo, rxRangeHi float64) Pressure {
	key := avgKey{txDepth, rxDepthLo, rxDepthHi, rxRangeLo, rxRangeHi}

	g.mu.Lock()
	if p, ok := g.avgMemo[key]; ok {
		g.mu.Unlock()
		return p
	}
	g.mu.Unlock()

	ti := nearestAxisIndex(g.txDepths, txDepth)

	sum := ZeroPressure()
	count := 0
	for di, d := range g.rxDepths {
		if d < rxDepthLo || d > rxDepthHi {
			continue
		}
		for ri, r := range g.rxRanges {
			if r < rxRangeLo || r > rxRangeHi {
				continue
			}
			p := g.cells[ti][di][ri].ToPressure()
			if !p.Valid() {
				continue
			}
			sum = sum.Add(p)
			count++
		}
	}

	avg := InvalidPressure()
	if count > 0 {
		avg = sum.DivScalar(float64(count))
	}

	g.mu.Lock()
	g.avgMemo[key] = avg
	g.mu.Unlock()

	return avg
}
