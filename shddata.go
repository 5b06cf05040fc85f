package woss

import "sync"

// shdGrid is the 3-D complex-pressure grid backing SHDReader, indexed by
// (source depth, receiver depth, receiver range) exactly like arrGrid
// but carrying Pressure directly since a transmission-loss field has no
// arrival-time structure (spec.md §4.4).
type shdGrid struct {
	txDepths, rxDepths, rxRanges []float64
	cells                        [][][]Pressure

	mu      sync.Mutex
	avgMemo map[avgKey]Pressure
}

func newShdGrid(txDepths, rxDepths, rxRanges []float64) *shdGrid {
	cells := make([][][]Pressure, len(txDepths))
	for i := range cells {
		cells[i] = make([][]Pressure, len(rxDepths))
		for j := range cells[i] {
			row := make([]Pressure, len(rxRanges))
			for k := range row {
				row[k] = InvalidPressure()
			}
			cells[i][j] = row
		}
	}
	return &shdGrid{
		txDepths: txDepths, rxDepths: rxDepths, rxRanges: rxRanges,
		cells:   cells,
		avgMemo: make(map[avgKey]Pressure),
	}
}

func (g *shdGrid) indexOf(txDepth, rxDepth, rxRange float64) (ti, di, ri int) {
	return nearestAxisIndex(g.txDepths, txDepth), nearestAxisIndex(g.rxDepths, rxDepth), nearestAxisIndex(g.rxRanges, rxRange)
}

func (g *shdGrid) set(ti, di, ri int, p Pressure) { g.cells[ti][di][ri] = p }
func (g *shdGrid) get(ti, di, ri int) Pressure    { return g.cells[ti][di][ri] }

func (g *shdGrid) pressureAt(txDepth, rxDepth, rxRange float64) Pressure {
	ti, di, ri := g.indexOf(txDepth, rxDepth, rxRange)
	return g.get(ti, di, ri)
}

func (g *shdGrid) avgPressureAt(txDepth, rxDepthLo, rxDepthHi, rxRangeLo, rxRangeHi float64) Pressure {
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
			p := g.cells[ti][di][ri]
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
