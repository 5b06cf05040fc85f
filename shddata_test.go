package woss

import "testing"

func TestShdGridSetAndGetRoundTrip(t *testing.T) {
	g := newShdGrid([]float64{0}, []float64{50}, []float64{1000})
	g.set(0, 0, 0, NewPressure(complex(3, 4)))

	if got := g.get(0, 0, 0); got.Complex() != complex(3, 4) {
		t.Fatalf("got %v, want (3+4i)", got.Complex())
	}
}

func TestShdGridAvgPressureAtDividesByCellsSummed(t *testing.T) {
	g := newShdGrid([]float64{0}, []float64{10, 20}, []float64{1000})
	g.set(0, 0, 0, NewPressure(complex(2, 0)))
	g.set(0, 1, 0, NewPressure(complex(6, 0)))

	got := g.avgPressureAt(0, 10, 20, 1000, 1000)
	if got.Complex() != complex(4, 0) {
		t.Fatalf("got %v, want (4+0i)", got.Complex())
	}
}

func TestShdGridAvgPressureAtSkipsInvalidCells(t *testing.T) {
	g := newShdGrid([]float64{0}, []float64{10, 20}, []float64{1000})
	g.set(0, 0, 0, NewPressure(complex(8, 0)))
	// (0,1,0) stays InvalidPressure from newShdGrid's default fill.

	got := g.avgPressureAt(0, 10, 20, 1000, 1000)
	if got.Complex() != complex(8, 0) {
		t.Fatalf("an invalid cell should be excluded from the average: got %v, want (8+0i)", got.Complex())
	}
}
