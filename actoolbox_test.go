package woss

import "testing"

func baseWossForSampling() *Woss {
	w := NewWoss()
	w.Tx = NewCoordZ(10, 20, 0)
	w.Rx = NewCoordZ(10, 20.1, 100)
	w.Providers = EnvironmentProviders{
		Bathymetry: testFlatProviders{},
		Sediment:   testFlatProviders{},
		SSP:        testFlatProviders{},
		Altimetry:  testFlatProviders{},
	}
	w.Params.RangeSteps = 4
	return w
}

func TestActoolboxInitializeRejectsIncompleteProviders(t *testing.T) {
	w := NewWoss()
	w.Providers = EnvironmentProviders{}
	w.Params.RangeSteps = 4

	if w.actoolboxInitialize() {
		t.Fatal("incomplete providers should fail initialization")
	}
}

func TestActoolboxInitializeRejectsNonPositiveRangeSteps(t *testing.T) {
	w := baseWossForSampling()
	w.Params.RangeSteps = 0

	if w.actoolboxInitialize() {
		t.Fatal("zero range steps should fail initialization")
	}
}

func TestActoolboxInitializePopulatesTransectState(t *testing.T) {
	w := baseWossForSampling()

	if !w.actoolboxInitialize() {
		t.Fatal("actoolboxInitialize should succeed with flat providers")
	}
	if len(w.rangeVector) != w.Params.RangeSteps+1 {
		t.Fatalf("rangeVector length: got %d, want %d", len(w.rangeVector), w.Params.RangeSteps+1)
	}
	if len(w.coordzVector) != len(w.rangeVector) {
		t.Fatalf("coordzVector should have one entry per range sample")
	}
	if w.coordzVector[0] != w.Tx {
		t.Fatal("the first sampled coordinate should be tx")
	}
	if w.coordzVector[len(w.coordzVector)-1] != w.Rx {
		t.Fatal("the last sampled coordinate should be rx")
	}
	if !w.sediment.Valid() {
		t.Fatal("sediment should be populated")
	}
	if !w.altimetry.Valid() {
		t.Fatal("altimetry should be populated")
	}
	if len(w.sspByRange) != len(w.rangeVector) {
		t.Fatal("one SSP sample per range point is expected")
	}
	// flat providers return an identical SSP at every range sample, so
	// every sample collapses into a single unique index.
	if len(w.uniqueIdx) != 1 {
		t.Fatalf("flat SSP should collapse to a single unique index, got %d", len(w.uniqueIdx))
	}
}
