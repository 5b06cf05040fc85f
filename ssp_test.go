package woss

import (
	"math"
	"testing"
)

func TestSoundSpeedProfileSortsAndInterpolates(t *testing.T) {
	ssp := NewSoundSpeedProfile([]float64{50, 0, 100}, []float64{1510, 1500, 1520}, false)

	if got := ssp.MinDepth(); got != 0 {
		t.Fatalf("MinDepth: got %v, want 0", got)
	}
	if got := ssp.MaxDepth(); got != 100 {
		t.Fatalf("MaxDepth: got %v, want 100", got)
	}

	got := ssp.speedAt(25)
	want := 1505.0
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("speedAt(25): got %v, want %v", got, want)
	}
}

func TestSoundSpeedProfileSpeedAtClampsOutsideRange(t *testing.T) {
	ssp := NewSoundSpeedProfile([]float64{0, 100}, []float64{1500, 1520}, false)

	if got := ssp.speedAt(-10); got != 1500 {
		t.Fatalf("below range should clamp to first speed: got %v", got)
	}
	if got := ssp.speedAt(200); got != 1520 {
		t.Fatalf("above range should clamp to last speed: got %v", got)
	}
}

func TestSoundSpeedProfileTransformProducesExactStepCount(t *testing.T) {
	ssp := NewSoundSpeedProfile([]float64{0, 100}, []float64{1500, 1520}, true)

	out := ssp.Transform(CoordZ{}, 0, 100, 5)
	if out.Len() != 5 {
		t.Fatalf("Transform should produce exactly 5 points: got %d", out.Len())
	}
	if out.MinDepth() != 0 || out.MaxDepth() != 100 {
		t.Fatalf("Transform bounds: got [%v, %v], want [0, 100]", out.MinDepth(), out.MaxDepth())
	}
}

func TestSoundSpeedProfileTransformRejectsTooFewSteps(t *testing.T) {
	ssp := NewSoundSpeedProfile([]float64{0, 100}, []float64{1500, 1520}, true)
	out := ssp.Transform(CoordZ{}, 0, 100, 1)
	if out.Valid() {
		t.Fatal("Transform with fewer than 2 steps should return an invalid SSP")
	}
}

func TestSoundSpeedProfileEqual(t *testing.T) {
	a := NewSoundSpeedProfile([]float64{0, 50}, []float64{1500, 1510}, false)
	b := NewSoundSpeedProfile([]float64{0, 50}, []float64{1500, 1510}, false)
	c := NewSoundSpeedProfile([]float64{0, 50}, []float64{1500, 1511}, false)

	if !a.Equal(b) {
		t.Fatal("identical profiles should be Equal")
	}
	if a.Equal(c) {
		t.Fatal("profiles differing by one speed sample should not be Equal")
	}
}

func TestSoundSpeedProfileRandomizePreservesDepths(t *testing.T) {
	ssp := NewSoundSpeedProfile([]float64{0, 50, 100}, []float64{1500, 1505, 1510}, false)
	rng := NewDefaultRandomGenerator(42)

	out := ssp.Randomize(0.05, rng)
	if !slicesAlmostEqual(out.Depths(), ssp.Depths()) {
		t.Fatal("Randomize must not alter depths")
	}
	if out.Equal(ssp) {
		t.Fatal("Randomize should perturb speeds (extremely unlikely to match exactly)")
	}
}

func TestSoundSpeedProfileTruncateInterpolatesAtCutoff(t *testing.T) {
	ssp := NewSoundSpeedProfile([]float64{0, 50, 100}, []float64{1500, 1510, 1520}, false)

	out := ssp.Truncate(75)
	if out.MaxDepth() != 75 {
		t.Fatalf("Truncate should cut the profile at maxDepth: got max depth %v, want 75", out.MaxDepth())
	}
	want := interpolate(50, 1510, 100, 1520, 75)
	if math.Abs(out.speedAt(75)-want) > 1e-9 {
		t.Fatalf("Truncate should interpolate the speed at the cutoff: got %v, want %v", out.speedAt(75), want)
	}
}

func TestSoundSpeedProfileTruncateAboveMaxDepthIsNoop(t *testing.T) {
	ssp := NewSoundSpeedProfile([]float64{0, 100}, []float64{1500, 1520}, false)
	out := ssp.Truncate(500)
	if out.MaxDepth() != ssp.MaxDepth() || out.Len() != ssp.Len() {
		t.Fatal("Truncate above the profile's max depth should be a no-op clone")
	}
}

func slicesAlmostEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			return false
		}
	}
	return true
}
