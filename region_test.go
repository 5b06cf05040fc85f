package woss

import "testing"

func TestCircularRegionIsEquivalentToWithinRadius(t *testing.T) {
	center := NewCoordZ(10, 20, 0)
	r := NewCircularRegion(center, 1000)

	near := center.Destination(0, 500)
	far := center.Destination(0, 5000)

	if !r.IsEquivalentTo(near) {
		t.Fatal("a coordinate within the radius should be equivalent")
	}
	if r.IsEquivalentTo(far) {
		t.Fatal("a coordinate outside the radius should not be equivalent")
	}
}

func TestNewOrientedCircularRegionCarriesOrientation(t *testing.T) {
	center := NewCoordZ(10, 20, 0)
	orient := TransducerOrientation{InitialBearing: 45, MultiplyConstant: 1}

	plain := NewCircularRegion(center, 1000)
	if _, ok := plain.Orientation(); ok {
		t.Fatal("a plain circular region should report no orientation")
	}

	oriented := NewOrientedCircularRegion(center, 1000, orient)
	got, ok := oriented.Orientation()
	if !ok {
		t.Fatal("an oriented circular region should report an orientation")
	}
	if got != orient {
		t.Fatalf("Orientation: got %+v, want %+v", got, orient)
	}
}

func TestPointRegionIsEquivalentToWithinRadius(t *testing.T) {
	p := &pointRegion{coord: NewCoordZ(0, 0, 0), radiusM: 100}

	if !p.IsEquivalentTo(NewCoordZ(0, 0, 50)) {
		t.Fatal("a point within radius should be equivalent (radius compares horizontal distance only, not depth)")
	}
	if p.IsEquivalentTo(NewCoordZ(1, 0, 0)) {
		t.Fatal("a point far away should not be equivalent")
	}
}
