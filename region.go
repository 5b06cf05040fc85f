package woss

// Region is a geographic area used as a parameter-container lookup key.
// A concrete CoordZ "matches" a Region iff IsEquivalentTo returns true.
// Per DESIGN NOTES §9, wildcard keys are represented as a nil Region
// rather than a sentinel pointer value, making the {Wildcard | Region}
// tagged variant explicit in the type system instead of relying on
// pointer-identity tricks.
type Region interface {
	IsEquivalentTo(c CoordZ) bool
}

// CircularRegion matches any coordinate within RadiusM metres of Center.
// It optionally carries an orientation used by the transducer container
// specialization (spec.md §4.1).
type CircularRegion struct {
	Center      CoordZ
	RadiusM     float64
	orientation TransducerOrientation
	hasOrient   bool
}

// NewCircularRegion constructs a region with no associated orientation.
func NewCircularRegion(center CoordZ, radiusM float64) *CircularRegion {
	return &CircularRegion{Center: center, RadiusM: radiusM}
}

// NewOrientedCircularRegion constructs a region carrying a transducer
// orientation, used by the rotation-offset rule in spec.md §4.1/§9.
func NewOrientedCircularRegion(center CoordZ, radiusM float64, o TransducerOrientation) *CircularRegion {
	return &CircularRegion{Center: center, RadiusM: radiusM, orientation: o, hasOrient: true}
}

func (c *CircularRegion) IsEquivalentTo(coord CoordZ) bool {
	return c.Center.WithinRadius(coord, c.RadiusM)
}

// Orientation returns the region's orientation and whether one was set.
func (c *CircularRegion) Orientation() (TransducerOrientation, bool) {
	return c.orientation, c.hasOrient
}

// pointRegion is the region type the container constructs internally
// from a coordinate-form insert; it owns itself (the container is free
// to discard it on erase/clear without affecting caller-owned regions).
type pointRegion struct {
	coord   CoordZ
	radiusM float64
}

func (p *pointRegion) IsEquivalentTo(c CoordZ) bool {
	return p.coord.WithinRadius(c, p.radiusM)
}
