package woss

import "sort"

// altimetryPoint is one (range, surface elevation) sample along a
// transect.
type altimetryPoint struct {
	rangeM, elevation float64
}

// Altimetry is the sea-surface elevation along a range transect
// (spec.md §3 "Altimetry"). Range is always re-scaled onto the owning
// Woss's range grid via Initialize before use.
type Altimetry struct {
	points    []altimetryPoint
	totalRange float64
	steps      int
	valid      bool
}

// NewAltimetry constructs an Altimetry from raw (range, elevation)
// samples, in ascending range order.
func NewAltimetry(ranges, elevations []float64) Altimetry {
	n := len(ranges)
	pts := make([]altimetryPoint, n)
	for i := 0; i < n; i++ {
		pts[i] = altimetryPoint{rangeM: ranges[i], elevation: elevations[i]}
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].rangeM < pts[j].rangeM })

	return Altimetry{points: pts, valid: n > 0}
}

// InvalidAltimetry returns the not-valid sentinel Altimetry.
func InvalidAltimetry() Altimetry { return Altimetry{} }

func (a Altimetry) Valid() bool { return a.valid }
func (a Altimetry) Len() int    { return len(a.points) }

// TotalRange returns the configured target range (post Initialize).
func (a Altimetry) TotalRange() float64 { return a.totalRange }

// TotalSteps returns the configured target step count (post Initialize).
func (a Altimetry) TotalSteps() int { return a.steps }

// MinMax returns the minimum and maximum surface elevation.
func (a Altimetry) MinMax() (min, max float64) {
	if len(a.points) == 0 {
		return 0, 0
	}
	min, max = a.points[0].elevation, a.points[0].elevation
	for _, p := range a.points[1:] {
		if p.elevation < min {
			min = p.elevation
		}
		if p.elevation > max {
			max = p.elevation
		}
	}
	return min, max
}

// Ranges and Elevations return copies of the sample arrays.
func (a Altimetry) Ranges() []float64 {
	out := make([]float64, len(a.points))
	for i, p := range a.points {
		out[i] = p.rangeM
	}
	return out
}

func (a Altimetry) Elevations() []float64 {
	out := make([]float64, len(a.points))
	for i, p := range a.points {
		out[i] = p.elevation
	}
	return out
}

// Initialize re-scales the altimetry samples onto `steps` uniform range
// samples spanning [0, totalRange], interpolating the source data.
func (a Altimetry) Initialize(totalRange float64, steps int) Altimetry {
	if !a.valid || steps < 2 {
		return a
	}

	out := make([]altimetryPoint, steps)
	step := totalRange / float64(steps-1)
	for i := 0; i < steps; i++ {
		r := float64(i) * step
		out[i] = altimetryPoint{rangeM: r, elevation: a.elevationAt(r)}
	}

	return Altimetry{points: out, totalRange: totalRange, steps: steps, valid: true}
}

func (a Altimetry) elevationAt(r float64) float64 {
	n := len(a.points)
	if n == 0 {
		return 0
	}
	if r <= a.points[0].rangeM {
		return a.points[0].elevation
	}
	if r >= a.points[n-1].rangeM {
		return a.points[n-1].elevation
	}

	idx := sort.Search(n, func(i int) bool { return a.points[i].rangeM >= r })
	prev, next := a.points[idx-1], a.points[idx]

	return interpolate(prev.rangeM, prev.elevation, next.rangeM, next.elevation, r)
}

// TimeEvolve returns a copy of a; altimetry surfaces from a time-varying
// provider are re-sampled by calling the provider again and
// re-Initialize-ing, so this default implementation is a value no-op
// hook that concrete providers' wrappers call through after refetching.
func (a Altimetry) TimeEvolve(_ Time) Altimetry { return a }

// Randomize perturbs every elevation sample by independent Gaussian
// noise of standard deviation sigma (spec.md §4.3: "For run > 0, each
// written profile/surface is independently perturbed").
func (a Altimetry) Randomize(sigma float64, rng RandomGenerator) Altimetry {
	out := make([]altimetryPoint, len(a.points))
	for i, p := range a.points {
		out[i] = altimetryPoint{rangeM: p.rangeM, elevation: p.elevation + rng.NormFloat64()*sigma}
	}
	return Altimetry{points: out, totalRange: a.totalRange, steps: a.steps, valid: a.valid}
}
