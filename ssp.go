package woss

import (
	"math"
	"math/rand"
	"sort"
)

// sspPoint is one (depth, speed) sample of a sound-speed profile.
type sspPoint struct {
	depth, speed float64
}

// SoundSpeedProfile is an ordered map depth -> sound speed. The
// constructor sorts samples by depth; it does not reject duplicate
// depths or non-positive speeds.
type SoundSpeedProfile struct {
	points         []sspPoint
	transformable  bool
}

// NewSoundSpeedProfile constructs an SSP from parallel depth/speed
// slices, sorting by depth. transformable records whether the source
// data had a consistent analytic form (e.g. came from a parametric
// model rather than discrete, possibly irregular, field samples).
func NewSoundSpeedProfile(depths, speeds []float64, transformable bool) SoundSpeedProfile {
	n := len(depths)
	pts := make([]sspPoint, n)
	for i := 0; i < n; i++ {
		pts[i] = sspPoint{depth: depths[i], speed: speeds[i]}
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].depth < pts[j].depth })

	return SoundSpeedProfile{points: pts, transformable: transformable}
}

// InvalidSSP returns a zero-length, non-transformable SSP sentinel.
func InvalidSSP() SoundSpeedProfile { return SoundSpeedProfile{} }

func (s SoundSpeedProfile) Valid() bool { return len(s.points) > 0 }
func (s SoundSpeedProfile) Len() int    { return len(s.points) }

// IsTransformable reports whether Transform() can be applied.
func (s SoundSpeedProfile) IsTransformable() bool { return s.transformable }

// MinDepth / MaxDepth return the profile's depth bounds. Both return 0
// for an empty profile.
func (s SoundSpeedProfile) MinDepth() float64 {
	if len(s.points) == 0 {
		return 0
	}
	return s.points[0].depth
}

func (s SoundSpeedProfile) MaxDepth() float64 {
	if len(s.points) == 0 {
		return 0
	}
	return s.points[len(s.points)-1].depth
}

// Depths and Speeds return copies of the profile's sample arrays.
func (s SoundSpeedProfile) Depths() []float64 {
	out := make([]float64, len(s.points))
	for i, p := range s.points {
		out[i] = p.depth
	}
	return out
}

func (s SoundSpeedProfile) Speeds() []float64 {
	out := make([]float64, len(s.points))
	for i, p := range s.points {
		out[i] = p.speed
	}
	return out
}

// Clone returns a deep copy of s.
func (s SoundSpeedProfile) Clone() SoundSpeedProfile {
	pts := make([]sspPoint, len(s.points))
	copy(pts, s.points)
	return SoundSpeedProfile{points: pts, transformable: s.transformable}
}

// Truncate drops entries deeper than maxDepth, keeping one boundary
// entry interpolated at maxDepth when maxDepth falls strictly inside
// the profile's depth range.
func (s SoundSpeedProfile) Truncate(maxDepth float64) SoundSpeedProfile {
	if len(s.points) == 0 || maxDepth >= s.MaxDepth() {
		return s.Clone()
	}

	out := make([]sspPoint, 0, len(s.points))
	for i, p := range s.points {
		if p.depth <= maxDepth {
			out = append(out, p)
			continue
		}
		if i > 0 {
			prev := s.points[i-1]
			speed := interpolate(prev.depth, prev.speed, p.depth, p.speed, maxDepth)
			out = append(out, sspPoint{depth: maxDepth, speed: speed})
		}
		break
	}

	return SoundSpeedProfile{points: out, transformable: s.transformable}
}

func interpolate(x0, y0, x1, y1, x float64) float64 {
	if x1 == x0 {
		return y0
	}
	frac := (x - x0) / (x1 - x0)
	return y0 + frac*(y1-y0)
}

// speedAt linearly interpolates the sound speed at the given depth,
// clamping to the profile's end values outside its range.
func (s SoundSpeedProfile) speedAt(depth float64) float64 {
	n := len(s.points)
	if n == 0 {
		return 0
	}
	if depth <= s.points[0].depth {
		return s.points[0].speed
	}
	if depth >= s.points[n-1].depth {
		return s.points[n-1].speed
	}

	idx := sort.Search(n, func(i int) bool { return s.points[i].depth >= depth })
	prev := s.points[idx-1]
	next := s.points[idx]

	return interpolate(prev.depth, prev.speed, next.depth, next.speed, depth)
}

// Transform resamples the profile onto a uniform grid of `steps` points
// spanning [zMin, zMax], per spec.md §3. Returns a new SSP with exactly
// `steps` entries. The `origin` coordinate is accepted for interface
// parity with the original C++ signature (site-dependent transforms are
// not required by any supported provider) and is otherwise unused.
func (s SoundSpeedProfile) Transform(origin CoordZ, zMin, zMax float64, steps int) SoundSpeedProfile {
	if steps < 2 || len(s.points) == 0 {
		return InvalidSSP()
	}

	out := make([]sspPoint, steps)
	step := (zMax - zMin) / float64(steps-1)
	for i := 0; i < steps; i++ {
		d := zMin + float64(i)*step
		out[i] = sspPoint{depth: d, speed: s.speedAt(d)}
	}

	return SoundSpeedProfile{points: out, transformable: s.transformable}
}

// Randomize returns a new SSP with each sample speed perturbed by
// independent Gaussian noise of standard deviation sigma, used to
// produce the per-run variability of a Monte-Carlo engine invocation.
func (s SoundSpeedProfile) Randomize(sigma float64, rng RandomGenerator) SoundSpeedProfile {
	out := make([]sspPoint, len(s.points))
	for i, p := range s.points {
		out[i] = sspPoint{depth: p.depth, speed: p.speed + rng.NormFloat64()*sigma}
	}
	return SoundSpeedProfile{points: out, transformable: s.transformable}
}

// Equal performs value-wise comparison of two profiles, as required by
// the SSP-uniqueness deduplication in the environmental sampling step
// (spec.md §4.2 step 5).
func (s SoundSpeedProfile) Equal(o SoundSpeedProfile) bool {
	if len(s.points) != len(o.points) {
		return false
	}
	for i := range s.points {
		if math.Abs(s.points[i].depth-o.points[i].depth) > 1e-9 {
			return false
		}
		if math.Abs(s.points[i].speed-o.points[i].speed) > 1e-9 {
			return false
		}
	}
	return true
}

// RandomGenerator abstracts the source of randomness used for SSP,
// altimetry perturbation and Monte-Carlo run jitter, so the core stays
// agnostic to the host runtime's RNG (spec.md §2 item 10).
type RandomGenerator interface {
	NormFloat64() float64
	Float64() float64
}

// DefaultRandomGenerator wraps math/rand.Rand for standalone use outside
// a host simulator.
type DefaultRandomGenerator struct {
	r *rand.Rand
}

// NewDefaultRandomGenerator seeds a generator from the given seed.
func NewDefaultRandomGenerator(seed int64) *DefaultRandomGenerator {
	return &DefaultRandomGenerator{r: rand.New(rand.NewSource(seed))}
}

func (d *DefaultRandomGenerator) NormFloat64() float64 { return d.r.NormFloat64() }
func (d *DefaultRandomGenerator) Float64() float64     { return d.r.Float64() }
