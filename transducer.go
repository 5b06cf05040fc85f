package woss

import (
	"fmt"
	"io"
	"math"
)

// TransducerType identifies a beam-pattern family. The pattern function
// for each type is looked up in the package's beamPatterns table below;
// an unknown type falls back to the omni pattern. The Definition
// registry (registry.go) can substitute the Transducer constructor, not
// this table.
type TransducerType int

const (
	TransducerOmni TransducerType = iota
	TransducerCosine
	TransducerGaussian
)

// TransducerOrientation carries the orientation parameters applied to a
// beam pattern: initial bearing, vertical/horizontal rotation, and a
// multiply/add pair used to rescale the pattern's gain before writing.
type TransducerOrientation struct {
	InitialBearing    float64
	VerticalRotation  float64
	HorizontalRotation float64
	MultiplyConstant  float64
	AddConstant       float64
}

// CustomTransducer is a configuration record carrying a transducer-type
// identifier and orientation parameters; the parameter container can
// hold these per (tx, rx) region (spec.md §3 "CustomTransducer").
type CustomTransducer struct {
	Type        TransducerType
	Orientation TransducerOrientation
}

// BeamPatternFunc computes the relative gain, in linear units, of a beam
// pattern at the given vertical angle (radians from the beam axis).
type BeamPatternFunc func(angleRad float64) float64

var beamPatterns = map[TransducerType]BeamPatternFunc{
	TransducerOmni: func(float64) float64 { return 1.0 },
	TransducerCosine: func(angle float64) float64 {
		return math.Max(0, math.Cos(angle))
	},
	TransducerGaussian: func(angle float64) float64 {
		const sigma = 0.3
		return math.Exp(-(angle * angle) / (2 * sigma * sigma))
	},
}

// Transducer is the vertical beam pattern callable described in
// spec.md §3: given geometry and rotation parameters, it writes a
// pattern file in the engine's `.sbp` format.
type Transducer struct {
	Type        TransducerType
	Orientation TransducerOrientation
}

// NewTransducer constructs a Transducer from a CustomTransducer record.
func NewTransducer(c CustomTransducer) Transducer {
	return Transducer{Type: c.Type, Orientation: c.Orientation}
}

// Gain evaluates the pattern at angleRad after applying the orientation's
// vertical rotation and multiply/add adjustments.
func (t Transducer) Gain(angleRad float64) float64 {
	fn, ok := beamPatterns[t.Type]
	if !ok {
		fn = beamPatterns[TransducerOmni]
	}
	rotated := angleRad - t.Orientation.VerticalRotation
	return fn(rotated)*t.Orientation.MultiplyConstant + t.Orientation.AddConstant
}

// WriteSBP writes the beam pattern file (`.sbp`) sampled at nSamples
// points spanning [-pi, pi], per spec.md §6.
func (t Transducer) WriteSBP(w io.Writer, nSamples int) error {
	if nSamples < 2 {
		nSamples = 2
	}
	if _, err := fmt.Fprintf(w, "'%s'\n%d\n", "VSRC", nSamples); err != nil {
		return err
	}
	step := 2 * math.Pi / float64(nSamples-1)
	for i := 0; i < nSamples; i++ {
		angle := -math.Pi + float64(i)*step
		gainDB := 20 * math.Log10(math.Max(t.Gain(angle), 1e-12))
		if _, err := fmt.Fprintf(w, "%.4f %.4f\n", rad2deg(angle), gainDB); err != nil {
			return err
		}
	}
	return nil
}
