package woss

import (
	"math"
	"math/cmplx"
)

// Pressure is a complex acoustic pressure sample at a given frequency.
// An invalid-value sentinel (Valid() == false) is kept distinct from
// the zero pressure complex(0,0), per spec.md §3.
type Pressure struct {
	value complex128
	valid bool
}

// NewPressure constructs a valid Pressure directly from a complex value.
func NewPressure(v complex128) Pressure { return Pressure{value: v, valid: true} }

// NewPressureFromAmplPhase constructs a Pressure from amplitude and
// phase (radians): amplitude * exp(i*phase).
func NewPressureFromAmplPhase(amplitude, phaseRad float64) Pressure {
	return Pressure{value: complex(amplitude*math.Cos(phaseRad), amplitude*math.Sin(phaseRad)), valid: true}
}

// InvalidPressure returns the not-valid sentinel Pressure.
func InvalidPressure() Pressure { return Pressure{} }

// ZeroPressure returns the valid, zero-amplitude Pressure.
func ZeroPressure() Pressure { return Pressure{value: 0, valid: true} }

func (p Pressure) Valid() bool      { return p.valid }
func (p Pressure) Complex() complex128 { return p.value }
func (p Pressure) Amplitude() float64  { return cmplx.Abs(p.value) }
func (p Pressure) Phase() float64      { return cmplx.Phase(p.value) }

// Add returns the per-sample (coherent) sum of p and o. Either operand
// being invalid makes the result invalid.
func (p Pressure) Add(o Pressure) Pressure {
	if !p.valid || !o.valid {
		return InvalidPressure()
	}
	return Pressure{value: p.value + o.value, valid: true}
}

// DivScalar divides the pressure amplitude by a real scalar (used for
// Monte-Carlo run averaging).
func (p Pressure) DivScalar(n float64) Pressure {
	if !p.valid || n == 0 {
		return InvalidPressure()
	}
	return Pressure{value: p.value / complex(n, 0), valid: true}
}

// TransmissionLossDB returns 20*log10(1/|p|) relative to a unit-amplitude
// reference pressure at one metre. Invalid or zero pressure yields +Inf.
func (p Pressure) TransmissionLossDB() float64 {
	amp := p.Amplitude()
	if !p.valid || amp == 0 {
		return math.Inf(1)
	}
	return -20.0 * math.Log10(amp)
}

// ToTimeArr wraps p as a single-entry TimeArr at the given delay,
// matching the §8 round-trip property: toTimeArr(delay) -> TimeArr ->
// toPressure() reproduces p modulo floating point error.
func (p Pressure) ToTimeArr(delaySeconds float64) TimeArr {
	ta := NewTimeArr(DefaultDelayResolution)
	ta.SumValue(delaySeconds, p)
	return ta
}
