package woss

import "fmt"

// Sediment is the seafloor acoustic parameter bundle applied to a
// transect (spec.md §3 "Sediment").
type Sediment struct {
	Name                   string
	CompressionalSpeed     float64
	ShearSpeed             float64
	Density                float64
	CompressionalAttenuation float64
	ShearAttenuation       float64
	Thickness              float64
	valid                  bool
}

// NewSediment constructs a valid Sediment bundle.
func NewSediment(name string, cSpeed, sSpeed, density, cAtten, sAtten, thickness float64) Sediment {
	return Sediment{
		Name: name, CompressionalSpeed: cSpeed, ShearSpeed: sSpeed,
		Density: density, CompressionalAttenuation: cAtten,
		ShearAttenuation: sAtten, Thickness: thickness, valid: true,
	}
}

// InvalidSediment returns the not-valid sentinel Sediment.
func InvalidSediment() Sediment { return Sediment{} }

func (s Sediment) Valid() bool { return s.valid }

// String serialises the sediment to the engine's bottom-type line format
// (spec.md §6 engine `.env` section 7): the compressional speed, shear
// speed, density, compressional attenuation and shear attenuation,
// space separated. The max depth that precedes them on that line is
// written by the caller (writeEnv), not by String.
func (s Sediment) String() string {
	return fmt.Sprintf("%.2f %.2f %.4f %.4f %.4f",
		s.CompressionalSpeed, s.ShearSpeed, s.Density,
		s.CompressionalAttenuation, s.ShearAttenuation)
}
