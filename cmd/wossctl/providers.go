package main

import "github.com/oceanbench/woss"

// flatProviders is a constant-value EnvironmentProviders backend for
// command-line smoke testing: a real deployment wires bathymetry,
// sediment, SSP and altimetry providers against a geographic database
// (out of scope per the orchestrator's own provider doc comments), but
// wossctl still needs something to hand the Controller so a single link
// can be driven end to end from flags alone.
type flatProviders struct {
	depth     float64
	sediment  woss.Sediment
	ssp       woss.SoundSpeedProfile
	altimetry woss.Altimetry
}

func (p flatProviders) Depth(woss.CoordZ) (float64, bool) { return p.depth, true }

func (p flatProviders) Sediment(woss.CoordZ, woss.CoordZ) (woss.Sediment, bool) {
	return p.sediment, true
}

func (p flatProviders) Profile(woss.CoordZ, woss.Time) (woss.SoundSpeedProfile, bool) {
	return p.ssp, true
}

func (p flatProviders) Surface(woss.CoordZ, woss.CoordZ, woss.Time) (woss.Altimetry, bool) {
	return p.altimetry, true
}

// newFlatProviders builds an EnvironmentProviders backed by a single
// flat bathymetry depth, a sandy-mud sediment halfspace, an isovelocity
// SSP, and a flat sea surface, tunable only by seafloor depth and sound
// speed since that is all wossctl exposes as flags.
func newFlatProviders(depthM, soundSpeed float64) woss.EnvironmentProviders {
	p := flatProviders{
		depth:     depthM,
		sediment:  woss.NewSediment("sandy-mud", 1575, 0, 1.9, 0.8, 0, 3.0),
		ssp:       woss.NewSoundSpeedProfile([]float64{0, depthM}, []float64{soundSpeed, soundSpeed}, false),
		altimetry: woss.NewAltimetry([]float64{0, 1}, []float64{0, 0}),
	}

	return woss.EnvironmentProviders{
		Bathymetry: p,
		Sediment:   p,
		SSP:        p,
		Altimetry:  p,
	}
}
