package woss

// The environment provider interfaces below are intentionally thin: the
// geographic database layer that backs them (bathymetry rasters,
// sediment/Marsden-square lookups, SSP climatologies, altimetry/tide
// models) is named in spec.md §1 as an external collaborator and is out
// of scope here. Only the shape the orchestrator depends on is defined.

// BathymetryProvider returns seafloor depth, in metres, at a coordinate.
// An invalid CoordZ or a provider-internal miss returns (0, false).
type BathymetryProvider interface {
	Depth(c CoordZ) (depth float64, ok bool)
}

// SedimentProvider returns the single Sediment bundle that applies to a
// transect between tx and rx (spec.md §4.2 step 3).
type SedimentProvider interface {
	Sediment(tx, rx CoordZ) (Sediment, bool)
}

// SSPProvider returns the sound-speed profile at a coordinate, valid for
// the given simulation time (time-varying climatologies sample the
// month/season implied by t).
type SSPProvider interface {
	Profile(c CoordZ, t Time) (SoundSpeedProfile, bool)
}

// AltimetryProvider returns the sea-surface elevation surface relevant
// to a transect, valid for the given simulation time.
type AltimetryProvider interface {
	Surface(tx, rx CoordZ, t Time) (Altimetry, bool)
}

// EnvironmentProviders bundles the four provider interfaces the
// orchestrator consumes, as described in spec.md §2 item 4.
type EnvironmentProviders struct {
	Bathymetry BathymetryProvider
	Sediment   SedimentProvider
	SSP        SSPProvider
	Altimetry  AltimetryProvider
}

// Ready reports whether every provider is configured. A nil provider is
// a "configuration missing" condition (spec.md §7): callers proceed with
// defaults where possible, but environment sampling that depends on a
// missing provider is fatal for the job per spec.md §4.2.
func (e EnvironmentProviders) Ready() bool {
	return e.Bathymetry != nil && e.Sediment != nil && e.SSP != nil && e.Altimetry != nil
}
