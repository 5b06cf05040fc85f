package woss

// ResultReader is the common interface satisfied by every engine output
// format parser (ASCII arrivals, binary arrivals, SHD transmission-loss
// field), per spec.md §4.4. A Woss holds one reader per frequency once
// Run() has completed.
//
// All three lookup methods quantize their (tx_depth, rx_depth, rx_range)
// arguments onto the grid the underlying file was computed on, returning
// an invalid value (per the respective type's sentinel) rather than
// interpolating when the grid has no entries at all.
type ResultReader interface {
	// Pressure returns the (single-run) complex acoustic pressure at the
	// nearest grid cell.
	Pressure(txDepth, rxDepth, rxRange float64) Pressure

	// AvgPressure returns the coherent sum of pressure across every grid
	// cell inside the closed depth/range window, divided by the number
	// of cells summed, cached per distinct window query (spec.md §4.4
	// "Average-pressure queries").
	AvgPressure(txDepth, rxDepthLo, rxDepthHi, rxRangeLo, rxRangeHi float64) Pressure

	// TimeArr returns the impulse response at the nearest grid cell.
	// Readers backed by a transmission-loss field (no arrival-time
	// information) return CreateNotValid().
	TimeArr(txDepth, rxDepth, rxRange float64) TimeArr

	// Close releases any file handles or cached buffers held by the
	// reader.
	Close() error
}
