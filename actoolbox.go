package woss

import (
	"log"

	"github.com/samber/lo"
)

// actoolboxInitialize implements the generic acoustic-toolbox
// environment-sampling base described in spec.md §4.2. It populates the
// range/coordinate/sediment/altimetry/SSP fields that BellhopInitialize
// then normalizes further. Any provider returning an invalid value is
// fatal for the job: the Woss is marked unusable and the method returns
// false.
func (w *Woss) actoolboxInitialize() bool {
	if !w.Providers.Ready() {
		log.Printf("woss: woss %d: environment providers not fully configured", w.ID)
		return false
	}

	n := w.Params.RangeSteps
	if n <= 0 {
		log.Printf("woss: woss %d: range step count must be positive", w.ID)
		return false
	}

	w.TotalDistance = w.Tx.GreatCircleDistance(w.Rx)
	w.Bearing = w.Tx.InitialBearing(w.Rx)

	// step 1: range_vector
	w.rangeVector = make([]float64, n+1)
	for i := 0; i <= n; i++ {
		w.rangeVector[i] = float64(i) * w.TotalDistance / float64(n)
	}

	// steps 2-5: coordinate/bathymetry/sediment/altimetry/SSP sampling
	return w.sampleTransect()
}

// sampleTransect performs steps 2-5 of spec.md §4.2.
func (w *Woss) sampleTransect() bool {
	n := w.Params.RangeSteps

	coords := make([]CoordZ, n+1)
	bathy := make([]float64, n+1)

	coords[0] = w.Tx
	coords[n] = w.Rx

	for i := 1; i < n; i++ {
		coords[i] = w.Tx.Destination(w.Bearing, w.rangeVector[i])
	}

	for i := 0; i <= n; i++ {
		d, ok := w.Providers.Bathymetry.Depth(coords[i])
		if !ok {
			log.Printf("woss: woss %d: bathymetry provider returned invalid value at range sample %d", w.ID, i)
			return false
		}
		bathy[i] = d
	}

	w.coordzVector = coords
	w.minBathy = lo.Min(bathy)
	w.maxBathy = lo.Max(bathy)

	sed, ok := w.Providers.Sediment.Sediment(w.Tx, w.Rx)
	if !ok || !sed.Valid() {
		log.Printf("woss: woss %d: sediment provider returned invalid value", w.ID)
		return false
	}
	w.sediment = sed

	alt, ok := w.Providers.Altimetry.Surface(w.Tx, w.Rx, w.CurrentTime)
	if !ok || !alt.Valid() {
		log.Printf("woss: woss %d: altimetry provider returned invalid value", w.ID)
		return false
	}
	alt = alt.Initialize(w.TotalDistance, n+1)
	minAlt, maxAlt := alt.MinMax()
	w.altimetry = alt

	if minAlt >= w.minBathy || maxAlt >= w.maxBathy {
		log.Printf("woss: woss %d: altimetry surface clips bathymetry (min_bathy=%.3f min_alt=%.3f max_bathy=%.3f max_alt=%.3f)",
			w.ID, w.minBathy, minAlt, w.maxBathy, maxAlt)
	}

	ssps := make([]SoundSpeedProfile, n+1)
	for i := 0; i <= n; i++ {
		s, ok := w.Providers.SSP.Profile(coords[i], w.CurrentTime)
		if !ok || !s.Valid() {
			log.Printf("woss: woss %d: SSP provider returned invalid value at range sample %d", w.ID, i)
			return false
		}
		ssps[i] = s
	}
	w.sspByRange = ssps

	unique := make([]int, 0, n+1)
	allTransform := true
	minMin, maxMax := ssps[0].MinDepth(), ssps[0].MaxDepth()
	minSteps, maxSteps := ssps[0].Len(), ssps[0].Len()

	for i, s := range ssps {
		if i == 0 || !s.Equal(ssps[unique[len(unique)-1]]) {
			unique = append(unique, i)
		}
		if !s.IsTransformable() {
			allTransform = false
		}
		if s.MinDepth() < minMin {
			minMin = s.MinDepth()
		}
		if s.MaxDepth() > maxMax {
			maxMax = s.MaxDepth()
		}
		if s.Len() < minSteps {
			minSteps = s.Len()
		}
		if s.Len() > maxSteps {
			maxSteps = s.Len()
		}
	}

	w.uniqueIdx = unique
	w.allTransform = allTransform
	w.minSSPMin = minMin
	w.maxSSPMax = maxMax
	w.sspStepsMin = minSteps
	w.sspStepsMax = maxSteps

	return true
}
