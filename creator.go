package woss

// WossCreator is the per-link factory described in spec.md §4.5: it
// holds one WossCreatorContainer per tunable, resolves them against a
// concrete (tx, rx) pair, and assembles a configured (but not yet
// initialized) Woss. Callers populate the containers once via the
// Set* methods, typically with a single wildcard (nil, nil) default
// entry plus any region-specific overrides, then call CreateWoss per
// link as the WossManager discovers new (tx, rx) pairs.
type WossCreator struct {
	Providers  EnvironmentProviders
	Registry   *DefinitionRegistry
	RNG        RandomGenerator
	WorkDir    string
	EnginePath string

	rangeSteps     *WossCreatorContainer[int]
	rayCount       *WossCreatorContainer[int]
	minAngle       *WossCreatorContainer[float64]
	maxAngle       *WossCreatorContainer[float64]
	boxDepth       *WossCreatorContainer[float64]
	boxRange       *WossCreatorContainer[float64]
	transformSteps *WossCreatorContainer[int]
	txDepthOffset  *WossCreatorContainer[float64]
	txRangeOffset  *WossCreatorContainer[float64]
	rxDepthOffset  *WossCreatorContainer[float64]
	rxRangeOffset  *WossCreatorContainer[float64]
	bathyMethod    *WossCreatorContainer[BathyMethod]
	transducer     *TransducerContainer
	thorpe         *WossCreatorContainer[bool]
	freqLow        *WossCreatorContainer[float64]
	freqHigh       *WossCreatorContainer[float64]
	freqStep       *WossCreatorContainer[float64]
	totalRuns      *WossCreatorContainer[int]
	evolutionQuant *WossCreatorContainer[float64]
	mode           *WossCreatorContainer[EngineMode]
}

// NewWossCreator constructs a creator with empty (all-miss) containers.
// Callers must populate at least a wildcard default for every tunable
// before CreateWoss can produce a valid job.
func NewWossCreator(providers EnvironmentProviders, registry *DefinitionRegistry, workDir, enginePath string) *WossCreator {
	return &WossCreator{
		Providers:  providers,
		Registry:   registry,
		WorkDir:    workDir,
		EnginePath: enginePath,

		rangeSteps:     NewWossCreatorContainer[int]("range_steps"),
		rayCount:       NewWossCreatorContainer[int]("ray_count"),
		minAngle:       NewWossCreatorContainer[float64]("min_angle"),
		maxAngle:       NewWossCreatorContainer[float64]("max_angle"),
		boxDepth:       NewWossCreatorContainer[float64]("box_depth"),
		boxRange:       NewWossCreatorContainer[float64]("box_range"),
		transformSteps: NewWossCreatorContainer[int]("transform_ssp_depth_steps"),
		txDepthOffset:  NewWossCreatorContainer[float64]("tx_depth_offset"),
		txRangeOffset:  NewWossCreatorContainer[float64]("tx_range_offset"),
		rxDepthOffset:  NewWossCreatorContainer[float64]("rx_depth_offset"),
		rxRangeOffset:  NewWossCreatorContainer[float64]("rx_range_offset"),
		bathyMethod:    NewWossCreatorContainer[BathyMethod]("bathymetry_method"),
		transducer:     NewTransducerContainer(),
		thorpe:         NewWossCreatorContainer[bool]("thorpe_attenuation"),
		freqLow:        NewWossCreatorContainer[float64]("freq_low"),
		freqHigh:       NewWossCreatorContainer[float64]("freq_high"),
		freqStep:       NewWossCreatorContainer[float64]("freq_step"),
		totalRuns:      NewWossCreatorContainer[int]("total_runs"),
		evolutionQuant: NewWossCreatorContainer[float64]("evolution_quantum"),
		mode:           NewWossCreatorContainer[EngineMode]("engine_mode"),
	}
}

func newPointRegion(c CoordZ) Region { return &pointRegion{coord: c, radiusM: defaultPointRadiusM} }

// SetDefault* set the wildcard (nil,nil) entry for each tunable; every
// container needs one before CreateWoss can resolve a value for an
// arbitrary link.
func (wc *WossCreator) SetDefaultRangeSteps(n int)                 { wc.rangeSteps.Replace(nil, nil, n) }
func (wc *WossCreator) SetDefaultRayCount(n int)                   { wc.rayCount.Replace(nil, nil, n) }
func (wc *WossCreator) SetDefaultAngles(minDeg, maxDeg float64) {
	wc.minAngle.Replace(nil, nil, minDeg)
	wc.maxAngle.Replace(nil, nil, maxDeg)
}
func (wc *WossCreator) SetDefaultBox(depth, rangeM float64) {
	wc.boxDepth.Replace(nil, nil, depth)
	wc.boxRange.Replace(nil, nil, rangeM)
}
func (wc *WossCreator) SetDefaultTransformSSPDepthSteps(n int) { wc.transformSteps.Replace(nil, nil, n) }
func (wc *WossCreator) SetDefaultOffsets(txDepth, txRange, rxDepth, rxRange float64) {
	wc.txDepthOffset.Replace(nil, nil, txDepth)
	wc.txRangeOffset.Replace(nil, nil, txRange)
	wc.rxDepthOffset.Replace(nil, nil, rxDepth)
	wc.rxRangeOffset.Replace(nil, nil, rxRange)
}
func (wc *WossCreator) SetDefaultBathymetryMethod(m BathyMethod) { wc.bathyMethod.Replace(nil, nil, m) }
func (wc *WossCreator) SetDefaultTransducer(t CustomTransducer)  { wc.transducer.Replace(nil, nil, t) }
func (wc *WossCreator) SetDefaultThorpeAttenuation(b bool)       { wc.thorpe.Replace(nil, nil, b) }
func (wc *WossCreator) SetDefaultFrequencies(low, high, step float64) {
	wc.freqLow.Replace(nil, nil, low)
	wc.freqHigh.Replace(nil, nil, high)
	wc.freqStep.Replace(nil, nil, step)
}
func (wc *WossCreator) SetDefaultTotalRuns(n int)              { wc.totalRuns.Replace(nil, nil, n) }
func (wc *WossCreator) SetDefaultEvolutionQuantum(seconds float64) {
	wc.evolutionQuant.Replace(nil, nil, seconds)
}
func (wc *WossCreator) SetDefaultMode(m EngineMode) { wc.mode.Replace(nil, nil, m) }

// SetRegion* override a tunable for a specific (tx, rx) region pair,
// taking precedence over the wildcard default per spec.md §4.1.
func (wc *WossCreator) SetRegionRangeSteps(tx, rx Region, n int) { wc.rangeSteps.Replace(tx, rx, n) }
func (wc *WossCreator) SetRegionTransducer(tx, rx Region, t CustomTransducer) {
	wc.transducer.Replace(tx, rx, t)
}
func (wc *WossCreator) SetRegionMode(tx, rx Region, m EngineMode) { wc.mode.Replace(tx, rx, m) }

// CreateWoss resolves every container against (tx, rx) and assembles a
// new, configured Woss spanning [start, end]. The returned Woss has not
// been Initialize()'d; the caller (typically a WossManager) does that.
func (wc *WossCreator) CreateWoss(tx, rx CoordZ, start, end Time) *Woss {
	if !wc.Providers.Ready() || !tx.Valid() || !rx.Valid() {
		return wc.getWossNotValid()
	}

	w := NewWoss()
	w.WorkDir = wc.WorkDir
	w.Providers = wc.Providers
	w.Registry = wc.Registry
	w.RNG = wc.RNG

	w.Tx, w.Rx = tx, rx
	w.StartTime, w.EndTime = start, end
	w.CurrentTime = start

	w.Mode = wc.mode.Get(tx, rx)

	low := wc.freqLow.Get(tx, rx)
	high := wc.freqHigh.Get(tx, rx)
	step := wc.freqStep.Get(tx, rx)
	w.Frequencies = NewFrequencySet(low, high, step)

	w.TotalRuns = wc.totalRuns.Get(tx, rx)
	if w.TotalRuns <= 0 {
		w.TotalRuns = 1
	}
	w.EvolutionQuantum = wc.evolutionQuant.Get(tx, rx)

	w.Params = BellhopParams{
		RangeSteps:             wc.rangeSteps.Get(tx, rx),
		SourceDepths:           []float64{tx.Depth()},
		ReceiverDepths:         []float64{rx.Depth()},
		ReceiverRanges:         []float64{tx.GreatCircleDistance(rx)},
		RayCount:               wc.rayCount.Get(tx, rx),
		MinAngleDeg:            wc.minAngle.Get(tx, rx),
		MaxAngleDeg:            wc.maxAngle.Get(tx, rx),
		BoxDepth:               wc.boxDepth.Get(tx, rx),
		BoxRange:               wc.boxRange.Get(tx, rx),
		TransformSSPDepthSteps: wc.transformSteps.Get(tx, rx),
		TxDepthOffset:          wc.txDepthOffset.Get(tx, rx),
		TxRangeOffset:          wc.txRangeOffset.Get(tx, rx),
		RxDepthOffset:          wc.rxDepthOffset.Get(tx, rx),
		RxRangeOffset:          wc.rxRangeOffset.Get(tx, rx),
		BathymetryMethod:       wc.bathyMethod.Get(tx, rx),
		Transducer:             wc.transducer.Get(tx, rx),
		ThorpeAttenuation:      wc.thorpe.Get(tx, rx),
		EnginePath:             wc.EnginePath,
	}

	return w
}

// getWossNotValid returns the sentinel invalid Woss a WossManager hands
// back when a lookup fails rather than creating a new job, per
// spec.md §4.6 ("a query for a link with no resolvable creator returns
// the not-valid prototype rather than nil").
func (wc *WossCreator) getWossNotValid() *Woss {
	w := NewWoss()
	w.Providers = wc.Providers
	w.Registry = wc.Registry
	return w
}
