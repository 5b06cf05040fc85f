package woss

// DefinitionRegistry is the prototype factory described in spec.md §2
// item 2: it returns heap-allocated instances of each value type so
// downstream code can substitute domain-specific subclasses without the
// Creator/Manager knowing concrete types. Per DESIGN NOTES §9, this is
// modeled as a config struct threaded through the object graph at
// construction time rather than a package-level global, so tests can
// build an isolated registry per case instead of sharing process state.
type DefinitionRegistry struct {
	newSediment   func() Sediment
	newSSP        func() SoundSpeedProfile
	newAltimetry  func() Altimetry
	newTransducer func(CustomTransducer) Transducer
}

// NewDefaultDefinitionRegistry returns a registry whose prototypes are
// the package's own basic value types.
func NewDefaultDefinitionRegistry() *DefinitionRegistry {
	return &DefinitionRegistry{
		newSediment:  func() Sediment { return InvalidSediment() },
		newSSP:       func() SoundSpeedProfile { return InvalidSSP() },
		newAltimetry: func() Altimetry { return InvalidAltimetry() },
		newTransducer: func(c CustomTransducer) Transducer {
			return NewTransducer(c)
		},
	}
}

// SetSedimentPrototype overrides the Sediment prototype constructor,
// allowing a caller to substitute a domain-specific subclass.
func (r *DefinitionRegistry) SetSedimentPrototype(f func() Sediment) { r.newSediment = f }

// SetSSPPrototype overrides the SoundSpeedProfile prototype constructor.
func (r *DefinitionRegistry) SetSSPPrototype(f func() SoundSpeedProfile) { r.newSSP = f }

// SetAltimetryPrototype overrides the Altimetry prototype constructor.
func (r *DefinitionRegistry) SetAltimetryPrototype(f func() Altimetry) { r.newAltimetry = f }

// SetTransducerPrototype overrides the Transducer prototype constructor.
func (r *DefinitionRegistry) SetTransducerPrototype(f func(CustomTransducer) Transducer) {
	r.newTransducer = f
}

// NewSediment returns a fresh prototype Sediment instance.
func (r *DefinitionRegistry) NewSediment() Sediment { return r.newSediment() }

// NewSSP returns a fresh prototype SoundSpeedProfile instance.
func (r *DefinitionRegistry) NewSSP() SoundSpeedProfile { return r.newSSP() }

// NewAltimetry returns a fresh prototype Altimetry instance.
func (r *DefinitionRegistry) NewAltimetry() Altimetry { return r.newAltimetry() }

// NewTransducer constructs a Transducer from the registered prototype
// constructor, given a CustomTransducer configuration record.
func (r *DefinitionRegistry) NewTransducer(c CustomTransducer) Transducer {
	return r.newTransducer(c)
}
