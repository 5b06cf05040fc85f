package woss

import "log"

// defaultPointRadiusM is the equivalence radius used when a caller
// inserts a parameter keyed by a concrete coordinate pair rather than a
// pre-built Region, implementing "region equivalent to a point" as a
// tight-radius circular region.
const defaultPointRadiusM = 1.0

// precedence mirrors spec.md §3 "Parameter container entry" lookup
// order: exact+exact > exact+wildcard > wildcard+exact > wildcard+wildcard.
type precedence int

const (
	precNone precedence = iota
	precBothWildcard
	precWildcardTxExactRx
	precExactTxWildcardRx
	precBothExact
)

type regionEntry[T any] struct {
	tx, rx Region // nil means wildcard
	value  T
}

// WossCreatorContainer is the two-level (tx-region, rx-region) -> value
// store described in spec.md §4.1, used for every per-link tunable
// (angles, beam options, depth precisions, range-step counts, scalars,
// custom transducers, simulation time windows, frequency steps,
// evolution quanta, run counts). It is implemented generically so one
// container type serves every tunable's value type.
type WossCreatorContainer[T any] struct {
	entries []regionEntry[T]
	name    string // for diagnostic logging only
}

// NewWossCreatorContainer constructs an empty container. name is used
// only in warning log lines to identify which tunable a miss occurred
// against.
func NewWossCreatorContainer[T any](name string) *WossCreatorContainer[T] {
	return &WossCreatorContainer[T]{name: name}
}

func (c *WossCreatorContainer[T]) findExact(tx, rx Region) int {
	for i, e := range c.entries {
		if e.tx == tx && e.rx == rx {
			return i
		}
	}
	return -1
}

// Insert adds (tx, rx) -> v. It fails silently (returns false) if the
// exact key pair already exists, per spec.md §4.1.
func (c *WossCreatorContainer[T]) Insert(tx, rx Region, v T) bool {
	if c.findExact(tx, rx) >= 0 {
		return false
	}
	c.entries = append(c.entries, regionEntry[T]{tx: tx, rx: rx, value: v})
	return true
}

// InsertCoord is a convenience wrapper that builds container-owned
// pointRegion keys from concrete coordinates before inserting.
func (c *WossCreatorContainer[T]) InsertCoord(tx, rx CoordZ, v T) bool {
	return c.Insert(&pointRegion{coord: tx, radiusM: defaultPointRadiusM},
		&pointRegion{coord: rx, radiusM: defaultPointRadiusM}, v)
}

// Replace inserts (tx, rx) -> v, overwriting any existing exact entry.
func (c *WossCreatorContainer[T]) Replace(tx, rx Region, v T) {
	if idx := c.findExact(tx, rx); idx >= 0 {
		c.entries[idx].value = v
		return
	}
	c.entries = append(c.entries, regionEntry[T]{tx: tx, rx: rx, value: v})
}

// Erase removes the exact (tx, rx) entry, if present. Per spec.md §4.1
// and §9, the container does not free/delete externally supplied Region
// pointers; it only drops its own reference to them.
func (c *WossCreatorContainer[T]) Erase(tx, rx Region) bool {
	idx := c.findExact(tx, rx)
	if idx < 0 {
		return false
	}
	c.entries = append(c.entries[:idx], c.entries[idx+1:]...)
	return true
}

// Clear drops every entry. Region keys owned by the container (those
// constructed via InsertCoord) become unreachable and are garbage
// collected; externally supplied Region pointers are merely forgotten,
// never freed — there is no ownership tension to resolve in Go the way
// there is with raw pointers and explicit delete in the original C++.
func (c *WossCreatorContainer[T]) Clear() {
	c.entries = nil
}

// Get resolves a value for the concrete (tx, rx) coordinate pair using
// the precedence rule from spec.md §3: exact tx + exact rx > exact tx +
// wildcard rx > wildcard tx + exact rx > wildcard both > zero value.
// A complete miss logs a warning and returns the zero value; Get never
// panics.
func (c *WossCreatorContainer[T]) Get(tx, rx CoordZ) T {
	var (
		best     T
		bestPrec = precNone
	)

	for _, e := range c.entries {
		txMatch, txWild := matchRegion(e.tx, tx)
		rxMatch, rxWild := matchRegion(e.rx, rx)

		if !txMatch && !txWild {
			continue
		}
		if !rxMatch && !rxWild {
			continue
		}

		prec := precBothWildcard
		switch {
		case txMatch && rxMatch:
			prec = precBothExact
		case txMatch && rxWild:
			prec = precExactTxWildcardRx
		case txWild && rxMatch:
			prec = precWildcardTxExactRx
		}

		if prec > bestPrec {
			bestPrec = prec
			best = e.value
		}
	}

	if bestPrec == precNone {
		log.Printf("woss: parameter container %q: no entry (exact or wildcard) for requested region pair; returning default", c.name)
	}

	return best
}

// matchRegion reports (matched, isWildcard) for a stored region key
// against a concrete coordinate. A nil Region is the wildcard.
func matchRegion(r Region, coord CoordZ) (matched, wildcard bool) {
	if r == nil {
		return false, true
	}
	return r.IsEquivalentTo(coord), false
}

// TransducerContainer specializes WossCreatorContainer[CustomTransducer]
// with the rotation-offset rule from spec.md §4.1/§9: when the resolved
// entry lives under a concrete tx region (rather than wildcard) and that
// region carries its own orientation, the returned record's vertical and
// horizontal rotations are offset by the region's orientation. This is
// the only special rotation path in the container and is not applied
// for any other lookup outcome.
type TransducerContainer struct {
	inner *WossCreatorContainer[CustomTransducer]
}

// NewTransducerContainer constructs an empty TransducerContainer.
func NewTransducerContainer() *TransducerContainer {
	return &TransducerContainer{inner: NewWossCreatorContainer[CustomTransducer]("transducer")}
}

func (t *TransducerContainer) Insert(tx, rx Region, v CustomTransducer) bool {
	return t.inner.Insert(tx, rx, v)
}

func (t *TransducerContainer) Replace(tx, rx Region, v CustomTransducer) {
	t.inner.Replace(tx, rx, v)
}

func (t *TransducerContainer) Erase(tx, rx Region) bool { return t.inner.Erase(tx, rx) }

// Get resolves the CustomTransducer for (tx, rx), applying the tx-region
// rotation offset when the winning entry's tx key is a concrete,
// oriented region.
func (t *TransducerContainer) Get(tx, rx CoordZ) CustomTransducer {
	var (
		best     CustomTransducer
		bestPrec = precNone
		bestTx   Region
	)

	for _, e := range t.inner.entries {
		txMatch, txWild := matchRegion(e.tx, tx)
		rxMatch, rxWild := matchRegion(e.rx, rx)

		if !txMatch && !txWild {
			continue
		}
		if !rxMatch && !rxWild {
			continue
		}

		prec := precBothWildcard
		switch {
		case txMatch && rxMatch:
			prec = precBothExact
		case txMatch && rxWild:
			prec = precExactTxWildcardRx
		case txWild && rxMatch:
			prec = precWildcardTxExactRx
		}

		if prec > bestPrec {
			bestPrec = prec
			best = e.value
			bestTx = e.tx
		}
	}

	if bestPrec == precNone {
		log.Printf("woss: transducer container: no entry (exact or wildcard) for requested region pair; returning default")
		return best
	}

	// rotation-offset rule: only applies when resolved via a concrete
	// (non-wildcard) tx region that itself carries an orientation.
	if bestPrec == precBothExact || bestPrec == precExactTxWildcardRx {
		if oriented, ok := bestTx.(*CircularRegion); ok {
			if orient, has := oriented.Orientation(); has {
				best.Orientation.VerticalRotation += orient.VerticalRotation
				best.Orientation.HorizontalRotation += orient.HorizontalRotation
			}
		}
	}

	return best
}
