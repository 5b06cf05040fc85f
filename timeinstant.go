package woss

import "time"

// Time is a calendar instant used to key evolution and result-cache
// lookups. It wraps time.Time rather than decomposing into separate
// year/month/day/hour/minute/second fields, since Go's time package
// already gives ordering, arithmetic and UTC normalisation for free;
// the wrapper only adds the domain's "invalid"/"no evolution" sentinels
// which time.Time itself cannot express.
type Time struct {
	t     time.Time
	valid bool
}

// NewTime constructs a Time from calendar components, mirroring the
// WOSS constructor signature (year, month, day, hour, minute, second).
func NewTime(year int, month time.Month, day, hour, minute, second int) Time {
	return Time{t: time.Date(year, month, day, hour, minute, second, 0, time.UTC), valid: true}
}

// FromStdTime wraps a standard library time.Time as a valid Time.
func FromStdTime(t time.Time) Time { return Time{t: t.UTC(), valid: true} }

// InvalidTime returns the not-valid sentinel Time.
func InvalidTime() Time { return Time{} }

// NoEvolutionTime is the sentinel Time used internally to key result-DB
// entries that are time-independent (spec.md §3 "Time").
func NoEvolutionTime() Time { return Time{t: time.Unix(0, 0).UTC(), valid: true} }

func (t Time) Valid() bool      { return t.valid }
func (t Time) Std() time.Time   { return t.t }
func (t Time) Before(o Time) bool { return t.t.Before(o.t) }
func (t Time) After(o Time) bool  { return t.t.After(o.t) }
func (t Time) Equal(o Time) bool  { return t.valid == o.valid && t.t.Equal(o.t) }

// IsNoEvolution reports whether t is the no-evolution sentinel.
func (t Time) IsNoEvolution() bool { return t.Equal(NoEvolutionTime()) }

// AddSeconds returns a new Time offset by s seconds (may be negative).
func (t Time) AddSeconds(s float64) Time {
	if !t.valid {
		return t
	}
	return Time{t: t.t.Add(time.Duration(s * float64(time.Second))), valid: true}
}

// SubSeconds returns the number of seconds elapsed from o to t (t - o).
func (t Time) SubSeconds(o Time) float64 {
	return t.t.Sub(o.t).Seconds()
}

// Clamp restricts t to the closed interval [lo, hi].
func (t Time) Clamp(lo, hi Time) Time {
	if t.t.Before(lo.t) {
		return lo
	}
	if t.t.After(hi.t) {
		return hi
	}
	return t
}

// SimTime bounds the window over which SSP averaging and time evolution
// operate (spec.md §3 "SimTime").
type SimTime struct {
	Start, End Time
}

// Valid reports whether both bounds are valid and Start <= End.
func (s SimTime) Valid() bool {
	return s.Start.valid && s.End.valid && !s.Start.After(s.End)
}

// Duration returns End - Start in seconds.
func (s SimTime) Duration() float64 {
	return s.End.SubSeconds(s.Start)
}
