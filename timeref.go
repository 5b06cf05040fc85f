package woss

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/solar"
)

// TimeReference adapts the host runtime's notion of "now" so the core
// orchestrator never calls time.Now() directly (spec.md §2 item 10).
// A network-simulator host binds this to its own scheduler clock; the
// SystemTimeReference below is the standalone default.
type TimeReference interface {
	Now() Time
}

// SystemTimeReference reports the host OS clock.
type SystemTimeReference struct{}

func (SystemTimeReference) Now() Time { return FromStdTime(time.Now()) }

// FixedTimeReference always reports the same instant; used by tests and
// by deterministic replay of a previously recorded simulation.
type FixedTimeReference struct{ At Time }

func (f FixedTimeReference) Now() Time { return f.At }

// SolarElevationDeg estimates the sun's elevation angle, in degrees,
// above the local horizon at (lat, lon) for the given instant. It backs
// bellhopfiles.go's altimetrySigma, an optional day/night covariate
// that widens sea-surface Monte-Carlo jitter while the sun is up;
// nothing in the core depends on its accuracy beyond that one scaling
// choice.
func SolarElevationDeg(t Time, latDeg, lonDeg float64) float64 {
	std := t.Std().UTC()
	dayFrac := float64(std.Day()) +
		(float64(std.Hour())+float64(std.Minute())/60+float64(std.Second())/3600)/24

	jd := julian.CalendarGregorianToJD(std.Year(), int(std.Month()), dayFrac)

	trueLong, _ := solar.True(jd)

	obliquity := deg2rad(23.439)
	decl := math.Asin(math.Sin(obliquity) * math.Sin(trueLong.Rad()))

	// Greenwich hour angle of the mean sun, approximated from UTC
	// fraction-of-day plus the equation-of-time-free mean longitude;
	// adequate for a coarse day/night covariate only.
	hourAngle := deg2rad((dayFrac-math.Floor(dayFrac))*360.0 - 180.0 + lonDeg)

	latRad := deg2rad(latDeg)
	sinElev := math.Sin(latRad)*math.Sin(decl) + math.Cos(latRad)*math.Cos(decl)*math.Cos(hourAngle)

	return rad2deg(math.Asin(clampUnit(sinElev)))
}

func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
