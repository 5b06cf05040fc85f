package woss

import "math"

const earthRadiusM = 6371000.0

// CoordZ is a geographic point with depth. Depth is positive downward
// (metres below the sea surface). CoordZ is immutable once constructed;
// every derivation returns a new value.
type CoordZ struct {
	lat, lon, depth float64
	valid           bool
}

// NewCoordZ constructs a CoordZ, validating latitude/longitude ranges
// per spec.md §3: valid iff latitude in [-90,90], longitude in [-180,180].
func NewCoordZ(lat, lon, depth float64) CoordZ {
	valid := lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
	return CoordZ{lat: lat, lon: lon, depth: depth, valid: valid}
}

// InvalidCoordZ returns the not-valid sentinel CoordZ.
func InvalidCoordZ() CoordZ { return CoordZ{} }

func (c CoordZ) Lat() float64   { return c.lat }
func (c CoordZ) Lon() float64   { return c.lon }
func (c CoordZ) Depth() float64 { return c.depth }
func (c CoordZ) Valid() bool    { return c.valid }

// Equal compares two CoordZ values for exact equality of all fields.
func (c CoordZ) Equal(o CoordZ) bool {
	return c.lat == o.lat && c.lon == o.lon && c.depth == o.depth && c.valid == o.valid
}

// WithinRadius reports whether o lies within radiusM metres of c,
// measured as great-circle surface distance. Used by WossManager to
// treat near-identical endpoints as the same cache key (spec.md §4.6).
func (c CoordZ) WithinRadius(o CoordZ, radiusM float64) bool {
	return c.GreatCircleDistance(o) <= radiusM
}

func deg2rad(d float64) float64 { return d * math.Pi / 180.0 }
func rad2deg(r float64) float64 { return r * 180.0 / math.Pi }

// GreatCircleDistance returns the haversine surface distance, in metres,
// between c and o (ignoring depth).
func (c CoordZ) GreatCircleDistance(o CoordZ) float64 {
	lat1, lat2 := deg2rad(c.lat), deg2rad(o.lat)
	dLat := deg2rad(o.lat - c.lat)
	dLon := deg2rad(o.lon - c.lon)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	d := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusM * d
}

// InitialBearing returns the initial great-circle heading, in radians,
// from c towards o.
func (c CoordZ) InitialBearing(o CoordZ) float64 {
	lat1, lat2 := deg2rad(c.lat), deg2rad(o.lat)
	dLon := deg2rad(o.lon - c.lon)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)

	brng := math.Atan2(y, x)
	if brng < 0 {
		brng += 2 * math.Pi
	}

	return brng
}

// CartesianDistance returns the 3-D straight-line distance, in metres,
// treating the great-circle surface distance and the depth delta as
// orthogonal legs of a right triangle. This matches the "pure vertical
// channel" detection in spec.md §4.3: great-circle distance 0 with
// non-zero 3-D distance implies a purely vertical separation.
func (c CoordZ) CartesianDistance(o CoordZ) float64 {
	surface := c.GreatCircleDistance(o)
	dz := o.depth - c.depth

	return math.Hypot(surface, dz)
}

// Destination derives a new CoordZ by travelling rangeM metres along
// bearing (radians) great-circle heading from c. Depth is carried over
// unchanged; callers annotate depth separately (e.g. from bathymetry).
func (c CoordZ) Destination(bearing, rangeM float64) CoordZ {
	lat1 := deg2rad(c.lat)
	lon1 := deg2rad(c.lon)
	angularDist := rangeM / earthRadiusM

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(angularDist) +
		math.Cos(lat1)*math.Sin(angularDist)*math.Cos(bearing))
	lon2 := lon1 + math.Atan2(
		math.Sin(bearing)*math.Sin(angularDist)*math.Cos(lat1),
		math.Cos(angularDist)-math.Sin(lat1)*math.Sin(lat2),
	)

	return NewCoordZ(rad2deg(lat2), rad2deg(lon2), c.depth)
}

// UTMCoord is a projected coordinate in a Universal Transverse Mercator
// zone, used by bottom-type/sediment providers that key their lookups
// by planar distance rather than geographic coordinates.
type UTMCoord struct {
	Easting, Northing float64
	Zone              int
	Northern          bool
}

const (
	utmK0 = 0.9996
	utmE  = 0.00669438
	utmEp = utmE / (1 - utmE)
	utmA  = 6378137.0
)

// ToUTM converts a CoordZ's geographic position to a UTM coordinate,
// following the standard Snyder transverse-Mercator forward equations.
func (c CoordZ) ToUTM() UTMCoord {
	lat := deg2rad(c.lat)
	lon := deg2rad(c.lon)
	zone := int((c.lon+180)/6) + 1
	lonOrigin := deg2rad(float64(zone)*6 - 183)

	n := utmA / math.Sqrt(1-utmE*math.Sin(lat)*math.Sin(lat))
	t := math.Tan(lat) * math.Tan(lat)
	cc := utmEp * math.Cos(lat) * math.Cos(lat)
	a := math.Cos(lat) * (lon - lonOrigin)

	m := utmA * ((1-utmE/4-3*utmE*utmE/64-5*utmE*utmE*utmE/256)*lat -
		(3*utmE/8+3*utmE*utmE/32+45*utmE*utmE*utmE/1024)*math.Sin(2*lat) +
		(15*utmE*utmE/256+45*utmE*utmE*utmE/1024)*math.Sin(4*lat) -
		(35*utmE*utmE*utmE/3072)*math.Sin(6*lat))

	easting := utmK0*n*(a+(1-t+cc)*a*a*a/6+
		(5-18*t+t*t+72*cc-58*utmEp)*a*a*a*a*a/120) + 500000.0

	northing := utmK0 * (m + n*math.Tan(lat)*(a*a/2+
		(5-t+9*cc+4*cc*cc)*a*a*a*a/24+
		(61-58*t+t*t+600*cc-330*utmEp)*a*a*a*a*a*a/720))

	northern := c.lat >= 0
	if !northern {
		northing += 10000000.0
	}

	return UTMCoord{Easting: easting, Northing: northing, Zone: zone, Northern: northern}
}

// GeoCoefficients holds the empirical coefficients used to approximate
// metres-per-degree scale factors for a given latitude, as used to
// derive beam footprints from a vertical beam pattern rotation.
type GeoCoefficients struct {
	A, B, C, D, E, F, G float64
}

// NewCoefWgs84 returns the WGS84-fitted metres-per-degree coefficients.
func NewCoefWgs84() GeoCoefficients {
	return GeoCoefficients{
		A: 111132.92, B: 559.82, C: 1.175, D: 0.0023,
		E: 111412.84, F: 93.5, G: 0.118,
	}
}

// MetresPerDegree returns the (latitude, longitude) metres-per-degree
// scale factors at the given latitude (degrees).
func (g GeoCoefficients) MetresPerDegree(latDeg float64) (latSF, lonSF float64) {
	latRad := deg2rad(latDeg)

	latSF = g.A - g.B*math.Cos(2*latRad) + g.C*math.Cos(4*latRad) - g.D*math.Cos(6*latRad)
	lonSF = g.E*math.Cos(latRad) - g.F*math.Cos(3*latRad) + g.G*math.Cos(5*latRad)

	return latSF, lonSF
}
