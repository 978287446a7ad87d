package geo

import (
	"math"
)

// earthRadiusKm is the mean Earth radius used for great-circle math.
const earthRadiusKm = 6371.0

// Point represents a geographic coordinate.
type Point struct {
	Lat float64
	Lon float64
}

// Valid reports whether both coordinates are finite numbers.
func (p Point) Valid() bool {
	return !math.IsNaN(p.Lat) && !math.IsInf(p.Lat, 0) &&
		!math.IsNaN(p.Lon) && !math.IsInf(p.Lon, 0)
}

// Distance calculates the Haversine distance between two points in
// kilometers. Invalid input never produces an error: if either point
// carries a NaN/Inf coordinate the result is +Inf, so callers treat an
// unmeasurable gap as a forced discontinuity instead of crashing.
func Distance(p1, p2 Point) float64 {
	if !p1.Valid() || !p2.Valid() {
		return math.Inf(1)
	}

	dLat := (p2.Lat - p1.Lat) * (math.Pi / 180.0)
	dLon := (p2.Lon - p1.Lon) * (math.Pi / 180.0)
	lat1 := p1.Lat * (math.Pi / 180.0)
	lat2 := p2.Lat * (math.Pi / 180.0)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1)*math.Cos(lat2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// PerpendicularDistance returns the planar distance of pt from the line
// through start and end, computed directly in lon/lat degree space. The
// line simplifier compares this against a tolerance that was tuned in the
// same degree units, so no spherical correction is applied. Degenerate
// input (coincident endpoints, non-finite coordinates) yields 0, which
// makes the simplifier collapse the run instead of propagating an error.
func PerpendicularDistance(pt, start, end Point) float64 {
	num := math.Abs((end.Lat-start.Lat)*pt.Lon - (end.Lon-start.Lon)*pt.Lat +
		end.Lon*start.Lat - end.Lat*start.Lon)
	den := math.Sqrt((end.Lat-start.Lat)*(end.Lat-start.Lat) +
		(end.Lon-start.Lon)*(end.Lon-start.Lon))
	if den == 0 || math.IsNaN(num) || math.IsNaN(den) || math.IsInf(num, 0) || math.IsInf(den, 0) {
		return 0
	}
	return num / den
}
