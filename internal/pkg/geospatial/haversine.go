package geospatial

import "math"

const earthRadiusKm = 6371.0

// CoordEpsilon is the default tolerance, in degrees, when matching a stored
// coordinate against one that round-tripped through JSON. Roughly 1 cm at
// the equator.
const CoordEpsilon = 1e-7

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c * 1000 // meters
}

// SameCoordinate reports whether two coordinates match within eps degrees
// on both axes.
func SameCoordinate(lat1, lng1, lat2, lng2, eps float64) bool {
	return math.Abs(lat1-lat2) <= eps && math.Abs(lng1-lng2) <= eps
}

// BoundingBox returns a bounding box around a point with the given radius in meters.
func BoundingBox(lat, lng, radiusMeters float64) (minLat, minLng, maxLat, maxLng float64) {
	latDelta := radiusMeters / 111320.0
	lngDelta := radiusMeters / (111320.0 * math.Cos(toRad(lat)))

	return lat - latDelta, lng - lngDelta, lat + latDelta, lng + lngDelta
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
