package geo

import (
	"math"
	"strconv"
)

// EarthRadiusKm is the mean radius of the Earth in kilometers.
const EarthRadiusKm = 6371.0

// DefaultRadiusKm is the search radius used when a nearby query does not
// supply a parseable radius.
const DefaultRadiusKm = 10.0

// Haversine returns the great-circle distance in kilometers between two
// lat/lon points. The intermediate term is clamped to 1.0 so that floating
// rounding near antipodal points cannot push Sqrt/Asin out of domain.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	if a > 1 {
		a = 1
	}

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(a))
}

// Round2 rounds a distance to two decimal places for presentation.
// Sorting and radius comparison always use full precision.
func Round2(km float64) float64 {
	return math.Round(km*100) / 100
}

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// ParsePoint parses raw query parameters into a Point. It returns false when
// either value is missing or not numeric; callers skip GPS handling in that
// case rather than surfacing an error.
func ParsePoint(latStr, lonStr string) (Point, bool) {
	lat, errLat := strconv.ParseFloat(latStr, 64)
	lon, errLon := strconv.ParseFloat(lonStr, 64)
	if errLat != nil || errLon != nil {
		return Point{}, false
	}
	return Point{Lat: lat, Lon: lon}, true
}

// ParseRadius parses a radius parameter in kilometers, falling back to def
// when the value is absent or unparseable.
func ParseRadius(v string, def float64) float64 {
	radius, err := strconv.ParseFloat(v, 64)
	if err != nil || radius <= 0 {
		return def
	}
	return radius
}

// ValidCoordinate reports whether lat/lon are inside the valid ranges.
func ValidCoordinate(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
