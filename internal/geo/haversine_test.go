package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversine(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
		tolerance              float64
	}{
		{
			name: "identical points",
			lat1: 37.7749, lon1: -122.4194, lat2: 37.7749, lon2: -122.4194,
			want: 0, tolerance: 1e-9,
		},
		{
			name: "short hop inside san francisco",
			lat1: 37.7749, lon1: -122.4194, lat2: 37.7750, lon2: -122.4195,
			want: 0.014, tolerance: 0.002,
		},
		{
			name: "san francisco to new york",
			lat1: 37.7749, lon1: -122.4194, lat2: 40.0, lon2: -74.0,
			want: 4146.24, tolerance: 1,
		},
		{
			name: "equator quarter circumference",
			lat1: 0, lon1: 0, lat2: 0, lon2: 90,
			want: math.Pi * EarthRadiusKm / 2, tolerance: 0.01,
		},
		{
			name: "pole to pole",
			lat1: 90, lon1: 0, lat2: -90, lon2: 0,
			want: math.Pi * EarthRadiusKm, tolerance: 0.01,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Haversine(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.want, got, tt.tolerance)
		})
	}
}

func TestHaversine_Symmetry(t *testing.T) {
	d1 := Haversine(37.7749, -122.4194, 40.0, -74.0)
	d2 := Haversine(40.0, -74.0, 37.7749, -122.4194)
	assert.Equal(t, d1, d2)
}

func TestHaversine_AntipodalStaysFinite(t *testing.T) {
	// Rounding near antipodal points can push the intermediate term past 1;
	// the clamp must keep the result a real number.
	d := Haversine(37.7749, -122.4194, -37.7749, 57.5806)
	assert.False(t, math.IsNaN(d))
	assert.InDelta(t, math.Pi*EarthRadiusKm, d, 1.0)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, Round2(1.2345))
	assert.Equal(t, 1.24, Round2(1.236))
	assert.Equal(t, 0.0, Round2(0.0))
	assert.Equal(t, 4129.09, Round2(4129.0949))
}

func TestParsePoint(t *testing.T) {
	p, ok := ParsePoint("37.7749", "-122.4194")
	assert.True(t, ok)
	assert.Equal(t, 37.7749, p.Lat)
	assert.Equal(t, -122.4194, p.Lon)

	_, ok = ParsePoint("", "-122.4194")
	assert.False(t, ok)

	_, ok = ParsePoint("37.7749", "west")
	assert.False(t, ok)

	_, ok = ParsePoint("", "")
	assert.False(t, ok)
}

func TestParseRadius(t *testing.T) {
	assert.Equal(t, 5.0, ParseRadius("5", DefaultRadiusKm))
	assert.Equal(t, 2.5, ParseRadius("2.5", DefaultRadiusKm))
	assert.Equal(t, DefaultRadiusKm, ParseRadius("", DefaultRadiusKm))
	assert.Equal(t, DefaultRadiusKm, ParseRadius("abc", DefaultRadiusKm))
	assert.Equal(t, DefaultRadiusKm, ParseRadius("-3", DefaultRadiusKm))
	assert.Equal(t, DefaultRadiusKm, ParseRadius("0", DefaultRadiusKm))
}

func TestValidCoordinate(t *testing.T) {
	assert.True(t, ValidCoordinate(0, 0))
	assert.True(t, ValidCoordinate(90, 180))
	assert.True(t, ValidCoordinate(-90, -180))
	assert.False(t, ValidCoordinate(90.1, 0))
	assert.False(t, ValidCoordinate(0, -180.1))
	assert.False(t, ValidCoordinate(-91, 181))
}
