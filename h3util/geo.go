package h3util

import (
	"math"

	h3 "github.com/uber/h3-go/v4"
)

const (
	// Earth's quatratic mean radius for WGS-84
	EARTH_RADIUS_IN_METERS float64 = 6372797.560856

	D_R = (math.Pi / 180.0)
)

func degRad(ang float64) float64 {
	return ang * D_R
}

func radDeg(ang float64) float64 {
	return ang / D_R
}

// Calculate distance using haversin great circle distance formula.
func GetDistance(lon0d, lat0d, lon1d, lat1d float64) float64 {
	lat0r := degRad(lat0d)
	lon0r := degRad(lon0d)
	lat1r := degRad(lat1d)
	lon1r := degRad(lon1d)

	u := math.Sin((lat1r - lat0r) / 2)
	v := math.Sin((lon1r - lon0r) / 2)

	a := math.Sqrt(u*u + math.Cos(lat0r)*math.Cos(lat1r)*v*v)
	// floating rounding can push the argument just past 1, which would
	// turn asin into NaN
	if a > 1 {
		a = 1
	}

	return 2.0 * EARTH_RADIUS_IN_METERS * math.Asin(a)
}

// DistBetweenH3 returns the great circle distance in meters between the
// centroids of the two cells.
func DistBetweenH3(idx0, idx1 Index) float64 {
	ll0 := h3.CellToLatLng(h3.Cell(idx0))
	ll1 := h3.CellToLatLng(h3.Cell(idx1))

	return GetDistance(ll0.Lng, ll0.Lat, ll1.Lng, ll1.Lat)
}
