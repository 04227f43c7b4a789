// Package geo provides geographic points and great-circle angular
// distances on the sphere.
package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/s2"
)

// ErrCoordinateRange is returned when a latitude falls outside [-90, 90]
// or a longitude is not a finite number.
var ErrCoordinateRange = errors.New("coordinate out of range")

// Point is a geographic position in degrees. Lon may exceed 180 after
// dateline unwrapping; WrapLon restores the canonical (-180, 180] range.
type Point struct {
	Lat float64
	Lon float64
}

// Validate checks that Lat is within [-90, 90] and Lon is finite.
func (p Point) Validate() error {
	if math.IsNaN(p.Lat) || p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("%w: latitude %v", ErrCoordinateRange, p.Lat)
	}
	if math.IsNaN(p.Lon) || math.IsInf(p.Lon, 0) {
		return fmt.Errorf("%w: longitude %v", ErrCoordinateRange, p.Lon)
	}
	return nil
}

// WrapLon returns the point with its longitude normalized into
// (-180, 180]. Paths near the antimeridian carry unwrapped longitudes
// internally; call this at the rendering boundary.
func (p Point) WrapLon() Point {
	// Normalize via s2 with a zero latitude: LatLng.Normalized also
	// clamps latitude, and an out-of-range latitude must keep failing
	// validation rather than get silently repaired.
	ll := s2.LatLng{Lng: s2.LatLngFromDegrees(0, p.Lon).Lng}.Normalized()
	lon := ll.Lng.Degrees()
	if lon == -180 {
		lon = 180
	}
	return Point{Lat: p.Lat, Lon: lon}
}

// AngularDistance returns the great-circle angle between a and b in
// degrees, in [0, 180]. The haversine form is branch-free and stays
// accurate at the poles and across the antimeridian.
func AngularDistance(a, b Point) (float64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	if err := b.Validate(); err != nil {
		return 0, err
	}
	return haversineRad(radians(a.Lat), radians(a.Lon), radians(b.Lat), radians(b.Lon)), nil
}

// AngularDistanceGrid evaluates the angle between ref and every cell of
// a full-globe lat/lon grid with h rows and w columns, row 0 at +90°
// latitude, column 0 at -180° longitude. The result is row-major, h*w
// values in degrees. Grid coordinates are constructed in-range, so only
// ref is validated.
func AngularDistanceGrid(ref Point, w, h int) ([]float64, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	out := make([]float64, w*h)
	AngularDistanceRows(ref, w, h, 0, h, out)
	return out, nil
}

// AngularDistanceRows fills rows [y0, y1) of the h×w grid described by
// AngularDistanceGrid into out (which must hold w*h values). It exists
// so callers can split the grid across goroutines.
func AngularDistanceRows(ref Point, w, h, y0, y1 int, out []float64) {
	lat0 := radians(ref.Lat)
	lon0 := radians(ref.Lon)
	cosLat0 := math.Cos(lat0)

	// Precompute the longitude-dependent term once per column.
	sinHalfDLon2 := make([]float64, w)
	for x := 0; x < w; x++ {
		lon1 := radians(-180 + 360*(float64(x)+0.5)/float64(w))
		s := math.Sin((lon0 - lon1) / 2)
		sinHalfDLon2[x] = s * s
	}

	for y := y0; y < y1; y++ {
		lat1 := radians(90 - 180*(float64(y)+0.5)/float64(h))
		sinHalfDLat := math.Sin((lat0 - lat1) / 2)
		ha := sinHalfDLat * sinHalfDLat
		cc := math.Cos(lat1) * cosLat0
		row := out[y*w : y*w+w]
		for x := 0; x < w; x++ {
			row[x] = angleFromHaversine(ha + cc*sinHalfDLon2[x])
		}
	}
}

func haversineRad(lat0, lon0, lat1, lon1 float64) float64 {
	sLat := math.Sin((lat0 - lat1) / 2)
	sLon := math.Sin((lon0 - lon1) / 2)
	return angleFromHaversine(sLat*sLat + math.Cos(lat1)*math.Cos(lat0)*sLon*sLon)
}

// angleFromHaversine converts the haversine term to degrees. Rounding
// can nudge a just past 1 for near-antipodal pairs, which would turn
// Asin into NaN.
func angleFromHaversine(a float64) float64 {
	if a > 1 {
		a = 1
	}
	return degrees(2 * math.Asin(math.Sqrt(a)))
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
func degrees(rad float64) float64 { return rad * 180 / math.Pi }
