// Package earth computes where the sun sits relative to the rotating
// Earth at a given instant.
package earth

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/meeus/v3/solar"

	"github.com/echoflaresat/flightglobe/geo"
	"github.com/echoflaresat/flightglobe/vectors"
)

const Radius = 6371.0 // Earth radius in km (spherical approximation)

// ErrInvalidTime is returned when an instant is not UTC-normalized.
// Sub-solar geometry is undefined for wall-clock times; callers convert
// with Time.UTC() before asking.
var ErrInvalidTime = errors.New("instant must be UTC")

// SubsolarPoint returns the geographic point directly beneath the sun
// at t. Longitude is apparent solar right ascension minus Greenwich
// apparent sidereal time, normalized into (-180, 180]; latitude is the
// solar declination.
//
// Each call builds a fresh ephemeris evaluation, so concurrent frame
// renders share nothing.
func SubsolarPoint(t time.Time) (geo.Point, error) {
	if err := checkUTC(t); err != nil {
		return geo.Point{}, err
	}
	jd := julian.TimeToJD(t)

	ra, dec := solar.ApparentEquatorial(jd)
	gst := sidereal.Apparent0UT(jd)

	lon := (ra.Rad() - gst.Angle().Rad()) * 180 / math.Pi
	if lon < -180 {
		lon += 360
	} else if lon > 180 {
		lon -= 360
	}
	return geo.Point{Lat: dec.Deg(), Lon: lon}, nil
}

// SurfaceDistance returns the great-circle distance between a and b in
// kilometers on the spherical Earth.
func SurfaceDistance(a, b geo.Point) (float64, error) {
	deg, err := geo.AngularDistance(a, b)
	if err != nil {
		return 0, err
	}
	return Radius * deg * math.Pi / 180, nil
}

// SunDirectionECEF returns the unit vector from the Earth's center
// toward the sun in Earth-fixed coordinates. It is the vector form of
// SubsolarPoint and feeds hemisphere-visibility checks in the renderer.
func SunDirectionECEF(t time.Time) (vectors.Vec3, error) {
	sub, err := SubsolarPoint(t)
	if err != nil {
		return vectors.Vec3{}, err
	}
	return vectors.FromLatLon(sub.Lat, sub.Lon), nil
}

func checkUTC(t time.Time) error {
	if _, offset := t.Zone(); offset != 0 {
		return fmt.Errorf("%w: got zone offset %ds for %s", ErrInvalidTime, offset, t)
	}
	return nil
}
