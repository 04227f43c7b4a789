// Package flight plans the per-frame geometry of a flight animation:
// the great-circle track between two airports and the camera centers
// that follow it.
package flight

import (
	"errors"
	"fmt"
	"time"

	"github.com/StefanSchroeder/Golang-Ellipsoid/ellipsoid"

	"github.com/echoflaresat/flightglobe/geo"
)

// ErrInvalidDuration is returned when the arrival instant is not
// strictly after departure.
var ErrInvalidDuration = errors.New("arrival must be after departure")

// wgs84 solves geodesic problems on the WGS84 ellipsoid. The ellipsoid
// object is stateless after Init and safe to share.
var wgs84 = ellipsoid.Init(
	"WGS84",
	ellipsoid.Degrees,
	ellipsoid.Meter,
	ellipsoid.LongitudeIsSymmetric,
	ellipsoid.BearingIsSymmetric,
)

// Plan holds the precomputed, immutable geometry of one flight, one
// sample per minute of flight time, endpoints included. Frame i of the
// animation reads Path()[i], CameraPath()[i] and Instant(i) and nothing
// else, so frames can render concurrently.
type Plan struct {
	Departure geo.Point
	Arrival   geo.Point
	DepartAt  time.Time
	ArriveAt  time.Time

	frames int
	flight []geo.Point
	camera []geo.Point
}

// NewPlan validates the endpoints and times and precomputes both paths.
// Times must be UTC with minute precision; sub-minute components are
// ignored by the frame schedule but not by the duration check.
func NewPlan(dep, arr geo.Point, departAt, arriveAt time.Time) (*Plan, error) {
	if err := dep.Validate(); err != nil {
		return nil, fmt.Errorf("departure: %w", err)
	}
	if err := arr.Validate(); err != nil {
		return nil, fmt.Errorf("arrival: %w", err)
	}
	d := arriveAt.Sub(departAt)
	if d <= 0 {
		return nil, fmt.Errorf("%w: depart %s, arrive %s", ErrInvalidDuration, departAt, arriveAt)
	}

	p := &Plan{
		Departure: dep.WrapLon(),
		Arrival:   arr.WrapLon(),
		DepartAt:  departAt,
		ArriveAt:  arriveAt,
		frames:    int(d.Seconds()/60) + 1,
	}
	p.flight = datelineFix(p.greatCircle())
	p.camera = datelineFix(linearLatitudes(p.flight))
	return p, nil
}

// FrameCount is the number of animation frames: one per whole minute of
// flight, inclusive of both endpoints.
func (p *Plan) FrameCount() int { return p.frames }

// Instant returns the UTC time of frame i.
func (p *Plan) Instant(i int) time.Time {
	return p.DepartAt.Add(time.Duration(i) * time.Minute)
}

// Path returns the great-circle flight track, equally spaced by arc
// length on the WGS84 ellipsoid. Longitudes may be unwrapped beyond
// 180° near the antimeridian; re-wrap with geo.Point.WrapLon only when
// handing a point to a projection.
func (p *Plan) Path() []geo.Point { return p.flight }

// CameraPath returns the per-frame camera centers: the flight path's
// longitudes with latitude re-interpolated linearly between the
// endpoints, so the camera pans smoothly instead of following every
// bend of the track.
func (p *Plan) CameraPath() []geo.Point { return p.camera }

// greatCircle samples the geodesic between the endpoints: solve the
// inverse problem once for distance and initial bearing, then walk the
// direct problem at evenly spaced fractions of the distance.
func (p *Plan) greatCircle() []geo.Point {
	n := p.frames
	pts := make([]geo.Point, n)
	pts[0] = p.Departure
	if n == 1 {
		// Sub-minute flight: a one-point path, not an error.
		return pts
	}
	pts[n-1] = p.Arrival

	dist, bearing := wgs84.To(p.Departure.Lat, p.Departure.Lon, p.Arrival.Lat, p.Arrival.Lon)
	for i := 1; i < n-1; i++ {
		lat, lon := wgs84.At(p.Departure.Lat, p.Departure.Lon, dist*float64(i)/float64(n-1), bearing)
		pts[i] = geo.Point{Lat: lat, Lon: lon}
	}
	return pts
}

// linearLatitudes replaces the latitude sequence with a strict
// arithmetic progression from the first to the last value.
func linearLatitudes(path []geo.Point) []geo.Point {
	n := len(path)
	out := make([]geo.Point, n)
	copy(out, path)
	if n < 2 {
		return out
	}
	first, last := path[0].Lat, path[n-1].Lat
	for i := 1; i < n-1; i++ {
		out[i].Lat = first + (last-first)*float64(i)/float64(n-1)
	}
	out[0].Lat, out[n-1].Lat = first, last
	return out
}

// datelineFix unwraps a longitude sequence that strays near the
// antimeridian: if any sample sits beyond ±175°, every negative
// longitude shifts by +360 so interpolation and camera centering see a
// continuous sequence instead of a 360° jump.
func datelineFix(path []geo.Point) []geo.Point {
	near := false
	for _, pt := range path {
		if pt.Lon < -175 || pt.Lon > 175 {
			near = true
			break
		}
	}
	if !near {
		return path
	}
	for i := range path {
		if path[i].Lon < 0 {
			path[i].Lon += 360
		}
	}
	return path
}
