package render

import (
	"math"

	"github.com/echoflaresat/flightglobe/geo"
	"github.com/echoflaresat/flightglobe/vectors"
)

// Camera models an orthographic view of the globe centered on a
// geographic point. The basis spans the image plane: Right points along
// local east at the center, Up along local north, and Axis outward
// through the center point.
type Camera struct {
	Axis  vectors.Vec3
	Right vectors.Vec3
	Up    vectors.Vec3
}

// NewCamera builds the view basis for a center point. The center may
// carry an unwrapped longitude (beyond ±180°) straight from a camera
// path; the trigonometry doesn't care.
func NewCamera(center geo.Point) Camera {
	axis := vectors.FromLatLon(center.Lat, center.Lon)

	globalUp := vectors.Vec3{X: 0, Y: 0, Z: 1}
	right := globalUp.Cross(axis)
	if right.Norm() < 1e-9 {
		right = vectors.Vec3{X: 0, Y: 1, Z: 0} // looking straight down a pole
	}
	right = right.Normalize()
	up := axis.Cross(right).Normalize()

	return Camera{Axis: axis, Right: right, Up: up}
}

// Project maps a geographic point onto the image plane. It returns
// normalized device coordinates in [-1, 1] (x east, y north) and
// whether the point lies on the visible hemisphere.
func (c Camera) Project(p geo.Point) (float64, float64, bool) {
	v := vectors.FromLatLon(p.Lat, p.Lon)
	if v.Dot(c.Axis) <= 0 {
		return 0, 0, false
	}
	return v.Dot(c.Right), v.Dot(c.Up), true
}

// Unproject maps normalized device coordinates back to the surface
// point they image. ok is false outside the globe's disk.
func (c Camera) Unproject(x, y float64) (geo.Point, bool) {
	rho2 := x*x + y*y
	if rho2 > 1 {
		return geo.Point{}, false
	}
	v := c.Axis.Scale(math.Sqrt(1 - rho2)).
		Add(c.Right.Scale(x)).
		Add(c.Up.Scale(y))
	lat, lon := v.LatLon()
	return geo.Point{Lat: lat, Lon: lon}, true
}
