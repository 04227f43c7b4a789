package render

import (
	"math"
	"testing"

	"github.com/echoflaresat/flightglobe/colors"
	"github.com/echoflaresat/flightglobe/geo"
	"github.com/echoflaresat/flightglobe/texture"
)

func TestCameraProjectCenter(t *testing.T) {
	cam := NewCamera(geo.Point{Lat: 39.9, Lon: -104.7})
	x, y, ok := cam.Project(geo.Point{Lat: 39.9, Lon: -104.7})
	if !ok {
		t.Fatal("center point must be visible")
	}
	if math.Abs(x) > 1e-12 || math.Abs(y) > 1e-12 {
		t.Errorf("center projects to (%v, %v), want origin", x, y)
	}
}

func TestCameraVisibilityHemisphere(t *testing.T) {
	cam := NewCamera(geo.Point{Lat: 0, Lon: 0})
	if _, _, ok := cam.Project(geo.Point{Lat: 0, Lon: 170}); ok {
		t.Error("far side of the globe should not be visible")
	}
	if _, _, ok := cam.Project(geo.Point{Lat: 0, Lon: 80}); !ok {
		t.Error("near side should be visible")
	}
}

func TestCameraProjectDirections(t *testing.T) {
	cam := NewCamera(geo.Point{Lat: 0, Lon: 0})

	// North of center maps up (+y), east of center maps right (+x).
	_, y, ok := cam.Project(geo.Point{Lat: 30, Lon: 0})
	if !ok || y <= 0 {
		t.Errorf("northern point should project to +y, got %v (ok=%v)", y, ok)
	}
	x, _, ok := cam.Project(geo.Point{Lat: 0, Lon: 30})
	if !ok || x <= 0 {
		t.Errorf("eastern point should project to +x, got %v (ok=%v)", x, ok)
	}
}

func TestCameraUnprojectRoundTrip(t *testing.T) {
	cam := NewCamera(geo.Point{Lat: 35, Lon: 139})
	for _, ndc := range [][2]float64{{0, 0}, {0.5, -0.3}, {-0.7, 0.2}} {
		p, ok := cam.Unproject(ndc[0], ndc[1])
		if !ok {
			t.Fatalf("Unproject(%v) outside disk", ndc)
		}
		x, y, ok := cam.Project(p)
		if !ok {
			t.Fatalf("round-trip of %v not visible", ndc)
		}
		if math.Abs(x-ndc[0]) > 1e-9 || math.Abs(y-ndc[1]) > 1e-9 {
			t.Errorf("round-trip %v -> (%v, %v)", ndc, x, y)
		}
	}
	if _, ok := cam.Unproject(0.9, 0.9); ok {
		t.Error("point outside the unit disk should not unproject")
	}
}

func TestCameraHandlesUnwrappedLongitude(t *testing.T) {
	// A camera path across the dateline hands in longitudes > 180.
	a := NewCamera(geo.Point{Lat: 40, Lon: 190})
	b := NewCamera(geo.Point{Lat: 40, Lon: -170})
	if math.Abs(a.Axis.Sub(b.Axis).Norm()) > 1e-12 {
		t.Error("unwrapped and wrapped centers should build the same camera")
	}
}

func TestCameraAtPole(t *testing.T) {
	cam := NewCamera(geo.Point{Lat: 90, Lon: 0})
	if cam.Right.Norm() == 0 || cam.Up.Norm() == 0 {
		t.Fatal("polar camera basis degenerate")
	}
	if _, _, ok := cam.Project(geo.Point{Lat: 80, Lon: 45}); !ok {
		t.Error("high-latitude point should be visible from over the pole")
	}
}

func TestFrameCenterSamplesMap(t *testing.T) {
	const size = 64
	m := texture.New(36, 18)
	for i := 0; i < len(m.Pix); i += 3 {
		m.Pix[i] = 0.2
		m.Pix[i+1] = 0.4
		m.Pix[i+2] = 0.6
	}
	cam := NewCamera(geo.Point{Lat: 10, Lon: 20})
	img := Frame(m, cam, nil, -1, Options{Size: size, Supersample: 1, Theme: DefaultTheme()})

	got := colors.FromNRGBA(img.NRGBAAt(size/2, size/2))
	if math.Abs(got.R-0.2) > 0.01 || math.Abs(got.G-0.4) > 0.01 || math.Abs(got.B-0.6) > 0.01 {
		t.Errorf("center pixel %+v, want the uniform map color", got)
	}

	corner := img.NRGBAAt(0, 0)
	if corner.R != 0 || corner.G != 0 || corner.B != 0 {
		t.Errorf("corner pixel %+v, want black space", corner)
	}
}

func TestFrameDrawsPositionMarker(t *testing.T) {
	const size = 64
	m := texture.New(36, 18) // all black globe
	center := geo.Point{Lat: 0, Lon: 0}
	cam := NewCamera(center)
	path := []geo.Point{{Lat: 0, Lon: -10}, {Lat: 0, Lon: -5}, center}
	img := Frame(m, cam, path, 2, Options{Size: size, Supersample: 1, Theme: DefaultTheme()})

	c := img.NRGBAAt(size/2, size/2)
	if c.R == 0 {
		t.Error("expected the trail marker at the frame center")
	}
}
