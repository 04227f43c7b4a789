package geo

import (
	"errors"
	"math"
	"testing"
)

func TestAngularDistanceKnownValues(t *testing.T) {
	cases := []struct {
		name string
		a, b Point
		want float64
	}{
		{"coincident", Point{10, -5}, Point{10, -5}, 0},
		{"equatorial antipodes", Point{0, 0}, Point{0, 180}, 180},
		{"pole to pole", Point{90, 0}, Point{-90, 0}, 180},
		{"pole to equator", Point{90, 0}, Point{0, 123}, 90},
		{"quarter turn on equator", Point{0, 0}, Point{0, 90}, 90},
		// Reference value from the haversine formula itself,
		// cross-checked against an independent spherical-law-of-
		// cosines evaluation.
		{"mid-latitude pair", Point{10, -5}, Point{-87, 146}, 102.62029119229642},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := AngularDistance(c.a, c.b)
			if err != nil {
				t.Fatalf("AngularDistance: %v", err)
			}
			if math.Abs(got-c.want) > 1e-9 {
				t.Errorf("got %v, want %v", got, c.want)
			}
		})
	}
}

func TestAngularDistanceSymmetry(t *testing.T) {
	pairs := [][2]Point{
		{{34.05, -118.25}, {51.5, -0.12}},
		{{-33.87, 151.21}, {35.68, 139.69}},
		{{89.9, 10}, {-89.9, -170}},
		{{0, 179.5}, {0, -179.5}},
	}
	for _, p := range pairs {
		ab, err := AngularDistance(p[0], p[1])
		if err != nil {
			t.Fatalf("AngularDistance: %v", err)
		}
		ba, err := AngularDistance(p[1], p[0])
		if err != nil {
			t.Fatalf("AngularDistance: %v", err)
		}
		if math.Abs(ab-ba) > 1e-12 {
			t.Errorf("asymmetric: %v vs %v for %v", ab, ba, p)
		}
		if ab < 0 || ab > 180 {
			t.Errorf("out of [0,180]: %v for %v", ab, p)
		}
	}
}

func TestAngularDistanceAcrossAntimeridian(t *testing.T) {
	// Two points 1° apart straddling the dateline.
	got, err := AngularDistance(Point{0, 179.5}, Point{0, -179.5})
	if err != nil {
		t.Fatalf("AngularDistance: %v", err)
	}
	if math.Abs(got-1) > 1e-9 {
		t.Errorf("got %v, want 1", got)
	}
}

func TestAngularDistanceRejectsBadCoordinates(t *testing.T) {
	bad := []Point{
		{91, 0},
		{-90.0001, 10},
		{math.NaN(), 0},
		{0, math.NaN()},
		{0, math.Inf(1)},
	}
	for _, p := range bad {
		if _, err := AngularDistance(p, Point{0, 0}); !errors.Is(err, ErrCoordinateRange) {
			t.Errorf("expected ErrCoordinateRange for %v, got %v", p, err)
		}
		if _, err := AngularDistance(Point{0, 0}, p); !errors.Is(err, ErrCoordinateRange) {
			t.Errorf("expected ErrCoordinateRange for %v, got %v", p, err)
		}
	}
}

func TestAngularDistanceGridMatchesScalar(t *testing.T) {
	const w, h = 36, 18
	ref := Point{23.5, -100}
	grid, err := AngularDistanceGrid(ref, w, h)
	if err != nil {
		t.Fatalf("AngularDistanceGrid: %v", err)
	}
	if len(grid) != w*h {
		t.Fatalf("grid length %d, want %d", len(grid), w*h)
	}
	for _, cell := range []struct{ x, y int }{{0, 0}, {w - 1, 0}, {w / 2, h / 2}, {3, h - 1}} {
		lat := 90 - 180*(float64(cell.y)+0.5)/float64(h)
		lon := -180 + 360*(float64(cell.x)+0.5)/float64(w)
		want, err := AngularDistance(ref, Point{lat, lon})
		if err != nil {
			t.Fatalf("AngularDistance: %v", err)
		}
		got := grid[cell.y*w+cell.x]
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("cell (%d,%d): got %v, want %v", cell.x, cell.y, got, want)
		}
	}
}

func TestWrapLon(t *testing.T) {
	cases := []struct {
		in   Point
		want float64
	}{
		{Point{0, 190}, -170},
		{Point{0, 360}, 0},
		{Point{0, 180}, 180},
		{Point{0, -180}, 180},
		{Point{45, 539}, 179},
		{Point{45, -170}, -170},
	}
	for _, c := range cases {
		got := c.in.WrapLon()
		if math.Abs(got.Lon-c.want) > 1e-9 || got.Lat != c.in.Lat {
			t.Errorf("WrapLon(%v) = %v, want lon %v", c.in, got, c.want)
		}
	}
}
