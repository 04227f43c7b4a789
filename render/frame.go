// Package render projects blended globe textures into orthographic
// animation frames and overlays the flight track.
package render

import (
	"image"
	"math"

	"github.com/echoflaresat/flightglobe/colors"
	"github.com/echoflaresat/flightglobe/geo"
	"github.com/echoflaresat/flightglobe/texture"
)

// Theme holds the overlay colors drawn on top of the globe.
type Theme struct {
	Space colors.Color
	Trail colors.Color
	Plane colors.Color
}

// DefaultTheme is black space with a red trail and marker.
func DefaultTheme() Theme {
	return Theme{
		Space: colors.Black(),
		Trail: colors.New(0.84, 0.15, 0.16),
		Plane: colors.New(0.84, 0.15, 0.16),
	}
}

// Options configures a frame render.
type Options struct {
	Size        int // output width and height in pixels
	Supersample int // n×n subpixel samples; values < 1 mean 1
	Theme       Theme
}

// Frame renders one animation frame: the blended map m seen through an
// orthographic camera, with the flight track drawn up to and including
// position upTo. The globe disk fills the frame with a small margin.
func Frame(m *texture.Image, cam Camera, path []geo.Point, upTo int, opts Options) *image.NRGBA {
	size := opts.Size
	ss := opts.Supersample
	if ss < 1 {
		ss = 1
	}
	offsets := supersampleOffsets(ss)
	n := float64(len(offsets))

	// Disk radius in pixels, leaving a margin so the limb isn't cut.
	radius := 0.48 * float64(size)
	cx := float64(size-1) / 2
	cy := float64(size-1) / 2

	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			acc := colors.Color{}
			for _, off := range offsets {
				ndcX := (float64(x) + off[0] - cx) / radius
				ndcY := -(float64(y) + off[1] - cy) / radius
				p, ok := cam.Unproject(ndcX, ndcY)
				if !ok {
					acc = acc.Add(opts.Theme.Space)
					continue
				}
				acc = acc.Add(m.SampleLatLon(p.Lat, p.Lon))
			}
			img.SetNRGBA(x, y, acc.Scale(1/n).ToNRGBA())
		}
	}

	drawTrail(img, cam, path, upTo, radius, cx, cy, opts.Theme)
	return img
}

// supersampleOffsets returns n×n offsets in [-0.5, +0.5] with
// pixel-center spacing.
func supersampleOffsets(n int) [][2]float64 {
	step := 1.0 / float64(n)
	out := make([][2]float64, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			dx := (float64(i)+0.5)*step - 0.5
			dy := (float64(j)+0.5)*step - 0.5
			out = append(out, [2]float64{dx, dy})
		}
	}
	return out
}

// drawTrail plots the flown portion of the track as a polyline and a
// heavier marker at the current position. Segments dipping behind the
// visible hemisphere are skipped.
func drawTrail(img *image.NRGBA, cam Camera, path []geo.Point, upTo int, radius, cx, cy float64, theme Theme) {
	if len(path) == 0 || upTo < 0 {
		return
	}
	if upTo >= len(path) {
		upTo = len(path) - 1
	}

	toScreen := func(p geo.Point) (float64, float64, bool) {
		x, y, ok := cam.Project(p)
		if !ok {
			return 0, 0, false
		}
		return cx + x*radius, cy - y*radius, true
	}

	for i := 1; i <= upTo; i++ {
		x0, y0, ok0 := toScreen(path[i-1])
		x1, y1, ok1 := toScreen(path[i])
		if !ok0 || !ok1 {
			continue
		}
		drawSegment(img, x0, y0, x1, y1, 1, theme.Trail)
	}

	if x, y, ok := toScreen(path[upTo]); ok {
		stamp(img, x, y, 2, theme.Plane)
	}
}

// drawSegment rasterizes a straight segment by stepping one pixel at a
// time. Path samples sit a minute of flight apart, so segments span a
// handful of pixels and straight-line drawing is indistinguishable from
// the projected arc.
func drawSegment(img *image.NRGBA, x0, y0, x1, y1 float64, width int, c colors.Color) {
	dx := x1 - x0
	dy := y1 - y0
	steps := int(math.Max(math.Abs(dx), math.Abs(dy))) + 1
	for s := 0; s <= steps; s++ {
		t := float64(s) / float64(steps)
		stamp(img, x0+dx*t, y0+dy*t, width, c)
	}
}

// stamp fills a small square of pixels centered on (x, y).
func stamp(img *image.NRGBA, x, y float64, r int, c colors.Color) {
	nrgba := c.ToNRGBA()
	xi, yi := int(x+0.5), int(y+0.5)
	b := img.Bounds()
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			px, py := xi+dx, yi+dy
			if px < b.Min.X || px >= b.Max.X || py < b.Min.Y || py >= b.Max.Y {
				continue
			}
			img.SetNRGBA(px, py, nrgba)
		}
	}
}
