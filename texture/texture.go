// Package texture loads and samples equirectangular world textures as
// linear float RGB grids.
package texture

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"
	"os"

	"github.com/echoflaresat/tiff"
	xdraw "golang.org/x/image/draw"

	"github.com/echoflaresat/flightglobe/colors"

	_ "image/jpeg" // register JPEG format with image.Decode
	_ "image/png"  // register PNG format with image.Decode
)

// Image is an equirectangular RGB image with float64 samples in [0,1],
// row-major, row 0 at the north pole, column 0 at 180°W. It spans the
// full globe; the cell (x, y) is centered on
// lon = -180 + 360*(x+0.5)/W, lat = 90 - 180*(y+0.5)/H.
type Image struct {
	W, H int
	Pix  []float64 // len 3*W*H, RGB interleaved
}

// New returns a black image of the given size.
func New(w, h int) *Image {
	return &Image{W: w, H: h, Pix: make([]float64, 3*w*h)}
}

// Load reads a texture from disk. TIFF is tried first, then the stdlib
// image codecs, mirroring how world textures ship as either.
func Load(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := tiff.Decode(f)
	if err != nil {
		slog.Warn("not a readable TIFF, falling back to image codecs", "path", path, "error", err)
		if _, serr := f.Seek(0, 0); serr != nil {
			return nil, serr
		}
		img, _, err = image.Decode(f)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return FromImage(img), nil
}

// FromImage converts any image.Image into linear [0,1] floats.
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	out := New(b.Dx(), b.Dy())
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bb, _ := src.At(x, y).RGBA()
			out.Pix[i] = float64(r) / 65535.0
			out.Pix[i+1] = float64(g) / 65535.0
			out.Pix[i+2] = float64(bb) / 65535.0
			i += 3
		}
	}
	return out
}

// At returns the color at pixel (x, y). Coordinates are clamped to the
// image bounds.
func (m *Image) At(x, y int) colors.Color {
	if x < 0 {
		x = 0
	} else if x >= m.W {
		x = m.W - 1
	}
	if y < 0 {
		y = 0
	} else if y >= m.H {
		y = m.H - 1
	}
	i := 3 * (y*m.W + x)
	return colors.Color{R: m.Pix[i], G: m.Pix[i+1], B: m.Pix[i+2]}
}

// Set writes the color at pixel (x, y). Out-of-bounds writes are
// ignored.
func (m *Image) Set(x, y int, c colors.Color) {
	if x < 0 || x >= m.W || y < 0 || y >= m.H {
		return
	}
	i := 3 * (y*m.W + x)
	m.Pix[i] = c.R
	m.Pix[i+1] = c.G
	m.Pix[i+2] = c.B
}

// atWrapped is At with longitude wraparound in x.
func (m *Image) atWrapped(x, y int) colors.Color {
	x = ((x % m.W) + m.W) % m.W
	return m.At(x, y)
}

// SampleLatLon bilinearly samples the texture at a geographic position
// in degrees. Longitude wraps across the antimeridian; latitude rows
// clamp at the poles.
func (m *Image) SampleLatLon(lat, lon float64) colors.Color {
	fx := (lon+180)/360*float64(m.W) - 0.5
	fy := (90-lat)/180*float64(m.H) - 0.5

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	c00 := m.atWrapped(x0, y0)
	c10 := m.atWrapped(x0+1, y0)
	c01 := m.atWrapped(x0, y0+1)
	c11 := m.atWrapped(x0+1, y0+1)

	top := c00.Mix(c10, tx)
	bottom := c01.Mix(c11, tx)
	return top.Mix(bottom, ty)
}

// Scaled regrids the texture to w×h. The blend step needs day and
// night on one common grid, and the animation profits from dropping
// 21600-px source imagery down to render resolution once, up front.
func (m *Image) Scaled(w, h int) *Image {
	if w == m.W && h == m.H {
		return m
	}
	src := m.ToNRGBA()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return FromImage(dst)
}

// ToNRGBA converts to an 8-bit image for encoding.
func (m *Image) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, m.W, m.H))
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			img.SetNRGBA(x, y, m.At(x, y).ToNRGBA())
		}
	}
	return img
}

// SameSize reports whether two textures share dimensions.
func SameSize(a, b *Image) bool {
	return a.W == b.W && a.H == b.H
}

// ErrEmpty is returned by validation helpers when an image has no
// pixels.
var ErrEmpty = errors.New("empty texture")

// Validate checks the pixel buffer length against the declared size.
func (m *Image) Validate() error {
	if m.W <= 0 || m.H <= 0 {
		return ErrEmpty
	}
	if len(m.Pix) != 3*m.W*m.H {
		return fmt.Errorf("pixel buffer is %d values, want %d", len(m.Pix), 3*m.W*m.H)
	}
	return nil
}
