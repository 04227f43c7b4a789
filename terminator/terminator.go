// Package terminator blends day and night world textures into a single
// equirectangular map shaded by the sun's position, with a smooth
// twilight band across the day/night boundary.
package terminator

import (
	"errors"
	"fmt"
	"math"
	"runtime"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/errgroup"

	"github.com/echoflaresat/flightglobe/geo"
	"github.com/echoflaresat/flightglobe/texture"
)

// The twilight band: night begins where the sun sits 18° below the
// horizon (astronomical twilight), i.e. solar zenith angles from 90°
// at the terminator line to 108° at full dark.
const (
	DaylightMaxSZA = 90.0
	NightMinSZA    = 108.0
	twilightWidth  = NightMinSZA - DaylightMaxSZA
)

// ErrDimensionMismatch is returned when the day and night textures do
// not share dimensions.
var ErrDimensionMismatch = errors.New("day and night textures differ in size")

// Builder produces blended day/night maps for arbitrary sub-solar
// positions over one fixed pair of textures. It is safe for concurrent
// use: the textures are read-only and each Map call allocates its own
// grid.
type Builder struct {
	day     *texture.Image
	night   *texture.Image
	cache   *lru.Cache // quantized sub-solar point -> *texture.Image
	workers int
}

// New validates the texture pair and prepares a builder. cacheSize is
// the number of blended maps kept for reuse; the sub-solar point moves
// about a quarter degree per minute of flight, so neighboring frames
// rarely collide, but replays and multi-leg renders do.
func New(day, night *texture.Image, cacheSize int) (*Builder, error) {
	if err := day.Validate(); err != nil {
		return nil, fmt.Errorf("day texture: %w", err)
	}
	if err := night.Validate(); err != nil {
		return nil, fmt.Errorf("night texture: %w", err)
	}
	if !texture.SameSize(day, night) {
		return nil, fmt.Errorf("%w: day %dx%d, night %dx%d",
			ErrDimensionMismatch, day.W, day.H, night.W, night.H)
	}
	b := &Builder{day: day, night: night, workers: runtime.GOMAXPROCS(0)}
	if cacheSize > 0 {
		b.cache, _ = lru.New(cacheSize)
	}
	return b, nil
}

// ZenithAngles returns the solar zenith angle in degrees at every cell
// of the texture grid for the given sub-solar point, row-major with
// row 0 at the north pole (the texture orientation, so no flip step is
// needed before blending).
func (b *Builder) ZenithAngles(sub geo.Point) ([]float64, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}
	sub = sub.WrapLon()
	w, h := b.day.W, b.day.H
	out := make([]float64, w*h)

	var g errgroup.Group
	rows := (h + b.workers - 1) / b.workers
	for y0 := 0; y0 < h; y0 += rows {
		y0, y1 := y0, min(y0+rows, h)
		g.Go(func() error {
			geo.AngularDistanceRows(sub, w, h, y0, y1, out)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// NightWeight maps a solar zenith angle to the night texture's blend
// weight: 0 on the day side, 1 beyond astronomical twilight, and a
// smooth sin² ramp across the 18° band between. The saturation at the
// band edges is by contract, not clamping of bad input.
func NightWeight(sza float64) float64 {
	switch {
	case sza <= DaylightMaxSZA:
		return 0
	case sza > NightMinSZA:
		return 1
	default:
		s := math.Sin((sza - DaylightMaxSZA) / twilightWidth * math.Pi / 2)
		return s * s
	}
}

// Map returns the blended texture for the given sub-solar point:
// day·(1−w) + night·w per channel. Both inputs live in [0,1] and the
// weights do too, so the output needs no clamping. The returned image
// may be shared with the cache and other callers; treat it as
// read-only.
func (b *Builder) Map(sub geo.Point) (*texture.Image, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}
	key := quantize(sub.WrapLon())
	if b.cache != nil {
		if v, ok := b.cache.Get(key); ok {
			return v.(*texture.Image), nil
		}
	}

	sza, err := b.ZenithAngles(sub)
	if err != nil {
		return nil, err
	}

	w, h := b.day.W, b.day.H
	out := texture.New(w, h)

	var g errgroup.Group
	rows := (h + b.workers - 1) / b.workers
	for y0 := 0; y0 < h; y0 += rows {
		y0, y1 := y0, min(y0+rows, h)
		g.Go(func() error {
			for i := y0 * w; i < y1*w; i++ {
				wt := NightWeight(sza[i])
				p := 3 * i
				out.Pix[p] = b.day.Pix[p]*(1-wt) + b.night.Pix[p]*wt
				out.Pix[p+1] = b.day.Pix[p+1]*(1-wt) + b.night.Pix[p+1]*wt
				out.Pix[p+2] = b.day.Pix[p+2]*(1-wt) + b.night.Pix[p+2]*wt
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if b.cache != nil {
		b.cache.Add(key, out)
	}
	return out, nil
}

// quantize rounds a sub-solar point to 0.01°, fine enough that two
// instants sharing a key produce visually identical maps.
func quantize(p geo.Point) [2]int32 {
	return [2]int32{
		int32(math.Round(p.Lat * 100)),
		int32(math.Round(p.Lon * 100)),
	}
}
