// Package colors holds the linear float RGB color used when compositing
// frame buffers and path overlays.
package colors

import "image/color"

// Color is a linear RGB color with float64 components in [0,1].
type Color struct {
	R, G, B float64
}

func New(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

func Black() Color {
	return Color{}
}

func White() Color {
	return Color{R: 1, G: 1, B: 1}
}

// Add returns c + o (component-wise).
func (c Color) Add(o Color) Color {
	return Color{c.R + o.R, c.G + o.G, c.B + o.B}
}

// Scale returns c * s (scalar).
func (c Color) Scale(s float64) Color {
	return Color{c.R * s, c.G * s, c.B * s}
}

// Mix returns lerp(c, o, t) = c*(1-t) + o*t.
func (c Color) Mix(o Color, t float64) Color {
	return c.Scale(1.0 - t).Add(o.Scale(t))
}

// Clamp01 clamps each component into [0,1].
func (c Color) Clamp01() Color {
	return Color{clamp01(c.R), clamp01(c.G), clamp01(c.B)}
}

// ToNRGBA converts to an opaque 8-bit color after clamping.
func (c Color) ToNRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(255*clamp01(c.R) + 0.5),
		G: uint8(255*clamp01(c.G) + 0.5),
		B: uint8(255*clamp01(c.B) + 0.5),
		A: 255,
	}
}

// FromNRGBA converts an 8-bit color back into linear floats.
func FromNRGBA(c color.NRGBA) Color {
	return Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
