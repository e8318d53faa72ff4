package jfa

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// RGBA is a straight-alpha color with components in [0, 1].
// Components outside that range are clamped when stored in a Pixmap.
type RGBA struct {
	R, G, B, A float64
}

// RGB returns an opaque color.
func RGB(r, g, b float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1}
}

// Named colors. Green is the near-seed glow of the default finalize params.
var (
	Black       = RGB(0, 0, 0)
	White       = RGB(1, 1, 1)
	Red         = RGB(1, 0, 0)
	Green       = RGB(0, 1, 0)
	Blue        = RGB(0, 0, 1)
	Transparent = RGBA{}
)

// ParseHex parses "#rgb", "#rrggbb" or "#rrggbbaa"; the '#' is optional.
func ParseHex(s string) (RGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return RGBA{}, fmt.Errorf("jfa: invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGBA{}, fmt.Errorf("jfa: invalid hex color %q: %w", s, err)
	}
	ch := func(shift uint) float64 { return float64(v>>shift&0xff) / 255 }
	return RGBA{R: ch(24), G: ch(16), B: ch(8), A: ch(0)}, nil
}

// NRGBA converts to 8-bit straight alpha. Conversion truncates.
func (c RGBA) NRGBA() color.NRGBA {
	r, g, b, a := c.bytes()
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

// Lerp interpolates from c towards other. t is not clamped.
func (c RGBA) Lerp(other RGBA, t float64) RGBA {
	return RGBA{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

func (c RGBA) bytes() (r, g, b, a uint8) {
	return unorm8(c.R), unorm8(c.G), unorm8(c.B), unorm8(c.A)
}

func unorm8(v float64) uint8 {
	switch {
	case !(v > 0):
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v * 255)
}

// HSL returns an opaque color for hue h in degrees (any value, wrapped),
// saturation s and lightness l in [0, 1].
func HSL(h, s, l float64) RGBA {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	chroma := (1 - math.Abs(2*l-1)) * s
	sector := h / 60
	x := chroma * (1 - math.Abs(math.Mod(sector, 2)-1))
	m := l - chroma/2

	rgb := [6][3]float64{
		{chroma, x, 0},
		{x, chroma, 0},
		{0, chroma, x},
		{0, x, chroma},
		{x, 0, chroma},
		{chroma, 0, x},
	}[min(int(sector), 5)]
	return RGB(rgb[0]+m, rgb[1]+m, rgb[2]+m)
}
