package jfa

import (
	"math"

	"github.com/gogpu/jfa/internal/parallel"
)

// Falloff shapes the gradient between NearColor and FarColor.
type Falloff int

const (
	// FalloffSmoothstep eases in and out with 3t²-2t³.
	FalloffSmoothstep Falloff = iota

	// FalloffLinear interpolates linearly. With the default colors this
	// reproduces the (r-len)/r green ramp.
	FalloffLinear
)

// String returns the falloff name.
func (f Falloff) String() string {
	switch f {
	case FalloffSmoothstep:
		return "smoothstep"
	case FalloffLinear:
		return "linear"
	default:
		return "unknown"
	}
}

// FieldMode selects what the finalize pass visualizes.
type FieldMode int

const (
	// FieldDistance colors pixels by distance to their nearest seed.
	FieldDistance FieldMode = iota

	// FieldVoronoi colors every pixel by the identity of its nearest seed.
	// Radius and Unbounded are ignored.
	FieldVoronoi
)

// String returns the mode name.
func (m FieldMode) String() string {
	switch m {
	case FieldDistance:
		return "distance"
	case FieldVoronoi:
		return "voronoi"
	default:
		return "unknown"
	}
}

// FinalizeParams configures the finalize pass.
type FinalizeParams struct {
	// Radius is the distance at which the gradient ends.
	Radius float64

	// SeedColor marks pixels at distance 0.
	SeedColor RGBA

	// NearColor and FarColor are the gradient endpoints at distance 0 and
	// Radius.
	NearColor RGBA
	FarColor  RGBA

	// Background fills pixels beyond Radius and pixels with no seed.
	Background RGBA

	// Unbounded keeps coloring past Radius instead of emitting Background.
	// The gradient parameter is clamped, so far pixels get FarColor.
	Unbounded bool

	Falloff Falloff
	Mode    FieldMode
}

// DefaultRadius is the finalize radius used when none is configured.
const DefaultRadius = 16

// DefaultFinalizeParams returns the reference visualization: white seeds,
// a green glow fading to black within the radius, transparent elsewhere.
func DefaultFinalizeParams() FinalizeParams {
	return FinalizeParams{
		Radius:     DefaultRadius,
		SeedColor:  White,
		NearColor:  Green,
		FarColor:   Black,
		Background: Transparent,
		Falloff:    FalloffSmoothstep,
		Mode:       FieldDistance,
	}
}

// Validate checks the radius.
func (fp *FinalizeParams) Validate() error {
	if fp.Mode == FieldVoronoi {
		return nil
	}
	if !(fp.Radius > 0) || math.IsInf(fp.Radius, 0) {
		return configErr("radius", fp.Radius, "must be positive and finite")
	}
	return nil
}

// Finalizer renders a seed map into a color field.
type Finalizer struct {
	Encoding Encoding

	pool *parallel.WorkerPool
}

// NewFinalizer returns a finalizer using the default encoding.
func NewFinalizer() *Finalizer {
	return &Finalizer{Encoding: DefaultEncoding()}
}

// Finalize writes every pixel of dst from src. It is a pure function of src
// and params: repeated calls produce identical output.
func (f *Finalizer) Finalize(src *SeedMap, dst *Pixmap, params FinalizeParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if err := checkSameSize(src, dst); err != nil {
		return err
	}
	enc := f.Encoding.orDefault()
	w := src.width

	parallel.ForEachBand(f.pool, src.height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				i := (y*w + x) * 4
				c := FinalizeKernel(Point{X: x, Y: y}, Texel(src.data[i:i+4]), enc, &params)
				dst.data[i+0], dst.data[i+1], dst.data[i+2], dst.data[i+3] = c.bytes()
			}
		}
	})
	return nil
}

// FinalizeKernel computes the output color of pixel p from its texel.
// The distance is recomputed from the decoded seed coordinate.
func FinalizeKernel(p Point, t Texel, enc Encoding, params *FinalizeParams) RGBA {
	s := enc.Decode(t)
	if !s.Valid {
		return params.Background
	}
	d := seedDistance(p, s.X, s.Y)
	if d == 0 {
		return params.SeedColor
	}

	if params.Mode == FieldVoronoi {
		return voronoiColor(s)
	}

	if d >= params.Radius && !params.Unbounded {
		return params.Background
	}

	u := min(d/params.Radius, 1)
	if params.Falloff == FalloffSmoothstep {
		u = smoothstep(u)
	}
	return params.NearColor.Lerp(params.FarColor, u)
}

// smoothstep is 3t²-2t³ for t in [0, 1].
func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}

// voronoiColor derives a stable, well spread hue from a seed coordinate.
func voronoiColor(s Seed) RGBA {
	h := uint32(s.X)*0x9E3779B1 ^ uint32(s.Y)*0x85EBCA77
	h ^= h >> 15
	h *= 0x2C1B3C6D
	h ^= h >> 12
	return HSL(float64(h%360), 0.65, 0.55)
}
