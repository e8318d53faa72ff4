package jfa

import (
	"fmt"
	"math"
	"math/bits"
)

// DefaultEncodingScale is the fixed-point scale of the reference encoding:
// coordinates are stored as coordinate/256, an 8-bit budget per axis.
const DefaultEncodingScale = 256

// maxEncodingScale keeps coordinate/scale exactly representable in float32.
const maxEncodingScale = 1 << 24

// Point is an integer pixel coordinate.
type Point struct {
	X, Y int
}

// Texel is one pixel of a SeedMap: R and G hold the encoded seed
// coordinate, B the distance to it, A the validity flag (1 or 0).
type Texel [4]float32

// Valid reports whether the texel holds a seed.
func (t Texel) Valid() bool { return t[3] == 1 }

// Distance returns the distance stored in the texel.
func (t Texel) Distance() float32 { return t[2] }

// Seed is a decoded seed record.
type Seed struct {
	X, Y  int
	Valid bool
}

// NoSeed is the decoded form of a pixel that has no known seed.
var NoSeed = Seed{}

// Point returns the seed coordinate.
func (s Seed) Point() Point { return Point{X: s.X, Y: s.Y} }

func (s Seed) String() string {
	if !s.Valid {
		return "NoSeed"
	}
	return fmt.Sprintf("Seed(%d,%d)", s.X, s.Y)
}

// Encoding packs integer coordinates into normalized float channels.
// The zero value is not usable; start from DefaultEncoding.
type Encoding struct {
	// Scale is the number of representable positions per axis.
	// It must be a power of two.
	Scale int
}

// DefaultEncoding returns the reference 1/256 encoding.
func DefaultEncoding() Encoding {
	return Encoding{Scale: DefaultEncodingScale}
}

// Validate checks that the scale is a power of two in [2, 1<<24].
func (e Encoding) Validate() error {
	if e.Scale < 2 || e.Scale > maxEncodingScale || bits.OnesCount(uint(e.Scale)) != 1 {
		return configErr("encoding scale", e.Scale, "must be a power of two in [2, 16777216]")
	}
	return nil
}

// Fits reports whether every coordinate of a w×h grid round-trips exactly.
func (e Encoding) Fits(w, h int) bool {
	return w <= e.Scale && h <= e.Scale
}

// Encode packs (x, y) and a distance into a valid texel. Coordinates outside
// [0, Scale) saturate; ok is false when that happened.
func (e Encoding) Encode(x, y int, dist float32) (t Texel, ok bool) {
	ok = true
	if x < 0 || x >= e.Scale {
		x = min(max(x, 0), e.Scale-1)
		ok = false
	}
	if y < 0 || y >= e.Scale {
		y = min(max(y, 0), e.Scale-1)
		ok = false
	}
	s := float32(e.Scale)
	return Texel{float32(x) / s, float32(y) / s, dist, 1}, ok
}

// Decode unpacks a texel. Texels whose validity channel is not exactly 1
// decode to NoSeed.
func (e Encoding) Decode(t Texel) Seed {
	if !t.Valid() {
		return NoSeed
	}
	s := float64(e.Scale)
	return Seed{
		X:     int(math.Round(float64(t[0]) * s)),
		Y:     int(math.Round(float64(t[1]) * s)),
		Valid: true,
	}
}

// seedDistance is the Euclidean distance between pixel p and a seed,
// measured center to center.
func seedDistance(p Point, x, y int) float64 {
	dx := float64(p.X - x)
	dy := float64(p.Y - y)
	return math.Sqrt(dx*dx + dy*dy)
}
