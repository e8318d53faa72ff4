package jfa

import "math"

// Neighborhood selects which offsets a propagation pass samples.
type Neighborhood int

const (
	// Neighborhood8 samples the 8 offsets (±r, 0), (0, ±r), (±r, ±r).
	Neighborhood8 Neighborhood = iota

	// NeighborhoodCross samples only the 4 axis-aligned offsets. Cheaper,
	// but converges more slowly along diagonals.
	NeighborhoodCross

	// NeighborhoodDense samples every offset in [-r, r]². Cost grows with
	// r², so it is only meant for comparing against the sparse variants.
	NeighborhoodDense
)

// String returns the neighborhood name.
func (n Neighborhood) String() string {
	switch n {
	case Neighborhood8:
		return "8"
	case NeighborhoodCross:
		return "cross"
	case NeighborhoodDense:
		return "dense"
	default:
		return "unknown"
	}
}

// Offsets returns the sample offsets for step r in evaluation order.
//
// Order is fixed: dx from -r to +r in the outer loop, dy from -r to +r in
// the inner loop, skipping the origin. Because candidates replace the best
// only when strictly closer, an exact-distance tie goes to the pixel's own
// value first and then to the earliest offset in this order.
func Offsets(r int, n Neighborhood) []Point {
	switch n {
	case NeighborhoodCross:
		return []Point{{-r, 0}, {0, -r}, {0, r}, {r, 0}}
	case NeighborhoodDense:
		out := make([]Point, 0, (2*r+1)*(2*r+1)-1)
		for dx := -r; dx <= r; dx++ {
			for dy := -r; dy <= r; dy++ {
				if dx != 0 || dy != 0 {
					out = append(out, Point{dx, dy})
				}
			}
		}
		return out
	default:
		out := make([]Point, 0, 8)
		for dx := -r; dx <= r; dx += r {
			for dy := -r; dy <= r; dy += r {
				if dx != 0 || dy != 0 {
					out = append(out, Point{dx, dy})
				}
			}
		}
		return out
	}
}

// JumpKernel computes one propagation step for pixel p.
//
// own is the pixel's current texel and samples the texels read at p+offset
// in Offsets order. The result holds the closest valid seed among them, with
// its distance in the B channel, or NoSeed when none is valid.
//
// JumpKernel is pure; any backend that gathers the same samples produces
// the same output.
func JumpKernel(p Point, own Texel, samples []Texel, enc Encoding) Texel {
	best := NoSeed
	bestDist := math.Inf(1)
	if s := enc.Decode(own); s.Valid {
		best = s
		bestDist = seedDistance(p, s.X, s.Y)
	}

	for _, t := range samples {
		s := enc.Decode(t)
		if !s.Valid {
			continue
		}
		if d := seedDistance(p, s.X, s.Y); d < bestDist {
			best = s
			bestDist = d
		}
	}

	if !best.Valid {
		return Texel{}
	}
	out, _ := enc.Encode(best.X, best.Y, float32(bestDist))
	return out
}

// classifyTexel is the per-pixel seed classification: a pixel whose
// intensity exceeds threshold becomes a seed at its own coordinate.
func classifyTexel(p Point, intensity, threshold float64, enc Encoding) (t Texel, ok bool) {
	if intensity > threshold {
		return enc.Encode(p.X, p.Y, 0)
	}
	return Texel{}, true
}
