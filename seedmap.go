package jfa

import "math"

// SeedMap is a W×H buffer of float texels holding encoded seed coordinates.
// Sampling is nearest-neighbor with clamping at the borders.
type SeedMap struct {
	width  int
	height int
	data   []float32 // 4 floats per pixel, row-major
}

// NewSeedMap creates a seed map where every pixel is NoSeed.
func NewSeedMap(width, height int) *SeedMap {
	return &SeedMap{
		width:  width,
		height: height,
		data:   make([]float32, width*height*4),
	}
}

// Width returns the width of the map.
func (m *SeedMap) Width() int { return m.width }

// Height returns the height of the map.
func (m *SeedMap) Height() int { return m.height }

// Data returns the raw texel data, 4 float32 per pixel.
func (m *SeedMap) Data() []float32 { return m.data }

// At returns the texel at (x, y). Out of bounds reads return NoSeed.
func (m *SeedMap) At(x, y int) Texel {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return Texel{}
	}
	i := (y*m.width + x) * 4
	return Texel(m.data[i : i+4])
}

// Set stores a texel at (x, y). Out of bounds writes are ignored.
func (m *SeedMap) Set(x, y int, t Texel) {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return
	}
	i := (y*m.width + x) * 4
	copy(m.data[i:i+4], t[:])
}

// Sample returns the texel nearest to (x, y), clamping coordinates to the
// grid. It never wraps around to the opposite edge.
func (m *SeedMap) Sample(x, y int) Texel {
	x = min(max(x, 0), m.width-1)
	y = min(max(y, 0), m.height-1)
	i := (y*m.width + x) * 4
	return Texel(m.data[i : i+4])
}

// Clear resets every pixel to NoSeed.
func (m *SeedMap) Clear() {
	clear(m.data)
}

// Seed decodes the seed recorded at (x, y).
func (m *SeedMap) Seed(x, y int, enc Encoding) Seed {
	return enc.Decode(m.At(x, y))
}

// Distances returns the distance from every pixel to its recorded seed,
// recomputed from the decoded coordinate. Pixels without a seed are +Inf.
func (m *SeedMap) Distances(enc Encoding) []float64 {
	out := make([]float64, m.width*m.height)
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			s := m.Seed(x, y, enc)
			if !s.Valid {
				out[y*m.width+x] = math.Inf(1)
				continue
			}
			out[y*m.width+x] = seedDistance(Point{X: x, Y: y}, s.X, s.Y)
		}
	}
	return out
}

// CountSeeds returns how many pixels hold a valid seed.
func (m *SeedMap) CountSeeds() int {
	n := 0
	for i := 3; i < len(m.data); i += 4 {
		if m.data[i] == 1 {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the map.
func (m *SeedMap) Clone() *SeedMap {
	c := NewSeedMap(m.width, m.height)
	copy(c.data, m.data)
	return c
}

// SameSize reports whether two maps share dimensions.
func (m *SeedMap) SameSize(o *SeedMap) bool {
	return m.width == o.width && m.height == o.height
}
