package jfa

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

// singleSeedField floods an 8x8 map from one seed at (3,3).
func singleSeedField(t *testing.T) *SeedMap {
	t.Helper()
	return floodSeeds(t, 8, 8, []Point{{3, 3}}, Steps{4, 2, 1}, Neighborhood8)
}

func finalizeOnce(t *testing.T, src *SeedMap, fp FinalizeParams) *Pixmap {
	t.Helper()
	dst := NewPixmap(src.Width(), src.Height())
	if err := NewFinalizer().Finalize(src, dst, fp); err != nil {
		t.Fatalf("Finalize() = %v", err)
	}
	return dst
}

func TestFinalizeLinear(t *testing.T) {
	fp := DefaultFinalizeParams()
	fp.Radius = 4
	fp.Falloff = FalloffLinear
	out := finalizeOnce(t, singleSeedField(t), fp)

	tests := []struct {
		name string
		x, y int
		want [4]uint8
	}{
		{"seed", 3, 3, [4]uint8{255, 255, 255, 255}},
		{"distance 1", 4, 3, [4]uint8{0, 191, 0, 255}},
		{"distance 2", 5, 3, [4]uint8{0, 127, 0, 255}},
		{"at radius", 7, 3, [4]uint8{0, 0, 0, 0}},
		{"beyond radius", 7, 7, [4]uint8{0, 0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i := (tt.y*8 + tt.x) * 4
			if got := [4]uint8(out.Data()[i : i+4]); got != tt.want {
				t.Errorf("pixel (%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestFinalizeLinearMatchesReferenceRamp(t *testing.T) {
	// The linear falloff from green to black is the (r-len)/r ramp.
	const r = 6.0
	fp := DefaultFinalizeParams()
	fp.Radius = r
	fp.Falloff = FalloffLinear
	enc := DefaultEncoding()
	tx, _ := enc.Encode(0, 0, 0)

	for x := 1; x < 6; x++ {
		got := FinalizeKernel(Point{X: x, Y: 0}, tx, enc, &fp)
		want := (r - float64(x)) / r
		if math.Abs(got.G-want) > 1e-12 || got.R != 0 || got.B != 0 || got.A != 1 {
			t.Errorf("x=%d: got %v, want green %v", x, got, want)
		}
	}
}

func TestFinalizeSmoothstep(t *testing.T) {
	fp := DefaultFinalizeParams()
	fp.Radius = 4
	out := finalizeOnce(t, singleSeedField(t), fp)

	// u = 0.25 eases to 0.15625, so green is 0.84375.
	if got := out.Data()[(3*8+4)*4+1]; got != 215 {
		t.Errorf("green at distance 1 = %d, want 215", got)
	}
	// smoothstep(0.5) = 0.5
	if got := out.Data()[(3*8+5)*4+1]; got != 127 {
		t.Errorf("green at distance 2 = %d, want 127", got)
	}
}

func TestFinalizeUnbounded(t *testing.T) {
	fp := DefaultFinalizeParams()
	fp.Radius = 4
	fp.Unbounded = true
	out := finalizeOnce(t, singleSeedField(t), fp)

	if got := out.GetPixel(7, 7); got != Black {
		t.Errorf("far pixel = %v, want FarColor black", got)
	}
}

func TestFinalizeNoSeedIsBackground(t *testing.T) {
	fp := DefaultFinalizeParams()
	fp.Background = Blue
	out := finalizeOnce(t, NewSeedMap(4, 4), fp)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if got := out.GetPixel(x, y); got != Blue {
				t.Fatalf("pixel (%d, %d) = %v, want background", x, y, got)
			}
		}
	}
}

func TestFinalizeIdempotent(t *testing.T) {
	src := singleSeedField(t)
	fp := DefaultFinalizeParams()
	a := finalizeOnce(t, src, fp)
	b := finalizeOnce(t, src, fp)
	if !bytes.Equal(a.Data(), b.Data()) {
		t.Error("Finalize is not deterministic")
	}
}

func TestFinalizeVoronoi(t *testing.T) {
	m := floodSeeds(t, 8, 8, []Point{{0, 0}, {7, 7}}, Steps{4, 2, 1}, Neighborhood8)
	fp := DefaultFinalizeParams()
	fp.Mode = FieldVoronoi
	fp.Radius = 0
	out := finalizeOnce(t, m, fp)

	if got := out.GetPixel(0, 0); got != White {
		t.Errorf("seed pixel = %v, want SeedColor", got)
	}
	a := out.GetPixel(1, 0)
	if got := out.GetPixel(2, 1); got != a {
		t.Errorf("same cell colors differ: %v vs %v", got, a)
	}
	if got := out.GetPixel(6, 7); got == a {
		t.Error("different cells share a color")
	}
	if a.A != 1 {
		t.Errorf("voronoi color alpha = %v, want opaque", a.A)
	}
}

func TestFinalizeParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		radius float64
		mode   FieldMode
		ok     bool
	}{
		{"positive", 16, FieldDistance, true},
		{"zero", 0, FieldDistance, false},
		{"negative", -1, FieldDistance, false},
		{"nan", math.NaN(), FieldDistance, false},
		{"inf", math.Inf(1), FieldDistance, false},
		{"voronoi ignores radius", 0, FieldVoronoi, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp := DefaultFinalizeParams()
			fp.Radius = tt.radius
			fp.Mode = tt.mode
			err := fp.Validate()
			if (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, want ok=%v", err, tt.ok)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error should wrap ErrInvalidConfig: %v", err)
			}
		})
	}
}

func TestFinalizeSizeMismatch(t *testing.T) {
	err := NewFinalizer().Finalize(NewSeedMap(2, 2), NewPixmap(2, 3), DefaultFinalizeParams())
	if !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("got %v, want ErrSizeMismatch", err)
	}
}
