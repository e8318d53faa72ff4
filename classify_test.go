package jfa

import (
	"errors"
	"testing"
)

func TestClassify(t *testing.T) {
	mask := NewPixmap(4, 4)
	mask.Clear(Black)
	mask.SetPixel(1, 1, Red)
	mask.SetPixel(2, 3, White)
	// Bright but not red: no seed in the default red mode.
	mask.SetPixel(3, 0, Green)
	// 76/255 < 0.3 < 77/255.
	mask.data[(0*4+0)*4] = 76
	mask.data[(2*4+0)*4] = 77

	c := NewClassifier()
	dst := NewSeedMap(4, 4)
	n, err := c.Classify(mask, dst)
	if err != nil {
		t.Fatalf("Classify() = %v", err)
	}
	if n != 3 {
		t.Errorf("seed count = %d, want 3", n)
	}

	enc := DefaultEncoding()
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			want := NoSeed
			if (x == 1 && y == 1) || (x == 2 && y == 3) || (x == 0 && y == 2) {
				want = Seed{X: x, Y: y, Valid: true}
			}
			if got := dst.Seed(x, y, enc); got != want {
				t.Errorf("Seed(%d, %d) = %v, want %v", x, y, got, want)
			}
			if got := dst.At(x, y).Distance(); got != 0 {
				t.Errorf("distance at (%d, %d) = %v, want 0", x, y, got)
			}
		}
	}
}

func TestClassifyOverwritesEveryPixel(t *testing.T) {
	dst := NewSeedMap(3, 3)
	stale, _ := DefaultEncoding().Encode(2, 2, 7)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			dst.Set(x, y, stale)
		}
	}

	mask := NewPixmap(3, 3)
	mask.Clear(Black)
	n, err := NewClassifier().Classify(mask, dst)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 || dst.CountSeeds() != 0 {
		t.Errorf("empty mask: count = %d, seeds left = %d, want 0", n, dst.CountSeeds())
	}
}

func TestClassifyIntensityModes(t *testing.T) {
	mask := NewPixmap(1, 1)
	mask.SetPixel(0, 0, Green)

	tests := []struct {
		mode IntensityMode
		want int
	}{
		{IntensityRed, 0},
		{IntensityMax, 1},
		{IntensityLuma, 1},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			c := NewClassifier()
			c.Mode = tt.mode
			n, err := c.Classify(mask, NewSeedMap(1, 1))
			if err != nil {
				t.Fatal(err)
			}
			if n != tt.want {
				t.Errorf("seeds = %d, want %d", n, tt.want)
			}
		})
	}
}

func TestClassifyErrors(t *testing.T) {
	if _, err := NewClassifier().Classify(NewPixmap(2, 2), NewSeedMap(3, 2)); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("size mismatch: got %v", err)
	}
}
