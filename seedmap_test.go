package jfa

import (
	"math"
	"testing"
)

func TestSeedMapSampleClamps(t *testing.T) {
	enc := DefaultEncoding()
	m := NewSeedMap(4, 4)
	corner, _ := enc.Encode(0, 0, 0)
	m.Set(0, 0, corner)
	edge, _ := enc.Encode(3, 2, 0)
	m.Set(3, 2, edge)

	tests := []struct {
		x, y int
		want Texel
	}{
		{-5, -5, corner},
		{-1, 0, corner},
		{0, -100, corner},
		{10, 2, edge},
		{4, 2, edge},
		// Clamping never wraps to the opposite edge.
		{-1, 2, Texel{}},
	}
	for _, tt := range tests {
		if got := m.Sample(tt.x, tt.y); got != tt.want {
			t.Errorf("Sample(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestSeedMapAtOutOfBounds(t *testing.T) {
	m := NewSeedMap(2, 2)
	tx, _ := DefaultEncoding().Encode(0, 0, 0)
	m.Set(0, 0, tx)
	m.Set(5, 5, tx)

	if got := m.At(-1, 0); got.Valid() {
		t.Error("At out of bounds should be NoSeed")
	}
	if got := m.CountSeeds(); got != 1 {
		t.Errorf("CountSeeds() = %d, want 1", got)
	}
}

func TestSeedMapDistances(t *testing.T) {
	enc := DefaultEncoding()
	m := NewSeedMap(3, 1)
	tx, _ := enc.Encode(0, 0, 0)
	m.Set(0, 0, tx)
	m.Set(2, 0, tx)

	d := m.Distances(enc)
	if d[0] != 0 || d[2] != 2 {
		t.Errorf("Distances = %v, want [0 +Inf 2]", d)
	}
	if !math.IsInf(d[1], 1) {
		t.Errorf("pixel without seed: distance = %v, want +Inf", d[1])
	}
}

func TestSeedMapCloneAndClear(t *testing.T) {
	m := NewSeedMap(2, 2)
	tx, _ := DefaultEncoding().Encode(1, 1, 0)
	m.Set(1, 1, tx)

	c := m.Clone()
	m.Clear()
	if m.CountSeeds() != 0 {
		t.Error("Clear() should leave no seeds")
	}
	if c.CountSeeds() != 1 {
		t.Error("Clone() should be independent of the original")
	}
	if !c.SameSize(m) || c.SameSize(NewSeedMap(2, 3)) {
		t.Error("SameSize() mismatch")
	}
}
