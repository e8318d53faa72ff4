//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/gogpu/jfa"
)

func TestPassParamsLayout(t *testing.T) {
	if got := binary.Size(passParams{}); got != paramsSize {
		t.Fatalf("binary.Size(passParams) = %d, want %d", got, paramsSize)
	}
	if paramsSize%16 != 0 {
		t.Errorf("uniform size %d is not a multiple of 16", paramsSize)
	}

	job := &jfa.FieldJob{
		Mask:         jfa.NewPixmap(128, 64),
		Threshold:    0.3,
		Intensity:    jfa.IntensityLuma,
		Encoding:     jfa.DefaultEncoding(),
		Neighborhood: jfa.NeighborhoodCross,
		Finalize:     jfa.DefaultFinalizeParams(),
	}
	job.Finalize.Unbounded = true
	job.Finalize.Falloff = jfa.FalloffLinear
	p := newPassParams(job, 16)
	b := p.bytes()
	if len(b) != paramsSize {
		t.Fatalf("len(bytes) = %d, want %d", len(b), paramsSize)
	}

	u32 := func(off int) uint32 { return binary.LittleEndian.Uint32(b[off:]) }
	f32 := func(off int) float32 { return math.Float32frombits(u32(off)) }

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"width", u32(0), uint32(128)},
		{"height", u32(4), uint32(64)},
		{"step", u32(8), uint32(16)},
		{"scale", f32(12), float32(256)},
		{"threshold", f32(16), float32(0.3)},
		{"intensity", u32(20), uint32(jfa.IntensityLuma)},
		{"neighborhood", u32(24), uint32(1)},
		{"radius", f32(28), float32(jfa.DefaultRadius)},
		{"seed color r", f32(32), float32(1)},
		{"near color g", f32(48 + 4), float32(1)},
		{"far color a", f32(64 + 12), float32(1)},
		{"background a", f32(80 + 12), float32(0)},
		{"unbounded", u32(96), uint32(1)},
		{"falloff", u32(100), uint32(1)},
		{"padding", u32(104) | u32(108), uint32(0)},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestDecodeTexels(t *testing.T) {
	want := []float32{0.5, 0.25, 3, 1, 0, 0, 0, 0}
	raw := make([]byte, 0, len(want)*4)
	for _, f := range want {
		raw = binary.LittleEndian.AppendUint32(raw, math.Float32bits(f))
	}
	got := make([]float32, len(want))
	decodeTexels(raw, got)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("texel float %d = %v, want %v", i, got[i], want[i])
		}
	}

	// A short destination is filled without overrunning.
	short := make([]float32, 2)
	decodeTexels(raw, short)
	if short[0] != 0.5 || short[1] != 0.25 {
		t.Errorf("short decode = %v", short)
	}
}

func TestWorkgroups(t *testing.T) {
	tests := []struct {
		w, h   uint32
		gx, gy uint32
	}{
		{1, 1, 1, 1},
		{8, 8, 1, 1},
		{9, 16, 2, 2},
		{128, 100, 16, 13},
	}
	for _, tt := range tests {
		if gx, gy := workgroups(tt.w, tt.h); gx != tt.gx || gy != tt.gy {
			t.Errorf("workgroups(%d, %d) = (%d, %d), want (%d, %d)", tt.w, tt.h, gx, gy, tt.gx, tt.gy)
		}
	}
}
