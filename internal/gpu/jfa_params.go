//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/jfa"
)

// passParams mirrors the Params uniform shared by all three shaders.
// Layout follows WGSL uniform rules: vec4 fields start on 16-byte
// boundaries and the struct is padded to a multiple of 16.
type passParams struct {
	Width        uint32
	Height       uint32
	Step         uint32
	Scale        float32
	Threshold    float32
	Intensity    uint32
	Neighborhood uint32
	Radius       float32
	SeedColor    [4]float32
	NearColor    [4]float32
	FarColor     [4]float32
	Background   [4]float32
	Unbounded    uint32
	Falloff      uint32
	_            [2]uint32
}

// paramsSize is the uniform buffer size in bytes.
const paramsSize = 112

// newPassParams builds the uniform for one pass of job. step is ignored by
// the seed and final passes.
func newPassParams(job *jfa.FieldJob, step int) passParams {
	fp := &job.Finalize
	p := passParams{
		Width:        uint32(job.Mask.Width()),  //nolint:gosec // dimensions always fit uint32
		Height:       uint32(job.Mask.Height()), //nolint:gosec // dimensions always fit uint32
		Step:         uint32(step),              //nolint:gosec // steps are validated positive
		Scale:        float32(job.Encoding.Scale),
		Threshold:    float32(job.Threshold),
		Intensity:    uint32(job.Intensity),    //nolint:gosec // small enum
		Neighborhood: uint32(job.Neighborhood), //nolint:gosec // small enum
		Radius:       float32(fp.Radius),
		SeedColor:    vec4(fp.SeedColor),
		NearColor:    vec4(fp.NearColor),
		FarColor:     vec4(fp.FarColor),
		Background:   vec4(fp.Background),
		Falloff:      uint32(fp.Falloff), //nolint:gosec // small enum
	}
	if fp.Unbounded {
		p.Unbounded = 1
	}
	return p
}

// bytes serializes the params in little-endian uniform layout.
func (p *passParams) bytes() []byte {
	out, err := binary.Append(make([]byte, 0, paramsSize), binary.LittleEndian, p)
	if err != nil {
		// Fixed-size struct; Append cannot fail.
		panic(err)
	}
	return out
}

func vec4(c jfa.RGBA) [4]float32 {
	return [4]float32{float32(c.R), float32(c.G), float32(c.B), float32(c.A)}
}

// decodeTexels converts a readback of vec4<f32> texels into dst.
func decodeTexels(raw []byte, dst []float32) {
	n := min(len(raw)/4, len(dst))
	for i := 0; i < n; i++ {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
}

// workgroups returns the dispatch size for an 8×8 workgroup.
func workgroups(w, h uint32) (x, y uint32) {
	return (w + 7) / 8, (h + 7) / 8
}
