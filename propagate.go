package jfa

import "github.com/gogpu/jfa/internal/parallel"

// Propagator runs jump flood passes.
type Propagator struct {
	Encoding     Encoding
	Neighborhood Neighborhood

	pool *parallel.WorkerPool
}

// NewPropagator returns a propagator using the default encoding and the
// 8-sample neighborhood.
func NewPropagator() *Propagator {
	return &Propagator{Encoding: DefaultEncoding(), Neighborhood: Neighborhood8}
}

// Step runs one pass with offset step, reading src and writing every pixel
// of dst. src and dst must be distinct buffers of the same size: each pixel
// reads its neighbors' values from before the pass.
func (pr *Propagator) Step(src, dst *SeedMap, step int) error {
	if step <= 0 {
		return configErr("step", step, "must be positive")
	}
	if src == dst {
		return ErrAliasedBuffers
	}
	if err := checkSameSize(src, dst); err != nil {
		return err
	}

	enc := pr.Encoding.orDefault()
	offsets := Offsets(step, pr.Neighborhood)
	w := src.width

	parallel.ForEachBand(pr.pool, src.height, func(y0, y1 int) {
		samples := make([]Texel, len(offsets))
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				for i, o := range offsets {
					samples[i] = src.Sample(x+o.X, y+o.Y)
				}
				i := (y*w + x) * 4
				t := JumpKernel(Point{X: x, Y: y}, Texel(src.data[i:i+4]), samples, enc)
				copy(dst.data[i:i+4], t[:])
			}
		}
	})
	return nil
}

// Run applies Step for every entry of steps, ping-ponging between the two
// slots of pp. The seeds to propagate must be in pp.Front(); on return
// pp.Front() holds the result regardless of how many passes ran.
// onPass, if non-nil, is called before each pass.
func (pr *Propagator) Run(pp *PingPong, steps Steps, onPass func(i, step int)) error {
	if err := steps.Validate(); err != nil {
		return err
	}
	for i, step := range steps {
		if onPass != nil {
			onPass(i, step)
		}
		if err := pr.Step(pp.Front(), pp.Back(), step); err != nil {
			return err
		}
		pp.Swap()
	}
	return nil
}
