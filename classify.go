package jfa

import (
	"math"
	"sync/atomic"

	"github.com/gogpu/jfa/internal/parallel"
)

// DefaultThreshold is the mask intensity above which a pixel is a seed.
const DefaultThreshold = 0.3

// Classifier turns a geometry mask into an initial seed map.
//
// The zero value reads the red channel with threshold 0 and the default
// encoding; use NewClassifier for the reference settings.
type Classifier struct {
	Threshold float64
	Mode      IntensityMode
	Encoding  Encoding

	pool *parallel.WorkerPool
}

// NewClassifier returns a classifier with the reference settings:
// red channel, threshold 0.3, 1/256 encoding.
func NewClassifier() *Classifier {
	return &Classifier{
		Threshold: DefaultThreshold,
		Mode:      IntensityRed,
		Encoding:  DefaultEncoding(),
	}
}

// Classify writes Seed(p) for every mask pixel whose intensity exceeds the
// threshold and NoSeed everywhere else. It returns the number of seeds.
// Every pixel of dst is written.
func (c *Classifier) Classify(mask *Pixmap, dst *SeedMap) (int, error) {
	if math.IsNaN(c.Threshold) {
		return 0, configErr("threshold", c.Threshold, "must be a number")
	}
	if err := checkSameSize(mask, dst); err != nil {
		return 0, err
	}
	enc := c.Encoding.orDefault()

	var seeds atomic.Int64
	w := mask.width
	parallel.ForEachBand(c.pool, mask.height, func(y0, y1 int) {
		n := 0
		for y := y0; y < y1; y++ {
			row := y * w * 4
			for x := 0; x < w; x++ {
				i := row + x*4
				in := intensityOf(mask.data[i], mask.data[i+1], mask.data[i+2], c.Mode)
				t, _ := classifyTexel(Point{X: x, Y: y}, in, c.Threshold, enc)
				copy(dst.data[i:i+4], t[:])
				if t.Valid() {
					n++
				}
			}
		}
		seeds.Add(int64(n))
	})
	return int(seeds.Load()), nil
}

// orDefault substitutes the default encoding for the zero value.
func (e Encoding) orDefault() Encoding {
	if e.Scale == 0 {
		return DefaultEncoding()
	}
	return e
}
