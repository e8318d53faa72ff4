package jfa

import (
	"fmt"
	"testing"
)

func BenchmarkPipeline_Compute(b *testing.B) {
	for _, size := range []int{128, 512} {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			p, err := NewPipeline(DefaultConfig(size, size), WithoutAccelerator(), WithEncodingScale(512))
			if err != nil {
				b.Fatal(err)
			}
			defer p.Close()
			mask := pointMask(size, size, Point{size / 5, size / 3}, Point{size - 7, size / 2}, Point{size / 2, size - 1})

			b.ReportAllocs()
			b.ResetTimer()
			for b.Loop() {
				if _, err := p.Compute(mask, FrameParams{}); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkPropagate_Neighborhood(b *testing.B) {
	for _, n := range []Neighborhood{Neighborhood8, NeighborhoodCross, NeighborhoodDense} {
		b.Run(n.String(), func(b *testing.B) {
			pr := NewPropagator()
			pr.Neighborhood = n
			src, dst := NewSeedMap(128, 128), NewSeedMap(128, 128)
			tx, _ := DefaultEncoding().Encode(64, 64, 0)
			src.Set(64, 64, tx)

			b.ResetTimer()
			for b.Loop() {
				if err := pr.Step(src, dst, 4); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkFinalizeKernel(b *testing.B) {
	enc := DefaultEncoding()
	tx, _ := enc.Encode(10, 10, 0)
	fp := DefaultFinalizeParams()
	b.ReportAllocs()
	for b.Loop() {
		_ = FinalizeKernel(Point{X: 14, Y: 13}, tx, enc, &fp)
	}
}
