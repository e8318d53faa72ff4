// Package jfa computes approximate nearest-seed maps and distance fields for
// 2D rasters using the Jump Flooding Algorithm.
//
// # Overview
//
// Every pixel of a W×H grid is assigned the coordinates of its (approximately)
// nearest seed pixel in a fixed number of image-space passes:
//
//  1. Seed classification: pixels of a geometry mask brighter than a threshold
//     become seeds and record their own coordinates.
//  2. Propagation: one pass per step size (e.g. 32, 16, ..., 1). Each pixel
//     looks at itself and 8 neighbors at ±step and keeps the closest seed.
//  3. Finalize: the distance to the recorded seed is turned into a color.
//
// The result is a discrete Voronoi partition plus a distance field. It is
// approximate near cell boundaries by construction.
//
// # Quick Start
//
//	import "github.com/gogpu/jfa"
//
//	mask := jfa.NewPixmap(128, 128)
//	mask.SetPixel(40, 60, jfa.White)
//
//	p, err := jfa.NewPipeline(jfa.DefaultConfig(128, 128))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
//
//	res, err := p.Compute(mask, jfa.FrameParams{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = res.Output.SavePNG("field.png", 1)
//
// # Encoding
//
// Seed coordinates are stored in float channels as coordinate/scale, with the
// alpha channel as a validity flag. The default scale of 256 gives an 8-bit
// per axis budget: grids up to 256×256 round-trip exactly. Larger grids need
// [WithEncodingScale]; otherwise coordinates saturate and the pipeline reports
// [ErrEncodingOverflow] as a warning.
//
// # Backends
//
// The CPU path in this package is the reference implementation. The per-pixel
// kernels ([JumpKernel] and friends) are pure functions executed by a worker
// pool over row bands. GPU acceleration is opt-in:
//
//	import _ "github.com/gogpu/jfa/gpu" // enables wgpu compute passes
//
// If the accelerator is unavailable or declines a job, the pipeline falls
// back to the CPU path transparently.
//
// # Coordinate System
//
// Origin (0,0) at top-left, X right, Y down. Distances are measured between
// pixel centers; since both ends carry the same +0.5 offset, distance is the
// Euclidean length between integer coordinates.
package jfa
