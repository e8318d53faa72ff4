// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package jfacanvas presents jump flood fields in gogpu GPU-accelerated
// windows.
//
// Canvas implements jfa.Presenter. Each presented field is magnified with
// nearest-neighbor sampling into a staging image, then uploaded to a GPU
// texture on the next Flush or RenderTo:
//
//	jfa.Pixmap (field) -> staging RGBA (CPU, scaled) -> GPU Texture -> Window
//
// # Usage
//
//	canvas, err := jfacanvas.New(app.GPUContextProvider(), 128, 128, 4)
//	defer canvas.Close()
//
//	driver, err := jfa.NewDriver(pipeline, geometry.DemoScene(), canvas)
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    _ = driver.Tick(ctx)
//	    _ = canvas.RenderTo(dc.AsTextureDrawer())
//	})
//
// New shares the provider's device with the registered field accelerator,
// so GPU fields and presentation use one device.
//
// # Thread Safety
//
// Canvas is NOT safe for concurrent use.
//
// # Integration Without Circular Imports
//
// This package depends on gpucontext interfaces only and never imports
// gogpu directly.
package jfacanvas
