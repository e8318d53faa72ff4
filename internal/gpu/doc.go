//go:build !nogpu

// Package gpu computes jump flood fields on the GPU.
//
// This is an internal package. Applications enable it with a blank import
// of github.com/gogpu/jfa/gpu, which registers a FieldAccelerator with
// jfa.RegisterAccelerator.
//
// # Pipeline
//
// A field job runs as three WGSL compute shaders over storage buffers:
//
//	mask (RGBA8) -> seed pass -> seeds[0]
//	seeds[i%2]   -> step pass -> seeds[1-i%2]   for every step i
//	seeds[n%2]   -> final pass -> output (RGBA8)
//
// All passes are recorded into one command encoder and submitted once.
// Each pass has its own uniform buffer carrying the step offset and the
// finalize parameters.
//
// Shaders are compiled from WGSL to SPIR-V with naga and run on the Vulkan
// HAL backend of gogpu/wgpu (pure Go, zero CGO).
//
// # Fallback
//
// When no GPU is available, or a job uses the dense neighborhood, the
// accelerator returns jfa.ErrFallbackToCPU and the pipeline runs the same
// kernels on the CPU.
//
// # Device sharing
//
// SetDeviceProvider accepts any value exposing HalDevice() and HalQueue(),
// so the accelerator can share the device of a host application.
package gpu
