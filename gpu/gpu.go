//go:build !nogpu

// Package gpu registers the GPU field accelerator.
//
// Import this package to run field jobs on the GPU. Seed classification,
// every propagation pass and the finalize pass are executed by wgpu/hal
// compute shaders in a single submission.
//
// If GPU initialization fails (no Vulkan available), the accelerator stays
// registered but declines every job, and fields are computed on the CPU.
//
// Usage:
//
//	import _ "github.com/gogpu/jfa/gpu" // enable GPU acceleration
package gpu

import (
	"github.com/gogpu/jfa"
	gpuimpl "github.com/gogpu/jfa/internal/gpu"
)

func init() {
	accel := &gpuimpl.FieldAccelerator{}
	if err := jfa.RegisterAccelerator(accel); err != nil {
		jfa.Logger().Warn("GPU accelerator not available", "err", err)
	}
}

// SetDeviceProvider configures the GPU accelerator to use a shared GPU device
// from an external provider (e.g., a gogpu window). This avoids creating a
// separate GPU instance.
//
// The provider should be a gpucontext.DeviceProvider that also exposes
// HalDevice() and HalQueue() for direct HAL access.
func SetDeviceProvider(provider any) error {
	return jfa.SetAcceleratorDeviceProvider(provider)
}
