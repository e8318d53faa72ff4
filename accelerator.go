package jfa

import (
	"errors"
	"sync"
)

// AcceleratedOp describes pass types for accelerator capability checks.
type AcceleratedOp uint32

const (
	// AccelClassify represents the seed classification pass.
	AccelClassify AcceleratedOp = 1 << iota

	// AccelPropagate represents the jump flood passes.
	AccelPropagate

	// AccelFinalize represents the finalize pass.
	AccelFinalize

	// AccelField represents a complete field computation in one submission.
	AccelField = AccelClassify | AccelPropagate | AccelFinalize
)

// FieldJob is a complete field computation handed to an accelerator.
// Inputs are read-only; Seeds and Output are written by the accelerator and
// must have the mask's dimensions.
type FieldJob struct {
	Mask         *Pixmap
	Steps        Steps
	Threshold    float64
	Intensity    IntensityMode
	Encoding     Encoding
	Neighborhood Neighborhood
	Finalize     FinalizeParams

	// Seeds receives the final seed-coordinate buffer.
	Seeds *SeedMap

	// Output receives the finalized field.
	Output *Pixmap
}

// GPUAccelerator is an optional acceleration provider for field jobs.
//
// When registered via RegisterAccelerator, pipelines try it first. If it
// returns ErrFallbackToCPU or any other error, the CPU path runs instead.
//
// Implementations are provided by backend packages and enabled by blank
// import:
//
//	import _ "github.com/gogpu/jfa/gpu"
type GPUAccelerator interface {
	// Name returns the accelerator name (e.g., "jfa-wgpu").
	Name() string

	// Init initializes resources. Called once during registration.
	Init() error

	// Close releases resources.
	Close()

	// CanAccelerate reports whether the accelerator supports the given passes.
	CanAccelerate(op AcceleratedOp) bool

	// ComputeField runs classification, every propagation pass and finalize.
	// On error the contents of job.Seeds and job.Output are unspecified.
	ComputeField(job *FieldJob) error
}

// DeviceProviderAware is implemented by accelerators that can share a GPU
// device with the host application instead of creating their own.
type DeviceProviderAware interface {
	SetDeviceProvider(provider any) error
}

var (
	accelMu sync.RWMutex
	accel   GPUAccelerator
)

// RegisterAccelerator registers the accelerator used by pipelines.
//
// Only one accelerator can be registered; a new one replaces and closes the
// previous one. Init is called first and, if it fails, nothing changes.
func RegisterAccelerator(a GPUAccelerator) error {
	if a == nil {
		return errors.New("jfa: accelerator must not be nil")
	}
	if err := a.Init(); err != nil {
		return err
	}
	propagateLogger(a, Logger())

	accelMu.Lock()
	old := accel
	accel = a
	accelMu.Unlock()
	if old != nil && old != a {
		old.Close()
	}
	Logger().Info("jfa: accelerator registered", "name", a.Name())
	return nil
}

// UnregisterAccelerator closes and removes the registered accelerator.
func UnregisterAccelerator() {
	accelMu.Lock()
	old := accel
	accel = nil
	accelMu.Unlock()
	if old != nil {
		old.Close()
	}
}

// Accelerator returns the currently registered accelerator, or nil if none.
func Accelerator() GPUAccelerator {
	accelMu.RLock()
	a := accel
	accelMu.RUnlock()
	return a
}

// SetAcceleratorDeviceProvider passes a device provider to the registered
// accelerator. It is a no-op when no accelerator is registered or when the
// accelerator does not support device sharing.
func SetAcceleratorDeviceProvider(provider any) error {
	a := Accelerator()
	if a == nil {
		return nil
	}
	if dpa, ok := a.(DeviceProviderAware); ok {
		return dpa.SetDeviceProvider(provider)
	}
	return nil
}
