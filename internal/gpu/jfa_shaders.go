//go:build !nogpu

package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// Embedded WGSL sources of the three field passes.

//go:embed shaders/jfa_seed.wgsl
var seedShaderWGSL string

//go:embed shaders/jfa_step.wgsl
var stepShaderWGSL string

//go:embed shaders/jfa_final.wgsl
var finalShaderWGSL string

// compileSPIRV compiles WGSL to SPIR-V words.
func compileSPIRV(wgsl string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("compile shader: SPIR-V length %d is not a multiple of 4", len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words.
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return code, nil
}

// computeStage is one compiled pass: a shader module and its pipeline.
type computeStage struct {
	module   hal.ShaderModule
	pipeline hal.ComputePipeline
}

func (a *FieldAccelerator) createStage(label, wgsl string) (computeStage, error) {
	code, err := compileSPIRV(wgsl)
	if err != nil {
		return computeStage{}, fmt.Errorf("%s: %w", label, err)
	}
	module, err := a.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{SPIRV: code},
	})
	if err != nil {
		return computeStage{}, fmt.Errorf("create %s shader module: %w", label, err)
	}
	pipeline, err := a.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:   label + "_pipeline",
		Layout:  a.pipeLayout,
		Compute: hal.ComputeState{Module: module, EntryPoint: "main"},
	})
	if err != nil {
		a.device.DestroyShaderModule(module)
		return computeStage{}, fmt.Errorf("create %s compute pipeline: %w", label, err)
	}
	return computeStage{module: module, pipeline: pipeline}, nil
}

func (a *FieldAccelerator) destroyStage(s *computeStage) {
	if s.pipeline != nil {
		a.device.DestroyComputePipeline(s.pipeline)
	}
	if s.module != nil {
		a.device.DestroyShaderModule(s.module)
	}
	*s = computeStage{}
}
