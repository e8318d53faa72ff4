//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/jfa"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// fenceTimeout bounds the wait for one field job.
const fenceTimeout = 5 * time.Second

// FieldAccelerator computes jump flood fields with wgpu/hal compute shaders.
// It implements the jfa.GPUAccelerator interface.
//
// A field job is encoded as one command buffer: the seed pass, one compute
// pass per propagation step ping-ponging between two storage buffers, and
// the finalize pass. Passes in one encoder are separated by implicit
// storage barriers, so each step sees the complete previous pass. One
// submit and one fence wait cover the whole job.
type FieldAccelerator struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	seed       computeStage
	step       computeStage
	final      computeStage

	gpuReady       bool
	externalDevice bool // true when using a shared device (don't destroy on Close)

	log atomic.Pointer[slog.Logger]
}

var _ jfa.GPUAccelerator = (*FieldAccelerator)(nil)

// Name returns the accelerator name.
func (a *FieldAccelerator) Name() string { return "jfa-wgpu" }

// CanAccelerate reports support for full field jobs. Individual jobs may
// still be declined with jfa.ErrFallbackToCPU.
func (a *FieldAccelerator) CanAccelerate(op jfa.AcceleratedOp) bool {
	return op&jfa.AccelField == op
}

// SetLogger receives the logger propagated by jfa.SetLogger.
func (a *FieldAccelerator) SetLogger(l *slog.Logger) {
	a.log.Store(l)
}

// logger falls back to the jfa package logger until SetLogger is called,
// so init failures reported before registration completes are not lost.
func (a *FieldAccelerator) logger() *slog.Logger {
	if l := a.log.Load(); l != nil {
		return l
	}
	return jfa.Logger()
}

// Init opens a GPU device. A missing GPU is not an error: the accelerator
// stays registered and declines every job.
func (a *FieldAccelerator) Init() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.initGPU(); err != nil {
		a.logger().Warn("jfa-gpu: GPU init failed, using CPU fallback", "err", err)
	}
	return nil
}

// Ready reports whether a GPU device is available.
func (a *FieldAccelerator) Ready() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gpuReady
}

// Close releases pipelines and, unless the device is shared, the device.
func (a *FieldAccelerator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.destroyPipelines()
	if !a.externalDevice {
		if a.device != nil {
			a.device.Destroy()
		}
		if a.instance != nil {
			a.instance.Destroy()
		}
	}
	a.device = nil
	a.instance = nil
	a.queue = nil
	a.gpuReady = false
	a.externalDevice = false
}

// SetDeviceProvider switches the accelerator to a GPU device shared by the
// host application. The provider must implement HalDevice() any and
// HalQueue() any returning hal.Device and hal.Queue.
func (a *FieldAccelerator) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("jfa-gpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("jfa-gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("jfa-gpu: provider HalQueue is not hal.Queue")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.destroyPipelines()
	if !a.externalDevice && a.device != nil {
		a.device.Destroy()
	}
	if a.instance != nil {
		a.instance.Destroy()
		a.instance = nil
	}

	a.device = device
	a.queue = queue
	a.externalDevice = true

	if err := a.createPipelines(); err != nil {
		a.gpuReady = false
		return fmt.Errorf("jfa-gpu: create pipelines with shared device: %w", err)
	}
	a.gpuReady = true
	a.logger().Info("jfa-gpu: switched to shared GPU device")
	return nil
}

// ComputeField runs a complete field job on the GPU.
//
// The dense neighborhood is declined; its window grows with the step and
// cannot be unrolled. Voronoi coloring runs the propagation on the GPU and
// the finalize pass on the CPU.
func (a *FieldAccelerator) ComputeField(job *jfa.FieldJob) error {
	if err := checkJob(job); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.gpuReady {
		return jfa.ErrFallbackToCPU
	}
	if job.Neighborhood == jfa.NeighborhoodDense {
		return jfa.ErrFallbackToCPU
	}

	start := time.Now()
	if err := a.dispatchField(job); err != nil {
		return err
	}
	if job.Finalize.Mode == jfa.FieldVoronoi {
		f := jfa.NewFinalizer()
		f.Encoding = job.Encoding
		if err := f.Finalize(job.Seeds, job.Output, job.Finalize); err != nil {
			return err
		}
	}
	a.logger().Debug("jfa-gpu: field computed",
		"width", job.Mask.Width(), "height", job.Mask.Height(),
		"passes", len(job.Steps)+2, "elapsed", time.Since(start))
	return nil
}

var errIncompleteJob = errors.New("jfa-gpu: job needs mask, seeds and output")

func checkJob(job *jfa.FieldJob) error {
	if job == nil || job.Mask == nil || job.Seeds == nil || job.Output == nil {
		return errIncompleteJob
	}
	w, h := job.Mask.Width(), job.Mask.Height()
	if job.Seeds.Width() != w || job.Seeds.Height() != h ||
		job.Output.Width() != w || job.Output.Height() != h {
		return jfa.ErrSizeMismatch
	}
	if err := job.Steps.Validate(); err != nil {
		return err
	}
	return job.Encoding.Validate()
}

// fieldBuffers holds the per-job GPU resources.
type fieldBuffers struct {
	mask        hal.Buffer
	seeds       [2]hal.Buffer
	output      hal.Buffer
	seedStaging hal.Buffer
	outStaging  hal.Buffer
	uniforms    []hal.Buffer
	bindGroups  []hal.BindGroup
}

// binding is a storage buffer bound at its full size.
type binding struct {
	buf  hal.Buffer
	size uint64
}

// fieldPass is one compute pass: its uniform and the buffers it reads and
// writes.
type fieldPass struct {
	params   passParams
	src, dst binding
}

func (a *FieldAccelerator) destroyBuffers(b *fieldBuffers) {
	for _, bg := range b.bindGroups {
		if bg != nil {
			a.device.DestroyBindGroup(bg)
		}
	}
	for _, ub := range b.uniforms {
		if ub != nil {
			a.device.DestroyBuffer(ub)
		}
	}
	for _, buf := range []hal.Buffer{b.mask, b.seeds[0], b.seeds[1], b.output, b.seedStaging, b.outStaging} {
		if buf != nil {
			a.device.DestroyBuffer(buf)
		}
	}
}

func (a *FieldAccelerator) createBuffer(label string, size uint64, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := a.device.CreateBuffer(&hal.BufferDescriptor{Label: label, Size: size, Usage: usage})
	if err != nil {
		return nil, fmt.Errorf("create %s buffer: %w", label, err)
	}
	return buf, nil
}

func (a *FieldAccelerator) dispatchField(job *jfa.FieldJob) error {
	w, h := uint32(job.Mask.Width()), uint32(job.Mask.Height()) //nolint:gosec // dimensions always fit uint32
	pixels := uint64(w) * uint64(h)
	maskSize := pixels * 4
	seedSize := pixels * 16

	var b fieldBuffers
	defer a.destroyBuffers(&b)

	var err error
	storage := gputypes.BufferUsageStorage
	if b.mask, err = a.createBuffer("jfa_mask", maskSize, storage|gputypes.BufferUsageCopyDst); err != nil {
		return err
	}
	for i := range b.seeds {
		if b.seeds[i], err = a.createBuffer("jfa_seeds", seedSize, storage|gputypes.BufferUsageCopySrc); err != nil {
			return err
		}
	}
	if b.output, err = a.createBuffer("jfa_output", maskSize, storage|gputypes.BufferUsageCopySrc); err != nil {
		return err
	}
	if b.seedStaging, err = a.createBuffer("jfa_seed_staging", seedSize, gputypes.BufferUsageMapRead|gputypes.BufferUsageCopyDst); err != nil {
		return err
	}
	if b.outStaging, err = a.createBuffer("jfa_output_staging", maskSize, gputypes.BufferUsageMapRead|gputypes.BufferUsageCopyDst); err != nil {
		return err
	}

	// Mask bytes are already RGBA8, which the shaders read as little-endian u32.
	a.queue.WriteBuffer(b.mask, 0, job.Mask.Data())

	// Pass list: seed, one per step, final. Step i reads seeds[i%2] and
	// writes seeds[1-i%2]; the seed pass writes seeds[0].
	n := len(job.Steps)
	front := n % 2
	passes := make([]fieldPass, 0, n+2)
	passes = append(passes, fieldPass{newPassParams(job, 0), binding{b.mask, maskSize}, binding{b.seeds[0], seedSize}})
	for i, step := range job.Steps {
		passes = append(passes, fieldPass{newPassParams(job, step), binding{b.seeds[i%2], seedSize}, binding{b.seeds[1-i%2], seedSize}})
	}
	passes = append(passes, fieldPass{newPassParams(job, 0), binding{b.seeds[front], seedSize}, binding{b.output, maskSize}})

	for i, p := range passes {
		ub, err := a.createBuffer("jfa_params", paramsSize, gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
		if err != nil {
			return err
		}
		b.uniforms = append(b.uniforms, ub)
		a.queue.WriteBuffer(ub, 0, p.params.bytes())

		bg, err := a.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label: "jfa_bind", Layout: a.bindLayout,
			Entries: []gputypes.BindGroupEntry{
				{Binding: 0, Resource: gputypes.BufferBinding{Buffer: ub.NativeHandle(), Offset: 0, Size: paramsSize}},
				{Binding: 1, Resource: gputypes.BufferBinding{Buffer: p.src.buf.NativeHandle(), Offset: 0, Size: p.src.size}},
				{Binding: 2, Resource: gputypes.BufferBinding{Buffer: p.dst.buf.NativeHandle(), Offset: 0, Size: p.dst.size}},
			},
		})
		if err != nil {
			return fmt.Errorf("create bind group %d: %w", i, err)
		}
		b.bindGroups = append(b.bindGroups, bg)
	}

	if err := a.encodeAndSubmit(&b, w, h, front, seedSize, maskSize); err != nil {
		return err
	}

	seedRaw := make([]byte, seedSize)
	if err := a.queue.ReadBuffer(b.seedStaging, 0, seedRaw); err != nil {
		return fmt.Errorf("seed readback: %w", err)
	}
	decodeTexels(seedRaw, job.Seeds.Data())

	if err := a.queue.ReadBuffer(b.outStaging, 0, job.Output.Data()); err != nil {
		return fmt.Errorf("output readback: %w", err)
	}
	return nil
}

// encodeAndSubmit records every pass into one command buffer followed by the
// readback copies, submits it and waits for the fence.
func (a *FieldAccelerator) encodeAndSubmit(b *fieldBuffers, w, h uint32, front int, seedSize, outSize uint64) error {
	encoder, err := a.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "jfa_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("jfa_field"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	gx, gy := workgroups(w, h)
	last := len(b.bindGroups) - 1
	for i, bg := range b.bindGroups {
		stage := a.step.pipeline
		switch i {
		case 0:
			stage = a.seed.pipeline
		case last:
			stage = a.final.pipeline
		}
		pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "jfa_pass"})
		pass.SetPipeline(stage)
		pass.SetBindGroup(0, bg, nil)
		pass.Dispatch(gx, gy, 1)
		pass.End()
	}

	encoder.CopyBufferToBuffer(b.seeds[front], b.seedStaging, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: seedSize},
	})
	encoder.CopyBufferToBuffer(b.output, b.outStaging, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: outSize},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer a.device.FreeCommandBuffer(cmdBuf)

	fence, err := a.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer a.device.DestroyFence(fence)
	if err := a.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := a.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}
	return nil
}

func (a *FieldAccelerator) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	a.instance = instance
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return fmt.Errorf("no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	a.device = openDev.Device
	a.queue = openDev.Queue
	if err := a.createPipelines(); err != nil {
		a.device.Destroy()
		a.device = nil
		a.queue = nil
		return fmt.Errorf("create pipelines: %w", err)
	}
	a.gpuReady = true
	a.logger().Info("jfa-gpu: GPU accelerator initialized", "adapter", selected.Info.Name)
	return nil
}

func (a *FieldAccelerator) createPipelines() error {
	bindLayout, err := a.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "jfa_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	a.bindLayout = bindLayout

	pipeLayout, err := a.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "jfa_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{a.bindLayout},
	})
	if err != nil {
		a.destroyPipelines()
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	a.pipeLayout = pipeLayout

	for _, s := range []struct {
		dst   *computeStage
		label string
		src   string
	}{
		{&a.seed, "jfa_seed", seedShaderWGSL},
		{&a.step, "jfa_step", stepShaderWGSL},
		{&a.final, "jfa_final", finalShaderWGSL},
	} {
		stage, err := a.createStage(s.label, s.src)
		if err != nil {
			a.destroyPipelines()
			return err
		}
		*s.dst = stage
	}
	return nil
}

func (a *FieldAccelerator) destroyPipelines() {
	if a.device == nil {
		return
	}
	a.destroyStage(&a.seed)
	a.destroyStage(&a.step)
	a.destroyStage(&a.final)
	if a.pipeLayout != nil {
		a.device.DestroyPipelineLayout(a.pipeLayout)
		a.pipeLayout = nil
	}
	if a.bindLayout != nil {
		a.device.DestroyBindGroupLayout(a.bindLayout)
		a.bindLayout = nil
	}
}
