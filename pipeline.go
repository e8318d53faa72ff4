package jfa

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/jfa/internal/parallel"
)

// FrameParams carries per-invocation values, such as an animated radius,
// so that each invocation depends only on its arguments.
type FrameParams struct {
	// Radius overrides Config.Finalize.Radius when positive.
	Radius float64

	// Finalize, if non-nil, replaces Config.Finalize for this invocation.
	// Radius still applies on top of it.
	Finalize *FinalizeParams
}

// Result is the outcome of one invocation. Its buffers are copies owned by
// the caller.
type Result struct {
	// Seeds is the final seed-coordinate buffer.
	Seeds *SeedMap

	// Output is the finalized field.
	Output *Pixmap

	// SeedCount is the number of pixels classified as seeds. It is -1 when
	// an accelerator ran the job.
	SeedCount int

	// Passes counts the passes run: classify, each propagation step, finalize.
	Passes int

	// Backend is "cpu" or the name of the accelerator that ran the job.
	Backend string

	// Warnings holds recoverable conditions, such as ErrEncodingOverflow.
	Warnings []error

	Elapsed time.Duration
}

// Pipeline computes jump flood fields for a fixed grid size.
//
// Buffers are allocated once and reused across invocations; no other state
// carries over. Compute is safe for concurrent use, invocations are
// serialized.
type Pipeline struct {
	mu sync.Mutex

	cfg      Config
	enc      Encoding
	steps    Steps
	warnings []error

	pool    *parallel.WorkerPool
	buffers *PingPong
	output  *Pixmap

	classifier Classifier
	propagator Propagator
	finalizer  Finalizer
}

// NewPipeline validates cfg after applying opts and allocates buffers.
func NewPipeline(cfg Config, opts ...Option) (*Pipeline, error) {
	cfg = cfg.clone()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{}
	if cfg.Workers != 1 {
		p.pool = parallel.NewWorkerPool(cfg.Workers)
	}
	p.configure(cfg)
	return p, nil
}

// configure applies a validated config. Caller holds p.mu or owns p.
func (p *Pipeline) configure(cfg Config) {
	p.cfg = cfg
	p.enc = Encoding{Scale: cfg.EncodingScale}
	p.steps = cfg.steps()

	if p.buffers == nil {
		p.buffers = NewPingPong(cfg.Width, cfg.Height)
	} else {
		p.buffers.Resize(cfg.Width, cfg.Height)
	}
	if p.output == nil || p.output.width != cfg.Width || p.output.height != cfg.Height {
		p.output = NewPixmap(cfg.Width, cfg.Height)
	}

	p.classifier = Classifier{Threshold: cfg.Threshold, Mode: cfg.Intensity, Encoding: p.enc, pool: p.pool}
	p.propagator = Propagator{Encoding: p.enc, Neighborhood: cfg.Neighborhood, pool: p.pool}
	p.finalizer = Finalizer{Encoding: p.enc, pool: p.pool}

	p.warnings = nil
	log := Logger()
	if !p.enc.Fits(cfg.Width, cfg.Height) {
		w := fmt.Errorf("%w: grid %dx%d needs scale >= %d, have %d",
			ErrEncodingOverflow, cfg.Width, cfg.Height, max(cfg.Width, cfg.Height), p.enc.Scale)
		p.warnings = append(p.warnings, w)
		log.Warn("jfa: seed coordinates will saturate", "err", w)
	}
	if !p.steps.Covers(cfg.Width, cfg.Height) {
		log.Debug("jfa: step sequence may not reach every pixel",
			"steps", p.steps.String(), "width", cfg.Width, "height", cfg.Height)
	}
	log.Debug("jfa: pipeline configured",
		"width", cfg.Width, "height", cfg.Height,
		"steps", p.steps.String(), "scale", p.enc.Scale,
		"neighborhood", cfg.Neighborhood.String(), "workers", p.workers())
}

func (p *Pipeline) workers() int {
	if p.pool == nil {
		return 1
	}
	return p.pool.Workers()
}

// Config returns a copy of the active configuration.
func (p *Pipeline) Config() Config {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg.clone()
}

// Size returns the grid dimensions.
func (p *Pipeline) Size() (width, height int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg.Width, p.cfg.Height
}

// Resize changes the grid dimensions between invocations. A step sequence
// that was derived from the old size is recomputed; an explicit one is kept.
func (p *Pipeline) Resize(width, height int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	cfg := p.cfg.clone()
	cfg.Width, cfg.Height = width, height
	if err := cfg.Validate(); err != nil {
		return err
	}
	p.configure(cfg)
	return nil
}

// Compute runs one full invocation on mask: classify, every propagation
// pass, finalize. Configuration problems are reported before any pass runs.
func (p *Pipeline) Compute(mask *Pixmap, params FrameParams) (*Result, error) {
	return p.run(mask, params, nil)
}

// run is Compute with an observer notified as each stage starts.
func (p *Pipeline) run(mask *Pixmap, params FrameParams, observe func(State, int)) (*Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if mask == nil {
		return nil, errors.New("jfa: mask must not be nil")
	}
	if err := checkSameSize(mask, p.output); err != nil {
		return nil, err
	}
	fp := p.cfg.Finalize
	if params.Finalize != nil {
		fp = *params.Finalize
	}
	if params.Radius > 0 {
		fp.Radius = params.Radius
	}
	if err := fp.Validate(); err != nil {
		return nil, err
	}
	if observe == nil {
		observe = func(State, int) {}
	}

	start := time.Now()
	res, ok := p.runAccelerated(mask, fp, observe)
	if !ok {
		var err error
		if res, err = p.runCPU(mask, fp, observe); err != nil {
			return nil, err
		}
	}
	res.Warnings = append(res.Warnings, p.warnings...)
	res.Elapsed = time.Since(start)

	Logger().Debug("jfa: field computed",
		"backend", res.Backend, "passes", res.Passes, "seeds", res.SeedCount,
		"elapsed", res.Elapsed)
	return res, nil
}

// runAccelerated reports false when the CPU path should run instead.
func (p *Pipeline) runAccelerated(mask *Pixmap, fp FinalizeParams, observe func(State, int)) (*Result, bool) {
	if !p.cfg.UseAccelerator {
		return nil, false
	}
	a := Accelerator()
	if a == nil || !a.CanAccelerate(AccelField) {
		return nil, false
	}

	job := &FieldJob{
		Mask:         mask,
		Steps:        p.steps,
		Threshold:    p.cfg.Threshold,
		Intensity:    p.cfg.Intensity,
		Encoding:     p.enc,
		Neighborhood: p.cfg.Neighborhood,
		Finalize:     fp,
		Seeds:        NewSeedMap(p.cfg.Width, p.cfg.Height),
		Output:       NewPixmap(p.cfg.Width, p.cfg.Height),
	}
	if err := a.ComputeField(job); err != nil {
		if errors.Is(err, ErrFallbackToCPU) {
			Logger().Debug("jfa: accelerator declined job", "name", a.Name())
		} else {
			Logger().Warn("jfa: accelerator failed, using CPU", "name", a.Name(), "err", err)
		}
		return nil, false
	}

	observe(StateSeedInit, 0)
	for i := range p.steps {
		observe(StatePropagate, i)
	}
	observe(StateFinalize, 0)

	return &Result{
		Seeds:     job.Seeds,
		Output:    job.Output,
		SeedCount: -1,
		Passes:    len(p.steps) + 2,
		Backend:   a.Name(),
	}, true
}

func (p *Pipeline) runCPU(mask *Pixmap, fp FinalizeParams, observe func(State, int)) (*Result, error) {
	p.buffers.Reset()

	observe(StateSeedInit, 0)
	seeds, err := p.classifier.Classify(mask, p.buffers.Front())
	if err != nil {
		return nil, fmt.Errorf("jfa: classify: %w", err)
	}

	err = p.propagator.Run(p.buffers, p.steps, func(i, _ int) {
		observe(StatePropagate, i)
	})
	if err != nil {
		return nil, fmt.Errorf("jfa: propagate: %w", err)
	}

	observe(StateFinalize, 0)
	if err := p.finalizer.Finalize(p.buffers.Front(), p.output, fp); err != nil {
		return nil, fmt.Errorf("jfa: finalize: %w", err)
	}

	return &Result{
		Seeds:     p.buffers.Front().Clone(),
		Output:    p.output.Clone(),
		SeedCount: seeds,
		Passes:    len(p.steps) + 2,
		Backend:   "cpu",
	}, nil
}

// Close stops the worker pool. The pipeline keeps working afterwards, with
// passes running on the calling goroutine.
func (p *Pipeline) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}
