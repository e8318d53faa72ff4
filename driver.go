package jfa

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
)

// State is a stage of one driver invocation.
type State int32

const (
	StateIdle State = iota
	StateGeometry
	StateSeedInit
	StatePropagate
	StateFinalize
	StatePresent
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateGeometry:
		return "Geometry"
	case StateSeedInit:
		return "SeedInit"
	case StatePropagate:
		return "Propagate"
	case StateFinalize:
		return "Finalize"
	case StatePresent:
		return "Present"
	default:
		return "Unknown"
	}
}

// GeometrySource rasterizes the current frame's shapes into the mask.
// The mask is cleared to opaque black before each call.
type GeometrySource interface {
	Rasterize(frame uint64, dst *Pixmap) error
}

// GeometryFunc adapts a function to GeometrySource.
type GeometryFunc func(frame uint64, dst *Pixmap) error

// Rasterize calls f.
func (f GeometryFunc) Rasterize(frame uint64, dst *Pixmap) error { return f(frame, dst) }

// Presenter consumes a finalized field, e.g. by showing it on screen.
// The pixmap is owned by the presenter after the call.
type Presenter interface {
	Present(out *Pixmap) error
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(out *Pixmap) error

// Present calls f.
func (f PresenterFunc) Present(out *Pixmap) error { return f(out) }

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithParamsFunc supplies per-frame parameters, e.g. an animated radius.
func WithParamsFunc(fn func(frame uint64) FrameParams) DriverOption {
	return func(d *Driver) {
		d.params = fn
	}
}

// WithStateObserver registers a callback invoked on every state change.
// pass is the propagation pass index for StatePropagate and 0 otherwise.
func WithStateObserver(fn func(s State, pass int)) DriverOption {
	return func(d *Driver) {
		d.observe = fn
	}
}

// Driver runs one pipeline invocation per frame tick:
//
//	Idle → Geometry → SeedInit → Propagate(i)... → Finalize → Present → Idle
//
// Apart from the frame counter and the reused mask, a driver keeps no state
// between frames.
type Driver struct {
	pipeline  *Pipeline
	geometry  GeometrySource
	presenter Presenter
	params    func(frame uint64) FrameParams
	observe   func(State, int)

	mask  *Pixmap
	frame uint64
	state atomic.Int32
	last  *Result
}

// NewDriver wires a pipeline to its geometry source and presenter.
func NewDriver(p *Pipeline, geometry GeometrySource, presenter Presenter, opts ...DriverOption) (*Driver, error) {
	if p == nil {
		return nil, errors.New("jfa: driver needs a pipeline")
	}
	if geometry == nil {
		return nil, errors.New("jfa: driver needs a geometry source")
	}
	if presenter == nil {
		return nil, errors.New("jfa: driver needs a presenter")
	}
	d := &Driver{pipeline: p, geometry: geometry, presenter: presenter}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// State returns the current state. It is safe to call from other goroutines.
func (d *Driver) State() State { return State(d.state.Load()) }

// Frame returns the number of completed frames.
func (d *Driver) Frame() uint64 { return d.frame }

// LastResult returns the result of the last completed frame, or nil.
func (d *Driver) LastResult() *Result { return d.last }

func (d *Driver) enter(s State, pass int) {
	d.state.Store(int32(s))
	if d.observe != nil {
		d.observe(s, pass)
	}
}

// Tick runs one complete invocation synchronously. ctx is checked between
// stages; on any error the frame is abandoned, nothing is presented and the
// driver returns to Idle.
func (d *Driver) Tick(ctx context.Context) (err error) {
	if s := d.State(); s != StateIdle {
		return fmt.Errorf("jfa: driver busy in state %s", s)
	}
	defer func() {
		d.enter(StateIdle, 0)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}

	w, h := d.pipeline.Size()
	if d.mask == nil || d.mask.width != w || d.mask.height != h {
		d.mask = NewPixmap(w, h)
	}

	d.enter(StateGeometry, 0)
	d.mask.Clear(Black)
	if err := d.geometry.Rasterize(d.frame, d.mask); err != nil {
		return fmt.Errorf("jfa: geometry: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var params FrameParams
	if d.params != nil {
		params = d.params(d.frame)
	}
	res, err := d.pipeline.run(d.mask, params, d.enter)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	d.enter(StatePresent, 0)
	if err := d.presenter.Present(res.Output); err != nil {
		return fmt.Errorf("jfa: present: %w", err)
	}

	d.last = res
	d.frame++
	return nil
}

// Run ticks frames times, or until ctx is done when frames <= 0.
func (d *Driver) Run(ctx context.Context, frames int) error {
	for i := 0; frames <= 0 || i < frames; i++ {
		if err := d.Tick(ctx); err != nil {
			return err
		}
	}
	return nil
}
