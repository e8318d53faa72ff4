package jfa

import (
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// mockAccelerator declines every job unless compute is set.
type mockAccelerator struct {
	name     string
	initErr  error
	canAccel AcceleratedOp
	compute  func(job *FieldJob) error

	mu       sync.Mutex
	closed   bool
	calls    int
	logger   *slog.Logger
	provider any
}

func (m *mockAccelerator) Name() string                        { return m.name }
func (m *mockAccelerator) Init() error                         { return m.initErr }
func (m *mockAccelerator) CanAccelerate(op AcceleratedOp) bool { return m.canAccel&op == op }

func (m *mockAccelerator) ComputeField(job *FieldJob) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.compute == nil {
		return ErrFallbackToCPU
	}
	return m.compute(job)
}

func (m *mockAccelerator) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

func (m *mockAccelerator) SetLogger(l *slog.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = l
}

func (m *mockAccelerator) SetDeviceProvider(p any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.provider = p
	return nil
}

func (m *mockAccelerator) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *mockAccelerator) currentLogger() *slog.Logger {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.logger
}

// resetAccelerator drops the registered accelerator without closing it.
func resetAccelerator() {
	accelMu.Lock()
	accel = nil
	accelMu.Unlock()
}

func TestRegisterAccelerator(t *testing.T) {
	initErr := errors.New("no adapter")
	tests := []struct {
		name       string
		accel      GPUAccelerator
		wantErr    string
		registered bool
	}{
		{"nil", nil, "must not be nil", false},
		{"init fails", &mockAccelerator{name: "broken", initErr: initErr}, "no adapter", false},
		{"ok", &mockAccelerator{name: "ok", canAccel: AccelField}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetAccelerator()
			t.Cleanup(resetAccelerator)

			err := RegisterAccelerator(tt.accel)
			switch {
			case tt.wantErr == "" && err != nil:
				t.Fatalf("RegisterAccelerator() = %v", err)
			case tt.wantErr != "" && (err == nil || !strings.Contains(err.Error(), tt.wantErr)):
				t.Fatalf("RegisterAccelerator() = %v, want error containing %q", err, tt.wantErr)
			}
			if got := Accelerator() != nil; got != tt.registered {
				t.Errorf("registered = %v, want %v", got, tt.registered)
			}
		})
	}
	if err := RegisterAccelerator(&mockAccelerator{initErr: initErr}); !errors.Is(err, initErr) {
		t.Errorf("init error not wrapped: %v", err)
	}
}

func TestAcceleratorLifecycle(t *testing.T) {
	resetAccelerator()
	t.Cleanup(resetAccelerator)

	first := &mockAccelerator{name: "first"}
	second := &mockAccelerator{name: "second"}
	for _, a := range []*mockAccelerator{first, second} {
		if err := RegisterAccelerator(a); err != nil {
			t.Fatalf("RegisterAccelerator(%s) = %v", a.name, err)
		}
	}
	if !first.isClosed() || second.isClosed() {
		t.Fatalf("closed after replace: first=%v second=%v, want true false",
			first.isClosed(), second.isClosed())
	}
	if Accelerator() != second {
		t.Fatalf("Accelerator() = %v, want second", Accelerator())
	}

	UnregisterAccelerator()
	if Accelerator() != nil || !second.isClosed() {
		t.Error("UnregisterAccelerator left the accelerator open or registered")
	}
	UnregisterAccelerator()
}

func TestSetAcceleratorDeviceProvider(t *testing.T) {
	resetAccelerator()
	t.Cleanup(resetAccelerator)

	if err := SetAcceleratorDeviceProvider("window"); err != nil {
		t.Errorf("without accelerator: %v, want nil", err)
	}

	mock := &mockAccelerator{name: "shared"}
	if err := RegisterAccelerator(mock); err != nil {
		t.Fatal(err)
	}
	if err := SetAcceleratorDeviceProvider("window"); err != nil {
		t.Fatalf("SetAcceleratorDeviceProvider() = %v", err)
	}
	if mock.provider != "window" {
		t.Errorf("provider = %v, want window", mock.provider)
	}
}

func TestAccelFieldNeedsEveryPass(t *testing.T) {
	for _, op := range []AcceleratedOp{AccelClassify, AccelPropagate, AccelFinalize} {
		if AccelField&op == 0 {
			t.Errorf("AccelField lacks %b", op)
		}
		m := &mockAccelerator{canAccel: op}
		if m.CanAccelerate(AccelField) {
			t.Errorf("accelerator with only %b claims full field jobs", op)
		}
	}
}
