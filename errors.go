package jfa

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is wrapped by every *ConfigError. Configuration errors
	// are reported before any pass runs.
	ErrInvalidConfig = errors.New("jfa: invalid configuration")

	// ErrEncodingOverflow reports that the grid is larger than the seed
	// encoding can represent. Coordinates saturate; it is a warning, not a
	// failure.
	ErrEncodingOverflow = errors.New("jfa: seed coordinate exceeds encoding range")

	// ErrAliasedBuffers is returned when a pass is asked to read and write
	// the same buffer.
	ErrAliasedBuffers = errors.New("jfa: source and destination buffers alias")

	// ErrSizeMismatch is returned when buffers handed to a pass differ in size.
	ErrSizeMismatch = errors.New("jfa: buffer dimensions do not match")

	// ErrFallbackToCPU indicates the accelerator cannot handle a job.
	// The pipeline transparently falls back to the CPU path.
	ErrFallbackToCPU = errors.New("jfa: falling back to CPU")
)

// ConfigError describes a rejected configuration value.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("jfa: invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

// Unwrap returns ErrInvalidConfig so callers can use errors.Is.
func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

func configErr(field string, value any, reason string) error {
	return &ConfigError{Field: field, Value: value, Reason: reason}
}

// sized is implemented by Pixmap and SeedMap.
type sized interface {
	Width() int
	Height() int
}

func checkSameSize(a, b sized) error {
	if a.Width() != b.Width() || a.Height() != b.Height() {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrSizeMismatch,
			a.Width(), a.Height(), b.Width(), b.Height())
	}
	return nil
}
