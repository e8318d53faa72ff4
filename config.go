package jfa

import (
	"math"
	"slices"
)

// Config holds everything a pipeline needs to run an invocation.
// Start from DefaultConfig and adjust.
type Config struct {
	// Width and Height are the grid dimensions shared by every buffer.
	Width, Height int

	// Steps is the propagation sequence. Nil means DefaultSteps(Width, Height).
	Steps Steps

	// Threshold is the mask intensity, in [0, 1], above which a pixel is a seed.
	Threshold float64

	// Intensity selects how mask pixels are reduced to an intensity.
	Intensity IntensityMode

	// EncodingScale is the fixed-point scale of seed coordinates. It must be
	// a power of two and at least the larger grid side for exact results.
	EncodingScale int

	Neighborhood Neighborhood

	// Workers is the CPU worker count. 0 uses GOMAXPROCS, 1 runs passes
	// on the calling goroutine.
	Workers int

	Finalize FinalizeParams

	// UseAccelerator lets the pipeline try the registered accelerator.
	UseAccelerator bool
}

// DefaultConfig returns the reference configuration for a w×h grid.
func DefaultConfig(w, h int) Config {
	return Config{
		Width:          w,
		Height:         h,
		Threshold:      DefaultThreshold,
		Intensity:      IntensityRed,
		EncodingScale:  DefaultEncodingScale,
		Neighborhood:   Neighborhood8,
		Finalize:       DefaultFinalizeParams(),
		UseAccelerator: true,
	}
}

// Validate returns a *ConfigError describing the first invalid field.
func (c *Config) Validate() error {
	if c.Width <= 0 {
		return configErr("width", c.Width, "must be positive")
	}
	if c.Height <= 0 {
		return configErr("height", c.Height, "must be positive")
	}
	if c.Steps != nil {
		if err := c.Steps.Validate(); err != nil {
			return err
		}
	}
	if math.IsNaN(c.Threshold) || c.Threshold < 0 || c.Threshold > 1 {
		return configErr("threshold", c.Threshold, "must be in [0, 1]")
	}
	if err := (Encoding{Scale: c.EncodingScale}).Validate(); err != nil {
		return err
	}
	switch c.Neighborhood {
	case Neighborhood8, NeighborhoodCross, NeighborhoodDense:
	default:
		return configErr("neighborhood", int(c.Neighborhood), "unknown neighborhood")
	}
	if c.Workers < 0 {
		return configErr("workers", c.Workers, "must not be negative")
	}
	return c.Finalize.Validate()
}

// steps returns the configured sequence or the default for the grid.
func (c *Config) steps() Steps {
	if c.Steps == nil {
		return DefaultSteps(c.Width, c.Height)
	}
	return c.Steps
}

func (c *Config) clone() Config {
	out := *c
	out.Steps = slices.Clone(c.Steps)
	return out
}
