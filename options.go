package jfa

// Option adjusts a Config during pipeline creation.
//
// Example:
//
//	p, err := jfa.NewPipeline(jfa.DefaultConfig(128, 128),
//	    jfa.WithSteps(64, 32, 16, 8, 4, 2, 1),
//	    jfa.WithThreshold(0.5),
//	)
type Option func(*Config)

// WithSteps sets the propagation sequence.
func WithSteps(steps ...int) Option {
	return func(c *Config) {
		c.Steps = append(Steps{}, steps...)
	}
}

// WithThreshold sets the seed intensity threshold.
func WithThreshold(t float64) Option {
	return func(c *Config) {
		c.Threshold = t
	}
}

// WithIntensityMode sets how mask pixels are reduced to an intensity.
func WithIntensityMode(m IntensityMode) Option {
	return func(c *Config) {
		c.Intensity = m
	}
}

// WithEncodingScale sets the fixed-point scale of seed coordinates.
// Use a power of two at least as large as the grid to avoid overflow.
func WithEncodingScale(scale int) Option {
	return func(c *Config) {
		c.EncodingScale = scale
	}
}

// WithNeighborhood sets the propagation sample pattern.
func WithNeighborhood(n Neighborhood) Option {
	return func(c *Config) {
		c.Neighborhood = n
	}
}

// WithWorkers sets the number of CPU workers.
func WithWorkers(n int) Option {
	return func(c *Config) {
		c.Workers = n
	}
}

// WithFinalize sets the finalize pass parameters.
func WithFinalize(fp FinalizeParams) Option {
	return func(c *Config) {
		c.Finalize = fp
	}
}

// WithoutAccelerator forces the CPU path even when an accelerator is
// registered.
func WithoutAccelerator() Option {
	return func(c *Config) {
		c.UseAccelerator = false
	}
}
