package jfa

import (
	"fmt"
	"strconv"
	"strings"
)

// Steps is the sequence of offsets used by successive propagation passes,
// typically powers of two descending to 1.
type Steps []int

// DefaultSteps returns the canonical sequence for a w×h grid: powers of two
// from half the next power of two above the larger side, down to 1.
// A 64×64 grid gives [32 16 8 4 2 1]; 8×8 gives [4 2 1].
func DefaultSteps(w, h int) Steps {
	extent := max(w, h, 1)
	n := 1
	for n < extent {
		n <<= 1
	}
	steps := Steps{}
	for s := n / 2; s >= 1; s /= 2 {
		steps = append(steps, s)
	}
	if len(steps) == 0 {
		steps = Steps{1}
	}
	return steps
}

// ParseSteps parses a comma separated list such as "4,2,1".
func ParseSteps(s string) (Steps, error) {
	parts := strings.Split(s, ",")
	steps := make(Steps, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("jfa: parse step %q: %w", p, err)
		}
		steps = append(steps, v)
	}
	if err := steps.Validate(); err != nil {
		return nil, err
	}
	return steps, nil
}

// Validate reports a *ConfigError if the sequence is empty or holds a
// non-positive step.
func (s Steps) Validate() error {
	if len(s) == 0 {
		return configErr("steps", s, "sequence is empty")
	}
	for i, v := range s {
		if v <= 0 {
			return configErr(fmt.Sprintf("steps[%d]", i), v, "must be positive")
		}
	}
	return nil
}

// IsCanonical reports whether the sequence strictly decreases through
// powers of two and ends at 1.
func (s Steps) IsCanonical() bool {
	if len(s) == 0 || s[len(s)-1] != 1 {
		return false
	}
	for i, v := range s {
		if v&(v-1) != 0 {
			return false
		}
		if i > 0 && v >= s[i-1] {
			return false
		}
	}
	return true
}

// Sum returns the total of all steps, the farthest a seed can travel along
// one axis.
func (s Steps) Sum() int {
	total := 0
	for _, v := range s {
		total += v
	}
	return total
}

// Covers reports whether a single seed anywhere on a w×h grid reaches every
// pixel: the steps must add up to at least the largest side minus one.
// Falling short is not an error; unreached pixels stay NoSeed.
func (s Steps) Covers(w, h int) bool {
	return s.Sum() >= max(w, h)-1
}

func (s Steps) String() string {
	parts := make([]string, len(s))
	for i, v := range s {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
