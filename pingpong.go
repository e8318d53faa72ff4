package jfa

// PingPong is a pair of equally sized seed maps used alternately as pass
// source and destination.
//
// Front is the buffer most recently written; Back is the next destination.
// Swap flips them and advances the generation counter, so the authoritative
// buffer is always Front no matter how many passes ran.
type PingPong struct {
	slots      [2]*SeedMap
	parity     int
	generation uint64
}

// NewPingPong allocates both slots.
func NewPingPong(width, height int) *PingPong {
	return &PingPong{
		slots: [2]*SeedMap{NewSeedMap(width, height), NewSeedMap(width, height)},
	}
}

// Front returns the buffer holding the latest result.
func (pp *PingPong) Front() *SeedMap { return pp.slots[pp.parity] }

// Back returns the buffer the next pass writes to.
func (pp *PingPong) Back() *SeedMap { return pp.slots[pp.parity^1] }

// Swap makes Back the new Front.
func (pp *PingPong) Swap() {
	pp.parity ^= 1
	pp.generation++
}

// Generation returns the number of swaps since the last Reset.
func (pp *PingPong) Generation() uint64 { return pp.generation }

// Parity returns which slot (0 or 1) is Front.
func (pp *PingPong) Parity() int { return pp.parity }

// Reset makes slot 0 Front again. Contents are left untouched.
func (pp *PingPong) Reset() {
	pp.parity = 0
	pp.generation = 0
}

// Resize reallocates both slots if the dimensions changed.
func (pp *PingPong) Resize(width, height int) {
	if pp.slots[0].width == width && pp.slots[0].height == height {
		return
	}
	pp.slots = [2]*SeedMap{NewSeedMap(width, height), NewSeedMap(width, height)}
	pp.Reset()
}
