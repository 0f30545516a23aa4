package deepnote

import "time"

// DefaultTriggerWidth is the length of an arrival trigger pulse.
const DefaultTriggerWidth = time.Millisecond

// PulseGenerator emits a fixed-width high pulse after each Trigger.
// Re-triggering while high restarts the pulse.
type PulseGenerator struct {
	width     int
	remaining int
}

// NewPulseGenerator returns a generator whose pulses last width (at least
// one sample). A non-positive width selects DefaultTriggerWidth.
func NewPulseGenerator(sampleRate float32, width time.Duration) PulseGenerator {
	if width <= 0 {
		width = DefaultTriggerWidth
	}
	n := int(float64(sampleRate)*width.Seconds() + 0.5)
	if n < 1 {
		n = 1
	}
	return PulseGenerator{width: n}
}

// Width returns the pulse length in samples.
func (p PulseGenerator) Width() int { return p.width }

// Trigger starts a new pulse.
func (p *PulseGenerator) Trigger() {
	p.remaining = p.width
}

// Process returns the pulse level for the current sample and advances it.
func (p *PulseGenerator) Process() bool {
	if p.remaining <= 0 {
		return false
	}
	p.remaining--
	return true
}
