package dsp

import "math"

// Waveform selects the shape produced by an Oscillator.
type Waveform int

const (
	// WaveSaw is a band-limited (polyBLEP) sawtooth.
	WaveSaw Waveform = iota
	// WaveSine is a pure sine.
	WaveSine
)

// Oscillator is a phase-accumulator tone generator (no heap allocations in Process).
type Oscillator struct {
	sampleRate float32
	freq       float32
	phase      float32 // [0,1)
	inc        float32 // cycles per sample
	wave       Waveform
}

// Init sets the sample rate and resets the phase.
func (o *Oscillator) Init(sampleRate float32) {
	o.sampleRate = sampleRate
	o.phase = 0
	o.SetFrequency(o.freq)
}

// SetWaveform selects the output shape.
func (o *Oscillator) SetWaveform(w Waveform) {
	o.wave = w
}

// SetFrequency sets the oscillator frequency in Hz.
func (o *Oscillator) SetFrequency(hz float32) {
	o.freq = hz
	if o.sampleRate <= 0 {
		o.inc = 0
		return
	}
	o.inc = hz / o.sampleRate
}

// Frequency returns the current frequency in Hz.
func (o *Oscillator) Frequency() float32 {
	return o.freq
}

// SetPhase sets the normalized phase; values are wrapped into [0,1).
func (o *Oscillator) SetPhase(p float32) {
	o.phase = wrapPhase(p)
}

// Phase returns the normalized phase in [0,1).
func (o *Oscillator) Phase() float32 {
	return o.phase
}

// Process renders one sample in [-1,1] and advances the phase.
func (o *Oscillator) Process() float32 {
	var out float32
	switch o.wave {
	case WaveSine:
		out = float32(math.Sin(2 * math.Pi * float64(o.phase)))
	default:
		out = 2*o.phase - 1
		out -= polyBLEP(o.phase, absf(o.inc))
	}
	o.phase = wrapPhase(o.phase + o.inc)
	return out
}

// polyBLEP returns the residual that smooths the saw discontinuity at phase wrap.
func polyBLEP(t, dt float32) float32 {
	if dt <= 0 || dt >= 1 {
		return 0
	}
	if t < dt {
		t /= dt
		return t + t - t*t - 1
	}
	if t > 1-dt {
		t = (t - 1) / dt
		return t*t + t + t + 1
	}
	return 0
}

func wrapPhase(p float32) float32 {
	if p >= 0 && p < 1 {
		return p
	}
	p -= float32(math.Floor(float64(p)))
	if p >= 1 {
		p = 0
	}
	return p
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
