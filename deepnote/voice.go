package deepnote

import (
	"fmt"
	"math"

	dspcore "github.com/cwbudde/algo-dsp/dsp/core"

	"github.com/cwbudde/algo-deepnote/dsp"
)

const (
	// MaxOscillators bounds the per-voice oscillator array.
	MaxOscillators = 3
	// TrioOscillators is the oscillator count of a trio voice.
	TrioOscillators = 3
	// DuoOscillators is the oscillator count of a duo voice.
	DuoOscillators = 2

	// ArrivalTolerance is the start/target distance in Hz below which a
	// glide settles immediately.
	ArrivalTolerance = 1e-3
	// MinAnimationRate keeps a glide moving when the animation rate or its
	// multiplier is zero, negative or NaN (Hz).
	MinAnimationRate = 1e-3
)

// Voice is one note built from N detuned oscillators sharing a carrier and a
// glide state machine. A voice is either settled (at target) or gliding.
type Voice struct {
	oscs [MaxOscillators]dsp.Oscillator
	n    int
	id   int
	law  GlideLaw

	sampleRate    float32
	animationFreq float32
	detune        float32

	startFreq   float32
	targetFreq  float32
	currentFreq float32
	progress    float64 // glide phase in [0,1]
	arrived     bool
}

// NewVoice creates a voice with the given oscillator count (1..3). A nil law
// selects LinearGlide.
func NewVoice(oscillators int, law GlideLaw) (*Voice, error) {
	if oscillators < 1 || oscillators > MaxOscillators {
		return nil, fmt.Errorf("%w: oscillator count %d not in [1,%d]", ErrInvalidVoice, oscillators, MaxOscillators)
	}
	if law == nil {
		law = LinearGlide{}
	}
	return &Voice{n: oscillators, law: law, arrived: true}, nil
}

// Init seeds the sample rate, the (already randomized) animation rate and
// the start frequency, and randomizes each oscillator's phase through rng so
// the sub-oscillators do not beat in lockstep. A nil rng keeps all phases at
// zero. The voice starts settled on startFrequency.
func (v *Voice) Init(startFrequency, sampleRate, animationFrequency float32, rng dsp.RandomFunc) error {
	if !(sampleRate > 0) || math.IsInf(float64(sampleRate), 0) {
		return fmt.Errorf("%w: sample rate must be > 0, got %g", ErrInvalidVoice, sampleRate)
	}
	if !(startFrequency > 0) || math.IsInf(float64(startFrequency), 0) {
		return fmt.Errorf("%w: start frequency must be > 0, got %g", ErrInvalidVoice, startFrequency)
	}
	if !(animationFrequency >= 0) || math.IsInf(float64(animationFrequency), 0) {
		return fmt.Errorf("%w: animation frequency must be >= 0, got %g", ErrInvalidVoice, animationFrequency)
	}
	v.sampleRate = sampleRate
	v.animationFreq = animationFrequency
	v.startFreq = startFrequency
	v.targetFreq = startFrequency
	v.currentFreq = startFrequency
	v.progress = 1
	v.arrived = true
	for i := 0; i < v.n; i++ {
		v.oscs[i].Init(sampleRate)
		if rng != nil {
			v.oscs[i].SetPhase(rng(0, 1))
		}
	}
	v.applyCarrier()
	return nil
}

// SetWaveform selects the waveform of every oscillator.
func (v *Voice) SetWaveform(w dsp.Waveform) {
	for i := 0; i < v.n; i++ {
		v.oscs[i].SetWaveform(w)
	}
}

// SetTargetFrequency records a new destination. A different target restarts
// the glide from the current carrier, so retargeting never jumps.
func (v *Voice) SetTargetFrequency(f float32) {
	if f == v.targetFreq {
		return
	}
	v.startFreq = v.currentFreq
	v.targetFreq = f
	v.progress = 0
	v.arrived = false
}

// ResetStartFrequency rewinds the glide origin (and the carrier) to f and
// glides again toward the existing target.
func (v *Voice) ResetStartFrequency(f float32) {
	v.startFreq = f
	v.currentFreq = f
	v.progress = 0
	v.arrived = false
}

// ComputeDetune sets the oscillator spread in Hz used by subsequent Process
// calls. Negative and NaN values disable detuning.
func (v *Voice) ComputeDetune(hz float32) {
	if !(hz > 0) || math.IsInf(float64(hz), 0) {
		hz = 0
	}
	v.detune = hz
}

// IsAtTarget reports whether the voice has settled on its target.
func (v *Voice) IsAtTarget() bool { return v.arrived }

func (v *Voice) StartFrequency() float32     { return v.startFreq }
func (v *Voice) TargetFrequency() float32    { return v.targetFreq }
func (v *Voice) CurrentFrequency() float32   { return v.currentFreq }
func (v *Voice) AnimationFrequency() float32 { return v.animationFreq }
func (v *Voice) Detune() float32             { return v.detune }
func (v *Voice) Oscillators() int            { return v.n }

// Progress returns the glide phase in [0,1].
func (v *Voice) Progress() float32 { return float32(v.progress) }

// OscillatorFrequency returns the frequency of oscillator i: the carrier
// plus its symmetric share of the detune spread, (i - (N-1)/2) * detune.
func (v *Voice) OscillatorFrequency(i int) float32 {
	center := float32(v.n-1) * 0.5
	return v.currentFreq + (float32(i)-center)*v.detune
}

// Process advances the glide by one sample, drives the oscillators at the
// resulting carrier and returns their sum. trace may be nil.
func (v *Voice) Process(multiplier, cp1, cp2 float32, trace TraceFunc) float32 {
	wasAtTarget := v.arrived
	if !v.arrived {
		v.advance(multiplier, dsp.NewBezierUnitShaper(cp1, cp2))
	}
	lfo := float32(v.progress)

	v.applyCarrier()
	var sum float32
	for i := 0; i < v.n; i++ {
		sum += v.oscs[i].Process()
	}
	sum = float32(dspcore.FlushDenormals(float64(sum)))

	if trace != nil {
		shaped := float32(1)
		if !v.arrived {
			shaped = dsp.NewBezierUnitShaper(cp1, cp2).Shape(lfo)
		}
		trace(TraceValues{
			Voice:                v.id,
			StartFrequency:       v.startFreq,
			TargetFrequency:      v.targetFreq,
			WasAtTarget:          wasAtTarget,
			AtTarget:             v.arrived,
			AnimationValue:       lfo,
			ShapedAnimationValue: shaped,
			AnimationFrequency:   v.animationFreq,
			Frequency:            v.currentFreq,
			Sample:               sum,
		})
	}
	return sum
}

func (v *Voice) advance(multiplier float32, shaper dsp.BezierUnitShaper) {
	if absf(v.targetFreq-v.startFreq) <= ArrivalTolerance {
		v.settle()
		return
	}
	rate := v.animationFreq * multiplier
	if !(rate >= MinAnimationRate) {
		rate = MinAnimationRate
	}
	v.progress += float64(rate) / float64(v.sampleRate)
	if v.progress >= 1 {
		v.settle()
		return
	}
	v.currentFreq = v.law.Frequency(v.startFreq, v.targetFreq, shaper.Shape(float32(v.progress)))
}

func (v *Voice) settle() {
	v.progress = 1
	v.currentFreq = v.targetFreq
	v.arrived = true
}

func (v *Voice) applyCarrier() {
	for i := 0; i < v.n; i++ {
		v.oscs[i].SetFrequency(v.OscillatorFrequency(i))
	}
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
