package deepnote

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cwbudde/algo-deepnote/dsp"
	"github.com/cwbudde/algo-deepnote/irsynth"
)

var (
	ErrInvalidParams      = errors.New("invalid engine params")
	ErrInvalidTable       = errors.New("invalid frequency table")
	ErrInvalidVoice       = errors.New("invalid voice setup")
	ErrAlreadyInitialized = errors.New("frequency table already initialized")
	ErrNilRandom          = errors.New("nil random generator")
)

// Params holds the construction-time engine configuration.
type Params struct {
	SampleRate float32

	TrioVoices int
	DuoVoices  int

	// Chords holds 12 rows of TrioVoices+DuoVoices target frequencies,
	// trio columns first. Row r (1-based) is rooted on pitch class r%12.
	Chords [][]float32

	StartRange         dsp.Range
	AnimationRateRange dsp.Range

	// Volume scales the summed voices. Nil selects 1/(total oscillators);
	// a pointer to zero mutes.
	Volume   *float32
	Waveform dsp.Waveform
	Law      GlideLaw

	IndexPolicy  IndexPolicy
	TriggerWidth time.Duration

	// Optional impulse response for the space stage. IRWavPath wins over
	// Hall; with neither set the space stage is bypassed.
	IRWavPath string
	Hall      *irsynth.HallConfig
	IRWetMix  float32
	IRDryMix  float32

	ToneResonance float32
}

// Controls are the per-sample inputs.
type Controls struct {
	Detune        float32 // Hz
	Chord         float32 // row selector, snapped by the table policy
	AnimationRate float32 // multiplier on each voice's own animation rate
	ControlPoint1 float32
	ControlPoint2 float32
	Reset         bool    // rising edge re-seeds every voice from the start row
	Cutoff        float32 // tone filter cutoff in Hz; <= 0 bypasses the filter
}

// DefaultControls mirrors the power-on state of the module: glide toward
// the D chord with a gentle ease.
func DefaultControls() Controls {
	return Controls{
		Detune:        0.5,
		Chord:         DefaultBaseRoot,
		AnimationRate: 1,
		ControlPoint1: 0.08,
		ControlPoint2: 0.5,
		Cutoff:        10000,
	}
}

// Frame is the per-sample output.
type Frame struct {
	Sample  float32
	Gate    bool // high while every voice is settled
	Trigger bool // 1 ms pulse whenever a voice arrives
}

// NewDefaultParams creates default parameters: 48 kHz, 4 trio and 5 duo
// voices, start chord drawn from [200, 400) Hz and animation rates from
// [0.05, 1.5) Hz.
func NewDefaultParams() *Params {
	return &Params{
		SampleRate:         48000,
		TrioVoices:         4,
		DuoVoices:          5,
		Chords:             DefaultChords(),
		StartRange:         dsp.MustRange(200, 400),
		AnimationRateRange: dsp.MustRange(0.05, 1.5),
		Waveform:           dsp.WaveSaw,
		Law:                LinearGlide{},
		IndexPolicy:        RoundIndex,
		TriggerWidth:       DefaultTriggerWidth,
		IRWetMix:           0.25,
		IRDryMix:           1.0,
		ToneResonance:      0,
	}
}

// VoiceCount returns the total number of voices.
func (p *Params) VoiceCount() int {
	return p.TrioVoices + p.DuoVoices
}

// OscillatorCount returns the total number of oscillators across all voices.
func (p *Params) OscillatorCount() int {
	return p.TrioVoices*TrioOscillators + p.DuoVoices*DuoOscillators
}

// Validate rejects authoring errors. It never clamps.
func (p *Params) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil params", ErrInvalidParams)
	}
	if !(p.SampleRate > 0) || math.IsInf(float64(p.SampleRate), 0) {
		return fmt.Errorf("%w: sample rate must be > 0, got %g", ErrInvalidParams, p.SampleRate)
	}
	if p.TrioVoices < 0 || p.DuoVoices < 0 {
		return fmt.Errorf("%w: voice counts must be >= 0 (trio=%d duo=%d)", ErrInvalidParams, p.TrioVoices, p.DuoVoices)
	}
	if p.VoiceCount() == 0 {
		return fmt.Errorf("%w: at least one voice is required", ErrInvalidParams)
	}
	if len(p.Chords) != ChordRows {
		return fmt.Errorf("%w: expected %d chord rows, got %d", ErrInvalidParams, ChordRows, len(p.Chords))
	}
	for r, row := range p.Chords {
		if len(row) != p.VoiceCount() {
			return fmt.Errorf("%w: chord row %d has %d columns, want %d", ErrInvalidParams, r+1, len(row), p.VoiceCount())
		}
	}
	if !(p.StartRange.Low() > 0) {
		return fmt.Errorf("%w: start range must be positive, got [%g, %g)", ErrInvalidParams, p.StartRange.Low(), p.StartRange.High())
	}
	if p.AnimationRateRange.Low() < 0 || !(p.AnimationRateRange.High() > 0) {
		return fmt.Errorf("%w: animation rate range must be non-negative and non-empty, got [%g, %g)", ErrInvalidParams, p.AnimationRateRange.Low(), p.AnimationRateRange.High())
	}
	if v := p.Volume; v != nil && (*v < 0 || math.IsNaN(float64(*v)) || math.IsInf(float64(*v), 0)) {
		return fmt.Errorf("%w: volume must be finite and >= 0, got %g", ErrInvalidParams, *v)
	}
	if p.TriggerWidth < 0 {
		return fmt.Errorf("%w: trigger width must be >= 0, got %s", ErrInvalidParams, p.TriggerWidth)
	}
	if p.IRWetMix < 0 || p.IRDryMix < 0 {
		return fmt.Errorf("%w: ir mix levels must be >= 0", ErrInvalidParams)
	}
	if p.Hall != nil {
		hall := *p.Hall
		hall.SampleRate = int(p.SampleRate)
		if err := hall.Validate(); err != nil {
			return fmt.Errorf("%w: hall: %v", ErrInvalidParams, err)
		}
	}
	if p.ToneResonance < 0 || p.ToneResonance > 4 {
		return fmt.Errorf("%w: tone resonance must be in [0,4], got %g", ErrInvalidParams, p.ToneResonance)
	}
	return nil
}
