package deepnote

import (
	"fmt"

	"github.com/cwbudde/algo-deepnote/dsp"
)

// Engine runs the voice bank: trio voices followed by duo voices, all fed by
// one shared frequency table. It is single-threaded; callers running it from
// several goroutines must serialize Process calls.
type Engine struct {
	params *Params
	table  *FrequencyTable
	voices []*Voice
	volume float32

	pulse PulseGenerator
	tone  *ToneFilter
	space *SpaceConvolver
	trace TraceFunc

	prevReset bool
	toneOn    bool
	inFlight  bool
}

// New builds an engine. rng is only used here: it draws the start chord and
// each voice's animation rate and oscillator phases.
func New(params *Params, rng dsp.RandomFunc) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, ErrNilRandom
	}

	table, err := NewFrequencyTable(params.Chords, params.IndexPolicy)
	if err != nil {
		return nil, err
	}
	if err := table.Initialize(params.StartRange, rng); err != nil {
		return nil, err
	}

	e := &Engine{
		params: params,
		table:  table,
		voices: make([]*Voice, 0, params.VoiceCount()),
		volume: 1 / float32(params.OscillatorCount()),
		pulse:  NewPulseGenerator(params.SampleRate, params.TriggerWidth),
	}
	if params.Volume != nil {
		e.volume = *params.Volume
	}

	for i := 0; i < params.VoiceCount(); i++ {
		n := TrioOscillators
		if i >= params.TrioVoices {
			n = DuoOscillators
		}
		v, err := NewVoice(n, params.Law)
		if err != nil {
			return nil, err
		}
		v.id = i
		rate := params.AnimationRateRange.Sample(rng)
		if err := v.Init(table.ResetFrequency(i), params.SampleRate, rate, rng); err != nil {
			return nil, fmt.Errorf("voice %d: %w", i, err)
		}
		v.SetWaveform(params.Waveform)
		e.voices = append(e.voices, v)
	}

	e.tone, err = NewToneFilter(params.SampleRate, params.ToneResonance)
	if err != nil {
		return nil, err
	}
	e.toneOn = true
	if params.IRWavPath != "" || params.Hall != nil {
		e.space, err = NewSpaceConvolver(int(params.SampleRate), params.IRWetMix, params.IRDryMix)
		if err != nil {
			return nil, err
		}
		if params.IRWavPath != "" {
			if err := e.space.SetIRFromWAV(params.IRWavPath); err != nil {
				return nil, fmt.Errorf("load ir %q: %w", params.IRWavPath, err)
			}
		} else if err := e.space.SetHall(*params.Hall); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// SetTrace installs a diagnostic sink; nil disables tracing.
func (e *Engine) SetTrace(trace TraceFunc) {
	e.trace = trace
}

// SetSpace installs (or with nil removes) the space stage.
func (e *Engine) SetSpace(space *SpaceConvolver) {
	e.space = space
}

// Process renders one sample.
func (e *Engine) Process(c Controls) Frame {
	changed := e.table.SetCurrentIndex(c.Chord)
	resetEdge := c.Reset && !e.prevReset
	e.prevReset = c.Reset

	var sum float32
	anyInFlight := false
	anyJustArrived := false
	for i, v := range e.voices {
		wasAtTarget := v.IsAtTarget()
		if resetEdge {
			v.ResetStartFrequency(e.table.ResetFrequency(i))
		}
		v.ComputeDetune(c.Detune)
		if changed {
			v.SetTargetFrequency(e.table.Frequency(i))
		}
		sum += v.Process(c.AnimationRate, c.ControlPoint1, c.ControlPoint2, e.trace)
		atTarget := v.IsAtTarget()
		if !atTarget {
			anyInFlight = true
		} else if !wasAtTarget {
			anyJustArrived = true
		}
	}
	e.inFlight = anyInFlight

	if anyJustArrived {
		e.pulse.Trigger()
	}

	out := sum * e.volume
	if c.Cutoff > 0 {
		e.tone.SetCutoff(c.Cutoff)
		if !e.toneOn {
			// Re-enabled: drop the state left from the last time it ran.
			// On failure the old ladder keeps running.
			_ = e.tone.Reset()
			e.toneOn = true
		}
		out = e.tone.Process(out)
	} else {
		e.toneOn = false
	}
	if e.space != nil {
		out = e.space.Process(out)
	}
	return Frame{
		Sample:  out,
		Gate:    !anyInFlight,
		Trigger: e.pulse.Process(),
	}
}

// Render fills dst with consecutive samples for fixed controls. Reset is
// edge-triggered across calls: it fires on the first sample only when the
// previous sample had Reset low, so holding it over several blocks resets
// once.
func (e *Engine) Render(dst []float32, c Controls) {
	for i := range dst {
		dst[i] = e.Process(c).Sample
	}
}

// Settled reports whether every voice was at its target after the last
// processed sample.
func (e *Engine) Settled() bool {
	return !e.inFlight
}

// Table returns the shared frequency table.
func (e *Engine) Table() *FrequencyTable { return e.table }

// VoiceCount returns the number of voices.
func (e *Engine) VoiceCount() int { return len(e.voices) }

// Voice returns voice i (trio voices first).
func (e *Engine) Voice(i int) *Voice { return e.voices[i] }

// RootNote returns the note name of the selected chord row.
func (e *Engine) RootNote() string { return e.table.RootNote() }

// SampleRate returns the engine sample rate.
func (e *Engine) SampleRate() float32 { return e.params.SampleRate }

// Volume returns the applied output scale.
func (e *Engine) Volume() float32 { return e.volume }
