package deepnote

import (
	"fmt"

	dspcore "github.com/cwbudde/algo-dsp/dsp/core"
	"github.com/cwbudde/algo-dsp/dsp/filter/moog"
)

const (
	minToneCutoff     = 20.0
	defaultToneCutoff = 10000.0
)

// ToneFilter is the output lowpass: a Moog ladder whose cutoff follows the
// cutoff control. Cutoff changes are applied only when the value moves.
type ToneFilter struct {
	filter     *moog.Filter
	sampleRate float64
	resonance  float64
	cutoff     float64
	maxCutoff  float64
}

// NewToneFilter creates a ladder filter for sampleRate with the given
// resonance.
func NewToneFilter(sampleRate float32, resonance float32) (*ToneFilter, error) {
	maxCutoff := 0.45 * float64(sampleRate)
	cutoff := defaultToneCutoff
	if cutoff > maxCutoff {
		cutoff = maxCutoff
	}
	t := &ToneFilter{
		sampleRate: float64(sampleRate),
		resonance:  float64(resonance),
		cutoff:     cutoff,
		maxCutoff:  maxCutoff,
	}
	if err := t.Reset(); err != nil {
		return nil, err
	}
	return t, nil
}

// Reset replaces the ladder with a fresh one at the current cutoff, dropping
// all filter state. It allocates, so call it on control transitions only.
func (t *ToneFilter) Reset() error {
	f, err := moog.New(t.sampleRate,
		moog.WithVariant(moog.VariantHuovilainen),
		moog.WithCutoffHz(t.cutoff),
		moog.WithResonance(t.resonance),
	)
	if err != nil {
		return fmt.Errorf("tone filter: %w", err)
	}
	t.filter = f
	return nil
}

// SetCutoff moves the cutoff, clamped to [20 Hz, 0.45*sampleRate].
func (t *ToneFilter) SetCutoff(hz float32) {
	c := float64(hz)
	if !(c >= minToneCutoff) {
		c = minToneCutoff
	}
	if c > t.maxCutoff {
		c = t.maxCutoff
	}
	if c == t.cutoff {
		return
	}
	if err := t.filter.SetCutoffHz(c); err != nil {
		return
	}
	t.cutoff = c
}

// Cutoff returns the applied cutoff in Hz.
func (t *ToneFilter) Cutoff() float32 {
	return float32(t.cutoff)
}

// Process filters one sample.
func (t *ToneFilter) Process(x float32) float32 {
	return float32(dspcore.FlushDenormals(t.filter.ProcessSample(float64(x))))
}
