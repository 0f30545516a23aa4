// Package irsynth synthesizes mono hall impulse responses for the space
// stage when no recorded IR is available.
package irsynth

import (
	"fmt"
	"math"
	"math/rand"
)

// HallConfig controls hall IR generation.
type HallConfig struct {
	SampleRate  int
	DurationS   float64
	Seed        int64
	DirectLevel float64
	PreDelayS   float64 // gap between the direct path and the first reflection
	EarlyCount  int
	EarlySpanS  float64 // early reflections land in [PreDelayS, PreDelayS+EarlySpanS)
	LateLevel   float64
	Brightness  float64
	LowDecayS   float64 // RT60-ish decay of the dark tail band
	HighDecayS  float64 // RT60-ish decay of the bright tail band
	FadeOutS    float64 // cosine fade at the end; 0 = none

	NormalizePeak float64
}

// DefaultHallConfig returns a large, dark hall.
func DefaultHallConfig() HallConfig {
	return HallConfig{
		SampleRate:    48000,
		DurationS:     3.0,
		Seed:          1,
		DirectLevel:   0.0,
		PreDelayS:     0.025,
		EarlyCount:    32,
		EarlySpanS:    0.08,
		LateLevel:     0.08,
		Brightness:    0.6,
		LowDecayS:     2.8,
		HighDecayS:    0.9,
		FadeOutS:      0.05,
		NormalizePeak: 0.9,
	}
}

func (c *HallConfig) Validate() error {
	if c.SampleRate < 8000 {
		return fmt.Errorf("sample rate too low: %d", c.SampleRate)
	}
	if c.DurationS <= 0 {
		return fmt.Errorf("duration must be > 0")
	}
	if c.PreDelayS < 0 || c.EarlySpanS < 0 {
		return fmt.Errorf("pre-delay and early span must be >= 0")
	}
	if c.PreDelayS >= c.DurationS {
		return fmt.Errorf("pre-delay must be shorter than the duration")
	}
	if c.EarlyCount < 0 {
		return fmt.Errorf("early count must be >= 0")
	}
	if c.DirectLevel < 0 || c.LateLevel < 0 {
		return fmt.Errorf("levels must be >= 0")
	}
	if c.Brightness <= 0 {
		return fmt.Errorf("brightness must be > 0")
	}
	if c.LowDecayS <= 0 || c.HighDecayS <= 0 {
		return fmt.Errorf("decay seconds must be > 0")
	}
	if c.FadeOutS < 0 {
		return fmt.Errorf("fade-out must be >= 0")
	}
	if c.NormalizePeak <= 0 {
		return fmt.Errorf("normalize peak must be > 0")
	}
	return nil
}

// Hall synthesizes a mono hall IR: optional direct path, a cluster of early
// reflections and a two-band diffuse tail whose bands decay at LowDecayS and
// HighDecayS. Output is peak-normalized to NormalizePeak.
func Hall(cfg HallConfig) ([]float32, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	n := int(math.Round(cfg.DurationS * float64(cfg.SampleRate)))
	if n < 1 {
		n = 1
	}
	buf := make([]float64, n)
	sr := float64(cfg.SampleRate)
	rng := rand.New(rand.NewSource(cfg.Seed))

	buf[0] += cfg.DirectLevel

	for i := 0; i < cfg.EarlyCount; i++ {
		t := cfg.PreDelayS + cfg.EarlySpanS*rng.Float64()
		idx := int(t * sr)
		if idx <= 0 || idx >= n {
			continue
		}
		amp := (0.15 + 0.35*rng.Float64()) * decayGain(t, cfg.LowDecayS)
		amp *= math.Pow(0.5+0.5*rng.Float64(), 1.0/cfg.Brightness)
		if rng.Intn(2) == 0 {
			amp = -amp
		}
		buf[idx] += amp
	}

	if cfg.LateLevel > 0 {
		start := int(cfg.PreDelayS * sr)
		brightMix := 0.4 * cfg.Brightness
		var lp, hp, prevNoise float64
		for i := start; i < n; i++ {
			t := float64(i-start) / sr
			noise := rng.NormFloat64()
			// One-pole lowpass for the dark band, first difference for air.
			lp = 0.97*lp + 0.03*noise
			hp = 0.5 * (noise - prevNoise)
			prevNoise = noise

			// Fade the tail in over the early span so it swells out of the
			// reflections instead of starting with a step.
			swell := 1.0
			if cfg.EarlySpanS > 0 && t < cfg.EarlySpanS {
				swell = t / cfg.EarlySpanS
			}
			late := 4*lp*decayGain(t, cfg.LowDecayS) + brightMix*hp*decayGain(t, cfg.HighDecayS)
			buf[i] += cfg.LateLevel * swell * late
		}
	}

	removeDC(buf, 0.995)
	fadeOut(buf, cfg.FadeOutS, cfg.SampleRate)

	peak := maxAbs(buf)
	if peak < 1e-12 {
		peak = 1e-12
	}
	s := cfg.NormalizePeak / peak
	out := make([]float32, n)
	for i, v := range buf {
		out[i] = float32(v * s)
	}
	return out, nil
}

// decayGain is the amplitude after t seconds of a decay reaching -60 dB at
// rt60 seconds.
func decayGain(t, rt60 float64) float64 {
	return math.Exp(-6.907755 * t / rt60)
}

func removeDC(x []float64, r float64) {
	prevIn := 0.0
	prevOut := 0.0
	for i := range x {
		y := x[i] - prevIn + r*prevOut
		prevIn = x[i]
		prevOut = y
		x[i] = y
	}
}

func fadeOut(buf []float64, fadeS float64, sampleRate int) {
	if fadeS <= 0 || len(buf) == 0 {
		return
	}
	fadeSamples := int(math.Round(fadeS * float64(sampleRate)))
	if fadeSamples > len(buf) {
		fadeSamples = len(buf)
	}
	start := len(buf) - fadeSamples
	for i := 0; i < fadeSamples; i++ {
		t := float64(i) / float64(fadeSamples)
		buf[start+i] *= 0.5 * (1.0 + math.Cos(t*math.Pi))
	}
}

func maxAbs(x []float64) float64 {
	m := 0.0
	for _, v := range x {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}
