package irsynth

import (
	"math"
	"testing"
)

func TestHallBasic(t *testing.T) {
	cfg := DefaultHallConfig()
	cfg.DurationS = 0.5
	cfg.Seed = 42
	cfg.NormalizePeak = 0.8

	ir, err := Hall(cfg)
	if err != nil {
		t.Fatalf("Hall: %v", err)
	}
	if len(ir) != int(0.5*48000) {
		t.Fatalf("unexpected length: %d", len(ir))
	}
	maxAbs := 0.0
	energy := 0.0
	for i, v := range ir {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("non-finite sample at %d", i)
		}
		if a := math.Abs(float64(v)); a > maxAbs {
			maxAbs = a
		}
		energy += float64(v * v)
	}
	if energy <= 1e-8 {
		t.Fatalf("expected non-zero energy")
	}
	if math.Abs(maxAbs-0.8) > 1e-3 {
		t.Fatalf("unexpected normalization peak: %.6f", maxAbs)
	}
}

func TestHallDeterministicForSeed(t *testing.T) {
	cfg := DefaultHallConfig()
	cfg.DurationS = 0.2
	cfg.Seed = 99
	a, err := Hall(cfg)
	if err != nil {
		t.Fatalf("first Hall: %v", err)
	}
	b, err := Hall(cfg)
	if err != nil {
		t.Fatalf("second Hall: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("seeded output differs at %d", i)
		}
	}
	cfg.Seed = 100
	c, err := Hall(cfg)
	if err != nil {
		t.Fatalf("third Hall: %v", err)
	}
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("different seeds should give different IRs")
	}
}

func TestHallSilentDuringPreDelay(t *testing.T) {
	cfg := DefaultHallConfig()
	cfg.DurationS = 0.5
	cfg.PreDelayS = 0.02
	ir, err := Hall(cfg)
	if err != nil {
		t.Fatalf("Hall: %v", err)
	}
	gap := int(0.02*48000) - 1
	for i := 0; i < gap; i++ {
		if ir[i] != 0 {
			t.Fatalf("expected silence before the first reflection, got %g at %d", ir[i], i)
		}
	}
}

func TestHallTailDecays(t *testing.T) {
	cfg := DefaultHallConfig()
	cfg.DurationS = 3
	cfg.FadeOutS = 0
	ir, err := Hall(cfg)
	if err != nil {
		t.Fatalf("Hall: %v", err)
	}
	early := rms(ir[int(0.2*48000):int(0.4*48000)])
	late := rms(ir[int(2.4*48000):int(2.6*48000)])
	if !(late < early*0.2) {
		t.Fatalf("expected decaying tail: early=%g late=%g", early, late)
	}
}

func TestHallConfigValidation(t *testing.T) {
	cases := map[string]func(c *HallConfig){
		"sample rate": func(c *HallConfig) { c.SampleRate = 1000 },
		"duration":    func(c *HallConfig) { c.DurationS = 0 },
		"pre-delay":   func(c *HallConfig) { c.PreDelayS = 10 },
		"brightness":  func(c *HallConfig) { c.Brightness = 0 },
		"decay":       func(c *HallConfig) { c.HighDecayS = 0 },
		"normalize":   func(c *HallConfig) { c.NormalizePeak = 0 },
	}
	for name, mutate := range cases {
		cfg := DefaultHallConfig()
		mutate(&cfg)
		if _, err := Hall(cfg); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func rms(x []float32) float64 {
	var sum float64
	for _, v := range x {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum / float64(len(x)))
}
