package deepnote

import (
	"math"
	"testing"
)

func toneRMSForSine(t *testing.T, cutoff float32, hz float64) float64 {
	t.Helper()
	f, err := NewToneFilter(48000, 0)
	if err != nil {
		t.Fatalf("NewToneFilter: %v", err)
	}
	f.SetCutoff(cutoff)
	out := make([]float32, 9600)
	for i := range out {
		x := float32(math.Sin(2 * math.Pi * hz * float64(i) / 48000))
		out[i] = f.Process(x)
	}
	return windowRMS(out[4800:])
}

func TestToneFilterAttenuatesAboveCutoff(t *testing.T) {
	pass := toneRMSForSine(t, 8000, 200)
	stop := toneRMSForSine(t, 300, 8000)
	if !(stop < pass*0.1) {
		t.Fatalf("expected strong attenuation: pass=%g stop=%g", pass, stop)
	}
}

func TestToneFilterClampsCutoff(t *testing.T) {
	f, err := NewToneFilter(48000, 0)
	if err != nil {
		t.Fatalf("NewToneFilter: %v", err)
	}
	f.SetCutoff(1)
	if f.Cutoff() != 20 {
		t.Fatalf("expected 20 Hz floor, got %g", f.Cutoff())
	}
	f.SetCutoff(1e6)
	if f.Cutoff() != 0.45*48000 {
		t.Fatalf("expected 0.45*fs ceiling, got %g", f.Cutoff())
	}
	f.SetCutoff(float32(math.NaN()))
	if f.Cutoff() != 20 {
		t.Fatalf("NaN cutoff should clamp to floor, got %g", f.Cutoff())
	}
}

func TestToneFilterResetClearsState(t *testing.T) {
	f, err := NewToneFilter(48000, 2)
	if err != nil {
		t.Fatalf("NewToneFilter: %v", err)
	}
	f.SetCutoff(200)
	for i := 0; i < 2000; i++ {
		f.Process(1)
	}
	if f.Process(0) == 0 {
		t.Fatalf("expected ringing state before reset")
	}
	if err := f.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if f.Cutoff() != 200 {
		t.Fatalf("reset should keep the cutoff, got %g", f.Cutoff())
	}
	for i := 0; i < 64; i++ {
		if y := f.Process(0); y != 0 {
			t.Fatalf("sample %d: expected silence after reset, got %g", i, y)
		}
	}
}
