package wavio

import (
	"math"
	"path/filepath"
	"testing"
)

func TestWriteReadMonoRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "tone.wav")
	in := make([]float32, 4800)
	for i := range in {
		in[i] = float32(0.5 * math.Sin(2*math.Pi*440*float64(i)/48000))
	}
	if err := WriteMono(path, in, 48000); err != nil {
		t.Fatalf("WriteMono: %v", err)
	}
	out, rate, err := ReadMono(path)
	if err != nil {
		t.Fatalf("ReadMono: %v", err)
	}
	if rate != 48000 || len(out) != len(in) {
		t.Fatalf("unexpected shape: rate=%d frames=%d", rate, len(out))
	}
	for i := range in {
		// 16-bit quantization.
		if d := math.Abs(float64(out[i] - in[i])); d > 1e-3 {
			t.Fatalf("sample %d: got %g want %g", i, out[i], in[i])
		}
	}
}

func TestReadMonoMissingFile(t *testing.T) {
	if _, _, err := ReadMono(filepath.Join(t.TempDir(), "nope.wav")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestResample(t *testing.T) {
	in := make([]float32, 9600)
	for i := range in {
		in[i] = float32(math.Sin(2 * math.Pi * 200 * float64(i) / 96000))
	}
	same, err := Resample(in, 96000, 96000)
	if err != nil || len(same) != len(in) {
		t.Fatalf("equal rates should pass through: len=%d err=%v", len(same), err)
	}
	out, err := Resample(in, 96000, 48000)
	if err != nil {
		t.Fatalf("Resample: %v", err)
	}
	if math.Abs(float64(len(out)-4800)) > 64 {
		t.Fatalf("expected about 4800 frames, got %d", len(out))
	}
	if _, err := Resample(in, 0, 48000); err == nil {
		t.Fatalf("expected error for zero rate")
	}
}

func TestCaptureDropsWhenFull(t *testing.T) {
	c := NewCapture(1000, 0.01)
	c.Write([]float32{1, 2, 3, 4, 5, 6})
	if c.Full() || c.Len() != 6 {
		t.Fatalf("expected 6 frames, got %d", c.Len())
	}
	c.Write([]float32{7, 8, 9, 10, 11, 12})
	if !c.Full() || c.Len() != 10 {
		t.Fatalf("expected a full 10-frame capture, got %d", c.Len())
	}
	c.Write([]float32{13})
	s := c.Samples()
	if len(s) != 10 || s[9] != 10 {
		t.Fatalf("unexpected samples %v", s)
	}

	path := filepath.Join(t.TempDir(), "cap.wav")
	if err := c.Save(path, 0); err != nil {
		t.Fatalf("Save: %v", err)
	}
	_, rate, err := ReadMono(path)
	if err != nil || rate != 1000 {
		t.Fatalf("saved capture: rate=%d err=%v", rate, err)
	}
}
