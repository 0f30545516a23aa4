package main

import (
	"testing"

	"github.com/cwbudde/algo-deepnote/deepnote"
	"github.com/cwbudde/algo-deepnote/dsp"
	"github.com/cwbudde/algo-deepnote/internal/wavio"
)

func newTestHost(t *testing.T, rate float32) *host {
	t.Helper()
	p := deepnote.NewDefaultParams()
	p.AnimationRateRange = dsp.MustRange(rate, rate)
	e, err := deepnote.New(p, dsp.NewSeededRandom(3))
	if err != nil {
		t.Fatalf("deepnote.New: %v", err)
	}
	return newHost(e, deepnote.DefaultControls(), 0.5)
}

func TestHostPublishesStatus(t *testing.T) {
	h := newTestHost(t, 20)
	block := make([]float32, 512)
	for i := 0; i < 10; i++ {
		h.Render(block)
	}
	if !h.gate.Load() {
		t.Fatalf("expected gate high after voices settled")
	}
	if h.triggers.Load() == 0 {
		t.Fatalf("expected arrival triggers to be counted")
	}
	if got := h.chordRow.Load(); got != deepnote.DefaultBaseRoot {
		t.Fatalf("expected chord row %d, got %d", deepnote.DefaultBaseRoot, got)
	}
	if h.processed.Load() != 5120 {
		t.Fatalf("expected 5120 processed samples, got %d", h.processed.Load())
	}
}

func TestHostResetIsOneShot(t *testing.T) {
	h := newTestHost(t, 20)
	block := make([]float32, 512)
	for i := 0; i < 10; i++ {
		h.Render(block)
	}

	c := h.Controls()
	c.Reset = true
	h.SetControls(c)
	if h.Controls().Reset {
		t.Fatalf("stored controls must not keep the reset flag")
	}
	h.Render(block)
	if h.gate.Load() {
		t.Fatalf("expected voices to glide again after reset")
	}
	for i := 0; i < 10; i++ {
		h.Render(block)
	}
	if !h.gate.Load() {
		t.Fatalf("expected voices to settle again")
	}
}

func TestHostCapturesOutput(t *testing.T) {
	h := newTestHost(t, 1)
	h.capture = wavio.NewCapture(48000, 0.01)
	first := make([]float32, 256)
	second := make([]float32, 256)
	h.Render(first)
	h.Render(second)
	h.Render(make([]float32, 256))
	if !h.capture.Full() || h.capture.Len() != 480 {
		t.Fatalf("expected 480 captured frames, got %d", h.capture.Len())
	}
	got := h.capture.Samples()
	if got[0] != first[0] || got[255] != first[255] || got[479] != second[223] {
		t.Fatalf("capture does not match rendered output")
	}
}
