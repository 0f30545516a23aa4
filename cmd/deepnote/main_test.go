package main

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/algo-deepnote/deepnote"
	"github.com/cwbudde/algo-deepnote/dsp"
	"github.com/cwbudde/algo-deepnote/internal/wavio"
)

func newFastEngine(t *testing.T) *deepnote.Engine {
	t.Helper()
	p := deepnote.NewDefaultParams()
	p.AnimationRateRange = dsp.MustRange(10, 10)
	e, err := deepnote.New(p, dsp.NewSeededRandom(9))
	if err != nil {
		t.Fatalf("deepnote.New: %v", err)
	}
	return e
}

func TestWriteTraceEmitsDecimatedRows(t *testing.T) {
	e := newFastEngine(t)
	var buf bytes.Buffer
	if err := writeTrace(&buf, e, deepnote.DefaultControls(), 100, 10); err != nil {
		t.Fatalf("writeTrace: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if !strings.HasPrefix(lines[0], "sample,voice,start_freq") {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if want := 1 + 10*e.VoiceCount(); len(lines) != want {
		t.Fatalf("expected %d lines, got %d", want, len(lines))
	}
	if !strings.HasPrefix(lines[len(lines)-1], "90,8,") {
		t.Fatalf("unexpected last row %q", lines[len(lines)-1])
	}
}

func TestProbeFindsSettledTargets(t *testing.T) {
	p := deepnote.NewDefaultParams()
	p.TrioVoices, p.DuoVoices = 1, 0
	p.Waveform = dsp.WaveSine
	p.AnimationRateRange = dsp.MustRange(10, 10)
	chords := make([][]float32, deepnote.ChordRows)
	for i := range chords {
		chords[i] = []float32{float32(220 + 20*i)}
	}
	p.Chords = chords
	e, err := deepnote.New(p, dsp.NewSeededRandom(1))
	if err != nil {
		t.Fatalf("deepnote.New: %v", err)
	}
	c := deepnote.DefaultControls()
	c.Chord = 5
	c.Detune = 0
	c.Cutoff = 0

	results, settledAfter, _, err := measureSettled(e, c, 10, 1, 16384)
	if err != nil {
		t.Fatalf("measureSettled: %v", err)
	}
	if settledAfter > 0.2 {
		t.Fatalf("10 Hz glide should settle within 0.2 s, took %f", settledAfter)
	}
	if len(results) != 1 || results[0].Target != 300 {
		t.Fatalf("unexpected results: %+v", results)
	}
	if math.Abs(results[0].Cents) > 5 {
		t.Fatalf("peak too far from target: %+v", results[0])
	}

	var buf bytes.Buffer
	if err := probe(&buf, e, c, 10, 1, 16384); err != nil {
		t.Fatalf("probe: %v", err)
	}
	if !strings.Contains(buf.String(), "300.00") {
		t.Fatalf("expected target in report:\n%s", buf.String())
	}
}

func TestPrintCurveEndpoints(t *testing.T) {
	var buf bytes.Buffer
	printCurve(&buf, dsp.LinearShaper(), 5)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 || lines[0] != "0.0000,0.0000" || lines[4] != "1.0000,1.0000" || lines[2] != "0.5000,0.5000" {
		t.Fatalf("unexpected curve output:\n%s", buf.String())
	}
}

func TestRunIRWritesHall(t *testing.T) {
	saved, savedOut := irHall, irOutput
	defer func() { irHall, irOutput = saved, savedOut }()

	irHall.DurationS = 0.2
	irOutput = filepath.Join(t.TempDir(), "hall.wav")
	if err := runIR(irCmd, nil); err != nil {
		t.Fatalf("runIR: %v", err)
	}
	ir, rate, err := wavio.ReadMono(irOutput)
	if err != nil {
		t.Fatalf("ReadMono: %v", err)
	}
	if rate != irHall.SampleRate || len(ir) != int(0.2*float64(irHall.SampleRate)) {
		t.Fatalf("unexpected IR shape: rate=%d frames=%d", rate, len(ir))
	}
	if peak, _ := irStats(ir); peak < 0.5 || peak > 1 {
		t.Fatalf("expected normalized peak near 0.9, got %g", peak)
	}

	irHall.Brightness = 0
	if err := runIR(irCmd, nil); err == nil {
		t.Fatalf("expected error for invalid hall")
	}
}
