package main

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-deepnote/deepnote"
)

func TestApplyCommandUpdatesControls(t *testing.T) {
	c := deepnote.DefaultControls()
	steps := []string{"chord 7", "detune 1.5", "rate 2", "curve 0.2 0.9", "cutoff 800", ""}
	for _, line := range steps {
		reset, err := applyCommand(line, &c)
		if err != nil || reset {
			t.Fatalf("%q: reset=%v err=%v", line, reset, err)
		}
	}
	if c.Chord != 7 || c.Detune != 1.5 || c.AnimationRate != 2 || c.ControlPoint1 != 0.2 || c.ControlPoint2 != 0.9 || c.Cutoff != 800 {
		t.Fatalf("controls mismatch: %+v", c)
	}
}

func TestApplyCommandResetAndQuit(t *testing.T) {
	c := deepnote.DefaultControls()
	reset, err := applyCommand("reset", &c)
	if err != nil || !reset {
		t.Fatalf("expected reset request, got reset=%v err=%v", reset, err)
	}
	if _, err := applyCommand("QUIT", &c); !errors.Is(err, errQuit) {
		t.Fatalf("expected errQuit, got %v", err)
	}
}

func TestApplyCommandRejectsBadInput(t *testing.T) {
	c := deepnote.DefaultControls()
	for _, line := range []string{"chord", "chord x", "curve 0.1", "detune -1", "rate -2", "transpose 3"} {
		before := c
		if _, err := applyCommand(line, &c); err == nil {
			t.Fatalf("%q: expected error", line)
		}
		if c != before {
			t.Fatalf("%q: controls changed on error", line)
		}
	}
}
