package main

import (
	"sync/atomic"

	"github.com/cwbudde/algo-deepnote/deepnote"
	"github.com/cwbudde/algo-deepnote/internal/wavio"
)

// host drives the engine from the audio callback. Controls arrive from other
// goroutines through atomics, so Render never waits on a lock.
type host struct {
	engine   *deepnote.Engine
	controls atomic.Pointer[deepnote.Controls]
	reset    atomic.Bool
	gain     float32
	capture  *wavio.Capture
	trigger  bool

	// Published by the audio thread for the control goroutine to log.
	gate      atomic.Bool
	triggers  atomic.Int64
	chordRow  atomic.Int32
	processed atomic.Int64
}

func newHost(e *deepnote.Engine, c deepnote.Controls, gain float32) *host {
	h := &host{engine: e, gain: gain}
	h.SetControls(c)
	return h
}

// SetControls publishes a new control snapshot. A Reset in c is turned into
// a one-shot request.
func (h *host) SetControls(c deepnote.Controls) {
	if c.Reset {
		h.reset.Store(true)
		c.Reset = false
	}
	h.controls.Store(&c)
}

// Controls returns the current snapshot.
func (h *host) Controls() deepnote.Controls {
	return *h.controls.Load()
}

// RequestReset re-seeds every voice from the start chord on the next block.
func (h *host) RequestReset() {
	h.reset.Store(true)
}

func (h *host) Render(dst []float32) {
	c := *h.controls.Load()
	gate := h.gate.Load()
	var triggers int64
	for i := range dst {
		if i == 0 && h.reset.Swap(false) {
			c.Reset = true
		} else {
			c.Reset = false
		}
		f := h.engine.Process(c)
		dst[i] = f.Sample * h.gain
		if f.Trigger && !h.trigger {
			triggers++
		}
		h.trigger = f.Trigger
		gate = f.Gate
	}
	h.gate.Store(gate)
	h.triggers.Add(triggers)
	h.chordRow.Store(int32(h.engine.Table().CurrentIndex()))
	h.processed.Add(int64(len(dst)))
	if h.capture != nil {
		h.capture.Write(dst)
	}
}
