// Package audioout streams a mono float32 source to a real-time audio device.
package audioout

import (
	"fmt"
	"strings"
)

// Source fills dst with the next block of mono samples. Render runs on the
// audio thread and must not block.
type Source interface {
	Render(dst []float32)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(dst []float32)

func (f SourceFunc) Render(dst []float32) { f(dst) }

// Backend is an open output stream.
type Backend interface {
	Start() error
	Close() error
}

// Backends lists the supported backend names.
var Backends = []string{"oto", "portaudio"}

// Open opens the named backend for a mono stream at sampleRate.
func Open(name string, sampleRate int, src Source) (Backend, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", sampleRate)
	}
	if src == nil {
		return nil, fmt.Errorf("nil audio source")
	}
	switch strings.ToLower(name) {
	case "", "oto":
		return newOtoBackend(sampleRate, src)
	case "portaudio":
		return newPortAudioBackend(sampleRate, src)
	}
	return nil, fmt.Errorf("unknown backend %q (expected %s)", name, strings.Join(Backends, "|"))
}
