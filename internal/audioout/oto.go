package audioout

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/ebitengine/oto/v3"
)

type otoBackend struct {
	ctx    *oto.Context
	player *oto.Player
	mu     sync.Mutex
}

func newOtoBackend(sampleRate int, src Source) (*otoBackend, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready
	return &otoBackend{
		ctx:    ctx,
		player: ctx.NewPlayer(newSampleReader(src, 1024)),
	}, nil
}

func (b *otoBackend) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.player == nil {
		return nil
	}
	b.player.Play()
	return b.player.Err()
}

func (b *otoBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.player == nil {
		return nil
	}
	err := b.player.Close()
	b.player = nil
	return err
}

// sampleReader renders the source into little-endian float32 bytes.
type sampleReader struct {
	src     Source
	samples []float32
}

func newSampleReader(src Source, frames int) *sampleReader {
	return &sampleReader{src: src, samples: make([]float32, frames)}
}

func (r *sampleReader) Read(p []byte) (int, error) {
	n := len(p) / 4
	if n > len(r.samples) {
		// oto asks for about the same size every call.
		r.samples = make([]float32, n)
	}
	block := r.samples[:n]
	r.src.Render(block)
	for i, s := range block {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(s))
	}
	return n * 4, nil
}
