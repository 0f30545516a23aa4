package audioout

import (
	"github.com/gordonklaus/portaudio"
)

type portAudioBackend struct {
	stream *portaudio.Stream
}

func newPortAudioBackend(sampleRate int, src Source) (*portAudioBackend, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	// mono out
	stream, err := portaudio.OpenDefaultStream(0, 1, float64(sampleRate), portaudio.FramesPerBufferUnspecified, func(out []float32) {
		src.Render(out)
	})
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	return &portAudioBackend{stream: stream}, nil
}

func (b *portAudioBackend) Start() error {
	return b.stream.Start()
}

func (b *portAudioBackend) Close() error {
	err := b.stream.Close()
	// ignore Terminate error
	portaudio.Terminate()
	return err
}
