package wavio

import (
	"fmt"
	"os"
	"path/filepath"

	dspresample "github.com/cwbudde/algo-dsp/dsp/resample"
	"github.com/cwbudde/wav"
	"github.com/go-audio/audio"
)

// ReadMono decodes a WAV file and mixes all channels down to mono.
func ReadMono(path string) ([]float32, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("invalid wav file: %s", path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, err
	}
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, 0, fmt.Errorf("invalid wav buffer: %s", path)
	}
	if buf.Format.SampleRate <= 0 {
		return nil, 0, fmt.Errorf("invalid wav sample-rate: %d", buf.Format.SampleRate)
	}
	ch := buf.Format.NumChannels
	frames := len(buf.Data) / ch
	if frames == 0 {
		return nil, 0, fmt.Errorf("empty wav data: %s", path)
	}
	out := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for c := 0; c < ch; c++ {
			sum += buf.Data[i*ch+c]
		}
		out[i] = sum / float32(ch)
	}
	return out, buf.Format.SampleRate, nil
}

// Resample converts in from fromRate to toRate. Equal rates return in.
func Resample(in []float32, fromRate int, toRate int) ([]float32, error) {
	if fromRate == toRate {
		return in, nil
	}
	if fromRate <= 0 || toRate <= 0 {
		return nil, fmt.Errorf("invalid resample rates %d -> %d", fromRate, toRate)
	}
	r, err := dspresample.NewForRates(
		float64(fromRate),
		float64(toRate),
		dspresample.WithQuality(dspresample.QualityBest),
	)
	if err != nil {
		return nil, err
	}
	in64 := make([]float64, len(in))
	for i, v := range in {
		in64[i] = float64(v)
	}
	out64 := r.Process(in64)
	out := make([]float32, len(out64))
	for i, v := range out64 {
		out[i] = float32(v)
	}
	return out, nil
}

// WriteMono writes 16-bit PCM mono samples, creating parent directories.
func WriteMono(path string, data []float32, sampleRate int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)

	buf := &audio.Float32Buffer{
		Format: &audio.Format{
			SampleRate:  sampleRate,
			NumChannels: 1,
		},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}
