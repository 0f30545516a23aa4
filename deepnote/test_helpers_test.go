package deepnote

import (
	"math"
	"os"
	"testing"

	"github.com/cwbudde/wav"
	"github.com/go-audio/audio"

	"github.com/cwbudde/algo-deepnote/dsp"
)

// rampChords returns 12 rows where row r (1-based) holds r*100 + voice.
func rampChords(width int) [][]float32 {
	rows := make([][]float32, ChordRows)
	for r := range rows {
		row := make([]float32, width)
		for c := range row {
			row[c] = float32((r+1)*100 + c)
		}
		rows[r] = row
	}
	return rows
}

func newTestVoice(t *testing.T, n int, start float32, animationHz float32) *Voice {
	t.Helper()
	v, err := NewVoice(n, nil)
	if err != nil {
		t.Fatalf("NewVoice: %v", err)
	}
	if err := v.Init(start, 48000, animationHz, dsp.NewSeededRandom(7)); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return v
}

func smallParams(trio, duo int) *Params {
	p := NewDefaultParams()
	p.TrioVoices = trio
	p.DuoVoices = duo
	p.Chords = rampChords(trio + duo)
	return p
}

func runUntilSettled(v *Voice, multiplier float32, limit int) int {
	for n := 1; n <= limit; n++ {
		v.Process(multiplier, 1.0/3.0, 2.0/3.0, nil)
		if v.IsAtTarget() {
			return n
		}
	}
	return -1
}

func directConvolve(x []float32, h []float32) []float32 {
	y := make([]float32, len(x)+len(h)-1)
	for i := 0; i < len(x); i++ {
		for j := 0; j < len(h); j++ {
			y[i+j] += x[i] * h[j]
		}
	}
	return y
}

func maxAbsDiff(a []float32, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	max := 0.0
	for i := 0; i < n; i++ {
		d := math.Abs(float64(a[i] - b[i]))
		if d > max {
			max = d
		}
	}
	return max
}

func windowRMS(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		v := float64(s)
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(samples)))
}

func writeTempIRWav(t *testing.T, data []float32, sampleRate int) string {
	t.Helper()
	f, err := os.CreateTemp("", "ir-*.wav")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
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
		t.Fatalf("wav write: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("wav close: %v", err)
	}
	t.Cleanup(func() { _ = os.Remove(f.Name()) })
	return f.Name()
}
