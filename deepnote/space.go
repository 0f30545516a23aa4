package deepnote

import (
	"fmt"

	dspconv "github.com/cwbudde/algo-dsp/dsp/conv"

	"github.com/cwbudde/algo-deepnote/internal/wavio"
	"github.com/cwbudde/algo-deepnote/irsynth"
)

const spacePartSize = 128

// SpaceConvolver places the voice bank in a room by convolving the output
// with a mono impulse response. Input is staged one partition at a time, so
// the wet path lags the dry path by one partition and Process never
// allocates.
type SpaceConvolver struct {
	sampleRate int
	partSize   int
	irLen      int

	ola *dspconv.StreamingOverlapAddT[float32, complex64]

	in   []float32
	out  []float32
	fill int

	wet float32
	dry float32
}

// NewSpaceConvolver creates a convolver with an identity IR.
func NewSpaceConvolver(sampleRate int, wet, dry float32) (*SpaceConvolver, error) {
	c := &SpaceConvolver{
		sampleRate: sampleRate,
		partSize:   spacePartSize,
		in:         make([]float32, spacePartSize),
		out:        make([]float32, spacePartSize),
		wet:        wet,
		dry:        dry,
	}
	if err := c.SetIR([]float32{1.0}); err != nil {
		return nil, err
	}
	return c, nil
}

// SetIR replaces the impulse response and clears history.
func (c *SpaceConvolver) SetIR(ir []float32) error {
	if len(ir) == 0 {
		ir = []float32{1.0}
	}
	ola, err := dspconv.NewStreamingOverlapAdd32(ir, c.partSize)
	if err != nil {
		return fmt.Errorf("space ir: %w", err)
	}
	c.ola = ola
	c.irLen = len(ir)
	c.Reset()
	return nil
}

// SetIRFromWAV loads an IR from WAV, mixing to mono and resampling to the
// engine rate.
func (c *SpaceConvolver) SetIRFromWAV(path string) error {
	ir, rate, err := wavio.ReadMono(path)
	if err != nil {
		return err
	}
	ir, err = wavio.Resample(ir, rate, c.sampleRate)
	if err != nil {
		return err
	}
	return c.SetIR(ir)
}

// SetHall synthesizes a hall IR at the convolver rate and installs it.
func (c *SpaceConvolver) SetHall(cfg irsynth.HallConfig) error {
	cfg.SampleRate = c.sampleRate
	ir, err := irsynth.Hall(cfg)
	if err != nil {
		return fmt.Errorf("hall ir: %w", err)
	}
	return c.SetIR(ir)
}

// IRLen returns the impulse response length in samples.
func (c *SpaceConvolver) IRLen() int { return c.irLen }

// Latency returns the wet-path delay in samples.
func (c *SpaceConvolver) Latency() int { return c.partSize }

// Process mixes one dry sample with the convolved signal.
func (c *SpaceConvolver) Process(x float32) float32 {
	c.in[c.fill] = x
	y := c.out[c.fill]
	c.fill++
	if c.fill == c.partSize {
		if err := c.ola.ProcessBlockTo(c.out, c.in); err != nil {
			// Pass the dry partition through on failure.
			copy(c.out, c.in)
		}
		c.fill = 0
	}
	return c.dry*x + c.wet*y
}

// Reset clears convolver history and the staging partition.
func (c *SpaceConvolver) Reset() {
	if c.ola != nil {
		c.ola.Reset()
	}
	for i := range c.in {
		c.in[i] = 0
		c.out[i] = 0
	}
	c.fill = 0
}
