package wavio

import "sync/atomic"

// Capture records a live mono stream into a buffer allocated up front, so
// the audio callback never allocates. Once full, further samples are dropped.
type Capture struct {
	buf        []float32
	n          atomic.Int64
	sampleRate int
}

// NewCapture allocates room for seconds of audio at sampleRate.
func NewCapture(sampleRate int, seconds float64) *Capture {
	frames := int(float64(sampleRate) * seconds)
	if frames < 1 {
		frames = 1
	}
	return &Capture{buf: make([]float32, frames), sampleRate: sampleRate}
}

// Write appends a block. Safe to call from the audio thread; only one writer
// is supported.
func (c *Capture) Write(block []float32) {
	n := int(c.n.Load())
	if n >= len(c.buf) {
		return
	}
	copied := copy(c.buf[n:], block)
	c.n.Store(int64(n + copied))
}

// Len returns the number of captured frames.
func (c *Capture) Len() int {
	return int(c.n.Load())
}

// Full reports whether the buffer is exhausted.
func (c *Capture) Full() bool {
	return c.Len() >= len(c.buf)
}

// Samples returns the captured frames.
func (c *Capture) Samples() []float32 {
	return c.buf[:c.Len()]
}

// Save writes the capture to path, resampled to outRate when it differs
// from the capture rate (outRate <= 0 keeps the capture rate).
func (c *Capture) Save(path string, outRate int) error {
	data := c.Samples()
	rate := c.sampleRate
	if outRate > 0 && outRate != rate {
		res, err := Resample(data, rate, outRate)
		if err != nil {
			return err
		}
		data = res
		rate = outRate
	}
	return WriteMono(path, data, rate)
}
