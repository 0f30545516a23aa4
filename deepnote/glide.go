package deepnote

import (
	"math"

	"github.com/cwbudde/algo-approx"
)

// GlideLaw turns shaped glide progress into a carrier frequency. Frequency
// must return start for shaped == 0 and target for shaped == 1, and be
// monotonic in between.
type GlideLaw interface {
	Frequency(start, target, shaped float32) float32
}

// LinearGlide interpolates linearly in hertz.
type LinearGlide struct{}

func (LinearGlide) Frequency(start, target, shaped float32) float32 {
	return start + (target-start)*shaped
}

// PitchGlide interpolates in log-frequency, so equal progress covers equal
// musical intervals.
type PitchGlide struct{}

func (PitchGlide) Frequency(start, target, shaped float32) float32 {
	if shaped <= 0 {
		return start
	}
	if shaped >= 1 {
		return target
	}
	if start <= 0 || target <= 0 {
		return LinearGlide{}.Frequency(start, target, shaped)
	}
	logRatio := float32(math.Log(float64(target) / float64(start)))
	return start * approx.FastExp(shaped*logRatio)
}
