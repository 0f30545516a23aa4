package dsp

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// ErrInvalidRange is returned when a range is inverted or not finite.
var ErrInvalidRange = errors.New("invalid range")

// Range is a half-open interval [low, high). A degenerate range (low == high)
// holds exactly one value.
type Range struct {
	low  float32
	high float32
}

// NewRange validates and returns a range.
func NewRange(low, high float32) (Range, error) {
	if !isFinite(low) || !isFinite(high) {
		return Range{}, fmt.Errorf("%w: bounds must be finite (low=%g high=%g)", ErrInvalidRange, low, high)
	}
	if low > high {
		return Range{}, fmt.Errorf("%w: low %g > high %g", ErrInvalidRange, low, high)
	}
	return Range{low: low, high: high}, nil
}

// MustRange is NewRange for package-level constants. It panics on error.
func MustRange(low, high float32) Range {
	r, err := NewRange(low, high)
	if err != nil {
		panic(err)
	}
	return r
}

func (r Range) Low() float32  { return r.low }
func (r Range) High() float32 { return r.high }

// Span returns high - low.
func (r Range) Span() float32 { return r.high - r.low }

// Contains reports whether x lies in [low, high).
func (r Range) Contains(x float32) bool {
	if r.low == r.high {
		return x == r.low
	}
	return x >= r.low && x < r.high
}

// Clamp limits x to [low, high].
func (r Range) Clamp(x float32) float32 {
	if x < r.low {
		return r.low
	}
	if x > r.high {
		return r.high
	}
	return x
}

// Sample draws one value from the range using rng.
func (r Range) Sample(rng RandomFunc) float32 {
	if r.low == r.high {
		return r.low
	}
	return rng(r.low, r.high)
}

// RandomFunc returns a value uniformly distributed in [low, high).
// Engines only call it during initialization, never per sample.
type RandomFunc func(low, high float32) float32

// NewSeededRandom returns a deterministic RandomFunc.
func NewSeededRandom(seed int64) RandomFunc {
	src := rand.New(rand.NewSource(seed))
	return func(low, high float32) float32 {
		v := low + src.Float32()*(high-low)
		if v >= high && high > low {
			// float32 rounding can land exactly on high
			v = math.Nextafter32(high, low)
		}
		return v
	}
}

// NewRandom returns a RandomFunc seeded from the wall clock.
func NewRandom() RandomFunc {
	return NewSeededRandom(time.Now().UnixNano())
}

func isFinite(x float32) bool {
	return !math.IsNaN(float64(x)) && !math.IsInf(float64(x), 0)
}

func clamp01(x float32) float32 {
	if x < 0 || math.IsNaN(float64(x)) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
