package analysis

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	algofft "github.com/cwbudde/algo-fft"
)

// Spectrum is a Welch-averaged magnitude spectrum (Hann window, 50% hop).
type Spectrum struct {
	SampleRate int
	FFTSize    int
	Frames     int
	BinHz      float64
	Magnitude  []float64 // FFTSize/2+1 bins
}

// Peak is a spectral maximum with parabolic frequency refinement.
type Peak struct {
	Hz        float64
	Magnitude float64
	Bin       int
}

// NewSpectrum analyzes samples with power-of-two fftSize frames.
func NewSpectrum(samples []float32, sampleRate int, fftSize int) (*Spectrum, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", sampleRate)
	}
	if fftSize < 8 || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("fft size must be a power of two >= 8, got %d", fftSize)
	}
	if len(samples) < fftSize {
		return nil, fmt.Errorf("need at least %d samples, got %d", fftSize, len(samples))
	}
	plan, err := algofft.NewPlanReal64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("fft plan: %w", err)
	}

	hann := make([]float64, fftSize)
	var windowSum float64
	for i := range hann {
		hann[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(fftSize-1))
		windowSum += hann[i]
	}

	nBins := fftSize/2 + 1
	spec := make([]complex128, nBins)
	buf := make([]float64, fftSize)
	s := &Spectrum{
		SampleRate: sampleRate,
		FFTSize:    fftSize,
		BinHz:      float64(sampleRate) / float64(fftSize),
		Magnitude:  make([]float64, nBins),
	}
	hop := fftSize / 2
	for pos := 0; pos+fftSize <= len(samples); pos += hop {
		for i := 0; i < fftSize; i++ {
			buf[i] = float64(samples[pos+i]) * hann[i]
		}
		plan.Forward(spec, buf)
		for k := 0; k < nBins; k++ {
			s.Magnitude[k] += cmplx.Abs(spec[k])
		}
		s.Frames++
	}
	// Normalize so a full-scale sine reads about 1 at its bin.
	scale := 2 / (windowSum * float64(s.Frames))
	for k := range s.Magnitude {
		s.Magnitude[k] *= scale
	}
	return s, nil
}

// Peaks returns up to count local maxima between minHz and maxHz, strongest
// first.
func (s *Spectrum) Peaks(minHz, maxHz float64, count int) []Peak {
	lo, hi := s.binRange(minHz, maxHz)
	var peaks []Peak
	for k := lo; k <= hi; k++ {
		m := s.Magnitude[k]
		if m <= s.Magnitude[k-1] || m < s.Magnitude[k+1] {
			continue
		}
		peaks = append(peaks, s.refine(k))
	}
	sort.Slice(peaks, func(i, j int) bool { return peaks[i].Magnitude > peaks[j].Magnitude })
	if count > 0 && len(peaks) > count {
		peaks = peaks[:count]
	}
	return peaks
}

// PeakNear returns the strongest bin within spanHz of centerHz.
func (s *Spectrum) PeakNear(centerHz, spanHz float64) Peak {
	lo, hi := s.binRange(centerHz-spanHz, centerHz+spanHz)
	best := lo
	for k := lo; k <= hi; k++ {
		if s.Magnitude[k] > s.Magnitude[best] {
			best = k
		}
	}
	return s.refine(best)
}

// DominantFrequency returns the frequency of the strongest bin in
// [minHz, maxHz].
func (s *Spectrum) DominantFrequency(minHz, maxHz float64) float64 {
	return s.PeakNear((minHz+maxHz)/2, (maxHz-minHz)/2).Hz
}

func (s *Spectrum) binRange(minHz, maxHz float64) (int, int) {
	last := len(s.Magnitude) - 2
	lo := int(math.Floor(minHz / s.BinHz))
	hi := int(math.Ceil(maxHz / s.BinHz))
	if lo < 1 {
		lo = 1
	}
	if hi > last {
		hi = last
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

func (s *Spectrum) refine(k int) Peak {
	a := s.Magnitude[k-1]
	b := s.Magnitude[k]
	c := s.Magnitude[k+1]
	offset := 0.0
	if den := a - 2*b + c; den != 0 {
		offset = 0.5 * (a - c) / den
		if offset > 0.5 || offset < -0.5 {
			offset = 0
		}
	}
	return Peak{
		Hz:        (float64(k) + offset) * s.BinHz,
		Magnitude: b,
		Bin:       k,
	}
}
