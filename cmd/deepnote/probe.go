package main

import (
	"fmt"
	"io"
	"math"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-deepnote/analysis"
	"github.com/cwbudde/algo-deepnote/deepnote"
)

var (
	probeChord    float32
	probeSeconds  float64
	probeFFTSize  int
	probeDetune   float32
	probeMaxGlide float64
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check that the settled output matches the target chord",
	Long: `Run the engine in memory until every voice settles, analyze the output
spectrum and print, for each voice, the strongest peak next to its target.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		c := deepnote.DefaultControls()
		c.Chord = probeChord
		c.Detune = probeDetune
		c.Cutoff = 0
		return probe(cmd.OutOrStdout(), e, c, probeMaxGlide, probeSeconds, probeFFTSize)
	},
}

func init() {
	probeCmd.Flags().Float32Var(&probeChord, "chord", float32(deepnote.DefaultBaseRoot), "Target chord row")
	probeCmd.Flags().Float64Var(&probeSeconds, "seconds", 2, "Seconds of settled output to analyze")
	probeCmd.Flags().IntVar(&probeFFTSize, "fft-size", 65536, "FFT frame size (power of two)")
	probeCmd.Flags().Float32Var(&probeDetune, "detune", 0, "Detune while probing")
	probeCmd.Flags().Float64Var(&probeMaxGlide, "max-glide", 600, "Give up if voices have not settled after this many seconds")
}

// probeResult compares one voice's target with the measured peak.
type probeResult struct {
	Voice  int
	Target float64
	Peak   float64
	Cents  float64
}

func probe(w io.Writer, e *deepnote.Engine, c deepnote.Controls, maxGlide, seconds float64, fftSize int) error {
	results, settledAfter, binHz, err := measureSettled(e, c, maxGlide, seconds, fftSize)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "settled after %.2f s on %s (bin %.2f Hz)\n", settledAfter, e.RootNote(), binHz)
	fmt.Fprintf(w, "%5s %10s %10s %8s\n", "voice", "target", "peak", "cents")
	for _, r := range results {
		fmt.Fprintf(w, "%5d %10.2f %10.2f %+8.1f\n", r.Voice, r.Target, r.Peak, r.Cents)
	}
	return nil
}

func measureSettled(e *deepnote.Engine, c deepnote.Controls, maxGlide, seconds float64, fftSize int) ([]probeResult, float64, float64, error) {
	sr := int(e.SampleRate())
	block := make([]float32, 1024)
	limit := int(maxGlide * float64(sr))
	rendered := 0
	for {
		e.Render(block, c)
		rendered += len(block)
		if e.Settled() {
			break
		}
		if rendered >= limit {
			return nil, 0, 0, fmt.Errorf("voices did not settle within %.0f s", maxGlide)
		}
	}

	samples := make([]float32, int(seconds*float64(sr)))
	e.Render(samples, c)
	spec, err := analysis.NewSpectrum(samples, sr, fftSize)
	if err != nil {
		return nil, 0, 0, err
	}

	results := make([]probeResult, e.VoiceCount())
	for i := range results {
		target := float64(e.Table().Frequency(i))
		span := math.Max(target*0.03, 2*spec.BinHz)
		peak := spec.PeakNear(target, span)
		results[i] = probeResult{
			Voice:  i,
			Target: target,
			Peak:   peak.Hz,
			Cents:  1200 * math.Log2(peak.Hz/target),
		}
	}
	return results, float64(rendered) / float64(sr), spec.BinHz, nil
}
