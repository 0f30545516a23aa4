package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-deepnote/deepnote"
	"github.com/cwbudde/algo-deepnote/dsp"
	"github.com/cwbudde/algo-deepnote/preset"
)

var version = "0.1.0"

var (
	presetPath string
	seed       int64
	verbose    bool

	logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "deepnote",
	Short: "Gliding chord voice bank",
	Long: `deepnote runs a bank of detuned oscillator voices that start on a random
chord and glide, each at its own rate, into a selected target chord.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&presetPath, "preset", "p", "", "Engine preset JSON file (default: built-in)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "Random seed for start chord and rates (0 = time based)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(chordsCmd)
	rootCmd.AddCommand(curveCmd)
	rootCmd.AddCommand(traceCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(irCmd)
}

func loadParams() (*deepnote.Params, error) {
	if presetPath == "" {
		return deepnote.NewDefaultParams(), nil
	}
	p, err := preset.LoadJSON(presetPath)
	if err != nil {
		return nil, fmt.Errorf("load preset %q: %w", presetPath, err)
	}
	return p, nil
}

func newRandom() dsp.RandomFunc {
	if seed == 0 {
		return dsp.NewRandom()
	}
	return dsp.NewSeededRandom(seed)
}

func newEngine() (*deepnote.Engine, error) {
	params, err := loadParams()
	if err != nil {
		return nil, err
	}
	e, err := deepnote.New(params, newRandom())
	if err != nil {
		return nil, err
	}
	logger.Debug("engine ready",
		slog.Float64("sample_rate", float64(params.SampleRate)),
		slog.Int("trio_voices", params.TrioVoices),
		slog.Int("duo_voices", params.DuoVoices),
		slog.Float64("volume", float64(e.Volume())),
		slog.String("ir", params.IRWavPath),
	)
	return e, nil
}
