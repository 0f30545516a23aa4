package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-deepnote/deepnote"
	"github.com/cwbudde/algo-deepnote/internal/audioout"
	"github.com/cwbudde/algo-deepnote/internal/wavio"
	"github.com/cwbudde/algo-deepnote/preset"
)

var (
	playControlsPath string
	playBackend      string
	playGain         float32
	playRecord       string
	playRecordSecs   float64
	playRecordRate   int
	playTraceEvery   int
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the voice bank on the default audio device",
	Long: `Play the voice bank in real time. Controls come from stdin commands and,
optionally, from a JSON controls file that is reloaded when it changes.

Examples:
  deepnote play
  deepnote play --controls controls.json --backend portaudio
  deepnote play --record take.wav --record-seconds 60`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVarP(&playControlsPath, "controls", "c", "", "Live controls JSON file (watched for changes)")
	playCmd.Flags().StringVarP(&playBackend, "backend", "b", "oto", "Audio backend (oto, portaudio)")
	playCmd.Flags().Float32Var(&playGain, "gain", 1.0, "Output gain")
	playCmd.Flags().StringVar(&playRecord, "record", "", "Capture the output to this WAV file")
	playCmd.Flags().Float64Var(&playRecordSecs, "record-seconds", 120, "Maximum capture length in seconds")
	playCmd.Flags().IntVar(&playRecordRate, "record-rate", 0, "Capture file sample rate (0 = engine rate)")
	playCmd.Flags().IntVar(&playTraceEvery, "trace-every", 0, "Log every n-th voice trace at debug level (0 = off)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	e, err := newEngine()
	if err != nil {
		return err
	}
	if playTraceEvery > 0 {
		e.SetTrace(deepnote.SlogTrace(logger, playTraceEvery))
	}

	controls := deepnote.DefaultControls()
	if playControlsPath != "" {
		controls, err = preset.LoadControls(playControlsPath)
		if err != nil {
			return err
		}
	}

	h := newHost(e, controls, playGain)
	if playRecord != "" {
		h.capture = wavio.NewCapture(int(e.SampleRate()), playRecordSecs)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := audioout.Open(playBackend, int(e.SampleRate()), h)
	if err != nil {
		return fmt.Errorf("open %s backend: %w", playBackend, err)
	}
	defer backend.Close()
	if err := backend.Start(); err != nil {
		return fmt.Errorf("start %s backend: %w", playBackend, err)
	}
	logger.Info("playing",
		slog.String("backend", playBackend),
		slog.Int("voices", e.VoiceCount()),
		slog.String("root", deepnote.NoteName(e.Table().Row(controls.Chord))),
	)

	updates := make(chan deepnote.Controls, 1)
	errs := make(chan error, 1)
	if playControlsPath != "" {
		if err := preset.WatchControls(ctx, playControlsPath, updates, errs); err != nil {
			return fmt.Errorf("watch %s: %w", playControlsPath, err)
		}
	}

	lines := make(chan string)
	go readLines(ctx, os.Stdin, lines)
	fmt.Fprintln(cmd.OutOrStdout(), commandHelp)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	watch := newStatusWatch(h)

	for {
		select {
		case <-ctx.Done():
			return finishPlay(h)
		case c := <-updates:
			h.SetControls(c)
			logger.Info("controls reloaded", slog.String("path", playControlsPath))
		case err := <-errs:
			logger.Warn("controls reload failed", slog.Any("error", err))
		case line, ok := <-lines:
			if !ok {
				return finishPlay(h)
			}
			c := h.Controls()
			reset, err := applyCommand(line, &c)
			if errors.Is(err, errQuit) {
				return finishPlay(h)
			}
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				continue
			}
			h.SetControls(c)
			if reset {
				h.RequestReset()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", c)
		case <-ticker.C:
			watch.poll()
			if h.capture != nil && h.capture.Full() {
				logger.Warn("capture buffer full", slog.Float64("seconds", playRecordSecs))
			}
		}
	}
}

func readLines(ctx context.Context, r io.Reader, out chan<- string) {
	defer close(out)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		select {
		case out <- sc.Text():
		case <-ctx.Done():
			return
		}
	}
}

func finishPlay(h *host) error {
	if h.capture == nil {
		return nil
	}
	if err := h.capture.Save(playRecord, playRecordRate); err != nil {
		return fmt.Errorf("save capture: %w", err)
	}
	logger.Info("capture saved",
		slog.String("path", playRecord),
		slog.Float64("seconds", float64(h.capture.Len())/float64(h.engine.SampleRate())),
	)
	return nil
}

// statusWatch logs what the audio thread published since the last poll.
type statusWatch struct {
	h        *host
	row      int32
	gate     bool
	triggers int64
}

func newStatusWatch(h *host) *statusWatch {
	return &statusWatch{h: h, row: -1}
}

func (w *statusWatch) poll() {
	if row := w.h.chordRow.Load(); row != w.row {
		w.row = row
		logger.Info("chord", slog.Int("row", int(row)), slog.String("root", deepnote.NoteName(int(row))))
	}
	if gate := w.h.gate.Load(); gate != w.gate {
		w.gate = gate
		if gate {
			logger.Info("all voices settled")
		} else {
			logger.Info("gliding")
		}
	}
	if n := w.h.triggers.Load(); n != w.triggers {
		logger.Debug("arrivals", slog.Int64("count", n-w.triggers))
		w.triggers = n
	}
}
