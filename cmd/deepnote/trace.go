package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-deepnote/deepnote"
)

var (
	traceSamples int
	traceChord   float32
	traceEvery   int
)

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Write per-voice glide diagnostics as CSV",
	Long: `Run the engine headless and write every n-th sample of every voice as
CSV to stdout.

Example:
  deepnote trace --chord 7 --samples 96000 --every 480 > glide.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		c := deepnote.DefaultControls()
		c.Chord = traceChord
		w := bufio.NewWriter(cmd.OutOrStdout())
		if err := writeTrace(w, e, c, traceSamples, traceEvery); err != nil {
			return err
		}
		return w.Flush()
	},
}

func init() {
	traceCmd.Flags().IntVar(&traceSamples, "samples", 48000, "Number of samples to run")
	traceCmd.Flags().Float32Var(&traceChord, "chord", float32(deepnote.DefaultBaseRoot), "Target chord row")
	traceCmd.Flags().IntVar(&traceEvery, "every", 480, "Emit every n-th sample")
}

// writeTrace runs e for samples steps and writes a header plus one CSV row
// per voice for every n-th sample.
func writeTrace(w io.Writer, e *deepnote.Engine, c deepnote.Controls, samples, every int) error {
	if samples < 1 {
		return fmt.Errorf("samples must be >= 1")
	}
	if every < 1 {
		every = 1
	}
	if _, err := fmt.Fprintf(w, "sample,%s\n", strings.Join(deepnote.TraceFieldNames[:], ",")); err != nil {
		return err
	}

	var (
		line []byte
		n    int
		emit bool
		werr error
	)
	e.SetTrace(func(tv deepnote.TraceValues) {
		if !emit || werr != nil {
			return
		}
		line = line[:0]
		line = fmt.Appendf(line, "%d,", n)
		line = tv.AppendCSV(line)
		line = append(line, '\n')
		_, werr = w.Write(line)
	})
	defer e.SetTrace(nil)

	for n = 0; n < samples; n++ {
		emit = n%every == 0
		e.Process(c)
		if werr != nil {
			return werr
		}
	}
	return nil
}
