package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-deepnote/deepnote"
	"github.com/cwbudde/algo-deepnote/dsp"
)

var chordsCmd = &cobra.Command{
	Use:   "chords",
	Short: "Print the frequency table",
	Long: `Print the 13 table rows: the random start chord (row 0) followed by the
12 chromatic target chords, one column per voice.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		printTable(cmd.OutOrStdout(), e.Table())
		return nil
	},
}

var (
	curveCP1    float32
	curveCP2    float32
	curvePoints int
)

var curveCmd = &cobra.Command{
	Use:   "curve",
	Short: "Print the glide shaping curve",
	Long: `Print the Bezier shaping curve for the given control points as
"progress,shaped" rows.

Example:
  deepnote curve --cp1 0.08 --cp2 0.5 --points 21`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if curvePoints < 2 {
			return fmt.Errorf("points must be >= 2")
		}
		printCurve(cmd.OutOrStdout(), dsp.NewBezierUnitShaper(curveCP1, curveCP2), curvePoints)
		return nil
	},
}

func init() {
	d := deepnote.DefaultControls()
	curveCmd.Flags().Float32Var(&curveCP1, "cp1", d.ControlPoint1, "First control point (0..1)")
	curveCmd.Flags().Float32Var(&curveCP2, "cp2", d.ControlPoint2, "Second control point (0..1)")
	curveCmd.Flags().IntVarP(&curvePoints, "points", "n", 11, "Number of points")
}

func printTable(w io.Writer, t *deepnote.FrequencyTable) {
	for r := 0; r < t.Rows(); r++ {
		label := "start"
		if r > 0 {
			label = deepnote.NoteName(r)
		}
		cells := make([]string, t.Width())
		for v := range cells {
			cells[v] = fmt.Sprintf("%8.2f", t.At(r, v))
		}
		fmt.Fprintf(w, "%2d %-5s %s\n", r, label, strings.Join(cells, " "))
	}
}

func printCurve(w io.Writer, shaper dsp.BezierUnitShaper, points int) {
	ys := make([]float32, points)
	shaper.Fill(ys)
	for i, y := range ys {
		x := float32(i) / float32(points-1)
		fmt.Fprintf(w, "%.4f,%.4f\n", x, y)
	}
}
