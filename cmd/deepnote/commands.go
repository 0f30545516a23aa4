package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-deepnote/deepnote"
)

var errQuit = errors.New("quit")

const commandHelp = `commands:
  chord <row>          select target chord row (0 = start chord, 1..12)
  detune <hz>          oscillator spread
  rate <x>             animation rate multiplier
  curve <cp1> <cp2>    glide shape control points
  cutoff <hz>          tone filter cutoff (0 bypasses)
  reset                glide again from the start chord
  show                 print current controls
  quit`

// applyCommand applies one stdin line to c. It reports whether the line
// asked for a reset; errQuit ends the session.
func applyCommand(line string, c *deepnote.Controls) (reset bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	name := strings.ToLower(fields[0])
	args := fields[1:]

	switch name {
	case "quit", "exit", "q":
		return false, errQuit
	case "reset":
		return true, nil
	case "show", "help", "?":
		return false, nil
	case "chord":
		v, err := parseArgs(name, args, 1)
		if err != nil {
			return false, err
		}
		c.Chord = v[0]
	case "detune":
		v, err := parseArgs(name, args, 1)
		if err != nil {
			return false, err
		}
		if v[0] < 0 {
			return false, fmt.Errorf("detune must be >= 0")
		}
		c.Detune = v[0]
	case "rate":
		v, err := parseArgs(name, args, 1)
		if err != nil {
			return false, err
		}
		if v[0] < 0 {
			return false, fmt.Errorf("rate must be >= 0")
		}
		c.AnimationRate = v[0]
	case "curve":
		v, err := parseArgs(name, args, 2)
		if err != nil {
			return false, err
		}
		c.ControlPoint1, c.ControlPoint2 = v[0], v[1]
	case "cutoff":
		v, err := parseArgs(name, args, 1)
		if err != nil {
			return false, err
		}
		c.Cutoff = v[0]
	default:
		return false, fmt.Errorf("unknown command %q", fields[0])
	}
	return false, nil
}

func parseArgs(name string, args []string, n int) ([]float32, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s expects %d argument(s), got %d", name, n, len(args))
	}
	out := make([]float32, n)
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 32)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid number %q", name, a)
		}
		out[i] = float32(v)
	}
	return out, nil
}
