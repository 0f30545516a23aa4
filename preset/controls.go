package preset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cwbudde/algo-deepnote/deepnote"
)

// ControlsFile is the JSON schema for the live controls file. Unset fields
// keep their defaults.
type ControlsFile struct {
	Detune        *float32 `json:"detune"`
	Chord         *float32 `json:"chord"`
	AnimationRate *float32 `json:"animation_rate"`
	CP1           *float32 `json:"cp1"`
	CP2           *float32 `json:"cp2"`
	Cutoff        *float32 `json:"cutoff"`
	Reset         *bool    `json:"reset"`
}

// LoadControls reads a controls file on top of deepnote.DefaultControls.
func LoadControls(path string) (deepnote.Controls, error) {
	c := deepnote.DefaultControls()
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	var f ControlsFile
	if err := json.Unmarshal(b, &f); err != nil {
		return c, fmt.Errorf("parse controls %s: %w", path, err)
	}
	if err := ApplyControls(&c, &f); err != nil {
		return c, err
	}
	return c, nil
}

// ApplyControls applies a parsed controls file onto dst. Control points are
// left for the shaper to clamp; only values that are never meaningful are
// rejected.
func ApplyControls(dst *deepnote.Controls, f *ControlsFile) error {
	if dst == nil {
		return fmt.Errorf("nil destination controls")
	}
	if f == nil {
		return nil
	}
	if f.Detune != nil {
		if *f.Detune < 0 {
			return fmt.Errorf("detune must be >= 0")
		}
		dst.Detune = *f.Detune
	}
	if f.Chord != nil {
		dst.Chord = *f.Chord
	}
	if f.AnimationRate != nil {
		if *f.AnimationRate < 0 {
			return fmt.Errorf("animation_rate must be >= 0")
		}
		dst.AnimationRate = *f.AnimationRate
	}
	if f.CP1 != nil {
		dst.ControlPoint1 = *f.CP1
	}
	if f.CP2 != nil {
		dst.ControlPoint2 = *f.CP2
	}
	if f.Cutoff != nil {
		dst.Cutoff = *f.Cutoff
	}
	if f.Reset != nil {
		dst.Reset = *f.Reset
	}
	return nil
}
