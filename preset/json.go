package preset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cwbudde/algo-deepnote/deepnote"
	"github.com/cwbudde/algo-deepnote/dsp"
	"github.com/cwbudde/algo-deepnote/irsynth"
)

// File is the JSON schema for engine presets. Unset fields keep their
// defaults.
type File struct {
	SampleRate         *float32             `json:"sample_rate"`
	TrioVoices         *int                 `json:"trio_voices"`
	DuoVoices          *int                 `json:"duo_voices"`
	StartRange         []float32            `json:"start_range"`
	AnimationRateRange []float32            `json:"animation_rate_range"`
	Volume             *float32             `json:"volume"`
	Waveform           string               `json:"waveform"`
	GlideLaw           string               `json:"glide_law"`
	IndexPolicy        string               `json:"index_policy"`
	TriggerMs          *float64             `json:"trigger_ms"`
	BaseChord          []float32            `json:"base_chord"`
	Chords             map[string][]float32 `json:"chords"`
	IRWavPath          string               `json:"ir_wav_path"`
	IRWetMix           *float32             `json:"ir_wet_mix"`
	IRDryMix           *float32             `json:"ir_dry_mix"`
	ToneResonance      *float32             `json:"tone_resonance"`
	Hall               *HallFile            `json:"hall"`
}

// HallFile overrides irsynth.DefaultHallConfig. It is only used when no
// ir_wav_path is set.
type HallFile struct {
	DurationS   *float64 `json:"duration_s"`
	Seed        *int64   `json:"seed"`
	PreDelayS   *float64 `json:"pre_delay_s"`
	EarlyCount  *int     `json:"early_count"`
	LateLevel   *float64 `json:"late_level"`
	Brightness  *float64 `json:"brightness"`
	LowDecayS   *float64 `json:"low_decay_s"`
	HighDecayS  *float64 `json:"high_decay_s"`
	DirectLevel *float64 `json:"direct_level"`
}

// LoadJSON loads a preset JSON file and applies it on top of default params.
func LoadJSON(path string) (*deepnote.Params, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse preset %s: %w", path, err)
	}

	p := deepnote.NewDefaultParams()
	if err := ApplyFile(p, &f); err != nil {
		return nil, err
	}

	if p.IRWavPath != "" && !filepath.IsAbs(p.IRWavPath) {
		base := filepath.Dir(path)
		p.IRWavPath = filepath.Clean(filepath.Join(base, p.IRWavPath))
	}
	return p, nil
}

// ApplyFile applies a parsed preset file onto an existing params object.
func ApplyFile(dst *deepnote.Params, f *File) error {
	if dst == nil {
		return fmt.Errorf("nil destination params")
	}
	if f == nil {
		return nil
	}

	if f.SampleRate != nil {
		if *f.SampleRate <= 0 {
			return fmt.Errorf("sample_rate must be > 0")
		}
		dst.SampleRate = *f.SampleRate
	}

	widthChanged := false
	if f.TrioVoices != nil {
		if *f.TrioVoices < 0 {
			return fmt.Errorf("trio_voices must be >= 0")
		}
		widthChanged = widthChanged || *f.TrioVoices != dst.TrioVoices
		dst.TrioVoices = *f.TrioVoices
	}
	if f.DuoVoices != nil {
		if *f.DuoVoices < 0 {
			return fmt.Errorf("duo_voices must be >= 0")
		}
		widthChanged = widthChanged || *f.DuoVoices != dst.DuoVoices
		dst.DuoVoices = *f.DuoVoices
	}
	if dst.VoiceCount() == 0 {
		return fmt.Errorf("trio_voices + duo_voices must be > 0")
	}

	if f.StartRange != nil {
		r, err := parseRange("start_range", f.StartRange)
		if err != nil {
			return err
		}
		if r.Low() <= 0 {
			return fmt.Errorf("start_range must be positive")
		}
		dst.StartRange = r
	}
	if f.AnimationRateRange != nil {
		r, err := parseRange("animation_rate_range", f.AnimationRateRange)
		if err != nil {
			return err
		}
		if r.Low() < 0 {
			return fmt.Errorf("animation_rate_range must be >= 0")
		}
		dst.AnimationRateRange = r
	}
	if f.Volume != nil {
		if *f.Volume < 0 {
			return fmt.Errorf("volume must be >= 0")
		}
		v := *f.Volume
		dst.Volume = &v
	}
	if f.Waveform != "" {
		w, err := ParseWaveform(f.Waveform)
		if err != nil {
			return err
		}
		dst.Waveform = w
	}
	if f.GlideLaw != "" {
		law, err := ParseGlideLaw(f.GlideLaw)
		if err != nil {
			return err
		}
		dst.Law = law
	}
	if f.IndexPolicy != "" {
		policy, err := ParseIndexPolicy(f.IndexPolicy)
		if err != nil {
			return err
		}
		dst.IndexPolicy = policy
	}
	if f.TriggerMs != nil {
		if *f.TriggerMs <= 0 {
			return fmt.Errorf("trigger_ms must be > 0")
		}
		dst.TriggerWidth = time.Duration(*f.TriggerMs * float64(time.Millisecond))
	}
	if f.IRWavPath != "" {
		dst.IRWavPath = strings.TrimSpace(f.IRWavPath)
	}
	if f.IRWetMix != nil {
		if *f.IRWetMix < 0 {
			return fmt.Errorf("ir_wet_mix must be >= 0")
		}
		dst.IRWetMix = *f.IRWetMix
	}
	if f.IRDryMix != nil {
		if *f.IRDryMix < 0 {
			return fmt.Errorf("ir_dry_mix must be >= 0")
		}
		dst.IRDryMix = *f.IRDryMix
	}
	if f.ToneResonance != nil {
		if *f.ToneResonance < 0 || *f.ToneResonance > 4 {
			return fmt.Errorf("tone_resonance must be in [0,4]")
		}
		dst.ToneResonance = *f.ToneResonance
	}
	if f.Hall != nil {
		cfg := applyHall(irsynth.DefaultHallConfig(), f.Hall)
		cfg.SampleRate = int(dst.SampleRate)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("hall: %w", err)
		}
		dst.Hall = &cfg
	}

	return applyChords(dst, f, widthChanged)
}

func applyHall(cfg irsynth.HallConfig, h *HallFile) irsynth.HallConfig {
	if h.DurationS != nil {
		cfg.DurationS = *h.DurationS
	}
	if h.Seed != nil {
		cfg.Seed = *h.Seed
	}
	if h.PreDelayS != nil {
		cfg.PreDelayS = *h.PreDelayS
	}
	if h.EarlyCount != nil {
		cfg.EarlyCount = *h.EarlyCount
	}
	if h.LateLevel != nil {
		cfg.LateLevel = *h.LateLevel
	}
	if h.Brightness != nil {
		cfg.Brightness = *h.Brightness
	}
	if h.LowDecayS != nil {
		cfg.LowDecayS = *h.LowDecayS
	}
	if h.HighDecayS != nil {
		cfg.HighDecayS = *h.HighDecayS
	}
	if h.DirectLevel != nil {
		cfg.DirectLevel = *h.DirectLevel
	}
	return cfg
}

func applyChords(dst *deepnote.Params, f *File, widthChanged bool) error {
	width := dst.VoiceCount()
	switch {
	case f.BaseChord != nil:
		if err := checkChordRow("base_chord", f.BaseChord, width); err != nil {
			return err
		}
		dst.Chords = deepnote.TransposeChord(f.BaseChord, deepnote.DefaultBaseRoot)
	case widthChanged && len(f.Chords) < deepnote.ChordRows:
		return fmt.Errorf("base_chord (or all 12 chords rows) required when the voice count changes")
	}

	if len(f.Chords) == 0 {
		return nil
	}
	if len(dst.Chords) != deepnote.ChordRows {
		dst.Chords = make([][]float32, deepnote.ChordRows)
	}

	keys := make([]string, 0, len(f.Chords))
	for k := range f.Chords {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		row, err := strconv.Atoi(k)
		if err != nil || row < 1 || row > deepnote.ChordRows {
			return fmt.Errorf("invalid chords key %q (expected 1..%d)", k, deepnote.ChordRows)
		}
		freqs := f.Chords[k]
		if err := checkChordRow(fmt.Sprintf("chords[%d]", row), freqs, width); err != nil {
			return err
		}
		cp := make([]float32, len(freqs))
		copy(cp, freqs)
		dst.Chords[row-1] = cp
	}
	return nil
}

func checkChordRow(name string, freqs []float32, width int) error {
	if len(freqs) != width {
		return fmt.Errorf("%s must have %d frequencies, got %d", name, width, len(freqs))
	}
	for i, f := range freqs {
		if f <= 0 {
			return fmt.Errorf("%s[%d] must be > 0", name, i)
		}
	}
	return nil
}

func parseRange(name string, v []float32) (dsp.Range, error) {
	if len(v) != 2 {
		return dsp.Range{}, fmt.Errorf("%s must be [low, high]", name)
	}
	r, err := dsp.NewRange(v[0], v[1])
	if err != nil {
		return dsp.Range{}, fmt.Errorf("%s must have low <= high: %w", name, err)
	}
	return r, nil
}

// ParseGlideLaw maps a law name ("linear", "pitch") to its implementation.
func ParseGlideLaw(name string) (deepnote.GlideLaw, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "linear":
		return deepnote.LinearGlide{}, nil
	case "pitch":
		return deepnote.PitchGlide{}, nil
	}
	return nil, fmt.Errorf("unknown glide_law %q (expected linear|pitch)", name)
}

// ParseIndexPolicy maps a policy name ("round", "floor", "wrap").
func ParseIndexPolicy(name string) (deepnote.IndexPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "round":
		return deepnote.RoundIndex, nil
	case "floor":
		return deepnote.FloorIndex, nil
	case "wrap":
		return deepnote.WrapIndex, nil
	}
	return nil, fmt.Errorf("unknown index_policy %q (expected round|floor|wrap)", name)
}

// ParseWaveform maps a waveform name ("saw", "sine").
func ParseWaveform(name string) (dsp.Waveform, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "saw":
		return dsp.WaveSaw, nil
	case "sine":
		return dsp.WaveSine, nil
	}
	return dsp.WaveSaw, fmt.Errorf("unknown waveform %q (expected saw|sine)", name)
}
