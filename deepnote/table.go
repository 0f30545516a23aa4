package deepnote

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-deepnote/dsp"
)

// IndexPolicy snaps a continuous row selector onto a row in [0, rows).
type IndexPolicy func(x float32, rows int) int

// RoundIndex snaps to the nearest row and clamps into range.
func RoundIndex(x float32, rows int) int {
	return clampSelector(math.Round(float64(x)), rows)
}

// FloorIndex truncates toward negative infinity and clamps into range.
func FloorIndex(x float32, rows int) int {
	return clampSelector(math.Floor(float64(x)), rows)
}

// WrapIndex snaps to the nearest row and wraps out-of-range values around.
// Infinite selectors clamp to the first or last row.
func WrapIndex(x float32, rows int) int {
	if rows <= 0 {
		return 0
	}
	v := math.Round(float64(x))
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return clampSelector(v, rows)
	}
	m := math.Mod(v, float64(rows))
	if m < 0 {
		m += float64(rows)
	}
	return clampSelector(m, rows)
}

// clampSelector clamps v into [0, rows-1] before the int conversion, which
// is undefined for values outside the int range.
func clampSelector(v float64, rows int) int {
	if rows <= 0 || !(v > 0) {
		return 0
	}
	if v >= float64(rows-1) {
		return rows - 1
	}
	return int(v)
}

func clampRow(r int, rows int) int {
	if r < 0 {
		return 0
	}
	if r > rows-1 {
		return rows - 1
	}
	return r
}

// FrequencyTable holds one random start row followed by twelve chromatic
// chord rows, one column per voice. Voices share a single table owned by the
// engine.
type FrequencyTable struct {
	cells       []float32 // rows*width, row-major; row 0 is the start chord
	width       int
	rows        int
	current     int
	policy      IndexPolicy
	initialized bool
}

// NewFrequencyTable builds a table from 12 chord rows of equal width. A nil
// policy selects RoundIndex.
func NewFrequencyTable(chords [][]float32, policy IndexPolicy) (*FrequencyTable, error) {
	if len(chords) != ChordRows {
		return nil, fmt.Errorf("%w: expected %d chord rows, got %d", ErrInvalidTable, ChordRows, len(chords))
	}
	width := len(chords[0])
	if width == 0 {
		return nil, fmt.Errorf("%w: chord rows must not be empty", ErrInvalidTable)
	}
	if policy == nil {
		policy = RoundIndex
	}
	t := &FrequencyTable{
		cells:  make([]float32, (ChordRows+1)*width),
		width:  width,
		rows:   ChordRows + 1,
		policy: policy,
	}
	for r, row := range chords {
		if len(row) != width {
			return nil, fmt.Errorf("%w: chord row %d has %d columns, want %d", ErrInvalidTable, r+1, len(row), width)
		}
		for c, f := range row {
			if !(f > 0) || math.IsInf(float64(f), 0) {
				return nil, fmt.Errorf("%w: chord row %d column %d has invalid frequency %g", ErrInvalidTable, r+1, c, f)
			}
		}
		copy(t.cells[(r+1)*width:], row)
	}
	return t, nil
}

// Initialize fills the start row with one independent draw per voice from
// start. It must be called exactly once, before the first lookup.
func (t *FrequencyTable) Initialize(start dsp.Range, rng dsp.RandomFunc) error {
	if t.initialized {
		return ErrAlreadyInitialized
	}
	if rng == nil {
		return ErrNilRandom
	}
	for c := 0; c < t.width; c++ {
		t.cells[c] = start.Sample(rng)
	}
	t.initialized = true
	return nil
}

// Initialized reports whether the start row has been generated.
func (t *FrequencyTable) Initialized() bool {
	return t.initialized
}

// SetCurrentIndex snaps x onto a row and reports whether the selected row
// changed. NaN selectors are ignored.
func (t *FrequencyTable) SetCurrentIndex(x float32) bool {
	if math.IsNaN(float64(x)) {
		return false
	}
	r := t.Row(x)
	if r == t.current {
		return false
	}
	t.current = r
	return true
}

// Row returns the row selector x snaps to, without selecting it.
func (t *FrequencyTable) Row(x float32) int {
	return clampRow(t.policy(x, t.rows), t.rows)
}

// CurrentIndex returns the selected row.
func (t *FrequencyTable) CurrentIndex() int {
	return t.current
}

// Frequency returns the target frequency of voice in the selected row.
func (t *FrequencyTable) Frequency(voice int) float32 {
	return t.At(t.current, voice)
}

// ResetFrequency returns the stored random start frequency of voice.
func (t *FrequencyTable) ResetFrequency(voice int) float32 {
	return t.At(0, voice)
}

// At returns the cell at (row, voice). Out-of-range indices panic.
func (t *FrequencyTable) At(row, voice int) float32 {
	if voice < 0 || voice >= t.width || row < 0 || row >= t.rows {
		panic(fmt.Sprintf("deepnote: table index out of range (row=%d voice=%d)", row, voice))
	}
	return t.cells[row*t.width+voice]
}

// Width returns the number of voices (columns).
func (t *FrequencyTable) Width() int {
	return t.width
}

// Rows returns the number of rows including the start row.
func (t *FrequencyTable) Rows() int {
	return t.rows
}

// RootNote returns the note name of the selected row.
func (t *FrequencyTable) RootNote() string {
	return NoteName(t.current)
}
