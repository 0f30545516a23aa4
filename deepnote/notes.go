package deepnote

import "math"

// ChordRows is the number of chromatic chord rows in a frequency table.
const ChordRows = 12

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName returns the chromatic note name for a table row (row mod 12).
func NoteName(row int) string {
	return noteNames[((row%12)+12)%12]
}

// DefaultBaseRoot is the pitch class of DefaultBaseChord (D).
const DefaultBaseRoot = 2

// DefaultBaseChord is the nine-voice target chord rooted on D: four trio
// voices followed by five duo voices, highest first.
func DefaultBaseChord() []float32 {
	return []float32{
		1396.91, 1174.66, 659.25, 587.33, // trio
		440.00, 146.83, 110.0, 73.42, 36.71, // duo
	}
}

// TransposeChord builds the 12 chromatic chord rows from a base chord rooted
// on pitch class baseRoot. Row r is rooted on pitch class r%12 and is the
// base chord shifted by the smallest interval (-6..+5 semitones) that gets
// there. The row matching baseRoot is an exact copy of base.
func TransposeChord(base []float32, baseRoot int) [][]float32 {
	rows := make([][]float32, ChordRows)
	for r := 1; r <= ChordRows; r++ {
		shift := semitoneShift(baseRoot, r%12)
		row := make([]float32, len(base))
		if shift == 0 {
			copy(row, base)
		} else {
			ratio := math.Pow(2, float64(shift)/12.0)
			for i, f := range base {
				row[i] = float32(float64(f) * ratio)
			}
		}
		rows[r-1] = row
	}
	return rows
}

// DefaultChords returns the 12 chord rows derived from DefaultBaseChord.
func DefaultChords() [][]float32 {
	return TransposeChord(DefaultBaseChord(), DefaultBaseRoot)
}

func semitoneShift(from, to int) int {
	d := ((to-from)%12 + 12) % 12
	if d > 5 {
		d -= 12
	}
	return d
}
