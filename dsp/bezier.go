package dsp

// BezierUnitShaper maps progress in [0,1] onto a cubic Bezier curve whose
// endpoints are pinned at 0 and 1. The two interior control points bend the
// curve; cp1=1/3, cp2=2/3 is the identity, cp1=0, cp2=1 is a smooth ease
// in/out and cp1=1, cp2=0 rushes to the middle before settling.
//
// The curve is monotonic for every pair of control points in [0,1]. The
// zero value is a valid shaper (ease in/out).
type BezierUnitShaper struct {
	cp1 float32
	cp2 float32
}

// NewBezierUnitShaper returns a shaper with control points clamped to [0,1].
func NewBezierUnitShaper(cp1, cp2 float32) BezierUnitShaper {
	return BezierUnitShaper{cp1: clamp01(cp1), cp2: clamp01(cp2)}
}

// LinearShaper is the identity curve.
func LinearShaper() BezierUnitShaper {
	return BezierUnitShaper{cp1: 1.0 / 3.0, cp2: 2.0 / 3.0}
}

// ControlPoints returns the clamped control points.
func (b BezierUnitShaper) ControlPoints() (float32, float32) {
	return b.cp1, b.cp2
}

// Shape evaluates the curve at t. Inputs outside [0,1] are clamped.
func (b BezierUnitShaper) Shape(t float32) float32 {
	t = clamp01(t)
	if t == 0 {
		return 0
	}
	if t == 1 {
		return 1
	}
	u := 1 - t
	y := 3*u*u*t*b.cp1 + 3*u*t*t*b.cp2 + t*t*t
	return clamp01(y)
}

// Fill samples the curve at len(dst) evenly spaced points including both
// endpoints. Safe to call from a render loop; it does not allocate.
func (b BezierUnitShaper) Fill(dst []float32) {
	n := len(dst)
	switch n {
	case 0:
		return
	case 1:
		dst[0] = b.Shape(0)
		return
	}
	step := 1 / float32(n-1)
	for i := range dst {
		dst[i] = b.Shape(float32(i) * step)
	}
	dst[n-1] = 1
}
