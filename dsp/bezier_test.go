package dsp

import (
	"math"
	"testing"
)

func TestBezierEndpointsPinned(t *testing.T) {
	for _, cp1 := range []float32{0, 0.1, 0.33, 0.5, 0.9, 1} {
		for _, cp2 := range []float32{0, 0.2, 0.66, 0.75, 1} {
			s := NewBezierUnitShaper(cp1, cp2)
			if got := s.Shape(0); got != 0 {
				t.Fatalf("cp=(%g,%g): Shape(0)=%f want 0", cp1, cp2, got)
			}
			if got := s.Shape(1); got != 1 {
				t.Fatalf("cp=(%g,%g): Shape(1)=%f want 1", cp1, cp2, got)
			}
		}
	}
}

func TestBezierMonotonicOverControlGrid(t *testing.T) {
	const steps = 200
	for i := 0; i <= 10; i++ {
		for j := 0; j <= 10; j++ {
			s := NewBezierUnitShaper(float32(i)/10, float32(j)/10)
			prev := float32(0)
			for k := 1; k <= steps; k++ {
				y := s.Shape(float32(k) / steps)
				if y < prev-1e-6 {
					t.Fatalf("cp=(%d,%d)/10: non-monotonic at k=%d: %f < %f", i, j, k, y, prev)
				}
				prev = y
			}
		}
	}
}

func TestLinearShaperIsIdentity(t *testing.T) {
	s := LinearShaper()
	for k := 0; k <= 100; k++ {
		x := float32(k) / 100
		if d := math.Abs(float64(s.Shape(x) - x)); d > 1e-5 {
			t.Fatalf("expected identity at x=%f, diff=%g", x, d)
		}
	}
}

func TestBezierClampsInputsAndControlPoints(t *testing.T) {
	s := NewBezierUnitShaper(-3, 7)
	cp1, cp2 := s.ControlPoints()
	if cp1 != 0 || cp2 != 1 {
		t.Fatalf("expected clamped control points (0,1), got (%f,%f)", cp1, cp2)
	}
	if got := s.Shape(-0.5); got != 0 {
		t.Fatalf("expected clamp below to 0, got %f", got)
	}
	if got := s.Shape(2); got != 1 {
		t.Fatalf("expected clamp above to 1, got %f", got)
	}
	if got := s.Shape(float32(math.NaN())); got != 0 {
		t.Fatalf("expected NaN input to map to 0, got %f", got)
	}
}

func TestBezierFillSamplesCurve(t *testing.T) {
	s := NewBezierUnitShaper(0, 1)
	dst := make([]float32, 5)
	s.Fill(dst)
	if dst[0] != 0 || dst[4] != 1 {
		t.Fatalf("expected pinned endpoints, got %v", dst)
	}
	if d := math.Abs(float64(dst[2] - 0.5)); d > 1e-6 {
		t.Fatalf("expected symmetric ease to pass through 0.5, got %f", dst[2])
	}
	if dst[1] >= 0.25 {
		t.Fatalf("expected ease-in below the diagonal at 0.25, got %f", dst[1])
	}
}
