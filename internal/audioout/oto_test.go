package audioout

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestSampleReaderEncodesFloat32LE(t *testing.T) {
	next := float32(0)
	src := SourceFunc(func(dst []float32) {
		for i := range dst {
			dst[i] = next
			next += 0.25
		}
	})
	r := newSampleReader(src, 4)
	p := make([]byte, 24)
	n, err := r.Read(p)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != 24 {
		t.Fatalf("expected 24 bytes, got %d", n)
	}
	for i := 0; i < 6; i++ {
		got := math.Float32frombits(binary.LittleEndian.Uint32(p[i*4:]))
		if want := float32(i) * 0.25; got != want {
			t.Fatalf("sample %d: got %g want %g", i, got, want)
		}
	}
}

func TestSampleReaderIgnoresPartialFrames(t *testing.T) {
	r := newSampleReader(SourceFunc(func(dst []float32) {}), 8)
	n, err := r.Read(make([]byte, 7))
	if err != nil || n != 4 {
		t.Fatalf("expected one whole frame, got n=%d err=%v", n, err)
	}
}

func TestOpenRejectsBadArguments(t *testing.T) {
	src := SourceFunc(func(dst []float32) {})
	if _, err := Open("oto", 0, src); err == nil {
		t.Fatalf("expected error for zero sample rate")
	}
	if _, err := Open("oto", 48000, nil); err == nil {
		t.Fatalf("expected error for nil source")
	}
	if _, err := Open("jack", 48000, src); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
