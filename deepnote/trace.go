package deepnote

import (
	"context"
	"log/slog"
	"strconv"
)

// TraceValues is the per-voice, per-sample diagnostic snapshot.
type TraceValues struct {
	Voice                int
	StartFrequency       float32
	TargetFrequency      float32
	WasAtTarget          bool
	AtTarget             bool
	AnimationValue       float32
	ShapedAnimationValue float32
	AnimationFrequency   float32
	Frequency            float32
	Sample               float32
}

// TraceFieldNames lists the snapshot fields in emission order.
var TraceFieldNames = [...]string{
	"voice",
	"start_freq",
	"target_freq",
	"was_at_target",
	"at_target",
	"animation_value",
	"shaped_animation_value",
	"animation_freq",
	"frequency",
	"sample",
}

// TraceFunc receives one snapshot per voice per sample. A nil TraceFunc is
// the no-op sink: voices skip building the snapshot entirely.
type TraceFunc func(TraceValues)

// AppendCSV appends the snapshot as one comma-separated line (no newline)
// in TraceFieldNames order.
func (tv TraceValues) AppendCSV(dst []byte) []byte {
	dst = strconv.AppendInt(dst, int64(tv.Voice), 10)
	dst = appendFloatField(dst, tv.StartFrequency)
	dst = appendFloatField(dst, tv.TargetFrequency)
	dst = append(dst, ',')
	dst = strconv.AppendBool(dst, tv.WasAtTarget)
	dst = append(dst, ',')
	dst = strconv.AppendBool(dst, tv.AtTarget)
	dst = appendFloatField(dst, tv.AnimationValue)
	dst = appendFloatField(dst, tv.ShapedAnimationValue)
	dst = appendFloatField(dst, tv.AnimationFrequency)
	dst = appendFloatField(dst, tv.Frequency)
	dst = appendFloatField(dst, tv.Sample)
	return dst
}

func appendFloatField(dst []byte, v float32) []byte {
	dst = append(dst, ',')
	return strconv.AppendFloat(dst, float64(v), 'f', 4, 32)
}

// TraceRecorder keeps the most recent snapshots in a fixed ring buffer.
// Recording never allocates.
type TraceRecorder struct {
	buf  []TraceValues
	next int
	full bool
}

// NewTraceRecorder creates a recorder holding up to capacity snapshots.
func NewTraceRecorder(capacity int) *TraceRecorder {
	if capacity < 1 {
		capacity = 1
	}
	return &TraceRecorder{buf: make([]TraceValues, capacity)}
}

// Record stores one snapshot, overwriting the oldest when full.
func (r *TraceRecorder) Record(tv TraceValues) {
	r.buf[r.next] = tv
	r.next++
	if r.next == len(r.buf) {
		r.next = 0
		r.full = true
	}
}

// Len returns the number of stored snapshots.
func (r *TraceRecorder) Len() int {
	if r.full {
		return len(r.buf)
	}
	return r.next
}

// Values returns the stored snapshots, oldest first.
func (r *TraceRecorder) Values() []TraceValues {
	out := make([]TraceValues, 0, r.Len())
	if r.full {
		out = append(out, r.buf[r.next:]...)
	}
	return append(out, r.buf[:r.next]...)
}

// Reset discards all snapshots.
func (r *TraceRecorder) Reset() {
	r.next = 0
	r.full = false
}

// SlogTrace logs every n-th snapshot at debug level. Logging allocates, so it
// is meant for diagnostics, not for a live audio thread.
func SlogTrace(logger *slog.Logger, every int) TraceFunc {
	if logger == nil {
		logger = slog.Default()
	}
	if every < 1 {
		every = 1
	}
	count := 0
	return func(tv TraceValues) {
		count++
		if count < every {
			return
		}
		count = 0
		logger.LogAttrs(context.Background(), slog.LevelDebug, "voice trace",
			slog.Int(TraceFieldNames[0], tv.Voice),
			slog.Float64(TraceFieldNames[1], float64(tv.StartFrequency)),
			slog.Float64(TraceFieldNames[2], float64(tv.TargetFrequency)),
			slog.Bool(TraceFieldNames[3], tv.WasAtTarget),
			slog.Bool(TraceFieldNames[4], tv.AtTarget),
			slog.Float64(TraceFieldNames[5], float64(tv.AnimationValue)),
			slog.Float64(TraceFieldNames[6], float64(tv.ShapedAnimationValue)),
			slog.Float64(TraceFieldNames[7], float64(tv.AnimationFrequency)),
			slog.Float64(TraceFieldNames[8], float64(tv.Frequency)),
			slog.Float64(TraceFieldNames[9], float64(tv.Sample)),
		)
	}
}
