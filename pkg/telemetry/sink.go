package telemetry

import "context"

// RecordSink receives every completed frame, in stream order.
type RecordSink interface {
	EmitFrame(ctx context.Context, frame Frame) error
}

// WildPoint is an altitude sample that was replaced.
type WildPoint struct {
	// Frame is the frame the sample belongs to, with raw, uncorrected values.
	Frame     Frame
	Raw       float64
	Corrected float64
	// Index counts the replaced samples of Frame, starting at 0.
	Index int
}

// WildPointLog archives replaced altitude samples.
type WildPointLog interface {
	EmitWildPoint(ctx context.Context, point WildPoint) error
}
