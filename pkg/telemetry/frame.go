package telemetry

import (
	"time"

	"github.com/askiada/go-decom/pkg/wire"
)

// Measurement is one decoded non timestamp field of a frame.
type Measurement struct {
	Tag   wire.Tag
	Value float64
}

// Frame is a timestamp and the measurements that followed it, in arrival order.
type Frame struct {
	Timestamp uint64
	// HasTimestamp is false only for data received before the first timestamp of a stream.
	HasTimestamp bool
	Measurements []Measurement
}

// Time returns the frame timestamp.
func (f Frame) Time() time.Time {
	return time.UnixMilli(int64(f.Timestamp)).UTC()
}

// Lookup returns the last value carried by tag in the frame.
func (f Frame) Lookup(tag wire.Tag) (float64, bool) {
	for i := len(f.Measurements) - 1; i >= 0; i-- {
		if f.Measurements[i].Tag == tag {
			return f.Measurements[i].Value, true
		}
	}

	return 0, false
}

// Altitude returns the altitude of the frame and whether it was corrected upstream.
func (f Frame) Altitude() (value float64, corrected bool, ok bool) {
	for i := len(f.Measurements) - 1; i >= 0; i-- {
		switch f.Measurements[i].Tag {
		case TagAltitude:
			return f.Measurements[i].Value, false, true
		case TagCorrectedAltitude:
			return f.Measurements[i].Value, true, true
		}
	}

	return 0, false, false
}

func (f Frame) empty() bool {
	return !f.HasTimestamp && len(f.Measurements) == 0
}

// FrameAssembler keeps the single in-flight frame of a stage.
type FrameAssembler struct {
	current Frame
}

// Add appends d to the in-flight frame. When d is a timestamp the previous frame is
// returned, if it holds anything, and a new frame is started.
func (a *FrameAssembler) Add(d Decoded) (Frame, bool) {
	if d.Tag != TagTime {
		a.current.Measurements = append(a.current.Measurements, Measurement{Tag: d.Tag, Value: d.Value})

		return Frame{}, false
	}

	done, ok := a.Flush()
	a.current = Frame{Timestamp: d.Millis, HasTimestamp: true}

	return done, ok
}

// Flush returns the in-flight frame, if any, and resets the assembler.
func (a *FrameAssembler) Flush() (Frame, bool) {
	if a.current.empty() {
		return Frame{}, false
	}

	done := a.current
	a.current = Frame{}

	return done, true
}
