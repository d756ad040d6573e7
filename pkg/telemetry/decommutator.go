package telemetry

import (
	"context"

	"github.com/pkg/errors"

	"github.com/askiada/go-decom/pkg/wire"
)

// Decommutator is the consumer of the last stage: it rebuilds frames and hands them to a
// RecordSink.
type Decommutator struct {
	sink   RecordSink
	frames FrameAssembler
}

// NewDecommutator creates a decommutator writing to sink.
func NewDecommutator(sink RecordSink) *Decommutator {
	return &Decommutator{sink: sink}
}

// Consume adds one field to the in-flight frame and emits the previous frame when field
// starts a new one.
func (d *Decommutator) Consume(ctx context.Context, field wire.Field) error {
	done, ok := d.frames.Add(Decode(field))
	if !ok {
		return nil
	}

	return d.emit(ctx, done)
}

// Flush emits the last frame of the stream.
func (d *Decommutator) Flush(ctx context.Context) error {
	done, ok := d.frames.Flush()
	if !ok {
		return nil
	}

	return d.emit(ctx, done)
}

func (d *Decommutator) emit(ctx context.Context, frame Frame) error {
	err := d.sink.EmitFrame(ctx, frame)
	if err != nil {
		return errors.Wrapf(err, "unable to emit frame %d", frame.Timestamp)
	}

	return nil
}
