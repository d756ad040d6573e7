package sink

import (
	"context"

	"github.com/askiada/go-decom/pkg/telemetry"
)

type multiRecordSink []telemetry.RecordSink

// Multi returns a record sink emitting every frame to each of sinks, in order. It stops at
// the first error.
func Multi(sinks ...telemetry.RecordSink) telemetry.RecordSink {
	return multiRecordSink(sinks)
}

func (m multiRecordSink) EmitFrame(ctx context.Context, frame telemetry.Frame) error {
	for _, s := range m {
		err := s.EmitFrame(ctx, frame)
		if err != nil {
			return err
		}
	}

	return nil
}

type multiWildPointLog []telemetry.WildPointLog

// MultiWildPoint is Multi for wild point logs.
func MultiWildPoint(logs ...telemetry.WildPointLog) telemetry.WildPointLog {
	return multiWildPointLog(logs)
}

func (m multiWildPointLog) EmitWildPoint(ctx context.Context, point telemetry.WildPoint) error {
	for _, l := range m {
		err := l.EmitWildPoint(ctx, point)
		if err != nil {
			return err
		}
	}

	return nil
}
