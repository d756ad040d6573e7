package telemetry_test

import (
	"context"

	"github.com/askiada/go-decom/pkg/telemetry"
)

type recordingSink struct {
	frames []telemetry.Frame
	err    error
}

func (s *recordingSink) EmitFrame(_ context.Context, frame telemetry.Frame) error {
	if s.err != nil {
		return s.err
	}

	s.frames = append(s.frames, frame)

	return nil
}

type recordingWildLog struct {
	points []telemetry.WildPoint
	err    error
}

func (l *recordingWildLog) EmitWildPoint(_ context.Context, point telemetry.WildPoint) error {
	if l.err != nil {
		return l.err
	}

	l.points = append(l.points, point)

	return nil
}
