package app_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/askiada/go-decom/pkg/telemetry"
	"github.com/askiada/go-decom/pkg/wire"
)

// 2024-03-05 14:07:09.000 UTC
const baseMillis = 1709647629000

func encodeStream(altitudes ...float64) []byte {
	raw := []byte{}
	for i, altitude := range altitudes {
		raw = wire.Append(raw, telemetry.EncodeTime(baseMillis+uint64(i)*1000))
		raw = wire.Append(raw, telemetry.Encode(telemetry.TagVelocity, 10))
		raw = wire.Append(raw, telemetry.Encode(telemetry.TagAltitude, altitude))
		raw = wire.Append(raw, telemetry.Encode(telemetry.TagPressure, 20))
		raw = wire.Append(raw, telemetry.Encode(telemetry.TagTemperature, 30))
	}

	return raw
}

func writeInput(t *testing.T, dir, name string, altitudes ...float64) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, encodeStream(altitudes...), 0o600))

	return path
}

type recorder struct {
	mu     sync.Mutex
	frames []telemetry.Frame
	points []telemetry.WildPoint
	err    error
}

func (r *recorder) EmitFrame(_ context.Context, frame telemetry.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return r.err
	}

	r.frames = append(r.frames, frame)

	return nil
}

func (r *recorder) EmitWildPoint(_ context.Context, point telemetry.WildPoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.points = append(r.points, point)

	return nil
}
