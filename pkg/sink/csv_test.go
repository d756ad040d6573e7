package sink_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-decom/pkg/sink"
	"github.com/askiada/go-decom/pkg/telemetry"
)

func TestCSVEmitFrame(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		frame    telemetry.Frame
		expected string
	}{
		"raw altitude": {
			frame:    rawFrame(100),
			expected: formattedFrameTime + ",12.5,100,-3.25,60\n",
		},
		"corrected altitude": {
			frame:    correctedFrame(100.5),
			expected: formattedFrameTime + ",12.5,100.5*,-3.25,60\n",
		},
		"missing values": {
			frame: telemetry.Frame{
				Timestamp:    uint64(frameTime.UnixMilli()),
				HasTimestamp: true,
				Measurements: []telemetry.Measurement{{Tag: telemetry.TagPressure, Value: 1}},
			},
			expected: formattedFrameTime + ",,,1,\n",
		},
		"no timestamp": {
			frame: telemetry.Frame{
				Measurements: []telemetry.Measurement{{Tag: telemetry.TagVelocity, Value: 3.14}},
			},
			expected: ",3.14,,,\n",
		},
		"unknown tag ignored": {
			frame: telemetry.Frame{
				Timestamp:    uint64(frameTime.UnixMilli()),
				HasTimestamp: true,
				Measurements: []telemetry.Measurement{{Tag: 9, Value: 7}},
			},
			expected: formattedFrameTime + ",,,,\n",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			buf := &bytes.Buffer{}
			s, err := sink.NewCSV(buf)
			require.NoError(t, err)
			require.NoError(t, s.EmitFrame(context.Background(), tc.frame))
			require.NoError(t, s.Close())

			assert.Equal(t, "Time,Velocity,Altitude,Pressure,Temperature\n"+tc.expected, buf.String())
		})
	}
}

func TestCSVEmitWildPoint(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	s, err := sink.NewCSV(buf)
	require.NoError(t, err)

	err = s.EmitWildPoint(context.Background(), telemetry.WildPoint{Frame: rawFrame(500), Raw: 500, Corrected: 100})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	assert.Equal(t, "Time,Velocity,Altitude,Pressure,Temperature\n"+formattedFrameTime+",12.5,500,-3.25,60\n", buf.String())
}

func TestCSVEmitWildPointOncePerFrame(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	s, err := sink.NewCSV(buf)
	require.NoError(t, err)

	frame := rawFrame(500)
	require.NoError(t, s.EmitWildPoint(context.Background(), telemetry.WildPoint{Frame: frame, Raw: 500, Corrected: 100}))
	require.NoError(t, s.EmitWildPoint(context.Background(), telemetry.WildPoint{Frame: frame, Raw: 900, Corrected: 100, Index: 1}))
	require.NoError(t, s.Close())

	assert.Equal(t, "Time,Velocity,Altitude,Pressure,Temperature\n"+formattedFrameTime+",12.5,500,-3.25,60\n", buf.String())
}

func TestCreateCSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale content\n"), 0o600))

	s, err := sink.CreateCSV(path)
	require.NoError(t, err)
	require.NoError(t, s.EmitFrame(context.Background(), rawFrame(1)))
	require.NoError(t, s.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Time,Velocity,Altitude,Pressure,Temperature\n"+formattedFrameTime+",12.5,1,-3.25,60\n", string(raw))

	_, err = sink.CreateCSV(filepath.Join(t.TempDir(), "missing", "out.csv"))
	require.Error(t, err)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, assert.AnError
}

func TestCSVWriteError(t *testing.T) {
	t.Parallel()

	s, err := sink.NewCSV(failingWriter{})
	require.NoError(t, err)
	require.ErrorIs(t, s.Close(), assert.AnError)
}
