package sink_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-decom/pkg/sink"
	"github.com/askiada/go-decom/pkg/telemetry"
)

func TestSQLite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "out.db")

	s, err := sink.NewSQLite(ctx, path)
	require.NoError(t, err)

	require.NoError(t, s.EmitFrame(ctx, rawFrame(100)))
	require.NoError(t, s.EmitFrame(ctx, correctedFrame(100)))
	require.NoError(t, s.EmitFrame(ctx, telemetry.Frame{Measurements: []telemetry.Measurement{{Tag: telemetry.TagVelocity, Value: 1}}}))
	require.NoError(t, s.EmitWildPoint(ctx, telemetry.WildPoint{Frame: rawFrame(500), Raw: 500, Corrected: 100}))
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.QueryContext(ctx, `SELECT timestamp_ms, time, velocity, altitude, altitude_corrected FROM frames ORDER BY id`)
	require.NoError(t, err)

	type frameRow struct {
		timestamp sql.NullInt64
		time      string
		velocity  sql.NullFloat64
		altitude  sql.NullFloat64
		corrected bool
	}

	got := []frameRow{}

	for rows.Next() {
		var r frameRow
		require.NoError(t, rows.Scan(&r.timestamp, &r.time, &r.velocity, &r.altitude, &r.corrected))
		got = append(got, r)
	}

	require.NoError(t, rows.Err())
	require.NoError(t, rows.Close())

	ts := sql.NullInt64{Int64: frameTime.UnixMilli(), Valid: true}
	assert.Equal(t, []frameRow{
		{timestamp: ts, time: formattedFrameTime, velocity: sql.NullFloat64{Float64: 12.5, Valid: true}, altitude: sql.NullFloat64{Float64: 100, Valid: true}},
		{timestamp: ts, time: formattedFrameTime, velocity: sql.NullFloat64{Float64: 12.5, Valid: true}, altitude: sql.NullFloat64{Float64: 100, Valid: true}, corrected: true},
		{velocity: sql.NullFloat64{Float64: 1, Valid: true}},
	}, got)

	var raw, corrected float64

	err = db.QueryRowContext(ctx, `SELECT raw, corrected FROM wild_points`).Scan(&raw, &corrected)
	require.NoError(t, err)
	assert.InDelta(t, 500, raw, 0)
	assert.InDelta(t, 100, corrected, 0)
}

func TestSQLiteCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	path := filepath.Join(t.TempDir(), "out.db")

	s, err := sink.NewSQLite(ctx, path)
	require.NoError(t, err)

	require.NoError(t, s.EmitFrame(ctx, rawFrame(100)))
	require.NoError(t, s.EmitFrame(ctx, rawFrame(110)))

	cancel()

	require.NoError(t, s.EmitFrame(ctx, rawFrame(120)))
	require.NoError(t, s.EmitWildPoint(ctx, telemetry.WildPoint{Frame: rawFrame(500), Raw: 500, Corrected: 120}))
	require.NoError(t, s.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	var frames, wildPoints int

	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM frames`).Scan(&frames))
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM wild_points`).Scan(&wildPoints))
	assert.Equal(t, 3, frames)
	assert.Equal(t, 1, wildPoints)
}

func TestSQLiteInvalidPath(t *testing.T) {
	t.Parallel()

	_, err := sink.NewSQLite(context.Background(), filepath.Join(t.TempDir(), "missing", "out.db"))
	require.Error(t, err)
}
