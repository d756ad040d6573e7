package sink

import (
	"context"
	"database/sql"
	_ "embed"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/askiada/go-decom/pkg/telemetry"
	"github.com/askiada/go-decom/pkg/wire"
)

//go:embed schema.sql
var schemaSQL string

const insertFrameSQL = `
INSERT INTO frames (timestamp_ms, time, velocity, altitude, altitude_corrected, pressure, temperature)
VALUES (?, ?, ?, ?, ?, ?, ?)`

const insertWildPointSQL = `
INSERT INTO wild_points (timestamp_ms, time, raw, corrected, velocity, pressure, temperature)
VALUES (?, ?, ?, ?, ?, ?, ?)`

// SQLite stores frames and wild points in a single transaction committed by Close.
// Cancelling a context handed to the sink never rolls back the rows already inserted.
type SQLite struct {
	mu     sync.Mutex
	db     *sql.DB
	tx     *sql.Tx
	frames *sql.Stmt
	wild   *sql.Stmt
	format *rowFormatter

	closeOnce sync.Once
	closeErr  error
}

// NewSQLite opens, or creates, the database at path and its tables. The transaction outlives
// the cancellation of ctx and ends with Close.
func NewSQLite(ctx context.Context, path string) (*SQLite, error) {
	ctx = context.WithoutCancel(ctx)

	format, err := newRowFormatter()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %s", path)
	}

	s := &SQLite{db: db, format: format}

	err = s.prepare(ctx)
	if err != nil {
		_ = db.Close()

		return nil, err
	}

	return s, nil
}

func (s *SQLite) prepare(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schemaSQL)
	if err != nil {
		return errors.Wrap(err, "unable to create tables")
	}

	s.tx, err = s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "unable to begin transaction")
	}

	s.frames, err = s.tx.PrepareContext(ctx, insertFrameSQL)
	if err != nil {
		_ = s.tx.Rollback()

		return errors.Wrap(err, "unable to prepare frame statement")
	}

	s.wild, err = s.tx.PrepareContext(ctx, insertWildPointSQL)
	if err != nil {
		_ = s.tx.Rollback()

		return errors.Wrap(err, "unable to prepare wild point statement")
	}

	return nil
}

func timestamp(frame telemetry.Frame) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(frame.Timestamp), Valid: frame.HasTimestamp}
}

func nullable(frame telemetry.Frame, tag wire.Tag) sql.NullFloat64 {
	v, ok := frame.Lookup(tag)

	return sql.NullFloat64{Float64: v, Valid: ok}
}

// EmitFrame inserts one row into frames.
func (s *SQLite) EmitFrame(ctx context.Context, frame telemetry.Frame) error {
	altitude, corrected, ok := frame.Altitude()

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.frames.ExecContext(context.WithoutCancel(ctx),
		timestamp(frame),
		s.format.formatTime(frame),
		nullable(frame, telemetry.TagVelocity),
		sql.NullFloat64{Float64: altitude, Valid: ok},
		corrected,
		nullable(frame, telemetry.TagPressure),
		nullable(frame, telemetry.TagTemperature),
	)
	if err != nil {
		return errors.Wrap(err, "unable to insert frame")
	}

	return nil
}

// EmitWildPoint inserts one row into wild_points.
func (s *SQLite) EmitWildPoint(ctx context.Context, point telemetry.WildPoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.wild.ExecContext(context.WithoutCancel(ctx),
		timestamp(point.Frame),
		s.format.formatTime(point.Frame),
		point.Raw,
		point.Corrected,
		nullable(point.Frame, telemetry.TagVelocity),
		nullable(point.Frame, telemetry.TagPressure),
		nullable(point.Frame, telemetry.TagTemperature),
	)
	if err != nil {
		return errors.Wrap(err, "unable to insert wild point")
	}

	return nil
}

// Close commits every row inserted so far and closes the database. It is safe to call
// Close multiple times.
func (s *SQLite) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.closeErr = s.commit()

		err := s.db.Close()
		if err != nil && s.closeErr == nil {
			s.closeErr = errors.Wrap(err, "unable to close database")
		}
	})

	return s.closeErr
}

func (s *SQLite) commit() error {
	for _, stmt := range []*sql.Stmt{s.frames, s.wild} {
		err := stmt.Close()
		if err != nil {
			_ = s.tx.Rollback()

			return errors.Wrap(err, "unable to close statement")
		}
	}

	err := s.tx.Commit()
	if err != nil {
		return errors.Wrap(err, "unable to commit")
	}

	return nil
}

var (
	_ telemetry.RecordSink   = (*SQLite)(nil)
	_ telemetry.WildPointLog = (*SQLite)(nil)
)
