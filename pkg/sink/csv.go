package sink

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"

	"github.com/askiada/go-decom/pkg/telemetry"
)

// CSV writes one line per frame. It serves both as a record sink and as a wild point log.
type CSV struct {
	mu     sync.Mutex
	w      *csv.Writer
	closer io.Closer
	format *rowFormatter
}

// NewCSV writes the header to w and returns a sink appending rows after it. Closing the
// sink flushes the rows but leaves w open.
func NewCSV(w io.Writer) (*CSV, error) {
	format, err := newRowFormatter()
	if err != nil {
		return nil, err
	}

	s := &CSV{
		w:      csv.NewWriter(w),
		format: format,
	}

	err = s.write(Header)
	if err != nil {
		return nil, errors.Wrap(err, "unable to write header")
	}

	return s, nil
}

// CreateCSV truncates or creates the file at path and returns a sink owning it.
func CreateCSV(path string) (*CSV, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to create %s", path)
	}

	s, err := NewCSV(file)
	if err != nil {
		_ = file.Close()

		return nil, err
	}

	s.closer = file

	return s, nil
}

func (s *CSV) write(record []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.w.Write(record)
}

// EmitFrame writes one row for frame.
func (s *CSV) EmitFrame(_ context.Context, frame telemetry.Frame) error {
	err := s.write(s.format.row(frame))
	if err != nil {
		return errors.Wrap(err, "unable to write frame")
	}

	return nil
}

// EmitWildPoint writes the raw frame the wild point belongs to, once per frame.
func (s *CSV) EmitWildPoint(_ context.Context, point telemetry.WildPoint) error {
	if point.Index > 0 {
		return nil
	}

	err := s.write(s.format.row(point.Frame))
	if err != nil {
		return errors.Wrap(err, "unable to write wild point")
	}

	return nil
}

// Close flushes the buffered rows and closes the file when the sink owns one.
func (s *CSV) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.w.Flush()

	err := s.w.Error()
	if err != nil {
		if s.closer != nil {
			_ = s.closer.Close()
		}

		return errors.Wrap(err, "unable to flush rows")
	}

	if s.closer != nil {
		err = s.closer.Close()
		if err != nil {
			return errors.Wrap(err, "unable to close file")
		}
	}

	return nil
}

var (
	_ telemetry.RecordSink   = (*CSV)(nil)
	_ telemetry.WildPointLog = (*CSV)(nil)
)
