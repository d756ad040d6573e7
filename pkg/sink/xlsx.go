package sink

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/askiada/go-decom/pkg/telemetry"
)

// RecordsSheet is the name of the worksheet holding the frames.
const RecordsSheet = "Records"

// XLSX streams frames into a workbook saved to path by Close. Values are written as numbers
// except a corrected altitude, which keeps its mark and is therefore text.
type XLSX struct {
	mu     sync.Mutex
	path   string
	file   *excelize.File
	stream *excelize.StreamWriter
	row    int
	format *rowFormatter
}

// NewXLSX prepares a workbook with the header row. Nothing is written to path before Close.
func NewXLSX(path string) (*XLSX, error) {
	format, err := newRowFormatter()
	if err != nil {
		return nil, err
	}

	file := excelize.NewFile()

	err = file.SetSheetName("Sheet1", RecordsSheet)
	if err != nil {
		_ = file.Close()

		return nil, errors.Wrap(err, "unable to name sheet")
	}

	stream, err := file.NewStreamWriter(RecordsSheet)
	if err != nil {
		_ = file.Close()

		return nil, errors.Wrap(err, "unable to create stream writer")
	}

	s := &XLSX{
		path:   path,
		file:   file,
		stream: stream,
		format: format,
	}

	header := make([]interface{}, 0, len(Header))
	for _, h := range Header {
		header = append(header, h)
	}

	err = s.setRow(header)
	if err != nil {
		_ = file.Close()

		return nil, err
	}

	return s, nil
}

func (s *XLSX) setRow(values []interface{}) error {
	s.row++

	cell, err := excelize.CoordinatesToCellName(1, s.row)
	if err != nil {
		return errors.Wrapf(err, "unable to get cell of row %d", s.row)
	}

	err = s.stream.SetRow(cell, values)
	if err != nil {
		return errors.Wrapf(err, "unable to set row %d", s.row)
	}

	return nil
}

// EmitFrame appends one row for frame.
func (s *XLSX) EmitFrame(_ context.Context, frame telemetry.Frame) error {
	values := []interface{}{s.format.formatTime(frame)}

	for _, tag := range valueColumns {
		if tag == telemetry.TagAltitude {
			v, corrected, ok := frame.Altitude()
			switch {
			case !ok:
				values = append(values, nil)
			case corrected:
				values = append(values, formatValue(v)+CorrectedMark)
			default:
				values = append(values, v)
			}

			continue
		}

		v, ok := frame.Lookup(tag)
		if !ok {
			values = append(values, nil)

			continue
		}

		values = append(values, v)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.setRow(values)
}

// Close saves the workbook to path.
func (s *XLSX) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.stream.Flush()
	if err != nil {
		_ = s.file.Close()

		return errors.Wrap(err, "unable to flush rows")
	}

	err = s.file.SaveAs(s.path)
	if err != nil {
		_ = s.file.Close()

		return errors.Wrapf(err, "unable to save %s", s.path)
	}

	err = s.file.Close()
	if err != nil {
		return errors.Wrap(err, "unable to close workbook")
	}

	return nil
}

var _ telemetry.RecordSink = (*XLSX)(nil)
