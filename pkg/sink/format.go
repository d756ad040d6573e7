package sink

import (
	"strconv"

	"github.com/lestrrat-go/strftime"
	"github.com/pkg/errors"

	"github.com/askiada/go-decom/pkg/telemetry"
	"github.com/askiada/go-decom/pkg/wire"
)

// TimeLayout is the strftime pattern of the time column, %L being milliseconds.
const TimeLayout = "%Y %m %d::%I:%M:%S:%L"

// CorrectedMark is appended to an altitude replaced by the correction stage.
const CorrectedMark = "*"

// Header is the first row written by every sink.
var Header = []string{"Time", "Velocity", "Altitude", "Pressure", "Temperature"}

var valueColumns = []wire.Tag{telemetry.TagVelocity, telemetry.TagAltitude, telemetry.TagPressure, telemetry.TagTemperature}

type rowFormatter struct {
	time *strftime.Strftime
}

func newRowFormatter() (*rowFormatter, error) {
	format, err := strftime.New(TimeLayout, strftime.WithMilliseconds('L'))
	if err != nil {
		return nil, errors.Wrap(err, "unable to compile time layout")
	}

	return &rowFormatter{time: format}, nil
}

// formatTime returns an empty string for a frame received before any timestamp.
func (rf *rowFormatter) formatTime(frame telemetry.Frame) string {
	if !frame.HasTimestamp {
		return ""
	}

	return rf.time.FormatString(frame.Time())
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// row renders frame with one cell per header column, empty when the frame lacks the value.
func (rf *rowFormatter) row(frame telemetry.Frame) []string {
	res := make([]string, 0, len(Header))
	res = append(res, rf.formatTime(frame))

	for _, tag := range valueColumns {
		if tag == telemetry.TagAltitude {
			res = append(res, formatAltitude(frame))

			continue
		}

		v, ok := frame.Lookup(tag)
		if !ok {
			res = append(res, "")

			continue
		}

		res = append(res, formatValue(v))
	}

	return res
}

func formatAltitude(frame telemetry.Frame) string {
	v, corrected, ok := frame.Altitude()
	switch {
	case !ok:
		return ""
	case corrected:
		return formatValue(v) + CorrectedMark
	default:
		return formatValue(v)
	}
}
