package telemetry

import (
	"math"
	"time"

	"github.com/askiada/go-decom/pkg/wire"
)

// Decoded is a field whose value has been interpreted according to its tag.
type Decoded struct {
	Tag wire.Tag
	// Millis is set for TagTime, in milliseconds since the Unix epoch.
	Millis uint64
	// Value is set for every other tag.
	Value float64
}

// Time returns the timestamp of a TagTime field.
func (d Decoded) Time() time.Time {
	return time.UnixMilli(int64(d.Millis)).UTC()
}

// Decode interprets the value bits of f. Timestamps are read as an unsigned integer, everything
// else is the same 64 bits read as an IEEE-754 double.
func Decode(f wire.Field) Decoded {
	if f.Tag == TagTime {
		return Decoded{Tag: f.Tag, Millis: f.Value}
	}

	return Decoded{Tag: f.Tag, Value: math.Float64frombits(f.Value)}
}

// Encode is the inverse of Decode for measurement tags.
func Encode(tag wire.Tag, value float64) wire.Field {
	return wire.Field{Tag: tag, Value: math.Float64bits(value)}
}

// EncodeTime builds a timestamp field.
func EncodeTime(millis uint64) wire.Field {
	return wire.Field{Tag: TagTime, Value: millis}
}
