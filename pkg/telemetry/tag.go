package telemetry

import (
	"strconv"

	"github.com/askiada/go-decom/pkg/wire"
)

const (
	TagTime              wire.Tag = 0
	TagVelocity          wire.Tag = 1
	TagAltitude          wire.Tag = 2
	TagPressure          wire.Tag = 3
	TagTemperature       wire.Tag = 4
	TagCorrectedAltitude wire.Tag = 6
)

var tagNames = map[wire.Tag]string{
	TagTime:              "time",
	TagVelocity:          "velocity",
	TagAltitude:          "altitude",
	TagPressure:          "pressure",
	TagTemperature:       "temperature",
	TagCorrectedAltitude: "corrected altitude",
}

// TagName returns a readable name for tag, or its number when the tag is unknown.
func TagName(tag wire.Tag) string {
	name, ok := tagNames[tag]
	if !ok {
		return "tag " + strconv.FormatUint(uint64(tag), 10)
	}

	return name
}

// KnownTag reports whether tag is one of the tags defined above.
func KnownTag(tag wire.Tag) bool {
	_, ok := tagNames[tag]

	return ok
}
