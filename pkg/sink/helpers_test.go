package sink_test

import (
	"time"

	"github.com/askiada/go-decom/pkg/telemetry"
)

// 2024-03-05 14:07:09.042 UTC
var frameTime = time.Date(2024, time.March, 5, 14, 7, 9, 42*int(time.Millisecond), time.UTC)

const formattedFrameTime = "2024 03 05::02:07:09:042"

func fullFrame(altitudeTag telemetry.Measurement) telemetry.Frame {
	return telemetry.Frame{
		Timestamp:    uint64(frameTime.UnixMilli()),
		HasTimestamp: true,
		Measurements: []telemetry.Measurement{
			{Tag: telemetry.TagVelocity, Value: 12.5},
			altitudeTag,
			{Tag: telemetry.TagPressure, Value: -3.25},
			{Tag: telemetry.TagTemperature, Value: 60},
		},
	}
}

func rawFrame(altitude float64) telemetry.Frame {
	return fullFrame(telemetry.Measurement{Tag: telemetry.TagAltitude, Value: altitude})
}

func correctedFrame(altitude float64) telemetry.Frame {
	return fullFrame(telemetry.Measurement{Tag: telemetry.TagCorrectedAltitude, Value: altitude})
}
