package telemetry

import "math"

// WildPointThreshold is the largest accepted jump between two consecutive altitudes.
const WildPointThreshold = 100.0

// AltitudeHistory holds the last two accepted altitudes.
type AltitudeHistory struct {
	previous            float64
	previousPrevious    float64
	hasPrevious         bool
	hasPreviousPrevious bool
}

// Previous returns the last accepted altitude.
func (h AltitudeHistory) Previous() (float64, bool) {
	return h.previous, h.hasPrevious
}

// PreviousPrevious returns the altitude accepted before Previous.
func (h AltitudeHistory) PreviousPrevious() (float64, bool) {
	return h.previousPrevious, h.hasPreviousPrevious
}

func (h *AltitudeHistory) push(accepted float64) {
	h.previousPrevious, h.hasPreviousPrevious = h.previous, h.hasPrevious
	h.previous, h.hasPrevious = accepted, true
}

// AltitudeSmoother replaces wild altitude samples. It is not safe for concurrent use, each
// stream must own its smoother.
type AltitudeSmoother struct {
	history AltitudeHistory
}

// History returns a copy of the current history.
func (s *AltitudeSmoother) History() AltitudeHistory {
	return s.history
}

// Correct returns the altitude to forward for raw and whether raw was replaced.
//
// The first sample is always accepted. Afterwards a sample further than WildPointThreshold
// from the previous accepted altitude is replaced by that altitude when only one is known,
// and by the mean of the last two otherwise. The returned value becomes the new previous
// altitude.
func (s *AltitudeSmoother) Correct(raw float64) (float64, bool) {
	corrected, replaced := raw, false

	if s.history.hasPrevious && math.Abs(raw-s.history.previous) > WildPointThreshold {
		replaced = true
		corrected = s.history.previous

		if s.history.hasPreviousPrevious {
			corrected = (s.history.previous + s.history.previousPrevious) / 2
		}
	}

	s.history.push(corrected)

	return corrected, replaced
}
