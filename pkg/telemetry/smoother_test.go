package telemetry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/askiada/go-decom/pkg/telemetry"
)

func TestCorrectFirstSample(t *testing.T) {
	t.Parallel()

	s := &telemetry.AltitudeSmoother{}

	got, replaced := s.Correct(12345)
	assert.InDelta(t, 12345.0, got, 0)
	assert.False(t, replaced)

	previous, ok := s.History().Previous()
	assert.True(t, ok)
	assert.InDelta(t, 12345.0, previous, 0)

	_, ok = s.History().PreviousPrevious()
	assert.False(t, ok)
}

func TestCorrectSecondSample(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		raw      float64
		expected float64
		replaced bool
	}{
		"wild":             {raw: 200, expected: 50, replaced: true},
		"accepted":         {raw: 80, expected: 80},
		"exactly at limit": {raw: 150, expected: 150},
		"wild below":       {raw: -51, expected: 50, replaced: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			s := &telemetry.AltitudeSmoother{}
			s.Correct(50)

			got, replaced := s.Correct(tc.raw)
			assert.InDelta(t, tc.expected, got, 0)
			assert.Equal(t, tc.replaced, replaced)
		})
	}
}

func TestCorrectAveraging(t *testing.T) {
	t.Parallel()

	s := &telemetry.AltitudeSmoother{}
	s.Correct(40)
	s.Correct(50)

	got, replaced := s.Correct(300)
	assert.InDelta(t, 45.0, got, 0)
	assert.True(t, replaced)

	previous, _ := s.History().Previous()
	previousPrevious, _ := s.History().PreviousPrevious()
	assert.InDelta(t, 45.0, previous, 0)
	assert.InDelta(t, 50.0, previousPrevious, 0)
}

func TestCorrectSequence(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		raw      []float64
		expected []float64
		replaced []bool
	}{
		"single spike": {
			raw:      []float64{100, 100, 100, 500, 100},
			expected: []float64{100, 100, 100, 100, 100},
			replaced: []bool{false, false, false, true, false},
		},
		"corrected value becomes previous": {
			raw:      []float64{0, 50, 400, 420},
			expected: []float64{0, 50, 25, 37.5},
			replaced: []bool{false, false, true, true},
		},
		"steady climb": {
			raw:      []float64{0, 90, 180, 270},
			expected: []float64{0, 90, 180, 270},
			replaced: []bool{false, false, false, false},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			s := &telemetry.AltitudeSmoother{}

			for i, raw := range tc.raw {
				got, replaced := s.Correct(raw)
				assert.InDelta(t, tc.expected[i], got, 0, "sample %d", i)
				assert.Equal(t, tc.replaced[i], replaced, "sample %d", i)
			}
		})
	}
}
