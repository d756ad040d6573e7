package measure

import "time"

// Measure holds one metric per stage.
type Measure interface {
	AddMetric(name string) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
}

// Metric accumulates the timings of one stage.
type Metric interface {
	// AddDuration records the time spent transforming or consuming one field.
	AddDuration(elapsed time.Duration)
	// AddTransportDuration records the time spent waiting on the pipe written by inputStageName.
	AddTransportDuration(inputStageName string, elapsed time.Duration)
	AVGDuration() time.Duration
	AVGTransportDuration() map[string]*TransportInfo
	SetTotalDuration(endDuration time.Duration)
	GetTotalDuration() time.Duration
	// Count returns the number of fields processed.
	Count() int64
}
