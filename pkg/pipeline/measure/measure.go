package measure

import (
	"sync"
)

// DefaultMeasure keeps its metrics in memory.
type DefaultMeasure struct {
	mu     sync.RWMutex
	stages map[string]Metric
}

func NewDefaultMeasure() *DefaultMeasure {
	return &DefaultMeasure{
		stages: make(map[string]Metric),
	}
}

func (m *DefaultMeasure) AddMetric(name string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	mt := &DefaultMetric{
		allTransports: make(map[string]*TransportInfo),
	}
	m.stages[name] = mt

	return mt
}

// GetMetric returns nil for a stage that was never added.
func (m *DefaultMeasure) GetMetric(name string) Metric {
	m.mu.RLock()
	defer m.mu.RUnlock()

	mt, ok := m.stages[name]
	if !ok {
		return nil
	}

	return mt
}

func (m *DefaultMeasure) AllMetrics() map[string]Metric {
	m.mu.RLock()
	defer m.mu.RUnlock()

	res := make(map[string]Metric, len(m.stages))
	for name, mt := range m.stages {
		res[name] = mt
	}

	return res
}

var _ Measure = (*DefaultMeasure)(nil)
