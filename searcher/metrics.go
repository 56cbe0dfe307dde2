package searcher

import (
	"sync/atomic"
	"time"
)

type SearchMetrics struct {
	StartTime time.Time
	Duration  time.Duration
	Episodes  int64
	Steps     int64 // simulated steps over all rollouts
}

type MetricsCollector interface {
	Start()
	AddEpisode()
	AddSteps(n int)
	Complete() SearchMetrics
}

type metricsCollector struct {
	startTime time.Time
	episodes  atomic.Int64
	steps     atomic.Int64
}

func NewMetricsCollector() MetricsCollector {
	return &metricsCollector{}
}

func (m *metricsCollector) Start() {
	m.startTime = time.Now()
	m.episodes.Store(0)
	m.steps.Store(0)
}

func (m *metricsCollector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *metricsCollector) AddSteps(n int) {
	m.steps.Add(int64(n))
}

func (m *metricsCollector) Complete() SearchMetrics {
	return SearchMetrics{
		StartTime: m.startTime,
		Duration:  time.Since(m.startTime),
		Episodes:  m.episodes.Load(),
		Steps:     m.steps.Load(),
	}
}

type noMetricsCollector struct{}

func NewNoMetricsCollector() MetricsCollector {
	return &noMetricsCollector{}
}

func (m *noMetricsCollector) Start()                  {}
func (m *noMetricsCollector) AddEpisode()             {}
func (m *noMetricsCollector) AddSteps(n int)          {}
func (m *noMetricsCollector) Complete() SearchMetrics { return SearchMetrics{} }
