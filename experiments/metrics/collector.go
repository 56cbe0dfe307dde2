package metrics

import (
	"castle/game"
	"time"
)

type GameMetric struct {
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	Steps      int
	Rejected   int // in-range actions that failed their placement rules
	OutOfRange int
	Rewards    [game.NumPlayers]float64
	Winner     string
}

type Collector interface {
	Start()
	AddStep(outcome game.Outcome)
	Complete(winner game.Winner) GameMetric
}

// collector is used by a single game and is not safe for concurrent use.
type collector struct {
	startTime  time.Time
	steps      int
	rejected   int
	outOfRange int
	rewards    [game.NumPlayers]float64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start() {
	*m = collector{startTime: time.Now()}
}

func (m *collector) AddStep(outcome game.Outcome) {
	m.steps++
	switch {
	case !outcome.InRange:
		m.outOfRange++
		return
	case !outcome.Valid:
		m.rejected++
	}
	m.rewards[outcome.Player] += outcome.Reward
}

func (m *collector) Complete(winner game.Winner) GameMetric {
	end := time.Now()
	return GameMetric{
		StartTime:  m.startTime,
		EndTime:    end,
		Duration:   end.Sub(m.startTime),
		Steps:      m.steps,
		Rejected:   m.rejected,
		OutOfRange: m.outOfRange,
		Rewards:    m.rewards,
		Winner:     winner.String(),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start()               {}
func (m *dummyCollector) AddStep(game.Outcome) {}
func (m *dummyCollector) Complete(winner game.Winner) GameMetric {
	return GameMetric{Winner: winner.String()}
}
