package engine

import (
	"castle/game"
)

// State is what a model sees before acting.
type State struct {
	Observation game.Observation
	PlayerID    int
}

// Simulation is the game-loop surface the evaluator drives.
type Simulation interface {
	Reset() error
	State() State
	ValidActions() []bool
	Step(action int) (next State, reward float64, done bool)
	GameEnded() bool
	Winner() game.Winner
	NumActions() int
	LastOutcome() game.Outcome
}
