package engine

import (
	"castle/game"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(e *Environment)

// WithScreen sends drawing calls to screen.
func WithScreen(screen game.Screen) Option {
	return func(e *Environment) {
		if screen != nil {
			e.screen = screen
		}
	}
}

// WithSeed fixes the random source used for map generation.
func WithSeed(seed uint64) Option {
	return func(e *Environment) {
		e.seed = seed
	}
}

// Attacher is implemented by screens that need the board of a new game.
type Attacher interface {
	Attach(gs *game.GridState)
}

// Forker is implemented by screens that keep per-game state and cannot be shared
// between environments.
type Forker interface {
	Fork() game.Screen
}

// Environment wraps a GridState and its TurnEngine behind a reset/step loop.
type Environment struct {
	cfg    game.MapConfig
	seed   uint64
	rng    *rand.Rand
	screen game.Screen
	turns  game.TurnEngine
	grid   *game.GridState
	last   game.Outcome
}

var _ Simulation = (*Environment)(nil)

// NewEnvironment validates cfg and starts the first game.
func NewEnvironment(cfg game.MapConfig, options ...Option) (*Environment, error) {
	e := &Environment{
		cfg:    cfg,
		seed:   uint64(time.Now().UnixNano()),
		screen: game.NopScreen{},
	}
	for _, option := range options {
		option(e)
	}
	e.rng = rand.New(rand.NewSource(e.seed))
	e.turns = game.NewTurnEngine(e.screen)
	if err := e.Reset(); err != nil {
		return nil, err
	}
	return e, nil
}

// Clone returns an environment on the same map with its own random source and board.
func (e *Environment) Clone(seed uint64) (*Environment, error) {
	screen := e.screen
	if f, ok := screen.(Forker); ok {
		screen = f.Fork()
	}
	return NewEnvironment(e.cfg, WithScreen(screen), WithSeed(seed))
}

// Reset replaces the board with a fresh one.
func (e *Environment) Reset() error {
	grid, err := game.NewGridState(e.cfg, e.rng)
	if err != nil {
		return fmt.Errorf("failed to reset environment: %w", err)
	}
	e.grid = grid
	e.last = game.Outcome{}
	if a, ok := e.screen.(Attacher); ok {
		a.Attach(grid)
	}
	return nil
}

func (e *Environment) NumActions() int {
	return game.NumActions
}

func (e *Environment) NumAgents() int {
	return e.grid.NumAgents()
}

func (e *Environment) Config() game.MapConfig {
	return e.cfg
}

// Grid exposes the board read-only; callers must not keep it across resets.
func (e *Environment) Grid() *game.GridState {
	return e.grid
}

// State returns the acting player's observation.
func (e *Environment) State() State {
	return State{
		Observation: e.grid.Encode(),
		PlayerID:    e.grid.CurrentPlayer(),
	}
}

// ValidActions is the legality mask of the acting agent.
func (e *Environment) ValidActions() []bool {
	return e.grid.LegalActions()
}

// Step resolves action for the acting agent. Steps after the game ended change nothing.
func (e *Environment) Step(action int) (State, float64, bool) {
	if e.grid.GameEnded() {
		log.Warn().Msgf("step %d after game over ignored", action)
		return e.State(), 0, true
	}
	e.last = e.turns.Step(e.grid, action)
	return e.State(), e.last.Reward, e.grid.GameEnded()
}

// LastOutcome describes how the latest step was resolved.
func (e *Environment) LastOutcome() game.Outcome {
	return e.last
}

func (e *Environment) GameEnded() bool {
	return e.grid.GameEnded()
}

func (e *Environment) Winner() game.Winner {
	return e.grid.Winner()
}
