package evaluator

import (
	"castle/agent"
	"castle/engine"
	"castle/experiments/metrics"
	"castle/game"
	"castle/meta"
	"castle/utils"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

var (
	ErrNilModel   = errors.New("model must not be nil")
	ErrGameCount  = errors.New("number of games must be positive")
	ErrPrediction = errors.New("invalid prediction")
	ErrStepLimit  = errors.New("game stopped advancing")
)

// Cloner is implemented by simulations that can run games in parallel.
type Cloner interface {
	Clone(seed uint64) (*engine.Environment, error)
}

type Option func(e *Evaluator)

// WithWorkers plays up to workers games at once on cloned simulations. The
// simulation must implement Cloner.
func WithWorkers(workers int) Option {
	return func(e *Evaluator) {
		if workers > 0 {
			e.workers = workers
		}
	}
}

// WithMaxSteps aborts a game after steps consecutive steps that did not advance the
// turn. Games that keep advancing run until they end.
func WithMaxSteps(steps int) Option {
	return func(e *Evaluator) {
		if steps > 0 {
			e.maxSteps = steps
		}
	}
}

// WithMetrics records timings and step counts of every game.
func WithMetrics() Option {
	return func(e *Evaluator) {
		e.collector = metrics.NewCollector
	}
}

// WithSeed fixes the seeds of the cloned simulations used by parallel games.
func WithSeed(seed uint64) Option {
	return func(e *Evaluator) {
		e.seed = seed
	}
}

// Evaluator plays a batch of games between two models and rates them.
type Evaluator struct {
	sim       engine.Simulation
	workers   int
	maxSteps  int
	seed      uint64
	collector func() metrics.Collector
	records   []metrics.GameRecord
}

func NewEvaluator(sim engine.Simulation, options ...Option) *Evaluator {
	e := &Evaluator{ // Default values
		sim:       sim,
		workers:   1,
		maxSteps:  meta.MAX_STEPS,
		seed:      uint64(time.Now().UnixNano()),
		collector: metrics.NewDummyCollector,
	}
	for _, option := range options {
		option(e)
	}
	if e.workers > 1 {
		if _, ok := sim.(Cloner); !ok {
			log.Warn().Msgf("simulation %T cannot be cloned, playing games sequentially", sim)
			e.workers = 1
		}
	}
	return e
}

type result struct {
	winner game.Winner
	metric metrics.GameMetric
}

// Evaluate plays games between the two models, newModel on side 0 and oldModel on
// side 1, threading the ratings through every result in game order. With changeElo the
// final ratings are stored on both models. It reports whether the final rating of
// newModel exceeds the rating oldModel had before the batch.
func (e *Evaluator) Evaluate(oldModel, newModel agent.Model, games int, changeElo bool) (bool, error) {
	if oldModel == nil || newModel == nil {
		return false, ErrNilModel
	}
	if games <= 0 {
		return false, fmt.Errorf("%w: got %d", ErrGameCount, games)
	}

	run := uuid.NewString()
	logger := log.With().Str("run", run).Logger()

	newElo, oldElo := newModel.Elo(), oldModel.Elo()
	startNew, startOld := newElo, oldElo

	logger.Info().Msgf("starting evaluation of %d games with new=%d old=%d...", games, newElo, oldElo)

	models := [game.NumPlayers]agent.Model{newModel, oldModel}
	results, err := e.play(logger, models, games)
	if err != nil {
		return false, err
	}

	wins := [game.NumPlayers]int{}
	records := make([]metrics.GameRecord, 0, games)
	for i, res := range results {
		if res.winner != game.Draw {
			wins[res.winner]++
		}
		newElo, oldElo = ComputeElo(newElo, oldElo, score(res.winner))
		records = append(records, metrics.GameRecord{
			ID:         i + 1,
			Run:        run,
			OldElo:     oldElo,
			NewElo:     newElo,
			GameMetric: res.metric,
		})
	}
	e.records = append(e.records, records...)

	if changeElo {
		oldModel.SetElo(oldElo)
		newModel.SetElo(newElo)
		logger.Info().
			Int("old_elo", oldElo).
			Msgf("Elo changes from %d to %d | Win %d/%d", startNew, newElo, wins[0], games)
	} else {
		leader, n := "new", wins[0]
		if oldElo > newElo {
			leader, n = "old", wins[1]
		}
		logger.Info().
			Int("draws", games-wins[0]-wins[1]).
			Msgf("%s model wins %d/%d", leader, n, games)
	}

	return newElo > startOld, nil
}

// Records returns the records of every game evaluated so far.
func (e *Evaluator) Records() []metrics.GameRecord {
	return append([]metrics.GameRecord(nil), e.records...)
}

func (e *Evaluator) play(logger zerolog.Logger, models [game.NumPlayers]agent.Model, games int) ([]result, error) {
	if e.workers == 1 {
		results := make([]result, games)
		for i := range results {
			res, err := e.playGame(e.sim, models)
			if err != nil {
				return nil, fmt.Errorf("game %d: %w", i+1, err)
			}
			results[i] = res
			logger.Debug().Msgf("completed game %d of %d with winner: %s", i+1, games, res.winner)
		}
		return results, nil
	}

	// Seeds are drawn up front so each game sees the same board whatever the schedule.
	rng := rand.New(rand.NewSource(e.seed))
	seeds := make([]uint64, games)
	for i := range seeds {
		seeds[i] = rng.Uint64()
	}

	task := make(chan int, games)
	for i := 0; i < games; i++ {
		task <- i
	}
	close(task)

	cloner := e.sim.(Cloner)
	results := make([]result, games)
	errs := make([]error, games)

	var wg sync.WaitGroup
	for w := 0; w < min(e.workers, games); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for i := range task {
				sim, err := cloner.Clone(seeds[i])
				if err != nil {
					errs[i] = err
					continue
				}
				results[i], errs[i] = e.playGame(sim, models)
				if errs[i] == nil {
					logger.Debug().Msgf("completed game %d of %d with winner: %s", i+1, games, results[i].winner)
				}
			}
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("game %d: %w", i+1, err)
		}
	}
	return results, nil
}

// playGame resets sim and plays it to the end. The acting side's model picks the
// legal action with the highest score.
func (e *Evaluator) playGame(sim engine.Simulation, models [game.NumPlayers]agent.Model) (result, error) {
	if err := sim.Reset(); err != nil {
		return result{}, err
	}
	collector := e.collector()
	collector.Start()

	state := sim.State()
	stalled := 0
	for !sim.GameEnded() {
		scores := models[state.PlayerID].Predict(state.Observation)
		if len(scores) != sim.NumActions() {
			return result{}, fmt.Errorf("%w: got %d scores for %d actions", ErrPrediction, len(scores), sim.NumActions())
		}
		action := utils.MaskedArgmax(scores, sim.ValidActions())
		if action < 0 {
			return result{}, fmt.Errorf("%w: no legal action for player %d", ErrPrediction, state.PlayerID)
		}

		next, _, done := sim.Step(action)
		outcome := sim.LastOutcome()
		collector.AddStep(outcome)
		state = next
		if done {
			break
		}

		if outcome.InRange {
			stalled = 0
			continue
		}
		stalled++
		if stalled >= e.maxSteps {
			return result{}, fmt.Errorf("%w: %d steps without a turn advance", ErrStepLimit, stalled)
		}
	}

	winner := sim.Winner()
	return result{winner: winner, metric: collector.Complete(winner)}, nil
}

// score converts a winner into the result of side 0.
func score(winner game.Winner) float64 {
	switch winner {
	case game.Player0:
		return 1
	case game.Player1:
		return 0
	}
	return 0.5
}
