package searcher

import (
	"castle/agent"
	"castle/game"
	"castle/meta"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

const DefaultHorizon = 3 // Turns simulated by each rollout, the current one included

type Option func(s *Search)

func WithDuration(duration time.Duration) Option {
	return func(s *Search) {
		if duration > 0 {
			s.duration = duration
		}
	}
}

func WithEpisodes(episodes int) Option {
	return func(s *Search) {
		if episodes > 0 {
			s.episodes = episodes
		}
	}
}

// WithHorizon limits rollouts to turns turns, the current one included.
func WithHorizon(turns int) Option {
	return func(s *Search) {
		if turns > 0 {
			s.horizon = turns
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(s *Search) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

func WithMetrics() Option {
	return func(s *Search) {
		s.newMetrics = NewMetricsCollector
	}
}

// Search is a model that scores the acting agent's actions by random rollouts. Each
// episode picks an action with UCT, plays it and finishes the horizon with random
// legal actions for every agent.
type Search struct {
	*agent.Rating
	goroutines int
	duration   time.Duration
	episodes   int
	horizon    int
	newMetrics func() MetricsCollector

	mu   sync.Mutex
	rng  *rand.Rand
	last SearchMetrics
}

var _ agent.Model = (*Search)(nil)

func NewSearch(goroutines int, options ...Option) *Search {
	s := &Search{ // Default values
		Rating:     agent.NewRating(meta.INITIAL_ELO),
		goroutines: max(goroutines, 1),
		horizon:    DefaultHorizon,
		newMetrics: NewNoMetricsCollector,
		rng:        rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
	}
	for _, option := range options {
		option(s)
	}
	if s.episodes <= 0 && s.duration <= 0 {
		panic("Must specify search episodes or duration")
	}
	return s
}

// arm holds the rollout statistics of one root action.
type arm struct {
	rewards float64
	visits  int
}

type root struct {
	sync.Mutex
	state  *game.GridState
	legal  []int
	arms   []arm
	visits int
}

// Predict returns the mean rollout result of every legal action, in [0,1]. Illegal
// actions and observations that cannot be searched score 0.
func (s *Search) Predict(obs game.Observation) []float64 {
	scores := make([]float64, game.NumActions)
	state, err := game.RestoreGridState(obs, s.horizon)
	if err != nil {
		log.Warn().Err(err).Msg("cannot search observation")
		return scores
	}

	r := &root{state: state}
	for i, ok := range state.LegalActions() {
		if ok {
			r.legal = append(r.legal, i)
		}
	}
	r.arms = make([]arm, len(r.legal))

	metrics := s.newMetrics()
	metrics.Start()
	if s.episodes > 0 {
		s.iterate(r, metrics)
	} else {
		s.countdown(r, metrics)
	}

	s.mu.Lock()
	s.last = metrics.Complete()
	s.mu.Unlock()

	for i, action := range r.legal {
		if r.arms[i].visits > 0 {
			scores[action] = r.arms[i].rewards / float64(r.arms[i].visits)
		}
	}
	return scores
}

// LastMetrics describes the latest Predict call when metrics are enabled.
func (s *Search) LastMetrics() SearchMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Search) seeds() []uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	seeds := make([]uint64, s.goroutines)
	for i := range seeds {
		seeds[i] = s.rng.Uint64()
	}
	return seeds
}

func (s *Search) iterate(r *root, metrics MetricsCollector) {
	task := make(chan any, s.episodes)
	for i := 0; i < s.episodes; i++ {
		task <- nil
	}
	close(task)

	var wg sync.WaitGroup
	for _, seed := range s.seeds() {
		wg.Add(1)
		go func(rng *rand.Rand) {
			defer wg.Done()

			for range task {
				s.simulate(r, rng, metrics)
				metrics.AddEpisode()
			}
		}(rand.New(rand.NewSource(seed)))
	}

	wg.Wait()
}

func (s *Search) countdown(r *root, metrics MetricsCollector) {
	start := time.Now()
	var wg sync.WaitGroup

	for _, seed := range s.seeds() {
		wg.Add(1)
		go func(rng *rand.Rand) {
			defer wg.Done()

			for time.Since(start) < s.duration {
				s.simulate(r, rng, metrics)
				metrics.AddEpisode()
			}
		}(rand.New(rand.NewSource(seed)))
	}

	wg.Wait()
}

func (s *Search) simulate(r *root, rng *rand.Rand, metrics MetricsCollector) {
	ith := r.selectArm()
	result, steps := rollout(r.state.Copy(), r.legal[ith], rng)
	metrics.AddSteps(steps)
	r.backup(ith, result)
}

// selectArm picks the arm with the highest UCT value and counts the visit right away
// so that concurrent episodes spread over the arms.
func (r *root) selectArm() int {
	r.Lock()
	defer r.Unlock()

	r.visits++
	policy := newUCT(CSquared, float64(r.visits))
	best, bestValue := 0, policy.evaluate(r.arms[0].rewards, float64(r.arms[0].visits))
	for i := 1; i < len(r.arms); i++ {
		value := policy.evaluate(r.arms[i].rewards, float64(r.arms[i].visits))
		if value > bestValue {
			best, bestValue = i, value
		}
	}
	r.arms[best].visits++
	return best
}

func (r *root) backup(ith int, result float64) {
	r.Lock()
	defer r.Unlock()
	r.arms[ith].rewards += result
}

var quietTurns = game.NewTurnEngine(nil).WithLogger(zerolog.Nop())

// rollout plays action for player 0 and random legal actions until the game ends.
func rollout(state *game.GridState, action int, rng *rand.Rand) (float64, int) {
	quietTurns.Step(state, action)
	steps := 1
	for !state.GameEnded() {
		legal := state.LegalActions()
		choices := make([]int, 0, len(legal))
		for i, ok := range legal {
			if ok {
				choices = append(choices, i)
			}
		}
		quietTurns.Step(state, choices[rng.Intn(len(choices))])
		steps++
	}

	switch state.Winner() {
	case game.Player0:
		return WIN, steps
	case game.Player1:
		return LOSS, steps
	}
	return DRAW, steps
}
