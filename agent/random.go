package agent

import (
	"castle/game"
	"castle/meta"
	"sync"

	"golang.org/x/exp/rand"
)

type randomModel struct {
	*Rating
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomModel scores every action uniformly at random.
func NewRandomModel(seed uint64) *randomModel {
	return &randomModel{
		Rating: NewRating(meta.INITIAL_ELO),
		rng:    rand.New(rand.NewSource(seed)),
	}
}

func (m *randomModel) Predict(obs game.Observation) []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	scores := make([]float64, game.NumActions)
	for i := range scores {
		scores[i] = m.rng.Float64()
	}
	return scores
}
