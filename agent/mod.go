package agent

import (
	"castle/game"
	"castle/meta"
	"sync"
)

// Model is a decision maker the evaluator can rate.
type Model interface {
	// Predict returns one score per action index; higher is better.
	Predict(obs game.Observation) []float64
	Elo() int
	SetElo(rating int)
}

// Rating keeps every rating a model has had. The current rating is the last one.
type Rating struct {
	mu      sync.Mutex
	history []int
}

func NewRating(initial int) *Rating {
	return &Rating{history: []int{initial}}
}

func (r *Rating) Elo() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.history) == 0 {
		return meta.INITIAL_ELO
	}
	return r.history[len(r.history)-1]
}

func (r *Rating) SetElo(rating int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, rating)
}

// History returns a copy of all ratings, oldest first.
func (r *Rating) History() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.history...)
}
