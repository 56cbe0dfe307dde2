package searcher

import "math"

const CSquared = 2.0 // Exploration constant

// Rollout results from the searching player's perspective
const (
	WIN  = 1.0
	DRAW = 0.5
	LOSS = 0.0
)

type uct struct {
	numerator float64
}

func newUCT(cSquared float64, N float64) *uct {
	if N == 0 {
		panic("N cannot be 0")
	}
	return &uct{numerator: cSquared * math.Log(N)}
}

// evaluate prefers unvisited arms.
func (u uct) evaluate(q float64, n float64) float64 {
	if n == 0 {
		return math.Inf(1)
	}
	// UCT = q/n + sqrt(c^2*ln(N)/n)
	return q/n + math.Sqrt(u.numerator/n)
}
