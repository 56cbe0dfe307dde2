package agent

import (
	"castle/game"
	"castle/meta"
)

// Scores of the greedy model by action kind.
const (
	buildScore          = 3.0
	destroyOpponentWall = 2.0
	destroyOwnWall      = -2.0
	moveScore           = 1.0
	buildableBonus      = 0.1
	stayScore           = 0.0
)

type greedyModel struct {
	*Rating
}

// NewGreedyModel claims free cells next to the acting agent, tears down opponent
// walls, and otherwise walks towards open ground.
func NewGreedyModel() *greedyModel {
	return &greedyModel{Rating: NewRating(meta.INITIAL_ELO)}
}

func (m *greedyModel) Predict(obs game.Observation) []float64 {
	scores := make([]float64, game.NumActions)
	from, ok := actingAgent(obs)
	if !ok {
		return scores
	}
	for i, action := range game.AllActions() {
		target := from.Add(action.Dir.Offset())
		switch action.Type {
		case game.BuildAction:
			if free(obs, target) {
				scores[i] = buildScore
			}
		case game.DestroyAction:
			switch {
			case wallAt(obs, game.PlaneOpponentWalls, target):
				scores[i] = destroyOpponentWall
			case wallAt(obs, game.PlaneOwnWalls, target):
				scores[i] = destroyOwnWall
			}
		case game.MoveAction:
			if free(obs, target) {
				scores[i] = moveScore + buildableBonus*float64(buildable(obs, target))
			}
		case game.StayAction:
			scores[i] = stayScore
		}
	}
	return scores
}

func actingAgent(obs game.Observation) (game.Coord, bool) {
	for r := 0; r < obs.Height; r++ {
		for c := 0; c < obs.Width; c++ {
			if obs.At(game.PlaneActingAgent, r, c) == 1 {
				return game.Coord{Row: r, Col: c}, true
			}
		}
	}
	return game.Coord{}, false
}

func inBounds(obs game.Observation, c game.Coord) bool {
	return 0 <= c.Row && c.Row < obs.Height && 0 <= c.Col && c.Col < obs.Width
}

func wallAt(obs game.Observation, plane int, c game.Coord) bool {
	return inBounds(obs, c) && obs.At(plane, c.Row, c.Col) == 1
}

// free reports a cell holding nothing at all.
func free(obs game.Observation, c game.Coord) bool {
	if !inBounds(obs, c) {
		return false
	}
	for plane := game.PlaneOwnAgents; plane <= game.PlaneCastles; plane++ {
		if obs.At(plane, c.Row, c.Col) == 1 {
			return false
		}
	}
	return true
}

// buildable counts the free cells around c that a Build could reach.
func buildable(obs game.Observation, c game.Coord) int {
	n := 0
	for _, d := range []game.Direction{game.Up, game.Down, game.Left, game.Right} {
		if free(obs, c.Add(d.Offset())) {
			n++
		}
	}
	return n
}
