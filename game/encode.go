package game

import (
	"castle/utils"
	"fmt"
)

// Observation planes, seen from the acting player.
const (
	PlaneOwnAgents = iota
	PlaneOpponentAgents
	PlaneOwnWalls
	PlaneOpponentWalls
	PlaneCastles
	PlaneActingAgent
	PlaneCount
)

// Observation is a PlaneCount x Height x Width float32 tensor, flattened plane-major.
type Observation struct {
	Height int
	Width  int
	Planes []float32
}

func (o Observation) At(plane, row, col int) float32 {
	return o.Planes[(plane*o.Height+row)*o.Width+col]
}

func (o Observation) Shape() [3]int {
	return [3]int{PlaneCount, o.Height, o.Width}
}

// Copy returns an observation that does not share the tensor.
func (o Observation) Copy() Observation {
	o.Planes = append([]float32(nil), o.Planes...)
	return o
}

// Encode builds the observation of the acting player.
func (gs *GridState) Encode() Observation {
	me := gs.currentPlayer
	opp := 1 - me
	obs := Observation{
		Height: gs.height,
		Width:  gs.width,
		Planes: make([]float32, PlaneCount*gs.height*gs.width),
	}
	plane := gs.height * gs.width
	for r := 0; r < gs.height; r++ {
		for c := 0; c < gs.width; c++ {
			g := r*gs.width + c
			obs.Planes[PlaneOwnAgents*plane+g] = float32(gs.agents[me][r][c])
			obs.Planes[PlaneOpponentAgents*plane+g] = float32(gs.agents[opp][r][c])
			obs.Planes[PlaneOwnWalls*plane+g] = float32(gs.walls[me][r][c])
			obs.Planes[PlaneOpponentWalls*plane+g] = float32(gs.walls[opp][r][c])
			obs.Planes[PlaneCastles*plane+g] = float32(gs.castles[r][c])
		}
	}
	acting := gs.ActingCoord()
	obs.Planes[PlaneActingAgent*plane+acting.Row*gs.width+acting.Col] = 1
	return obs
}

// RestoreGridState rebuilds a board from obs with the observing player as player 0
// and turns remaining. Scores start at the current wall counts. The round snapshot is
// taken from the current positions, so agents that already moved in this round are
// seen where they stand now.
func RestoreGridState(obs Observation, turns int) (*GridState, error) {
	if obs.Height <= 0 || obs.Width <= 0 || len(obs.Planes) != PlaneCount*obs.Height*obs.Width {
		return nil, fmt.Errorf("%w: observation of %d values does not match %v", ErrInvalidConfig, len(obs.Planes), obs.Shape())
	}
	if turns <= 0 {
		return nil, fmt.Errorf("%w: turns must be positive, got %d", ErrInvalidConfig, turns)
	}

	gs := &GridState{
		height:         obs.Height,
		width:          obs.Width,
		castles:        newLayer(obs.Height, obs.Width),
		remainingTurns: turns,
	}
	planes := [NumPlayers][2]int{
		{PlaneOwnAgents, PlaneOwnWalls},
		{PlaneOpponentAgents, PlaneOpponentWalls},
	}
	for p := 0; p < NumPlayers; p++ {
		gs.agents[p] = newLayer(obs.Height, obs.Width)
		gs.walls[p] = newLayer(obs.Height, obs.Width)
	}
	var acting Coord
	found := false
	for r := 0; r < obs.Height; r++ {
		for c := 0; c < obs.Width; c++ {
			for p := 0; p < NumPlayers; p++ {
				if obs.At(planes[p][0], r, c) == 1 {
					gs.agents[p][r][c] = 1
				}
				if obs.At(planes[p][1], r, c) == 1 {
					gs.walls[p][r][c] = 1
				}
			}
			if obs.At(PlaneCastles, r, c) == 1 {
				gs.castles[r][c] = 1
			}
			if obs.At(PlaneActingAgent, r, c) == 1 {
				acting, found = Coord{Row: r, Col: c}, true
			}
		}
	}

	gs.numAgents = gs.agents[0].sum()
	if gs.numAgents == 0 || gs.agents[1].sum() != gs.numAgents {
		return nil, fmt.Errorf("%w: players have %d and %d agents", ErrInvalidConfig, gs.numAgents, gs.agents[1].sum())
	}
	for p := 0; p < NumPlayers; p++ {
		gs.players[p] = PlayerState{ID: p, Score: gs.walls[p].sum()}
	}
	gs.updateAgentCoordsInOrder()

	gs.agentCurrentIdx = utils.FindIndex(gs.agentCoordsInOrder[0], acting)
	if !found || gs.agentCurrentIdx < 0 {
		return nil, fmt.Errorf("%w: acting agent %v is not an agent of the observing player", ErrInvalidConfig, acting)
	}
	return gs, nil
}
