package game

import (
	"castle/utils"
	"fmt"

	"golang.org/x/exp/rand"
)

type layer [][]uint8

func newLayer(height, width int) layer {
	l := make(layer, height)
	for i := range l {
		l[i] = make([]uint8, width)
	}
	return l
}

func (l layer) copy() layer {
	c := make(layer, len(l))
	for i, row := range l {
		c[i] = append([]uint8(nil), row...)
	}
	return c
}

func (l layer) sum() int {
	total := 0
	for _, row := range l {
		for _, v := range row {
			total += int(v)
		}
	}
	return total
}

// Snapshot holds each player's agent coordinates as they stood when the current
// round began. A snapshot is never modified after it is taken.
type Snapshot [NumPlayers][]Coord

func (s Snapshot) Contains(c Coord) bool {
	for _, coords := range s {
		if utils.FindIndex(coords, c) >= 0 {
			return true
		}
	}
	return false
}

// PlayerState is the per-player bookkeeping of a game.
type PlayerState struct {
	ID    int
	Score int
}

// GridState is the board of a single game. Only the TurnEngine mutates it.
type GridState struct {
	height, width int
	numAgents     int

	agents  [NumPlayers]layer
	walls   [NumPlayers]layer
	castles layer

	agentCoordsInOrder Snapshot
	currentPlayer      int
	agentCurrentIdx    int
	remainingTurns     int
	players            [NumPlayers]PlayerState
}

// NewGridState builds the initial board of cfg. Random layouts draw from rng.
func NewGridState(cfg MapConfig, rng *rand.Rand) (*GridState, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	gs := &GridState{
		height:         cfg.Height,
		width:          cfg.Width,
		numAgents:      cfg.NumAgents,
		castles:        newLayer(cfg.Height, cfg.Width),
		remainingTurns: cfg.Turns,
	}
	for p := 0; p < NumPlayers; p++ {
		gs.agents[p] = newLayer(cfg.Height, cfg.Width)
		gs.walls[p] = newLayer(cfg.Height, cfg.Width)
		gs.players[p] = PlayerState{ID: p}
	}

	if cfg.IsFixed() {
		gs.placeFixed(cfg)
	} else {
		if rng == nil {
			return nil, fmt.Errorf("%w: random layout needs a random source", ErrInvalidConfig)
		}
		gs.placeRandom(cfg, rng)
	}

	gs.updateAgentCoordsInOrder()
	return gs, nil
}

func (gs *GridState) placeFixed(cfg MapConfig) {
	for _, rc := range cfg.Castles {
		gs.castles[rc[0]][rc[1]] = 1
	}
	for p, layout := range cfg.Agents {
		for _, rc := range layout {
			gs.agents[p][rc[0]][rc[1]] = 1
		}
	}
	for p, layout := range cfg.Walls {
		for _, rc := range layout {
			gs.walls[p][rc[0]][rc[1]] = 1
		}
	}
}

// placeRandom puts castles first, then player 0's agents, then player 1's, each on a
// distinct free cell.
func (gs *GridState) placeRandom(cfg MapConfig, rng *rand.Rand) {
	cells := rng.Perm(gs.height * gs.width)
	next := 0
	take := func() Coord {
		i := cells[next]
		next++
		return Coord{Row: i / gs.width, Col: i % gs.width}
	}
	for i := 0; i < cfg.NumCastles; i++ {
		c := take()
		gs.castles[c.Row][c.Col] = 1
	}
	for p := 0; p < NumPlayers; p++ {
		for i := 0; i < cfg.NumAgents; i++ {
			c := take()
			gs.agents[p][c.Row][c.Col] = 1
		}
	}
}

// Copy returns a deep copy of the GridState.
func (gs *GridState) Copy() *GridState {
	c := *gs
	for p := 0; p < NumPlayers; p++ {
		c.agents[p] = gs.agents[p].copy()
		c.walls[p] = gs.walls[p].copy()
		c.agentCoordsInOrder[p] = append([]Coord(nil), gs.agentCoordsInOrder[p]...)
	}
	c.castles = gs.castles.copy()
	return &c
}

func (gs *GridState) Height() int         { return gs.height }
func (gs *GridState) Width() int          { return gs.width }
func (gs *GridState) NumAgents() int      { return gs.numAgents }
func (gs *GridState) CurrentPlayer() int  { return gs.currentPlayer }
func (gs *GridState) AgentIndex() int     { return gs.agentCurrentIdx }
func (gs *GridState) RemainingTurns() int { return gs.remainingTurns }

// Score is the running score of player p.
func (gs *GridState) Score(p int) int { return gs.players[p].Score }

// Player returns a copy of player p's bookkeeping.
func (gs *GridState) Player(p int) PlayerState { return gs.players[p] }

// Order returns a copy of the snapshot taken at the start of the current round.
func (gs *GridState) Order() Snapshot {
	var s Snapshot
	for p, coords := range gs.agentCoordsInOrder {
		s[p] = append([]Coord(nil), coords...)
	}
	return s
}

// ActingCoord is the snapshot coordinate of the agent that moves next.
func (gs *GridState) ActingCoord() Coord {
	return gs.agentCoordsInOrder[gs.currentPlayer][gs.agentCurrentIdx]
}

func (gs *GridState) InBounds(c Coord) bool {
	return 0 <= c.Row && c.Row < gs.height && 0 <= c.Col && c.Col < gs.width
}

// AgentAt reports whether player p has an agent on c.
func (gs *GridState) AgentAt(p int, c Coord) bool {
	return gs.InBounds(c) && gs.agents[p][c.Row][c.Col] == 1
}

// Occupied reports whether any player has an agent on c.
func (gs *GridState) Occupied(c Coord) bool {
	for p := 0; p < NumPlayers; p++ {
		if gs.AgentAt(p, c) {
			return true
		}
	}
	return false
}

// WallAt reports whether player p owns a wall on c.
func (gs *GridState) WallAt(p int, c Coord) bool {
	return gs.InBounds(c) && gs.walls[p][c.Row][c.Col] == 1
}

// AnyWall reports whether either player owns a wall on c.
func (gs *GridState) AnyWall(c Coord) bool {
	for p := 0; p < NumPlayers; p++ {
		if gs.WallAt(p, c) {
			return true
		}
	}
	return false
}

func (gs *GridState) CastleAt(c Coord) bool {
	return gs.InBounds(c) && gs.castles[c.Row][c.Col] == 1
}

// WallCount is the area claimed by player p.
func (gs *GridState) WallCount(p int) int {
	return gs.walls[p].sum()
}

// AgentCount is the number of agents player p has on the board.
func (gs *GridState) AgentCount(p int) int {
	return gs.agents[p].sum()
}

// GameEnded reports whether no turns remain.
func (gs *GridState) GameEnded() bool {
	return gs.remainingTurns == 0
}

// Winner compares the claimed wall area of both players.
func (gs *GridState) Winner() Winner {
	a, b := gs.WallCount(0), gs.WallCount(1)
	switch {
	case a > b:
		return Player0
	case b > a:
		return Player1
	}
	return Draw
}

// write primitives, used by the TurnEngine only

func (gs *GridState) setAgent(p int, c Coord)   { gs.agents[p][c.Row][c.Col] = 1 }
func (gs *GridState) clearAgent(p int, c Coord) { gs.agents[p][c.Row][c.Col] = 0 }
func (gs *GridState) setWall(p int, c Coord)    { gs.walls[p][c.Row][c.Col] = 1 }

// clearWalls removes the wall on c whoever owns it.
func (gs *GridState) clearWalls(c Coord) {
	for p := 0; p < NumPlayers; p++ {
		gs.walls[p][c.Row][c.Col] = 0
	}
}

// updateAgentCoordsInOrder takes a fresh snapshot from a row-major scan of every
// player's occupancy layer.
func (gs *GridState) updateAgentCoordsInOrder() {
	var snap Snapshot
	for p := 0; p < NumPlayers; p++ {
		coords := make([]Coord, 0, gs.numAgents)
		for r := 0; r < gs.height; r++ {
			for c := 0; c < gs.width; c++ {
				if gs.agents[p][r][c] == 1 {
					coords = append(coords, Coord{Row: r, Col: c})
				}
			}
		}
		snap[p] = coords
	}
	gs.agentCoordsInOrder = snap
}

// advance moves to the next agent, switching player and counting down turns at the
// round boundaries.
func (gs *GridState) advance() {
	gs.agentCurrentIdx = (gs.agentCurrentIdx + 1) % gs.numAgents
	if gs.agentCurrentIdx == 0 {
		gs.currentPlayer = (gs.currentPlayer + 1) % NumPlayers
		gs.updateAgentCoordsInOrder()
		if gs.currentPlayer == 0 {
			gs.remainingTurns--
		}
	}
}

// reward is the change in claimed area of player p since its score was last updated.
func (gs *GridState) reward(p int) int {
	return gs.WallCount(p) - gs.players[p].Score
}
