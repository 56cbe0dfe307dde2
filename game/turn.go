package game

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Outcome describes how a single step was resolved.
type Outcome struct {
	Index   int
	Action  Action
	InRange bool // false when the index was outside the action space
	Valid   bool // false when an in-range action failed its placement rules
	Player  int  // the acting player
	Agent   int  // the acting agent's index in the snapshot
	From    Coord
	Reward  float64
}

// TurnEngine resolves action indices against a GridState.
type TurnEngine struct {
	screen Screen
	logger *zerolog.Logger // nil for the global logger
}

func NewTurnEngine(screen Screen) TurnEngine {
	if screen == nil {
		screen = NopScreen{}
	}
	return TurnEngine{screen: screen}
}

// WithLogger returns a copy of t that logs to logger.
func (t TurnEngine) WithLogger(logger zerolog.Logger) TurnEngine {
	t.logger = &logger
	return t
}

func (t TurnEngine) log() *zerolog.Logger {
	if t.logger == nil {
		return &log.Logger
	}
	return t.logger
}

// Step resolves index for the acting agent, advances the rotation and updates the
// acting player's score by the reward.
func (t TurnEngine) Step(gs *GridState, index int) Outcome {
	player := gs.currentPlayer
	out := Outcome{Index: index, Player: player, Agent: gs.agentCurrentIdx}

	action, ok := DecodeAction(index)
	if !ok {
		// TODO: out-of-range indices skip the turn advance while invalid in-range
		// actions do not; keep both until the two policies are reconciled.
		t.log().Warn().Msgf("invalid action index %d", index)
		out.Reward = float64(gs.reward(player))
		return out
	}
	out.InRange = true
	out.Action = action

	// Agents act from where they stood when the round began.
	from := gs.agentCoordsInOrder[player][gs.agentCurrentIdx]
	out.From = from
	out.Valid = t.resolve(gs, gs.agentCoordsInOrder, player, from, action)

	t.log().Debug().
		Int("player", player).
		Int("agent", out.Agent).
		Str("action", action.String()).
		Interface("from", from).
		Bool("valid", out.Valid).
		Msg("resolved action")

	gs.advance()

	reward := gs.reward(player)
	gs.players[player].Score += reward
	out.Reward = float64(reward)

	t.screen.ShowScore()
	t.screen.Render()
	return out
}

func (t TurnEngine) resolve(gs *GridState, order Snapshot, player int, from Coord, action Action) bool {
	switch action.Type {
	case MoveAction:
		to := from.Add(action.Dir.Offset())
		if !canMove(gs, order, to) {
			return false
		}
		gs.setAgent(player, to)
		gs.clearAgent(player, from)
		t.screen.DrawAgent(to.Row, to.Col, player)
		t.screen.MakeEmptySquare(from)
		return true

	case BuildAction:
		target := from.Add(action.Dir.Offset())
		if !canBuild(gs, order, target) {
			return false
		}
		gs.setWall(player, target)
		t.screen.DrawWall(player, target.Row, target.Col)
		return true

	case DestroyAction:
		target := from.Add(action.Dir.Offset())
		if !canDestroy(gs, target) {
			return false
		}
		gs.clearWalls(target)
		t.screen.MakeEmptySquare(target)
		return true
	}
	return true
}

// canMove needs both checks: the snapshot stops an agent from taking a cell another
// agent started the round on, the live grid stops two agents ending on one cell.
func canMove(gs *GridState, order Snapshot, to Coord) bool {
	switch {
	case !gs.InBounds(to):
		return false
	case order.Contains(to):
		return false
	case gs.Occupied(to):
		return false
	case gs.AnyWall(to):
		return false
	case gs.CastleAt(to):
		return false
	}
	return true
}

func canBuild(gs *GridState, order Snapshot, target Coord) bool {
	switch {
	case !gs.InBounds(target):
		return false
	case gs.AnyWall(target):
		return false
	case gs.CastleAt(target):
		return false
	case order.Contains(target):
		return false
	}
	return true
}

// Destroying is not restricted to the wall's owner.
func canDestroy(gs *GridState, target Coord) bool {
	return gs.InBounds(target) && gs.AnyWall(target)
}

// LegalActions reports, per action index, whether the acting agent's action would
// pass its placement rules. Stay is always legal.
func (gs *GridState) LegalActions() []bool {
	mask := make([]bool, NumActions)
	order := gs.agentCoordsInOrder
	from := gs.agentCoordsInOrder[gs.currentPlayer][gs.agentCurrentIdx]
	for i, action := range AllActions() {
		target := from.Add(action.Dir.Offset())
		switch action.Type {
		case MoveAction:
			mask[i] = canMove(gs, order, target)
		case BuildAction:
			mask[i] = canBuild(gs, order, target)
		case DestroyAction:
			mask[i] = canDestroy(gs, target)
		case StayAction:
			mask[i] = true
		}
	}
	return mask
}
