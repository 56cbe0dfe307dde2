package engine

import (
	"castle/game"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogScreen turns drawing calls into debug events and renders the board as text at
// trace level.
type LogScreen struct {
	logger zerolog.Logger
	grid   *game.GridState
}

func NewLogScreen() *LogScreen {
	return &LogScreen{logger: log.With().Str("component", "screen").Logger()}
}

func (s *LogScreen) Attach(gs *game.GridState) {
	s.grid = gs
}

// Fork gives a cloned environment its own screen.
func (s *LogScreen) Fork() game.Screen {
	return &LogScreen{logger: s.logger}
}

func (s *LogScreen) DrawAgent(row, col, player int) {
	s.logger.Debug().Int("row", row).Int("col", col).Int("player", player).Msg("draw agent")
}

func (s *LogScreen) DrawWall(player, row, col int) {
	s.logger.Debug().Int("row", row).Int("col", col).Int("player", player).Msg("draw wall")
}

func (s *LogScreen) MakeEmptySquare(coord game.Coord) {
	s.logger.Debug().Int("row", coord.Row).Int("col", coord.Col).Msg("clear square")
}

func (s *LogScreen) ShowScore() {
	if s.grid == nil {
		return
	}
	s.logger.Debug().
		Int("score0", s.grid.Score(0)).
		Int("score1", s.grid.Score(1)).
		Int("remaining", s.grid.RemainingTurns()).
		Msg("score")
}

func (s *LogScreen) Render() {
	if s.grid == nil {
		return
	}
	if e := s.logger.Trace(); e.Enabled() {
		e.Msg("\n" + Board(s.grid))
	}
}

// Board draws gs as text: A/B agents, a/b walls, # castles.
func Board(gs *game.GridState) string {
	var sb strings.Builder
	for r := 0; r < gs.Height(); r++ {
		for c := 0; c < gs.Width(); c++ {
			coord := game.Coord{Row: r, Col: c}
			switch {
			case gs.AgentAt(0, coord):
				sb.WriteByte('A')
			case gs.AgentAt(1, coord):
				sb.WriteByte('B')
			case gs.WallAt(0, coord):
				sb.WriteByte('a')
			case gs.WallAt(1, coord):
				sb.WriteByte('b')
			case gs.CastleAt(coord):
				sb.WriteByte('#')
			default:
				sb.WriteByte('.')
			}
		}
		if r < gs.Height()-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
