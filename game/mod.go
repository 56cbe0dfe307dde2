package game

import (
	"castle/meta"
	"errors"
)

const NumPlayers = meta.NUM_PLAYERS

// ErrInvalidConfig is wrapped by every map configuration error.
var ErrInvalidConfig = errors.New("invalid map config")

// Coord is a (row, col) cell position.
type Coord struct {
	Row, Col int
}

func (c Coord) Add(d Coord) Coord {
	return Coord{Row: c.Row + d.Row, Col: c.Col + d.Col}
}

// Winner is the outcome of a finished game.
type Winner int

const (
	Draw Winner = iota - 1
	Player0
	Player1
)

func (w Winner) String() string {
	switch w {
	case Player0:
		return "player0"
	case Player1:
		return "player1"
	default:
		return "draw"
	}
}

// Screen receives drawing calls after successful mutations. Calls are fire-and-forget.
type Screen interface {
	DrawAgent(row, col, player int)
	DrawWall(player, row, col int)
	MakeEmptySquare(coord Coord)
	ShowScore()
	Render()
}

// NopScreen ignores every drawing call.
type NopScreen struct{}

func (NopScreen) DrawAgent(row, col, player int) {}
func (NopScreen) DrawWall(player, row, col int)  {}
func (NopScreen) MakeEmptySquare(coord Coord)    {}
func (NopScreen) ShowScore()                     {}
func (NopScreen) Render()                        {}
