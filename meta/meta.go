// meta/meta.go
package meta

// NUM_PLAYERS is the number of sides in a game.
const NUM_PLAYERS = 2

// EVAL_GAMES defines the number of games per evaluation batch.
const EVAL_GAMES = 10

// INITIAL_ELO is the rating a model starts with.
const INITIAL_ELO = 1000

// MAX_STEPS is how many steps in a row may leave the turn unchanged before a game
// is abandoned.
const MAX_STEPS = 100000

// Default map when a config leaves fields empty.
const (
	MAP_HEIGHT  = 10
	MAP_WIDTH   = 10
	MAP_AGENTS  = 2
	MAP_CASTLES = 2
	MAP_TURNS   = 50
)
