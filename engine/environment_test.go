package engine

import (
	"bytes"
	"castle/game"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func duelConfig() game.MapConfig {
	return game.MapConfig{Height: 5, Width: 5, NumAgents: 1, Turns: 2,
		Castles: [][2]int{{0, 3}},
		Agents:  [][][2]int{{{1, 1}}, {{3, 1}}},
	}
}

var (
	stay      = game.Action{Type: game.StayAction}.Index()
	buildDown = game.Action{Type: game.BuildAction, Dir: game.Down}.Index()
)

func TestNewEnvironment(t *testing.T) {
	t.Run("malformed config fails at construction", func(t *testing.T) {
		_, err := NewEnvironment(game.MapConfig{Height: 3, Width: 0, NumAgents: 1, Turns: 1})
		require.ErrorIs(t, err, game.ErrInvalidConfig)
	})

	t.Run("starts with player 0", func(t *testing.T) {
		env, err := NewEnvironment(duelConfig())
		require.NoError(t, err)
		state := env.State()
		require.Equal(t, 0, state.PlayerID)
		require.Equal(t, [3]int{game.PlaneCount, 5, 5}, state.Observation.Shape())
		require.Equal(t, 17, env.NumActions())
		require.Len(t, env.ValidActions(), env.NumActions())
		require.False(t, env.GameEnded())
	})
}

func TestEnvironmentStep(t *testing.T) {
	env, err := NewEnvironment(duelConfig())
	require.NoError(t, err)

	next, reward, done := env.Step(buildDown)
	require.Equal(t, 1.0, reward)
	require.False(t, done)
	require.Equal(t, 1, next.PlayerID)
	require.True(t, env.LastOutcome().Valid)
	require.Equal(t, float32(1), next.Observation.At(game.PlaneOpponentWalls, 2, 1),
		"Player 1 should see player 0's wall as the opponent's")

	next, _, done = env.Step(stay)
	require.Equal(t, 0, next.PlayerID)
	require.False(t, done)

	env.Step(stay)
	_, _, done = env.Step(stay)
	require.True(t, done, "Two turns of one agent each should end the game")
	require.True(t, env.GameEnded())
	require.Equal(t, game.Player0, env.Winner())

	t.Run("steps after the end change nothing", func(t *testing.T) {
		before := env.Grid().Copy()
		_, reward, done := env.Step(buildDown)
		require.True(t, done)
		require.Equal(t, 0.0, reward)
		require.Equal(t, before, env.Grid())
	})
}

func TestEnvironmentOutOfRange(t *testing.T) {
	env, err := NewEnvironment(duelConfig())
	require.NoError(t, err)
	before := env.Grid().Copy()

	next, reward, done := env.Step(99)

	require.Equal(t, 0.0, reward)
	require.False(t, done)
	require.Equal(t, 0, next.PlayerID, "Out of range index should not pass the turn")
	require.False(t, env.LastOutcome().InRange)
	require.Equal(t, before, env.Grid())
}

func TestEnvironmentReset(t *testing.T) {
	cfg := game.MapConfig{Height: 8, Width: 8, NumAgents: 2, NumCastles: 3, Turns: 4}

	t.Run("same seed gives the same boards", func(t *testing.T) {
		a, err := NewEnvironment(cfg, WithSeed(11))
		require.NoError(t, err)
		b, err := NewEnvironment(cfg, WithSeed(11))
		require.NoError(t, err)
		require.Equal(t, Board(a.Grid()), Board(b.Grid()))

		require.NoError(t, a.Reset())
		require.NoError(t, b.Reset())
		require.Equal(t, Board(a.Grid()), Board(b.Grid()))
	})

	t.Run("reset restores the turn counters", func(t *testing.T) {
		env, err := NewEnvironment(duelConfig())
		require.NoError(t, err)
		env.Step(buildDown)
		require.NoError(t, env.Reset())
		require.Equal(t, 0, env.Grid().WallCount(0))
		require.Equal(t, 0, env.Grid().Score(0))
		require.Equal(t, 2, env.Grid().RemainingTurns())
		require.Equal(t, 0, env.State().PlayerID)
	})

	t.Run("clones do not share boards", func(t *testing.T) {
		env, err := NewEnvironment(duelConfig())
		require.NoError(t, err)
		clone, err := env.Clone(5)
		require.NoError(t, err)
		clone.Step(buildDown)
		require.Equal(t, 0, env.Grid().WallCount(0))
		require.Equal(t, 1, clone.Grid().WallCount(0))
	})
}

func TestLogScreen(t *testing.T) {
	previous := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(previous) })

	var buf bytes.Buffer
	screen := &LogScreen{logger: zerolog.New(&buf).Level(zerolog.TraceLevel)}
	env, err := NewEnvironment(duelConfig(), WithScreen(screen))
	require.NoError(t, err)

	env.Step(buildDown)

	out := buf.String()
	require.Contains(t, out, "draw wall")
	require.Contains(t, out, `"score0":1`)
	require.Contains(t, out, "#")

	forked, ok := screen.Fork().(*LogScreen)
	require.True(t, ok)
	require.Nil(t, forked.grid, "Forked screen should wait for its own board")
}

func TestBoard(t *testing.T) {
	cfg := duelConfig()
	cfg.Walls = [][][2]int{{{2, 1}}, {{4, 4}}}
	env, err := NewEnvironment(cfg)
	require.NoError(t, err)

	expected := "...#.\n" +
		".A...\n" +
		".a...\n" +
		".B...\n" +
		"....b"
	require.Equal(t, expected, Board(env.Grid()))
}
