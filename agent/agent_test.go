package agent

import (
	"castle/engine"
	"castle/game"
	"castle/utils"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRating(t *testing.T) {
	r := NewRating(1000)
	require.Equal(t, 1000, r.Elo())

	r.SetElo(1012)
	r.SetElo(990)
	require.Equal(t, 990, r.Elo(), "Current rating is the last one set")
	require.Equal(t, []int{1000, 1012, 990}, r.History())

	h := r.History()
	h[0] = 0
	require.Equal(t, 1000, r.History()[0], "History should be a copy")
}

func TestRandomModel(t *testing.T) {
	obs := game.Observation{Height: 1, Width: 1, Planes: make([]float32, game.PlaneCount)}

	t.Run("one score per action", func(t *testing.T) {
		scores := NewRandomModel(1).Predict(obs)
		require.Len(t, scores, game.NumActions)
		for _, s := range scores {
			require.GreaterOrEqual(t, s, 0.0)
			require.Less(t, s, 1.0)
		}
	})

	t.Run("seeded models agree", func(t *testing.T) {
		require.Equal(t, NewRandomModel(9).Predict(obs), NewRandomModel(9).Predict(obs))
	})

	t.Run("safe for concurrent use", func(t *testing.T) {
		m := NewRandomModel(2)
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				m.Predict(obs)
			}()
		}
		wg.Wait()
	})
}

func TestGreedyModel(t *testing.T) {
	newEnv := func(t *testing.T, cfg game.MapConfig) *engine.Environment {
		env, err := engine.NewEnvironment(cfg)
		require.NoError(t, err)
		return env
	}

	t.Run("builds on free ground first", func(t *testing.T) {
		env := newEnv(t, game.MapConfig{Height: 5, Width: 5, NumAgents: 1, Turns: 2,
			Agents: [][][2]int{{{2, 2}}, {{0, 0}}},
		})
		scores := NewGreedyModel().Predict(env.State().Observation)
		require.Len(t, scores, game.NumActions)

		best, _ := game.DecodeAction(utils.MaskedArgmax(scores, env.ValidActions()))
		require.Equal(t, game.BuildAction, best.Type)
	})

	t.Run("tears down opponent walls before its own", func(t *testing.T) {
		env := newEnv(t, game.MapConfig{Height: 3, Width: 3, NumAgents: 1, Turns: 2,
			Castles: [][2]int{{0, 0}, {0, 2}, {2, 0}, {2, 2}},
			Agents:  [][][2]int{{{1, 1}}, {{1, 0}}},
			Walls:   [][][2]int{{{0, 1}, {1, 2}}, {{2, 1}}},
		})
		scores := NewGreedyModel().Predict(env.State().Observation)

		best, _ := game.DecodeAction(utils.MaskedArgmax(scores, env.ValidActions()))
		require.Equal(t, game.Action{Type: game.DestroyAction, Dir: game.Down}, best)
		require.Less(t, scores[game.Action{Type: game.DestroyAction, Dir: game.Up}.Index()], 0.0)
	})

	t.Run("stays when boxed in", func(t *testing.T) {
		env := newEnv(t, game.MapConfig{Height: 1, Width: 2, NumAgents: 1, Turns: 1,
			Agents: [][][2]int{{{0, 0}}, {{0, 1}}},
		})
		scores := NewGreedyModel().Predict(env.State().Observation)
		best, _ := game.DecodeAction(utils.MaskedArgmax(scores, env.ValidActions()))
		require.Equal(t, game.StayAction, best.Type)
	})

	t.Run("implements Model", func(t *testing.T) {
		var m Model = NewGreedyModel()
		m.SetElo(1200)
		require.Equal(t, 1200, m.Elo())
	})
}
