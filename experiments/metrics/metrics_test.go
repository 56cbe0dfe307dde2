package metrics

import (
	"castle/game"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c := NewCollector()
	c.Start()
	c.AddStep(game.Outcome{InRange: true, Valid: true, Player: 0, Reward: 1})
	c.AddStep(game.Outcome{InRange: true, Valid: false, Player: 1, Reward: 0})
	c.AddStep(game.Outcome{InRange: true, Valid: true, Player: 1, Reward: -1})
	c.AddStep(game.Outcome{InRange: false, Player: 0, Reward: 1})

	m := c.Complete(game.Player0)
	require.Equal(t, 4, m.Steps)
	require.Equal(t, 1, m.Rejected)
	require.Equal(t, 1, m.OutOfRange)
	require.Equal(t, [game.NumPlayers]float64{1, -1}, m.Rewards, "Out of range rewards are never applied")
	require.Equal(t, "player0", m.Winner)
	require.False(t, m.EndTime.Before(m.StartTime))

	c.Start()
	require.Zero(t, c.Complete(game.Draw).Steps, "Start should reset the counters")
}

func TestDummyCollector(t *testing.T) {
	c := NewDummyCollector()
	c.Start()
	c.AddStep(game.Outcome{InRange: true, Valid: true, Reward: 3})
	m := c.Complete(game.Player1)
	require.Zero(t, m.Steps)
	require.Equal(t, "player1", m.Winner)
}

func TestWriter(t *testing.T) {
	root := t.TempDir()
	w, err := NewWriter(root, "gating")
	require.NoError(t, err)
	require.DirExists(t, w.Dir())
	require.Equal(t, filepath.Join(root, "gating"), filepath.Dir(w.Dir()))

	t.Run("model configs", func(t *testing.T) {
		err := w.WriteModelConfigs([]ModelConfig{
			{ID: 1, Kind: "random", Seed: 7},
			{ID: 2, Kind: "search", Elo: 1200, Goroutines: 4, Episodes: 300, Horizon: 2},
		})
		require.NoError(t, err)

		rows := readCSV(t, filepath.Join(w.Dir(), "model_configs.csv"))
		require.Equal(t, [][]string{
			{"id", "kind", "seed", "elo", "goroutines", "episodes", "horizon"},
			{"1", "random", "7", "0", "0", "0", "0"},
			{"2", "search", "0", "1200", "4", "300", "2"},
		}, rows)
	})

	t.Run("game records", func(t *testing.T) {
		err := w.WriteGameRecords([]GameRecord{{
			ID: 1, Run: "abc", Old: 1, New: 2, OldElo: 990, NewElo: 1010,
			GameMetric: GameMetric{Steps: 40, Rejected: 3, Rewards: [game.NumPlayers]float64{5, 2.5}, Winner: "player0"},
		}})
		require.NoError(t, err)

		rows := readCSV(t, filepath.Join(w.Dir(), "game_records.csv"))
		require.Len(t, rows, 2)
		require.Equal(t, "id", rows[0][0])
		require.Equal(t, []string{"1", "abc", "1", "2", "990", "1010", "player0", "40", "3", "0", "5", "2.5"}, rows[1][:12])
	})

	t.Run("setup", func(t *testing.T) {
		require.NoError(t, w.WriteSetup(map[string]int{"games": 10}))

		b, err := os.ReadFile(filepath.Join(w.Dir(), "setup.json"))
		require.NoError(t, err)
		var setup map[string]int
		require.NoError(t, json.Unmarshal(b, &setup))
		require.Equal(t, 10, setup["games"])
	})
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}
