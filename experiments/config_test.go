package experiments

import (
	"castle/experiments/metrics"
	"castle/meta"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "experiment.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("full file", func(t *testing.T) {
		path := writeConfig(t, `
name: smoke
map:
  height: 6
  width: 7
  num_agents: 1
  num_castles: 3
  turns: 4
games: 3
workers: 2
seed: 11
freeze_elo: true
models:
  - id: 1
    kind: random
    seed: 5
  - id: 2
    kind: greedy
    elo: 1200
matchups:
  - [1, 2]
  - [2, 1]
`)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		require.Equal(t, "smoke", cfg.Name)
		require.Equal(t, 6, cfg.Map.Height)
		require.Equal(t, 7, cfg.Map.Width)
		require.Equal(t, 3, cfg.Map.NumCastles)
		require.Equal(t, 3, cfg.Games)
		require.Equal(t, 2, cfg.Workers)
		require.Equal(t, uint64(11), cfg.Seed)
		require.True(t, cfg.FreezeElo)
		require.Equal(t, meta.MAX_STEPS, cfg.MaxSteps, "Missing values use the defaults")
		require.Equal(t, []metrics.ModelConfig{
			{ID: 1, Kind: RandomKind, Seed: 5},
			{ID: 2, Kind: GreedyKind, Elo: 1200},
		}, cfg.Models)
		require.Equal(t, [][2]int{{1, 2}, {2, 1}}, cfg.MatchUps)
	})

	t.Run("empty file", func(t *testing.T) {
		cfg, err := LoadConfig(writeConfig(t, "{}\n"))
		require.NoError(t, err)
		defaults := DefaultConfig()
		require.Equal(t, defaults.Map, cfg.Map)
		require.Equal(t, defaults.Models, cfg.Models)
		require.Equal(t, defaults.MatchUps, cfg.MatchUps)
		require.Equal(t, meta.EVAL_GAMES, cfg.Games)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
	})

	t.Run("unknown matchup model", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, `
models:
  - id: 1
    kind: greedy
matchups:
  - [1, 3]
`))
		require.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestValidate(t *testing.T) {
	cases := map[string]func(c *Config){
		"no games":        func(c *Config) { c.Games = -1 },
		"no workers":      func(c *Config) { c.Workers = 0 },
		"duplicate model": func(c *Config) { c.Models = append(c.Models, c.Models[0]) },
		"unknown kind":    func(c *Config) { c.Models[0].Kind = "minimax" },
		"negative rating": func(c *Config) { c.Models[0].Elo = -5 },
		"search budget":   func(c *Config) { c.Models[0].Kind = SearchKind },
		"no matchups":     func(c *Config) { c.MatchUps = nil },
		"self matchup":    func(c *Config) { c.MatchUps = [][2]int{{2, 2}} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	require.NoError(t, DefaultConfig().Validate())
}
