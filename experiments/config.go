package experiments

import (
	"castle/experiments/metrics"
	"castle/game"
	"castle/meta"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid experiment config")

// Model kinds understood by NewModel.
const (
	RandomKind = "random"
	GreedyKind = "greedy"
	SearchKind = "search"
)

// Config describes a series of evaluation matchups.
type Config struct {
	Name      string                `yaml:"name"`
	Map       game.MapConfig        `yaml:"map"`
	Games     int                   `yaml:"games"` // per matchup
	Workers   int                   `yaml:"workers"`
	MaxSteps  int                   `yaml:"max_steps"`
	Seed      uint64                `yaml:"seed"` // 0 picks a time based seed
	FreezeElo bool                  `yaml:"freeze_elo"`
	Render    bool                  `yaml:"render"` // log every board at trace level
	Output    string                `yaml:"output"`
	Models    []metrics.ModelConfig `yaml:"models"`
	MatchUps  [][2]int              `yaml:"matchups"` // [old, new] model IDs
}

func DefaultConfig() Config {
	return Config{
		Name:     "gating",
		Map:      game.DefaultMapConfig(),
		Games:    meta.EVAL_GAMES,
		Workers:  1,
		MaxSteps: meta.MAX_STEPS,
		Output:   "experiments",
		Models: []metrics.ModelConfig{
			{ID: 1, Kind: RandomKind, Seed: 1},
			{ID: 2, Kind: GreedyKind},
		},
		MatchUps: [][2]int{{1, 2}},
	}
}

// LoadConfig reads a YAML experiment file. Missing values fall back to DefaultConfig.
func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read experiment config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse experiment config: %w", err)
	}
	cfg.FillDefaults()
	return cfg, cfg.Validate()
}

func (c *Config) FillDefaults() {
	defaults := DefaultConfig()
	if c.Name == "" {
		c.Name = defaults.Name
	}
	if c.Map.Height == 0 && c.Map.Width == 0 && !c.Map.IsFixed() && c.Map.NumCastles == 0 {
		c.Map.NumCastles = defaults.Map.NumCastles
	}
	c.Map.FillDefaults()
	if c.Games == 0 {
		c.Games = defaults.Games
	}
	if c.Workers == 0 {
		c.Workers = defaults.Workers
	}
	if c.MaxSteps == 0 {
		c.MaxSteps = defaults.MaxSteps
	}
	if c.Output == "" {
		c.Output = defaults.Output
	}
	if len(c.Models) == 0 {
		c.Models = defaults.Models
		if len(c.MatchUps) == 0 {
			c.MatchUps = defaults.MatchUps
		}
	}
}

func (c Config) Validate() error {
	if err := c.Map.Validate(); err != nil {
		return err
	}
	if c.Games <= 0 {
		return fmt.Errorf("%w: games must be positive, got %d", ErrInvalidConfig, c.Games)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("%w: max_steps must be positive, got %d", ErrInvalidConfig, c.MaxSteps)
	}

	ids := map[int]bool{}
	for _, model := range c.Models {
		if ids[model.ID] {
			return fmt.Errorf("%w: model id %d used twice", ErrInvalidConfig, model.ID)
		}
		switch model.Kind {
		case RandomKind, GreedyKind:
		case SearchKind:
			if model.Episodes <= 0 {
				return fmt.Errorf("%w: search model %d needs episodes", ErrInvalidConfig, model.ID)
			}
		default:
			return fmt.Errorf("%w: model %d has unknown kind %q", ErrInvalidConfig, model.ID, model.Kind)
		}
		if model.Elo < 0 {
			return fmt.Errorf("%w: model %d has a negative rating", ErrInvalidConfig, model.ID)
		}
		ids[model.ID] = true
	}

	if len(c.MatchUps) == 0 {
		return fmt.Errorf("%w: no matchups", ErrInvalidConfig)
	}
	for _, matchUp := range c.MatchUps {
		if matchUp[0] == matchUp[1] {
			return fmt.Errorf("%w: matchup %v plays model %d against itself", ErrInvalidConfig, matchUp, matchUp[0])
		}
		for _, id := range matchUp {
			if !ids[id] {
				return fmt.Errorf("%w: matchup %v names unknown model %d", ErrInvalidConfig, matchUp, id)
			}
		}
	}
	return nil
}
