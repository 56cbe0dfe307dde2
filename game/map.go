package game

import (
	"castle/meta"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MapConfig describes the board. Layout fields are optional: when Agents is empty the
// agents and castles are placed at random on every reset.
type MapConfig struct {
	Height     int `yaml:"height"`
	Width      int `yaml:"width"`
	NumAgents  int `yaml:"num_agents"`
	NumCastles int `yaml:"num_castles"`
	Turns      int `yaml:"turns"`

	Castles [][2]int   `yaml:"castles,omitempty"`
	Agents  [][][2]int `yaml:"agents,omitempty"` // per player
	Walls   [][][2]int `yaml:"walls,omitempty"`  // per player
}

// DefaultMapConfig returns a random-layout map with the default sizes.
func DefaultMapConfig() MapConfig {
	return MapConfig{
		Height:     meta.MAP_HEIGHT,
		Width:      meta.MAP_WIDTH,
		NumAgents:  meta.MAP_AGENTS,
		NumCastles: meta.MAP_CASTLES,
		Turns:      meta.MAP_TURNS,
	}
}

// LoadMapConfig reads a YAML map file. Zero sizes fall back to the defaults.
func LoadMapConfig(path string) (MapConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return MapConfig{}, fmt.Errorf("failed to read map config: %w", err)
	}
	var cfg MapConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return MapConfig{}, fmt.Errorf("failed to parse map config: %w", err)
	}
	cfg.FillDefaults()
	return cfg, cfg.Validate()
}

// FillDefaults replaces zero sizes with the defaults. A fixed layout decides the
// agent and castle counts.
func (c *MapConfig) FillDefaults() {
	if c.Height == 0 {
		c.Height = meta.MAP_HEIGHT
	}
	if c.Width == 0 {
		c.Width = meta.MAP_WIDTH
	}
	if c.Turns == 0 {
		c.Turns = meta.MAP_TURNS
	}
	if c.IsFixed() {
		if c.NumAgents == 0 {
			c.NumAgents = len(c.Agents[0])
		}
		if c.NumCastles == 0 {
			c.NumCastles = len(c.Castles)
		}
	}
	if c.NumAgents == 0 {
		c.NumAgents = meta.MAP_AGENTS
	}
}

// IsFixed reports whether the config carries an explicit layout.
func (c MapConfig) IsFixed() bool {
	return len(c.Agents) > 0
}

// Validate checks the config can produce a consistent GridState.
func (c MapConfig) Validate() error {
	if c.Height <= 0 || c.Width <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d must be positive", ErrInvalidConfig, c.Height, c.Width)
	}
	if c.NumAgents <= 0 {
		return fmt.Errorf("%w: num_agents must be positive, got %d", ErrInvalidConfig, c.NumAgents)
	}
	if c.Turns <= 0 {
		return fmt.Errorf("%w: turns must be positive, got %d", ErrInvalidConfig, c.Turns)
	}
	if c.NumCastles < 0 {
		return fmt.Errorf("%w: num_castles must not be negative", ErrInvalidConfig)
	}

	if !c.IsFixed() {
		if c.NumCastles+NumPlayers*c.NumAgents > c.Height*c.Width {
			return fmt.Errorf("%w: %d castles and %d agents do not fit on a %dx%d board",
				ErrInvalidConfig, c.NumCastles, NumPlayers*c.NumAgents, c.Height, c.Width)
		}
		if len(c.Castles) > 0 || len(c.Walls) > 0 {
			return fmt.Errorf("%w: castles and walls require a fixed agent layout", ErrInvalidConfig)
		}
		return nil
	}

	if len(c.Agents) != NumPlayers {
		return fmt.Errorf("%w: agents layout needs %d players, got %d", ErrInvalidConfig, NumPlayers, len(c.Agents))
	}
	if len(c.Walls) != 0 && len(c.Walls) != NumPlayers {
		return fmt.Errorf("%w: walls layout needs %d players, got %d", ErrInvalidConfig, NumPlayers, len(c.Walls))
	}

	castles := map[Coord]bool{}
	for _, rc := range c.Castles {
		coord := Coord{rc[0], rc[1]}
		if !c.inBounds(coord) {
			return fmt.Errorf("%w: castle %v out of bounds", ErrInvalidConfig, coord)
		}
		castles[coord] = true
	}

	agents := map[Coord]bool{}
	for player, layout := range c.Agents {
		if len(layout) != c.NumAgents {
			return fmt.Errorf("%w: player %d has %d agents, want %d", ErrInvalidConfig, player, len(layout), c.NumAgents)
		}
		for _, rc := range layout {
			coord := Coord{rc[0], rc[1]}
			switch {
			case !c.inBounds(coord):
				return fmt.Errorf("%w: agent %v out of bounds", ErrInvalidConfig, coord)
			case castles[coord]:
				return fmt.Errorf("%w: agent %v on a castle", ErrInvalidConfig, coord)
			case agents[coord]:
				return fmt.Errorf("%w: two agents on %v", ErrInvalidConfig, coord)
			}
			agents[coord] = true
		}
	}

	walls := map[Coord]bool{}
	for _, layout := range c.Walls {
		for _, rc := range layout {
			coord := Coord{rc[0], rc[1]}
			switch {
			case !c.inBounds(coord):
				return fmt.Errorf("%w: wall %v out of bounds", ErrInvalidConfig, coord)
			case castles[coord]:
				return fmt.Errorf("%w: wall %v on a castle", ErrInvalidConfig, coord)
			case agents[coord]:
				return fmt.Errorf("%w: wall %v under an agent", ErrInvalidConfig, coord)
			case walls[coord]:
				return fmt.Errorf("%w: wall %v owned twice", ErrInvalidConfig, coord)
			}
			walls[coord] = true
		}
	}
	return nil
}

func (c MapConfig) inBounds(coord Coord) bool {
	return 0 <= coord.Row && coord.Row < c.Height && 0 <= coord.Col && coord.Col < c.Width
}
