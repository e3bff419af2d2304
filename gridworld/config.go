package gridworld

import (
	"errors"
	"fmt"

	"github.com/CodeStranger-Fred/gridworld-pi/mdp"
)

// MaxGridSize caps both axes of the grid.
const MaxGridSize = 9

var ErrInvalidConfig = errors.New("invalid gridworld config")

type Config struct {
	GridSize     int
	Start        mdp.State
	Terminals    []mdp.State // nil selects the default terminal
	Ditches      []mdp.State // nil selects the default ditch
	DitchPenalty mdp.Reward
	TurnPenalty  mdp.Reward
	WinReward    mdp.Reward
}

func defaultTerminals() []mdp.State {
	return []mdp.State{{Row: 6, Col: 4}}
}

func defaultDitches() []mdp.State {
	return []mdp.State{{Row: 5, Col: 2}}
}

// DefaultConfig is the 7x7 board with start (0,0), terminal (6,4) and
// ditch (5,2). Each call builds fresh slices.
func DefaultConfig() Config {
	return Config{
		GridSize:     7,
		Start:        mdp.State{Row: 0, Col: 0},
		Terminals:    defaultTerminals(),
		Ditches:      defaultDitches(),
		DitchPenalty: -10,
		TurnPenalty:  -1,
		WinReward:    100,
	}
}

// normalize clamps the grid size, fills in default state sets and rejects
// boards that cannot be built.
func (c Config) normalize() (Config, error) {
	if c.GridSize < 1 {
		return c, fmt.Errorf("%w: grid size %d", ErrInvalidConfig, c.GridSize)
	}
	c.GridSize = min(MaxGridSize, c.GridSize)
	if c.Terminals == nil {
		c.Terminals = defaultTerminals()
	} else {
		c.Terminals = append([]mdp.State(nil), c.Terminals...)
	}
	if c.Ditches == nil {
		c.Ditches = defaultDitches()
	} else {
		c.Ditches = append([]mdp.State(nil), c.Ditches...)
	}

	if !c.inGrid(c.Start) {
		return c, fmt.Errorf("%w: start %v outside %dx%d grid", ErrInvalidConfig, c.Start, c.GridSize, c.GridSize)
	}
	terminals := make(map[mdp.State]struct{}, len(c.Terminals))
	for _, s := range c.Terminals {
		if !c.inGrid(s) {
			return c, fmt.Errorf("%w: terminal %v outside %dx%d grid", ErrInvalidConfig, s, c.GridSize, c.GridSize)
		}
		terminals[s] = struct{}{}
	}
	for _, s := range c.Ditches {
		if !c.inGrid(s) {
			return c, fmt.Errorf("%w: ditch %v outside %dx%d grid", ErrInvalidConfig, s, c.GridSize, c.GridSize)
		}
		if _, ok := terminals[s]; ok {
			return c, fmt.Errorf("%w: %v is both terminal and ditch", ErrInvalidConfig, s)
		}
	}
	return c, nil
}

func (c Config) inGrid(s mdp.State) bool {
	return s.Row >= 0 && s.Row < c.GridSize && s.Col >= 0 && s.Col < c.GridSize
}
