package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CodeStranger-Fred/gridworld-pi/config"
	"github.com/CodeStranger-Fred/gridworld-pi/gridworld"
	"github.com/CodeStranger-Fred/gridworld-pi/logging"
	"github.com/CodeStranger-Fred/gridworld-pi/mdp"
)

// envFlags binds the board flags shared by every subcommand.
type envFlags struct {
	gridSize     int
	start        string
	terminals    []string
	ditches      []string
	ditchPenalty float64
	turnPenalty  float64
	winReward    float64
	debug        bool
}

func (f *envFlags) register(cmd *cobra.Command, cfg config.Config) {
	fs := cmd.Flags()
	fs.IntVar(&f.gridSize, "grid-size", cfg.Env.GridSize, "grid size per axis (capped at 9)")
	fs.StringVar(&f.start, "start", cfg.Env.Start.Key(), "start state key, e.g. 00")
	fs.StringSliceVar(&f.terminals, "terminal", stateKeys(cfg.Env.Terminals), "terminal state keys")
	fs.StringSliceVar(&f.ditches, "ditch", stateKeys(cfg.Env.Ditches), "ditch state keys")
	fs.Float64Var(&f.ditchPenalty, "ditch-penalty", float64(cfg.Env.DitchPenalty), "extra reward for landing in a ditch")
	fs.Float64Var(&f.turnPenalty, "turn-penalty", float64(cfg.Env.TurnPenalty), "reward applied on every step")
	fs.Float64Var(&f.winReward, "win-reward", float64(cfg.Env.WinReward), "extra reward for reaching a terminal")
	fs.BoolVar(&f.debug, "debug", cfg.Level == logging.LevelDebug, "trace every transition and decision")
}

func (f *envFlags) config() (gridworld.Config, error) {
	start, err := mdp.ParseState(f.start)
	if err != nil {
		return gridworld.Config{}, fmt.Errorf("--start: %w", err)
	}
	terminals, err := parseKeys(f.terminals)
	if err != nil {
		return gridworld.Config{}, fmt.Errorf("--terminal: %w", err)
	}
	ditches, err := parseKeys(f.ditches)
	if err != nil {
		return gridworld.Config{}, fmt.Errorf("--ditch: %w", err)
	}
	return gridworld.Config{
		GridSize:     f.gridSize,
		Start:        start,
		Terminals:    terminals,
		Ditches:      ditches,
		DitchPenalty: mdp.Reward(f.ditchPenalty),
		TurnPenalty:  mdp.Reward(f.turnPenalty),
		WinReward:    mdp.Reward(f.winReward),
	}, nil
}

func (f *envFlags) level() logging.Level {
	if f.debug {
		return logging.LevelDebug
	}
	return logging.LevelInfo
}

func stateKeys(states []mdp.State) []string {
	out := make([]string, len(states))
	for i, s := range states {
		out[i] = s.Key()
	}
	return out
}

func parseKeys(keys []string) ([]mdp.State, error) {
	states := make([]mdp.State, 0, len(keys))
	for _, k := range keys {
		s, err := mdp.ParseState(k)
		if err != nil {
			return nil, err
		}
		states = append(states, s)
	}
	return states, nil
}
