// Package config loads run settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/CodeStranger-Fred/gridworld-pi/gridworld"
	"github.com/CodeStranger-Fred/gridworld-pi/logging"
	"github.com/CodeStranger-Fred/gridworld-pi/mdp"
	"github.com/CodeStranger-Fred/gridworld-pi/policyiter"
)

// Config holds everything needed for one solve.
type Config struct {
	Env      gridworld.Config
	Solver   policyiter.Config
	Episodes int           // episodes used to score the converged policy
	Level    logging.Level // from GRIDWORLD_MODE, "prod" or "debug"
}

func Default() Config {
	return Config{
		Env:      gridworld.DefaultConfig(),
		Solver:   policyiter.DefaultConfig(),
		Episodes: 100,
		Level:    logging.LevelInfo,
	}
}

// Load reads a .env file if present, then GRIDWORLD_* variables over the
// defaults. Unset variables keep their default. A missing .env file is only
// logged; a named file that exists but cannot be read is an error.
func Load(files ...string) (Config, error) {
	c := Default()
	if err := godotenv.Load(files...); err != nil {
		if len(files) > 0 && !errors.Is(err, fs.ErrNotExist) {
			return c, fmt.Errorf("load env file %v: %w", files, err)
		}
		logging.New("APP", logging.ColorApp, os.Stderr, logging.LevelInfo).
			Infof(".env file not found or could not be loaded: %v", err)
	}

	var err error
	if c.Env.GridSize, err = intEnv("GRIDWORLD_GRID_SIZE", c.Env.GridSize); err != nil {
		return c, err
	}
	if c.Env.Start, err = stateEnv("GRIDWORLD_START", c.Env.Start); err != nil {
		return c, err
	}
	if c.Env.Terminals, err = statesEnv("GRIDWORLD_TERMINALS", c.Env.Terminals); err != nil {
		return c, err
	}
	if c.Env.Ditches, err = statesEnv("GRIDWORLD_DITCHES", c.Env.Ditches); err != nil {
		return c, err
	}
	if c.Env.DitchPenalty, err = rewardEnv("GRIDWORLD_DITCH_PENALTY", c.Env.DitchPenalty); err != nil {
		return c, err
	}
	if c.Env.TurnPenalty, err = rewardEnv("GRIDWORLD_TURN_PENALTY", c.Env.TurnPenalty); err != nil {
		return c, err
	}
	if c.Env.WinReward, err = rewardEnv("GRIDWORLD_WIN_REWARD", c.Env.WinReward); err != nil {
		return c, err
	}

	if c.Solver.Gamma, err = floatEnv("GRIDWORLD_GAMMA", c.Solver.Gamma); err != nil {
		return c, err
	}
	if c.Solver.Threshold, err = floatEnv("GRIDWORLD_THRESHOLD", c.Solver.Threshold); err != nil {
		return c, err
	}
	if c.Solver.MaxValueIters, err = intEnv("GRIDWORLD_MAX_VALUE_ITERS", c.Solver.MaxValueIters); err != nil {
		return c, err
	}
	if c.Solver.MaxPolicyIters, err = intEnv("GRIDWORLD_MAX_POLICY_ITERS", c.Solver.MaxPolicyIters); err != nil {
		return c, err
	}
	if c.Solver.MaxEpisodeSteps, err = intEnv("GRIDWORLD_MAX_EPISODE_STEPS", c.Solver.MaxEpisodeSteps); err != nil {
		return c, err
	}
	seed, err := intEnv("GRIDWORLD_SEED", int(c.Solver.Seed))
	if err != nil {
		return c, err
	}
	c.Solver.Seed = int64(seed)
	if eval, ok := os.LookupEnv("GRIDWORLD_EVALUATION"); ok {
		if c.Solver.Evaluation, err = policyiter.ParseEvaluation(eval); err != nil {
			return c, err
		}
	}

	if c.Episodes, err = intEnv("GRIDWORLD_EPISODES", c.Episodes); err != nil {
		return c, err
	}
	if mode, ok := os.LookupEnv("GRIDWORLD_MODE"); ok {
		if c.Level, err = logging.ParseMode(mode); err != nil {
			return c, fmt.Errorf("environment variable GRIDWORLD_MODE: %w", err)
		}
	}
	return c, nil
}

func intEnv(key string, def int) (int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return def, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return def, fmt.Errorf("environment variable %s must be an integer: %w", key, err)
	}
	return v, nil
}

func floatEnv(key string, def float64) (float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return def, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return def, fmt.Errorf("environment variable %s must be a number: %w", key, err)
	}
	return v, nil
}

func rewardEnv(key string, def mdp.Reward) (mdp.Reward, error) {
	v, err := floatEnv(key, float64(def))
	return mdp.Reward(v), err
}

func stateEnv(key string, def mdp.State) (mdp.State, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return def, nil
	}
	s, err := mdp.ParseState(strings.TrimSpace(raw))
	if err != nil {
		return def, fmt.Errorf("environment variable %s: %w", key, err)
	}
	return s, nil
}

// statesEnv parses a comma separated list of state keys, e.g. "64,66".
// An empty value means no states.
func statesEnv(key string, def []mdp.State) ([]mdp.State, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return def, nil
	}
	states, err := ParseStates(raw)
	if err != nil {
		return def, fmt.Errorf("environment variable %s: %w", key, err)
	}
	return states, nil
}

// ParseStates parses comma separated state keys. Blank input yields an
// empty, non-nil list.
func ParseStates(raw string) ([]mdp.State, error) {
	states := []mdp.State{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		s, err := mdp.ParseState(part)
		if err != nil {
			return nil, err
		}
		states = append(states, s)
	}
	return states, nil
}
