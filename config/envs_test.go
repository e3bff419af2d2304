package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodeStranger-Fred/gridworld-pi/logging"
	"github.com/CodeStranger-Fred/gridworld-pi/mdp"
	"github.com/CodeStranger-Fred/gridworld-pi/policyiter"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("GRIDWORLD_GRID_SIZE", "5")
	t.Setenv("GRIDWORLD_START", "11")
	t.Setenv("GRIDWORLD_TERMINALS", "44, 40")
	t.Setenv("GRIDWORLD_DITCHES", "")
	t.Setenv("GRIDWORLD_WIN_REWARD", "50")
	t.Setenv("GRIDWORLD_GAMMA", "0.8")
	t.Setenv("GRIDWORLD_SEED", "9")
	t.Setenv("GRIDWORLD_EVALUATION", "policy")
	t.Setenv("GRIDWORLD_EPISODES", "3")
	t.Setenv("GRIDWORLD_MODE", "debug")

	c, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 5, c.Env.GridSize)
	assert.Equal(t, mdp.State{Row: 1, Col: 1}, c.Env.Start)
	assert.Equal(t, []mdp.State{{Row: 4, Col: 4}, {Row: 4, Col: 0}}, c.Env.Terminals)
	assert.NotNil(t, c.Env.Ditches)
	assert.Empty(t, c.Env.Ditches)
	assert.Equal(t, mdp.Reward(50), c.Env.WinReward)
	assert.Equal(t, 0.8, c.Solver.Gamma)
	assert.Equal(t, int64(9), c.Solver.Seed)
	assert.Equal(t, policyiter.EvaluationPolicy, c.Solver.Evaluation)
	assert.Equal(t, 3, c.Episodes)
	assert.Equal(t, logging.LevelDebug, c.Level)
}

func TestLoadDotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GRIDWORLD_MAX_VALUE_ITERS=42\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("GRIDWORLD_MAX_VALUE_ITERS") })

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 42, c.Solver.MaxValueIters)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	cases := map[string]string{
		"GRIDWORLD_GRID_SIZE":  "seven",
		"GRIDWORLD_GAMMA":      "high",
		"GRIDWORLD_START":      "0",
		"GRIDWORLD_DITCHES":    "52,x1",
		"GRIDWORLD_EVALUATION": "monte-carlo",
		"GRIDWORLD_MODE":       "bogus",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			assert.Error(t, err)
		})
	}
}

func TestLoadModeIsCaseInsensitive(t *testing.T) {
	for _, mode := range []string{"DEBUG", " Debug "} {
		t.Run(mode, func(t *testing.T) {
			t.Setenv("GRIDWORLD_MODE", mode)
			c, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			require.NoError(t, err)
			assert.Equal(t, logging.LevelDebug, c.Level)
		})
	}

	t.Setenv("GRIDWORLD_MODE", "prod")
	c, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, logging.LevelInfo, c.Level)
}

func TestLoadUnreadableEnvFile(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}
