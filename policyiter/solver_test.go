package policyiter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodeStranger-Fred/gridworld-pi/gridworld"
	"github.com/CodeStranger-Fred/gridworld-pi/mdp"
)

var (
	start = mdp.State{Row: 0, Col: 0}
	goal  = mdp.State{Row: 6, Col: 4}
	ditch = mdp.State{Row: 5, Col: 2}
)

func newSolver(t testing.TB, cfg Config) (*Solver, *gridworld.Env) {
	t.Helper()
	env, err := gridworld.New(gridworld.Config{
		GridSize:     7,
		Start:        start,
		Terminals:    []mdp.State{goal},
		Ditches:      []mdp.State{ditch},
		DitchPenalty: -10,
		TurnPenalty:  -1,
		WinReward:    100,
	}, nil)
	require.NoError(t, err)
	solver, err := New(env, cfg, nil)
	require.NoError(t, err)
	return solver, env
}

func TestNewRejectsBadConfig(t *testing.T) {
	env, err := gridworld.New(gridworld.DefaultConfig(), nil)
	require.NoError(t, err)

	cases := map[string]func(*Config){
		"gamma zero":       func(c *Config) { c.Gamma = 0 },
		"gamma one":        func(c *Config) { c.Gamma = 1 },
		"threshold zero":   func(c *Config) { c.Threshold = 0 },
		"no value sweeps":  func(c *Config) { c.MaxValueIters = 0 },
		"no policy iters":  func(c *Config) { c.MaxPolicyIters = -1 },
		"no episode steps": func(c *Config) { c.MaxEpisodeSteps = 0 },
		"bad evaluation":   func(c *Config) { c.Evaluation = "greedy" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			_, err := New(env, cfg, nil)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	_, err = New(nil, DefaultConfig(), nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestParseEvaluation(t *testing.T) {
	e, err := ParseEvaluation("policy")
	require.NoError(t, err)
	assert.Equal(t, EvaluationPolicy, e)

	e, err = ParseEvaluation("")
	require.NoError(t, err)
	assert.Equal(t, EvaluationOptimality, e)

	_, err = ParseEvaluation("sarsa")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestComputeValuesHaltsWithinCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxValueIters = 5
	solver, _ := newSolver(t, cfg)

	sweep, err := solver.ComputeValues()
	require.NoError(t, err)
	assert.Equal(t, 5, sweep.Sweeps)
	assert.Len(t, sweep.Deltas, 5)
	assert.False(t, sweep.Converged)
}

func TestComputeValuesConverges(t *testing.T) {
	solver, _ := newSolver(t, DefaultConfig())

	sweep, err := solver.ComputeValues()
	require.NoError(t, err)
	require.True(t, sweep.Converged)
	assert.LessOrEqual(t, sweep.Sweeps, solver.Config().MaxValueIters)
	assert.LessOrEqual(t, sweep.Deltas[len(sweep.Deltas)-1], solver.Config().Threshold)

	tail := sweep.Deltas[len(sweep.Deltas)/2:]
	for i := 1; i < len(tail); i++ {
		assert.LessOrEqual(t, tail[i], tail[i-1], "sweep delta grew near convergence")
	}
}

func TestQIsOneStepLookahead(t *testing.T) {
	solver, env := newSolver(t, DefaultConfig())
	_, err := solver.ComputeValues()
	require.NoError(t, err)

	v := solver.Values()
	q := solver.QValues()
	gamma := solver.Config().Gamma
	for si, s := range env.States() {
		for ai, a := range env.Actions() {
			next := env.NextState(s, a)
			ni, _ := env.StateIndex(next)
			want := float64(env.Reward(next)) + gamma*v[ni]
			assert.InDelta(t, want, q[si][ai], 1e-3, "Q(%v,%v)", s, a)
		}
	}
}

func TestValueAccessorsReturnCopies(t *testing.T) {
	solver, _ := newSolver(t, DefaultConfig())
	_, err := solver.ComputeValues()
	require.NoError(t, err)

	v := solver.Values()
	q := solver.QValues()
	want, wantQ := v[0], q[0][0]
	v[0] = -1e9
	q[0][0] = -1e9

	assert.Equal(t, want, solver.Values()[0])
	assert.Equal(t, wantQ, solver.QValues()[0][0])
}

func TestSolveMDPScenario(t *testing.T) {
	solver, env := newSolver(t, DefaultConfig())

	score, err := solver.SolveMDP(100)
	require.NoError(t, err)
	assert.True(t, solver.Converged())
	assert.LessOrEqual(t, len(solver.Iterations()), 2)

	episode := solver.LastEpisode()
	require.NotEmpty(t, episode)
	assert.Equal(t, start, episode[0].State0)
	assert.Equal(t, goal, episode[len(episode)-1].State1)
	assert.False(t, episode.Visits(ditch))
	assert.Len(t, episode, 10)
	assert.Equal(t, 90.0, score)

	for _, res := range solver.Episodes() {
		assert.False(t, res.Truncated)
		assert.Equal(t, 10, res.Steps)
	}
	assert.Len(t, solver.Episodes(), 100)

	right := mdp.ConstantPolicy(env.StateCount(), mdp.Right)
	require.NoError(t, solver.SetPolicy(right))
	baseline, err := solver.EvaluatePolicy(100)
	require.NoError(t, err)
	assert.Greater(t, score, baseline)
	assert.True(t, solver.Episodes()[0].Truncated)
	assert.Equal(t, -float64(solver.Config().MaxEpisodeSteps), baseline)
}

func TestTextbookEvaluationReachesGoal(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Evaluation = EvaluationPolicy
	solver, _ := newSolver(t, cfg)

	_, err := solver.SolveMDP(1)
	require.NoError(t, err)

	episode := solver.LastEpisode()
	require.NotEmpty(t, episode)
	assert.Equal(t, goal, episode[len(episode)-1].State1)
	assert.False(t, solver.Episodes()[0].Truncated)
}

func TestSolveIsDeterministic(t *testing.T) {
	for _, eval := range []Evaluation{EvaluationOptimality, EvaluationPolicy} {
		t.Run(string(eval), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Evaluation = eval
			cfg.Seed = 42

			a, _ := newSolver(t, cfg)
			b, _ := newSolver(t, cfg)

			scoreA, err := a.SolveMDP(10)
			require.NoError(t, err)
			scoreB, err := b.SolveMDP(10)
			require.NoError(t, err)

			assert.Equal(t, scoreA, scoreB)
			assert.True(t, a.Policy().Equal(b.Policy()))
			assert.Equal(t, a.Values(), b.Values())
			assert.Equal(t, a.Iterations(), b.Iterations())
		})
	}
}

func TestIteratePolicyStopsAtCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxPolicyIters = 1
	solver, _ := newSolver(t, cfg)

	_, err := solver.IteratePolicy()
	require.NoError(t, err)
	assert.Len(t, solver.Iterations(), 1)
}

func TestRunnerErrors(t *testing.T) {
	solver, env := newSolver(t, DefaultConfig())

	_, err := solver.RunEpisode()
	assert.ErrorIs(t, err, ErrNoPolicy)

	_, err = solver.EvaluatePolicy(0)
	assert.ErrorIs(t, err, ErrNoEpisodes)
	_, err = solver.SolveMDP(-1)
	assert.ErrorIs(t, err, ErrNoEpisodes)

	assert.Error(t, solver.SetPolicy(mdp.ConstantPolicy(3, mdp.Up)))
	bad := mdp.ConstantPolicy(env.StateCount(), mdp.Up)
	bad[4] = mdp.Action(7)
	assert.ErrorIs(t, solver.SetPolicy(bad), mdp.ErrInvalidAction)
}

func BenchmarkIteratePolicy(b *testing.B) {
	solver, _ := newSolver(b, DefaultConfig())
	for i := 0; i < b.N; i++ {
		if _, err := solver.IteratePolicy(); err != nil {
			b.Fatal(err)
		}
	}
}
