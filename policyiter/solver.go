// Package policyiter solves a finite deterministic MDP by tabular policy
// iteration and scores the resulting policy by running episodes.
package policyiter

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"

	"github.com/CodeStranger-Fred/gridworld-pi/logging"
	"github.com/CodeStranger-Fred/gridworld-pi/mdp"
)

// ValueSweep summarises one run of the inner value loop.
type ValueSweep struct {
	Sweeps    int
	Deltas    []float64 // L1 change of V per sweep
	Converged bool
}

// IterationStats records one outer policy iteration.
type IterationStats struct {
	Iteration int
	ValueSweep
	PolicyChanges int
}

// Solver owns one environment exclusively for its lifetime. It is not
// safe for concurrent use.
type Solver struct {
	env mdp.Environment
	cfg Config
	log logging.Logger
	rng *rand.Rand

	states  []mdp.State
	actions []mdp.Action

	values  []float64
	qvalues [][]float64
	policy  mdp.Policy

	iterations []IterationStats
	converged  bool

	runID    uuid.UUID
	agent    mdp.Agent
	episodes []EpisodeResult
}

func New(env mdp.Environment, cfg Config, log logging.Logger) (*Solver, error) {
	if env == nil {
		return nil, fmt.Errorf("%w: nil environment", ErrInvalidConfig)
	}
	if cfg.Evaluation == "" {
		cfg.Evaluation = EvaluationOptimality
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.Nop()
	}

	states := env.States()
	actions := env.Actions()
	q := make([][]float64, len(states))
	for s := range q {
		q[s] = make([]float64, len(actions))
	}
	return &Solver{
		env:     env,
		cfg:     cfg,
		log:     log,
		rng:     rand.New(rand.NewSource(cfg.Seed)),
		states:  states,
		actions: actions,
		values:  make([]float64, len(states)),
		qvalues: q,
		runID:   uuid.New(),
	}, nil
}

func (s *Solver) Config() Config { return s.cfg }

// RunID tags the latest solve in logs and exports.
func (s *Solver) RunID() uuid.UUID { return s.runID }

func (s *Solver) Policy() mdp.Policy { return s.policy.Clone() }

// SetPolicy replaces the policy followed by the runner, e.g. to score a
// hand-written baseline.
func (s *Solver) SetPolicy(p mdp.Policy) error {
	if len(p) != len(s.states) {
		return fmt.Errorf("policy covers %d states, want %d", len(p), len(s.states))
	}
	for i, a := range p {
		if !a.Valid() {
			return fmt.Errorf("policy state %d: %w", i, mdp.ErrInvalidAction)
		}
	}
	s.policy = p.Clone()
	return nil
}

func (s *Solver) Values() []float64 {
	return append([]float64(nil), s.values...)
}

func (s *Solver) QValues() [][]float64 {
	out := make([][]float64, len(s.qvalues))
	for i := range s.qvalues {
		out[i] = append([]float64(nil), s.qvalues[i]...)
	}
	return out
}

func (s *Solver) Iterations() []IterationStats {
	return append([]IterationStats(nil), s.iterations...)
}

// Converged reports whether the last IteratePolicy stopped because the
// policy was stable rather than because it ran out of iterations.
func (s *Solver) Converged() bool { return s.converged }

// ComputeValues recomputes V from zero with one-step lookahead through the
// pure transition model until the L1 change drops to the threshold or the
// sweep cap is hit.
func (s *Solver) ComputeValues() (ValueSweep, error) {
	if s.cfg.Evaluation == EvaluationPolicy && s.policy == nil {
		s.policy = mdp.RandomPolicy(s.rng, len(s.states), s.actions)
	}
	for i := range s.values {
		s.values[i] = 0
	}
	prev := make([]float64, len(s.values))

	var sweep ValueSweep
	for i := 0; i < s.cfg.MaxValueIters; i++ {
		copy(prev, s.values)
		for si, state := range s.states {
			for ai, a := range s.actions {
				next := s.env.NextState(state, a)
				ni, ok := s.env.StateIndex(next)
				if !ok {
					return sweep, fmt.Errorf("next state %v of %v via %v is not in the state space", next, state, a)
				}
				s.qvalues[si][ai] = float64(s.env.Reward(next)) + s.cfg.Gamma*prev[ni]
			}
			s.values[si] = s.backup(si)
		}
		delta := floats.Distance(prev, s.values, 1)
		sweep.Sweeps++
		sweep.Deltas = append(sweep.Deltas, delta)
		if delta <= s.cfg.Threshold {
			sweep.Converged = true
			break
		}
	}

	if sweep.Converged {
		s.log.Debugf("values converged after %d sweeps", sweep.Sweeps)
	} else {
		s.log.Infof("values did not converge within %d sweeps (last delta %g)", sweep.Sweeps, sweep.Deltas[len(sweep.Deltas)-1])
	}
	for si, state := range s.states {
		s.log.Debugf("Q(s=%s): %v", state.Key(), s.qvalues[si])
	}
	return sweep, nil
}

func (s *Solver) backup(si int) float64 {
	if s.cfg.Evaluation == EvaluationPolicy {
		return s.qvalues[si][int(s.policy[si])]
	}
	return floats.Max(s.qvalues[si])
}

// ExtractPolicy sets the policy to the greedy action of Q in every state.
// Ties go to the lowest action index.
func (s *Solver) ExtractPolicy() mdp.Policy {
	p := make(mdp.Policy, len(s.states))
	for si := range s.states {
		p[si] = s.actions[floats.MaxIdx(s.qvalues[si])]
	}
	s.policy = p
	s.log.Debugf("greedy policy %v", p)
	return p.Clone()
}

// IteratePolicy alternates value computation and greedy improvement from a
// random initial policy until the policy stops changing or MaxPolicyIters
// is reached.
func (s *Solver) IteratePolicy() (mdp.Policy, error) {
	s.iterations = s.iterations[:0]
	s.converged = false
	s.policy = mdp.RandomPolicy(s.rng, len(s.states), s.actions)

	for i := 0; i < s.cfg.MaxPolicyIters; i++ {
		sweep, err := s.ComputeValues()
		if err != nil {
			return nil, fmt.Errorf("policy iteration %d: %w", i, err)
		}
		prev := s.policy.Clone()
		next := s.ExtractPolicy()
		changes := prev.Changes(next)
		s.iterations = append(s.iterations, IterationStats{
			Iteration:     i,
			ValueSweep:    sweep,
			PolicyChanges: changes,
		})
		s.log.Debugf("policy iteration %d: %d sweeps, %d actions changed", i, sweep.Sweeps, changes)
		if changes == 0 {
			s.converged = true
			s.log.Infof("policy converged in iteration %d", i)
			break
		}
	}
	if !s.converged {
		s.log.Infof("policy still changing after %d iterations", s.cfg.MaxPolicyIters)
	}
	return s.policy.Clone(), nil
}
