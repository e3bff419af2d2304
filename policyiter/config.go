package policyiter

import (
	"errors"
	"fmt"
)

// Evaluation selects how the inner loop backs up a state's value.
type Evaluation string

const (
	// EvaluationOptimality sets V[s] to the best Q[s][a] over all actions,
	// i.e. a Bellman optimality backup regardless of the current policy.
	EvaluationOptimality Evaluation = "optimality"
	// EvaluationPolicy sets V[s] to Q[s][policy[s]], textbook evaluation of
	// the fixed candidate policy.
	EvaluationPolicy Evaluation = "policy"
)

func ParseEvaluation(s string) (Evaluation, error) {
	switch e := Evaluation(s); e {
	case EvaluationOptimality, EvaluationPolicy:
		return e, nil
	case "":
		return EvaluationOptimality, nil
	}
	return "", fmt.Errorf("%w: unknown evaluation %q", ErrInvalidConfig, s)
}

var (
	ErrInvalidConfig = errors.New("invalid solver config")
	ErrNoEpisodes    = errors.New("episode count must be positive")
	ErrNoPolicy      = errors.New("no policy to follow")
)

type Config struct {
	Gamma           float64 // discount, in (0,1)
	Threshold       float64 // L1 tolerance on value change between sweeps
	MaxValueIters   int
	MaxPolicyIters  int
	MaxEpisodeSteps int // episodes longer than this are truncated
	Seed            int64
	Evaluation      Evaluation
}

func DefaultConfig() Config {
	return Config{
		Gamma:           0.9,
		Threshold:       1e-4,
		MaxValueIters:   1000,
		MaxPolicyIters:  100,
		MaxEpisodeSteps: 1000,
		Seed:            1,
		Evaluation:      EvaluationOptimality,
	}
}

func (c Config) validate() error {
	if c.Gamma <= 0 || c.Gamma >= 1 {
		return fmt.Errorf("%w: gamma %v not in (0,1)", ErrInvalidConfig, c.Gamma)
	}
	if c.Threshold <= 0 {
		return fmt.Errorf("%w: threshold %v must be positive", ErrInvalidConfig, c.Threshold)
	}
	if c.MaxValueIters <= 0 || c.MaxPolicyIters <= 0 || c.MaxEpisodeSteps <= 0 {
		return fmt.Errorf("%w: iteration caps must be positive (value %d, policy %d, episode %d)",
			ErrInvalidConfig, c.MaxValueIters, c.MaxPolicyIters, c.MaxEpisodeSteps)
	}
	if _, err := ParseEvaluation(string(c.Evaluation)); err != nil {
		return err
	}
	return nil
}
