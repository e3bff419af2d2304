package policyiter

import (
	"fmt"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/CodeStranger-Fred/gridworld-pi/mdp"
)

// EpisodeResult is the outcome of one real episode.
type EpisodeResult struct {
	Episode   int
	Return    float64
	Steps     int
	Truncated bool // stopped by MaxEpisodeSteps before reaching a terminal
}

// LastEpisode returns the transitions of the most recent episode.
func (s *Solver) LastEpisode() mdp.Episode {
	return append(mdp.Episode(nil), s.agent.History...)
}

// Episodes returns the results recorded since the last EvaluatePolicy.
func (s *Solver) Episodes() []EpisodeResult {
	return append([]EpisodeResult(nil), s.episodes...)
}

// RunEpisode resets the environment and follows the current policy until
// the episode ends or MaxEpisodeSteps is reached. It returns the
// undiscounted total reward.
func (s *Solver) RunEpisode() (float64, error) {
	if s.policy == nil {
		return 0, ErrNoPolicy
	}
	s.agent.Forget()

	state := s.env.Reset()
	var total float64
	steps := 0
	done := false
	for !done && steps < s.cfg.MaxEpisodeSteps {
		si, ok := s.env.StateIndex(state)
		if !ok {
			return total, fmt.Errorf("state %v is not in the state space", state)
		}
		a := s.policy[si]
		res, err := s.env.Step(a)
		if err != nil {
			return total, fmt.Errorf("episode step %d: %w", steps, err)
		}
		s.agent.Step(state, a, res.State, res.Reward)
		s.log.Debugf("current state %s, action %v, new state %s, reward %v, done %t",
			state.Key(), a, res.State.Key(), res.Reward, res.Done)

		total += float64(res.Reward)
		steps++
		done = res.Done
		state = res.State
	}
	if !done {
		s.log.Debugf("episode truncated after %d steps", steps)
	}

	s.episodes = append(s.episodes, EpisodeResult{
		Episode:   len(s.episodes),
		Return:    total,
		Steps:     steps,
		Truncated: !done,
	})
	return total, nil
}

// EvaluatePolicy runs n episodes under the current policy and returns the
// mean return.
func (s *Solver) EvaluatePolicy(n int) (float64, error) {
	if n <= 0 {
		return 0, fmt.Errorf("%w: got %d", ErrNoEpisodes, n)
	}
	s.episodes = s.episodes[:0]
	s.log.Debugf("running %d episodes", n)

	scores := make([]float64, 0, n)
	for e := 0; e < n; e++ {
		score, err := s.RunEpisode()
		if err != nil {
			return 0, fmt.Errorf("episode %d: %w", e, err)
		}
		s.log.Debugf("score in episode %d = %v", e, score)
		scores = append(scores, score)
	}
	return stat.Mean(scores, nil), nil
}

// SolveMDP iterates the policy to convergence and scores it over
// nEpisodes episodes.
func (s *Solver) SolveMDP(nEpisodes int) (float64, error) {
	if nEpisodes <= 0 {
		return 0, fmt.Errorf("%w: got %d", ErrNoEpisodes, nEpisodes)
	}
	s.runID = uuid.New()
	s.log.Infof("run %s: iterating policy", s.runID)
	if _, err := s.IteratePolicy(); err != nil {
		return 0, err
	}
	s.log.Infof("run %s: scoring policy over %d episodes", s.runID, nEpisodes)
	score, err := s.EvaluatePolicy(nEpisodes)
	if err != nil {
		return 0, err
	}
	s.log.Infof("run %s: policy evaluation score = %v", s.runID, score)
	return score, nil
}
