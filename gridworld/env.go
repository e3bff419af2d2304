// Package gridworld implements the square, deterministic gridworld:
// state and action enumeration, the transition and reward rules, and
// single-episode stepping.
package gridworld

import (
	"fmt"

	"github.com/CodeStranger-Fred/gridworld-pi/logging"
	"github.com/CodeStranger-Fred/gridworld-pi/mdp"
)

type Env struct {
	cfg       Config
	states    []mdp.State
	index     map[mdp.State]int
	actions   []mdp.Action
	terminals map[mdp.State]struct{}
	ditches   map[mdp.State]struct{}
	log       logging.Logger

	current mdp.State
	ended   bool
	turns   int
}

var _ mdp.Environment = (*Env)(nil)

// New builds the full state set of a cfg.GridSize square (capped at
// MaxGridSize) in row-major order. A nil logger discards output.
func New(cfg Config, log logging.Logger) (*Env, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.Nop()
	}

	n := cfg.GridSize
	env := &Env{
		cfg:       cfg,
		states:    make([]mdp.State, 0, n*n),
		index:     make(map[mdp.State]int, n*n),
		actions:   mdp.Actions(),
		terminals: toSet(cfg.Terminals),
		ditches:   toSet(cfg.Ditches),
		log:       log,
		current:   cfg.Start,
	}
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			s := mdp.State{Row: r, Col: c}
			env.index[s] = len(env.states)
			env.states = append(env.states, s)
		}
	}

	log.Debugf("state space %v", keys(env.states))
	log.Debugf("action space %v", env.actions)
	log.Debugf("start %s terminals %v ditches %v", cfg.Start.Key(), keys(cfg.Terminals), keys(cfg.Ditches))
	log.Debugf("win reward %v turn penalty %v ditch penalty %v", cfg.WinReward, cfg.TurnPenalty, cfg.DitchPenalty)
	return env, nil
}

func toSet(states []mdp.State) map[mdp.State]struct{} {
	set := make(map[mdp.State]struct{}, len(states))
	for _, s := range states {
		set[s] = struct{}{}
	}
	return set
}

func keys(states []mdp.State) []string {
	out := make([]string, len(states))
	for i, s := range states {
		out[i] = s.Key()
	}
	return out
}

func (e *Env) SetLogger(log logging.Logger) {
	if log == nil {
		log = logging.Nop()
	}
	e.log = log
}

// Config returns the normalized configuration the env was built with.
func (e *Env) Config() Config {
	c := e.cfg
	c.Terminals = append([]mdp.State(nil), e.cfg.Terminals...)
	c.Ditches = append([]mdp.State(nil), e.cfg.Ditches...)
	return c
}

func (e *Env) GridSize() int { return e.cfg.GridSize }

func (e *Env) States() []mdp.State {
	return append([]mdp.State(nil), e.states...)
}

func (e *Env) Actions() []mdp.Action {
	return append([]mdp.Action(nil), e.actions...)
}

func (e *Env) StateCount() int  { return len(e.states) }
func (e *Env) ActionCount() int { return len(e.actions) }

func (e *Env) StateIndex(s mdp.State) (int, bool) {
	i, ok := e.index[s]
	return i, ok
}

func (e *Env) IsTerminal(s mdp.State) bool {
	_, ok := e.terminals[s]
	return ok
}

func (e *Env) IsDitch(s mdp.State) bool {
	_, ok := e.ditches[s]
	return ok
}

func (e *Env) Current() mdp.State { return e.current }
func (e *Env) Ended() bool        { return e.ended }
func (e *Env) Turns() int         { return e.turns }

// NextState is the deterministic transition. Moves off the grid are
// clamped, and unknown actions leave the position unchanged. It never
// touches episode state, so planners may call it freely.
func (e *Env) NextState(s mdp.State, a mdp.Action) mdp.State {
	row, col := s.Row, s.Col
	switch a {
	case mdp.Up:
		row = e.clip(row - 1)
	case mdp.Down:
		row = e.clip(row + 1)
	case mdp.Left:
		col = e.clip(col - 1)
	case mdp.Right:
		col = e.clip(col + 1)
	}
	next := mdp.State{Row: row, Col: col}
	if _, ok := e.index[next]; !ok {
		return s
	}
	return next
}

func (e *Env) clip(v int) int {
	if v < 0 {
		return 0
	}
	if v > e.cfg.GridSize-1 {
		return e.cfg.GridSize - 1
	}
	return v
}

// Reward depends only on the landing state.
func (e *Env) Reward(s mdp.State) mdp.Reward {
	reward := e.cfg.TurnPenalty
	if e.IsDitch(s) {
		reward += e.cfg.DitchPenalty
	}
	if e.IsTerminal(s) {
		reward += e.cfg.WinReward
	}
	return reward
}

func (e *Env) Reset() mdp.State {
	e.ended = false
	e.current = e.cfg.Start
	e.turns = 0
	return e.current
}

func (e *Env) Step(a mdp.Action) (mdp.StepResult, error) {
	if e.ended {
		return mdp.StepResult{}, fmt.Errorf("step %v at %s after %d turns: %w", a, e.current.Key(), e.turns, mdp.ErrEpisodeOver)
	}
	if !a.Valid() {
		return mdp.StepResult{}, fmt.Errorf("step %d: %w", int(a), mdp.ErrInvalidAction)
	}

	prev := e.current
	e.current = e.NextState(e.current, a)
	if e.IsTerminal(e.current) {
		e.ended = true
	}
	reward := e.Reward(e.current)
	e.turns++

	e.log.Debugf("state %s action %v next %s reward %v done %t turns %d",
		prev.Key(), a, e.current.Key(), reward, e.ended, e.turns)
	return mdp.StepResult{
		State:  e.current,
		Reward: reward,
		Done:   e.ended,
		Turns:  e.turns,
	}, nil
}
