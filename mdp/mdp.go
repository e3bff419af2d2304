// Package mdp holds the vocabulary shared by the gridworld environment and
// the solvers that plan against it.
package mdp

import (
	"fmt"
	"strconv"
)

// Reward is the scalar payoff for entering a state.
type Reward float64

// State is a grid cell. Rows grow downwards.
type State struct {
	Row int
	Col int
}

// Key encodes the state as row digit followed by col digit, e.g. "64".
// Grids are capped at 9 cells per axis so the key is always two characters.
func (s State) Key() string {
	return strconv.Itoa(s.Row) + strconv.Itoa(s.Col)
}

func (s State) String() string {
	return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
}

// ParseState is the inverse of State.Key.
func ParseState(key string) (State, error) {
	if len(key) != 2 {
		return State{}, fmt.Errorf("state key %q: want two digits", key)
	}
	row, err := strconv.Atoi(key[:1])
	if err != nil {
		return State{}, fmt.Errorf("state key %q: %w", key, err)
	}
	col, err := strconv.Atoi(key[1:])
	if err != nil {
		return State{}, fmt.Errorf("state key %q: %w", key, err)
	}
	return State{Row: row, Col: col}, nil
}

// Action is a move on the grid. Its integer value is its column in Q.
type Action int

const (
	Up Action = iota
	Down
	Left
	Right
)

var actionNames = map[Action]string{
	Up:    "UP",
	Down:  "DOWN",
	Left:  "LEFT",
	Right: "RIGHT",
}

// Actions is the fixed action set, identical for every state.
func Actions() []Action {
	return []Action{Up, Down, Left, Right}
}

func (a Action) Valid() bool {
	_, ok := actionNames[a]
	return ok
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Action(" + strconv.Itoa(int(a)) + ")"
}

// Model is the side-effect free view of an MDP used for planning.
type Model interface {
	States() []State
	Actions() []Action
	StateIndex(State) (int, bool)
	NextState(State, Action) State
	Reward(State) Reward
}

// StepResult is what a single real step of an episode yields.
type StepResult struct {
	State  State
	Reward Reward
	Done   bool
	Turns  int
}

// Episodic is the stateful stepping API used to run real episodes.
type Episodic interface {
	Reset() State
	Step(Action) (StepResult, error)
}

// Environment can both be planned against and stepped through.
type Environment interface {
	Model
	Episodic
}
