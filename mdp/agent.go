package mdp

// Transition records one step: the agent took Action in State0, landed in
// State1 and was paid Reward.
type Transition struct {
	State0 State
	Action Action
	State1 State
	Reward Reward
}

// Episode is the ordered list of transitions of one run from reset.
type Episode []Transition

func (e Episode) Return() Reward {
	var total Reward
	for _, t := range e {
		total += t.Reward
	}
	return total
}

// Visits reports whether the episode ever landed on s.
func (e Episode) Visits(s State) bool {
	for _, t := range e {
		if t.State1 == s {
			return true
		}
	}
	return false
}

// Agent keeps the history of the episode in progress.
type Agent struct {
	History Episode
}

func (a *Agent) Step(state0 State, action Action, state1 State, reward Reward) {
	a.History = append(a.History, Transition{
		State0: state0,
		Action: action,
		State1: state1,
		Reward: reward,
	})
}

func (a *Agent) Forget() {
	a.History = nil
}
