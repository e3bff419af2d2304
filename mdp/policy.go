package mdp

import (
	"math/rand"
	"strings"
)

// Policy maps every dense state index to exactly one action.
type Policy []Action

// RandomPolicy draws one action per state uniformly from actions.
func RandomPolicy(rng *rand.Rand, states int, actions []Action) Policy {
	p := make(Policy, states)
	for s := range p {
		p[s] = actions[rng.Intn(len(actions))]
	}
	return p
}

// ConstantPolicy always picks a, whatever the state.
func ConstantPolicy(states int, a Action) Policy {
	p := make(Policy, states)
	for s := range p {
		p[s] = a
	}
	return p
}

func (p Policy) Clone() Policy {
	if p == nil {
		return nil
	}
	c := make(Policy, len(p))
	copy(c, p)
	return c
}

func (p Policy) Equal(other Policy) bool {
	if len(p) != len(other) {
		return false
	}
	for s := range p {
		if p[s] != other[s] {
			return false
		}
	}
	return true
}

// Changes counts the states whose action differs between p and other.
func (p Policy) Changes(other Policy) int {
	n := 0
	for s := range p {
		if s >= len(other) || p[s] != other[s] {
			n++
		}
	}
	if len(other) > len(p) {
		n += len(other) - len(p)
	}
	return n
}

func (p Policy) String() string {
	names := make([]string, len(p))
	for s, a := range p {
		names[s] = a.String()
	}
	return "[" + strings.Join(names, " ") + "]"
}
