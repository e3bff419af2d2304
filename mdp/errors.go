package mdp

import "errors"

var (
	ErrEpisodeOver   = errors.New("episode is over")
	ErrInvalidAction = errors.New("invalid action")
)
