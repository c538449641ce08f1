// Package bench times index construction and search for one backend at a time.
package bench

import (
	"errors"
	"fmt"
)

// State is the lifecycle position of one backend run. Runs only move forward.
type State int

const (
	StateUninitialized State = iota
	StateIndexed
	StateSearched
	StateSearchedComplex
	StateCleaned
)

var stateNames = [...]string{"uninitialized", "indexed", "searched", "searched_complex", "cleaned"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// ErrInvalidTransition is returned when a run would move backwards or skip a required phase.
var ErrInvalidTransition = errors.New("invalid state transition")

// CanTransition reports whether a run may move from one state to another.
// Complex search is optional, so searched may go straight to cleaned.
func CanTransition(from, to State) bool {
	switch from {
	case StateUninitialized:
		return to == StateIndexed
	case StateIndexed:
		return to == StateSearched
	case StateSearched:
		return to == StateSearchedComplex || to == StateCleaned
	case StateSearchedComplex:
		return to == StateCleaned
	default:
		return false
	}
}

type lifecycle struct {
	state State
}

func (l *lifecycle) advance(to State) error {
	if !CanTransition(l.state, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, l.state, to)
	}
	l.state = to
	return nil
}
