package lifecycle

import (
	"errors"
	"fmt"
)

// State is a lifecycle phase.
type State int

const (
	// StateNew precedes engine creation.
	StateNew State = iota
	StateCreated
	StateConfigured
	StateEncoded
	StateReported
	StateFailed
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateCreated:
		return "created"
	case StateConfigured:
		return "configured"
	case StateEncoded:
		return "encoded"
	case StateReported:
		return "reported"
	case StateFailed:
		return "failed"
	case StateDestroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrInvalidTransition is wrapped by every rejected state change.
var ErrInvalidTransition = errors.New("invalid lifecycle transition")

// ErrInterrupted is returned by Encode when its context ends mid-encode.
var ErrInterrupted = errors.New("encode interrupted")

// TransitionError names the rejected edge.
type TransitionError struct {
	From State
	To   State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// transitions lists the legal edges. Destroyed is reachable from every state
// that holds an engine so teardown runs on abnormal paths too.
var transitions = map[State][]State{
	StateNew:        {StateCreated, StateFailed},
	StateCreated:    {StateConfigured, StateFailed, StateDestroyed},
	StateConfigured: {StateEncoded, StateFailed, StateDestroyed},
	StateEncoded:    {StateReported, StateDestroyed},
	StateReported:   {StateDestroyed},
	StateFailed:     {StateDestroyed},
}

// CanTransition reports whether from -> to is a legal edge.
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
