// File: internal/project/state.go
// Brief: Assembly lifecycle.

package project

import (
	"errors"
	"fmt"
)

// ErrState is returned for operations invoked in the wrong lifecycle state.
var ErrState = errors.New("invalid project state")

// State is the assembly lifecycle. Transitions only move forward.
type State int

const (
	StateUninitialized State = iota
	StateFeaturesConstructed
	StateTasksFinalized
	StateSynthesized
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateFeaturesConstructed:
		return "features-constructed"
	case StateTasksFinalized:
		return "tasks-finalized"
	case StateSynthesized:
		return "synthesized"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// StateError reports an operation attempted outside the states that allow it.
type StateError struct {
	Op    string
	State State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: not allowed in state %s", e.Op, e.State)
}

func (e *StateError) Unwrap() error { return ErrState }
