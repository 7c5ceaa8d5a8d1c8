package tasks

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDuplicateTask  = errors.New("duplicate task")
	ErrUnknownTask    = errors.New("unknown task")
	ErrUnresolvedTask = errors.New("unresolved task reference")
	ErrCycle          = errors.New("task reference cycle")
	ErrInvalidStep    = errors.New("invalid step")
	ErrFrozen         = errors.New("task registry is frozen")
)

// GraphError reports a spawn graph that cannot be serialized.
type GraphError struct {
	Kind error
	// Task is the task holding the offending step.
	Task string
	// Missing is the unresolved spawn target.
	Missing string
	// Path is the full reference chain of a cycle, first element repeated at the end.
	Path []string
}

func (e *GraphError) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case len(e.Path) > 0:
		return fmt.Sprintf("%s: %s", e.Kind, strings.Join(e.Path, " -> "))
	case e.Missing != "":
		return fmt.Sprintf("%s: task %q spawns %q which does not exist", e.Kind, e.Task, e.Missing)
	default:
		return e.Kind.Error()
	}
}

func (e *GraphError) Unwrap() error { return e.Kind }

func cycleError(path []string) error {
	return &GraphError{Kind: ErrCycle, Task: path[0], Path: path}
}
