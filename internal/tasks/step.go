// File: internal/tasks/step.go
// Brief: Task step variants.

package tasks

import (
	"fmt"
	"strings"

	"github.com/mattn/go-shellwords"
)

// Step is one unit of execution inside a task. Exactly one of Exec or Spawn is set.
type Step struct {
	// Exec is a command line to run.
	Exec string `json:"exec,omitempty"`
	// ReceiveArgs forwards caller-supplied trailing arguments to Exec.
	ReceiveArgs bool `json:"receiveArgs,omitempty"`
	// Spawn names another task to run as a sub-task.
	Spawn string `json:"spawn,omitempty"`
	// Args are fixed arguments forwarded to the spawned task.
	Args []string `json:"args,omitempty"`

	Name      string `json:"name,omitempty"`
	Cwd       string `json:"cwd,omitempty"`
	Condition string `json:"condition,omitempty"`
}

// ExecStep returns a step running command.
func ExecStep(command string) Step { return Step{Exec: command} }

// ExecWithArgs returns a step running command with caller arguments appended.
func ExecWithArgs(command string) Step { return Step{Exec: command, ReceiveArgs: true} }

// SpawnStep returns a step invoking the named task.
func SpawnStep(task string, args ...string) Step {
	return Step{Spawn: task, Args: append([]string(nil), args...)}
}

// IsSpawn reports whether the step references another task.
func (s Step) IsSpawn() bool { return s.Spawn != "" }

func (s Step) validate() error {
	exec := strings.TrimSpace(s.Exec)
	spawn := strings.TrimSpace(s.Spawn)
	switch {
	case exec != "" && spawn != "":
		return fmt.Errorf("%w: step sets both exec %q and spawn %q", ErrInvalidStep, s.Exec, s.Spawn)
	case exec == "" && spawn == "":
		return fmt.Errorf("%w: step has neither exec nor spawn", ErrInvalidStep)
	case spawn != "" && s.ReceiveArgs:
		return fmt.Errorf("%w: spawn step %q cannot receive args", ErrInvalidStep, s.Spawn)
	case exec != "" && len(s.Args) > 0:
		return fmt.Errorf("%w: exec step %q cannot carry spawn args", ErrInvalidStep, s.Exec)
	}
	if exec != "" {
		if _, err := Argv(exec); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidStep, err)
		}
	}
	return nil
}

// Argv splits an exec command line the way a POSIX shell would, without
// expanding variables.
func Argv(command string) ([]string, error) {
	args, err := shellwords.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse command %q: %w", command, err)
	}
	return args, nil
}

func (s Step) clone() Step {
	cp := s
	cp.Spawn = normalizeName(s.Spawn)
	cp.Args = append([]string(nil), s.Args...)
	if len(cp.Args) == 0 {
		cp.Args = nil
	}
	return cp
}
