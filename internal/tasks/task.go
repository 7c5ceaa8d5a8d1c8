// File: internal/tasks/task.go
// Brief: Named, ordered task definitions.

package tasks

import (
	"fmt"
	"maps"
)

// Options carries the optional fields of a task at creation time.
type Options struct {
	Description string
	Env         map[string]string
	Cwd         string
	Condition   string
	Steps       []Step
}

// Task is a named sequence of steps. A task with no steps is a hook point
// other features can extend.
type Task struct {
	name        string
	description string
	steps       []Step
	env         map[string]string
	cwd         string
	condition   string

	reg *Registry
}

func (t *Task) Name() string        { return t.name }
func (t *Task) Description() string { return t.description }
func (t *Task) Cwd() string         { return t.cwd }
func (t *Task) Condition() string   { return t.condition }

// Steps returns a copy of the task's steps in order.
func (t *Task) Steps() []Step {
	out := make([]Step, 0, len(t.steps))
	for _, s := range t.steps {
		out = append(out, s.clone())
	}
	return out
}

// Env returns a copy of the declared environment.
func (t *Task) Env() map[string]string {
	if len(t.env) == 0 {
		return nil
	}
	return maps.Clone(t.env)
}

// AddStep appends a step.
func (t *Task) AddStep(s Step) error {
	if err := t.checkMutable(); err != nil {
		return err
	}
	t.steps = append(t.steps, s.clone())
	return nil
}

// PrependStep inserts a step before all existing steps.
func (t *Task) PrependStep(s Step) error {
	if err := t.checkMutable(); err != nil {
		return err
	}
	t.steps = append([]Step{s.clone()}, t.steps...)
	return nil
}

// SetEnv declares an environment variable for every step of the task.
func (t *Task) SetEnv(name, value string) error {
	if err := t.checkMutable(); err != nil {
		return err
	}
	if t.env == nil {
		t.env = map[string]string{}
	}
	t.env[name] = value
	return nil
}

// SetCondition sets the command whose exit status gates the task.
func (t *Task) SetCondition(cmd string) error {
	if err := t.checkMutable(); err != nil {
		return err
	}
	t.condition = cmd
	return nil
}

func (t *Task) checkMutable() error {
	if t.reg != nil && t.reg.frozen {
		return t.reg.frozenErr(fmt.Sprintf("modify task %q", t.name))
	}
	return nil
}

func (t *Task) spec() TaskSpec {
	steps := t.Steps()
	if steps == nil {
		steps = []Step{}
	}
	return TaskSpec{
		Name:        t.name,
		Description: t.description,
		Steps:       steps,
		Env:         t.Env(),
		Cwd:         t.cwd,
		Condition:   t.condition,
	}
}
