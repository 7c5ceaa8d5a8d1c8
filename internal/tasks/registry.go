// File: internal/tasks/registry.go
// Brief: Shared task registry with spawn resolution and cycle detection.

package tasks

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"
)

// Registry owns every task of a project. Features may add tasks and append
// steps; nothing can delete or rename a task.
type Registry struct {
	tasks  map[string]*Task
	order  []string
	frozen bool
	cause  error
}

// normalizeName is applied to every task name entering or querying the registry.
func normalizeName(name string) string { return strings.TrimSpace(name) }

// New returns an empty registry.
func New() *Registry {
	return &Registry{tasks: map[string]*Task{}}
}

// Add creates a task. Adding a name that already exists fails with ErrDuplicateTask.
func (r *Registry) Add(name string, opts Options) (*Task, error) {
	name = normalizeName(name)
	if name == "" {
		return nil, fmt.Errorf("add task: name is required")
	}
	if r.frozen {
		return nil, r.frozenErr(fmt.Sprintf("add task %q", name))
	}
	if _, ok := r.tasks[name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateTask, name)
	}
	t := &Task{
		name:        name,
		description: opts.Description,
		cwd:         opts.Cwd,
		condition:   opts.Condition,
		reg:         r,
	}
	if len(opts.Env) > 0 {
		t.env = maps.Clone(opts.Env)
	}
	for _, s := range opts.Steps {
		t.steps = append(t.steps, s.clone())
	}
	r.tasks[name] = t
	r.order = append(r.order, name)
	return t, nil
}

// GetOrCreate returns the named task, creating it with description when absent.
// The description of an existing task is left unchanged.
func (r *Registry) GetOrCreate(name, description string) (*Task, error) {
	if t, ok := r.Lookup(name); ok {
		return t, nil
	}
	return r.Add(name, Options{Description: description})
}

// Lookup returns the named task.
func (r *Registry) Lookup(name string) (*Task, bool) {
	t, ok := r.tasks[normalizeName(name)]
	return t, ok
}

// AddStep appends a step to an existing task.
func (r *Registry) AddStep(taskName string, s Step) error {
	t, ok := r.Lookup(taskName)
	if !ok {
		return fmt.Errorf("add step: %w: %q", ErrUnknownTask, taskName)
	}
	return t.AddStep(s)
}

// Names returns all task names sorted.
func (r *Registry) Names() []string {
	names := slices.Clone(r.order)
	sort.Strings(names)
	return names
}

// Len returns the number of tasks.
func (r *Registry) Len() int { return len(r.tasks) }

// Freeze rejects any further mutation of the registry and its tasks.
func (r *Registry) Freeze() { r.frozen = true }

// FreezeWith freezes the registry; rejected mutations wrap cause as well as ErrFrozen.
func (r *Registry) FreezeWith(cause error) {
	r.frozen = true
	r.cause = cause
}

func (r *Registry) frozenErr(op string) error {
	if r.cause != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrFrozen, r.cause)
	}
	return fmt.Errorf("%s: %w", op, ErrFrozen)
}

// Frozen reports whether Freeze was called.
func (r *Registry) Frozen() bool { return r.frozen }

// Validate checks every step, resolves spawn references and rejects cycles.
func (r *Registry) Validate() error {
	names := r.Names()
	for _, name := range names {
		for i, s := range r.tasks[name].steps {
			if err := s.validate(); err != nil {
				return fmt.Errorf("task %q step %d: %w", name, i, err)
			}
			if s.IsSpawn() {
				if _, ok := r.tasks[s.Spawn]; !ok {
					return &GraphError{Kind: ErrUnresolvedTask, Task: name, Missing: s.Spawn}
				}
			}
		}
	}
	return r.detectCycle(names)
}

// detectCycle walks spawn edges depth-first; a name already on the active
// stack closes a cycle.
func (r *Registry) detectCycle(names []string) error {
	const (
		unvisited = iota
		active
		done
	)
	state := make(map[string]int, len(names))
	var stack []string

	var visit func(name string) error
	visit = func(name string) error {
		state[name] = active
		stack = append(stack, name)
		for _, s := range r.tasks[name].steps {
			if !s.IsSpawn() {
				continue
			}
			switch state[s.Spawn] {
			case active:
				idx := slices.Index(stack, s.Spawn)
				path := append(slices.Clone(stack[idx:]), s.Spawn)
				return cycleError(path)
			case unvisited:
				if err := visit(s.Spawn); err != nil {
					return err
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[name] = done
		return nil
	}

	for _, name := range names {
		if state[name] != unvisited {
			continue
		}
		if err := visit(name); err != nil {
			return err
		}
	}
	return nil
}

// Serialize validates the registry and produces the manifest.
func (r *Registry) Serialize() (*Manifest, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	m := &Manifest{Tasks: make(map[string]TaskSpec, len(r.tasks))}
	for _, name := range r.Names() {
		m.Tasks[name] = r.tasks[name].spec()
	}
	return m, nil
}
