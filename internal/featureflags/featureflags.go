// File: internal/featureflags/featureflags.go
// Brief: Opt-in synthesis behaviours toggled by --feature or PROJKIT_FEATURE_*.

// Package featureflags resolves the optional synthesis behaviours requested for
// one projkit run and carries them on the command context.
package featureflags

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
)

// Name is the kebab-case identifier of a feature.
type Name string

const (
	// FeatureTasksYAML additionally writes the task manifest as .projen/tasks.yaml.
	FeatureTasksYAML Name = "tasks-yaml"
)

const envPrefix = "PROJKIT_FEATURE_"

// Definition describes one registered feature.
type Definition struct {
	Name        Name
	Description string
	Default     bool
}

// EnvVar returns the variable that toggles d, e.g. PROJKIT_FEATURE_TASKS_YAML.
func (d Definition) EnvVar() string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(string(d.Name), "-", "_"))
}

var known = []Definition{
	{
		Name:        FeatureTasksYAML,
		Description: "Write a YAML copy of the task manifest next to tasks.json.",
	},
}

// ErrUnknownFeature is returned for names that are not registered.
var ErrUnknownFeature = errors.New("unknown feature flag")

// DefinitionByName looks up a registered feature.
func DefinitionByName(name Name) (Definition, bool) {
	i := slices.IndexFunc(known, func(d Definition) bool { return d.Name == name })
	if i < 0 {
		return Definition{}, false
	}
	return known[i], true
}

// Definitions lists every registered feature ordered by name.
func Definitions() []Definition {
	defs := slices.Clone(known)
	slices.SortFunc(defs, func(a, b Definition) int { return strings.Compare(string(a.Name), string(b.Name)) })
	return defs
}

// Flags is the resolved feature set of one invocation. The zero value has
// every feature off.
type Flags struct {
	on map[Name]bool
}

func (f Flags) Enabled(name Name) bool { return f.on[name] }

// EnabledNames returns the enabled features ordered by name.
func (f Flags) EnabledNames() []Name {
	var names []Name
	for name, on := range f.on {
		if on {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// Resolve starts from the registered defaults and applies each source in
// order. A source is a list of comma-separated tokens; a token prefixed with
// "no-" switches the feature off again.
func Resolve(sources ...[]string) (Flags, error) {
	on := make(map[Name]bool, len(known))
	for _, def := range known {
		on[def.Name] = def.Default
	}
	for _, source := range sources {
		for _, value := range source {
			for _, token := range strings.Split(value, ",") {
				name, enable := parseToken(token)
				if name == "" {
					continue
				}
				if _, ok := on[name]; !ok {
					return Flags{}, fmt.Errorf("%w: %s", ErrUnknownFeature, strings.TrimSpace(token))
				}
				on[name] = enable
			}
		}
	}
	return Flags{on: on}, nil
}

func parseToken(token string) (Name, bool) {
	token = strings.ToLower(strings.TrimSpace(token))
	token = strings.ReplaceAll(token, "_", "-")
	if rest, ok := strings.CutPrefix(token, "no-"); ok {
		return Name(rest), false
	}
	return Name(token), true
}

// EnabledFromEnv converts PROJKIT_FEATURE_* variables into Resolve tokens.
// A nil environ reads the process environment. Unregistered names are
// ignored. Falsy values produce "no-" tokens so the environment can also
// switch a default off.
func EnabledFromEnv(environ []string) []string {
	if environ == nil {
		environ = os.Environ()
	}
	var tokens []string
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || !strings.HasPrefix(key, envPrefix) {
			continue
		}
		on, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			on = isYes(value)
		}
		token := strings.TrimPrefix(key, envPrefix)
		if name, _ := parseToken(token); !isKnown(name) {
			continue
		}
		if !on {
			token = "no-" + token
		}
		tokens = append(tokens, token)
	}
	return tokens
}

func isKnown(name Name) bool {
	_, ok := DefinitionByName(name)
	return ok
}

func isYes(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "y", "yes", "on":
		return true
	}
	return false
}

type ctxKey struct{}

// ContextWithFlags returns a copy of ctx carrying flags.
func ContextWithFlags(ctx context.Context, flags Flags) context.Context {
	return context.WithValue(ctx, ctxKey{}, flags)
}

// FromContext returns the flags stored on ctx, or the zero Flags.
func FromContext(ctx context.Context) Flags {
	if ctx == nil {
		return Flags{}
	}
	flags, _ := ctx.Value(ctxKey{}).(Flags)
	return flags
}
