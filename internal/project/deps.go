// File: internal/project/deps.go
// Brief: Dependency specs referenced by the upgrade task.

package project

import (
	"sort"
	"strings"
)

// Dependency is a package name with an optional version constraint, written
// "name@constraint" (scoped names keep their leading "@").
type Dependency struct {
	Name    string
	Version string
}

// ParseDependency splits a "name@constraint" spec.
func ParseDependency(spec string) Dependency {
	spec = strings.TrimSpace(spec)
	at := strings.LastIndex(spec, "@")
	if at <= 0 {
		return Dependency{Name: spec}
	}
	return Dependency{Name: spec[:at], Version: spec[at+1:]}
}

func (d Dependency) String() string {
	if d.Version == "" {
		return d.Name
	}
	return d.Name + "@" + d.Version
}

// Ranged reports whether the dependency holds a caret or tilde range. Ranged
// dependencies keep their line and are left out of the upgrade filter.
func (d Dependency) Ranged() bool {
	return strings.HasPrefix(d.Version, "^") || strings.HasPrefix(d.Version, "~")
}

// dependencies returns the dev and runtime dependencies, each sorted by spec.
func (p *Project) dependencies() (dev, runtime []Dependency) {
	devSpecs := []string{
		"@types/node@^16",
		"constructs@^10.0.0",
		"projen",
		"standard-version@^9",
		"typescript",
	}
	if v := strings.TrimSpace(p.opts.TypescriptVersion); v != "" {
		devSpecs[len(devSpecs)-1] = "typescript@" + v
	}
	if p.opts.jestEnabled() {
		devSpecs = append(devSpecs, "@types/jest", "jest", "jest-junit@^15", "ts-jest")
	}
	if p.opts.eslintEnabled() {
		devSpecs = append(devSpecs,
			"@typescript-eslint/eslint-plugin@^6",
			"@typescript-eslint/parser@^6",
			"eslint-import-resolver-typescript",
			"eslint-plugin-import",
			"eslint@^8",
		)
	}
	if p.opts.ProjenrcTs {
		devSpecs = append(devSpecs, "ts-node")
	}
	devSpecs = append(devSpecs, p.opts.DevDeps...)
	return parseSorted(devSpecs), parseSorted(p.opts.Deps)
}

func parseSorted(specs []string) []Dependency {
	clean := make([]string, 0, len(specs))
	for _, s := range specs {
		if s = strings.TrimSpace(s); s != "" {
			clean = append(clean, s)
		}
	}
	sort.Strings(clean)
	out := make([]Dependency, 0, len(clean))
	for _, s := range clean {
		out = append(out, ParseDependency(s))
	}
	return out
}
