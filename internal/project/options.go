// File: internal/project/options.go
// Brief: Project options record.

package project

import (
	"errors"
	"fmt"
	"strings"

	"github.com/example/projkit/internal/document"
	"github.com/example/projkit/internal/features"
)

// ErrInvalidOptions is returned when a required option is missing or malformed.
var ErrInvalidOptions = errors.New("invalid project options")

const (
	DefaultSrcdir  = "src"
	DefaultTestdir = "test"
	DefaultLibdir  = "lib"

	RcFileJS = ".projenrc.js"
	RcFileTS = ".projenrc.ts"
)

// JestOptions configures the jest feature.
type JestOptions struct {
	JestVersion    string
	JestConfig     document.Fragment
	ConfigFilePath string
}

// Options is the immutable input of a project. The zero value of Jest and
// Eslint means enabled.
type Options struct {
	Name                 string
	DefaultReleaseBranch string

	Srcdir  string
	Testdir string
	Libdir  string

	ProjenrcTs bool

	DisableTsconfig    bool
	DisableTsconfigDev bool
	Tsconfig           document.Fragment
	TsconfigDev        document.Fragment
	TsconfigDevFile    string

	Jest          *bool
	JestOptions   JestOptions
	TsJestOptions *features.TsJestOptions

	Eslint         *bool
	EslintOverride document.Fragment

	Deps              []string
	DevDeps           []string
	TypescriptVersion string

	// TasksYAML additionally writes the task manifest as YAML.
	TasksYAML bool
}

// Bool returns a pointer to b, for the optional toggles of Options.
func Bool(b bool) *bool { return &b }

func (o Options) withDefaults() Options {
	o.Name = strings.TrimSpace(o.Name)
	o.DefaultReleaseBranch = strings.TrimSpace(o.DefaultReleaseBranch)
	if o.Srcdir = strings.Trim(strings.TrimSpace(o.Srcdir), "/"); o.Srcdir == "" {
		o.Srcdir = DefaultSrcdir
	}
	if o.Testdir = strings.Trim(strings.TrimSpace(o.Testdir), "/"); o.Testdir == "" {
		o.Testdir = DefaultTestdir
	}
	if o.Libdir = strings.Trim(strings.TrimSpace(o.Libdir), "/"); o.Libdir == "" {
		o.Libdir = DefaultLibdir
	}
	return o
}

func (o Options) validate() error {
	if o.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidOptions)
	}
	if o.DefaultReleaseBranch == "" {
		return fmt.Errorf("%w: defaultReleaseBranch is required", ErrInvalidOptions)
	}
	if o.Srcdir == o.Testdir {
		return fmt.Errorf("%w: srcdir and testdir must differ (both %q)", ErrInvalidOptions, o.Srcdir)
	}
	return nil
}

func (o Options) jestEnabled() bool   { return o.Jest == nil || *o.Jest }
func (o Options) eslintEnabled() bool { return o.Eslint == nil || *o.Eslint }

// RcFile returns the project definition entrypoint.
func (o Options) RcFile() string {
	if o.ProjenrcTs {
		return RcFileTS
	}
	return RcFileJS
}
