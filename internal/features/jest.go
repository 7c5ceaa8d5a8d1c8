// File: internal/features/jest.go
// Brief: Jest test runner configuration and the test task.

package features

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/example/projkit/internal/document"
	"github.com/example/projkit/internal/logging"
	"github.com/example/projkit/internal/tasks"
)

const (
	DefaultJestConfigFile = "jest.config.json"
	DefaultJestVersion    = "29"
	// DefaultTsJestTransformPattern selects TypeScript sources for ts-jest.
	DefaultTsJestTransformPattern = `^.+\.[t]sx?$`

	// modernJestMajor is the first jest/ts-jest major configured through transform.
	modernJestMajor = 29

	legacyTsJestWarning = "You are using a legacy version (<29) of jest and ts-jest that does not support tsJestOptions, they will be ignored."

	TestTask = "test"
)

// TsJestOptions tunes the ts-jest transform. Only honoured for jest >= 29.
type TsJestOptions struct {
	TransformPattern string
	TransformOptions document.Fragment
}

// JestOptions configures the jest feature.
type JestOptions struct {
	JestVersion string
	Config      document.Fragment
	ConfigFile  string
	TsJest      *TsJestOptions

	Srcdir  string
	Testdir string
	// Tsconfig is the compiler config ts-jest compiles tests with.
	Tsconfig Named

	Tasks *tasks.Registry
	Log   logging.Warner
}

// Jest is the test runner configuration.
type Jest struct {
	base
	version *semver.Version
}

// NewJest builds the jest configuration and registers the test step.
func NewJest(opts JestOptions) (*Jest, error) {
	if opts.Tsconfig == nil {
		return nil, fmt.Errorf("jest: a tsconfig feature is required")
	}
	if opts.Log == nil {
		opts.Log = logging.Discard
	}
	raw := strings.TrimSpace(opts.JestVersion)
	if raw == "" {
		raw = DefaultJestVersion
	}
	v, err := semver.NewVersion(strings.TrimLeft(raw, "^~=<> "))
	if err != nil {
		return nil, fmt.Errorf("jest: invalid jestVersion %q: %w", opts.JestVersion, err)
	}
	fileName := strings.TrimSpace(opts.ConfigFile)
	if fileName == "" {
		fileName = DefaultJestConfigFile
	}

	j := &Jest{base: newBase(fileName), version: v}
	defaults := jestDefaults(opts)
	if j.Legacy() {
		if opts.TsJest != nil {
			opts.Log.Warn(legacyTsJestWarning)
		}
		defaults["preset"] = "ts-jest"
		defaults["globals"] = map[string]any{
			"ts-jest": map[string]any{"tsconfig": opts.Tsconfig.FileName()},
		}
	} else {
		transform, err := tsJestTransform(opts)
		if err != nil {
			return nil, err
		}
		defaults["transform"] = transform
	}
	if err := j.applyDefaults(defaults); err != nil {
		return nil, err
	}
	if err := j.applyOverrides(opts.Config); err != nil {
		return nil, err
	}

	if opts.Tasks != nil {
		test, err := opts.Tasks.GetOrCreate(TestTask, "Run tests")
		if err != nil {
			return nil, err
		}
		if err := test.AddStep(tasks.ExecWithArgs("jest --passWithNoTests --updateSnapshot")); err != nil {
			return nil, err
		}
	}
	return j, nil
}

// Legacy reports whether the configured jest predates transform-based ts-jest setup.
func (j *Jest) Legacy() bool { return j.version.Major() < modernJestMajor }

// Version returns the configured jest version.
func (j *Jest) Version() string { return j.version.Original() }

func tsJestTransform(opts JestOptions) (map[string]any, error) {
	pattern := DefaultTsJestTransformPattern
	var user document.Fragment
	if opts.TsJest != nil {
		if p := strings.TrimSpace(opts.TsJest.TransformPattern); p != "" {
			pattern = p
		}
		user = opts.TsJest.TransformOptions
	}
	transformOptions, err := document.MergeFragments(
		document.Fragment{"tsconfig": opts.Tsconfig.FileName()},
		user,
	)
	if err != nil {
		return nil, fmt.Errorf("jest: tsJestOptions: %w", err)
	}
	return map[string]any{
		pattern: []any{"ts-jest", map[string]any(transformOptions)},
	}, nil
}

func jestDefaults(opts JestOptions) document.Fragment {
	dirs := fmt.Sprintf("@(%s|%s)", opts.Srcdir, opts.Testdir)
	return document.Fragment{
		"testMatch": []string{
			"<rootDir>/" + dirs + "/**/*(*.)@(spec|test).ts?(x)",
			"<rootDir>/" + dirs + "/**/__tests__/**/*.ts?(x)",
		},
		"clearMocks":                 true,
		"collectCoverage":            true,
		"coverageReporters":          []string{"json", "lcov", "clover", "cobertura", "text"},
		"coverageDirectory":          "coverage",
		"coveragePathIgnorePatterns": []string{"/node_modules/"},
		"testPathIgnorePatterns":     []string{"/node_modules/"},
		"watchPathIgnorePatterns":    []string{"/node_modules/"},
		"reporters": []any{
			"default",
			[]any{"jest-junit", map[string]any{"outputDirectory": "test-reports"}},
		},
	}
}
