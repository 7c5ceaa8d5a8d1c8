// File: internal/features/eslint.go
// Brief: ESLint configuration and the eslint task.

package features

import (
	"fmt"
	"strings"

	"github.com/example/projkit/internal/document"
	"github.com/example/projkit/internal/tasks"
)

const (
	DefaultEslintFile = ".eslintrc.json"
	EslintTask        = "eslint"
	buildToolsDir     = "build-tools"
)

// EslintOptions configures the lint feature.
type EslintOptions struct {
	Srcdir     string
	Testdir    string
	ProjenrcTs bool
	// RcFile is linted and allowed to import dev dependencies when ProjenrcTs is set.
	RcFile string
	// Tsconfig is the compiler config the TypeScript parser resolves types with.
	Tsconfig Named
	Override document.Fragment

	Tasks *tasks.Registry
}

// Eslint is the lint configuration.
type Eslint struct {
	base
	dirs []string
}

// NewEslint builds the lint configuration, the eslint task and hooks it into test.
func NewEslint(opts EslintOptions) (*Eslint, error) {
	if opts.Tsconfig == nil {
		return nil, fmt.Errorf("eslint: a tsconfig feature is required")
	}
	e := &Eslint{base: newBase(DefaultEslintFile)}
	e.dirs = []string{opts.Srcdir, opts.Testdir, buildToolsDir}
	devDeps := []string{
		"**/" + opts.Testdir + "/**",
		"**/" + buildToolsDir + "/**",
	}
	ignore := []string{"*.js"}
	if opts.ProjenrcTs {
		e.dirs = append(e.dirs, "projenrc", opts.RcFile)
		ignore = append(ignore, "!"+opts.RcFile, "!"+ProjenrcDirGlob)
		devDeps = append(devDeps, opts.RcFile, ProjenrcDirGlob)
	}
	ignore = append(ignore, "*.d.ts", "node_modules/", "*.generated.ts", "coverage")

	if err := e.applyDefaults(eslintDefaults(opts.Tsconfig.FileName(), ignore, devDeps)); err != nil {
		return nil, err
	}
	if err := e.applyOverrides(opts.Override); err != nil {
		return nil, err
	}

	if opts.Tasks != nil {
		if _, err := opts.Tasks.Add(EslintTask, tasks.Options{
			Description: "Runs eslint against the codebase",
			Steps:       []tasks.Step{tasks.ExecWithArgs(e.Command())},
		}); err != nil {
			return nil, err
		}
		test, err := opts.Tasks.GetOrCreate(TestTask, "Run tests")
		if err != nil {
			return nil, err
		}
		if err := test.AddStep(tasks.SpawnStep(EslintTask)); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Command returns the eslint command line run by the eslint task.
func (e *Eslint) Command() string {
	return "eslint --ext .ts,.tsx --fix --no-error-on-unmatched-pattern $@ " + strings.Join(e.dirs, " ")
}

// IgnorePatterns returns the merged ignore list.
func (e *Eslint) IgnorePatterns() []string {
	v, _ := e.doc.Get("ignorePatterns")
	return stringList(v)
}

// IgnorePath appends a generated file to the ignore list.
func (e *Eslint) IgnorePath(p string) error {
	p = strings.TrimSpace(p)
	if p == "" {
		return nil
	}
	return e.doc.ApplyLabeled(labelWiring, document.Fragment{"ignorePatterns": []string{p}})
}

func eslintDefaults(tsconfigFile string, ignore, devDeps []string) document.Fragment {
	return document.Fragment{
		"env":     map[string]any{"jest": true, "node": true},
		"root":    true,
		"plugins": []string{"@typescript-eslint", "import"},
		"parser":  "@typescript-eslint/parser",
		"parserOptions": map[string]any{
			"ecmaVersion": 2018,
			"sourceType":  "module",
			"project":     "./" + tsconfigFile,
		},
		"extends": []string{"plugin:import/typescript"},
		"settings": map[string]any{
			"import/parsers": map[string]any{
				"@typescript-eslint/parser": []string{".ts", ".tsx"},
			},
			"import/resolver": map[string]any{
				"node": map[string]any{},
				"typescript": map[string]any{
					"project":        "./" + tsconfigFile,
					"alwaysTryTypes": true,
				},
			},
		},
		"ignorePatterns": ignore,
		"rules": map[string]any{
			"indent":                    []any{"off"},
			"@typescript-eslint/indent": []any{"error", 2},
			"quotes":                    []any{"error", "single", map[string]any{"avoidEscape": true}},
			"comma-dangle":              []any{"error", "always-multiline"},
			"comma-spacing":             []any{"error", map[string]any{"before": false, "after": true}},
			"no-multi-spaces":           []any{"error", map[string]any{"ignoreEOLComments": false}},
			"no-trailing-spaces":        []any{"error"},
			"semi":                      []any{"error", "always"},
			"import/no-extraneous-dependencies": []any{
				"error",
				map[string]any{
					"devDependencies":      devDeps,
					"optionalDependencies": false,
					"peerDependencies":     true,
				},
			},
			"import/no-unresolved": []any{"error"},
			"import/order": []any{
				"warn",
				map[string]any{
					"groups":      []any{"builtin", "external"},
					"alphabetize": map[string]any{"order": "asc", "caseInsensitive": true},
				},
			},
			"no-duplicate-imports":                    []any{"error"},
			"no-shadow":                               []any{"off"},
			"@typescript-eslint/no-shadow":            []any{"error"},
			"@typescript-eslint/no-floating-promises": []any{"error"},
			"key-spacing":                             []any{"error"},
			"no-return-await":                         []any{"off"},
			"@typescript-eslint/return-await":         []any{"error"},
		},
	}
}
