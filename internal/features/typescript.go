// File: internal/features/typescript.go
// Brief: tsconfig.json and tsconfig.dev.json.

package features

import (
	"fmt"
	"path"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/example/projkit/internal/document"
)

const (
	DefaultTsconfigFile    = "tsconfig.json"
	DefaultTsconfigDevFile = "tsconfig.dev.json"

	OptionDisableTsconfig    = "disableTsconfig"
	OptionDisableTsconfigDev = "disableTsconfigDev"
)

// TypeScriptOptions configures the compiler configuration pair.
type TypeScriptOptions struct {
	Srcdir  string
	Testdir string
	Libdir  string
	// RcFile is the project definition entrypoint compiled by the dev config.
	RcFile     string
	ProjenrcTs bool

	DisableTsconfig    bool
	DisableTsconfigDev bool

	// Tsconfig overrides both files; TsconfigDev overrides only the dev file.
	// A "fileName" key selects the file name and never reaches the document.
	Tsconfig        document.Fragment
	TsconfigDev     document.Fragment
	TsconfigDevFile string
}

// TypeScriptConfig is a single tsconfig file.
type TypeScriptConfig struct {
	base
}

// Include returns the merged include patterns.
func (c *TypeScriptConfig) Include() []string {
	v, _ := c.doc.Get("include")
	return stringList(v)
}

// Exclude returns the merged exclude patterns.
func (c *TypeScriptConfig) Exclude() []string {
	v, _ := c.doc.Get("exclude")
	return stringList(v)
}

// CompilerOption reads a merged compiler option.
func (c *TypeScriptConfig) CompilerOption(name string) (any, bool) {
	return c.doc.Get("compilerOptions." + name)
}

// AddInclude appends include patterns.
func (c *TypeScriptConfig) AddInclude(patterns ...string) error {
	if err := validateGlobs(c.fileName, "include", patterns); err != nil {
		return err
	}
	return c.doc.ApplyLabeled(labelWiring, document.Fragment{"include": patterns})
}

// AddExclude appends exclude patterns.
func (c *TypeScriptConfig) AddExclude(patterns ...string) error {
	if err := validateGlobs(c.fileName, "exclude", patterns); err != nil {
		return err
	}
	return c.doc.ApplyLabeled(labelWiring, document.Fragment{"exclude": patterns})
}

func (c *TypeScriptConfig) validate() error {
	if err := validateGlobs(c.fileName, "include", c.Include()); err != nil {
		return err
	}
	return validateGlobs(c.fileName, "exclude", c.Exclude())
}

// TypeScript owns the main and dev compiler configurations.
type TypeScript struct {
	main *TypeScriptConfig
	dev  *TypeScriptConfig
}

// NewTypeScript builds both compiler configurations. The dev overrides are the
// main overrides merged with the dev-only ones, so a file name given only for
// the main config is inherited by the dev config unless TsconfigDevFile or the
// dev fragment names another.
func NewTypeScript(opts TypeScriptOptions) (*TypeScript, error) {
	if err := Exclusive(
		Toggle{Name: OptionDisableTsconfigDev, Set: opts.DisableTsconfigDev},
		Toggle{Name: OptionDisableTsconfig, Set: opts.DisableTsconfig},
	); err != nil {
		return nil, err
	}

	ts := &TypeScript{}
	if !opts.DisableTsconfig {
		override, fileName, err := takeString(opts.Tsconfig, "fileName")
		if err != nil {
			return nil, fmt.Errorf("tsconfig: %w", err)
		}
		if fileName == "" {
			fileName = DefaultTsconfigFile
		}
		main, err := newTypeScriptConfig(fileName, mainDefaults(opts), override)
		if err != nil {
			return nil, err
		}
		ts.main = main
	}

	if opts.DisableTsconfigDev {
		ts.dev = ts.main
		return ts, nil
	}
	combined, err := document.MergeFragments(opts.Tsconfig, opts.TsconfigDev)
	if err != nil {
		return nil, fmt.Errorf("tsconfigDev: %w", err)
	}
	override, fileName, err := takeString(combined, "fileName")
	if err != nil {
		return nil, fmt.Errorf("tsconfigDev: %w", err)
	}
	if opts.TsconfigDevFile != "" {
		fileName = opts.TsconfigDevFile
	}
	if fileName == "" {
		fileName = DefaultTsconfigDevFile
	}
	dev, err := newTypeScriptConfig(fileName, devDefaults(opts), override)
	if err != nil {
		return nil, err
	}
	ts.dev = dev
	return ts, nil
}

func newTypeScriptConfig(fileName string, defaults, override document.Fragment) (*TypeScriptConfig, error) {
	c := &TypeScriptConfig{base: newBase(fileName)}
	if err := c.applyDefaults(defaults); err != nil {
		return nil, err
	}
	if err := c.applyOverrides(override); err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Main returns the main tsconfig, or nil when it is disabled.
func (t *TypeScript) Main() *TypeScriptConfig { return t.main }

// Dev returns the dev tsconfig. When the dev file is disabled this is the main config.
func (t *TypeScript) Dev() *TypeScriptConfig { return t.dev }

// DevIsMain reports whether the dev config is an alias of the main config.
func (t *TypeScript) DevIsMain() bool { return t.dev == t.main }

// Configs returns the distinct configs to synthesize.
func (t *TypeScript) Configs() []*TypeScriptConfig {
	var out []*TypeScriptConfig
	if t.main != nil {
		out = append(out, t.main)
	}
	if t.dev != nil && !t.DevIsMain() {
		out = append(out, t.dev)
	}
	return out
}

func compilerDefaults() map[string]any {
	return map[string]any{
		"alwaysStrict":                 true,
		"declaration":                  true,
		"esModuleInterop":              true,
		"experimentalDecorators":       true,
		"inlineSourceMap":              true,
		"inlineSources":                true,
		"lib":                          []string{"es2020"},
		"module":                       "CommonJS",
		"noEmitOnError":                false,
		"noFallthroughCasesInSwitch":   true,
		"noImplicitAny":                true,
		"noImplicitReturns":            true,
		"noImplicitThis":               true,
		"noUnusedLocals":               true,
		"noUnusedParameters":           true,
		"resolveJsonModule":            true,
		"strict":                       true,
		"strictNullChecks":             true,
		"strictPropertyInitialization": true,
		"stripInternal":                true,
		"target":                       "ES2020",
	}
}

func mainDefaults(opts TypeScriptOptions) document.Fragment {
	co := compilerDefaults()
	co["rootDir"] = opts.Srcdir
	co["outDir"] = opts.Libdir
	return document.Fragment{
		"compilerOptions": co,
		"include":         []string{SourceGlob(opts.Srcdir)},
		"exclude":         []string{},
	}
}

func devDefaults(opts TypeScriptOptions) document.Fragment {
	include := []string{opts.RcFile, SourceGlob(opts.Srcdir), SourceGlob(opts.Testdir)}
	if opts.ProjenrcTs {
		include = append(include, ProjenrcDirGlob)
	}
	return document.Fragment{
		"compilerOptions": compilerDefaults(),
		"include":         include,
		"exclude":         []string{"node_modules"},
	}
}

// ProjenrcDirGlob matches the TypeScript sources backing .projenrc.ts.
const ProjenrcDirGlob = "projenrc/**/*.ts"

// SourceGlob returns the TypeScript source pattern for dir.
func SourceGlob(dir string) string {
	return path.Join(dir, "**", "*.ts")
}

func validateGlobs(file, field string, patterns []string) error {
	for _, p := range patterns {
		if p == "" || !doublestar.ValidatePattern(p) {
			return fmt.Errorf("%s %s: %w: %q", file, field, ErrInvalidGlob, p)
		}
	}
	return nil
}
