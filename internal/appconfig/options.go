// File: internal/appconfig/options.go
// Brief: Layered project options files.

package appconfig

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/example/projkit/internal/document"
	"github.com/example/projkit/internal/features"
	"github.com/example/projkit/internal/project"
	homedir "github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// TsJestConfig mirrors features.TsJestOptions.
type TsJestConfig struct {
	TransformPattern string         `yaml:"transformPattern,omitempty"`
	TransformOptions map[string]any `yaml:"transformOptions,omitempty"`
}

// JestConfig is the jestOptions block.
type JestConfig struct {
	JestVersion    string         `yaml:"jestVersion,omitempty"`
	JestConfig     map[string]any `yaml:"jestConfig,omitempty"`
	ConfigFilePath string         `yaml:"configFilePath,omitempty"`
	TsJestOptions  *TsJestConfig  `yaml:"tsJestOptions,omitempty"`
}

// Config is the on-disk project options record.
type Config struct {
	Name                 string `yaml:"name,omitempty"`
	DefaultReleaseBranch string `yaml:"defaultReleaseBranch,omitempty"`

	Srcdir  string `yaml:"srcdir,omitempty"`
	Testdir string `yaml:"testdir,omitempty"`
	Libdir  string `yaml:"libdir,omitempty"`

	ProjenrcTs *bool `yaml:"projenrcTs,omitempty"`

	DisableTsconfig    *bool          `yaml:"disableTsconfig,omitempty"`
	DisableTsconfigDev *bool          `yaml:"disableTsconfigDev,omitempty"`
	Tsconfig           map[string]any `yaml:"tsconfig,omitempty"`
	TsconfigDev        map[string]any `yaml:"tsconfigDev,omitempty"`
	TsconfigDevFile    string         `yaml:"tsconfigDevFile,omitempty"`

	Jest        *bool      `yaml:"jest,omitempty"`
	JestOptions JestConfig `yaml:"jestOptions,omitempty"`

	Eslint       *bool          `yaml:"eslint,omitempty"`
	EslintConfig map[string]any `yaml:"eslintConfig,omitempty"`

	Deps              []string `yaml:"deps,omitempty"`
	DevDeps           []string `yaml:"devDeps,omitempty"`
	TypescriptVersion string   `yaml:"typescriptVersion,omitempty"`
}

// DefaultGlobalPath is the per-user options file.
func DefaultGlobalPath() string {
	home, err := homedir.Dir()
	if err != nil || strings.TrimSpace(home) == "" {
		return ""
	}
	return filepath.Join(home, ".projkit", "options.yaml")
}

// DefaultRepoPath is the project options file below repoRoot.
func DefaultRepoPath(repoRoot string) string {
	repoRoot = strings.TrimSpace(repoRoot)
	if repoRoot == "" {
		return ""
	}
	return filepath.Join(repoRoot, RepoFile)
}

// Load reads the global then the repo options file; the repo file wins.
// Missing files are treated as empty.
func Load(ctx context.Context, globalPath, repoPath string) (Config, error) {
	_ = ctx
	cfg := Config{}
	if strings.TrimSpace(globalPath) != "" {
		c, err := loadOne(globalPath)
		if err != nil {
			return Config{}, fmt.Errorf("load global options: %w", err)
		}
		if cfg, err = merge(cfg, c); err != nil {
			return Config{}, fmt.Errorf("merge global options: %w", err)
		}
	}
	if strings.TrimSpace(repoPath) != "" {
		c, err := loadOne(repoPath)
		if err != nil {
			return Config{}, fmt.Errorf("load repo options: %w", err)
		}
		if cfg, err = merge(cfg, c); err != nil {
			return Config{}, fmt.Errorf("merge repo options: %w", err)
		}
	}
	return cfg, nil
}

func loadOne(path string) (Config, error) {
	path, err := homedir.Expand(strings.TrimSpace(path))
	if err != nil {
		return Config{}, err
	}
	if path == "" {
		return Config{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, err
	}
	return Parse(raw)
}

// Parse decodes an options document. Unknown keys are rejected.
func Parse(raw []byte) (Config, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Config{}, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	var cfg Config
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	return cfg, nil
}

// merge layers b over a. Scalars and toggles set in b win, dependency lists
// accumulate and the config fragments merge with document semantics.
func merge(a, b Config) (Config, error) {
	out := a
	fragA, fragB := a.fragments(), b.fragments()
	out.clearFragments()
	b.clearFragments()
	if err := mergo.Merge(&out, b, mergo.WithOverride, mergo.WithoutDereference, mergo.WithAppendSlice); err != nil {
		return Config{}, err
	}
	// mergo leaves pointers to structs alone without dereferencing.
	if bt, ot := b.JestOptions.TsJestOptions, out.JestOptions.TsJestOptions; bt != nil && ot != nil && bt != ot && bt.TransformPattern != "" {
		ot.TransformPattern = bt.TransformPattern
	}
	merged := make([]map[string]any, len(fragA))
	for i := range fragA {
		m, err := document.MergeFragments(fragA[i], fragB[i])
		if err != nil {
			return Config{}, err
		}
		if len(m) > 0 {
			merged[i] = m
		}
	}
	out.setFragments(merged)
	return out, nil
}

func (c *Config) fragments() []document.Fragment {
	var tsJest map[string]any
	if c.JestOptions.TsJestOptions != nil {
		tsJest = c.JestOptions.TsJestOptions.TransformOptions
	}
	return []document.Fragment{c.Tsconfig, c.TsconfigDev, c.JestOptions.JestConfig, c.EslintConfig, tsJest}
}

func (c *Config) clearFragments() {
	c.Tsconfig, c.TsconfigDev, c.JestOptions.JestConfig, c.EslintConfig = nil, nil, nil, nil
	if c.JestOptions.TsJestOptions != nil {
		cp := *c.JestOptions.TsJestOptions
		cp.TransformOptions = nil
		c.JestOptions.TsJestOptions = &cp
	}
}

func (c *Config) setFragments(f []map[string]any) {
	c.Tsconfig, c.TsconfigDev, c.JestOptions.JestConfig, c.EslintConfig = f[0], f[1], f[2], f[3]
	if f[4] != nil {
		if c.JestOptions.TsJestOptions == nil {
			c.JestOptions.TsJestOptions = &TsJestConfig{}
		}
		c.JestOptions.TsJestOptions.TransformOptions = f[4]
	}
}

// ProjectOptions converts the record into project options.
func (c Config) ProjectOptions() project.Options {
	opts := project.Options{
		Name:                 c.Name,
		DefaultReleaseBranch: c.DefaultReleaseBranch,
		Srcdir:               c.Srcdir,
		Testdir:              c.Testdir,
		Libdir:               c.Libdir,
		ProjenrcTs:           isSet(c.ProjenrcTs),
		DisableTsconfig:      isSet(c.DisableTsconfig),
		DisableTsconfigDev:   isSet(c.DisableTsconfigDev),
		Tsconfig:             c.Tsconfig,
		TsconfigDev:          c.TsconfigDev,
		TsconfigDevFile:      c.TsconfigDevFile,
		Jest:                 c.Jest,
		JestOptions: project.JestOptions{
			JestVersion:    c.JestOptions.JestVersion,
			JestConfig:     c.JestOptions.JestConfig,
			ConfigFilePath: c.JestOptions.ConfigFilePath,
		},
		Eslint:            c.Eslint,
		EslintOverride:    c.EslintConfig,
		Deps:              append([]string(nil), c.Deps...),
		DevDeps:           append([]string(nil), c.DevDeps...),
		TypescriptVersion: c.TypescriptVersion,
	}
	if ts := c.JestOptions.TsJestOptions; ts != nil {
		opts.TsJestOptions = &features.TsJestOptions{
			TransformPattern: ts.TransformPattern,
			TransformOptions: ts.TransformOptions,
		}
	}
	return opts
}

func isSet(b *bool) bool { return b != nil && *b }
