// File: internal/config/config.go
// Brief: Synthesis command options.

// Package config defines the flag plumbing shared by projkit's synthesis
// commands, translating Cobra/Viper flag values into a typed struct.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/example/projkit/internal/appconfig"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Options holds the CLI configuration of synth and diff.
type Options struct {
	Dir           string
	OptionsFile   string
	GlobalOptions string
	NoGlobal      bool
	DryRun        bool
	Watch         bool
	Debounce      time.Duration
	NoLedger      bool
	ColorMode     string
}

const defaultDebounce = 200 * time.Millisecond

// NewOptions returns Options with defaults applied.
func NewOptions() *Options {
	return &Options{
		Debounce:  defaultDebounce,
		ColorMode: "auto",
	}
}

// AddFlags binds configuration flags to the provided Cobra command.
func (o *Options) AddFlags(cmd *cobra.Command) {
	o.BindFlags(cmd.Flags())
}

// BindFlags attaches the flags to fs and returns their names.
func (o *Options) BindFlags(fs *pflag.FlagSet) []string {
	var names []string
	fs.StringVarP(&o.Dir, "dir", "C", "", "Project root to synthesize into (defaults to the nearest parent holding .projkit.yaml, package.json or .git)")
	names = append(names, "dir")
	fs.StringVarP(&o.OptionsFile, "options", "f", "", "Project options file (defaults to <dir>/.projkit.yaml)")
	names = append(names, "options")
	fs.StringVar(&o.GlobalOptions, "global-options", "", "Per-user options file layered below the project file (defaults to ~/.projkit/options.yaml)")
	names = append(names, "global-options")
	fs.BoolVar(&o.NoGlobal, "no-global", false, "Ignore the per-user options file")
	names = append(names, "no-global")
	fs.BoolVar(&o.DryRun, "dry-run", false, "Render everything but write nothing")
	names = append(names, "dry-run")
	fs.BoolVarP(&o.Watch, "watch", "w", false, "Re-synthesize when the options file changes")
	names = append(names, "watch")
	fs.DurationVar(&o.Debounce, "debounce", defaultDebounce, "Quiet period before re-synthesizing in --watch mode")
	names = append(names, "debounce")
	fs.BoolVar(&o.NoLedger, "no-ledger", false, "Do not record generated files or remove stale ones")
	names = append(names, "no-ledger")
	fs.StringVarP(&o.ColorMode, "color", "m", "auto", "Colorize output: auto, always, never")
	names = append(names, "color")
	return names
}

// Validate normalizes paths and rejects incoherent combinations.
func (o *Options) Validate() error {
	if o.Dir = strings.TrimSpace(o.Dir); o.Dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolve working directory: %w", err)
		}
		o.Dir = cwd
		if root := appconfig.FindRepoRoot(cwd); root != "" {
			o.Dir = root
		}
	}
	o.Dir = filepath.Clean(o.Dir)
	if o.OptionsFile = strings.TrimSpace(o.OptionsFile); o.OptionsFile != "" && !filepath.IsAbs(o.OptionsFile) {
		o.OptionsFile = filepath.Join(o.Dir, o.OptionsFile)
	}
	o.GlobalOptions = strings.TrimSpace(o.GlobalOptions)
	if o.NoGlobal && o.GlobalOptions != "" {
		return fmt.Errorf("cannot combine --no-global with --global-options")
	}
	if o.Watch && o.DryRun {
		return fmt.Errorf("cannot combine --watch with --dry-run")
	}
	if o.Debounce < 0 {
		return fmt.Errorf("--debounce cannot be negative")
	}
	switch strings.ToLower(o.ColorMode) {
	case "", "auto":
		o.ColorMode = "auto"
	case "always":
		o.ColorMode = "always"
	case "never":
		o.ColorMode = "never"
	default:
		return fmt.Errorf("invalid --color value %q (allowed: auto, always, never)", o.ColorMode)
	}
	return nil
}
