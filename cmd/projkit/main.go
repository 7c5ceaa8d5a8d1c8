// main.go bootstraps projkit: it builds the root Cobra command and executes it with a signal-aware context.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/example/projkit/internal/document"
	"github.com/example/projkit/internal/featureflags"
	"github.com/example/projkit/internal/features"
	"github.com/example/projkit/internal/logging"
	"github.com/example/projkit/internal/project"
	"github.com/example/projkit/internal/tasks"
	"github.com/go-logr/logr"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rootCmd := newRootCommand()
	err := rootCmd.ExecuteContext(ctx)
	handleError(os.Stderr, err)
	if err != nil {
		os.Exit(1)
	}
}

// rootState is shared by every subcommand.
type rootState struct {
	logLevel string
	features []string
}

func (s *rootState) logger(cmd *cobra.Command) (logr.Logger, error) {
	return logging.New(s.logLevel, cmd.ErrOrStderr())
}

func newRootCommand() *cobra.Command {
	state := &rootState{logLevel: "info"}
	cmd := &cobra.Command{
		Use:           "projkit",
		Short:         "Synthesize TypeScript project configuration from a single options file",
		Long:          "projkit merges defaults and overrides into tsconfig, jest and eslint configs, assembles the task manifest and writes the generated files.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			flags, err := featureflags.Resolve(featureflags.EnabledFromEnv(nil), state.features)
			if err != nil {
				return err
			}
			ctx := featureflags.ContextWithFlags(cmd.Context(), flags)
			cmd.Root().SetContext(ctx)
			cmd.SetContext(ctx)
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&state.logLevel, "log-level", state.logLevel, "Log level for projkit output (debug, info, warn, error)")
	cmd.PersistentFlags().StringSliceVar(&state.features, "feature", nil, "Enable experimental projkit features (repeat or pass comma-separated names)")

	synthCmd := newSynthCommand(state)
	diffCmd := newDiffCommand(state)
	tasksCmd := newTasksCommand(state)
	explainCmd := newExplainCommand(state)
	cmd.AddCommand(synthCmd, diffCmd, tasksCmd, explainCmd, newVersionCommand())
	cmd.Example = `  # Write every generated file below the current directory
  projkit synth

  # Preview pending changes without touching the tree
  projkit diff

  # Show which layer set each top-level key of tsconfig.json
  projkit explain tsconfig.json`
	bindViper(cmd, synthCmd, diffCmd, tasksCmd, explainCmd)
	return cmd
}

func bindViper(commands ...*cobra.Command) {
	if len(commands) == 0 {
		return
	}
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.SetEnvPrefix("PROJKIT")
	v.AutomaticEnv()
	configFile := os.Getenv("PROJKIT_CONFIG")
	configureConfigFile(v, configFile)

	cobra.OnInitialize(func() {
		for _, cmd := range commands {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				cobra.CheckErr(err)
			}
			if err := v.BindPFlags(cmd.PersistentFlags()); err != nil {
				cobra.CheckErr(err)
			}
		}
		if err := readConfigFile(v, configFile != ""); err != nil {
			cobra.CheckErr(err)
		}
		for _, cmd := range commands {
			flagSets := []*pflag.FlagSet{cmd.Flags(), cmd.PersistentFlags()}
			for _, fs := range flagSets {
				fs.VisitAll(func(f *pflag.Flag) {
					if f.Changed {
						return
					}
					if !v.IsSet(f.Name) {
						return
					}
					val := fmt.Sprintf("%v", v.Get(f.Name))
					if f.Value.Type() == "stringSlice" {
						val = strings.Join(v.GetStringSlice(f.Name), ",")
					}
					if val != "" {
						_ = f.Value.Set(val)
					}
				})
			}
		}
	})
}

func configureConfigFile(v *viper.Viper, explicitPath string) {
	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
		return
	}
	v.SetConfigName("config")
	for _, dir := range configSearchDirs() {
		v.AddConfigPath(dir)
	}
}

func readConfigFile(v *viper.Viper, strict bool) error {
	if err := v.ReadInConfig(); err != nil {
		var cfgErr viper.ConfigFileNotFoundError
		if errors.As(err, &cfgErr) && !strict {
			return nil
		}
		return err
	}
	return nil
}

func configSearchDirs() []string {
	added := make(map[string]struct{})
	var dirs []string
	add := func(path string) {
		if path == "" {
			return
		}
		if _, ok := added[path]; ok {
			return
		}
		added[path] = struct{}{}
		dirs = append(dirs, path)
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		add(filepath.Join(xdg, "projkit"))
	}
	if home, err := homedir.Dir(); err == nil && home != "" {
		add(filepath.Join(home, ".config", "projkit"))
		add(filepath.Join(home, ".projkit"))
	}
	return dirs
}

func hideFlags(fs *pflag.FlagSet, names ...string) {
	if fs == nil {
		return
	}
	for _, name := range names {
		_ = fs.MarkHidden(name)
	}
}

func handleError(w io.Writer, err error) {
	if err == nil || errors.Is(err, pflag.ErrHelp) {
		return
	}
	fmt.Fprintf(w, "Error: %s\n", formatError(err))
}

func formatError(err error) string {
	message := err.Error()
	switch {
	case errors.Is(err, features.ErrConflict):
		message = fmt.Sprintf("%s\nHint: remove one of the two options from the project options file.", err)
	case errors.Is(err, document.ErrSchemaMismatch):
		message = fmt.Sprintf("%s\nHint: an override changed the type of an existing field; use a value of the same kind (list, object or scalar).", err)
	case errors.Is(err, tasks.ErrCycle):
		message = fmt.Sprintf("%s\nHint: tasks spawn each other in a loop; run 'projkit tasks' to inspect the steps.", err)
	case errors.Is(err, tasks.ErrUnresolvedTask):
		message = fmt.Sprintf("%s\nHint: a spawn step names a task that was never defined.", err)
	case errors.Is(err, project.ErrInvalidOptions):
		message = fmt.Sprintf("%s\nHint: set it in .projkit.yaml or ~/.projkit/options.yaml.", err)
	}
	return message
}
