// tasks.go implements 'projkit tasks', listing the finalized task manifest as text or JSON.
package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/example/projkit/internal/config"
	"github.com/example/projkit/internal/tasks"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newTasksCommand(state *rootState) *cobra.Command {
	opts := config.NewOptions()
	var asJSON, argv bool
	cmd := &cobra.Command{
		Use:   "tasks [NAME...]",
		Short: "List the tasks of the project manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Validate(); err != nil {
				return err
			}
			log, err := state.logger(cmd)
			if err != nil {
				return err
			}
			p, err := loadProject(cmd.Context(), opts, log)
			if err != nil {
				return err
			}
			if err := p.Finalize(); err != nil {
				return err
			}
			manifest, err := p.Tasks().Serialize()
			if err != nil {
				return err
			}
			names := manifest.Names()
			if len(args) > 0 {
				for _, name := range args {
					if _, ok := manifest.Tasks[name]; !ok {
						return fmt.Errorf("%w: %q", tasks.ErrUnknownTask, name)
					}
				}
				names = args
			}
			out := cmd.OutOrStdout()
			if asJSON {
				subset := &tasks.Manifest{Tasks: map[string]tasks.TaskSpec{}}
				for _, name := range names {
					subset.Tasks[name] = manifest.Tasks[name]
				}
				raw, err := subset.MarshalIndent()
				if err != nil {
					return err
				}
				_, err = out.Write(raw)
				return err
			}
			applyColorMode(opts.ColorMode, out)
			bold := color.New(color.Bold)
			faint := color.New(color.Faint)
			for _, name := range names {
				spec := manifest.Tasks[name]
				bold.Fprint(out, name)
				if spec.Description != "" {
					fmt.Fprintf(out, "  %s", faint.Sprint(spec.Description))
				}
				fmt.Fprintln(out)
				for _, step := range spec.Steps {
					line, err := describeStep(step, argv)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "  %s\n", line)
				}
			}
			return nil
		},
	}
	opts.AddFlags(cmd)
	hideFlags(cmd.Flags(), "dry-run", "watch", "debounce", "no-ledger")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the manifest entries as JSON")
	cmd.Flags().BoolVar(&argv, "argv", false, "Show exec steps as the argument vector a runner would execute")
	return cmd
}

func describeStep(step tasks.Step, argv bool) (string, error) {
	if step.IsSpawn() {
		line := "spawn " + step.Spawn
		if len(step.Args) > 0 {
			line += " " + strings.Join(step.Args, " ")
		}
		return line, nil
	}
	if !argv {
		return "exec " + step.Exec, nil
	}
	args, err := tasks.Argv(step.Exec)
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return "", err
	}
	return "exec " + string(raw), nil
}
