// explain.go implements 'projkit explain', showing a merged document and which layer set each top-level key.
package main

import (
	"fmt"
	"strings"

	"github.com/example/projkit/internal/config"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

func newExplainCommand(state *rootState) *cobra.Command {
	opts := config.NewOptions()
	var key string
	cmd := &cobra.Command{
		Use:   "explain [FILE]",
		Short: "Show a generated document and which layers set its keys",
		Args:  cobra.MaximumNArgs(1),
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
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				artifacts, err := p.Artifacts()
				if err != nil {
					return err
				}
				for _, a := range artifacts {
					fmt.Fprintln(out, a.Path)
				}
				return nil
			}
			doc, ok := p.Document(args[0])
			if !ok {
				return fmt.Errorf("%s is not a merged document of this project", args[0])
			}
			var value any = doc.Render()
			if key != "" {
				if value, ok = doc.Get(key); !ok {
					return fmt.Errorf("%s has no key %q", args[0], key)
				}
			}
			raw, err := yaml.Marshal(value)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s", raw)
			fmt.Fprintln(out, "---")
			for _, k := range doc.Value().Keys() {
				if key != "" && strings.SplitN(key, ".", 2)[0] != k {
					continue
				}
				fmt.Fprintf(out, "# %s: %s\n", k, strings.Join(doc.Provenance(k), ", "))
			}
			return nil
		},
	}
	opts.AddFlags(cmd)
	hideFlags(cmd.Flags(), "dry-run", "watch", "debounce", "no-ledger", "color")
	cmd.Flags().StringVarP(&key, "key", "k", "", "Dotted path of a single value to show")
	return cmd
}
