// diff.go implements 'projkit diff', printing unified diffs of pending artifacts against the project tree.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/projkit/internal/config"
	"github.com/example/projkit/internal/filewriter"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newDiffCommand(state *rootState) *cobra.Command {
	opts := config.NewOptions()
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Show the changes synth would make",
		Args:  cobra.NoArgs,
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
			mem := &filewriter.Memory{Banner: p.Marker()}
			if err := p.Synth(mem); err != nil {
				return err
			}
			diffs, err := filewriter.Diff(opts.Dir, mem)
			if err != nil {
				return err
			}
			applyColorMode(opts.ColorMode, cmd.OutOrStdout())
			printDiffs(cmd.OutOrStdout(), diffs)
			return nil
		},
	}
	opts.AddFlags(cmd)
	hideFlags(cmd.Flags(), "dry-run", "watch", "debounce", "no-ledger")
	return cmd
}

func printDiffs(out io.Writer, diffs []filewriter.FileDiff) {
	added := color.New(color.FgGreen)
	removed := color.New(color.FgRed)
	hunk := color.New(color.FgCyan)
	header := color.New(color.Bold)
	pending := 0
	for _, d := range diffs {
		if d.Change == filewriter.ChangeUnchanged {
			continue
		}
		pending++
		header.Fprintf(out, "%s (%s)\n", d.Path, d.Change)
		for _, line := range strings.SplitAfter(d.Unified, "\n") {
			switch {
			case line == "":
			case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
				header.Fprint(out, line)
			case strings.HasPrefix(line, "+"):
				added.Fprint(out, line)
			case strings.HasPrefix(line, "-"):
				removed.Fprint(out, line)
			case strings.HasPrefix(line, "@@"):
				hunk.Fprint(out, line)
			default:
				fmt.Fprint(out, line)
			}
		}
	}
	if pending == 0 {
		fmt.Fprintln(out, "No changes.")
	}
}

// applyColorMode resolves auto against whether out is a terminal.
func applyColorMode(mode string, out io.Writer) {
	switch mode {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	default:
		f, ok := out.(*os.File)
		color.NoColor = !ok || !term.IsTerminal(int(f.Fd()))
	}
}
