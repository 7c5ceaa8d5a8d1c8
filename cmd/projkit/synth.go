// synth.go implements 'projkit synth', including dry runs, stale-file cleanup via the ledger and --watch.
package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/example/projkit/internal/config"
	"github.com/example/projkit/internal/filewriter"
	"github.com/example/projkit/internal/ledger"
	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
)

func newSynthCommand(state *rootState) *cobra.Command {
	opts := config.NewOptions()
	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Write every generated file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Validate(); err != nil {
				return err
			}
			log, err := state.logger(cmd)
			if err != nil {
				return err
			}
			applyColorMode(opts.ColorMode, cmd.OutOrStdout())
			if err := runSynth(cmd.Context(), opts, log, cmd.OutOrStdout()); err != nil {
				return err
			}
			if !opts.Watch {
				return nil
			}
			return watchAndSynth(cmd.Context(), opts, log, cmd.OutOrStdout())
		},
	}
	opts.AddFlags(cmd)
	return cmd
}

func runSynth(ctx context.Context, opts *config.Options, log logr.Logger, out io.Writer) error {
	p, err := loadProject(ctx, opts, log)
	if err != nil {
		return err
	}
	mem := &filewriter.Memory{Banner: p.Marker()}
	if opts.DryRun {
		if err := p.Synth(mem); err != nil {
			return err
		}
		for _, path := range mem.Paths() {
			fmt.Fprintf(out, "would write %s\n", path)
		}
		return nil
	}

	disk := &filewriter.Disk{Dir: opts.Dir, Banner: p.Marker()}
	if err := p.Synth(filewriter.Tee(mem, disk)); err != nil {
		return err
	}
	removed, err := pruneStale(ctx, opts, mem, disk, log)
	if err != nil {
		return err
	}
	ok := color.New(color.FgGreen)
	fmt.Fprintf(out, "%s %d files (%d changed, %d removed)\n",
		ok.Sprint("synthesized"), len(mem.Paths()), len(disk.Changed()), len(removed))
	return nil
}

// pruneStale records this run in the ledger and removes files an earlier run
// generated that this one did not.
func pruneStale(ctx context.Context, opts *config.Options, mem *filewriter.Memory, disk *filewriter.Disk, log logr.Logger) ([]string, error) {
	if opts.NoLedger {
		return nil, nil
	}
	l, err := ledger.Open(ctx, opts.Dir)
	if err != nil {
		return nil, err
	}
	defer l.Close()
	var files []ledger.File
	for _, path := range mem.Paths() {
		data, _ := mem.Get(path)
		files = append(files, ledger.File{Path: path, Digest: ledger.Digest(data)})
	}
	stale, err := l.Record(ctx, files)
	if err != nil {
		return nil, fmt.Errorf("record generated files: %w", err)
	}
	for _, path := range stale {
		log.Info("removing stale generated file", "path", path)
		if err := disk.Remove(path); err != nil {
			return nil, err
		}
	}
	return stale, nil
}

// watchAndSynth re-synthesizes whenever the repo options file changes.
// Synthesis errors are logged and watching continues.
func watchAndSynth(ctx context.Context, opts *config.Options, log logr.Logger, out io.Writer) error {
	_, repo := optionsPaths(opts)
	repo, err := filepath.Abs(repo)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	// Editors replace files on save, so the directory is watched rather than the file.
	if err := w.Add(filepath.Dir(repo)); err != nil {
		return err
	}
	log.Info("watching for changes", "file", repo)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != repo || event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(opts.Debounce)
			} else {
				timer.Reset(opts.Debounce)
			}
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Error(err, "watch error")
		case <-fire:
			fire = nil
			if err := runSynth(ctx, opts, log, out); err != nil {
				log.Error(err, "synthesis failed")
			}
		}
	}
}
