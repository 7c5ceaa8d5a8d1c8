// load.go resolves the options files for a command and constructs the project from them.
package main

import (
	"context"

	"github.com/example/projkit/internal/appconfig"
	"github.com/example/projkit/internal/config"
	"github.com/example/projkit/internal/featureflags"
	"github.com/example/projkit/internal/logging"
	"github.com/example/projkit/internal/project"
	"github.com/go-logr/logr"
)

// optionsPaths returns the global and repo options files selected by opts.
func optionsPaths(opts *config.Options) (global, repo string) {
	if !opts.NoGlobal {
		global = opts.GlobalOptions
		if global == "" {
			global = appconfig.DefaultGlobalPath()
		}
	}
	repo = opts.OptionsFile
	if repo == "" {
		repo = appconfig.DefaultRepoPath(opts.Dir)
	}
	return global, repo
}

func loadProject(ctx context.Context, opts *config.Options, log logr.Logger) (*project.Project, error) {
	global, repo := optionsPaths(opts)
	log.V(1).Info("loading project options", "global", global, "repo", repo)
	cfg, err := appconfig.Load(ctx, global, repo)
	if err != nil {
		return nil, err
	}
	popts := cfg.ProjectOptions()
	popts.TasksYAML = featureflags.FromContext(ctx).Enabled(featureflags.FeatureTasksYAML)
	return project.New(popts, project.Deps{Log: logging.NewWarner(log)})
}
