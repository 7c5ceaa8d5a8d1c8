// File: internal/project/project.go
// Brief: Project assembly: construction, finalization and synthesis.

package project

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/example/projkit/internal/document"
	"github.com/example/projkit/internal/features"
	"github.com/example/projkit/internal/logging"
	"github.com/example/projkit/internal/tasks"
)

// ErrDuplicateArtifact is returned when two features synthesize the same path.
var ErrDuplicateArtifact = errors.New("duplicate artifact path")

// TasksYAMLFile is the optional YAML rendering of the task manifest.
const TasksYAMLFile = ".projen/tasks.yaml"

// Writer persists synthesized artifacts. content is a rendered document
// (map[string]any), a line list ([]string) or a *tasks.Manifest.
type Writer interface {
	Write(path string, content any, marker bool) error
}

// Deps are the collaborators of a project.
type Deps struct {
	Log logging.Warner
}

// Artifact is one synthesized file.
type Artifact struct {
	Path    string
	Content any
	Marker  bool
}

// Project is a TypeScript project under assembly.
type Project struct {
	opts  Options
	log   logging.Warner
	state State

	tasks     *tasks.Registry
	ts        *features.TypeScript
	jest      *features.Jest
	eslint    *features.Eslint
	gitignore *features.IgnoreFile
	npmignore *features.IgnoreFile
}

// New constructs every feature in order: compiler configs, test runner,
// linter, ignore files, then the release tasks. Any error leaves no project.
func New(opts Options, deps Deps) (*Project, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if deps.Log == nil {
		deps.Log = logging.Discard
	}
	p := &Project{opts: opts, log: deps.Log, tasks: tasks.New()}

	ts, err := features.NewTypeScript(features.TypeScriptOptions{
		Srcdir:             opts.Srcdir,
		Testdir:            opts.Testdir,
		Libdir:             opts.Libdir,
		RcFile:             opts.RcFile(),
		ProjenrcTs:         opts.ProjenrcTs,
		DisableTsconfig:    opts.DisableTsconfig,
		DisableTsconfigDev: opts.DisableTsconfigDev,
		Tsconfig:           opts.Tsconfig,
		TsconfigDev:        opts.TsconfigDev,
		TsconfigDevFile:    opts.TsconfigDevFile,
	})
	if err != nil {
		return nil, err
	}
	p.ts = ts

	if err := p.registerLifecycle(); err != nil {
		return nil, err
	}
	if err := p.registerCompile(); err != nil {
		return nil, err
	}

	if opts.jestEnabled() {
		p.jest, err = features.NewJest(features.JestOptions{
			JestVersion: opts.JestOptions.JestVersion,
			Config:      opts.JestOptions.JestConfig,
			ConfigFile:  opts.JestOptions.ConfigFilePath,
			TsJest:      opts.TsJestOptions,
			Srcdir:      opts.Srcdir,
			Testdir:     opts.Testdir,
			Tsconfig:    ts.Dev(),
			Tasks:       p.tasks,
			Log:         p.log,
		})
		if err != nil {
			return nil, err
		}
	} else if opts.TsJestOptions != nil {
		p.log.Warn("tsJestOptions has no effect when jest is disabled")
	}

	if opts.eslintEnabled() {
		p.eslint, err = features.NewEslint(features.EslintOptions{
			Srcdir:     opts.Srcdir,
			Testdir:    opts.Testdir,
			ProjenrcTs: opts.ProjenrcTs,
			RcFile:     opts.RcFile(),
			Tsconfig:   ts.Dev(),
			Override:   opts.EslintOverride,
			Tasks:      p.tasks,
		})
		if err != nil {
			return nil, err
		}
	}

	if p.gitignore, err = features.NewIgnoreFile(features.GitIgnoreFile, gitignoreDefaults(opts)...); err != nil {
		return nil, err
	}
	if p.npmignore, err = features.NewIgnoreFile(features.NpmIgnoreFile, npmignoreDefaults(opts)...); err != nil {
		return nil, err
	}

	if err := p.registerRelease(); err != nil {
		return nil, err
	}
	p.state = StateFeaturesConstructed
	return p, nil
}

// Finalize performs cross-feature wiring. It runs once, after construction.
func (p *Project) Finalize() error {
	if p.state != StateFeaturesConstructed {
		return &StateError{Op: "finalize", State: p.state}
	}
	if p.eslint != nil && p.jest != nil {
		if err := p.eslint.IgnorePath(p.jest.FileName()); err != nil {
			return err
		}
	}
	var committed, unpublished []string
	for _, path := range p.paths() {
		if path != features.GitIgnoreFile {
			committed = append(committed, "!/"+path)
		}
		if !strings.HasPrefix(path, ".projen/") {
			unpublished = append(unpublished, "/"+path)
		}
	}
	if err := p.gitignore.Add(committed...); err != nil {
		return err
	}
	if err := p.npmignore.Add(unpublished...); err != nil {
		return err
	}
	p.state = StateTasksFinalized
	return nil
}

// paths lists the artifact paths in synthesis order without rendering them.
func (p *Project) paths() []string {
	var out []string
	for _, c := range p.ts.Configs() {
		out = append(out, c.FileName())
	}
	if p.jest != nil {
		out = append(out, p.jest.FileName())
	}
	if p.eslint != nil {
		out = append(out, p.eslint.FileName())
	}
	out = append(out, p.gitignore.FileName(), p.npmignore.FileName(), tasks.ManifestFile)
	if p.opts.TasksYAML {
		out = append(out, TasksYAMLFile)
	}
	return out
}

// Artifacts renders every document and serializes the task registry.
// Nothing is frozen or written.
func (p *Project) Artifacts() ([]Artifact, error) {
	if p.state != StateTasksFinalized {
		return nil, &StateError{Op: "artifacts", State: p.state}
	}
	var out []Artifact
	for _, c := range p.ts.Configs() {
		out = append(out, Artifact{Path: c.FileName(), Content: c.Render(), Marker: true})
	}
	if p.jest != nil {
		out = append(out, Artifact{Path: p.jest.FileName(), Content: p.jest.Render(), Marker: true})
	}
	if p.eslint != nil {
		out = append(out, Artifact{Path: p.eslint.FileName(), Content: p.eslint.Render(), Marker: true})
	}
	out = append(out,
		Artifact{Path: p.gitignore.FileName(), Content: p.gitignore.Patterns(), Marker: true},
		Artifact{Path: p.npmignore.FileName(), Content: p.npmignore.Patterns(), Marker: true},
	)
	manifest, err := p.tasks.Serialize()
	if err != nil {
		return nil, err
	}
	out = append(out, Artifact{Path: tasks.ManifestFile, Content: manifest, Marker: true})
	if p.opts.TasksYAML {
		out = append(out, Artifact{Path: TasksYAMLFile, Content: manifest, Marker: true})
	}

	seen := make(map[string]struct{}, len(out))
	for _, a := range out {
		if _, ok := seen[a.Path]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateArtifact, a.Path)
		}
		seen[a.Path] = struct{}{}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// Synth finalizes when needed, renders everything and hands the artifacts to
// w. If rendering or serialization fails w receives nothing.
func (p *Project) Synth(w Writer) error {
	if w == nil {
		return fmt.Errorf("synth: writer is required")
	}
	switch p.state {
	case StateFeaturesConstructed:
		if err := p.Finalize(); err != nil {
			return err
		}
	case StateTasksFinalized:
	default:
		return &StateError{Op: "synth", State: p.state}
	}
	artifacts, err := p.Artifacts()
	if err != nil {
		return err
	}
	p.freeze()
	p.state = StateSynthesized
	for _, a := range artifacts {
		if err := w.Write(a.Path, a.Content, a.Marker); err != nil {
			return fmt.Errorf("write %s: %w", a.Path, err)
		}
	}
	return nil
}

// freeze rejects later mutation with both the owner's ErrFrozen and ErrState.
func (p *Project) freeze() {
	cause := &StateError{Op: "modify", State: StateSynthesized}
	for _, d := range p.documents() {
		d.FreezeWith(cause)
	}
	p.tasks.FreezeWith(cause)
}

func (p *Project) documents() map[string]*document.Document {
	out := map[string]*document.Document{}
	for _, c := range p.ts.Configs() {
		out[c.FileName()] = c.Document()
	}
	if p.jest != nil {
		out[p.jest.FileName()] = p.jest.Document()
	}
	if p.eslint != nil {
		out[p.eslint.FileName()] = p.eslint.Document()
	}
	out[p.gitignore.FileName()] = p.gitignore.Document()
	out[p.npmignore.FileName()] = p.npmignore.Document()
	return out
}

// Document returns the merged document synthesized to path.
func (p *Project) Document(path string) (*document.Document, bool) {
	d, ok := p.documents()[path]
	return d, ok
}

// Marker is the banner stamped on every generated file.
func (p *Project) Marker() string {
	return fmt.Sprintf("~~ Generated by projkit. To modify, edit %s and run \"npx projkit\".", p.opts.RcFile())
}

func (p *Project) Options() Options { return p.opts }
func (p *Project) State() State     { return p.state }

// Tsconfig returns the main compiler config, or nil when disabled.
func (p *Project) Tsconfig() *features.TypeScriptConfig { return p.ts.Main() }

// TsconfigDev returns the dev compiler config; the main config when the dev file is disabled.
func (p *Project) TsconfigDev() *features.TypeScriptConfig { return p.ts.Dev() }

func (p *Project) Jest() *features.Jest            { return p.jest }
func (p *Project) Eslint() *features.Eslint        { return p.eslint }
func (p *Project) GitIgnore() *features.IgnoreFile { return p.gitignore }
func (p *Project) NpmIgnore() *features.IgnoreFile { return p.npmignore }
func (p *Project) Tasks() *tasks.Registry          { return p.tasks }
func (p *Project) CompileTask() *tasks.Task        { return p.task(TaskCompile) }
func (p *Project) WatchTask() *tasks.Task          { return p.task(TaskWatch) }
func (p *Project) TestTask() *tasks.Task           { return p.task(TaskTest) }

func (p *Project) task(name string) *tasks.Task {
	t, _ := p.tasks.Lookup(name)
	return t
}

func gitignoreDefaults(opts Options) []string {
	out := []string{
		"*.log",
		"node_modules/",
		"/coverage/",
		"/test-reports/",
		"junit.xml",
		"/dist/",
		"tsconfig.tsbuildinfo",
		"/.projkit/",
	}
	if opts.Srcdir != opts.Libdir {
		out = append(out, "/"+opts.Libdir)
	}
	return out
}

func npmignoreDefaults(opts Options) []string {
	out := []string{"/.projen/", "/" + opts.Testdir + "/"}
	if opts.Srcdir != opts.Libdir {
		out = append(out, "/"+opts.Srcdir+"/")
	}
	return append(out,
		"!/"+opts.Libdir+"/",
		"!/"+opts.Libdir+"/**/*.js",
		"!/"+opts.Libdir+"/**/*.d.ts",
		"dist",
		"/coverage/",
		"/test-reports/",
		"junit.xml",
		"tsconfig.tsbuildinfo",
	)
}
