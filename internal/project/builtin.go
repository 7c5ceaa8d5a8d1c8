// File: internal/project/builtin.go
// Brief: Built-in project tasks.

package project

import (
	"sort"
	"strings"

	"github.com/example/projkit/internal/features"
	"github.com/example/projkit/internal/tasks"
)

const (
	TaskDefault     = "default"
	TaskPreCompile  = "pre-compile"
	TaskCompile     = "compile"
	TaskPostCompile = "post-compile"
	TaskWatch       = "watch"
	TaskTest        = features.TestTask
	TaskPackage     = "package"
	TaskBuild       = "build"
	TaskUpgrade     = "upgrade"
	TaskPostUpgrade = "post-upgrade"
)

// buildPhases are spawned by the build task, in order.
var buildPhases = []string{TaskDefault, TaskPreCompile, TaskCompile, TaskPostCompile, TaskTest, TaskPackage}

// registerLifecycle creates the tasks every project carries before features add steps.
func (p *Project) registerLifecycle() error {
	reg := p.tasks
	_, err := reg.Add(TaskDefault, tasks.Options{
		Description: "Synthesize project files",
		Steps:       []tasks.Step{tasks.ExecStep(p.defaultCommand())},
	})
	if err != nil {
		return err
	}
	for _, t := range []struct{ name, desc string }{
		{TaskPreCompile, "Prepare the project for compilation"},
		{TaskCompile, "Only compile"},
		{TaskPostCompile, "Runs after successful compilation"},
		{TaskTest, "Run tests"},
	} {
		if _, err := reg.Add(t.name, tasks.Options{Description: t.desc}); err != nil {
			return err
		}
	}
	_, err = reg.Add(TaskPackage, tasks.Options{
		Description: "Creates the distribution package",
		Steps: []tasks.Step{
			tasks.ExecStep("mkdir -p dist/js"),
			tasks.ExecStep("mv $(npm pack) dist/js/"),
		},
	})
	return err
}

// registerCompile adds the tsc steps once the compiler configs exist.
func (p *Project) registerCompile() error {
	compile, _ := p.tasks.Lookup(TaskCompile)
	watch, err := p.tasks.Add(TaskWatch, tasks.Options{Description: "Watch & compile in the background"})
	if err != nil {
		return err
	}
	main := p.ts.Main()
	if main == nil {
		return nil
	}
	target := ""
	if main.FileName() != features.DefaultTsconfigFile {
		target = " " + main.FileName()
	}
	if err := compile.AddStep(tasks.ExecStep("tsc --build" + target)); err != nil {
		return err
	}
	return watch.AddStep(tasks.ExecStep("tsc --build -w" + target))
}

// registerRelease adds build and the upgrade pair. It runs last so build can
// spawn phases features contributed to.
func (p *Project) registerRelease() error {
	build, err := p.tasks.Add(TaskBuild, tasks.Options{Description: "Full release build"})
	if err != nil {
		return err
	}
	for _, phase := range buildPhases {
		if err := build.AddStep(tasks.SpawnStep(phase)); err != nil {
			return err
		}
	}
	if _, err := p.tasks.Add(TaskPostUpgrade, tasks.Options{Description: "Runs after upgrading dependencies"}); err != nil {
		return err
	}
	devDeps, deps := p.dependencies()
	all := append(append([]Dependency(nil), devDeps...), deps...)
	var filter, names []string
	for _, d := range all {
		names = append(names, d.Name)
		if !d.Ranged() {
			filter = append(filter, d.Name)
		}
	}
	sort.Strings(filter)
	filter = compactStrings(filter)

	steps := []tasks.Step{
		tasks.ExecStep("npx npm-check-updates@16 --upgrade --target=minor --peer --dep=dev,peer,prod,optional --filter=" + strings.Join(filter, ",")),
		tasks.ExecStep("yarn install --check-files"),
		tasks.ExecStep("yarn upgrade " + strings.Join(compactStrings(names), " ")),
		tasks.ExecStep("npx projkit"),
		tasks.SpawnStep(TaskPostUpgrade),
	}
	_, err = p.tasks.Add(TaskUpgrade, tasks.Options{
		Description: "upgrade dependencies",
		Env:         map[string]string{"CI": "0"},
		Steps:       steps,
	})
	return err
}

func (p *Project) defaultCommand() string {
	if p.opts.ProjenrcTs {
		return "ts-node --project " + p.ts.Dev().FileName() + " " + RcFileTS
	}
	return "node " + RcFileJS
}

func compactStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
