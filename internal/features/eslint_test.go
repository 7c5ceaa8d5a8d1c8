package features

import (
	"testing"

	"github.com/example/projkit/internal/tasks"
	"github.com/google/go-cmp/cmp"
)

func eslintOptions() EslintOptions {
	return EslintOptions{Srcdir: "src", Testdir: "test", RcFile: ".projenrc.js", Tsconfig: fixedName("tsconfig.dev.json")}
}

func TestEslint_TaskAndTestHook(t *testing.T) {
	reg := tasks.New()
	opts := eslintOptions()
	opts.Tasks = reg
	e, err := NewEslint(opts)
	if err != nil {
		t.Fatalf("NewEslint: %v", err)
	}
	task, ok := reg.Lookup(EslintTask)
	if !ok {
		t.Fatalf("eslint task missing")
	}
	want := []tasks.Step{{Exec: "eslint --ext .ts,.tsx --fix --no-error-on-unmatched-pattern $@ src test build-tools", ReceiveArgs: true}}
	if diff := cmp.Diff(want, task.Steps()); diff != "" {
		t.Fatalf("steps:\n%s", diff)
	}
	if e.Command() != want[0].Exec {
		t.Fatalf("command=%q", e.Command())
	}
	test, ok := reg.Lookup(TestTask)
	if !ok {
		t.Fatalf("test task missing")
	}
	steps := test.Steps()
	if len(steps) != 1 || steps[0].Spawn != EslintTask {
		t.Fatalf("test steps=%+v", steps)
	}
}

func TestEslint_ProjenrcTs(t *testing.T) {
	opts := eslintOptions()
	opts.ProjenrcTs = true
	opts.RcFile = ".projenrc.ts"
	opts.Tasks = tasks.New()
	e, err := NewEslint(opts)
	if err != nil {
		t.Fatal(err)
	}
	wantCmd := "eslint --ext .ts,.tsx --fix --no-error-on-unmatched-pattern $@ src test build-tools projenrc .projenrc.ts"
	if e.Command() != wantCmd {
		t.Fatalf("command=%q want=%q", e.Command(), wantCmd)
	}
	wantIgnore := []string{"*.js", "!.projenrc.ts", "!projenrc/**/*.ts", "*.d.ts", "node_modules/", "*.generated.ts", "coverage"}
	if diff := cmp.Diff(wantIgnore, e.IgnorePatterns()); diff != "" {
		t.Fatalf("ignorePatterns:\n%s", diff)
	}
	devDeps, ok := e.Document().Get("rules.import/no-extraneous-dependencies")
	if !ok {
		t.Fatalf("rule missing")
	}
	rule := devDeps.([]any)[1].(map[string]any)
	want := []any{"**/test/**", "**/build-tools/**", ".projenrc.ts", "projenrc/**/*.ts"}
	if diff := cmp.Diff(want, rule["devDependencies"]); diff != "" {
		t.Fatalf("devDependencies:\n%s", diff)
	}
}

func TestEslint_ParserProjectAndIgnorePath(t *testing.T) {
	e, err := NewEslint(eslintOptions())
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := e.Document().Get("parserOptions.project"); got != "./tsconfig.dev.json" {
		t.Fatalf("project=%v", got)
	}
	if err := e.IgnorePath("jest.config.json"); err != nil {
		t.Fatal(err)
	}
	if err := e.IgnorePath("jest.config.json"); err != nil {
		t.Fatal(err)
	}
	patterns := e.IgnorePatterns()
	if patterns[len(patterns)-1] != "jest.config.json" || patterns[len(patterns)-2] == "jest.config.json" {
		t.Fatalf("ignorePatterns=%v", patterns)
	}
}

func TestEslint_DuplicateTask(t *testing.T) {
	reg := tasks.New()
	if _, err := reg.Add(EslintTask, tasks.Options{}); err != nil {
		t.Fatal(err)
	}
	opts := eslintOptions()
	opts.Tasks = reg
	if _, err := NewEslint(opts); err == nil {
		t.Fatalf("expected duplicate task error")
	}
}
