package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/projkit/internal/featureflags"
	"github.com/example/projkit/internal/features"
	"github.com/example/projkit/internal/tasks"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PROJKIT_CONFIG", "")
	root := newRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func newProjectDir(t *testing.T, options string) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".projkit.yaml"), options)
	return dir
}

const baseOptions = `
name: demo
defaultReleaseBranch: main
tsconfig:
  include: [extra.ts]
`

func TestSynthWritesArtifacts(t *testing.T) {
	dir := newProjectDir(t, baseOptions)
	out, err := runCLI(t, "synth", "-C", dir, "--no-global")
	if err != nil {
		t.Fatalf("synth: %v", err)
	}
	if !strings.Contains(out, "synthesized 7 files") {
		t.Fatalf("output=%q", out)
	}
	raw, err := os.ReadFile(filepath.Join(dir, "tsconfig.json"))
	if err != nil {
		t.Fatal(err)
	}
	text := string(raw)
	if !strings.Contains(text, `"//": "~~ Generated by projkit.`) || !strings.Contains(text, `"extra.ts"`) {
		t.Fatalf("tsconfig.json:\n%s", text)
	}
	raw, err = os.ReadFile(filepath.Join(dir, tasks.ManifestFile))
	if err != nil {
		t.Fatal(err)
	}
	m, err := tasks.ParseManifest(raw)
	if err != nil {
		t.Fatal(err)
	}
	if m.Tasks["compile"].Steps[0].Exec != "tsc --build" {
		t.Fatalf("compile=%+v", m.Tasks["compile"])
	}
	if _, err := os.Stat(filepath.Join(dir, ".projen", "tasks.yaml")); !os.IsNotExist(err) {
		t.Fatalf("tasks.yaml written without the feature: %v", err)
	}
}

func TestSynthRemovesStaleFiles(t *testing.T) {
	dir := newProjectDir(t, baseOptions)
	if _, err := runCLI(t, "synth", "-C", dir, "--no-global"); err != nil {
		t.Fatal(err)
	}
	jestFile := filepath.Join(dir, "jest.config.json")
	if _, err := os.Stat(jestFile); err != nil {
		t.Fatalf("jest config missing: %v", err)
	}
	writeFile(t, filepath.Join(dir, ".projkit.yaml"), baseOptions+"jest: false\n")
	out, err := runCLI(t, "synth", "-C", dir, "--no-global")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "1 removed") {
		t.Fatalf("output=%q", out)
	}
	if _, err := os.Stat(jestFile); !os.IsNotExist(err) {
		t.Fatalf("stale jest config kept: %v", err)
	}
}

func TestSynthDryRunWritesNothing(t *testing.T) {
	dir := newProjectDir(t, baseOptions)
	out, err := runCLI(t, "synth", "-C", dir, "--no-global", "--dry-run")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "would write tsconfig.json") {
		t.Fatalf("output=%q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "tsconfig.json")); !os.IsNotExist(err) {
		t.Fatalf("dry run wrote files: %v", err)
	}
}

func TestSynthTasksYAMLFeature(t *testing.T) {
	dir := newProjectDir(t, baseOptions)
	if _, err := runCLI(t, "synth", "-C", dir, "--no-global", "--feature", "tasks-yaml"); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(filepath.Join(dir, ".projen", "tasks.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(raw), "# ~~ Generated by projkit.") {
		t.Fatalf("tasks.yaml:\n%s", raw)
	}
}

func TestSynthConflictFails(t *testing.T) {
	dir := newProjectDir(t, baseOptions+"disableTsconfig: true\ndisableTsconfigDev: true\n")
	_, err := runCLI(t, "synth", "-C", dir, "--no-global")
	if !errors.Is(err, features.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "tsconfig.json")); !os.IsNotExist(statErr) {
		t.Fatalf("files written despite the error")
	}
	if msg := formatError(err); !strings.Contains(msg, "Hint: remove one of the two options") {
		t.Fatalf("message=%q", msg)
	}
}

func TestDiff(t *testing.T) {
	dir := newProjectDir(t, baseOptions)
	out, err := runCLI(t, "diff", "-C", dir, "--no-global")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "tsconfig.json (added)") || !strings.Contains(out, `+  "include": [`) {
		t.Fatalf("diff output:\n%s", out)
	}
	if _, err := runCLI(t, "synth", "-C", dir, "--no-global"); err != nil {
		t.Fatal(err)
	}
	out, err = runCLI(t, "diff", "-C", dir, "--no-global")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "No changes." {
		t.Fatalf("diff after synth:\n%s", out)
	}
}

func TestTasksCommand(t *testing.T) {
	dir := newProjectDir(t, baseOptions)
	out, err := runCLI(t, "tasks", "-C", dir, "--no-global", "--argv", "compile", "build")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"compile  Only compile", `exec ["tsc","--build"]`, "spawn post-compile"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if _, err := runCLI(t, "tasks", "-C", dir, "--no-global", "nope"); !errors.Is(err, tasks.ErrUnknownTask) {
		t.Fatalf("expected ErrUnknownTask, got %v", err)
	}
	out, err = runCLI(t, "tasks", "-C", dir, "--no-global", "--json", "test")
	if err != nil {
		t.Fatal(err)
	}
	m, err := tasks.ParseManifest([]byte(out))
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Tasks) != 1 || len(m.Tasks["test"].Steps) != 2 {
		t.Fatalf("manifest=%+v", m)
	}
}

func TestExplainCommand(t *testing.T) {
	dir := newProjectDir(t, baseOptions)
	out, err := runCLI(t, "explain", "-C", dir, "--no-global", "tsconfig.json", "--key", "include")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"- src/**/*.ts", "- extra.ts", "# include: defaults, overrides"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	out, err = runCLI(t, "explain", "-C", dir, "--no-global")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, ".eslintrc.json\n") || !strings.Contains(out, tasks.ManifestFile) {
		t.Fatalf("artifact list:\n%s", out)
	}
	if _, err := runCLI(t, "explain", "-C", dir, "--no-global", "missing.json"); err == nil {
		t.Fatalf("expected error for unknown document")
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "projkit ") {
		t.Fatalf("output=%q", out)
	}
}

func TestEnvConfiguresRootFlags(t *testing.T) {
	dir := newProjectDir(t, baseOptions)
	t.Setenv("PROJKIT_LOG_LEVEL", "loud")
	if _, err := runCLI(t, "tasks", "-C", dir, "--no-global"); err == nil || !strings.Contains(err.Error(), "unknown log level") {
		t.Fatalf("expected PROJKIT_LOG_LEVEL to reach --log-level, got %v", err)
	}
	t.Setenv("PROJKIT_LOG_LEVEL", "")
	t.Setenv("PROJKIT_FEATURE", "not-a-feature")
	if _, err := runCLI(t, "tasks", "-C", dir, "--no-global"); !errors.Is(err, featureflags.ErrUnknownFeature) {
		t.Fatalf("expected PROJKIT_FEATURE to reach --feature, got %v", err)
	}
}

func TestHandleErrorIgnoresHelp(t *testing.T) {
	var buf bytes.Buffer
	handleError(&buf, nil)
	if buf.Len() != 0 {
		t.Fatalf("unexpected output %q", buf.String())
	}
	handleError(&buf, errors.New("boom"))
	if buf.String() != "Error: boom\n" {
		t.Fatalf("output=%q", buf.String())
	}
}
