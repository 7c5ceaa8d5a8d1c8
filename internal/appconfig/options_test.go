package appconfig

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
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

func TestLoad_RepoOverridesGlobal(t *testing.T) {
	dir := t.TempDir()
	global := filepath.Join(dir, "home", "options.yaml")
	repo := filepath.Join(dir, "repo", RepoFile)
	writeFile(t, global, `
defaultReleaseBranch: main
jest: false
devDeps: [prettier]
tsconfig:
  compilerOptions:
    strict: true
  include: [global.ts]
`)
	writeFile(t, repo, `
name: demo
jest: true
projenrcTs: true
devDeps: [husky]
tsconfig:
  compilerOptions:
    strict: false
  include: [repo.ts]
jestOptions:
  jestVersion: "26"
  tsJestOptions:
    transformOptions:
      isolatedModules: true
`)
	cfg, err := Load(context.Background(), global, repo)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "demo" || cfg.DefaultReleaseBranch != "main" {
		t.Fatalf("name=%q branch=%q", cfg.Name, cfg.DefaultReleaseBranch)
	}
	if cfg.Jest == nil || !*cfg.Jest {
		t.Fatalf("repo jest toggle should win: %v", cfg.Jest)
	}
	if diff := cmp.Diff([]string{"prettier", "husky"}, cfg.DevDeps); diff != "" {
		t.Fatalf("devDeps:\n%s", diff)
	}
	want := map[string]any{
		"compilerOptions": map[string]any{"strict": false},
		"include":         []any{"global.ts", "repo.ts"},
	}
	if diff := cmp.Diff(want, cfg.Tsconfig); diff != "" {
		t.Fatalf("tsconfig:\n%s", diff)
	}

	opts := cfg.ProjectOptions()
	if !opts.ProjenrcTs || opts.JestOptions.JestVersion != "26" {
		t.Fatalf("opts=%+v", opts)
	}
	if opts.TsJestOptions == nil || opts.TsJestOptions.TransformOptions["isolatedModules"] != true {
		t.Fatalf("tsJestOptions=%+v", opts.TsJestOptions)
	}
}

func TestLoad_RepoTransformPatternWins(t *testing.T) {
	dir := t.TempDir()
	global := filepath.Join(dir, "g.yaml")
	repo := filepath.Join(dir, "r.yaml")
	writeFile(t, global, "jestOptions:\n  tsJestOptions:\n    transformPattern: a\n    transformOptions:\n      isolatedModules: true\n")
	writeFile(t, repo, "jestOptions:\n  tsJestOptions:\n    transformPattern: b\n")
	cfg, err := Load(context.Background(), global, repo)
	if err != nil {
		t.Fatal(err)
	}
	ts := cfg.JestOptions.TsJestOptions
	if ts == nil || ts.TransformPattern != "b" || ts.TransformOptions["isolatedModules"] != true {
		t.Fatalf("tsJestOptions=%+v", ts)
	}
}

func TestLoad_FalseToggleOverridesTrue(t *testing.T) {
	dir := t.TempDir()
	global := filepath.Join(dir, "g.yaml")
	repo := filepath.Join(dir, "r.yaml")
	writeFile(t, global, "eslint: true\n")
	writeFile(t, repo, "eslint: false\n")
	cfg, err := Load(context.Background(), global, repo)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Eslint == nil || *cfg.Eslint {
		t.Fatalf("eslint=%v", cfg.Eslint)
	}
}

func TestLoad_MissingAndEmptyFiles(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.yaml")
	writeFile(t, empty, "  \n")
	cfg, err := Load(context.Background(), filepath.Join(dir, "missing.yaml"), empty)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Config{}, cfg, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("config:\n%s", diff)
	}
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), RepoFile)
	writeFile(t, path, "srcDir: app\n")
	if _, err := Load(context.Background(), "", path); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestLoad_KindMismatchAcrossLayers(t *testing.T) {
	dir := t.TempDir()
	global := filepath.Join(dir, "g.yaml")
	repo := filepath.Join(dir, "r.yaml")
	writeFile(t, global, "tsconfig:\n  include: [a.ts]\n")
	writeFile(t, repo, "tsconfig:\n  include: b.ts\n")
	if _, err := Load(context.Background(), global, repo); err == nil {
		t.Fatalf("expected schema mismatch")
	}
}

func TestFindRepoRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, RepoFile), "name: x\n")
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	if got := FindRepoRoot(nested); got != root {
		t.Fatalf("root=%q want=%q", got, root)
	}
	if got := DefaultRepoPath(root); got != filepath.Join(root, RepoFile) {
		t.Fatalf("repo path=%q", got)
	}
}
