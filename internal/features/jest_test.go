package features

import (
	"testing"

	"github.com/example/projkit/internal/document"
	"github.com/example/projkit/internal/logging"
	"github.com/example/projkit/internal/tasks"
	"github.com/google/go-cmp/cmp"
)

type fixedName string

func (n fixedName) FileName() string { return string(n) }

func jestOptions() JestOptions {
	return JestOptions{Srcdir: "src", Testdir: "test", Tsconfig: fixedName("tsconfig.dev.json")}
}

func transformOf(t *testing.T, j *Jest) map[string]any {
	t.Helper()
	tr, ok := j.Render()["transform"].(map[string]any)
	if !ok {
		t.Fatalf("transform missing: %v", j.Render())
	}
	return tr
}

func TestJest_ModernDefaults(t *testing.T) {
	j, err := NewJest(jestOptions())
	if err != nil {
		t.Fatalf("NewJest: %v", err)
	}
	if j.Legacy() || j.FileName() != "jest.config.json" {
		t.Fatalf("legacy=%v file=%s", j.Legacy(), j.FileName())
	}
	want := []any{"ts-jest", map[string]any{"tsconfig": "tsconfig.dev.json"}}
	if diff := cmp.Diff(want, transformOf(t, j)[DefaultTsJestTransformPattern]); diff != "" {
		t.Fatalf("transform:\n%s", diff)
	}
}

func TestJest_UserTransformsMerge(t *testing.T) {
	const jsPattern = `^.+\.[j]sx?$`
	opts := jestOptions()
	opts.Config = document.Fragment{"transform": map[string]any{jsPattern: "babel-jest"}}
	j, err := NewJest(opts)
	if err != nil {
		t.Fatal(err)
	}
	tr := transformOf(t, j)
	if len(tr) != 2 || tr[jsPattern] != "babel-jest" {
		t.Fatalf("transform=%v", tr)
	}
}

func TestJest_TsJestOptions(t *testing.T) {
	const tsWithJS = `^.+\.[tj]sx?$`
	opts := jestOptions()
	opts.TsJest = &TsJestOptions{
		TransformPattern: tsWithJS,
		TransformOptions: document.Fragment{"isolatedModules": true, "tsconfig": "bar"},
	}
	j, err := NewJest(opts)
	if err != nil {
		t.Fatal(err)
	}
	tr := transformOf(t, j)
	if _, ok := tr[DefaultTsJestTransformPattern]; ok {
		t.Fatalf("default pattern should be replaced: %v", tr)
	}
	want := []any{"ts-jest", map[string]any{"isolatedModules": true, "tsconfig": "bar"}}
	if diff := cmp.Diff(want, tr[tsWithJS]); diff != "" {
		t.Fatalf("transform:\n%s", diff)
	}
}

func TestJest_Legacy(t *testing.T) {
	opts := jestOptions()
	opts.JestVersion = "26"
	opts.Config = document.Fragment{
		"globals": map[string]any{"ts-jest": map[string]any{"shouldBePreserved": true}},
	}
	j, err := NewJest(opts)
	if err != nil {
		t.Fatal(err)
	}
	out := j.Render()
	if out["preset"] != "ts-jest" {
		t.Fatalf("preset=%v", out["preset"])
	}
	want := map[string]any{"ts-jest": map[string]any{"tsconfig": "tsconfig.dev.json", "shouldBePreserved": true}}
	if diff := cmp.Diff(want, out["globals"]); diff != "" {
		t.Fatalf("globals:\n%s", diff)
	}

	opts.Config = document.Fragment{
		"preset":  "foo",
		"globals": map[string]any{"ts-jest": map[string]any{"tsconfig": "bar"}},
	}
	if j, err = NewJest(opts); err != nil {
		t.Fatal(err)
	}
	out = j.Render()
	if out["preset"] != "foo" {
		t.Fatalf("preset=%v", out["preset"])
	}
	if got, _ := j.Document().Get("globals.ts-jest.tsconfig"); got != "bar" {
		t.Fatalf("tsconfig=%v", got)
	}
}

func TestJest_LegacyWarnsAndDropsTsJestOptions(t *testing.T) {
	var rec logging.Recorder
	opts := jestOptions()
	opts.JestVersion = "^26.6.3"
	opts.Log = &rec
	opts.TsJest = &TsJestOptions{TransformOptions: document.Fragment{"isolatedModules": true}}
	j, err := NewJest(opts)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"You are using a legacy version (<29) of jest and ts-jest that does not support tsJestOptions, they will be ignored."}
	if diff := cmp.Diff(want, rec.Messages()); diff != "" {
		t.Fatalf("warnings:\n%s", diff)
	}
	if _, ok := j.Render()["transform"]; ok {
		t.Fatalf("legacy config should not carry a transform")
	}
}

func TestJest_InvalidVersion(t *testing.T) {
	opts := jestOptions()
	opts.JestVersion = "latest"
	if _, err := NewJest(opts); err == nil {
		t.Fatalf("expected error for invalid version")
	}
}

func TestJest_RegistersTestStep(t *testing.T) {
	reg := tasks.New()
	opts := jestOptions()
	opts.Tasks = reg
	if _, err := NewJest(opts); err != nil {
		t.Fatal(err)
	}
	test, ok := reg.Lookup(TestTask)
	if !ok {
		t.Fatalf("test task missing")
	}
	want := []tasks.Step{{Exec: "jest --passWithNoTests --updateSnapshot", ReceiveArgs: true}}
	if diff := cmp.Diff(want, test.Steps()); diff != "" {
		t.Fatalf("steps:\n%s", diff)
	}
}
