package document

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDocument_RenderIsIdempotent(t *testing.T) {
	d := New("tsconfig.json")
	if err := d.Apply(Fragment{"include": []string{"src/**/*.ts"}, "compilerOptions": map[string]any{"strict": true}}); err != nil {
		t.Fatal(err)
	}
	first := d.Render()
	first["include"] = append(first["include"].([]any), "mutated")
	first["compilerOptions"].(map[string]any)["strict"] = false

	second := d.Render()
	third := d.Render()
	if diff := cmp.Diff(second, third); diff != "" {
		t.Fatalf("render not idempotent:\n%s", diff)
	}
	if diff := cmp.Diff([]any{"src/**/*.ts"}, second["include"]); diff != "" {
		t.Fatalf("caller mutation leaked into document:\n%s", diff)
	}
}

func TestDocument_FreezeRejectsApply(t *testing.T) {
	d := New("doc")
	d.Freeze()
	if err := d.Apply(Fragment{"a": 1}); !errors.Is(err, ErrFrozen) {
		t.Fatalf("expected ErrFrozen, got %v", err)
	}
	if !d.Frozen() {
		t.Fatalf("expected frozen")
	}
}

func TestDocument_GetAndProvenance(t *testing.T) {
	d := New("doc")
	if err := d.ApplyLabeled("defaults", Fragment{"compilerOptions": map[string]any{"outDir": "lib"}, "include": []string{"src"}}); err != nil {
		t.Fatal(err)
	}
	if err := d.ApplyLabeled("overrides", Fragment{"compilerOptions": map[string]any{"outDir": "dist"}}); err != nil {
		t.Fatal(err)
	}
	if err := d.Apply(Fragment{"include": nil}); err != nil {
		t.Fatal(err)
	}
	got, ok := d.Get("compilerOptions.outDir")
	if !ok || got != "dist" {
		t.Fatalf("outDir=%v ok=%v", got, ok)
	}
	if _, ok := d.Get("compilerOptions.missing"); ok {
		t.Fatalf("expected missing path")
	}
	if diff := cmp.Diff([]string{"defaults", "overrides"}, d.Provenance("compilerOptions")); diff != "" {
		t.Fatalf("provenance mismatch:\n%s", diff)
	}
	if diff := cmp.Diff([]string{"defaults"}, d.Provenance("include")); diff != "" {
		t.Fatalf("null fragment should not be recorded:\n%s", diff)
	}
}

func TestDocument_FreezeWithWrapsCause(t *testing.T) {
	cause := errors.New("already written")
	d := New("doc")
	d.FreezeWith(cause)
	err := d.Apply(Fragment{"a": 1})
	if !errors.Is(err, ErrFrozen) || !errors.Is(err, cause) {
		t.Fatalf("expected ErrFrozen wrapping cause, got %v", err)
	}
}
