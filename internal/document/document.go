// File: internal/document/document.go
// Brief: Document accumulating fragments in application order.

package document

import (
	"fmt"
	"strings"
)

type record struct {
	priority int
	label    string
	keys     []string
}

// Document accumulates fragments applied over its lifetime. Later fragments win
// scalar conflicts.
type Document struct {
	name    string
	root    Value
	records []record
	frozen  bool
	cause   error
}

// New returns an empty document. The name only appears in error messages.
func New(name string) *Document {
	return &Document{name: name, root: Value{kind: KindMapping, entries: map[string]Value{}}}
}

// Name returns the document name.
func (d *Document) Name() string { return d.name }

// Apply merges an anonymous fragment.
func (d *Document) Apply(f Fragment) error {
	return d.ApplyLabeled("", f)
}

// ApplyLabeled merges f and records label as the contributor of every
// top-level key it sets. A failed merge leaves the document unchanged.
func (d *Document) ApplyLabeled(label string, f Fragment) error {
	if d.frozen {
		if d.cause != nil {
			return fmt.Errorf("apply to %s: %w: %w", d.name, ErrFrozen, d.cause)
		}
		return fmt.Errorf("apply to %s: %w", d.name, ErrFrozen)
	}
	fv, err := FromAny(map[string]any(f))
	if err != nil {
		return fmt.Errorf("apply to %s: %w", d.name, err)
	}
	merged, err := Merge(d.root, fv)
	if err != nil {
		return fmt.Errorf("apply to %s: %w", d.name, err)
	}
	d.root = merged

	priority := len(d.records) + 1
	if label == "" {
		label = fmt.Sprintf("fragment-%d", priority)
	}
	var keys []string
	for _, k := range fv.Keys() {
		if v, _ := fv.Field(k); !v.IsNull() {
			keys = append(keys, k)
		}
	}
	d.records = append(d.records, record{priority: priority, label: label, keys: keys})
	return nil
}

// Render returns the merged snapshot as plain nested data.
func (d *Document) Render() map[string]any {
	return d.root.Any().(map[string]any)
}

// Value returns the merged snapshot in tagged form.
func (d *Document) Value() Value { return d.root }

// Get reads a dotted path (e.g. "compilerOptions.outDir") from the merged value.
func (d *Document) Get(path string) (any, bool) {
	cur := d.root
	for _, part := range strings.Split(path, ".") {
		next, ok := cur.Field(part)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur.Any(), true
}

// Provenance lists, in application order, the labels of fragments that wrote
// the given top-level key.
func (d *Document) Provenance(key string) []string {
	var out []string
	for _, r := range d.records {
		for _, k := range r.keys {
			if k == key {
				out = append(out, r.label)
				break
			}
		}
	}
	return out
}

// Freeze makes the document read-only.
func (d *Document) Freeze() { d.frozen = true }

// FreezeWith makes the document read-only; later applies also wrap cause.
func (d *Document) FreezeWith(cause error) {
	d.frozen = true
	d.cause = cause
}

// Frozen reports whether Freeze was called.
func (d *Document) Frozen() bool { return d.frozen }
