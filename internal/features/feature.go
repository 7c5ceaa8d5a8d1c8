// File: internal/features/feature.go
// Brief: Shared config feature base, toggles and conflict errors.

package features

import (
	"errors"
	"fmt"
	"strings"

	"github.com/example/projkit/internal/document"
)

var (
	// ErrConflict is returned when mutually exclusive options are both set.
	ErrConflict = errors.New("conflicting options")
	// ErrInvalidGlob is returned for include/exclude entries that are not valid glob patterns.
	ErrInvalidGlob = errors.New("invalid glob pattern")
)

// ConflictError names both options of a mutually exclusive pair.
type ConflictError struct {
	First  string
	Second string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("Cannot specify both '%s' and '%s' fields.", e.First, e.Second)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// Toggle is a named boolean option.
type Toggle struct {
	Name string
	Set  bool
}

// Exclusive fails when both toggles are set.
func Exclusive(a, b Toggle) error {
	if a.Set && b.Set {
		return &ConflictError{First: a.Name, Second: b.Name}
	}
	return nil
}

// Named is implemented by features that publish the file they synthesize.
type Named interface {
	FileName() string
}

const (
	labelDefaults  = "defaults"
	labelOverrides = "overrides"
	labelWiring    = "wiring"
)

type base struct {
	fileName string
	doc      *document.Document
}

func newBase(fileName string) base {
	return base{fileName: fileName, doc: document.New(fileName)}
}

// FileName returns the project-relative path of the synthesized file.
func (b *base) FileName() string { return b.fileName }

// Document exposes the merged document, e.g. for dependent features.
func (b *base) Document() *document.Document { return b.doc }

// Render returns the merged document as plain data.
func (b *base) Render() map[string]any { return b.doc.Render() }

func (b *base) applyDefaults(f document.Fragment) error {
	return b.doc.ApplyLabeled(labelDefaults, f)
}

func (b *base) applyOverrides(f document.Fragment) error {
	if len(f) == 0 {
		return nil
	}
	return b.doc.ApplyLabeled(labelOverrides, f)
}

// takeString removes key from a copy of f and returns its string value.
func takeString(f document.Fragment, key string) (document.Fragment, string, error) {
	if f == nil {
		return nil, "", nil
	}
	raw, ok := f[key]
	out := make(document.Fragment, len(f))
	for k, v := range f {
		if k != key {
			out[k] = v
		}
	}
	if !ok || raw == nil {
		return out, "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, "", fmt.Errorf("%w: %q must be a string, got %T", document.ErrSchemaMismatch, key, raw)
	}
	return out, strings.TrimSpace(s), nil
}

func stringList(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
