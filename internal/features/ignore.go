// File: internal/features/ignore.go
// Brief: Line-oriented ignore files (.gitignore, .npmignore).

package features

import (
	"strings"

	"github.com/example/projkit/internal/document"
)

const (
	GitIgnoreFile = ".gitignore"
	NpmIgnoreFile = ".npmignore"
)

// IgnoreFile is an ignore file whose patterns accumulate without duplicates.
type IgnoreFile struct {
	base
}

// NewIgnoreFile returns an ignore file seeded with default patterns.
func NewIgnoreFile(fileName string, defaults ...string) (*IgnoreFile, error) {
	f := &IgnoreFile{base: newBase(fileName)}
	if err := f.applyDefaults(document.Fragment{"patterns": cleanPatterns(defaults)}); err != nil {
		return nil, err
	}
	return f, nil
}

// Add appends patterns. Blank entries are dropped.
func (f *IgnoreFile) Add(patterns ...string) error {
	clean := cleanPatterns(patterns)
	if len(clean) == 0 {
		return nil
	}
	return f.doc.ApplyLabeled(labelWiring, document.Fragment{"patterns": clean})
}

// Patterns returns the merged pattern lines.
func (f *IgnoreFile) Patterns() []string {
	v, _ := f.doc.Get("patterns")
	return stringList(v)
}

func cleanPatterns(in []string) []string {
	out := make([]string, 0, len(in))
	for _, p := range in {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
