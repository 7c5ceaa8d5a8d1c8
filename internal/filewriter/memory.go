// File: internal/filewriter/memory.go
// Brief: In-memory artifact sink.

package filewriter

import (
	"sort"

	"github.com/pkg/errors"
)

// Memory keeps encoded artifacts in memory.
type Memory struct {
	Banner string

	files map[string][]byte
}

// Write encodes content and stores it under path.
func (m *Memory) Write(path string, content any, marker bool) error {
	data, err := Encode(path, content, m.Banner, marker)
	if err != nil {
		return errors.Wrapf(err, "encode %s", path)
	}
	if m.files == nil {
		m.files = map[string][]byte{}
	}
	m.files[path] = data
	return nil
}

// Get returns the encoded bytes of path.
func (m *Memory) Get(path string) ([]byte, bool) {
	data, ok := m.files[path]
	return data, ok
}

// Paths returns the stored paths sorted.
func (m *Memory) Paths() []string {
	out := make([]string, 0, len(m.files))
	for p := range m.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
