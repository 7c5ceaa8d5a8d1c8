// File: internal/tasks/manifest.go
// Brief: Serialized task manifest.

package tasks

import (
	"bytes"
	"encoding/json"
	"sort"
)

// ManifestFile is the project-relative path of the task manifest.
const ManifestFile = ".projen/tasks.json"

// TaskSpec is the serialized form of a task.
type TaskSpec struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Steps       []Step            `json:"steps"`
	Env         map[string]string `json:"env,omitempty"`
	Cwd         string            `json:"cwd,omitempty"`
	Condition   string            `json:"condition,omitempty"`
}

// Manifest is the canonical task-automation contract read by task runners.
// encoding/json emits map keys sorted, so task order never depends on creation order.
type Manifest struct {
	Tasks map[string]TaskSpec `json:"tasks"`
}

// Names returns the task names in sorted order.
func (m *Manifest) Names() []string {
	names := make([]string, 0, len(m.Tasks))
	for name := range m.Tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MarshalIndent renders the manifest as indented JSON with a trailing newline.
func (m *Manifest) MarshalIndent() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ParseManifest decodes a manifest previously produced by MarshalIndent.
func ParseManifest(raw []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	if m.Tasks == nil {
		m.Tasks = map[string]TaskSpec{}
	}
	return &m, nil
}
