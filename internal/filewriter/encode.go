// File: internal/filewriter/encode.go
// Brief: Stable serialization of synthesized artifacts.

// Package filewriter serializes synthesized artifacts and persists them,
// either to a directory or to memory for previews and tests.
package filewriter

import (
	"bytes"
	"encoding/json"
	"path"
	"strings"

	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"
)

// MarkerKey is the JSON key carrying the generated-file banner.
const MarkerKey = "//"

// Encode renders content for path. The format follows the extension: YAML for
// .yaml/.yml, line lists for []string, JSON otherwise. When marker is set the
// banner is stamped as a "//" key (JSON) or a leading comment (YAML, lines).
func Encode(p string, content any, banner string, marker bool) ([]byte, error) {
	if lines, ok := content.([]string); ok {
		return encodeLines(lines, banner, marker), nil
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".yaml", ".yml":
		return encodeYAML(content, banner, marker)
	default:
		return encodeJSON(content, banner, marker)
	}
}

func encodeLines(lines []string, banner string, marker bool) []byte {
	var buf bytes.Buffer
	if marker && banner != "" {
		buf.WriteString("# " + banner + "\n")
	}
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func encodeYAML(content any, banner string, marker bool) ([]byte, error) {
	raw, err := yaml.Marshal(content)
	if err != nil {
		return nil, errors.Wrap(err, "encode yaml")
	}
	if !marker || banner == "" {
		return raw, nil
	}
	return append([]byte("# "+banner+"\n"), raw...), nil
}

func encodeJSON(content any, banner string, marker bool) ([]byte, error) {
	if marker && banner != "" {
		stamped, err := stamp(content, banner)
		if err != nil {
			return nil, err
		}
		content = stamped
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(content); err != nil {
		return nil, errors.Wrap(err, "encode json")
	}
	return buf.Bytes(), nil
}

// stamp re-reads content as a JSON object and adds the marker key. Keys are
// emitted sorted, which puts "//" first. Non-object content is left as is.
func stamp(content any, banner string) (any, error) {
	raw, err := json.Marshal(content)
	if err != nil {
		return nil, errors.Wrap(err, "encode json")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return content, nil
	}
	obj[MarkerKey] = banner
	return obj, nil
}
