// File: internal/filewriter/disk.go
// Brief: Writes artifacts below a project directory.

package filewriter

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const (
	writableMode = 0o644
	readOnlyMode = 0o444
)

// Disk writes artifacts below Dir. Marked files are left read-only so they
// are edited through the project definition rather than by hand.
type Disk struct {
	Dir    string
	Banner string

	written []string
	changed []string
}

// Write serializes content to path. Unchanged files are not rewritten.
func (d *Disk) Write(path string, content any, marker bool) error {
	data, err := Encode(path, content, d.Banner, marker)
	if err != nil {
		return errors.Wrapf(err, "encode %s", path)
	}
	full := filepath.Join(d.Dir, filepath.FromSlash(path))
	d.written = append(d.written, path)

	mode := os.FileMode(writableMode)
	if marker {
		mode = readOnlyMode
	}
	if existing, err := os.ReadFile(full); err == nil && bytes.Equal(existing, data) {
		return errors.Wrapf(os.Chmod(full, mode), "chmod %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return errors.Wrapf(err, "create directory for %s", path)
	}
	if _, err := os.Stat(full); err == nil {
		if err := os.Chmod(full, writableMode); err != nil {
			return errors.Wrapf(err, "make %s writable", path)
		}
	}
	if err := os.WriteFile(full, data, writableMode); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	d.changed = append(d.changed, path)
	return errors.Wrapf(os.Chmod(full, mode), "chmod %s", path)
}

// Remove deletes a previously generated file. Missing files are ignored.
func (d *Disk) Remove(path string) error {
	full := filepath.Join(d.Dir, filepath.FromSlash(path))
	if _, err := os.Stat(full); os.IsNotExist(err) {
		return nil
	}
	if err := os.Chmod(full, writableMode); err != nil {
		return errors.Wrapf(err, "make %s writable", path)
	}
	return errors.Wrapf(os.Remove(full), "remove %s", path)
}

// Written lists every path passed to Write, in call order.
func (d *Disk) Written() []string { return append([]string(nil), d.written...) }

// Changed lists the paths whose bytes were actually rewritten.
func (d *Disk) Changed() []string { return append([]string(nil), d.changed...) }
