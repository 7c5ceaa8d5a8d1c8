// File: internal/filewriter/diff.go
// Brief: Unified diffs of pending artifacts against a directory.

package filewriter

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
)

// Change classifies a pending artifact.
type Change string

const (
	ChangeAdded     Change = "added"
	ChangeModified  Change = "modified"
	ChangeUnchanged Change = "unchanged"
)

// FileDiff is the pending change of one artifact.
type FileDiff struct {
	Path    string
	Change  Change
	Unified string
}

// Diff compares the artifacts held by m with the files below dir.
func Diff(dir string, m *Memory) ([]FileDiff, error) {
	var out []FileDiff
	for _, p := range m.Paths() {
		next, _ := m.Get(p)
		prev, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(p)))
		switch {
		case os.IsNotExist(err):
			prev = nil
		case err != nil:
			return nil, errors.Wrapf(err, "read %s", p)
		}
		fd := FileDiff{Path: p}
		switch {
		case prev == nil:
			fd.Change = ChangeAdded
		case bytes.Equal(prev, next):
			fd.Change = ChangeUnchanged
			out = append(out, fd)
			continue
		default:
			fd.Change = ChangeModified
		}
		var before []string
		if prev != nil {
			before = difflib.SplitLines(string(prev))
		}
		text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        before,
			B:        difflib.SplitLines(string(next)),
			FromFile: "a/" + p,
			ToFile:   "b/" + p,
			Context:  3,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "diff %s", p)
		}
		fd.Unified = text
		out = append(out, fd)
	}
	return out, nil
}
