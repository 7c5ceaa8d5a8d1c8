package document

import (
	"errors"
	"fmt"
)

var (
	// ErrSchemaMismatch is returned when a fragment changes the container kind of a field.
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrFrozen is returned when a fragment is applied to a frozen document.
	ErrFrozen = errors.New("document is frozen")
)

// MismatchError reports the field whose kind a fragment tried to change.
type MismatchError struct {
	Path     string
	Existing Kind
	Incoming Kind
}

func (e *MismatchError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: field %q is a %s, fragment supplies a %s", ErrSchemaMismatch, e.Path, e.Existing, e.Incoming)
}

func (e *MismatchError) Unwrap() error { return ErrSchemaMismatch }
