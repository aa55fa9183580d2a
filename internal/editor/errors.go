package editor

import (
	"errors"
	"fmt"
)

// Errors returned by editor operations. They are wrapped in a *PathError
// naming the path that could not be resolved.
var (
	// ErrInvalidSectionPath indicates a section or list that is not part of
	// the schema, or an optional section that is absent from the tree.
	ErrInvalidSectionPath = errors.New("invalid section path")

	// ErrUnknownField indicates a field name the addressed record does not have.
	ErrUnknownField = errors.New("unknown field")

	// ErrNotAList indicates the addressed field is not a list of identified records.
	ErrNotAList = errors.New("field is not a list of records")

	// ErrTypeMismatch indicates the value cannot be stored in the addressed field.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrItemNotFound indicates no list item carries the requested id.
	ErrItemNotFound = errors.New("list item not found")

	// ErrReadOnlyField indicates an attempt to change a list item's id.
	ErrReadOnlyField = errors.New("field is read-only")
)

// PathError records the settings path an operation failed on.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

func pathErr(path string, err error) error {
	return &PathError{Path: path, Err: err}
}
