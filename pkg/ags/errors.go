package ags

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig indicates an unusable parser configuration.
	ErrInvalidConfig = errors.New("invalid parser configuration")

	// ErrFileTooLarge indicates input exceeding Config.MaxFileSize.
	ErrFileTooLarge = errors.New("input exceeds maximum file size")

	// ErrNoGroups indicates a file with no group marker at all.
	ErrNoGroups = errors.New("no group marker found")

	// ErrMixedDialect indicates a marker of the other dialect after the
	// file's dialect was resolved.
	ErrMixedDialect = errors.New("mixed dialect markers in one file")

	// ErrBadGroupMarker indicates a group marker without a usable name.
	ErrBadGroupMarker = errors.New("group marker without a name")

	// ErrMissingHeading indicates a data row in a group that has not
	// declared a heading.
	ErrMissingHeading = errors.New("data row before heading")

	// ErrDuplicateColumn indicates a heading declaring the same column
	// name twice within one group.
	ErrDuplicateColumn = errors.New("duplicate column in heading")

	// ErrHeadingConflict indicates a reopened group declaring a heading
	// that differs from the one already recorded.
	ErrHeadingConflict = errors.New("conflicting heading for reopened group")

	// ErrHeadingAfterData indicates a heading row after the group's first
	// data row.
	ErrHeadingAfterData = errors.New("heading declared after data rows")

	// ErrOrphanContinuation indicates a continuation row with no preceding
	// data row in the same group.
	ErrOrphanContinuation = errors.New("continuation without preceding data row")
)

// StructuralError is fatal to the single file being parsed. It carries the
// group name and approximate line so batch callers can report per-file
// pass/fail; it never aborts sibling files in a multi-file run.
type StructuralError struct {
	Group string
	Line  int
	Err   error
}

// Error implements the error interface.
func (e *StructuralError) Error() string {
	if e.Group == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("group %s, line %d: %v", e.Group, e.Line, e.Err)
}

// Unwrap exposes the sentinel for errors.Is.
func (e *StructuralError) Unwrap() error {
	return e.Err
}

func structural(err error, group string, line int) *StructuralError {
	return &StructuralError{Group: group, Line: line, Err: err}
}
