package borelog

import "errors"

var (
	// ErrNilTable indicates a projection or profile build over a nil
	// table.
	ErrNilTable = errors.New("nil table")

	// ErrMissingColumn indicates a spec naming a column the table does not
	// declare.
	ErrMissingColumn = errors.New("column not declared by table")

	// ErrNoOverlays indicates a profile build with no input tables.
	ErrNoOverlays = errors.New("profile build requires at least one overlay")
)
