package geotech

import "errors"

var (
	// ErrInvalidConfig indicates an unusable service configuration.
	ErrInvalidConfig = errors.New("invalid geotech configuration")

	// ErrQParameter indicates a rock-mass quality parameter outside its
	// physical range.
	ErrQParameter = errors.New("q-value parameter out of range")

	// ErrNoHoleColumn indicates a profile with none of the recognized
	// hole-identifier columns.
	ErrNoHoleColumn = errors.New("no hole identifier column found")

	// ErrMissingColumn indicates a profile lacking a column an operation
	// requires.
	ErrMissingColumn = errors.New("column not declared by profile")
)
