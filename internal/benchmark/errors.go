package benchmark

import "errors"

var (
	// ErrEmptyGoldenSet is returned when a golden set has no labeled pairs.
	ErrEmptyGoldenSet = errors.New("benchmark: golden set has no pairs")

	// ErrResultNotFound is returned when a saved sweep result can't be located.
	ErrResultNotFound = errors.New("benchmark: result not found")
)
