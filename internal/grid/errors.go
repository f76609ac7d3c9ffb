package grid

import "errors"

var (
	// ErrNoTable is returned when the markup holds no table element.
	ErrNoTable = errors.New("no table found in markup")

	// ErrColumnCount is returned when the declared column count is not a
	// positive integer.
	ErrColumnCount = errors.New("invalid column count")
)
