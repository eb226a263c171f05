package rotation

import (
	"errors"
	"fmt"
)

var (
	// ErrNumerical indicates that no half-turn axis is consistent with the
	// off-diagonal entries: the matrix is not a rotation or the tolerances are
	// too tight for its precision.
	ErrNumerical = errors.New("rotation: no consistent axis for half-turn matrix")

	// ErrInvalidInput indicates a caller contract violation detected by a
	// validating entry point (non-unit axis, non-orthonormal matrix).
	ErrInvalidInput = errors.New("rotation: invalid input")
)

// ExtractError carries the matrix and angle for a failed extraction.
type ExtractError struct {
	Op     string
	Angle  float64
	Matrix Matrix
	Err    error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("%s: angle %.9g: %v", e.Op, e.Angle, e.Err)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}
