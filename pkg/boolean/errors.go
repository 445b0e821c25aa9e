package boolean

import "errors"

var (
	// ErrInvalidInput is returned when an operand is null or, for solid
	// operations, not a closed valid solid.
	ErrInvalidInput = errors.New("boolean: invalid input")

	// ErrEmptyOperand is returned when an operand has no faces.
	ErrEmptyOperand = errors.New("boolean: empty operand")

	// ErrUnsupportedGeometry is returned for curve or surface types the
	// intersector has no method for.
	ErrUnsupportedGeometry = errors.New("boolean: unsupported geometry")

	// ErrUnclassifiable is returned when no ray direction gives an
	// unambiguous in/out answer for a sample point.
	ErrUnclassifiable = errors.New("boolean: point cannot be classified")

	// ErrNotWellDefined is returned in strict mode when the result cannot be
	// closed into valid solids.
	ErrNotWellDefined = errors.New("boolean: result not well defined")
)
