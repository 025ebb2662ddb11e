package thsom

import "errors"

var (
	// ErrShapeMismatch is returned when feature dimensionality or sequence
	// layout does not match the model or the rest of the input.
	ErrShapeMismatch = errors.New("thsom: shape mismatch")

	// ErrEmptyBatch is returned for inputs that would produce no updates.
	ErrEmptyBatch = errors.New("thsom: empty batch")

	// ErrInvalidConfiguration is returned for non-positive sizes, negative
	// beta, radius or learning rate, and non-positive batch sizes.
	ErrInvalidConfiguration = errors.New("thsom: invalid configuration")
)
