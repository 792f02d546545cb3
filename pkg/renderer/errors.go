package renderer

import "errors"

var (
	// ErrNonFiniteRadiance is returned when a sample evaluates to NaN or
	// infinity. It always indicates a bug in a shape, material or PDF.
	ErrNonFiniteRadiance = errors.New("renderer: non-finite radiance")

	// ErrInvalidFrame is returned for frames with non-positive dimensions
	// or sample counts
	ErrInvalidFrame = errors.New("renderer: invalid frame")

	// ErrUnsupportedFormat is returned when saving to an unknown image format
	ErrUnsupportedFormat = errors.New("renderer: unsupported output format")
)
