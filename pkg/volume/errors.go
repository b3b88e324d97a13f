package volume

import "errors"

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrShape indicates a label volume has fewer than three axes, so
	// height, width and depth cannot be extracted.
	ErrShape = errors.New("volume: fewer than three axes")

	// ErrDimensionMismatch indicates two volumes being compared do not
	// share the same dimensions.
	ErrDimensionMismatch = errors.New("volume: different dimensions")
)
