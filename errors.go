package bitvec

import "errors"

// ErrInvalidRangeLength is returned by Get and Overwrite when the requested
// range length falls outside [0, 64]. The operation aborts before touching
// the vector.
var ErrInvalidRangeLength = errors.New("range length must be in [0, 64]")
