package chunking

import "errors"

// ErrInvalidScheme is returned when a Scheme's dims/chunkSize are malformed
// (mismatched rank, non-positive dims, non-positive chunk size).
var ErrInvalidScheme = errors.New("invalid chunking scheme")

// ErrPositionOutOfRange is returned by PositionFor when the coordinate
// tuple falls outside the scheme's logical space.
var ErrPositionOutOfRange = errors.New("coordinate out of scheme range")

var errRankMismatch = errors.New("position rank does not match scheme rank")
