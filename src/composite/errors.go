package composite

import "errors"

// ErrChunkCountMismatch is returned when a composite function receives the
// wrong number of input chunks.
var ErrChunkCountMismatch = errors.New("composite function received the wrong number of inputs")

var errUnsupportedExternalType = errors.New("composite: unsupported prototype external type")
