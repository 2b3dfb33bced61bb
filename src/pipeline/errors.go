package pipeline

import "errors"

// ErrIncompatibleChunk is returned by a Consumer when the chunk handed to
// PutChunk does not match its prototype.
var ErrIncompatibleChunk = errors.New("chunk is not compatible with consumer prototype")
