package chunk

import "errors"

// ErrInvalidChunkConfig is returned when a chunk's constructor arguments
// violate an invariant (e.g. packing on a float chunk, unsigned on a float
// chunk, scaling on an integer chunk).
var ErrInvalidChunkConfig = errors.New("invalid chunk configuration")

// ErrIncompatibleChunk is returned by a consumer when the chunk it was
// handed does not match its prototype.
var ErrIncompatibleChunk = errors.New("chunk is not compatible with prototype")

// ErrTypeMismatch is returned by a Modifier when no input buffer was
// supplied for the decode path the chunk's external type requires.
var ErrTypeMismatch = errors.New("modifier has no input buffer for this chunk's external type")

// ErrUnsupportedConversion is returned for packing/unpacking paths that are
// explicitly disallowed: i64<->f32, unsigned int32->f32 encode, unsigned
// int64<->f64.
var ErrUnsupportedConversion = errors.New("unsupported packing conversion")

var errAppendTypeMismatch = errors.New("cannot append chunks of differing variants")
var errMixedSchemeWidth = errors.New("cannot mix a chunk with a scaling scheme of a different width")
