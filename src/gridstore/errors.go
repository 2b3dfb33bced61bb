package gridstore

import "errors"

// ErrUnalignedRegion is returned when GetData/SetData is asked for a region
// that does not exactly cover one native tile — this Grid keeps one S3
// object per tile and has no cross-tile stitching.
var ErrUnalignedRegion = errors.New("gridstore: region does not align to one native tile")

// ErrUnsupportedDataClass is returned for a Dtype this store has no wire
// encoding for (DtypeInvalid).
var ErrUnsupportedDataClass = errors.New("gridstore: unsupported data class")
