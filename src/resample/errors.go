package resample

import "errors"

// ErrSchemeRequired is returned when neither the producer nor the consumer
// advertises a native tiling scheme — the resampler has no way to locate
// source chunks without one.
var ErrSchemeRequired = errors.New("resample: producer or consumer must have a native scheme")
