package chunk

import "math"

// CastToFloat32 bulk-reads a chunk (whose external type must be
// DtypeFloat) into a flat []float32, marking missing positions as NaN.
func CastToFloat32(c Chunk) ([]float32, error) {
	a := NewAccessor()
	if err := c.Accept(a); err != nil {
		return nil, err
	}
	out := make([]float32, c.Values())
	for i := range out {
		if a.IsMissing(i) {
			out[i] = float32(math.NaN())
			continue
		}
		out[i] = a.GetFloatValue(i)
	}
	return out, nil
}

// CastToFloat64 bulk-reads a chunk (whose external type must be
// DtypeDouble) into a flat []float64, marking missing positions as NaN.
func CastToFloat64(c Chunk) ([]float64, error) {
	a := NewAccessor()
	if err := c.Accept(a); err != nil {
		return nil, err
	}
	out := make([]float64, c.Values())
	for i := range out {
		if a.IsMissing(i) {
			out[i] = math.NaN()
			continue
		}
		out[i] = float64(a.GetDoubleValue(i))
	}
	return out, nil
}

// CastFromFloat32 bulk-writes vals into c (whose external type must be
// DtypeFloat), recognizing NaN as missing.
func CastFromFloat32(c Chunk, vals []float32) error {
	return c.Accept(NewModifier().SetFloatValues(vals))
}

// CastFromFloat64 bulk-writes vals into c (whose external type must be
// DtypeDouble), recognizing NaN as missing.
func CastFromFloat64(c Chunk, vals []float64) error {
	return c.Accept(NewModifier().SetDoubleValues(vals))
}
