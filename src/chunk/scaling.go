package chunk

import "math"

// ScalingScheme is an affine transform between two values of the same
// floating point width. It is only ever attached to float/double chunks;
// mixing a float chunk with a double scaling scheme (or vice versa) is a
// hard error, enforced at construction.
type ScalingScheme interface {
	Accept(ScalingSchemeVisitor)
	width() Dtype
	equal(ScalingScheme) bool
}

// ScalingSchemeVisitor dispatches on the concrete scaling scheme variant.
type ScalingSchemeVisitor interface {
	VisitFloat(FloatScaling)
	VisitDouble(DoubleScaling)
}

// FloatScaling scales float32 values: unscale(raw) = (raw - Offset) * Scale,
// and scale(v) = v/Scale + Offset is its inverse.
type FloatScaling struct {
	Scale, Offset float32
}

// DoubleScaling scales float64 values.
type DoubleScaling struct {
	Scale, Offset float64
}

func (s FloatScaling) Accept(v ScalingSchemeVisitor)  { v.VisitFloat(s) }
func (s DoubleScaling) Accept(v ScalingSchemeVisitor) { v.VisitDouble(s) }

func (s FloatScaling) width() Dtype  { return DtypeFloat }
func (s DoubleScaling) width() Dtype { return DtypeDouble }

func (s FloatScaling) equal(o ScalingScheme) bool {
	os, ok := o.(FloatScaling)
	return ok && os == s
}

func (s DoubleScaling) equal(o ScalingScheme) bool {
	os, ok := o.(DoubleScaling)
	return ok && os == s
}

func scalingEqual(a, b ScalingScheme) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.equal(b)
}

// unscaleFloat32 applies unpack(raw) = (raw - offset) * scale to a raw
// float32, passing NaN through unchanged.
func unscaleFloat32(s FloatScaling, raw float32) float32 {
	if math.IsNaN(float64(raw)) {
		return raw
	}
	return (raw - s.Offset) * s.Scale
}

// scaleFloat32 is the inverse of unscaleFloat32: scale(v) = v/scale + offset.
func scaleFloat32(s FloatScaling, v float32) float32 {
	if math.IsNaN(float64(v)) {
		return v
	}
	return v/s.Scale + s.Offset
}

func unscaleFloat64(s DoubleScaling, raw float64) float64 {
	if math.IsNaN(raw) {
		return raw
	}
	return (raw - s.Offset) * s.Scale
}

func scaleFloat64(s DoubleScaling, v float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	return v/s.Scale + s.Offset
}
