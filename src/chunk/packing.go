package chunk

import (
	"fmt"
	"math"
)

// PackingScheme is a bidirectional codec between raw integer chunk storage
// and a floating point external representation. It is only ever attached to
// integer chunks.
type PackingScheme interface {
	Accept(PackingSchemeVisitor)
	// targetType is the external (float) type this scheme unpacks into.
	targetType() Dtype
	equal(PackingScheme) bool
}

// PackingSchemeVisitor dispatches on the concrete packing scheme variant.
type PackingSchemeVisitor interface {
	VisitFloat(FloatPacking)
	VisitDouble(DoublePacking)
}

// FloatPacking unpacks raw integer storage into a float32 external value:
// unpack(raw) = (raw - Offset) * Scale.
type FloatPacking struct {
	Scale, Offset float32
}

// DoublePacking unpacks raw integer storage into a float64 external value.
type DoublePacking struct {
	Scale, Offset float64
}

func (p FloatPacking) Accept(v PackingSchemeVisitor)  { v.VisitFloat(p) }
func (p DoublePacking) Accept(v PackingSchemeVisitor) { v.VisitDouble(p) }

func (p FloatPacking) targetType() Dtype  { return DtypeFloat }
func (p DoublePacking) targetType() Dtype { return DtypeDouble }

func (p FloatPacking) equal(o PackingScheme) bool {
	op, ok := o.(FloatPacking)
	return ok && op == p
}

func (p DoublePacking) equal(o PackingScheme) bool {
	op, ok := o.(DoublePacking)
	return ok && op == p
}

func packingEqual(a, b PackingScheme) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.equal(b)
}

// validPackingPath reports whether a packing scheme targeting `target` may
// be used to decode/encode a raw integer of the given width and signedness.
// The restricted combinations are symmetric between unpack (decode) and
// pack (encode): unpacking i32-unsigned or any i64 into f32 is unsupported,
// and unpacking i64-unsigned into f64 is unsupported.
func validPackingPath(rawWidth Dtype, unsigned bool, target Dtype) bool {
	switch target {
	case DtypeFloat:
		if rawWidth == DtypeLong {
			return false
		}
		if rawWidth == DtypeInt && unsigned {
			return false
		}
		return true
	case DtypeDouble:
		if rawWidth == DtypeLong && unsigned {
			return false
		}
		return true
	default:
		return false
	}
}

// roundHalfAwayFromZero implements the rounding rule required for all
// packing math (Go's math.Round already rounds half away from zero).
func roundHalfAwayFromZero(v float64) float64 {
	return math.Round(v)
}

// widenInt widens a raw integer value held as int64 according to its
// storage width and signedness. Callers pass the raw value already
// sign-extended by Go's usual int64(v) conversion from the narrower signed
// type; widenInt re-derives the unsigned interpretation when needed.
func widenInt(raw int64, width Dtype, unsigned bool) int64 {
	if !unsigned {
		return raw
	}
	switch width {
	case DtypeByte:
		return int64(uint8(raw))
	case DtypeShort:
		return int64(uint16(raw))
	case DtypeInt:
		return int64(uint32(raw))
	case DtypeLong:
		// unsigned int64 is an explicit non-goal; treated as signed.
		return raw
	default:
		panic(fmt.Sprintf("widenInt: unexpected width %v", width))
	}
}

// truncateToWidth masks a signed int64 down to the two's-complement bit
// pattern of the given storage width, used after packing an unsigned value.
func truncateToWidth(p int64, width Dtype) int64 {
	switch width {
	case DtypeByte:
		return int64(int8(uint8(p)))
	case DtypeShort:
		return int64(int16(uint16(p)))
	case DtypeInt:
		return int64(int32(uint32(p)))
	case DtypeLong:
		return p
	default:
		panic(fmt.Sprintf("truncateToWidth: unexpected width %v", width))
	}
}

// unpackToFloat64 decodes one raw integer value per the packing scheme's
// unpack formula, returning a float64 regardless of the scheme's own
// target width (callers narrow to float32 when the scheme is FloatPacking).
func unpackToFloat64(p PackingScheme, raw int64, rawWidth Dtype, missing *int64, unsigned bool) (float64, error) {
	if !validPackingPath(rawWidth, unsigned, p.targetType()) {
		return 0, fmt.Errorf("%w: unpack %v unsigned=%v -> %v", ErrUnsupportedConversion, rawWidth, unsigned, p.targetType())
	}
	if missing != nil && raw == *missing {
		return math.NaN(), nil
	}
	r := widenInt(raw, rawWidth, unsigned)
	switch s := p.(type) {
	case FloatPacking:
		return (float64(r) - float64(s.Offset)) * float64(s.Scale), nil
	case DoublePacking:
		return (float64(r) - s.Offset) * s.Scale, nil
	default:
		panic(fmt.Sprintf("unpackToFloat64: unknown packing scheme %T", p))
	}
}

// packFromFloat64 encodes one float value into raw integer storage per the
// packing scheme's pack formula. `missing` is the raw sentinel returned
// for non-finite inputs (a packing scheme always requires a missing
// sentinel, since non-finite inputs have nowhere else to go).
func packFromFloat64(p PackingScheme, v float64, rawWidth Dtype, missing int64, unsigned bool) (int64, error) {
	if !validPackingPath(rawWidth, unsigned, p.targetType()) {
		return 0, fmt.Errorf("%w: pack %v -> %v unsigned=%v", ErrUnsupportedConversion, p.targetType(), rawWidth, unsigned)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return missing, nil
	}
	var scaled float64
	switch s := p.(type) {
	case FloatPacking:
		scaled = v/float64(s.Scale) + float64(s.Offset)
	case DoublePacking:
		scaled = v/s.Scale + s.Offset
	default:
		panic(fmt.Sprintf("packFromFloat64: unknown packing scheme %T", p))
	}
	raw := int64(roundHalfAwayFromZero(scaled))
	if unsigned {
		raw = int64(uint64(raw) & widthMask(rawWidth)) // p AND (2^b - 1)
	}
	return truncateToWidth(raw, rawWidth), nil
}

func widthMask(width Dtype) uint64 {
	switch width {
	case DtypeByte:
		return 0xFF
	case DtypeShort:
		return 0xFFFF
	case DtypeInt:
		return 0xFFFFFFFF
	case DtypeLong:
		return math.MaxUint64
	default:
		panic(fmt.Sprintf("widthMask: unexpected width %v", width))
	}
}
