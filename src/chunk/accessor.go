package chunk

import (
	"fmt"
	"math"
)

// Accessor is the read-side visitor: after a chunk accepts an Accessor,
// exactly one typed getter is valid, selected by the chunk's external
// type, plus IsMissing for every index.
type Accessor struct {
	extType Dtype
	missing []bool

	byteBuf   []int8
	shortBuf  []int16
	intBuf    []int32
	longBuf   []int64
	floatBuf  []float32
	doubleBuf []float64
}

// NewAccessor returns a fresh, unvisited Accessor.
func NewAccessor() *Accessor {
	return &Accessor{}
}

// ExternalType returns the type the last-visited chunk advertised, i.e.
// which Get*Value method is valid to call.
func (a *Accessor) ExternalType() Dtype { return a.extType }

// IsMissing reports whether element i is missing.
func (a *Accessor) IsMissing(i int) bool { return a.missing[i] }

func (a *Accessor) GetByteValue(i int) int8 {
	a.requireType(DtypeByte)
	return a.byteBuf[i]
}

func (a *Accessor) GetShortValue(i int) int16 {
	a.requireType(DtypeShort)
	return a.shortBuf[i]
}

func (a *Accessor) GetIntValue(i int) int32 {
	a.requireType(DtypeInt)
	return a.intBuf[i]
}

func (a *Accessor) GetLongValue(i int) int64 {
	a.requireType(DtypeLong)
	return a.longBuf[i]
}

func (a *Accessor) GetFloatValue(i int) float32 {
	a.requireType(DtypeFloat)
	return a.floatBuf[i]
}

func (a *Accessor) GetDoubleValue(i int) float64 {
	a.requireType(DtypeDouble)
	return a.doubleBuf[i]
}

func (a *Accessor) requireType(dt Dtype) {
	if a.extType != dt {
		panic(fmt.Sprintf("chunk: Get%vValue called but accessor's external type is %v", dt, a.extType))
	}
}

func (a *Accessor) VisitByte(c *ByteChunk) error {
	n := len(c.data)
	missing := make([]bool, n)
	if c.packing != nil {
		vals, err := unpackIntBuffer(c.packing, c.data, DtypeByte, c.missing, c.unsigned, missing)
		if err != nil {
			return err
		}
		a.setFloatResult(c.packing.targetType(), vals, missing)
		return nil
	}
	if c.unsigned {
		buf := make([]int16, n)
		for i, raw := range c.data {
			if c.missing != nil && raw == *c.missing {
				missing[i] = true
			}
			buf[i] = int16(uint8(raw))
		}
		a.shortBuf, a.extType, a.missing = buf, DtypeShort, missing
		return nil
	}
	for i, raw := range c.data {
		if c.missing != nil && raw == *c.missing {
			missing[i] = true
		}
	}
	a.byteBuf, a.extType, a.missing = c.data, DtypeByte, missing
	return nil
}

func (a *Accessor) VisitShort(c *ShortChunk) error {
	n := len(c.data)
	missing := make([]bool, n)
	if c.packing != nil {
		vals, err := unpackIntBuffer(c.packing, c.data, DtypeShort, c.missing, c.unsigned, missing)
		if err != nil {
			return err
		}
		a.setFloatResult(c.packing.targetType(), vals, missing)
		return nil
	}
	if c.unsigned {
		buf := make([]int32, n)
		for i, raw := range c.data {
			if c.missing != nil && raw == *c.missing {
				missing[i] = true
			}
			buf[i] = int32(uint16(raw))
		}
		a.intBuf, a.extType, a.missing = buf, DtypeInt, missing
		return nil
	}
	for i, raw := range c.data {
		if c.missing != nil && raw == *c.missing {
			missing[i] = true
		}
	}
	a.shortBuf, a.extType, a.missing = c.data, DtypeShort, missing
	return nil
}

func (a *Accessor) VisitInt(c *IntChunk) error {
	n := len(c.data)
	missing := make([]bool, n)
	if c.packing != nil {
		vals, err := unpackIntBuffer(c.packing, c.data, DtypeInt, c.missing, c.unsigned, missing)
		if err != nil {
			return err
		}
		a.setFloatResult(c.packing.targetType(), vals, missing)
		return nil
	}
	if c.unsigned {
		buf := make([]int64, n)
		for i, raw := range c.data {
			if c.missing != nil && raw == *c.missing {
				missing[i] = true
			}
			buf[i] = int64(uint32(raw))
		}
		a.longBuf, a.extType, a.missing = buf, DtypeLong, missing
		return nil
	}
	for i, raw := range c.data {
		if c.missing != nil && raw == *c.missing {
			missing[i] = true
		}
	}
	a.intBuf, a.extType, a.missing = c.data, DtypeInt, missing
	return nil
}

func (a *Accessor) VisitLong(c *LongChunk) error {
	n := len(c.data)
	missing := make([]bool, n)
	if c.packing != nil {
		vals, err := unpackIntBuffer(c.packing, c.data, DtypeLong, c.missing, false, missing)
		if err != nil {
			return err
		}
		a.setFloatResult(c.packing.targetType(), vals, missing)
		return nil
	}
	for i, raw := range c.data {
		if c.missing != nil && raw == *c.missing {
			missing[i] = true
		}
	}
	a.longBuf, a.extType, a.missing = c.data, DtypeLong, missing
	return nil
}

func (a *Accessor) VisitFloat(c *FloatChunk) error {
	n := len(c.data)
	missing := make([]bool, n)
	buf := make([]float32, n)
	if c.scaling != nil {
		fs, ok := c.scaling.(FloatScaling)
		if !ok {
			return fmt.Errorf("%w: float chunk carries a non-float scaling scheme", ErrInvalidChunkConfig)
		}
		for i, raw := range c.data {
			v := raw
			if c.missing != nil && v == *c.missing {
				v = float32(math.NaN())
			}
			buf[i] = unscaleFloat32(fs, v)
			missing[i] = math.IsNaN(float64(buf[i]))
		}
		a.floatBuf, a.extType, a.missing = buf, DtypeFloat, missing
		return nil
	}
	for i, raw := range c.data {
		if math.IsNaN(float64(raw)) {
			missing[i] = true
		} else if c.missing != nil && raw == *c.missing {
			missing[i] = true
		}
	}
	a.floatBuf, a.extType, a.missing = c.data, DtypeFloat, missing
	return nil
}

func (a *Accessor) VisitDouble(c *DoubleChunk) error {
	n := len(c.data)
	missing := make([]bool, n)
	buf := make([]float64, n)
	if c.scaling != nil {
		ds, ok := c.scaling.(DoubleScaling)
		if !ok {
			return fmt.Errorf("%w: double chunk carries a non-double scaling scheme", ErrInvalidChunkConfig)
		}
		for i, raw := range c.data {
			v := raw
			if c.missing != nil && v == *c.missing {
				v = math.NaN()
			}
			buf[i] = unscaleFloat64(ds, v)
			missing[i] = math.IsNaN(buf[i])
		}
		a.doubleBuf, a.extType, a.missing = buf, DtypeDouble, missing
		return nil
	}
	for i, raw := range c.data {
		if math.IsNaN(raw) {
			missing[i] = true
		} else if c.missing != nil && raw == *c.missing {
			missing[i] = true
		}
	}
	a.doubleBuf, a.extType, a.missing = c.data, DtypeDouble, missing
	return nil
}

func (a *Accessor) setFloatResult(target Dtype, vals []float64, missing []bool) {
	switch target {
	case DtypeFloat:
		buf := make([]float32, len(vals))
		for i, v := range vals {
			buf[i] = float32(v)
		}
		a.floatBuf, a.extType, a.missing = buf, DtypeFloat, missing
	case DtypeDouble:
		a.doubleBuf, a.extType, a.missing = vals, DtypeDouble, missing
	default:
		panic(fmt.Sprintf("setFloatResult: unexpected packing target %v", target))
	}
}

// unpackIntBuffer unpacks an entire raw integer buffer through a packing
// scheme, recording which positions ended up missing (NaN).
func unpackIntBuffer[T int8 | int16 | int32 | int64](p PackingScheme, raw []T, width Dtype, missing *T, unsigned bool, missingOut []bool) ([]float64, error) {
	var missingRaw *int64
	if missing != nil {
		m := int64(*missing)
		missingRaw = &m
	}
	out := make([]float64, len(raw))
	for i, r := range raw {
		v, err := unpackToFloat64(p, int64(r), width, missingRaw, unsigned)
		if err != nil {
			return nil, err
		}
		out[i] = v
		missingOut[i] = math.IsNaN(v)
	}
	return out, nil
}

func toInt64Slice[T int8 | int16 | int32](s []T) []int64 {
	out := make([]int64, len(s))
	for i, v := range s {
		out[i] = int64(v)
	}
	return out
}
