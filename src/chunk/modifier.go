package chunk

import (
	"fmt"
	"math"
)

// Modifier is the write-side dual of Accessor: the caller
// sets exactly one typed input buffer plus an optional missing mask, then
// visits the chunk; the modifier encodes into the chunk's raw buffer
// applying packing/scaling as needed. A float input whose value is NaN is
// always stored as the chunk's missing sentinel (or left as NaN when the
// chunk carries no sentinel).
type Modifier struct {
	byteBuf     []int8
	shortBuf    []int16
	intBuf      []int32
	longBuf     []int64
	floatBuf    []float32
	doubleBuf   []float64
	missingMask []bool
}

// NewModifier returns a fresh, unconfigured Modifier.
func NewModifier() *Modifier {
	return &Modifier{}
}

func (m *Modifier) SetByteValues(v []int8) *Modifier       { m.byteBuf = v; return m }
func (m *Modifier) SetShortValues(v []int16) *Modifier     { m.shortBuf = v; return m }
func (m *Modifier) SetIntValues(v []int32) *Modifier       { m.intBuf = v; return m }
func (m *Modifier) SetLongValues(v []int64) *Modifier      { m.longBuf = v; return m }
func (m *Modifier) SetFloatValues(v []float32) *Modifier   { m.floatBuf = v; return m }
func (m *Modifier) SetDoubleValues(v []float64) *Modifier  { m.doubleBuf = v; return m }
func (m *Modifier) SetMissingMask(mask []bool) *Modifier   { m.missingMask = mask; return m }

func (m *Modifier) isMissing(i int) bool {
	return m.missingMask != nil && m.missingMask[i]
}

func (m *Modifier) VisitByte(c *ByteChunk) error {
	if c.packing != nil {
		return modifyPackedInt(m, c.packing, c.data, DtypeByte, c.missing, c.unsigned, func(i int, raw int64) { c.data[i] = int8(raw) })
	}
	if c.unsigned {
		if m.shortBuf == nil {
			return fmt.Errorf("%w: expected short input for unsigned byte chunk", ErrTypeMismatch)
		}
		for i := range c.data {
			if m.isMissing(i) {
				if c.missing != nil {
					c.data[i] = *c.missing
				}
				continue
			}
			c.data[i] = int8(uint8(m.shortBuf[i]))
		}
		return nil
	}
	if m.byteBuf == nil {
		return fmt.Errorf("%w: expected byte input for signed byte chunk", ErrTypeMismatch)
	}
	for i := range c.data {
		if m.isMissing(i) {
			if c.missing != nil {
				c.data[i] = *c.missing
			}
			continue
		}
		c.data[i] = m.byteBuf[i]
	}
	return nil
}

func (m *Modifier) VisitShort(c *ShortChunk) error {
	if c.packing != nil {
		return modifyPackedInt(m, c.packing, c.data, DtypeShort, c.missing, c.unsigned, func(i int, raw int64) { c.data[i] = int16(raw) })
	}
	if c.unsigned {
		if m.intBuf == nil {
			return fmt.Errorf("%w: expected int input for unsigned short chunk", ErrTypeMismatch)
		}
		for i := range c.data {
			if m.isMissing(i) {
				if c.missing != nil {
					c.data[i] = *c.missing
				}
				continue
			}
			c.data[i] = int16(uint16(m.intBuf[i]))
		}
		return nil
	}
	if m.shortBuf == nil {
		return fmt.Errorf("%w: expected short input for signed short chunk", ErrTypeMismatch)
	}
	for i := range c.data {
		if m.isMissing(i) {
			if c.missing != nil {
				c.data[i] = *c.missing
			}
			continue
		}
		c.data[i] = m.shortBuf[i]
	}
	return nil
}

func (m *Modifier) VisitInt(c *IntChunk) error {
	if c.packing != nil {
		return modifyPackedInt(m, c.packing, c.data, DtypeInt, c.missing, c.unsigned, func(i int, raw int64) { c.data[i] = int32(raw) })
	}
	if c.unsigned {
		if m.longBuf == nil {
			return fmt.Errorf("%w: expected long input for unsigned int chunk", ErrTypeMismatch)
		}
		for i := range c.data {
			if m.isMissing(i) {
				if c.missing != nil {
					c.data[i] = *c.missing
				}
				continue
			}
			c.data[i] = int32(uint32(m.longBuf[i]))
		}
		return nil
	}
	if m.intBuf == nil {
		return fmt.Errorf("%w: expected int input for signed int chunk", ErrTypeMismatch)
	}
	for i := range c.data {
		if m.isMissing(i) {
			if c.missing != nil {
				c.data[i] = *c.missing
			}
			continue
		}
		c.data[i] = m.intBuf[i]
	}
	return nil
}

func (m *Modifier) VisitLong(c *LongChunk) error {
	if c.packing != nil {
		return modifyPackedInt(m, c.packing, c.data, DtypeLong, c.missing, false, func(i int, raw int64) { c.data[i] = raw })
	}
	if m.longBuf == nil {
		return fmt.Errorf("%w: expected long input for long chunk", ErrTypeMismatch)
	}
	for i := range c.data {
		if m.isMissing(i) {
			if c.missing != nil {
				c.data[i] = *c.missing
			}
			continue
		}
		c.data[i] = m.longBuf[i]
	}
	return nil
}

func (m *Modifier) VisitFloat(c *FloatChunk) error {
	if m.floatBuf == nil {
		return fmt.Errorf("%w: expected float input for float chunk", ErrTypeMismatch)
	}
	var fs FloatScaling
	hasScaling := false
	if c.scaling != nil {
		var ok bool
		fs, ok = c.scaling.(FloatScaling)
		if !ok {
			return fmt.Errorf("%w: float chunk carries a non-float scaling scheme", ErrInvalidChunkConfig)
		}
		hasScaling = true
	}
	for i := range c.data {
		v := m.floatBuf[i]
		if m.isMissing(i) {
			v = float32(math.NaN())
		}
		if math.IsNaN(float64(v)) {
			if c.missing != nil {
				c.data[i] = *c.missing
			} else {
				c.data[i] = v
			}
			continue
		}
		if hasScaling {
			c.data[i] = scaleFloat32(fs, v)
		} else {
			c.data[i] = v
		}
	}
	return nil
}

func (m *Modifier) VisitDouble(c *DoubleChunk) error {
	if m.doubleBuf == nil {
		return fmt.Errorf("%w: expected double input for double chunk", ErrTypeMismatch)
	}
	var ds DoubleScaling
	hasScaling := false
	if c.scaling != nil {
		var ok bool
		ds, ok = c.scaling.(DoubleScaling)
		if !ok {
			return fmt.Errorf("%w: double chunk carries a non-double scaling scheme", ErrInvalidChunkConfig)
		}
		hasScaling = true
	}
	for i := range c.data {
		v := m.doubleBuf[i]
		if m.isMissing(i) {
			v = math.NaN()
		}
		if math.IsNaN(v) {
			if c.missing != nil {
				c.data[i] = *c.missing
			} else {
				c.data[i] = v
			}
			continue
		}
		if hasScaling {
			c.data[i] = scaleFloat64(ds, v)
		} else {
			c.data[i] = v
		}
	}
	return nil
}

// modifyPackedInt encodes the modifier's float input buffer (matching the
// packing scheme's target type) into raw integer storage of width `width`.
func modifyPackedInt[T int8 | int16 | int32 | int64](m *Modifier, p PackingScheme, data []T, width Dtype, missing *T, unsigned bool, store func(i int, raw int64)) error {
	var missingRaw int64
	if missing != nil {
		missingRaw = int64(*missing)
	}
	switch p.targetType() {
	case DtypeFloat:
		if m.floatBuf == nil {
			return fmt.Errorf("%w: expected float input for packed chunk", ErrTypeMismatch)
		}
		for i := range data {
			v := float64(m.floatBuf[i])
			if m.isMissing(i) {
				v = math.NaN()
			}
			raw, err := packFromFloat64(p, v, width, missingRaw, unsigned)
			if err != nil {
				return err
			}
			store(i, raw)
		}
	case DtypeDouble:
		if m.doubleBuf == nil {
			return fmt.Errorf("%w: expected double input for packed chunk", ErrTypeMismatch)
		}
		for i := range data {
			v := m.doubleBuf[i]
			if m.isMissing(i) {
				v = math.NaN()
			}
			raw, err := packFromFloat64(p, v, width, missingRaw, unsigned)
			if err != nil {
				return err
			}
			store(i, raw)
		}
	default:
		panic(fmt.Sprintf("modifyPackedInt: unexpected packing target %v", p.targetType()))
	}
	return nil
}
