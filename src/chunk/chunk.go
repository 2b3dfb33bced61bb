package chunk

import "fmt"

// Chunk is a bounded primitive buffer with missing/scheme/unsigned
// metadata — one tile of a larger gridded array. There are exactly six
// concrete implementations, one per primitive storage width.
type Chunk interface {
	// ExternalType is the type accessors hand out: the packing/scaling
	// target type if present, else the unsigned-widened integer type, else
	// the raw storage type.
	ExternalType() Dtype
	// Values returns the number of primitive elements this chunk holds.
	Values() int
	// PrimitiveData borrows the raw backing buffer for I/O pass-through
	// only; its concrete type is one of []int8/[]int16/[]int32/[]int64/
	// []float32/[]float64, matching the chunk's own storage width.
	PrimitiveData() any
	// Accept single-dispatches to the visitor method matching this
	// chunk's concrete variant.
	Accept(ChunkVisitor) error
	// BlankCopy allocates a new chunk sharing this one's missing/scheme/
	// unsigned metadata, with an uninitialized buffer of the same length.
	BlankCopy() Chunk
	// BlankCopyWithValues is BlankCopy but with an explicit buffer length.
	BlankCopyWithValues(n int) Chunk
	// IsCompatible reports whether other may be accepted by a consumer
	// whose prototype is this chunk.
	IsCompatible(other Chunk) bool
	// ValueBytes is the width, in bytes, of one raw storage element.
	ValueBytes() int
}

// ChunkVisitor single-dispatches over the six concrete chunk variants.
// Accessor, Modifier and Flagger all implement this interface.
type ChunkVisitor interface {
	VisitByte(*ByteChunk) error
	VisitShort(*ShortChunk) error
	VisitInt(*IntChunk) error
	VisitLong(*LongChunk) error
	VisitFloat(*FloatChunk) error
	VisitDouble(*DoubleChunk) error
}

// ByteChunk stores 8-bit integers, optionally unsigned and/or packed.
type ByteChunk struct {
	data     []int8
	missing  *int8
	unsigned bool
	packing  PackingScheme
}

// ShortChunk stores 16-bit integers, optionally unsigned and/or packed.
type ShortChunk struct {
	data     []int16
	missing  *int16
	unsigned bool
	packing  PackingScheme
}

// IntChunk stores 32-bit integers, optionally unsigned and/or packed.
type IntChunk struct {
	data     []int32
	missing  *int32
	unsigned bool
	packing  PackingScheme
}

// LongChunk stores 64-bit integers, optionally packed. Unsigned int64 is an
// explicit non-goal: the unsigned flag is always false for this variant.
type LongChunk struct {
	data    []int64
	missing *int64
	packing PackingScheme
}

// FloatChunk stores 32-bit floats, optionally scaled.
type FloatChunk struct {
	data    []float32
	missing *float32
	scaling ScalingScheme
}

// DoubleChunk stores 64-bit floats, optionally scaled.
type DoubleChunk struct {
	data    []float64
	missing *float64
	scaling ScalingScheme
}

// NewByteChunk validates and constructs a ByteChunk. packing, when
// non-nil, must be a FloatPacking or DoublePacking and requires a missing
// sentinel (non-finite pack inputs have nowhere else to go).
func NewByteChunk(data []int8, missing *int8, unsigned bool, packing PackingScheme) (*ByteChunk, error) {
	if err := validatePacking(packing, missing, unsigned); err != nil {
		return nil, err
	}
	return &ByteChunk{data: data, missing: missing, unsigned: unsigned, packing: packing}, nil
}

// NewShortChunk validates and constructs a ShortChunk.
func NewShortChunk(data []int16, missing *int16, unsigned bool, packing PackingScheme) (*ShortChunk, error) {
	if err := validatePacking(packing, missing, unsigned); err != nil {
		return nil, err
	}
	return &ShortChunk{data: data, missing: missing, unsigned: unsigned, packing: packing}, nil
}

// NewIntChunk validates and constructs an IntChunk.
func NewIntChunk(data []int32, missing *int32, unsigned bool, packing PackingScheme) (*IntChunk, error) {
	if err := validatePacking(packing, missing, unsigned); err != nil {
		return nil, err
	}
	return &IntChunk{data: data, missing: missing, unsigned: unsigned, packing: packing}, nil
}

// NewLongChunk validates and constructs a LongChunk. Unsigned int64 is
// always false for this variant, so packing is never rejected on that
// account here.
func NewLongChunk(data []int64, missing *int64, packing PackingScheme) (*LongChunk, error) {
	if err := validatePacking(packing, missing, false); err != nil {
		return nil, err
	}
	return &LongChunk{data: data, missing: missing, packing: packing}, nil
}

// NewFloatChunk validates and constructs a FloatChunk. scaling, when
// non-nil, must be a FloatScaling (mixing widths is a hard error).
func NewFloatChunk(data []float32, missing *float32, scaling ScalingScheme) (*FloatChunk, error) {
	if err := validateScaling(scaling, DtypeFloat); err != nil {
		return nil, err
	}
	return &FloatChunk{data: data, missing: missing, scaling: scaling}, nil
}

// NewDoubleChunk validates and constructs a DoubleChunk.
func NewDoubleChunk(data []float64, missing *float64, scaling ScalingScheme) (*DoubleChunk, error) {
	if err := validateScaling(scaling, DtypeDouble); err != nil {
		return nil, err
	}
	return &DoubleChunk{data: data, missing: missing, scaling: scaling}, nil
}

func validatePacking(p PackingScheme, missing any, unsigned bool) error {
	if p == nil {
		return nil
	}
	switch p.(type) {
	case FloatPacking, DoublePacking:
	default:
		return fmt.Errorf("%w: unknown packing scheme %T", ErrInvalidChunkConfig, p)
	}
	if missing == nil || (missing != nil && isNilTypedPointer(missing)) {
		return fmt.Errorf("%w: packing requires a missing sentinel", ErrInvalidChunkConfig)
	}
	if unsigned {
		return fmt.Errorf("%w: unsigned-int-to-float packing is not supported", ErrInvalidChunkConfig)
	}
	return nil
}

func validateScaling(s ScalingScheme, chunkWidth Dtype) error {
	if s == nil {
		return nil
	}
	if s.width() != chunkWidth {
		return fmt.Errorf("%w: %v", ErrInvalidChunkConfig, errMixedSchemeWidth)
	}
	return nil
}

// isNilTypedPointer catches the case where a typed nil pointer (e.g. a nil
// *int8) is passed through an `any` parameter, which is not == nil.
func isNilTypedPointer(v any) bool {
	switch p := v.(type) {
	case *int8:
		return p == nil
	case *int16:
		return p == nil
	case *int32:
		return p == nil
	case *int64:
		return p == nil
	case *float32:
		return p == nil
	case *float64:
		return p == nil
	default:
		return false
	}
}

// Values returns the number of primitive elements.
func (c *ByteChunk) Values() int { return len(c.data) }
func (c *ShortChunk) Values() int { return len(c.data) }
func (c *IntChunk) Values() int { return len(c.data) }
func (c *LongChunk) Values() int { return len(c.data) }
func (c *FloatChunk) Values() int { return len(c.data) }
func (c *DoubleChunk) Values() int { return len(c.data) }

// PrimitiveData borrows the raw backing buffer.
func (c *ByteChunk) PrimitiveData() any { return c.data }
func (c *ShortChunk) PrimitiveData() any { return c.data }
func (c *IntChunk) PrimitiveData() any { return c.data }
func (c *LongChunk) PrimitiveData() any { return c.data }
func (c *FloatChunk) PrimitiveData() any { return c.data }
func (c *DoubleChunk) PrimitiveData() any { return c.data }

// ValueBytes is the width, in bytes, of one raw storage element.
func (c *ByteChunk) ValueBytes() int { return DtypeByte.ValueBytes() }
func (c *ShortChunk) ValueBytes() int { return DtypeShort.ValueBytes() }
func (c *IntChunk) ValueBytes() int { return DtypeInt.ValueBytes() }
func (c *LongChunk) ValueBytes() int { return DtypeLong.ValueBytes() }
func (c *FloatChunk) ValueBytes() int { return DtypeFloat.ValueBytes() }
func (c *DoubleChunk) ValueBytes() int { return DtypeDouble.ValueBytes() }

// Accept single-dispatches to the matching visitor method.
func (c *ByteChunk) Accept(v ChunkVisitor) error { return v.VisitByte(c) }
func (c *ShortChunk) Accept(v ChunkVisitor) error { return v.VisitShort(c) }
func (c *IntChunk) Accept(v ChunkVisitor) error { return v.VisitInt(c) }
func (c *LongChunk) Accept(v ChunkVisitor) error { return v.VisitLong(c) }
func (c *FloatChunk) Accept(v ChunkVisitor) error { return v.VisitFloat(c) }
func (c *DoubleChunk) Accept(v ChunkVisitor) error { return v.VisitDouble(c) }

// ExternalType computes the advertised external type: the packing/scaling
// target if present, else the unsigned-widened integer type, else the raw
// storage type.
func (c *ByteChunk) ExternalType() Dtype {
	if c.packing != nil {
		return c.packing.targetType()
	}
	if c.unsigned {
		return DtypeByte.widenedUnsigned()
	}
	return DtypeByte
}

func (c *ShortChunk) ExternalType() Dtype {
	if c.packing != nil {
		return c.packing.targetType()
	}
	if c.unsigned {
		return DtypeShort.widenedUnsigned()
	}
	return DtypeShort
}

func (c *IntChunk) ExternalType() Dtype {
	if c.packing != nil {
		return c.packing.targetType()
	}
	if c.unsigned {
		return DtypeInt.widenedUnsigned()
	}
	return DtypeInt
}

func (c *LongChunk) ExternalType() Dtype {
	if c.packing != nil {
		return c.packing.targetType()
	}
	return DtypeLong
}

// ExternalType is always DtypeFloat: scaling stays within the same float
// width, so it never changes what accessors hand out.
func (c *FloatChunk) ExternalType() Dtype { return DtypeFloat }

// ExternalType is always DtypeDouble, for the same reason as FloatChunk.
func (c *DoubleChunk) ExternalType() Dtype { return DtypeDouble }

// BlankCopy allocates a same-metadata chunk with an uninitialized buffer of
// the same length as this one.
func (c *ByteChunk) BlankCopy() Chunk { return c.BlankCopyWithValues(len(c.data)) }
func (c *ShortChunk) BlankCopy() Chunk { return c.BlankCopyWithValues(len(c.data)) }
func (c *IntChunk) BlankCopy() Chunk { return c.BlankCopyWithValues(len(c.data)) }
func (c *LongChunk) BlankCopy() Chunk { return c.BlankCopyWithValues(len(c.data)) }
func (c *FloatChunk) BlankCopy() Chunk { return c.BlankCopyWithValues(len(c.data)) }
func (c *DoubleChunk) BlankCopy() Chunk { return c.BlankCopyWithValues(len(c.data)) }

func (c *ByteChunk) BlankCopyWithValues(n int) Chunk {
	return &ByteChunk{data: make([]int8, n), missing: c.missing, unsigned: c.unsigned, packing: c.packing}
}

func (c *ShortChunk) BlankCopyWithValues(n int) Chunk {
	return &ShortChunk{data: make([]int16, n), missing: c.missing, unsigned: c.unsigned, packing: c.packing}
}

func (c *IntChunk) BlankCopyWithValues(n int) Chunk {
	return &IntChunk{data: make([]int32, n), missing: c.missing, unsigned: c.unsigned, packing: c.packing}
}

func (c *LongChunk) BlankCopyWithValues(n int) Chunk {
	return &LongChunk{data: make([]int64, n), missing: c.missing, packing: c.packing}
}

func (c *FloatChunk) BlankCopyWithValues(n int) Chunk {
	return &FloatChunk{data: make([]float32, n), missing: c.missing, scaling: c.scaling}
}

func (c *DoubleChunk) BlankCopyWithValues(n int) Chunk {
	return &DoubleChunk{data: make([]float64, n), missing: c.missing, scaling: c.scaling}
}

// IsCompatible reports whether other is compatible with this chunk.
func (c *ByteChunk) IsCompatible(other Chunk) bool { return Compatible(c, other) }
func (c *ShortChunk) IsCompatible(other Chunk) bool { return Compatible(c, other) }
func (c *IntChunk) IsCompatible(other Chunk) bool { return Compatible(c, other) }
func (c *LongChunk) IsCompatible(other Chunk) bool { return Compatible(c, other) }
func (c *FloatChunk) IsCompatible(other Chunk) bool { return Compatible(c, other) }
func (c *DoubleChunk) IsCompatible(other Chunk) bool { return Compatible(c, other) }

// Compatible reports whether two chunks are compatible: same variant, same
// missing (both absent or equal), same scheme (both absent or equal) and
// — for integer variants — same unsigned flag. One function, one type
// switch, rather than scattering variant-pairing logic across methods.
func Compatible(a, b Chunk) bool {
	switch at := a.(type) {
	case *ByteChunk:
		bt, ok := b.(*ByteChunk)
		return ok && at.unsigned == bt.unsigned && samePtr(at.missing, bt.missing) && packingEqual(at.packing, bt.packing)
	case *ShortChunk:
		bt, ok := b.(*ShortChunk)
		return ok && at.unsigned == bt.unsigned && samePtr(at.missing, bt.missing) && packingEqual(at.packing, bt.packing)
	case *IntChunk:
		bt, ok := b.(*IntChunk)
		return ok && at.unsigned == bt.unsigned && samePtr(at.missing, bt.missing) && packingEqual(at.packing, bt.packing)
	case *LongChunk:
		bt, ok := b.(*LongChunk)
		return ok && samePtr(at.missing, bt.missing) && packingEqual(at.packing, bt.packing)
	case *FloatChunk:
		bt, ok := b.(*FloatChunk)
		return ok && samePtr(at.missing, bt.missing) && scalingEqual(at.scaling, bt.scaling)
	case *DoubleChunk:
		bt, ok := b.(*DoubleChunk)
		return ok && samePtr(at.missing, bt.missing) && scalingEqual(at.scaling, bt.scaling)
	default:
		panic(fmt.Sprintf("Compatible: unknown chunk variant %T", a))
	}
}

func samePtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
