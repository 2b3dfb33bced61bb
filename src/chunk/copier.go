package chunk

import "fmt"

// Copier moves one raw value from a source chunk index to a destination
// chunk index. Both chunks must be the same concrete variant; the copier
// reuses whatever raw representation they hold, so no packing/scaling is
// applied (that is the accessor/modifier's job, not the copier's).
type Copier struct{}

// NewCopier returns a Copier. It carries no state — copies are
// parameterized per call, so one Copier can be shared across goroutines.
func NewCopier() Copier { return Copier{} }

// Copy copies src[i] into dst[j]. Mirrors the Compatible type switch: one
// function, one exhaustive switch over the six variants, rather than a
// double-dispatch visitor pair for a single scalar move.
func (Copier) Copy(src Chunk, i int, dst Chunk, j int) error {
	switch s := src.(type) {
	case *ByteChunk:
		d, ok := dst.(*ByteChunk)
		if !ok {
			return errVariantMismatch(src, dst)
		}
		d.data[j] = s.data[i]
	case *ShortChunk:
		d, ok := dst.(*ShortChunk)
		if !ok {
			return errVariantMismatch(src, dst)
		}
		d.data[j] = s.data[i]
	case *IntChunk:
		d, ok := dst.(*IntChunk)
		if !ok {
			return errVariantMismatch(src, dst)
		}
		d.data[j] = s.data[i]
	case *LongChunk:
		d, ok := dst.(*LongChunk)
		if !ok {
			return errVariantMismatch(src, dst)
		}
		d.data[j] = s.data[i]
	case *FloatChunk:
		d, ok := dst.(*FloatChunk)
		if !ok {
			return errVariantMismatch(src, dst)
		}
		d.data[j] = s.data[i]
	case *DoubleChunk:
		d, ok := dst.(*DoubleChunk)
		if !ok {
			return errVariantMismatch(src, dst)
		}
		d.data[j] = s.data[i]
	default:
		panic(fmt.Sprintf("Copier.Copy: unknown chunk variant %T", src))
	}
	return nil
}

func errVariantMismatch(src, dst Chunk) error {
	return fmt.Errorf("%w: cannot copy between %T and %T", errAppendTypeMismatch, src, dst)
}
