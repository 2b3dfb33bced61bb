package composite

import (
	"github.com/phollemans/gridcore/src/chunk"
	"github.com/phollemans/gridcore/src/chunking"
)

// ReductionComposite reduces N same-shaped input chunks to one output
// chunk, element by element, by gathering the non-missing values present
// at that element across all inputs and running them through Operator.
// Elements with fewer than MinValid non-missing inputs are missing in the
// output.
type ReductionComposite struct {
	Operator  ReductionOperator
	MinValid  int
	Prototype chunk.Chunk
}

// Apply implements the function.Function contract.
func (r *ReductionComposite) Apply(pos chunking.Position, inputs []chunk.Chunk) (chunk.Chunk, error) {
	minValid := r.MinValid
	if minValid < 1 {
		minValid = 1
	}

	detector := NewValidChunkDetector()
	usable := 0
	for _, in := range inputs {
		ok, err := detector.HasAnyValid(in)
		if err != nil {
			return nil, err
		}
		if ok {
			usable++
		}
	}
	if usable < minValid {
		return nil, nil
	}

	ext := r.Prototype.ExternalType()
	accessors := make([]*chunk.Accessor, len(inputs))
	for i, in := range inputs {
		a := chunk.NewAccessor()
		if err := in.Accept(a); err != nil {
			return nil, err
		}
		if a.ExternalType() != ext {
			return nil, chunk.ErrIncompatibleChunk
		}
		accessors[i] = a
	}

	n := pos.Values()
	out := r.Prototype.BlankCopyWithValues(n)
	missing := make([]bool, n)
	mod := chunk.NewModifier().SetMissingMask(missing)

	switch ext {
	case chunk.DtypeByte:
		buf := make([]int8, n)
		scratch := make([]int8, 0, len(accessors))
		for e := 0; e < n; e++ {
			scratch = scratch[:0]
			for _, a := range accessors {
				if !a.IsMissing(e) {
					scratch = append(scratch, a.GetByteValue(e))
				}
			}
			if len(scratch) < minValid {
				missing[e] = true
				continue
			}
			buf[e] = r.Operator.ReduceByte(scratch)
		}
		mod.SetByteValues(buf)
	case chunk.DtypeShort:
		buf := make([]int16, n)
		scratch := make([]int16, 0, len(accessors))
		for e := 0; e < n; e++ {
			scratch = scratch[:0]
			for _, a := range accessors {
				if !a.IsMissing(e) {
					scratch = append(scratch, a.GetShortValue(e))
				}
			}
			if len(scratch) < minValid {
				missing[e] = true
				continue
			}
			buf[e] = r.Operator.ReduceShort(scratch)
		}
		mod.SetShortValues(buf)
	case chunk.DtypeInt:
		buf := make([]int32, n)
		scratch := make([]int32, 0, len(accessors))
		for e := 0; e < n; e++ {
			scratch = scratch[:0]
			for _, a := range accessors {
				if !a.IsMissing(e) {
					scratch = append(scratch, a.GetIntValue(e))
				}
			}
			if len(scratch) < minValid {
				missing[e] = true
				continue
			}
			buf[e] = r.Operator.ReduceInt(scratch)
		}
		mod.SetIntValues(buf)
	case chunk.DtypeLong:
		buf := make([]int64, n)
		scratch := make([]int64, 0, len(accessors))
		for e := 0; e < n; e++ {
			scratch = scratch[:0]
			for _, a := range accessors {
				if !a.IsMissing(e) {
					scratch = append(scratch, a.GetLongValue(e))
				}
			}
			if len(scratch) < minValid {
				missing[e] = true
				continue
			}
			buf[e] = r.Operator.ReduceLong(scratch)
		}
		mod.SetLongValues(buf)
	case chunk.DtypeFloat:
		buf := make([]float32, n)
		scratch := make([]float32, 0, len(accessors))
		for e := 0; e < n; e++ {
			scratch = scratch[:0]
			for _, a := range accessors {
				if !a.IsMissing(e) {
					scratch = append(scratch, a.GetFloatValue(e))
				}
			}
			if len(scratch) < minValid {
				missing[e] = true
				continue
			}
			buf[e] = r.Operator.ReduceFloat(scratch)
		}
		mod.SetFloatValues(buf)
	case chunk.DtypeDouble:
		buf := make([]float64, n)
		scratch := make([]float64, 0, len(accessors))
		for e := 0; e < n; e++ {
			scratch = scratch[:0]
			for _, a := range accessors {
				if !a.IsMissing(e) {
					scratch = append(scratch, a.GetDoubleValue(e))
				}
			}
			if len(scratch) < minValid {
				missing[e] = true
				continue
			}
			buf[e] = r.Operator.ReduceDouble(scratch)
		}
		mod.SetDoubleValues(buf)
	default:
		return nil, errUnsupportedExternalType
	}

	if err := out.Accept(mod); err != nil {
		return nil, err
	}
	return out, nil
}

// Memory estimates peak bytes: one accessor buffer per input plus the
// output buffer, all sized at the prototype's value width.
func (r *ReductionComposite) Memory(pos chunking.Position, inputCount int) int64 {
	n := int64(pos.Values())
	width := int64(r.Prototype.ValueBytes())
	return width * n * int64(inputCount+1)
}
