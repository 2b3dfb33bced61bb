package composite

import (
	"github.com/phollemans/gridcore/src/chunk"
	"github.com/phollemans/gridcore/src/chunking"
)

// CompositeMapApplicationFunction is phase B of the integer composite map:
// it applies a previously computed i16 map chunk to ChunkCount data chunks
// (any of which may be absent, meaning that slot was never fetched because
// the map never selected it) and produces one output chunk matching
// Prototype's external type.
type CompositeMapApplicationFunction struct {
	ChunkCount int
	Prototype  chunk.Chunk
}

// Apply implements the function.Function contract. inputs[0] must be the
// i16 map chunk; inputs[1:] are the ChunkCount data chunks, with a nil
// entry standing in for an absent ("None") slot.
func (f *CompositeMapApplicationFunction) Apply(pos chunking.Position, inputs []chunk.Chunk) (chunk.Chunk, error) {
	if len(inputs) != 1+f.ChunkCount {
		return nil, ErrChunkCountMismatch
	}
	mapChunk := inputs[0]
	if mapChunk.ExternalType() != chunk.DtypeShort {
		return nil, errUnsupportedExternalType
	}
	mapAccessor := chunk.NewAccessor()
	if err := mapChunk.Accept(mapAccessor); err != nil {
		return nil, err
	}

	data := inputs[1:]
	accessors := make([]*chunk.Accessor, f.ChunkCount)
	ext := f.Prototype.ExternalType()
	for k, c := range data {
		if c == nil {
			continue
		}
		a := chunk.NewAccessor()
		if err := c.Accept(a); err != nil {
			return nil, err
		}
		if a.ExternalType() != ext {
			return nil, chunk.ErrIncompatibleChunk
		}
		accessors[k] = a
	}

	n := pos.Values()
	out := f.Prototype.BlankCopyWithValues(n)
	missing := make([]bool, n)
	mod := chunk.NewModifier().SetMissingMask(missing)

	switch ext {
	case chunk.DtypeByte:
		buf := make([]int8, n)
		for e := 0; e < n; e++ {
			k, ok := sourceIndex(mapAccessor, accessors, e)
			if !ok {
				missing[e] = true
				continue
			}
			buf[e] = accessors[k].GetByteValue(e)
		}
		mod.SetByteValues(buf)
	case chunk.DtypeShort:
		buf := make([]int16, n)
		for e := 0; e < n; e++ {
			k, ok := sourceIndex(mapAccessor, accessors, e)
			if !ok {
				missing[e] = true
				continue
			}
			buf[e] = accessors[k].GetShortValue(e)
		}
		mod.SetShortValues(buf)
	case chunk.DtypeInt:
		buf := make([]int32, n)
		for e := 0; e < n; e++ {
			k, ok := sourceIndex(mapAccessor, accessors, e)
			if !ok {
				missing[e] = true
				continue
			}
			buf[e] = accessors[k].GetIntValue(e)
		}
		mod.SetIntValues(buf)
	case chunk.DtypeLong:
		buf := make([]int64, n)
		for e := 0; e < n; e++ {
			k, ok := sourceIndex(mapAccessor, accessors, e)
			if !ok {
				missing[e] = true
				continue
			}
			buf[e] = accessors[k].GetLongValue(e)
		}
		mod.SetLongValues(buf)
	case chunk.DtypeFloat:
		buf := make([]float32, n)
		for e := 0; e < n; e++ {
			k, ok := sourceIndex(mapAccessor, accessors, e)
			if !ok {
				missing[e] = true
				continue
			}
			buf[e] = accessors[k].GetFloatValue(e)
		}
		mod.SetFloatValues(buf)
	case chunk.DtypeDouble:
		buf := make([]float64, n)
		for e := 0; e < n; e++ {
			k, ok := sourceIndex(mapAccessor, accessors, e)
			if !ok {
				missing[e] = true
				continue
			}
			buf[e] = accessors[k].GetDoubleValue(e)
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

// sourceIndex resolves the data-chunk index to read element e from: the
// map must select a non-negative index, that slot's chunk must be present,
// and its value at e must itself not be missing.
func sourceIndex(mapAccessor *chunk.Accessor, accessors []*chunk.Accessor, e int) (int, bool) {
	if mapAccessor.IsMissing(e) {
		return 0, false
	}
	k := int(mapAccessor.GetShortValue(e))
	if k < 0 || k >= len(accessors) || accessors[k] == nil {
		return 0, false
	}
	if accessors[k].IsMissing(e) {
		return 0, false
	}
	return k, true
}

// Memory estimates peak bytes: inputCount buffers at the prototype's width
// (one per data slot, present or not, plus the output buffer, since
// inputCount also counts the map slot) plus the map chunk's i16 buffer.
func (f *CompositeMapApplicationFunction) Memory(pos chunking.Position, inputCount int) int64 {
	n := int64(pos.Values())
	width := int64(f.Prototype.ValueBytes())
	return width*n*int64(inputCount) + 2*n
}
