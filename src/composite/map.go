package composite

import (
	"errors"

	"github.com/phollemans/gridcore/src/chunk"
	"github.com/phollemans/gridcore/src/chunking"
)

// ErrInvalidMapConfig is returned by NewCompositeMapFunction when neither an
// optimization comparator nor any priority variables were supplied — with
// neither, the selection rule can never choose a source.
var ErrInvalidMapConfig = errors.New("composite map requires an optimization comparator or at least one priority variable")

// mapMissingValue is the i16 sentinel for "no source selected".
const mapMissingValue int16 = -1

// CompositeMapFunction is phase A of the integer composite map: it picks,
// per element, which of ChunkCount candidate source chunks should supply
// the value. Priority variables are tried in order; among one variable's
// valid candidates the optimization comparator picks, when an optimization
// variable is present, else the last valid candidate wins. Only when there
// are no priority variables does the optimization comparator alone pick
// among all candidates.
type CompositeMapFunction struct {
	ChunkCount       int
	HasOptimization  bool
	PriorityVarCount int
	// OptComparator reports whether candidate should replace best as the
	// preferred optimization value. Defaults to "candidate > best" (pick
	// the maximum) when nil.
	OptComparator func(candidate, best float64) bool
}

// NewCompositeMapFunction validates that at least one selection strategy is
// configured before returning f.
func NewCompositeMapFunction(chunkCount int, hasOptimization bool, optComparator func(candidate, best float64) bool, priorityVarCount int) (*CompositeMapFunction, error) {
	if !hasOptimization && priorityVarCount == 0 {
		return nil, ErrInvalidMapConfig
	}
	return &CompositeMapFunction{
		ChunkCount:       chunkCount,
		HasOptimization:  hasOptimization,
		PriorityVarCount: priorityVarCount,
		OptComparator:    optComparator,
	}, nil
}

func (f *CompositeMapFunction) prefer(candidate, best float64) bool {
	if f.OptComparator != nil {
		return f.OptComparator(candidate, best)
	}
	return candidate > best
}

func (f *CompositeMapFunction) expectedInputs() int {
	expected := f.PriorityVarCount * f.ChunkCount
	if f.HasOptimization {
		expected += f.ChunkCount
	}
	return expected
}

// Apply implements the function.Function contract, producing a single i16
// map chunk of pos's size.
func (f *CompositeMapFunction) Apply(pos chunking.Position, inputs []chunk.Chunk) (chunk.Chunk, error) {
	if len(inputs) != f.expectedInputs() {
		return nil, ErrChunkCountMismatch
	}

	detector := NewValidChunkDetector()
	offset := 0
	var optAccessors []*chunk.Accessor
	if f.HasOptimization {
		optAccessors = make([]*chunk.Accessor, f.ChunkCount)
		for k := 0; k < f.ChunkCount; k++ {
			acc, err := accessorUnlessEntirelyInvalid(detector, inputs[offset+k])
			if err != nil {
				return nil, err
			}
			optAccessors[k] = acc
		}
		offset += f.ChunkCount
	}

	priorityAccessors := make([][]*chunk.Accessor, f.PriorityVarCount)
	for v := 0; v < f.PriorityVarCount; v++ {
		priorityAccessors[v] = make([]*chunk.Accessor, f.ChunkCount)
		for k := 0; k < f.ChunkCount; k++ {
			acc, err := accessorUnlessEntirelyInvalid(detector, inputs[offset+k])
			if err != nil {
				return nil, err
			}
			priorityAccessors[v][k] = acc
		}
		offset += f.ChunkCount
	}

	n := pos.Values()
	out := make([]int16, n)

	for e := 0; e < n; e++ {
		selected := -1
	priorityLoop:
		for v := 0; v < f.PriorityVarCount; v++ {
			var candidates []int
			for k := 0; k < f.ChunkCount; k++ {
				acc := priorityAccessors[v][k]
				if acc != nil && !acc.IsMissing(e) {
					candidates = append(candidates, k)
				}
			}
			if len(candidates) == 0 {
				continue
			}
			if f.HasOptimization {
				best := -1
				var bestVal float64
				for _, k := range candidates {
					oacc := optAccessors[k]
					if oacc == nil || oacc.IsMissing(e) {
						continue
					}
					val := floatValueAt(oacc, e)
					if best == -1 || f.prefer(val, bestVal) {
						best, bestVal = k, val
					}
				}
				if best == -1 {
					continue priorityLoop
				}
				selected = best
			} else {
				selected = candidates[len(candidates)-1]
			}
			break
		}
		if selected == -1 && f.HasOptimization && f.PriorityVarCount == 0 {
			best := -1
			var bestVal float64
			for k := 0; k < f.ChunkCount; k++ {
				oacc := optAccessors[k]
				if oacc == nil || oacc.IsMissing(e) {
					continue
				}
				val := floatValueAt(oacc, e)
				if best == -1 || f.prefer(val, bestVal) {
					best, bestVal = k, val
				}
			}
			selected = best
		}
		out[e] = int16(selected)
	}

	sentinel := mapMissingValue
	return chunk.NewShortChunk(out, &sentinel, false, nil)
}

// Memory estimates peak bytes: one 2-byte-per-element buffer per input
// chunk plus the i16 output buffer.
func (f *CompositeMapFunction) Memory(pos chunking.Position, inputCount int) int64 {
	n := int64(pos.Values())
	return 2*n*int64(inputCount+1)
}

// accessorUnlessEntirelyInvalid skips wrapping a chunk in an Accessor when
// it has no valid elements at all — such a chunk can never be selected, so
// there is no reason to pay the per-element IsMissing cost for it.
func accessorUnlessEntirelyInvalid(detector *ValidChunkDetector, c chunk.Chunk) (*chunk.Accessor, error) {
	bm, err := detector.Detect(c)
	if err != nil {
		return nil, err
	}
	if bm.Count() == c.Values() {
		return nil, nil
	}
	a := chunk.NewAccessor()
	if err := c.Accept(a); err != nil {
		return nil, err
	}
	return a, nil
}

func floatValueAt(a *chunk.Accessor, i int) float64 {
	switch a.ExternalType() {
	case chunk.DtypeByte:
		return float64(a.GetByteValue(i))
	case chunk.DtypeShort:
		return float64(a.GetShortValue(i))
	case chunk.DtypeInt:
		return float64(a.GetIntValue(i))
	case chunk.DtypeLong:
		return float64(a.GetLongValue(i))
	case chunk.DtypeFloat:
		return float64(a.GetFloatValue(i))
	case chunk.DtypeDouble:
		return a.GetDoubleValue(i)
	default:
		return 0
	}
}
