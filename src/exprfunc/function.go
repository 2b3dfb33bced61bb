package exprfunc

import (
	"fmt"
	"math"

	"github.com/phollemans/gridcore/src/chunk"
	"github.com/phollemans/gridcore/src/chunking"
)

// ExpressionFunction binds a Parser to N input chunks in a fixed order
// matching the parser's declared variables, and implements the function.Function
// contract by duck typing (Apply, Memory) without importing that package.
type ExpressionFunction struct {
	Parser Parser
	// SkipMissing, when set, marks an output element missing without
	// evaluating the expression whenever any input is missing there.
	SkipMissing bool
	// MissingSentinel is the raw value stamped into integer/boolean result
	// chunks at missing positions. Float/double results use NaN instead
	// and ignore this field.
	MissingSentinel int64
}

// accessorSource adapts a slice of per-variable chunk.Accessor into a
// ValueSource for one element index.
type accessorSource struct {
	accessors []*chunk.Accessor
	i         int
}

func (s accessorSource) GetByteProperty(v int) int8      { return s.accessors[v].GetByteValue(s.i) }
func (s accessorSource) GetShortProperty(v int) int16    { return s.accessors[v].GetShortValue(s.i) }
func (s accessorSource) GetIntProperty(v int) int32      { return s.accessors[v].GetIntValue(s.i) }
func (s accessorSource) GetLongProperty(v int) int64     { return s.accessors[v].GetLongValue(s.i) }
func (s accessorSource) GetFloatProperty(v int) float32  { return s.accessors[v].GetFloatValue(s.i) }
func (s accessorSource) GetDoubleProperty(v int) float64 { return s.accessors[v].GetDoubleValue(s.i) }

func (f *ExpressionFunction) anyMissing(accessors []*chunk.Accessor, i int) bool {
	for _, a := range accessors {
		if a.IsMissing(i) {
			return true
		}
	}
	return false
}

// Apply evaluates the expression at every element of pos, wrapping each
// input chunk (bound positionally to f.Parser.Variables()) in an accessor.
func (f *ExpressionFunction) Apply(pos chunking.Position, inputs []chunk.Chunk) (chunk.Chunk, error) {
	n := pos.Values()
	accessors := make([]*chunk.Accessor, len(inputs))
	for i, in := range inputs {
		a := chunk.NewAccessor()
		if err := in.Accept(a); err != nil {
			return nil, err
		}
		accessors[i] = a
	}

	switch f.Parser.ResultType() {
	case ResultBool, ResultByte:
		return f.applyByte(pos, n, accessors)
	case ResultShort:
		return f.applyShort(pos, n, accessors)
	case ResultInt:
		return f.applyInt(pos, n, accessors)
	case ResultLong:
		return f.applyLong(pos, n, accessors)
	case ResultFloat:
		return f.applyFloat(pos, n, accessors)
	case ResultDouble:
		return f.applyDouble(pos, n, accessors)
	default:
		return nil, fmt.Errorf("%w: %v", errUnknownResultType, f.Parser.ResultType())
	}
}

func (f *ExpressionFunction) applyByte(pos chunking.Position, n int, accessors []*chunk.Accessor) (chunk.Chunk, error) {
	data := make([]int8, n)
	var anyMissing bool
	isBool := f.Parser.ResultType() == ResultBool
	for i := 0; i < n; i++ {
		if f.SkipMissing && f.anyMissing(accessors, i) {
			data[i] = int8(f.MissingSentinel)
			anyMissing = true
			continue
		}
		src := accessorSource{accessors, i}
		if isBool {
			v, err := f.Parser.EvaluateToBool(src)
			if err != nil {
				return nil, &EvaluationFailure{Underlying: err}
			}
			if v {
				data[i] = 1
			}
			continue
		}
		v, err := f.Parser.EvaluateToByte(src)
		if err != nil {
			return nil, &EvaluationFailure{Underlying: err}
		}
		data[i] = v
	}
	var missing *int8
	if anyMissing {
		m := int8(f.MissingSentinel)
		missing = &m
	}
	return chunk.NewByteChunk(data, missing, false, nil)
}

func (f *ExpressionFunction) applyShort(pos chunking.Position, n int, accessors []*chunk.Accessor) (chunk.Chunk, error) {
	data := make([]int16, n)
	var anyMissing bool
	for i := 0; i < n; i++ {
		if f.SkipMissing && f.anyMissing(accessors, i) {
			data[i] = int16(f.MissingSentinel)
			anyMissing = true
			continue
		}
		v, err := f.Parser.EvaluateToShort(accessorSource{accessors, i})
		if err != nil {
			return nil, &EvaluationFailure{Underlying: err}
		}
		data[i] = v
	}
	var missing *int16
	if anyMissing {
		m := int16(f.MissingSentinel)
		missing = &m
	}
	return chunk.NewShortChunk(data, missing, false, nil)
}

func (f *ExpressionFunction) applyInt(pos chunking.Position, n int, accessors []*chunk.Accessor) (chunk.Chunk, error) {
	data := make([]int32, n)
	var anyMissing bool
	for i := 0; i < n; i++ {
		if f.SkipMissing && f.anyMissing(accessors, i) {
			data[i] = int32(f.MissingSentinel)
			anyMissing = true
			continue
		}
		v, err := f.Parser.EvaluateToInt(accessorSource{accessors, i})
		if err != nil {
			return nil, &EvaluationFailure{Underlying: err}
		}
		data[i] = v
	}
	var missing *int32
	if anyMissing {
		m := int32(f.MissingSentinel)
		missing = &m
	}
	return chunk.NewIntChunk(data, missing, false, nil)
}

func (f *ExpressionFunction) applyLong(pos chunking.Position, n int, accessors []*chunk.Accessor) (chunk.Chunk, error) {
	data := make([]int64, n)
	var anyMissing bool
	for i := 0; i < n; i++ {
		if f.SkipMissing && f.anyMissing(accessors, i) {
			data[i] = f.MissingSentinel
			anyMissing = true
			continue
		}
		v, err := f.Parser.EvaluateToLong(accessorSource{accessors, i})
		if err != nil {
			return nil, &EvaluationFailure{Underlying: err}
		}
		data[i] = v
	}
	var missing *int64
	if anyMissing {
		m := f.MissingSentinel
		missing = &m
	}
	return chunk.NewLongChunk(data, missing, nil)
}

func (f *ExpressionFunction) applyFloat(pos chunking.Position, n int, accessors []*chunk.Accessor) (chunk.Chunk, error) {
	data := make([]float32, n)
	for i := 0; i < n; i++ {
		if f.SkipMissing && f.anyMissing(accessors, i) {
			data[i] = float32(math.NaN())
			continue
		}
		v, err := f.Parser.EvaluateToFloat(accessorSource{accessors, i})
		if err != nil {
			return nil, &EvaluationFailure{Underlying: err}
		}
		data[i] = v
	}
	return chunk.NewFloatChunk(data, nil, nil)
}

func (f *ExpressionFunction) applyDouble(pos chunking.Position, n int, accessors []*chunk.Accessor) (chunk.Chunk, error) {
	data := make([]float64, n)
	for i := 0; i < n; i++ {
		if f.SkipMissing && f.anyMissing(accessors, i) {
			data[i] = math.NaN()
			continue
		}
		v, err := f.Parser.EvaluateToDouble(accessorSource{accessors, i})
		if err != nil {
			return nil, &EvaluationFailure{Underlying: err}
		}
		data[i] = v
	}
	return chunk.NewDoubleChunk(data, nil, nil)
}

// Memory estimates temporary buffer use: one access buffer per variable,
// plus an element-indexed missing mask when the result type is
// integer/boolean (float/double results use NaN in place of a mask).
func (f *ExpressionFunction) Memory(pos chunking.Position, inputCount int) int64 {
	n := int64(pos.Values())
	var total int64
	for _, name := range f.Parser.Variables() {
		total += int64(f.Parser.VariableType(name).ValueBytes()) * n
	}
	total += n // access buffers
	switch f.Parser.ResultType() {
	case ResultFloat, ResultDouble:
	default:
		total += n // boolean missing mask
	}
	return total
}
