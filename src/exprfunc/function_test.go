package exprfunc

import (
	"math"
	"testing"

	"github.com/phollemans/gridcore/src/chunk"
	"github.com/phollemans/gridcore/src/chunking"
)

// addParser implements Parser for the fixed expression "a + b" over two
// i16 variables, producing a float32 result — used to exercise S2.
type addParser struct{}

func (addParser) Variables() []string                { return []string{"a", "b"} }
func (addParser) VariableType(name string) chunk.Dtype { return chunk.DtypeShort }
func (addParser) ResultType() ResultType              { return ResultFloat }

func (addParser) EvaluateToBool(src ValueSource) (bool, error)     { return false, nil }
func (addParser) EvaluateToByte(src ValueSource) (int8, error)     { return 0, nil }
func (addParser) EvaluateToShort(src ValueSource) (int16, error)   { return 0, nil }
func (addParser) EvaluateToInt(src ValueSource) (int32, error)     { return 0, nil }
func (addParser) EvaluateToLong(src ValueSource) (int64, error)    { return 0, nil }
func (addParser) EvaluateToFloat(src ValueSource) (float32, error) {
	return float32(src.GetShortProperty(0)) + float32(src.GetShortProperty(1)), nil
}
func (addParser) EvaluateToDouble(src ValueSource) (float64, error) { return 0, nil }

func TestExpressionFunctionS2(t *testing.T) {
	missing := int16(-1)
	a, err := chunk.NewShortChunk([]int16{1, 2, -1, 4}, &missing, false, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := chunk.NewShortChunk([]int16{10, -1, 30, 40}, &missing, false, nil)
	if err != nil {
		t.Fatal(err)
	}

	f := &ExpressionFunction{Parser: addParser{}, SkipMissing: true}
	pos := chunking.Position{Start: []int{0}, Length: []int{4}}
	out, err := f.Apply(pos, []chunk.Chunk{a, b})
	if err != nil {
		t.Fatal(err)
	}
	got := out.(*chunk.FloatChunk).PrimitiveData().([]float32)
	want := []float32{11, 0, 0, 44}
	wantNaN := []bool{false, true, true, false}
	for i := range want {
		if wantNaN[i] {
			if !math.IsNaN(float64(got[i])) {
				t.Errorf("out[%d] = %v, want NaN", i, got[i])
			}
			continue
		}
		if got[i] != want[i] {
			t.Errorf("out[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
