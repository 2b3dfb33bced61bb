package composite

import (
	"testing"

	"github.com/phollemans/gridcore/src/chunk"
	"github.com/phollemans/gridcore/src/chunking"
)

func byteChunk(t *testing.T, data []int8, missing int8) *chunk.ByteChunk {
	t.Helper()
	m := missing
	c, err := chunk.NewByteChunk(data, &m, false, nil)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func posOf(n int) chunking.Position {
	return chunking.Position{Start: []int{0}, Length: []int{n}}
}

// TestReductionCompositeMax exercises the reduction-composite algorithm
// with the three byte chunks and max/min_valid=2 configuration. Index 2
// and index 3 both have only one non-missing input (validCount=1), so
// both fall below min_valid and are missing — the algorithm in 4.8.1 is
// applied uniformly to every element.
func TestReductionCompositeMax(t *testing.T) {
	c1 := byteChunk(t, []int8{1, 0, 3, 0}, 0)
	c2 := byteChunk(t, []int8{2, 2, 0, 0}, 0)
	c3 := byteChunk(t, []int8{0, 4, 0, 5}, 0)

	rc := &ReductionComposite{Operator: Max, MinValid: 2, Prototype: c1}
	out, err := rc.Apply(posOf(4), []chunk.Chunk{c1, c2, c3})
	if err != nil {
		t.Fatal(err)
	}

	a := chunk.NewAccessor()
	if err := out.Accept(a); err != nil {
		t.Fatal(err)
	}
	want := []struct {
		missing bool
		value   int8
	}{
		{false, 2},
		{false, 4},
		{true, 0},
		{true, 0},
	}
	for i, w := range want {
		if a.IsMissing(i) != w.missing {
			t.Errorf("element %d: missing=%v, want %v", i, a.IsMissing(i), w.missing)
			continue
		}
		if !w.missing && a.GetByteValue(i) != w.value {
			t.Errorf("element %d = %v, want %v", i, a.GetByteValue(i), w.value)
		}
	}
}

func TestReductionCompositeEarlyExitWhenBelowMinValid(t *testing.T) {
	c1 := byteChunk(t, []int8{1, 2, 3, 4}, 0)
	c2 := byteChunk(t, []int8{0, 0, 0, 0}, 0) // entirely invalid

	rc := &ReductionComposite{Operator: Max, MinValid: 2, Prototype: c1}
	out, err := rc.Apply(posOf(4), []chunk.Chunk{c1, c2})
	if err != nil {
		t.Fatal(err)
	}
	if out != nil {
		t.Error("expected nil result when fewer than min_valid inputs have any valid element")
	}
}

func TestReductionCompositeMean(t *testing.T) {
	c1 := byteChunk(t, []int8{10, 20}, -1)
	c2 := byteChunk(t, []int8{20, -1}, -1)

	rc := &ReductionComposite{Operator: Mean, MinValid: 1, Prototype: c1}
	out, err := rc.Apply(posOf(2), []chunk.Chunk{c1, c2})
	if err != nil {
		t.Fatal(err)
	}
	a := chunk.NewAccessor()
	if err := out.Accept(a); err != nil {
		t.Fatal(err)
	}
	if a.GetByteValue(0) != 15 {
		t.Errorf("mean(10,20) = %v, want 15", a.GetByteValue(0))
	}
	if a.IsMissing(1) {
		t.Error("element 1 should have exactly one valid input (20), not missing")
	}
	if a.GetByteValue(1) != 20 {
		t.Errorf("element 1 = %v, want 20", a.GetByteValue(1))
	}
}
