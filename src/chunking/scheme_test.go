package chunking

import (
	"reflect"
	"testing"
)

func TestSchemeIterationS6(t *testing.T) {
	// S6: dims=[10,7], chunkSize=[4,4].
	s, err := NewScheme([]int{10, 7}, []int{4, 4})
	if err != nil {
		t.Fatal(err)
	}
	want := []Position{
		{Start: []int{0, 0}, Length: []int{4, 4}},
		{Start: []int{0, 4}, Length: []int{4, 3}},
		{Start: []int{4, 0}, Length: []int{4, 4}},
		{Start: []int{4, 4}, Length: []int{4, 3}},
		{Start: []int{8, 0}, Length: []int{2, 4}},
		{Start: []int{8, 4}, Length: []int{2, 3}},
	}
	next := s.Iterate()
	var got []Position
	for {
		pos, ok := next()
		if !ok {
			break
		}
		got = append(got, pos)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("iteration sequence = %+v, want %+v", got, want)
	}
	if s.TotalChunks() != 6 {
		t.Errorf("TotalChunks() = %d, want 6", s.TotalChunks())
	}
}

func TestSchemeIterateIsRestartable(t *testing.T) {
	s, _ := NewScheme([]int{4, 4}, []int{2, 2})
	first := s.Iterate()
	second := s.Iterate()
	for i := 0; i < 4; i++ {
		a, okA := first()
		b, okB := second()
		if okA != okB || !reflect.DeepEqual(a, b) {
			t.Fatalf("independent iterators diverged at step %d: %+v vs %+v", i, a, b)
		}
	}
}

func TestSchemeSingleOversizedChunk(t *testing.T) {
	s, err := NewScheme([]int{3}, []int{100})
	if err != nil {
		t.Fatal(err)
	}
	if s.TotalChunks() != 1 {
		t.Errorf("TotalChunks() = %d, want 1", s.TotalChunks())
	}
	first := s.First()
	if first.Length[0] != 3 {
		t.Errorf("First().Length[0] = %d, want 3", first.Length[0])
	}
	if _, ok := s.Next(first); ok {
		t.Error("expected no successor after the single chunk")
	}
}

func TestSchemePositionFor(t *testing.T) {
	s, _ := NewScheme([]int{10, 7}, []int{4, 4})
	pos, err := s.PositionFor([]int{5, 6})
	if err != nil {
		t.Fatal(err)
	}
	want := Position{Start: []int{4, 4}, Length: []int{4, 3}}
	if !reflect.DeepEqual(pos, want) {
		t.Errorf("PositionFor([5,6]) = %+v, want %+v", pos, want)
	}
	if !s.IsNative(pos) {
		t.Error("PositionFor result should always be native")
	}
}

func TestSchemePositionForOutOfRange(t *testing.T) {
	s, _ := NewScheme([]int{10}, []int{4})
	if _, err := s.PositionFor([]int{10}); err == nil {
		t.Error("expected an out-of-range error for coords[0] == dims[0]")
	}
}

func TestSchemeIsNativeRejectsMisalignedPosition(t *testing.T) {
	s, _ := NewScheme([]int{10, 7}, []int{4, 4})
	if s.IsNative(Position{Start: []int{1, 0}, Length: []int{4, 4}}) {
		t.Error("a position not on a chunk boundary should not be native")
	}
	if s.IsNative(Position{Start: []int{0, 4}, Length: []int{4, 4}}) {
		t.Error("a position with the wrong edge-truncated length should not be native")
	}
}

func TestNewSchemeRejectsInvalidInput(t *testing.T) {
	if _, err := NewScheme([]int{1, 2}, []int{1}); err == nil {
		t.Error("expected an error for mismatched rank")
	}
	if _, err := NewScheme([]int{0}, []int{1}); err == nil {
		t.Error("expected an error for a non-positive dim")
	}
	if _, err := NewScheme([]int{1}, []int{0}); err == nil {
		t.Error("expected an error for a non-positive chunk size")
	}
}
