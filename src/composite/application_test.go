package composite

import (
	"testing"

	"github.com/phollemans/gridcore/src/chunk"
)

// TestCompositeMapApplicationS5 applies a map with an explicit hole (slot 2
// is nil — never fetched because the map never selected it) over data
// chunks that each only carry a meaningful value at their own diagonal
// index, matching the S5 scenario.
func TestCompositeMapApplicationS5(t *testing.T) {
	sentinel := mapMissingValue
	mapData := []int16{0, 1, -1, 3, 4}
	mapChunk, err := chunk.NewShortChunk(mapData, &sentinel, false, nil)
	if err != nil {
		t.Fatal(err)
	}

	data0 := byteChunk(t, []int8{100, 0, 0, 0, 0}, 0)
	data1 := byteChunk(t, []int8{0, 101, 0, 0, 0}, 0)
	data3 := byteChunk(t, []int8{0, 0, 0, 103, 0}, 0)
	data4 := byteChunk(t, []int8{0, 0, 0, 0, 104}, 0)

	f := &CompositeMapApplicationFunction{ChunkCount: 5, Prototype: data0}
	out, err := f.Apply(posOf(5), []chunk.Chunk{
		mapChunk,
		data0, data1, nil, data3, data4,
	})
	if err != nil {
		t.Fatal(err)
	}

	a := chunk.NewAccessor()
	if err := out.Accept(a); err != nil {
		t.Fatal(err)
	}
	if a.IsMissing(0) || a.GetByteValue(0) != 100 {
		t.Errorf("element 0 = %v (missing=%v), want 100", a.GetByteValue(0), a.IsMissing(0))
	}
	if a.IsMissing(1) || a.GetByteValue(1) != 101 {
		t.Errorf("element 1 = %v (missing=%v), want 101", a.GetByteValue(1), a.IsMissing(1))
	}
	if !a.IsMissing(2) {
		t.Error("element 2 should be missing: map selects -1")
	}
	if a.IsMissing(3) || a.GetByteValue(3) != 103 {
		t.Errorf("element 3 = %v (missing=%v), want 103", a.GetByteValue(3), a.IsMissing(3))
	}
	if a.IsMissing(4) || a.GetByteValue(4) != 104 {
		t.Errorf("element 4 = %v (missing=%v), want 104", a.GetByteValue(4), a.IsMissing(4))
	}
}

// TestCompositeMapApplicationMissingAtSource covers the rule that the
// output is missing whenever the map's chosen source chunk is itself
// missing at that element, even though the slot is present.
func TestCompositeMapApplicationMissingAtSource(t *testing.T) {
	sentinel := mapMissingValue
	mapData := []int16{0}
	mapChunk, err := chunk.NewShortChunk(mapData, &sentinel, false, nil)
	if err != nil {
		t.Fatal(err)
	}
	data0 := byteChunk(t, []int8{0}, 0) // value itself is the missing sentinel

	f := &CompositeMapApplicationFunction{ChunkCount: 1, Prototype: data0}
	out, err := f.Apply(posOf(1), []chunk.Chunk{mapChunk, data0})
	if err != nil {
		t.Fatal(err)
	}
	a := chunk.NewAccessor()
	if err := out.Accept(a); err != nil {
		t.Fatal(err)
	}
	if !a.IsMissing(0) {
		t.Error("expected missing output when the selected source chunk is missing at that element")
	}
}
