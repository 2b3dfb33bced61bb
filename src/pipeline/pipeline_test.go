package pipeline

import (
	"testing"

	"github.com/phollemans/gridcore/src/chunk"
)

// memGrid is a minimal in-memory Grid fake used to exercise GridProducer/
// GridConsumer without any real storage backend.
type memGrid struct {
	dims      [2]int
	tile      [2]int
	hasTile   bool
	dataClass chunk.Dtype
	a, b      float64
	hasScale  bool
	missing   float64
	hasMiss   bool
	unsigned  bool
	data      []int16 // backing store for DtypeShort tests below
}

func (g *memGrid) DataClass() chunk.Dtype { return g.dataClass }

func (g *memGrid) GetData(start, length [2]int) (any, error) {
	out := make([]int16, length[0]*length[1])
	for r := 0; r < length[0]; r++ {
		for c := 0; c < length[1]; c++ {
			row := start[0] + r
			col := start[1] + c
			out[r*length[1]+c] = g.data[row*g.dims[1]+col]
		}
	}
	return out, nil
}

func (g *memGrid) SetData(buf any, start, length [2]int) error {
	vals := buf.([]int16)
	for r := 0; r < length[0]; r++ {
		for c := 0; c < length[1]; c++ {
			row := start[0] + r
			col := start[1] + c
			g.data[row*g.dims[1]+col] = vals[r*length[1]+c]
		}
	}
	return nil
}

func (g *memGrid) TilingScheme() (dims, tileSize [2]int, ok bool) {
	return g.dims, g.tile, g.hasTile
}

func (g *memGrid) Scaling() (a, b float64, ok bool) { return g.a, g.b, g.hasScale }

func (g *memGrid) Missing() (value float64, ok bool) { return g.missing, g.hasMiss }

func (g *memGrid) Unsigned() bool { return g.unsigned }

func TestGridProducerConsumerRoundTrip(t *testing.T) {
	// Writing via a consumer then reading via a producer at the same
	// position should yield a compatible chunk with identical values.
	g := &memGrid{
		dims: [2]int{4, 4}, tile: [2]int{2, 2}, hasTile: true,
		dataClass: chunk.DtypeShort,
		a:         0.01, b: 0, hasScale: true,
		missing: -32768, hasMiss: true,
		data: make([]int16, 16),
	}
	producer, err := NewGridProducer(g)
	if err != nil {
		t.Fatal(err)
	}
	consumer, err := NewGridConsumer(g)
	if err != nil {
		t.Fatal(err)
	}

	scheme, ok := producer.NativeScheme()
	if !ok {
		t.Fatal("expected a native scheme")
	}
	pos := scheme.First()

	missing := int16(-32768)
	input, err := chunk.NewShortChunk([]int16{1, 2, 3, 4}, &missing, false, chunk.DoublePacking{Scale: 0.01, Offset: 0})
	if err != nil {
		t.Fatal(err)
	}
	if err := consumer.PutChunk(pos, input); err != nil {
		t.Fatal(err)
	}

	got, err := producer.GetChunk(pos)
	if err != nil {
		t.Fatal(err)
	}
	if !chunk.Compatible(input, got) {
		t.Error("round-tripped chunk should be compatible with the chunk that was written")
	}
	if got.PrimitiveData().([]int16)[0] != 1 {
		t.Errorf("round-tripped data = %v, want [1 2 3 4]", got.PrimitiveData())
	}
}

func TestDerivedSchemeIntegerUnityScalingStillPacks(t *testing.T) {
	// An integer grid with unity scaling still gets a DoublePacking, not
	// "no scheme".
	p, s, err := derivedScheme(&memGrid{dataClass: chunk.DtypeShort, a: 1, b: 0, hasScale: true})
	if err != nil {
		t.Fatal(err)
	}
	if s != nil {
		t.Errorf("expected no scaling scheme for an integer grid, got %v", s)
	}
	if _, ok := p.(chunk.DoublePacking); !ok {
		t.Errorf("expected a DoublePacking for an integer grid with unity scaling, got %T", p)
	}
}

func TestDerivedSchemeFloatUnityScalingHasNoScheme(t *testing.T) {
	p, s, err := derivedScheme(&memGrid{dataClass: chunk.DtypeFloat, a: 1, b: 0, hasScale: true})
	if err != nil {
		t.Fatal(err)
	}
	if p != nil || s != nil {
		t.Errorf("expected no scheme for a float grid with unity scaling, got packing=%v scaling=%v", p, s)
	}
}

func TestGridProducerRejectsNonTiledScheme(t *testing.T) {
	g := &memGrid{dims: [2]int{4, 4}, dataClass: chunk.DtypeShort, data: make([]int16, 16)}
	p, err := NewGridProducer(g)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.NativeScheme(); ok {
		t.Error("expected no native scheme when the grid reports none")
	}
}

func TestCollectorPreservesProducerOrder(t *testing.T) {
	g1 := &memGrid{dims: [2]int{2, 2}, tile: [2]int{2, 2}, hasTile: true, dataClass: chunk.DtypeShort, data: []int16{1, 2, 3, 4}}
	g2 := &memGrid{dims: [2]int{2, 2}, tile: [2]int{2, 2}, hasTile: true, dataClass: chunk.DtypeShort, data: []int16{5, 6, 7, 8}}
	p1, err := NewGridProducer(g1)
	if err != nil {
		t.Fatal(err)
	}
	p2, err := NewGridProducer(g2)
	if err != nil {
		t.Fatal(err)
	}
	col := NewCollector([]Producer{p1, p2})
	scheme, _ := p1.NativeScheme()
	pos := scheme.First()
	chunks, err := col.GetChunks(pos)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	if chunks[0].PrimitiveData().([]int16)[0] != 1 || chunks[1].PrimitiveData().([]int16)[0] != 5 {
		t.Error("collector should return chunks in producer order")
	}
}
