package pipeline

import (
	"fmt"
	"sync"

	"github.com/phollemans/gridcore/src/chunk"
	"github.com/phollemans/gridcore/src/chunking"
)

// Grid is the external 2-D typed-array collaborator the core depends on
// but does not implement. Implementations must make GetData and SetData
// safe to call concurrently.
type Grid interface {
	// DataClass is the grid's raw primitive storage type.
	DataClass() chunk.Dtype
	// GetData reads a rectangular region, returning a slice whose concrete
	// type matches DataClass (one of []int8/[]int16/[]int32/[]int64/
	// []float32/[]float64), row-major, length[0]*length[1] elements.
	GetData(start, length [2]int) (any, error)
	// SetData writes buf (same shape/type contract as GetData's result)
	// into the rectangular region.
	SetData(buf any, start, length [2]int) error
	// TilingScheme returns the grid's own preferred tiling, if it has one.
	TilingScheme() (dims, tileSize [2]int, ok bool)
	// Scaling returns the grid-level affine pair (a, b): external = a*raw+b.
	Scaling() (a, b float64, ok bool)
	// Missing returns the grid's missing-value sentinel, if it has one.
	Missing() (value float64, ok bool)
	Unsigned() bool
}

// derivedScheme computes the packing/scaling scheme a grid-backed chunk
// should carry: a float/double grid with unity scaling gets no scheme; a
// float/double grid with non-unity scaling gets a same-width scaling
// scheme; an integer grid with *any* scaling (including unity) gets a
// DoublePacking. Packing is applied unconditionally whenever an integer
// grid reports a scaling pair at all, even a unity one, to keep the
// external type consistent downstream regardless of the grid's stored
// scale/offset values.
//
// Grid.Scaling reports the affine pair (a, b) in the grid's own
// external = a*raw + b convention, but the packing/scaling codecs unpack
// as (raw - Offset) * Scale. Translating one into the other means solving
// a*raw + b = (raw - Offset) * Scale for Offset with Scale = a, which
// gives Offset = -b/a.
func derivedScheme(g Grid) (chunk.PackingScheme, chunk.ScalingScheme, error) {
	dt := g.DataClass()
	a, b, hasScaling := g.Scaling()
	if !hasScaling {
		return nil, nil, nil
	}
	if a == 0 {
		return nil, nil, fmt.Errorf("derivedScheme: scaling factor must be non-zero")
	}
	offset := -b / a
	switch dt {
	case chunk.DtypeFloat:
		if a == 1 && b == 0 {
			return nil, nil, nil
		}
		return nil, chunk.FloatScaling{Scale: float32(a), Offset: float32(offset)}, nil
	case chunk.DtypeDouble:
		if a == 1 && b == 0 {
			return nil, nil, nil
		}
		return nil, chunk.DoubleScaling{Scale: a, Offset: offset}, nil
	case chunk.DtypeByte, chunk.DtypeShort, chunk.DtypeInt, chunk.DtypeLong:
		return chunk.DoublePacking{Scale: a, Offset: offset}, nil, nil
	default:
		return nil, nil, fmt.Errorf("derivedScheme: unsupported data class %v", dt)
	}
}

// newChunkFor builds an empty chunk of the grid's DataClass carrying the
// grid's missing/unsigned/packing/scaling metadata, with n elements.
func newChunkFor(g Grid, n int) (chunk.Chunk, error) {
	packing, scaling, err := derivedScheme(g)
	if err != nil {
		return nil, err
	}
	missingVal, hasMissing := g.Missing()
	unsigned := g.Unsigned()
	switch g.DataClass() {
	case chunk.DtypeByte:
		var m *int8
		if hasMissing {
			v := int8(missingVal)
			m = &v
		}
		return chunk.NewByteChunk(make([]int8, n), m, unsigned, packing)
	case chunk.DtypeShort:
		var m *int16
		if hasMissing {
			v := int16(missingVal)
			m = &v
		}
		return chunk.NewShortChunk(make([]int16, n), m, unsigned, packing)
	case chunk.DtypeInt:
		var m *int32
		if hasMissing {
			v := int32(missingVal)
			m = &v
		}
		return chunk.NewIntChunk(make([]int32, n), m, unsigned, packing)
	case chunk.DtypeLong:
		var m *int64
		if hasMissing {
			v := int64(missingVal)
			m = &v
		}
		return chunk.NewLongChunk(make([]int64, n), m, packing)
	case chunk.DtypeFloat:
		var m *float32
		if hasMissing {
			v := float32(missingVal)
			m = &v
		}
		return chunk.NewFloatChunk(make([]float32, n), m, scaling)
	case chunk.DtypeDouble:
		var m *float64
		if hasMissing {
			v := missingVal
			m = &v
		}
		return chunk.NewDoubleChunk(make([]float64, n), m, scaling)
	default:
		return nil, fmt.Errorf("newChunkFor: unsupported data class %v", g.DataClass())
	}
}

// GridProducer adapts a Grid to Producer, translating its tiling into a
// chunking.Scheme and fetching raw data via GetData into fresh chunks.
type GridProducer struct {
	grid  Grid
	proto chunk.Chunk
}

// NewGridProducer wraps grid as a Producer.
func NewGridProducer(grid Grid) (*GridProducer, error) {
	proto, err := newChunkFor(grid, 0)
	if err != nil {
		return nil, err
	}
	return &GridProducer{grid: grid, proto: proto}, nil
}

func (p *GridProducer) ExternalType() chunk.Dtype { return p.proto.ExternalType() }

func (p *GridProducer) NativeScheme() (chunking.Scheme, bool) {
	dims, tile, ok := p.grid.TilingScheme()
	if !ok {
		return chunking.Scheme{}, false
	}
	s, err := chunking.NewScheme(dims[:], tile[:])
	if err != nil {
		return chunking.Scheme{}, false
	}
	return s, true
}

func (p *GridProducer) PrototypeChunk() chunk.Chunk { return p.proto }

func (p *GridProducer) GetChunk(pos chunking.Position) (chunk.Chunk, error) {
	if len(pos.Start) != 2 || len(pos.Length) != 2 {
		return nil, fmt.Errorf("GridProducer.GetChunk: position must be 2-D, got rank %d", len(pos.Start))
	}
	start := [2]int{pos.Start[0], pos.Start[1]}
	length := [2]int{pos.Length[0], pos.Length[1]}
	buf, err := p.grid.GetData(start, length)
	if err != nil {
		return nil, err
	}
	return chunkFromBuffer(p.grid, buf)
}

func chunkFromBuffer(g Grid, buf any) (chunk.Chunk, error) {
	packing, scaling, err := derivedScheme(g)
	if err != nil {
		return nil, err
	}
	missingVal, hasMissing := g.Missing()
	unsigned := g.Unsigned()
	switch v := buf.(type) {
	case []int8:
		var m *int8
		if hasMissing {
			mv := int8(missingVal)
			m = &mv
		}
		return chunk.NewByteChunk(v, m, unsigned, packing)
	case []int16:
		var m *int16
		if hasMissing {
			mv := int16(missingVal)
			m = &mv
		}
		return chunk.NewShortChunk(v, m, unsigned, packing)
	case []int32:
		var m *int32
		if hasMissing {
			mv := int32(missingVal)
			m = &mv
		}
		return chunk.NewIntChunk(v, m, unsigned, packing)
	case []int64:
		var m *int64
		if hasMissing {
			mv := int64(missingVal)
			m = &mv
		}
		return chunk.NewLongChunk(v, m, packing)
	case []float32:
		var m *float32
		if hasMissing {
			mv := float32(missingVal)
			m = &mv
		}
		return chunk.NewFloatChunk(v, m, scaling)
	case []float64:
		var m *float64
		if hasMissing {
			mv := missingVal
			m = &mv
		}
		return chunk.NewDoubleChunk(v, m, scaling)
	default:
		return nil, fmt.Errorf("chunkFromBuffer: unexpected buffer type %T", buf)
	}
}

// GridConsumer adapts a Grid to Consumer, writing a chunk's raw buffer into
// the grid's backing storage via SetData. Guards against concurrent writes
// with a mutex since a Grid implementation's SetData is not assumed to be
// self-synchronizing.
type GridConsumer struct {
	mu    sync.Mutex
	grid  Grid
	proto chunk.Chunk
}

// NewGridConsumer wraps grid as a Consumer.
func NewGridConsumer(grid Grid) (*GridConsumer, error) {
	proto, err := newChunkFor(grid, 0)
	if err != nil {
		return nil, err
	}
	return &GridConsumer{grid: grid, proto: proto}, nil
}

func (c *GridConsumer) NativeScheme() (chunking.Scheme, bool) {
	dims, tile, ok := c.grid.TilingScheme()
	if !ok {
		return chunking.Scheme{}, false
	}
	s, err := chunking.NewScheme(dims[:], tile[:])
	if err != nil {
		return chunking.Scheme{}, false
	}
	return s, true
}

func (c *GridConsumer) PrototypeChunk() chunk.Chunk { return c.proto }

func (c *GridConsumer) PutChunk(pos chunking.Position, ch chunk.Chunk) error {
	if !chunk.Compatible(c.proto, ch) {
		return fmt.Errorf("%w", ErrIncompatibleChunk)
	}
	if len(pos.Start) != 2 || len(pos.Length) != 2 {
		return fmt.Errorf("GridConsumer.PutChunk: position must be 2-D, got rank %d", len(pos.Start))
	}
	start := [2]int{pos.Start[0], pos.Start[1]}
	length := [2]int{pos.Length[0], pos.Length[1]}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.grid.SetData(ch.PrimitiveData(), start, length)
}
