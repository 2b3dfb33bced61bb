// Package pipeline implements the producer/consumer/collector dataflow
// contract chunk functions run against, plus the grid-backed adapters that
// turn an external 2-D Grid collaborator into a Producer and a Consumer.
package pipeline

import (
	"github.com/phollemans/gridcore/src/chunk"
	"github.com/phollemans/gridcore/src/chunking"
)

// Producer hands out chunks at chunking positions. GetChunk must be
// thread-safe; chunks returned at native positions should match the native
// scheme's edge-truncated size.
type Producer interface {
	ExternalType() chunk.Dtype
	// NativeScheme returns the producer's own tiling, if it has one.
	NativeScheme() (chunking.Scheme, bool)
	PrototypeChunk() chunk.Chunk
	GetChunk(pos chunking.Position) (chunk.Chunk, error)
}

// Consumer accepts chunks at chunking positions. PutChunk must be
// thread-safe and reject an incompatible chunk with ErrIncompatibleChunk.
type Consumer interface {
	PutChunk(pos chunking.Position, c chunk.Chunk) error
	NativeScheme() (chunking.Scheme, bool)
	PrototypeChunk() chunk.Chunk
}

// Collector holds an ordered list of producers and, on GetChunks, returns
// one chunk per producer in that same order — order is part of the
// contract since it binds positionally to a function's declared inputs.
type Collector struct {
	producers []Producer
}

// NewCollector returns a Collector over producers, in the given order.
func NewCollector(producers []Producer) *Collector {
	return &Collector{producers: append([]Producer(nil), producers...)}
}

// Producers returns the collector's producer list, in order.
func (c *Collector) Producers() []Producer { return c.producers }

// GetChunks fetches one chunk per producer at pos, in producer order.
func (c *Collector) GetChunks(pos chunking.Position) ([]chunk.Chunk, error) {
	out := make([]chunk.Chunk, len(c.producers))
	for i, p := range c.producers {
		ch, err := p.GetChunk(pos)
		if err != nil {
			return nil, err
		}
		out[i] = ch
	}
	return out, nil
}
