// Package function implements the chunk function and computation contract:
// a pure many-to-one transform over a position's input chunks, and the
// (collector, consumer, function) triple that drives it.
package function

import (
	"sync"
	"time"

	"github.com/phollemans/gridcore/src/chunk"
	"github.com/phollemans/gridcore/src/chunking"
	"github.com/phollemans/gridcore/src/pipeline"
)

// Function is a pure (or internally-synchronized) many-to-one transform.
// Apply must be safe to call concurrently from multiple goroutines — state
// should be read-only, with all mutation local to the call.
type Function interface {
	// Apply computes the output chunk for pos from inputs, or returns
	// (nil, nil) to mean "no output at this position" — the computation
	// will not invoke the consumer in that case.
	Apply(pos chunking.Position, inputs []chunk.Chunk) (chunk.Chunk, error)
	// Memory is a best-effort upper bound, in bytes, of temporary buffers
	// the function needs beyond the input/output chunk buffers themselves.
	Memory(pos chunking.Position, inputCount int) int64
}

// Timings accumulates wall-clock time spent in each of a tracked
// computation's three steps, across every Perform call.
type Timings struct {
	Collector time.Duration
	Function  time.Duration
	Consumer  time.Duration
}

// Computation is the (collector, consumer, function) triple: Perform
// collects input chunks, applies the function, and — if it produced a
// result — hands it to the consumer. The three steps are strictly ordered
// within one Perform call; there is no ordering guarantee between calls.
type Computation struct {
	Collector *pipeline.Collector
	Consumer  pipeline.Consumer
	Function  Function

	tracked bool
	mu      sync.Mutex
	timings Timings
}

// Tracked enables or disables per-step wall-clock timing. Safe to toggle
// before the computation starts being used concurrently; not safe to flip
// mid-flight.
func (c *Computation) Tracked(on bool) *Computation {
	c.tracked = on
	return c
}

// Timings returns a snapshot of the accumulated per-step timings. Zero
// value if Tracked was never enabled.
func (c *Computation) Timings() Timings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timings
}

// Perform runs one (collect, apply, put) cycle at pos.
func (c *Computation) Perform(pos chunking.Position) error {
	inputs, err := c.timedCollect(pos)
	if err != nil {
		return err
	}
	result, err := c.timedApply(pos, inputs)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	return c.timedPut(pos, result)
}

func (c *Computation) timedCollect(pos chunking.Position) ([]chunk.Chunk, error) {
	if !c.tracked {
		return c.Collector.GetChunks(pos)
	}
	start := time.Now()
	chunks, err := c.Collector.GetChunks(pos)
	c.addTiming(time.Since(start), &c.timings.Collector)
	return chunks, err
}

func (c *Computation) timedApply(pos chunking.Position, inputs []chunk.Chunk) (chunk.Chunk, error) {
	if !c.tracked {
		return c.Function.Apply(pos, inputs)
	}
	start := time.Now()
	result, err := c.Function.Apply(pos, inputs)
	c.addTiming(time.Since(start), &c.timings.Function)
	return result, err
}

func (c *Computation) timedPut(pos chunking.Position, result chunk.Chunk) error {
	if !c.tracked {
		return c.Consumer.PutChunk(pos, result)
	}
	start := time.Now()
	err := c.Consumer.PutChunk(pos, result)
	c.addTiming(time.Since(start), &c.timings.Consumer)
	return err
}

func (c *Computation) addTiming(d time.Duration, field *time.Duration) {
	c.mu.Lock()
	*field += d
	c.mu.Unlock()
}

// Memory advertises a best-effort upper bound on the memory one Perform
// call needs: the read/write cost of every producer's native chunk plus
// this position's chunk, the consumer's prototype chunk, and the
// function's own declared temporary-buffer estimate.
func (c *Computation) Memory(pos chunking.Position) int64 {
	var total int64
	for _, p := range c.Collector.Producers() {
		proto := p.PrototypeChunk()
		valueBytes := int64(proto.ValueBytes())
		total += valueBytes * int64(pos.Values())
		if native, ok := p.NativeScheme(); ok {
			total += valueBytes * int64(nativeChunkValues(native))
		}
	}
	consumerProto := c.Consumer.PrototypeChunk()
	total += int64(consumerProto.ValueBytes()) * int64(pos.Values())
	total += c.Function.Memory(pos, len(c.Collector.Producers()))
	return total
}

// nativeChunkValues returns the element count of one full (non-edge)
// native chunk of scheme s — its first position's Values, which is
// full-size unless an axis is shorter than one chunk, in which case it is
// truncated to that axis.
func nativeChunkValues(s chunking.Scheme) int {
	return s.First().Values()
}
