// Package pool provides a bounded-parallelism executor for chunk
// operations, plus a Helper that picks a safe degree of parallelism from an
// a-priori memory estimate before running one.
package pool

import (
	"sync"
	"sync/atomic"

	"github.com/phollemans/gridcore/src/chunking"
)

// Op is the operation a PoolProcessor invokes once per position.
type Op func(pos chunking.Position) error

// PoolProcessor dispatches Op across at most MaxOperations worker
// goroutines, pulling from one shared FIFO of positions. There is no
// per-position ordering guarantee; a caller needing order must arrange it
// in its own consumer (e.g. a synchronized writer).
//
// A PoolProcessor is single-use: Init once, Start once, WaitForCompletion
// once.
type PoolProcessor struct {
	positions     []chunking.Position
	op            Op
	maxOperations int

	next      atomic.Int64
	cancelled atomic.Bool
	started   bool
	wg        sync.WaitGroup

	errOnce  sync.Once
	firstErr error
}

// Init binds the work list and the operation to invoke per position.
// maxOperations is clamped to at least 1 and to at most len(positions).
func (p *PoolProcessor) Init(positions []chunking.Position, maxOperations int, op Op) {
	p.positions = positions
	p.op = op
	if maxOperations < 1 {
		maxOperations = 1
	}
	if maxOperations > len(positions) {
		maxOperations = len(positions)
	}
	if maxOperations < 1 {
		maxOperations = 1
	}
	p.maxOperations = maxOperations
}

// Start dispatches the bound operation across at most MaxOperations worker
// goroutines and returns immediately; call WaitForCompletion to block for
// the result.
func (p *PoolProcessor) Start() {
	if p.started {
		return
	}
	p.started = true

	if len(p.positions) == 0 {
		return
	}

	p.wg.Add(p.maxOperations)
	for i := 0; i < p.maxOperations; i++ {
		go p.worker()
	}
}

func (p *PoolProcessor) worker() {
	defer p.wg.Done()
	for {
		if p.cancelled.Load() {
			return
		}
		idx := int(p.next.Add(1)) - 1
		if idx >= len(p.positions) {
			return
		}
		if err := p.op(p.positions[idx]); err != nil {
			p.errOnce.Do(func() { p.firstErr = err })
		}
	}
}

// Cancel stops dispatching new work; operations already in flight run to
// completion. Safe to call multiple times and from any goroutine.
func (p *PoolProcessor) Cancel() {
	p.cancelled.Store(true)
}

// WaitForCompletion blocks until every dispatched operation has finished
// (or been cancelled), and propagates the first operation error, if any.
func (p *PoolProcessor) WaitForCompletion() error {
	if !p.started {
		return ErrNotInitialized
	}
	p.wg.Wait()
	return p.firstErr
}
