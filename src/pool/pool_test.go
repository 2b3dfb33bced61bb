package pool

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/phollemans/gridcore/src/chunking"
)

func positions(n int) []chunking.Position {
	out := make([]chunking.Position, n)
	for i := range out {
		out[i] = chunking.Position{Start: []int{i}, Length: []int{1}}
	}
	return out
}

func TestPoolProcessorRunsEveryPosition(t *testing.T) {
	var count atomic.Int64
	var mu sync.Mutex
	var seen []int

	var p PoolProcessor
	p.Init(positions(20), 4, func(pos chunking.Position) error {
		count.Add(1)
		mu.Lock()
		seen = append(seen, pos.Start[0])
		mu.Unlock()
		return nil
	})
	p.Start()
	if err := p.WaitForCompletion(); err != nil {
		t.Fatal(err)
	}
	if count.Load() != 20 {
		t.Fatalf("ran %d operations, want 20", count.Load())
	}
	if len(seen) != 20 {
		t.Fatalf("saw %d distinct positions, want 20", len(seen))
	}
}

func TestPoolProcessorPropagatesFirstError(t *testing.T) {
	wantErr := errors.New("boom")

	var p PoolProcessor
	p.Init(positions(10), 3, func(pos chunking.Position) error {
		if pos.Start[0] == 5 {
			return wantErr
		}
		return nil
	})
	p.Start()
	if err := p.WaitForCompletion(); err != wantErr {
		t.Fatalf("WaitForCompletion() = %v, want %v", err, wantErr)
	}
}

func TestPoolProcessorCancelStopsNewDispatch(t *testing.T) {
	var count atomic.Int64
	started := make(chan struct{})
	proceed := make(chan struct{})

	var p PoolProcessor
	p.Init(positions(1000), 1, func(pos chunking.Position) error {
		count.Add(1)
		if pos.Start[0] == 0 {
			started <- struct{}{}
			<-proceed
		}
		return nil
	})
	p.Start()
	<-started
	p.Cancel()
	close(proceed)
	if err := p.WaitForCompletion(); err != nil {
		t.Fatal(err)
	}
	if count.Load() != 1 {
		t.Fatalf("ran %d operations after cancel, want exactly 1 (the in-flight one)", count.Load())
	}
}

func TestPoolProcessorWaitBeforeStart(t *testing.T) {
	var p PoolProcessor
	p.Init(positions(3), 2, func(pos chunking.Position) error { return nil })
	if err := p.WaitForCompletion(); err != ErrNotInitialized {
		t.Fatalf("WaitForCompletion() before Start = %v, want ErrNotInitialized", err)
	}
}

// fixedMemComputation reports a constant per-operation memory cost and
// counts how many positions it actually performed.
type fixedMemComputation struct {
	memPerOp int64
	count    atomic.Int64
}

func (c *fixedMemComputation) Perform(pos chunking.Position) error {
	c.count.Add(1)
	return nil
}

func (c *fixedMemComputation) Memory(pos chunking.Position) int64 {
	return c.memPerOp
}

// TestHelperRunS7MemoryDrivenReduction is the exact S7 scenario: with
// memory(pos) = M, runtime_max_memory = L, VM_RESERVE = R and max_ops = k,
// k*M + R exceeds L, so the helper must cut to floor((L-R)/M) operations
// and still complete successfully.
func TestHelperRunS7MemoryDrivenReduction(t *testing.T) {
	const (
		m = 100 * 1024 * 1024 // 100 MiB per operation
		k = 4                 // requested parallelism
		r = 256 * 1024 * 1024 // VM reserve
		l = 500 * 1024 * 1024 // runtime budget
	)
	// k*m + r = 400MiB + 256MiB = 656MiB > l(500MiB), so the helper must
	// reduce to floor((l-r)/m) = floor(244MiB/100MiB) = 2.
	scheme, err := chunking.NewScheme([]int{8}, []int{1})
	if err != nil {
		t.Fatal(err)
	}
	comp := &fixedMemComputation{memPerOp: m}

	h := Helper{VMReserve: r}
	if err := h.Run(scheme, comp, k, l, false); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}
	if comp.count.Load() != 8 {
		t.Fatalf("performed %d positions, want 8", comp.count.Load())
	}
}

// TestHelperRunS7Failure is the same shape, but the budget is too small to
// fit even a single operation: the helper must fail with
// ErrMemoryBudgetExceeded rather than silently running with 0 workers.
func TestHelperRunS7Failure(t *testing.T) {
	const (
		m = 100 * 1024 * 1024
		k = 4
		r = 256 * 1024 * 1024
		l = 300 * 1024 * 1024 // floor((300-256)/100) = 0
	)
	scheme, err := chunking.NewScheme([]int{4}, []int{1})
	if err != nil {
		t.Fatal(err)
	}
	comp := &fixedMemComputation{memPerOp: m}

	h := Helper{VMReserve: r}
	if err := h.Run(scheme, comp, k, l, false); err != ErrMemoryBudgetExceeded {
		t.Fatalf("Run() = %v, want ErrMemoryBudgetExceeded", err)
	}
}

func TestHelperRunSerialDoesNotRequireParallelBudget(t *testing.T) {
	const (
		m = 100 * 1024 * 1024
		r = 256 * 1024 * 1024
		l = 400 * 1024 * 1024 // fits 1*m + r = 356MiB, would not fit 4*m+r
	)
	scheme, err := chunking.NewScheme([]int{5}, []int{1})
	if err != nil {
		t.Fatal(err)
	}
	comp := &fixedMemComputation{memPerOp: m}

	h := Helper{VMReserve: r}
	if err := h.Run(scheme, comp, 4, l, true); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}
	if comp.count.Load() != 5 {
		t.Fatalf("performed %d positions, want 5", comp.count.Load())
	}
}
