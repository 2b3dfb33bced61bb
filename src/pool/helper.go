package pool

import (
	"log"

	"github.com/phollemans/gridcore/src/chunking"
)

// DefaultVMReserve is the runtime overhead the helper reserves on top of
// whatever a computation's operations need when Helper.VMReserve is left
// at its zero value.
const DefaultVMReserve int64 = 256 * 1024 * 1024 // 256 MiB

// Computation is anything the helper can run at a position: estimate its
// own memory footprint, and perform itself. *function.Computation
// satisfies this without either package importing the other.
type Computation interface {
	Perform(pos chunking.Position) error
	Memory(pos chunking.Position) int64
}

// Helper runs a computation over every position of a scheme, either
// serially or through a PoolProcessor, after checking the computation's
// estimated memory footprint against a runtime budget and reducing the
// requested degree of parallelism if it doesn't fit.
type Helper struct {
	// VMReserve overrides DefaultVMReserve when non-zero.
	VMReserve int64
}

// Run enumerates every position in scheme and performs comp at each one.
// If serial is false, comp runs through a PoolProcessor at up to maxOps
// concurrent operations; maxOps is reduced — and the reduction logged — if
// the a-priori memory estimate would otherwise exceed runtimeMaxMemory.
// Returns ErrMemoryBudgetExceeded if no degree of parallelism, including 1,
// fits the budget.
func (h Helper) Run(scheme chunking.Scheme, comp Computation, maxOps int, runtimeMaxMemory int64, serial bool) error {
	reserve := h.VMReserve
	if reserve == 0 {
		reserve = DefaultVMReserve
	}

	next := scheme.Iterate()
	var positions []chunking.Position
	for {
		pos, ok := next()
		if !ok {
			break
		}
		positions = append(positions, pos)
	}
	if len(positions) == 0 {
		return nil
	}

	if maxOps < 1 {
		maxOps = 1
	}

	memPerOp := comp.Memory(positions[0])
	log.Printf("pool: estimated %d bytes per operation", memPerOp)

	ops := maxOps
	if serial {
		ops = 1
	}
	needed := memPerOp*int64(ops) + reserve

	if needed > runtimeMaxMemory {
		newMaxOps := (runtimeMaxMemory - reserve) / memPerOp
		if newMaxOps < 1 {
			return ErrMemoryBudgetExceeded
		}
		log.Printf("pool: reducing max operations from %d to %d to fit %d byte budget", maxOps, newMaxOps, runtimeMaxMemory)
		maxOps = int(newMaxOps)
	}

	if serial {
		for _, pos := range positions {
			if err := comp.Perform(pos); err != nil {
				return err
			}
		}
		return nil
	}

	var proc PoolProcessor
	proc.Init(positions, maxOps, func(pos chunking.Position) error {
		return comp.Perform(pos)
	})
	proc.Start()
	return proc.WaitForCompletion()
}
