package pool

import "errors"

// ErrMemoryBudgetExceeded is returned when the helper cannot reduce the
// degree of parallelism enough to fit a computation's estimated memory
// footprint inside the runtime memory budget.
var ErrMemoryBudgetExceeded = errors.New("pool: cannot fit computation within memory budget")

// ErrNotInitialized is returned by WaitForCompletion when it is called
// before Start.
var ErrNotInitialized = errors.New("pool: processor not initialized")
