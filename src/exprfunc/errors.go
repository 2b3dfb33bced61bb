package exprfunc

import (
	"errors"
	"fmt"
)

// errUnknownResultType is a programmer error: a Parser advertised a result
// type this package doesn't know how to materialize into a chunk.
var errUnknownResultType = errors.New("exprfunc: unknown result type")

// EvaluationFailure wraps an error the parser raised mid-evaluation.
type EvaluationFailure struct {
	Underlying error
}

func (e *EvaluationFailure) Error() string {
	return fmt.Sprintf("expression evaluation failed: %v", e.Underlying)
}

func (e *EvaluationFailure) Unwrap() error { return e.Underlying }
