package NavierStokes2D

import (
	"errors"
	"fmt"

	"github.com/notargets/steadyns/solvers"
)

var (
	ErrUsage       = errors.New("invalid usage")
	ErrResource    = errors.New("resource unavailable")
	ErrConvergence = solvers.ErrConvergence
	ErrLinearSolve = errors.New("linear solve failed")
)

// ResourceError reports a file that could not be read or written
type ResourceError struct {
	Op   string
	Path string
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ResourceError) Unwrap() []error { return []error{ErrResource, e.Err} }

// LinearSolveError reports a failed factorization outside the Newton iteration
type LinearSolveError struct {
	Stage string
	Err   error
}

func (e *LinearSolveError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrLinearSolve, e.Stage, e.Err)
}

func (e *LinearSolveError) Unwrap() []error { return []error{ErrLinearSolve, e.Err} }
