package solvers

import (
	"errors"
	"fmt"
)

// ErrConvergence classifies every failure of the nonlinear iteration
var ErrConvergence = errors.New("nonlinear solve did not converge")

// Reasons a Newton solve stops without converging
const (
	ReasonMaxIterations = "iteration budget exceeded"
	ReasonNonFinite     = "residual is not finite"
	ReasonLinearSolve   = "linear solve failed"
	ReasonAssembly      = "residual or jacobian evaluation failed"
)

// ConvergenceError carries the iteration history of a failed solve
type ConvergenceError struct {
	Report NewtonReport
	Reason string
	Err    error // Underlying failure, nil when the iteration itself gave up
}

func (e *ConvergenceError) Error() string {
	msg := fmt.Sprintf("%s after %d iterations: %s, |F| = %.3e (initial %.3e)",
		ErrConvergence, e.Report.Iterations, e.Reason, e.Report.FinalNorm, e.Report.InitialNorm)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConvergenceError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConvergence}
	}
	return []error{ErrConvergence, e.Err}
}
