package solvers

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/steadyns/utils"
)

// ResidualFunc evaluates the residual of state w into F
type ResidualFunc func(w, F []float64) error

// JacobianFunc assembles the derivative of the residual at w
type JacobianFunc func(w []float64) (utils.CSR, error)

type NewtonState uint8

const (
	Initialized NewtonState = iota
	Iterating
	Converged
	Diverged
)

func (s NewtonState) String() string {
	switch s {
	case Initialized:
		return "Initialized"
	case Iterating:
		return "Iterating"
	case Converged:
		return "Converged"
	case Diverged:
		return "Diverged"
	}
	return "Unknown"
}

// NewtonReport summarizes a solve, History holds |F| after every update
// starting with the initial residual
type NewtonReport struct {
	State       NewtonState
	Iterations  int
	InitialNorm float64
	FinalNorm   float64
	AbsoluteMet bool
	RelativeMet bool
	History     []float64
}

// NewtonSolver holds the immutable configuration of a Newton iteration
type NewtonSolver struct {
	AbsoluteTolerance float64
	RelativeTolerance float64
	MaxIterations     int
	LineSearch        bool // Halve the step while |F| does not decrease
	Verbose           bool
	Linear            LinearSolver
}

const (
	DefaultAbsoluteTolerance = 1.e-10
	DefaultRelativeTolerance = 1.e-6
	DefaultMaxIterations     = 50
	maxStepHalvings          = 10
)

func NewNewtonSolver() NewtonSolver {
	return NewtonSolver{
		AbsoluteTolerance: DefaultAbsoluteTolerance,
		RelativeTolerance: DefaultRelativeTolerance,
		MaxIterations:     DefaultMaxIterations,
		Linear:            NewBandLUSolver(false),
	}
}

// converged applies the absolute test, then the relative test once an update has been taken
func (ns NewtonSolver) converged(rep *NewtonReport, it int) bool {
	rep.AbsoluteMet = rep.FinalNorm < ns.AbsoluteTolerance
	rep.RelativeMet = it > 0 && rep.InitialNorm > 0 && rep.FinalNorm/rep.InitialNorm < ns.RelativeTolerance
	return rep.AbsoluteMet || rep.RelativeMet
}

// Solve drives w to a root of the residual. On success w holds the solution,
// on failure w is left untouched and the error wraps ErrConvergence.
func (ns NewtonSolver) Solve(w []float64, residual ResidualFunc, jacobian JacobianFunc) (rep NewtonReport, err error) {
	var (
		n   = len(w)
		wk  = append([]float64{}, w...)
		F   = make([]float64, n)
		dw  = make([]float64, n)
		rhs = make([]float64, n)
		lin = ns.Linear
	)
	if lin == nil {
		lin = NewBandLUSolver(ns.Verbose)
	}
	fail := func(reason string, cause error) (NewtonReport, error) {
		rep.State = Diverged
		if ns.Verbose {
			fmt.Printf("Newton solve failed: %s\n", reason)
		}
		return rep, &ConvergenceError{Report: rep, Reason: reason, Err: cause}
	}
	rep.State = Initialized
	if err = residual(wk, F); err != nil {
		return fail(ReasonAssembly, err)
	}
	rep.InitialNorm = floats.Norm(F, 2)
	rep.FinalNorm = rep.InitialNorm
	rep.History = append(rep.History, rep.FinalNorm)
	rep.State = Iterating
	for it := 0; ; it++ {
		rep.Iterations = it
		if !utils.IsFinite(rep.FinalNorm) {
			return fail(ReasonNonFinite, nil)
		}
		if ns.Verbose {
			relative := math.NaN()
			if rep.InitialNorm > 0 {
				relative = rep.FinalNorm / rep.InitialNorm
			}
			fmt.Printf("Newton iteration %2d: |F| = %10.4e (abs tol %8.2e), relative = %10.4e (rel tol %8.2e)\n",
				it, rep.FinalNorm, ns.AbsoluteTolerance, relative, ns.RelativeTolerance)
		}
		if ns.converged(&rep, it) {
			rep.State = Converged
			copy(w, wk)
			if ns.Verbose {
				fmt.Printf("Newton solver converged in %d iterations\n", it)
			}
			return
		}
		if it == ns.MaxIterations {
			return fail(ReasonMaxIterations, nil)
		}
		J, jerr := jacobian(wk)
		if jerr != nil {
			return fail(ReasonAssembly, jerr)
		}
		for i, f := range F {
			rhs[i] = -f
		}
		if err = lin.Solve(J, rhs, dw); err != nil {
			return fail(ReasonLinearSolve, err)
		}
		if err = ns.update(wk, dw, F, &rep, residual); err != nil {
			return fail(ReasonAssembly, err)
		}
		rep.History = append(rep.History, rep.FinalNorm)
	}
}

// update takes the full step, or the first of the halved steps that reduces |F|
func (ns NewtonSolver) update(wk, dw, F []float64, rep *NewtonReport, residual ResidualFunc) (err error) {
	if !ns.LineSearch {
		floats.Add(wk, dw)
		if err = residual(wk, F); err != nil {
			return
		}
		rep.FinalNorm = floats.Norm(F, 2)
		return
	}
	var (
		previous = rep.FinalNorm
		base     = append([]float64{}, wk...)
		lambda   = 1.
	)
	for halving := 0; ; halving++ {
		copy(wk, base)
		floats.AddScaled(wk, lambda, dw)
		if err = residual(wk, F); err != nil {
			return
		}
		rep.FinalNorm = floats.Norm(F, 2)
		if rep.FinalNorm < previous || halving == maxStepHalvings {
			break
		}
		lambda *= 0.5
		if ns.Verbose {
			fmt.Printf("  line search: |F| = %10.4e, step reduced to %g\n", rep.FinalNorm, lambda)
		}
	}
	return
}
