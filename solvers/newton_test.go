package solvers

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/steadyns/utils"
)

// circleLine intersects x^2+y^2 = 4 with x = y
func circleLine() (ResidualFunc, JacobianFunc) {
	residual := func(w, F []float64) error {
		x, y := w[0], w[1]
		F[0] = x*x + y*y - 4
		F[1] = x - y
		return nil
	}
	jacobian := func(w []float64) (utils.CSR, error) {
		J := utils.NewDOK(2, 2)
		J.Add(0, 0, 2*w[0])
		J.Add(0, 1, 2*w[1])
		J.Add(1, 0, 1)
		J.Add(1, 1, -1)
		return J.ToCSR(), nil
	}
	return residual, jacobian
}

// scalar wraps a one dimensional problem
func scalar(f, df func(x float64) float64) (ResidualFunc, JacobianFunc) {
	residual := func(w, F []float64) error {
		F[0] = f(w[0])
		return nil
	}
	jacobian := func(w []float64) (utils.CSR, error) {
		J := utils.NewDOK(1, 1)
		J.Add(0, 0, df(w[0]))
		return J.ToCSR(), nil
	}
	return residual, jacobian
}

func TestNewtonConverges(t *testing.T) {
	ns := NewNewtonSolver()
	assert.Equal(t, 1.e-10, ns.AbsoluteTolerance)
	assert.Equal(t, 1.e-6, ns.RelativeTolerance)
	assert.Equal(t, 50, ns.MaxIterations)
	assert.False(t, ns.LineSearch)

	residual, jacobian := circleLine()
	w := []float64{1, 0.5}
	rep, err := ns.Solve(w, residual, jacobian)
	require.NoError(t, err)
	assert.Equal(t, Converged, rep.State)
	assert.Equal(t, "Converged", rep.State.String())
	assert.InDelta(t, math.Sqrt2, w[0], 1.e-10)
	assert.InDelta(t, math.Sqrt2, w[1], 1.e-10)
	assert.Less(t, rep.Iterations, 10)
	assert.Len(t, rep.History, rep.Iterations+1)
	assert.Equal(t, rep.History[0], rep.InitialNorm)
	assert.Equal(t, rep.History[rep.Iterations], rep.FinalNorm)
	assert.True(t, rep.AbsoluteMet || rep.RelativeMet)

	{ // Relative test alone
		ns := NewNewtonSolver()
		ns.AbsoluteTolerance = 0
		w := []float64{1, 0.5}
		rep, err := ns.Solve(w, residual, jacobian)
		require.NoError(t, err)
		assert.True(t, rep.RelativeMet)
		assert.False(t, rep.AbsoluteMet)
		assert.Less(t, rep.FinalNorm/rep.InitialNorm, 1.e-6)
	}
	{ // An exact initial guess needs no update
		w := []float64{math.Sqrt2, math.Sqrt2}
		rep, err := ns.Solve(w, residual, jacobian)
		require.NoError(t, err)
		assert.Equal(t, 0, rep.Iterations)
		assert.True(t, rep.AbsoluteMet)
		assert.False(t, rep.RelativeMet)
	}
	{ // A linear problem converges in one step
		residual, jacobian := scalar(
			func(x float64) float64 { return 3*x - 6 },
			func(x float64) float64 { return 3 },
		)
		w := []float64{100}
		rep, err := ns.Solve(w, residual, jacobian)
		require.NoError(t, err)
		assert.Equal(t, 1, rep.Iterations)
		assert.InDelta(t, 2., w[0], 1.e-12)
	}
}

func TestNewtonFailures(t *testing.T) {
	{ // No real root: the iteration budget runs out and w is untouched
		ns := NewNewtonSolver()
		ns.MaxIterations = 5
		residual, jacobian := scalar(
			func(x float64) float64 { return x*x + 1 },
			func(x float64) float64 { return 2 * x },
		)
		w := []float64{2}
		rep, err := ns.Solve(w, residual, jacobian)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrConvergence))
		var ce *ConvergenceError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, ReasonMaxIterations, ce.Reason)
		assert.Equal(t, 5, ce.Report.Iterations)
		assert.Equal(t, Diverged, rep.State)
		assert.Equal(t, []float64{2}, w)
	}
	{ // Non finite residual
		ns := NewNewtonSolver()
		residual, jacobian := scalar(
			func(x float64) float64 { return math.NaN() },
			func(x float64) float64 { return 1 },
		)
		_, err := ns.Solve([]float64{1}, residual, jacobian)
		var ce *ConvergenceError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, ReasonNonFinite, ce.Reason)
	}
	{ // Singular jacobian
		ns := NewNewtonSolver()
		residual := func(w, F []float64) error {
			F[0], F[1] = w[0]+w[1]-1, w[0]+w[1]-1
			return nil
		}
		jacobian := func(w []float64) (utils.CSR, error) {
			J := utils.NewDOK(2, 2)
			J.Add(0, 0, 1)
			J.Add(0, 1, 1)
			J.Add(1, 0, 1)
			J.Add(1, 1, 1)
			return J.ToCSR(), nil
		}
		_, err := ns.Solve([]float64{0, 0}, residual, jacobian)
		var ce *ConvergenceError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, ReasonLinearSolve, ce.Reason)
		assert.ErrorIs(t, err, ErrConvergence)
		assert.NotNil(t, ce.Err)
	}
	{ // Assembly errors are passed through
		ns := NewNewtonSolver()
		boom := errors.New("boom")
		residual := func(w, F []float64) error { return boom }
		_, err := ns.Solve([]float64{0}, residual, nil)
		assert.ErrorIs(t, err, boom)
		assert.ErrorIs(t, err, ErrConvergence)
	}
}

func TestNewtonLineSearch(t *testing.T) {
	residual, jacobian := scalar(
		math.Atan,
		func(x float64) float64 { return 1 / (1 + x*x) },
	)
	{ // Full Newton steps overshoot from x = 2
		ns := NewNewtonSolver()
		ns.MaxIterations = 20
		_, err := ns.Solve([]float64{2}, residual, jacobian)
		assert.ErrorIs(t, err, ErrConvergence)
	}
	{
		ns := NewNewtonSolver()
		ns.LineSearch = true
		w := []float64{2}
		rep, err := ns.Solve(w, residual, jacobian)
		require.NoError(t, err)
		assert.InDelta(t, 0., w[0], 1.e-9)
		for i := 1; i < len(rep.History); i++ {
			assert.Less(t, rep.History[i], rep.History[i-1])
		}
	}
}

func TestBandLUSolver(t *testing.T) {
	var (
		n = 20
		A = utils.NewDOK(n, n)
		b = make([]float64, n)
		x = make([]float64, n)
	)
	for i := 0; i < n; i++ {
		A.Add(i, i, 3)
		A.Add(i, (i+7)%n, -1)
		A.Add((i+7)%n, i, -0.5)
		b[i] = 1
	}
	C := A.ToCSR()
	s := NewBandLUSolver(false)
	for pass := 0; pass < 2; pass++ {
		require.NoError(t, s.Solve(C, b, x))
		assert.InDeltaSlice(t, b, C.MulVec(x, nil), 1.e-12)
	}
}
