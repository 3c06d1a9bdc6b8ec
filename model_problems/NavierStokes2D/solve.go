package NavierStokes2D

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/steadyns/FEM2D"
	"github.com/notargets/steadyns/solvers"
	"github.com/notargets/steadyns/utils"
)

// SolverConfig is the Newton configuration taken from the command line
type SolverConfig struct {
	AbsoluteTolerance float64
	RelativeTolerance float64
	MaxIterations     int
	LineSearch        bool
}

func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		AbsoluteTolerance: solvers.DefaultAbsoluteTolerance,
		RelativeTolerance: solvers.DefaultRelativeTolerance,
		MaxIterations:     solvers.DefaultMaxIterations,
	}
}

func (sc SolverConfig) validate() (err error) {
	switch {
	case sc.AbsoluteTolerance < 0 || math.IsNaN(sc.AbsoluteTolerance):
		err = fmt.Errorf("%w: absolute tolerance must be >= 0, have %g", ErrUsage, sc.AbsoluteTolerance)
	case sc.RelativeTolerance < 0 || math.IsNaN(sc.RelativeTolerance):
		err = fmt.Errorf("%w: relative tolerance must be >= 0, have %g", ErrUsage, sc.RelativeTolerance)
	case sc.AbsoluteTolerance == 0 && sc.RelativeTolerance == 0:
		err = fmt.Errorf("%w: at least one tolerance must be positive", ErrUsage)
	case sc.MaxIterations < 1:
		err = fmt.Errorf("%w: iteration budget must be at least 1, have %d", ErrUsage, sc.MaxIterations)
	}
	return
}

// NavierStokes is a steady flow problem on a fixed mesh
type NavierStokes struct {
	Params    Parameters
	Mesh      *FEM2D.TriMesh
	Space     *FEM2D.MixedSpace
	BCs       *BoundaryConditions
	Form      *WeakForm
	Newton    solvers.NewtonSolver
	W         []float64 // Current mixed state
	Report    solvers.NewtonReport
	Vorticity []float64
	Converged bool
	verbose   bool
}

func NewNavierStokes(params Parameters, mesh *FEM2D.TriMesh, cfg SolverConfig, verbose bool) (c *NavierStokes, err error) {
	if err = cfg.validate(); err != nil {
		return
	}
	if err = mesh.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	c = &NavierStokes{
		Params:  params,
		Mesh:    mesh,
		verbose: verbose,
	}
	if c.Space, err = FEM2D.NewTaylorHoodSpace(mesh); err != nil {
		return nil, err
	}
	if c.BCs, err = DefaultBoundaryConditions(c.Space); err != nil {
		return nil, err
	}
	c.Form = NewWeakForm(c.Space, params, c.BCs)
	c.Newton = solvers.NewtonSolver{
		AbsoluteTolerance: cfg.AbsoluteTolerance,
		RelativeTolerance: cfg.RelativeTolerance,
		MaxIterations:     cfg.MaxIterations,
		LineSearch:        cfg.LineSearch,
		Verbose:           verbose,
		Linear:            solvers.NewBandLUSolver(verbose),
	}
	c.W = make([]float64, c.Space.NDOF)
	if verbose {
		fmt.Printf("Steady Navier-Stokes Equations in 2 Dimensions\n")
		params.Print()
		fmt.Printf("Taylor-Hood P2-P1: K = %d elements, %d velocity nodes, %d pressure nodes, %d unknowns\n",
			mesh.K(), c.Space.V.NNodes, c.Space.Q.NNodes, c.Space.NDOF)
		fmt.Printf("Pinned velocity unknowns: %d\n", c.BCs.Len())
	}
	return
}

// LoadRestart initializes the state from a restart file written for this mesh
func (c *NavierStokes) LoadRestart(filename string) (err error) {
	var (
		rec FEM2D.RestartRecord
	)
	if rec, err = FEM2D.ReadRestart(filename); err != nil {
		return &ResourceError{Op: "read restart", Path: filename, Err: err}
	}
	if err = rec.Check(c.Space); err != nil {
		return &ResourceError{Op: "read restart", Path: filename, Err: err}
	}
	copy(c.W, rec.State)
	if c.verbose {
		fmt.Printf("Restarting from %s (written at Re = %g)\n", filename, rec.Reynolds)
	}
	return
}

// Solve runs Newton from the current state with the boundary values imposed.
// The state is replaced only when the iteration converges.
func (c *NavierStokes) Solve() (err error) {
	c.Converged = false
	w := append([]float64{}, c.W...)
	c.BCs.Apply(w)
	c.Report, err = c.Newton.Solve(w, c.Form.ResidualFunc(), c.Form.JacobianFunc())
	if err != nil {
		return
	}
	copy(c.W, w)
	c.Converged = true
	return
}

func (c *NavierStokes) SaveRestart(filename string) (err error) {
	if !c.Converged {
		return fmt.Errorf("%w: no converged state to save", ErrConvergence)
	}
	rec := FEM2D.NewRestartRecord(c.Space, c.Params.Re(), c.W)
	if err = FEM2D.WriteRestart(filename, rec); err != nil {
		return &ResourceError{Op: "write restart", Path: filename, Err: err}
	}
	return
}

// Velocity returns the velocity components at the quadratic nodes
func (c *NavierStokes) Velocity() (ux, uy []float64) {
	ux, uy, _ = c.Space.Split(c.W)
	return
}

// Pressure returns the pressure at the mesh vertices
func (c *NavierStokes) Pressure() (p []float64) {
	_, _, p = c.Space.Split(c.W)
	return
}

func (c *NavierStokes) ComputeVorticity() (err error) {
	c.Vorticity, err = ComputeVorticity(c.Space, c.W)
	return
}

// ExportFlow writes velocity.vtk and pressure.vtk into dir
func (c *NavierStokes) ExportFlow(dir string) (err error) {
	if !c.Converged {
		return fmt.Errorf("%w: no converged state to export", ErrConvergence)
	}
	ux, uy, p := c.Space.Split(c.W)
	fileName := filepath.Join(dir, "velocity.vtk")
	if err = FEM2D.WriteVTKVector(fileName, "velocity", c.Space.V, ux, uy); err != nil {
		return &ResourceError{Op: "export", Path: fileName, Err: err}
	}
	fileName = filepath.Join(dir, "pressure.vtk")
	if err = FEM2D.WriteVTKScalar(fileName, "pressure", c.Space.Q, p); err != nil {
		return &ResourceError{Op: "export", Path: fileName, Err: err}
	}
	return
}

// ExportVorticity writes vorticity.vtk into dir
func (c *NavierStokes) ExportVorticity(dir string) (err error) {
	if c.Vorticity == nil {
		return fmt.Errorf("%w: vorticity has not been computed", ErrUsage)
	}
	fileName := filepath.Join(dir, "vorticity.vtk")
	if err = FEM2D.WriteVTKScalar(fileName, "vorticity", c.Space.Q, c.Vorticity); err != nil {
		return &ResourceError{Op: "export", Path: fileName, Err: err}
	}
	return
}

// Summary collects the figures reported after a run
type Summary struct {
	Iterations                 int
	InitialResidual            float64
	FinalResidual              float64
	ResidualHistory            []float64
	DivergenceNorm             float64 // l2 norm of (q, div u) over all pressure test functions
	VorticityMin, VorticityMax float64
}

func (c *NavierStokes) Summary() (s Summary) {
	s = Summary{
		Iterations:      c.Report.Iterations,
		InitialResidual: c.Report.InitialNorm,
		FinalResidual:   c.Report.FinalNorm,
		ResidualHistory: c.Report.History,
		DivergenceNorm:  floats.Norm(c.Form.Divergence(c.W), 2),
	}
	if len(c.Vorticity) > 0 {
		s.VorticityMin, s.VorticityMax = floats.Min(c.Vorticity), floats.Max(c.Vorticity)
	}
	return
}

func (c *NavierStokes) PrintSummary() {
	s := c.Summary()
	fmt.Printf("Newton iterations = %d, |F| %10.4e -> %10.4e\n", s.Iterations, s.InitialResidual, s.FinalResidual)
	for i, r := range s.ResidualHistory {
		fmt.Printf("\t%3d\t%10.4e\n", i, r)
	}
	fmt.Printf("|(q, div u)| = %10.4e\n", s.DivergenceNorm)
	if len(c.Vorticity) > 0 {
		fmt.Printf("Vorticity Min/Max = %8.4f, %8.4f\n", s.VorticityMin, s.VorticityMax)
	}
	fmt.Println(utils.GetMemUsage())
}

// LoadMesh reads a Gambit file, or generates the cylinder in channel mesh
// when meshFile is empty
func LoadMesh(meshFile string, resolution int, verbose bool) (m *FEM2D.TriMesh, err error) {
	if len(meshFile) == 0 {
		if m, err = FEM2D.NewChannelCylinderMesh(FEM2D.DefaultChannelCylinder(resolution)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUsage, err)
		}
		if verbose {
			fmt.Printf("Generated %s: Nv = %d, K = %d\n", m.Title, m.Nv(), m.K())
		}
		return
	}
	if m, err = FEM2D.ReadGambit2D(meshFile, verbose); err != nil {
		return nil, &ResourceError{Op: "read mesh", Path: meshFile, Err: err}
	}
	return
}

// DefaultResolution gives about three thousand triangles around the cylinder
const DefaultResolution = 8

// RunOptions describes one invocation of the full pipeline
type RunOptions struct {
	Re          float64
	D, Uinf     float64
	Restart     bool
	MeshFile    string
	Resolution  int
	OutputDir   string
	RestartFile string
	Config      SolverConfig
	Verbose     bool
}

// Run builds the problem, optionally restarts, solves, saves the restart
// file, exports the flow and then the vorticity. Nothing is written when
// the solve fails.
func Run(opts RunOptions) (c *NavierStokes, err error) {
	var (
		params Parameters
		mesh   *FEM2D.TriMesh
	)
	if opts.D == 0 {
		opts.D = DefaultDiameter
	}
	if opts.Uinf == 0 {
		opts.Uinf = DefaultUinf
	}
	if opts.Resolution == 0 {
		opts.Resolution = DefaultResolution
	}
	if params, err = NewParameters(opts.Re, opts.D, opts.Uinf); err != nil {
		return
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	if opts.RestartFile == "" {
		opts.RestartFile = filepath.Join(opts.OutputDir, "steady.gob")
	}
	if fi, serr := os.Stat(opts.OutputDir); serr != nil || !fi.IsDir() {
		if serr == nil {
			serr = errors.New("not a directory")
		}
		return nil, &ResourceError{Op: "open output directory", Path: opts.OutputDir, Err: serr}
	}
	if mesh, err = LoadMesh(opts.MeshFile, opts.Resolution, opts.Verbose); err != nil {
		return
	}
	if c, err = NewNavierStokes(params, mesh, opts.Config, opts.Verbose); err != nil {
		return
	}
	if opts.Restart {
		if err = c.LoadRestart(opts.RestartFile); err != nil {
			return
		}
	}
	if err = c.Solve(); err != nil {
		return
	}
	if err = c.SaveRestart(opts.RestartFile); err != nil {
		return
	}
	if err = c.ExportFlow(opts.OutputDir); err != nil {
		return
	}
	if err = c.ComputeVorticity(); err != nil {
		return
	}
	if err = c.ExportVorticity(opts.OutputDir); err != nil {
		return
	}
	if opts.Verbose {
		c.PrintSummary()
	}
	return
}
