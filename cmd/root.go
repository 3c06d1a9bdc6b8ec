/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/steadyns/InputParameters"
	"github.com/notargets/steadyns/model_problems/NavierStokes2D"
	"github.com/notargets/steadyns/solvers"
)

type ModelNS struct {
	Re      float64
	Restart bool
	ICFile  string
	Profile bool
	Verbose bool
}

const exampleFile = `
########################################
Title: "Cylinder in channel"
Diameter: 0.1
Uinf: 1.
Resolution: 8 # Used when no MeshFile is given
AbsoluteTolerance: 1.e-10
RelativeTolerance: 1.e-6
MaxIterations: 50
LineSearch: false
########################################
`

var rootCmd = &cobra.Command{
	Use:   "steadyns <Reynolds_number> [restart_flag]",
	Short: "Steady incompressible flow past a cylinder in a channel",
	Long: `
Solves the steady incompressible Navier-Stokes equations past a cylinder in a
channel with Taylor-Hood P2-P1 finite elements and Newton's method, then
projects the vorticity. A restart_flag of "yes" starts from the restart file.

Writes steady.gob, velocity.vtk, pressure.vtk and vorticity.vtk.
Example input conditions file:` + exampleFile,
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.RangeArgs(1, 2)(cmd, args); err != nil {
			return fmt.Errorf("%w: %v", NavierStokes2D.ErrUsage, err)
		}
		return nil
	},
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			mns  *ModelNS
			ip   *InputParameters.InputParametersNS
			opts NavierStokes2D.RunOptions
		)
		if mns, err = parseModel(cmd, args); err != nil {
			return
		}
		if ip, err = loadInput(cmd, mns.ICFile); err != nil {
			return
		}
		if mns.Verbose {
			ip.Print()
		}
		opts = runOptions(mns, ip)
		if mns.Profile {
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
		}
		_, err = NavierStokes2D.Run(opts)
		return
	},
}

func parseModel(cmd *cobra.Command, args []string) (mns *ModelNS, err error) {
	mns = &ModelNS{}
	if mns.Re, err = strconv.ParseFloat(args[0], 64); err != nil {
		return nil, fmt.Errorf("%w: Reynolds number %q is not a number", NavierStokes2D.ErrUsage, args[0])
	}
	if len(args) > 1 {
		mns.Restart = args[1] == "yes"
	}
	if mns.ICFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
		return
	}
	mns.Profile, _ = cmd.Flags().GetBool("profile")
	mns.Verbose, _ = cmd.Flags().GetBool("verbose")
	return
}

// Command line flags and the input file keys they override
var flagKeys = map[string]string{
	"meshFile":      InputParameters.KeyMeshFile,
	"outputDir":     InputParameters.KeyOutputDir,
	"restartFile":   InputParameters.KeyRestartFile,
	"resolution":    InputParameters.KeyResolution,
	"atol":          InputParameters.KeyAbsoluteTolerance,
	"rtol":          InputParameters.KeyRelativeTolerance,
	"maxIterations": InputParameters.KeyMaxIterations,
	"lineSearch":    InputParameters.KeyLineSearch,
}

// loadInput layers the parameters, flag over STEADYNS_* environment over
// input file over default
func loadInput(cmd *cobra.Command, icFile string) (ip *InputParameters.InputParametersNS, err error) {
	var (
		v    = viper.New()
		data []byte
	)
	v.SetEnvPrefix("STEADYNS")
	v.AutomaticEnv()
	v.SetDefault(InputParameters.KeyTitle, "Cylinder in channel")
	v.SetDefault(InputParameters.KeyDiameter, NavierStokes2D.DefaultDiameter)
	v.SetDefault(InputParameters.KeyUinf, NavierStokes2D.DefaultUinf)
	for name, key := range flagKeys {
		if err = v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return
		}
	}
	if len(icFile) != 0 {
		if icFile, err = homedir.Expand(icFile); err != nil {
			return nil, fmt.Errorf("%w: %v", NavierStokes2D.ErrUsage, err)
		}
		if data, err = os.ReadFile(icFile); err != nil {
			return nil, &NavierStokes2D.ResourceError{Op: "read input conditions", Path: icFile, Err: err}
		}
		// Typed parse first, the layered read below converts values loosely
		if err = (&InputParameters.InputParametersNS{}).Parse(data); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", NavierStokes2D.ErrUsage, icFile, err)
		}
		v.SetConfigType("yaml")
		if err = v.ReadConfig(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", NavierStokes2D.ErrUsage, icFile, err)
		}
	}
	ip = &InputParameters.InputParametersNS{
		Title:             v.GetString(InputParameters.KeyTitle),
		Diameter:          v.GetFloat64(InputParameters.KeyDiameter),
		Uinf:              v.GetFloat64(InputParameters.KeyUinf),
		MeshFile:          v.GetString(InputParameters.KeyMeshFile),
		Resolution:        v.GetInt(InputParameters.KeyResolution),
		OutputDir:         v.GetString(InputParameters.KeyOutputDir),
		RestartFile:       v.GetString(InputParameters.KeyRestartFile),
		AbsoluteTolerance: v.GetFloat64(InputParameters.KeyAbsoluteTolerance),
		RelativeTolerance: v.GetFloat64(InputParameters.KeyRelativeTolerance),
		MaxIterations:     v.GetInt(InputParameters.KeyMaxIterations),
		LineSearch:        v.GetBool(InputParameters.KeyLineSearch),
	}
	for _, path := range []*string{&ip.MeshFile, &ip.OutputDir, &ip.RestartFile} {
		if *path, err = homedir.Expand(*path); err != nil {
			return nil, fmt.Errorf("%w: %v", NavierStokes2D.ErrUsage, err)
		}
	}
	if err = ip.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", NavierStokes2D.ErrUsage, err)
	}
	return
}

func runOptions(mns *ModelNS, ip *InputParameters.InputParametersNS) NavierStokes2D.RunOptions {
	return NavierStokes2D.RunOptions{
		Re:          mns.Re,
		D:           ip.Diameter,
		Uinf:        ip.Uinf,
		Restart:     mns.Restart,
		MeshFile:    ip.MeshFile,
		Resolution:  ip.Resolution,
		OutputDir:   ip.OutputDir,
		RestartFile: ip.RestartFile,
		Config: NavierStokes2D.SolverConfig{
			AbsoluteTolerance: ip.AbsoluteTolerance,
			RelativeTolerance: ip.RelativeTolerance,
			MaxIterations:     ip.MaxIterations,
			LineSearch:        ip.LineSearch,
		},
		Verbose: mns.Verbose,
	}
}

func addSolverFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("meshFile", "F", "", "Mesh file to read in Gambit (.neu) format, a cylinder in channel mesh is generated if empty")
	cmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- AbsoluteTolerance\n\t- MaxIterations")
	cmd.Flags().StringP("outputDir", "o", ".", "directory receiving the restart and VTK files")
	cmd.Flags().String("restartFile", "", "restart file to write, and to read with restart_flag yes (default steady.gob in outputDir)")
	cmd.Flags().Int("resolution", NavierStokes2D.DefaultResolution, "resolution of the generated mesh")
	cmd.Flags().Float64("atol", solvers.DefaultAbsoluteTolerance, "Newton absolute tolerance on |F|")
	cmd.Flags().Float64("rtol", solvers.DefaultRelativeTolerance, "Newton tolerance on |F| relative to the initial residual")
	cmd.Flags().Int("maxIterations", solvers.DefaultMaxIterations, "Newton iteration budget")
	cmd.Flags().Bool("lineSearch", false, "halve Newton steps that do not reduce the residual")
	cmd.Flags().Bool("profile", false, "write a CPU profile to the current directory")
	cmd.Flags().BoolP("verbose", "v", false, "print progress")
}

func init() {
	addSolverFlags(rootCmd)
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", NavierStokes2D.ErrUsage, err)
	})
}

// ExitCode classifies an error returned by a command. A singular Jacobian
// inside Newton is a convergence failure, linear solve failures are those of
// the post-processing after a converged solve.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, NavierStokes2D.ErrUsage):
		return 2
	case errors.Is(err, NavierStokes2D.ErrResource):
		return 3
	case errors.Is(err, NavierStokes2D.ErrLinearSolve):
		return 5
	case errors.Is(err, NavierStokes2D.ErrConvergence):
		return 4
	}
	return 1
}

// Execute runs the command line and returns the process exit code
func Execute() int {
	cmd, err := rootCmd.ExecuteC()
	if err == nil {
		return 0
	}
	fmt.Fprintf(os.Stderr, "error: %s\n", err)
	if errors.Is(err, NavierStokes2D.ErrUsage) {
		fmt.Fprint(os.Stderr, cmd.UsageString())
	}
	return ExitCode(err)
}
