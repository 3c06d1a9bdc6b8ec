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
	"fmt"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/notargets/steadyns/FEM2D"
	"github.com/notargets/steadyns/model_problems/NavierStokes2D"
)

// MeshCmd represents the mesh command
var MeshCmd = &cobra.Command{
	Use:   "mesh",
	Short: "Write the cylinder in channel mesh as a Gambit neutral file",
	Long: `
Generates the triangle mesh used when no mesh file is given and writes it with
its wall, inlet and outlet boundary sets, ready for steadyns -F`,
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.NoArgs(cmd, args); err != nil {
			return fmt.Errorf("%w: %v", NavierStokes2D.ErrUsage, err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			m *FEM2D.TriMesh
		)
		out, _ := cmd.Flags().GetString("out")
		resolution, _ := cmd.Flags().GetInt("resolution")
		verbose, _ := cmd.Flags().GetBool("verbose")
		if out, err = homedir.Expand(out); err != nil {
			return fmt.Errorf("%w: %v", NavierStokes2D.ErrUsage, err)
		}
		if m, err = NavierStokes2D.LoadMesh("", resolution, verbose); err != nil {
			return
		}
		if err = FEM2D.WriteGambit2DFile(out, m); err != nil {
			return &NavierStokes2D.ResourceError{Op: "write mesh", Path: out, Err: err}
		}
		fmt.Printf("Wrote %s: Nv = %d, K = %d, regions = %v\n", out, m.Nv(), m.K(), m.Tags())
		return
	},
}

func init() {
	rootCmd.AddCommand(MeshCmd)
	MeshCmd.Flags().StringP("out", "o", "cylinder.neu", "Gambit (.neu) file to write")
	MeshCmd.Flags().IntP("resolution", "r", NavierStokes2D.DefaultResolution, "cells along a cylinder quarter and the channel half height")
	MeshCmd.Flags().BoolP("verbose", "v", false, "print mesh statistics")
}
