package FEM2D

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"
)

// VTK cell types
const (
	vtkTriangle          = 5
	vtkQuadraticTriangle = 22
)

// WriteVTKVector exports a two component field on a quadratic space as
// quadratic triangles in legacy binary VTK
func WriteVTKVector(filename, name string, ls *LagrangeSpace, ux, uy []float64) error {
	if len(ux) != ls.NNodes || len(uy) != ls.NNodes {
		return fmt.Errorf("field %s has %d, %d values, space has %d nodes", name, len(ux), len(uy), ls.NNodes)
	}
	return writeAtomic(filename, func(w io.Writer) error {
		if err := writeVTKGrid(w, name, ls); err != nil {
			return err
		}
		endi := binary.BigEndian
		fmt.Fprintf(w, "\nPOINT_DATA %d\nVECTORS %s float\n", ls.NNodes, name)
		for i := range ux {
			if err := binary.Write(w, endi, [3]float32{float32(ux[i]), float32(uy[i]), 0}); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteVTKScalar exports a scalar field on a linear or quadratic space
func WriteVTKScalar(filename, name string, ls *LagrangeSpace, f []float64) error {
	if len(f) != ls.NNodes {
		return fmt.Errorf("field %s has %d values, space has %d nodes", name, len(f), ls.NNodes)
	}
	return writeAtomic(filename, func(w io.Writer) error {
		if err := writeVTKGrid(w, name, ls); err != nil {
			return err
		}
		fmt.Fprintf(w, "\nPOINT_DATA %d\nSCALARS %s float 1\nLOOKUP_TABLE default\n", ls.NNodes, name)
		data := make([]float32, len(f))
		for i, v := range f {
			data[i] = float32(v)
		}
		return binary.Write(w, binary.BigEndian, data)
	})
}

func writeVTKGrid(w io.Writer, name string, ls *LagrangeSpace) (err error) {
	var (
		endi     = binary.BigEndian
		K        = len(ls.ElemNodes)
		cellType = int32(vtkTriangle)
	)
	if ls.Order == 2 {
		cellType = vtkQuadraticTriangle
	}
	fmt.Fprintf(w, "# vtk DataFile Version 3.0\n")
	fmt.Fprintf(w, "%s: %d nodes, %d cells, %s\n", name, ls.NNodes, K, time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "BINARY\nDATASET UNSTRUCTURED_GRID\n")
	fmt.Fprintf(w, "POINTS %d float\n", ls.NNodes)
	points := make([]float32, 0, 3*ls.NNodes)
	for i := range ls.X {
		points = append(points, float32(ls.X[i]), float32(ls.Y[i]), 0)
	}
	if err = binary.Write(w, endi, points); err != nil {
		return
	}
	fmt.Fprintf(w, "\nCELLS %d %d\n", K, K*(ls.Np+1))
	cells := make([]int32, 0, K*(ls.Np+1))
	for _, nodes := range ls.ElemNodes {
		cells = append(cells, int32(ls.Np))
		for _, n := range nodes {
			cells = append(cells, int32(n))
		}
	}
	if err = binary.Write(w, endi, cells); err != nil {
		return
	}
	fmt.Fprintf(w, "\nCELL_TYPES %d\n", K)
	types := make([]int32, K)
	for k := range types {
		types[k] = cellType
	}
	return binary.Write(w, endi, types)
}
