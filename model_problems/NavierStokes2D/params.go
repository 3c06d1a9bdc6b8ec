package NavierStokes2D

import (
	"fmt"
	"math"
)

// Parameters of the flow, fixed once constructed. The kinematic viscosity is
// derived from the cylinder diameter and the reference velocity.
type Parameters struct {
	re, d, uinf float64
}

const (
	DefaultDiameter = 0.1
	DefaultUinf     = 1.0
)

func NewParameters(Re, D, Uinf float64) (p Parameters, err error) {
	switch {
	case math.IsNaN(Re) || math.IsInf(Re, 0) || Re <= 0:
		err = fmt.Errorf("%w: Reynolds number must be positive and finite, have %g", ErrUsage, Re)
	case math.IsNaN(D) || D <= 0:
		err = fmt.Errorf("%w: cylinder diameter must be positive, have %g", ErrUsage, D)
	case math.IsNaN(Uinf) || Uinf <= 0:
		err = fmt.Errorf("%w: reference velocity must be positive, have %g", ErrUsage, Uinf)
	default:
		p = Parameters{re: Re, d: D, uinf: Uinf}
	}
	return
}

func DefaultParameters(Re float64) (Parameters, error) {
	return NewParameters(Re, DefaultDiameter, DefaultUinf)
}

func (p Parameters) Re() float64   { return p.re }
func (p Parameters) D() float64    { return p.d }
func (p Parameters) Uinf() float64 { return p.uinf }
func (p Parameters) Nu() float64   { return p.d * p.uinf / p.re }

func (p Parameters) Print() {
	fmt.Printf("%8.3f\t\t= Reynolds Number\n", p.re)
	fmt.Printf("%8.5f\t\t= Cylinder Diameter\n", p.d)
	fmt.Printf("%8.5f\t\t= Reference Velocity\n", p.uinf)
	fmt.Printf("%8.3e\t\t= Kinematic Viscosity\n", p.Nu())
}
