package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file. The Reynolds number is given
// on the command line.
type InputParametersNS struct {
	Title             string  `json:"Title"`
	Diameter          float64 `json:"Diameter"`
	Uinf              float64 `json:"Uinf"`
	MeshFile          string  `json:"MeshFile"`
	Resolution        int     `json:"Resolution"` // Generated mesh only
	OutputDir         string  `json:"OutputDir"`
	RestartFile       string  `json:"RestartFile"`
	AbsoluteTolerance float64 `json:"AbsoluteTolerance"`
	RelativeTolerance float64 `json:"RelativeTolerance"`
	MaxIterations     int     `json:"MaxIterations"`
	LineSearch        bool    `json:"LineSearch"`
}

// Keys of the input file, shared with the command line layer
const (
	KeyTitle             = "Title"
	KeyDiameter          = "Diameter"
	KeyUinf              = "Uinf"
	KeyMeshFile          = "MeshFile"
	KeyResolution        = "Resolution"
	KeyOutputDir         = "OutputDir"
	KeyRestartFile       = "RestartFile"
	KeyAbsoluteTolerance = "AbsoluteTolerance"
	KeyRelativeTolerance = "RelativeTolerance"
	KeyMaxIterations     = "MaxIterations"
	KeyLineSearch        = "LineSearch"
)

func (ip *InputParametersNS) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

// Validate rejects values no run could use. A zero Diameter, Uinf or
// Resolution means "use the default", the iteration budget has no such default.
func (ip *InputParametersNS) Validate() (err error) {
	switch {
	case ip.Diameter < 0:
		err = fmt.Errorf("diameter must be positive, have %g", ip.Diameter)
	case ip.Uinf < 0:
		err = fmt.Errorf("reference velocity must be positive, have %g", ip.Uinf)
	case ip.Resolution < 0:
		err = fmt.Errorf("mesh resolution must be positive, have %d", ip.Resolution)
	case ip.AbsoluteTolerance < 0 || ip.RelativeTolerance < 0:
		err = fmt.Errorf("tolerances must not be negative, have %g and %g",
			ip.AbsoluteTolerance, ip.RelativeTolerance)
	case ip.MaxIterations < 1:
		err = fmt.Errorf("iteration budget must be at least 1, have %d", ip.MaxIterations)
	}
	return
}

func (ip *InputParametersNS) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("%8.5f\t\t= Diameter\n", ip.Diameter)
	fmt.Printf("%8.5f\t\t= Uinf\n", ip.Uinf)
	if len(ip.MeshFile) != 0 {
		fmt.Printf("[%s]\t= Mesh File\n", ip.MeshFile)
	} else {
		fmt.Printf("[%d]\t\t\t\t= Generated Mesh Resolution\n", ip.Resolution)
	}
	fmt.Printf("[%s]\t\t\t= Output Directory\n", ip.OutputDir)
	fmt.Printf("[%s]\t= Restart File\n", ip.RestartFile)
	fmt.Printf("%8.2e\t\t= Absolute Tolerance\n", ip.AbsoluteTolerance)
	fmt.Printf("%8.2e\t\t= Relative Tolerance\n", ip.RelativeTolerance)
	fmt.Printf("[%d]\t\t\t\t= Max Iterations\n", ip.MaxIterations)
	fmt.Printf("[%v]\t\t\t= Line Search\n", ip.LineSearch)
}
