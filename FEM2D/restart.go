package FEM2D

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"
)

const RestartVersion = 1

// RestartRecord is a converged mixed state together with enough of its
// discretization to reject a file written for another mesh
type RestartRecord struct {
	Version   int
	Reynolds  float64
	NVertices int
	NElements int
	NVelocity int
	NDOF      int
	State     []float64
}

func NewRestartRecord(ms *MixedSpace, Re float64, w []float64) RestartRecord {
	return RestartRecord{
		Version:   RestartVersion,
		Reynolds:  Re,
		NVertices: ms.Mesh().Nv(),
		NElements: ms.Mesh().K(),
		NVelocity: ms.NVelocity,
		NDOF:      ms.NDOF,
		State:     append([]float64{}, w...),
	}
}

// Check verifies the record belongs to the space ms
func (rec RestartRecord) Check(ms *MixedSpace) (err error) {
	switch {
	case rec.Version != RestartVersion:
		err = fmt.Errorf("restart version %d, expected %d", rec.Version, RestartVersion)
	case rec.NVertices != ms.Mesh().Nv() || rec.NElements != ms.Mesh().K():
		err = fmt.Errorf("restart written for a mesh with %d vertices and %d elements, have %d and %d",
			rec.NVertices, rec.NElements, ms.Mesh().Nv(), ms.Mesh().K())
	case rec.NDOF != ms.NDOF || rec.NVelocity != ms.NVelocity || len(rec.State) != ms.NDOF:
		err = fmt.Errorf("restart state has %d unknowns, space has %d", len(rec.State), ms.NDOF)
	}
	return
}

func WriteRestart(filename string, rec RestartRecord) error {
	return writeAtomic(filename, func(w io.Writer) error {
		return gob.NewEncoder(w).Encode(rec)
	})
}

func ReadRestart(filename string) (rec RestartRecord, err error) {
	var (
		f *os.File
	)
	if f, err = os.Open(filename); err != nil {
		return
	}
	defer f.Close()
	if err = gob.NewDecoder(f).Decode(&rec); err != nil {
		err = fmt.Errorf("decoding restart %s: %w", filename, err)
	}
	return
}
