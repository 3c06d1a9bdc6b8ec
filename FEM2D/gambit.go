package FEM2D

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/notargets/steadyns/utils"
)

// ReadGambit2D reads a two dimensional triangle mesh with its boundary
// regions from a Gambit neutral file
func ReadGambit2D(filename string, verbose bool) (m *TriMesh, err error) {
	var (
		file *os.File
	)
	if verbose {
		fmt.Printf("Reading file named: %s\n", filename)
	}
	if file, err = os.Open(filename); err != nil {
		return
	}
	defer file.Close()
	if m, err = ReadGambit2DFrom(file); err != nil {
		err = fmt.Errorf("%s: %w", filename, err)
		return
	}
	if verbose {
		xmin, xmax, ymin, ymax := m.BoundingBox()
		fmt.Printf("Nv = %d, K = %d, regions = %v\n", m.Nv(), m.K(), m.Tags())
		fmt.Printf("Bounding Box:\nXMin/XMax = %5.3f, %5.3f\nYMin/YMax = %5.3f, %5.3f\n",
			xmin, xmax, ymin, ymax)
	}
	return
}

type gambitBC struct {
	name  string
	tag   int
	faces [][2]int // element, face (both zero based)
}

// ReadGambit2DFrom parses a Gambit neutral stream, the mesh is validated
// before it is returned
func ReadGambit2DFrom(r io.Reader) (m *TriMesh, err error) {
	var (
		scanner      = bufio.NewScanner(r)
		lineNum      int
		title        string
		numnp, nelem int
		ngrps, nbset int
		VX, VY       []float64
		EToV         [][3]int
		bcs          []gambitBC
	)
	next := func() (line string, ok bool) {
		if ok = scanner.Scan(); ok {
			lineNum++
			line = strings.TrimSpace(scanner.Text())
		}
		return
	}
	fail := func(format string, args ...any) error {
		return fmt.Errorf("line %d: %s", lineNum, fmt.Sprintf(format, args...))
	}
	for {
		line, ok := next()
		if !ok {
			break
		}
		switch {
		case lineNum == 3:
			title = line
		case strings.Contains(line, "NUMNP") && strings.Contains(line, "NELEM"):
			if line, ok = next(); !ok {
				return nil, fail("missing problem size line")
			}
			var ndfcd, ndfvl int
			n, _ := fmt.Sscanf(line, "%d %d %d %d %d %d", &numnp, &nelem, &ngrps, &nbset, &ndfcd, &ndfvl)
			if n < 5 {
				return nil, fail("read fewer than 5 problem sizes: %q", line)
			}
			if ndfcd != 2 && ndfcd != 3 {
				return nil, fail("space dimensions not 2 or 3")
			}
			VX, VY = make([]float64, numnp), make([]float64, numnp)
			EToV = make([][3]int, 0, nelem)
		case strings.Contains(line, "NODAL COORDINATES"):
			for i := 0; i < numnp; i++ {
				if line, ok = next(); !ok {
					return nil, fail("file ends inside the coordinate section")
				}
				fields := strings.Fields(line)
				if len(fields) < 3 {
					return nil, fail("read fewer than 3 values: %q", line)
				}
				id, err1 := strconv.Atoi(fields[0])
				x, err2 := strconv.ParseFloat(fields[1], 64)
				y, err3 := strconv.ParseFloat(fields[2], 64)
				if err1 != nil || err2 != nil || err3 != nil || id < 1 || id > numnp {
					return nil, fail("bad vertex line %q", line)
				}
				VX[id-1], VY[id-1] = x, y
			}
		case strings.Contains(line, "ELEMENTS/CELLS"):
			for i := 0; i < nelem; i++ {
				if line, ok = next(); !ok {
					return nil, fail("file ends inside the element section")
				}
				var id, typ, nnodes, n1, n2, n3 int
				n, _ := fmt.Sscanf(line, "%d %d %d %d %d %d", &id, &typ, &nnodes, &n1, &n2, &n3)
				if n < 6 {
					return nil, fail("read fewer than 6 values: %q", line)
				}
				if typ != 3 || nnodes != 3 {
					return nil, fail("element %d is not a linear triangle (type %d, %d nodes)", id, typ, nnodes)
				}
				if id != len(EToV)+1 {
					return nil, fail("elements out of order, found %d expected %d", id, len(EToV)+1)
				}
				EToV = append(EToV, [3]int{n1 - 1, n2 - 1, n3 - 1})
			}
		case strings.Contains(line, "BOUNDARY CONDITIONS"):
			if line, ok = next(); !ok {
				return nil, fail("missing boundary condition header")
			}
			var bc gambitBC
			if bc, err = parseGambitBCHeader(line); err != nil {
				return nil, fail("%s", err.Error())
			}
			var nentry int
			nentry, _ = strconv.Atoi(strings.Fields(line)[2])
			for i := 0; i < nentry; i++ {
				if line, ok = next(); !ok {
					return nil, fail("file ends inside boundary %q", bc.name)
				}
				var el, typ, face int
				if n, _ := fmt.Sscanf(line, "%d %d %d", &el, &typ, &face); n < 3 {
					return nil, fail("read fewer than 3 values: %q", line)
				}
				if el < 1 || el > len(EToV) || face < 1 || face > 3 {
					return nil, fail("boundary %q references element %d face %d", bc.name, el, face)
				}
				bc.faces = append(bc.faces, [2]int{el - 1, face - 1})
			}
			bcs = append(bcs, bc)
		}
	}
	if err = scanner.Err(); err != nil {
		return
	}
	if len(EToV) != nelem || nelem == 0 {
		return nil, fmt.Errorf("read %d elements, header declares %d", len(EToV), nelem)
	}
	if len(bcs) != nbset {
		return nil, fmt.Errorf("read %d boundary sets, header declares %d", len(bcs), nbset)
	}
	if m, err = NewTriMesh(VX, VY, EToV); err != nil {
		return nil, err
	}
	m.Title = title
	for _, bc := range bcs {
		m.RegionNames[bc.tag] = bc.name
		for _, ef := range bc.faces {
			// Faces refer to the vertex order in the file, which NewTriMesh may have flipped
			tri := EToV[ef[0]]
			if err = m.SetFaceTagByVertices(tri[ef[1]], tri[(ef[1]+1)%3], bc.tag); err != nil {
				return nil, fmt.Errorf("boundary %q: %w", bc.name, err)
			}
		}
	}
	if err = m.Validate(); err != nil {
		return nil, err
	}
	return
}

// parseGambitBCHeader reads "NAME ITYPE NENTRY NVALUES IBCODE1 ...". Known
// names map to the conventional region labels, others use IBCODE1.
func parseGambitBCHeader(line string) (bc gambitBC, err error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		err = fmt.Errorf("boundary header needs a name, type and entry count: %q", line)
		return
	}
	bc.name = fields[0]
	if itype, _ := strconv.Atoi(fields[1]); itype != 1 {
		err = fmt.Errorf("boundary %q: only element face boundary data is supported", bc.name)
		return
	}
	if _, err = strconv.Atoi(fields[2]); err != nil {
		err = fmt.Errorf("boundary %q: bad entry count %q", bc.name, fields[2])
		return
	}
	if bt, ok := utils.ParseBCName(bc.name); ok {
		bc.tag = bt.RegionTag()
		return
	}
	if len(fields) >= 5 {
		if bc.tag, err = strconv.Atoi(fields[4]); err == nil && bc.tag >= 0 {
			return
		}
	}
	err = fmt.Errorf("boundary %q has no recognizable name and no region code", bc.name)
	return
}

// WriteGambit2D writes the mesh as a Gambit neutral file with one boundary
// set per region label
func WriteGambit2D(w io.Writer, m *TriMesh) (err error) {
	var (
		bw       = bufio.NewWriter(w)
		tags     = m.Tags()
		byTag    = make(map[int][]Face)
		fileFace = func(fc Face) int { return fc.F + 1 }
	)
	for _, fc := range m.BoundaryFaces() {
		tag := m.FaceTag[fc.K][fc.F]
		byTag[tag] = append(byTag[tag], fc)
	}
	title := m.Title
	if title == "" {
		title = "steadyns mesh"
	}
	fmt.Fprintf(bw, "        CONTROL INFO 2.0.0\n** GAMBIT NEUTRAL FILE\n%s\n", title)
	fmt.Fprintf(bw, "PROGRAM:                steadyns     VERSION:  1.0\n%s\n",
		time.Now().Format(time.ANSIC))
	fmt.Fprintf(bw, "     NUMNP     NELEM     NGRPS    NBSETS     NDFCD     NDFVL\n")
	fmt.Fprintf(bw, "%10d%10d%10d%10d%10d%10d\nENDOFSECTION\n", m.Nv(), m.K(), 1, len(tags), 2, 2)
	fmt.Fprintf(bw, "   NODAL COORDINATES 2.0.0\n")
	for i := range m.VX {
		fmt.Fprintf(bw, "%10d%20.11e%20.11e\n", i+1, m.VX[i], m.VY[i])
	}
	fmt.Fprintf(bw, "ENDOFSECTION\n      ELEMENTS/CELLS 2.0.0\n")
	for k, tri := range m.EToV {
		fmt.Fprintf(bw, "%8d %2d %2d %8d%8d%8d\n", k+1, 3, 3, tri[0]+1, tri[1]+1, tri[2]+1)
	}
	fmt.Fprintf(bw, "ENDOFSECTION\n       ELEMENT GROUP 2.0.0\n")
	fmt.Fprintf(bw, "GROUP:%11d ELEMENTS:%11d MATERIAL:%11d NFLAGS:%11d\nfluid\n%8d\n", 1, m.K(), 2, 1, 0)
	for k := 0; k < m.K(); k++ {
		fmt.Fprintf(bw, "%8d", k+1)
		if (k+1)%10 == 0 || k == m.K()-1 {
			fmt.Fprintln(bw)
		}
	}
	fmt.Fprintf(bw, "ENDOFSECTION\n")
	sort.Ints(tags)
	for _, tag := range tags {
		faces := byTag[tag]
		fmt.Fprintf(bw, " BOUNDARY CONDITIONS 2.0.0\n%32s%8d%8d%8d%8d\n",
			m.RegionName(tag), 1, len(faces), 0, tag)
		for _, fc := range faces {
			fmt.Fprintf(bw, "%10d%5d%5d\n", fc.K+1, 3, fileFace(fc))
		}
		fmt.Fprintf(bw, "ENDOFSECTION\n")
	}
	return bw.Flush()
}

// WriteGambit2DFile writes the mesh to filename, replacing it only on success
func WriteGambit2DFile(filename string, m *TriMesh) error {
	return writeAtomic(filename, func(w io.Writer) error {
		return WriteGambit2D(w, m)
	})
}
