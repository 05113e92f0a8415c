package models

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/whirl/pkg/math3d"
)

// ParseError describes a malformed line in a mesh file.
type ParseError struct {
	Source string // File name
	Line   int    // 1-based line number
	Field  string // Offending field, verbatim
	Err    error
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("%s:%d: field %q: %v", e.Source, e.Line, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var (
	errMissingCoord = errors.New("vertex needs three coordinates")
	errIndexRange   = errors.New("vertex index out of range")
	errNonFinite    = errors.New("coordinate is not finite")
)

// maxLineLen bounds a single OBJ line; long n-gon faces can exceed the
// scanner's default token size.
const maxLineLen = 16 << 20

// LoadOBJ reads a Wavefront OBJ file.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	return ParseOBJ(f, filepath.Base(path))
}

// ParseOBJ reads OBJ vertex and face records from r. Only "v" and "f" lines
// are interpreted; everything else is skipped. Polygons are fan-triangulated
// from their first vertex, so "f 1 2 3 4" yields (1,2,3) then (1,3,4).
// Face references may appear before or after the vertices they name, and are
// validated once the whole file is read.
func ParseOBJ(r io.Reader, name string) (*Mesh, error) {
	mesh := NewMesh(name)

	type pendingFace struct {
		line   int
		fields []string
		refs   []int
	}
	var faces []pendingFace

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineLen)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, &ParseError{Source: name, Line: lineNo, Err: errMissingCoord}
			}
			var c [3]float64
			for i := range 3 {
				val, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, &ParseError{Source: name, Line: lineNo, Field: fields[i+1], Err: err}
				}
				if math.IsNaN(val) || math.IsInf(val, 0) {
					return nil, &ParseError{Source: name, Line: lineNo, Field: fields[i+1], Err: errNonFinite}
				}
				c[i] = val
			}
			mesh.AddVertex(math3d.V3(c[0], c[1], c[2]))

		case "f":
			refs := make([]int, 0, len(fields)-1)
			for _, grp := range fields[1:] {
				idx, _, _ := strings.Cut(grp, "/")
				n, err := strconv.Atoi(idx)
				if err != nil {
					return nil, &ParseError{Source: name, Line: lineNo, Field: grp, Err: err}
				}
				refs = append(refs, n)
			}
			faces = append(faces, pendingFace{line: lineNo, fields: fields[1:], refs: refs})
		}
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &ParseError{Source: name, Line: lineNo + 1, Err: err}
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	for _, f := range faces {
		for i, n := range f.refs {
			if n < 1 || n > len(mesh.Vertices) {
				return nil, &ParseError{Source: name, Line: f.line, Field: f.fields[i], Err: errIndexRange}
			}
		}
		for i := 1; i+1 < len(f.refs); i++ {
			mesh.Faces = append(mesh.Faces, [3]int{f.refs[0] - 1, f.refs[i] - 1, f.refs[i+1] - 1})
		}
	}

	mesh.CalculateBounds()
	return mesh, nil
}
