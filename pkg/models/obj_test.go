package models

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/taigrr/whirl/pkg/math3d"
)

func TestParseOBJQuadFan(t *testing.T) {
	src := `# a unit quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`
	mesh, err := ParseOBJ(strings.NewReader(src), "quad.obj")
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}

	want := [][3]int{{0, 1, 2}, {0, 2, 3}}
	if len(mesh.Faces) != len(want) {
		t.Fatalf("got %d faces, want %d", len(mesh.Faces), len(want))
	}
	for i, f := range want {
		if mesh.Faces[i] != f {
			t.Errorf("face %d = %v, want %v", i, mesh.Faces[i], f)
		}
	}

	tri := mesh.Triangle(1)
	if tri[2] != math3d.V4(0, 1, 0, 1) {
		t.Errorf("triangle 1 vertex 2 = %v, want (0, 1, 0, 1)", tri[2])
	}
}

func TestParseOBJPentagonFan(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 2 1 0\nv 1 2 0\nv 0 1 0\nf 1 2 3 4 5\n"
	mesh, err := ParseOBJ(strings.NewReader(src), "penta.obj")
	if err != nil {
		t.Fatal(err)
	}
	want := [][3]int{{0, 1, 2}, {0, 2, 3}, {0, 3, 4}}
	for i, f := range want {
		if mesh.Faces[i] != f {
			t.Errorf("face %d = %v, want %v", i, mesh.Faces[i], f)
		}
	}
}

func TestParseOBJIgnoresOtherRecords(t *testing.T) {
	src := `mtllib cube.mtl
o Cube
v  1.0  2.0  3.0
v -1.0 -2.0 -3.0 1.0
v 0 0 0 0.5 0.5 0.5
vt 0.5 0.5
vn 0 0 1
usemtl Material

s off
f 1/1/1 2/1/1 3//1
f 1 2
`
	mesh, err := ParseOBJ(strings.NewReader(src), "misc.obj")
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	if mesh.VertexCount() != 3 {
		t.Errorf("VertexCount = %d, want 3", mesh.VertexCount())
	}
	if mesh.TriangleCount() != 1 {
		t.Errorf("TriangleCount = %d, want 1", mesh.TriangleCount())
	}
	if mesh.Vertices[1] != math3d.V4(-1, -2, -3, 1) {
		t.Errorf("vertex 2 = %v, want w forced to 1", mesh.Vertices[1])
	}
	if mesh.BoundsMin != math3d.V3(-1, -2, -3) || mesh.BoundsMax != math3d.V3(1, 2, 3) {
		t.Errorf("bounds = %v..%v", mesh.BoundsMin, mesh.BoundsMax)
	}
}

func TestParseOBJErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		line  int
		field string
	}{
		{"bad float", "v 0 0 0\nv 1 x 0\n", 2, "x"},
		{"short vertex", "v 0 0\n", 1, ""},
		{"bad index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 two 3\n", 4, "two"},
		{"index too large", "v 0 0 0\nv 1 0 0\nv 0 1 0\n\nf 1 2 4\n", 5, "4"},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", 4, "0"},
		{"negative index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf -1 1 2\n", 4, "-1"},
		{"nan coordinate", "v 0 0 0\nv nan 0 0\n", 2, "nan"},
		{"infinite coordinate", "v 0 0 0\nv 1 0 0\nv 0 0 +Inf\n", 3, "+Inf"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseOBJ(strings.NewReader(tc.src), "bad.obj")
			if err == nil {
				t.Fatal("expected error")
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error %v is not a *ParseError", err)
			}
			if pe.Line != tc.line {
				t.Errorf("Line = %d, want %d", pe.Line, tc.line)
			}
			if pe.Field != tc.field {
				t.Errorf("Field = %q, want %q", pe.Field, tc.field)
			}
			msg := err.Error()
			if !strings.Contains(msg, "bad.obj:"+strconv.Itoa(tc.line)) {
				t.Errorf("message %q should name the source and line", msg)
			}
		})
	}
}

func TestParseOBJForwardReference(t *testing.T) {
	src := "f 1 2 3\nv 0 0 0\nv 1 0 0\nv 0 1 0\n"
	mesh, err := ParseOBJ(strings.NewReader(src), "fwd.obj")
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	if mesh.TriangleCount() != 1 {
		t.Errorf("TriangleCount = %d, want 1", mesh.TriangleCount())
	}
}

func TestMeshFit(t *testing.T) {
	mesh := NewMesh("box")
	mesh.AddVertex(math3d.V3(10, 10, 10))
	mesh.AddVertex(math3d.V3(14, 12, 11))
	mesh.Faces = [][3]int{{0, 1, 0}}

	mesh.Fit(2)

	if mesh.Center() != (math3d.Vec3{}) {
		t.Errorf("center = %v, want origin", mesh.Center())
	}
	if got := mesh.Size().MaxComponent(); got != 2 {
		t.Errorf("largest dimension = %v, want 2", got)
	}
	for _, v := range mesh.Vertices {
		if v.W != 1 {
			t.Errorf("vertex %v lost w=1", v)
		}
	}
}

func TestMeshFitFlat(t *testing.T) {
	mesh := NewMesh("point")
	mesh.AddVertex(math3d.V3(3, 3, 3))
	mesh.Fit(2)
	if mesh.Vertices[0] != math3d.V4(3, 3, 3, 1) {
		t.Errorf("degenerate mesh should be untouched, got %v", mesh.Vertices[0])
	}
}

func TestMeshFitNonFinite(t *testing.T) {
	mesh := NewMesh("nan")
	mesh.AddVertex(math3d.V3(0, 0, 0))
	mesh.AddVertex(math3d.V3(math.NaN(), 1, 1))
	mesh.Fit(2)
	if mesh.Vertices[0] != math3d.V4(0, 0, 0, 1) {
		t.Errorf("mesh with a NaN extent should be untouched, got %v", mesh.Vertices[0])
	}
}

func TestParseOBJLongLine(t *testing.T) {
	// Trailing whitespace pushes the face line past bufio's default 64 KiB.
	var b strings.Builder
	for i := range 200 {
		fmt.Fprintf(&b, "v %d 0 %d\n", i%7, i%5)
	}
	b.WriteString("f")
	for i := range 200 {
		fmt.Fprintf(&b, " %d", i+1)
	}
	b.WriteString(strings.Repeat(" ", 100*1024))
	b.WriteString("\n")

	mesh, err := ParseOBJ(strings.NewReader(b.String()), "long.obj")
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	if mesh.TriangleCount() != 198 {
		t.Errorf("TriangleCount = %d, want 198", mesh.TriangleCount())
	}
}

func TestParseOBJLineTooLong(t *testing.T) {
	src := "v 0 0 0\n# " + strings.Repeat("x", maxLineLen) + "\n"
	_, err := ParseOBJ(strings.NewReader(src), "huge.obj")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error %v is not a *ParseError", err)
	}
	if pe.Line != 2 || !errors.Is(err, bufio.ErrTooLong) {
		t.Errorf("got line %d, err %v; want line 2 and bufio.ErrTooLong", pe.Line, err)
	}
}
