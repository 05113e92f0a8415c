// Package models loads the triangle meshes whirl renders.
package models

import (
	"github.com/taigrr/whirl/pkg/math3d"
)

// Mesh is an immutable-after-load triangle mesh in object space.
// Vertices are homogeneous points with w=1.
type Mesh struct {
	Name     string
	Vertices []math3d.Vec4
	Faces    [][3]int // Indices into Vertices, in file order

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// AddVertex appends a vertex position and returns its index.
func (m *Mesh) AddVertex(p math3d.Vec3) int {
	m.Vertices = append(m.Vertices, math3d.Point(p))
	return len(m.Vertices) - 1
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// Triangle returns the three vertices of face i in winding order.
// Implements render.Geometry.
func (m *Mesh) Triangle(i int) [3]math3d.Vec4 {
	f := m.Faces[i]
	return [3]math3d.Vec4{m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		m.BoundsMin, m.BoundsMax = math3d.Vec3{}, math3d.Vec3{}
		return
	}

	m.BoundsMin = m.Vertices[0].Vec3()
	m.BoundsMax = m.BoundsMin
	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Vec3())
		m.BoundsMax = m.BoundsMax.Max(v.Vec3())
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// Fit centers the mesh at the origin and scales it uniformly so its largest
// dimension equals extent. It must only be called before rendering starts.
// Flat or empty meshes are left unscaled.
func (m *Mesh) Fit(extent float64) {
	m.CalculateBounds()
	maxDim := m.Size().MaxComponent()
	if !(maxDim > 0) || extent <= 0 {
		return
	}

	s := extent / maxDim
	transform := math3d.Scale(math3d.V3(s, s, s)).Mul(math3d.Translate(m.Center().Negate()))
	for i, v := range m.Vertices {
		m.Vertices[i] = math3d.Point(transform.MulVec3(v.Vec3()))
	}
	m.CalculateBounds()
}
