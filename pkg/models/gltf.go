package models

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/whirl/pkg/math3d"
)

var errNoBufferData = errors.New("buffer has no data")

// LoadGLTF loads every triangle primitive of a glTF or GLB file into one mesh.
// glTF front faces are counter-clockwise, which is also the winding the
// shader expects, so indices are kept in file order.
func LoadGLTF(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))
	for _, m := range doc.Meshes {
		if err := appendGLTFMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("mesh %q: %w", m.Name, err)
		}
	}

	mesh.CalculateBounds()
	return mesh, nil
}

func appendGLTFMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		// Lines and points have no area to fill.
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := readPositions(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		base := len(mesh.Vertices)
		for _, p := range positions {
			mesh.AddVertex(p)
		}

		var indices []int
		if prim.Indices != nil {
			indices, err = readIndices(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]int, len(positions))
			for i := range indices {
				indices[i] = i
			}
		}

		for i := 0; i+2 < len(indices); i += 3 {
			face := [3]int{base + indices[i], base + indices[i+1], base + indices[i+2]}
			for _, v := range face {
				if v >= len(mesh.Vertices) {
					return fmt.Errorf("index %d: %w", v-base, errIndexRange)
				}
			}
			mesh.Faces = append(mesh.Faces, face)
		}
	}
	return nil
}

// accessorBytes returns the buffer data backing an accessor together with its
// start offset and element stride.
func accessorBytes(doc *gltf.Document, acc *gltf.Accessor, elemSize int) (data []byte, start, stride int, err error) {
	if acc.BufferView == nil {
		return nil, 0, 0, errors.New("accessor has no buffer view")
	}
	view := doc.BufferViews[*acc.BufferView]
	buf := doc.Buffers[view.Buffer]
	// gltf.Open resolves embedded, data-URI and external buffers into Data.
	if len(buf.Data) == 0 {
		return nil, 0, 0, errNoBufferData
	}

	start = view.ByteOffset + acc.ByteOffset
	stride = view.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	if acc.Count > 0 && start+(acc.Count-1)*stride+elemSize > len(buf.Data) {
		return nil, 0, 0, fmt.Errorf("accessor overruns buffer (%d bytes)", len(buf.Data))
	}
	return buf.Data, start, stride, nil
}

func readPositions(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	acc := doc.Accessors[accessorIdx]
	if acc.Type != gltf.AccessorVec3 || acc.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float VEC3, got %v/%v", acc.Type, acc.ComponentType)
	}

	data, start, stride, err := accessorBytes(doc, acc, 12)
	if err != nil {
		return nil, err
	}

	out := make([]math3d.Vec3, acc.Count)
	for i := range out {
		off := start + i*stride
		out[i] = math3d.V3(
			float64(readFloat32(data[off:])),
			float64(readFloat32(data[off+4:])),
			float64(readFloat32(data[off+8:])),
		)
		if !out[i].IsFinite() {
			return nil, fmt.Errorf("position %d: %w", i, errNonFinite)
		}
	}
	return out, nil
}

func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	acc := doc.Accessors[accessorIdx]
	if acc.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR indices, got %v", acc.Type)
	}

	var size int
	switch acc.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unexpected index type: %v", acc.ComponentType)
	}

	data, start, stride, err := accessorBytes(doc, acc, size)
	if err != nil {
		return nil, err
	}

	out := make([]int, acc.Count)
	for i := range out {
		off := start + i*stride
		switch size {
		case 1:
			out[i] = int(data[off])
		case 2:
			out[i] = int(binary.LittleEndian.Uint16(data[off:]))
		case 4:
			out[i] = int(binary.LittleEndian.Uint32(data[off:]))
		}
	}
	return out, nil
}

func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
