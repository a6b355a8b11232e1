package collision

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is an immutable, named collision surface with its own hierarchy.
type Mesh struct {
	name  string
	tris  []Triangle
	order []int
	tree  *bvh
}

// NewMesh builds a mesh from world space triangles. Degenerate triangles are
// dropped since a ray can never hit them reliably.
func NewMesh(name string, tris []Triangle) *Mesh {
	kept := make([]Triangle, 0, len(tris))
	for _, tri := range tris {
		if !tri.Degenerate() {
			kept = append(kept, tri)
		}
	}

	order := make([]int, len(kept))
	for i := range order {
		order[i] = i
	}

	return &Mesh{
		name:  name,
		tris:  kept,
		order: order,
		tree:  buildBVH(kept, order),
	}
}

// NewMeshFromIndexed builds a mesh from a vertex array and a triangle list of
// indices into it. Out of range indices are skipped.
func NewMeshFromIndexed(name string, vertices []mgl32.Vec3, indices []uint32) *Mesh {
	tris := make([]Triangle, 0, len(indices)/3)
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		if int(a) >= len(vertices) || int(b) >= len(vertices) || int(c) >= len(vertices) {
			continue
		}
		tris = append(tris, Triangle{A: vertices[a], B: vertices[b], C: vertices[c]})
	}
	return NewMesh(name, tris)
}

// Name returns the mesh name as given by the asset
func (m *Mesh) Name() string {
	return m.name
}

// Len returns the number of (non-degenerate) triangles
func (m *Mesh) Len() int {
	return len(m.tris)
}

// Triangles returns the mesh triangles. The slice must not be modified.
func (m *Mesh) Triangles() []Triangle {
	return m.tris
}

// Raycast implements SurfaceQuery
func (m *Mesh) Raycast(origin, dir mgl32.Vec3, maxDist float32) (Hit, bool) {
	if m == nil || len(m.tris) == 0 {
		return Hit{}, false
	}

	tri, dist, point, ok := m.tree.raycast(m.tris, m.order, origin, dir, maxDist)
	if !ok {
		return Hit{}, false
	}
	return Hit{
		Distance: dist,
		Point:    point,
		Surface:  m.name,
		Triangle: tri,
	}, true
}
