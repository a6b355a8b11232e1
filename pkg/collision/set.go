package collision

import "github.com/go-gl/mathgl/mgl32"

// Set is the group of walkable meshes taken from one asset.
type Set struct {
	meshes []*Mesh
}

// NewSet groups meshes. Nil and empty meshes are skipped.
func NewSet(meshes ...*Mesh) *Set {
	s := &Set{meshes: make([]*Mesh, 0, len(meshes))}
	for _, m := range meshes {
		if m != nil && m.Len() > 0 {
			s.meshes = append(s.meshes, m)
		}
	}
	return s
}

// Len returns the number of meshes in the set
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.meshes)
}

// Meshes returns the meshes of the set
func (s *Set) Meshes() []*Mesh {
	if s == nil {
		return nil
	}
	return s.meshes
}

// TriangleCount returns the total number of triangles over all meshes
func (s *Set) TriangleCount() int {
	total := 0
	for _, m := range s.Meshes() {
		total += m.Len()
	}
	return total
}

// Raycast implements SurfaceQuery and returns the nearest hit across all
// meshes of the set.
func (s *Set) Raycast(origin, dir mgl32.Vec3, maxDist float32) (Hit, bool) {
	var best Hit
	found := false
	limit := maxDist

	for _, m := range s.Meshes() {
		hit, ok := m.Raycast(origin, dir, limit)
		if ok && (!found || hit.Distance < best.Distance) {
			best = hit
			found = true
			limit = hit.Distance
		}
	}
	return best, found
}
