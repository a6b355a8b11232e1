package asset

import (
	"bytes"
	"fmt"

	"github.com/g3n/engine/loader/obj"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/splatwalk/pkg/collision"
)

// decodeOBJ turns every object of an OBJ file into a mesh. Polygons are
// split into a triangle fan around their first vertex.
func decodeOBJ(name string, data []byte) ([]*collision.Mesh, error) {
	// materials are irrelevant for collision, parse against an empty library
	dec, err := obj.DecodeReader(bytes.NewReader(data), bytes.NewReader(nil))
	if err != nil {
		return nil, fmt.Errorf("failed to decode obj %s: %w", name, err)
	}

	vertices := make([]mgl32.Vec3, 0, len(dec.Vertices)/3)
	for i := 0; i+2 < len(dec.Vertices); i += 3 {
		vertices = append(vertices, mgl32.Vec3{dec.Vertices[i], dec.Vertices[i+1], dec.Vertices[i+2]})
	}

	meshes := make([]*collision.Mesh, 0, len(dec.Objects))
	for i, o := range dec.Objects {
		indices := make([]uint32, 0, len(o.Faces)*3)
		for _, face := range o.Faces {
			for k := 1; k+1 < len(face.Vertices); k++ {
				a, b, c := face.Vertices[0], face.Vertices[k], face.Vertices[k+1]
				if a < 0 || b < 0 || c < 0 {
					continue
				}
				indices = append(indices, uint32(a), uint32(b), uint32(c))
			}
		}

		meshName := o.Name
		if meshName == "" {
			meshName = fmt.Sprintf("%s#%d", name, i)
		}
		meshes = append(meshes, collision.NewMeshFromIndexed(meshName, vertices, indices))
	}
	return meshes, nil
}
