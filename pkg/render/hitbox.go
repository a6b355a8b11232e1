package render

import (
	"openglhelper"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/leterax/splatwalk/pkg/collision"
)

// WireEdges flattens the collision set into a line list. Shared vertices and
// edges between neighbouring triangles are emitted once.
func WireEdges(set *collision.Set) (positions []float32, indices []uint32) {
	vertexIndex := make(map[mgl32.Vec3]uint32)
	seen := make(map[[2]uint32]struct{})

	vertex := func(v mgl32.Vec3) uint32 {
		if idx, ok := vertexIndex[v]; ok {
			return idx
		}
		idx := uint32(len(positions) / 3)
		positions = append(positions, v.X(), v.Y(), v.Z())
		vertexIndex[v] = idx
		return idx
	}
	edge := func(a, b uint32) {
		if a > b {
			a, b = b, a
		}
		key := [2]uint32{a, b}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		indices = append(indices, a, b)
	}

	for _, mesh := range set.Meshes() {
		for _, tri := range mesh.Triangles() {
			a, b, c := vertex(tri.A), vertex(tri.B), vertex(tri.C)
			edge(a, b)
			edge(b, c)
			edge(c, a)
		}
	}
	return positions, indices
}

// Hitbox draws the collision surfaces as a wireframe once they are loaded
type Hitbox struct {
	cell   *collision.Cell
	shader *openglhelper.Shader
	mesh   *openglhelper.LineMesh
	log    *zap.SugaredLogger
}

// NewHitbox compiles the line shader. Geometry is uploaded on the first draw
// after the cell is published.
func NewHitbox(cell *collision.Cell, log *zap.SugaredLogger) (*Hitbox, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	shader, err := openglhelper.NewShader(lineVertexShader, lineFragmentShader)
	if err != nil {
		return nil, err
	}
	return &Hitbox{cell: cell, shader: shader, log: log}, nil
}

// Draw renders the wireframe, uploading it first if the cell just became ready
func (h *Hitbox) Draw(viewProjection mgl32.Mat4) {
	if h.mesh == nil {
		set, ok := h.cell.Load()
		if !ok {
			return
		}
		positions, indices := WireEdges(set)
		h.mesh = openglhelper.NewLineMesh(positions, indices, h.shader)
		h.log.Infow("hitbox uploaded", "segments", h.mesh.Len(), "vertices", len(positions)/3)
	}
	h.mesh.Draw(viewProjection)
}

// Delete releases GPU resources
func (h *Hitbox) Delete() {
	if h.mesh != nil {
		h.mesh.Delete()
	}
	h.shader.Delete()
}
