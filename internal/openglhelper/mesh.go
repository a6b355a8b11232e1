package openglhelper

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// LineMesh is an indexed set of line segments with positions only
type LineMesh struct {
	vao     *VertexArrayObject
	vbo     *BufferObject
	ebo     *BufferObject
	count   int32
	shader  *Shader
	Color   mgl32.Vec4
	Visible bool
}

// NewLineMesh uploads positions (x, y, z triples) and pairs of indices
func NewLineMesh(positions []float32, indices []uint32, shader *Shader) *LineMesh {
	vao := NewVAO()
	vao.Bind()

	vbo := NewVBO(positions)
	ebo := NewEBO(indices)

	// Position attribute (3 floats)
	vao.SetVertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, 0)

	vao.Unbind()

	return &LineMesh{
		vao:     vao,
		vbo:     vbo,
		ebo:     ebo,
		count:   int32(len(indices)),
		shader:  shader,
		Color:   mgl32.Vec4{0.2, 1, 0.4, 1},
		Visible: true,
	}
}

// Draw renders the segments with the given view projection matrix
func (m *LineMesh) Draw(viewProjection mgl32.Mat4) {
	if !m.Visible || m.count == 0 {
		return
	}
	m.shader.Use()
	m.shader.SetMat4("viewProjection", viewProjection)
	m.shader.SetVec4("color", m.Color)

	m.vao.Bind()
	gl.DrawElements(gl.LINES, m.count, gl.UNSIGNED_INT, nil)
	m.vao.Unbind()
}

// Len returns the number of segments
func (m *LineMesh) Len() int {
	return int(m.count / 2)
}

// Delete releases all resources
func (m *LineMesh) Delete() {
	m.vao.Delete()
	m.vbo.Delete()
	m.ebo.Delete()
}
