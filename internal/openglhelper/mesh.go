package openglhelper

import (
	"fmt"

	"github.com/go-gl/gl/v4.6-core/gl"

	"github.com/leterax/go-starfield/pkg/scene"
)

// Mesh is mesh data uploaded to the GPU
type Mesh struct {
	vao        *VertexArrayObject
	vbo        *BufferObject
	ebo        *BufferObject
	indexCount int32
}

// NewMesh uploads data. Vertices are interleaved position (3) and normal (3).
func NewMesh(data scene.MeshData) (*Mesh, error) {
	if len(data.Indices) == 0 || len(data.Vertices)%scene.FloatsPerVertex != 0 {
		return nil, fmt.Errorf("invalid mesh data: %d floats, %d indices", len(data.Vertices), len(data.Indices))
	}

	vao := NewVAO()
	vao.Bind()

	vbo := NewVBO(data.Vertices, StaticDraw)
	ebo := NewEBO(data.Indices, StaticDraw)

	const stride = scene.FloatsPerVertex * 4
	// Position attribute (3 floats)
	vao.SetVertexAttribPointer(0, 3, gl.FLOAT, false, stride, 0)
	// Normal attribute (3 floats)
	vao.SetVertexAttribPointer(1, 3, gl.FLOAT, false, stride, 3*4)

	vao.Unbind()

	return &Mesh{
		vao:        vao,
		vbo:        vbo,
		ebo:        ebo,
		indexCount: int32(len(data.Indices)),
	}, nil
}

// Draw renders the mesh with the currently bound shader
func (m *Mesh) Draw() {
	m.vao.Bind()
	gl.DrawElements(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_INT, nil)
	m.vao.Unbind()
}

// Delete releases all resources
func (m *Mesh) Delete() {
	m.vao.Delete()
	m.vbo.Delete()
	m.ebo.Delete()
}
