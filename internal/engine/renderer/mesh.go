package renderer

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/modelview/internal/engine/gfx/memgfx"
	"github.com/Faultbox/modelview/internal/engine/renderer/frame"
)

// actor keeps its render state in memory and its geometry on the GPU.
// Buffers are uploaded on first draw and released when the actor leaves
// the scene.
type actor struct {
	*memgfx.Actor
	gpu gpuMesh
}

type gpuMesh struct {
	vao, vbo, ebo uint32
	indexCount    int32
	pointCount    int32
}

func (g *gpuMesh) uploaded() bool {
	return g.vao != 0
}

func (a *actor) upload() {
	vertices, indices := frame.Interleave(a.Mesh())
	g := &a.gpu
	stride := int32(frame.VertexStride * 4)

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	if len(indices) > 0 {
		gl.GenBuffers(1, &g.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)
	}

	// Position (location = 0), normal (location = 1)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 12)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)

	g.indexCount = int32(len(indices))
	g.pointCount = int32(len(vertices) / frame.VertexStride)
}

func (g *gpuMesh) release() {
	if g.ebo != 0 {
		gl.DeleteBuffers(1, &g.ebo)
	}
	if g.vbo != 0 {
		gl.DeleteBuffers(1, &g.vbo)
	}
	if g.vao != 0 {
		gl.DeleteVertexArrays(1, &g.vao)
	}
	*g = gpuMesh{}
}
