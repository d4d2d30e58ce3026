package renderer

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/modelview/internal/engine/gfx"
	"github.com/Faultbox/modelview/internal/engine/gfx/memgfx"
	"github.com/Faultbox/modelview/internal/engine/renderer/frame"
)

var _ gfx.Renderer = (*Renderer)(nil)

// Renderer draws the in-memory scene with OpenGL.
type Renderer struct {
	*memgfx.Renderer
	engine *Engine

	width, height int
	pointSize     float32
}

// RemoveActor detaches a and frees its GPU buffers.
func (r *Renderer) RemoveActor(a gfx.Actor) error {
	if err := r.Renderer.RemoveActor(a); err != nil {
		return err
	}
	if ga, ok := a.(*actor); ok {
		ga.gpu.release()
	}
	return nil
}

// Render draws one frame into the current framebuffer.
func (r *Renderer) Render() error {
	return gfx.Guard("renderer.Render", func() error {
		if err := r.Renderer.Render(); err != nil {
			return err
		}
		if err := r.draw(); err != nil {
			return err
		}
		return glError("renderer.Render")
	})
}

func (r *Renderer) draw() error {
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	r.drawBackground()

	cam, err := r.ActiveCamera()
	if err != nil {
		return err
	}

	aspect := 1.0
	if r.height > 0 {
		aspect = float64(r.width) / float64(r.height)
	}
	view := frame.View(cam)
	lights := frame.Lights(r.Lights(), view)

	p := r.engine.surface
	p.Use()
	p.SetMat4("uView", view)
	p.SetMat4("uProjection", frame.Projection(cam, aspect))
	p.SetFloat("uPointSize", r.pointSize)
	p.SetInt("uLightCount", lights.Count)
	p.SetIntArray("uLightKind", lights.Kinds[:])
	p.SetVec3Array("uLightPosition", lights.Positions[:])
	p.SetVec3Array("uLightColor", lights.Colors[:])

	opaque, translucent := frame.Pass(r.Actors())

	gl.Disable(gl.BLEND)
	gl.DepthMask(true)
	for _, a := range opaque {
		r.drawActor(a)
	}

	if len(translucent) > 0 {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		gl.DepthMask(false)
		for _, a := range translucent {
			r.drawActor(a)
		}
		gl.DepthMask(true)
		gl.Disable(gl.BLEND)
	}

	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	gl.BindVertexArray(0)
	return nil
}

func (r *Renderer) drawBackground() {
	p := r.engine.background
	p.Use()
	p.SetVec3("uBottom", color32(r.Background[0]))
	p.SetVec3("uTop", color32(r.Background[1]))

	gl.DepthMask(false)
	gl.BindVertexArray(r.engine.backgroundVAO)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.DepthMask(true)
}

func (r *Renderer) drawActor(ga gfx.Actor) {
	a, ok := ga.(*actor)
	if !ok {
		r.engine.log.Debug("skipping foreign actor")
		return
	}
	if !a.gpu.uploaded() {
		a.upload()
		r.engine.log.Debug("mesh uploaded",
			zap.Int32("points", a.gpu.pointCount),
			zap.Int32("indices", a.gpu.indexCount),
		)
	}

	m := a.Material()
	p := r.engine.surface
	p.SetVec3("uColor", color32(a.Color()))
	p.SetFloat("uOpacity", float32(a.Opacity()))
	p.SetFloat("uAmbient", float32(m.Ambient))
	p.SetFloat("uDiffuse", float32(m.Diffuse))
	p.SetFloat("uSpecular", float32(m.Specular))
	p.SetFloat("uSpecularPower", float32(m.SpecularPower))
	p.SetBool("uLighting", m.Lighting)
	p.SetBool("uFlat", a.Interpolation() == gfx.InterpolationFlat)

	gl.BindVertexArray(a.gpu.vao)
	switch a.Representation() {
	case gfx.RepresentationPoints:
		gl.DrawArrays(gl.POINTS, 0, a.gpu.pointCount)
	case gfx.RepresentationWireframe:
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		r.drawElements(a)
	default:
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
		r.drawElements(a)
	}
}

func (r *Renderer) drawElements(a *actor) {
	if a.gpu.indexCount == 0 {
		return
	}
	gl.DrawElements(gl.TRIANGLES, a.gpu.indexCount, gl.UNSIGNED_INT, unsafe.Pointer(nil))
}

func color32(c gfx.Color) mgl32.Vec3 {
	return mgl32.Vec3{float32(c[0]), float32(c[1]), float32(c[2])}
}
