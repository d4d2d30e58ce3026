// Package frame prepares the data the OpenGL renderer uploads each frame:
// camera matrices, packed light uniforms and interleaved vertex buffers.
// It never calls into OpenGL.
package frame

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/modelview/internal/engine/gfx"
	"github.com/Faultbox/modelview/internal/engine/model"
)

// MaxLights is the size of the light arrays in the surface shader.
const MaxLights = 4

// Light kinds as the shader sees them.
const (
	KindDirectional int32 = 0
	KindPoint       int32 = 1
)

// VertexStride is the number of floats per interleaved vertex:
// position then normal.
const VertexStride = 6

// View returns the world-to-camera matrix.
func View(cam gfx.Camera) mgl32.Mat4 {
	m := mgl64.LookAtV(cam.Position(), cam.FocalPoint(), cam.ViewUp())
	return to32(m)
}

// Projection returns the perspective matrix for the camera's view angle
// and clipping range.
func Projection(cam gfx.Camera, aspect float64) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	near, far := cam.ClippingRange()
	m := mgl64.Perspective(mgl64.DegToRad(cam.ViewAngle()), aspect, near, far)
	return to32(m)
}

func to32(m mgl64.Mat4) mgl32.Mat4 {
	var out mgl32.Mat4
	for i := range m {
		out[i] = float32(m[i])
	}
	return out
}

// LightBlock is the light uniform data in camera space.
type LightBlock struct {
	Count     int32
	Kinds     [MaxLights]int32
	Positions [MaxLights]mgl32.Vec3 // point: position; directional: direction toward the light
	Colors    [MaxLights]mgl32.Vec3 // colour scaled by intensity
}

// Lights packs switched-on lights into camera space. Lights beyond
// MaxLights are dropped.
func Lights(lights []gfx.Light, view mgl32.Mat4) LightBlock {
	var b LightBlock
	rot := view.Mat3()

	for _, l := range lights {
		if !l.Switch() || b.Count == MaxLights {
			continue
		}
		i := b.Count

		c := l.Color().Clamped()
		k := float32(gfx.Clamp01(l.Intensity()))
		b.Colors[i] = mgl32.Vec3{float32(c[0]) * k, float32(c[1]) * k, float32(c[2]) * k}

		switch l.Kind() {
		case gfx.LightPoint:
			b.Kinds[i] = KindPoint
			p := vec32(l.Position())
			b.Positions[i] = view.Mul4x1(p.Vec4(1)).Vec3()
		default:
			b.Kinds[i] = KindDirectional
			dir := vec32(l.Position().Sub(l.FocalPoint()))
			if dir.Len() > 0 {
				dir = dir.Normalize()
			}
			b.Positions[i] = rot.Mul3x1(dir)
		}
		b.Count++
	}
	return b
}

func vec32(v gfx.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

// Validate checks that a mesh can be uploaded as is.
func Validate(mesh *model.Mesh) error {
	if mesh == nil {
		return gfx.ErrNoMesh
	}
	if len(mesh.Points) == 0 {
		return model.ErrEmptyModel
	}
	if len(mesh.Normals) != 0 && len(mesh.Normals) != len(mesh.Points) {
		return fmt.Errorf("%d normals for %d points", len(mesh.Normals), len(mesh.Points))
	}
	n := uint32(len(mesh.Points))
	for i, tri := range mesh.Triangles {
		for _, idx := range tri {
			if idx >= n {
				return fmt.Errorf("triangle %d references point %d of %d", i, idx, n)
			}
		}
	}
	return nil
}

// Interleave flattens a mesh into a position+normal vertex buffer and a
// triangle index buffer. Missing normals are written as zero.
func Interleave(mesh *model.Mesh) ([]float32, []uint32) {
	vertices := make([]float32, 0, len(mesh.Points)*VertexStride)
	for i, p := range mesh.Points {
		var n [3]float32
		if i < len(mesh.Normals) {
			n = mesh.Normals[i]
		}
		vertices = append(vertices, p[0], p[1], p[2], n[0], n[1], n[2])
	}

	indices := make([]uint32, 0, len(mesh.Triangles)*3)
	for _, tri := range mesh.Triangles {
		indices = append(indices, tri[0], tri[1], tri[2])
	}
	return vertices, indices
}

// Pass splits actors into the opaque and translucent draw passes,
// skipping hidden ones.
func Pass(actors []gfx.Actor) (opaque, translucent []gfx.Actor) {
	for _, a := range actors {
		if !a.Visible() {
			continue
		}
		if a.Opacity() < 1 {
			translucent = append(translucent, a)
		} else {
			opaque = append(opaque, a)
		}
	}
	return opaque, translucent
}
