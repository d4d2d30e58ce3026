package model

import (
	"errors"
	"fmt"
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/modelview/internal/logger"
)

// ErrVertexArrayLength is returned by the array path when the vertex array
// does not split into whole triangles.
var ErrVertexArrayLength = errors.New("vertex array length is not a multiple of 3")

const (
	// TriangleProgressStep is the triangle-list progress cadence.
	TriangleProgressStep = 10_000
	// ArrayProgressStep is the array path progress cadence.
	ArrayProgressStep = 100_000

	// uvEpsilon keeps flat bounds from dividing by zero.
	uvEpsilon = 1e-4
)

// ProgressFunc receives build progress as a percentage and a short message.
// It is called synchronously from the build loop.
type ProgressFunc func(percent int, message string)

// BuildMesh creates a renderable mesh from a model.
// The array path is used when the model carries flat arrays; if those arrays
// are malformed the triangle list is used instead. The model is not modified.
func BuildMesh(m *Model, progress ProgressFunc) (*Mesh, error) {
	if m == nil {
		return nil, ErrEmptyModel
	}

	if m.IsArrayBased() {
		mesh, err := buildFromArrays(m, progress)
		if err == nil {
			return mesh, nil
		}
		logger.Warn("array mesh build failed, falling back to triangle list",
			zap.String("model", m.Name),
			zap.Int("vertices", len(m.Vertices)),
			zap.Error(err),
		)
	}

	return buildFromTriangles(m, progress)
}

// buildFromTriangles walks the triangle list once, duplicating the face
// normal onto each corner.
func buildFromTriangles(m *Model, progress ProgressFunc) (*Mesh, error) {
	n := len(m.Triangles)
	if n == 0 {
		return nil, ErrEmptyModel
	}

	mesh := &Mesh{
		Points:    make([][3]float32, 0, n*3),
		Normals:   make([][3]float32, 0, n*3),
		Triangles: make([][3]uint32, 0, n),
	}

	for i := range m.Triangles {
		tri := &m.Triangles[i]
		base := uint32(i * 3)

		mesh.Points = append(mesh.Points, tri.Vertices[0], tri.Vertices[1], tri.Vertices[2])
		mesh.Normals = append(mesh.Normals, tri.Normal, tri.Normal, tri.Normal)
		mesh.Triangles = append(mesh.Triangles, [3]uint32{base, base + 1, base + 2})

		if (i+1)%TriangleProgressStep == 0 {
			report(progress, (i+1)*100/n, fmt.Sprintf("Processing triangles: %d/%d", i+1, n))
		}
	}

	finishMesh(mesh)
	report(progress, 100, "Mesh ready")
	return mesh, nil
}

// buildFromArrays copies the flat arrays straight into the mesh buffers and
// synthesises index triples.
func buildFromArrays(m *Model, progress ProgressFunc) (*Mesh, error) {
	if len(m.Vertices)%3 != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrVertexArrayLength, len(m.Vertices))
	}
	n := len(m.Vertices) / 3
	if n == 0 {
		return nil, ErrEmptyModel
	}

	mesh := &Mesh{
		Points:    make([][3]float32, len(m.Vertices)),
		Triangles: make([][3]uint32, n),
	}
	copy(mesh.Points, m.Vertices)
	mesh.Normals = vertexNormals(m, n)

	for i := 0; i < n; i++ {
		base := uint32(i * 3)
		mesh.Triangles[i] = [3]uint32{base, base + 1, base + 2}

		if (i+1)%ArrayProgressStep == 0 {
			report(progress, (i+1)*100/n, fmt.Sprintf("Building indices: %d/%d", i+1, n))
		}
	}

	finishMesh(mesh)
	report(progress, 100, "Mesh ready")
	return mesh, nil
}

// vertexNormals returns one normal per vertex, accepting per-vertex or
// per-triangle input and computing face normals when neither is present.
func vertexNormals(m *Model, triangles int) [][3]float32 {
	normals := make([][3]float32, len(m.Vertices))

	switch len(m.Normals) {
	case len(m.Vertices):
		copy(normals, m.Normals)
	case triangles:
		for i, n := range m.Normals {
			normals[i*3], normals[i*3+1], normals[i*3+2] = n, n, n
		}
	default:
		if len(m.Normals) != 0 {
			logger.Debug("normal array does not match vertices, recomputing",
				zap.String("model", m.Name),
				zap.Int("normals", len(m.Normals)),
			)
		}
		for i := 0; i < triangles; i++ {
			n := FaceNormal(m.Vertices[i*3], m.Vertices[i*3+1], m.Vertices[i*3+2])
			normals[i*3], normals[i*3+1], normals[i*3+2] = n, n, n
		}
	}
	return normals
}

// finishMesh fills bounds and UVs once the point buffer is complete.
func finishMesh(mesh *Mesh) {
	mesh.Bounds = PointBounds(mesh.Points)
	mesh.UVs = PlanarUVs(mesh.Points, mesh.Bounds)
}

// PointBounds returns the bounding box of the points.
func PointBounds(points [][3]float32) Bounds {
	b := EmptyBounds()
	for _, p := range points {
		b.Extend(p)
	}
	return b
}

// PlanarUVs projects points onto the XY rectangle of bounds.
// u and v are in [0,1]; flat extents are widened to uvEpsilon.
func PlanarUVs(points [][3]float32, b Bounds) [][2]float32 {
	uvs := make([][2]float32, len(points))
	if len(points) == 0 {
		return uvs
	}

	spanX := gomath.Max(b.Max[0]-b.Min[0], uvEpsilon)
	spanY := gomath.Max(b.Max[1]-b.Min[1], uvEpsilon)

	for i, p := range points {
		uvs[i] = [2]float32{
			float32((float64(p[0]) - b.Min[0]) / spanX),
			float32((float64(p[1]) - b.Min[1]) / spanY),
		}
	}
	return uvs
}

// FaceNormal returns the unit normal of a counter-clockwise triangle.
// Degenerate triangles yield a zero vector.
func FaceNormal(a, b, c [3]float32) [3]float32 {
	e1 := [3]float32{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
	e2 := [3]float32{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
	n := [3]float32{
		e1[1]*e2[2] - e1[2]*e2[1],
		e1[2]*e2[0] - e1[0]*e2[2],
		e1[0]*e2[1] - e1[1]*e2[0],
	}

	mag := float32(gomath.Sqrt(float64(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])))
	if mag < 1e-12 {
		return [3]float32{}
	}
	return [3]float32{n[0] / mag, n[1] / mag, n[2] / mag}
}

func report(progress ProgressFunc, percent int, message string) {
	if progress != nil {
		progress(percent, message)
	}
}
