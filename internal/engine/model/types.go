// Package model provides the triangle model value type and mesh building.
package model

import (
	"errors"
	gomath "math"
)

// ErrEmptyModel is returned when a model produces no triangles.
var ErrEmptyModel = errors.New("model has no triangles")

// Triangle is a single face with its three corners and face normal.
type Triangle struct {
	Vertices [3][3]float32
	Normal   [3]float32
}

// Model is a triangulated model as handed over by the loader.
// It carries either a triangle list, flat vertex/normal arrays, or both.
type Model struct {
	Name      string
	Triangles []Triangle

	// Vertices holds three consecutive entries per triangle.
	Vertices [][3]float32
	// Normals is parallel to Vertices (per vertex) or holds one entry per triangle.
	Normals [][3]float32
}

// IsArrayBased reports whether the flat vertex array is populated.
func (m *Model) IsArrayBased() bool {
	return m != nil && len(m.Vertices) > 0
}

// TriangleCount returns the number of triangles BuildMesh will produce.
// Malformed flat arrays are ignored in favour of the triangle list.
func (m *Model) TriangleCount() int {
	if m == nil {
		return 0
	}
	if m.IsArrayBased() && len(m.Vertices)%3 == 0 {
		return len(m.Vertices) / 3
	}
	return len(m.Triangles)
}

// Mesh holds renderable buffers built from a Model.
type Mesh struct {
	Points    [][3]float32
	Triangles [][3]uint32
	Normals   [][3]float32
	UVs       [][2]float32
	Bounds    Bounds
}

// TriangleCount returns the number of index triples.
func (m *Mesh) TriangleCount() int {
	if m == nil {
		return 0
	}
	return len(m.Triangles)
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min [3]float64
	Max [3]float64
}

// EmptyBounds returns inverted bounds that any point will expand.
func EmptyBounds() Bounds {
	return Bounds{
		Min: [3]float64{gomath.Inf(1), gomath.Inf(1), gomath.Inf(1)},
		Max: [3]float64{gomath.Inf(-1), gomath.Inf(-1), gomath.Inf(-1)},
	}
}

// Empty reports whether the bounds are inverted or contain non-finite values.
func (b Bounds) Empty() bool {
	for i := 0; i < 3; i++ {
		if gomath.IsNaN(b.Min[i]) || gomath.IsNaN(b.Max[i]) ||
			gomath.IsInf(b.Min[i], 0) || gomath.IsInf(b.Max[i], 0) {
			return true
		}
		if b.Min[i] > b.Max[i] {
			return true
		}
	}
	return false
}

// Extend grows the bounds to include p.
func (b *Bounds) Extend(p [3]float32) {
	for i := 0; i < 3; i++ {
		v := float64(p[i])
		if v < b.Min[i] {
			b.Min[i] = v
		}
		if v > b.Max[i] {
			b.Max[i] = v
		}
	}
}

// Union returns bounds enclosing both b and other. Empty operands are ignored.
func (b Bounds) Union(other Bounds) Bounds {
	if b.Empty() {
		return other
	}
	if other.Empty() {
		return b
	}
	out := b
	for i := 0; i < 3; i++ {
		out.Min[i] = gomath.Min(b.Min[i], other.Min[i])
		out.Max[i] = gomath.Max(b.Max[i], other.Max[i])
	}
	return out
}

// Center returns the midpoint of each axis.
func (b Bounds) Center() [3]float64 {
	return [3]float64{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}

// Size returns the extent along each axis.
func (b Bounds) Size() [3]float64 {
	return [3]float64{
		b.Max[0] - b.Min[0],
		b.Max[1] - b.Min[1],
		b.Max[2] - b.Min[2],
	}
}
