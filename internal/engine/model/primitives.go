package model

// CubeCorner returns two triangles meeting at the origin, one on the XY
// plane and one on the XZ plane. Both the triangle list and the flat arrays
// are populated.
func CubeCorner() *Model {
	m := &Model{
		Name: "Cube corner",
		Triangles: []Triangle{
			{
				Vertices: [3][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
				Normal:   [3]float32{0, 0, 1},
			},
			{
				Vertices: [3][3]float32{{0, 0, 0}, {0, 0, 1}, {1, 0, 0}},
				Normal:   [3]float32{0, 1, 0},
			},
		},
	}
	return m.WithArrays()
}

// Box returns an axis-aligned box of the given size with its minimum corner
// at the origin, as a triangle list.
func Box(name string, sx, sy, sz float32) *Model {
	p := [8][3]float32{
		{0, 0, 0}, {sx, 0, 0}, {sx, sy, 0}, {0, sy, 0},
		{0, 0, sz}, {sx, 0, sz}, {sx, sy, sz}, {0, sy, sz},
	}
	// Two counter-clockwise triangles per face, viewed from outside.
	faces := [6][4]int{
		{0, 3, 2, 1}, // -Z
		{4, 5, 6, 7}, // +Z
		{0, 1, 5, 4}, // -Y
		{3, 7, 6, 2}, // +Y
		{0, 4, 7, 3}, // -X
		{1, 2, 6, 5}, // +X
	}

	m := &Model{Name: name, Triangles: make([]Triangle, 0, 12)}
	for _, f := range faces {
		a, b, c, d := p[f[0]], p[f[1]], p[f[2]], p[f[3]]
		n := FaceNormal(a, b, c)
		m.Triangles = append(m.Triangles,
			Triangle{Vertices: [3][3]float32{a, b, c}, Normal: n},
			Triangle{Vertices: [3][3]float32{a, c, d}, Normal: n},
		)
	}
	return m
}

// WithArrays returns a copy of m whose flat vertex and per-vertex normal
// arrays are derived from its triangle list.
func (m *Model) WithArrays() *Model {
	out := &Model{
		Name:      m.Name,
		Triangles: append([]Triangle(nil), m.Triangles...),
		Vertices:  make([][3]float32, 0, len(m.Triangles)*3),
		Normals:   make([][3]float32, 0, len(m.Triangles)*3),
	}
	for _, tri := range m.Triangles {
		out.Vertices = append(out.Vertices, tri.Vertices[0], tri.Vertices[1], tri.Vertices[2])
		out.Normals = append(out.Normals, tri.Normal, tri.Normal, tri.Normal)
	}
	return out
}
