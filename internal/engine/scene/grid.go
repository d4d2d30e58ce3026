package scene

import (
	"github.com/Faultbox/modelview/internal/engine/model"
)

// PlaneMesh builds a square plane of side 2·radius centred on (cx, cy) at
// height z, split into divisions×divisions cells of two triangles each.
// Drawn as wireframe it is the reference grid; drawn solid it is the ground.
func PlaneMesh(radius, cx, cy, z float64, divisions int) *model.Mesh {
	if divisions < 1 {
		divisions = 1
	}

	side := divisions + 1
	step := 2 * radius / float64(divisions)
	minX, minY := cx-radius, cy-radius

	mesh := &model.Mesh{
		Points:    make([][3]float32, 0, side*side),
		Normals:   make([][3]float32, 0, side*side),
		UVs:       make([][2]float32, 0, side*side),
		Triangles: make([][3]uint32, 0, divisions*divisions*2),
	}

	for j := 0; j < side; j++ {
		for i := 0; i < side; i++ {
			mesh.Points = append(mesh.Points, [3]float32{
				float32(minX + float64(i)*step),
				float32(minY + float64(j)*step),
				float32(z),
			})
			mesh.Normals = append(mesh.Normals, [3]float32{0, 0, 1})
			mesh.UVs = append(mesh.UVs, [2]float32{
				float32(i) / float32(divisions),
				float32(j) / float32(divisions),
			})
		}
	}

	for j := 0; j < divisions; j++ {
		for i := 0; i < divisions; i++ {
			a := uint32(j*side + i)
			b := a + 1
			c := a + uint32(side) + 1
			d := a + uint32(side)
			mesh.Triangles = append(mesh.Triangles, [3]uint32{a, b, c}, [3]uint32{a, c, d})
		}
	}

	mesh.Bounds = model.PointBounds(mesh.Points)
	return mesh
}
