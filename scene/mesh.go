package scene

import (
	"car-scene/core"
	"car-scene/math"
)

// cubeFace lists one face of the unit cube: its outward normal, its four
// corners in winding order and the matching texture coordinates.
type cubeFace struct {
	normal  math.Vec3
	corners [4]math.Vec3
	uvs     [4]math.Vec2
}

var cubeFaces = [6]cubeFace{
	{ // front
		normal:  math.NewVec3(0, 0, 1),
		corners: [4]math.Vec3{{X: 1, Y: 1, Z: 1}, {X: -1, Y: 1, Z: 1}, {X: -1, Y: -1, Z: 1}, {X: 1, Y: -1, Z: 1}},
		uvs:     [4]math.Vec2{{X: 1, Y: 1}, {X: 0, Y: 1}, {X: 0, Y: 0}, {X: 1, Y: 0}},
	},
	{ // right
		normal:  math.NewVec3(1, 0, 0),
		corners: [4]math.Vec3{{X: 1, Y: 1, Z: 1}, {X: 1, Y: -1, Z: 1}, {X: 1, Y: -1, Z: -1}, {X: 1, Y: 1, Z: -1}},
		uvs:     [4]math.Vec2{{X: 0, Y: 1}, {X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}},
	},
	{ // up
		normal:  math.NewVec3(0, 1, 0),
		corners: [4]math.Vec3{{X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: -1}, {X: -1, Y: 1, Z: -1}, {X: -1, Y: 1, Z: 1}},
		uvs:     [4]math.Vec2{{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: 0, Y: 0}},
	},
	{ // left
		normal:  math.NewVec3(-1, 0, 0),
		corners: [4]math.Vec3{{X: -1, Y: 1, Z: 1}, {X: -1, Y: 1, Z: -1}, {X: -1, Y: -1, Z: -1}, {X: -1, Y: -1, Z: 1}},
		uvs:     [4]math.Vec2{{X: 1, Y: 1}, {X: 0, Y: 1}, {X: 0, Y: 0}, {X: 1, Y: 0}},
	},
	{ // down
		normal:  math.NewVec3(0, -1, 0),
		corners: [4]math.Vec3{{X: -1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: 1}, {X: -1, Y: -1, Z: 1}},
		uvs:     [4]math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}},
	},
	{ // back
		normal:  math.NewVec3(0, 0, -1),
		corners: [4]math.Vec3{{X: 1, Y: -1, Z: -1}, {X: -1, Y: -1, Z: -1}, {X: -1, Y: 1, Z: -1}, {X: 1, Y: 1, Z: -1}},
		uvs:     [4]math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}},
	},
}

// UnitCube returns the cube spanning -1..1 on every axis that every part of
// the scene is drawn from: 4 vertices per face with flat normals, 36 indices.
func UnitCube() core.MeshData {
	vertices := make([]core.Vertex, 0, 24)
	indices := make([]uint32, 0, 36)

	for _, f := range cubeFaces {
		base := uint32(len(vertices))
		for i := 0; i < 4; i++ {
			vertices = append(vertices, core.Vertex{
				Position: f.corners[i],
				Normal:   f.normal,
				UV:       f.uvs[i],
			})
		}
		indices = append(indices,
			base, base+1, base+2,
			base, base+2, base+3,
		)
	}

	return core.MeshData{Vertices: vertices, Indices: indices}
}
