package core

import (
	"car-scene/math"
)

type Color struct {
	R, G, B, A float32
}

var ColorWhite = Color{1, 1, 1, 1}

// RGB builds an opaque colour.
func RGB(r, g, b float32) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

func (c Color) Vec3() math.Vec3 {
	return math.Vec3{X: c.R, Y: c.G, Z: c.B}
}

// Vertex is one corner of a mesh face. Colour is not stored here: parts
// sharing a mesh upload their own colour stream.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	UV       math.Vec2
}

type MeshData struct {
	Vertices []Vertex
	Indices  []uint32
}
