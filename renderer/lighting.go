package renderer

import (
	stdmath "math"

	"car-scene/core"
	"car-scene/math"
)

// TextureBrightness scales sampled floor texels under the point light.
const TextureBrightness = 1.2

// Lights holds the scene's two light sources. Direction is stored
// normalized and points towards the light.
type Lights struct {
	DirectionalColor math.Vec3
	Direction        math.Vec3
	PointColor       math.Vec3
	PointPosition    math.Vec3
}

func DefaultLights() Lights {
	return Lights{
		DirectionalColor: math.Vec3One,
		Direction:        math.NewVec3(2.5, 3, 4).Normalize(),
		PointColor:       math.Vec3One,
		PointPosition:    math.NewVec3(0, 2.5, 0),
	}
}

func LegacyLights() Lights {
	l := DefaultLights()
	l.Direction = math.NewVec3(0.5, 3, 4).Normalize()
	return l
}

// ShadeVertex is the per-vertex stage: Lambertian directional lighting on the
// part's base colour, or the base colour unchanged when directional lighting
// is off. normal is in world space.
func ShadeVertex(base core.Color, normal math.Vec3, lights Lights, directional bool) core.Color {
	if !directional {
		return base
	}
	nDotL := lambert(normal.Normalize(), lights.Direction)
	return core.Color{
		R: lights.DirectionalColor.X * base.R * nDotL,
		G: lights.DirectionalColor.Y * base.G * nDotL,
		B: lights.DirectionalColor.Z * base.B * nDotL,
		A: base.A,
	}
}

// ShadeFragment is the per-fragment stage. With point lighting on, the point
// light's diffuse term is added to the interpolated vertex colour; a non-nil
// texel replaces the vertex colour inside that term. With point lighting off
// the vertex colour passes through, so the texture is never visible.
func ShadeFragment(vertex core.Color, position, normal math.Vec3, texel *core.Color, lights Lights, point bool) core.Color {
	if !point {
		return vertex
	}

	toLight := lights.PointPosition.Sub(position).Normalize()
	nDotL := lambert(toLight, normal.Normalize())

	surface := vertex.Vec3()
	if texel != nil {
		surface = texel.Vec3().Mul(TextureBrightness)
	}
	diffuse := lights.PointColor.MulVec(surface).Mul(nDotL)

	return core.Color{
		R: diffuse.X + vertex.R,
		G: diffuse.Y + vertex.G,
		B: diffuse.Z + vertex.B,
		A: vertex.A,
	}
}

func lambert(a, b math.Vec3) float32 {
	return float32(stdmath.Max(float64(a.Dot(b)), 0))
}
