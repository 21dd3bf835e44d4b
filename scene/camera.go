package scene

import (
	"car-scene/math"
)

// Camera is a look-at camera that chases the car from a fixed eye point.
type Camera struct {
	Eye         math.Vec3
	Target      math.Vec3
	Up          math.Vec3
	FOV         float32 // vertical, degrees
	AspectRatio float32
	NearPlane   float32
	FarPlane    float32
}

func DefaultCameraEye() math.Vec3 {
	return math.NewVec3(0, 30, 50)
}

func NewChaseCamera(aspectRatio float32) *Camera {
	return &Camera{
		Eye:         DefaultCameraEye(),
		Target:      math.Vec3Zero,
		Up:          math.Vec3Up,
		FOV:         30,
		AspectRatio: aspectRatio,
		NearPlane:   1,
		FarPlane:    100,
	}
}

// Follow aims the camera at the car's ground position. The eye never moves.
func (c *Camera) Follow(car CarState) {
	c.Target = car.Position()
}

func (c *Camera) UpdateAspectRatio(width, height float32) {
	if height > 0 {
		c.AspectRatio = width / height
	}
}

func (c *Camera) ViewMatrix() math.Mat4 {
	return math.Mat4LookAt(c.Eye, c.Target, c.Up)
}

func (c *Camera) ProjectionMatrix() math.Mat4 {
	return math.Mat4Perspective(math.Radians(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}
