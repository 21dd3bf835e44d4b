package scene

import (
	"fmt"

	"car-scene/math"
)

// Door hinge, in the door's own frame before scaling.
var hingePoint = math.NewVec3(-0.1, 0, -1)

// PartTransform is the pair of matrices a part is drawn with.
type PartTransform struct {
	Model  math.Mat4
	Normal math.Mat4
}

// Composer builds per-part world transforms from the car state. DrawPart
// works on a single working transform shared by all parts and saves it on
// the matrix stack around each draw.
type Composer struct {
	stack   *math.MatrixStack
	working math.Mat4
}

func NewComposer(stack *math.MatrixStack) *Composer {
	if stack == nil {
		stack = math.NewMatrixStack(math.DefaultStackCapacity)
	}
	return &Composer{
		stack:   stack,
		working: math.Mat4Identity(),
	}
}

// Compose returns the world and normal matrices of part for car.
func (c *Composer) Compose(part PartSpec, car CarState) PartTransform {
	model := placePart(carFrame(part, car), part, car)
	return PartTransform{Model: model, Normal: model.NormalMatrix()}
}

// DrawPart composes part into the working transform and hands the result to
// draw. The working transform is pushed before it is mutated and restored
// from the stack afterwards, whether or not draw fails.
func (c *Composer) DrawPart(part PartSpec, car CarState, draw func(PartTransform) error) error {
	if err := c.stack.Push(c.working); err != nil {
		return fmt.Errorf("draw %s: %w", part.Name, err)
	}

	c.working = placePart(carFrame(part, car), part, car)
	drawErr := draw(PartTransform{Model: c.working, Normal: c.working.NormalMatrix()})

	restored, err := c.stack.Pop()
	if err != nil {
		return fmt.Errorf("draw %s: %w", part.Name, err)
	}
	c.working = restored
	if drawErr != nil {
		return fmt.Errorf("draw %s: %w", part.Name, drawErr)
	}
	return nil
}

// Working is the shared working transform. DrawPart leaves it as it found it.
func (c *Composer) Working() math.Mat4 {
	return c.working
}

func (c *Composer) Depth() int {
	return c.stack.Depth()
}

// Reset empties the stack and returns the working transform to identity.
func (c *Composer) Reset() {
	c.stack.Reset()
	c.working = math.Mat4Identity()
}

// carFrame is the rigid motion every car part inherits. Parts that do not
// follow the car start from the identity.
func carFrame(part PartSpec, car CarState) math.Mat4 {
	m := math.Mat4Identity()
	if part.FollowsCar {
		m = m.Translate(car.Position()).Rotate(float32(car.Heading), math.Vec3Up)
	}
	return m
}

func placePart(m math.Mat4, part PartSpec, car CarState) math.Mat4 {
	m = m.Translate(part.Offset)
	if part.RotationAngle != 0 {
		m = m.Rotate(part.RotationAngle, part.RotationAxis)
	}

	switch part.Behavior {
	case BehaviorDoorHinge:
		if car.DoorsOpen {
			swing := part.SwingAngle
			if part.Side == SideLeft {
				swing = -swing
			}
			m = m.Translate(hingePoint).
				Rotate(swing, math.Vec3Up).
				Translate(hingePoint.Negate())
		}
	case BehaviorWheelSpin:
		m = m.Rotate(float32(car.WheelSpin), math.Vec3Right)
	}

	return m.Scale(part.Scale)
}
