package scene

import (
	"fmt"

	"car-scene/core"
	"car-scene/math"
)

// CarState is the simulated car. Only the controller mutates it, once per
// tick.
type CarState struct {
	X, Z         float64
	Heading      float64 // degrees, [0, 360)
	WheelSpin    float64 // degrees, [0, 360)
	DoorsOpen    bool
	DoorCooldown int
}

// InitialHeading points the car diagonally across the plane at startup.
const InitialHeading = 135

func InitialCarState() CarState {
	return CarState{Heading: InitialHeading}
}

func (c CarState) Position() math.Vec3 {
	return math.NewVec3(float32(c.X), 0, float32(c.Z))
}

func (c CarState) String() string {
	doors := "closed"
	if c.DoorsOpen {
		doors = "open"
	}
	return fmt.Sprintf("pos=(%.3f, %.3f) heading=%.1f wheel=%.1f doors=%s cooldown=%d",
		c.X, c.Z, c.Heading, c.WheelSpin, doors, c.DoorCooldown)
}

// ── Render state ──────────────────────────────────────────────────────────────

// Feature names a user-visible toggle.
type Feature int

const (
	FeatureDirectionalLight Feature = iota
	FeaturePointLight
	FeatureFloorTexture
	FeatureDoors
)

func (f Feature) String() string {
	switch f {
	case FeatureDirectionalLight:
		return "directional"
	case FeaturePointLight:
		return "point"
	case FeatureFloorTexture:
		return "texture"
	case FeatureDoors:
		return "doors"
	default:
		return fmt.Sprintf("feature(%d)", int(f))
	}
}

// RenderState holds the lighting and texture toggles. PendingForcedRedraw is
// set by every toggle and cleared when a frame consumes it.
type RenderState struct {
	DirectionalLighting bool
	PointLighting       bool
	FloorTextured       bool
	PendingForcedRedraw bool
}

// Toggle flips a lighting or texture feature and returns its new value.
// Doors live on CarState and are not handled here.
func (r *RenderState) Toggle(f Feature) (bool, error) {
	var v *bool
	switch f {
	case FeatureDirectionalLight:
		v = &r.DirectionalLighting
	case FeaturePointLight:
		v = &r.PointLighting
	case FeatureFloorTexture:
		v = &r.FloorTextured
	default:
		return false, fmt.Errorf("render state: %s is not a render toggle", f)
	}
	*v = !*v
	r.PendingForcedRedraw = true
	return *v, nil
}

// Enabled reports the current value of a render toggle.
func (r RenderState) Enabled(f Feature) bool {
	switch f {
	case FeatureDirectionalLight:
		return r.DirectionalLighting
	case FeaturePointLight:
		return r.PointLighting
	case FeatureFloorTexture:
		return r.FloorTextured
	}
	return false
}

// ConsumeRedraw reports and clears PendingForcedRedraw.
func (r *RenderState) ConsumeRedraw() bool {
	pending := r.PendingForcedRedraw
	r.PendingForcedRedraw = false
	return pending
}

// ── Parts ─────────────────────────────────────────────────────────────────────

type Behavior int

const (
	BehaviorNone Behavior = iota
	BehaviorDoorHinge
	BehaviorWheelSpin
)

type Side int

const (
	SideNone Side = iota
	SideLeft
	SideRight
)

// PartSpec describes one box of the scene. Every part is the unit cube,
// placed by its offset/rotation and sized by Scale.
type PartSpec struct {
	Name          string
	Color         core.Color
	FollowsCar    bool
	Offset        math.Vec3
	RotationAxis  math.Vec3
	RotationAngle float32 // degrees, 0 for none
	Scale         math.Vec3
	Behavior      Behavior
	Side          Side
	SwingAngle    float32 // degrees, doors only
	// Textured parts sample the floor texture when it is enabled.
	Textured bool
}

const (
	PartBody      = "body"
	PartCab       = "cab"
	PartLeftDoor  = "left door"
	PartRightDoor = "right door"
	PartWheel1    = "wheel 1"
	PartWheel2    = "wheel 2"
	PartWheel3    = "wheel 3"
	PartWheel4    = "wheel 4"
	PartFloor     = "floor"
)

// Layout carries the dimensions that differ between scene profiles.
type Layout struct {
	HalfPlane float32
	DoorSwing float32
	CabOffset math.Vec3
	CabScale  math.Vec3
}

func TexturedLayout() Layout {
	return Layout{
		HalfPlane: 40,
		DoorSwing: 65,
		CabOffset: math.NewVec3(0, 1.0, 0.45),
		CabScale:  math.NewVec3(1.3, 0.5, 1.5),
	}
}

func LegacyLayout() Layout {
	return Layout{
		HalfPlane: 20,
		DoorSwing: 45,
		CabOffset: math.NewVec3(0, 0.6, 0.45),
		CabScale:  math.NewVec3(1.35, 0.8, 1.5),
	}
}

var (
	doorScale  = math.NewVec3(0.1, 0.4, 1)
	wheelScale = math.NewVec3(0.1, 0.4, 0.4)
)

// Parts returns the scene in draw order: body, cab, doors, wheels, floor.
func Parts(l Layout) []PartSpec {
	wheel := func(name string, c core.Color, x, z float32) PartSpec {
		return PartSpec{
			Name:       name,
			Color:      c,
			FollowsCar: true,
			Offset:     math.NewVec3(x, -0.8, z),
			Scale:      wheelScale,
			Behavior:   BehaviorWheelSpin,
		}
	}

	return []PartSpec{
		{
			Name:       PartBody,
			Color:      core.RGB(0.8, 0, 0.5),
			FollowsCar: true,
			Scale:      math.NewVec3(1.4, 0.6, 2),
		},
		{
			Name:       PartCab,
			Color:      core.RGB(0.25, 0.8, 0),
			FollowsCar: true,
			Offset:     l.CabOffset,
			Scale:      l.CabScale,
		},
		{
			Name:       PartLeftDoor,
			Color:      core.RGB(0, 0.75, 1),
			FollowsCar: true,
			Offset:     math.NewVec3(-1.4, 0.15, 0),
			Scale:      doorScale,
			Behavior:   BehaviorDoorHinge,
			Side:       SideLeft,
			SwingAngle: l.DoorSwing,
		},
		{
			Name:       PartRightDoor,
			Color:      core.RGB(0, 0, 1),
			FollowsCar: true,
			Offset:     math.NewVec3(1.4, 0.15, 0),
			Scale:      doorScale,
			Behavior:   BehaviorDoorHinge,
			Side:       SideRight,
			SwingAngle: l.DoorSwing,
		},
		wheel(PartWheel1, core.RGB(1, 0.62, 0.5), -1.4, -1.4),
		wheel(PartWheel2, core.RGB(0.64, 0.16, 0.16), 1.4, -1.4),
		wheel(PartWheel3, core.RGB(0.5, 0.5, 0), -1.4, 1.4),
		wheel(PartWheel4, core.RGB(0.46, 0.53, 0.6), 1.4, 1.4),
		{
			Name:     PartFloor,
			Color:    core.RGB(0.5, 0.5, 0.5),
			Offset:   math.NewVec3(0, -1.5, 0),
			Scale:    math.NewVec3(l.HalfPlane, 0.1, l.HalfPlane),
			Textured: true,
		},
	}
}
