package config

import (
	"car-scene/renderer"
	"car-scene/scene"
	"car-scene/sim"
)

// Scene bundles everything a profile decides about the simulation and
// what gets drawn.
type Scene struct {
	Motion sim.Config
	Layout scene.Layout
	Lights renderer.Lights
	Render scene.RenderState
}

// Scene resolves the profile constants plus the configured toggles.
func (c *Config) Scene() Scene {
	s := Scene{
		Motion: sim.TexturedConfig(),
		Layout: scene.TexturedLayout(),
		Lights: renderer.DefaultLights(),
	}
	if c.Legacy() {
		s.Motion = sim.LegacyConfig()
		s.Layout = scene.LegacyLayout()
		s.Lights = renderer.LegacyLights()
	}
	s.Render = scene.RenderState{
		DirectionalLighting: c.Render.Directional,
		PointLighting:       c.Render.Point,
		FloorTextured:       c.Render.Texture,
	}
	return s
}
