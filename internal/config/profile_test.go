package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"car-scene/renderer"
	"car-scene/scene"
	"car-scene/sim"
)

func TestScene_Textured(t *testing.T) {
	t.Cleanup(viper.Reset)

	cfg, err := Load(writeConfig(t, "carscene.json", `{}`))
	require.NoError(t, err)

	s := cfg.Scene()
	assert.Equal(t, sim.TexturedConfig(), s.Motion)
	assert.Equal(t, scene.TexturedLayout(), s.Layout)
	assert.Equal(t, renderer.DefaultLights(), s.Lights)
	assert.Equal(t, scene.RenderState{DirectionalLighting: true, PointLighting: true}, s.Render)
}

func TestScene_Legacy(t *testing.T) {
	t.Cleanup(viper.Reset)

	cfg, err := Load(writeConfig(t, "carscene.yaml", "profile: legacy\nrender:\n  texture: true\n"))
	require.NoError(t, err)

	s := cfg.Scene()
	assert.Equal(t, sim.LegacyConfig(), s.Motion)
	assert.Equal(t, 3, s.Motion.DoorCooldown)
	assert.Equal(t, scene.LegacyLayout(), s.Layout)
	assert.Equal(t, renderer.LegacyLights(), s.Lights)
	assert.Equal(t, scene.RenderState{DirectionalLighting: true, FloorTextured: true}, s.Render)
}
