package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"car-scene/frame"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_TexturedDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	cfg, err := Load(writeConfig(t, "carscene.json", `{}`))
	require.NoError(t, err)

	assert.Equal(t, ProfileTextured, cfg.Profile)
	assert.False(t, cfg.Legacy())
	assert.Equal(t, frame.OnDemand, cfg.Policy)
	assert.Equal(t, frame.DefaultRefreshInterval, cfg.Interval)
	assert.True(t, cfg.Texture.Enabled)
	assert.Equal(t, "", cfg.Texture.Path)
	assert.True(t, cfg.Render.Directional)
	assert.True(t, cfg.Render.Point)
	assert.False(t, cfg.Render.Texture)
	assert.Equal(t, 16, cfg.Render.StackCapacity)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 120, cfg.Headless.Ticks)
}

func TestLoad_LegacyProfile(t *testing.T) {
	t.Cleanup(viper.Reset)

	cfg, err := Load(writeConfig(t, "carscene.yaml", "profile: legacy\n"))
	require.NoError(t, err)

	assert.True(t, cfg.Legacy())
	assert.Equal(t, frame.FixedInterval, cfg.Policy)
	assert.Equal(t, 50*time.Millisecond, cfg.Interval)
	assert.False(t, cfg.Texture.Enabled)
	assert.False(t, cfg.Render.Point)
}

func TestLoad_FileOverridesProfile(t *testing.T) {
	t.Cleanup(viper.Reset)

	body := `
profile: legacy
frame:
  policy: on-demand
  interval: 10ms
render:
  point: true
headless:
  enabled: true
  script: "down:up@0"
  ticks: 30
`
	cfg, err := Load(writeConfig(t, "carscene.yaml", body))
	require.NoError(t, err)

	assert.Equal(t, frame.OnDemand, cfg.Policy)
	assert.Equal(t, 10*time.Millisecond, cfg.Interval)
	assert.True(t, cfg.Render.Point)
	assert.True(t, cfg.Headless.Enabled)
	assert.Equal(t, "down:up@0", cfg.Headless.Script)
	assert.Equal(t, 30, cfg.Headless.Ticks)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("CARSCENE_PROFILE", "legacy")
	t.Setenv("CARSCENE_LOG_LEVEL", "debug")
	t.Setenv("CARSCENE_FRAME_POLICY", "on-demand")

	cfg, err := Load(writeConfig(t, "carscene.json", `{"log": {"level": "warn"}}`))
	require.NoError(t, err)

	assert.True(t, cfg.Legacy())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, frame.OnDemand, cfg.Policy)
	assert.Equal(t, 50*time.Millisecond, cfg.Interval)
}

func TestLoad_Errors(t *testing.T) {
	t.Cleanup(viper.Reset)

	_, err := Load("/nonexistent/carscene.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")

	viper.Reset()
	_, err = Load(writeConfig(t, "carscene.json", `{"profile": "retro"}`))
	assert.ErrorContains(t, err, "unknown profile")

	viper.Reset()
	_, err = Load(writeConfig(t, "carscene.json", `{"frame": {"policy": "sometimes"}}`))
	assert.ErrorContains(t, err, "unknown frame policy")

	viper.Reset()
	_, err = Load(writeConfig(t, "carscene.json", `{"headless": {"enabled": true, "ticks": 0}}`))
	assert.ErrorContains(t, err, "headless.ticks")
}

func TestLoad_NoFileIsFine(t *testing.T) {
	t.Cleanup(viper.Reset)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ProfileTextured, cfg.Profile)
}

func TestLoad_FlagsWinOnlyWhenSet(t *testing.T) {
	t.Cleanup(viper.Reset)

	fs := NewFlagSet("test")
	require.NoError(t, fs.Parse([]string{"--headless", "--ticks=5", "--script", "press:o@1"}))
	require.NoError(t, BindFlags(fs))

	cfg, err := Load(writeConfig(t, "carscene.yaml", "profile: legacy\nlog:\n  level: warn\n"))
	require.NoError(t, err)

	assert.True(t, cfg.Headless.Enabled)
	assert.Equal(t, 5, cfg.Headless.Ticks)
	assert.Equal(t, "press:o@1", cfg.Headless.Script)
	// unset flags leave file values alone
	assert.True(t, cfg.Legacy())
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, frame.FixedInterval, cfg.Policy)
}
