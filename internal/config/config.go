package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"car-scene/frame"
)

const (
	ProfileTextured = "textured"
	ProfileLegacy   = "legacy"
)

// EnvPrefix prefixes environment overrides, e.g. CARSCENE_FRAME_POLICY.
const EnvPrefix = "CARSCENE"

type WindowConfig struct {
	Width  int
	Height int
	Title  string
	VSync  bool
}

type RenderConfig struct {
	Directional   bool
	Point         bool
	Texture       bool
	StackCapacity int
}

type TextureConfig struct {
	Enabled bool
	// Path of the floor image; empty selects the built-in checkerboard.
	Path string
}

type HeadlessConfig struct {
	Enabled bool
	Script  string
	Ticks   int
}

type Config struct {
	Profile   string
	Window    WindowConfig
	Policy    frame.Policy
	Interval  time.Duration
	Texture   TextureConfig
	Render    RenderConfig
	LogLevel  string
	LogFormat string
	Debug     bool
	Headless  HeadlessConfig
}

// profileDefaults are the values that differ between profiles. They only
// apply to keys the file and environment leave unset.
var profileDefaults = map[string]map[string]any{
	ProfileTextured: {
		"frame.policy":    "on-demand",
		"frame.interval":  frame.DefaultRefreshInterval.String(),
		"texture.enabled": true,
		"render.point":    true,
	},
	ProfileLegacy: {
		"frame.policy":    "fixed-interval",
		"frame.interval":  frame.DefaultFixedInterval.String(),
		"texture.enabled": false,
		"render.point":    false,
	},
}

func setDefaults() {
	viper.SetDefault("profile", ProfileTextured)

	viper.SetDefault("window.width", 1280)
	viper.SetDefault("window.height", 720)
	viper.SetDefault("window.title", "Car Scene")
	viper.SetDefault("window.vsync", true)

	viper.SetDefault("texture.path", "")

	viper.SetDefault("render.directional", true)
	viper.SetDefault("render.texture", false)
	viper.SetDefault("render.stackCapacity", 16)

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")
	viper.SetDefault("debug", false)

	viper.SetDefault("headless.enabled", false)
	viper.SetDefault("headless.script", "")
	viper.SetDefault("headless.ticks", 120)
}

// Load reads configuration from defaults, an optional config file and
// CARSCENE_* environment variables, later sources winning. An empty path
// looks for carscene.{yaml,json,...} in the working directory and carries on
// without one.
func Load(path string) (*Config, error) {
	setDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		viper.SetConfigName("carscene")
		viper.AddConfigPath(".")
		if err := viper.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	profile := strings.ToLower(viper.GetString("profile"))
	defaults, ok := profileDefaults[profile]
	if !ok {
		return nil, fmt.Errorf("unknown profile %q", profile)
	}
	for key, value := range defaults {
		if !viper.IsSet(key) {
			viper.Set(key, value)
		}
	}

	policy, err := frame.ParsePolicy(viper.GetString("frame.policy"))
	if err != nil {
		return nil, err
	}
	interval := viper.GetDuration("frame.interval")
	if interval < 0 {
		return nil, fmt.Errorf("frame.interval must not be negative, got %s", interval)
	}

	cfg := &Config{
		Profile: profile,
		Window: WindowConfig{
			Width:  viper.GetInt("window.width"),
			Height: viper.GetInt("window.height"),
			Title:  viper.GetString("window.title"),
			VSync:  viper.GetBool("window.vsync"),
		},
		Policy:   policy,
		Interval: interval,
		Texture: TextureConfig{
			Enabled: viper.GetBool("texture.enabled"),
			Path:    viper.GetString("texture.path"),
		},
		Render: RenderConfig{
			Directional:   viper.GetBool("render.directional"),
			Point:         viper.GetBool("render.point"),
			Texture:       viper.GetBool("render.texture"),
			StackCapacity: viper.GetInt("render.stackCapacity"),
		},
		LogLevel:  viper.GetString("log.level"),
		LogFormat: viper.GetString("log.format"),
		Debug:     viper.GetBool("debug"),
		Headless: HeadlessConfig{
			Enabled: viper.GetBool("headless.enabled"),
			Script:  viper.GetString("headless.script"),
			Ticks:   viper.GetInt("headless.ticks"),
		},
	}

	if cfg.Window.Width <= 0 || cfg.Window.Height <= 0 {
		return nil, fmt.Errorf("window size must be positive, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Headless.Enabled && cfg.Headless.Ticks <= 0 {
		return nil, fmt.Errorf("headless.ticks must be positive, got %d", cfg.Headless.Ticks)
	}

	return cfg, nil
}

// NewFlagSet declares the command-line overrides. Only flags the user
// actually passes take precedence over the file and environment.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringP("config", "c", "", "path to a config file")
	fs.String("profile", ProfileTextured, "scene profile: textured or legacy")
	fs.String("frame-policy", "", "on-demand or fixed-interval")
	fs.String("texture", "", "floor texture image (PNG or JPEG)")
	fs.String("log-level", "info", "log level")
	fs.String("log-format", "console", "console or json")
	fs.Bool("debug", false, "panic on transform stack misuse")
	fs.Bool("headless", false, "run without a window")
	fs.String("script", "", "headless key script, e.g. \"down:up@0,press:o@10\"")
	fs.Int("ticks", 120, "headless run length in ticks")
	return fs
}

var flagKeys = map[string]string{
	"profile":      "profile",
	"frame-policy": "frame.policy",
	"texture":      "texture.path",
	"log-level":    "log.level",
	"log-format":   "log.format",
	"debug":        "debug",
	"headless":     "headless.enabled",
	"script":       "headless.script",
	"ticks":        "headless.ticks",
}

// BindFlags routes parsed flags into the configuration keys Load reads.
func BindFlags(fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag %s: %w", name, err)
		}
	}
	return nil
}

// Legacy reports whether the legacy profile is selected.
func (c *Config) Legacy() bool {
	return c.Profile == ProfileLegacy
}
