// Package config loads the starfield configuration from YAML or TOML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/leterax/go-starfield/pkg/controls"
	"github.com/leterax/go-starfield/pkg/game"
	"github.com/leterax/go-starfield/pkg/scene"
)

var (
	ErrUnknownFormat = errors.New("config: unknown file format")
	ErrInvalid       = errors.New("config: invalid value")
)

// Window configures the output window
type Window struct {
	Width  int    `yaml:"width" toml:"width"`
	Height int    `yaml:"height" toml:"height"`
	Title  string `yaml:"title" toml:"title"`
	VSync  bool   `yaml:"vsync" toml:"vsync"`
	FPS    int    `yaml:"fps" toml:"fps"`
	// Background is a CSS colour name or hex string
	Background string `yaml:"background" toml:"background"`
	Lit        bool   `yaml:"lit" toml:"lit"`
}

// Camera configures the fly camera
type Camera struct {
	FOV         float32 `yaml:"fov" toml:"fov"`
	Near        float32 `yaml:"near" toml:"near"`
	Far         float32 `yaml:"far" toml:"far"`
	Speed       float32 `yaml:"speed" toml:"speed"`
	Sensitivity float32 `yaml:"sensitivity" toml:"sensitivity"`
	Distance    float32 `yaml:"distance" toml:"distance"`
	// Bindings overrides the default key map: action name to key code
	Bindings map[string]string `yaml:"bindings,omitempty" toml:"bindings,omitempty"`
}

// Scene configures the generated scene
type Scene struct {
	Planets int `yaml:"planets" toml:"planets"`
	// Seed for the planet generator; 0 picks one from the clock
	Seed int64 `yaml:"seed" toml:"seed"`
}

// Log configures logging
type Log struct {
	Level       string `yaml:"level" toml:"level"`
	Development bool   `yaml:"development" toml:"development"`
}

// Inspect configures the inspect server; an empty address disables it
type Inspect struct {
	Addr string `yaml:"addr" toml:"addr"`
}

// Config is the full application configuration
type Config struct {
	Window  Window  `yaml:"window" toml:"window"`
	Camera  Camera  `yaml:"camera" toml:"camera"`
	Scene   Scene   `yaml:"scene" toml:"scene"`
	Log     Log     `yaml:"log" toml:"log"`
	Inspect Inspect `yaml:"inspect" toml:"inspect"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Window: Window{
			Width:      800,
			Height:     600,
			Title:      "Go Starfield",
			VSync:      true,
			FPS:        game.DefaultFPS,
			Background: "black",
		},
		Camera: Camera{
			FOV:         controls.DefaultFOV,
			Near:        controls.DefaultNear,
			Far:         controls.DefaultFar,
			Speed:       controls.DefaultSpeed,
			Sensitivity: controls.DefaultSensitivity,
			Distance:    game.DefaultCameraDistance,
		},
		Scene: Scene{
			Planets: 5,
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Load reads path over the defaults. The format is picked by extension:
// .yaml/.yml or .toml.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		return cfg, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks value ranges. Detailed checks of camera parameters and key
// bindings happen in the factory when the controls are built.
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Window.FPS < 0:
		return fmt.Errorf("%w: fps %d", ErrInvalid, c.Window.FPS)
	case c.Scene.Planets < 0:
		return fmt.Errorf("%w: planets %d", ErrInvalid, c.Scene.Planets)
	case c.Camera.Distance < 0:
		return fmt.Errorf("%w: camera distance %v", ErrInvalid, c.Camera.Distance)
	}
	if _, err := scene.ParseColor(c.Window.Background); err != nil {
		return fmt.Errorf("%w: background: %w", ErrInvalid, err)
	}
	return nil
}
