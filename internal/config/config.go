// Package config loads the viewer configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/leterax/splatwalk/pkg/movement"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid config")

// Config is the full viewer configuration as read from YAML
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Camera   CameraConfig   `yaml:"camera"`
	Movement MovementConfig `yaml:"movement"`
	Keys     KeysConfig     `yaml:"keys"`
	Assets   AssetsConfig   `yaml:"assets"`
	Logging  LoggingConfig  `yaml:"logging"`
	Debug    DebugConfig    `yaml:"debug"`
}

// WindowConfig sizes the viewer window
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	VSync  bool   `yaml:"vsync"`
}

// CameraConfig sets the start position, projection and mouse look speed.
// Position is in world units, FOV in degrees.
type CameraConfig struct {
	Position    [3]float32 `yaml:"position"`
	FOV         float32    `yaml:"fov"`
	Near        float32    `yaml:"near"`
	Far         float32    `yaml:"far"`
	Sensitivity float32    `yaml:"sensitivity"`
}

// MovementConfig mirrors movement.Settings
type MovementConfig struct {
	EyeHeight   float32 `yaml:"eye_height"`
	MoveSpeed   float32 `yaml:"move_speed"`
	MaxDrop     float32 `yaml:"max_drop"`
	ProbeHeight float32 `yaml:"probe_height"`
	Smoothing   float32 `yaml:"smoothing"`
}

// KeysConfig lists the key codes bound to each direction
type KeysConfig struct {
	Forward  []string `yaml:"forward"`
	Backward []string `yaml:"backward"`
	Left     []string `yaml:"left"`
	Right    []string `yaml:"right"`
}

// AssetsConfig points at the collision mesh and toggles its wireframe
type AssetsConfig struct {
	Collision  string `yaml:"collision"`
	ShowHitbox bool   `yaml:"show_hitbox"`
}

// LoggingConfig picks the log level and an optional rotated log file
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DebugConfig enables the statsview server and Sentry reporting. Empty
// values disable them.
type DebugConfig struct {
	StatsviewAddr string `yaml:"statsview_addr"`
	SentryDSN     string `yaml:"sentry_dsn"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	s := movement.DefaultSettings()
	return &Config{
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "splatwalk",
			VSync:  true,
		},
		Camera: CameraConfig{
			Position:    [3]float32{-0.6, 0.5, 0},
			FOV:         60,
			Near:        0.05,
			Far:         2000,
			Sensitivity: 0.1,
		},
		Movement: MovementConfig{
			EyeHeight:   s.EyeHeight,
			MoveSpeed:   s.MoveSpeed,
			MaxDrop:     s.MaxDrop,
			ProbeHeight: s.ProbeHeight,
			Smoothing:   s.Smoothing,
		},
		Keys: KeysConfig{
			Forward:  []string{movement.KeyW, movement.ArrowUp},
			Backward: []string{movement.KeyS, movement.ArrowDown},
			Left:     []string{movement.KeyA, movement.ArrowLeft},
			Right:    []string{movement.KeyD, movement.ArrowRight},
		},
		Assets: AssetsConfig{
			Collision:  "models/hitbox.glb",
			ShowHitbox: false,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads path on top of Default and validates the result
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that would otherwise fail later at runtime
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		return fmt.Errorf("%w: camera fov %v", ErrInvalid, c.Camera.FOV)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("%w: camera clip planes near=%v far=%v", ErrInvalid, c.Camera.Near, c.Camera.Far)
	}
	if err := c.MovementSettings().Validate(); err != nil {
		return fmt.Errorf("%w: movement: %v", ErrInvalid, err)
	}
	if _, err := c.Keys.Bindings(); err != nil {
		return fmt.Errorf("%w: keys: %v", ErrInvalid, err)
	}
	if c.Assets.Collision == "" {
		return fmt.Errorf("%w: assets.collision is empty", ErrInvalid)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: logging level %q", ErrInvalid, c.Logging.Level)
	}
	return nil
}

// MovementSettings converts the movement section for the controller
func (c *Config) MovementSettings() movement.Settings {
	return movement.Settings{
		EyeHeight:   c.Movement.EyeHeight,
		MoveSpeed:   c.Movement.MoveSpeed,
		MaxDrop:     c.Movement.MaxDrop,
		ProbeHeight: c.Movement.ProbeHeight,
		Smoothing:   c.Movement.Smoothing,
	}
}

// StartPosition returns the initial camera position
func (c *Config) StartPosition() mgl32.Vec3 {
	return mgl32.Vec3(c.Camera.Position)
}

// Bindings builds the key table in forward, backward, left, right order.
// A key code may only be bound once.
func (k KeysConfig) Bindings() (*movement.Bindings, error) {
	b := movement.NewBindings()
	groups := []struct {
		dir   movement.Direction
		codes []string
	}{
		{movement.Forward, k.Forward},
		{movement.Backward, k.Backward},
		{movement.Left, k.Left},
		{movement.Right, k.Right},
	}

	for _, g := range groups {
		if len(g.codes) == 0 {
			return nil, fmt.Errorf("no key bound to %s", g.dir)
		}
		for _, code := range g.codes {
			if code == "" {
				return nil, fmt.Errorf("empty key code bound to %s", g.dir)
			}
			if prev, ok := b.Get(code); ok {
				return nil, fmt.Errorf("key %s bound to both %s and %s", code, prev, g.dir)
			}
			b.Set(code, g.dir)
		}
	}
	return b, nil
}
