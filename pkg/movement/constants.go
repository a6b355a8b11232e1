package movement

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/splatwalk/pkg/collision"
)

// Movement defaults
const (
	// DefaultEyeHeight is the camera height above the floor
	DefaultEyeHeight = 0.7
	// DefaultMoveSpeed is the horizontal distance covered per frame
	DefaultMoveSpeed = 0.015
	// DefaultMaxDrop is how far below the probe height a floor may be found
	DefaultMaxDrop = 30.0
	// DefaultProbeHeight is the height the floor ray starts from
	DefaultProbeHeight = 100.0
	// DefaultSmoothing of 0 snaps to the floor every accepted frame
	DefaultSmoothing = 0.0

	// degenerateEpsilon is the squared length under which a projected or
	// accumulated vector counts as zero
	degenerateEpsilon = 1e-12
)

// WorldUp is the up axis of the Y-up world
var WorldUp = mgl32.Vec3{0, 1, 0}

// DefaultForward is the horizontal facing used until the camera reports a
// usable one
var DefaultForward = mgl32.Vec3{0, 0, -1}

// Settings holds the tunables of the movement controller.
type Settings struct {
	EyeHeight   float32
	MoveSpeed   float32
	MaxDrop     float32
	ProbeHeight float32
	// Smoothing in (0, 1) eases the camera height towards the floor target
	// instead of snapping. 0 snaps.
	Smoothing float32
}

// DefaultSettings returns the walk settings of the viewer
func DefaultSettings() Settings {
	return Settings{
		EyeHeight:   DefaultEyeHeight,
		MoveSpeed:   DefaultMoveSpeed,
		MaxDrop:     DefaultMaxDrop,
		ProbeHeight: DefaultProbeHeight,
		Smoothing:   DefaultSmoothing,
	}
}

// FloorProbe returns a probe over surfaces using the ray height and drop of s
func (s Settings) FloorProbe(surfaces collision.SurfaceQuery) FloorProbe {
	return FloorProbe{
		Surfaces:    surfaces,
		ProbeHeight: s.ProbeHeight,
		MaxDrop:     s.MaxDrop,
	}
}

// Validate checks that the settings describe a usable controller
func (s Settings) Validate() error {
	if s.MoveSpeed <= 0 {
		return fmt.Errorf("move speed must be positive, got %v", s.MoveSpeed)
	}
	if s.EyeHeight < 0 {
		return fmt.Errorf("eye height must not be negative, got %v", s.EyeHeight)
	}
	if s.MaxDrop < 0 {
		return fmt.Errorf("max drop must not be negative, got %v", s.MaxDrop)
	}
	// reach is MaxDrop+ProbeHeight, both must leave it positive
	if s.ProbeHeight <= 0 {
		return fmt.Errorf("probe height must be positive, got %v", s.ProbeHeight)
	}
	if s.Smoothing < 0 || s.Smoothing >= 1 {
		return fmt.Errorf("smoothing must be in [0, 1), got %v", s.Smoothing)
	}
	return nil
}
