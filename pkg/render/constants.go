package render

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// Camera constants
const (
	DefaultRotateSpeed = 0.1

	// Default orientation
	DefaultYaw   = -90.0 // Facing -Z direction
	DefaultPitch = 0.0

	// Projection
	DefaultFOV  = 60.0
	DefaultNear = 0.05
	DefaultFar  = 2000.0

	// Constraints
	MaxPitch = 89.0
	MinPitch = -89.0
)

// ClearColor is the background behind the hitbox overlay
var ClearColor = mgl32.Vec4{0.05, 0.05, 0.1, 1.0}

var namedKeys = map[glfw.Key]string{
	glfw.KeyUp:           "ArrowUp",
	glfw.KeyDown:         "ArrowDown",
	glfw.KeyLeft:         "ArrowLeft",
	glfw.KeyRight:        "ArrowRight",
	glfw.KeySpace:        "Space",
	glfw.KeyLeftShift:    "ShiftLeft",
	glfw.KeyRightShift:   "ShiftRight",
	glfw.KeyLeftControl:  "ControlLeft",
	glfw.KeyRightControl: "ControlRight",
	glfw.KeyEscape:       "Escape",
	glfw.KeyEnter:        "Enter",
	glfw.KeyTab:          "Tab",
}

// KeyCode converts a GLFW key into the code name used by key bindings, for
// example KeyW or ArrowUp. Keys without a name return false.
func KeyCode(key glfw.Key) (string, bool) {
	switch {
	case key >= glfw.KeyA && key <= glfw.KeyZ:
		return fmt.Sprintf("Key%c", 'A'+rune(key-glfw.KeyA)), true
	case key >= glfw.Key0 && key <= glfw.Key9:
		return fmt.Sprintf("Digit%c", '0'+rune(key-glfw.Key0)), true
	}
	name, ok := namedKeys[key]
	return name, ok
}
