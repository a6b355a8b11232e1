package movement

import (
	"fmt"

	"github.com/elliotchance/orderedmap/v2"
)

// Direction is one of the four walk directions
type Direction uint8

const (
	Forward Direction = iota
	Backward
	Left
	Right
)

// String returns the lower case name used in config files
func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
}

// Key code names delivered by the viewport. They follow the DOM
// KeyboardEvent.code naming so bindings read the same on every platform.
const (
	KeyW       = "KeyW"
	KeyA       = "KeyA"
	KeyS       = "KeyS"
	KeyD       = "KeyD"
	ArrowUp    = "ArrowUp"
	ArrowDown  = "ArrowDown"
	ArrowLeft  = "ArrowLeft"
	ArrowRight = "ArrowRight"
)

// Bindings maps key codes to directions, in the order they were added
type Bindings = orderedmap.OrderedMap[string, Direction]

// NewBindings returns an empty binding table
func NewBindings() *Bindings {
	return orderedmap.NewOrderedMap[string, Direction]()
}

// DefaultBindings returns WASD plus the arrow keys
func DefaultBindings() *Bindings {
	b := NewBindings()
	b.Set(KeyW, Forward)
	b.Set(ArrowUp, Forward)
	b.Set(KeyS, Backward)
	b.Set(ArrowDown, Backward)
	b.Set(KeyA, Left)
	b.Set(ArrowLeft, Left)
	b.Set(KeyD, Right)
	b.Set(ArrowRight, Right)
	return b
}

// KeyState is the set of held directions for one frame
type KeyState struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
}

// Any reports whether at least one direction is held
func (k KeyState) Any() bool {
	return k.Forward || k.Backward || k.Left || k.Right
}

// Input mirrors which movement keys are currently down.
type Input struct {
	bindings *Bindings
	state    KeyState
}

// NewInput creates an input aggregator. A nil bindings table uses
// DefaultBindings.
func NewInput(bindings *Bindings) *Input {
	if bindings == nil || bindings.Len() == 0 {
		bindings = DefaultBindings()
	}
	return &Input{bindings: bindings}
}

// KeyDown marks the direction bound to code as held. It returns false for
// unbound keys.
func (in *Input) KeyDown(code string) bool {
	return in.set(code, true)
}

// KeyUp releases the direction bound to code. It returns false for unbound
// keys.
func (in *Input) KeyUp(code string) bool {
	return in.set(code, false)
}

func (in *Input) set(code string, down bool) bool {
	dir, ok := in.bindings.Get(code)
	if !ok {
		return false
	}

	switch dir {
	case Forward:
		in.state.Forward = down
	case Backward:
		in.state.Backward = down
	case Left:
		in.state.Left = down
	case Right:
		in.state.Right = down
	default:
		return false
	}
	return true
}

// State returns the held directions
func (in *Input) State() KeyState {
	return in.state
}

// Reset releases every direction
func (in *Input) Reset() {
	in.state = KeyState{}
}

// Describe lists the bindings as "code=direction" in binding order
func (in *Input) Describe() []string {
	out := make([]string, 0, in.bindings.Len())
	for _, code := range in.bindings.Keys() {
		dir, _ := in.bindings.Get(code)
		out = append(out, fmt.Sprintf("%s=%s", code, dir))
	}
	return out
}
