// Package movement implements walk navigation over a collision surface: key
// state is turned into a horizontal step, the step is checked against the
// floor under it, and the camera either follows the floor or stays put.
package movement

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/leterax/splatwalk/pkg/collision"
)

// Pose is the camera as seen by the controller. The viewport owns it.
type Pose interface {
	Position() mgl32.Vec3
	SetPosition(pos mgl32.Vec3)
	FrontVector() mgl32.Vec3
}

// Outcome tells what a frame update did
type Outcome uint8

const (
	// Inactive means the pointer was not locked and nothing was processed
	Inactive Outcome = iota
	// Idle means no net direction was held
	Idle
	// Moved means the step landed on a floor and was accepted
	Moved
	// Rejected means there was no floor under the step
	Rejected
)

// String returns a short lower case name for logs
func (o Outcome) String() string {
	switch o {
	case Inactive:
		return "inactive"
	case Idle:
		return "idle"
	case Moved:
		return "moved"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Step reports the result of one Update
type Step struct {
	Outcome      Outcome
	Displacement mgl32.Vec3
	// Floor is the floor height found under the accepted position
	Floor float32
	// Position is the camera position after the update
	Position mgl32.Vec3
}

// Controller owns all walk state: held keys, the facing fallback and the
// floor probe. Update must be called once per frame from the render thread.
type Controller struct {
	input    *Input
	resolver *Resolver
	probe    FloorProbe
	settings Settings
	log      *zap.SugaredLogger

	last Outcome
}

// NewController creates a controller walking on surfaces. A nil input uses
// the default bindings and a nil logger discards output.
func NewController(surfaces collision.SurfaceQuery, settings Settings, input *Input, log *zap.SugaredLogger) *Controller {
	if input == nil {
		input = NewInput(nil)
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Controller{
		input:    input,
		resolver: NewResolver(),
		probe:    settings.FloorProbe(surfaces),
		settings: settings,
		log:      log,
	}
}

// Input returns the key aggregator fed by the keyboard callbacks
func (c *Controller) Input() *Input {
	return c.input
}

// Update advances the camera by one frame. When active is false (pointer not
// locked) nothing is processed. The pose is only written when a step is
// accepted.
func (c *Controller) Update(pose Pose, active bool) Step {
	if !active {
		return Step{Outcome: Inactive, Position: pose.Position()}
	}

	prev := pose.Position()
	disp, ok := c.resolver.Resolve(pose.FrontVector(), c.input.State(), c.settings.MoveSpeed)
	if !ok {
		return Step{Outcome: Idle, Position: prev}
	}

	candidate := mgl32.Vec3{prev.X() + disp.X(), prev.Y(), prev.Z() + disp.Z()}
	floor, found := c.probe.HeightAt(candidate.X(), candidate.Z())
	if !found {
		c.transition(Rejected, candidate)
		return Step{Outcome: Rejected, Displacement: disp, Position: prev}
	}

	candidate[1] = c.settle(prev.Y(), floor+c.settings.EyeHeight)
	pose.SetPosition(candidate)
	c.transition(Moved, candidate)

	return Step{
		Outcome:      Moved,
		Displacement: disp,
		Floor:        floor,
		Position:     candidate,
	}
}

// settle applies the optional height smoothing
func (c *Controller) settle(current, target float32) float32 {
	s := c.settings.Smoothing
	if s <= 0 || s >= 1 {
		return target
	}
	return current + (target-current)*s
}

// transition logs edges between accepted and rejected movement so a blocked
// walker shows up once rather than every frame.
func (c *Controller) transition(o Outcome, at mgl32.Vec3) {
	if o == c.last {
		return
	}
	c.last = o
	if o == Rejected {
		c.log.Debugw("movement blocked, no floor", "x", at.X(), "z", at.Z())
		return
	}
	c.log.Debugw("movement resumed", "x", at.X(), "y", at.Y(), "z", at.Z())
}
