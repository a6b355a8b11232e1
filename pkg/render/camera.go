package render

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// CameraOptions configures projection and look sensitivity
type CameraOptions struct {
	FOV         float32 // vertical, degrees
	Near        float32
	Far         float32
	Sensitivity float32 // degrees per pixel of mouse travel
}

// DefaultCameraOptions returns the viewer defaults
func DefaultCameraOptions() CameraOptions {
	return CameraOptions{
		FOV:         DefaultFOV,
		Near:        DefaultNear,
		Far:         DefaultFar,
		Sensitivity: DefaultRotateSpeed,
	}
}

// Camera is a yaw/pitch perspective camera. It satisfies movement.Pose so
// the walk controller can read its facing and move it.
type Camera struct {
	position mgl32.Vec3
	worldUp  mgl32.Vec3
	front    mgl32.Vec3
	up       mgl32.Vec3
	right    mgl32.Vec3

	// Euler angles in degrees
	yaw   float32
	pitch float32

	opts CameraOptions

	// Mouse state
	lastX      float64
	lastY      float64
	firstMouse bool

	projection mgl32.Mat4
	aspect     float32
}

// NewCamera creates a camera at position facing -Z
func NewCamera(position mgl32.Vec3, opts CameraOptions) *Camera {
	c := &Camera{
		position:   position,
		worldUp:    mgl32.Vec3{0, 1, 0},
		yaw:        DefaultYaw,
		pitch:      DefaultPitch,
		opts:       opts,
		firstMouse: true,
		aspect:     4.0 / 3.0,
	}

	c.updateCameraVectors()
	c.updateProjectionMatrix()

	return c
}

// updateCameraVectors recalculates front, right and up from yaw and pitch
func (c *Camera) updateCameraVectors() {
	yaw := mgl32.DegToRad(c.yaw)
	pitch := mgl32.DegToRad(c.pitch)

	front := mgl32.Vec3{
		math32.Cos(yaw) * math32.Cos(pitch),
		math32.Sin(pitch),
		math32.Sin(yaw) * math32.Cos(pitch),
	}
	c.front = front.Normalize()

	c.right = c.front.Cross(c.worldUp).Normalize()
	c.up = c.right.Cross(c.front).Normalize()
}

func (c *Camera) updateProjectionMatrix() {
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.opts.FOV), c.aspect, c.opts.Near, c.opts.Far)
}

// UpdateProjectionMatrix updates the projection for a new framebuffer size
func (c *Camera) UpdateProjectionMatrix(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.aspect = float32(width) / float32(height)
	c.updateProjectionMatrix()
}

// ViewMatrix returns the current view matrix
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.position, c.position.Add(c.front), c.up)
}

// ProjectionMatrix returns the current projection matrix
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return c.projection
}

// ViewProjection returns projection * view
func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.projection.Mul4(c.ViewMatrix())
}

// Position returns the current camera position
func (c *Camera) Position() mgl32.Vec3 {
	return c.position
}

// SetPosition sets the camera position
func (c *Camera) SetPosition(pos mgl32.Vec3) {
	c.position = pos
}

// Orientation returns the current camera orientation (yaw, pitch)
func (c *Camera) Orientation() (yaw, pitch float32) {
	return c.yaw, c.pitch
}

// SetRotation sets the camera rotation angles, clamping pitch
func (c *Camera) SetRotation(yaw, pitch float32) {
	c.yaw = yaw
	c.pitch = mgl32.Clamp(pitch, MinPitch, MaxPitch)
	c.updateCameraVectors()
}

// LookAt turns the camera towards target
func (c *Camera) LookAt(target mgl32.Vec3) {
	direction := target.Sub(c.position)
	if direction.LenSqr() == 0 {
		return
	}
	direction = direction.Normalize()

	c.SetRotation(
		mgl32.RadToDeg(math32.Atan2(direction.Z(), direction.X())),
		mgl32.RadToDeg(math32.Asin(direction.Y())),
	)
}

// FrontVector returns the camera's front direction vector
func (c *Camera) FrontVector() mgl32.Vec3 {
	return c.front
}

// HandleMouseMovement turns the camera by the cursor travel since the last
// event. The first event after a reset only records the position.
func (c *Camera) HandleMouseMovement(xpos, ypos float64) {
	if c.firstMouse {
		c.lastX = xpos
		c.lastY = ypos
		c.firstMouse = false
		return
	}

	xoffset := float32(xpos-c.lastX) * c.opts.Sensitivity
	yoffset := float32(c.lastY-ypos) * c.opts.Sensitivity // y grows downwards on screen

	c.lastX = xpos
	c.lastY = ypos

	c.SetRotation(c.yaw+xoffset, c.pitch+yoffset)
}

// ResetMouseState makes the next cursor event a fresh reference point
func (c *Camera) ResetMouseState() {
	c.firstMouse = true
}
