package render

import (
	"context"
	"fmt"
	"openglhelper"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/leterax/splatwalk/pkg/collision"
	"github.com/leterax/splatwalk/pkg/movement"
)

// Options configures the window and the viewer camera
type Options struct {
	Width         int
	Height        int
	Title         string
	VSync         bool
	Camera        CameraOptions
	StartPosition mgl32.Vec3
	ShowHitbox    bool
}

// Renderer owns the window, the camera and the frame loop
type Renderer struct {
	window     *openglhelper.Window
	camera     *Camera
	controller *movement.Controller
	hitbox     *Hitbox
	log        *zap.SugaredLogger

	frames uint64
}

// NewRenderer creates the window and wires the input callbacks. The
// controller is stepped once per frame while the pointer is locked.
func NewRenderer(opts Options, controller *movement.Controller, cell *collision.Cell, log *zap.SugaredLogger) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	window, err := openglhelper.NewWindow(opts.Width, opts.Height, opts.Title, opts.VSync)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	log.Infow("window created", "gl", window.GLVersion(), "width", opts.Width, "height", opts.Height)

	camera := NewCamera(opts.StartPosition, opts.Camera)
	camera.UpdateProjectionMatrix(window.Size())

	r := &Renderer{
		window:     window,
		camera:     camera,
		controller: controller,
		log:        log,
	}

	if opts.ShowHitbox {
		hitbox, err := NewHitbox(cell, log)
		if err != nil {
			window.Close()
			return nil, fmt.Errorf("failed to create hitbox view: %w", err)
		}
		r.hitbox = hitbox
	}

	glfwWindow := window.GLFWWindow()
	glfwWindow.SetKeyCallback(r.keyCallback)
	glfwWindow.SetCursorPosCallback(r.cursorPosCallback)
	glfwWindow.SetMouseButtonCallback(r.mouseButtonCallback)
	glfwWindow.SetFocusCallback(r.focusCallback)
	glfwWindow.SetFramebufferSizeCallback(r.framebufferSizeCallback)

	return r, nil
}

// Camera returns the viewer camera
func (r *Renderer) Camera() *Camera {
	return r.camera
}

// Run drives the frame loop until the window closes or ctx is cancelled
func (r *Renderer) Run(ctx context.Context) {
	for !r.window.ShouldClose() {
		if ctx.Err() != nil {
			break
		}

		// key and cursor callbacks fire here, so orientation is current
		// before the controller reads it
		r.window.PollEvents()

		r.controller.Update(r.camera, r.window.IsLocked())

		r.render()
		r.window.SwapBuffers()
		r.frames++
	}

	r.log.Infow("frame loop stopped", "frames", r.frames)
	r.Cleanup()
}

func (r *Renderer) render() {
	r.window.Clear(ClearColor)
	if r.hitbox != nil {
		r.hitbox.Draw(r.camera.ViewProjection())
	}
}

// Cleanup frees all resources
func (r *Renderer) Cleanup() {
	if r.hitbox != nil {
		r.hitbox.Delete()
		r.hitbox = nil
	}
	r.window.Close()
}

func (r *Renderer) lock() {
	if r.window.IsLocked() {
		return
	}
	r.window.Lock()
	r.camera.ResetMouseState()
	r.log.Debug("pointer locked")
}

// unlock releases the pointer and drops held keys so none stick while the
// window no longer receives their release
func (r *Renderer) unlock() {
	if !r.window.IsLocked() {
		return
	}
	r.window.Unlock()
	r.controller.Input().Reset()
	r.log.Debug("pointer released")
}

// Callback functions
func (r *Renderer) keyCallback(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		if r.window.IsLocked() {
			r.unlock()
		} else {
			r.window.RequestClose()
		}
		return
	}

	code, ok := KeyCode(key)
	if !ok {
		return
	}
	switch action {
	case glfw.Press, glfw.Repeat:
		r.controller.Input().KeyDown(code)
	case glfw.Release:
		r.controller.Input().KeyUp(code)
	}
}

func (r *Renderer) cursorPosCallback(_ *glfw.Window, xpos, ypos float64) {
	if r.window.IsLocked() {
		r.camera.HandleMouseMovement(xpos, ypos)
	}
}

func (r *Renderer) mouseButtonCallback(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	if button == glfw.MouseButtonLeft && action == glfw.Press {
		r.lock()
	}
}

func (r *Renderer) focusCallback(_ *glfw.Window, focused bool) {
	if !focused {
		r.unlock()
	}
}

func (r *Renderer) framebufferSizeCallback(_ *glfw.Window, width, height int) {
	r.window.OnResize(width, height)
	r.camera.UpdateProjectionMatrix(width, height)
}
