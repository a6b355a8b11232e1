package openglhelper

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// Window owns the GLFW window, its GL context and the pointer lock state
type Window struct {
	glfwWindow *glfw.Window
	width      int
	height     int
	title      string
	locked     bool
	vsync      bool
}

// NewWindow creates a new GLFW window with an OpenGL 4.1 core context
func NewWindow(width, height int, title string, vsync bool) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	glfwWindow, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create GLFW window: %w", err)
	}

	glfwWindow.MakeContextCurrent()
	if vsync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	// framebuffer can differ from window size on HiDPI displays
	fbw, fbh := glfwWindow.GetFramebufferSize()
	gl.Viewport(0, 0, int32(fbw), int32(fbh))

	return &Window{
		glfwWindow: glfwWindow,
		width:      fbw,
		height:     fbh,
		title:      title,
		vsync:      vsync,
	}, nil
}

// GLVersion returns the version string reported by the driver
func (w *Window) GLVersion() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

// Clear clears color and depth
func (w *Window) Clear(color mgl32.Vec4) {
	gl.ClearColor(color.X(), color.Y(), color.Z(), color.W())
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// SwapBuffers swaps the front and back buffers
func (w *Window) SwapBuffers() {
	w.glfwWindow.SwapBuffers()
}

// PollEvents processes pending events
func (w *Window) PollEvents() {
	glfw.PollEvents()
}

// ShouldClose returns whether the window should close
func (w *Window) ShouldClose() bool {
	return w.glfwWindow.ShouldClose()
}

// RequestClose asks the main loop to stop
func (w *Window) RequestClose() {
	w.glfwWindow.SetShouldClose(true)
}

// Close releases all resources
func (w *Window) Close() {
	w.glfwWindow.Destroy()
	glfw.Terminate()
}

// Size returns the framebuffer dimensions
func (w *Window) Size() (width, height int) {
	return w.width, w.height
}

// OnResize updates the viewport after a framebuffer resize
func (w *Window) OnResize(width, height int) {
	w.width = width
	w.height = height
	gl.Viewport(0, 0, int32(width), int32(height))
}

// GLFWWindow returns the underlying GLFW window
func (w *Window) GLFWWindow() *glfw.Window {
	return w.glfwWindow
}

// Lock hides the cursor and confines it to the window. Mouse movement is then
// reported as unbounded deltas.
func (w *Window) Lock() {
	w.locked = true
	w.glfwWindow.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	if glfw.RawMouseMotionSupported() {
		w.glfwWindow.SetInputMode(glfw.RawMouseMotion, glfw.True)
	}
}

// Unlock releases the cursor
func (w *Window) Unlock() {
	w.locked = false
	w.glfwWindow.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
}

// IsLocked reports whether the pointer is locked to the window
func (w *Window) IsLocked() bool {
	return w.locked
}
