package openglhelper

import (
	"fmt"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// WindowConfig describes the window to open
type WindowConfig struct {
	Width  int
	Height int
	Title  string
	VSync  bool
	Logger *zap.Logger
}

// Window handles GLFW window creation and management
type Window struct {
	glfwWindow    *glfw.Window
	log           *zap.Logger
	title         string
	mouseCaptured bool

	sizeObservers map[int]func(width, height int, pixelRatio float64)
	nextObserver  int
}

// NewWindow creates a new GLFW window with OpenGL context
func NewWindow(cfg WindowConfig) (*Window, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	// Initialize GLFW
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	// Configure GLFW
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	// Create window
	glfwWindow, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create GLFW window: %w", err)
	}

	glfwWindow.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1) // Enable vsync
	} else {
		glfw.SwapInterval(0) // Disable vsync
	}

	// Initialize OpenGL
	if err := gl.Init(); err != nil {
		glfwWindow.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	cfg.Logger.Info("window created",
		zap.String("gl_version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height))

	// Configure global OpenGL state
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)

	w := &Window{
		glfwWindow:    glfwWindow,
		log:           cfg.Logger,
		title:         cfg.Title,
		sizeObservers: make(map[int]func(int, int, float64)),
	}
	glfwWindow.SetSizeCallback(w.onResize)
	return w, nil
}

// Clear clears the screen
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

// SetShouldClose asks the window to close
func (w *Window) SetShouldClose(v bool) {
	w.glfwWindow.SetShouldClose(v)
}

// Close releases all resources
func (w *Window) Close() {
	w.glfwWindow.Destroy()
	glfw.Terminate()
}

// Size returns the window dimensions in screen coordinates
func (w *Window) Size() (width, height int) {
	return w.glfwWindow.GetSize()
}

// FramebufferSize returns the drawable size in pixels
func (w *Window) FramebufferSize() (width, height int) {
	return w.glfwWindow.GetFramebufferSize()
}

// PixelRatio returns framebuffer pixels per screen coordinate
func (w *Window) PixelRatio() float64 {
	width, _ := w.glfwWindow.GetSize()
	fbWidth, _ := w.glfwWindow.GetFramebufferSize()
	if width == 0 || fbWidth == 0 {
		return 1
	}
	return float64(fbWidth) / float64(width)
}

// SetTitle sets the window title
func (w *Window) SetTitle(title string) {
	w.title = title
	w.glfwWindow.SetTitle(title)
}

// ObserveSize calls fn with the current size and on every resize.
// Sizes are in screen coordinates; multiply by pixelRatio for pixels.
func (w *Window) ObserveSize(fn func(width, height int, pixelRatio float64)) (stop func()) {
	id := w.nextObserver
	w.nextObserver++
	w.sizeObservers[id] = fn

	width, height := w.Size()
	fn(width, height, w.PixelRatio())

	return func() {
		delete(w.sizeObservers, id)
	}
}

func (w *Window) onResize(_ *glfw.Window, width, height int) {
	ratio := w.PixelRatio()
	w.log.Debug("window resized", zap.Int("width", width), zap.Int("height", height), zap.Float64("pixel_ratio", ratio))
	for _, fn := range w.sizeObservers {
		fn(width, height, ratio)
	}
}

// GLFWWindow returns the underlying GLFW window
func (w *Window) GLFWWindow() *glfw.Window {
	return w.glfwWindow
}

// SetMouseCaptured captures or releases the mouse cursor
func (w *Window) SetMouseCaptured(captured bool) {
	w.mouseCaptured = captured

	if captured {
		w.glfwWindow.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		if glfw.RawMouseMotionSupported() {
			w.glfwWindow.SetInputMode(glfw.RawMouseMotion, glfw.True)
		}
	} else {
		w.glfwWindow.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}
}

// IsMouseCaptured returns whether the mouse is currently captured
func (w *Window) IsMouseCaptured() bool {
	return w.mouseCaptured
}
