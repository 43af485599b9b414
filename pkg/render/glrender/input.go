package glrender

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"

	"github.com/leterax/go-starfield/internal/openglhelper"
	"github.com/leterax/go-starfield/pkg/controls"
)

// named keys outside the letter and digit ranges
var keyCodes = map[glfw.Key]string{
	glfw.KeySpace:        controls.KeySpace,
	glfw.KeyLeftShift:    controls.KeyShiftLeft,
	glfw.KeyRightShift:   "ShiftRight",
	glfw.KeyLeftControl:  "ControlLeft",
	glfw.KeyRightControl: "ControlRight",
	glfw.KeyLeftAlt:      "AltLeft",
	glfw.KeyRightAlt:     "AltRight",
	glfw.KeyEscape:       controls.KeyEscape,
	glfw.KeyEnter:        "Enter",
	glfw.KeyTab:          "Tab",
	glfw.KeyUp:           "ArrowUp",
	glfw.KeyDown:         "ArrowDown",
	glfw.KeyLeft:         "ArrowLeft",
	glfw.KeyRight:        "ArrowRight",
}

// KeyCode returns the layout-independent code for a GLFW key, or "" if unknown
func KeyCode(key glfw.Key) string {
	switch {
	case key >= glfw.KeyA && key <= glfw.KeyZ:
		return "Key" + string(rune('A'+(key-glfw.KeyA)))
	case key >= glfw.Key0 && key <= glfw.Key9:
		return "Digit" + string(rune('0'+(key-glfw.Key0)))
	}
	return keyCodes[key]
}

// BindInput forwards the window's keyboard and mouse events to ctrls.
//
// Clicking into the window captures the cursor; while captured, cursor
// movement turns the camera. Escape releases the cursor, or closes the
// window when it is not captured. Losing focus releases every held key.
// The returned func removes the callbacks.
func BindInput(window *openglhelper.Window, ctrls *controls.Controls, log *zap.Logger) (unbind func()) {
	if log == nil {
		log = zap.NewNop()
	}
	w := window.GLFWWindow()

	var (
		lastX, lastY float64
		haveLast     bool
	)

	release := func() {
		window.SetMouseCaptured(false)
		haveLast = false
	}

	w.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			if window.IsMouseCaptured() {
				release()
				log.Debug("pointer released")
			} else {
				window.SetShouldClose(true)
			}
			return
		}

		code := KeyCode(key)
		if code == "" {
			return
		}
		switch action {
		case glfw.Press:
			ctrls.OnKeyDown(code)
		case glfw.Release:
			ctrls.OnKeyUp(code)
		}
	})

	w.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if button == glfw.MouseButtonLeft && action == glfw.Press && !window.IsMouseCaptured() {
			window.SetMouseCaptured(true)
			haveLast = false
			log.Debug("pointer captured")
		}
	})

	w.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if !window.IsMouseCaptured() {
			return
		}
		if haveLast {
			ctrls.OnPointerMove(x-lastX, y-lastY)
		}
		lastX, lastY = x, y
		haveLast = true
	})

	w.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		if focused {
			return
		}
		ctrls.ReleaseAll()
		if window.IsMouseCaptured() {
			release()
		}
	})

	return func() {
		w.SetKeyCallback(nil)
		w.SetMouseButtonCallback(nil)
		w.SetCursorPosCallback(nil)
		w.SetFocusCallback(nil)
		ctrls.ReleaseAll()
	}
}
