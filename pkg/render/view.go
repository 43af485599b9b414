// Package render draws the scene graph through a pluggable backend and keeps
// the output surface size and the camera aspect ratio in step.
package render

import (
	"go.uber.org/zap"

	"github.com/leterax/go-starfield/pkg/controls"
	"github.com/leterax/go-starfield/pkg/scene"
)

// Backend is a GPU-backed renderer bound to an output surface.
type Backend interface {
	// Render issues a full redraw of root as seen by camera.
	Render(root scene.Node, camera *controls.Camera)
	// SetSize resizes the output surface to width x height pixels.
	SetSize(width, height int)
	// Close releases the GPU resources held by the backend.
	Close() error
}

// View renders scenes to a backend using the camera of its controls
type View struct {
	backend  Backend
	controls *controls.Controls
	log      *zap.Logger

	width  int
	height int
	frames uint64
	closed bool
}

// NewView creates a view for a surface currently sized width x height
func NewView(backend Backend, ctrls *controls.Controls, width, height int, log *zap.Logger) *View {
	if log == nil {
		log = zap.NewNop()
	}
	return &View{
		backend:  backend,
		controls: ctrls,
		log:      log,
		width:    width,
		height:   height,
	}
}

// Render redraws root with the controls' camera
func (v *View) Render(root scene.Node) {
	if v.closed {
		return
	}
	v.backend.Render(root, v.controls.Camera())
	v.frames++
}

// Resize resizes the output surface and updates the camera aspect ratio.
// It does nothing and returns false when the size is unchanged.
func (v *View) Resize(width, height int) bool {
	if width == v.width && height == v.height {
		return false
	}

	v.log.Debug("resizing view",
		zap.Int("from_width", v.width), zap.Int("from_height", v.height),
		zap.Int("width", width), zap.Int("height", height))

	v.width, v.height = width, height
	v.backend.SetSize(width, height)
	v.controls.OnSurfaceResize(width, height)
	return true
}

// Size returns the current output size in pixels
func (v *View) Size() (width, height int) {
	return v.width, v.height
}

// Frames returns the number of redraws issued so far
func (v *View) Frames() uint64 {
	return v.frames
}

// Close releases the backend. Further renders are ignored.
func (v *View) Close() error {
	if v.closed {
		return nil
	}
	v.closed = true
	return v.backend.Close()
}
