// Package controls turns user input into camera movement: W/A/S/D +
// Space/Shift fly controls and pointer-lock mouse look.
package controls

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Observer is notified whenever the controls change the camera.
// Observers are compared by identity, so implementations should be pointers.
type Observer interface {
	ControlsChanged()
}

// Options configures a Controls instance
type Options struct {
	Width       int
	Height      int
	FOV         float32
	Near        float32
	Far         float32
	Speed       float32
	Sensitivity float32
	KeyMap      KeyMap
	Logger      *zap.Logger
}

// Controls perceives the user's actions and moves the camera accordingly.
// It is not safe for concurrent use; all methods run on the main thread.
type Controls struct {
	camera *Camera
	log    *zap.Logger

	// Orientation
	pitch float32
	yaw   float32

	// Velocity is derived from the held keys; each component is -1, 0 or +1.
	velocity mgl32.Vec3
	held     [3][]string // per axis, most recently pressed last

	speed       float32
	sensitivity float32
	keys        KeyMap
	observers   []Observer
}

// New creates controls owning a perspective camera sized for a width x height surface.
func New(opts Options) *Controls {
	if opts.FOV == 0 {
		opts.FOV = DefaultFOV
	}
	if opts.Near == 0 {
		opts.Near = DefaultNear
	}
	if opts.Far == 0 {
		opts.Far = DefaultFar
	}
	if opts.Speed == 0 {
		opts.Speed = DefaultSpeed
	}
	if opts.Sensitivity == 0 {
		opts.Sensitivity = DefaultSensitivity
	}
	if opts.KeyMap == nil {
		opts.KeyMap = DefaultKeyMap()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	aspect := float32(1)
	if opts.Width > 0 && opts.Height > 0 {
		aspect = float32(opts.Width) / float32(opts.Height)
	}

	return &Controls{
		camera:      NewCamera(opts.FOV, aspect, opts.Near, opts.Far),
		log:         opts.Logger,
		speed:       opts.Speed,
		sensitivity: opts.Sensitivity,
		keys:        opts.KeyMap,
	}
}

// Camera returns the controlled camera
func (c *Controls) Camera() *Camera {
	return c.camera
}

// Orientation returns the current pitch and yaw in radians
func (c *Controls) Orientation() (pitch, yaw float32) {
	return c.pitch, c.yaw
}

// SetOrientation sets pitch and yaw, clamping pitch, without notifying observers
func (c *Controls) SetOrientation(pitch, yaw float32) {
	c.pitch = mgl32.Clamp(pitch, MinPitch, MaxPitch)
	c.yaw = yaw
	c.camera.SetOrientation(c.pitch, c.yaw)
}

// LookAt turns the camera towards target, keeping the orientation state in sync
func (c *Controls) LookAt(target mgl32.Vec3) {
	pitch, yaw := c.camera.LookAt(target)
	c.SetOrientation(pitch, yaw)
}

// Velocity returns the current movement intent
func (c *Controls) Velocity() mgl32.Vec3 {
	return c.velocity
}

// Speed returns the movement speed in world units per second
func (c *Controls) Speed() float32 {
	return c.speed
}

// Translate moves the camera along its own axes by the given signed distances.
// Zero components are skipped. Observers are notified if the camera moved.
func (c *Controls) Translate(d mgl32.Vec3) bool {
	moved := false
	if d.X() != 0 {
		c.camera.TranslateX(d.X())
		moved = true
	}
	if d.Y() != 0 {
		c.camera.TranslateY(d.Y())
		moved = true
	}
	if d.Z() != 0 {
		c.camera.TranslateZ(d.Z())
		moved = true
	}
	if moved {
		c.notify()
	}
	return moved
}

// Tick applies the velocity for a frame that lasted dt
func (c *Controls) Tick(dt time.Duration) bool {
	if dt <= 0 {
		return false
	}
	return c.Translate(c.velocity.Mul(c.speed * float32(dt.Seconds())))
}

// OnKeyDown handles a key press. It returns false for unbound keys.
func (c *Controls) OnKeyDown(code string) bool {
	action, ok := c.keys[code]
	if !ok {
		return false
	}

	held := c.held[action.Axis]
	for _, k := range held {
		if k == code {
			// auto-repeat
			return true
		}
	}
	c.held[action.Axis] = append(held, code)
	c.updateAxis(action.Axis)
	c.notify()
	return true
}

// OnKeyUp handles a key release. It returns false for unbound keys.
//
// Velocity on the key's axis is re-derived from the keys still held, so
// releasing one of two opposing keys leaves the other one in effect.
func (c *Controls) OnKeyUp(code string) bool {
	action, ok := c.keys[code]
	if !ok {
		return false
	}

	held := c.held[action.Axis]
	for i, k := range held {
		if k == code {
			c.held[action.Axis] = append(held[:i], held[i+1:]...)
			c.updateAxis(action.Axis)
			c.notify()
			break
		}
	}
	return true
}

// ReleaseAll forgets every held key, e.g. when the window loses focus
func (c *Controls) ReleaseAll() {
	for axis := range c.held {
		c.held[axis] = nil
	}
	if c.velocity != (mgl32.Vec3{}) {
		c.velocity = mgl32.Vec3{}
		c.notify()
	}
}

func (c *Controls) updateAxis(axis Axis) {
	held := c.held[axis]
	if len(held) == 0 {
		c.velocity[axis] = 0
		return
	}
	c.velocity[axis] = c.keys[held[len(held)-1]].Sign
}

// OnPointerMove updates the orientation from pointer-lock movement deltas
func (c *Controls) OnPointerMove(dx, dy float64) bool {
	if dx == 0 && dy == 0 {
		return false
	}

	scale := SensitivityScale / float64(c.sensitivity)
	pitch := c.pitch - float32(dy/scale)
	yaw := c.yaw - float32(dx/scale)
	c.SetOrientation(pitch, yaw)

	c.notify()
	return true
}

// OnSurfaceResize updates the camera aspect ratio for a width x height surface
func (c *Controls) OnSurfaceResize(width, height int) {
	if width <= 0 || height <= 0 {
		c.log.Debug("ignoring degenerate surface size", zap.Int("width", width), zap.Int("height", height))
		return
	}
	c.camera.SetAspect(float32(width) / float32(height))
}

// AddObserver registers o. Adding the same observer twice has no effect.
func (c *Controls) AddObserver(o Observer) {
	if o == nil {
		return
	}
	for _, existing := range c.observers {
		if existing == o {
			return
		}
	}
	c.observers = append(c.observers, o)
}

// RemoveObserver unregisters o. Removing an unknown observer is a no-op.
func (c *Controls) RemoveObserver(o Observer) {
	for i, existing := range c.observers {
		if existing == o {
			c.observers = append(c.observers[:i], c.observers[i+1:]...)
			return
		}
	}
}

func (c *Controls) notify() {
	// copy so observers may unregister themselves
	observers := append([]Observer(nil), c.observers...)
	for _, o := range observers {
		o.ControlsChanged()
	}
}

// Close drops all observers and held keys
func (c *Controls) Close() {
	c.observers = nil
	for axis := range c.held {
		c.held[axis] = nil
	}
	c.velocity = mgl32.Vec3{}
}
