package controls

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a perspective camera with a world-space position and rotation
type Camera struct {
	position mgl32.Vec3
	rotation mgl32.Quat

	// Projection
	fov        float32 // degrees
	aspect     float32
	near       float32
	far        float32
	projection mgl32.Mat4
}

// NewCamera creates a camera at the origin looking along negative Z
func NewCamera(fov, aspect, near, far float32) *Camera {
	c := &Camera{
		rotation: mgl32.QuatIdent(),
		fov:      fov,
		aspect:   aspect,
		near:     near,
		far:      far,
	}
	c.updateProjectionMatrix()
	return c
}

// updateProjectionMatrix recalculates the projection matrix
func (c *Camera) updateProjectionMatrix() {
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.fov), c.aspect, c.near, c.far)
}

// SetAspect updates the aspect ratio and recomputes the projection
func (c *Camera) SetAspect(aspect float32) {
	c.aspect = aspect
	c.updateProjectionMatrix()
}

// Aspect returns the current aspect ratio
func (c *Camera) Aspect() float32 {
	return c.aspect
}

// FOV returns the vertical field of view in degrees
func (c *Camera) FOV() float32 {
	return c.fov
}

// ProjectionMatrix returns the current projection matrix
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return c.projection
}

// ViewMatrix returns the current view matrix
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.position, c.position.Add(c.Front()), c.Up())
}

// Position returns the current camera position
func (c *Camera) Position() mgl32.Vec3 {
	return c.position
}

// SetPosition sets the camera position
func (c *Camera) SetPosition(pos mgl32.Vec3) {
	c.position = pos
}

// Rotation returns the camera rotation
func (c *Camera) Rotation() mgl32.Quat {
	return c.rotation
}

// SetOrientation sets the rotation from pitch (around X) and yaw (around Y),
// applied in YXZ order so the horizon stays level.
func (c *Camera) SetOrientation(pitch, yaw float32) {
	c.rotation = mgl32.QuatRotate(yaw, mgl32.Vec3{0, 1, 0}).
		Mul(mgl32.QuatRotate(pitch, mgl32.Vec3{1, 0, 0})).
		Normalize()
}

// LookAt turns the camera towards target and returns the resulting pitch and yaw
func (c *Camera) LookAt(target mgl32.Vec3) (pitch, yaw float32) {
	dir := target.Sub(c.position)
	if dir.Len() == 0 {
		return 0, 0
	}
	dir = dir.Normalize()

	pitch = float32(math.Asin(float64(mgl32.Clamp(dir.Y(), -1, 1))))
	yaw = float32(math.Atan2(float64(-dir.X()), float64(-dir.Z())))
	c.SetOrientation(pitch, yaw)
	return pitch, yaw
}

// TranslateX moves the camera along its own X (right) axis
func (c *Camera) TranslateX(distance float32) {
	c.translateOnAxis(mgl32.Vec3{1, 0, 0}, distance)
}

// TranslateY moves the camera along its own Y (up) axis
func (c *Camera) TranslateY(distance float32) {
	c.translateOnAxis(mgl32.Vec3{0, 1, 0}, distance)
}

// TranslateZ moves the camera along its own Z (back) axis
func (c *Camera) TranslateZ(distance float32) {
	c.translateOnAxis(mgl32.Vec3{0, 0, 1}, distance)
}

func (c *Camera) translateOnAxis(axis mgl32.Vec3, distance float32) {
	c.position = c.position.Add(c.rotation.Rotate(axis).Mul(distance))
}

// Front returns the camera's front direction vector
func (c *Camera) Front() mgl32.Vec3 {
	return c.rotation.Rotate(mgl32.Vec3{0, 0, -1})
}

// Right returns the camera's right direction vector
func (c *Camera) Right() mgl32.Vec3 {
	return c.rotation.Rotate(mgl32.Vec3{1, 0, 0})
}

// Up returns the camera's up direction vector
func (c *Camera) Up() mgl32.Vec3 {
	return c.rotation.Rotate(mgl32.Vec3{0, 1, 0})
}
