package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is the local placement of a node relative to its parent
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

// NewTransform returns the identity transform
func NewTransform() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// SetPosition sets the local position
func (t *Transform) SetPosition(x, y, z float32) {
	t.Position = mgl32.Vec3{x, y, z}
}

// Translate moves the node by the given offset in parent space
func (t *Transform) Translate(offset mgl32.Vec3) {
	t.Position = t.Position.Add(offset)
}

// RotateX rotates the node around its local X axis
func (t *Transform) RotateX(angle float32) {
	t.rotateOnAxis(mgl32.Vec3{1, 0, 0}, angle)
}

// RotateY rotates the node around its local Y axis
func (t *Transform) RotateY(angle float32) {
	t.rotateOnAxis(mgl32.Vec3{0, 1, 0}, angle)
}

// RotateZ rotates the node around its local Z axis
func (t *Transform) RotateZ(angle float32) {
	t.rotateOnAxis(mgl32.Vec3{0, 0, 1}, angle)
}

func (t *Transform) rotateOnAxis(axis mgl32.Vec3, angle float32) {
	if angle == 0 {
		return
	}
	t.Rotation = t.Rotation.Mul(mgl32.QuatRotate(angle, axis)).Normalize()
}

// SetScale sets the local scale
func (t *Transform) SetScale(x, y, z float32) {
	t.Scale = mgl32.Vec3{x, y, z}
}

// Matrix returns the local model matrix (translate * rotate * scale)
func (t *Transform) Matrix() mgl32.Mat4 {
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	return translate.Mul4(t.Rotation.Mat4()).Mul4(scale)
}
