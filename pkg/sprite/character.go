package sprite

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/leterax/go-starfield/pkg/scene"
)

// Character is a named actor in the world
type Character struct {
	*scene.Graphic
	name string
}

// NewCharacter creates a character. An empty name is replaced by a random UUID.
func NewCharacter(name string, drawable *scene.Drawable) *Character {
	if name == "" {
		name = uuid.NewString()
	}
	return &Character{
		Graphic: scene.NewGraphic(drawable),
		name:    name,
	}
}

// Name returns the character name
func (c *Character) Name() string {
	return c.name
}

// MoveTo places the character at the given position
func (c *Character) MoveTo(position mgl32.Vec3) {
	moveTo(c.Graphic, position)
}

// RotateIn rotates the character by the given angles (radians) around its local X, Y and Z axes
func (c *Character) RotateIn(rotation mgl32.Vec3) {
	rotateIn(c.Graphic, rotation)
}

// Vehicle is a movable object a character can use
type Vehicle struct {
	*scene.Graphic
}

// NewVehicle creates a vehicle
func NewVehicle(drawable *scene.Drawable) *Vehicle {
	return &Vehicle{Graphic: scene.NewGraphic(drawable)}
}

// MoveTo places the vehicle at the given position
func (v *Vehicle) MoveTo(position mgl32.Vec3) {
	moveTo(v.Graphic, position)
}

// RotateIn rotates the vehicle by the given angles (radians) around its local X, Y and Z axes
func (v *Vehicle) RotateIn(rotation mgl32.Vec3) {
	rotateIn(v.Graphic, rotation)
}

func moveTo(g *scene.Graphic, p mgl32.Vec3) {
	g.Transform().SetPosition(p.X(), p.Y(), p.Z())
}

// zero angles are skipped
func rotateIn(g *scene.Graphic, r mgl32.Vec3) {
	t := g.Transform()
	t.RotateX(r.X())
	t.RotateY(r.Y())
	t.RotateZ(r.Z())
}
