// Package scene provides the scene graph rendered by the game: drawable
// nodes, append-only groups and the two-group world root.
package scene

import (
	"github.com/google/uuid"
)

// Node is a unit of the render tree. Any type embedding *Graphic is a Node.
type Node interface {
	// ID returns the identity of the node.
	ID() uuid.UUID
	// Drawable returns the geometry and material of the node, if any.
	Drawable() (*Drawable, bool)
	// Transform returns the local transform of the node.
	Transform() *Transform
	// Parent returns the group owning the node, or nil for detached nodes and roots.
	Parent() *Group

	graphic() *Graphic
}

// Container is a node with children.
type Container interface {
	Node
	Children() []Node
}

// Drawable is the payload of a leaf node.
type Drawable struct {
	Geometry Geometry
	Material Material
}

// Graphic is the smallest building block of the scene graph.
// Embed it to make a type addable to a Group.
type Graphic struct {
	id        uuid.UUID
	drawable  *Drawable
	transform Transform
	parent    *Group
}

// NewGraphic creates a node carrying the given drawable. A nil drawable
// makes a pure container.
func NewGraphic(drawable *Drawable) *Graphic {
	g := &Graphic{}
	g.init(drawable)
	return g
}

func (g *Graphic) init(drawable *Drawable) {
	g.id = uuid.New()
	g.drawable = drawable
	g.transform = NewTransform()
}

// ID returns the identity of the node
func (g *Graphic) ID() uuid.UUID {
	return g.id
}

// Drawable returns the drawable payload and whether the node has one
func (g *Graphic) Drawable() (*Drawable, bool) {
	return g.drawable, g.drawable != nil
}

// Transform returns the local transform
func (g *Graphic) Transform() *Transform {
	return &g.transform
}

// Parent returns the owning group
func (g *Graphic) Parent() *Group {
	return g.parent
}

func (g *Graphic) graphic() *Graphic {
	return g
}
