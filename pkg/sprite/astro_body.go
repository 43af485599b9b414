// Package sprite holds the game-specific nodes placed in the world's main group.
package sprite

import (
	"github.com/leterax/go-starfield/pkg/scene"
)

// BodyKind tells stars and planets apart
type BodyKind int

const (
	Star BodyKind = iota
	Planet
)

func (k BodyKind) String() string {
	switch k {
	case Star:
		return "star"
	case Planet:
		return "planet"
	default:
		return "unknown"
	}
}

// AstroBody is a star or a planet a player can spawn on, loot and complete quests on.
type AstroBody struct {
	*scene.Graphic
	kind  BodyKind
	size  float32
	orbit float32
}

// NewAstroBody wraps a drawable as an astro body of the given kind and size.
// orbit is the distance from the system centre the body was placed at.
func NewAstroBody(kind BodyKind, size, orbit float32, drawable *scene.Drawable) *AstroBody {
	return &AstroBody{
		Graphic: scene.NewGraphic(drawable),
		kind:    kind,
		size:    size,
		orbit:   orbit,
	}
}

// Kind returns whether the body is a star or a planet
func (a *AstroBody) Kind() BodyKind {
	return a.kind
}

// Size returns the radius of the body
func (a *AstroBody) Size() float32 {
	return a.size
}

// Orbit returns the distance from the system centre
func (a *AstroBody) Orbit() float32 {
	return a.orbit
}
