package game

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/go-starfield/pkg/factory"
	"github.com/leterax/go-starfield/pkg/scene"
	"github.com/leterax/go-starfield/pkg/sprite"
)

// Planetary system constants
const (
	minStarSize      = 5
	starSizeSpread   = 5
	planetSizeLimit  = 4
	sphereWidthSegs  = 64
	sphereHeightSegs = 32
	starColor        = "yellow"
	planetColor      = "aqua"
)

// PlanetarySystem is a star with planets scattered around it
type PlanetarySystem struct {
	Center  mgl32.Vec3
	Star    *sprite.AstroBody
	Planets []*sprite.AstroBody
}

// Bodies returns the star followed by the planets
func (p *PlanetarySystem) Bodies() []*sprite.AstroBody {
	return append([]*sprite.AstroBody{p.Star}, p.Planets...)
}

// GeneratePlanetarySystem adds a star at center and the given number of
// planets around it to group.
//
// Planet i (1-based) sits at distance i * (spacing + starSize + planetSize)
// from the centre, where spacing is random. Its vertical offset is a random
// fraction of that distance in [-1, 1) and the horizontal offset is solved
// from the circle equation with a random sign, so bodies land in an
// expanding band around the star rather than on exact orbits.
func GeneratePlanetarySystem(f *factory.Factory, group *scene.Group, rng *rand.Rand, center mgl32.Vec3, planets int) (*PlanetarySystem, error) {
	if planets < 0 {
		return nil, &factory.ConfigurationError{Param: "planets", Reason: fmt.Sprintf("must not be negative, got %d", planets)}
	}
	if group == nil {
		return nil, &factory.ConfigurationError{Param: "group", Reason: "required"}
	}

	starSize := minStarSize + 1 + rng.Intn(starSizeSpread)
	star, err := f.CreateAstroBody(factory.AstroBodyParams{
		Kind: sprite.Star,
		Sphere: factory.SphereParams{
			Material: factory.MaterialParams{Color: starColor},
			Geometry: scene.SphereGeometry{Radius: float32(starSize), WidthSegments: sphereWidthSegs, HeightSegments: sphereHeightSegs},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create star: %w", err)
	}
	star.Transform().Position = center
	if err := group.Add(star); err != nil {
		return nil, fmt.Errorf("failed to add star: %w", err)
	}

	system := &PlanetarySystem{
		Center:  center,
		Star:    star,
		Planets: make([]*sprite.AstroBody, 0, planets),
	}

	// room for two of the largest planets between neighbours
	const betweenMin = planetSizeLimit * 2 * 2

	for i := 1; i <= planets; i++ {
		planetSize := 1 + rng.Intn(planetSizeLimit)
		spacing := betweenMin + 1 + rng.Intn(betweenMin)
		distance := float64(i * (spacing + starSize + planetSize))

		y := distance * (rng.Float64()*2 - 1)
		x := math.Sqrt(distance*distance - y*y)
		if rng.Intn(2) == 1 {
			x = -x
		}

		planet, err := f.CreateAstroBody(factory.AstroBodyParams{
			Kind:  sprite.Planet,
			Orbit: float32(distance),
			Sphere: factory.SphereParams{
				Material: factory.MaterialParams{Color: planetColor},
				Geometry: scene.SphereGeometry{Radius: float32(planetSize), WidthSegments: sphereWidthSegs, HeightSegments: sphereHeightSegs},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create planet %d: %w", i, err)
		}
		planet.Transform().Position = center.Add(mgl32.Vec3{float32(x), float32(y), 0})
		if err := group.Add(planet); err != nil {
			return nil, fmt.Errorf("failed to add planet %d: %w", i, err)
		}
		system.Planets = append(system.Planets, planet)
	}

	return system, nil
}
