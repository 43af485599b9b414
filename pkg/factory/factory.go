// Package factory knows how to create almost any object of the game from a
// validated parameter bundle. Prefer adding a Create method here over
// constructing objects inside other objects: it keeps the domain types
// decoupled and easy to substitute in tests.
package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/leterax/go-starfield/pkg/controls"
	"github.com/leterax/go-starfield/pkg/render"
	"github.com/leterax/go-starfield/pkg/scene"
	"github.com/leterax/go-starfield/pkg/sprite"
)

// MaterialParams describes a flat-coloured material.
// Color is a CSS colour name or a hex string.
type MaterialParams struct {
	Color string
}

// HexMaterial returns material params for a 0xRRGGBB colour
func HexMaterial(hex uint32) MaterialParams {
	return MaterialParams{Color: fmt.Sprintf("#%06x", hex&0xffffff)}
}

// BoxParams describes a box mesh
type BoxParams struct {
	Material MaterialParams
	Geometry scene.BoxGeometry
}

// SphereParams describes a sphere mesh
type SphereParams struct {
	Material MaterialParams
	Geometry scene.SphereGeometry
}

// AstroBodyParams describes a star or planet
type AstroBodyParams struct {
	Kind   sprite.BodyKind
	Orbit  float32
	Sphere SphereParams
}

// CharacterParams describes a character. An empty name gets a random one.
type CharacterParams struct {
	Name string
	Box  BoxParams
}

// ControlsParams configures the fly-camera controls
type ControlsParams struct {
	Width       int
	Height      int
	FOV         float32
	Near        float32
	Far         float32
	Speed       float32
	Sensitivity float32
	// Bindings maps action names ("forward", "strafe-left", ...) to key codes.
	Bindings map[string]string
}

// ViewParams binds a backend to controls
type ViewParams struct {
	Backend  render.Backend
	Controls *controls.Controls
	Width    int
	Height   int
}

// Factory creates game objects
type Factory struct {
	log *zap.Logger
}

// New creates a factory
func New(log *zap.Logger) *Factory {
	if log == nil {
		log = zap.NewNop()
	}
	return &Factory{log: log}
}

// CreateControls creates the camera controls for a surface of the given size
func (f *Factory) CreateControls(p ControlsParams) (*controls.Controls, error) {
	if p.Width <= 0 || p.Height <= 0 {
		return nil, configErr("surface", fmt.Sprintf("size must be positive, got %dx%d", p.Width, p.Height), nil)
	}
	if p.FOV < 0 || p.FOV >= 180 {
		return nil, configErr("fov", fmt.Sprintf("must be in (0, 180) degrees, got %v", p.FOV), nil)
	}
	if p.Near < 0 || p.Far < 0 || (p.Near != 0 && p.Far != 0 && p.Near >= p.Far) {
		return nil, configErr("clip planes", fmt.Sprintf("need 0 < near < far, got near=%v far=%v", p.Near, p.Far), nil)
	}
	if p.Speed < 0 {
		return nil, configErr("speed", "must not be negative", nil)
	}
	if p.Sensitivity < 0 {
		return nil, configErr("sensitivity", "must not be negative", nil)
	}

	keys, err := controls.KeyMapFromBindings(p.Bindings)
	if err != nil {
		return nil, configErr("bindings", "cannot build key map", err)
	}

	return controls.New(controls.Options{
		Width:       p.Width,
		Height:      p.Height,
		FOV:         p.FOV,
		Near:        p.Near,
		Far:         p.Far,
		Speed:       p.Speed,
		Sensitivity: p.Sensitivity,
		KeyMap:      keys,
		Logger:      f.log.Named("controls"),
	}), nil
}

// CreateView creates a view rendering through backend with the camera of ctrls
func (f *Factory) CreateView(p ViewParams) (*render.View, error) {
	if p.Backend == nil {
		return nil, configErr("backend", "no output surface available", nil)
	}
	if p.Controls == nil {
		return nil, configErr("controls", "required", nil)
	}
	if p.Width <= 0 || p.Height <= 0 {
		return nil, configErr("surface", fmt.Sprintf("size must be positive, got %dx%d", p.Width, p.Height), nil)
	}
	return render.NewView(p.Backend, p.Controls, p.Width, p.Height, f.log.Named("view")), nil
}

// CreateBox creates a drawable box node
func (f *Factory) CreateBox(p BoxParams) (*scene.Graphic, error) {
	d, err := f.drawable(p.Geometry, p.Material)
	if err != nil {
		return nil, err
	}
	return scene.NewGraphic(d), nil
}

// CreateSphere creates a drawable sphere node
func (f *Factory) CreateSphere(p SphereParams) (*scene.Graphic, error) {
	d, err := f.drawable(p.Geometry, p.Material)
	if err != nil {
		return nil, err
	}
	return scene.NewGraphic(d), nil
}

// CreateAstroBody creates a star or planet whose size is the sphere radius
func (f *Factory) CreateAstroBody(p AstroBodyParams) (*sprite.AstroBody, error) {
	if p.Orbit < 0 {
		return nil, configErr("orbit", "must not be negative", nil)
	}
	d, err := f.drawable(p.Sphere.Geometry, p.Sphere.Material)
	if err != nil {
		return nil, err
	}
	return sprite.NewAstroBody(p.Kind, p.Sphere.Geometry.Radius, p.Orbit, d), nil
}

// CreateCharacter creates a box-shaped character
func (f *Factory) CreateCharacter(p CharacterParams) (*sprite.Character, error) {
	d, err := f.drawable(p.Box.Geometry, p.Box.Material)
	if err != nil {
		return nil, err
	}
	return sprite.NewCharacter(p.Name, d), nil
}

// CreateVehicle creates a box-shaped vehicle
func (f *Factory) CreateVehicle(p BoxParams) (*sprite.Vehicle, error) {
	d, err := f.drawable(p.Geometry, p.Material)
	if err != nil {
		return nil, err
	}
	return sprite.NewVehicle(d), nil
}

// CreateGroup creates an empty group
func (f *Factory) CreateGroup() *scene.Group {
	return scene.NewGroup()
}

// CreateWorld creates a world with fresh main and HUD groups
func (f *Factory) CreateWorld() (*scene.World, error) {
	w, err := scene.NewWorld(f.CreateGroup(), f.CreateGroup())
	if err != nil {
		return nil, fmt.Errorf("failed to create world: %w", err)
	}
	return w, nil
}

func (f *Factory) drawable(g scene.Geometry, m MaterialParams) (*scene.Drawable, error) {
	if err := g.Validate(); err != nil {
		return nil, configErr("geometry", g.Kind(), err)
	}
	c, err := scene.ParseColor(m.Color)
	if err != nil {
		return nil, configErr("material", "bad color", err)
	}
	return &scene.Drawable{
		Geometry: g,
		Material: scene.Material{Color: c},
	}, nil
}
