package factory

import (
	"errors"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/leterax/go-starfield/pkg/controls"
	"github.com/leterax/go-starfield/pkg/scene"
	"github.com/leterax/go-starfield/pkg/sprite"
)

type nopBackend struct{}

func (nopBackend) Render(scene.Node, *controls.Camera) {}
func (nopBackend) SetSize(int, int)                    {}
func (nopBackend) Close() error                        { return nil }

func unitBox() BoxParams {
	return BoxParams{
		Material: HexMaterial(0x00ff00),
		Geometry: scene.BoxGeometry{Width: 1, Height: 1, Depth: 1},
	}
}

func requireConfigErr(t *testing.T, err error, param string) {
	t.Helper()
	require.ErrorIs(t, err, ErrConfiguration)
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, param, cfgErr.Param)
}

func TestFactory_CreateBox(t *testing.T) {
	f := New(zaptest.NewLogger(t))

	box, err := f.CreateBox(unitBox())
	require.NoError(t, err)
	d, ok := box.Drawable()
	require.True(t, ok)
	assert.Equal(t, "box", d.Geometry.Kind())
	assert.Equal(t, color.RGBA{0, 0xff, 0, 0xff}, d.Material.Color)

	t.Run("Zero Size", func(t *testing.T) {
		p := unitBox()
		p.Geometry.Depth = 0
		_, err := f.CreateBox(p)
		requireConfigErr(t, err, "geometry")
		require.ErrorIs(t, err, scene.ErrInvalidGeometry)
	})

	t.Run("Bad Colour", func(t *testing.T) {
		p := unitBox()
		p.Material.Color = "sparkly"
		_, err := f.CreateBox(p)
		requireConfigErr(t, err, "material")
	})

	t.Run("Missing Colour", func(t *testing.T) {
		p := unitBox()
		p.Material = MaterialParams{}
		_, err := f.CreateBox(p)
		requireConfigErr(t, err, "material")
	})
}

func TestFactory_CreateAstroBody(t *testing.T) {
	f := New(nil)

	body, err := f.CreateAstroBody(AstroBodyParams{
		Kind:  sprite.Planet,
		Orbit: 42,
		Sphere: SphereParams{
			Material: MaterialParams{Color: "aqua"},
			Geometry: scene.SphereGeometry{Radius: 3, WidthSegments: 64, HeightSegments: 32},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, sprite.Planet, body.Kind())
	assert.Equal(t, float32(3), body.Size())
	assert.Equal(t, float32(42), body.Orbit())

	_, err = f.CreateAstroBody(AstroBodyParams{Kind: sprite.Star, Sphere: SphereParams{Material: MaterialParams{Color: "yellow"}}})
	requireConfigErr(t, err, "geometry")
}

func TestFactory_CreateSprites(t *testing.T) {
	f := New(nil)

	c, err := f.CreateCharacter(CharacterParams{Name: "scout", Box: unitBox()})
	require.NoError(t, err)
	assert.Equal(t, "scout", c.Name())

	v, err := f.CreateVehicle(unitBox())
	require.NoError(t, err)
	_, ok := v.Drawable()
	assert.True(t, ok)
}

func TestFactory_CreateWorld(t *testing.T) {
	f := New(nil)
	w, err := f.CreateWorld()
	require.NoError(t, err)
	assert.Len(t, w.Children(), 2)
	assert.Equal(t, 0, w.Main().Len())
	assert.Equal(t, 0, w.HUD().Len())
}

func TestFactory_CreateControls(t *testing.T) {
	f := New(zaptest.NewLogger(t))

	c, err := f.CreateControls(ControlsParams{Width: 640, Height: 480, Bindings: map[string]string{"ascend": "KeyE"}})
	require.NoError(t, err)
	assert.True(t, c.OnKeyDown("KeyE"))
	assert.False(t, c.OnKeyDown(controls.KeySpace))

	tests := []struct {
		name   string
		params ControlsParams
		param  string
	}{
		{name: "No Surface", params: ControlsParams{}, param: "surface"},
		{name: "Bad FOV", params: ControlsParams{Width: 1, Height: 1, FOV: 200}, param: "fov"},
		{name: "Near Beyond Far", params: ControlsParams{Width: 1, Height: 1, Near: 10, Far: 1}, param: "clip planes"},
		{name: "Negative Speed", params: ControlsParams{Width: 1, Height: 1, Speed: -1}, param: "speed"},
		{name: "Unknown Action", params: ControlsParams{Width: 1, Height: 1, Bindings: map[string]string{"fly": "KeyF"}}, param: "bindings"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.CreateControls(tt.params)
			requireConfigErr(t, err, tt.param)
		})
	}
}

func TestFactory_CreateView(t *testing.T) {
	f := New(nil)
	ctrls, err := f.CreateControls(ControlsParams{Width: 640, Height: 480})
	require.NoError(t, err)

	v, err := f.CreateView(ViewParams{Backend: nopBackend{}, Controls: ctrls, Width: 640, Height: 480})
	require.NoError(t, err)
	w, h := v.Size()
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)

	_, err = f.CreateView(ViewParams{Controls: ctrls, Width: 640, Height: 480})
	requireConfigErr(t, err, "backend")

	_, err = f.CreateView(ViewParams{Backend: nopBackend{}, Width: 640, Height: 480})
	requireConfigErr(t, err, "controls")
}

func TestConfigurationError(t *testing.T) {
	err := configErr("surface", "missing", scene.ErrNilNode)
	assert.Equal(t, "invalid surface: missing: scene: nil node", err.Error())
	assert.ErrorIs(t, err, scene.ErrNilNode)
	assert.ErrorIs(t, err, ErrConfiguration)
}
