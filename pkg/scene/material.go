package scene

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Material describes how a drawable is shaded. Only flat colour is supported.
type Material struct {
	Color color.RGBA
}

// Vec4 returns the colour as normalized RGBA components
func (m Material) Vec4() mgl32.Vec4 {
	return mgl32.Vec4{
		float32(m.Color.R) / 255,
		float32(m.Color.G) / 255,
		float32(m.Color.B) / 255,
		float32(m.Color.A) / 255,
	}
}

// HexColor converts a 0xRRGGBB value to an opaque colour
func HexColor(hex uint32) color.RGBA {
	return color.RGBA{
		R: uint8(hex >> 16),
		G: uint8(hex >> 8),
		B: uint8(hex),
		A: 0xff,
	}
}

// ParseColor parses a CSS colour name ("yellow", "aqua") or a hex string
// ("#0f0", "#00ff00", "0x00ff00").
func ParseColor(s string) (color.RGBA, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return color.RGBA{}, fmt.Errorf("%w: empty string", ErrInvalidColor)
	}
	if c, ok := colornames.Map[name]; ok {
		return c, nil
	}

	hex := name
	switch {
	case strings.HasPrefix(hex, "0x"):
		hex = "#" + hex[2:]
	case !strings.HasPrefix(hex, "#"):
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}
