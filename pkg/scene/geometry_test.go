package scene

import (
	"image/color"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxGeometry(t *testing.T) {
	b := BoxGeometry{Width: 2, Height: 4, Depth: 6}
	require.NoError(t, b.Validate())

	m := b.Build()
	require.Equal(t, 24, m.VertexCount())
	require.Len(t, m.Indices, 36)

	for i := 0; i < m.VertexCount(); i++ {
		v := m.Vertices[i*FloatsPerVertex:]
		assert.InDelta(t, 1, math.Abs(float64(v[0])), 1e-6)
		assert.InDelta(t, 2, math.Abs(float64(v[1])), 1e-6)
		assert.InDelta(t, 3, math.Abs(float64(v[2])), 1e-6)
	}

	// every triangle faces the way its normal points
	for i := 0; i < len(m.Indices); i += 3 {
		p := func(idx uint32) mgl32.Vec3 {
			o := idx * FloatsPerVertex
			return mgl32.Vec3{m.Vertices[o], m.Vertices[o+1], m.Vertices[o+2]}
		}
		a, b, c := p(m.Indices[i]), p(m.Indices[i+1]), p(m.Indices[i+2])
		o := m.Indices[i] * FloatsPerVertex
		normal := mgl32.Vec3{m.Vertices[o+3], m.Vertices[o+4], m.Vertices[o+5]}
		assert.Greater(t, b.Sub(a).Cross(c.Sub(a)).Dot(normal), float32(0), "triangle %d", i/3)
	}
}

func TestSphereGeometry(t *testing.T) {
	s := SphereGeometry{Radius: 3, WidthSegments: 8, HeightSegments: 4}
	require.NoError(t, s.Validate())

	m := s.Build()
	require.Equal(t, 9*5, m.VertexCount())
	require.Len(t, m.Indices, 8*(2*4-2)*3)

	for i := 0; i < m.VertexCount(); i++ {
		v := m.Vertices[i*FloatsPerVertex:]
		pos := mgl32.Vec3{v[0], v[1], v[2]}
		assert.InDelta(t, 3, pos.Len(), 1e-4)
	}
	for _, idx := range m.Indices {
		assert.Less(t, int(idx), m.VertexCount())
	}
}

func TestGeometry_Validate(t *testing.T) {
	tests := []struct {
		name string
		geom Geometry
	}{
		{name: "Zero Box Width", geom: BoxGeometry{Height: 1, Depth: 1}},
		{name: "Negative Box Depth", geom: BoxGeometry{Width: 1, Height: 1, Depth: -1}},
		{name: "Zero Radius", geom: SphereGeometry{WidthSegments: 8, HeightSegments: 4}},
		{name: "Too Few Segments", geom: SphereGeometry{Radius: 1, WidthSegments: 2, HeightSegments: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.geom.Validate(), ErrInvalidGeometry)
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
		err  bool
	}{
		{in: "yellow", want: color.RGBA{0xff, 0xff, 0x00, 0xff}},
		{in: "Aqua", want: color.RGBA{0x00, 0xff, 0xff, 0xff}},
		{in: "#00ff00", want: color.RGBA{0x00, 0xff, 0x00, 0xff}},
		{in: "0x00ff00", want: color.RGBA{0x00, 0xff, 0x00, 0xff}},
		{in: "ff8000", want: color.RGBA{0xff, 0x80, 0x00, 0xff}},
		{in: "", err: true},
		{in: "not-a-colour", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.err {
				require.ErrorIs(t, err, ErrInvalidColor)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, color.RGBA{0x00, 0xff, 0x00, 0xff}, HexColor(0x00ff00))
	assert.Equal(t, mgl32.Vec4{0, 1, 0, 1}, Material{Color: HexColor(0x00ff00)}.Vec4())
}
