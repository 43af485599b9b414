package scene

import (
	"fmt"
	"math"
)

// FloatsPerVertex is the stride of MeshData.Vertices: position (3) + normal (3).
const FloatsPerVertex = 6

// MeshData holds interleaved vertex data and triangle indices ready for upload.
type MeshData struct {
	Vertices []float32
	Indices  []uint32
}

// VertexCount returns the number of vertices in the mesh
func (m MeshData) VertexCount() int {
	return len(m.Vertices) / FloatsPerVertex
}

// Geometry describes a shape that can be turned into mesh data.
type Geometry interface {
	// Kind names the shape, e.g. "box" or "sphere".
	Kind() string
	// Validate reports whether the geometry parameters describe a real shape.
	Validate() error
	// Build generates the mesh data.
	Build() MeshData
}

// BoxGeometry is an axis-aligned box centred on the origin.
type BoxGeometry struct {
	Width  float32
	Height float32
	Depth  float32
}

// Kind returns "box"
func (b BoxGeometry) Kind() string { return "box" }

// Validate checks all dimensions are positive
func (b BoxGeometry) Validate() error {
	if b.Width <= 0 || b.Height <= 0 || b.Depth <= 0 {
		return fmt.Errorf("%w: box dimensions must be positive, got %vx%vx%v", ErrInvalidGeometry, b.Width, b.Height, b.Depth)
	}
	return nil
}

// Build generates 24 vertices (4 per face, so each face keeps its own normal) and 36 indices.
func (b BoxGeometry) Build() MeshData {
	hw, hh, hd := b.Width/2, b.Height/2, b.Depth/2

	// x, y, z, nx, ny, nz
	vertices := []float32{
		// Front face
		-hw, -hh, hd, 0, 0, 1,
		hw, -hh, hd, 0, 0, 1,
		hw, hh, hd, 0, 0, 1,
		-hw, hh, hd, 0, 0, 1,

		// Back face
		hw, -hh, -hd, 0, 0, -1,
		-hw, -hh, -hd, 0, 0, -1,
		-hw, hh, -hd, 0, 0, -1,
		hw, hh, -hd, 0, 0, -1,

		// Top face
		-hw, hh, hd, 0, 1, 0,
		hw, hh, hd, 0, 1, 0,
		hw, hh, -hd, 0, 1, 0,
		-hw, hh, -hd, 0, 1, 0,

		// Bottom face
		-hw, -hh, -hd, 0, -1, 0,
		hw, -hh, -hd, 0, -1, 0,
		hw, -hh, hd, 0, -1, 0,
		-hw, -hh, hd, 0, -1, 0,

		// Right face
		hw, -hh, hd, 1, 0, 0,
		hw, -hh, -hd, 1, 0, 0,
		hw, hh, -hd, 1, 0, 0,
		hw, hh, hd, 1, 0, 0,

		// Left face
		-hw, -hh, -hd, -1, 0, 0,
		-hw, -hh, hd, -1, 0, 0,
		-hw, hh, hd, -1, 0, 0,
		-hw, hh, -hd, -1, 0, 0,
	}

	indices := make([]uint32, 0, 36)
	for face := uint32(0); face < 6; face++ {
		base := face * 4
		indices = append(indices,
			base, base+1, base+2,
			base+2, base+3, base,
		)
	}

	return MeshData{Vertices: vertices, Indices: indices}
}

// SphereGeometry is a UV sphere centred on the origin.
type SphereGeometry struct {
	Radius         float32
	WidthSegments  int
	HeightSegments int
}

// Kind returns "sphere"
func (s SphereGeometry) Kind() string { return "sphere" }

// Validate checks the radius is positive and there are enough segments to close the surface
func (s SphereGeometry) Validate() error {
	if s.Radius <= 0 {
		return fmt.Errorf("%w: sphere radius must be positive, got %v", ErrInvalidGeometry, s.Radius)
	}
	if s.WidthSegments < 3 || s.HeightSegments < 2 {
		return fmt.Errorf("%w: sphere needs at least 3x2 segments, got %dx%d", ErrInvalidGeometry, s.WidthSegments, s.HeightSegments)
	}
	return nil
}

// Build generates (w+1)*(h+1) vertices. The poles produce one triangle per
// segment instead of two.
func (s SphereGeometry) Build() MeshData {
	ws, hs := s.WidthSegments, s.HeightSegments
	r := float64(s.Radius)

	vertices := make([]float32, 0, (ws+1)*(hs+1)*FloatsPerVertex)
	for iy := 0; iy <= hs; iy++ {
		v := float64(iy) / float64(hs)
		for ix := 0; ix <= ws; ix++ {
			u := float64(ix) / float64(ws)

			nx := -math.Cos(u*2*math.Pi) * math.Sin(v*math.Pi)
			ny := math.Cos(v * math.Pi)
			nz := math.Sin(u*2*math.Pi) * math.Sin(v*math.Pi)

			vertices = append(vertices,
				float32(nx*r), float32(ny*r), float32(nz*r),
				float32(nx), float32(ny), float32(nz),
			)
		}
	}

	row := uint32(ws + 1)
	indices := make([]uint32, 0, ws*(2*hs-2)*3)
	for iy := 0; iy < hs; iy++ {
		for ix := 0; ix < ws; ix++ {
			a := uint32(iy)*row + uint32(ix) + 1
			b := uint32(iy)*row + uint32(ix)
			c := uint32(iy+1)*row + uint32(ix)
			d := uint32(iy+1)*row + uint32(ix) + 1

			if iy != 0 {
				indices = append(indices, a, b, d)
			}
			if iy != hs-1 {
				indices = append(indices, b, c, d)
			}
		}
	}

	return MeshData{Vertices: vertices, Indices: indices}
}
