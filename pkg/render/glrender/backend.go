// Package glrender implements render.Backend on OpenGL 4.6 through GLFW,
// and binds GLFW input events to the camera controls.
package glrender

import (
	_ "embed"
	"fmt"
	"image/color"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/leterax/go-starfield/internal/openglhelper"
	"github.com/leterax/go-starfield/pkg/controls"
	"github.com/leterax/go-starfield/pkg/scene"
)

var (
	//go:embed shaders/vert.glsl
	vertexShaderSource string
	//go:embed shaders/frag.glsl
	fragmentShaderSource string
)

// Config tunes the backend
type Config struct {
	ClearColor color.RGBA
	// Lit enables simple directional lighting; otherwise materials are drawn flat.
	Lit    bool
	Logger *zap.Logger
}

// Backend draws scene graphs into a GLFW window
type Backend struct {
	window *openglhelper.Window
	shader *openglhelper.Shader
	log    *zap.Logger

	clear   mgl32.Vec4
	ambient float32

	// meshes are uploaded lazily and dropped when their drawable is no longer in the scene
	meshes map[*scene.Drawable]*cachedMesh
	frame  uint64

	width  int
	height int
	closed bool
}

type cachedMesh struct {
	mesh     *openglhelper.Mesh
	lastSeen uint64
}

// NewBackend compiles the shaders and sizes the viewport to the window's framebuffer
func NewBackend(window *openglhelper.Window, cfg Config) (*Backend, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	shader, err := openglhelper.NewShader(vertexShaderSource, fragmentShaderSource)
	if err != nil {
		return nil, fmt.Errorf("failed to load shader: %w", err)
	}

	ambient := float32(1)
	if cfg.Lit {
		ambient = 0.25
	}

	b := &Backend{
		window:  window,
		shader:  shader,
		log:     cfg.Logger,
		clear:   scene.Material{Color: cfg.ClearColor}.Vec4(),
		ambient: ambient,
		meshes:  make(map[*scene.Drawable]*cachedMesh),
	}
	b.SetSize(window.FramebufferSize())
	return b, nil
}

// Render draws root as seen by camera and presents the frame.
// A World's HUD group is drawn last, over the main group, in pixel coordinates.
func (b *Backend) Render(root scene.Node, camera *controls.Camera) {
	if b.closed {
		return
	}
	b.frame++

	b.window.Clear(b.clear)
	b.shader.Use()
	b.shader.SetFloat("ambient", b.ambient)
	b.shader.SetVec3("lightDir", mgl32.Vec3{-1, -1, -1})

	if world, ok := root.(*scene.World); ok {
		b.shader.SetMat4("projection", camera.ProjectionMatrix())
		b.shader.SetMat4("view", camera.ViewMatrix())
		b.draw(world.Main(), world.Transform().Matrix())

		gl.Clear(gl.DEPTH_BUFFER_BIT)
		b.shader.SetMat4("projection", mgl32.Ortho(0, float32(b.width), 0, float32(b.height), -1000, 1000))
		b.shader.SetMat4("view", mgl32.Ident4())
		b.draw(world.HUD(), world.Transform().Matrix())
	} else {
		b.shader.SetMat4("projection", camera.ProjectionMatrix())
		b.shader.SetMat4("view", camera.ViewMatrix())
		b.draw(root, mgl32.Ident4())
	}

	b.prune()
	b.window.SwapBuffers()
}

func (b *Backend) draw(root scene.Node, parent mgl32.Mat4) {
	err := scene.WalkDrawables(root, parent, func(n scene.Node, d *scene.Drawable, world mgl32.Mat4) error {
		mesh, err := b.mesh(d)
		if err != nil {
			return fmt.Errorf("node %s: %w", n.ID(), err)
		}
		b.shader.SetMat4("model", world)
		b.shader.SetVec4("color", d.Material.Vec4())
		mesh.Draw()
		return nil
	})
	if err != nil {
		b.log.Error("skipped nodes while drawing", zap.Error(err))
	}
}

func (b *Backend) mesh(d *scene.Drawable) (*openglhelper.Mesh, error) {
	if c, ok := b.meshes[d]; ok {
		c.lastSeen = b.frame
		return c.mesh, nil
	}

	m, err := openglhelper.NewMesh(d.Geometry.Build())
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s mesh: %w", d.Geometry.Kind(), err)
	}
	b.meshes[d] = &cachedMesh{mesh: m, lastSeen: b.frame}
	b.log.Debug("uploaded mesh", zap.String("geometry", d.Geometry.Kind()), zap.Int("meshes", len(b.meshes)))
	return m, nil
}

// prune deletes meshes that were not drawn this frame
func (b *Backend) prune() {
	for d, c := range b.meshes {
		if c.lastSeen != b.frame {
			c.mesh.Delete()
			delete(b.meshes, d)
		}
	}
}

// SetSize resizes the viewport
func (b *Backend) SetSize(width, height int) {
	b.width, b.height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Close deletes all GPU resources. It is safe to call more than once.
func (b *Backend) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true

	for d, c := range b.meshes {
		c.mesh.Delete()
		delete(b.meshes, d)
	}
	b.shader.Delete()
	b.log.Debug("backend closed", zap.Uint64("frames", b.frame))
	return nil
}
