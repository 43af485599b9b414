package main

import (
	"context"
	"log"
	"runtime"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/leterax/go-starfield/internal/openglhelper"
	"github.com/leterax/go-starfield/pkg/factory"
	"github.com/leterax/go-starfield/pkg/game"
	"github.com/leterax/go-starfield/pkg/render"
	"github.com/leterax/go-starfield/pkg/render/glrender"
	"github.com/leterax/go-starfield/pkg/scene"
)

func init() {
	// This is needed to ensure that the OpenGL functions are called from the same thread
	runtime.LockOSThread()
}

// redraw renders the world whenever the controls move the camera
type redraw struct {
	view  *render.View
	world *scene.World
	dirty bool
}

func (r *redraw) ControlsChanged() { r.dirty = true }

func (r *redraw) frame(time.Duration) {
	if r.dirty {
		r.view.Render(r.world)
		r.dirty = false
	}
}

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	// Create window
	window, err := openglhelper.NewWindow(openglhelper.WindowConfig{
		Width:  800,
		Height: 600,
		Title:  "Go Starfield - Cube Example",
		VSync:  true,
		Logger: logger,
	})
	if err != nil {
		log.Fatalf("Failed to create window: %v", err)
	}
	defer window.Close()

	backend, err := glrender.NewBackend(window, glrender.Config{Lit: true, Logger: logger})
	if err != nil {
		log.Fatalf("Failed to create backend: %v", err)
	}

	f := factory.New(logger)
	w, h := window.FramebufferSize()
	ctrls, err := f.CreateControls(factory.ControlsParams{Width: w, Height: h})
	if err != nil {
		log.Fatalf("Failed to create controls: %v", err)
	}
	view, err := f.CreateView(factory.ViewParams{Backend: backend, Controls: ctrls, Width: w, Height: h})
	if err != nil {
		log.Fatalf("Failed to create view: %v", err)
	}
	defer view.Close()

	world, err := f.CreateWorld()
	if err != nil {
		log.Fatalf("Failed to create world: %v", err)
	}
	cube, err := f.CreateBox(factory.BoxParams{
		Material: factory.HexMaterial(0x00ff00),
		Geometry: scene.BoxGeometry{Width: 1, Height: 1, Depth: 1},
	})
	if err != nil {
		log.Fatalf("Failed to create cube: %v", err)
	}
	if err := world.Main().Add(cube); err != nil {
		log.Fatalf("Failed to add cube: %v", err)
	}
	cube.Transform().RotateY(mgl32.DegToRad(30))

	ctrls.Camera().SetPosition(mgl32.Vec3{2, 2, 4})
	ctrls.LookAt(mgl32.Vec3{})

	r := &redraw{view: view, world: world, dirty: true}
	ctrls.AddObserver(r)
	unbind := glrender.BindInput(window, ctrls, logger)
	defer unbind()

	stopObserving := window.ObserveSize(func(width, height int, ratio float64) {
		if view.Resize(int(float64(width)*ratio), int(float64(height)*ratio)) {
			r.dirty = true
		}
	})
	defer stopObserving()

	driver := game.NewFrameDriver(window, game.DefaultFPS, logger)
	var tick func(time.Duration)
	tick = func(dt time.Duration) {
		ctrls.Tick(dt)
		r.frame(dt)
		driver.RequestFrame(tick)
	}
	driver.RequestFrame(tick)

	if err := driver.Run(context.Background()); err != nil {
		log.Fatalf("Frame loop failed: %v", err)
	}
}
