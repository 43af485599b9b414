// Package game runs the scene: it owns the world, redraws it through the
// view only when something changed, and drives the camera controls once
// per frame.
package game

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/leterax/go-starfield/pkg/controls"
	"github.com/leterax/go-starfield/pkg/factory"
	"github.com/leterax/go-starfield/pkg/render"
	"github.com/leterax/go-starfield/pkg/scene"
)

// ErrInvalidState is returned for lifecycle calls made in the wrong state
var ErrInvalidState = errors.New("game: invalid state transition")

// State is the lifecycle state of a game
type State int

const (
	StateNone State = iota
	StateStarted
	StatePaused
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateStarted:
		return "started"
	case StatePaused:
		return "paused"
	case StateEnded:
		return "ended"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Scheduler runs callbacks on the next frame, like requestAnimationFrame.
type Scheduler interface {
	// RequestFrame schedules fn for the next frame and returns a handle for CancelFrame.
	RequestFrame(fn func(dt time.Duration)) uint64
	// CancelFrame unschedules a pending callback. Unknown handles are ignored.
	CancelFrame(id uint64)
}

// SizeSource reports size changes of the output surface
type SizeSource interface {
	// ObserveSize registers fn for size changes in logical pixels with the
	// device pixel ratio. The returned func stops the observation.
	ObserveSize(fn func(width, height int, pixelRatio float64)) (stop func())
}

// FrameInfo describes a finished frame
type FrameInfo struct {
	Frame    uint64
	State    State
	Redrawn  bool
	Position mgl32.Vec3
	Pitch    float32
	Yaw      float32
	Nodes    int
}

// DefaultCameraDistance puts the camera far enough back to see a five-planet system
const DefaultCameraDistance = 200

// SceneOptions configures the initial scene
type SceneOptions struct {
	Planets        int
	CameraDistance float32
}

// Options holds the dependencies of a game
type Options struct {
	Factory   *factory.Factory
	Controls  *controls.Controls
	View      *render.View
	World     *scene.World
	Scheduler Scheduler
	Surface   SizeSource
	Scene     SceneOptions
	Rand      *rand.Rand
	// OnFrame, if set, is called at the end of every frame.
	OnFrame func(FrameInfo)
	Logger  *zap.Logger
}

// Game orchestrates the scene, the controls and the render loop.
// All methods must be called from the thread running the scheduler.
type Game struct {
	factory   *factory.Factory
	controls  *controls.Controls
	view      *render.View
	world     *scene.World
	scheduler Scheduler
	surface   SizeSource
	sceneOpts SceneOptions
	rand      *rand.Rand
	onFrame   func(FrameInfo)
	log       *zap.Logger

	state State
	// needRender tells the loop whether the scene must be redrawn
	needRender bool

	frameID   uint64
	scheduled bool
	frames    uint64

	stopObserving func()
	system        *PlanetarySystem
}

// New creates a game in StateNone
func New(opts Options) (*Game, error) {
	switch {
	case opts.Controls == nil:
		return nil, &factory.ConfigurationError{Param: "controls", Reason: "required"}
	case opts.View == nil:
		return nil, &factory.ConfigurationError{Param: "view", Reason: "required"}
	case opts.World == nil:
		return nil, &factory.ConfigurationError{Param: "world", Reason: "required"}
	case opts.Scheduler == nil:
		return nil, &factory.ConfigurationError{Param: "scheduler", Reason: "required"}
	case opts.Surface == nil:
		return nil, &factory.ConfigurationError{Param: "surface", Reason: "no output surface to observe"}
	case opts.Scene.Planets < 0:
		return nil, &factory.ConfigurationError{Param: "planets", Reason: "must not be negative"}
	}

	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Factory == nil {
		opts.Factory = factory.New(opts.Logger)
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Game{
		factory:   opts.Factory,
		controls:  opts.Controls,
		view:      opts.View,
		world:     opts.World,
		scheduler: opts.Scheduler,
		surface:   opts.Surface,
		sceneOpts: opts.Scene,
		rand:      opts.Rand,
		onFrame:   opts.OnFrame,
		log:       opts.Logger,
		state:     StateNone,
	}, nil
}

// State returns the lifecycle state
func (g *Game) State() State {
	return g.state
}

// World returns the scene root
func (g *Game) World() *scene.World {
	return g.world
}

// System returns the generated planetary system, nil before Start
func (g *Game) System() *PlanetarySystem {
	return g.system
}

// NeedsRender reports whether the next frame will redraw
func (g *Game) NeedsRender() bool {
	return g.needRender
}

// Start sets up the initial scene and starts the render loop
func (g *Game) Start() error {
	if g.state != StateNone {
		return fmt.Errorf("%w: cannot start from %s", ErrInvalidState, g.state)
	}
	if err := g.initScene(); err != nil {
		return fmt.Errorf("failed to initialize scene: %w", err)
	}

	g.state = StateStarted
	g.stopObserving = g.surface.ObserveSize(g.HandleResize)
	g.controls.AddObserver(g)
	g.needRender = true
	g.requestFrame()

	g.log.Info("game started", zap.Int("nodes", scene.Count(g.world)))
	return nil
}

// Pause stops scheduling frames. The scene is kept.
func (g *Game) Pause() error {
	if g.state != StateStarted {
		return fmt.Errorf("%w: cannot pause from %s", ErrInvalidState, g.state)
	}
	g.state = StatePaused
	g.cancelFrame()
	g.log.Info("game paused", zap.Uint64("frame", g.frames))
	return nil
}

// Resume restarts frame scheduling after Pause and redraws on the next frame
func (g *Game) Resume() error {
	if g.state != StatePaused {
		return fmt.Errorf("%w: cannot resume from %s", ErrInvalidState, g.state)
	}
	g.state = StateStarted
	g.needRender = true
	g.requestFrame()
	g.log.Info("game resumed", zap.Uint64("frame", g.frames))
	return nil
}

// End stops the render loop and releases the scene and the view
func (g *Game) End() error {
	if g.state != StateStarted && g.state != StatePaused {
		return fmt.Errorf("%w: cannot end from %s", ErrInvalidState, g.state)
	}
	g.state = StateEnded
	g.cancelFrame()
	if g.stopObserving != nil {
		g.stopObserving()
		g.stopObserving = nil
	}
	g.controls.RemoveObserver(g)

	err := g.destroyScene()
	g.log.Info("game ended", zap.Uint64("frames", g.frames), zap.Uint64("redraws", g.view.Frames()))
	return err
}

// ControlsChanged marks the scene for redraw; it makes Game a controls.Observer
func (g *Game) ControlsChanged() {
	g.needRender = true
}

// HandleResize reacts to a surface size change given in logical pixels.
// If the effective pixel size differs from the view's, the view is resized
// and the scene redrawn immediately.
func (g *Game) HandleResize(width, height int, pixelRatio float64) {
	if g.state != StateStarted && g.state != StatePaused {
		return
	}
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	w := int(math.Round(float64(width) * pixelRatio))
	h := int(math.Round(float64(height) * pixelRatio))
	if w <= 0 || h <= 0 {
		// minimized
		return
	}

	if !g.view.Resize(w, h) {
		return
	}
	g.needRender = true
	g.render()
}

func (g *Game) initScene() error {
	main := g.world.Main()

	system, err := GeneratePlanetarySystem(g.factory, main, g.rand, mgl32.Vec3{}, g.sceneOpts.Planets)
	if err != nil {
		return err
	}
	g.system = system

	box, err := g.factory.CreateBox(factory.BoxParams{
		Material: factory.HexMaterial(0x00ff00),
		Geometry: scene.BoxGeometry{Width: 1, Height: 1, Depth: 1},
	})
	if err != nil {
		return err
	}
	if err := main.Add(box); err != nil {
		return err
	}
	box.Transform().SetPosition(5, 5, 0)

	distance := g.sceneOpts.CameraDistance
	if distance == 0 {
		distance = DefaultCameraDistance
	}
	g.controls.Camera().SetPosition(mgl32.Vec3{0, 0, distance})

	g.log.Debug("scene initialized",
		zap.Int("planets", len(system.Planets)),
		zap.Float32("star_size", system.Star.Size()),
		zap.Float32("camera_distance", distance))
	return nil
}

func (g *Game) destroyScene() error {
	g.world.Dispose()
	g.system = nil
	if err := g.view.Close(); err != nil {
		return fmt.Errorf("failed to release view: %w", err)
	}
	return nil
}

func (g *Game) requestFrame() {
	if g.scheduled {
		return
	}
	g.frameID = g.scheduler.RequestFrame(g.animate)
	g.scheduled = true
}

func (g *Game) cancelFrame() {
	if !g.scheduled {
		return
	}
	g.scheduler.CancelFrame(g.frameID)
	g.scheduled = false
}

// animate is the per-frame callback: move the camera, redraw if needed, reschedule
func (g *Game) animate(dt time.Duration) {
	g.scheduled = false
	if g.state != StateStarted {
		return
	}

	g.controls.Tick(dt)
	redrawn := g.render()
	g.frames++

	if g.onFrame != nil {
		pitch, yaw := g.controls.Orientation()
		g.onFrame(FrameInfo{
			Frame:    g.frames,
			State:    g.state,
			Redrawn:  redrawn,
			Position: g.controls.Camera().Position(),
			Pitch:    pitch,
			Yaw:      yaw,
			Nodes:    scene.Count(g.world),
		})
	}

	// the frame hook may have paused or ended the game
	if g.state == StateStarted {
		g.requestFrame()
	}
}

func (g *Game) render() bool {
	if !g.needRender {
		return false
	}
	g.view.Render(g.world)
	g.needRender = false
	return true
}
