package game

import (
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/leterax/go-starfield/pkg/controls"
	"github.com/leterax/go-starfield/pkg/factory"
	"github.com/leterax/go-starfield/pkg/render"
	"github.com/leterax/go-starfield/pkg/scene"
)

const frame = 16 * time.Millisecond

// manualScheduler runs requested frames only when Step is called
type manualScheduler struct {
	next    uint64
	pending map[uint64]func(time.Duration)
	cancels int
}

func newManualScheduler() *manualScheduler {
	return &manualScheduler{pending: make(map[uint64]func(time.Duration))}
}

func (s *manualScheduler) RequestFrame(fn func(time.Duration)) uint64 {
	s.next++
	s.pending[s.next] = fn
	return s.next
}

func (s *manualScheduler) CancelFrame(id uint64) {
	if _, ok := s.pending[id]; ok {
		delete(s.pending, id)
		s.cancels++
	}
}

func (s *manualScheduler) Step(dt time.Duration) {
	ids := make([]uint64, 0, len(s.pending))
	for id := range s.pending {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	callbacks := make([]func(time.Duration), 0, len(ids))
	for _, id := range ids {
		callbacks = append(callbacks, s.pending[id])
		delete(s.pending, id)
	}
	for _, fn := range callbacks {
		fn(dt)
	}
}

type fakeSurface struct {
	fn    func(int, int, float64)
	stops int
}

func (s *fakeSurface) ObserveSize(fn func(int, int, float64)) func() {
	s.fn = fn
	return func() {
		s.fn = nil
		s.stops++
	}
}

func (s *fakeSurface) Resize(w, h int, ratio float64) {
	if s.fn != nil {
		s.fn(w, h, ratio)
	}
}

type countingBackend struct {
	renders int
	sizes   [][2]int
	closed  bool
}

func (b *countingBackend) Render(scene.Node, *controls.Camera) { b.renders++ }
func (b *countingBackend) SetSize(w, h int)                    { b.sizes = append(b.sizes, [2]int{w, h}) }
func (b *countingBackend) Close() error                        { b.closed = true; return nil }

type harness struct {
	game      *Game
	controls  *controls.Controls
	backend   *countingBackend
	scheduler *manualScheduler
	surface   *fakeSurface
	frames    []FrameInfo
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := zaptest.NewLogger(t)
	f := factory.New(log)

	ctrls, err := f.CreateControls(factory.ControlsParams{Width: 800, Height: 600})
	require.NoError(t, err)
	backend := &countingBackend{}
	view, err := f.CreateView(factory.ViewParams{Backend: backend, Controls: ctrls, Width: 800, Height: 600})
	require.NoError(t, err)
	world, err := f.CreateWorld()
	require.NoError(t, err)

	h := &harness{
		controls:  ctrls,
		backend:   backend,
		scheduler: newManualScheduler(),
		surface:   &fakeSurface{},
	}
	h.game, err = New(Options{
		Factory:   f,
		Controls:  ctrls,
		View:      view,
		World:     world,
		Scheduler: h.scheduler,
		Surface:   h.surface,
		Scene:     SceneOptions{Planets: 5},
		Rand:      rand.New(rand.NewSource(1)),
		OnFrame:   func(fi FrameInfo) { h.frames = append(h.frames, fi) },
		Logger:    log,
	})
	require.NoError(t, err)
	return h
}

func TestGame_StartAndFrames(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.game.Start())
	assert.Equal(t, StateStarted, h.game.State())
	assert.True(t, h.game.NeedsRender())
	assert.Equal(t, 0, h.backend.renders, "start only marks the scene dirty")

	h.scheduler.Step(frame)
	assert.Equal(t, 1, h.backend.renders)
	assert.False(t, h.game.NeedsRender())

	h.scheduler.Step(frame)
	assert.Equal(t, 1, h.backend.renders, "nothing changed")

	require.Len(t, h.frames, 2)
	assert.True(t, h.frames[0].Redrawn)
	assert.False(t, h.frames[1].Redrawn)
	assert.Equal(t, uint64(2), h.frames[1].Frame)
	assert.Equal(t, mgl32.Vec3{0, 0, DefaultCameraDistance}, h.frames[1].Position)
	// world + main + hud + star + 5 planets + box
	assert.Equal(t, 10, h.frames[1].Nodes)
}

func TestGame_InitialScene(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.game.Start())

	main := h.game.World().Main()
	require.Equal(t, 7, main.Len())

	system := h.game.System()
	require.NotNil(t, system)
	assert.Len(t, system.Planets, 5)

	box := main.Children()[6]
	assert.Equal(t, mgl32.Vec3{5, 5, 0}, box.Transform().Position)
	d, ok := box.Drawable()
	require.True(t, ok)
	assert.Equal(t, "box", d.Geometry.Kind())
}

func TestGame_InputRedraws(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.game.Start())
	h.scheduler.Step(frame)
	require.Equal(t, 1, h.backend.renders)

	h.controls.OnPointerMove(10, 0)
	assert.True(t, h.game.NeedsRender())
	h.scheduler.Step(frame)
	assert.Equal(t, 2, h.backend.renders)

	start := h.controls.Camera().Position()
	h.controls.OnKeyDown(controls.KeyW)
	h.scheduler.Step(frame)
	h.scheduler.Step(frame)
	assert.Equal(t, 4, h.backend.renders, "moving camera redraws every frame")
	assert.NotEqual(t, start, h.controls.Camera().Position())

	h.controls.OnKeyUp(controls.KeyW)
	h.scheduler.Step(frame)
	assert.Equal(t, 5, h.backend.renders, "key release is a change")
	h.scheduler.Step(frame)
	assert.Equal(t, 5, h.backend.renders)
}

func TestGame_Resize(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.game.Start())
	h.scheduler.Step(frame)
	aspect := h.controls.Camera().Aspect()

	t.Run("Same Size", func(t *testing.T) {
		h.surface.Resize(800, 600, 1)
		h.surface.Resize(400, 300, 2)
		assert.Equal(t, 1, h.backend.renders)
		assert.Empty(t, h.backend.sizes)
		assert.Equal(t, aspect, h.controls.Camera().Aspect())
	})

	t.Run("New Size Redraws Immediately", func(t *testing.T) {
		h.surface.Resize(640, 320, 1.5)
		assert.Equal(t, 2, h.backend.renders)
		assert.Equal(t, [][2]int{{960, 480}}, h.backend.sizes)
		assert.InDelta(t, 2.0, h.controls.Camera().Aspect(), 1e-6)

		h.scheduler.Step(frame)
		assert.Equal(t, 2, h.backend.renders)
	})

	t.Run("Minimized", func(t *testing.T) {
		h.surface.Resize(0, 0, 1)
		assert.Len(t, h.backend.sizes, 1)
	})
}

func TestGame_PauseResume(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.game.Start())
	h.scheduler.Step(frame)

	require.NoError(t, h.game.Pause())
	assert.Equal(t, StatePaused, h.game.State())
	assert.Empty(t, h.scheduler.pending)

	h.controls.OnKeyDown(controls.KeyW)
	h.scheduler.Step(frame)
	assert.Equal(t, 1, h.backend.renders, "no frames while paused")
	assert.Equal(t, mgl32.Vec3{0, 0, DefaultCameraDistance}, h.controls.Camera().Position())

	require.ErrorIs(t, h.game.Pause(), ErrInvalidState)

	require.NoError(t, h.game.Resume())
	h.scheduler.Step(frame)
	assert.Equal(t, 2, h.backend.renders)
	assert.Len(t, h.scheduler.pending, 1)

	require.ErrorIs(t, h.game.Resume(), ErrInvalidState)
}

func TestGame_StopFromFrameHook(t *testing.T) {
	tests := []struct {
		name string
		stop func(g *Game) error
		want State
	}{
		{"Pause", (*Game).Pause, StatePaused},
		{"End", (*Game).End, StateEnded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.game.onFrame = func(FrameInfo) {
				require.NoError(t, tt.stop(h.game))
			}
			require.NoError(t, h.game.Start())
			h.scheduler.Step(frame)

			assert.Equal(t, tt.want, h.game.State())
			assert.Empty(t, h.scheduler.pending, "no frame is scheduled after the hook stopped the game")

			h.scheduler.Step(frame)
			assert.Equal(t, 1, h.backend.renders)
		})
	}
}

func TestGame_End(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.game.Start())
	h.scheduler.Step(frame)

	require.NoError(t, h.game.End())
	assert.Equal(t, StateEnded, h.game.State())
	assert.Empty(t, h.scheduler.pending)
	assert.Equal(t, 1, h.scheduler.cancels)
	assert.Equal(t, 1, h.surface.stops)
	assert.True(t, h.backend.closed)
	assert.Equal(t, 0, h.game.World().Len())
	assert.Nil(t, h.game.System())

	h.controls.OnKeyDown(controls.KeyW)
	assert.False(t, h.game.NeedsRender(), "observer removed")

	require.ErrorIs(t, h.game.End(), ErrInvalidState)
	assert.Equal(t, 1, h.scheduler.cancels)
	assert.Equal(t, 1, h.surface.stops)

	require.ErrorIs(t, h.game.Start(), ErrInvalidState)
}

func TestGame_EndWhilePaused(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.game.Start())
	require.NoError(t, h.game.Pause())
	require.NoError(t, h.game.End())
	assert.Equal(t, 1, h.scheduler.cancels)
}

func TestGame_Lifecycle(t *testing.T) {
	h := newHarness(t)
	require.ErrorIs(t, h.game.End(), ErrInvalidState)
	require.ErrorIs(t, h.game.Pause(), ErrInvalidState)
	require.NoError(t, h.game.Start())
	require.ErrorIs(t, h.game.Start(), ErrInvalidState)
	assert.Len(t, h.scheduler.pending, 1)
}

func TestNew_MissingDependencies(t *testing.T) {
	ctrls := controls.New(controls.Options{Width: 1, Height: 1})
	view := render.NewView(&countingBackend{}, ctrls, 1, 1, nil)
	world, err := scene.NewWorld(scene.NewGroup(), scene.NewGroup())
	require.NoError(t, err)

	full := Options{
		Controls:  ctrls,
		View:      view,
		World:     world,
		Scheduler: newManualScheduler(),
		Surface:   &fakeSurface{},
	}
	_, err = New(full)
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(o *Options)
	}{
		{"Controls", func(o *Options) { o.Controls = nil }},
		{"View", func(o *Options) { o.View = nil }},
		{"World", func(o *Options) { o.World = nil }},
		{"Scheduler", func(o *Options) { o.Scheduler = nil }},
		{"Surface", func(o *Options) { o.Surface = nil }},
		{"Planets", func(o *Options) { o.Scene.Planets = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := full
			tt.mutate(&o)
			_, err := New(o)
			require.ErrorIs(t, err, factory.ErrConfiguration)
		})
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "none", StateNone.String())
	assert.Equal(t, "started", StateStarted.String())
	assert.Equal(t, "paused", StatePaused.String())
	assert.Equal(t, "ended", StateEnded.String())
	assert.Equal(t, "State(9)", State(9).String())
}
