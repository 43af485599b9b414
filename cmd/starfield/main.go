package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/leterax/go-starfield/internal/config"
	"github.com/leterax/go-starfield/internal/logger"
	"github.com/leterax/go-starfield/internal/openglhelper"
	"github.com/leterax/go-starfield/pkg/factory"
	"github.com/leterax/go-starfield/pkg/game"
	"github.com/leterax/go-starfield/pkg/network"
	"github.com/leterax/go-starfield/pkg/render/glrender"
	"github.com/leterax/go-starfield/pkg/scene"
)

func init() {
	// This is needed to ensure that OpenGL functions are called from the same thread
	runtime.LockOSThread()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "starfield:", err)
		os.Exit(1)
	}
}

func run() error {
	// Parse command line flags
	configPath := flag.String("config", "", "Config file (.yaml or .toml)")
	width := flag.Int("width", 0, "Window width")
	height := flag.Int("height", 0, "Window height")
	planets := flag.Int("planets", -1, "Number of planets")
	seed := flag.Int64("seed", 0, "Planet generator seed (0 = random)")
	inspectAddr := flag.String("inspect", "", "Inspect server address (empty disables it)")
	logLevel := flag.String("log", "", "Log level")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}
	if *width > 0 {
		cfg.Window.Width = *width
	}
	if *height > 0 {
		cfg.Window.Height = *height
	}
	if *planets >= 0 {
		cfg.Scene.Planets = *planets
	}
	if *seed != 0 {
		cfg.Scene.Seed = *seed
	}
	if *inspectAddr != "" {
		cfg.Inspect.Addr = *inspectAddr
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.Scene.Seed == 0 {
		cfg.Scene.Seed = time.Now().UnixNano()
	}
	log.Info("starting go-starfield", zap.Int64("seed", cfg.Scene.Seed), zap.Int("planets", cfg.Scene.Planets))

	window, err := openglhelper.NewWindow(openglhelper.WindowConfig{
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		Title:  cfg.Window.Title,
		VSync:  cfg.Window.VSync,
		Logger: log.Named("window"),
	})
	if err != nil {
		return err
	}
	defer window.Close()

	background, err := scene.ParseColor(cfg.Window.Background)
	if err != nil {
		return err
	}
	backend, err := glrender.NewBackend(window, glrender.Config{
		ClearColor: background,
		Lit:        cfg.Window.Lit,
		Logger:     log.Named("gl"),
	})
	if err != nil {
		return err
	}

	f := factory.New(log)
	fbWidth, fbHeight := window.FramebufferSize()
	ctrls, err := f.CreateControls(factory.ControlsParams{
		Width:       fbWidth,
		Height:      fbHeight,
		FOV:         cfg.Camera.FOV,
		Near:        cfg.Camera.Near,
		Far:         cfg.Camera.Far,
		Speed:       cfg.Camera.Speed,
		Sensitivity: cfg.Camera.Sensitivity,
		Bindings:    cfg.Camera.Bindings,
	})
	if err != nil {
		return err
	}
	defer ctrls.Close()

	view, err := f.CreateView(factory.ViewParams{Backend: backend, Controls: ctrls, Width: fbWidth, Height: fbHeight})
	if err != nil {
		return err
	}
	world, err := f.CreateWorld()
	if err != nil {
		return err
	}

	driver := game.NewFrameDriver(window, cfg.Window.FPS, log.Named("loop"))
	unbind := glrender.BindInput(window, ctrls, log.Named("input"))
	defer unbind()

	var inspect *network.InspectServer
	var onFrame func(game.FrameInfo)
	if cfg.Inspect.Addr != "" {
		inspect = network.NewInspectServer(cfg.Inspect.Addr, log.Named("inspect"))
		onFrame = func(fi game.FrameInfo) {
			if !fi.Redrawn {
				return
			}
			inspect.Publish(network.Snapshot{
				Frame:    fi.Frame,
				State:    fi.State.String(),
				Redrawn:  fi.Redrawn,
				Position: fi.Position,
				Pitch:    fi.Pitch,
				Yaw:      fi.Yaw,
				Nodes:    fi.Nodes,
				Time:     time.Now(),
			})
		}
	}

	g, err := game.New(game.Options{
		Factory:   f,
		Controls:  ctrls,
		View:      view,
		World:     world,
		Scheduler: driver,
		Surface:   window,
		Scene: game.SceneOptions{
			Planets:        cfg.Scene.Planets,
			CameraDistance: cfg.Camera.Distance,
		},
		Rand:    rand.New(rand.NewSource(cfg.Scene.Seed)),
		OnFrame: onFrame,
		Logger:  log.Named("game"),
	})
	if err != nil {
		return err
	}

	// stop rendering while minimized
	window.GLFWWindow().SetIconifyCallback(func(_ *glfw.Window, iconified bool) {
		if iconified {
			_ = g.Pause()
		} else {
			_ = g.Resume()
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The frame loop must stay on the main thread; only the inspect server runs in the group.
	eg, egCtx := errgroup.WithContext(ctx)
	if inspect != nil {
		eg.Go(func() error {
			return inspect.Run(egCtx)
		})
	}

	if err := g.Start(); err != nil {
		return err
	}
	runErr := driver.Run(egCtx)
	if err := g.End(); err != nil && !errors.Is(err, game.ErrInvalidState) {
		log.Error("failed to end game", zap.Error(err))
	}

	stop()
	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("inspect server: %w", err)
	}
	log.Info("bye")
	return runErr
}
