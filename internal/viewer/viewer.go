// Package viewer runs the interactive cloth viewer: the window, the render
// loop and the fixed rate simulation.
package viewer

import (
	"fmt"
	"time"

	"github.com/sqweek/dialog"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/drape/internal/config"
	"github.com/Faultbox/drape/internal/engine/camera"
	"github.com/Faultbox/drape/internal/engine/debug"
	"github.com/Faultbox/drape/internal/engine/input"
	"github.com/Faultbox/drape/internal/engine/renderer"
	"github.com/Faultbox/drape/internal/engine/window"
	"github.com/Faultbox/drape/internal/logger"
	"github.com/Faultbox/drape/internal/scene"
	"github.com/Faultbox/drape/pkg/collision"
	"github.com/Faultbox/drape/pkg/math"
	"github.com/Faultbox/drape/pkg/mesh"
)

// maxTicksPerFrame bounds the simulation work of a single frame.
const maxTicksPerFrame = 5

// Tessellation of the unit sphere drawn for sphere bodies.
const (
	bodySectors = 32
	bodyStacks  = 16
)

var (
	clothColor   = math.Vec3{X: 0.8, Y: 0.25, Z: 0.2}
	balloonColor = math.Vec3{X: 0.3, Y: 0.5, Z: 0.9}
	bodyColor    = math.Vec3{X: 0.9, Y: 0.9, Z: 0.3}
	boundsColor  = math.Vec3{X: 0.3, Y: 0.9, Z: 0.4}
)

// Viewer is the interactive viewer instance.
type Viewer struct {
	cfg *config.Config
	log *zap.Logger

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.OrbitCamera
	shots    *debug.Screenshots
	// sphere is the unit sphere drawn for sphere bodies.
	sphere *mesh.Mesh

	scene      *scene.Scene
	// opened receives scene files picked in the file dialog.
	opened     chan string
	clock      fixedStep
	running    bool
	paused     bool
	showBounds bool
}

// New opens the window and builds the scene.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		cfg:    cfg,
		log:    logger.Named("viewer"),
		input:  input.New(),
		camera: camera.NewOrbitCamera(),
		shots:  debug.NewScreenshots("screenshots", "drape"),
		sphere: mesh.UVSphere(1, bodySectors, bodyStacks),
		opened: make(chan string, 1),
		clock:  fixedStep{dt: float64(cfg.TickDuration()), maxSteps: maxTicksPerFrame},
	}

	var err error
	v.window, err = window.New(window.Config{
		Title:      "Drape",
		Width:      cfg.Viewer.Width,
		Height:     cfg.Viewer.Height,
		Fullscreen: cfg.Viewer.Fullscreen,
		VSync:      cfg.Viewer.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The renderer needs the OpenGL context of the window.
	width, height := v.window.GetSize()
	v.renderer, err = renderer.New(renderer.Config{Width: width, Height: height})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	if err := v.reset(); err != nil {
		v.Close()
		return nil, err
	}

	v.log.Info("viewer initialized")
	return v, nil
}

// reset rebuilds the scene from the config and frames it.
func (v *Viewer) reset() error {
	if v.scene != nil {
		for _, e := range v.scene.Entities() {
			v.renderer.Forget(e.Mesh)
		}
	}

	s, err := scene.FromConfig(v.cfg, logger.Named("scene"))
	if err != nil {
		return fmt.Errorf("failed to build scene: %w", err)
	}
	v.scene = s
	v.clock.acc = 0

	if entities := s.Entities(); len(entities) > 0 {
		v.camera.FitToBounds(entities[0].AABB)
	}
	return nil
}

// Run starts the main loop.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting viewer loop", zap.Int("tick_rate", v.cfg.Viewer.TickRate))

	for v.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		if v.input.Update() {
			break
		}
		if err := v.handleInput(); err != nil {
			return err
		}

		if !v.paused {
			tick := v.cfg.TickDuration()
			for n := v.clock.advance(dt); n > 0; n-- {
				v.scene.Step(tick)
			}
		}

		v.render()

		if v.input.IsKeyPressed(sdl.SCANCODE_F12) {
			v.screenshot()
		}

		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			st := v.scene.Stats()
			v.window.SetTitle(fmt.Sprintf("Drape - %d fps - %d points", frameCount, st.Points))
			v.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.Uint64("ticks", st.Ticks),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) handleInput() error {
	if _, _, ok := v.input.Resized(); ok {
		v.renderer.Resize(v.window.GetSize())
	}

	for _, e := range v.input.Events() {
		if e.Type != input.EventKeyDown {
			continue
		}
		switch e.Key {
		case sdl.SCANCODE_ESCAPE:
			v.running = false
		case sdl.SCANCODE_SPACE:
			v.paused = !v.paused
			v.log.Info("simulation paused", zap.Bool("paused", v.paused))
		case sdl.SCANCODE_R:
			if err := v.reset(); err != nil {
				return err
			}
			v.log.Info("scene reset")
		case sdl.SCANCODE_O:
			v.openFileDialog()
		case sdl.SCANCODE_B:
			v.showBounds = !v.showBounds
		case sdl.SCANCODE_S:
			v.saveConfig()
		case sdl.SCANCODE_F11:
			if err := v.window.SetFullscreen(!v.window.Fullscreen()); err != nil {
				v.log.Warn("failed to toggle fullscreen", zap.Error(err))
			}
		}
	}

	select {
	case path := <-v.opened:
		v.openScene(path)
	default:
	}

	dx, dy := v.input.Drag()
	if dx != 0 || dy != 0 {
		v.camera.HandleDrag(dx, dy)
	}
	if wheel := v.input.Wheel(); wheel != 0 {
		v.camera.HandleZoom(wheel)
	}
	return nil
}

// openFileDialog asks for a scene file without blocking the loop. The scene is
// rebuilt on the main thread once a file is picked.
func (v *Viewer) openFileDialog() {
	go func() {
		path, err := dialog.File().
			Filter("Scene files", "yaml", "yml").
			Filter("All Files", "*").
			Title("Open scene").
			Load()
		if err != nil {
			if err != dialog.ErrCancelled {
				v.log.Warn("file dialog failed", zap.Error(err))
			}
			return
		}
		select {
		case v.opened <- path:
		default:
		}
	}()
}

// openScene replaces the scene settings with the file at path. Viewer and
// logging settings are kept.
func (v *Viewer) openScene(path string) {
	cfg, err := config.LoadFile(path)
	if err != nil {
		v.log.Error("failed to open scene", zap.String("path", path), zap.Error(err))
		return
	}
	cfg.Viewer = v.cfg.Viewer
	cfg.Logging = v.cfg.Logging

	prev := v.cfg
	v.cfg = cfg
	if err := v.reset(); err != nil {
		v.log.Error("failed to build scene", zap.String("path", path), zap.Error(err))
		v.cfg = prev
		return
	}
	v.log.Info("scene opened", zap.String("path", path))
}

// saveConfig writes the current settings to the user's config directory so
// the next start opens the same scene.
func (v *Viewer) saveConfig() {
	if err := v.cfg.Save(); err != nil {
		v.log.Error("failed to save config", zap.Error(err))
		return
	}
	v.log.Info("config saved", zap.String("dir", config.ConfigDir()))
}

func (v *Viewer) render() {
	width, height := v.renderer.Size()
	v.renderer.SetCamera(v.camera.ViewMatrix(), v.camera.ProjectionMatrix(width, height))

	v.renderer.Begin()
	for _, e := range v.scene.Entities() {
		color := clothColor
		if e.Name == scene.BalloonName {
			color = balloonColor
		}
		v.renderer.DrawMesh(e.Mesh, e.Transform.Matrix(), color)
		if v.showBounds {
			v.renderer.DrawBox(e.AABB, boundsColor)
		}
	}
	if v.scene.World != nil {
		for _, b := range v.scene.World.Bodies {
			if b.Shape == nil {
				continue
			}
			if model, ok := sphereModel(b.Shape); ok {
				v.renderer.DrawMesh(v.sphere, model, bodyColor)
				continue
			}
			v.renderer.DrawBox(b.Shape.Bounds(), bodyColor)
		}
	}
	v.renderer.End()
}

// sphereModel returns the matrix placing the unit sphere on an analytic
// sphere shape. Other shapes are drawn as their bounds.
func sphereModel(shape collision.Shape) (math.Mat4, bool) {
	s, ok := shape.(*collision.Sphere)
	if !ok {
		return math.Mat4{}, false
	}
	return math.Transform{
		Translation: s.Center,
		Rotation:    math.QuatIdentity(),
		Scale:       math.Splat(s.Radius),
	}.Matrix(), true
}

func (v *Viewer) screenshot() {
	width, height := v.renderer.Size()
	path, err := v.shots.Save(v.renderer.ReadPixels(), width, height)
	if err != nil {
		v.log.Error("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

// Close releases the renderer and the window.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
