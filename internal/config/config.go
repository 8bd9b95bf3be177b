// Package config handles loading and saving of the viewer scene settings.
package config

import (
	"fmt"

	"github.com/Faultbox/drape/pkg/cloth"
	"github.com/Faultbox/drape/pkg/collision"
	"github.com/Faultbox/drape/pkg/math"
)

// Config holds every setting of a simulated scene and its viewer.
type Config struct {
	Simulation cloth.Config    `yaml:"simulation"`
	Winds      cloth.Winds     `yaml:"winds"`
	Cloth      ClothConfig     `yaml:"cloth"`
	Balloon    BalloonConfig   `yaml:"balloon"`
	Collision  CollisionConfig `yaml:"collision"`
	Viewer     ViewerConfig    `yaml:"viewer"`
	Logging    LoggingConfig   `yaml:"logging"`
}

// ClothConfig describes the flag cloth: a rectangular grid.
type ClothConfig struct {
	SizeX int `yaml:"size_x"`
	SizeY int `yaml:"size_y"`
	// Step is the distance between two neighbouring vertices.
	Step     float32   `yaml:"step"`
	Position math.Vec3 `yaml:"position"`

	StickGeneration cloth.StickGeneration `yaml:"stick_generation"`
	StickLen        cloth.StickLen        `yaml:"stick_len"`
	StickMode       cloth.StickMode       `yaml:"stick_mode"`
	Normals         cloth.NormalMode      `yaml:"normals"`

	// PinTopEdge anchors the first row of vertices to the cloth transform.
	PinTopEdge bool `yaml:"pin_top_edge"`
	// PoleVelocity moves the cloth transform, dragging the pinned edge.
	PoleVelocity math.Vec3 `yaml:"pole_velocity,omitempty"`
}

// BalloonConfig describes an optional inflated sphere.
type BalloonConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Radius   float32        `yaml:"radius"`
	Sectors  int            `yaml:"sectors"`
	Stacks   int            `yaml:"stacks"`
	Position math.Vec3      `yaml:"position"`
	Inflator cloth.Inflator `yaml:"inflator"`
}

// Shape kinds.
const (
	ShapeSphere      = "sphere"
	ShapeBox         = "box"
	ShapeSDFSphere   = "sdf_sphere"
	ShapeSDFBox      = "sdf_box"
	ShapeSDFCylinder = "sdf_cylinder"
)

// ShapeConfig describes a collision body.
type ShapeConfig struct {
	Name     string    `yaml:"name"`
	Kind     string    `yaml:"kind"`
	Center   math.Vec3 `yaml:"center"`
	Radius   float32   `yaml:"radius,omitempty"`
	Size     math.Vec3 `yaml:"size,omitempty"`
	Height   float32   `yaml:"height,omitempty"`
	Round    float32   `yaml:"round,omitempty"`
	Velocity math.Vec3 `yaml:"velocity,omitempty"`
}

// CollisionConfig holds the collider settings shared by every cloth and the
// bodies they collide with.
type CollisionConfig struct {
	Enabled  bool               `yaml:"enabled"`
	Collider collision.Collider `yaml:"collider"`
	Shapes   []ShapeConfig      `yaml:"shapes"`
}

// ViewerConfig holds display and stepping settings.
type ViewerConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	// Headless steps the scene without opening a window.
	Headless bool `yaml:"headless"`
	// Ticks is the number of headless ticks.
	Ticks int `yaml:"ticks"`
	// TickRate is the fixed simulation rate in Hz.
	TickRate int `yaml:"tick_rate"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	JSON    bool   `yaml:"json"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Simulation: cloth.DefaultConfig(),
		Winds: cloth.Winds{
			cloth.SinWaveWind(math.Vec3{X: 4, Z: 2}, 0.5, true, false),
		},
		Cloth: ClothConfig{
			SizeX:           30,
			SizeY:           30,
			Step:            0.1,
			Position:        math.Vec3{X: -1.5, Y: 4},
			StickGeneration: cloth.StickQuads,
			StickLen:        cloth.AutoStickLen(),
			StickMode:       cloth.FixedStickMode(),
			Normals:         cloth.NormalsSmooth,
			PinTopEdge:      true,
		},
		Balloon: BalloonConfig{
			Enabled:  false,
			Radius:   0.8,
			Sectors:  16,
			Stacks:   12,
			Position: math.Vec3{X: 3, Y: 2},
			Inflator: cloth.DefaultInflator(),
		},
		Collision: CollisionConfig{
			Enabled:  true,
			Collider: collision.DefaultCollider(),
			Shapes: []ShapeConfig{
				{Name: "ball", Kind: ShapeSphere, Center: math.Vec3{Y: 1.5, Z: 0.5}, Radius: 0.7},
			},
		},
		Viewer: ViewerConfig{
			Width:    1280,
			Height:   720,
			VSync:    true,
			Ticks:    600,
			TickRate: 60,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports settings the scene cannot be built from.
func (c *Config) Validate() error {
	if c.Cloth.SizeX < 2 || c.Cloth.SizeY < 2 {
		return fmt.Errorf("cloth size %dx%d: need at least 2x2 vertices", c.Cloth.SizeX, c.Cloth.SizeY)
	}
	if c.Cloth.Step <= 0 {
		return fmt.Errorf("cloth step must be positive, got %v", c.Cloth.Step)
	}
	if c.Viewer.TickRate <= 0 {
		return fmt.Errorf("tick rate must be positive, got %d", c.Viewer.TickRate)
	}
	if c.Balloon.Enabled && (c.Balloon.Sectors < 3 || c.Balloon.Stacks < 2 || c.Balloon.Radius <= 0) {
		return fmt.Errorf("balloon needs radius > 0, 3+ sectors and 2+ stacks")
	}
	for i, s := range c.Collision.Shapes {
		switch s.Kind {
		case ShapeSphere, ShapeBox, ShapeSDFSphere, ShapeSDFBox, ShapeSDFCylinder:
		default:
			return fmt.Errorf("collision shape %d (%s): unknown kind %q", i, s.Name, s.Kind)
		}
	}
	return nil
}

// TickDuration returns the simulated seconds of one tick.
func (c *Config) TickDuration() float32 {
	return 1 / float32(c.Viewer.TickRate)
}
