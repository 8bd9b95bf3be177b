package scene

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/drape/internal/config"
	"github.com/Faultbox/drape/pkg/cloth"
	"github.com/Faultbox/drape/pkg/collision"
	"github.com/Faultbox/drape/pkg/math"
	"github.com/Faultbox/drape/pkg/mesh"
)

// Entity names used by FromConfig.
const (
	FlagName    = "flag"
	BalloonName = "balloon"
)

// FromConfig builds the viewer scene: a flag hanging from its top edge, an
// optional balloon and the configured collision bodies.
func FromConfig(cfg *config.Config, logger *zap.Logger) (*Scene, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var world *collision.World
	if cfg.Collision.Enabled {
		world = collision.NewWorld(logger.Named("collision"))
		for _, sc := range cfg.Collision.Shapes {
			body, err := NewBody(sc)
			if err != nil {
				return nil, err
			}
			world.Add(body)
		}
	}

	s := New(cfg.Simulation, cfg.Winds, world, logger)

	flag, err := s.addFlag(cfg)
	if err != nil {
		return nil, err
	}
	if world != nil {
		collider := cfg.Collision.Collider
		flag.Collider = &collider
	}

	if cfg.Balloon.Enabled {
		balloon, err := s.addBalloon(cfg.Balloon)
		if err != nil {
			return nil, err
		}
		if world != nil {
			collider := cfg.Collision.Collider
			balloon.Collider = &collider
		}
	}

	return s, nil
}

func (s *Scene) addFlag(cfg *config.Config) (*Entity, error) {
	cc := cfg.Cloth
	m := mesh.Rectangle(cc.SizeX, cc.SizeY,
		math.Vec3{X: cc.Step},
		math.Vec3{Y: -cc.Step},
		math.Vec3{Z: 1},
	)

	b := &cloth.Builder{
		StickGeneration: cc.StickGeneration,
		StickLen:        cc.StickLen,
		StickMode:       cc.StickMode,
		NormalMode:      cc.Normals,
	}
	if cc.PinTopEdge {
		ids := make([]int, cc.SizeX)
		for i := range ids {
			ids[i] = i
		}
		b.PinVertexIDs(ids...)
	}

	t := math.IdentityTransform()
	t.Translation = cc.Position
	e, err := s.AddCloth(FlagName, m, t, b)
	if err != nil {
		return nil, err
	}
	e.Velocity = cc.PoleVelocity
	return e, nil
}

func (s *Scene) addBalloon(bc config.BalloonConfig) (*Entity, error) {
	m := mesh.UVSphere(bc.Radius, bc.Sectors, bc.Stacks)

	b := cloth.NewBuilder()
	b.StickGeneration = cloth.StickTriangles
	b.StickMode = cloth.SpringStickMode(0.9, 1.1)

	t := math.IdentityTransform()
	t.Translation = bc.Position
	e, err := s.AddCloth(BalloonName, m, t, b)
	if err != nil {
		return nil, err
	}
	pivot := e.Cloth.Inflate(bc.Inflator)
	s.logger.Debug("balloon inflated",
		zap.Int("pivot", pivot),
		zap.Float32("amount", bc.Inflator.Amount))
	return e, nil
}

// NewBody creates the collision body described by sc.
func NewBody(sc config.ShapeConfig) (*collision.Body, error) {
	var (
		shape collision.Shape
		err   error
	)
	switch sc.Kind {
	case config.ShapeSphere:
		shape = &collision.Sphere{Center: sc.Center, Radius: sc.Radius}
	case config.ShapeBox:
		shape = &collision.Box{Center: sc.Center, HalfExtents: sc.Size.Scale(0.5)}
	case config.ShapeSDFSphere:
		shape, err = collision.SDFSphere(sc.Center, sc.Radius)
	case config.ShapeSDFBox:
		shape, err = collision.SDFBox(sc.Center, sc.Size, sc.Round)
	case config.ShapeSDFCylinder:
		shape, err = collision.SDFCylinder(sc.Center, sc.Height, sc.Radius, sc.Round)
	default:
		return nil, fmt.Errorf("collision shape %s: unknown kind %q", sc.Name, sc.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("collision shape %s: %w", sc.Name, err)
	}
	return &collision.Body{Name: sc.Name, Shape: shape, Velocity: sc.Velocity}, nil
}
