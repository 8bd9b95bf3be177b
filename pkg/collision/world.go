package collision

import (
	"go.uber.org/zap"

	"github.com/Faultbox/drape/pkg/cloth"
	"github.com/Faultbox/drape/pkg/math"
)

// Body is a collision shape and its velocity.
type Body struct {
	Name     string
	Shape    Shape
	Velocity math.Vec3
}

// World is the set of bodies cloths collide with.
//
// ResolveCloth only reads the bodies, so cloths can be resolved in parallel.
// Dampen writes body velocities and must not run concurrently with it.
type World struct {
	Bodies []*Body
	Logger *zap.Logger
}

// NewWorld creates an empty world.
func NewWorld(logger *zap.Logger) *World {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &World{Logger: logger}
}

// Add registers a body.
func (w *World) Add(b *Body) {
	w.Bodies = append(w.Bodies, b)
}

// Candidates returns the bodies whose bounds overlap box.
func (w *World) Candidates(box cloth.AABB) []*Body {
	var out []*Body
	for _, b := range w.Bodies {
		if b.Shape == nil {
			w.log().Error("collision body has no shape", zap.String("body", b.Name))
			continue
		}
		if b.Shape.Bounds().Intersects(box) {
			out = append(out, b)
		}
	}
	return out
}

// ResolveCloth pushes the free points of c out of every overlapping body for
// a tick of dt seconds and returns the bodies it touched.
func (w *World) ResolveCloth(c *cloth.Cloth, collider Collider, dt float32) []*Body {
	bodies := w.Candidates(c.AABB(collider.Offset))
	for _, b := range bodies {
		push := b.Velocity.LengthSquared() * dt * dt * collider.VelocityCoefficient
		shape := b.Shape
		c.SolveCollisions(cloth.CollisionSolverFunc(func(p math.Vec3) (math.Vec3, bool) {
			return collider.resolve(shape, p, push)
		}))
	}
	return bodies
}

// Dampen applies the collider dampening to the touched bodies.
func (w *World) Dampen(collider Collider, touched []*Body) {
	if collider.DampenOthers == nil {
		return
	}
	for _, b := range touched {
		b.Velocity = b.Velocity.Scale(1 - *collider.DampenOthers)
	}
}

// Integrate moves every body by its velocity.
func (w *World) Integrate(dt float32) {
	for _, b := range w.Bodies {
		if b.Shape == nil || b.Velocity == (math.Vec3{}) {
			continue
		}
		b.Shape.Translate(b.Velocity.Scale(dt))
	}
}

func (w *World) log() *zap.Logger {
	if w.Logger == nil {
		return zap.NewNop()
	}
	return w.Logger
}
