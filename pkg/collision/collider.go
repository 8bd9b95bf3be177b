package collision

import "github.com/Faultbox/drape/pkg/math"

// DefaultColliderOffset is the default distance kept between cloth points and
// collider surfaces.
const DefaultColliderOffset = 0.25

// Collider holds the collision settings of a cloth.
type Collider struct {
	// Offset is kept between points and surfaces, and grows the cloth
	// bounding box used for broad phase.
	Offset float32 `yaml:"offset"`
	// VelocityCoefficient scales how far points are pushed by moving bodies.
	VelocityCoefficient float32 `yaml:"velocity_coefficient"`
	// DampenOthers is the share of velocity removed from every body touching
	// the cloth. 0 keeps the velocity, 1 stops the body.
	DampenOthers *float32 `yaml:"dampen_others,omitempty"`
}

// DefaultCollider returns the default collision settings.
func DefaultCollider() Collider {
	return Collider{
		Offset:              DefaultColliderOffset,
		VelocityCoefficient: 1,
	}
}

// resolve moves p out of shape. push is the extra distance given by the body
// velocity.
func (c Collider) resolve(shape Shape, p math.Vec3, push float32) (math.Vec3, bool) {
	proj := shape.ProjectPoint(p)
	if proj.Inside {
		return proj.Point.Add(proj.Normal.Scale(c.Offset + push)), true
	}
	if proj.Point.DistanceSquared(p) < c.Offset*c.Offset {
		return proj.Point.Add(proj.Normal.Scale(c.Offset)), true
	}
	return p, false
}
