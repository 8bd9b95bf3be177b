// Package collision is a small collision backend for cloths: analytic and
// signed distance field shapes that push cloth points out of their volume.
package collision

import (
	"github.com/Faultbox/drape/pkg/cloth"
	"github.com/Faultbox/drape/pkg/math"
)

// Projection is the closest surface point of a shape to a query point.
type Projection struct {
	Point math.Vec3
	// Normal is the outward surface normal at Point.
	Normal math.Vec3
	// Inside reports whether the query point is inside the shape.
	Inside bool
}

// Shape is a collision volume in world space.
type Shape interface {
	ProjectPoint(p math.Vec3) Projection
	Bounds() cloth.AABB
	// Translate moves the shape by d.
	Translate(d math.Vec3)
}

// Sphere is a solid ball.
type Sphere struct {
	Center math.Vec3
	Radius float32
}

// ProjectPoint implements Shape.
func (s Sphere) ProjectPoint(p math.Vec3) Projection {
	d := p.Sub(s.Center)
	n, ok := d.TryNormalize()
	if !ok {
		n = math.UnitY
	}
	return Projection{
		Point:  s.Center.Add(n.Scale(s.Radius)),
		Normal: n,
		Inside: d.LengthSquared() < s.Radius*s.Radius,
	}
}

// Bounds implements Shape.
func (s Sphere) Bounds() cloth.AABB {
	return cloth.AABB{Center: s.Center, HalfExtents: math.Splat(s.Radius)}
}

// Translate implements Shape.
func (s *Sphere) Translate(d math.Vec3) {
	s.Center = s.Center.Add(d)
}

// Box is an axis aligned solid box.
type Box struct {
	Center      math.Vec3
	HalfExtents math.Vec3
}

// ProjectPoint implements Shape.
func (b Box) ProjectPoint(p math.Vec3) Projection {
	q := p.Sub(b.Center)
	h := b.HalfExtents
	clamped := q.Max(h.Neg()).Min(h)

	if clamped != q {
		n, ok := q.Sub(clamped).TryNormalize()
		if !ok {
			n = math.UnitY
		}
		return Projection{Point: b.Center.Add(clamped), Normal: n}
	}

	// Inside: leave through the nearest face.
	local := [3]float32{q.X, q.Y, q.Z}
	half := [3]float32{h.X, h.Y, h.Z}
	axis, best := 0, half[0]-abs(local[0])
	for i := 1; i < 3; i++ {
		if d := half[i] - abs(local[i]); d < best {
			axis, best = i, d
		}
	}
	sign := float32(1)
	if local[axis] < 0 {
		sign = -1
	}
	local[axis] = sign * half[axis]
	var normal [3]float32
	normal[axis] = sign

	return Projection{
		Point:  b.Center.Add(math.FromArray(local)),
		Normal: math.FromArray(normal),
		Inside: true,
	}
}

// Bounds implements Shape.
func (b Box) Bounds() cloth.AABB {
	return cloth.AABB{Center: b.Center, HalfExtents: b.HalfExtents}
}

// Translate implements Shape.
func (b *Box) Translate(d math.Vec3) {
	b.Center = b.Center.Add(d)
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
