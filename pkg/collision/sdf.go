package collision

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/Faultbox/drape/pkg/cloth"
	"github.com/Faultbox/drape/pkg/math"
)

const (
	gradientStep   = 1e-4
	projectionIter = 4
	surfaceEpsilon = 1e-6
)

// SDF is a shape described by a signed distance field, negative inside.
type SDF struct {
	s sdf.SDF3
	// offset is the translation accumulated by World.Integrate.
	offset v3.Vec
}

// NewSDF wraps a distance field. Any sdfx solid (CSG included) can collide.
func NewSDF(s sdf.SDF3) *SDF {
	return &SDF{s: s}
}

// SDFSphere returns a sphere distance field.
func SDFSphere(center math.Vec3, radius float32) (*SDF, error) {
	s, err := sdf.Sphere3D(float64(radius))
	if err != nil {
		return nil, fmt.Errorf("sphere collider: %w", err)
	}
	return NewSDF(sdf.Transform3D(s, sdf.Translate3d(toV3(center)))), nil
}

// SDFBox returns a box distance field with rounded edges.
func SDFBox(center, size math.Vec3, round float32) (*SDF, error) {
	s, err := sdf.Box3D(toV3(size), float64(round))
	if err != nil {
		return nil, fmt.Errorf("box collider: %w", err)
	}
	return NewSDF(sdf.Transform3D(s, sdf.Translate3d(toV3(center)))), nil
}

// SDFCylinder returns a Z aligned cylinder distance field.
func SDFCylinder(center math.Vec3, height, radius, round float32) (*SDF, error) {
	s, err := sdf.Cylinder3D(float64(height), float64(radius), float64(round))
	if err != nil {
		return nil, fmt.Errorf("cylinder collider: %w", err)
	}
	return NewSDF(sdf.Transform3D(s, sdf.Translate3d(toV3(center)))), nil
}

// Distance returns the signed distance from p to the surface.
func (s *SDF) Distance(p math.Vec3) float32 {
	return float32(s.eval(toV3(p)))
}

func (s *SDF) eval(p v3.Vec) float64 {
	return s.s.Evaluate(p.Sub(s.offset))
}

// Translate implements Shape.
func (s *SDF) Translate(d math.Vec3) {
	s.offset = s.offset.Add(toV3(d))
}

// gradient returns the normalized distance gradient at p.
func (s *SDF) gradient(p v3.Vec) (v3.Vec, bool) {
	dx := v3.Vec{X: gradientStep}
	dy := v3.Vec{Y: gradientStep}
	dz := v3.Vec{Z: gradientStep}
	g := v3.Vec{
		X: s.eval(p.Add(dx)) - s.eval(p.Sub(dx)),
		Y: s.eval(p.Add(dy)) - s.eval(p.Sub(dy)),
		Z: s.eval(p.Add(dz)) - s.eval(p.Sub(dz)),
	}
	l := g.Length()
	if l == 0 {
		return v3.Vec{}, false
	}
	return g.DivScalar(l), true
}

// ProjectPoint implements Shape. The surface point is found by walking down
// the distance gradient.
func (s *SDF) ProjectPoint(p math.Vec3) Projection {
	q := toV3(p)
	d := s.eval(q)
	inside := d < 0

	n := v3.Vec{Y: 1}
	for i := 0; i < projectionIter; i++ {
		if g, ok := s.gradient(q); ok {
			n = g
		}
		q = q.Sub(n.MulScalar(d))
		d = s.eval(q)
		if d > -surfaceEpsilon && d < surfaceEpsilon {
			break
		}
	}
	if g, ok := s.gradient(q); ok {
		n = g
	}

	return Projection{Point: fromV3(q), Normal: fromV3(n), Inside: inside}
}

// Bounds implements Shape.
func (s *SDF) Bounds() cloth.AABB {
	bb := s.s.BoundingBox()
	lo, hi := fromV3(bb.Min.Add(s.offset)), fromV3(bb.Max.Add(s.offset))
	return cloth.AABB{
		Center:      lo.Add(hi).Scale(0.5),
		HalfExtents: hi.Sub(lo).Scale(0.5),
	}
}

func toV3(v math.Vec3) v3.Vec {
	return v3.Vec{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}

func fromV3(v v3.Vec) math.Vec3 {
	return math.Vec3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}
