package cloth

import "github.com/Faultbox/drape/pkg/math"

// AABB is an axis aligned bounding box.
type AABB struct {
	Center      math.Vec3
	HalfExtents math.Vec3
}

// ComputeAABB returns the bounding box of points with every half extent
// grown by offset. It returns a zero box for no points.
func ComputeAABB(points []math.Vec3, offset float32) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return AABB{
		Center:      lo.Add(hi).Scale(0.5),
		HalfExtents: hi.Sub(lo).Scale(0.5).Add(math.Splat(offset)),
	}
}

// Min returns the minimum corner.
func (b AABB) Min() math.Vec3 { return b.Center.Sub(b.HalfExtents) }

// Max returns the maximum corner.
func (b AABB) Max() math.Vec3 { return b.Center.Add(b.HalfExtents) }

// Contains reports whether p is inside the box, borders included.
func (b AABB) Contains(p math.Vec3) bool {
	lo, hi := b.Min(), b.Max()
	return p.X >= lo.X && p.X <= hi.X &&
		p.Y >= lo.Y && p.Y <= hi.Y &&
		p.Z >= lo.Z && p.Z <= hi.Z
}

// Intersects reports whether both boxes overlap.
func (b AABB) Intersects(o AABB) bool {
	d := b.Center.Sub(o.Center).Abs()
	e := b.HalfExtents.Add(o.HalfExtents)
	return d.X <= e.X && d.Y <= e.Y && d.Z <= e.Z
}
