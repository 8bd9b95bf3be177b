package cloth

import "github.com/Faultbox/drape/pkg/math"

// TargetID is an opaque reference to a host object an anchor can follow.
type TargetID uint64

// NoTarget makes an anchor follow the cloth's own transform.
const NoTarget TargetID = 0

// AnchorLookup resolves anchor targets to world transforms.
type AnchorLookup interface {
	// AnchorTransform returns the world matrix of target, or false if the
	// target does not exist.
	AnchorTransform(target TargetID) (math.Mat4, bool)
}

// AnchorLookupFunc adapts a function to AnchorLookup.
type AnchorLookupFunc func(target TargetID) (math.Mat4, bool)

// AnchorTransform calls f(target).
func (f AnchorLookupFunc) AnchorTransform(target TargetID) (math.Mat4, bool) {
	return f(target)
}

// VertexAnchor pins a cloth point to a transform.
type VertexAnchor struct {
	// CustomTarget is the followed object. NoTarget follows the cloth itself.
	CustomTarget TargetID
	// CustomOffset is added to the local position when set.
	CustomOffset *math.Vec3
	// IgnoreVertexPosition drops the original vertex position from the
	// local position, leaving only CustomOffset.
	IgnoreVertexPosition bool
}

// localPosition returns the anchor position in the target's local space.
func (a VertexAnchor) localPosition(original math.Vec3) math.Vec3 {
	var p math.Vec3
	if !a.IgnoreVertexPosition {
		p = original
	}
	if a.CustomOffset != nil {
		p = p.Add(*a.CustomOffset)
	}
	return p
}

// Position returns the world position of an anchored point whose mesh space
// position at construction was original. It returns false when the custom
// target cannot be resolved.
func (a VertexAnchor) Position(original math.Vec3, self math.Mat4, lookup AnchorLookup) (math.Vec3, bool) {
	matrix := self
	if a.CustomTarget != NoTarget {
		if lookup == nil {
			return math.Vec3{}, false
		}
		m, ok := lookup.AnchorTransform(a.CustomTarget)
		if !ok {
			return math.Vec3{}, false
		}
		matrix = m
	}
	return matrix.TransformVec3(a.localPosition(original)), true
}

// anchoredPoint is an anchor and the mesh space position of its vertex.
type anchoredPoint struct {
	anchor   VertexAnchor
	original math.Vec3
}
