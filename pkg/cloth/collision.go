package cloth

import "github.com/Faultbox/drape/pkg/math"

// CollisionSolver is implemented by collision backends. SolvePoint receives a
// free point in world space and returns its corrected position, or false to
// leave it untouched.
type CollisionSolver interface {
	SolvePoint(p math.Vec3) (math.Vec3, bool)
}

// CollisionSolverFunc adapts a function to CollisionSolver.
type CollisionSolverFunc func(p math.Vec3) (math.Vec3, bool)

// SolvePoint calls f(p).
func (f CollisionSolverFunc) SolvePoint(p math.Vec3) (math.Vec3, bool) {
	return f(p)
}
