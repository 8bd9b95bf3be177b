// Package lighting provides the directional light of the viewer.
package lighting

import (
	gomath "math"

	"github.com/Faultbox/drape/pkg/math"
)

// Sun is a directional light.
type Sun struct {
	// Azimuth is the rotation around Y in degrees, 0 facing +Z.
	Azimuth float32
	// Elevation is the angle above the horizon in degrees.
	Elevation float32
	Color     math.Vec3
	Ambient   math.Vec3
}

// DefaultSun returns a warm light from the upper front right.
func DefaultSun() Sun {
	return Sun{
		Azimuth:   35,
		Elevation: 50,
		Color:     math.Vec3{X: 1, Y: 0.96, Z: 0.9},
		Ambient:   math.Vec3{X: 0.25, Y: 0.25, Z: 0.3},
	}
}

// Direction returns the normalized vector pointing towards the sun.
func (s Sun) Direction() math.Vec3 {
	az := float64(s.Azimuth) * gomath.Pi / 180
	el := float64(s.Elevation) * gomath.Pi / 180
	return math.Vec3{
		X: float32(gomath.Cos(el) * gomath.Sin(az)),
		Y: float32(gomath.Sin(el)),
		Z: float32(gomath.Cos(el) * gomath.Cos(az)),
	}
}
