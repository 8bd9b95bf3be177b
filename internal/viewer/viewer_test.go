package viewer

import (
	"testing"

	"github.com/Faultbox/drape/pkg/collision"
	"github.com/Faultbox/drape/pkg/math"
)

func TestSphereModel(t *testing.T) {
	ball := &collision.Sphere{Center: math.Vec3{X: 1, Y: 2, Z: 3}, Radius: 2}
	model, ok := sphereModel(ball)
	if !ok {
		t.Fatal("sphere body should be drawn as a sphere")
	}

	tests := []struct {
		name string
		p    math.Vec3
		want math.Vec3
	}{
		{"center", math.Vec3{}, math.Vec3{X: 1, Y: 2, Z: 3}},
		{"top", math.Vec3{Y: 1}, math.Vec3{X: 1, Y: 4, Z: 3}},
		{"side", math.Vec3{X: -1}, math.Vec3{X: -1, Y: 2, Z: 3}},
	}
	for _, tt := range tests {
		got := model.TransformVec3(tt.p)
		if got.Sub(tt.want).Length() > 1e-5 {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}

	if _, ok := sphereModel(&collision.Box{HalfExtents: math.Splat(1)}); ok {
		t.Error("box body should be drawn as its bounds")
	}
}
