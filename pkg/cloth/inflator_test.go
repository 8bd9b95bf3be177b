package cloth

import (
	"testing"

	"github.com/Faultbox/drape/pkg/math"
	"github.com/Faultbox/drape/pkg/mesh"
)

func TestInflatorPivot(t *testing.T) {
	points := []math.Vec3{{}, {X: 2}, {X: 2, Y: 2}, {X: 10, Y: 2}}

	tests := []struct {
		name string
		in   Inflator
		want math.Vec3
	}{
		{"center", Inflator{Pivot: PivotCenter}, math.Vec3{X: 3.5, Y: 1}},
		{"aabb center", Inflator{Pivot: PivotAABBCenter}, math.Vec3{X: 5, Y: 1}},
		{"custom", Inflator{Pivot: PivotCustom, CustomPivot: math.Vec3{Z: 7}}, math.Vec3{Z: 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.PivotPosition(points); !vecNear(got, tt.want, 1e-6) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInflate(t *testing.T) {
	m := mesh.UVSphere(1, 8, 6)
	c, rd, err := NewBuilder().Build(m, math.Identity())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	vertices := c.VertexCount()
	sticks := len(c.Sticks())

	in := DefaultInflator()
	in.Amount = 1.2
	pivot := c.Inflate(in)

	if pivot != vertices {
		t.Errorf("expected pivot index %d, got %d", vertices, pivot)
	}
	if c.PointCount() != vertices+1 || c.VertexCount() != vertices {
		t.Errorf("expected %d points and %d vertices, got %d and %d",
			vertices+1, vertices, c.PointCount(), c.VertexCount())
	}
	if got := len(c.Sticks()); got != sticks+vertices {
		t.Errorf("expected %d sticks, got %d", sticks+vertices, got)
	}
	if c.IsAnchored(pivot) {
		t.Error("pivot should be free")
	}

	s, ok := c.Stick(0, pivot)
	if !ok {
		t.Fatal("expected a stick from vertex 0 to the pivot")
	}
	if abs(s.Length-1.2) > 1e-5 {
		t.Errorf("expected pivot stick length 1.2, got %f", s.Length)
	}

	cfg := NoGravityConfig()
	for i := 0; i < 20; i++ {
		c.Step(1.0/60, math.Identity(), &cfg, math.Vec3{}, nil, nil)
	}
	positions := c.VertexPositions(math.Identity())
	if len(positions) != vertices {
		t.Fatalf("expected %d rendered vertices, got %d", vertices, len(positions))
	}
	rd.UpdatePositions(positions)

	// The pivot sticks are solved last, so the final one always holds.
	pts := c.Points()
	if d := pts[vertices-1].Distance(pts[pivot]); d < 1.2-1e-4 {
		t.Errorf("last vertex should be pushed to 1.2 from the pivot, got %f", d)
	}
}
