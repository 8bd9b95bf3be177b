package collision

import (
	"testing"

	"github.com/Faultbox/drape/pkg/cloth"
	"github.com/Faultbox/drape/pkg/math"
	"github.com/Faultbox/drape/pkg/mesh"
)

func vecNear(a, b math.Vec3, eps float32) bool {
	return abs(a.X-b.X) < eps && abs(a.Y-b.Y) < eps && abs(a.Z-b.Z) < eps
}

func TestSphereProjectPoint(t *testing.T) {
	s := Sphere{Center: math.Vec3{Y: 1}, Radius: 2}

	tests := []struct {
		name   string
		p      math.Vec3
		point  math.Vec3
		normal math.Vec3
		inside bool
	}{
		{"inside", math.Vec3{X: 1, Y: 1}, math.Vec3{X: 2, Y: 1}, math.UnitX, true},
		{"outside", math.Vec3{Y: 5}, math.Vec3{Y: 3}, math.UnitY, false},
		{"center", math.Vec3{Y: 1}, math.Vec3{Y: 3}, math.UnitY, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.ProjectPoint(tt.p)
			if !vecNear(got.Point, tt.point, 1e-6) {
				t.Errorf("point: got %v, want %v", got.Point, tt.point)
			}
			if !vecNear(got.Normal, tt.normal, 1e-6) {
				t.Errorf("normal: got %v, want %v", got.Normal, tt.normal)
			}
			if got.Inside != tt.inside {
				t.Errorf("inside: got %v, want %v", got.Inside, tt.inside)
			}
		})
	}
}

func TestBoxProjectPoint(t *testing.T) {
	b := Box{Center: math.Vec3{}, HalfExtents: math.Vec3{X: 2, Y: 1, Z: 1}}

	tests := []struct {
		name   string
		p      math.Vec3
		point  math.Vec3
		normal math.Vec3
		inside bool
	}{
		{"inside near top", math.Vec3{X: 0.5, Y: 0.8}, math.Vec3{X: 0.5, Y: 1}, math.UnitY, true},
		{"inside near -x", math.Vec3{X: -1.9}, math.Vec3{X: -2}, math.UnitX.Neg(), true},
		{"outside above", math.Vec3{X: 1, Y: 3}, math.Vec3{X: 1, Y: 1}, math.UnitY, false},
		{"outside corner", math.Vec3{X: 3, Y: 2, Z: 0}, math.Vec3{X: 2, Y: 1}, math.Vec3{X: 1, Y: 1}.Normalize(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := b.ProjectPoint(tt.p)
			if !vecNear(got.Point, tt.point, 1e-6) {
				t.Errorf("point: got %v, want %v", got.Point, tt.point)
			}
			if !vecNear(got.Normal, tt.normal, 1e-6) {
				t.Errorf("normal: got %v, want %v", got.Normal, tt.normal)
			}
			if got.Inside != tt.inside {
				t.Errorf("inside: got %v, want %v", got.Inside, tt.inside)
			}
		})
	}
}

func TestSDFMatchesSphere(t *testing.T) {
	center := math.Vec3{X: 1, Y: -1, Z: 0.5}
	field, err := SDFSphere(center, 1.5)
	if err != nil {
		t.Fatalf("SDFSphere failed: %v", err)
	}
	analytic := Sphere{Center: center, Radius: 1.5}

	for _, p := range []math.Vec3{
		{X: 1, Y: -1, Z: 1},
		{X: 3, Y: 0, Z: 0},
		{X: 0.2, Y: -1.5, Z: 0.1},
	} {
		want := analytic.ProjectPoint(p)
		got := field.ProjectPoint(p)
		if !vecNear(got.Point, want.Point, 1e-3) {
			t.Errorf("%v: point %v, want %v", p, got.Point, want.Point)
		}
		if !vecNear(got.Normal, want.Normal, 1e-3) {
			t.Errorf("%v: normal %v, want %v", p, got.Normal, want.Normal)
		}
		if got.Inside != want.Inside {
			t.Errorf("%v: inside %v, want %v", p, got.Inside, want.Inside)
		}
	}

	if d := field.Distance(center); abs(d+1.5) > 1e-5 {
		t.Errorf("distance at center: got %f, want -1.5", d)
	}
}

func TestSDFBounds(t *testing.T) {
	field, err := SDFBox(math.Vec3{Y: 2}, math.Vec3{X: 2, Y: 4, Z: 6}, 0)
	if err != nil {
		t.Fatalf("SDFBox failed: %v", err)
	}
	box := field.Bounds()
	if !vecNear(box.Center, math.Vec3{Y: 2}, 1e-5) {
		t.Errorf("center: got %v", box.Center)
	}
	if !vecNear(box.HalfExtents, math.Vec3{X: 1, Y: 2, Z: 3}, 1e-5) {
		t.Errorf("half extents: got %v", box.HalfExtents)
	}

	field.Translate(math.Vec3{X: 5})
	if c := field.Bounds().Center; !vecNear(c, math.Vec3{X: 5, Y: 2}, 1e-5) {
		t.Errorf("translated center: got %v", c)
	}
	if d := field.Distance(math.Vec3{X: 5, Y: 2}); abs(d+1) > 1e-5 {
		t.Errorf("translated distance: got %f, want -1", d)
	}
}

func TestColliderResolve(t *testing.T) {
	s := &Sphere{Radius: 1}
	c := DefaultCollider()

	tests := []struct {
		name  string
		p     math.Vec3
		push  float32
		want  math.Vec3
		moved bool
	}{
		{"inside", math.Vec3{Y: 0.5}, 0, math.Vec3{Y: 1.25}, true},
		{"inside with velocity", math.Vec3{Y: 0.5}, 0.5, math.Vec3{Y: 1.75}, true},
		{"within offset", math.Vec3{Y: 1.1}, 0, math.Vec3{Y: 1.25}, true},
		{"far", math.Vec3{Y: 2}, 0, math.Vec3{Y: 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, moved := c.resolve(s, tt.p, tt.push)
			if moved != tt.moved {
				t.Errorf("moved: got %v, want %v", moved, tt.moved)
			}
			if !vecNear(got, tt.want, 1e-6) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWorldCandidates(t *testing.T) {
	w := NewWorld(nil)
	w.Add(&Body{Name: "near", Shape: &Sphere{Radius: 1}})
	w.Add(&Body{Name: "far", Shape: &Sphere{Center: math.Vec3{X: 100}, Radius: 1}})
	w.Add(&Body{Name: "broken"})

	got := w.Candidates(cloth.AABB{HalfExtents: math.One})
	if len(got) != 1 || got[0].Name != "near" {
		t.Errorf("expected only the near body, got %d bodies", len(got))
	}
}

func TestResolveClothOnSphere(t *testing.T) {
	m := mesh.Rectangle(10, 10, math.Vec3{X: 0.2}, math.Vec3{Z: 0.2}, math.UnitY)
	transform := math.Translate(-0.9, 1.2, -0.9)
	c, _, err := cloth.NewBuilder().Build(m, transform)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	w := NewWorld(nil)
	ball := &Body{Name: "ball", Shape: &Sphere{Radius: 1}}
	w.Add(ball)
	collider := DefaultCollider()
	cfg := cloth.DefaultConfig()

	const dt = 1.0 / 60
	for i := 0; i < 120; i++ {
		c.Step(dt, transform, &cfg, math.Vec3{}, nil, nil)
		w.ResolveCloth(c, collider, dt)
	}

	for i, p := range c.Points() {
		if p.Length() < 1+collider.Offset-1e-3 {
			t.Errorf("point %d at %v is inside the collider", i, p)
		}
	}
}

func TestDampen(t *testing.T) {
	w := NewWorld(nil)
	b := &Body{Name: "ball", Shape: &Sphere{Radius: 1}, Velocity: math.Vec3{X: 10}}
	w.Add(b)

	w.Dampen(DefaultCollider(), []*Body{b})
	if b.Velocity.X != 10 {
		t.Errorf("no dampening configured, velocity changed to %v", b.Velocity)
	}

	tests := []struct {
		name   string
		dampen float32
		want   float32
	}{
		{"removes share", 0.2, 8},
		{"keeps velocity", 0, 10},
		{"stops body", 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Body{Name: "ball", Shape: &Sphere{Radius: 1}, Velocity: math.Vec3{X: 10}}
			collider := DefaultCollider()
			collider.DampenOthers = &tt.dampen
			w.Dampen(collider, []*Body{b})
			if abs(b.Velocity.X-tt.want) > 1e-5 {
				t.Errorf("dampen %v: got velocity %v, want %v", tt.dampen, b.Velocity.X, tt.want)
			}
		})
	}
}

func TestIntegrateMovesShapes(t *testing.T) {
	w := NewWorld(nil)
	sphere := &Sphere{Radius: 1}
	box := &Box{HalfExtents: math.Splat(1)}
	field, err := SDFSphere(math.Vec3{}, 1)
	if err != nil {
		t.Fatalf("SDFSphere failed: %v", err)
	}
	w.Add(&Body{Shape: sphere, Velocity: math.Vec3{X: 2}})
	w.Add(&Body{Shape: box, Velocity: math.Vec3{Z: -4}})
	w.Add(&Body{Shape: field, Velocity: math.Vec3{Y: 2}})

	w.Integrate(0.5)

	if sphere.Center != (math.Vec3{X: 1}) {
		t.Errorf("sphere center: got %v", sphere.Center)
	}
	if box.Center != (math.Vec3{Z: -2}) {
		t.Errorf("box center: got %v", box.Center)
	}
	if d := field.Distance(math.Vec3{Y: 1}); abs(d+1) > 1e-5 {
		t.Errorf("field should be centered at (0, 1, 0), distance there is %f", d)
	}
}
