package cloth

import (
	"errors"
	"testing"

	"github.com/Faultbox/drape/pkg/math"
	"github.com/Faultbox/drape/pkg/mesh"
)

func quad() *mesh.Mesh {
	return mesh.Rectangle(3, 3, math.Vec3{X: 1}, math.Vec3{Y: -1}, math.UnitZ)
}

func TestNewRenderDataErrors(t *testing.T) {
	noIndices := mesh.New()
	noIndices.InsertAttribute(mesh.AttributePosition, mesh.Float32x3{{0, 0, 0}})

	wrongFormat := mesh.New()
	wrongFormat.InsertAttribute(mesh.AttributePosition, mesh.Float32x4{{0, 0, 0, 1}})
	wrongFormat.SetIndices(mesh.IndicesU16{0, 0, 0})

	badUVs := quad()
	badUVs.InsertAttribute(mesh.AttributeUV0, mesh.Float32x2{{0, 0}})

	badColors := quad()
	badColors.InsertAttribute(mesh.AttributeColor, mesh.Float32x2{{0, 0}})

	tests := []struct {
		name string
		mesh *mesh.Mesh
		want error
	}{
		{"missing positions", mesh.New(), ErrMissingMeshAttribute},
		{"missing indices", noIndices, ErrMissingIndices},
		{"wrong position format", wrongFormat, ErrUnsupportedPositionFormat},
		{"uv count mismatch", badUVs, ErrInvalidMeshAttribute},
		{"color format", badColors, ErrInvalidMeshAttribute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRenderData(tt.mesh, NormalsSmooth)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestNewRenderDataColors(t *testing.T) {
	tests := []struct {
		name   string
		colors mesh.VertexAttributeValues
		want   [4]float32
	}{
		{"rgba", mesh.Float32x4{{0.5, 0.25, 1, 0.5}}, [4]float32{0.5, 0.25, 1, 0.5}},
		{"rgb", mesh.Float32x3{{0.5, 0.25, 1}}, [4]float32{0.5, 0.25, 1, 1}},
		{"bytes", mesh.Uint8x4{{255, 0, 255, 0}}, [4]float32{1, 0, 1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mesh.New()
			m.InsertAttribute(mesh.AttributePosition, mesh.Float32x3{{0, 0, 0}})
			m.InsertAttribute(mesh.AttributeColor, tt.colors)
			m.SetIndices(mesh.IndicesU32{0, 0, 0})

			rd, err := NewRenderData(m, NormalsNone)
			if err != nil {
				t.Fatalf("NewRenderData failed: %v", err)
			}
			if rd.Colors[0] != tt.want {
				t.Errorf("got %v, want %v", rd.Colors[0], tt.want)
			}
		})
	}
}

func TestFlatNormalsDuplication(t *testing.T) {
	m := quad()
	rd, err := NewRenderData(m, NormalsFlat)
	if err != nil {
		t.Fatalf("NewRenderData failed: %v", err)
	}
	original := len(rd.Indices)

	d := rd.Duplicated()
	if len(d.Positions) != original {
		t.Errorf("expected %d duplicated vertices, got %d", original, len(d.Positions))
	}
	if len(d.Indices) != len(d.Positions) {
		t.Errorf("expected %d indices, got %d", len(d.Positions), len(d.Indices))
	}
	for i, idx := range d.Indices {
		if idx != uint32(i) {
			t.Fatalf("index %d: expected sequential value, got %d", i, idx)
		}
	}
	if len(d.UVs) != original {
		t.Errorf("expected %d duplicated UVs, got %d", original, len(d.UVs))
	}

	rd.Apply(m)
	if got := m.VertexCount(); got != original {
		t.Errorf("mesh: expected %d vertices, got %d", original, got)
	}
	if got := m.Indices().Len(); got != original {
		t.Errorf("mesh: expected %d indices, got %d", original, got)
	}
	normals, ok := m.Attribute(mesh.AttributeNormal)
	if !ok || normals.Len() != original {
		t.Fatalf("mesh: expected %d normals", original)
	}
	for i, n := range normals.(mesh.Float32x3) {
		if !vecNear(math.FromArray(n), math.UnitZ, 1e-6) {
			t.Errorf("normal %d: got %v, want +Z", i, n)
		}
	}
}

func TestSmoothNormals(t *testing.T) {
	rd, err := NewRenderData(quad(), NormalsSmooth)
	if err != nil {
		t.Fatalf("NewRenderData failed: %v", err)
	}

	normals := rd.SmoothNormals()
	if len(normals) != len(rd.Positions) {
		t.Fatalf("expected %d normals, got %d", len(rd.Positions), len(normals))
	}
	for i, n := range normals {
		if !vecNear(n, math.UnitZ, 1e-6) {
			t.Errorf("normal %d: got %v, want +Z", i, n)
		}
	}
}

func TestSmoothNormalsAverageFaces(t *testing.T) {
	// Two triangles folded at a right angle along the shared edge 0-1.
	rd := &RenderData{
		Positions: []math.Vec3{{}, {X: 1}, {Y: 1}, {Z: 1}},
		Indices:   []uint32{0, 1, 2, 1, 0, 3},
	}
	normals := rd.SmoothNormals()

	want := math.Vec3{Y: 0.5, Z: 0.5}
	for _, i := range []int{0, 1} {
		if !vecNear(normals[i], want, 1e-6) {
			t.Errorf("shared vertex %d: got %v, want %v", i, normals[i], want)
		}
	}
	if !vecNear(normals[2], math.UnitZ, 1e-6) {
		t.Errorf("vertex 2: got %v, want +Z", normals[2])
	}
}

func TestApplyKeepsIndicesWithoutDuplication(t *testing.T) {
	for _, mode := range []NormalMode{NormalsSmooth, NormalsNone} {
		m := quad()
		before := m.Indices().Len()
		rd, err := NewRenderData(m, mode)
		if err != nil {
			t.Fatalf("NewRenderData failed: %v", err)
		}

		positions := make([]math.Vec3, len(rd.Positions))
		for i := range positions {
			positions[i] = math.Vec3{X: float32(i)}
		}
		rd.UpdatePositions(positions)
		rd.Apply(m)

		if got := m.Indices().Len(); got != before {
			t.Errorf("%s: indices changed from %d to %d", mode, before, got)
		}
		pos, _ := m.Positions()
		if pos[4] != [3]float32{4, 0, 0} {
			t.Errorf("%s: vertex 4 = %v, want [4 0 0]", mode, pos[4])
		}
	}
}

func TestUpdatePositionsPanicsOnMismatch(t *testing.T) {
	rd, err := NewRenderData(quad(), NormalsNone)
	if err != nil {
		t.Fatalf("NewRenderData failed: %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Error("expected panic on vertex count mismatch")
		}
	}()
	rd.UpdatePositions(make([]math.Vec3, 2))
}

func TestRenderDataAABB(t *testing.T) {
	rd, err := NewRenderData(quad(), NormalsNone)
	if err != nil {
		t.Fatalf("NewRenderData failed: %v", err)
	}
	box := rd.ComputeAABB(0.5)
	if !vecNear(box.Center, math.Vec3{X: 1, Y: -1}, 1e-6) {
		t.Errorf("center: got %v", box.Center)
	}
	if !vecNear(box.HalfExtents, math.Vec3{X: 1.5, Y: 1.5, Z: 0.5}, 1e-6) {
		t.Errorf("half extents: got %v", box.HalfExtents)
	}
	if !box.Contains(math.Vec3{X: 2.4}) || box.Contains(math.Vec3{X: 3}) {
		t.Error("Contains disagrees with the box bounds")
	}
	if !box.Intersects(AABB{Center: math.Vec3{X: 3.5}, HalfExtents: math.One}) {
		t.Error("touching boxes should intersect")
	}
}

func TestRenderFromCloth(t *testing.T) {
	m := quad()
	transform := math.Translate(3, 0, 0)
	c, rd, err := NewBuilder().PinVertexIDs(0).Build(m, transform)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	cfg := DefaultConfig()
	for i := 0; i < 30; i++ {
		c.Step(1.0/60, transform, &cfg, math.Vec3{}, nil, nil)
	}

	rd.UpdatePositions(c.VertexPositions(transform))
	if rd.Positions[0] != (math.Vec3{}) {
		t.Errorf("pinned vertex 0 should stay at the origin, got %v", rd.Positions[0])
	}
	rest := math.Vec3{X: 2, Y: -2}
	if rd.Positions[8].Distance(rest) < 1e-3 {
		t.Errorf("free corner should swing away from its rest position, got %v", rd.Positions[8])
	}
	for i, p := range rd.Positions {
		if !p.IsFinite() {
			t.Errorf("vertex %d is not finite: %v", i, p)
		}
	}
}
