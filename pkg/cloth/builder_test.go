package cloth

import (
	"errors"
	"testing"

	"github.com/Faultbox/drape/pkg/math"
	"github.com/Faultbox/drape/pkg/mesh"
)

func TestBuilderDefaults(t *testing.T) {
	b := NewBuilder()
	if b.StickGeneration != StickQuads {
		t.Errorf("expected quads, got %s", b.StickGeneration)
	}
	if b.StickLen != AutoStickLen() {
		t.Errorf("expected auto stick length, got %+v", b.StickLen)
	}
	if b.StickMode != FixedStickMode() {
		t.Errorf("expected fixed sticks, got %+v", b.StickMode)
	}
	if b.NormalMode != NormalsSmooth {
		t.Errorf("expected smooth normals, got %s", b.NormalMode)
	}
}

func TestBuilderPropagatesErrors(t *testing.T) {
	_, _, err := NewBuilder().Build(mesh.New(), math.Identity())
	if !errors.Is(err, ErrMissingMeshAttribute) {
		t.Errorf("expected ErrMissingMeshAttribute, got %v", err)
	}
}

func TestBuilderColorAnchors(t *testing.T) {
	red := [4]float32{1, 0, 0, 1}
	white := [4]float32{1, 1, 1, 1}

	m := mesh.Rectangle(2, 2, math.UnitX, math.UnitY.Neg(), math.UnitZ)
	m.InsertAttribute(mesh.AttributeColor, mesh.Float32x4{red, red, white, white})

	target := TargetID(5)
	c, _, err := NewBuilder().
		PinVertexColors(red).
		AnchorVertexIDs(VertexAnchor{CustomTarget: target}, 1).
		Build(m, math.Identity())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	for i, want := range []bool{true, true, false, false} {
		if got := c.IsAnchored(i); got != want {
			t.Errorf("vertex %d: anchored = %v, want %v", i, got, want)
		}
	}
	a, _ := c.Anchor(1)
	if a.CustomTarget != target {
		t.Errorf("vertex id anchors should override color anchors, got target %d", a.CustomTarget)
	}
}

func TestBuilderColorAnchorsWithoutColors(t *testing.T) {
	m := mesh.Rectangle(2, 2, math.UnitX, math.UnitY.Neg(), math.UnitZ)
	c, _, err := NewBuilder().PinVertexColors([4]float32{1, 0, 0, 1}).Build(m, math.Identity())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	for i := 0; i < c.VertexCount(); i++ {
		if c.IsAnchored(i) {
			t.Errorf("vertex %d should not be anchored", i)
		}
	}
}

func TestBuilderStickSettings(t *testing.T) {
	m := mesh.Rectangle(4, 4, math.UnitX, math.UnitY.Neg(), math.UnitZ)
	b := NewBuilder()
	b.StickGeneration = StickTriangles
	b.StickLen = FixedStickLen(0.5)
	b.StickMode = SpringStickMode(0.9, 1.1)

	c, rd, err := b.Build(m, math.Identity())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(c.Sticks()) != StickCount(4, 4, StickTriangles) {
		t.Errorf("expected %d sticks, got %d", StickCount(4, 4, StickTriangles), len(c.Sticks()))
	}
	for _, s := range c.Sticks() {
		if s.Length != 0.5 || s.Mode != b.StickMode {
			t.Fatalf("unexpected stick %+v", s)
		}
	}
	if len(rd.Positions) != c.VertexCount() {
		t.Errorf("render data has %d vertices, cloth has %d", len(rd.Positions), c.VertexCount())
	}
}
