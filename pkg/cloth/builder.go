package cloth

import (
	"go.uber.org/zap"

	"github.com/Faultbox/drape/pkg/math"
	"github.com/Faultbox/drape/pkg/mesh"
)

// ColorAnchor anchors every vertex whose color equals Color.
type ColorAnchor struct {
	Color  [4]float32
	Anchor VertexAnchor
}

// Builder collects the construction settings of a cloth. The zero value
// builds a cloth with quad sticks, automatic lengths, fixed sticks and
// smooth normals.
type Builder struct {
	// AnchoredVertexIDs anchors vertices by id. These take precedence over
	// AnchoredColors.
	AnchoredVertexIDs map[int]VertexAnchor
	AnchoredColors    []ColorAnchor

	StickGeneration StickGeneration
	StickLen        StickLen
	StickMode       StickMode
	NormalMode      NormalMode

	Logger *zap.Logger
}

// NewBuilder returns a builder with default settings.
func NewBuilder() *Builder {
	return &Builder{
		StickGeneration: StickQuads,
		StickLen:        AutoStickLen(),
		StickMode:       FixedStickMode(),
		NormalMode:      NormalsSmooth,
	}
}

// AnchorVertexIDs anchors the given vertices with anchor.
func (b *Builder) AnchorVertexIDs(anchor VertexAnchor, ids ...int) *Builder {
	if b.AnchoredVertexIDs == nil {
		b.AnchoredVertexIDs = make(map[int]VertexAnchor, len(ids))
	}
	for _, id := range ids {
		b.AnchoredVertexIDs[id] = anchor
	}
	return b
}

// PinVertexIDs anchors the given vertices to the cloth transform.
func (b *Builder) PinVertexIDs(ids ...int) *Builder {
	return b.AnchorVertexIDs(VertexAnchor{}, ids...)
}

// AnchorVertexColors anchors every vertex matching one of colors with anchor.
func (b *Builder) AnchorVertexColors(anchor VertexAnchor, colors ...[4]float32) *Builder {
	for _, c := range colors {
		b.AnchoredColors = append(b.AnchoredColors, ColorAnchor{Color: c, Anchor: anchor})
	}
	return b
}

// PinVertexColors anchors every vertex matching one of colors to the cloth
// transform.
func (b *Builder) PinVertexColors(colors ...[4]float32) *Builder {
	return b.AnchorVertexColors(VertexAnchor{}, colors...)
}

// Build reads m and creates the cloth at the given world transform, along
// with its render data.
func (b *Builder) Build(m *mesh.Mesh, transform math.Mat4) (*Cloth, *RenderData, error) {
	log := b.Logger
	if log == nil {
		log = zap.NewNop()
	}

	rd, err := NewRenderData(m, b.NormalMode)
	if err != nil {
		return nil, nil, err
	}

	anchors := make(map[int]VertexAnchor, len(b.AnchoredVertexIDs))
	if len(b.AnchoredColors) > 0 {
		if rd.Colors == nil {
			log.Warn("cloth has color anchors but the mesh has no vertex colors",
				zap.Int("color_anchors", len(b.AnchoredColors)))
		}
		for i, color := range rd.Colors {
			for _, ca := range b.AnchoredColors {
				if color == ca.Color {
					anchors[i] = ca.Anchor
					break
				}
			}
		}
	}
	for id, a := range b.AnchoredVertexIDs {
		anchors[id] = a
	}

	c := New(rd.Positions, rd.Indices, transform, Options{
		Anchors:         anchors,
		StickGeneration: b.StickGeneration,
		StickLen:        b.StickLen,
		StickMode:       b.StickMode,
		Logger:          log,
	})
	return c, rd, nil
}
