package cloth

import (
	"fmt"

	"github.com/Faultbox/drape/pkg/math"
	"github.com/Faultbox/drape/pkg/mesh"
)

// NormalMode selects how render normals are generated.
type NormalMode uint8

const (
	// NormalsSmooth averages adjacent face normals on shared vertices.
	NormalsSmooth NormalMode = iota
	// NormalsFlat duplicates vertices so each triangle gets its face normal.
	NormalsFlat
	// NormalsNone only writes positions.
	NormalsNone
)

var normalModeNames = map[NormalMode]string{
	NormalsSmooth: "smooth",
	NormalsFlat:   "flat",
	NormalsNone:   "none",
}

func (m NormalMode) String() string { return enumString(normalModeNames, m) }

// MarshalText implements encoding.TextMarshaler.
func (m NormalMode) MarshalText() ([]byte, error) { return enumMarshal(normalModeNames, m) }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *NormalMode) UnmarshalText(b []byte) error { return enumUnmarshal(normalModeNames, m, b) }

// RenderData is the mesh space vertex data of a cloth, regenerated after each
// tick and written back to the host mesh.
type RenderData struct {
	Positions []math.Vec3
	// UVs and Colors are nil when the mesh has none.
	UVs     [][2]float32
	Colors  [][4]float32
	Indices []uint32

	NormalMode NormalMode
}

// NewRenderData reads the vertex data of m.
func NewRenderData(m *mesh.Mesh, mode NormalMode) (*RenderData, error) {
	raw, ok := m.Attribute(mesh.AttributePosition)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingMeshAttribute, mesh.AttributePosition)
	}
	positions, ok := raw.(mesh.Float32x3)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrUnsupportedPositionFormat, raw)
	}
	indices := m.Indices()
	if indices == nil {
		return nil, ErrMissingIndices
	}

	rd := &RenderData{
		Positions:  meshPositions(positions),
		Indices:    indices.Uint32(),
		NormalMode: mode,
	}
	count := len(positions)

	if v, ok := m.Attribute(mesh.AttributeUV0); ok {
		uvs, ok := v.(mesh.Float32x2)
		if !ok {
			return nil, fmt.Errorf("%w: %s is %T", ErrInvalidMeshAttribute, mesh.AttributeUV0, v)
		}
		if len(uvs) != count {
			return nil, fmt.Errorf("%w: %s has %d values for %d vertices",
				ErrInvalidMeshAttribute, mesh.AttributeUV0, len(uvs), count)
		}
		rd.UVs = append([][2]float32(nil), uvs...)
	}

	if v, ok := m.Attribute(mesh.AttributeColor); ok {
		colors, err := vertexColors(v)
		if err != nil {
			return nil, err
		}
		if len(colors) != count {
			return nil, fmt.Errorf("%w: %s has %d values for %d vertices",
				ErrInvalidMeshAttribute, mesh.AttributeColor, len(colors), count)
		}
		rd.Colors = colors
	}

	return rd, nil
}

// vertexColors converts any supported color buffer to RGBA floats.
func vertexColors(v mesh.VertexAttributeValues) ([][4]float32, error) {
	switch c := v.(type) {
	case mesh.Float32x4:
		return append([][4]float32(nil), c...), nil
	case mesh.Float32x3:
		out := make([][4]float32, len(c))
		for i, rgb := range c {
			out[i] = [4]float32{rgb[0], rgb[1], rgb[2], 1}
		}
		return out, nil
	case mesh.Uint8x4:
		out := make([][4]float32, len(c))
		for i, rgba := range c {
			out[i] = [4]float32{
				float32(rgba[0]) / 255,
				float32(rgba[1]) / 255,
				float32(rgba[2]) / 255,
				float32(rgba[3]) / 255,
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s is %T", ErrInvalidMeshAttribute, mesh.AttributeColor, v)
}

// UpdatePositions replaces the vertex positions. It panics if the vertex
// count changes.
func (r *RenderData) UpdatePositions(positions []math.Vec3) {
	if len(positions) != len(r.Positions) {
		panic(fmt.Sprintf("cloth: got %d positions for %d vertices", len(positions), len(r.Positions)))
	}
	copy(r.Positions, positions)
}

// triangle returns the corners of triangle t, or false when an index is out
// of range.
func (r *RenderData) triangle(t int) (a, b, c uint32, ok bool) {
	a, b, c = r.Indices[t], r.Indices[t+1], r.Indices[t+2]
	n := uint32(len(r.Positions))
	return a, b, c, a < n && b < n && c < n
}

func faceNormal(a, b, c math.Vec3) math.Vec3 {
	n, _ := b.Sub(a).Cross(c.Sub(a)).TryNormalize()
	return n
}

// SmoothNormals returns one normal per vertex: the average of the normals of
// every triangle using it.
func (r *RenderData) SmoothNormals() []math.Vec3 {
	sums := make([]math.Vec3, len(r.Positions))
	counts := make([]int, len(r.Positions))
	for t := 0; t+2 < len(r.Indices); t += 3 {
		a, b, c, ok := r.triangle(t)
		if !ok {
			continue
		}
		n := faceNormal(r.Positions[a], r.Positions[b], r.Positions[c])
		for _, v := range [3]uint32{a, b, c} {
			sums[v] = sums[v].Add(n)
			counts[v]++
		}
	}
	for i, n := range counts {
		if n > 0 {
			sums[i] = sums[i].Scale(1 / float32(n))
		}
	}
	return sums
}

// FlatNormals returns one normal per index: the normal of its triangle.
func (r *RenderData) FlatNormals() []math.Vec3 {
	normals := make([]math.Vec3, len(r.Indices))
	for t := 0; t+2 < len(r.Indices); t += 3 {
		a, b, c, ok := r.triangle(t)
		if !ok {
			continue
		}
		n := faceNormal(r.Positions[a], r.Positions[b], r.Positions[c])
		normals[t], normals[t+1], normals[t+2] = n, n, n
	}
	return normals
}

// Duplicated returns a copy with one vertex per index and sequential indices.
func (r *RenderData) Duplicated() *RenderData {
	d := &RenderData{
		Positions:  make([]math.Vec3, len(r.Indices)),
		Indices:    make([]uint32, len(r.Indices)),
		NormalMode: r.NormalMode,
	}
	if r.UVs != nil {
		d.UVs = make([][2]float32, len(r.Indices))
	}
	if r.Colors != nil {
		d.Colors = make([][4]float32, len(r.Indices))
	}
	for i, idx := range r.Indices {
		d.Indices[i] = uint32(i)
		if int(idx) >= len(r.Positions) {
			continue
		}
		d.Positions[i] = r.Positions[idx]
		if d.UVs != nil {
			d.UVs[i] = r.UVs[idx]
		}
		if d.Colors != nil {
			d.Colors[i] = r.Colors[idx]
		}
	}
	return d
}

// Apply writes the render data into m according to the normal mode.
func (r *RenderData) Apply(m *mesh.Mesh) {
	src := r
	var normals []math.Vec3
	switch r.NormalMode {
	case NormalsFlat:
		src = r.Duplicated()
		normals = src.FlatNormals()
	case NormalsSmooth:
		normals = r.SmoothNormals()
	}

	m.InsertAttribute(mesh.AttributePosition, toFloat32x3(src.Positions))
	if r.NormalMode == NormalsNone {
		return
	}
	m.InsertAttribute(mesh.AttributeNormal, toFloat32x3(normals))

	if r.NormalMode == NormalsFlat {
		if src.UVs != nil {
			m.InsertAttribute(mesh.AttributeUV0, mesh.Float32x2(src.UVs))
		}
		if src.Colors != nil {
			m.InsertAttribute(mesh.AttributeColor, mesh.Float32x4(src.Colors))
		}
		m.SetIndices(mesh.IndicesU32(src.Indices))
	}
}

// ComputeAABB returns the mesh space bounding box of the vertices.
func (r *RenderData) ComputeAABB(offset float32) AABB {
	return ComputeAABB(r.Positions, offset)
}

func toFloat32x3(vs []math.Vec3) mesh.Float32x3 {
	out := make(mesh.Float32x3, len(vs))
	for i, v := range vs {
		out[i] = v.Array()
	}
	return out
}
