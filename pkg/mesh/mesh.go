// Package mesh provides the indexed triangle mesh container exchanged between
// the host and the cloth simulation, and procedural mesh generators.
package mesh

// AttributeName identifies a vertex attribute buffer.
type AttributeName string

// Standard vertex attributes.
const (
	AttributePosition AttributeName = "Vertex_Position"
	AttributeNormal   AttributeName = "Vertex_Normal"
	AttributeUV0      AttributeName = "Vertex_Uv"
	AttributeColor    AttributeName = "Vertex_Color"
)

// VertexAttributeValues is a typed vertex attribute buffer.
// The concrete type carries the element format.
type VertexAttributeValues interface {
	Len() int
}

// Float32x2 holds two floats per vertex (UVs).
type Float32x2 [][2]float32

// Float32x3 holds three floats per vertex (positions, normals, RGB colors).
type Float32x3 [][3]float32

// Float32x4 holds four floats per vertex (RGBA colors).
type Float32x4 [][4]float32

// Uint8x4 holds four bytes per vertex (packed RGBA colors).
type Uint8x4 [][4]uint8

// Len returns the number of vertices.
func (v Float32x2) Len() int { return len(v) }

// Len returns the number of vertices.
func (v Float32x3) Len() int { return len(v) }

// Len returns the number of vertices.
func (v Float32x4) Len() int { return len(v) }

// Len returns the number of vertices.
func (v Uint8x4) Len() int { return len(v) }

// Indices is a triangle index buffer.
type Indices interface {
	Len() int
	// Uint32 returns the indices widened to uint32.
	Uint32() []uint32
}

// IndicesU16 is a 16-bit index buffer.
type IndicesU16 []uint16

// IndicesU32 is a 32-bit index buffer.
type IndicesU32 []uint32

// Len returns the number of indices.
func (i IndicesU16) Len() int { return len(i) }

// Uint32 returns a widened copy.
func (i IndicesU16) Uint32() []uint32 {
	out := make([]uint32, len(i))
	for k, v := range i {
		out[k] = uint32(v)
	}
	return out
}

// Len returns the number of indices.
func (i IndicesU32) Len() int { return len(i) }

// Uint32 returns a copy of the indices.
func (i IndicesU32) Uint32() []uint32 {
	out := make([]uint32, len(i))
	copy(out, i)
	return out
}

// Mesh is an indexed triangle mesh with named vertex attributes.
type Mesh struct {
	attributes map[AttributeName]VertexAttributeValues
	indices    Indices
}

// New creates an empty mesh.
func New() *Mesh {
	return &Mesh{attributes: make(map[AttributeName]VertexAttributeValues)}
}

// InsertAttribute sets (or replaces) a vertex attribute buffer.
func (m *Mesh) InsertAttribute(name AttributeName, values VertexAttributeValues) {
	if m.attributes == nil {
		m.attributes = make(map[AttributeName]VertexAttributeValues)
	}
	m.attributes[name] = values
}

// Attribute returns the attribute buffer with the given name.
func (m *Mesh) Attribute(name AttributeName) (VertexAttributeValues, bool) {
	v, ok := m.attributes[name]
	return v, ok
}

// RemoveAttribute deletes an attribute buffer.
func (m *Mesh) RemoveAttribute(name AttributeName) {
	delete(m.attributes, name)
}

// SetIndices replaces the index buffer. A nil value removes it.
func (m *Mesh) SetIndices(indices Indices) {
	m.indices = indices
}

// Indices returns the index buffer, or nil for non-indexed meshes.
func (m *Mesh) Indices() Indices {
	return m.indices
}

// VertexCount returns the number of vertex positions, or 0 without positions.
func (m *Mesh) VertexCount() int {
	if v, ok := m.attributes[AttributePosition]; ok {
		return v.Len()
	}
	return 0
}

// Positions returns the position buffer if it is stored as Float32x3.
func (m *Mesh) Positions() (Float32x3, bool) {
	v, ok := m.attributes[AttributePosition].(Float32x3)
	return v, ok
}
