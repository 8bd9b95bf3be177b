package mesh

import (
	gomath "math"

	"github.com/Faultbox/drape/pkg/math"
)

// Rectangle builds a grid of sizeX * sizeY vertices, where vertex (x, y) sits
// at x*stepX + y*stepY and has index y*sizeX + x.
//
// Every grid cell becomes two triangles whose first two edges are grid edges
// and whose third edge is the cell diagonal, so quad-only stick generation
// skips the diagonals. Faces wind toward -(stepX x stepY); normal is written
// as the vertex normal.
func Rectangle(sizeX, sizeY int, stepX, stepY, normal math.Vec3) *Mesh {
	m := New()
	if sizeX < 2 || sizeY < 2 {
		return m
	}

	count := sizeX * sizeY
	positions := make(Float32x3, 0, count)
	normals := make(Float32x3, 0, count)
	uvs := make(Float32x2, 0, count)

	for y := range sizeY {
		for x := range sizeX {
			p := stepX.Scale(float32(x)).Add(stepY.Scale(float32(y)))
			positions = append(positions, p.Array())
			normals = append(normals, normal.Array())
			uvs = append(uvs, [2]float32{
				float32(x) / float32(sizeX-1),
				float32(y) / float32(sizeY-1),
			})
		}
	}

	indices := make(IndicesU32, 0, (sizeX-1)*(sizeY-1)*6)
	for y := 0; y < sizeY-1; y++ {
		for x := 0; x < sizeX-1; x++ {
			i := uint32(y*sizeX + x)
			j := i + uint32(sizeX)
			indices = append(indices,
				i+1, i, j,
				j, j+1, i+1,
			)
		}
	}

	m.InsertAttribute(AttributePosition, positions)
	m.InsertAttribute(AttributeNormal, normals)
	m.InsertAttribute(AttributeUV0, uvs)
	m.SetIndices(indices)
	return m
}

// UVSphere builds a closed sphere centered on the origin with outward facing
// triangles. Poles are single vertices and the seam is shared, so every edge
// of the surface is connected (which cloth topology extraction relies on).
// sectors must be >= 3 and stacks >= 2.
func UVSphere(radius float32, sectors, stacks int) *Mesh {
	m := New()
	if sectors < 3 || stacks < 2 {
		return m
	}

	positions := Float32x3{{0, radius, 0}}
	normals := Float32x3{{0, 1, 0}}
	for s := 1; s < stacks; s++ {
		theta := gomath.Pi * float64(s) / float64(stacks)
		for k := range sectors {
			phi := 2 * gomath.Pi * float64(k) / float64(sectors)
			n := math.Vec3{
				X: float32(gomath.Sin(theta) * gomath.Cos(phi)),
				Y: float32(gomath.Cos(theta)),
				Z: float32(gomath.Sin(theta) * gomath.Sin(phi)),
			}
			positions = append(positions, n.Scale(radius).Array())
			normals = append(normals, n.Array())
		}
	}
	positions = append(positions, [3]float32{0, -radius, 0})
	normals = append(normals, [3]float32{0, -1, 0})

	top := uint32(0)
	bottom := uint32(len(positions) - 1)
	ring := func(s, k int) uint32 {
		return uint32(1 + s*sectors + k%sectors)
	}

	var indices IndicesU32
	for k := range sectors {
		indices = append(indices, top, ring(0, k+1), ring(0, k))
	}
	for s := 0; s < stacks-2; s++ {
		for k := range sectors {
			a, b := ring(s, k), ring(s, k+1)
			c, d := ring(s+1, k), ring(s+1, k+1)
			indices = append(indices,
				a, b, c,
				b, d, c,
			)
		}
	}
	last := stacks - 2
	for k := range sectors {
		indices = append(indices, bottom, ring(last, k), ring(last, k+1))
	}

	m.InsertAttribute(AttributePosition, positions)
	m.InsertAttribute(AttributeNormal, normals)
	m.SetIndices(indices)
	return m
}
