// Package debug provides debug visualization utilities.
package debug

import "github.com/Faultbox/drape/pkg/cloth"

// BoxLineVertexCount is the number of vertices of a box wireframe (12 edges × 2).
const BoxLineVertexCount = 24

// BoxLines returns the wireframe of box as line vertices, [x, y, z] per vertex.
// padding grows the box on every side.
func BoxLines(box cloth.AABB, padding float32) []float32 {
	lo, hi := box.Min(), box.Max()
	return boxLines(
		lo.X-padding, lo.Y-padding, lo.Z-padding,
		hi.X+padding, hi.Y+padding, hi.Z+padding,
	)
}

func boxLines(minX, minY, minZ, maxX, maxY, maxZ float32) []float32 {
	return []float32{
		// Bottom face
		minX, minY, minZ, maxX, minY, minZ,
		maxX, minY, minZ, maxX, minY, maxZ,
		maxX, minY, maxZ, minX, minY, maxZ,
		minX, minY, maxZ, minX, minY, minZ,
		// Top face
		minX, maxY, minZ, maxX, maxY, minZ,
		maxX, maxY, minZ, maxX, maxY, maxZ,
		maxX, maxY, maxZ, minX, maxY, maxZ,
		minX, maxY, maxZ, minX, maxY, minZ,
		// Vertical edges
		minX, minY, minZ, minX, maxY, minZ,
		maxX, minY, minZ, maxX, maxY, minZ,
		maxX, minY, maxZ, maxX, maxY, maxZ,
		minX, minY, maxZ, minX, maxY, maxZ,
	}
}
