package cloth

import (
	"go.uber.org/zap"

	"github.com/Faultbox/drape/pkg/math"
)

// buildSticks extracts the stick graph from a triangle list. Rest lengths are
// measured on the world space points.
func (c *Cloth) buildSticks(indices []uint32, gen StickGeneration, length StickLen, mode StickMode) {
	if rem := len(indices) % 3; rem != 0 {
		c.logger.Error("mesh indices are not a multiple of 3, dropping remainder",
			zap.Int("indices", len(indices)),
			zap.Int("dropped", rem))
		indices = indices[:len(indices)-rem]
	}

	n := uint32(c.vertexCount)
	for t := 0; t < len(indices); t += 3 {
		a, b, tc := indices[t], indices[t+1], indices[t+2]
		if a >= n || b >= n || tc >= n {
			c.logger.Error("triangle references a missing vertex",
				zap.Int("triangle", t/3),
				zap.Int("vertices", c.vertexCount))
			continue
		}

		c.addEdge(int(a), int(b), length, mode)
		c.addEdge(int(b), int(tc), length, mode)
		if gen == StickTriangles {
			c.addEdge(int(tc), int(a), length, mode)
		}
	}
}

func (c *Cloth) addEdge(a, b int, length StickLen, mode StickMode) {
	if a == b {
		return
	}
	key := newStickKey(a, b)
	if _, ok := c.stickIndex[key]; ok {
		return
	}
	c.stickIndex[key] = len(c.sticks)
	c.sticks = append(c.sticks, Stick{
		A:      key.a,
		B:      key.b,
		Length: length.Length(c.current[key.a], c.current[key.b]),
		Mode:   mode,
	})
}

// StickCount returns the number of sticks a Rectangle grid of sizeX by sizeY
// vertices produces.
func StickCount(sizeX, sizeY int, gen StickGeneration) int {
	if sizeX < 2 || sizeY < 2 {
		return 0
	}
	n := (sizeX-1)*sizeY + (sizeY-1)*sizeX
	if gen == StickTriangles {
		n += (sizeX - 1) * (sizeY - 1)
	}
	return n
}

// meshPositions widens a position buffer to vectors.
func meshPositions(raw [][3]float32) []math.Vec3 {
	out := make([]math.Vec3, len(raw))
	for i, p := range raw {
		out[i] = math.FromArray(p)
	}
	return out
}
