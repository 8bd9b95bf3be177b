// Package cloth simulates cloth-like surfaces as Verlet points connected by
// distance constraints.
//
// A Cloth is built once from a mesh's rest pose and stepped every tick:
//
//	c.Step(dt, transform, &cfg, wind, lookup, collisions)
//	rd.UpdatePositions(c.VertexPositions(transform))
//	rd.Apply(m)
//
// Every Cloth is independent, so different cloths may be stepped from
// different goroutines. A single Cloth is not safe for concurrent use.
package cloth

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/drape/pkg/math"
)

// Options configures a new Cloth.
type Options struct {
	// Anchors maps vertex ids to their anchor.
	Anchors         map[int]VertexAnchor
	StickGeneration StickGeneration
	StickLen        StickLen
	// StickMode is the mode of every generated stick.
	StickMode StickMode
	// Logger receives per-tick warnings and errors. Nil disables logging.
	Logger *zap.Logger
}

// Cloth is the simulation state of one cloth: its points, sticks and anchors.
type Cloth struct {
	current  []math.Vec3
	previous []math.Vec3
	pinned   []bool

	sticks     []Stick
	stickIndex map[stickKey]int

	anchors     map[int]anchoredPoint
	anchorOrder []int

	// vertexCount is the number of points backed by mesh vertices. Points
	// appended later (inflator pivots) are simulated but never rendered.
	vertexCount int

	logger *zap.Logger
}

// New builds a cloth from mesh space vertex positions, a triangle index list
// and the world transform of the cloth.
//
// It panics if an anchor references a vertex that does not exist.
func New(positions []math.Vec3, indices []uint32, transform math.Mat4, opts Options) *Cloth {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	c := &Cloth{
		current:     make([]math.Vec3, len(positions)),
		previous:    make([]math.Vec3, len(positions)),
		pinned:      make([]bool, len(positions)),
		stickIndex:  make(map[stickKey]int),
		anchors:     make(map[int]anchoredPoint, len(opts.Anchors)),
		vertexCount: len(positions),
		logger:      log,
	}

	for i, p := range positions {
		w := transform.TransformVec3(p)
		c.current[i] = w
		c.previous[i] = w
	}

	for id, anchor := range opts.Anchors {
		if id < 0 || id >= len(positions) {
			panic(fmt.Sprintf("cloth: anchored vertex id %d out of range [0, %d)", id, len(positions)))
		}
		c.anchors[id] = anchoredPoint{anchor: anchor, original: positions[id]}
		c.anchorOrder = append(c.anchorOrder, id)
		c.pinned[id] = true
	}
	sort.Ints(c.anchorOrder)

	c.buildSticks(indices, opts.StickGeneration, opts.StickLen, opts.StickMode)

	log.Debug("cloth created",
		zap.Int("points", len(c.current)),
		zap.Int("sticks", len(c.sticks)),
		zap.Int("anchors", len(c.anchors)))

	return c
}

// Step advances the cloth by dt seconds: integration, anchor resolution,
// stick relaxation and collision resolution, in that order.
// anchors and collisions may be nil.
func (c *Cloth) Step(dt float32, transform math.Mat4, cfg *Config, wind math.Vec3, anchors AnchorLookup, collisions CollisionSolver) {
	c.UpdatePoints(dt, cfg, wind)
	c.UpdateAnchoredPoints(transform, anchors)
	c.UpdateSticks(int(cfg.SticksComputationDepth))
	if collisions != nil {
		c.SolveCollisions(collisions)
	}
}

// UpdatePoints integrates every free point with gravity and wind.
// Anchored points only have their history advanced.
func (c *Cloth) UpdatePoints(dt float32, cfg *Config, wind math.Vec3) {
	friction := cfg.FrictionCoefficient()
	acceleration := cfg.SmoothedAcceleration(cfg.Gravity.Add(wind), dt)
	if cfg.FrictionMode == FrictionVelocityAndAcceleration {
		acceleration = acceleration.Scale(friction)
	}

	for i, pos := range c.current {
		velocity := pos.Sub(c.previous[i])
		c.previous[i] = pos
		if c.pinned[i] {
			continue
		}
		c.current[i] = pos.Add(velocity.Scale(friction)).Add(acceleration)
	}
}

// UpdateAnchoredPoints moves every anchored point to its anchor position.
// Points whose custom target cannot be resolved keep their position.
func (c *Cloth) UpdateAnchoredPoints(transform math.Mat4, lookup AnchorLookup) {
	for _, id := range c.anchorOrder {
		ap := c.anchors[id]
		pos, ok := ap.anchor.Position(ap.original, transform, lookup)
		if !ok {
			c.logger.Error("anchor target not found",
				zap.Int("vertex", id),
				zap.Uint64("target", uint64(ap.anchor.CustomTarget)))
			continue
		}
		c.current[id] = pos
	}
}

// UpdateSticks runs depth relaxation passes over every stick.
func (c *Cloth) UpdateSticks(depth int) {
	for pass := 0; pass < depth; pass++ {
		for i := range c.sticks {
			c.relaxStick(&c.sticks[i])
		}
	}
}

func (c *Cloth) relaxStick(s *Stick) {
	pinnedA, pinnedB := c.pinned[s.A], c.pinned[s.B]
	if pinnedA && pinnedB {
		return
	}

	pa, pb := c.current[s.A], c.current[s.B]
	target, ok := s.Mode.targetLength(s.Length, pa.Distance(pb))
	if !ok {
		return
	}

	dir, ok := pb.Sub(pa).TryNormalize()
	if !ok {
		c.logger.Warn("cannot solve stick between coincident points",
			zap.Int("a", s.A),
			zap.Int("b", s.B))
		return
	}

	switch {
	case pinnedA:
		c.current[s.B] = pa.Add(dir.Scale(target))
	case pinnedB:
		c.current[s.A] = pb.Sub(dir.Scale(target))
	default:
		center := pa.Add(pb).Scale(0.5)
		offset := dir.Scale(target / 2)
		c.current[s.A] = center.Sub(offset)
		c.current[s.B] = center.Add(offset)
	}
}

// SolveCollisions hands every free point to solver and moves it to the
// returned position, if any.
func (c *Cloth) SolveCollisions(solver CollisionSolver) {
	for i, p := range c.current {
		if c.pinned[i] {
			continue
		}
		if np, ok := solver.SolvePoint(p); ok {
			c.current[i] = np
		}
	}
}

// VertexPositions returns the mesh space position of every mesh vertex for
// the given cloth transform. Anchors following the cloth itself report their
// local position directly.
func (c *Cloth) VertexPositions(transform math.Mat4) []math.Vec3 {
	inv := transform.Inverse()
	out := make([]math.Vec3, c.vertexCount)
	for i := range out {
		if ap, ok := c.anchors[i]; ok && ap.anchor.CustomTarget == NoTarget {
			out[i] = ap.anchor.localPosition(ap.original)
			continue
		}
		out[i] = inv.TransformVec3(c.current[i])
	}
	return out
}

// AABB returns the world space bounding box of every point, half extents
// grown by offset.
func (c *Cloth) AABB(offset float32) AABB {
	return ComputeAABB(c.current, offset)
}

// AddPoint appends a free point at world position p and returns its index.
// The point has no velocity and is not part of the rendered mesh.
func (c *Cloth) AddPoint(p math.Vec3) int {
	c.current = append(c.current, p)
	c.previous = append(c.previous, p)
	c.pinned = append(c.pinned, false)
	return len(c.current) - 1
}

// AddStick connects points a and b. It returns false if the stick already
// exists or a and b are the same point.
func (c *Cloth) AddStick(a, b int, length float32, mode StickMode) bool {
	if a == b {
		return false
	}
	if a < 0 || b < 0 || a >= len(c.current) || b >= len(c.current) {
		panic(fmt.Sprintf("cloth: stick (%d, %d) out of range [0, %d)", a, b, len(c.current)))
	}
	key := newStickKey(a, b)
	if _, ok := c.stickIndex[key]; ok {
		return false
	}
	c.stickIndex[key] = len(c.sticks)
	c.sticks = append(c.sticks, Stick{A: key.a, B: key.b, Length: length, Mode: mode})
	return true
}

// Points returns the current world space positions. The slice is owned by
// the cloth and must not be modified.
func (c *Cloth) Points() []math.Vec3 { return c.current }

// PreviousPoints returns the positions of the previous tick.
func (c *Cloth) PreviousPoints() []math.Vec3 { return c.previous }

// Sticks returns the constraints in solving order.
func (c *Cloth) Sticks() []Stick { return c.sticks }

// Stick returns the stick between a and b, in either order.
func (c *Cloth) Stick(a, b int) (Stick, bool) {
	i, ok := c.stickIndex[newStickKey(a, b)]
	if !ok {
		return Stick{}, false
	}
	return c.sticks[i], true
}

// PointCount returns the number of simulated points.
func (c *Cloth) PointCount() int { return len(c.current) }

// VertexCount returns the number of points backed by mesh vertices.
func (c *Cloth) VertexCount() int { return c.vertexCount }

// IsAnchored reports whether point i follows an anchor.
func (c *Cloth) IsAnchored(i int) bool { return c.pinned[i] }

// Anchor returns the anchor of vertex i.
func (c *Cloth) Anchor(i int) (VertexAnchor, bool) {
	ap, ok := c.anchors[i]
	return ap.anchor, ok
}
