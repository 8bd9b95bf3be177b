// Package scene owns the simulated cloths of the viewer and steps them.
//
// Every entity is both a cloth and an anchor target: a cloth vertex can be
// anchored to any other entity, or to a plain transform added with AddTarget.
package scene

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/drape/pkg/cloth"
	"github.com/Faultbox/drape/pkg/collision"
	"github.com/Faultbox/drape/pkg/math"
	"github.com/Faultbox/drape/pkg/mesh"
)

// Entity is a simulated cloth and the mesh it renders into.
type Entity struct {
	ID        cloth.TargetID
	Name      string
	Transform math.Transform
	// Velocity moves the transform every tick.
	Velocity math.Vec3

	Cloth  *cloth.Cloth
	Render *cloth.RenderData
	Mesh   *mesh.Mesh

	// Config overrides the scene physics when set.
	Config *cloth.Config
	// Collider enables collisions with the scene world when set.
	Collider *collision.Collider

	// AABB is the world bounding box after the last tick.
	AABB cloth.AABB
}

// Stats summarizes the scene state.
type Stats struct {
	Ticks    uint64
	Elapsed  float32
	Entities int
	Points   int
	Sticks   int
}

// Scene steps a set of cloth entities.
type Scene struct {
	Config cloth.Config
	Winds  cloth.Winds
	// World is optional. Without it entities never collide.
	World *collision.World

	logger   *zap.Logger
	entities []*Entity
	targets  map[cloth.TargetID]math.Transform
	nextID   cloth.TargetID
	elapsed  float32
	ticks    uint64
}

// New creates an empty scene.
func New(cfg cloth.Config, winds cloth.Winds, world *collision.World, logger *zap.Logger) *Scene {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scene{
		Config:  cfg,
		Winds:   winds,
		World:   world,
		logger:  logger,
		targets: make(map[cloth.TargetID]math.Transform),
		nextID:  cloth.NoTarget + 1,
	}
}

func (s *Scene) newID() cloth.TargetID {
	id := s.nextID
	s.nextID++
	return id
}

// AddTarget registers a transform cloths can be anchored to.
func (s *Scene) AddTarget(t math.Transform) cloth.TargetID {
	id := s.newID()
	s.targets[id] = t
	return id
}

// SetTarget moves a target added with AddTarget.
func (s *Scene) SetTarget(id cloth.TargetID, t math.Transform) bool {
	if _, ok := s.targets[id]; !ok {
		return false
	}
	s.targets[id] = t
	return true
}

// RemoveTarget deletes a target. Anchors to it keep their last position.
func (s *Scene) RemoveTarget(id cloth.TargetID) {
	delete(s.targets, id)
}

// AddCloth builds a cloth from m at transform and adds it to the scene.
// The builder logger defaults to the scene logger.
func (s *Scene) AddCloth(name string, m *mesh.Mesh, transform math.Transform, b *cloth.Builder) (*Entity, error) {
	if b == nil {
		b = cloth.NewBuilder()
	}
	if b.Logger == nil {
		b.Logger = s.logger.With(zap.String("cloth", name))
	}

	c, rd, err := b.Build(m, transform.Matrix())
	if err != nil {
		return nil, fmt.Errorf("building cloth %s: %w", name, err)
	}

	e := &Entity{
		ID:        s.newID(),
		Name:      name,
		Transform: transform,
		Cloth:     c,
		Render:    rd,
		Mesh:      m,
	}
	e.AABB = c.AABB(0)
	rd.Apply(m)
	s.entities = append(s.entities, e)

	s.logger.Info("cloth added",
		zap.String("name", name),
		zap.Uint64("id", uint64(e.ID)),
		zap.Int("points", c.PointCount()),
		zap.Int("sticks", len(c.Sticks())))
	return e, nil
}

// Entities returns the entities in insertion order.
func (s *Scene) Entities() []*Entity {
	return s.entities
}

// Entity returns the entity with the given id.
func (s *Scene) Entity(id cloth.TargetID) (*Entity, bool) {
	for _, e := range s.entities {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// Remove deletes an entity.
func (s *Scene) Remove(id cloth.TargetID) bool {
	for i, e := range s.entities {
		if e.ID == id {
			s.entities = append(s.entities[:i], s.entities[i+1:]...)
			return true
		}
	}
	return false
}

// Elapsed returns the simulated time in seconds.
func (s *Scene) Elapsed() float32 {
	return s.elapsed
}

// Stats returns counters over every entity.
func (s *Scene) Stats() Stats {
	st := Stats{Ticks: s.ticks, Elapsed: s.elapsed, Entities: len(s.entities)}
	for _, e := range s.entities {
		st.Points += e.Cloth.PointCount()
		st.Sticks += len(e.Cloth.Sticks())
	}
	return st
}

// snapshot returns the world matrix of every entity and target.
func (s *Scene) snapshot() map[cloth.TargetID]math.Mat4 {
	m := make(map[cloth.TargetID]math.Mat4, len(s.entities)+len(s.targets))
	for id, t := range s.targets {
		m[id] = t.Matrix()
	}
	for _, e := range s.entities {
		m[e.ID] = e.Transform.Matrix()
	}
	return m
}

// Step advances the scene by dt seconds. Cloths are stepped in parallel; they
// read anchor targets from a snapshot taken before any of them moves.
func (s *Scene) Step(dt float32) {
	s.elapsed += dt
	s.ticks++
	wind := s.Winds.CurrentVelocity(s.elapsed)

	for _, e := range s.entities {
		if e.Velocity != (math.Vec3{}) {
			e.Transform.Translation = e.Transform.Translation.Add(e.Velocity.Scale(dt))
		}
	}
	if s.World != nil {
		s.World.Integrate(dt)
	}

	matrices := s.snapshot()
	lookup := cloth.AnchorLookupFunc(func(id cloth.TargetID) (math.Mat4, bool) {
		m, ok := matrices[id]
		return m, ok
	})

	touched := make([][]*collision.Body, len(s.entities))
	var wg sync.WaitGroup
	for i, e := range s.entities {
		wg.Add(1)
		go func(i int, e *Entity) {
			defer wg.Done()
			touched[i] = s.stepEntity(e, matrices[e.ID], dt, wind, lookup)
		}(i, e)
	}
	wg.Wait()

	if s.World != nil {
		for i, e := range s.entities {
			if e.Collider != nil && len(touched[i]) > 0 {
				s.World.Dampen(*e.Collider, touched[i])
			}
		}
	}
}

func (s *Scene) stepEntity(e *Entity, matrix math.Mat4, dt float32, wind math.Vec3, lookup cloth.AnchorLookup) []*collision.Body {
	cfg := &s.Config
	if e.Config != nil {
		cfg = e.Config
	}
	e.Cloth.Step(dt, matrix, cfg, wind, lookup, nil)

	var touched []*collision.Body
	var offset float32
	if s.World != nil && e.Collider != nil {
		touched = s.World.ResolveCloth(e.Cloth, *e.Collider, dt)
		offset = e.Collider.Offset
	}

	e.Render.UpdatePositions(e.Cloth.VertexPositions(matrix))
	e.Render.Apply(e.Mesh)
	e.AABB = e.Cloth.AABB(offset)
	return touched
}

// Run steps the scene ticks times and logs the state every logEvery ticks.
// A logEvery of zero only logs the final state.
func (s *Scene) Run(ticks int, dt float32, logEvery int) {
	for i := 1; i <= ticks; i++ {
		s.Step(dt)
		if i == ticks || (logEvery > 0 && i%logEvery == 0) {
			s.logState()
		}
	}
}

func (s *Scene) logState() {
	st := s.Stats()
	s.logger.Info("scene state",
		zap.Uint64("ticks", st.Ticks),
		zap.Float32("elapsed", st.Elapsed),
		zap.Int("points", st.Points),
		zap.Int("sticks", st.Sticks))
	for _, e := range s.entities {
		s.logger.Debug("entity bounds",
			zap.String("name", e.Name),
			zap.Any("min", e.AABB.Min()),
			zap.Any("max", e.AABB.Max()))
	}
}
