package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/billiards/ecs"
	"github.com/milk9111/billiards/ecs/component"
	"github.com/milk9111/billiards/prefabs"
	"go.uber.org/zap"
)

const (
	collisionTypeWall cp.CollisionType = iota + 1
	collisionTypeBall
	collisionTypePocket
)

// PhysicsSystem owns the Chipmunk space. It mirrors PhysicsBody components
// into bodies and shapes, steps the simulation once per tick and turns
// ball/pocket sensor contacts into PocketedRequest components.
type PhysicsSystem struct {
	space         *cp.Space
	substeps      int
	handlersReady bool
	log           *zap.Logger

	entities      map[ecs.Entity]*bodyInfo
	shapeToEntity map[*cp.Shape]ecs.Entity
	shapeTypes    map[*cp.Shape]cp.CollisionType
	contacts      []pocketContact
}

type bodyInfo struct {
	body   *cp.Body
	shape  *cp.Shape
	static bool
}

type pocketContact struct {
	ball   ecs.Entity
	pocket ecs.Entity
}

func NewPhysicsSystem(spec prefabs.PhysicsSpec, log *zap.Logger) *PhysicsSystem {
	if log == nil {
		log = zap.NewNop()
	}
	substeps := spec.Substeps
	if substeps <= 0 {
		substeps = 1
	}

	space := cp.NewSpace()
	if spec.Iterations > 0 {
		space.Iterations = uint(spec.Iterations)
	}
	space.SetGravity(cp.Vector{})

	return &PhysicsSystem{
		space:         space,
		substeps:      substeps,
		log:           log,
		entities:      make(map[ecs.Entity]*bodyInfo),
		shapeToEntity: make(map[*cp.Shape]ecs.Entity),
		shapeTypes:    make(map[*cp.Shape]cp.CollisionType),
	}
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

// Update advances the simulation by one tick. Velocities are measured in
// table units per tick.
func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}

	ps.ensureHandlers()
	ps.syncEntities(w)

	dt := 1.0 / float64(ps.substeps)
	for i := 0; i < ps.substeps; i++ {
		ps.space.Step(dt)
	}

	ps.flushContacts(w)
	ps.syncTransforms(w)
}

// Tracks reports whether e currently has a body in the space.
func (ps *PhysicsSystem) Tracks(e ecs.Entity) bool {
	_, ok := ps.entities[e]
	return ok
}

// Release removes e's shapes and body from the space. It is safe to call
// for untracked entities and must not be called while the space is stepping.
func (ps *PhysicsSystem) Release(e ecs.Entity) {
	info, ok := ps.entities[e]
	if !ok {
		return
	}
	if info.shape != nil {
		ps.space.RemoveShape(info.shape)
		delete(ps.shapeToEntity, info.shape)
		delete(ps.shapeTypes, info.shape)
	}
	if info.body != nil && !info.static {
		ps.space.RemoveBody(info.body)
	}
	delete(ps.entities, e)
}

func (ps *PhysicsSystem) ensureHandlers() {
	if ps.handlersReady {
		return
	}

	pocketHandler := ps.space.NewCollisionHandler(collisionTypeBall, collisionTypePocket)
	pocketHandler.UserData = ps
	pocketHandler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*PhysicsSystem)
		if !ok || sys == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		ball, okA := sys.shapeToEntity[shapeA]
		pocket, okB := sys.shapeToEntity[shapeB]
		if sys.shapeTypes[shapeA] != collisionTypeBall {
			ball, pocket = pocket, ball
		}
		if okA && okB {
			sys.contacts = append(sys.contacts, pocketContact{ball: ball, pocket: pocket})
		}
		return true
	}

	ps.handlersReady = true
}

func (ps *PhysicsSystem) flushContacts(w *ecs.World) {
	if len(ps.contacts) == 0 {
		return
	}
	for _, c := range ps.contacts {
		if !ecs.IsAlive(w, c.ball) || ecs.Has(w, c.ball, component.PocketedRequestComponent.Kind()) {
			continue
		}
		pocket, ok := ecs.Get(w, c.pocket, component.PocketComponent.Kind())
		if !ok {
			continue
		}
		_ = ecs.Add(w, c.ball, component.PocketedRequestComponent.Kind(), &component.PocketedRequest{Pocket: pocket.Index})
	}
	ps.contacts = ps.contacts[:0]
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	ps.cleanupEntities(w)

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		if info, ok := ps.entities[e]; ok {
			bodyComp.Body = info.body
			bodyComp.Shape = info.shape
			return
		}

		collisionType := ps.collisionTypeFor(w, e)
		info := ps.createBodyInfo(transform, bodyComp, collisionType)
		if info == nil {
			return
		}
		ps.entities[e] = info
		ps.shapeToEntity[info.shape] = e
		ps.shapeTypes[info.shape] = collisionType
		bodyComp.Body = info.body
		bodyComp.Shape = info.shape
	})
}

func (ps *PhysicsSystem) collisionTypeFor(w *ecs.World, e ecs.Entity) cp.CollisionType {
	switch {
	case ecs.Has(w, e, component.BallComponent.Kind()):
		return collisionTypeBall
	case ecs.Has(w, e, component.PocketComponent.Kind()):
		return collisionTypePocket
	default:
		return collisionTypeWall
	}
}

func (ps *PhysicsSystem) createBodyInfo(transform *component.Transform, bodyComp *component.PhysicsBody, collisionType cp.CollisionType) *bodyInfo {
	radius := bodyComp.Radius
	width := bodyComp.Width
	height := bodyComp.Height
	if radius <= 0 && (width <= 0 || height <= 0) {
		ps.log.Warn("physics: body without size", zap.Float64("x", transform.X), zap.Float64("y", transform.Y))
		return nil
	}

	center := cp.Vector{X: transform.X, Y: transform.Y}

	if bodyComp.Static {
		var shape *cp.Shape
		if radius > 0 {
			shape = cp.NewCircle(ps.space.StaticBody, radius, center)
		} else {
			bb := cp.BB{L: center.X - width/2, B: center.Y - height/2, R: center.X + width/2, T: center.Y + height/2}
			shape = cp.NewBox2(ps.space.StaticBody, bb, 0)
		}
		shape.SetFriction(bodyComp.Friction)
		shape.SetElasticity(bodyComp.Elasticity)
		shape.SetCollisionType(collisionType)
		shape.SetSensor(bodyComp.Sensor)
		ps.space.AddShape(shape)
		return &bodyInfo{body: ps.space.StaticBody, shape: shape, static: true}
	}

	mass := bodyComp.Mass
	if mass <= 0 {
		mass = 1
	}

	var moment float64
	if radius > 0 {
		moment = cp.MomentForCircle(mass, 0, radius, cp.Vector{})
	} else {
		moment = cp.MomentForBox(mass, width, height)
	}

	body := cp.NewBody(mass, moment)
	body.SetPosition(center)
	body.SetAngle(transform.Rotation)

	// Air friction is a per-tick velocity retention factor; scale it to the
	// substep length so the result is independent of the substep count.
	if air := bodyComp.AirFriction; air > 0 {
		retain := 1 - air
		body.SetVelocityUpdateFunc(func(b *cp.Body, gravity cp.Vector, damping float64, dt float64) {
			cp.BodyUpdateVelocity(b, gravity, damping*math.Pow(retain, dt), dt)
		})
	}

	var shape *cp.Shape
	if radius > 0 {
		shape = cp.NewCircle(body, radius, cp.Vector{})
	} else {
		shape = cp.NewBox(body, width, height, 0)
	}
	shape.SetFriction(bodyComp.Friction)
	shape.SetElasticity(bodyComp.Elasticity)
	shape.SetCollisionType(collisionType)
	shape.SetSensor(bodyComp.Sensor)

	ps.space.AddBody(body)
	ps.space.AddShape(shape)
	return &bodyInfo{body: body, shape: shape}
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		if bodyComp.Body == nil || bodyComp.Static {
			return
		}
		pos := bodyComp.Body.Position()
		transform.X = pos.X
		transform.Y = pos.Y
		transform.Rotation = bodyComp.Body.Angle()
	})
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e := range ps.entities {
		if ecs.IsAlive(w, e) && ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) {
			continue
		}
		ps.Release(e)
	}
}
