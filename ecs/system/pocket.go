package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/billiards/ecs"
	"github.com/milk9111/billiards/ecs/component"
	"go.uber.org/zap"
)

// BodyReleaser drops an entity's simulated body.
type BodyReleaser interface {
	Release(e ecs.Entity)
}

// PocketSystem resolves PocketedRequest components left by the physics
// step: the cue ball goes back to its spawn point, object balls leave the
// game for good.
type PocketSystem struct {
	bodies   BodyReleaser
	log      *zap.Logger
	pocketed int
}

func NewPocketSystem(bodies BodyReleaser, log *zap.Logger) *PocketSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &PocketSystem{bodies: bodies, log: log}
}

// Pocketed is the number of object balls removed so far.
func (s *PocketSystem) Pocketed() int {
	return s.pocketed
}

func (s *PocketSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	var table *component.Table
	if e, ok := ecs.First(w, component.TableComponent.Kind()); ok {
		table, _ = ecs.Get(w, e, component.TableComponent.Kind())
	}

	ecs.ForEach(w, component.PocketedRequestComponent.Kind(), func(e ecs.Entity, req *component.PocketedRequest) {
		pocket := req.Pocket
		ecs.Remove(w, e, component.PocketedRequestComponent.Kind())

		ball, ok := ecs.Get(w, e, component.BallComponent.Kind())
		if !ok {
			return
		}

		if ball.Role == component.BallRoleCue {
			if table == nil {
				s.log.Warn("pocket: cue ball pocketed without a table")
				return
			}
			s.resetCueBall(w, e, table)
			s.log.Info("cue ball pocketed", zap.Int("pocket", pocket))
			return
		}

		s.removeBall(w, e)
		s.log.Info("ball pocketed",
			zap.Int("number", ball.Number),
			zap.Int("pocket", pocket),
			zap.Int("remaining", len(Balls(w))),
		)
	})
}

func (s *PocketSystem) resetCueBall(w *ecs.World, e ecs.Entity, table *component.Table) {
	spawn := cp.Vector{X: table.CueSpawnX, Y: table.CueSpawnY}

	if body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && body.Body != nil {
		body.Body.SetPosition(spawn)
		body.Body.SetVelocity(0, 0)
		body.Body.SetAngularVelocity(0)
	}
	if transform, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		transform.X = spawn.X
		transform.Y = spawn.Y
		transform.Rotation = 0
	}
}

func (s *PocketSystem) removeBall(w *ecs.World, e ecs.Entity) {
	if s.bodies != nil {
		s.bodies.Release(e)
	}
	ecs.DestroyEntity(w, e)
	s.pocketed++
}
