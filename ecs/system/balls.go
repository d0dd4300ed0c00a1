package system

import (
	"sort"

	"github.com/milk9111/billiards/ecs"
	"github.com/milk9111/billiards/ecs/component"
)

// Balls returns every live ball ordered by entity id.
func Balls(w *ecs.World) []ecs.Entity {
	var out []ecs.Entity
	ecs.ForEach(w, component.BallComponent.Kind(), func(e ecs.Entity, _ *component.Ball) {
		out = append(out, e)
	})
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// CueBall returns the single cue ball entity.
func CueBall(w *ecs.World) (ecs.Entity, bool) {
	var (
		cue   ecs.Entity
		found bool
	)
	ecs.ForEach(w, component.BallComponent.Kind(), func(e ecs.Entity, ball *component.Ball) {
		if ball.Role == component.BallRoleCue && (!found || e < cue) {
			cue = e
			found = true
		}
	})
	return cue, found
}

// BallsAtRest reports whether every ball with a simulated body moves slower
// than threshold, in table units per tick.
func BallsAtRest(w *ecs.World, threshold float64) bool {
	rest := true
	ecs.ForEach2(w, component.BallComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(_ ecs.Entity, _ *component.Ball, body *component.PhysicsBody) {
		if !rest || body.Body == nil {
			return
		}
		if body.Body.Velocity().Length() >= threshold {
			rest = false
		}
	})
	return rest
}
