package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/billiards/ecs"
	"github.com/milk9111/billiards/ecs/component"
	"github.com/milk9111/billiards/prefabs"
	"go.uber.org/zap"
)

// ShotParams tunes the drag-to-shoot gesture. Distances are in table
// units and speeds in table units per tick.
type ShotParams struct {
	MotionThreshold float64
	MinDrag         float64
	ForceDivisor    float64
	MaxForce        float64
	ImpulseScale    float64
}

func ShotParamsFromSpec(spec prefabs.ShotSpec) ShotParams {
	return ShotParams{
		MotionThreshold: spec.MotionThreshold,
		MinDrag:         spec.MinDrag,
		ForceDivisor:    spec.ForceDivisor,
		MaxForce:        spec.MaxForce,
		ImpulseScale:    spec.ImpulseScale,
	}
}

// ComputeShot turns a drag from origin to release into a force. The ball is
// pushed away from the release point, scaled by drag length and capped at
// MaxForce. Drags no longer than MinDrag produce no shot.
func ComputeShot(originX, originY, releaseX, releaseY float64, p ShotParams) (cp.Vector, bool) {
	d := cp.Vector{X: originX - releaseX, Y: originY - releaseY}
	dist := d.Length()
	if dist <= p.MinDrag || dist == 0 || p.ForceDivisor <= 0 {
		return cp.Vector{}, false
	}
	magnitude := math.Min(dist/p.ForceDivisor, p.MaxForce)
	return d.Mult(magnitude / dist), true
}

// ShotSystem runs the Idle/Aiming state machine on the shot controller and
// fires the cue ball on release.
type ShotSystem struct {
	params ShotParams
	log    *zap.Logger
}

func NewShotSystem(params ShotParams, log *zap.Logger) *ShotSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &ShotSystem{params: params, log: log}
}

func (s *ShotSystem) Params() ShotParams {
	return s.params
}

func (s *ShotSystem) SetParams(p ShotParams) {
	s.params = p
}

func (s *ShotSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	e, ok := ecs.First(w, component.ShotControllerComponent.Kind())
	if !ok {
		return
	}
	ctrl, _ := ecs.Get(w, e, component.ShotControllerComponent.Kind())
	input, ok := ecs.Get(w, e, component.InputComponent.Kind())
	if !ok {
		return
	}

	if input.Pressed {
		s.press(w, ctrl, input)
	}
	if ctrl.State != component.ShotAiming {
		return
	}

	switch {
	case input.Lost:
		s.cancel(ctrl, "pointer lost")
	case input.Released:
		s.release(w, ctrl, input)
	default:
		ctrl.CurrentX = input.X
		ctrl.CurrentY = input.Y
	}
}

func (s *ShotSystem) press(w *ecs.World, ctrl *component.ShotController, input *component.Input) {
	if ctrl.State != component.ShotIdle {
		return
	}
	if !BallsAtRest(w, s.params.MotionThreshold) {
		return
	}
	ctrl.State = component.ShotAiming
	ctrl.OriginX, ctrl.OriginY = input.X, input.Y
	ctrl.CurrentX, ctrl.CurrentY = input.X, input.Y
}

func (s *ShotSystem) release(w *ecs.World, ctrl *component.ShotController, input *component.Input) {
	ctrl.CurrentX, ctrl.CurrentY = input.X, input.Y

	force, ok := ComputeShot(ctrl.OriginX, ctrl.OriginY, input.X, input.Y, s.params)
	if !ok {
		s.cancel(ctrl, "drag too short")
		return
	}

	cue, ok := CueBall(w)
	if !ok {
		s.cancel(ctrl, "no cue ball")
		return
	}
	body, ok := ecs.Get(w, cue, component.PhysicsBodyComponent.Kind())
	if !ok || body.Body == nil {
		s.cancel(ctrl, "cue ball has no body")
		return
	}

	body.Body.ApplyImpulseAtWorldPoint(force.Mult(s.params.ImpulseScale), body.Body.Position())

	ctrl.State = component.ShotIdle
	ctrl.Shots++
	ctrl.LastForceX, ctrl.LastForceY = force.X, force.Y
	s.log.Debug("shot fired",
		zap.Int("shot", ctrl.Shots),
		zap.Float64("force_x", force.X),
		zap.Float64("force_y", force.Y),
	)
}

func (s *ShotSystem) cancel(ctrl *component.ShotController, reason string) {
	ctrl.State = component.ShotIdle
	s.log.Debug("shot cancelled", zap.String("reason", reason))
}
