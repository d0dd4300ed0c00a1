package system

import (
	"github.com/milk9111/billiards/ecs"
	"github.com/milk9111/billiards/ecs/component"
)

// AimSystem points the guide line away from the drag while aiming and
// hides it otherwise.
type AimSystem struct {
	width float32
}

func NewAimSystem(width float32) *AimSystem {
	return &AimSystem{width: width}
}

func (s *AimSystem) SetWidth(width float32) {
	s.width = width
}

func (s *AimSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	guide, ok := ecs.First(w, component.AimGuideTagComponent.Kind())
	if !ok {
		return
	}
	line, ok := ecs.Get(w, guide, component.LineRenderComponent.Kind())
	if !ok {
		return
	}
	line.Width = 0

	ctrlEnt, ok := ecs.First(w, component.ShotControllerComponent.Kind())
	if !ok {
		return
	}
	ctrl, _ := ecs.Get(w, ctrlEnt, component.ShotControllerComponent.Kind())
	if ctrl.State != component.ShotAiming {
		return
	}

	cue, ok := CueBall(w)
	if !ok {
		return
	}
	pos, ok := ecs.Get(w, cue, component.TransformComponent.Kind())
	if !ok {
		return
	}

	line.StartX, line.StartY = pos.X, pos.Y
	line.EndX = pos.X - (ctrl.CurrentX - ctrl.OriginX)
	line.EndY = pos.Y - (ctrl.CurrentY - ctrl.OriginY)
	line.Width = s.width
}
