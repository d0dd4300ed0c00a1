package system

import (
	"github.com/milk9111/billiards/ecs"
	"github.com/milk9111/billiards/ecs/component"
)

// PointerSource reports the pointer state for the current tick in table
// coordinates.
type PointerSource interface {
	Poll() component.Input
}

type PointerFunc func() component.Input

func (f PointerFunc) Poll() component.Input {
	return f()
}

// InputSystem copies one pointer sample per tick into every Input
// component.
type InputSystem struct {
	source PointerSource
}

func NewInputSystem(source PointerSource) *InputSystem {
	return &InputSystem{source: source}
}

func (s *InputSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	var sample component.Input
	if s.source != nil {
		sample = s.source.Poll()
	}

	ecs.ForEach(w, component.InputComponent.Kind(), func(_ ecs.Entity, input *component.Input) {
		*input = sample
	})
}
