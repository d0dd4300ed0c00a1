package entity

import (
	"fmt"
	"image/color"

	"github.com/milk9111/billiards/ecs"
	"github.com/milk9111/billiards/ecs/component"
	"github.com/milk9111/billiards/prefabs"
)

var defaultAimColor = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xb3}

// NewShotController creates the entity that receives pointer input and
// carries the drag gesture.
func NewShotController(w *ecs.World) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{}); err != nil {
		return 0, fmt.Errorf("shot controller: add input: %w", err)
	}
	if err := ecs.Add(w, e, component.ShotControllerComponent.Kind(), &component.ShotController{}); err != nil {
		return 0, fmt.Errorf("shot controller: add controller: %w", err)
	}
	return e, nil
}

// NewAimGuide creates the hidden guide line drawn while aiming.
func NewAimGuide(w *ecs.World, spec prefabs.LineRenderSpec) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.AimGuideTagComponent.Kind(), &component.AimGuideTag{}); err != nil {
		return 0, fmt.Errorf("aim guide: add tag: %w", err)
	}
	if err := ecs.Add(w, e, component.LineRenderComponent.Kind(), &component.LineRender{
		Color:     spec.Color.ColorOr(defaultAimColor),
		AntiAlias: spec.AntiAlias,
	}); err != nil {
		return 0, fmt.Errorf("aim guide: add line: %w", err)
	}
	if err := ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: component.LayerOverlay}); err != nil {
		return 0, fmt.Errorf("aim guide: add render layer: %w", err)
	}
	return e, nil
}

// BuildGame populates an empty world with everything a session needs and
// returns the table geometry.
func BuildGame(w *ecs.World, spec *prefabs.TableSpec, width float64) (component.Table, error) {
	table, err := BuildTable(w, spec, width)
	if err != nil {
		return component.Table{}, err
	}
	if _, err := BuildRack(w, spec, table); err != nil {
		return component.Table{}, err
	}
	if _, err := NewShotController(w); err != nil {
		return component.Table{}, err
	}
	if _, err := NewAimGuide(w, spec.Aim); err != nil {
		return component.Table{}, err
	}
	return table, nil
}
