package render

import (
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/billiards/ecs"
	"github.com/milk9111/billiards/ecs/component"
)

// Renderer draws the table and everything on it. Entities are drawn in
// RenderLayer order, ties broken by entity id. OffsetX/OffsetY translate
// table coordinates to screen coordinates so the walls outside the
// interior stay visible.
type Renderer struct {
	Felt    color.Color
	OffsetX float64
	OffsetY float64
}

func NewRenderer(felt color.Color, offsetX, offsetY float64) *Renderer {
	return &Renderer{Felt: felt, OffsetX: offsetX, OffsetY: offsetY}
}

func (r *Renderer) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}

	if e, ok := ecs.First(w, component.TableComponent.Kind()); ok {
		if table, ok := ecs.Get(w, e, component.TableComponent.Kind()); ok && r.Felt != nil {
			x, y := r.toScreen(0, 0)
			vector.FillRect(screen, x, y, float32(table.Width), float32(table.Height), r.Felt, false)
		}
	}

	for _, e := range r.sorted(w) {
		if fill, ok := ecs.Get(w, e, component.FillComponent.Kind()); ok {
			r.drawFill(w, e, fill, screen)
		}
		if line, ok := ecs.Get(w, e, component.LineRenderComponent.Kind()); ok {
			r.drawLine(line, screen)
		}
	}
}

func (r *Renderer) sorted(w *ecs.World) []ecs.Entity {
	var entities []ecs.Entity
	ecs.ForEach(w, component.RenderLayerComponent.Kind(), func(e ecs.Entity, _ *component.RenderLayer) {
		entities = append(entities, e)
	})

	layerOf := func(e ecs.Entity) int {
		if layer, ok := ecs.Get(w, e, component.RenderLayerComponent.Kind()); ok {
			return layer.Index
		}
		return 0
	}
	sort.SliceStable(entities, func(i, j int) bool {
		li, lj := layerOf(entities[i]), layerOf(entities[j])
		if li != lj {
			return li < lj
		}
		return uint64(entities[i]) < uint64(entities[j])
	})
	return entities
}

func (r *Renderer) drawFill(w *ecs.World, e ecs.Entity, fill *component.Fill, screen *ebiten.Image) {
	if fill.Color == nil {
		return
	}
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return
	}
	body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok {
		return
	}

	if body.Radius > 0 {
		x, y := r.toScreen(t.X, t.Y)
		vector.FillCircle(screen, x, y, float32(body.Radius), fill.Color, true)
		return
	}
	x, y := r.toScreen(t.X-body.Width/2, t.Y-body.Height/2)
	vector.FillRect(screen, x, y, float32(body.Width), float32(body.Height), fill.Color, false)
}

func (r *Renderer) drawLine(line *component.LineRender, screen *ebiten.Image) {
	if line.Width <= 0 || line.Color == nil {
		return
	}
	x1, y1 := r.toScreen(line.StartX, line.StartY)
	x2, y2 := r.toScreen(line.EndX, line.EndY)
	vector.StrokeLine(screen, x1, y1, x2, y2, line.Width, line.Color, line.AntiAlias)
}

func (r *Renderer) toScreen(x, y float64) (float32, float32) {
	return float32(x + r.OffsetX), float32(y + r.OffsetY)
}
