package entity

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/milk9111/billiards/ecs"
	"github.com/milk9111/billiards/ecs/component"
	"github.com/milk9111/billiards/prefabs"
)

var (
	defaultWallColor   = color.NRGBA{R: 0x4a, G: 0x2a, B: 0x1a, A: 0xff}
	defaultPocketColor = color.NRGBA{A: 0xff}
)

// TableGeometry derives the table singleton for a given width. Height
// follows the prefab aspect ratio and every radius scales with width.
func TableGeometry(spec *prefabs.TableSpec, width float64) (component.Table, error) {
	if spec == nil {
		return component.Table{}, errors.New("table: nil spec")
	}
	if width <= 0 {
		return component.Table{}, fmt.Errorf("table: width %v must be positive", width)
	}
	height := width / spec.AspectRatio
	ballRadius := width * spec.Ball.RadiusRatio
	return component.Table{
		Width:         width,
		Height:        height,
		WallThickness: spec.Wall.Thickness,
		BallRadius:    ballRadius,
		PocketRadius:  ballRadius * spec.Pocket.RadiusRatio,
		CueSpawnX:     width * spec.CueBall.SpawnX,
		CueSpawnY:     height * spec.CueBall.SpawnY,
	}, nil
}

// PocketPositions returns the six pocket centers: the four corners inset
// along both axes, then the two side pockets on the long rails.
func PocketPositions(spec *prefabs.TableSpec, t component.Table) [6][2]float64 {
	corner := t.PocketRadius * spec.Pocket.CornerInset
	side := t.PocketRadius * spec.Pocket.SideInset
	w, h := t.Width, t.Height
	return [6][2]float64{
		{corner, corner},
		{w / 2, side},
		{w - corner, corner},
		{corner, h - corner},
		{w / 2, h - side},
		{w - corner, h - corner},
	}
}

// BuildTable registers the table singleton, the four walls and the six
// pocket sensors.
func BuildTable(w *ecs.World, spec *prefabs.TableSpec, width float64) (component.Table, error) {
	table, err := TableGeometry(spec, width)
	if err != nil {
		return component.Table{}, err
	}

	root := ecs.CreateEntity(w)
	if err := ecs.Add(w, root, component.TableComponent.Kind(), &table); err != nil {
		return component.Table{}, fmt.Errorf("table: add table: %w", err)
	}

	wt := table.WallThickness
	tw, th := table.Width, table.Height
	walls := []struct {
		side component.WallSide
		x, y float64
		w, h float64
	}{
		{component.WallTop, tw / 2, -wt / 2, tw, wt},
		{component.WallBottom, tw / 2, th + wt/2, tw, wt},
		{component.WallLeft, -wt / 2, th / 2, wt, th},
		{component.WallRight, tw + wt/2, th / 2, wt, th},
	}
	wallColor := spec.Wall.Color.ColorOr(defaultWallColor)
	for _, wall := range walls {
		e := ecs.CreateEntity(w)
		if err := ecs.Add(w, e, component.WallComponent.Kind(), &component.Wall{Side: wall.side}); err != nil {
			return component.Table{}, fmt.Errorf("table: add wall: %w", err)
		}
		if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: wall.x, Y: wall.y}); err != nil {
			return component.Table{}, fmt.Errorf("table: add wall transform: %w", err)
		}
		if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
			Width:      wall.w,
			Height:     wall.h,
			Friction:   spec.Wall.Friction,
			Elasticity: spec.Wall.Elasticity,
			Static:     true,
		}); err != nil {
			return component.Table{}, fmt.Errorf("table: add wall body: %w", err)
		}
		if err := addRender(w, e, wallColor, component.LayerWall); err != nil {
			return component.Table{}, fmt.Errorf("table: wall: %w", err)
		}
	}

	pocketColor := spec.Pocket.Color.ColorOr(defaultPocketColor)
	for i, pos := range PocketPositions(spec, table) {
		e := ecs.CreateEntity(w)
		if err := ecs.Add(w, e, component.PocketComponent.Kind(), &component.Pocket{Index: i, Radius: table.PocketRadius}); err != nil {
			return component.Table{}, fmt.Errorf("table: add pocket: %w", err)
		}
		if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: pos[0], Y: pos[1]}); err != nil {
			return component.Table{}, fmt.Errorf("table: add pocket transform: %w", err)
		}
		if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
			Radius: table.PocketRadius,
			Static: true,
			Sensor: true,
		}); err != nil {
			return component.Table{}, fmt.Errorf("table: add pocket body: %w", err)
		}
		if err := addRender(w, e, pocketColor, component.LayerPocket); err != nil {
			return component.Table{}, fmt.Errorf("table: pocket: %w", err)
		}
	}

	return table, nil
}

func addRender(w *ecs.World, e ecs.Entity, c color.Color, layer int) error {
	if err := ecs.Add(w, e, component.FillComponent.Kind(), &component.Fill{Color: c}); err != nil {
		return fmt.Errorf("add fill: %w", err)
	}
	if err := ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: layer}); err != nil {
		return fmt.Errorf("add render layer: %w", err)
	}
	return nil
}
