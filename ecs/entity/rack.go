package entity

import (
	"fmt"
	"image/color"

	"github.com/milk9111/billiards/ecs"
	"github.com/milk9111/billiards/ecs/component"
	"github.com/milk9111/billiards/prefabs"
)

var defaultCueColor = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// RackPositions lays out the triangle: row i holds i+1 balls, rows step
// toward the far rail and each row is centered on the apex line.
func RackPositions(spec *prefabs.TableSpec, t component.Table) [][2]float64 {
	r := t.BallRadius
	apexX := t.Width * spec.Rack.ApexX
	apexY := t.Height * spec.Rack.ApexY

	out := make([][2]float64, 0, spec.Rack.Rows*(spec.Rack.Rows+1)/2)
	for i := 0; i < spec.Rack.Rows; i++ {
		for j := 0; j <= i; j++ {
			x := apexX + float64(i)*spec.Rack.RowSpacing*r
			y := apexY + (float64(j)-float64(i)/2)*spec.Rack.ColumnSpacing*r
			out = append(out, [2]float64{x, y})
		}
	}
	return out
}

// BuildRack places the cue ball on its spawn point and the object balls in
// the triangle, coloring rows by parity.
func BuildRack(w *ecs.World, spec *prefabs.TableSpec, t component.Table) (ecs.Entity, error) {
	cue, err := newBall(w, spec, t, component.Ball{
		Role:   component.BallRoleCue,
		Radius: t.BallRadius,
		Color:  spec.CueBall.Color.ColorOr(defaultCueColor),
	}, t.CueSpawnX, t.CueSpawnY)
	if err != nil {
		return 0, fmt.Errorf("rack: cue ball: %w", err)
	}

	number := 1
	idx := 0
	positions := RackPositions(spec, t)
	for row := 0; row < spec.Rack.Rows; row++ {
		c := spec.Rack.Colors[row%len(spec.Rack.Colors)].ColorOr(defaultCueColor)
		for j := 0; j <= row; j++ {
			pos := positions[idx]
			if _, err := newBall(w, spec, t, component.Ball{
				Role:   component.BallRoleObject,
				Number: number,
				Radius: t.BallRadius,
				Color:  c,
			}, pos[0], pos[1]); err != nil {
				return 0, fmt.Errorf("rack: ball %d: %w", number, err)
			}
			number++
			idx++
		}
	}

	return cue, nil
}

func newBall(w *ecs.World, spec *prefabs.TableSpec, t component.Table, ball component.Ball, x, y float64) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.BallComponent.Kind(), &ball); err != nil {
		return 0, fmt.Errorf("add ball: %w", err)
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y}); err != nil {
		return 0, fmt.Errorf("add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Radius:      t.BallRadius,
		Mass:        spec.Ball.Mass,
		Friction:    spec.Ball.Friction,
		Elasticity:  spec.Ball.Elasticity,
		AirFriction: spec.Ball.AirFriction,
	}); err != nil {
		return 0, fmt.Errorf("add physics body: %w", err)
	}
	if err := addRender(w, e, ball.Color, component.LayerBall); err != nil {
		return 0, err
	}
	return e, nil
}
