package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/billiards/ecs/component"
)

// pointer merges the mouse and a single touch into one drag in table
// coordinates. The first touch to land owns the gesture until it lifts.
type pointer struct {
	offsetX float64
	offsetY float64

	touchID  ebiten.TouchID
	touching bool
	mouse    bool
	lost     bool

	touchIDs []ebiten.TouchID
}

func newPointer(offsetX, offsetY float64) *pointer {
	return &pointer{offsetX: offsetX, offsetY: offsetY}
}

// cancel drops the active gesture; the next poll reports it as lost.
func (p *pointer) cancel() {
	if p.touching || p.mouse {
		p.lost = true
	}
	p.touching = false
	p.mouse = false
}

func (p *pointer) Poll() component.Input {
	if (p.touching || p.mouse) && !ebiten.IsFocused() {
		p.cancel()
	}
	if p.lost {
		p.lost = false
		x, y := ebiten.CursorPosition()
		return p.sample(x, y, component.Input{Lost: true})
	}

	if p.touching {
		if inpututil.IsTouchJustReleased(p.touchID) {
			p.touching = false
			x, y := inpututil.TouchPositionInPreviousTick(p.touchID)
			return p.sample(x, y, component.Input{Released: true, Touch: true})
		}
		x, y := ebiten.TouchPosition(p.touchID)
		return p.sample(x, y, component.Input{Down: true, Touch: true})
	}

	if !p.mouse {
		p.touchIDs = inpututil.AppendJustPressedTouchIDs(p.touchIDs[:0])
		if len(p.touchIDs) > 0 {
			p.touchID = p.touchIDs[0]
			p.touching = true
			x, y := ebiten.TouchPosition(p.touchID)
			return p.sample(x, y, component.Input{Down: true, Pressed: true, Touch: true})
		}
	}

	x, y := ebiten.CursorPosition()
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		p.mouse = true
		return p.sample(x, y, component.Input{Down: true, Pressed: true})
	case p.mouse && (inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) || !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)):
		p.mouse = false
		return p.sample(x, y, component.Input{Released: true})
	case p.mouse:
		return p.sample(x, y, component.Input{Down: true})
	}
	return p.sample(x, y, component.Input{})
}

func (p *pointer) sample(x, y int, in component.Input) component.Input {
	in.X = float64(x) - p.offsetX
	in.Y = float64(y) - p.offsetY
	return in
}
