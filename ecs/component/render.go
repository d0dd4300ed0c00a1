package component

import "image/color"

// Fill draws the entity's physics shape as a solid color.
type Fill struct {
	Color color.Color
}

var FillComponent = NewComponent[Fill]()

// RenderLayer is used to sort draw order deterministically.
type RenderLayer struct {
	Index int
}

var RenderLayerComponent = NewComponent[RenderLayer]()

const (
	LayerPocket = iota
	LayerWall
	LayerBall
	LayerOverlay
)
