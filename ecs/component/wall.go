package component

type WallSide int

const (
	WallTop WallSide = iota
	WallBottom
	WallLeft
	WallRight
)

type Wall struct {
	Side WallSide
}

var WallComponent = NewComponent[Wall]()
