package component

import "image/color"

type BallRole int

const (
	BallRoleObject BallRole = iota
	BallRoleCue
)

func (r BallRole) String() string {
	switch r {
	case BallRoleCue:
		return "cue"
	case BallRoleObject:
		return "object"
	default:
		return "unknown"
	}
}

// Ball marks a live ball. Number is 0 for the cue ball and 1-15 for object
// balls in rack order.
type Ball struct {
	Role   BallRole
	Number int
	Radius float64
	Color  color.Color
}

var BallComponent = NewComponent[Ball]()
