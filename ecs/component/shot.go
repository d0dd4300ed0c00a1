package component

type ShotState int

const (
	ShotIdle ShotState = iota
	ShotAiming
)

func (s ShotState) String() string {
	switch s {
	case ShotIdle:
		return "idle"
	case ShotAiming:
		return "aiming"
	default:
		return "unknown"
	}
}

// ShotController holds the drag gesture. Origin and Current are only
// meaningful while State is ShotAiming.
type ShotController struct {
	State    ShotState
	OriginX  float64
	OriginY  float64
	CurrentX float64
	CurrentY float64

	Shots      int
	LastForceX float64
	LastForceY float64
}

var ShotControllerComponent = NewComponent[ShotController]()
