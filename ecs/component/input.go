package component

// Input stores per-tick pointer state in table coordinates. Pressed and
// Released are edges for the current tick only; Lost reports that the
// pointer capture went away without a release.
type Input struct {
	X        float64
	Y        float64
	Down     bool
	Pressed  bool
	Released bool
	Lost     bool
	Touch    bool
}

var InputComponent = NewComponent[Input]()
