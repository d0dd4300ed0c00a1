package component

// Pocket is a static sensor that swallows balls on first contact.
type Pocket struct {
	Index  int
	Radius float64
}

var PocketComponent = NewComponent[Pocket]()

// PocketedRequest is attached to a ball by the physics system when it begins
// touching a pocket. The pocket system consumes it after the step.
type PocketedRequest struct {
	Pocket int
}

var PocketedRequestComponent = NewComponent[PocketedRequest]()
