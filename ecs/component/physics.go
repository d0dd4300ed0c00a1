package component

import "github.com/jakecoffman/cp"

// PhysicsBody stores Chipmunk2D runtime data and collider configuration.
// A positive Radius selects a circle shape, otherwise Width/Height a box.
type PhysicsBody struct {
	Body  *cp.Body
	Shape *cp.Shape

	Width       float64
	Height      float64
	Radius      float64
	Mass        float64
	Friction    float64
	Elasticity  float64
	AirFriction float64
	Static      bool
	Sensor      bool
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
