package component

// Table is the singleton describing the playing field. The interior spans
// [0, Width] x [0, Height]; walls sit just outside it.
type Table struct {
	Width         float64
	Height        float64
	WallThickness float64
	BallRadius    float64
	PocketRadius  float64
	CueSpawnX     float64
	CueSpawnY     float64
}

var TableComponent = NewComponent[Table]()
