// Package sim models the driving world that the gesture pipeline steers:
// a car with momentum, the stream of road objects it dodges, and the game
// mode table. All time is passed in explicitly so the model is fully
// deterministic under test.
package sim

// Rect is an axis-aligned collision rectangle in screen coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Intersects reports whether two rectangles overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W &&
		r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// World geometry. The road occupies the middle of an 800x600 screen; the
// car is clamped to it and objects are culled shortly below the bottom
// edge.
const (
	RoadLeft   = 50
	RoadRight  = 750
	SpawnXMin  = 320
	SpawnXMax  = 480
	SpawnY     = -20
	CullY      = 650
	ScreenW    = 800
	ScreenH    = 600
	CarStartX  = 400
	CarStartY  = 500
)
