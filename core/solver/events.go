package solver

// Events published on the solve bus. Callers subscribe to observe
// progress and decide when to stop stepping the optimizer.

// PlacementEvent reports one greedy placement.
type PlacementEvent struct {
	StudentID string
	TargetID  string
	Score     float64
}

// UnassignedEvent reports a student the greedy pass could not place.
type UnassignedEvent struct {
	StudentID string
	Problem   string
}

// SwapEvent reports an applied local-search move.
type SwapEvent struct {
	StudentA string
	StudentB string // empty for a rescue move
	Gain     float64
}

// PassEvent reports a completed local-search pass.
type PassEvent struct {
	Pass     int
	Improved bool
}
