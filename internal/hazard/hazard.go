// Hazard lifecycle types for potholes placed along a route.
package hazard

import "routehazard-sim/internal/route"

// State tracks a hazard through its warning lifecycle. Transitions only move
// forward: pending -> warned -> passed.
type State string

const (
	StatePending State = "pending"
	StateWarned  State = "warned"
	StatePassed  State = "passed"
)

// Hazard is a synthetic point obstacle fixed at a distance along the route.
// Distance and Position never change after generation; only State does, and
// only the proximity monitor mutates it.
type Hazard struct {
	ID       string         `json:"id"`
	Distance float64        `json:"distance_m"`
	Position route.Waypoint `json:"position"`
	State    State          `json:"state"`
}
