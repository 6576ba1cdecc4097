package sim

import (
	"fmt"
	"time"

	"routehazard-sim/internal/route"
)

// SimulationState is a read-only snapshot of the vehicle's progress along
// the route.
type SimulationState struct {
	DistanceTraveled float64
	Position         route.Waypoint
	Elapsed          time.Duration
	Finished         bool
}

// Motion advances a vehicle along the route at constant speed by dead
// reckoning; the vehicle never leaves the route geometry.
type Motion struct {
	path     *route.Path
	speed    float64
	distance float64
	elapsed  time.Duration
	position route.Waypoint
	finished bool
}

// NewMotion places a vehicle at the start of the path.
func NewMotion(path *route.Path, speedMps float64) (*Motion, error) {
	if speedMps <= 0 {
		return nil, fmt.Errorf("sim: speed must be positive, got %.2f m/s", speedMps)
	}
	start, err := path.PositionAt(0)
	if err != nil {
		return nil, err
	}
	return &Motion{path: path, speed: speedMps, position: start}, nil
}

// Step advances the vehicle by speed*dt, clamped at the end of the route.
// Reaching the clamp transitions the motion to finished; further Step calls
// are no-ops that return the final state.
func (m *Motion) Step(dt time.Duration) (SimulationState, error) {
	if m.finished {
		return m.State(), nil
	}
	if dt <= 0 {
		return SimulationState{}, fmt.Errorf("sim: step duration must be positive, got %s", dt)
	}
	m.distance += m.speed * dt.Seconds()
	if m.distance >= m.path.TotalLength() {
		m.distance = m.path.TotalLength()
		m.finished = true
	}
	pos, err := m.path.PositionAt(m.distance)
	if err != nil {
		// Unreachable while the clamp above holds.
		return SimulationState{}, fmt.Errorf("sim: motion overshoot: %w", err)
	}
	m.position = pos
	m.elapsed += dt
	return m.State(), nil
}

// State returns a snapshot of the current motion state.
func (m *Motion) State() SimulationState {
	return SimulationState{
		DistanceTraveled: m.distance,
		Position:         m.position,
		Elapsed:          m.elapsed,
		Finished:         m.finished,
	}
}

// Finished reports whether the vehicle has reached the end of the route.
func (m *Motion) Finished() bool {
	return m.finished
}

// Speed returns the configured vehicle speed in m/s.
func (m *Motion) Speed() float64 {
	return m.speed
}
