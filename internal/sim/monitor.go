package sim

import (
	"time"

	"routehazard-sim/internal/hazard"
	"routehazard-sim/internal/telemetry"
)

// WarningObserver is invoked synchronously inside Check for every warning,
// in chronological order.
type WarningObserver func(telemetry.WarningRow)

// Monitor tracks the hazard set against the vehicle's progress and fires at
// most one warning per hazard. It is the only mutator of hazard state.
type Monitor struct {
	runID           string
	vehicleID       string
	hazards         []*hazard.Hazard
	warningDistance float64
	hysteresis      float64
	warnings        []telemetry.WarningRow
	observer        WarningObserver
	now             func() time.Time
}

// NewMonitor creates a Monitor over the given hazard set. The observer may
// be nil. Hysteresis is the margin past a hazard before it counts as passed.
func NewMonitor(runID, vehicleID string, hazards []*hazard.Hazard, warningDistance, hysteresis float64, observer WarningObserver) *Monitor {
	return &Monitor{
		runID:           runID,
		vehicleID:       vehicleID,
		hazards:         hazards,
		warningDistance: warningDistance,
		hysteresis:      hysteresis,
		observer:        observer,
		now:             time.Now,
	}
}

// Check retires hazards the vehicle has passed, then looks for the nearest
// pending hazard ahead of the vehicle. If its gap is within the warning
// distance the hazard transitions to warned and a warning row is returned;
// otherwise Check returns nil. A nil result is the normal quiet outcome,
// never an error.
func (mon *Monitor) Check(state SimulationState) *telemetry.WarningRow {
	mon.retirePassed(state.DistanceTraveled)

	next := mon.nearestAhead(state.DistanceTraveled)
	if next == nil {
		return nil
	}
	gap := next.Distance - state.DistanceTraveled
	if gap > mon.warningDistance {
		return nil
	}

	next.State = hazard.StateWarned
	row := telemetry.WarningRow{
		RunID:     mon.runID,
		VehicleID: mon.vehicleID,
		HazardID:  next.ID,
		GapM:      gap,
		Lat:       next.Position.Lat,
		Lon:       next.Position.Lon,
		DistanceM: state.DistanceTraveled,
		ElapsedS:  state.Elapsed.Seconds(),
		Timestamp: mon.now().UTC(),
	}
	mon.warnings = append(mon.warnings, row)
	if mon.observer != nil {
		mon.observer(row)
	}
	return &row
}

// nearestAhead selects the pending hazard with the smallest distance at or
// beyond the vehicle. Equal distances cannot occur with a valid generator
// output, but are still broken deterministically by lowest ID.
func (mon *Monitor) nearestAhead(traveled float64) *hazard.Hazard {
	var next *hazard.Hazard
	for _, h := range mon.hazards {
		if h.State != hazard.StatePending || h.Distance < traveled {
			continue
		}
		if next == nil || h.Distance < next.Distance ||
			(h.Distance == next.Distance && h.ID < next.ID) {
			next = h
		}
	}
	return next
}

// retirePassed moves hazards to passed once the vehicle is beyond them by
// the hysteresis margin, so they can never be reselected. Warned hazards are
// the normal case; a pending hazard the vehicle jumped over in one step is
// retired too so the final report reflects reality.
func (mon *Monitor) retirePassed(traveled float64) {
	for _, h := range mon.hazards {
		if h.State == hazard.StatePassed {
			continue
		}
		if traveled > h.Distance+mon.hysteresis {
			h.State = hazard.StatePassed
		}
	}
}

// Warnings returns a copy of the chronological warning log.
func (mon *Monitor) Warnings() []telemetry.WarningRow {
	out := make([]telemetry.WarningRow, len(mon.warnings))
	copy(out, mon.warnings)
	return out
}
