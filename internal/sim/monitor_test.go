package sim

import (
	"testing"
	"time"

	"routehazard-sim/internal/hazard"
	"routehazard-sim/internal/route"
	"routehazard-sim/internal/telemetry"
)

func hazardAt(id string, distance float64) *hazard.Hazard {
	return &hazard.Hazard{
		ID:       id,
		Distance: distance,
		Position: route.Waypoint{Lat: 0, Lon: distance / 111195},
		State:    hazard.StatePending,
	}
}

func driveState(distance float64, elapsed time.Duration) SimulationState {
	return SimulationState{DistanceTraveled: distance, Elapsed: elapsed}
}

// The reference scenario: 1000m route, one hazard at 500m, 10 m/s, 1s ticks,
// 80m warning distance. The warning must fire at the first tick where the
// vehicle is within 80m of the hazard, which is tick 42 (420m).
func TestMonitor_ReferenceScenario(t *testing.T) {
	h := hazardAt("hazard-000", 500)
	mon := NewMonitor("run-1", "car-1", []*hazard.Hazard{h}, 80, 5, nil)

	var fired *telemetry.WarningRow
	firedTick := -1
	for tick := 1; tick <= 100; tick++ {
		state := driveState(float64(tick)*10, time.Duration(tick)*time.Second)
		if w := mon.Check(state); w != nil {
			if fired != nil {
				t.Fatalf("second warning fired at tick %d", tick)
			}
			fired = w
			firedTick = tick
		}
	}

	if fired == nil {
		t.Fatal("warning never fired")
	}
	if firedTick != 42 {
		t.Errorf("warning fired at tick %d, want 42", firedTick)
	}
	if fired.GapM != 80 {
		t.Errorf("gap at firing = %f, want 80", fired.GapM)
	}
	if fired.DistanceM != 420 {
		t.Errorf("vehicle distance at firing = %f, want 420", fired.DistanceM)
	}
	if fired.ElapsedS != 42 {
		t.Errorf("elapsed at firing = %f, want 42", fired.ElapsedS)
	}
	if h.State != hazard.StatePassed {
		t.Errorf("hazard state after run = %q, want passed", h.State)
	}
	if got := mon.Warnings(); len(got) != 1 || got[0].HazardID != "hazard-000" {
		t.Errorf("warning log = %+v, want exactly one for hazard-000", got)
	}
}

func TestMonitor_WarnedBecomesPassedAfterHysteresis(t *testing.T) {
	h := hazardAt("hazard-000", 500)
	mon := NewMonitor("run-1", "car-1", []*hazard.Hazard{h}, 80, 5, nil)

	if w := mon.Check(driveState(430, 0)); w == nil {
		t.Fatal("expected warning at 430m")
	}
	if h.State != hazard.StateWarned {
		t.Fatalf("state = %q, want warned", h.State)
	}

	// Within hysteresis past the hazard: still warned.
	mon.Check(driveState(504, 0))
	if h.State != hazard.StateWarned {
		t.Errorf("state at 504m = %q, want warned (within 5m hysteresis)", h.State)
	}

	// Beyond hysteresis: passed.
	mon.Check(driveState(506, 0))
	if h.State != hazard.StatePassed {
		t.Errorf("state at 506m = %q, want passed", h.State)
	}
}

func TestMonitor_NoWarningOutsideThreshold(t *testing.T) {
	h := hazardAt("hazard-000", 500)
	mon := NewMonitor("run-1", "car-1", []*hazard.Hazard{h}, 80, 5, nil)
	if w := mon.Check(driveState(400, 0)); w != nil {
		t.Errorf("warning fired at 100m gap with 80m threshold: %+v", w)
	}
	if h.State != hazard.StatePending {
		t.Errorf("state = %q, want pending", h.State)
	}
}

func TestMonitor_SelectsNearestAhead(t *testing.T) {
	far := hazardAt("hazard-001", 900)
	near := hazardAt("hazard-000", 450)
	behind := hazardAt("hazard-002", 100)
	behind.State = hazard.StatePassed
	mon := NewMonitor("run-1", "car-1", []*hazard.Hazard{far, near, behind}, 80, 5, nil)

	w := mon.Check(driveState(400, 0))
	if w == nil || w.HazardID != "hazard-000" {
		t.Fatalf("expected warning for nearest hazard-000, got %+v", w)
	}
	if far.State != hazard.StatePending {
		t.Errorf("far hazard state = %q, want pending", far.State)
	}
}

func TestMonitor_TieBreaksByID(t *testing.T) {
	a := hazardAt("hazard-000", 450)
	b := hazardAt("hazard-001", 450)
	mon := NewMonitor("run-1", "car-1", []*hazard.Hazard{b, a}, 80, 5, nil)

	w := mon.Check(driveState(400, 0))
	if w == nil || w.HazardID != "hazard-000" {
		t.Fatalf("tie must select lowest ID, got %+v", w)
	}
}

func TestMonitor_AtMostOneWarningPerHazard(t *testing.T) {
	hazards := []*hazard.Hazard{hazardAt("hazard-000", 300), hazardAt("hazard-001", 600)}
	mon := NewMonitor("run-1", "car-1", hazards, 80, 5, nil)

	count := 0
	for d := 10.0; d <= 1000; d += 10 {
		if w := mon.Check(driveState(d, 0)); w != nil {
			count++
		}
	}
	if count != 2 {
		t.Errorf("fired %d warnings for 2 hazards, want 2", count)
	}
	for _, h := range hazards {
		if h.State != hazard.StatePassed {
			t.Errorf("hazard %s final state = %q, want passed", h.ID, h.State)
		}
	}
}

func TestMonitor_ObserverInvokedSynchronously(t *testing.T) {
	h := hazardAt("hazard-000", 100)
	var seen []telemetry.WarningRow
	mon := NewMonitor("run-1", "car-1", []*hazard.Hazard{h}, 80, 5, func(row telemetry.WarningRow) {
		seen = append(seen, row)
	})
	mon.Check(driveState(50, 0))
	if len(seen) != 1 || seen[0].HazardID != "hazard-000" {
		t.Errorf("observer saw %+v, want one row for hazard-000", seen)
	}
}

func TestMonitor_EmptyHazardSet(t *testing.T) {
	mon := NewMonitor("run-1", "car-1", nil, 80, 5, nil)
	for d := 0.0; d <= 1000; d += 100 {
		if w := mon.Check(driveState(d, 0)); w != nil {
			t.Fatalf("warning with no hazards: %+v", w)
		}
	}
	if len(mon.Warnings()) != 0 {
		t.Errorf("warning log not empty: %+v", mon.Warnings())
	}
}
