// Simulator orchestrating the vehicle drive and hazard warnings
package sim

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"routehazard-sim/internal/config"
	"routehazard-sim/internal/hazard"
	"routehazard-sim/internal/logging"
	"routehazard-sim/internal/route"
	"routehazard-sim/internal/telemetry"
)

// TelemetryWriter is an interface to support different output writers.
type TelemetryWriter interface {
	Write(telemetry.VehicleRow) error
}

// WarningWriter handles pothole warning events.
type WarningWriter interface {
	WriteWarning(telemetry.WarningRow) error
}

// Snapshot is the read-only result of a run, consumed by reporting and
// export collaborators.
type Snapshot struct {
	RunID      string                 `json:"run_id"`
	VehicleID  string                 `json:"vehicle_id"`
	Waypoints  []route.Waypoint       `json:"waypoints"`
	Cumulative []float64              `json:"cumulative_m"`
	Hazards    []hazard.Hazard        `json:"hazards"`
	Warnings   []telemetry.WarningRow `json:"warnings"`
	State      SimulationState        `json:"-"`
	SpeedMps   float64                `json:"speed_mps"`
	WarningM   float64                `json:"warning_m"`
}

// Simulator drives the motion and proximity models tick by tick. The loop
// itself is strictly sequential: one Step, one Check, one write per tick.
// The mutex only guards concurrent reads from the status server.
type Simulator struct {
	runID        string
	cfg          *config.SimulationConfig
	path         *route.Path
	hazards      []*hazard.Hazard
	motion       *Motion
	monitor      *Monitor
	writer       TelemetryWriter
	warnWriter   WarningWriter
	tickInterval time.Duration
	ticks        int
	now          func() time.Time
	mu           sync.Mutex
}

// NewSimulator builds the full simulation from configuration: hazards are
// generated up front (any placement failure aborts setup before the first
// tick), the vehicle starts at distance zero.
func NewSimulator(runID string, cfg *config.SimulationConfig, path *route.Path, writer TelemetryWriter, warnWriter WarningWriter, tickInterval time.Duration) (*Simulator, error) {
	seed := cfg.Hazards.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	hazards, err := hazard.Generate(path, cfg.Hazards.HazardCount(), cfg.Hazards.MinSeparationM, rng)
	if err != nil {
		return nil, err
	}
	motion, err := NewMotion(path, cfg.Vehicle.SpeedMps)
	if err != nil {
		return nil, err
	}

	s := &Simulator{
		runID:        runID,
		cfg:          cfg,
		path:         path,
		hazards:      hazards,
		motion:       motion,
		writer:       writer,
		warnWriter:   warnWriter,
		tickInterval: tickInterval,
		now:          time.Now,
	}
	s.monitor = NewMonitor(runID, cfg.Vehicle.ID, hazards, cfg.Warning.DistanceM, cfg.Warning.HysteresisM, nil)
	return s, nil
}

// Run drives the simulation in real time, one tick per interval, until the
// vehicle finishes the route or the context is canceled. A tick error halts
// the run; silently skipping a step would corrupt the distance invariants.
func (s *Simulator) Run(ctx context.Context) error {
	log := logging.FromContext(ctx)
	log.Info("starting simulator", "tick_interval", s.tickInterval, "route_m", s.path.TotalLength(), "hazards", len(s.hazards))
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			done, err := s.tick(ctx)
			if err != nil {
				return err
			}
			if done {
				log.Info("route finished", "ticks", s.TickCount())
				return nil
			}
		case <-ctx.Done():
			log.Info("stopping simulator")
			return nil
		}
	}
}

// RunFast drives the simulation to completion without waiting between ticks.
// Used by export and headless runs.
func (s *Simulator) RunFast(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		done, err := s.tick(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// tick advances the vehicle one step and checks hazard proximity. The
// warning observer fires inside monitor.Check, before the telemetry row of
// the same tick is written.
func (s *Simulator) tick(ctx context.Context) (bool, error) {
	log := logging.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.motion.Step(s.tickInterval)
	if err != nil {
		return false, err
	}
	s.ticks++
	if w := s.monitor.Check(state); w != nil && s.warnWriter != nil {
		if err := s.warnWriter.WriteWarning(*w); err != nil {
			log.Error("warning write failed", "hazard_id", w.HazardID, "err", err)
		}
	}

	row := telemetry.VehicleRow{
		RunID:     s.runID,
		VehicleID: s.cfg.Vehicle.ID,
		Lat:       state.Position.Lat,
		Lon:       state.Position.Lon,
		DistanceM: state.DistanceTraveled,
		SpeedMps:  s.motion.Speed(),
		ElapsedS:  state.Elapsed.Seconds(),
		Finished:  state.Finished,
		Timestamp: s.now().UTC(),
	}
	if s.writer != nil {
		if err := s.writer.Write(row); err != nil {
			log.Error("telemetry write failed", "vehicle_id", row.VehicleID, "err", err)
		}
	}
	return state.Finished, nil
}

// SetWriters swaps the telemetry and warning sinks. Used when a writer needs
// the generated hazard set for its own setup, like the TUI.
func (s *Simulator) SetWriters(writer TelemetryWriter, warnWriter WarningWriter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writer = writer
	s.warnWriter = warnWriter
}

// State returns the current motion snapshot.
func (s *Simulator) State() SimulationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.motion.State()
}

// TickCount returns how many ticks have run.
func (s *Simulator) TickCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

// HazardStates returns the number of hazards per state.
func (s *Simulator) HazardStates() map[hazard.State]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[hazard.State]int, 3)
	for _, h := range s.hazards {
		counts[h.State]++
	}
	return counts
}

// Warnings returns a copy of the chronological warning log.
func (s *Simulator) Warnings() []telemetry.WarningRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.monitor.Warnings()
}

// Snapshot returns the route, hazard set, and warning log as a read-only
// copy for reporting and export.
func (s *Simulator) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	hazards := make([]hazard.Hazard, len(s.hazards))
	for i, h := range s.hazards {
		hazards[i] = *h
	}
	return Snapshot{
		RunID:      s.runID,
		VehicleID:  s.cfg.Vehicle.ID,
		Waypoints:  s.path.Waypoints(),
		Cumulative: s.path.Cumulative(),
		Hazards:    hazards,
		Warnings:   s.monitor.Warnings(),
		State:      s.motion.State(),
		SpeedMps:   s.motion.Speed(),
		WarningM:   s.cfg.Warning.DistanceM,
	}
}
