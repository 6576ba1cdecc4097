package main

import (
	"os"

	"routehazard-sim/internal/config"
	"routehazard-sim/internal/sim"
	"routehazard-sim/internal/telemetry"
)

// newWriters sets up telemetry and warning writers based on flags and env
// vars. It returns the writers and a cleanup function to close any resources.
func newWriters(cfg *config.SimulationConfig, printOnly bool, logFile string) (sim.TelemetryWriter, sim.WarningWriter, func(), error) {
	cleanup := func() {}

	writer, warnWriter, err := baseWriters(cfg, printOnly)
	if err != nil {
		return nil, nil, nil, err
	}
	if logFile == "" {
		return writer, warnWriter, cleanup, nil
	}

	fw, err := sim.NewFileWriter(logFile, logFile+".warnings")
	if err != nil {
		return nil, nil, nil, err
	}
	mw := sim.NewMultiWriter(
		[]sim.TelemetryWriter{writer, fw},
		[]sim.WarningWriter{warnWriter, fw},
	)
	cleanup = func() { fw.Close() }
	return mw, mw, cleanup, nil
}

// baseWriters chooses the underlying writers based on printOnly flag and env vars.
func baseWriters(cfg *config.SimulationConfig, printOnly bool) (sim.TelemetryWriter, sim.WarningWriter, error) {
	if printOnly || os.Getenv("GREPTIMEDB_ENDPOINT") == "" {
		w := sim.NewColorStdoutWriter(cfg)
		return w, w, nil
	}

	endpoint := os.Getenv("GREPTIMEDB_ENDPOINT")
	w, err := sim.NewGreptimeDBWriter(endpoint, "public", telemetry.VehicleTableName, telemetry.WarningTableName)
	if err != nil {
		return nil, nil, err
	}
	return w, w, nil
}
