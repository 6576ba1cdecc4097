package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"routehazard-sim/internal/sim"
	"routehazard-sim/internal/telemetry"
)

func TestNewWritersPrintOnly(t *testing.T) {
	tw, ww, cleanup, err := newWriters(nil, true, "")
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	cleanup()
	if _, ok := tw.(*sim.ColorStdoutWriter); !ok {
		t.Fatalf("expected *sim.ColorStdoutWriter, got %T", tw)
	}
	if _, ok := ww.(*sim.ColorStdoutWriter); !ok {
		t.Fatalf("expected *sim.ColorStdoutWriter, got %T", ww)
	}
}

func TestNewWritersGreptimeFallback(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "")
	tw, _, cleanup, err := newWriters(nil, false, "")
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	cleanup()
	if _, ok := tw.(*sim.ColorStdoutWriter); !ok {
		t.Fatalf("expected *sim.ColorStdoutWriter, got %T", tw)
	}
}

func TestNewWritersLogFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "telemetry.log")
	tw, ww, cleanup, err := newWriters(nil, true, path)
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	defer cleanup()
	if _, ok := tw.(*sim.MultiWriter); !ok {
		t.Fatalf("expected *sim.MultiWriter, got %T", tw)
	}

	row := telemetry.VehicleRow{RunID: "r1", VehicleID: "car-1", Timestamp: time.Now()}
	if err := tw.Write(row); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	warn := telemetry.WarningRow{RunID: "r1", HazardID: "hazard-000", GapM: 75, Timestamp: time.Now()}
	if err := ww.WriteWarning(warn); err != nil {
		t.Fatalf("write warning failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("expected log file to be non-empty")
	}
	warnInfo, err := os.Stat(path + ".warnings")
	if err != nil {
		t.Fatalf("stat warnings failed: %v", err)
	}
	if warnInfo.Size() == 0 {
		t.Fatalf("expected warning file to be non-empty")
	}
}
