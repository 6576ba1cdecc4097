package sim

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"routehazard-sim/internal/telemetry"
)

func TestFileWriter_WritesJSONL(t *testing.T) {
	dir := t.TempDir()
	telePath := filepath.Join(dir, "telemetry.jsonl")
	warnPath := filepath.Join(dir, "warnings.jsonl")

	fw, err := NewFileWriter(telePath, warnPath)
	if err != nil {
		t.Fatalf("NewFileWriter: %v", err)
	}

	rows := []telemetry.VehicleRow{
		{RunID: "r1", VehicleID: "car-1", DistanceM: 10, Timestamp: time.Unix(0, 0)},
		{RunID: "r1", VehicleID: "car-1", DistanceM: 20, Timestamp: time.Unix(1, 0)},
	}
	for _, r := range rows {
		if err := fw.Write(r); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	warn := telemetry.WarningRow{RunID: "r1", HazardID: "hazard-000", GapM: 75}
	if err := fw.WriteWarning(warn); err != nil {
		t.Fatalf("WriteWarning: %v", err)
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(telePath)
	if err != nil {
		t.Fatalf("open telemetry log: %v", err)
	}
	defer f.Close()
	var got []telemetry.VehicleRow
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var row telemetry.VehicleRow
		if err := json.Unmarshal(sc.Bytes(), &row); err != nil {
			t.Fatalf("unmarshal line: %v", err)
		}
		got = append(got, row)
	}
	if len(got) != len(rows) {
		t.Fatalf("expected %d rows, got %d", len(rows), len(got))
	}
	if got[1].DistanceM != 20 {
		t.Errorf("row 1 distance = %f, want 20", got[1].DistanceM)
	}

	wb, err := os.ReadFile(warnPath)
	if err != nil {
		t.Fatalf("read warning log: %v", err)
	}
	var gotWarn telemetry.WarningRow
	if err := json.Unmarshal(wb, &gotWarn); err != nil {
		t.Fatalf("unmarshal warning: %v", err)
	}
	if gotWarn.HazardID != "hazard-000" {
		t.Errorf("warning hazard = %q, want hazard-000", gotWarn.HazardID)
	}
}

func TestFileWriter_WarningLogOptional(t *testing.T) {
	telePath := filepath.Join(t.TempDir(), "telemetry.jsonl")
	fw, err := NewFileWriter(telePath, "")
	if err != nil {
		t.Fatalf("NewFileWriter: %v", err)
	}
	defer fw.Close()
	if err := fw.WriteWarning(telemetry.WarningRow{HazardID: "hazard-000"}); err != nil {
		t.Errorf("WriteWarning without warning log: %v", err)
	}
}
