package config

import (
	"os"
	"path/filepath"
	"testing"
)

const testSchema = `
route: {
	kml_path:       string
	max_segment_m?: >0
}
vehicle: {
	id?:        string
	speed_mps?: >0
}
hazards: {
	count?:            >=0
	min_separation_m?: >=0
	seed?:             int
}
warning: {
	distance_m?:   >0
	hysteresis_m?: >=0
}
`

func writeFiles(t *testing.T, yaml string) (configPath, schemaPath string) {
	t.Helper()
	dir := t.TempDir()
	configPath = filepath.Join(dir, "simulation.yaml")
	schemaPath = filepath.Join(dir, "simulation.cue")
	if err := os.WriteFile(configPath, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := os.WriteFile(schemaPath, []byte(testSchema), 0o644); err != nil {
		t.Fatalf("write schema: %v", err)
	}
	return configPath, schemaPath
}

func TestLoad_Valid(t *testing.T) {
	cfgPath, schemaPath := writeFiles(t, `
route:
  kml_path: route.kml
vehicle:
  speed_mps: 10
hazards:
  count: 3
  min_separation_m: 120
  seed: 7
warning:
  distance_m: 80
`)
	cfg, err := Load(cfgPath, schemaPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Vehicle.SpeedMps != 10 {
		t.Errorf("speed = %f, want 10", cfg.Vehicle.SpeedMps)
	}
	if cfg.Hazards.HazardCount() != 3 {
		t.Errorf("count = %d, want 3", cfg.Hazards.HazardCount())
	}
	if cfg.Hazards.Seed != 7 {
		t.Errorf("seed = %d, want 7", cfg.Hazards.Seed)
	}
	// Unset fields take prototype defaults.
	if cfg.Warning.HysteresisM != DefaultHysteresisM {
		t.Errorf("hysteresis = %f, want default %f", cfg.Warning.HysteresisM, DefaultHysteresisM)
	}
	if cfg.Vehicle.ID != DefaultVehicleID {
		t.Errorf("vehicle id = %q, want default %q", cfg.Vehicle.ID, DefaultVehicleID)
	}
}

func TestLoad_ZeroHazardsStaysZero(t *testing.T) {
	cfgPath, schemaPath := writeFiles(t, `
route:
  kml_path: route.kml
hazards:
  count: 0
`)
	cfg, err := Load(cfgPath, schemaPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Hazards.HazardCount() != 0 {
		t.Errorf("explicit zero count must stay zero, got %d", cfg.Hazards.HazardCount())
	}
}

func TestLoad_SchemaRejectsNegativeSpeed(t *testing.T) {
	cfgPath, schemaPath := writeFiles(t, `
route:
  kml_path: route.kml
vehicle:
  speed_mps: -3
`)
	if _, err := Load(cfgPath, schemaPath); err == nil {
		t.Error("expected schema validation failure for negative speed")
	}
}

func TestLoad_MissingRoute(t *testing.T) {
	cfgPath, schemaPath := writeFiles(t, `
vehicle:
  speed_mps: 6
`)
	if _, err := Load(cfgPath, schemaPath); err == nil {
		t.Error("expected error when route.kml_path is missing")
	}
}

func TestValidate_SeparationBelowWarning(t *testing.T) {
	cfg := &SimulationConfig{}
	cfg.ApplyDefaults()
	cfg.Route.KMLPath = "route.kml"
	cfg.Hazards.MinSeparationM = 40
	cfg.Warning.DistanceM = 80
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when min separation is below warning distance")
	}
}
