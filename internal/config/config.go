// YAML config loader with CUE validation integration
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Route selects the route source and its preprocessing.
type Route struct {
	KMLPath     string  `yaml:"kml_path"`
	MaxSegmentM float64 `yaml:"max_segment_m"`
}

// Vehicle describes the simulated vehicle.
type Vehicle struct {
	ID       string  `yaml:"id"`
	SpeedMps float64 `yaml:"speed_mps"`
}

// Hazards controls synthetic pothole generation. Count is a pointer so an
// explicit zero (a run with no hazards) is distinguishable from an absent
// field that should take the default.
type Hazards struct {
	Count          *int    `yaml:"count"`
	MinSeparationM float64 `yaml:"min_separation_m"`
	Seed           int64   `yaml:"seed"`
}

// HazardCount returns the configured hazard count.
func (h Hazards) HazardCount() int {
	if h.Count == nil {
		return DefaultHazardCount
	}
	return *h.Count
}

// Warning controls the proximity warning behavior.
type Warning struct {
	DistanceM   float64 `yaml:"distance_m"`
	HysteresisM float64 `yaml:"hysteresis_m"`
}

// SimulationConfig is the root configuration for a simulation run.
type SimulationConfig struct {
	Route   Route   `yaml:"route"`
	Vehicle Vehicle `yaml:"vehicle"`
	Hazards Hazards `yaml:"hazards"`
	Warning Warning `yaml:"warning"`
}

// Defaults mirror the original prototype: a 6 m/s car, ten potholes, and an
// 80m warning radius.
const (
	DefaultSpeedMps       = 6.0
	DefaultHazardCount    = 10
	DefaultWarningM       = 80.0
	DefaultHysteresisM    = 5.0
	DefaultMaxSegmentM    = 6.0
	DefaultMinSeparationM = 100.0
	DefaultVehicleID      = "car-1"
)

// Load loads YAML config, validates it against a CUE schema, applies
// defaults, and checks cross-field constraints.
func Load(configPath, cueSchemaPath string) (*SimulationConfig, error) {
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg SimulationConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills unset fields with prototype defaults.
func (c *SimulationConfig) ApplyDefaults() {
	if c.Vehicle.ID == "" {
		c.Vehicle.ID = DefaultVehicleID
	}
	if c.Vehicle.SpeedMps == 0 {
		c.Vehicle.SpeedMps = DefaultSpeedMps
	}
	if c.Hazards.Count == nil {
		count := DefaultHazardCount
		c.Hazards.Count = &count
	}
	if c.Hazards.MinSeparationM == 0 {
		c.Hazards.MinSeparationM = DefaultMinSeparationM
	}
	if c.Warning.DistanceM == 0 {
		c.Warning.DistanceM = DefaultWarningM
	}
	if c.Warning.HysteresisM == 0 {
		c.Warning.HysteresisM = DefaultHysteresisM
	}
	if c.Route.MaxSegmentM == 0 {
		c.Route.MaxSegmentM = DefaultMaxSegmentM
	}
}

// Validate enforces constraints the CUE schema cannot express across fields.
func (c *SimulationConfig) Validate() error {
	if c.Route.KMLPath == "" {
		return fmt.Errorf("config: route.kml_path is required")
	}
	if c.Vehicle.SpeedMps <= 0 {
		return fmt.Errorf("config: vehicle.speed_mps must be positive, got %.2f", c.Vehicle.SpeedMps)
	}
	if c.Hazards.HazardCount() < 0 {
		return fmt.Errorf("config: hazards.count must not be negative, got %d", c.Hazards.HazardCount())
	}
	if c.Warning.DistanceM <= 0 {
		return fmt.Errorf("config: warning.distance_m must be positive, got %.2f", c.Warning.DistanceM)
	}
	if c.Hazards.MinSeparationM < c.Warning.DistanceM {
		// Not fatal, but overlapping warnings defeat the one-at-a-time design.
		return fmt.Errorf("config: hazards.min_separation_m (%.0f) must be >= warning.distance_m (%.0f)",
			c.Hazards.MinSeparationM, c.Warning.DistanceM)
	}
	return nil
}
