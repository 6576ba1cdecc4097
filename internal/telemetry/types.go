// Telemetry structs with greptime tags
package telemetry

import (
	"os"
	"time"
)

// VehicleRow represents one per-tick vehicle state record for GreptimeDB.
type VehicleRow struct {
	RunID     string    `json:"run_id"`     // TAG
	VehicleID string    `json:"vehicle_id"` // TAG
	Lat       float64   `json:"lat"`        // FIELD
	Lon       float64   `json:"lon"`        // FIELD
	DistanceM float64   `json:"distance_m"` // FIELD
	SpeedMps  float64   `json:"speed_mps"`  // FIELD
	ElapsedS  float64   `json:"elapsed_s"`  // FIELD
	Finished  bool      `json:"finished"`   // FIELD
	Timestamp time.Time `json:"ts"`         // TIME INDEX
}

// WarningRow records one pothole warning event. Rows are append-only and
// chronological; at most one is ever produced per hazard.
type WarningRow struct {
	RunID     string    `json:"run_id"`     // TAG
	VehicleID string    `json:"vehicle_id"` // TAG
	HazardID  string    `json:"hazard_id"`  // TAG
	GapM      float64   `json:"gap_m"`      // FIELD: distance to hazard at firing
	Lat       float64   `json:"lat"`        // FIELD: hazard position
	Lon       float64   `json:"lon"`        // FIELD
	DistanceM float64   `json:"distance_m"` // FIELD: vehicle distance traveled
	ElapsedS  float64   `json:"elapsed_s"`  // FIELD: simulated seconds since start
	Timestamp time.Time `json:"ts"`         // TIME INDEX
}

// VehicleTableName holds the table name used when writing vehicle rows to
// GreptimeDB. It defaults to "vehicle_telemetry" but can be overridden via
// the GREPTIMEDB_TABLE environment variable.
var VehicleTableName = func() string {
	if env := os.Getenv("GREPTIMEDB_TABLE"); env != "" {
		return env
	}
	return "vehicle_telemetry"
}()

// WarningTableName holds the table name for warning rows, overridable via
// the WARNING_TABLE environment variable.
var WarningTableName = func() string {
	if env := os.Getenv("WARNING_TABLE"); env != "" {
		return env
	}
	return "pothole_warnings"
}()

func (VehicleRow) TableName() string {
	return VehicleTableName
}

func (WarningRow) TableName() string {
	return WarningTableName
}
