package sim

import (
	"context"
	"log"
	"net"
	"strconv"

	"routehazard-sim/internal/telemetry"

	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	ingesterContext "github.com/GreptimeTeam/greptimedb-ingester-go/context"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"
)

// tableTTL is attached as an ingest hint so GreptimeDB applies it when it
// auto-creates the tables on first write (the gRPC ingester has no DDL path).
const tableTTL = "30d"

// GreptimeDBWriter writes telemetry and warnings to GreptimeDB via the
// ingester client.
type GreptimeDBWriter struct {
	client   *greptime.Client
	db       string
	vehicleT string
	warningT string
}

// NewGreptimeDBWriter creates a new GreptimeDB writer; tables are
// auto-created on first write.
func NewGreptimeDBWriter(endpoint, database, vehicleTable, warningTable string) (*GreptimeDBWriter, error) {
	if vehicleTable == "" {
		vehicleTable = telemetry.VehicleTableName
	}
	if warningTable == "" {
		warningTable = telemetry.WarningTableName
	}
	cfg := greptime.NewConfig(endpoint).WithDatabase(database)
	if host, portStr, err := net.SplitHostPort(endpoint); err == nil {
		cfg.Host = host
		if port, err := strconv.Atoi(portStr); err == nil {
			cfg = cfg.WithPort(port)
		}
	}
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	return &GreptimeDBWriter{
		client:   client,
		db:       database,
		vehicleT: vehicleTable,
		warningT: warningTable,
	}, nil
}

func vehicleStatus(row telemetry.VehicleRow) string {
	if row.Finished {
		return "finished"
	}
	return "driving"
}

func writeContext() context.Context {
	return ingesterContext.New(context.Background(),
		ingesterContext.WithHint([]*ingesterContext.Hint{{Key: "ttl", Value: tableTTL}}))
}

// Write inserts a single vehicle row.
func (w *GreptimeDBWriter) Write(row telemetry.VehicleRow) error {
	ctx := writeContext()

	tbl, err := table.New(w.vehicleT)
	if err != nil {
		return err
	}
	tbl.AddTagColumn("run_id", types.STRING)
	tbl.AddTagColumn("vehicle_id", types.STRING)
	tbl.AddFieldColumn("lat", types.FLOAT64)
	tbl.AddFieldColumn("lon", types.FLOAT64)
	tbl.AddFieldColumn("distance_m", types.FLOAT64)
	tbl.AddFieldColumn("speed_mps", types.FLOAT64)
	tbl.AddFieldColumn("elapsed_s", types.FLOAT64)
	tbl.AddFieldColumn("status", types.STRING)
	tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND)

	if err := tbl.AddRow(
		row.RunID,
		row.VehicleID,
		row.Lat,
		row.Lon,
		row.DistanceM,
		row.SpeedMps,
		row.ElapsedS,
		vehicleStatus(row),
		row.Timestamp,
	); err != nil {
		return err
	}

	if _, err := w.client.Write(ctx, tbl); err != nil {
		log.Printf("[GreptimeDBWriter] vehicle write failed: %v", err)
		return err
	}
	return nil
}

// WriteWarning inserts a single warning row.
func (w *GreptimeDBWriter) WriteWarning(row telemetry.WarningRow) error {
	ctx := writeContext()

	tbl, err := table.New(w.warningT)
	if err != nil {
		return err
	}
	tbl.AddTagColumn("run_id", types.STRING)
	tbl.AddTagColumn("vehicle_id", types.STRING)
	tbl.AddTagColumn("hazard_id", types.STRING)
	tbl.AddFieldColumn("gap_m", types.FLOAT64)
	tbl.AddFieldColumn("lat", types.FLOAT64)
	tbl.AddFieldColumn("lon", types.FLOAT64)
	tbl.AddFieldColumn("distance_m", types.FLOAT64)
	tbl.AddFieldColumn("elapsed_s", types.FLOAT64)
	tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND)

	if err := tbl.AddRow(
		row.RunID,
		row.VehicleID,
		row.HazardID,
		row.GapM,
		row.Lat,
		row.Lon,
		row.DistanceM,
		row.ElapsedS,
		row.Timestamp,
	); err != nil {
		return err
	}

	if _, err := w.client.Write(ctx, tbl); err != nil {
		log.Printf("[GreptimeDBWriter] warning write failed: %v", err)
		return err
	}
	return nil
}
