package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"routehazard-sim/internal/config"
	"routehazard-sim/internal/export"
	"routehazard-sim/internal/logging"
	"routehazard-sim/internal/sim"
)

var (
	exportConfigPath string
	exportSchemaPath string
	exportOut        string
	exportCarIcon    string
	exportTick       time.Duration
	exportVerbose    bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render the route animation as a standalone HTML page",
	Long:  "export runs the simulation to completion without delays and writes a Leaflet page animating the vehicle past the generated potholes.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(exportConfigPath, exportSchemaPath)
		if err != nil {
			return err
		}
		path, err := loadRoute(cfg)
		if err != nil {
			return err
		}

		log := logging.New(exportVerbose)
		ctx := logging.NewContext(context.Background(), log)

		simulator, err := sim.NewSimulator(uuid.NewString(), cfg, path, nil, nil, exportTick)
		if err != nil {
			return err
		}
		if err := simulator.RunFast(ctx); err != nil {
			return err
		}

		if err := export.RenderFile(exportOut, simulator.Snapshot(), exportCarIcon); err != nil {
			return err
		}
		log.Info("wrote animation", "path", exportOut, "warnings", len(simulator.Warnings()))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportConfigPath, "config", "config/simulation.yaml", "Path to simulation configuration YAML")
	exportCmd.Flags().StringVar(&exportSchemaPath, "schema", "schemas/simulation.cue", "Path to CUE schema file")
	exportCmd.Flags().StringVar(&exportOut, "out", "live_route.html", "Output HTML file")
	exportCmd.Flags().StringVar(&exportCarIcon, "car-icon", "", "Car marker icon URL (defaults to a hosted car icon)")
	exportCmd.Flags().DurationVar(&exportTick, "tick", time.Second, "Simulated tick interval used for warning timing")
	exportCmd.Flags().BoolVar(&exportVerbose, "verbose", false, "Enable debug logging")
}
