package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"routehazard-sim/internal/config"
	"routehazard-sim/internal/kml"
	"routehazard-sim/internal/logging"
	"routehazard-sim/internal/route"
	"routehazard-sim/internal/server"
	"routehazard-sim/internal/sim"
)

var (
	simPrintOnly  bool
	simConfigPath string
	simSchemaPath string
	simTick       time.Duration
	simLogFile    string
	simFast       bool
	simTUI        bool
	simServeAddr  string
	simVerbose    bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Drive the vehicle along the configured route",
	Long:  "simulate loads a KML route, scatters potholes along it, and drives a vehicle tick by tick, emitting telemetry and proximity warnings.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(simConfigPath, simSchemaPath)
		if err != nil {
			return err
		}
		path, err := loadRoute(cfg)
		if err != nil {
			return err
		}

		log := logging.New(simVerbose)
		ctx, cancel := context.WithCancel(logging.NewContext(context.Background(), log))
		defer cancel()

		writer, warnWriter, cleanup, err := newWriters(cfg, simPrintOnly, simLogFile)
		if err != nil {
			return err
		}
		defer cleanup()

		tickInterval := simTick
		if envTick := os.Getenv("TICK_INTERVAL"); envTick != "" {
			d, err := time.ParseDuration(envTick)
			if err != nil {
				return err
			}
			tickInterval = d
		}

		runID := uuid.NewString()
		simulator, err := sim.NewSimulator(runID, cfg, path, writer, warnWriter, tickInterval)
		if err != nil {
			return err
		}

		var tui *sim.TUIWriter
		if simTUI {
			snap := simulator.Snapshot()
			tui = sim.NewTUIWriter(cfg, path.TotalLength(), snap.Hazards)
			simulator.SetWriters(tui, tui)
			defer tui.Close()
		}

		if simServeAddr != "" {
			srv, err := server.NewServer(simulator, nil)
			if err != nil {
				return err
			}
			go func() {
				log.Info("status server listening", "addr", simServeAddr)
				if err := srv.Start(ctx, simServeAddr); err != nil && err != http.ErrServerClosed {
					log.Error("status server failed", "err", err)
				}
			}()
		}

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigs
			cancel()
		}()

		if simFast {
			err = simulator.RunFast(ctx)
			if err == context.Canceled {
				err = nil
			}
		} else {
			err = simulator.Run(ctx)
		}
		if err != nil {
			return err
		}
		log.Info("simulation stopped", "run_id", runID, "warnings", len(simulator.Warnings()))
		return nil
	},
}

// loadRoute parses the configured KML file and resamples long segments so
// motion interpolation and export animation stay smooth.
func loadRoute(cfg *config.SimulationConfig) (*route.Path, error) {
	waypoints, err := kml.ParseFile(cfg.Route.KMLPath)
	if err != nil {
		return nil, err
	}
	path, err := route.New(waypoints)
	if err != nil {
		return nil, err
	}
	return path.Resample(cfg.Route.MaxSegmentM)
}

func init() {
	simulateCmd.Flags().BoolVar(&simPrintOnly, "print-only", false, "Print telemetry to STDOUT instead of writing to DB")
	simulateCmd.Flags().StringVar(&simConfigPath, "config", "config/simulation.yaml", "Path to simulation configuration YAML")
	simulateCmd.Flags().StringVar(&simSchemaPath, "schema", "schemas/simulation.cue", "Path to CUE schema file")
	simulateCmd.Flags().DurationVar(&simTick, "tick", time.Second, "Simulation tick interval (e.g. 500ms, 2s)")
	simulateCmd.Flags().StringVar(&simLogFile, "log-file", "", "Path to export telemetry/warning logs (JSONL)")
	simulateCmd.Flags().BoolVar(&simFast, "fast", false, "Run all ticks back to back without waiting")
	simulateCmd.Flags().BoolVar(&simTUI, "tui", false, "Render a live terminal dashboard instead of plain output")
	simulateCmd.Flags().StringVar(&simServeAddr, "serve", "", "Serve status pages and metrics on this address (e.g. :8080)")
	simulateCmd.Flags().BoolVar(&simVerbose, "verbose", false, "Enable debug logging")
}
