package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"routehazard-sim/internal/sim"
)

var (
	replayInput     string
	replaySpeed     float64
	replayPrintOnly bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a recorded run",
	Long:  "replay feeds telemetry and warning rows from a run's log files back into GreptimeDB or STDOUT, preserving the recorded timing.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return fmt.Errorf("input file required")
		}
		writer, warnWriter, cleanup, err := newWriters(nil, replayPrintOnly, "")
		if err != nil {
			return err
		}
		defer cleanup()
		return sim.ReplayRun(replayInput, replayInput+".warnings", writer, warnWriter, replaySpeed)
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to telemetry log file")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1.0, "Playback speed multiplier")
	replayCmd.Flags().BoolVar(&replayPrintOnly, "print-only", false, "Print telemetry to STDOUT instead of writing to DB")
	replayCmd.MarkFlagRequired("input")
}
