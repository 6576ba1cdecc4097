// ColorStdoutWriter prints human-friendly, colorized telemetry to STDOUT.
package sim

import (
	"fmt"
	"io"
	"os"
	"sync"
	"text/tabwriter"
	"time"

	"routehazard-sim/internal/config"
	"routehazard-sim/internal/telemetry"
)

const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
	colorBlue   = "\x1b[34m"
	colorCyan   = "\x1b[36m"
	colorGray   = "\x1b[90m"
)

// ColorStdoutWriter prints rows using ANSI colors, with a one-time overview
// of the run configuration.
type ColorStdoutWriter struct {
	cfg  *config.SimulationConfig
	out  io.Writer
	once sync.Once
}

// NewColorStdoutWriter creates a ColorStdoutWriter writing to os.Stdout.
func NewColorStdoutWriter(cfg *config.SimulationConfig) *ColorStdoutWriter {
	return &ColorStdoutWriter{cfg: cfg, out: os.Stdout}
}

func (w *ColorStdoutWriter) printOverview() {
	if w.cfg == nil {
		return
	}
	fmt.Fprintln(w.out, "Simulation Configuration:")
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Vehicle Speed (m/s):\t%.1f\n", w.cfg.Vehicle.SpeedMps)
	fmt.Fprintf(tw, "Hazard Count:\t%d\n", w.cfg.Hazards.HazardCount())
	fmt.Fprintf(tw, "Min Separation (m):\t%.0f\n", w.cfg.Hazards.MinSeparationM)
	fmt.Fprintf(tw, "Warning Distance (m):\t%.0f\n", w.cfg.Warning.DistanceM)
	fmt.Fprintf(tw, "Pass Hysteresis (m):\t%.0f\n", w.cfg.Warning.HysteresisM)
	tw.Flush()
	fmt.Fprintln(w.out)
}

// Write prints one vehicle row.
func (w *ColorStdoutWriter) Write(row telemetry.VehicleRow) error {
	w.once.Do(w.printOverview)
	status := colorGreen + "driving" + colorReset
	if row.Finished {
		status = colorCyan + "finished" + colorReset
	}
	_, err := fmt.Fprintf(w.out, "%s[%s]%s %svehicle=%s%s %slat=%.5f lon=%.5f%s %sdist=%.1fm%s %st=%.0fs%s %s\n",
		colorGray, row.Timestamp.Format(time.RFC3339), colorReset,
		colorBlue, row.VehicleID, colorReset,
		colorGreen, row.Lat, row.Lon, colorReset,
		colorYellow, row.DistanceM, colorReset,
		colorGray, row.ElapsedS, colorReset,
		status)
	return err
}

// WriteWarning prints a pothole warning in red.
func (w *ColorStdoutWriter) WriteWarning(row telemetry.WarningRow) error {
	w.once.Do(w.printOverview)
	_, err := fmt.Fprintf(w.out, "%s[%s] ⚠ POTHOLE AHEAD %s in %.0fm (at %.5f, %.5f)%s\n",
		colorRed, row.Timestamp.Format(time.RFC3339),
		row.HazardID, row.GapM, row.Lat, row.Lon, colorReset)
	return err
}
