// Writer implementation printing telemetry to STDOUT
package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"routehazard-sim/internal/telemetry"
)

// StdoutWriter prints telemetry and warning rows as JSON lines.
type StdoutWriter struct {
	Out io.Writer
}

// NewStdoutWriter creates a StdoutWriter targeting os.Stdout.
func NewStdoutWriter() *StdoutWriter {
	return &StdoutWriter{Out: os.Stdout}
}

// Write outputs a single vehicle row.
func (w *StdoutWriter) Write(row telemetry.VehicleRow) error {
	data, err := json.Marshal(row)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w.Out, string(data))
	return err
}

// WriteWarning outputs a pothole warning row.
func (w *StdoutWriter) WriteWarning(row telemetry.WarningRow) error {
	data, err := json.Marshal(row)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w.Out, string(data))
	return err
}
