package sim

import "routehazard-sim/internal/telemetry"

// MultiWriter fans out telemetry and warning rows to multiple writers.
type MultiWriter struct {
	telewriters []TelemetryWriter
	warnwriters []WarningWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(tws []TelemetryWriter, wws []WarningWriter) *MultiWriter {
	return &MultiWriter{telewriters: tws, warnwriters: wws}
}

// Write sends a vehicle row to all writers.
func (mw *MultiWriter) Write(row telemetry.VehicleRow) error {
	for _, w := range mw.telewriters {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteWarning sends a warning row to all warning writers.
func (mw *MultiWriter) WriteWarning(row telemetry.WarningRow) error {
	for _, w := range mw.warnwriters {
		if err := w.WriteWarning(row); err != nil {
			return err
		}
	}
	return nil
}
