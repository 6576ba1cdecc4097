package sim

import (
	"encoding/json"
	"os"

	"routehazard-sim/internal/telemetry"
)

// FileWriter writes telemetry and warning rows to JSONL files.
type FileWriter struct {
	teleFile *os.File
	warnFile *os.File
	teleEnc  *json.Encoder
	warnEnc  *json.Encoder
}

// NewFileWriter creates a FileWriter. warningPath may be empty to skip the
// warning log.
func NewFileWriter(telemetryPath, warningPath string) (*FileWriter, error) {
	tf, err := os.Create(telemetryPath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{teleFile: tf, teleEnc: json.NewEncoder(tf)}
	if warningPath != "" {
		wf, err := os.Create(warningPath)
		if err != nil {
			tf.Close()
			return nil, err
		}
		fw.warnFile = wf
		fw.warnEnc = json.NewEncoder(wf)
	}
	return fw, nil
}

// Write logs a single vehicle row.
func (f *FileWriter) Write(row telemetry.VehicleRow) error {
	return f.teleEnc.Encode(row)
}

// WriteWarning logs a warning row, if enabled.
func (f *FileWriter) WriteWarning(row telemetry.WarningRow) error {
	if f.warnEnc == nil {
		return nil
	}
	return f.warnEnc.Encode(row)
}

// Close closes the underlying files.
func (f *FileWriter) Close() error {
	var err error
	if f.teleFile != nil {
		if e := f.teleFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.warnFile != nil {
		if e := f.warnFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
