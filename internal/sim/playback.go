package sim

import (
	"encoding/json"
	"io"
	"os"
	"sort"
	"time"

	"routehazard-sim/internal/telemetry"
)

// replayEvent is one recorded row of either stream, keyed by its timestamp
// for interleaving.
type replayEvent struct {
	ts      time.Time
	vehicle *telemetry.VehicleRow
	warning *telemetry.WarningRow
}

// ReplayLog replays vehicle rows from r to writer. A speed > 0 accelerates
// playback by that factor. If speed <= 0, no artificial delay is inserted.
func ReplayLog(r io.Reader, writer TelemetryWriter, speed float64) error {
	events, err := decodeVehicleRows(r)
	if err != nil {
		return err
	}
	return dispatch(events, writer, nil, speed)
}

// ReplayRun replays a recorded run from its JSONL logs, interleaving vehicle
// and warning rows in timestamp order so warnings fire at the same point of
// the drive as during recording. warningPath may be empty, or point at a file
// that does not exist (a run without warnings writes none).
func ReplayRun(telemetryPath, warningPath string, writer TelemetryWriter, warnWriter WarningWriter, speed float64) error {
	tf, err := os.Open(telemetryPath)
	if err != nil {
		return err
	}
	defer tf.Close()
	events, err := decodeVehicleRows(tf)
	if err != nil {
		return err
	}

	if warningPath != "" && warnWriter != nil {
		wf, err := os.Open(warningPath)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return err
		default:
			defer wf.Close()
			warnEvents, err := decodeWarningRows(wf)
			if err != nil {
				return err
			}
			events = append(events, warnEvents...)
			sort.SliceStable(events, func(i, j int) bool {
				return events[i].ts.Before(events[j].ts)
			})
		}
	}
	return dispatch(events, writer, warnWriter, speed)
}

// ReplayLogFile opens a telemetry log and replays its vehicle rows.
func ReplayLogFile(path string, writer TelemetryWriter, speed float64) error {
	return ReplayRun(path, "", writer, nil, speed)
}

func decodeVehicleRows(r io.Reader) ([]replayEvent, error) {
	var events []replayEvent
	dec := json.NewDecoder(r)
	for {
		var row telemetry.VehicleRow
		if err := dec.Decode(&row); err != nil {
			if err == io.EOF {
				return events, nil
			}
			return nil, err
		}
		events = append(events, replayEvent{ts: row.Timestamp, vehicle: &row})
	}
}

func decodeWarningRows(r io.Reader) ([]replayEvent, error) {
	var events []replayEvent
	dec := json.NewDecoder(r)
	for {
		var row telemetry.WarningRow
		if err := dec.Decode(&row); err != nil {
			if err == io.EOF {
				return events, nil
			}
			return nil, err
		}
		events = append(events, replayEvent{ts: row.Timestamp, warning: &row})
	}
}

func dispatch(events []replayEvent, writer TelemetryWriter, warnWriter WarningWriter, speed float64) error {
	var prev time.Time
	for _, ev := range events {
		if !prev.IsZero() && speed > 0 {
			diff := ev.ts.Sub(prev)
			if speed != 1 {
				diff = time.Duration(float64(diff) / speed)
			}
			if diff > 0 {
				time.Sleep(diff)
			}
		}
		switch {
		case ev.vehicle != nil:
			if err := writer.Write(*ev.vehicle); err != nil {
				return err
			}
		case ev.warning != nil && warnWriter != nil:
			if err := warnWriter.WriteWarning(*ev.warning); err != nil {
				return err
			}
		}
		prev = ev.ts
	}
	return nil
}
