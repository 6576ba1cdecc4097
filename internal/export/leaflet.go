// Package export renders a completed simulation run into a standalone
// Leaflet HTML page that animates the vehicle along the route and pops a
// warning banner near potholes.
package export

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"strconv"

	"routehazard-sim/internal/sim"
)

//go:embed templates/live_route.html.tmpl
var content embed.FS

// DefaultCarIconURL is the marker icon used when none is configured.
const DefaultCarIconURL = "https://cdn-icons-png.flaticon.com/512/744/744465.png"

type pageData struct {
	RouteJSON            template.JS
	HazardsJSON          template.JS
	SegmentDurationsJSON template.JS
	WarningDistanceJS    template.JS
	SpeedMps             float64
	// JSStr so the URL lands in the script literally; the default escaper
	// would rewrite "//" to "\/\/".
	CarIconURL template.JSStr
}

// Render writes the animated route page for the given snapshot. The page is
// self-contained apart from the Leaflet CDN assets and the car icon.
func Render(w io.Writer, snap sim.Snapshot, carIconURL string) error {
	if len(snap.Waypoints) < 2 {
		return fmt.Errorf("export: snapshot has %d waypoints, need at least 2", len(snap.Waypoints))
	}
	if snap.SpeedMps <= 0 {
		return fmt.Errorf("export: speed must be positive, got %f", snap.SpeedMps)
	}
	if carIconURL == "" {
		carIconURL = DefaultCarIconURL
	}

	routePts := make([][2]float64, len(snap.Waypoints))
	for i, wp := range snap.Waypoints {
		routePts[i] = [2]float64{wp.Lat, wp.Lon}
	}
	hazardPts := make([][2]float64, len(snap.Hazards))
	for i, h := range snap.Hazards {
		hazardPts[i] = [2]float64{h.Position.Lat, h.Position.Lon}
	}
	durations := segmentDurations(snap.Cumulative, snap.SpeedMps)

	routeJSON, err := json.Marshal(routePts)
	if err != nil {
		return err
	}
	hazardsJSON, err := json.Marshal(hazardPts)
	if err != nil {
		return err
	}
	durationsJSON, err := json.Marshal(durations)
	if err != nil {
		return err
	}

	tpl := template.Must(template.New("live_route.html.tmpl").ParseFS(content, "templates/live_route.html.tmpl"))
	return tpl.Execute(w, pageData{
		RouteJSON:            template.JS(routeJSON),
		HazardsJSON:          template.JS(hazardsJSON),
		SegmentDurationsJSON: template.JS(durationsJSON),
		WarningDistanceJS:    template.JS(strconv.FormatFloat(snap.WarningM, 'g', -1, 64)),
		SpeedMps:             snap.SpeedMps,
		CarIconURL:           template.JSStr(carIconURL),
	})
}

// RenderFile renders the page to path, creating or truncating the file.
func RenderFile(path string, snap sim.Snapshot, carIconURL string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Render(f, snap, carIconURL); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// segmentDurations converts cumulative route distances into per-segment
// travel times at constant speed, the unit the animation loop expects.
func segmentDurations(cumulative []float64, speed float64) []float64 {
	if len(cumulative) < 2 {
		return []float64{}
	}
	out := make([]float64, len(cumulative)-1)
	for i := 1; i < len(cumulative); i++ {
		out[i-1] = (cumulative[i] - cumulative[i-1]) / speed
	}
	return out
}
