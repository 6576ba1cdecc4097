// KML route extraction for Google Maps style exports.
package kml

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"routehazard-sim/internal/route"
)

// ErrNoCoordinates is returned when a KML document contains no usable route.
var ErrNoCoordinates = errors.New("kml: no coordinates found in document")

// Real-world exports are namespace-sloppy, so coordinates are scanned
// textually instead of decoded as strict XML.
var (
	gxCoordRe     = regexp.MustCompile(`(?s)<gx:coord>(.*?)</gx:coord>`)
	coordinatesRe = regexp.MustCompile(`(?s)<coordinates>(.*?)</coordinates>`)
)

// Parse extracts the ordered route waypoints from KML text. Both
// <gx:coord> ("lon lat [alt]") and <coordinates> ("lon,lat[,alt]" tokens)
// blocks are supported; gx:coord tracks take precedence when present.
// Malformed tokens are skipped.
func Parse(text string) ([]route.Waypoint, error) {
	waypoints := parseGxCoords(text)
	if len(waypoints) == 0 {
		waypoints = parseCoordinateBlocks(text)
	}
	if len(waypoints) == 0 {
		return nil, ErrNoCoordinates
	}
	return waypoints, nil
}

// ParseFile reads and parses a KML file.
func ParseFile(path string) ([]route.Waypoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("kml: read %s: %w", path, err)
	}
	wps, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("kml: parse %s: %w", path, err)
	}
	return wps, nil
}

func parseGxCoords(text string) []route.Waypoint {
	var waypoints []route.Waypoint
	for _, m := range gxCoordRe.FindAllStringSubmatch(text, -1) {
		parts := strings.Fields(m[1])
		if len(parts) < 2 {
			continue
		}
		lon, err1 := strconv.ParseFloat(parts[0], 64)
		lat, err2 := strconv.ParseFloat(parts[1], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		waypoints = append(waypoints, route.Waypoint{Lat: lat, Lon: lon})
	}
	return waypoints
}

func parseCoordinateBlocks(text string) []route.Waypoint {
	var waypoints []route.Waypoint
	for _, m := range coordinatesRe.FindAllStringSubmatch(text, -1) {
		for _, token := range strings.Fields(m[1]) {
			parts := strings.Split(token, ",")
			if len(parts) < 2 {
				continue
			}
			lon, err1 := strconv.ParseFloat(parts[0], 64)
			lat, err2 := strconv.ParseFloat(parts[1], 64)
			if err1 != nil || err2 != nil {
				continue
			}
			waypoints = append(waypoints, route.Waypoint{Lat: lat, Lon: lon})
		}
	}
	return waypoints
}
