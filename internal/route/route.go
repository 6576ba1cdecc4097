// Route geometry with a precomputed cumulative distance index.
package route

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Waypoint is a single geographic coordinate on the route.
type Waypoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ErrEmptyPath is returned when a path is built from fewer than two waypoints.
var ErrEmptyPath = errors.New("route: path requires at least two waypoints")

// OutOfRangeError reports a distance query outside [0, TotalLength].
// Seeing one at runtime means a caller broke the clamping contract.
type OutOfRangeError struct {
	Distance float64
	Limit    float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("route: distance %.2fm outside [0, %.2fm]", e.Distance, e.Limit)
}

// Path holds an ordered waypoint sequence and the cumulative geodesic
// distance from the start to each waypoint. Built once, read-only afterwards.
type Path struct {
	waypoints  []Waypoint
	cumulative []float64
}

// New builds a Path from at least two ordered waypoints. The input slice is
// copied; the cumulative index starts at zero and is non-decreasing.
func New(waypoints []Waypoint) (*Path, error) {
	if len(waypoints) < 2 {
		return nil, ErrEmptyPath
	}
	wps := make([]Waypoint, len(waypoints))
	copy(wps, waypoints)
	cum := make([]float64, len(wps))
	for i := 1; i < len(wps); i++ {
		cum[i] = cum[i-1] + DistanceMeters(wps[i-1], wps[i])
	}
	return &Path{waypoints: wps, cumulative: cum}, nil
}

// TotalLength returns the route length in meters.
func (p *Path) TotalLength() float64 {
	return p.cumulative[len(p.cumulative)-1]
}

// Waypoints returns a copy of the waypoint sequence.
func (p *Path) Waypoints() []Waypoint {
	wps := make([]Waypoint, len(p.waypoints))
	copy(wps, p.waypoints)
	return wps
}

// Cumulative returns a copy of the cumulative distance index.
func (p *Path) Cumulative() []float64 {
	cum := make([]float64, len(p.cumulative))
	copy(cum, p.cumulative)
	return cum
}

// PositionAt returns the coordinate at the given distance from the route
// start. The bracketing segment is found by binary search over the
// cumulative index, then the position is interpolated proportionally
// within that segment.
func (p *Path) PositionAt(distance float64) (Waypoint, error) {
	if distance < 0 || distance > p.TotalLength() {
		return Waypoint{}, &OutOfRangeError{Distance: distance, Limit: p.TotalLength()}
	}
	i := sort.SearchFloat64s(p.cumulative, distance)
	if p.cumulative[i] == distance {
		return p.waypoints[i], nil
	}
	a, b := p.waypoints[i-1], p.waypoints[i]
	segment := p.cumulative[i] - p.cumulative[i-1]
	if segment == 0 {
		return a, nil
	}
	t := (distance - p.cumulative[i-1]) / segment
	return Waypoint{
		Lat: a.Lat + (b.Lat-a.Lat)*t,
		Lon: a.Lon + (b.Lon-a.Lon)*t,
	}, nil
}

// Resample subdivides segments so that none exceeds maxSegment meters and
// returns the densified path. Route exports animate the vehicle segment by
// segment, so long raw KML segments would look jumpy without this.
func (p *Path) Resample(maxSegment float64) (*Path, error) {
	if maxSegment <= 0 {
		return nil, fmt.Errorf("route: max segment must be positive, got %.2f", maxSegment)
	}
	out := make([]Waypoint, 0, len(p.waypoints))
	for i := 0; i < len(p.waypoints)-1; i++ {
		a, b := p.waypoints[i], p.waypoints[i+1]
		steps := int(math.Ceil(DistanceMeters(a, b) / maxSegment))
		if steps < 1 {
			steps = 1
		}
		for s := 0; s < steps; s++ {
			t := float64(s) / float64(steps)
			out = append(out, Waypoint{
				Lat: a.Lat + (b.Lat-a.Lat)*t,
				Lon: a.Lon + (b.Lon-a.Lon)*t,
			})
		}
	}
	out = append(out, p.waypoints[len(p.waypoints)-1])
	return New(out)
}

// DistanceMeters calculates the haversine distance between two waypoints.
func DistanceMeters(a, b Waypoint) float64 {
	const earthRadius = 6371000.0
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*math.Pi/180)*math.Cos(b.Lat*math.Pi/180)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadius * c
}
