package hazard

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"routehazard-sim/internal/route"
)

// maxAttemptsPerHazard bounds rejection sampling so a tight configuration
// fails instead of spinning forever.
const maxAttemptsPerHazard = 200

// densityBound is the multiple of the route length above which a request is
// rejected outright instead of being attempted.
const densityBound = 2.0

// edgeMarginM keeps hazards away from the route ends, so the vehicle cannot
// start on top of one or finish before passing one.
const edgeMarginM = 30.0

// InvalidCountError reports a hazard request that is invalid on its face.
type InvalidCountError struct {
	Count         int
	MinSeparation float64
	RouteLength   float64
}

func (e *InvalidCountError) Error() string {
	return fmt.Sprintf("hazard: cannot place %d hazards %.0fm apart on a %.0fm route",
		e.Count, e.MinSeparation, e.RouteLength)
}

// PlacementExhaustedError reports that sampling could not satisfy the
// separation constraint. No partial hazard set is returned.
type PlacementExhaustedError struct {
	Placed   int
	Want     int
	Attempts int
}

func (e *PlacementExhaustedError) Error() string {
	return fmt.Sprintf("hazard: placed %d of %d hazards after %d attempts",
		e.Placed, e.Want, e.Attempts)
}

// Generate places count hazards at random distances along the path, each at
// least minSeparation meters from every other. The rng is the only source of
// randomness, so a fixed seed reproduces the exact same distances.
//
// Candidates are drawn uniformly along the route, keeping clear of the
// route ends, and rejected when they land within minSeparation of an
// accepted hazard; after
// count*maxAttemptsPerHazard draws the generator gives up with
// PlacementExhaustedError. Requests that provably cannot fit fail before any
// sampling. Hazards come back sorted by distance, all pending.
func Generate(path *route.Path, count int, minSeparation float64, rng *rand.Rand) ([]*Hazard, error) {
	total := path.TotalLength()
	if count < 0 || minSeparation < 0 {
		return nil, &InvalidCountError{Count: count, MinSeparation: minSeparation, RouteLength: total}
	}
	if count == 0 {
		return nil, nil
	}
	need := float64(count) * minSeparation
	if need > total*densityBound {
		return nil, &InvalidCountError{Count: count, MinSeparation: minSeparation, RouteLength: total}
	}
	if need > total {
		// Sampling room is already gone; fail fast with no partial set.
		return nil, &PlacementExhaustedError{Placed: 0, Want: count, Attempts: 0}
	}

	margin := edgeMarginM
	if total <= 2*margin {
		margin = 0
	}

	distances := make([]float64, 0, count)
	maxAttempts := count * maxAttemptsPerHazard
	attempts := 0
	for len(distances) < count {
		if attempts >= maxAttempts {
			return nil, &PlacementExhaustedError{Placed: len(distances), Want: count, Attempts: attempts}
		}
		attempts++
		candidate := margin + rng.Float64()*(total-2*margin)
		if tooClose(candidate, distances, minSeparation) {
			continue
		}
		distances = append(distances, candidate)
	}
	sort.Float64s(distances)

	hazards := make([]*Hazard, len(distances))
	for i, d := range distances {
		pos, err := path.PositionAt(d)
		if err != nil {
			return nil, fmt.Errorf("hazard: place at %.2fm: %w", d, err)
		}
		hazards[i] = &Hazard{
			ID:       fmt.Sprintf("hazard-%03d", i),
			Distance: d,
			Position: pos,
			State:    StatePending,
		}
	}
	return hazards, nil
}

func tooClose(candidate float64, accepted []float64, minSeparation float64) bool {
	for _, d := range accepted {
		if math.Abs(candidate-d) < minSeparation {
			return true
		}
	}
	return false
}
