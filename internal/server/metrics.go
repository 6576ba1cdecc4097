package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"routehazard-sim/internal/hazard"
	"routehazard-sim/internal/sim"
)

// Collector exposes Prometheus metrics for a running simulation. All metrics
// read live simulator state at scrape time, so nothing needs to be wired into
// the tick loop.
type Collector struct {
	gatherer prometheus.Gatherer
}

// NewCollector registers simulation metrics against the provided registerer,
// defaulting to the global Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer, simulator *sim.Simulator) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	collectors := []prometheus.Collector{
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "routehazard_ticks_total",
			Help: "Total number of simulation ticks executed.",
		}, func() float64 { return float64(simulator.TickCount()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "routehazard_warnings_total",
			Help: "Total number of pothole warnings emitted.",
		}, func() float64 { return float64(len(simulator.Warnings())) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "routehazard_hazards_pending",
			Help: "Hazards not yet warned about.",
		}, func() float64 { return float64(simulator.HazardStates()[hazard.StatePending]) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "routehazard_hazards_passed",
			Help: "Hazards the vehicle has driven past.",
		}, func() float64 { return float64(simulator.HazardStates()[hazard.StatePassed]) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "routehazard_distance_traveled_meters",
			Help: "Distance traveled along the route in meters.",
		}, func() float64 { return simulator.State().DistanceTraveled }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "routehazard_vehicle_finished",
			Help: "1 when the vehicle has reached the end of the route.",
		}, func() float64 {
			if simulator.State().Finished {
				return 1
			}
			return 0
		}),
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return &Collector{gatherer: gatherer}, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
