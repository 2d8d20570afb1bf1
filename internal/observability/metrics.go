package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// resolution pipeline and its upstream clients.
type Metrics struct {
	// Pipeline metrics.
	Resolutions     *prometheus.CounterVec // labels: outcome={success,not_found,geocode_error,forecast_error,short_query,stale}
	ResolutionTime  prometheus.Histogram
	Loading         prometheus.Gauge
	StoreErrors     prometheus.Counter
	PublishFailures prometheus.Counter

	// Upstream API metrics.
	APIRequests  *prometheus.CounterVec   // labels: api={geocode,forecast}, outcome={success,not_found,error}
	APIDuration  *prometheus.HistogramVec // labels: api={geocode,forecast}
	GeocodeCache *prometheus.CounterVec   // labels: result={hit,miss}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Resolutions,
		m.ResolutionTime,
		m.Loading,
		m.StoreErrors,
		m.PublishFailures,
		m.APIRequests,
		m.APIDuration,
		m.GeocodeCache,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

// NewUnregisteredMetrics creates Metrics for one-shot commands that have no
// /metrics endpoint.
func NewUnregisteredMetrics() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "classy_weather",
			Name:      "resolutions_total",
			Help:      "Location resolution attempts by outcome.",
		}, []string{"outcome"}),
		ResolutionTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "classy_weather",
			Name:      "resolution_duration_seconds",
			Help:      "Duration of a geocode and forecast resolution attempt.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		Loading: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "classy_weather",
			Name:      "loading",
			Help:      "1 while the latest resolution is in flight, 0 otherwise.",
		}),
		StoreErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "classy_weather",
			Name:      "location_store_errors_total",
			Help:      "Failed reads or writes of the persisted location.",
		}),
		PublishFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "classy_weather",
			Name:      "publish_failures_total",
			Help:      "Forecast events that could not be published.",
		}),
		APIRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "classy_weather",
			Name:      "api_requests_total",
			Help:      "Open-Meteo API requests by api and outcome.",
		}, []string{"api", "outcome"}),
		APIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "classy_weather",
			Name:      "api_duration_seconds",
			Help:      "Open-Meteo API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"api"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "classy_weather",
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
	}
}
