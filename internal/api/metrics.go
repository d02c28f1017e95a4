package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/FocuswithJustin/ChurchProjection/core/scripture"
)

// Metrics holds the server's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	searches       *prometheus.CounterVec
	searchDuration prometheus.Histogram
	loadPasses     prometheus.Counter
	loadFailures   prometheus.Counter
	versions       prometheus.Gauge
	verses         prometheus.Gauge
	wsClients      prometheus.Gauge
}

// NewMetrics registers the projection collectors plus the Go runtime and
// process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "projection",
			Name:      "searches_total",
			Help:      "Searches by the phase that produced the result.",
		}, []string{"phase"}),
		searchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "projection",
			Name:      "search_duration_seconds",
			Help:      "Time spent answering a search.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		}),
		loadPasses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "projection",
			Name:      "load_passes_total",
			Help:      "Completed Bible load passes.",
		}),
		loadFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "projection",
			Name:      "load_file_errors_total",
			Help:      "Source files that failed to open or parse.",
		}),
		versions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "projection",
			Name:      "loaded_versions",
			Help:      "Bible versions in the current snapshot.",
		}),
		verses: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "projection",
			Name:      "loaded_verses",
			Help:      "Verses across all versions in the current snapshot.",
		}),
		wsClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "projection",
			Name:      "websocket_clients",
			Help:      "Connected event stream clients.",
		}),
	}
	m.registry.MustRegister(
		m.searches, m.searchDuration,
		m.loadPasses, m.loadFailures, m.versions, m.verses,
		m.wsClients,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests and embedding.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) observeSearch(res scripture.Result) {
	m.searches.WithLabelValues(string(res.Phase)).Inc()
	m.searchDuration.Observe(res.Duration.Seconds())
}

func (m *Metrics) observeLoad(store *scripture.Store, report scripture.LoadReport) {
	m.loadPasses.Inc()
	m.loadFailures.Add(float64(len(report.Errors())))
	m.versions.Set(float64(len(report.Versions)))
	total := 0
	for _, v := range store.Versions() {
		total += store.VerseTotal(v)
	}
	m.verses.Set(float64(total))
}

func (m *Metrics) setClients(n int) { m.wsClients.Set(float64(n)) }
