package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters for the overlay daemon.
type Metrics struct {
	registry          *prometheus.Registry
	pushesTotal       *prometheus.CounterVec
	droppedPushes     prometheus.Counter
	geometryCommits   *prometheus.CounterVec
	driftCorrections  prometheus.Counter
	forwardedActions  *prometheus.CounterVec
	overlayBacklog    prometheus.Gauge
	hookRequests      prometheus.Counter
	hookErrors        prometheus.Counter
}

// New creates and registers the daemon metrics on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	pushesTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lyrical_song_pushes_total",
		Help: "Song state pushes received, by source",
	}, []string{"source"})
	droppedPushes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lyrical_song_pushes_dropped_total",
		Help: "Song state pushes ignored because shutdown was in progress",
	})
	geometryCommits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lyrical_geometry_commits_total",
		Help: "Overlay geometry commits, by kind (move or resize)",
	}, []string{"kind"})
	driftCorrections := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lyrical_drift_corrections_total",
		Help: "Times the committed overlay size was restored after an external resize",
	})
	forwardedActions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lyrical_forwarded_actions_total",
		Help: "Playback actions forwarded to the player, by action",
	}, []string{"action"})
	overlayBacklog := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lyrical_overlay_backlog",
		Help: "Notifications applied by the last overlay update",
	})

	hookRequests := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lyrical_hook_requests_total",
		Help: "HTTP requests served by the hook server",
	})
	hookErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lyrical_hook_errors_total",
		Help: "Hook server responses with status >= 400",
	})

	registry.MustRegister(
		pushesTotal,
		droppedPushes,
		geometryCommits,
		driftCorrections,
		forwardedActions,
		overlayBacklog,
		hookRequests,
		hookErrors,
	)

	return &Metrics{
		registry:          registry,
		pushesTotal:       pushesTotal,
		droppedPushes:     droppedPushes,
		geometryCommits:   geometryCommits,
		driftCorrections:  driftCorrections,
		forwardedActions:  forwardedActions,
		overlayBacklog:    overlayBacklog,
		hookRequests:      hookRequests,
		hookErrors:        hookErrors,
	}
}

// IncPushes counts a song push from source ("hook", "mpris" or "mpd").
func (m *Metrics) IncPushes(source string) {
	m.pushesTotal.WithLabelValues(source).Inc()
}

// IncDroppedPushes counts a push ignored during shutdown.
func (m *Metrics) IncDroppedPushes() {
	m.droppedPushes.Inc()
}

// IncGeometryCommits counts a committed move or resize.
func (m *Metrics) IncGeometryCommits(kind string) {
	m.geometryCommits.WithLabelValues(kind).Inc()
}

// IncDriftCorrections counts a restored size.
func (m *Metrics) IncDriftCorrections() {
	m.driftCorrections.Inc()
}

// IncForwardedActions counts a forwarded playback action.
func (m *Metrics) IncForwardedActions(action string) {
	m.forwardedActions.WithLabelValues(action).Inc()
}

// ObserveOverlayBacklog records how many notifications one overlay update applied.
func (m *Metrics) ObserveOverlayBacklog(n int) {
	m.overlayBacklog.Set(float64(n))
}

// IncHookRequests counts a request served by the hook server.
func (m *Metrics) IncHookRequests() {
	m.hookRequests.Inc()
}

// IncHookErrors counts a hook response with an error status.
func (m *Metrics) IncHookErrors() {
	m.hookErrors.Inc()
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an http.Handler that serves the metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
