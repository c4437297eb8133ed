// Package metrics exposes the server's Prometheus instrumentation,
// generalising the teacher's internal/api/observability.go gauge/histogram/
// counter set from the combat-stream domain to the tick loop, the world
// population, and the per-connection transport.
package metrics

import (
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "game_tick_duration_seconds",
		Help:    "Time spent running one simulation tick",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.02, 0.033, 0.05},
	})

	playerCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "game_player_count",
		Help: "Current number of active players",
	})

	mobCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "game_mob_count",
		Help: "Current number of live mobs",
	})

	bombCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "game_bomb_count",
		Help: "Current number of armed bombs",
	})

	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "websocket_connections_active",
		Help: "Currently active WebSocket connections",
	})

	wsMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "websocket_messages_total",
		Help: "Total WebSocket messages processed",
	}, []string{"direction"}) // "inbound" or "outbound"

	connectionRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connection_rejected_total",
		Help: "Connections rejected before or during upgrade",
	}, []string{"reason"}) // bounded: "rate_limit", "max_connections", "upgrade_error"
)

// RecordTick observes the wall time spent in one scheduler step (tick,
// fan-out, and scoreboard sync).
func RecordTick(d time.Duration) { tickDuration.Observe(d.Seconds()) }

// UpdatePopulation refreshes the player/mob/bomb population gauges.
func UpdatePopulation(players, mobs, bombs int) {
	playerCount.Set(float64(players))
	mobCount.Set(float64(mobs))
	bombCount.Set(float64(bombs))
}

// UpdateWSConnections sets the active WebSocket connection gauge.
func UpdateWSConnections(count int) { wsConnectionsActive.Set(float64(count)) }

// RecordMessage increments the inbound/outbound WebSocket message counter.
func RecordMessage(direction string) { wsMessagesTotal.WithLabelValues(direction).Inc() }

// RecordConnectionRejected increments the rejection counter for reason.
func RecordConnectionRejected(reason string) { connectionRejected.WithLabelValues(reason).Inc() }

// Handler returns the /metrics HTTP handler.
func Handler() http.Handler { return promhttp.Handler() }

// DebugMux builds a localhost-only pprof + metrics mux, mirroring the
// teacher's StartDebugServer but left for the caller to bind and serve so
// this package never opens a listener itself.
func DebugMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}
