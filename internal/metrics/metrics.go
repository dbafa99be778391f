// Package metrics exposes Prometheus instrumentation for the game server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Set bundles the server's collectors. A nil *Set is a no-op so wiring stays
// optional in tests.
type Set struct {
	registry *prometheus.Registry

	activeLobbies    prometheus.Gauge
	connectedClients prometheus.Gauge
	gamesStarted     prometheus.Counter
	gamesCompleted   prometheus.Counter
	drawRelayed      prometheus.Counter
}

func New() *Set {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Set{
		registry: reg,
		activeLobbies: factory.NewGauge(prometheus.GaugeOpts{
			Name: "sketchspy_active_lobbies",
			Help: "Number of live lobbies.",
		}),
		connectedClients: factory.NewGauge(prometheus.GaugeOpts{
			Name: "sketchspy_connected_clients",
			Help: "Number of connected websocket clients.",
		}),
		gamesStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "sketchspy_games_started_total",
			Help: "Games that passed the ready check and started.",
		}),
		gamesCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "sketchspy_games_completed_total",
			Help: "Games that ran to the end-game broadcast.",
		}),
		drawRelayed: factory.NewCounter(prometheus.CounterOpts{
			Name: "sketchspy_draw_events_relayed_total",
			Help: "Draw events fanned out to lobby members.",
		}),
	}
}

// Handler exposes the registry, mounted at /metrics.
func (s *Set) Handler() http.Handler {
	if s == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}

func (s *Set) LobbyCreated() {
	if s == nil {
		return
	}
	s.activeLobbies.Inc()
}

func (s *Set) LobbyRemoved() {
	if s == nil {
		return
	}
	s.activeLobbies.Dec()
}

func (s *Set) ClientConnected() {
	if s == nil {
		return
	}
	s.connectedClients.Inc()
}

func (s *Set) ClientDisconnected() {
	if s == nil {
		return
	}
	s.connectedClients.Dec()
}

func (s *Set) GameStarted() {
	if s == nil {
		return
	}
	s.gamesStarted.Inc()
}

func (s *Set) GameCompleted() {
	if s == nil {
		return
	}
	s.gamesCompleted.Inc()
}

func (s *Set) DrawRelayed(n int) {
	if s == nil || n <= 0 {
		return
	}
	s.drawRelayed.Add(float64(n))
}
