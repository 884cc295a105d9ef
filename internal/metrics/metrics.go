// Package metrics registers the two observability gauges spec §4.3/§4.5
// call out with the default Prometheus registry; internal/httpapi serves
// them at /metrics via promhttp.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActiveGames counts rooms with a live RoomAgent. Incremented when a
	// RoomAgent's loop starts, decremented when it stops — see spec §4.5
	// "observability side effects only".
	ActiveGames = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wordwave_active_games",
		Help: "Number of RoomAgents currently running.",
	})

	// ConnectedPlayers counts live PlayerSessions across all rooms.
	ConnectedPlayers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wordwave_connected_players",
		Help: "Number of PlayerSessions currently connected.",
	})
)
