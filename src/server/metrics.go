package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var connectedPeers = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "docinspect_bridge_connected_peers",
	Help: "Open websocket connections.",
})

var registeredPeers = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "docinspect_bridge_registered_peers",
	Help: "Peers that enabled a protocol domain.",
}, []string{"domain"})

var requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "docinspect_bridge_requests_total",
	Help: "JSON-RPC requests by method and response code (0 for success).",
}, []string{"method", "code"})

var consoleMessages = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "docinspect_bridge_console_messages_total",
	Help: "Console messages broadcast to peers.",
}, []string{"level"})
