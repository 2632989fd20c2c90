package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	chartsServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tweetmetrics",
		Name:      "charts_served_total",
		Help:      "Chart configurations delivered, by periodicity and transport.",
	}, []string{"mode", "transport"})

	placeholdersServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tweetmetrics",
		Name:      "placeholders_served_total",
		Help:      "Placeholder messages delivered instead of a chart, by periodicity.",
	}, []string{"mode", "transport"})

	renderFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tweetmetrics",
		Name:      "render_failures_total",
		Help:      "Websocket deliveries that did not reach the surface, by reason.",
	}, []string{"reason"})

	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "tweetmetrics",
		Name:      "view_sessions",
		Help:      "Open websocket view sessions.",
	})
)
