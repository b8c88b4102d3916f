package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	actionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "investigation_actions_total",
		Help: "Total number of player actions, partitioned by action and result.",
	}, []string{"action", "result"})

	actionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "investigation_action_duration_seconds",
		Help:    "Duration of player actions including persistence.",
		Buckets: prometheus.DefBuckets,
	}, []string{"action"})

	sessionsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "investigation_sessions_created_total",
		Help: "Total number of game sessions created.",
	})

	liveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "investigation_live_sessions",
		Help: "Number of sessions held in memory.",
	})

	eventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "investigation_events_published_total",
		Help: "Total number of game events handed to sinks, partitioned by result.",
	}, []string{"result"})
)

// resultLabel - метка результата действия.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case isRefusal(err):
		return "refused"
	default:
		return "error"
	}
}
