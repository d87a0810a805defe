package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	PlayersAdded       prometheus.Counter
	PlayersDeleted     prometheus.Counter
	MatchesRecorded    prometheus.Counter
	QueryDuration      *prometheus.HistogramVec
	StoreErrors        prometheus.Counter
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
