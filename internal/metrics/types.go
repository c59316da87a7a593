package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	MapsBanned         prometheus.Counter
	MapsPicked         prometheus.Counter
	RoundsPlayed       *prometheus.CounterVec
	TimersExpired      *prometheus.CounterVec
	Commands           *prometheus.CounterVec
	Panics             prometheus.Counter
	LobbyCallFailures  *prometheus.CounterVec
	EventDuration      prometheus.Histogram
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
