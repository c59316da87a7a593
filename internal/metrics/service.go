package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		MapsBanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "autoref_maps_banned_total",
			Help: "The total number of maps banned.",
		}),
		MapsPicked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "autoref_maps_picked_total",
			Help: "The total number of maps picked.",
		}),
		RoundsPlayed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "autoref_rounds_played_total",
			Help: "The total number of finished games by winning team colour.",
		}, []string{"winner"}),
		TimersExpired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "autoref_timers_expired_total",
			Help: "The total number of lobby countdowns that ran out, by phase.",
		}, []string{"phase"}),
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "autoref_commands_total",
			Help: "The total number of operator commands handled, by verb.",
		}, []string{"verb"}),
		Panics: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "autoref_panics_total",
			Help: "The total number of times the panic keyword was used.",
		}),
		LobbyCallFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "autoref_lobby_call_failures_total",
			Help: "The total number of lobby operations that returned an error.",
		}, []string{"op"}),
		EventDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "autoref_event_duration_seconds",
			Help:    "The time spent handling a single lobby event or command.",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "autoref_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "autoref_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "autoref_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.MapsBanned,
		s.MapsPicked,
		s.RoundsPlayed,
		s.TimersExpired,
		s.Commands,
		s.Panics,
		s.LobbyCallFailures,
		s.EventDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncMapsBanned() {
	s.MapsBanned.Inc()
}

func (s *Service) IncMapsPicked() {
	s.MapsPicked.Inc()
}

func (s *Service) IncRoundsPlayed(winner string) {
	s.RoundsPlayed.WithLabelValues(winner).Inc()
}

func (s *Service) IncTimersExpired(phase string) {
	s.TimersExpired.WithLabelValues(phase).Inc()
}

func (s *Service) IncCommands(verb string) {
	s.Commands.WithLabelValues(verb).Inc()
}

func (s *Service) IncPanics() {
	s.Panics.Inc()
}

func (s *Service) IncLobbyCallFailures(op string) {
	s.LobbyCallFailures.WithLabelValues(op).Inc()
}

func (s *Service) ObserveEventDuration(duration float64) {
	s.EventDuration.Observe(duration)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
