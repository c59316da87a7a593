package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/osu-autoref/internal/config"
	"github.com/mauv0809/osu-autoref/internal/metrics"
)

func NewServer(ref Referee, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config) *Server {
	server := &Server{
		Referee:        ref,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         chi.NewRouter(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Get("/health", Chain(s.HealthCheckHandler(), paramsMiddleware).ServeHTTP)
	s.Router.Get("/state", Chain(s.StateHandler(), paramsMiddleware).ServeHTTP)
	s.Router.Post("/command", Chain(s.CommandHandler(), paramsMiddleware, s.tokenMiddleware).ServeHTTP)
	s.Router.Post("/slack/command/autoref", Chain(s.AutorefCommandHandler(), paramsMiddleware, s.slackVerifyMiddleware).ServeHTTP)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
