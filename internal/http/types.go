package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/osu-autoref/internal/config"
	"github.com/mauv0809/osu-autoref/internal/metrics"
	"github.com/mauv0809/osu-autoref/internal/referee"
)

// Referee is the running match as seen by the status server.
type Referee interface {
	Snapshot(ctx context.Context) (referee.Snapshot, error)
	Submit(ctx context.Context, sender, text string) (string, error)
}

type Server struct {
	Referee        Referee
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         chi.Router
}

// commandRequest is the body of POST /command.
type commandRequest struct {
	Sender  string `json:"sender"`
	Command string `json:"command"`
}

type commandResponse struct {
	Reply string `json:"reply,omitempty"`
	Error string `json:"error,omitempty"`
}
