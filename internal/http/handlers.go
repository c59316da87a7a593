package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	json "github.com/goccy/go-json"
	"github.com/mauv0809/osu-autoref/internal/pool"
	"github.com/mauv0809/osu-autoref/internal/referee"
	"github.com/slack-go/slack"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) StateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := s.Referee.Snapshot(r.Context())
		if err != nil {
			log.Error("Failed to get match state", "error", err)
			http.Error(w, "Referee is not running", statusFor(err))
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func (s *Server) CommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req commandRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, commandResponse{Error: "invalid JSON body"})
			return
		}
		if strings.TrimSpace(req.Command) == "" {
			writeJSON(w, http.StatusBadRequest, commandResponse{Error: "command is required"})
			return
		}
		sender := req.Sender
		if sender == "" {
			sender = "http"
		}

		log.Info("Received operator command", "sender", sender, "command", req.Command)
		reply, err := s.Referee.Submit(r.Context(), sender, req.Command)
		if err != nil {
			log.Warn("Operator command failed", "command", req.Command, "error", err)
			writeJSON(w, statusFor(err), commandResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, commandResponse{Reply: reply})
	}
}

// AutorefCommandHandler serves the /autoref slash command. An empty text or
// "status" replies with the match state, anything else runs as a command.
func (s *Server) AutorefCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cmd, err := slack.SlashCommandParse(r)
		if err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		text := strings.TrimSpace(cmd.Text)
		log.Info("Received autoref slash command", "user", cmd.UserName, "text", text)

		if text == "" || strings.EqualFold(text, "status") {
			snap, err := s.Referee.Snapshot(r.Context())
			if err != nil {
				respondWithSlackMsg(w, slack.ResponseTypeEphemeral, "The referee is not running.")
				return
			}
			respondWithSlackMsg(w, slack.ResponseTypeEphemeral, formatStatus(snap))
			return
		}

		if !s.slackAllowed(cmd.UserName) {
			log.Warn("Slack user may not run commands", "user", cmd.UserName, "text", text)
			respondWithSlackMsg(w, slack.ResponseTypeEphemeral, "You are not allowed to run referee commands.")
			return
		}

		reply, err := s.Referee.Submit(r.Context(), "slack:"+cmd.UserName, text)
		if err != nil {
			respondWithSlackMsg(w, slack.ResponseTypeEphemeral, fmt.Sprintf("`%s` failed: %v", text, err))
			return
		}
		respondWithSlackMsg(w, slack.ResponseTypeInChannel, fmt.Sprintf("%s ran `%s`: %s", cmd.UserName, text, reply))
	}
}

func (s *Server) slackAllowed(user string) bool {
	for _, u := range s.Cfg.Slack.AllowedUsers {
		if strings.EqualFold(u, user) {
			return true
		}
	}
	return false
}

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, responseType, text string) {
	writeJSON(w, http.StatusOK, slack.Msg{ResponseType: responseType, Text: text})
}

func formatStatus(s referee.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s* (%s)\n", s.Lobby, s.Link)
	fmt.Fprintf(&b, "%s %d -- %d %s, first to %d\n", s.Teams[0], s.Score[0], s.Score[1], s.Teams[1], s.WinningScore)
	fmt.Fprintf(&b, "Phase: %s, auto referee: %t, players: %d", s.Phase, s.AutoReferee, s.PlayersPresent)
	switch s.Phase {
	case "banning":
		fmt.Fprintf(&b, "\n%s is banning, %d bans left", s.BanningTeam, s.BansRemaining)
	case "picking":
		fmt.Fprintf(&b, "\n%s is picking", s.PickingTeam)
	}
	if s.CurrentMap != "" {
		fmt.Fprintf(&b, "\nCurrent map: %s", s.CurrentMap)
	}
	return b.String()
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, referee.ErrStopped):
		return http.StatusServiceUnavailable
	case errors.Is(err, referee.ErrUnknownCommand), errors.Is(err, referee.ErrBadArguments),
		errors.Is(err, referee.ErrNoBansLeft), errors.Is(err, referee.ErrMapTaken), errors.Is(err, referee.ErrMatchComplete),
		errors.Is(err, pool.ErrNoMatch), errors.Is(err, pool.ErrAmbiguous), errors.Is(err, pool.ErrTooShort):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}
