package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/osu-autoref/internal/bancho"
	"github.com/mauv0809/osu-autoref/internal/config"
	server "github.com/mauv0809/osu-autoref/internal/http"
	"github.com/mauv0809/osu-autoref/internal/lobby"
	"github.com/mauv0809/osu-autoref/internal/metrics"
	"github.com/mauv0809/osu-autoref/internal/notifier/slack"
	"github.com/mauv0809/osu-autoref/internal/osuapi"
	"github.com/mauv0809/osu-autoref/internal/pool"
	"github.com/mauv0809/osu-autoref/internal/pubsub"
	"github.com/mauv0809/osu-autoref/internal/referee"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	cfg := config.Load()
	setupLogging(cfg)
	log.Info("Starting osu-autoref")

	matchFile, err := config.LoadMatch(cfg.MatchFile)
	if err != nil {
		log.Fatalf("Failed to load match: %s", err)
	}
	settings, err := matchFile.Settings(cfg.Osu.Username)
	if err != nil {
		log.Fatalf("Invalid match settings: %s", err)
	}
	entries, err := config.LoadPool(cfg.PoolFile)
	if err != nil {
		log.Fatalf("Failed to load pool: %s", err)
	}

	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loadCtx, loadCancel := context.WithTimeout(ctx, time.Minute)
	mapPool, err := pool.New(pool.Describe(loadCtx, entries, osuapi.NewClient(cfg.Osu.APIKey)))
	loadCancel()
	if err != nil {
		log.Fatalf("Invalid map pool: %s", err)
	}
	log.Info("Loaded map pool", "maps", len(mapPool.Entries()))

	notifier := slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, cfg.Slack.Mention, metricsSvc)
	events := pubsub.NewNoop()
	if cfg.ProjectID != "" {
		events = pubsub.New(cfg.ProjectID, cfg.EventsTopic)
	}
	defer events.Close()

	client := bancho.NewClient(bancho.Config{
		Addr:     cfg.Osu.BanchoAddr,
		Username: cfg.Osu.Username,
		Password: cfg.Osu.IRCPassword,
	})
	connectCtx, connectCancel := context.WithTimeout(ctx, 30*time.Second)
	err = client.Connect(connectCtx)
	connectCancel()
	if err != nil {
		log.Fatalf("Failed to connect to Bancho: %s", err)
	}
	defer client.Disconnect()

	createCtx, createCancel := context.WithTimeout(ctx, 30*time.Second)
	room, err := client.CreateLobby(createCtx, matchFile.LobbyName())
	createCancel()
	if err != nil {
		log.Fatalf("Failed to create lobby: %s", err)
	}
	setupLobby(room, matchFile, settings)
	log.Info("Multiplayer link", "url", room.Link())
	log.Info("Open in your irc client", "command", "/join "+room.Channel())

	ref, err := referee.New(settings, mapPool, room, notifier, metricsSvc, events)
	if err != nil {
		log.Fatalf("Failed to create referee: %s", err)
	}

	s := server.NewServer(ref, metricsSvc, metricsHandler, cfg)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	refereeDone := make(chan error, 1)
	go func() {
		refereeDone <- ref.Run(ctx, room.Events())
	}()
	go relayConsole(ctx, os.Stdin, ref, settings.CommandPrefix, cfg.Osu.Username)

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Error("Server error", "error", err)
		}
	case err := <-refereeDone:
		if err != nil {
			log.Error("Referee stopped", "error", err)
		} else {
			log.Info("Match over, lobby closed")
		}
	case <-client.Done():
		log.Error("Lost connection to Bancho")
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)
	}
	cancel()

	// Create a context with a timeout for the shutdown.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
	} else {
		log.Info("Server gracefully stopped")
	}

	log.Info("Server process shutting down")
}

func setupLogging(cfg config.Config) {
	if strings.EqualFold(cfg.LogFormat, "json") {
		log.SetFormatter(log.JSONFormatter)
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn("Unknown log level, using info", "level", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

// setupLobby locks the room and prepares it for the match. Failures are
// logged; the referee can still run in a half configured room.
func setupLobby(room lobby.Lobby, mf config.MatchFile, settings referee.Settings) {
	password := strings.SplitN(uuid.NewString(), "-", 2)[0]
	steps := []struct {
		op  string
		err func() error
	}{
		{"SetPassword", func() error { return room.SetPassword(password) }},
		{"SetMap", func() error {
			if mf.WaitSong == 0 {
				return nil
			}
			return room.SetMap(mf.WaitSong)
		}},
		{"AddRefs", func() error { return room.AddRefs(settings.TrustedPeople...) }},
		{"SetSettings", func() error { return room.SetSettings(settings.TeamSize) }},
	}
	for _, step := range steps {
		if err := step.err(); err != nil {
			log.Error("Lobby setup step failed", "op", step.op, "error", err)
		}
	}
	log.Info("Lobby created", "name", room.Name(), "password", password)
	if len(settings.TrustedPeople) > 0 {
		log.Info("Match refs added", "refs", strings.Join(settings.TrustedPeople, ", "))
	}
}
