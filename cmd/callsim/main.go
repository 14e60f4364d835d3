package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/MikeSquared-Agency/callsim/internal/analytics"
	"github.com/MikeSquared-Agency/callsim/internal/anthropic"
	"github.com/MikeSquared-Agency/callsim/internal/api"
	"github.com/MikeSquared-Agency/callsim/internal/config"
	"github.com/MikeSquared-Agency/callsim/internal/events"
	"github.com/MikeSquared-Agency/callsim/internal/leaderboard"
	"github.com/MikeSquared-Agency/callsim/internal/live"
	"github.com/MikeSquared-Agency/callsim/internal/metrics"
	"github.com/MikeSquared-Agency/callsim/internal/scoring"
	"github.com/MikeSquared-Agency/callsim/internal/sim"
	"github.com/MikeSquared-Agency/callsim/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("callsim starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Anthropic clients — one per concern so the agent and the analytics
	// estimator can run different models.
	if cfg.AnthropicAPIKey == "" {
		slog.Error("ANTHROPIC_API_KEY is required")
		os.Exit(1)
	}
	agentLLM := anthropic.NewClient(cfg.AnthropicAPIKey, cfg.AgentModel)
	analyticsLLM := anthropic.NewClient(cfg.AnthropicAPIKey, cfg.AnalyticsModel)
	slog.Info("anthropic clients ready", "agent_model", cfg.AgentModel, "analytics_model", cfg.AnalyticsModel)

	table := scoring.DefaultTable()
	if err := table.Validate(); err != nil {
		slog.Error("invalid scoring table", "error", err)
		os.Exit(1)
	}

	board := leaderboard.New()
	assessor := analytics.NewEngine(analyticsLLM, slog.Default())

	// Call archive (optional — the simulator runs in memory without it)
	var archive *store.Store
	if cfg.DatabaseURL != "" {
		var err error
		archive, err = store.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer archive.Close()
		slog.Info("call archive connected")
	} else {
		slog.Warn("DATABASE_URL not set — calls will not be archived")
	}

	// Event bus (optional)
	var bus *events.Client
	if cfg.NatsURL != "" {
		var err error
		bus, err = events.New(cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer bus.Close()
		slog.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS_URL not set — completed calls will not be published")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	sims := metrics.New(registry)

	opts := sim.Options{
		MaxTurns:    cfg.MaxTurns,
		TypingDelay: time.Duration(cfg.TypingDelayMS) * time.Millisecond,
		Metrics:     sims,
	}
	if archive != nil {
		opts.Archiver = archive
	}
	if bus != nil {
		opts.Publisher = bus
	}
	runner := sim.NewRunner(agentLLM, assessor, board, table, slog.Default(), opts)

	ws := live.NewHandler(runner, slog.Default())
	srv := api.NewServer(cfg.Port, board, runner, archive, ws, registry)
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	slog.Info("callsim ready", "port", cfg.Port, "max_turns", cfg.MaxTurns)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("callsim stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
