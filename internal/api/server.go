package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/callsim/internal/agent"
	"github.com/MikeSquared-Agency/callsim/internal/leaderboard"
	"github.com/MikeSquared-Agency/callsim/internal/scoring"
	"github.com/MikeSquared-Agency/callsim/internal/store"
)

// WarmupController exposes the simulator's warmup switch to HTTP clients.
type WarmupController interface {
	Warmup() bool
	ToggleWarmup() bool
}

type Server struct {
	router *chi.Mux
	port   int

	board   *leaderboard.Store
	warmup  WarmupController
	archive *store.Store // nil when no database is configured
}

// NewServer builds the HTTP surface. The websocket handler and metrics
// gatherer are passed in so the api package stays free of their wiring;
// archive may be nil.
func NewServer(port int, board *leaderboard.Store, warmup WarmupController, archive *store.Store, ws http.Handler, gatherer prometheus.Gatherer) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:  router,
		port:    port,
		board:   board,
		warmup:  warmup,
		archive: archive,
	}

	router.Get("/health", s.health)
	router.Get("/api/stats", s.stats)
	router.Get("/api/leaderboard", s.leaderboard)
	router.Get("/api/agents", s.agents)
	router.Get("/api/agents/{style}/stats", s.agentStats)
	router.Get("/api/warmup", s.warmupStatus)
	router.Post("/api/warmup", s.warmupToggle)
	router.Get("/api/history", s.history)

	if ws != nil {
		router.Handle("/ws", ws)
	}
	if gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	slog.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.router }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.board.Overall())
}

func (s *Server) leaderboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"leaderboard": s.board.Leaderboard()})
}

func (s *Server) agents(w http.ResponseWriter, r *http.Request) {
	type agentView struct {
		Style    agent.Style `json:"style"`
		Name     string      `json:"name"`
		Strength string      `json:"strength"`
		Weakness string      `json:"weakness"`
	}
	var out []agentView
	for _, style := range agent.Styles() {
		info := agent.Info(style)
		out = append(out, agentView{
			Style:    style,
			Name:     info.DisplayName,
			Strength: info.Strength,
			Weakness: info.Weakness,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"agents": out})
}

func (s *Server) agentStats(w http.ResponseWriter, r *http.Request) {
	style := agent.Style(chi.URLParam(r, "style"))
	if !agent.Known(style) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown agent style"})
		return
	}
	stats, ok := s.board.StyleStats(style)
	if !ok {
		stats = leaderboard.Stats{Outcomes: map[scoring.Outcome]int{}}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"style":        style,
		"stats":        stats,
		"patterns":     s.board.Patterns(style),
		"recent_calls": s.board.Recent(style),
	})
}

func (s *Server) warmupStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"warmup": s.warmup.Warmup()})
}

func (s *Server) warmupToggle(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"warmup": s.warmup.ToggleWarmup()})
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "call archive not configured"})
		return
	}
	calls, err := s.archive.RecentCalls(r.Context(), 20)
	if err != nil {
		slog.Error("failed to load call history", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load history"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"calls": calls})
}
