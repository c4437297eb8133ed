package transport

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"bomb-arena/internal/engine"
	"bomb-arena/internal/leaderboard"
	"bomb-arena/internal/metrics"
)

// RouterConfig carries the dependencies NewRouter wires into the HTTP
// surface, the same dependency-injection shape as the teacher's
// internal/api/router.go RouterConfig.
type RouterConfig struct {
	Game           *engine.Game
	Leaderboard    *leaderboard.Board
	RateLimiter    *IPRateLimiter
	MaxConnections int
	MaxPerIP       int
}

// NewRouter constructs the HTTP router. It opens no listener and starts no
// goroutine beyond what RateLimiter/connCounter already own, so it is safe
// to drive from httptest in a test.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	}))

	counter := newConnCounter(cfg.MaxConnections, cfg.MaxPerIP)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	})

	r.Get("/leaderboard", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, cfg.Leaderboard.Top(10))
	})

	r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
		ip := ClientIP(req)
		if cfg.RateLimiter != nil && !cfg.RateLimiter.Allow(ip) {
			metrics.RecordConnectionRejected("rate_limit")
			w.Header().Set("Retry-After", "1")
			http.Error(w, "too many connection attempts", http.StatusTooManyRequests)
			return
		}
		Serve(w, req, cfg.Game, cfg.Leaderboard, counter)
	})

	r.Handle("/metrics", metrics.Handler())

	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
