package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"bomb-arena/internal/config"
	"bomb-arena/internal/engine"
	"bomb-arena/internal/leaderboard"
	"bomb-arena/internal/metrics"
	"bomb-arena/internal/transport"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables only")
	}

	log.Println("================================")
	log.Println(" BOMB ARENA - GAME ENGINE")
	log.Println("================================")

	cfg := config.Load()

	game := engine.NewGame(cfg)
	board := leaderboard.New()
	sched := engine.NewScheduler(game, board, cfg.Sim.TickRate)

	rateLimiter := transport.NewIPRateLimiter(transport.DefaultRateLimitConfig)
	defer rateLimiter.Stop()

	router := transport.NewRouter(transport.RouterConfig{
		Game:           game,
		Leaderboard:    board,
		RateLimiter:    rateLimiter,
		MaxConnections: cfg.Server.MaxConnections,
		MaxPerIP:       20,
	})

	sched.Start()
	log.Printf("simulation running at %d ticks/s on a %dx%d map", cfg.Sim.TickRate, cfg.World.Width, cfg.World.Height)

	addr := ":" + strconv.Itoa(cfg.Server.Port)
	httpServer := &http.Server{Addr: addr, Handler: router}

	go func() {
		log.Printf("listening on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	if cfg.Server.MetricsAddr != "" {
		debugMux := metrics.DebugMux()
		go func() {
			log.Printf("debug/metrics server on %s", cfg.Server.MetricsAddr)
			if err := http.ListenAndServe(cfg.Server.MetricsAddr, debugMux); err != nil {
				log.Printf("debug server stopped: %v", err)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	sched.Stop()
	httpServer.Close()
	log.Println("goodbye")
}
