package engine

import (
	"log"
	"time"

	"bomb-arena/internal/leaderboard"
	"bomb-arena/internal/metrics"
)

// Scheduler drives Game at a fixed tick rate, mirroring the teacher's
// internal/game/engine.go Start/Stop/tick shape: a time.Ticker goroutine
// guarded by a stop channel, one fixed-timestep simulation step per tick.
type Scheduler struct {
	game     *Game
	board    *leaderboard.Board
	tickRate int

	ticker   *time.Ticker
	stopChan chan struct{}
	running  bool
}

// NewScheduler builds a scheduler for g at the configured tick rate, syncing
// board with every player's score once per tick. board may be nil, in which
// case the scheduler simply skips the sync.
func NewScheduler(g *Game, board *leaderboard.Board, tickRate int) *Scheduler {
	return &Scheduler{game: g, board: board, tickRate: tickRate, stopChan: make(chan struct{})}
}

// Start begins the fixed-rate tick loop in its own goroutine (§4.7).
func (s *Scheduler) Start() {
	if s.running {
		return
	}
	s.running = true
	s.ticker = time.NewTicker(time.Second / time.Duration(s.tickRate))
	dt := 1.0 / float64(s.tickRate)

	go func() {
		for {
			select {
			case <-s.ticker.C:
				s.step(dt)
			case <-s.stopChan:
				return
			}
		}
	}()

	log.Printf("[SCHED] simulation started at %d ticks/s", s.tickRate)
}

func (s *Scheduler) step(dt float64) {
	start := time.Now()

	s.game.Lock()
	now := time.Now()
	s.game.Tick(dt, now)
	s.game.Fanout(now)
	players, mobs, bombs := s.game.Populations()
	scores := s.game.Scoreboard()
	s.game.Unlock()

	if s.board != nil {
		for _, e := range scores {
			s.board.Update(e.ID, e.Name, e.Score, e.Kills)
		}
	}

	metrics.RecordTick(time.Since(start))
	metrics.UpdatePopulation(players, mobs, bombs)
}

// Stop halts the tick loop.
func (s *Scheduler) Stop() {
	if !s.running {
		return
	}
	s.running = false
	s.ticker.Stop()
	close(s.stopChan)
	log.Println("[SCHED] simulation stopped")
}
