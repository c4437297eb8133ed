// Package engine ties the world, the entity stores, and per-connection
// session state into one tick-driven simulation. It generalises the
// teacher's internal/game.Engine — a single mutex guarding a map of players,
// driven by a time.Ticker loop — from a free-for-all combat arena to a
// grid bombing arena: the mutex and tick-loop shape are kept, the player
// map grows sibling stores for bombs, explosions, and mobs, and combat
// methods are replaced with bomb propagation, mob AI, and pickup
// resolution.
package engine

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"bomb-arena/internal/config"
	"bomb-arena/internal/entity"
	"bomb-arena/internal/geom"
	"bomb-arena/internal/ids"
	"bomb-arena/internal/pathfind"
	"bomb-arena/internal/store"
	"bomb-arena/internal/worldmap"
)

// rayDirections is the four cardinal directions bomb propagation and
// detonation walk, in the fixed order up/down/left/right.
var rayDirections = [4]geom.PositionOffset{
	{X: 0, Y: -1},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
	{X: 1, Y: 0},
}

// blockRefillAvoidRange is the tile distance from any live player or mob
// inside which a refilled block is never placed (§4.7 step 8).
const blockRefillAvoidRange = 4

// Game is the authoritative simulation: one instance per running server.
type Game struct {
	mu sync.RWMutex

	World      *worldmap.World
	Bombs      *store.Store[*entity.Bomb]
	Explosions *store.Store[*entity.Explosion]
	Mobs       *store.Store[*entity.Mob]
	Players    map[ids.PlayerID]*entity.Player

	cfg config.AppConfig
	rng *rand.Rand

	nextPlayerID uint64
	tickCount    int64

	nextMobSpawnDelay time.Duration
	mobSpawnElapsed   time.Duration
	blockRefillElapsed time.Duration
	fpsLogElapsed      time.Duration
	fpsTickAccum       int

	conns         map[ids.PlayerID]*connection
	powerupEvents map[ids.PlayerID][]string
}

// NewGame constructs a fresh simulation from cfg, seeding the world with its
// initial mystery-block and spawner layout.
func NewGame(cfg config.AppConfig) *Game {
	seed := time.Now().UnixNano()
	rng := rand.New(rand.NewSource(seed))

	w := worldmap.NewWorld(cfg.World.Width, cfg.World.Height, cfg.World.TileSize, cfg.World.ZoneSize, rng)
	seedInitialBlocks(w, rng)
	seedSpawners(w, rng)

	g := &Game{
		World:      w,
		Bombs:      store.New[*entity.Bomb](),
		Explosions: store.New[*entity.Explosion](),
		Mobs:       store.New[*entity.Mob](),
		Players:    make(map[ids.PlayerID]*entity.Player),
		cfg:        cfg,
		rng:        rng,

		conns:         make(map[ids.PlayerID]*connection),
		powerupEvents: make(map[ids.PlayerID][]string),
	}
	g.nextMobSpawnDelay = randomMobSpawnDelay(rng, cfg.Sim)
	return g
}

func randomMobSpawnDelay(rng *rand.Rand, sim config.SimConfig) time.Duration {
	lo, hi := sim.MobSpawnDelayMinSeconds, sim.MobSpawnDelayMaxSeconds
	secs := lo + rng.Float64()*(hi-lo)
	return time.Duration(secs * float64(time.Second))
}

// seedInitialBlocks scatters Mystery blocks across empty interior cells up
// to each zone's quota.
func seedInitialBlocks(w *worldmap.World, rng *rand.Rand) {
	for y := int32(1); y < w.Height-1; y++ {
		for x := int32(1); x < w.Width-1; x++ {
			p := geom.MapPosition{X: x, Y: y}
			c, ok := w.GetCell(p)
			if !ok || c != worldmap.Empty {
				continue
			}
			if w.Zones().QuotaReached(p) {
				continue
			}
			if rng.Float64() < 0.35 {
				w.SetCell(p, worldmap.Mystery)
			}
		}
	}
}

// seedSpawners places a handful of MobSpawner cells across the map, one per
// roughly 200 tiles.
func seedSpawners(w *worldmap.World, rng *rand.Rand) {
	count := int(w.Width*w.Height) / 200
	if count < 1 {
		count = 1
	}
	for i := 0; i < count; i++ {
		p := w.GetSpawnPoint()
		w.SetCell(p, worldmap.MobSpawner)
	}
}

// canPassFn returns a movement predicate: Wall and Mystery always block;
// Bomb blocks unless allowBombs (the walk-through-bombs powerup, or "mobs
// never pass bombs" per §4.3).
func (g *Game) canPassFn(allowBombs bool) func(geom.MapPosition) bool {
	return func(p geom.MapPosition) bool {
		c, ok := g.World.GetCell(p)
		if !ok {
			return false
		}
		switch c {
		case worldmap.Wall, worldmap.Mystery:
			return false
		case worldmap.Bomb:
			return allowBombs
		default:
			return true
		}
	}
}

// JoinPlayer admits a newly connected player by issuing the next PlayerId.
// It creates no player state and picks no spawn point; both happen on
// receipt of JOINGAME (§4.6).
func (g *Game) JoinPlayer() ids.PlayerID {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.nextPlayerID++
	id := ids.PlayerID(g.nextPlayerID)
	return id
}

// RemovePlayer deletes a player's state, e.g. once Dead (§4.7 step 10).
func (g *Game) RemovePlayer(id ids.PlayerID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.Players, id)
}

// GetPlayer resolves a player by ID.
func (g *Game) GetPlayer(id ids.PlayerID) (*entity.Player, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	p, ok := g.Players[id]
	return p, ok
}

// ScoreEntry is one player's scoreboard-relevant state, decoupled from
// entity.Player so callers outside the engine (the leaderboard) never need
// to import it.
type ScoreEntry struct {
	ID    uint64
	Name  string
	Score int32
	Kills int32
}

// Scoreboard snapshots every connected player's current score for the
// leaderboard to ingest.
func (g *Game) Scoreboard() []ScoreEntry {
	out := make([]ScoreEntry, 0, len(g.Players))
	for _, p := range g.Players {
		out = append(out, ScoreEntry{ID: uint64(p.ID), Name: p.Name, Score: p.Score, Kills: p.Kills})
	}
	return out
}

// Populations reports the current player/mob/bomb counts for metrics.
func (g *Game) Populations() (players, mobs, bombs int) {
	return len(g.Players), g.Mobs.Len(), g.Bombs.Len()
}

// Lock and Unlock expose the engine's mutex to the scheduler's tick loop,
// which owns the single writer that steps the whole simulation.
func (g *Game) Lock()   { g.mu.Lock() }
func (g *Game) Unlock() { g.mu.Unlock() }

// Tick advances the simulation by one frame of dt seconds (§4.7 steps
// 4-8, 10). The caller must hold g's lock (the scheduler does, for the
// duration of a whole tick including input ingestion and fan-out).
func (g *Game) Tick(dt float64, now time.Time) {
	g.tickCount++

	g.ageExplosions(now)
	g.ageBombs(now)
	g.advanceMobs(dt, now)
	g.advancePlayers(dt, now)

	g.mobSpawnElapsed += time.Duration(dt * float64(time.Second))
	if g.mobSpawnElapsed >= g.nextMobSpawnDelay {
		g.mobSpawnElapsed = 0
		g.nextMobSpawnDelay = randomMobSpawnDelay(g.rng, g.cfg.Sim)
		g.trySpawnMob(now)
	}

	refillInterval := time.Duration(g.cfg.Sim.BlockRefillInterval) * time.Second
	g.blockRefillElapsed += time.Duration(dt * float64(time.Second))
	if g.blockRefillElapsed >= refillInterval {
		g.blockRefillElapsed = 0
		g.tryRefillBlock()
	}

	fpsInterval := time.Duration(g.cfg.Sim.FPSLogInterval) * time.Second
	g.fpsLogElapsed += time.Duration(dt * float64(time.Second))
	g.fpsTickAccum++
	if g.fpsLogElapsed >= fpsInterval {
		fps := float64(g.fpsTickAccum) / g.fpsLogElapsed.Seconds()
		log.Printf("[FPS] %.1f ticks/s over last %.0fs (players=%d mobs=%d bombs=%d)",
			fps, g.fpsLogElapsed.Seconds(), len(g.Players), g.Mobs.Len(), g.Bombs.Len())
		g.fpsLogElapsed = 0
		g.fpsTickAccum = 0
	}

	g.removeDeadPlayers()
}

// removeDeadPlayers drops every player in StateDead, per §4.7 step 10 (the
// transport layer is expected to have already signalled disconnect on the
// player's outbound queue before this runs).
func (g *Game) removeDeadPlayers() {
	for id, p := range g.Players {
		if p.State == entity.StateDead {
			delete(g.Players, id)
		}
	}
}

// trySpawnMob attempts §4.7 step 7: spawn one mob at a random spawner whose
// vicinity contains no existing mob, if under the population cap.
func (g *Game) trySpawnMob(now time.Time) {
	capacity := int(float64(g.World.Width*g.World.Height) * entity.MobSpawnDensityCap)
	if g.Mobs.Len() >= capacity {
		return
	}

	spawner, ok := g.findFreeSpawner()
	if !ok {
		return
	}

	m := entity.NewMob(0, spawner.ToPixelCenter(g.World.TileSize), spawner, g.rng)
	raw := g.Mobs.Insert(m)
	m.ID = ids.MobID(raw)
}

func (g *Game) findFreeSpawner() (geom.MapPosition, bool) {
	var candidates []geom.MapPosition
	for y := int32(0); y < g.World.Height; y++ {
		for x := int32(0); x < g.World.Width; x++ {
			p := geom.MapPosition{X: x, Y: y}
			if c, ok := g.World.GetCell(p); ok && c == worldmap.MobSpawner {
				candidates = append(candidates, p)
			}
		}
	}
	if len(candidates) == 0 {
		return geom.MapPosition{}, false
	}
	g.rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
	for _, p := range candidates {
		if !g.mobWithinRange(p, entity.MobSpawnVicinityRange) {
			return p, true
		}
	}
	return geom.MapPosition{}, false
}

func (g *Game) mobWithinRange(p geom.MapPosition, r int32) bool {
	found := false
	for _, raw := range g.Mobs.IDs() {
		m, ok := g.Mobs.Get(raw)
		if !ok {
			continue
		}
		tile := m.Pos.ToMapPosition(g.World.TileSize)
		if tile.Manhattan(p) <= r {
			found = true
			break
		}
	}
	return found
}

// tryRefillBlock implements §4.7 step 8: populate one new Mystery block in
// the zone with the largest deficit, avoiding tiles within 4 of any live
// player or mob.
func (g *Game) tryRefillBlock() {
	ox, oy, w, h, ok := g.World.Zones().RefillCandidate()
	if !ok {
		return
	}
	for y := oy; y < oy+h; y++ {
		for x := ox; x < ox+w; x++ {
			p := geom.MapPosition{X: x, Y: y}
			c, okc := g.World.GetCell(p)
			if !okc || c != worldmap.Empty {
				continue
			}
			if g.nearAnyLiveEntity(p, blockRefillAvoidRange) {
				continue
			}
			g.World.SetCell(p, worldmap.Mystery)
			return
		}
	}
}

func (g *Game) nearAnyLiveEntity(p geom.MapPosition, r int32) bool {
	for _, pl := range g.Players {
		if pl.State != entity.StateActive {
			continue
		}
		if pl.Tile(g.World.TileSize).Manhattan(p) <= r {
			return true
		}
	}
	for _, raw := range g.Mobs.IDs() {
		m, ok := g.Mobs.Get(raw)
		if !ok {
			continue
		}
		if m.Pos.ToMapPosition(g.World.TileSize).Manhattan(p) <= r {
			return true
		}
	}
	return false
}

// mobCanPass is the shared pathfind.CanPass predicate for every mob: walls,
// mysteries, and bombs all block.
func (g *Game) mobCanPass() pathfind.CanPass {
	return pathfind.CanPass(g.canPassFn(false))
}

// mobDangerAt adapts the world's danger map to pathfind.DangerAt.
func (g *Game) mobDangerAt() pathfind.DangerAt {
	return pathfind.DangerAt(g.World.GetMobData)
}
