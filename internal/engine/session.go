// Session handling: turning raw inbound frames into simulation state changes
// (§4.6). Generalises the teacher's internal/game/engine.go connection
// bookkeeping (a per-player channel pair guarded by the same mutex as the
// tick loop) from free-for-all combat messages to JOINGAME/ACTION and the
// bomb-arena death FSM.
package engine

import (
	"encoding/json"
	"fmt"
	"time"

	"bomb-arena/internal/entity"
	"bomb-arena/internal/ids"
	"bomb-arena/internal/protocol"
	"bomb-arena/internal/store"
	"bomb-arena/internal/worldmap"
)

// playerKillScore is awarded to the owner of an explosion that kills another
// player (§4.6 scoring table).
const playerKillScore = 1000

// connection holds one player's bounded inbound/outbound queues (§5:
// capacity 30 each way). The engine drains inbox at most once per tick per
// player; the transport layer owns the reader/writer goroutines on the
// other end of both channels.
type connection struct {
	inbox  chan entity.Action
	outbox chan []byte

	// failedSends counts consecutive outbox-full drops since the last
	// successful send. sendEnvelope resets it on success; once it reaches
	// the queue's own capacity the client has been unreachable for a full
	// queue's worth of ticks and is treated as permanently gone (§5).
	failedSends int
}

// Connect registers a fresh connection's queues for a just-issued id and
// returns the receive-only end of its outbox, for the transport writer
// goroutine to drain. Inbound frames go through HandleMessage instead of a
// caller-visible channel, since decoding a JOINGAME needs the engine lock
// anyway.
func (g *Game) Connect(id ids.PlayerID) <-chan []byte {
	g.mu.Lock()
	defer g.mu.Unlock()
	c := &connection{
		inbox:  make(chan entity.Action, g.cfg.Server.QueueCapacity),
		outbox: make(chan []byte, g.cfg.Server.QueueCapacity),
	}
	g.conns[id] = c
	return c.outbox
}

// Disconnect tears down id's connection and player state, closing its
// outbox so the transport writer goroutine exits.
func (g *Game) Disconnect(id ids.PlayerID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if c, ok := g.conns[id]; ok {
		close(c.outbox)
		delete(g.conns, id)
	}
	delete(g.Players, id)
	delete(g.powerupEvents, id)
}

// HandleMessage decodes and dispatches one inbound frame for id (§4.6). A
// JOINGAME message spawns the player if they have not already joined;
// PING is accepted and ignored at any time; anything else arriving before
// that first JOINGAME is a protocol violation, and the returned error tells
// the caller (transport) to terminate the connection.
func (g *Game) HandleMessage(id ids.PlayerID, raw []byte) error {
	env, err := protocol.Decode(raw)
	if err != nil {
		return err
	}

	g.mu.RLock()
	_, spawned := g.Players[id]
	g.mu.RUnlock()

	switch env.Code {
	case protocol.TagJoinGame:
		if spawned {
			return fmt.Errorf("join game: player %d already spawned", id)
		}
		var name string
		if err := json.Unmarshal(env.Data, &name); err != nil {
			return err
		}
		p := g.handleJoinGame(id, name)
		g.mu.Lock()
		g.sendEnvelope(id, protocol.TagSpawnPlayer, g.spawnPayload(p))
		g.mu.Unlock()
		return nil

	case protocol.TagAction:
		if !spawned {
			return fmt.Errorf("action: player %d has not joined", id)
		}
		var a protocol.ActionPayload
		if err := json.Unmarshal(env.Data, &a); err != nil {
			return err
		}
		g.enqueueAction(id, entity.Action{X: a.X, Y: a.Y, Fire: a.Fire})
		return nil

	case protocol.TagPing:
		return nil

	default:
		if !spawned {
			return fmt.Errorf("unexpected message %q before join game", env.Code)
		}
		return nil
	}
}

func (g *Game) enqueueAction(id ids.PlayerID, a entity.Action) {
	g.mu.RLock()
	c, ok := g.conns[id]
	g.mu.RUnlock()
	if !ok {
		return
	}
	select {
	case c.inbox <- a:
	default:
		// queue full: drop it, the next tick's action supersedes it anyway
	}
}

// handleJoinGame transitions a joining connection into an Active player
// (§4.6 JoinGame handling): sanitize the name, place at a free spawn tile,
// pick an avatar, and grant join invincibility via entity.NewPlayer.
func (g *Game) handleJoinGame(id ids.PlayerID, rawName string) *entity.Player {
	g.mu.Lock()
	defer g.mu.Unlock()

	name := entity.SanitizeName(rawName)
	if name == "" {
		name = "player"
	}

	tile := g.World.FindNearestBlank(g.World.GetSpawnPoint())
	avatar := entity.Avatars[g.rng.Intn(len(entity.Avatars))]

	p := entity.NewPlayer(id, name, tile.ToPixelCenter(g.World.TileSize), avatar, time.Now())
	g.Players[id] = p
	return p
}

// DrainPowerups returns and clears the powerup tags recorded for id this
// tick (§6 POWERUP), for the fan-out stage to encode and send.
func (g *Game) DrainPowerups(id ids.PlayerID) []string {
	tags := g.powerupEvents[id]
	delete(g.powerupEvents, id)
	return tags
}

func (g *Game) recordPowerup(id ids.PlayerID, tag string) {
	if tag == "" {
		return
	}
	g.powerupEvents[id] = append(g.powerupEvents[id], tag)
}

// advancePlayers drives every player through one tick of §4.6: drain at
// most one queued action, integrate movement, resolve bomb placement and
// item pickups, tick timed effects, and advance the death FSM.
func (g *Game) advancePlayers(dt float64, now time.Time) {
	walkPass := entity.CanPass(g.canPassFn(false))
	bombPass := entity.CanPass(g.canPassFn(true))

	for id, p := range g.Players {
		if p.State == entity.StateDying {
			p.AdvanceDying(now)
			continue
		}
		if p.State != entity.StateActive {
			continue
		}

		pass := walkPass
		if p.WalkThroughBombs {
			pass = bombPass
		}

		if c, ok := g.conns[id]; ok {
			select {
			case a := <-c.inbox:
				if p.ApplyAction(a, dt, g.World.TileSize, pass) {
					g.PlaceBomb(p)
				}
			default:
			}
		}

		tile := p.Tile(g.World.TileSize)
		if c, ok := g.World.GetCell(tile); ok && c == worldmap.Wall {
			p.Teleport(g.World.FindNearestBlank(tile), g.World.TileSize)
		}

		entity.TickEffects(p, now)

		g.resolvePickup(p, now)
		g.resolveDeath(p, now)
	}
}

// resolvePickup applies §4.6's pickup resolution for whatever item cell p
// is currently standing on, if any, clearing the cell and recording the
// reported tag.
func (g *Game) resolvePickup(p *entity.Player, now time.Time) {
	tile := p.Tile(g.World.TileSize)
	c, ok := g.World.GetCell(tile)
	if !ok || !c.IsItem() {
		return
	}

	var tag string
	switch c {
	case worldmap.ItemBomb:
		p.PickupBomb()
		tag = tagBombUp
	case worldmap.ItemRange:
		p.PickupRange()
		tag = tagRangeUp
	case worldmap.ItemRandom:
		tag = applyItemRandom(p, g.rng, now)
	}

	g.World.SetCell(tile, worldmap.Empty)
	g.recordPowerup(p.ID, tag)
}

// resolveDeath implements §4.6's death triggers in priority order: a harmful
// explosion on p's tile, a mob within half a tile of p, or stepping onto a
// MobSpawner. None apply while p is invincible.
func (g *Game) resolveDeath(p *entity.Player, now time.Time) {
	if p.Invincible() {
		return
	}
	tile := p.Tile(g.World.TileSize)

	if harmed := g.harmfulExplosionAt(p.Pos, now); !harmed.IsNone() {
		if e, ok := g.Explosions.Get(store.ID(harmed)); ok {
			g.killPlayerByExplosion(p, e, now)
			return
		}
	}

	for _, raw := range g.Mobs.IDs() {
		m, ok := g.Mobs.Get(raw)
		if !ok || !m.Active {
			continue
		}
		if p.Pos.Distance(m.Pos) <= g.World.TileSize/2 {
			p.BeginDying("Oops! You were caught by a mob", now)
			return
		}
	}

	if c, ok := g.World.GetCell(tile); ok && c == worldmap.MobSpawner {
		p.BeginDying("Oops! You wandered into a mob spawner", now)
	}
}

// killPlayerByExplosion resolves p's death by explosion e, distinguishing
// the exact own-bomb suicide reason (§8 scenario 6) from a kill credited to
// another player, which also awards that player's score.
func (g *Game) killPlayerByExplosion(p *entity.Player, e *entity.Explosion, now time.Time) {
	if e.Owner == p.ID {
		p.BeginDying("Oops! You were killed by your own bomb", now)
		return
	}
	if owner, ok := g.Players[e.Owner]; ok {
		owner.AwardScore(playerKillScore)
		owner.Kills++
		p.BeginDying(fmt.Sprintf("Oops! You were killed by %s", owner.Name), now)
		return
	}
	p.BeginDying("Oops! You were killed by an explosion", now)
}
