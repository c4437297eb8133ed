package engine

import (
	"time"

	"bomb-arena/internal/entity"
	"bomb-arena/internal/ids"
	"bomb-arena/internal/protocol"
	"bomb-arena/internal/worldmap"
)

// Fanout implements §4.8: after a tick, compose and push one FRAMEDATA (and
// any pending POWERUP/DEAD) message per connected player, each filtered down
// to that player's local chunk. The caller must hold g's lock, same as Tick.
func (g *Game) Fanout(now time.Time) {
	chunkW, chunkH := worldmap.ChunkDimensions(g.cfg.Sim.ScreenWidth, g.cfg.Sim.ScreenHeight, g.World.TileSize)

	for id, p := range g.Players {
		for _, tag := range g.DrainPowerups(id) {
			g.sendEnvelope(id, protocol.TagPowerUp, tag)
		}

		if p.State == entity.StateDying || p.State == entity.StateDead {
			g.sendEnvelope(id, protocol.TagDead, p.DeadReason)
			continue
		}
		if p.State != entity.StateActive {
			continue
		}

		centre := p.Tile(g.World.TileSize)
		chunk := g.World.GetChunk(centre, chunkW, chunkH)

		frame := protocol.FrameData{
			Player: g.playerDTO(p),
			World: protocol.WorldChunk{
				TX: chunk.OriginX, TY: chunk.OriginY,
				Width: chunk.Width, Height: chunk.Height,
				Data: cellBytes(chunk.Cells),
			},
		}

		for otherID, other := range g.Players {
			if otherID == id || other.State != entity.StateActive {
				continue
			}
			if worldmap.WithinChunk(centre, other.Tile(g.World.TileSize), chunkW, chunkH) {
				frame.Players = append(frame.Players, g.playerDTO(other))
			}
		}
		for _, raw := range g.Mobs.IDs() {
			m, ok := g.Mobs.Get(raw)
			if !ok || !m.Active {
				continue
			}
			if worldmap.WithinChunk(centre, m.Pos.ToMapPosition(g.World.TileSize), chunkW, chunkH) {
				frame.Mobs = append(frame.Mobs, g.mobDTO(m))
			}
		}
		for _, raw := range g.Bombs.IDs() {
			b, ok := g.Bombs.Get(raw)
			if !ok || b.Terminated {
				continue
			}
			if worldmap.WithinChunk(centre, b.Pos, chunkW, chunkH) {
				frame.Bombs = append(frame.Bombs, g.bombDTO(b))
			}
		}
		for _, raw := range g.Explosions.IDs() {
			e, ok := g.Explosions.Get(raw)
			if !ok {
				continue
			}
			if worldmap.WithinChunk(centre, e.Pos, chunkW, chunkH) {
				frame.Explosions = append(frame.Explosions, protocol.ExplosionDTO{
					ID: int32(e.ID), X: e.Pos.X, Y: e.Pos.Y,
				})
			}
		}

		if !g.sendEnvelope(id, protocol.TagFrameData, frame) {
			p.BeginDying("Oops! Your connection dropped", now)
		}
	}
}

// spawnPayload builds the SPAWNPLAYER message's data sent once, right after
// a successful JOINGAME (§6): the two-element array [player_obj, world_meta].
func (g *Game) spawnPayload(p *entity.Player) any {
	return []any{
		g.playerDTO(p),
		protocol.WorldMeta{Width: g.World.Width, Height: g.World.Height},
	}
}

func (g *Game) playerDTO(p *entity.Player) protocol.PlayerDTO {
	var flags []string
	if p.WalkThroughBombs {
		flags = append(flags, tagWalkThrough)
	}
	if p.Invincible() {
		flags = append(flags, tagInvincible)
	}
	return protocol.PlayerDTO{
		ID: uint64(p.ID), Name: p.Name,
		X: p.Pos.X, Y: p.Pos.Y, Speed: p.Speed,
		MaxBombs: p.MaxBombs, CurBombs: p.CurBombs, Range: p.Range,
		Score: p.Score, Avatar: p.Avatar, Flags: flags,
	}
}

func (g *Game) mobDTO(m *entity.Mob) protocol.MobDTO {
	return protocol.MobDTO{ID: uint64(m.ID), X: m.Pos.X, Y: m.Pos.Y, Smart: m.Smart}
}

func (g *Game) bombDTO(b *entity.Bomb) protocol.BombDTO {
	return protocol.BombDTO{ID: uint64(b.ID), X: b.Pos.X, Y: b.Pos.Y, Range: b.Range}
}

// cellBytes copies a chunk's CellType slice into the raw bytes sent over the
// wire, one byte per cell.
func cellBytes(cells []worldmap.CellType) []byte {
	out := make([]byte, len(cells))
	for i, c := range cells {
		out[i] = byte(c)
	}
	return out
}

// sendEnvelope encodes and enqueues one message for id, never blocking the
// tick loop (§5). A full outbox just skews that client's effective frame
// rate: the frame is dropped but failedSends is counted, not reported as a
// failure, until the queue has stayed full for a full capacity's worth of
// consecutive attempts. At that point the connection is treated as
// permanently stuck and sendEnvelope reports failure so the caller can move
// the player to Dying instead of fanning out to a dead client forever.
func (g *Game) sendEnvelope(id ids.PlayerID, tag protocol.Tag, payload any) bool {
	c, ok := g.conns[id]
	if !ok {
		return true
	}
	raw, err := protocol.Encode(tag, payload)
	if err != nil {
		return true
	}
	select {
	case c.outbox <- raw:
		c.failedSends = 0
		return true
	default:
		c.failedSends++
		return c.failedSends < g.cfg.Server.QueueCapacity
	}
}
