package engine

import (
	"time"

	"bomb-arena/internal/entity"
	"bomb-arena/internal/geom"
	"bomb-arena/internal/ids"
	"bomb-arena/internal/store"
	"bomb-arena/internal/worldmap"
)

// PlaceBomb drops a bomb for an Active player at their current tile, if
// they have capacity (§4.6 "stepping on Empty cell with cur_bombs <
// max_bombs"). Returns false if the tile is not Empty or the player is at
// capacity.
func (g *Game) PlaceBomb(p *entity.Player) bool {
	if !p.CanPlaceBomb() {
		return false
	}
	tile := p.Tile(g.World.TileSize)
	if c, ok := g.World.GetCell(tile); !ok || c != worldmap.Empty {
		return false
	}

	b := entity.NewBomb(0, p.ID, tile, p.Range, time.Now(), p.BombFuse)
	raw := g.Bombs.Insert(b)
	b.ID = ids.BombID(raw)
	g.World.PlaceBomb(tile, uint64(raw))
	p.CurBombs++

	g.PropagateDanger(b.ID)
	return true
}

// PropagateDanger implements §4.4's danger-propagation algorithm: walk the
// four rays from the new bomb, following into any chained Bomb cells, and
// mark every cell the eventual combined blast will reach with the earliest
// detonation time across the whole chain.
func (g *Game) PropagateDanger(id ids.BombID) {
	root, ok := g.Bombs.Get(store.ID(id))
	if !ok {
		return
	}

	affected := map[geom.MapPosition]bool{root.Pos: true}
	visited := map[ids.BombID]bool{id: true}
	queue := []ids.BombID{id}
	earliest := root.DetonateAt

	for len(queue) > 0 {
		curID := queue[0]
		queue = queue[1:]

		cur, ok := g.Bombs.Get(store.ID(curID))
		if !ok {
			continue
		}
		if cur.DetonateAt.Before(earliest) {
			earliest = cur.DetonateAt
		}
		affected[cur.Pos] = true

		for _, dir := range rayDirections {
			for step := int32(1); step <= cur.Range; step++ {
				p := cur.Pos.Add(dir.Scale(step))
				c, okc := g.World.GetCell(p)
				if !okc || c == worldmap.Wall || c == worldmap.Mystery {
					break
				}
				if c == worldmap.Bomb {
					if bid, isBomb := g.World.Ref(p).BombID(); isBomb {
						chained := ids.BombID(bid)
						if !visited[chained] {
							visited[chained] = true
							queue = append(queue, chained)
						}
					}
					break
				}
				affected[p] = true
			}
		}
	}

	for p := range affected {
		g.World.SetMobData(p, earliest)
	}
}

// ageBombs detonates every bomb whose fuse has run out (§4.7 step 4).
func (g *Game) ageBombs(now time.Time) {
	for _, raw := range g.Bombs.IDs() {
		b, ok := g.Bombs.Get(raw)
		if !ok || b.Terminated {
			continue
		}
		if b.Expired(now) {
			g.Detonate(ids.BombID(raw), now)
		}
	}
}

// Detonate implements §4.4's detonation algorithm: clear the bomb's own
// cell, walk each ray placing explosions, resolving items/mysteries, and
// chaining into any bomb struck along the way.
func (g *Game) Detonate(id ids.BombID, now time.Time) {
	queue := []ids.BombID{id}
	processed := map[ids.BombID]bool{}

	for len(queue) > 0 {
		curID := queue[0]
		queue = queue[1:]
		if processed[curID] {
			continue
		}
		processed[curID] = true

		b, ok := g.Bombs.Get(store.ID(curID))
		if !ok || b.Terminated {
			continue
		}
		b.Terminated = true

		g.World.ClearToEmpty(b.Pos)
		if owner, ok := g.Players[b.Owner]; ok && owner.CurBombs > 0 {
			owner.CurBombs--
		}
		g.spawnExplosion(b.Pos, b.Owner, now, false)

		for _, dir := range rayDirections {
			g.walkDetonationRay(b, dir, now, &queue)
		}
	}
}

func (g *Game) walkDetonationRay(b *entity.Bomb, dir geom.PositionOffset, now time.Time, queue *[]ids.BombID) {
	for step := int32(1); step <= b.Range; step++ {
		p := b.Pos.Add(dir.Scale(step))
		c, ok := g.World.GetCell(p)
		if !ok || c == worldmap.Wall {
			return
		}
		switch c {
		case worldmap.Mystery:
			g.resolveMysteryDrop(p, b.Owner, now)
			return
		case worldmap.ItemBomb, worldmap.ItemRange, worldmap.ItemRandom:
			g.World.ClearToEmpty(p)
			g.spawnExplosion(p, b.Owner, now, false)
			return
		case worldmap.Bomb:
			if bid, isBomb := g.World.Ref(p).BombID(); isBomb {
				*queue = append(*queue, ids.BombID(bid))
			}
			return
		default:
			g.spawnExplosion(p, b.Owner, now, false)
		}
	}
}

// resolveMysteryDrop rolls §4.4's item-drop table for a detonated Mystery
// cell, then places an explosion there and stops that ray.
func (g *Game) resolveMysteryDrop(p geom.MapPosition, owner ids.PlayerID, now time.Time) {
	r := g.rng.Float64()
	var next worldmap.CellType
	switch {
	case r > 0.9:
		next = worldmap.ItemBomb
	case r > 0.8:
		next = worldmap.ItemRange
	case r > 0.5:
		next = worldmap.ItemRandom
	default:
		next = worldmap.Empty
	}
	g.World.SetCell(p, next)
	g.spawnExplosion(p, owner, now, false)
}

// spawnExplosion inserts a new explosion (harmful unless cosmetic) and
// places it in the world's internal index at p.
func (g *Game) spawnExplosion(p geom.MapPosition, owner ids.PlayerID, now time.Time, cosmetic bool) ids.ExplosionID {
	var e *entity.Explosion
	if cosmetic {
		e = entity.NewCosmeticExplosion(0, p, now)
	} else {
		e = entity.NewExplosion(0, p, owner, now)
	}
	raw := g.Explosions.Insert(e)
	e.ID = ids.ExplosionID(raw)
	g.World.PlaceExplosion(p, uint64(raw))
	return e.ID
}

// ageExplosions expires every explosion past its lifetime (§4.7 step 4,
// second half): clears the internal index, and clears the cell's danger
// mark if nothing newer has superseded it.
func (g *Game) ageExplosions(now time.Time) {
	for _, raw := range g.Explosions.IDs() {
		e, ok := g.Explosions.Get(raw)
		if !ok {
			continue
		}
		if !e.Expired(now) {
			continue
		}
		g.World.ClearRef(e.Pos)
		g.World.ClearMobDataIfAtLeast(e.Pos, e.CreatedAt)
		g.Explosions.Delete(raw)
	}
}
