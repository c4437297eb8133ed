package engine

import (
	"time"

	"bomb-arena/internal/entity"
	"bomb-arena/internal/geom"
	"bomb-arena/internal/ids"
	"bomb-arena/internal/pathfind"
	"bomb-arena/internal/store"
	"bomb-arena/internal/worldmap"
)

// mobPathfindRangeMultiplier is §4.5's "range*2" step budget used for the
// NearbyCell pathfind call.
const mobPathfindRangeMultiplier = 2

// mobNearbyCellRadius bounds the random offset chosen for a fresh
// NearbyCell target.
const mobNearbyCellRadius = 8

// mobPlayerAcceptRange is the tile radius within which a NearbyPlayer
// target is accepted (§4.5: "only accepted if the player is within range
// tiles").
const mobPlayerAcceptRange = 10

// mobBaseRange is the per-tick pathfind step budget shared by every mode
// that calls into the pathfinder ("range" in §4.5's "range*2" and
// path_find_nearest_safe budgets).
const mobBaseRange int32 = 8

// advanceMobs drives every active mob through one tick of §4.5.
func (g *Game) advanceMobs(dt float64, now time.Time) {
	canPass := g.mobCanPass()
	dangerAt := g.mobDangerAt()

	for _, raw := range g.Mobs.IDs() {
		m, ok := g.Mobs.Get(raw)
		if !ok {
			continue
		}
		if !m.Active {
			g.Mobs.Delete(raw)
			continue
		}
		g.updateMob(m, canPass, dangerAt, dt, now)
	}
}

func (g *Game) updateMob(m *entity.Mob, canPass pathfind.CanPass, dangerAt pathfind.DangerAt, dt float64, now time.Time) {
	tile := m.Pos.ToMapPosition(g.World.TileSize)

	if c, ok := g.World.GetCell(tile); ok && c == worldmap.Wall {
		blank := g.World.FindNearestBlank(tile)
		m.Pos = blank.ToPixelCenter(g.World.TileSize)
		tile = blank
	}

	_, inDangerNow := g.World.GetMobData(tile)
	switch {
	case inDangerNow && !m.InDanger:
		m.InDanger = true
		if m.Smart {
			g.rerollTarget(m, tile, true)
		}
	case !inDangerNow && m.InDanger:
		m.InDanger = false
		g.rerollTarget(m, tile, false)
	}

	dir := g.mobAction(m, tile, canPass, dangerAt)

	m.OldPosition = tile
	m.Pos = entity.IntegrateGridSnap(m.Pos, float64(dir.X), float64(dir.Y), m.Speed, dt, g.World.TileSize, entity.CanPass(g.canPassFn(false)))

	m.TargetRemaining -= dt
	if m.TargetRemaining <= 0 {
		g.rerollTarget(m, m.Pos.ToMapPosition(g.World.TileSize), m.InDanger)
	}

	if harmed := g.harmfulExplosionAt(m.Pos, now); harmed.IsNone() == false {
		g.killMob(m, harmed)
	}
}

// rerollTarget implements "choose_new_target": picks a new mode (forced to
// DangerAvoidance if inDanger), resets the remaining-time budget, and
// resolves a concrete target for the modes that need world/player context.
func (g *Game) rerollTarget(m *entity.Mob, tile geom.MapPosition, inDanger bool) {
	m.TargetMode = entity.RandomMode(g.rng, inDanger)
	m.TargetRemaining = entity.RandomRemaining(g.rng, m.TargetMode)
	m.TargetPlayer = 0

	switch m.TargetMode {
	case entity.ModeNearbyCell:
		dx := int32(g.rng.Intn(2*mobNearbyCellRadius+1)) - mobNearbyCellRadius
		dy := int32(g.rng.Intn(2*mobNearbyCellRadius+1)) - mobNearbyCellRadius
		m.TargetPosition = geom.MapPosition{X: tile.X + dx, Y: tile.Y + dy}
	case entity.ModeNearbyPlayer:
		if target, ok := g.nearestPlayer(tile, mobPlayerAcceptRange); ok {
			m.TargetPlayer = target
		}
	case entity.ModeDangerAvoidance:
		m.TargetPosition = g.pathfindNearestSafe(tile)
	default:
		m.TargetPosition = m.SpawnerPos
		m.TargetDir = entity.RotateClockwise(geom.PositionOffset{})
	}
}

func (g *Game) nearestPlayer(tile geom.MapPosition, maxRange int32) (ids.PlayerID, bool) {
	best := ids.PlayerID(0)
	bestDist := maxRange + 1
	for id, p := range g.Players {
		if p.State != entity.StateActive {
			continue
		}
		d := p.Tile(g.World.TileSize).Manhattan(tile)
		if d <= maxRange && d < bestDist {
			bestDist = d
			best = id
		}
	}
	return best, !best.IsNone()
}

func (g *Game) pathfindNearestSafe(tile geom.MapPosition) geom.MapPosition {
	return pathfind.PathFindNearestSafe(tile, mobBaseRange*mobPathfindRangeMultiplier, g.mobCanPass(), g.mobDangerAt())
}

// mobAction resolves the §4.5 step-3 action table into a single-step offset
// for this tick.
func (g *Game) mobAction(m *entity.Mob, tile geom.MapPosition, canPass pathfind.CanPass, dangerAt pathfind.DangerAt) geom.PositionOffset {
	switch m.TargetMode {
	case entity.ModeNearbyCell:
		if tile == m.TargetPosition {
			g.rerollTarget(m, tile, false)
			return geom.PositionOffset{}
		}
		off, ok := pathfind.PathFind(tile, m.TargetPosition, mobBaseRange*mobPathfindRangeMultiplier, canPass)
		if !ok {
			g.rerollTarget(m, tile, false)
			return geom.PositionOffset{}
		}
		return off

	case entity.ModeNearbyPlayer:
		target, ok := g.Players[m.TargetPlayer]
		if !ok || target.State != entity.StateActive {
			g.rerollTarget(m, tile, false)
			return geom.PositionOffset{}
		}
		off, ok := pathfind.PathFind(tile, target.Tile(g.World.TileSize), mobBaseRange*mobPathfindRangeMultiplier, canPass)
		if !ok {
			return geom.PositionOffset{}
		}
		return off

	case entity.ModeClockwise:
		if canPass(tile.Add(m.TargetDir)) {
			return m.TargetDir
		}
		m.TargetDir = entity.RotateClockwise(m.TargetDir)
		return geom.PositionOffset{}

	case entity.ModeAnticlockwise:
		if canPass(tile.Add(m.TargetDir)) {
			return m.TargetDir
		}
		m.TargetDir = entity.RotateAnticlockwise(m.TargetDir)
		return geom.PositionOffset{}

	case entity.ModeClockwiseNext:
		if tile != m.OldPosition {
			rotated := entity.RotateClockwise(m.TargetDir)
			if canPass(tile.Add(rotated)) {
				m.TargetDir = rotated
				return rotated
			}
		}
		if canPass(tile.Add(m.TargetDir)) {
			return m.TargetDir
		}
		m.TargetDir = entity.RotateClockwise(m.TargetDir)
		return geom.PositionOffset{}

	case entity.ModeAnticlockwiseNext:
		if tile != m.OldPosition {
			rotated := entity.RotateAnticlockwise(m.TargetDir)
			if canPass(tile.Add(rotated)) {
				m.TargetDir = rotated
				return rotated
			}
		}
		if canPass(tile.Add(m.TargetDir)) {
			return m.TargetDir
		}
		m.TargetDir = entity.RotateAnticlockwise(m.TargetDir)
		return geom.PositionOffset{}

	case entity.ModeDangerAvoidance:
		if _, unsafe := dangerAt(m.TargetPosition); unsafe {
			m.TargetPosition = g.pathfindNearestSafe(tile)
		}
		off, ok := pathfind.PathFind(tile, m.TargetPosition, mobBaseRange*mobPathfindRangeMultiplier, canPass)
		if !ok {
			return geom.PositionOffset{}
		}
		return off
	}
	return geom.PositionOffset{}
}

// harmfulExplosionAt returns the ID of a harmful explosion occupying m's
// tile, if any.
func (g *Game) harmfulExplosionAt(pos geom.PixelPosition, now time.Time) ids.ExplosionID {
	tile := pos.ToMapPosition(g.World.TileSize)
	ref := g.World.Ref(tile)
	raw, isExplosion := ref.ExplosionID()
	if !isExplosion {
		return ids.ExplosionID(0)
	}
	e, ok := g.Explosions.Get(store.ID(raw))
	if !ok || !e.Harmful(now) {
		return ids.ExplosionID(0)
	}
	return ids.ExplosionID(raw)
}

// killMob resolves a mob's death by explosion, awarding the owning player
// the kill score (§4.6 "mob kill awards +500/+2000").
func (g *Game) killMob(m *entity.Mob, explosionID ids.ExplosionID) {
	e, ok := g.Explosions.Get(store.ID(explosionID))
	if !ok {
		return
	}
	m.Touch()
	if owner, ok := g.Players[e.Owner]; ok {
		owner.AwardScore(m.KillScore())
	}
}
