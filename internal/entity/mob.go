package entity

import (
	"math/rand"

	"bomb-arena/internal/geom"
	"bomb-arena/internal/ids"
)

// TargetMode is a mob's current AI behaviour (§4.5). Values are numbered
// 0..6 to match the wire encoding.
type TargetMode int

const (
	ModeNearbyCell TargetMode = iota
	ModeNearbyPlayer
	ModeClockwise
	ModeAnticlockwise
	ModeClockwiseNext
	ModeAnticlockwiseNext
	ModeDangerAvoidance
)

// SmartMobChance is the probability a newly spawned mob gets danger-avoidance AI.
const SmartMobChance = 0.3

// MobSpeedDefault is the baseline mob movement speed in pixels/second.
const MobSpeedDefault = 80.0

// MobSpawnDensityCap bounds the mob population at 0.4 per map tile.
const MobSpawnDensityCap = 0.4

// MobSpawnVicinityRange is the range within which an existing mob blocks a
// fresh spawn at the same spawner.
const MobSpawnVicinityRange = 3

// Mob is a hostile, non-player entity spawned from a MobSpawner cell.
type Mob struct {
	ID     ids.MobID
	Pos    geom.PixelPosition
	Speed  float64
	Smart  bool
	Active bool

	SpawnerPos geom.MapPosition

	TargetMode      TargetMode
	TargetPosition  geom.MapPosition
	TargetPlayer    ids.PlayerID
	TargetDir       geom.PositionOffset
	TargetRemaining float64 // seconds

	InDanger    bool
	OldPosition geom.MapPosition
}

// NewMob spawns a mob at pos, home-anchored at spawnerPos, rolling the
// smart-mob chance. TargetRemaining is left at zero so the engine's first
// tick immediately re-rolls a real target (§4.5 "at <= 0 re-roll"), since
// picking a meaningful NearbyCell/NearbyPlayer target needs world and
// player context this package does not have.
func NewMob(id ids.MobID, pos geom.PixelPosition, spawnerPos geom.MapPosition, rng *rand.Rand) *Mob {
	return &Mob{
		ID:             id,
		Pos:            pos,
		Speed:          MobSpeedDefault,
		Smart:          rng.Float64() < SmartMobChance,
		Active:         true,
		SpawnerPos:     spawnerPos,
		TargetMode:     ModeNearbyCell,
		TargetPosition: spawnerPos,
	}
}

// Touch applies a harmful explosion's effect to the mob: it dies.
func (m *Mob) Touch() {
	m.Active = false
}

// KillScore returns the score award for killing this mob (§4.6: smart mobs
// are worth more).
func (m *Mob) KillScore() int32 {
	if m.Smart {
		return 2000
	}
	return 500
}
