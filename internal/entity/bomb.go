// Package entity implements the per-entity state and behaviour for bombs,
// explosions, mobs, and players: timers, movement integration, the mob AI
// state machine, and the player session FSM. Struct layout and the
// iota-enumerated state machines follow the teacher's internal/game/player.go
// (PlayerState iota + JSON-tagged struct) and internal/game/effects.go
// (apply-on-add / undo-on-expire timed effect idiom, generalised here from
// purely visual effects to gameplay effects per the design note in spec.md §9).
package entity

import (
	"time"

	"bomb-arena/internal/geom"
	"bomb-arena/internal/ids"
)

// BombTimerDefault is the time from placement to detonation for a bomb whose
// owner has not had their fuse lengthened or shortened by a powerup.
const BombTimerDefault = 3 * time.Second

// Bomb is a placed, ticking bomb.
type Bomb struct {
	ID         ids.BombID
	Owner      ids.PlayerID
	Pos        geom.MapPosition
	Range      int32
	PlacedAt   time.Time
	DetonateAt time.Time
	Terminated bool
}

// NewBomb creates a bomb that detonates after `fuse`.
func NewBomb(id ids.BombID, owner ids.PlayerID, pos geom.MapPosition, rng int32, now time.Time, fuse time.Duration) *Bomb {
	return &Bomb{
		ID:         id,
		Owner:      owner,
		Pos:        pos,
		Range:      rng,
		PlacedAt:   now,
		DetonateAt: now.Add(fuse),
	}
}

// Expired reports whether the bomb's fuse has run out.
func (b *Bomb) Expired(now time.Time) bool {
	return !b.Terminated && !now.Before(b.DetonateAt)
}
