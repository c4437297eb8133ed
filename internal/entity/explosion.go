package entity

import (
	"time"

	"bomb-arena/internal/geom"
	"bomb-arena/internal/ids"
)

// ExplosionLifetime is the total time an explosion occupies its cell.
const ExplosionLifetime = 500 * time.Millisecond

// ExplosionHarmfulWindow is the leading portion of an explosion's lifetime
// during which contact is lethal (§3, §9 Open Question #1: harmful applies
// identically to mob and player kills).
const ExplosionHarmfulWindow = 300 * time.Millisecond

// Explosion is a single cell of a detonation, or a visual-only death
// sentinel (Cosmetic == true, never harmful, carries no Owner attribution).
type Explosion struct {
	ID        ids.ExplosionID
	Pos       geom.MapPosition
	Owner     ids.PlayerID
	CreatedAt time.Time
	Cosmetic  bool
}

// NewExplosion creates a harmful explosion cell attributed to owner.
func NewExplosion(id ids.ExplosionID, pos geom.MapPosition, owner ids.PlayerID, now time.Time) *Explosion {
	return &Explosion{ID: id, Pos: pos, Owner: owner, CreatedAt: now}
}

// NewCosmeticExplosion creates a visual-only death sentinel; it is never
// harmful and exists only so clients render a burst at the death position.
func NewCosmeticExplosion(id ids.ExplosionID, pos geom.MapPosition, now time.Time) *Explosion {
	return &Explosion{ID: id, Pos: pos, CreatedAt: now, Cosmetic: true}
}

// Harmful reports whether the explosion is within its lethal window.
func (e *Explosion) Harmful(now time.Time) bool {
	if e.Cosmetic {
		return false
	}
	return now.Sub(e.CreatedAt) <= ExplosionHarmfulWindow
}

// Expired reports whether the explosion has lived out its full lifetime.
func (e *Explosion) Expired(now time.Time) bool {
	return now.Sub(e.CreatedAt) >= ExplosionLifetime
}
