// Package ids defines the opaque per-kind identifiers used throughout the
// simulation. Each kind is a distinct Go type so a BombID can never be
// passed where a MobID is expected, even though both are backed by the same
// monotonic counter shape. Zero is reserved as "none" for every kind.
package ids

import "bomb-arena/internal/store"

// PlayerID identifies a connected player.
type PlayerID store.ID

// BombID identifies a live or historical bomb.
type BombID store.ID

// ExplosionID identifies a live explosion (harmful or cosmetic).
type ExplosionID store.ID

// MobID identifies a mob.
type MobID store.ID

// None is the reserved "no entity" value shared by every ID kind.
const None = 0

// IsNone reports whether id is the reserved zero value.
func (id PlayerID) IsNone() bool { return id == 0 }

// IsNone reports whether id is the reserved zero value.
func (id BombID) IsNone() bool { return id == 0 }

// IsNone reports whether id is the reserved zero value.
func (id ExplosionID) IsNone() bool { return id == 0 }

// IsNone reports whether id is the reserved zero value.
func (id MobID) IsNone() bool { return id == 0 }
