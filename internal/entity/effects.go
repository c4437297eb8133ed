package entity

import "time"

// EffectKind enumerates the player status-effect types a powerup can apply.
type EffectKind int

const (
	EffectSpeedDelta EffectKind = iota
	EffectInvincible
)

// SpeedBoostDelta / SpeedSlowDelta are the pixel/s deltas applied by the two
// speed-affecting powerup outcomes in the item-random table (§4.6).
const (
	SpeedBoostDelta = 50.0
	SpeedSlowDelta  = -50.0
)

// Effect is one entry in a player's ordered effects list. It is applied
// immediately when added (speed delta, or setting the invincible flag) and
// undone when it expires — never relied on for anything beyond that single
// apply/undo pair, so the list can be filtered freely each tick without any
// special "currently applying" bookkeeping.
type Effect struct {
	Kind      EffectKind
	ExpiresAt time.Time
	Delta     float64 // meaningful for EffectSpeedDelta only
}

// Apply performs the immediate, on-add effect of e against player p.
func (e Effect) Apply(p *Player) {
	switch e.Kind {
	case EffectSpeedDelta:
		p.Speed = clampSpeed(p.Speed + e.Delta)
	case EffectInvincible:
		p.invincibleCount++
	}
}

// Undo reverses the effect of e against player p when it expires.
func (e Effect) Undo(p *Player) {
	switch e.Kind {
	case EffectSpeedDelta:
		p.Speed = clampSpeed(p.Speed - e.Delta)
	case EffectInvincible:
		if p.invincibleCount > 0 {
			p.invincibleCount--
		}
	}
}

// TickEffects filters p.Effects down to the still-live entries, calling
// Undo on every entry that expired this tick. Builds into a scratch slice
// rather than mutating while ranging, per the §9 design note.
func TickEffects(p *Player, now time.Time) {
	live := p.effectScratch[:0]
	for _, e := range p.Effects {
		if now.Before(e.ExpiresAt) {
			live = append(live, e)
			continue
		}
		e.Undo(p)
	}
	p.effectScratch = p.Effects[:0]
	p.Effects = live
}

// AddEffect appends a new effect to p and applies it immediately. A speed
// effect records the delta actually applied after clamping, which is what
// Undo later subtracts.
func AddEffect(p *Player, e Effect) {
	before := p.Speed
	e.Apply(p)
	if e.Kind == EffectSpeedDelta {
		e.Delta = p.Speed - before
	}
	p.Effects = append(p.Effects, e)
}
