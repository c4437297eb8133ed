package entity

import (
	"strings"
	"time"

	"bomb-arena/internal/geom"
	"bomb-arena/internal/ids"
)

// PlayerState is a player's session lifecycle stage (§4.6).
type PlayerState int

const (
	StateJoining PlayerState = iota
	StateActive
	StateDying
	StateDead
)

// JoinInvincibility is the grace period granted on spawn.
const JoinInvincibility = 5 * time.Second

// DyingDuration is the time spent in StateDying before StateDead.
const DyingDuration = 2 * time.Second

// MaxNameLength truncates sanitized player names.
const MaxNameLength = 30

// nameAllowedPunctuation is the small punctuation allowlist kept alongside
// word characters when sanitizing a JOINGAME name.
const nameAllowedPunctuation = ",._:'!^*()=-"

// SanitizeName strips everything but word characters and the allowlisted
// punctuation, then truncates to MaxNameLength.
func SanitizeName(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		isWord := r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if isWord || strings.ContainsRune(nameAllowedPunctuation, r) {
			b.WriteRune(r)
		}
		if b.Len() >= MaxNameLength {
			break
		}
	}
	return b.String()
}

// Avatars is the fixed pool a newly spawned player's avatar is drawn from.
var Avatars = [...]string{"p1", "p2", "p3", "p4"}

// Action is one inbound movement/fire command (§6 ACTION payload).
type Action struct {
	X, Y int32 // each in {-1,0,1}
	Fire bool
}

// Player is one connected participant's simulation state.
type Player struct {
	ID    ids.PlayerID
	Name  string
	State PlayerState

	Pos   geom.PixelPosition
	Speed float64

	MaxBombs         int32
	CurBombs         int32
	Range            int32
	WalkThroughBombs bool
	BombFuse         time.Duration

	Avatar string
	Score  int32
	Kills  int32

	Effects         []Effect
	effectScratch   []Effect
	invincibleCount int

	firePrevHeld bool

	DyingAt    time.Time
	DeadReason string
}

// NewPlayer constructs a freshly joined, Active player at spawn with the
// standard starting loadout and join invincibility applied.
func NewPlayer(id ids.PlayerID, name string, spawn geom.PixelPosition, avatar string, now time.Time) *Player {
	p := &Player{
		ID:       id,
		Name:     name,
		State:    StateActive,
		Pos:      spawn,
		Speed:    MinSpeed,
		MaxBombs: 1,
		Range:    2,
		BombFuse: BombTimerDefault,
		Avatar:   avatar,
	}
	AddEffect(p, Effect{Kind: EffectInvincible, ExpiresAt: now.Add(JoinInvincibility)})
	return p
}

// Invincible reports whether p currently has any active invincibility effect.
func (p *Player) Invincible() bool { return p.invincibleCount > 0 }

// CanPlaceBomb reports whether p may place another bomb right now.
func (p *Player) CanPlaceBomb() bool {
	return p.State == StateActive && p.CurBombs < p.MaxBombs
}

// ApplyAction integrates one inbound Action for an Active player, returning
// whether this action should place a bomb (fire edge-triggered: only the
// transition from not-fire to fire counts, cleared until the client sends a
// subsequent action without fire).
func (p *Player) ApplyAction(a Action, dt float64, tileSize float64, canPass CanPass) (placeBomb bool) {
	if p.State != StateActive {
		return false
	}
	p.Pos = IntegrateGridSnap(p.Pos, float64(a.X), float64(a.Y), p.Speed, dt, tileSize, canPass)

	if a.Fire && !p.firePrevHeld {
		placeBomb = true
	}
	p.firePrevHeld = a.Fire
	return placeBomb
}

// Tile returns the tile currently occupied by p.
func (p *Player) Tile(tileSize float64) geom.MapPosition {
	return p.Pos.ToMapPosition(tileSize)
}

// Teleport snaps p to the centre of the given tile (used when integration
// leaves a player standing on a Wall cell).
func (p *Player) Teleport(tile geom.MapPosition, tileSize float64) {
	p.Pos = tile.ToPixelCenter(tileSize)
}

// BeginDying transitions an Active player into the Dying state with the
// given human-readable reason (§8 scenario 6 reasons are formatted exactly
// as specified by callers).
func (p *Player) BeginDying(reason string, now time.Time) {
	if p.State != StateActive {
		return
	}
	p.State = StateDying
	p.DyingAt = now
	p.DeadReason = reason
}

// AdvanceDying moves a Dying player to Dead once DyingDuration has elapsed.
func (p *Player) AdvanceDying(now time.Time) {
	if p.State == StateDying && now.Sub(p.DyingAt) >= DyingDuration {
		p.State = StateDead
	}
}

// PickupBomb applies the ItemBomb powerup.
func (p *Player) PickupBomb() { p.MaxBombs++ }

// PickupRange applies the ItemRange powerup.
func (p *Player) PickupRange() { p.Range++ }

// AwardScore adds delta (which may be negative) to p's running score.
func (p *Player) AwardScore(delta int32) { p.Score += delta }
