package engine

import (
	"math/rand"
	"time"

	"bomb-arena/internal/entity"
)

// Powerup tags, exactly as enumerated in §6's POWERUP payload.
const (
	tagBombUp      = "+B"
	tagRangeUp     = "+R"
	tagRangeDown   = "-R"
	tagWalkThrough = "+TB"
	tagFuseSlow    = "SB"
	tagFuseFast    = "FB"
	tagScoreUp     = "+$"
	tagScoreDown   = "-$"
	tagSpeedUp     = ">>"
	tagSpeedDown   = "<<"
	tagInvincible  = "∞"
)

// timedEffectDuration is how long a speed/invincibility powerup outcome
// lasts before TickEffects undoes it.
const timedEffectDuration = 10 * time.Second

// fuseJitterBound bounds the randomised SB/FB fuse within [2s,4s] of
// entity.BombTimerDefault (3s) per §4.6.
const fuseJitterBound = 1 * time.Second

const (
	scoreDeltaMin = 10
	scoreDeltaMax = 90
)

// applyItemRandom rolls the ten-way ItemRandom outcome table (§4.6) against
// p and returns the tag to report to the client. The ten outcomes are: bomb
// count up, range down, walk-through-bombs on, fuse slower, fuse faster,
// score up, score down, speed up, speed down, invincibility — one of which
// (range down) deliberately differs from the direct ItemRange pickup's "+R".
func applyItemRandom(p *entity.Player, rng *rand.Rand, now time.Time) string {
	switch rng.Intn(10) {
	case 0:
		p.PickupBomb()
		return tagBombUp
	case 1:
		if p.Range > 1 {
			p.Range--
		}
		return tagRangeDown
	case 2:
		p.WalkThroughBombs = true
		return tagWalkThrough
	case 3:
		p.BombFuse = entity.BombTimerDefault + time.Duration(rng.Int63n(int64(fuseJitterBound)))
		return tagFuseSlow
	case 4:
		p.BombFuse = entity.BombTimerDefault - time.Duration(rng.Int63n(int64(fuseJitterBound)))
		return tagFuseFast
	case 5:
		p.AwardScore(int32(scoreDeltaMin + rng.Intn(scoreDeltaMax-scoreDeltaMin+1)))
		return tagScoreUp
	case 6:
		p.AwardScore(-int32(scoreDeltaMin + rng.Intn(scoreDeltaMax-scoreDeltaMin+1)))
		return tagScoreDown
	case 7:
		entity.AddEffect(p, entity.Effect{Kind: entity.EffectSpeedDelta, Delta: entity.SpeedBoostDelta, ExpiresAt: now.Add(timedEffectDuration)})
		return tagSpeedUp
	case 8:
		entity.AddEffect(p, entity.Effect{Kind: entity.EffectSpeedDelta, Delta: entity.SpeedSlowDelta, ExpiresAt: now.Add(timedEffectDuration)})
		return tagSpeedDown
	default:
		entity.AddEffect(p, entity.Effect{Kind: entity.EffectInvincible, ExpiresAt: now.Add(timedEffectDuration)})
		return tagInvincible
	}
}
