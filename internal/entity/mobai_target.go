package entity

import (
	"math/rand"

	"bomb-arena/internal/geom"
)

// cycleOffsets is the clockwise rotation order (up, right, down, left) used
// by ModeClockwise/ModeClockwiseNext; reversing the step gives the
// anticlockwise order.
var cycleOffsets = [4]geom.PositionOffset{
	{X: 0, Y: -1},
	{X: 1, Y: 0},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
}

// RotateClockwise returns the next offset clockwise from cur (cardinal
// directions only). Unrecognised offsets default to "up".
func RotateClockwise(cur geom.PositionOffset) geom.PositionOffset {
	for i, o := range cycleOffsets {
		if o == cur {
			return cycleOffsets[(i+1)%4]
		}
	}
	return cycleOffsets[0]
}

// RotateAnticlockwise returns the next offset anticlockwise from cur.
func RotateAnticlockwise(cur geom.PositionOffset) geom.PositionOffset {
	for i, o := range cycleOffsets {
		if o == cur {
			return cycleOffsets[(i+3)%4]
		}
	}
	return cycleOffsets[0]
}

// RandomRemaining returns a uniform random duration (seconds) in [lo, hi]
// for the given mode, per §4.5's re-roll table.
func RandomRemaining(rng *rand.Rand, mode TargetMode) float64 {
	switch mode {
	case ModeNearbyCell:
		return 5 + rng.Float64()*20
	case ModeNearbyPlayer:
		return 10 + rng.Float64()*110
	case ModeClockwise, ModeAnticlockwise:
		return 1 + rng.Float64()*4
	case ModeClockwiseNext, ModeAnticlockwiseNext:
		return 1 + rng.Float64()*9
	case ModeDangerAvoidance:
		return 99999
	default:
		return 5
	}
}

// RandomMode picks a non-danger-avoidance mode uniformly, unless inDanger is
// true in which case DangerAvoidance is always chosen.
func RandomMode(rng *rand.Rand, inDanger bool) TargetMode {
	if inDanger {
		return ModeDangerAvoidance
	}
	modes := []TargetMode{
		ModeNearbyCell, ModeNearbyPlayer, ModeClockwise,
		ModeAnticlockwise, ModeClockwiseNext, ModeAnticlockwiseNext,
	}
	return modes[rng.Intn(len(modes))]
}
