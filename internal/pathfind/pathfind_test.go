package pathfind

import (
	"testing"
	"time"

	"bomb-arena/internal/geom"
)

func allPass(geom.MapPosition) bool { return true }

func TestPathFindSameCellReturnsFalse(t *testing.T) {
	p := geom.MapPosition{X: 3, Y: 3}
	if _, ok := PathFind(p, p, 10, allPass); ok {
		t.Error("expected PathFind to report no step when from == to")
	}
}

func TestPathFindReturnsFirstStepTowardTarget(t *testing.T) {
	from := geom.MapPosition{X: 0, Y: 0}
	to := geom.MapPosition{X: 3, Y: 0}

	step, ok := PathFind(from, to, 10, allPass)
	if !ok {
		t.Fatal("expected a path to be found in an open grid")
	}
	if step != (geom.PositionOffset{X: 1, Y: 0}) {
		t.Errorf("expected first step (1,0) toward the target, got %+v", step)
	}
}

func TestPathFindRespectsBlockedCells(t *testing.T) {
	from := geom.MapPosition{X: 0, Y: 0}
	to := geom.MapPosition{X: 2, Y: 0}
	blocked := geom.MapPosition{X: 1, Y: 0}

	canPass := func(p geom.MapPosition) bool { return p != blocked }

	step, ok := PathFind(from, to, 10, canPass)
	if !ok {
		t.Fatal("expected a detour path around the blocked cell")
	}
	if step == (geom.PositionOffset{X: 1, Y: 0}) {
		t.Error("expected the search to route around the blocked cell, not through it")
	}
}

func TestPathFindFailsWhenOutOfRange(t *testing.T) {
	from := geom.MapPosition{X: 0, Y: 0}
	to := geom.MapPosition{X: 10, Y: 10}

	if _, ok := PathFind(from, to, 2, allPass); ok {
		t.Error("expected PathFind to fail when the target is beyond rangeSteps")
	}
}

func TestPathFindNearestSafeReturnsStartWhenAlreadySafe(t *testing.T) {
	from := geom.MapPosition{X: 1, Y: 1}
	noDanger := func(geom.MapPosition) (time.Time, bool) { return time.Time{}, false }

	got := PathFindNearestSafe(from, 5, allPass, noDanger)
	if got != from {
		t.Errorf("expected the starting cell back, got %+v", got)
	}
}

func TestPathFindNearestSafeFindsFirstSafeCell(t *testing.T) {
	from := geom.MapPosition{X: 0, Y: 0}
	safe := geom.MapPosition{X: 1, Y: 0}

	danger := func(p geom.MapPosition) (time.Time, bool) {
		if p == safe {
			return time.Time{}, false
		}
		return time.Now(), true
	}

	got := PathFindNearestSafe(from, 5, allPass, danger)
	if got != safe {
		t.Errorf("expected to land on the safe cell %+v, got %+v", safe, got)
	}
}

func TestPathFindNearestSafeFallsBackToLatestDanger(t *testing.T) {
	from := geom.MapPosition{X: 0, Y: 0}

	danger := func(p geom.MapPosition) (time.Time, bool) {
		return time.Unix(int64(p.X), 0), true
	}

	got := PathFindNearestSafe(from, 2, allPass, danger)
	if got == from {
		t.Error("expected the search to move away from an all-unsafe start")
	}
}
