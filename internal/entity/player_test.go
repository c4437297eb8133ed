package entity

import (
	"testing"
	"time"

	"bomb-arena/internal/geom"
	"bomb-arena/internal/ids"
)

func TestSanitizeNameStripsDisallowedRunes(t *testing.T) {
	got := SanitizeName("Hero<script>!")
	want := "Heroscript!"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSanitizeNameTruncatesToMaxLength(t *testing.T) {
	raw := ""
	for i := 0; i < MaxNameLength+10; i++ {
		raw += "a"
	}
	got := SanitizeName(raw)
	if len(got) != MaxNameLength {
		t.Errorf("expected length %d, got %d", MaxNameLength, len(got))
	}
}

func TestNewPlayerGrantsJoinInvincibility(t *testing.T) {
	now := time.Unix(0, 0)
	p := NewPlayer(ids.PlayerID(1), "Hero", geom.PixelPosition{X: 16, Y: 16}, "p1", now)

	if !p.Invincible() {
		t.Error("expected a freshly joined player to be invincible")
	}
	if p.State != StateActive {
		t.Errorf("expected StateActive, got %v", p.State)
	}
}

func TestBeginDyingOnlyTransitionsFromActive(t *testing.T) {
	now := time.Unix(0, 0)
	p := NewPlayer(ids.PlayerID(1), "Hero", geom.PixelPosition{}, "p1", now)

	p.BeginDying("Oops! You were killed by your own bomb", now)
	if p.State != StateDying {
		t.Fatalf("expected StateDying, got %v", p.State)
	}
	if p.DeadReason != "Oops! You were killed by your own bomb" {
		t.Errorf("unexpected DeadReason: %q", p.DeadReason)
	}

	p.DeadReason = ""
	p.BeginDying("some other reason", now)
	if p.DeadReason != "" {
		t.Error("expected BeginDying to be a no-op once already Dying")
	}
}

func TestAdvanceDyingTransitionsToDeadAfterDuration(t *testing.T) {
	start := time.Unix(0, 0)
	p := NewPlayer(ids.PlayerID(1), "Hero", geom.PixelPosition{}, "p1", start)
	p.BeginDying("reason", start)

	p.AdvanceDying(start.Add(DyingDuration / 2))
	if p.State != StateDying {
		t.Errorf("expected still Dying before duration elapses, got %v", p.State)
	}

	p.AdvanceDying(start.Add(DyingDuration))
	if p.State != StateDead {
		t.Errorf("expected Dead once duration elapses, got %v", p.State)
	}
}

func TestApplyActionEdgeTriggersBombPlacement(t *testing.T) {
	now := time.Unix(0, 0)
	p := NewPlayer(ids.PlayerID(1), "Hero", geom.PixelPosition{X: 48, Y: 48}, "p1", now)
	allPass := func(geom.MapPosition) bool { return true }

	if place := p.ApplyAction(Action{Fire: true}, 0.033, 32, allPass); !place {
		t.Error("expected the first fire=true action to place a bomb")
	}
	if place := p.ApplyAction(Action{Fire: true}, 0.033, 32, allPass); place {
		t.Error("expected a held fire to not re-trigger bomb placement")
	}
	p.ApplyAction(Action{Fire: false}, 0.033, 32, allPass)
	if place := p.ApplyAction(Action{Fire: true}, 0.033, 32, allPass); !place {
		t.Error("expected fire to re-trigger after a release in between")
	}
}

func TestPickupsIncreaseLoadout(t *testing.T) {
	now := time.Unix(0, 0)
	p := NewPlayer(ids.PlayerID(1), "Hero", geom.PixelPosition{}, "p1", now)

	baseBombs, baseRange := p.MaxBombs, p.Range
	p.PickupBomb()
	p.PickupRange()
	if p.MaxBombs != baseBombs+1 {
		t.Errorf("expected MaxBombs %d, got %d", baseBombs+1, p.MaxBombs)
	}
	if p.Range != baseRange+1 {
		t.Errorf("expected Range %d, got %d", baseRange+1, p.Range)
	}
}

func TestAwardScoreAccumulates(t *testing.T) {
	now := time.Unix(0, 0)
	p := NewPlayer(ids.PlayerID(1), "Hero", geom.PixelPosition{}, "p1", now)
	p.AwardScore(500)
	p.AwardScore(1000)
	if p.Score != 1500 {
		t.Errorf("expected Score 1500, got %d", p.Score)
	}
}
