package engine

import (
	"testing"

	"bomb-arena/internal/config"
	"bomb-arena/internal/protocol"
)

func TestScoreboardReflectsJoinedPlayers(t *testing.T) {
	g := NewGame(config.Load())
	id := g.JoinPlayer()
	g.Connect(id)
	raw, _ := protocol.Encode(protocol.TagJoinGame, "Hero")
	if err := g.HandleMessage(id, raw); err != nil {
		t.Fatalf("join: %v", err)
	}

	scores := g.Scoreboard()
	if len(scores) != 1 {
		t.Fatalf("expected 1 scoreboard entry, got %d", len(scores))
	}
	if scores[0].ID != uint64(id) || scores[0].Name != "Hero" {
		t.Errorf("unexpected scoreboard entry: %+v", scores[0])
	}
}

func TestPopulationsCountsPlayers(t *testing.T) {
	g := NewGame(config.Load())
	if players, _, _ := g.Populations(); players != 0 {
		t.Fatalf("expected 0 players initially, got %d", players)
	}

	id := g.JoinPlayer()
	g.Connect(id)
	raw, _ := protocol.Encode(protocol.TagJoinGame, "Hero")
	if err := g.HandleMessage(id, raw); err != nil {
		t.Fatalf("join: %v", err)
	}

	if players, _, _ := g.Populations(); players != 1 {
		t.Errorf("expected 1 player after join, got %d", players)
	}
}
