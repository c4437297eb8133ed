package engine

import (
	"encoding/json"
	"testing"

	"bomb-arena/internal/config"
	"bomb-arena/internal/protocol"
)

func newTestGame() *Game {
	return NewGame(config.Load())
}

func TestHandleMessageJoinGameSpawnsPlayerAndRepliesSpawnPlayer(t *testing.T) {
	g := newTestGame()
	id := g.JoinPlayer()
	outbox := g.Connect(id)

	raw, err := protocol.Encode(protocol.TagJoinGame, "Hero")
	if err != nil {
		t.Fatalf("encode join: %v", err)
	}
	if err := g.HandleMessage(id, raw); err != nil {
		t.Fatalf("HandleMessage(JOINGAME) returned error: %v", err)
	}

	select {
	case frame := <-outbox:
		env, err := protocol.Decode(frame)
		if err != nil {
			t.Fatalf("decode spawn reply: %v", err)
		}
		if env.Code != protocol.TagSpawnPlayer {
			t.Errorf("expected %q reply, got %q", protocol.TagSpawnPlayer, env.Code)
		}
	default:
		t.Fatal("expected a SPAWNPLAYER frame on the outbox")
	}

	if _, ok := g.Players[id]; !ok {
		t.Error("expected player to be registered after JOINGAME")
	}
}

func TestHandleMessageRejectsDoubleJoin(t *testing.T) {
	g := newTestGame()
	id := g.JoinPlayer()
	g.Connect(id)

	raw, _ := protocol.Encode(protocol.TagJoinGame, "Hero")
	if err := g.HandleMessage(id, raw); err != nil {
		t.Fatalf("first join should succeed: %v", err)
	}
	if err := g.HandleMessage(id, raw); err == nil {
		t.Error("expected an error joining a second time")
	}
}

func TestHandleMessageRejectsActionBeforeJoin(t *testing.T) {
	g := newTestGame()
	id := g.JoinPlayer()
	g.Connect(id)

	raw, _ := protocol.Encode(protocol.TagAction, protocol.ActionPayload{X: 1})
	if err := g.HandleMessage(id, raw); err == nil {
		t.Error("expected an error sending ACTION before JOINGAME")
	}
}

func TestHandleMessagePingNeverErrorsBeforeJoin(t *testing.T) {
	g := newTestGame()
	id := g.JoinPlayer()
	g.Connect(id)

	raw, _ := protocol.Encode(protocol.TagPing, json.RawMessage(`{}`))
	if err := g.HandleMessage(id, raw); err != nil {
		t.Errorf("PING before join should never error, got: %v", err)
	}
}

func TestEnqueueActionDropsOnFullQueue(t *testing.T) {
	g := newTestGame()
	id := g.JoinPlayer()
	g.Connect(id)
	raw, _ := protocol.Encode(protocol.TagJoinGame, "Hero")
	if err := g.HandleMessage(id, raw); err != nil {
		t.Fatalf("join: %v", err)
	}

	actionRaw, _ := protocol.Encode(protocol.TagAction, protocol.ActionPayload{X: 1})
	capacity := g.cfg.Server.QueueCapacity
	for i := 0; i < capacity+5; i++ {
		if err := g.HandleMessage(id, actionRaw); err != nil {
			t.Fatalf("action %d: %v", i, err)
		}
	}
	// No assertion beyond "does not block or panic": enqueueAction must drop
	// once g.conns[id].inbox is at capacity rather than block the caller.
}

func TestDisconnectClosesOutboxAndClearsPlayer(t *testing.T) {
	g := newTestGame()
	id := g.JoinPlayer()
	outbox := g.Connect(id)
	raw, _ := protocol.Encode(protocol.TagJoinGame, "Hero")
	if err := g.HandleMessage(id, raw); err != nil {
		t.Fatalf("join: %v", err)
	}
	<-outbox // drain the SPAWNPLAYER frame

	g.Disconnect(id)

	if _, ok := g.Players[id]; ok {
		t.Error("expected player to be removed on disconnect")
	}
	if _, open := <-outbox; open {
		t.Error("expected outbox to be closed after disconnect")
	}
}
