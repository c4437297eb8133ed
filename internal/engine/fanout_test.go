package engine

import (
	"encoding/json"
	"testing"
	"time"

	"bomb-arena/internal/config"
	"bomb-arena/internal/entity"
	"bomb-arena/internal/ids"
	"bomb-arena/internal/protocol"
)

func joinTestPlayer(t *testing.T, g *Game) (ids.PlayerID, <-chan []byte) {
	t.Helper()
	id := g.JoinPlayer()
	outbox := g.Connect(id)
	raw, _ := protocol.Encode(protocol.TagJoinGame, "Hero")
	if err := g.HandleMessage(id, raw); err != nil {
		t.Fatalf("join: %v", err)
	}
	<-outbox // drain the SPAWNPLAYER reply
	return id, outbox
}

func TestSpawnPayloadIsATwoElementArray(t *testing.T) {
	g := NewGame(config.Load())
	id := g.JoinPlayer()
	g.Connect(id)

	p := g.handleJoinGame(id, "Ada")
	raw, err := protocol.Encode(protocol.TagSpawnPlayer, g.spawnPayload(p))
	if err != nil {
		t.Fatalf("encode spawn payload: %v", err)
	}

	env, err := protocol.Decode(raw)
	if err != nil {
		t.Fatalf("decode envelope: %v", err)
	}

	var tuple []json.RawMessage
	if err := json.Unmarshal(env.Data, &tuple); err != nil {
		t.Fatalf("spawn payload did not decode as an array: %v", err)
	}
	if len(tuple) != 2 {
		t.Fatalf("expected a 2-element array, got %d elements", len(tuple))
	}

	var player protocol.PlayerDTO
	if err := json.Unmarshal(tuple[0], &player); err != nil {
		t.Fatalf("element 0 did not decode as a PlayerDTO: %v", err)
	}
	if player.Name != "Ada" {
		t.Errorf("expected player name Ada, got %q", player.Name)
	}

	var world protocol.WorldMeta
	if err := json.Unmarshal(tuple[1], &world); err != nil {
		t.Fatalf("element 1 did not decode as a WorldMeta: %v", err)
	}
	if world.Width == 0 || world.Height == 0 {
		t.Errorf("expected a non-zero world size, got %+v", world)
	}
}

func TestFanoutSendsPowerupAndDeadAsBareStrings(t *testing.T) {
	g := NewGame(config.Load())
	id, outbox := joinTestPlayer(t, g)

	g.mu.Lock()
	g.recordPowerup(id, "+B")
	g.mu.Unlock()

	g.mu.Lock()
	g.Fanout(time.Now())
	g.mu.Unlock()

	raw := <-outbox
	env, err := protocol.Decode(raw)
	if err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.Code != protocol.TagPowerUp {
		t.Fatalf("expected %q, got %q", protocol.TagPowerUp, env.Code)
	}
	var tag string
	if err := json.Unmarshal(env.Data, &tag); err != nil {
		t.Fatalf("POWERUP data did not decode as a bare string: %v", err)
	}
	if tag != "+B" {
		t.Errorf("expected tag +B, got %q", tag)
	}
	<-outbox // drain the FRAMEDATA sent alongside the POWERUP

	g.mu.Lock()
	p := g.Players[id]
	p.BeginDying("Oops! You were caught by a mob", time.Now())
	g.Fanout(time.Now())
	g.mu.Unlock()

	raw = <-outbox
	env, err = protocol.Decode(raw)
	if err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.Code != protocol.TagDead {
		t.Fatalf("expected %q, got %q", protocol.TagDead, env.Code)
	}
	var reason string
	if err := json.Unmarshal(env.Data, &reason); err != nil {
		t.Fatalf("DEAD data did not decode as a bare string: %v", err)
	}
	if reason != "Oops! You were caught by a mob" {
		t.Errorf("unexpected DEAD reason: %q", reason)
	}
}

func TestFanoutMovesStuckConnectionToDying(t *testing.T) {
	g := NewGame(config.Load())
	id, _ := joinTestPlayer(t, g)

	g.mu.Lock()
	conn := g.conns[id]
	g.mu.Unlock()

	// Fill the outbox and never drain it, simulating a writer that has died.
	for i := 0; i < cap(conn.outbox); i++ {
		conn.outbox <- []byte("x")
	}

	for i := 0; i < g.cfg.Server.QueueCapacity; i++ {
		g.mu.Lock()
		g.Fanout(time.Now())
		g.mu.Unlock()
	}

	g.mu.RLock()
	state := g.Players[id].State
	g.mu.RUnlock()
	if state != entity.StateDying {
		t.Errorf("expected player to be Dying after a permanently full outbox, got %v", state)
	}
}
