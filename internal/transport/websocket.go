// Package transport owns the WebSocket connection lifecycle: upgrade,
// per-connection reader/writer goroutines over bounded queues, the
// heartbeat echo, and the HTTP router/metrics/health surface around them.
// Generalises the teacher's internal/api/websocket.go (a single broadcast
// hub fanning one shared message to every client) into per-player links,
// since FRAMEDATA is personalised per connection rather than broadcast.
package transport

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"bomb-arena/internal/engine"
	"bomb-arena/internal/ids"
	"bomb-arena/internal/leaderboard"
	"bomb-arena/internal/metrics"
	"bomb-arena/internal/protocol"
)

// readLimit bounds one inbound frame's size, guarding against a single
// connection exhausting memory with an oversized payload.
const readLimit = 8 * 1024

// pongWait is how long a connection may go without a PING before the
// reader's ReadDeadline expires and the connection is dropped.
const pongWait = 60 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Link owns one player's WebSocket connection and the two goroutines
// (reader, writer) that pump it against the engine's bounded queues.
type Link struct {
	conn   *websocket.Conn
	id     ids.PlayerID
	ip     string
	game   *engine.Game
	outbox <-chan []byte
}

// Serve upgrades r into a WebSocket, registers a fresh player with game,
// and blocks running the reader loop until the connection closes, at which
// point it tears down the player's engine-side state. Intended to be called
// directly from an http.HandlerFunc.
func Serve(w http.ResponseWriter, r *http.Request, game *engine.Game, board *leaderboard.Board, counter *connCounter) {
	ip := ClientIP(r)
	if !counter.tryAcquire(ip) {
		http.Error(w, "too many connections", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		counter.release(ip)
		metrics.RecordConnectionRejected("upgrade_error")
		log.Printf("[WS] upgrade error from %s: %v", ip, err)
		return
	}

	id := game.JoinPlayer()
	outbox := game.Connect(id)
	link := &Link{conn: conn, id: id, ip: ip, game: game, outbox: outbox}

	metrics.UpdateWSConnections(counter.count())
	log.Printf("[WS] %s connected from %s (total=%d)", id, ip, counter.count())

	go link.writeLoop()
	link.readLoop()

	game.Disconnect(id)
	if board != nil {
		board.Remove(uint64(id))
	}
	counter.release(ip)
	conn.Close()
	metrics.UpdateWSConnections(counter.count())
	log.Printf("[WS] %s disconnected (total=%d)", id, counter.count())
}

// readLoop consumes inbound frames until the connection errors or a
// protocol violation (binary frame, message before JOINGAME) forces a
// disconnect (§6, §7). PING is answered directly on the outbound queue,
// bypassing the engine entirely so a heartbeat never costs a tick's
// one-action budget (§9 design note).
func (l *Link) readLoop() {
	l.conn.SetReadLimit(readLimit)
	l.conn.SetReadDeadline(time.Now().Add(pongWait))

	for {
		msgType, raw, err := l.conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			log.Printf("[WS] %s sent a binary frame, disconnecting", l.id)
			return
		}

		var env protocol.Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			log.Printf("[WS] %s sent malformed frame: %v", l.id, err)
			return
		}

		if env.Code == protocol.TagPing {
			l.echoPong(env.Data)
			l.conn.SetReadDeadline(time.Now().Add(pongWait))
			continue
		}

		metrics.RecordMessage("inbound")
		if err := l.game.HandleMessage(l.id, raw); err != nil {
			log.Printf("[WS] %s protocol violation: %v", l.id, err)
			return
		}
	}
}

func (l *Link) echoPong(nonce json.RawMessage) {
	raw, err := protocol.Encode(protocol.TagPong, nonce)
	if err != nil {
		return
	}
	l.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	l.conn.WriteMessage(websocket.TextMessage, raw)
}

// writeLoop drains outbox and writes every frame the engine produces for
// this player until the engine closes outbox on Disconnect.
func (l *Link) writeLoop() {
	for raw := range l.outbox {
		l.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := l.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
			l.conn.Close()
			return
		}
		metrics.RecordMessage("outbound")
	}
}
