package leaderboard

import "sync"

// Entry is one ranked row in the public top-N view.
type Entry struct {
	Rank  int    `json:"rank"`
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Score int32  `json:"score"`
	Kills int32  `json:"kills"`
}

// Board is the read-only top-N scoreboard: a skip list keyed by player ID
// plus a side table of display names, since the skip list itself only
// tracks (key, score).
type Board struct {
	sl *skipList

	mu    sync.RWMutex
	names map[uint64]string
	kills map[uint64]int32
}

// New constructs an empty leaderboard.
func New() *Board {
	return &Board{
		sl:    newSkipList(),
		names: make(map[uint64]string),
		kills: make(map[uint64]int32),
	}
}

// Update repositions id's entry at score, recording name/kills for display.
func (b *Board) Update(id uint64, name string, score int32, kills int32) {
	b.sl.upsert(id, score)
	b.mu.Lock()
	b.names[id] = name
	b.kills[id] = kills
	b.mu.Unlock()
}

// Remove drops id from the board (e.g. once its player disconnects).
func (b *Board) Remove(id uint64) {
	b.sl.remove(id)
	b.mu.Lock()
	delete(b.names, id)
	delete(b.kills, id)
	b.mu.Unlock()
}

// Top returns the highest-scoring n entries, ranked 1..n.
func (b *Board) Top(n int) []Entry {
	raw := b.sl.top(n)
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Entry, len(raw))
	for i, e := range raw {
		out[i] = Entry{
			Rank:  i + 1,
			ID:    e.key,
			Name:  b.names[e.key],
			Score: e.score,
			Kills: b.kills[e.key],
		}
	}
	return out
}

// Len reports how many players are currently tracked.
func (b *Board) Len() int { return b.sl.length() }
