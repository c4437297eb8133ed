// Package pathfind implements the grid search shared by mob AI and danger
// avoidance: a best-first step search bounded by a range, and a BFS search
// for the nearest cell outside the danger map.
//
// Both searches are parameterised by a CanPass predicate rather than a
// world reference directly, so callers can express "players may walk
// through bombs" vs "mobs never pass bombs/walls/mysteries" without this
// package knowing about cell types at all. This mirrors the teacher's flow
// field (internal/game/spatial/flowfield.go), which is likewise built over
// an opaque blocked/unblocked predicate, adapted here from a precomputed
// shared field to a bounded per-query search since each agent has its own
// range and target.
package pathfind

import (
	"container/heap"
	"time"

	"bomb-arena/internal/geom"
)

// CanPass reports whether an agent may enter p.
type CanPass func(p geom.MapPosition) bool

// DangerAt returns the danger timestamp recorded at p, if any.
type DangerAt func(p geom.MapPosition) (time.Time, bool)

var cardinalOffsets = [4]geom.PositionOffset{
	{X: 0, Y: -1},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
	{X: 1, Y: 0},
}

// openNode is one entry in the best-first open list.
type openNode struct {
	pos       geom.MapPosition
	travelled int32
	first     geom.PositionOffset // the initial step taken from `from`
	seq       int                 // insertion order, for deterministic tie-break
}

// priorityQueue orders openNode by (travelled+manhattan(pos,to)), breaking
// ties by insertion order.
type priorityQueue struct {
	nodes []openNode
	to    geom.MapPosition
}

func (q priorityQueue) Len() int { return len(q.nodes) }
func (q priorityQueue) Less(i, j int) bool {
	fi := q.nodes[i].travelled + int32(q.nodes[i].pos.Manhattan(q.to))
	fj := q.nodes[j].travelled + int32(q.nodes[j].pos.Manhattan(q.to))
	if fi != fj {
		return fi < fj
	}
	return q.nodes[i].seq < q.nodes[j].seq
}
func (q priorityQueue) Swap(i, j int) { q.nodes[i], q.nodes[j] = q.nodes[j], q.nodes[i] }
func (q *priorityQueue) Push(x any)   { q.nodes = append(q.nodes, x.(openNode)) }
func (q *priorityQueue) Pop() any {
	old := q.nodes
	n := len(old)
	item := old[n-1]
	q.nodes = old[:n-1]
	return item
}

// PathFind runs a best-first search from `from` toward `to`, bounded to
// `rangeSteps` expansions, and returns the initial offset of the best path
// found — never the full path. Returns (zero, false) if from==to (no move
// needed) or if `to` is unreachable within range.
func PathFind(from, to geom.MapPosition, rangeSteps int32, canPass CanPass) (geom.PositionOffset, bool) {
	if from == to {
		return geom.PositionOffset{}, false
	}

	seen := map[geom.MapPosition]bool{from: true}
	pq := &priorityQueue{to: to}
	heap.Init(pq)

	seq := 0
	for _, o := range cardinalOffsets {
		next := from.Add(o)
		if !canPass(next) {
			continue
		}
		heap.Push(pq, openNode{pos: next, travelled: 1, first: o, seq: seq})
		seq++
		seen[next] = true
	}

	expansions := int32(0)
	for pq.Len() > 0 && expansions < rangeSteps {
		n := heap.Pop(pq).(openNode)
		expansions++
		if n.pos == to {
			return n.first, true
		}
		if n.travelled >= rangeSteps {
			continue
		}
		for _, o := range cardinalOffsets {
			next := n.pos.Add(o)
			if seen[next] || !canPass(next) {
				continue
			}
			seen[next] = true
			heap.Push(pq, openNode{pos: next, travelled: n.travelled + 1, first: n.first, seq: seq})
			seq++
		}
	}
	return geom.PositionOffset{}, false
}

// PathFindNearestSafe runs a BFS outward from `from`, bounded to
// `rangeSteps`, and returns the first cell with no danger-map entry. If the
// starting cell is already safe it is returned immediately. If no safe cell
// is reachable within range, the cell with the latest (furthest-future)
// danger timestamp seen during the search is returned instead.
func PathFindNearestSafe(from geom.MapPosition, rangeSteps int32, canPass CanPass, danger DangerAt) geom.MapPosition {
	if _, unsafe := danger(from); !unsafe {
		return from
	}

	type bfsNode struct {
		pos   geom.MapPosition
		depth int32
	}

	visited := map[geom.MapPosition]bool{from: true}
	queue := []bfsNode{{pos: from, depth: 0}}

	var latestSeen geom.MapPosition
	var latestAt time.Time
	haveLatest := false

	head := 0
	for head < len(queue) {
		cur := queue[head]
		head++

		if cur.pos != from {
			if ts, unsafe := danger(cur.pos); !unsafe {
				return cur.pos
			} else if !haveLatest || ts.After(latestAt) {
				latestAt = ts
				latestSeen = cur.pos
				haveLatest = true
			}
		}

		if cur.depth >= rangeSteps {
			continue
		}
		for _, o := range cardinalOffsets {
			next := cur.pos.Add(o)
			if visited[next] || !canPass(next) {
				continue
			}
			visited[next] = true
			queue = append(queue, bfsNode{pos: next, depth: cur.depth + 1})
		}
	}

	if haveLatest {
		return latestSeen
	}
	return from
}
