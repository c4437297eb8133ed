package worldmap

import (
	"math/rand"

	"bomb-arena/internal/geom"
)

// maxBlankSearchRadius bounds find_nearest_blank's concentric ring scan.
const maxBlankSearchRadius = 20

// fallbackPosition is returned when no search in this package can locate a
// suitable cell.
var fallbackPosition = geom.MapPosition{X: 1, Y: 1}

// FindNearestBlank returns p if it is already Empty; otherwise it scans
// concentric square rings of radius 1..20 around p, testing the top, bottom,
// left, and right edges of each ring in that order (and left-to-right /
// top-to-bottom within each edge), returning the first Empty cell found.
// Never returns a border cell. Falls back to (1,1) if nothing is found.
func (w *World) FindNearestBlank(p geom.MapPosition) geom.MapPosition {
	if c, ok := w.GetCell(p); ok && c == Empty {
		return p
	}
	for r := int32(1); r <= maxBlankSearchRadius; r++ {
		if found, ok := w.scanRing(p, r); ok {
			return found
		}
	}
	return fallbackPosition
}

func (w *World) scanRing(center geom.MapPosition, r int32) (geom.MapPosition, bool) {
	// Top edge: y = center.y - r, x from center.x-r to center.x+r.
	if found, ok := w.scanLine(center.X-r, center.X+r, center.Y-r, true); ok {
		return found, true
	}
	// Bottom edge: y = center.y + r.
	if found, ok := w.scanLine(center.X-r, center.X+r, center.Y+r, true); ok {
		return found, true
	}
	// Left edge: x = center.x - r, y from center.y-r to center.y+r.
	if found, ok := w.scanLine(center.Y-r, center.Y+r, center.X-r, false); ok {
		return found, true
	}
	// Right edge: x = center.x + r.
	if found, ok := w.scanLine(center.Y-r, center.Y+r, center.X+r, false); ok {
		return found, true
	}
	return geom.MapPosition{}, false
}

// scanLine scans a fixed row (horizontal=true, fixed=y) or column
// (horizontal=false, fixed=x) from lo to hi along the varying axis, in
// increasing order, returning the first in-bounds Empty cell.
func (w *World) scanLine(lo, hi, fixed int32, horizontal bool) (geom.MapPosition, bool) {
	for v := lo; v <= hi; v++ {
		var p geom.MapPosition
		if horizontal {
			p = geom.MapPosition{X: v, Y: fixed}
		} else {
			p = geom.MapPosition{X: fixed, Y: v}
		}
		c, ok := w.GetCell(p)
		if ok && c == Empty {
			return p, true
		}
	}
	return geom.MapPosition{}, false
}

// GetSpawnPoint makes up to 1000 random attempts to find a tile whose 4
// cardinal neighbours include at least 2 Empty cells, falling back to (1,1).
func (w *World) GetSpawnPoint() geom.MapPosition {
	for attempt := 0; attempt < 1000; attempt++ {
		x := int32(1 + w.rng.Intn(int(w.Width)-2))
		y := int32(1 + w.rng.Intn(int(w.Height)-2))
		p := geom.MapPosition{X: x, Y: y}
		if w.countEmptyNeighbours(p) >= 2 {
			return p
		}
	}
	return fallbackPosition
}

func (w *World) countEmptyNeighbours(p geom.MapPosition) int {
	offsets := [4]geom.PositionOffset{{X: 0, Y: -1}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 1, Y: 0}}
	count := 0
	for _, o := range offsets {
		c, ok := w.GetCell(p.Add(o))
		if ok && c == Empty {
			count++
		}
	}
	return count
}

// RandSource exposes the world's RNG for callers that need cosmetic
// randomness tied to the same source (e.g. mystery-block item rolls).
func (w *World) RandSource() *rand.Rand { return w.rng }
