// Package worldmap implements the cell-type grid, its two auxiliary
// overlays (internal entity index, danger timestamps), the fixed border and
// pillar wall scaffold generated at construction, chunk extraction for
// per-player fan-out, and the zone quota engine that drives block refill.
//
// Storage follows the teacher's spatial grid idiom (internal/game/spatial
// in the reference pack): flat row-major slices sized once at construction,
// addressed through a single index() helper with an out-of-bounds guard,
// rather than a slice-of-slices or a map.
package worldmap

import (
	"math/rand"
	"time"

	"bomb-arena/internal/geom"
)

// DangerEntry is one cell's entry in the danger map: the earliest future
// time at which the cell will contain an active explosion, if any.
type DangerEntry struct {
	Valid bool
	At    time.Time
}

// World is the authoritative map state: one instance per running game.
type World struct {
	Width, Height int32
	TileSize      float64

	cells  []CellType
	index  []CellRef
	danger []DangerEntry

	zones *ZoneEngine

	rng *rand.Rand
}

// NewWorld constructs a world of the requested size, bumping width/height up
// to odd values if needed, generates the border wall + pillar lattice, and
// partitions it into zones of the given size.
func NewWorld(width, height int32, tileSize float64, zoneSize int32, rng *rand.Rand) *World {
	if width%2 == 0 {
		width++
	}
	if height%2 == 0 {
		height++
	}
	n := int(width) * int(height)
	w := &World{
		Width:    width,
		Height:   height,
		TileSize: tileSize,
		cells:    make([]CellType, n),
		index:    make([]CellRef, n),
		danger:   make([]DangerEntry, n),
		rng:      rng,
	}
	w.generateWalls()
	w.zones = NewZoneEngine(width, height, zoneSize)
	return w
}

// generateWalls sets every border cell to Wall, then lays the fixed pillar
// lattice: every second row, every other column is a Wall.
func (w *World) generateWalls() {
	for x := int32(0); x < w.Width; x++ {
		w.rawSet(x, 0, Wall)
		w.rawSet(x, w.Height-1, Wall)
	}
	for y := int32(0); y < w.Height; y++ {
		w.rawSet(0, y, Wall)
		w.rawSet(w.Width-1, y, Wall)
	}
	for y := int32(2); y < w.Height-1; y += 2 {
		for x := int32(1); x < w.Width-1; x += 2 {
			w.rawSet(x, y, Wall)
		}
	}
}

// rawSet bypasses zone bookkeeping; only used during wall generation, before
// any Mystery block has been placed.
func (w *World) rawSet(x, y int32, v CellType) {
	i, ok := w.cellIndex(x, y)
	if !ok {
		return
	}
	w.cells[i] = v
}

func (w *World) cellIndex(x, y int32) (int, bool) {
	if x < 0 || y < 0 || x >= w.Width || y >= w.Height {
		return 0, false
	}
	return int(y)*int(w.Width) + int(x), true
}

// InBounds reports whether (x,y) addresses a live cell.
func (w *World) InBounds(x, y int32) bool {
	_, ok := w.cellIndex(x, y)
	return ok
}

// GetCell returns the cell type at p and true, or (Empty, false) if out of
// bounds.
func (w *World) GetCell(p geom.MapPosition) (CellType, bool) {
	i, ok := w.cellIndex(p.X, p.Y)
	if !ok {
		return Empty, false
	}
	return w.cells[i], true
}

// SetCell updates the cell at p. Zone mystery-block bookkeeping is kept in
// lockstep: leaving Mystery decrements the owning zone's count, entering
// Mystery increments it.
func (w *World) SetCell(p geom.MapPosition, v CellType) {
	i, ok := w.cellIndex(p.X, p.Y)
	if !ok {
		return
	}
	prev := w.cells[i]
	if prev == v {
		return
	}
	if prev == Mystery {
		w.zones.DelBlock(p)
	}
	if v == Mystery {
		w.zones.AddBlock(p)
	}
	w.cells[i] = v
}

// Ref returns the internal-index overlay entry at p.
func (w *World) Ref(p geom.MapPosition) CellRef {
	i, ok := w.cellIndex(p.X, p.Y)
	if !ok {
		return EmptyRef
	}
	return w.index[i]
}

// SetRef updates the internal-index overlay entry at p.
func (w *World) SetRef(p geom.MapPosition, ref CellRef) {
	i, ok := w.cellIndex(p.X, p.Y)
	if !ok {
		return
	}
	w.index[i] = ref
}

// Zones exposes the zone quota engine for the tick scheduler's periodic
// refill step.
func (w *World) Zones() *ZoneEngine { return w.zones }

// PlaceBomb marks p as occupied by the given bomb: sets the cell type to
// Bomb and the internal index to reference the bomb's ID in the same step,
// preserving the two-way cell<->entity invariant.
func (w *World) PlaceBomb(p geom.MapPosition, id uint64) {
	w.SetCell(p, Bomb)
	w.SetRef(p, BombRef(id))
}

// ClearToEmpty clears the cell and internal index at p back to Empty, in the
// same step.
func (w *World) ClearToEmpty(p geom.MapPosition) {
	w.SetCell(p, Empty)
	w.SetRef(p, EmptyRef)
}

// PlaceExplosion marks p as containing the given explosion, leaving the cell
// type untouched (explosions sit transparently atop Empty/item cells within
// the same tick).
func (w *World) PlaceExplosion(p geom.MapPosition, id uint64) {
	w.SetRef(p, ExplosionRef(id))
}

// ClearRef resets the internal-index overlay at p to empty without touching
// the cell type (used when an explosion expires but the cell is already
// Empty from detonation).
func (w *World) ClearRef(p geom.MapPosition) {
	w.SetRef(p, EmptyRef)
}
