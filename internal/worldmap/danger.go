package worldmap

import (
	"time"

	"bomb-arena/internal/geom"
)

// SetMobData writes ts into the danger map at p, using the minimum rule: the
// write only happens if the cell currently has no entry, or ts is earlier
// than what is already recorded (§3: the danger timestamp for a cell is the
// minimum over all live bombs that would reach it).
func (w *World) SetMobData(p geom.MapPosition, ts time.Time) {
	i, ok := w.cellIndex(p.X, p.Y)
	if !ok {
		return
	}
	e := w.danger[i]
	if !e.Valid || ts.Before(e.At) {
		w.danger[i] = DangerEntry{Valid: true, At: ts}
	}
}

// GetMobData returns the danger timestamp at p, if any.
func (w *World) GetMobData(p geom.MapPosition) (time.Time, bool) {
	i, ok := w.cellIndex(p.X, p.Y)
	if !ok {
		return time.Time{}, false
	}
	e := w.danger[i]
	return e.At, e.Valid
}

// ClearMobData removes the danger entry at p (cell becomes safe).
func (w *World) ClearMobData(p geom.MapPosition) {
	i, ok := w.cellIndex(p.X, p.Y)
	if !ok {
		return
	}
	w.danger[i] = DangerEntry{}
}

// ClearMobDataIfAtLeast clears the danger entry at p iff its current
// timestamp is <= ts — used by an expiring explosion, which should only
// clear the cell's danger mark when nothing newer superseded it.
func (w *World) ClearMobDataIfAtLeast(p geom.MapPosition, ts time.Time) {
	i, ok := w.cellIndex(p.X, p.Y)
	if !ok {
		return
	}
	e := w.danger[i]
	if e.Valid && !e.At.After(ts) {
		w.danger[i] = DangerEntry{}
	}
}
