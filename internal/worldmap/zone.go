package worldmap

import "bomb-arena/internal/geom"

// zone is one sub-rectangle of the map with an independent destructible
// block quota.
type zone struct {
	OriginX, OriginY int32
	W, H             int32
	Quota            int
	Count            int
}

func (z *zone) area() int { return int(z.W) * int(z.H) }

func (z *zone) contains(x, y int32) bool {
	return x >= z.OriginX && x < z.OriginX+z.W && y >= z.OriginY && y < z.OriginY+z.H
}

func (z *zone) deficit() int { return z.Quota - z.Count }

// ZoneEngine partitions the map into zones of a configured size (edge zones
// absorb the remainder) and tracks each zone's destructible-block quota,
// `floor(area * 0.2)`.
type ZoneEngine struct {
	zoneSize int32
	cols     int32
	rows     int32
	zones    []zone
}

// NewZoneEngine partitions a width×height map into zoneSize×zoneSize zones.
func NewZoneEngine(width, height, zoneSize int32) *ZoneEngine {
	if zoneSize <= 0 {
		zoneSize = 16
	}
	cols := (width + zoneSize - 1) / zoneSize
	rows := (height + zoneSize - 1) / zoneSize

	e := &ZoneEngine{zoneSize: zoneSize, cols: cols, rows: rows}
	e.zones = make([]zone, 0, cols*rows)
	for zy := int32(0); zy < rows; zy++ {
		for zx := int32(0); zx < cols; zx++ {
			ox := zx * zoneSize
			oy := zy * zoneSize
			w := zoneSize
			if ox+w > width {
				w = width - ox
			}
			h := zoneSize
			if oy+h > height {
				h = height - oy
			}
			z := zone{OriginX: ox, OriginY: oy, W: w, H: h}
			z.Quota = int(float64(z.area()) * 0.2)
			e.zones = append(e.zones, z)
		}
	}
	return e
}

func (e *ZoneEngine) zoneAt(x, y int32) *zone {
	zx := x / e.zoneSize
	zy := y / e.zoneSize
	if zx < 0 {
		zx = 0
	}
	if zy < 0 {
		zy = 0
	}
	if zx >= e.cols {
		zx = e.cols - 1
	}
	if zy >= e.rows {
		zy = e.rows - 1
	}
	idx := zy*e.cols + zx
	if int(idx) < 0 || int(idx) >= len(e.zones) {
		return nil
	}
	return &e.zones[idx]
}

// AddBlock records a new destructible block at p, incrementing its zone's
// count.
func (e *ZoneEngine) AddBlock(p geom.MapPosition) {
	if z := e.zoneAt(p.X, p.Y); z != nil {
		z.Count++
	}
}

// DelBlock records a destructible block removed at p, decrementing its
// zone's count.
func (e *ZoneEngine) DelBlock(p geom.MapPosition) {
	if z := e.zoneAt(p.X, p.Y); z != nil && z.Count > 0 {
		z.Count--
	}
}

// QuotaReached reports whether the zone containing p has met its quota.
func (e *ZoneEngine) QuotaReached(p geom.MapPosition) bool {
	z := e.zoneAt(p.X, p.Y)
	return z == nil || z.Count >= z.Quota
}

// TotalBlocks sums every zone's block count (testable property: equals the
// global count of Mystery cells).
func (e *ZoneEngine) TotalBlocks() int {
	total := 0
	for i := range e.zones {
		total += e.zones[i].Count
	}
	return total
}

// RefillCandidate returns the origin rectangle of the zone with the largest
// (quota - count) deficit, for the scheduler's periodic refill step. Yields
// zones in descending deficit order across repeated calls is not tracked
// here — each call independently scans for the current largest deficit,
// which is equivalent since AddBlock/DelBlock keep counts live.
func (e *ZoneEngine) RefillCandidate() (originX, originY, w, h int32, ok bool) {
	bestIdx := -1
	bestDeficit := 0
	for i := range e.zones {
		d := e.zones[i].deficit()
		if d > bestDeficit {
			bestDeficit = d
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return 0, 0, 0, 0, false
	}
	z := e.zones[bestIdx]
	return z.OriginX, z.OriginY, z.W, z.H, true
}
