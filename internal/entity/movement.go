package entity

import "bomb-arena/internal/geom"

// CanPass reports whether a pixel-space agent may occupy the tile p.
type CanPass func(p geom.MapPosition) bool

// MinSpeed / MaxSpeed bound every player's and mob's integration speed.
const (
	MinSpeed = 50.0
	MaxSpeed = 300.0
)

func clampSpeed(v float64) float64 {
	if v < MinSpeed {
		return MinSpeed
	}
	if v > MaxSpeed {
		return MaxSpeed
	}
	return v
}

// IntegrateGridSnap advances pos by (dirX,dirY)*speed*dt, attempting the X
// and Y axes independently against canPass (clamping — i.e. not moving — on
// a blocked axis), then snaps the perpendicular axis toward the current
// tile's centreline within a speed·dt tolerance (§9 Open Question #3: the
// snap tolerance is speed·Δt, not a fixed fraction of tile width).
func IntegrateGridSnap(pos geom.PixelPosition, dirX, dirY, speed, dt, tileSize float64, canPass CanPass) geom.PixelPosition {
	tolerance := speed * dt

	newX := pos.X + dirX*speed*dt
	if dirX != 0 {
		candidateTile := geom.PixelPosition{X: newX, Y: pos.Y}.ToMapPosition(tileSize)
		if canPass(candidateTile) {
			pos.X = newX
		}
	}

	newY := pos.Y + dirY*speed*dt
	if dirY != 0 {
		candidateTile := geom.PixelPosition{X: pos.X, Y: newY}.ToMapPosition(tileSize)
		if canPass(candidateTile) {
			pos.Y = newY
		}
	}

	switch {
	case dirX != 0:
		pos.Y = snapAxis(pos.Y, pos.ToMapPosition(tileSize).Y, tileSize, tolerance)
	case dirY != 0:
		pos.X = snapAxis(pos.X, pos.ToMapPosition(tileSize).X, tileSize, tolerance)
	}
	return pos
}

// snapAxis nudges a single coordinate toward its tile's centreline: snapping
// outright if within tolerance, otherwise stepping by tolerance toward it.
func snapAxis(coord float64, tileIndex int32, tileSize, tolerance float64) float64 {
	centre := float64(tileIndex)*tileSize + tileSize/2
	diff := centre - coord
	if diff < 0 {
		diff = -diff
	}
	if diff <= tolerance {
		return centre
	}
	if centre > coord {
		return coord + tolerance
	}
	return coord - tolerance
}
