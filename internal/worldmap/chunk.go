package worldmap

import "bomb-arena/internal/geom"

// Chunk is the rectangle of cells sent to a client: a copy of a slice of the
// cell grid plus its origin in tile coordinates.
type Chunk struct {
	OriginX, OriginY int32
	Width, Height     int32
	Cells             []CellType
}

// ChunkDimensions computes the tile-count width/height of a chunk from the
// configured pixel screen size, tile size, and a fixed 10-tile margin.
func ChunkDimensions(screenW, screenH int32, tileSize float64) (chunkW, chunkH int32) {
	chunkW = int32(float64(screenW)/tileSize) + 10
	chunkH = int32(float64(screenH)/tileSize) + 10
	return chunkW, chunkH
}

// GetChunk extracts a chunkW×chunkH rectangle of cells centred on centre,
// clamped to the map bounds.
func (w *World) GetChunk(centre geom.MapPosition, chunkW, chunkH int32) Chunk {
	halfW := chunkW / 2
	halfH := chunkH / 2

	originX := centre.X - halfW
	originY := centre.Y - halfH

	if originX < 0 {
		originX = 0
	}
	if originY < 0 {
		originY = 0
	}
	endX := originX + chunkW
	endY := originY + chunkH
	if endX > w.Width {
		endX = w.Width
		originX = endX - chunkW
		if originX < 0 {
			originX = 0
		}
	}
	if endY > w.Height {
		endY = w.Height
		originY = endY - chunkH
		if originY < 0 {
			originY = 0
		}
	}
	width := endX - originX
	height := endY - originY

	cells := make([]CellType, 0, int(width)*int(height))
	for y := originY; y < originY+height; y++ {
		for x := originX; x < originX+width; x++ {
			c, _ := w.GetCell(geom.MapPosition{X: x, Y: y})
			cells = append(cells, c)
		}
	}

	return Chunk{
		OriginX: originX,
		OriginY: originY,
		Width:   width,
		Height:  height,
		Cells:   cells,
	}
}

// WithinChunk reports whether p lies within half-extent (chunkW/2,
// chunkH/2) tiles of centre, the same "local" filter used both for world
// chunking and for filtering the local entity lists in the fan-out step.
func WithinChunk(centre, p geom.MapPosition, chunkW, chunkH int32) bool {
	halfW := chunkW / 2
	halfH := chunkH / 2
	dx := p.X - centre.X
	if dx < 0 {
		dx = -dx
	}
	dy := p.Y - centre.Y
	if dy < 0 {
		dy = -dy
	}
	return dx <= halfW && dy <= halfH
}
