package worldmap

import (
	"math/rand"
	"testing"

	"bomb-arena/internal/geom"
)

func newTestWorld(t *testing.T) *World {
	t.Helper()
	rng := rand.New(rand.NewSource(1))
	return NewWorld(21, 15, 32, 5, rng)
}

func TestNewWorldBordersAreWalls(t *testing.T) {
	w := newTestWorld(t)

	for x := int32(0); x < w.Width; x++ {
		if c, _ := w.GetCell(geom.MapPosition{X: x, Y: 0}); c != Wall {
			t.Errorf("expected top border wall at x=%d, got %v", x, c)
		}
		if c, _ := w.GetCell(geom.MapPosition{X: x, Y: w.Height - 1}); c != Wall {
			t.Errorf("expected bottom border wall at x=%d, got %v", x, c)
		}
	}
	for y := int32(0); y < w.Height; y++ {
		if c, _ := w.GetCell(geom.MapPosition{X: 0, Y: y}); c != Wall {
			t.Errorf("expected left border wall at y=%d, got %v", y, c)
		}
		if c, _ := w.GetCell(geom.MapPosition{X: w.Width - 1, Y: y}); c != Wall {
			t.Errorf("expected right border wall at y=%d, got %v", y, c)
		}
	}
}

func TestSetCellGetCellRoundTrip(t *testing.T) {
	w := newTestWorld(t)
	p := geom.MapPosition{X: 5, Y: 5}

	w.SetCell(p, ItemBomb)
	got, ok := w.GetCell(p)
	if !ok || got != ItemBomb {
		t.Errorf("expected ItemBomb at %+v, got %v (ok=%v)", p, got, ok)
	}
}

func TestGetCellOutOfBounds(t *testing.T) {
	w := newTestWorld(t)
	if _, ok := w.GetCell(geom.MapPosition{X: -1, Y: 0}); ok {
		t.Error("expected out-of-bounds GetCell to report !ok")
	}
	if _, ok := w.GetCell(geom.MapPosition{X: w.Width, Y: 0}); ok {
		t.Error("expected out-of-bounds GetCell to report !ok")
	}
}

func TestFindNearestBlankReturnsEmptyCell(t *testing.T) {
	w := newTestWorld(t)
	start := geom.MapPosition{X: w.Width / 2, Y: w.Height / 2}

	blank := w.FindNearestBlank(start)
	c, ok := w.GetCell(blank)
	if !ok || c != Empty {
		t.Errorf("expected FindNearestBlank to return an Empty cell, got %v at %+v", c, blank)
	}
}

func TestWithinChunk(t *testing.T) {
	centre := geom.MapPosition{X: 10, Y: 10}

	inside := geom.MapPosition{X: 11, Y: 9}
	if !WithinChunk(centre, inside, 5, 5) {
		t.Errorf("expected %+v to be within a 5x5 chunk centred on %+v", inside, centre)
	}

	outside := geom.MapPosition{X: 20, Y: 20}
	if WithinChunk(centre, outside, 5, 5) {
		t.Errorf("expected %+v to be outside a 5x5 chunk centred on %+v", outside, centre)
	}
}

func TestGetChunkClampsToWorldBounds(t *testing.T) {
	w := newTestWorld(t)
	chunk := w.GetChunk(geom.MapPosition{X: 0, Y: 0}, 10, 10)

	if chunk.OriginX < 0 || chunk.OriginY < 0 {
		t.Errorf("expected chunk origin clamped to non-negative, got (%d,%d)", chunk.OriginX, chunk.OriginY)
	}
	if len(chunk.Cells) != int(chunk.Width*chunk.Height) {
		t.Errorf("expected %d cells, got %d", chunk.Width*chunk.Height, len(chunk.Cells))
	}
}
