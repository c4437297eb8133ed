package geom

import "testing"

func TestMapPositionAdd(t *testing.T) {
	p := MapPosition{X: 2, Y: 3}
	got := p.Add(PositionOffset{X: -1, Y: 4})
	want := MapPosition{X: 1, Y: 7}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestManhattan(t *testing.T) {
	a := MapPosition{X: 0, Y: 0}
	b := MapPosition{X: 3, Y: -4}
	if d := a.Manhattan(b); d != 7 {
		t.Errorf("expected manhattan distance 7, got %d", d)
	}
}

func TestPixelMapRoundTrip(t *testing.T) {
	p := MapPosition{X: 4, Y: 6}
	centre := p.ToPixelCenter(32)
	back := centre.ToMapPosition(32)
	if back != p {
		t.Errorf("expected round trip to recover %+v, got %+v", p, back)
	}
}

func TestPixelPositionDistance(t *testing.T) {
	a := PixelPosition{X: 0, Y: 0}
	b := PixelPosition{X: 3, Y: 4}
	if d := a.Distance(b); d != 5 {
		t.Errorf("expected Euclidean distance 5, got %v", d)
	}
}

func TestPositionOffsetIsZero(t *testing.T) {
	if !(PositionOffset{}).IsZero() {
		t.Error("expected the zero-value offset to report IsZero")
	}
	if (PositionOffset{X: 1}).IsZero() {
		t.Error("expected a non-zero offset to report !IsZero")
	}
}
