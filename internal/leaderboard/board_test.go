package leaderboard

import "testing"

func TestBoardTopOrdersByScoreDescending(t *testing.T) {
	b := New()
	b.Update(1, "alice", 100, 2)
	b.Update(2, "bob", 300, 5)
	b.Update(3, "carol", 200, 1)

	top := b.Top(10)
	if len(top) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(top))
	}
	wantOrder := []uint64{2, 3, 1}
	for i, id := range wantOrder {
		if top[i].ID != id {
			t.Errorf("rank %d: expected id %d, got %d", i+1, id, top[i].ID)
		}
		if top[i].Rank != i+1 {
			t.Errorf("rank %d: expected Rank field %d, got %d", i+1, i+1, top[i].Rank)
		}
	}
	if top[0].Name != "bob" || top[0].Kills != 5 {
		t.Errorf("top entry display fields wrong: %+v", top[0])
	}
}

func TestBoardUpdateRepositionsExistingEntry(t *testing.T) {
	b := New()
	b.Update(1, "alice", 50, 0)
	b.Update(2, "bob", 100, 0)
	b.Update(1, "alice", 500, 1)

	top := b.Top(2)
	if top[0].ID != 1 || top[0].Score != 500 {
		t.Errorf("expected alice repositioned to the top with score 500, got %+v", top[0])
	}
	if b.Len() != 2 {
		t.Errorf("expected length 2 after reposition, got %d", b.Len())
	}
}

func TestBoardRemove(t *testing.T) {
	b := New()
	b.Update(1, "alice", 100, 0)
	b.Update(2, "bob", 200, 0)
	b.Remove(2)

	if b.Len() != 1 {
		t.Fatalf("expected length 1 after remove, got %d", b.Len())
	}
	top := b.Top(10)
	if len(top) != 1 || top[0].ID != 1 {
		t.Errorf("expected only alice to remain, got %+v", top)
	}
}

func TestBoardTopTruncatesToN(t *testing.T) {
	b := New()
	for i := uint64(1); i <= 5; i++ {
		b.Update(i, "p", int32(i), 0)
	}
	top := b.Top(2)
	if len(top) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(top))
	}
	if top[0].ID != 5 || top[1].ID != 4 {
		t.Errorf("expected ids [5 4], got [%d %d]", top[0].ID, top[1].ID)
	}
}
