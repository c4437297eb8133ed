package worldmap

// CellType is the single-byte tile type stored in the world's cell grid.
type CellType byte

const (
	Empty      CellType = 0
	Wall       CellType = 1
	Mystery    CellType = 2
	ItemBomb   CellType = 3
	ItemRange  CellType = 4
	ItemRandom CellType = 5
	MobSpawner CellType = 6
	Bomb       CellType = 100
)

// IsItem reports whether c is one of the three pickup item cell types.
func (c CellType) IsItem() bool {
	return c == ItemBomb || c == ItemRange || c == ItemRandom
}

// refKind tags what the internal index overlay currently points at.
type refKind byte

const (
	refEmpty refKind = iota
	refBomb
	refExplosion
)

// CellRef is the internal-index overlay entry for one cell: either empty,
// or a pointer (by ID, never by direct reference) into the bomb or
// explosion store.
type CellRef struct {
	kind refKind
	id   uint64
}

// EmptyRef is the zero-value "nothing here" overlay entry.
var EmptyRef = CellRef{kind: refEmpty}

// BombRef returns an overlay entry pointing at the given bomb ID.
func BombRef(id uint64) CellRef { return CellRef{kind: refBomb, id: id} }

// ExplosionRef returns an overlay entry pointing at the given explosion ID.
func ExplosionRef(id uint64) CellRef { return CellRef{kind: refExplosion, id: id} }

// IsEmpty reports whether the overlay entry references nothing.
func (r CellRef) IsEmpty() bool { return r.kind == refEmpty }

// BombID returns the referenced bomb ID and true, or (0, false) if this
// entry does not reference a bomb.
func (r CellRef) BombID() (uint64, bool) {
	if r.kind != refBomb {
		return 0, false
	}
	return r.id, true
}

// ExplosionID returns the referenced explosion ID and true, or (0, false)
// if this entry does not reference an explosion.
func (r CellRef) ExplosionID() (uint64, bool) {
	if r.kind != refExplosion {
		return 0, false
	}
	return r.id, true
}
