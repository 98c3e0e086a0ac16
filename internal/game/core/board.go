package core

import "fmt"

// CellKind is the terrain occupying a single cell of the field.
type CellKind uint8

const (
	CellEmpty CellKind = iota
	CellBrick
	CellSteel
	CellWater
)

// Default field dimensions
const (
	FieldWidth  = 9
	FieldHeight = 9
)

func (k CellKind) String() string {
	switch k {
	case CellEmpty:
		return "empty"
	case CellBrick:
		return "brick"
	case CellSteel:
		return "steel"
	case CellWater:
		return "water"
	default:
		return fmt.Sprintf("CellKind(%d)", int(k))
	}
}

// BlocksMovement reports whether a tank may not enter a cell of this kind.
// Any non-empty terrain blocks movement, water included.
func (k CellKind) BlocksMovement() bool { return k != CellEmpty }

// BlocksFire reports whether a bullet stops at this kind without affecting it.
// Bricks also stop bullets but are consumed, see Map.DestroyBrick.
func (k CellKind) BlocksFire() bool { return k == CellSteel }

// IsDestructible reports whether a bullet hit removes the cell
func (k CellKind) IsDestructible() bool { return k == CellBrick }

// Map is the fixed-size terrain grid of one game.
type Map struct {
	W, H  int
	Cells []CellKind // length = W*H (row-major)
}

func NewMap(w, h int) *Map {
	return &Map{W: w, H: h, Cells: make([]CellKind, w*h)}
}

func (m *Map) Idx(x, y int) int      { return y*m.W + x }
func (m *Map) XY(idx int) (int, int) { return idx % m.W, idx / m.W }

// InBounds checks if the coordinate lies on the field
func (m *Map) InBounds(c Coordinate) bool {
	return c.IsValid(m.W, m.H)
}

// At returns the kind of the cell at c. Out of bounds cells read as steel so
// that callers walking off the field never see an empty cell.
func (m *Map) At(c Coordinate) CellKind {
	if !m.InBounds(c) {
		return CellSteel
	}
	return m.Cells[c.ToIndex(m.W)]
}

// Set overwrites the cell at c. Used during map construction only.
func (m *Map) Set(c Coordinate, k CellKind) {
	if !m.InBounds(c) {
		return
	}
	m.Cells[c.ToIndex(m.W)] = k
}

// BlocksMovement reports whether a tank may not enter c (off-field counts as blocked)
func (m *Map) BlocksMovement(c Coordinate) bool {
	return !m.InBounds(c) || m.At(c).BlocksMovement()
}

// BlocksFire reports whether a bullet is stopped at c without destroying it
func (m *Map) BlocksFire(c Coordinate) bool {
	return m.InBounds(c) && m.At(c).BlocksFire()
}

// DestroyBrick turns the brick at c into empty ground. Destroying anything
// other than a brick is a resolver bug and returns ErrNotBrick.
func (m *Map) DestroyBrick(c Coordinate) error {
	if !m.InBounds(c) {
		return fmt.Errorf("destroy brick at %s: %w", c, ErrInvalidCoordinates)
	}
	idx := c.ToIndex(m.W)
	if m.Cells[idx] != CellBrick {
		return fmt.Errorf("destroy brick at %s (found %s): %w", c, m.Cells[idx], ErrNotBrick)
	}
	m.Cells[idx] = CellEmpty
	return nil
}

// Count returns how many cells hold the given kind
func (m *Map) Count(k CellKind) int {
	n := 0
	for _, c := range m.Cells {
		if c == k {
			n++
		}
	}
	return n
}

// Clone returns an independent copy of the map
func (m *Map) Clone() *Map {
	cells := make([]CellKind, len(m.Cells))
	copy(cells, m.Cells)
	return &Map{W: m.W, H: m.H, Cells: cells}
}
