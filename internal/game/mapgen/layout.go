package mapgen

import (
	"fmt"

	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/core"
)

// RowsPerWord is how many field rows one layout word covers
const RowsPerWord = 3

// Layout is the compact obstacle encoding bots and clients exchange. Each
// slice holds one word per band of RowsPerWord rows; bit (y%3)*W + x of word
// y/3 marks cell (x, y). A cell set in several layers resolves as brick,
// then water, then steel.
type Layout struct {
	Brick []uint64 `json:"brick"`
	Water []uint64 `json:"water"`
	Steel []uint64 `json:"steel"`
}

// WordsFor returns the number of words each layer needs for h rows
func WordsFor(h int) int {
	return (h + RowsPerWord - 1) / RowsPerWord
}

// Encode packs the obstacles of m into a Layout
func Encode(m *core.Map) Layout {
	n := WordsFor(m.H)
	l := Layout{
		Brick: make([]uint64, n),
		Water: make([]uint64, n),
		Steel: make([]uint64, n),
	}
	for idx, kind := range m.Cells {
		x, y := m.XY(idx)
		word, bit := y/RowsPerWord, uint((y%RowsPerWord)*m.W+x)
		switch kind {
		case core.CellBrick:
			l.Brick[word] |= 1 << bit
		case core.CellWater:
			l.Water[word] |= 1 << bit
		case core.CellSteel:
			l.Steel[word] |= 1 << bit
		}
	}
	return l
}

// Decode expands l into a w×h map. It rejects layouts with the wrong number
// of words or bits set past the end of the field.
func (l Layout) Decode(w, h int) (*core.Map, error) {
	if w <= 0 || h <= 0 || w*RowsPerWord > 64 {
		return nil, fmt.Errorf("field %dx%d: %w", w, h, core.ErrInvalidLayout)
	}

	n := WordsFor(h)
	layers := []struct {
		name  string
		words []uint64
		kind  core.CellKind
	}{
		{"brick", l.Brick, core.CellBrick},
		{"water", l.Water, core.CellWater},
		{"steel", l.Steel, core.CellSteel},
	}

	for _, layer := range layers {
		if len(layer.words) != n {
			return nil, fmt.Errorf("%s layer has %d words, want %d: %w", layer.name, len(layer.words), n, core.ErrInvalidLayout)
		}
		for i, word := range layer.words {
			rows := min(RowsPerWord, h-i*RowsPerWord)
			if valid := uint(rows * w); valid < 64 && word>>valid != 0 {
				return nil, fmt.Errorf("%s word %d sets cells outside the field: %w", layer.name, i, core.ErrInvalidLayout)
			}
		}
	}

	m := core.NewMap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			word, bit := y/RowsPerWord, uint((y%RowsPerWord)*w+x)
			for _, layer := range layers {
				if layer.words[word]&(1<<bit) != 0 {
					m.Set(core.NewCoordinate(x, y), layer.kind)
					break
				}
			}
		}
	}
	return m, nil
}
