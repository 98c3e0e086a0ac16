package mapgen

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/core"
)

// ErrNoConnectedMap is returned when every attempt produced a field whose
// open cells were not all reachable from side 0's base
var ErrNoConnectedMap = errors.New("no connected map within attempt limit")

// minFieldSize is the smallest side length that fits bases, spawns and the centre cross
const minFieldSize = 5

// MapConfig holds configuration for map generation
type MapConfig struct {
	Width       int
	Height      int
	BrickChance float64
	WaterChance float64
	SteelChance float64
	MaxAttempts int
}

// DefaultMapConfig returns the classic cell odds: a third of the rolled cells
// are brick, then 4/27 of the rest water, then 4/23 of the rest steel
func DefaultMapConfig(w, h int) MapConfig {
	return MapConfig{
		Width:       w,
		Height:      h,
		BrickChance: 1.0 / 3.0,
		WaterChance: 4.0 / 27.0,
		SteelChance: 4.0 / 23.0,
		MaxAttempts: 1000,
	}
}

// Generator handles map generation with deterministic RNG
type Generator struct {
	config MapConfig
	rng    *rand.Rand
}

// NewGenerator creates a new map generator
func NewGenerator(config MapConfig, rng *rand.Rand) *Generator {
	return &Generator{
		config: config,
		rng:    rng,
	}
}

// GenerateMap creates a point-symmetric field. The top half is rolled at
// random and mirrored through the centre, then the fixed features are laid
// over it: cleared base surroundings with a brick in front of each base, a
// brick cross through the middle, steel at the centre and in the two spawn
// columns of the middle row. Spawn and base cells are always empty.
func (g *Generator) GenerateMap() (*core.Map, error) {
	w, h := g.config.Width, g.config.Height
	if w < minFieldSize || h < minFieldSize {
		return nil, fmt.Errorf("field %dx%d smaller than %dx%d: %w", w, h, minFieldSize, minFieldSize, core.ErrInvalidLayout)
	}

	for attempt := 1; attempt <= g.config.MaxAttempts; attempt++ {
		m := g.roll()
		if Connected(m) {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%d attempts: %w", g.config.MaxAttempts, ErrNoConnectedMap)
}

func (g *Generator) roll() *core.Map {
	w, h := g.config.Width, g.config.Height
	m := core.NewMap(w, h)
	half := (h + 1) / 2

	for y := 0; y < half; y++ {
		for x := 0; x < w; x++ {
			m.Set(core.NewCoordinate(x, y), g.rollCell())
		}
	}

	bases := core.DefaultBaseSpawns(w, h)
	base := bases[core.Side0]
	for dx := -1; dx <= 1; dx++ {
		for dy := 0; dy <= 1; dy++ {
			kind := core.CellEmpty
			if dx == 0 && dy == 1 {
				kind = core.CellBrick
			}
			m.Set(base.Add(core.NewCoordinate(dx, dy)), kind)
		}
	}
	for _, dx := range []int{-2, 0, 2} {
		m.Set(base.Add(core.NewCoordinate(dx, 0)), core.CellEmpty)
	}

	for y := 0; y < half; y++ {
		for x := 0; x < w; x++ {
			m.Set(core.NewCoordinate(w-1-x, h-1-y), m.At(core.NewCoordinate(x, y)))
		}
	}

	for y := 2; y < h-2; y++ {
		m.Set(core.NewCoordinate(w/2, y), core.CellBrick)
	}
	for x := 0; x < w; x++ {
		m.Set(core.NewCoordinate(x, h/2), core.CellBrick)
	}

	spawns := core.DefaultAgentSpawns(w, h)
	for _, c := range spawns {
		m.Set(c, core.CellEmpty)
	}
	for _, c := range bases {
		m.Set(c, core.CellEmpty)
	}

	m.Set(core.NewCoordinate(w/2, h/2), core.CellSteel)
	for slot := 0; slot < core.TanksPerSide; slot++ {
		x := spawns[core.AgentID(core.Side0, slot)].X
		m.Set(core.NewCoordinate(x, h/2), core.CellSteel)
	}

	return m
}

func (g *Generator) rollCell() core.CellKind {
	switch {
	case g.rng.Float64() < g.config.BrickChance:
		return core.CellBrick
	case g.rng.Float64() < g.config.WaterChance:
		return core.CellWater
	case g.rng.Float64() < g.config.SteelChance:
		return core.CellSteel
	default:
		return core.CellEmpty
	}
}

// Connected reports whether every cell that is neither water nor steel can
// be reached from side 0's base by orthogonal steps. Bricks count as open
// since they can be shot away.
func Connected(m *core.Map) bool {
	open := func(c core.Coordinate) bool {
		k := m.At(c)
		return m.InBounds(c) && k != core.CellWater && k != core.CellSteel
	}

	total := 0
	for idx := range m.Cells {
		x, y := m.XY(idx)
		if open(core.NewCoordinate(x, y)) {
			total++
		}
	}

	start := core.DefaultBaseSpawns(m.W, m.H)[core.Side0]
	if !open(start) {
		return false
	}

	visited := make([]bool, len(m.Cells))
	visited[m.Idx(start.X, start.Y)] = true
	queue := []core.Coordinate{start}
	count := 1
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range core.AllDirections {
			next := cur.Move(d)
			if !open(next) || visited[m.Idx(next.X, next.Y)] {
				continue
			}
			visited[m.Idx(next.X, next.Y)] = true
			queue = append(queue, next)
			count++
		}
	}
	return count == total
}
