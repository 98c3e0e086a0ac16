package game

import (
	"strconv"
	"strings"

	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/core"
)

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorBlue   = "\033[34m"
	ColorCyan   = "\033[36m"
	ColorYellow = "\033[33m"
	ColorWhite  = "\033[37m"
	ColorGray   = "\033[90m"
)

var sideColors = [core.SideCount]string{ColorBlue, ColorRed}

const (
	EmptySymbol = "·"
	BrickSymbol = "▒"
	SteelSymbol = "█"
	WaterSymbol = "≈"
	BaseSymbol  = "⌂"
	WreckSymbol = "x"
)

// RenderBoard returns a text picture of the board. Tanks are shown by agent
// id, bases by their side color. With color off no escape codes are written.
func RenderBoard(state *core.BoardState, color bool) string {
	m := state.Map
	var sb strings.Builder
	sb.Grow((m.W*12 + 8) * (m.H + 3))

	paint := func(c, s string) {
		if color {
			sb.WriteString(c)
			sb.WriteString(s)
			sb.WriteString(ColorReset)
			return
		}
		sb.WriteString(s)
	}

	sb.WriteString("   ")
	for x := 0; x < m.W; x++ {
		sb.WriteString(" ")
		sb.WriteString(strconv.Itoa(x % 10))
	}
	sb.WriteString("\n")

	for y := 0; y < m.H; y++ {
		if y < 10 {
			sb.WriteString(" ")
		}
		sb.WriteString(strconv.Itoa(y))
		sb.WriteString(" ")
		for x := 0; x < m.W; x++ {
			sb.WriteString(" ")
			c := core.NewCoordinate(x, y)
			ansi, symbol := cellDisplay(state, c)
			paint(ansi, symbol)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(EmptySymbol + "=empty " + BrickSymbol + "=brick " + SteelSymbol + "=steel " +
		WaterSymbol + "=water " + BaseSymbol + "=base " + WreckSymbol + "=wreck 0-3=tanks\n")
	sb.WriteString("turn ")
	sb.WriteString(strconv.Itoa(state.Turn))
	sb.WriteString(" ")
	sb.WriteString(state.Status.String())
	sb.WriteString("\n")
	return sb.String()
}

func cellDisplay(state *core.BoardState, c core.Coordinate) (string, string) {
	if id, ok := state.LiveAgentAt(c); ok {
		return sideColors[core.SideOf(id)], strconv.Itoa(id)
	}
	for _, b := range state.Bases {
		if b.Pos.Equal(c) {
			if !b.Alive {
				return ColorGray, WreckSymbol
			}
			return sideColors[b.Side], BaseSymbol
		}
	}

	switch state.Map.At(c) {
	case core.CellBrick:
		return ColorYellow, BrickSymbol
	case core.CellSteel:
		return ColorWhite, SteelSymbol
	case core.CellWater:
		return ColorCyan, WaterSymbol
	}

	for _, a := range state.Agents {
		if !a.Alive && a.Pos.Equal(c) {
			return ColorGray, WreckSymbol
		}
	}
	return ColorGray, EmptySymbol
}
