package core

import "fmt"

// Coordinate represents a cell position on the field
type Coordinate struct {
	X, Y int
}

// NewCoordinate creates a new coordinate with the given x and y values
func NewCoordinate(x, y int) Coordinate {
	return Coordinate{X: x, Y: y}
}

// FromIndex creates a coordinate from a row-major cell index
func FromIndex(idx, width int) Coordinate {
	return Coordinate{
		X: idx % width,
		Y: idx / width,
	}
}

// IsValid checks if the coordinate is within the given bounds
func (c Coordinate) IsValid(width, height int) bool {
	return c.X >= 0 && c.X < width && c.Y >= 0 && c.Y < height
}

// ToIndex converts the coordinate to a row-major cell index
func (c Coordinate) ToIndex(width int) int {
	return c.Y*width + c.X
}

// DistanceTo calculates the Manhattan distance to another coordinate
func (c Coordinate) DistanceTo(other Coordinate) int {
	dx := c.X - other.X
	dy := c.Y - other.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Add returns the sum of this coordinate and another
func (c Coordinate) Add(other Coordinate) Coordinate {
	return Coordinate{
		X: c.X + other.X,
		Y: c.Y + other.Y,
	}
}

// Move returns the coordinate one step away in the given direction.
// An invalid direction returns c unchanged.
func (c Coordinate) Move(d Direction) Coordinate {
	if !d.IsValid() {
		return c
	}
	return c.Add(d.Delta())
}

// Equal checks if two coordinates are equal
func (c Coordinate) Equal(other Coordinate) bool {
	return c.X == other.X && c.Y == other.Y
}

// String returns a string representation of the coordinate
func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Direction represents a cardinal direction. Values match the wire protocol:
// 0=up, 1=right, 2=down, 3=left.
type Direction int

const (
	Up Direction = iota
	Right
	Down
	Left
)

// directionVectors holds the coordinate offset for each direction, indexed by Direction
var directionVectors = [4]Coordinate{
	Up:    {X: 0, Y: -1},
	Right: {X: 1, Y: 0},
	Down:  {X: 0, Y: 1},
	Left:  {X: -1, Y: 0},
}

// AllDirections lists the directions in protocol order
var AllDirections = [4]Direction{Up, Right, Down, Left}

// IsValid reports whether d is one of the four cardinal directions
func (d Direction) IsValid() bool {
	return d >= Up && d <= Left
}

// Delta returns the (dx,dy) offset of one step in direction d
func (d Direction) Delta() Coordinate {
	if !d.IsValid() {
		return Coordinate{}
	}
	return directionVectors[d]
}

// Opposite returns the direction rotated by 180 degrees
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

// IsOpposite reports whether d and other point exactly against each other
func (d Direction) IsOpposite(other Direction) bool {
	return d.IsValid() && other.IsValid() && d.Opposite() == other
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}
