package combat

// DefaultGridSize is the side length of the battle grid in the reference deployment
const DefaultGridSize = 10

// Position is a cell on the battle grid
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Grid is a fixed-size square grid used purely for occupancy bookkeeping.
// Multiple participants may share a cell; there is no collision rule.
type Grid struct {
	Size int `json:"size"`
}

// Contains reports whether the position is inside the grid bounds
func (g Grid) Contains(pos Position) bool {
	return pos.X >= 0 && pos.Y >= 0 && pos.X < g.Size && pos.Y < g.Size
}
