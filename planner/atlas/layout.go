package atlas

import (
	"sort"

	"github.com/wricardo/mcp-training/roadroute/pathfind"
)

// Cells converts the layout to tile values indexed as cells[y][x].
// Characters missing from the legend become roads; validate first.
func (m *MapConfig) Cells() [][]int {
	legend, err := m.legend()
	if err != nil {
		legend = map[rune]Tile{}
	}

	cells := make([][]int, len(m.Layout))
	for y, row := range m.Layout {
		cells[y] = make([]int, 0, len(row))
		for _, char := range row {
			cells[y] = append(cells[y], int(legend[char]))
		}
	}
	return cells
}

// Limits returns the blocked tile values in ascending order
func (m *MapConfig) Limits() []int {
	blocked, err := m.blockedTiles()
	if err != nil {
		blocked = map[Tile]bool{Water: true, Building: true}
	}

	limits := make([]int, 0, len(blocked))
	for tile := range blocked {
		limits = append(limits, int(tile))
	}
	sort.Ints(limits)
	return limits
}

// Field builds the route surface of the map
func (m *MapConfig) Field() *pathfind.Field {
	return pathfind.NewFieldWithLimits(m.Cells(), m.Limits())
}

// TileAt returns the tile under c
func (m *MapConfig) TileAt(c pathfind.Coordinate) (Tile, bool) {
	if c.Y < 0 || c.Y >= len(m.Layout) {
		return Road, false
	}
	row := []rune(m.Layout[c.Y])
	if c.X < 0 || c.X >= len(row) {
		return Road, false
	}
	legend, err := m.legend()
	if err != nil {
		return Road, false
	}
	tile, ok := legend[row[c.X]]
	return tile, ok
}

// IsBlocked reports whether tile may not be entered on this map
func (m *MapConfig) IsBlocked(tile Tile) bool {
	blocked, err := m.blockedTiles()
	if err != nil {
		return tile == Water || tile == Building
	}
	return blocked[tile]
}

// Landmarks lists every cell of the given tile in row-major order
func (m *MapConfig) Landmarks(tile Tile) []pathfind.Coordinate {
	var out []pathfind.Coordinate
	for y, row := range m.Cells() {
		for x, value := range row {
			if value == int(tile) {
				out = append(out, pathfind.Coordinate{X: x, Y: y})
			}
		}
	}
	return out
}

// CountTile counts the cells of the given tile
func (m *MapConfig) CountTile(tile Tile) int {
	return len(m.Landmarks(tile))
}

// RouteHeuristic returns the map's heuristic, Manhattan when unset
func (m *MapConfig) RouteHeuristic() (pathfind.Kind, error) {
	return pathfind.ParseHeuristic(m.Heuristic)
}

// RouteAlgorithm returns the map's algorithm, AStar when unset
func (m *MapConfig) RouteAlgorithm() (pathfind.Algorithm, error) {
	return pathfind.ParseAlgorithm(m.Algorithm)
}
