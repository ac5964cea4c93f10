package atlas

import "github.com/wricardo/mcp-training/roadroute/pathfind"

// Render draws path over the layout. The first cell is marked with
// StartSymbol, the last with GoalSymbol and the rest with PathSymbol.
// Cells outside the layout are ignored.
func (m *MapConfig) Render(path []pathfind.Coordinate) []string {
	rows := make([][]rune, len(m.Layout))
	for y, row := range m.Layout {
		rows[y] = []rune(row)
	}

	mark := func(c pathfind.Coordinate, symbol rune) {
		if c.Y < 0 || c.Y >= len(rows) || c.X < 0 || c.X >= len(rows[c.Y]) {
			return
		}
		rows[c.Y][c.X] = symbol
	}

	for i := 1; i < len(path)-1; i++ {
		mark(path[i], PathSymbol)
	}
	if len(path) > 0 {
		mark(path[len(path)-1], GoalSymbol)
		mark(path[0], StartSymbol)
	}

	out := make([]string, len(rows))
	for y, row := range rows {
		out[y] = string(row)
	}
	return out
}

// LocalView returns the 3x3 window centred on c. Cells outside the map are
// shown as building symbols.
func (m *MapConfig) LocalView(c pathfind.Coordinate) []string {
	out := make([]string, 0, 3)
	for dy := -1; dy <= 1; dy++ {
		line := make([]rune, 0, 3)
		for dx := -1; dx <= 1; dx++ {
			y, x := c.Y+dy, c.X+dx
			if y < 0 || y >= len(m.Layout) || x < 0 || x >= len(m.Layout[y]) {
				line = append(line, 'B')
				continue
			}
			line = append(line, rune(m.Layout[y][x]))
		}
		out = append(out, string(line))
	}
	return out
}
