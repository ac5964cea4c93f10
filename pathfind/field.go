package pathfind

// Field is a Grid over a matrix of cell values indexed as cells[y][x].
// A cell is walkable when it is in bounds and its value is not listed in the
// limits. Without limits every non-zero value is blocked.
type Field struct {
	cells  [][]int
	limits []int
	width  int
	height int
}

var (
	straightMoves = []Coordinate{
		{0, -1}, // North
		{1, 0},  // East
		{0, 1},  // South
		{-1, 0}, // West
	}
	diagonalMoves = []Coordinate{
		{1, -1},  // North-East
		{1, 1},   // South-East
		{-1, 1},  // South-West
		{-1, -1}, // North-West
	}
)

// NewField copies cells into a new Field
func NewField(cells [][]int) *Field {
	f := &Field{cells: copyCells(cells), height: len(cells)}
	for _, row := range cells {
		if len(row) > f.width {
			f.width = len(row)
		}
	}
	return f
}

// NewFieldWithLimits is NewField followed by SetLimits
func NewFieldWithLimits(cells [][]int, limits []int) *Field {
	f := NewField(cells)
	f.SetLimits(limits)
	return f
}

// SetLimits replaces the blocked cell values. A nil slice restores the
// non-zero-is-blocked rule.
func (f *Field) SetLimits(limits []int) {
	if limits == nil {
		f.limits = nil
		return
	}
	f.limits = append([]int{}, limits...)
}

// Width returns the length of the longest row
func (f *Field) Width() int { return f.width }

// Height returns the number of rows
func (f *Field) Height() int { return f.height }

// Get returns the value at (x, y) and whether it is in bounds
func (f *Field) Get(x, y int) (int, bool) {
	if y < 0 || y >= len(f.cells) {
		return 0, false
	}
	row := f.cells[y]
	if x < 0 || x >= len(row) {
		return 0, false
	}
	return row[x], true
}

// InBounds reports whether c addresses a cell of the field
func (f *Field) InBounds(c Coordinate) bool {
	_, ok := f.Get(c.X, c.Y)
	return ok
}

// IsWalkable implements Grid
func (f *Field) IsWalkable(c Coordinate) bool {
	value, ok := f.Get(c.X, c.Y)
	if !ok {
		return false
	}
	if f.limits == nil {
		return value == 0
	}
	for _, limit := range f.limits {
		if limit == value {
			return false
		}
	}
	return true
}

// Neighbors implements Grid. Only in-bounds cells are returned, straight moves
// first (N, E, S, W) followed by diagonals (NE, SE, SW, NW).
func (f *Field) Neighbors(c Coordinate, allDirections bool) []Coordinate {
	out := make([]Coordinate, 0, 8)
	for _, d := range straightMoves {
		next := Coordinate{X: c.X + d.X, Y: c.Y + d.Y}
		if f.InBounds(next) {
			out = append(out, next)
		}
	}
	if !allDirections {
		return out
	}
	for _, d := range diagonalMoves {
		next := Coordinate{X: c.X + d.X, Y: c.Y + d.Y}
		if f.InBounds(next) {
			out = append(out, next)
		}
	}
	return out
}

// Cells implements Surface. The returned matrix is a copy.
func (f *Field) Cells() [][]int {
	return copyCells(f.cells)
}

// Limits implements Surface. Nil means no limits were set.
func (f *Field) Limits() []int {
	if f.limits == nil {
		return nil
	}
	return append([]int{}, f.limits...)
}

// rawCells and rawLimits skip the defensive copies for fingerprinting.
func (f *Field) rawCells() [][]int { return f.cells }
func (f *Field) rawLimits() []int  { return f.limits }

func copyCells(cells [][]int) [][]int {
	out := make([][]int, len(cells))
	for i, row := range cells {
		out[i] = append([]int{}, row...)
	}
	return out
}

// Adjacent reports whether b is one step away from a under the given connectivity
func Adjacent(a, b Coordinate, allDirections bool) bool {
	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)
	if allDirections {
		return dx <= 1 && dy <= 1 && dx+dy > 0
	}
	return dx+dy == 1
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
