package pathfind

import "fmt"

const (
	// DefaultOverflow is the number of frontier pops a search may perform before it gives up.
	DefaultOverflow = 4096

	// DefaultCacheBase and DefaultCacheMultiplier size the default Planner cache.
	DefaultCacheBase       = 32
	DefaultCacheMultiplier = 10
)

// Coordinate is a grid cell index pair
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// String renders the coordinate as "(x,y)"
func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Algorithm selects how the search engine treats already visited cells
type Algorithm int

const (
	// Dijkstra never skips a neighbor that was already enqueued.
	Dijkstra Algorithm = iota
	// AStar keeps open and closed sets and enqueues every cell at most once.
	AStar
)

// String returns the lowercase algorithm name
func (a Algorithm) String() string {
	switch a {
	case Dijkstra:
		return "dijkstra"
	case AStar:
		return "astar"
	default:
		return fmt.Sprintf("algorithm(%d)", int(a))
	}
}

// ParseAlgorithm maps a name to an Algorithm. An empty name selects AStar.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case "", "astar", "a*", "AStar", "ASTAR":
		return AStar, nil
	case "dijkstra", "Dijkstra", "DIJKSTRA":
		return Dijkstra, nil
	default:
		return AStar, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
}

// Outcome describes how the last search of a Finder ended
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeFound
	OutcomeTrivial
	OutcomeNoPath
	OutcomeOverflow
	OutcomeCancelled
	OutcomeClosed
)

var outcomeNames = map[Outcome]string{
	OutcomePending:   "pending",
	OutcomeFound:     "found",
	OutcomeTrivial:   "trivial",
	OutcomeNoPath:    "no_path",
	OutcomeOverflow:  "overflow",
	OutcomeCancelled: "cancelled",
	OutcomeClosed:    "closed",
}

// String returns a machine-friendly outcome code
func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Cacheable reports whether a result with this outcome depends only on the request.
// Cancelled and closed runs are not.
func (o Outcome) Cacheable() bool {
	switch o {
	case OutcomeFound, OutcomeTrivial, OutcomeNoPath, OutcomeOverflow:
		return true
	}
	return false
}

// Grid is the walkability surface a Finder searches
type Grid interface {
	// Neighbors returns the 4- or 8-connected cells around c in a fixed order.
	Neighbors(c Coordinate, allDirections bool) []Coordinate
	// IsWalkable reports whether c may be entered.
	IsWalkable(c Coordinate) bool
}

// Surface is a Grid that exposes its raw cells for fingerprinting
type Surface interface {
	Grid
	Cells() [][]int
	Limits() []int
}

func copyPath(path []Coordinate) []Coordinate {
	out := make([]Coordinate, len(path))
	copy(out, path)
	return out
}
