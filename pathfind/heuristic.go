package pathfind

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Heuristic estimates the remaining cost between two cells
type Heuristic interface {
	// Score returns a non-negative estimate from (sx, sy) to (tx, ty).
	Score(sx, sy, tx, ty float64) float64
	// Type returns the stable tag used when fingerprinting requests.
	Type() int
}

// Kind is a built-in heuristic. Its value doubles as the fingerprint tag.
type Kind int

const (
	Manhattan Kind = iota
	Mixing
	Diagonal
	DiagonalShort
	Euclidean
	EuclideanNoSQR
	Closest
	ClosestSquared
	BestFirst
	Octile
	DiagonalMin
)

// CustomTagBase is the smallest tag custom heuristics should use.
const CustomTagBase = 100

const bestFirstWeight = 10

type kindEntry struct {
	name  string
	score func(dx, dy float64) float64
}

// kinds is indexed by Kind; dx and dy are already absolute values.
var kinds = [...]kindEntry{
	Manhattan: {"manhattan", func(dx, dy float64) float64 {
		return dx + dy
	}},
	Mixing: {"mixing", func(dx, dy float64) float64 {
		return (dx + dy + math.Sqrt(dx*dx+dy*dy)) / 2
	}},
	Diagonal: {"diagonal", func(dx, dy float64) float64 {
		return math.Max(dx, dy)
	}},
	DiagonalShort: {"diagonal_short", func(dx, dy float64) float64 {
		diagonal := math.Min(dx, dy)
		straight := dx + dy
		return 2*diagonal + (straight - 2*diagonal)
	}},
	Euclidean: {"euclidean", func(dx, dy float64) float64 {
		return math.Sqrt(dx*dx + dy*dy)
	}},
	EuclideanNoSQR: {"euclidean_nosqr", func(dx, dy float64) float64 {
		return dx*dx + dy*dy
	}},
	Closest: {"closest", func(dx, dy float64) float64 {
		return math.Sqrt(dx*dx + dy*dy)
	}},
	ClosestSquared: {"closest_squared", func(dx, dy float64) float64 {
		return dx*dx + dy*dy
	}},
	BestFirst: {"best_first", func(dx, dy float64) float64 {
		return bestFirstWeight * (dx + dy)
	}},
	Octile: {"octile", func(dx, dy float64) float64 {
		return math.Max(dx, dy) + (math.Sqrt2-1)*math.Min(dx, dy)
	}},
	DiagonalMin: {"diagonal_min", func(dx, dy float64) float64 {
		return math.Min(dx, dy)
	}},
}

// Score implements Heuristic
func (k Kind) Score(sx, sy, tx, ty float64) float64 {
	entry := k.entry()
	return entry.score(math.Abs(sx-tx), math.Abs(sy-ty))
}

// Type implements Heuristic
func (k Kind) Type() int {
	return int(k)
}

// String returns the heuristic name used by map files and the API
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kinds) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kinds[k].name
}

func (k Kind) entry() kindEntry {
	if k < 0 || int(k) >= len(kinds) {
		return kinds[Manhattan]
	}
	return kinds[k]
}

// Kinds returns every built-in heuristic in tag order
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	for i := range kinds {
		out[i] = Kind(i)
	}
	return out
}

// ParseHeuristic looks up a built-in heuristic by name, ignoring case and
// treating '-' and ' ' like '_'. An empty name selects Manhattan.
func ParseHeuristic(name string) (Kind, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)
	if normalized == "" {
		return Manhattan, nil
	}
	for i, entry := range kinds {
		if entry.name == normalized {
			return Kind(i), nil
		}
	}
	names := make([]string, 0, len(kinds))
	for _, entry := range kinds {
		names = append(names, entry.name)
	}
	sort.Strings(names)
	return Manhattan, fmt.Errorf("%w: %q (available: %s)", ErrUnknownHeuristic, name, strings.Join(names, ", "))
}

// ScoreFunc is the signature of a custom heuristic
type ScoreFunc func(sx, sy, tx, ty float64) float64

type customHeuristic struct {
	tag   int
	name  string
	score ScoreFunc
}

// NewHeuristic wraps fn as a Heuristic with the given fingerprint tag.
// Tags below CustomTagBase collide with built-in kinds in the result cache.
func NewHeuristic(tag int, name string, fn ScoreFunc) Heuristic {
	return customHeuristic{tag: tag, name: name, score: fn}
}

func (h customHeuristic) Score(sx, sy, tx, ty float64) float64 {
	return h.score(sx, sy, tx, ty)
}

func (h customHeuristic) Type() int {
	return h.tag
}

func (h customHeuristic) String() string {
	return h.name
}

// orDefault substitutes Manhattan for a nil heuristic
func orDefault(h Heuristic) Heuristic {
	if h == nil {
		return Manhattan
	}
	return h
}

// HeuristicName returns a printable name for any heuristic
func HeuristicName(h Heuristic) string {
	h = orDefault(h)
	if s, ok := h.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("heuristic(%d)", h.Type())
}
