package atlas

import (
	"fmt"
	"strings"
)

// Tile is the value a map cell carries into the route engine
type Tile int

const (
	Road Tile = iota
	Home
	Park
	Supercharger
	Water
	Building
)

const (
	// Validation constants
	MinGridSize = 2
	MaxGridSize = 100
	MaxOverflow = 1 << 20

	// Render symbols
	StartSymbol = '@'
	GoalSymbol  = 'X'
	PathSymbol  = '*'
)

var tileNames = [...]string{
	Road:         "road",
	Home:         "home",
	Park:         "park",
	Supercharger: "supercharger",
	Water:        "water",
	Building:     "building",
}

// String returns the legend name of the tile
func (t Tile) String() string {
	if t < 0 || int(t) >= len(tileNames) {
		return fmt.Sprintf("tile(%d)", int(t))
	}
	return tileNames[t]
}

// ParseTile maps a legend name to a Tile
func ParseTile(name string) (Tile, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for i, tileName := range tileNames {
		if tileName == normalized {
			return Tile(i), nil
		}
	}
	return Road, fmt.Errorf("unknown tile type %q", name)
}

// Tiles returns every tile type in value order
func Tiles() []Tile {
	out := make([]Tile, len(tileNames))
	for i := range tileNames {
		out[i] = Tile(i)
	}
	return out
}

// DefaultLegend is used when a map does not declare its own
var DefaultLegend = map[string]string{
	"R": "road",
	"H": "home",
	"P": "park",
	"S": "supercharger",
	"W": "water",
	"B": "building",
}

// DefaultBlocked lists the tiles a route may not enter unless a map says otherwise
var DefaultBlocked = []string{"water", "building"}

// MapConfig is a road map loaded from JSON
type MapConfig struct {
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	Layout        []string          `json:"layout"`
	Legend        map[string]string `json:"legend,omitempty"`
	Blocked       []string          `json:"blocked,omitempty"`
	AllDirections bool              `json:"all_directions"`
	Heuristic     string            `json:"heuristic,omitempty"`
	Algorithm     string            `json:"algorithm,omitempty"`
	Overflow      int               `json:"overflow,omitempty"`
}

// Width returns the number of columns of the layout
func (m *MapConfig) Width() int {
	if len(m.Layout) == 0 {
		return 0
	}
	return len(m.Layout[0])
}

// Height returns the number of rows of the layout
func (m *MapConfig) Height() int {
	return len(m.Layout)
}
