package atlas

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/mcp-training/roadroute/pathfind"
)

// ValidateMapConfig checks that a map can be turned into a route field
func ValidateMapConfig(config *MapConfig) error {
	if config == nil {
		return fmt.Errorf("map validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("map validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("map validation: description is required")
	}

	height := len(config.Layout)
	if height < MinGridSize || height > MaxGridSize {
		return fmt.Errorf("map validation: layout must have between %d and %d rows, got %d", MinGridSize, MaxGridSize, height)
	}
	width := len(config.Layout[0])
	if width < MinGridSize || width > MaxGridSize {
		return fmt.Errorf("map validation: rows must have between %d and %d characters, got %d", MinGridSize, MaxGridSize, width)
	}

	legend, err := config.legend()
	if err != nil {
		return err
	}
	blocked, err := config.blockedTiles()
	if err != nil {
		return err
	}

	walkable := 0
	for i, row := range config.Layout {
		if len(row) != width {
			return fmt.Errorf("map validation: row %d must have %d characters, got %d", i+1, width, len(row))
		}
		for j, char := range row {
			tile, ok := legend[char]
			if !ok {
				return fmt.Errorf("map validation: invalid character '%c' at row %d, col %d", char, i+1, j+1)
			}
			if !blocked[tile] {
				walkable++
			}
		}
	}
	if walkable == 0 {
		return fmt.Errorf("map validation: layout has no walkable cells")
	}

	if _, err := pathfind.ParseHeuristic(config.Heuristic); err != nil {
		return fmt.Errorf("map validation: %w", err)
	}
	if _, err := pathfind.ParseAlgorithm(config.Algorithm); err != nil {
		return fmt.Errorf("map validation: %w", err)
	}
	if config.Overflow < 0 || config.Overflow > MaxOverflow {
		return fmt.Errorf("map validation: overflow must be between 0 and %d, got %d", MaxOverflow, config.Overflow)
	}

	return nil
}

// legend resolves layout characters to tiles
func (m *MapConfig) legend() (map[rune]Tile, error) {
	source := m.Legend
	if len(source) == 0 {
		source = DefaultLegend
	}

	legend := make(map[rune]Tile, len(source))
	for key, name := range source {
		if len(key) != 1 || key[0] > 127 {
			return nil, fmt.Errorf("map validation: legend key %q must be a single ASCII character", key)
		}
		char := rune(key[0])
		if char == StartSymbol || char == GoalSymbol || char == PathSymbol {
			return nil, fmt.Errorf("map validation: legend key %q is reserved for rendering", key)
		}
		tile, err := ParseTile(name)
		if err != nil {
			return nil, fmt.Errorf("map validation: legend[%q]: %w", key, err)
		}
		legend[char] = tile
	}
	return legend, nil
}

func (m *MapConfig) blockedTiles() (map[Tile]bool, error) {
	names := m.Blocked
	if names == nil {
		names = DefaultBlocked
	}

	blocked := make(map[Tile]bool, len(names))
	for _, name := range names {
		tile, err := ParseTile(name)
		if err != nil {
			return nil, fmt.Errorf("map validation: blocked: %w", err)
		}
		blocked[tile] = true
	}
	return blocked, nil
}

// LoadMapConfig loads and validates a map from a JSON file
func LoadMapConfig(filename string) (*MapConfig, error) {
	// Support MAPS_DIR environment variable for alternative map directory
	mapPath := filename
	if mapsDir := os.Getenv("MAPS_DIR"); mapsDir != "" {
		if strings.HasPrefix(filename, "maps/") {
			mapPath = filepath.Join(mapsDir, strings.TrimPrefix(filename, "maps/"))
		}
	}

	data, err := os.ReadFile(mapPath)
	if err != nil {
		return nil, err
	}
	return ParseMapConfig(data)
}

// ParseMapConfig decodes and validates a JSON map
func ParseMapConfig(data []byte) (*MapConfig, error) {
	var config MapConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	if err := ValidateMapConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// DefaultMap returns the built-in map used when no map files are available
func DefaultMap() *MapConfig {
	return &MapConfig{
		Name:        "classic",
		Description: "Classic 15x15 road network with two superchargers",
		Layout: []string{
			"BBBWBBBPBBBWBBB",
			"BRRRRRRRRRRRRRB",
			"BRBBBRRSRBBBRPB",
			"BRBPBRRRRRBPBRB",
			"BRBRBBBRBBBRBBB",
			"BRRRRRRRRRRRRRB",
			"BBBBRWWWWWBBBBB",
			"PRRRRHHHHHRRRRP",
			"BBBBRWWWWWBBBBB",
			"BRRRRRRRRRRRRRB",
			"BRBRBBBRBBBRBBB",
			"BRBPBRRRRRBPBRB",
			"BRBBBRRSRBBBRPB",
			"BRRRRRRRRRRRRRB",
			"BBBWBBBPBBBWBBB",
		},
		Heuristic: "manhattan",
		Algorithm: "astar",
	}
}
