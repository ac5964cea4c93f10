package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/roadroute/pathfind"
	"github.com/wricardo/mcp-training/roadroute/planner/atlas"
)

var errInvalidMaps = errors.New("some maps have errors")

func output(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

// mapPath resolves a map argument to a file: paths are used as-is, bare names
// are looked up in the maps directory.
func mapPath(mapsDir, arg string) string {
	if strings.ContainsAny(arg, `/\`) || strings.HasSuffix(arg, ".json") {
		if _, err := os.Stat(arg); err == nil {
			return arg
		}
	}
	return filepath.Join(mapsDir, strings.TrimSuffix(arg, ".json")+".json")
}

// mapFiles returns the files named by args, or every map in mapsDir
func mapFiles(mapsDir string, args []string) ([]string, error) {
	if len(args) > 0 {
		files := make([]string, 0, len(args))
		for _, arg := range args {
			files = append(files, mapPath(mapsDir, arg))
		}
		return files, nil
	}

	files, err := filepath.Glob(filepath.Join(mapsDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("finding map files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no maps found in %s", mapsDir)
	}
	sort.Strings(files)
	return files, nil
}

func parseCoordinate(s string) (pathfind.Coordinate, error) {
	var c pathfind.Coordinate
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d,%d", &c.X, &c.Y); err != nil {
		return c, fmt.Errorf("bad coordinate %q, want x,y", s)
	}
	return c, nil
}

// searchBound is an overflow large enough to explore the whole map
func searchBound(config *atlas.MapConfig) int {
	return config.Width() * config.Height() * 8
}

// Find

type findOptions struct {
	From, To  pathfind.Coordinate
	Heuristic string
	Algorithm string
	Diagonal  bool
	Flying    bool
	Overflow  int
}

func runFind(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("find takes exactly one MAP argument")
	}
	config, err := atlas.LoadMapConfig(mapPath(cmd.Root().String("maps-dir"), cmd.Args().First()))
	if err != nil {
		return fmt.Errorf("loading map: %w", err)
	}

	from, err := parseCoordinate(cmd.String("from"))
	if err != nil {
		return err
	}
	to, err := parseCoordinate(cmd.String("to"))
	if err != nil {
		return err
	}

	return findRoute(ctx, output(cmd), config, findOptions{
		From:      from,
		To:        to,
		Heuristic: cmd.String("heuristic"),
		Algorithm: cmd.String("algorithm"),
		Diagonal:  cmd.Bool("diagonal") || config.AllDirections,
		Flying:    cmd.Bool("flying"),
		Overflow:  cmd.Int("overflow"),
	})
}

func findRoute(ctx context.Context, w io.Writer, config *atlas.MapConfig, opts findOptions) error {
	if opts.Heuristic == "" {
		opts.Heuristic = config.Heuristic
	}
	if opts.Algorithm == "" {
		opts.Algorithm = config.Algorithm
	}
	heuristic, err := pathfind.ParseHeuristic(opts.Heuristic)
	if err != nil {
		return err
	}
	algorithm, err := pathfind.ParseAlgorithm(opts.Algorithm)
	if err != nil {
		return err
	}
	for _, c := range []pathfind.Coordinate{opts.From, opts.To} {
		if _, ok := config.TileAt(c); !ok {
			return fmt.Errorf("cell %s is outside the %dx%d map", c, config.Width(), config.Height())
		}
	}

	result := pathfind.NewPlanner().Resolve(ctx, pathfind.Request{
		Heuristic:     heuristic,
		Cells:         config.Cells(),
		Limits:        config.Limits(),
		Start:         opts.From,
		Goal:          opts.To,
		AllDirections: opts.Diagonal,
		Algorithm:     algorithm,
		Flying:        opts.Flying,
		Overflow:      opts.Overflow,
	})

	fmt.Fprintf(w, "%s: %s -> %s (%s, %s)\n", config.Name, opts.From, opts.To, heuristic, algorithm)
	switch result.Outcome {
	case pathfind.OutcomeFound, pathfind.OutcomeTrivial:
		fmt.Fprintf(w, "✅ %d steps\n", len(result.Path)-1)
	default:
		fmt.Fprintf(w, "❌ %s\n", result.Outcome)
	}
	for _, line := range config.Render(result.Path) {
		fmt.Fprintln(w, line)
	}
	return nil
}

// Validate

// ValidationResult captures the outcome of validating a single map file.
// Info lines are only filled in for valid maps.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
	Info   []string
}

func runValidate(ctx context.Context, cmd *cli.Command) error {
	files, err := mapFiles(cmd.Root().String("maps-dir"), cmd.Args().Slice())
	if err != nil {
		return err
	}

	w := output(cmd)
	allValid := true
	for _, file := range files {
		result := validateMap(ctx, file)
		printValidation(w, result)
		allValid = allValid && result.Valid
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if !allValid {
		return errInvalidMaps
	}
	fmt.Fprintln(w, "✅ All maps are valid!")
	return nil
}

func printValidation(w io.Writer, result ValidationResult) {
	fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)
	if result.Valid {
		fmt.Fprintln(w, "✅ VALID")
		for _, info := range result.Info {
			fmt.Fprintln(w, "  ✓ "+info)
		}
		return
	}
	fmt.Fprintln(w, "❌ INVALID")
	for _, err := range result.Errors {
		fmt.Fprintln(w, "  ❌ "+err)
	}
}

// validateMap loads a map file, validates it and checks that every park and
// supercharger has a route from the first home.
func validateMap(ctx context.Context, file string) ValidationResult {
	result := ValidationResult{File: filepath.Base(file), Valid: true}

	config, err := atlas.LoadMapConfig(file)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	homes := config.Landmarks(atlas.Home)
	parks := config.Landmarks(atlas.Park)
	chargers := config.Landmarks(atlas.Supercharger)
	if len(homes) == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "Must have at least 1 home (H) cell")
	}
	if len(parks) == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "Must have at least 1 park (P)")
	}
	if !result.Valid {
		return result
	}

	planner := pathfind.NewPlanner()
	var unreachable []string
	for _, target := range append(parks, chargers...) {
		if routeSteps(ctx, planner, config, homes[0], target) < 0 {
			tile, _ := config.TileAt(target)
			unreachable = append(unreachable, fmt.Sprintf("%s at %s", tile, target))
		}
	}
	if len(unreachable) > 0 {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Connectivity failure: %d/%d landmarks unreachable from home %s",
			len(unreachable), len(parks)+len(chargers), homes[0]))
		for _, u := range unreachable {
			result.Errors = append(result.Errors, "Unreachable: "+u)
		}
		return result
	}

	heuristic, _ := config.RouteHeuristic()
	result.Info = append(result.Info,
		fmt.Sprintf("Name: %s", config.Name),
		fmt.Sprintf("Grid: %dx%d", config.Width(), config.Height()),
		fmt.Sprintf("Homes: %d, Parks: %d, Superchargers: %d", len(homes), len(parks), len(chargers)),
		fmt.Sprintf("Heuristic: %s, Diagonals: %v", heuristic, config.AllDirections),
		fmt.Sprintf("Connectivity: all %d landmarks reachable from home", len(parks)+len(chargers)),
	)
	return result
}

// routeSteps returns the route length between two cells, or -1 without a route
func routeSteps(ctx context.Context, planner *pathfind.Planner, config *atlas.MapConfig, from, to pathfind.Coordinate) int {
	heuristic, err := config.RouteHeuristic()
	if err != nil {
		heuristic = pathfind.Manhattan
	}
	result := planner.Resolve(ctx, pathfind.Request{
		Heuristic:     heuristic,
		Cells:         config.Cells(),
		Limits:        config.Limits(),
		Start:         from,
		Goal:          to,
		AllDirections: config.AllDirections,
		Overflow:      searchBound(config),
	})
	if len(result.Path) == 0 {
		return -1
	}
	return len(result.Path) - 1
}

// Analyze

// Analysis summarizes a map and how far drivers are from a charger
type Analysis struct {
	Name        string
	Width       int
	Height      int
	Tiles       map[atlas.Tile]int
	Chargers    int
	Walkable    int
	FarthestAt  pathfind.Coordinate
	Farthest    int
	Unreachable []pathfind.Coordinate
}

func runAnalyze(ctx context.Context, cmd *cli.Command) error {
	files, err := mapFiles(cmd.Root().String("maps-dir"), cmd.Args().Slice())
	if err != nil {
		return err
	}

	w := output(cmd)
	for _, file := range files {
		fmt.Fprintf(w, "\n=== Analyzing %s ===\n", filepath.Base(file))
		config, err := atlas.LoadMapConfig(file)
		if err != nil {
			fmt.Fprintf(w, "Error loading map: %v\n", err)
			continue
		}
		printAnalysis(w, analyzeMap(ctx, config))
	}
	return nil
}

// analyzeMap measures, for every walkable cell, the route distance to the
// closest home or supercharger.
func analyzeMap(ctx context.Context, config *atlas.MapConfig) Analysis {
	a := Analysis{
		Name:     config.Name,
		Width:    config.Width(),
		Height:   config.Height(),
		Tiles:    make(map[atlas.Tile]int),
		Farthest: -1,
	}

	chargers := append(config.Landmarks(atlas.Home), config.Landmarks(atlas.Supercharger)...)
	a.Chargers = len(chargers)
	for _, tile := range atlas.Tiles() {
		a.Tiles[tile] = config.CountTile(tile)
	}

	planner := pathfind.NewPlanner()
	for y := 0; y < a.Height; y++ {
		for x := 0; x < a.Width; x++ {
			cell := pathfind.Coordinate{X: x, Y: y}
			tile, ok := config.TileAt(cell)
			if !ok || config.IsBlocked(tile) {
				continue
			}
			a.Walkable++

			best := -1
			for _, charger := range chargers {
				steps := routeSteps(ctx, planner, config, cell, charger)
				if steps >= 0 && (best < 0 || steps < best) {
					best = steps
				}
			}
			if best < 0 {
				a.Unreachable = append(a.Unreachable, cell)
				continue
			}
			if best > a.Farthest {
				a.Farthest = best
				a.FarthestAt = cell
			}
		}
	}
	return a
}

func printAnalysis(w io.Writer, a Analysis) {
	fmt.Fprintf(w, "Name: %s\n", a.Name)
	fmt.Fprintf(w, "Grid Size: %d x %d (%d walkable)\n", a.Width, a.Height, a.Walkable)
	for _, tile := range atlas.Tiles() {
		if a.Tiles[tile] > 0 {
			fmt.Fprintf(w, "  %-13s %d\n", tile.String()+":", a.Tiles[tile])
		}
	}
	fmt.Fprintf(w, "Total Chargers (S+H): %d\n", a.Chargers)

	if a.Farthest >= 0 {
		fmt.Fprintf(w, "Farthest from a charger: %s, %d steps\n", a.FarthestAt, a.Farthest)
	}
	if len(a.Unreachable) == 0 {
		fmt.Fprintln(w, "✅ Every walkable cell has a route to a charger")
		return
	}

	fmt.Fprintf(w, "⚠️  WARNING: %d cells have no route to any charger!\n", len(a.Unreachable))
	for i, c := range a.Unreachable {
		if i == 5 {
			fmt.Fprintf(w, "   ... and %d more\n", len(a.Unreachable)-5)
			break
		}
		fmt.Fprintf(w, "   Unreachable: %s\n", c)
	}
}

// Heuristics

func runHeuristics(ctx context.Context, cmd *cli.Command) error {
	listHeuristics(output(cmd), cmd.IsSet("dx") || cmd.IsSet("dy"), cmd.Float("dx"), cmd.Float("dy"))
	return nil
}

func listHeuristics(w io.Writer, score bool, dx, dy float64) {
	for _, kind := range pathfind.Kinds() {
		if !score {
			fmt.Fprintf(w, "%-16s tag=%d\n", kind, kind.Type())
			continue
		}
		fmt.Fprintf(w, "%-16s %.4f\n", kind, kind.Score(0, 0, dx, dy))
	}
}
