package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/mcp-training/roadroute/pathfind"
	"github.com/wricardo/mcp-training/roadroute/planner/atlas"
)

const easyMap = `{
  "name": "Easy Loop",
  "description": "Small ring road around a single supercharger",
  "layout": ["BBBBBBB", "BHRRRPB", "BRBBBRB", "BRRSRRB", "BRBBBRB", "BPRRRRB", "BBBBBBB"]
}`

const isolatedParkMap = `{
  "name": "Island",
  "description": "The park cannot be reached",
  "layout": ["BBBBB", "BHRRB", "BBBBB", "BPRRB", "BBBBB"]
}`

const noHomeMap = `{
  "name": "Homeless",
  "description": "No place to start",
  "layout": ["BBBBB", "BRRPB", "BBBBB"]
}`

func writeMap(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name+".json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write map: %v", err)
	}
	return path
}

func loadEasy(t *testing.T) *atlas.MapConfig {
	t.Helper()
	config, err := atlas.ParseMapConfig([]byte(easyMap))
	if err != nil {
		t.Fatalf("Failed to parse map: %v", err)
	}
	return config
}

func TestParseCoordinate(t *testing.T) {
	tests := []struct {
		input   string
		want    pathfind.Coordinate
		wantErr bool
	}{
		{"1,2", pathfind.Coordinate{X: 1, Y: 2}, false},
		{" 10,0 ", pathfind.Coordinate{X: 10, Y: 0}, false},
		{"1;2", pathfind.Coordinate{}, true},
		{"", pathfind.Coordinate{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseCoordinate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseCoordinate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseCoordinate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestMapPath(t *testing.T) {
	dir := t.TempDir()
	existing := writeMap(t, dir, "easy", easyMap)

	if got := mapPath("maps", "easy"); got != filepath.Join("maps", "easy.json") {
		t.Errorf("Expected lookup in maps dir, got %s", got)
	}
	if got := mapPath("maps", "easy.json"); got != filepath.Join("maps", "easy.json") {
		t.Errorf("Expected missing file to fall back to maps dir, got %s", got)
	}
	if got := mapPath("maps", existing); got != existing {
		t.Errorf("Expected existing path unchanged, got %s", got)
	}
}

func TestFindRoute(t *testing.T) {
	config := loadEasy(t)

	t.Run("found", func(t *testing.T) {
		var out bytes.Buffer
		err := findRoute(context.Background(), &out, config, findOptions{
			From: pathfind.Coordinate{X: 1, Y: 1},
			To:   pathfind.Coordinate{X: 3, Y: 3},
		})
		if err != nil {
			t.Fatalf("findRoute failed: %v", err)
		}
		text := out.String()
		for _, want := range []string{"Easy Loop: (1,1) -> (3,3) (manhattan, astar)", "✅ 4 steps", "B@RRRPB", "B**XRRB"} {
			if !strings.Contains(text, want) {
				t.Errorf("Expected %q in output:\n%s", want, text)
			}
		}
	})

	t.Run("blocked goal", func(t *testing.T) {
		var out bytes.Buffer
		err := findRoute(context.Background(), &out, config, findOptions{
			From: pathfind.Coordinate{X: 1, Y: 1},
			To:   pathfind.Coordinate{X: 2, Y: 2},
		})
		if err != nil {
			t.Fatalf("findRoute failed: %v", err)
		}
		if !strings.Contains(out.String(), "❌ no_path") {
			t.Errorf("Expected no_path, got:\n%s", out.String())
		}
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			name string
			opts findOptions
		}{
			{"outside map", findOptions{From: pathfind.Coordinate{X: 1, Y: 1}, To: pathfind.Coordinate{X: 9, Y: 9}}},
			{"bad heuristic", findOptions{Heuristic: "teleport", To: pathfind.Coordinate{X: 1, Y: 1}}},
			{"bad algorithm", findOptions{Algorithm: "bfs", To: pathfind.Coordinate{X: 1, Y: 1}}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				var out bytes.Buffer
				if err := findRoute(context.Background(), &out, config, tt.opts); err == nil {
					t.Error("Expected an error")
				}
			})
		}
	})
}

func TestValidateMap(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name      string
		content   string
		wantValid bool
		wantText  string
	}{
		{"easy", easyMap, true, "Connectivity: all 3 landmarks reachable from home"},
		{"island", isolatedParkMap, false, "Unreachable: park at (1,3)"},
		{"homeless", noHomeMap, false, "Must have at least 1 home (H) cell"},
		{"broken", `{"name": "x", nope}`, false, "invalid character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := writeMap(t, dir, tt.name, tt.content)
			result := validateMap(context.Background(), file)

			if result.Valid != tt.wantValid {
				t.Fatalf("Valid = %v, want %v (errors: %v)", result.Valid, tt.wantValid, result.Errors)
			}
			if result.File != tt.name+".json" {
				t.Errorf("Unexpected file name %s", result.File)
			}
			lines := append(append([]string{}, result.Errors...), result.Info...)
			if !strings.Contains(strings.Join(lines, "\n"), tt.wantText) {
				t.Errorf("Expected %q in %v", tt.wantText, lines)
			}
		})
	}
}

func TestAnalyzeMap(t *testing.T) {
	a := analyzeMap(context.Background(), loadEasy(t))

	if a.Width != 7 || a.Height != 7 {
		t.Errorf("Unexpected size %dx%d", a.Width, a.Height)
	}
	if a.Walkable != 19 {
		t.Errorf("Expected 19 walkable cells, got %d", a.Walkable)
	}
	if a.Chargers != 2 {
		t.Errorf("Expected 2 chargers, got %d", a.Chargers)
	}
	if a.Tiles[atlas.Park] != 2 || a.Tiles[atlas.Supercharger] != 1 {
		t.Errorf("Unexpected tile counts: %v", a.Tiles)
	}
	if a.Farthest != 6 || a.FarthestAt != (pathfind.Coordinate{X: 3, Y: 5}) {
		t.Errorf("Expected farthest cell (3,5) at 6 steps, got %v at %d", a.FarthestAt, a.Farthest)
	}
	if len(a.Unreachable) != 0 {
		t.Errorf("Expected no unreachable cells, got %v", a.Unreachable)
	}

	var out bytes.Buffer
	printAnalysis(&out, a)
	if !strings.Contains(out.String(), "Every walkable cell has a route to a charger") {
		t.Errorf("Unexpected analysis output:\n%s", out.String())
	}
}

func TestAnalyzeMap_Unreachable(t *testing.T) {
	config, err := atlas.ParseMapConfig([]byte(isolatedParkMap))
	if err != nil {
		t.Fatalf("Failed to parse map: %v", err)
	}

	a := analyzeMap(context.Background(), config)
	if len(a.Unreachable) != 3 {
		t.Fatalf("Expected the 3 cells of the bottom street to be unreachable, got %v", a.Unreachable)
	}

	var out bytes.Buffer
	printAnalysis(&out, a)
	if !strings.Contains(out.String(), "3 cells have no route to any charger") {
		t.Errorf("Unexpected analysis output:\n%s", out.String())
	}
}

func TestListHeuristics(t *testing.T) {
	var out bytes.Buffer
	listHeuristics(&out, false, 0, 0)
	if !strings.Contains(out.String(), "manhattan") || !strings.Contains(out.String(), "tag=0") {
		t.Errorf("Unexpected listing:\n%s", out.String())
	}
	if lines := strings.Count(out.String(), "\n"); lines != len(pathfind.Kinds()) {
		t.Errorf("Expected %d lines, got %d", len(pathfind.Kinds()), lines)
	}

	out.Reset()
	listHeuristics(&out, true, 3, 4)
	for _, want := range []string{"manhattan        7.0000", "euclidean        5.0000"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("Expected %q in scores:\n%s", want, out.String())
		}
	}
}

func TestApp(t *testing.T) {
	dir := t.TempDir()
	writeMap(t, dir, "easy", easyMap)

	run := func(args ...string) (string, error) {
		var out bytes.Buffer
		app := newApp()
		app.Writer = &out
		err := app.Run(context.Background(), append([]string{"routectl", "--maps-dir", dir}, args...))
		return out.String(), err
	}

	out, err := run("find", "--from", "1,1", "--to", "5,5", "easy")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if !strings.Contains(out, "✅ 8 steps") {
		t.Errorf("Unexpected find output:\n%s", out)
	}

	out, err = run("validate")
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !strings.Contains(out, "All maps are valid") {
		t.Errorf("Unexpected validate output:\n%s", out)
	}

	out, err = run("analyze", "easy")
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if !strings.Contains(out, "=== Analyzing easy.json ===") {
		t.Errorf("Unexpected analyze output:\n%s", out)
	}

	writeMap(t, dir, "island", isolatedParkMap)
	if _, err := run("validate"); !errors.Is(err, errInvalidMaps) {
		t.Errorf("Expected errInvalidMaps, got %v", err)
	}

	if _, err := run("find", "--from", "1,1", "--to", "3,3"); err == nil {
		t.Error("Expected error without a map argument")
	}
}
