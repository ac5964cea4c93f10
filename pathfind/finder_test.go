package pathfind

import (
	"context"
	"math/rand"
	"testing"
)

func openCells(width, height int) [][]int {
	cells := make([][]int, height)
	for y := range cells {
		cells[y] = make([]int, width)
	}
	return cells
}

func assertRoute(t *testing.T, grid Grid, path []Coordinate, start, goal Coordinate, allDirections bool) {
	t.Helper()
	if len(path) == 0 {
		t.Fatalf("Expected a route from %s to %s, got none", start, goal)
	}
	if path[0] != start {
		t.Errorf("Expected route to start at %s, got %s", start, path[0])
	}
	if path[len(path)-1] != goal {
		t.Errorf("Expected route to end at %s, got %s", goal, path[len(path)-1])
	}
	for i := 1; i < len(path); i++ {
		if !Adjacent(path[i-1], path[i], allDirections) {
			t.Errorf("Step %d: %s and %s are not adjacent", i, path[i-1], path[i])
		}
		if !grid.IsWalkable(path[i]) {
			t.Errorf("Step %d: %s is not walkable", i, path[i])
		}
	}
}

func TestFinder_OpenGridDiagonal(t *testing.T) {
	field := NewField(openCells(5, 5))
	f := NewFinder(Manhattan)

	path := f.ComputeRoute(field, 0, 0, 4, 4, true)

	if len(path) != 5 {
		t.Fatalf("Expected 5 cells, got %d: %v", len(path), path)
	}
	assertRoute(t, field, path, Coordinate{0, 0}, Coordinate{4, 4}, true)
	if f.Outcome() != OutcomeFound {
		t.Errorf("Expected outcome found, got %s", f.Outcome())
	}
}

func TestFinder_RoutesAroundBlockedCenter(t *testing.T) {
	field := NewField([][]int{
		{0, 0, 0},
		{0, 1, 0},
		{0, 0, 0},
	})

	for _, algorithm := range []Algorithm{AStar, Dijkstra} {
		t.Run(algorithm.String(), func(t *testing.T) {
			f := NewFinder(Manhattan, WithAlgorithm(algorithm))
			path := f.ComputeRoute(field, 0, 0, 2, 2, false)

			if len(path) != 5 {
				t.Fatalf("Expected 5 cells, got %d: %v", len(path), path)
			}
			assertRoute(t, field, path, Coordinate{0, 0}, Coordinate{2, 2}, false)
			for _, c := range path {
				if c == (Coordinate{1, 1}) {
					t.Error("Route passes through the blocked center")
				}
			}
		})
	}
}

func TestFinder_OpenGridPrefersEarlierNeighbor(t *testing.T) {
	field := NewField(openCells(3, 3))
	f := NewFinder(Manhattan)

	path := f.ComputeRoute(field, 0, 0, 2, 2, false)

	expected := []Coordinate{{0, 0}, {1, 0}, {2, 0}, {2, 1}, {2, 2}}
	if len(path) != len(expected) {
		t.Fatalf("Expected %v, got %v", expected, path)
	}
	for i := range expected {
		if path[i] != expected[i] {
			t.Fatalf("Expected %v, got %v", expected, path)
		}
	}
	if f.Expanded() != 9 {
		t.Errorf("Expected 9 pops, got %d", f.Expanded())
	}
}

func TestFinder_DijkstraRevisitsOpenCells(t *testing.T) {
	field := NewField(openCells(3, 3))

	astar := NewFinder(Manhattan, WithAlgorithm(AStar))
	dijkstra := NewFinder(Manhattan, WithAlgorithm(Dijkstra))

	astarPath := astar.ComputeRoute(field, 0, 0, 2, 2, false)
	dijkstraPath := dijkstra.ComputeRoute(field, 0, 0, 2, 2, false)

	assertRoute(t, field, astarPath, Coordinate{0, 0}, Coordinate{2, 2}, false)
	assertRoute(t, field, dijkstraPath, Coordinate{0, 0}, Coordinate{2, 2}, false)

	if astar.PendingFrontier() != 0 {
		t.Errorf("Expected A* to drain its frontier, %d entries left", astar.PendingFrontier())
	}
	if dijkstra.PendingFrontier() == 0 {
		t.Error("Expected Dijkstra to leave duplicate entries in its frontier")
	}
	if dijkstra.Expanded() <= astar.Expanded() {
		t.Errorf("Expected Dijkstra to pop more than A* (%d), got %d", astar.Expanded(), dijkstra.Expanded())
	}
}

func TestFinder_StartEqualsGoal(t *testing.T) {
	field := NewField([][]int{{1, 1}, {1, 1}})
	for _, kind := range Kinds() {
		for _, allDirections := range []bool{false, true} {
			f := NewFinder(kind)
			path := f.ComputeRoute(field, 1, 1, 1, 1, allDirections)
			if len(path) != 1 || path[0] != (Coordinate{1, 1}) {
				t.Errorf("%s: expected [(1,1)], got %v", kind, path)
			}
			if f.Expanded() != 0 {
				t.Errorf("%s: expected no expansion, got %d", kind, f.Expanded())
			}
			if f.Outcome() != OutcomeTrivial {
				t.Errorf("%s: expected trivial outcome, got %s", kind, f.Outcome())
			}
		}
	}
}

func TestFinder_UnreachableGoal(t *testing.T) {
	field := NewField([][]int{
		{0, 0, 0, 0},
		{0, 0, 1, 1},
		{0, 0, 1, 0},
	})
	f := NewFinder(Manhattan)

	path := f.ComputeRoute(field, 0, 0, 3, 2, true)

	if len(path) != 0 {
		t.Errorf("Expected no route, got %v", path)
	}
	if f.Outcome() != OutcomeNoPath {
		t.Errorf("Expected outcome no_path, got %s", f.Outcome())
	}
}

func TestFinder_OverflowReturnsEmpty(t *testing.T) {
	field := NewField(openCells(50, 50))
	f := NewFinder(Manhattan, WithOverflow(10))

	path := f.ComputeRoute(field, 0, 0, 49, 49, false)

	if len(path) != 0 {
		t.Errorf("Expected no partial route on overflow, got %d cells", len(path))
	}
	if f.Outcome() != OutcomeOverflow {
		t.Errorf("Expected outcome overflow, got %s", f.Outcome())
	}
	if f.Expanded() != 11 {
		t.Errorf("Expected 11 pops before giving up, got %d", f.Expanded())
	}
}

func TestFinder_SetOverflow(t *testing.T) {
	field := NewField(openCells(20, 20))
	f := NewFinder(Manhattan).SetOverflow(5)

	if path := f.ComputeRoute(field, 0, 0, 19, 19, false); len(path) != 0 {
		t.Fatalf("Expected overflow with a tiny bound, got %v", path)
	}

	f.SetOverflow(DefaultOverflow)
	path := f.ComputeRoute(field, 0, 0, 19, 19, false)
	assertRoute(t, field, path, Coordinate{0, 0}, Coordinate{19, 19}, false)
}

func TestFinder_Flying(t *testing.T) {
	field := NewField([][]int{
		{0, 1, 0},
		{0, 1, 0},
		{0, 1, 0},
	})

	grounded := NewFinder(Manhattan)
	if path := grounded.ComputeRoute(field, 0, 0, 2, 2, false); len(path) != 0 {
		t.Fatalf("Expected the wall to block a grounded search, got %v", path)
	}

	flying := NewFinder(Manhattan, WithFlying(true))
	path := flying.ComputeRoute(field, 0, 0, 2, 2, false)
	if len(path) != 5 {
		t.Fatalf("Expected a 5 cell flight, got %v", path)
	}
	if path[0] != (Coordinate{0, 0}) || path[4] != (Coordinate{2, 2}) {
		t.Errorf("Unexpected flight endpoints: %v", path)
	}
}

// stoppingGrid stops its finder the first time neighbors are requested
type stoppingGrid struct {
	*Field
	finder *Finder
	calls  int
}

func (g *stoppingGrid) Neighbors(c Coordinate, allDirections bool) []Coordinate {
	g.calls++
	g.finder.Stop()
	return g.Field.Neighbors(c, allDirections)
}

func TestFinder_StopCancelsRunningSearch(t *testing.T) {
	f := NewFinder(Manhattan)
	grid := &stoppingGrid{Field: NewField(openCells(5, 5)), finder: f}

	path := f.ComputeRoute(grid, 0, 0, 4, 4, false)

	if len(path) != 0 {
		t.Errorf("Expected stopped search to return nothing, got %v", path)
	}
	if grid.calls != 1 {
		t.Errorf("Expected the loop to stop after one expansion, got %d", grid.calls)
	}
	if f.Outcome() != OutcomeCancelled {
		t.Errorf("Expected outcome cancelled, got %s", f.Outcome())
	}
	if f.PendingFrontier() == 0 {
		t.Error("Expected the frontier to be left in place after stop")
	}
	if f.IsRunning() {
		t.Error("Expected finder to be idle after the search returned")
	}
}

func TestFinder_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewFinder(Manhattan)
	path := f.ComputeRouteContext(ctx, NewField(openCells(5, 5)), 0, 0, 4, 4, false)

	if len(path) != 0 {
		t.Errorf("Expected cancelled search to return nothing, got %v", path)
	}
	if f.Outcome() != OutcomeCancelled {
		t.Errorf("Expected outcome cancelled, got %s", f.Outcome())
	}
}

func TestFinder_ReuseAfterStop(t *testing.T) {
	f := NewFinder(Manhattan)
	field := NewField(openCells(5, 5))
	stopping := &stoppingGrid{Field: field, finder: f}

	f.ComputeRoute(stopping, 0, 0, 4, 4, false)
	path := f.ComputeRoute(field, 0, 0, 4, 4, false)

	assertRoute(t, field, path, Coordinate{0, 0}, Coordinate{4, 4}, false)
	if f.Outcome() != OutcomeFound {
		t.Errorf("Expected outcome found, got %s", f.Outcome())
	}
}

func TestFinder_Close(t *testing.T) {
	field := NewField(openCells(3, 3))
	f := NewFinder(Manhattan)
	f.Close()
	f.Close()

	if !f.IsClosed() {
		t.Fatal("Expected finder to report closed")
	}
	if path := f.ComputeRoute(field, 0, 0, 2, 2, false); path != nil {
		t.Errorf("Expected closed finder to return nil, got %v", path)
	}
	if f.Outcome() != OutcomeClosed {
		t.Errorf("Expected outcome closed, got %s", f.Outcome())
	}
}

func TestFinder_RunUsesPresetTarget(t *testing.T) {
	var received []Coordinate
	field := NewField(openCells(4, 4))
	f := NewFinder(Manhattan, WithListener(func(path []Coordinate) {
		received = path
	}))

	if path := f.Run(); path != nil {
		t.Fatalf("Expected Run without a target to return nil, got %v", path)
	}

	f.SetTarget(field, Coordinate{0, 0}, Coordinate{3, 0}, false)
	path := f.Run()

	assertRoute(t, field, path, Coordinate{0, 0}, Coordinate{3, 0}, false)
	if len(received) != len(path) {
		t.Errorf("Listener received %v, Run returned %v", received, path)
	}
}

func newSeededRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func randomMaze(rng *rand.Rand, width, height int, density float64) [][]int {
	cells := openCells(width, height)
	for y := range cells {
		for x := range cells[y] {
			if rng.Float64() < density {
				cells[y][x] = 1
			}
		}
	}
	cells[0][0] = 0
	cells[height-1][width-1] = 0
	return cells
}

func TestFinder_RandomMazesProduceConnectedRoutes(t *testing.T) {
	rng := newSeededRand(42)
	solved := 0

	for i := 0; i < 40; i++ {
		field := NewField(randomMaze(rng, 20, 20, 0.25))
		allDirections := i%2 == 1
		start, goal := Coordinate{0, 0}, Coordinate{19, 19}

		path := NewFinder(Octile).ComputeRoute(field, start.X, start.Y, goal.X, goal.Y, allDirections)
		if len(path) == 0 {
			continue
		}
		solved++
		assertRoute(t, field, path, start, goal, allDirections)

		seen := make(map[Coordinate]bool, len(path))
		for _, c := range path {
			if seen[c] {
				t.Errorf("Maze %d: route visits %s twice", i, c)
			}
			seen[c] = true
		}
	}

	if solved == 0 {
		t.Fatal("Expected at least one solvable maze")
	}
}
