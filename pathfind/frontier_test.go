package pathfind

import "testing"

func pathOf(x int) []Coordinate {
	return []Coordinate{{X: x, Y: 0}}
}

func TestFrontier_KeepsAscendingOrder(t *testing.T) {
	var f frontier
	for _, score := range []float64{5, 1, 3, 4, 2} {
		f.insert(score, pathOf(int(score)))
	}

	previous := -1.0
	for f.Len() > 0 {
		entry := f.pop()
		if entry.Score < previous {
			t.Fatalf("Frontier popped %v after %v", entry.Score, previous)
		}
		previous = entry.Score
	}
}

func TestFrontier_EqualScoresKeepInsertionOrder(t *testing.T) {
	tests := []struct {
		name     string
		scores   []float64
		expected []int
	}{
		{"tie behind peer", []float64{1, 2, 1}, []int{1, 3, 2}},
		{"all equal", []float64{5, 5, 5}, []int{1, 2, 3}},
		{"tie after lower", []float64{2, 1, 2, 1}, []int{2, 4, 1, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f frontier
			for i, score := range tt.scores {
				f.insert(score, pathOf(i+1))
			}
			for i, x := range tt.expected {
				entry := f.pop()
				if entry.Tail().X != x {
					t.Errorf("Pop %d: expected path %d, got %d", i, x, entry.Tail().X)
				}
			}
		})
	}
}

func TestFrontier_AppendsWhenLargest(t *testing.T) {
	var f frontier
	f.insert(1, pathOf(1))
	f.insert(9, pathOf(9))

	if f[1].Score != 9 {
		t.Errorf("Expected largest score at the end, got %v", f[1].Score)
	}
}

func TestFrontier_Reset(t *testing.T) {
	var f frontier
	f.insert(1, pathOf(1))
	f.insert(2, pathOf(2))
	f.reset()

	if f.Len() != 0 {
		t.Errorf("Expected empty frontier after reset, got %d", f.Len())
	}
}

func TestScoredPath_ExtendCopies(t *testing.T) {
	parent := &ScoredPath{Path: []Coordinate{{0, 0}, {1, 0}}}
	a := parent.extend(Coordinate{2, 0})
	b := parent.extend(Coordinate{1, 1})

	if len(parent.Path) != 2 {
		t.Fatalf("Parent path changed length: %v", parent.Path)
	}
	if a[2] != (Coordinate{2, 0}) || b[2] != (Coordinate{1, 1}) {
		t.Errorf("Extended paths share storage: %v %v", a, b)
	}
}
