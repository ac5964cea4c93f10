// Package pathfind provides the grid route engine used by the road route planner.
//
// The package implements:
//   - Interchangeable distance heuristics (Manhattan, Euclidean, Octile, ...)
//   - A best-first search engine (Dijkstra or A*) with an overflow bound and
//     cooperative cancellation
//   - A bounded, mutex-guarded result cache keyed by a request fingerprint
//   - A Planner facade that combines the above and always returns fresh copies
//
// Core Types:
//
// Finder is the search engine. A Finder can be reused across runs; each run
// resets its frontier and visited sets but keeps its configuration. Field is a
// Grid built from a raw matrix of cell values and a list of blocked values.
// Planner owns a Cache and answers one-shot Find calls.
//
// Usage:
//
//	cells := [][]int{
//		{0, 0, 0},
//		{0, 1, 0},
//		{0, 0, 0},
//	}
//
//	planner := pathfind.NewPlanner()
//	path := planner.Find(pathfind.Manhattan, cells, nil, 0, 0, 2, 2, false)
//	if len(path) == 0 {
//		log.Println("no route")
//	}
//
// Result Signalling:
//
// A search that finds no route, exceeds its overflow bound, or is stopped
// returns an empty path. Callers that need to tell these apart can inspect
// Finder.Outcome or the Outcome field of a Planner Result.
package pathfind
