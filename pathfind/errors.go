package pathfind

import "errors"

var (
	ErrUnknownHeuristic = errors.New("unknown heuristic")
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
)
