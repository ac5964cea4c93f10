package service

import (
	"fmt"

	"github.com/wricardo/mcp-training/roadroute/pathfind"
	"github.com/wricardo/mcp-training/roadroute/planner/atlas"
)

// ResolveSettings merges session options over the map defaults and validates them
func ResolveSettings(config *atlas.MapConfig, opts SessionOptions) (Settings, error) {
	settings := Settings{
		Heuristic:     config.Heuristic,
		Algorithm:     config.Algorithm,
		AllDirections: config.AllDirections,
		Flying:        opts.Flying,
		Overflow:      config.Overflow,
	}
	if opts.Heuristic != "" {
		settings.Heuristic = opts.Heuristic
	}
	if opts.Algorithm != "" {
		settings.Algorithm = opts.Algorithm
	}
	if opts.AllDirections != nil {
		settings.AllDirections = *opts.AllDirections
	}
	if opts.Overflow != 0 {
		settings.Overflow = opts.Overflow
	}

	kind, err := pathfind.ParseHeuristic(settings.Heuristic)
	if err != nil {
		return Settings{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	algorithm, err := pathfind.ParseAlgorithm(settings.Algorithm)
	if err != nil {
		return Settings{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if settings.Overflow < 0 || settings.Overflow > atlas.MaxOverflow {
		return Settings{}, fmt.Errorf("%w: overflow must be between 0 and %d", ErrInvalidRequest, atlas.MaxOverflow)
	}

	settings.Heuristic = kind.String()
	settings.Algorithm = algorithm.String()
	return settings, nil
}

// NewFinder creates the search engine described by the settings
func (s Settings) NewFinder() (*pathfind.Finder, error) {
	kind, err := pathfind.ParseHeuristic(s.Heuristic)
	if err != nil {
		return nil, err
	}
	algorithm, err := pathfind.ParseAlgorithm(s.Algorithm)
	if err != nil {
		return nil, err
	}

	overflow := s.Overflow
	if overflow <= 0 {
		overflow = pathfind.DefaultOverflow
	}
	return pathfind.NewFinder(kind,
		pathfind.WithAlgorithm(algorithm),
		pathfind.WithFlying(s.Flying),
		pathfind.WithOverflow(overflow),
	), nil
}
