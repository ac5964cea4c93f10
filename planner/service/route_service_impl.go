package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/roadroute/pathfind"
	"github.com/wricardo/mcp-training/roadroute/planner/atlas"
)

// routeServiceImpl implements the RouteService interface
type routeServiceImpl struct {
	sessions SessionManager
	maps     MapManager
	planner  *pathfind.Planner
	observer RouteObserver

	// mu guards session lifecycle. It is never held while a search runs so
	// StopSearch can reach a busy session.
	mu sync.RWMutex
}

// Option configures the route service
type Option func(*routeServiceImpl)

// WithPlanner routes every query through p instead of pathfind.Default()
func WithPlanner(p *pathfind.Planner) Option {
	return func(s *routeServiceImpl) { s.planner = p }
}

// WithObserver registers a receiver for route events
func WithObserver(o RouteObserver) Option {
	return func(s *routeServiceImpl) { s.observer = o }
}

// NewRouteService creates a new route service instance
func NewRouteService(sessions SessionManager, maps MapManager, options ...Option) RouteService {
	s := &routeServiceImpl{
		sessions: sessions,
		maps:     maps,
	}
	for _, option := range options {
		option(s)
	}
	if s.planner == nil {
		s.planner = pathfind.Default()
	}
	return s
}

// resolveMap loads mapID, or the default map when it is empty
func (s *routeServiceImpl) resolveMap(mapID string) (string, *atlas.MapConfig, error) {
	if mapID == "" {
		return s.maps.DefaultID(), s.maps.GetDefault(), nil
	}

	config, err := s.maps.LoadMap(mapID)
	if err != nil {
		if errors.Is(err, ErrMapNotFound) {
			// Provide helpful error message with available options
			available, listErr := s.maps.ListMaps()
			if listErr == nil && len(available) > 0 {
				var mapIDs []string
				for _, info := range available {
					mapIDs = append(mapIDs, info.MapID)
				}
				return "", nil, fmt.Errorf("%w: '%s'. Available maps: %v", ErrMapNotFound, mapID, mapIDs)
			}
			return "", nil, fmt.Errorf("%w: '%s'. Use /api/maps to list available maps", ErrMapNotFound, mapID)
		}
		return "", nil, fmt.Errorf("failed to load map %s: %w", mapID, err)
	}
	return mapID, config, nil
}

func checkCoordinate(config *atlas.MapConfig, c pathfind.Coordinate) error {
	if c.X < 0 || c.Y < 0 || c.X >= config.Width() || c.Y >= config.Height() {
		return fmt.Errorf("%w: %s is outside the %dx%d map", ErrInvalidCoordinate, c, config.Width(), config.Height())
	}
	return nil
}

// ListMaps returns available road maps
func (s *routeServiceImpl) ListMaps(ctx context.Context) ([]*MapInfo, error) {
	return s.maps.ListMaps()
}

// LoadMap loads a specific road map
func (s *routeServiceImpl) LoadMap(ctx context.Context, mapID string) (*atlas.MapConfig, error) {
	_, config, err := s.resolveMap(mapID)
	return config, err
}

// SaveMap saves a road map to disk
func (s *routeServiceImpl) SaveMap(ctx context.Context, mapID string, config *atlas.MapConfig) error {
	return s.maps.SaveMap(mapID, config)
}

// ListHeuristics returns every built-in heuristic
func (s *routeServiceImpl) ListHeuristics(ctx context.Context) []HeuristicInfo {
	kinds := pathfind.Kinds()
	out := make([]HeuristicInfo, 0, len(kinds))
	for _, kind := range kinds {
		out = append(out, HeuristicInfo{Name: kind.String(), Tag: kind.Type()})
	}
	return out
}

// FindRoute computes a route on a map without a session
func (s *routeServiceImpl) FindRoute(ctx context.Context, mapID string, req RouteRequest) (*RouteResult, error) {
	mapID, config, err := s.resolveMap(mapID)
	if err != nil {
		return nil, err
	}
	if err := checkCoordinate(config, req.From); err != nil {
		return nil, err
	}
	if err := checkCoordinate(config, req.To); err != nil {
		return nil, err
	}

	settings, err := ResolveSettings(config, SessionOptions{
		Heuristic:     req.Heuristic,
		Algorithm:     req.Algorithm,
		AllDirections: req.AllDirections,
		Flying:        req.Flying,
	})
	if err != nil {
		return nil, err
	}
	kind, _ := pathfind.ParseHeuristic(settings.Heuristic)
	algorithm, _ := pathfind.ParseAlgorithm(settings.Algorithm)

	started := time.Now()
	resolved := s.planner.Resolve(ctx, pathfind.Request{
		Heuristic:     kind,
		Cells:         config.Cells(),
		Limits:        config.Limits(),
		Start:         req.From,
		Goal:          req.To,
		AllDirections: settings.AllDirections,
		Algorithm:     algorithm,
		Flying:        settings.Flying,
		Overflow:      settings.Overflow,
	})
	duration := time.Since(started)
	observeQuery(sourceStateless, resolved, duration, s.planner.Cache())

	result := buildRouteResult(mapID, req, resolved, settings, duration)
	if req.Render {
		result.Rendered = config.Render(result.Path)
	}

	s.publish(RouteEvent{Type: "route_computed", MapID: mapID, Result: result, Timestamp: time.Now()})
	return result, nil
}

// Nearest finds the landmark of the requested tile with the shortest route
func (s *routeServiceImpl) Nearest(ctx context.Context, mapID string, req NearestRequest) (*NearestResult, error) {
	mapID, config, err := s.resolveMap(mapID)
	if err != nil {
		return nil, err
	}
	if err := checkCoordinate(config, req.From); err != nil {
		return nil, err
	}
	tile, err := atlas.ParseTile(req.Tile)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	settings, err := ResolveSettings(config, SessionOptions{
		Heuristic:     req.Heuristic,
		AllDirections: req.AllDirections,
	})
	if err != nil {
		return nil, err
	}
	kind, _ := pathfind.ParseHeuristic(settings.Heuristic)
	algorithm, _ := pathfind.ParseAlgorithm(settings.Algorithm)

	candidates := config.Landmarks(tile)
	result := &NearestResult{
		MapID:      mapID,
		Tile:       tile.String(),
		From:       req.From,
		Path:       []pathfind.Coordinate{},
		Candidates: len(candidates),
	}

	cells, limits := config.Cells(), config.Limits()
	for _, target := range candidates {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		started := time.Now()
		resolved := s.planner.Resolve(ctx, pathfind.Request{
			Heuristic:     kind,
			Cells:         cells,
			Limits:        limits,
			Start:         req.From,
			Goal:          target,
			AllDirections: settings.AllDirections,
			Algorithm:     algorithm,
			Overflow:      settings.Overflow,
		})
		observeQuery(sourceNearest, resolved, time.Since(started), s.planner.Cache())

		if len(resolved.Path) == 0 {
			continue
		}
		result.Reachable++
		if !result.Found || len(resolved.Path)-1 < result.Steps {
			result.Found = true
			result.Target = &target
			result.Path = resolved.Path
			result.Steps = len(resolved.Path) - 1
		}
	}

	return result, nil
}

// CreateSession creates a new planner session
func (s *routeServiceImpl) CreateSession(ctx context.Context, opts SessionOptions) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mapID, config, err := s.resolveMap(opts.MapID)
	if err != nil {
		return nil, err
	}
	settings, err := ResolveSettings(config, opts)
	if err != nil {
		return nil, err
	}
	if settings.Overflow == 0 {
		settings.Overflow = s.planner.Overflow()
	}

	// Let session manager generate a proper 4-character ID when none is given
	sess, err := s.sessions.Create(opts.SessionID, mapID, config, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return sessionInfo(sess, true), nil
}

// GetSession retrieves session information
func (s *routeServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	return sessionInfo(sess, true), nil
}

// ListSessions returns all active sessions
func (s *routeServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sessionInfo(sess, false))
	}
	return result, nil
}

// DeleteSession removes a session and releases its search engine
func (s *routeServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// SessionRoute computes a route with the session's own search engine. The
// session fixes the algorithm and flying mode; heuristic and directions may be
// overridden per request.
func (s *routeServiceImpl) SessionRoute(ctx context.Context, sessionID string, req RouteRequest) (*RouteResult, error) {
	s.mu.RLock()
	sess, err := s.sessions.Get(sessionID)
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	if err := checkCoordinate(sess.Map, req.From); err != nil {
		return nil, err
	}
	if err := checkCoordinate(sess.Map, req.To); err != nil {
		return nil, err
	}

	settings := sess.Settings
	var heuristic pathfind.Heuristic
	if req.Heuristic != "" {
		kind, err := pathfind.ParseHeuristic(req.Heuristic)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		heuristic = kind
		settings.Heuristic = kind.String()
	}
	if req.AllDirections != nil {
		settings.AllDirections = *req.AllDirections
	}

	started := time.Now()
	resolved := s.planner.Resolve(ctx, pathfind.Request{
		Heuristic:     heuristic,
		Cells:         sess.Map.Cells(),
		Limits:        sess.Map.Limits(),
		Start:         req.From,
		Goal:          req.To,
		AllDirections: settings.AllDirections,
		Grid:          sess.Field,
		Finder:        sess.Finder,
	})
	duration := time.Since(started)
	observeQuery(sourceSession, resolved, duration, s.planner.Cache())

	result := buildRouteResult(sess.MapID, req, resolved, settings, duration)
	result.SessionID = sess.ID
	if req.Render {
		result.Rendered = sess.Map.Render(result.Path)
	}

	result.RouteNumber = sess.AppendHistory(RouteRecord{
		From:           result.From,
		To:             result.To,
		Heuristic:      result.Heuristic,
		Outcome:        result.Outcome,
		Steps:          result.Steps,
		Cached:         result.Cached,
		DurationMicros: result.DurationMicros,
		Timestamp:      time.Now().Unix(),
	})

	// Auto-save session after each route
	s.sessions.UpdateLastAccessed(sess.ID)

	s.publish(RouteEvent{Type: "route_computed", SessionID: sess.ID, MapID: sess.MapID, Result: result, Timestamp: time.Now()})
	return result, nil
}

// StopSearch asks the session's running search to give up. It reports
// whether a search was running.
func (s *routeServiceImpl) StopSearch(ctx context.Context, sessionID string) (bool, error) {
	s.mu.RLock()
	sess, err := s.sessions.Get(sessionID)
	s.mu.RUnlock()
	if err != nil {
		return false, fmt.Errorf("session %s: %w", sessionID, err)
	}

	running := sess.Finder.IsRunning()
	sess.Finder.Stop()
	if running {
		searchesStopped.Inc()
		s.publish(RouteEvent{Type: "search_stopped", SessionID: sess.ID, MapID: sess.MapID, Timestamp: time.Now()})
	}
	return running, nil
}

// GetHistory returns paginated route history
func (s *routeServiceImpl) GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	history := sess.History()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	routes := []RouteRecord{}
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			routes = append(routes, history[i])
		}
	} else if start < total {
		routes = append(routes, history[start:end]...)
	}

	return &HistoryResponse{
		Routes:      routes,
		TotalRoutes: total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// CacheStats reports the shared result cache
func (s *routeServiceImpl) CacheStats(ctx context.Context) pathfind.CacheStats {
	return s.planner.Cache().Stats()
}

// ClearCache drops every cached route
func (s *routeServiceImpl) ClearCache(ctx context.Context) {
	s.planner.Cache().Clear()
	cacheEntries.Set(0)
}

func (s *routeServiceImpl) publish(event RouteEvent) {
	if s.observer != nil {
		s.observer.OnRouteEvent(event)
	}
}

func buildRouteResult(mapID string, req RouteRequest, resolved pathfind.Result, settings Settings, duration time.Duration) *RouteResult {
	steps := 0
	if len(resolved.Path) > 0 {
		steps = len(resolved.Path) - 1
	}
	return &RouteResult{
		MapID:          mapID,
		From:           req.From,
		To:             req.To,
		Found:          len(resolved.Path) > 0,
		Outcome:        resolved.Outcome.String(),
		Path:           resolved.Path,
		Steps:          steps,
		Cached:         resolved.Cached,
		Heuristic:      settings.Heuristic,
		Algorithm:      settings.Algorithm,
		AllDirections:  settings.AllDirections,
		DurationMicros: duration.Microseconds(),
	}
}

func sessionInfo(sess *Session, withMap bool) *SessionInfo {
	info := &SessionInfo{
		ID:             sess.ID,
		MapID:          sess.MapID,
		MapName:        sess.Map.Name,
		Settings:       sess.Settings,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		RouteCount:     sess.RouteCount(),
		Searching:      sess.Finder.IsRunning(),
	}
	if history := sess.History(); len(history) > 0 {
		info.LastOutcome = history[len(history)-1].Outcome
	}
	if withMap {
		info.Map = sess.Map
	}
	return info
}
