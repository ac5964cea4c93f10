// Package service implements the route planning business logic.
//
// RouteService is the single entry point used by every transport (REST,
// WebSocket, MCP). It answers two kinds of queries:
//
//   - Stateless queries (FindRoute, Nearest) run against a named map with a
//     throwaway search engine.
//   - Session queries (SessionRoute) reuse the session's own search engine, so
//     a long search can be interrupted with StopSearch.
//
// Both kinds go through one pathfind.Planner and share its result cache. A
// route found by a stateless query is served from the cache to a session
// asking the same question with the same engine settings, and the reverse.
//
// Sessions and maps are stored behind the SessionManager and MapManager
// interfaces, implemented by the planner/session and planner/config packages.
//
// Usage:
//
//	svc := service.NewRouteService(sessionManager, mapManager,
//		service.WithObserver(hub))
//
//	result, err := svc.FindRoute(ctx, "classic", service.RouteRequest{
//		From: pathfind.Coordinate{X: 1, Y: 1},
//		To:   pathfind.Coordinate{X: 13, Y: 13},
//	})
package service
