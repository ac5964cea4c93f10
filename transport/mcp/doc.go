// Package mcp exposes the route planner to AI agents over the Model Context Protocol.
//
// The client is a thin proxy: every tool call becomes a request against the
// REST API, and responses are rendered as plain text for the agent.
//
// MCP Tools:
//   - list_maps, describe_map, describe_cell: inspect road maps
//   - list_heuristics: heuristics accepted by the route tools
//   - find_route: stateless shortest route on a map
//   - nearest: closest reachable tile of a kind
//   - create_session, get_session, list_sessions: planner sessions
//   - session_route: route with a session's search engine
//   - stop_search: interrupt a session's running search
//   - route_history: paginated routes of a session
//   - cache_stats: shared route cache counters
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
