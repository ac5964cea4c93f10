// Package api provides HTTP REST API handlers for the road route service.
//
// Endpoints:
//
// Maps and stateless queries:
//   - GET /api/maps - List available maps
//   - POST /api/maps - Validate and save a map (?id= overrides the ID)
//   - GET /api/maps/{name} - Get a map definition
//   - POST /api/maps/{name}/route - Find a route between two cells
//   - POST /api/maps/{name}/nearest - Find the nearest reachable tile of a kind
//   - GET /api/heuristics - List built-in heuristics
//
// Result cache:
//   - GET /api/cache - Cache statistics
//   - DELETE /api/cache - Drop every cached route
//
// Sessions:
//   - POST /api/sessions - Create a session with engine settings
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N&map=ID)
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Delete a session
//   - POST /api/sessions/{id}/route - Route with the session's search engine
//   - POST /api/sessions/{id}/stop - Stop the session's running search
//   - GET /api/sessions/{id}/history - Paginated route history
//
// Other:
//   - GET /ws?session=ID or /ws?map=ID - Route event stream
//   - GET /metrics - Prometheus metrics
//   - GET /health - Health check
//
// Errors are returned as {"error": "..."} with 404 for unknown maps and
// sessions, 400 for invalid requests, maps and coordinates, and 409 for
// duplicate session IDs.
package api
