package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/mcp-training/roadroute/pathfind"
	"github.com/wricardo/mcp-training/roadroute/planner/atlas"
	"github.com/wricardo/mcp-training/roadroute/planner/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Road Route Planner",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Road Route Planner - MCP Interface

This is a thin client that proxies all requests to the REST API server.

Maps are grids of tiles: R road, H home, P park, S supercharger, W water, B building.
Water and buildings are impassable unless a map says otherwise. Coordinates are
0-based (x = column, y = row).

AVAILABLE TOOLS:
- list_maps / describe_map / describe_cell: Inspect road maps
- list_heuristics: Heuristics accepted by the route tools
- find_route: Shortest route between two cells on a map
- nearest: Closest reachable tile of a kind (e.g. nearest supercharger)
- create_session / get_session / list_sessions: Long-lived planners with fixed engine settings
- session_route: Route with a session's own search engine
- stop_search: Interrupt a session's running search
- route_history: Routes computed by a session
- cache_stats: Shared route cache statistics

Routes are cached: asking the same question twice is cheap.`),
	)

	// Register all tools
	c.registerTools()
}

var routeProperties = map[string]interface{}{
	"from_x": map[string]interface{}{
		"type":        "integer",
		"description": "Start column (0-based)",
	},
	"from_y": map[string]interface{}{
		"type":        "integer",
		"description": "Start row (0-based)",
	},
	"to_x": map[string]interface{}{
		"type":        "integer",
		"description": "Goal column (0-based)",
	},
	"to_y": map[string]interface{}{
		"type":        "integer",
		"description": "Goal row (0-based)",
	},
	"heuristic": map[string]interface{}{
		"type":        "string",
		"description": "Heuristic name (see list_heuristics). Defaults to the map or session setting.",
	},
	"all_directions": map[string]interface{}{
		"type":        "boolean",
		"description": "Allow diagonal moves",
	},
}

func withProperties(base map[string]interface{}, extra map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Maps
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_maps",
		Description: "List available road maps",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListMaps)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_map",
		Description: "Show a road map's layout, legend and routing defaults",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"map_id": map[string]interface{}{
					"type":        "string",
					"description": "Map ID (optional, defaults to the server default map)",
				},
			},
		},
	}, c.handleDescribeMap)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Get the tile at a cell and its 3x3 neighbourhood. Useful for verifying whether a cell is passable.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"map_id": map[string]interface{}{
					"type":        "string",
					"description": "Map ID",
				},
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "X coordinate (column) of the cell to describe (0-based)",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Y coordinate (row) of the cell to describe (0-based)",
				},
			},
			Required: []string{"map_id", "x", "y"},
		},
	}, c.handleDescribeCell)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_heuristics",
		Description: "List the built-in route heuristics",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListHeuristics)

	// Stateless queries
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "find_route",
		Description: "Find the shortest route between two cells on a map",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: withProperties(routeProperties, map[string]interface{}{
				"map_id": map[string]interface{}{
					"type":        "string",
					"description": "Map ID",
				},
				"algorithm": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"astar", "dijkstra"},
					"description": "Search algorithm",
				},
				"flying": map[string]interface{}{
					"type":        "boolean",
					"description": "Ignore obstacles",
				},
			}),
			Required: []string{"map_id", "from_x", "from_y", "to_x", "to_y"},
		},
	}, c.handleFindRoute)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "nearest",
		Description: "Find the reachable tile of a kind with the shortest route (e.g. nearest supercharger)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"map_id": map[string]interface{}{
					"type":        "string",
					"description": "Map ID",
				},
				"from_x": routeProperties["from_x"],
				"from_y": routeProperties["from_y"],
				"tile": map[string]interface{}{
					"type":        "string",
					"enum":        tileNames(),
					"description": "Tile kind to look for",
				},
				"heuristic":      routeProperties["heuristic"],
				"all_directions": routeProperties["all_directions"],
			},
			Required: []string{"map_id", "from_x", "from_y", "tile"},
		},
	}, c.handleNearest)

	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a planner session bound to a map with fixed engine settings",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"map_id": map[string]interface{}{
					"type":        "string",
					"description": "Map ID (optional)",
				},
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Custom session ID (optional)",
				},
				"heuristic": routeProperties["heuristic"],
				"algorithm": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"astar", "dijkstra"},
					"description": "Search algorithm",
				},
				"all_directions": routeProperties["all_directions"],
				"flying": map[string]interface{}{
					"type":        "boolean",
					"description": "Ignore obstacles",
				},
				"overflow": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum search steps before giving up",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all planner sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Session queries
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "session_route",
		Description: "Find a route with a session's search engine",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: withProperties(routeProperties, map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			}),
			Required: []string{"session_id", "from_x", "from_y", "to_x", "to_y"},
		},
	}, c.handleSessionRoute)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "stop_search",
		Description: "Stop the search a session is currently running",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleStopSearch)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "route_history",
		Description: "Get the routes computed by a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleRouteHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "cache_stats",
		Description: "Show shared route cache statistics",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleCacheStats)
}

func tileNames() []string {
	tiles := atlas.Tiles()
	names := make([]string, 0, len(tiles))
	for _, tile := range tiles {
		names = append(names, tile.String())
	}
	return names
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Argument helpers

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

// intArg accepts JSON numbers and numeric strings
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case string:
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return n, true
		}
	}
	return 0, false
}

func boolArg(args map[string]interface{}, key string) (bool, bool) {
	b, ok := args[key].(bool)
	return b, ok
}

func coordinateArgs(args map[string]interface{}, xKey, yKey string) (pathfind.Coordinate, error) {
	x, okX := intArg(args, xKey)
	y, okY := intArg(args, yKey)
	if !okX || !okY {
		return pathfind.Coordinate{}, fmt.Errorf("%s and %s are required integers", xKey, yKey)
	}
	return pathfind.Coordinate{X: x, Y: y}, nil
}

// routeRequest builds the shared part of find_route and session_route
func routeRequest(args map[string]interface{}) (service.RouteRequest, error) {
	from, err := coordinateArgs(args, "from_x", "from_y")
	if err != nil {
		return service.RouteRequest{}, err
	}
	to, err := coordinateArgs(args, "to_x", "to_y")
	if err != nil {
		return service.RouteRequest{}, err
	}

	req := service.RouteRequest{
		From:      from,
		To:        to,
		Heuristic: stringArg(args, "heuristic"),
		Algorithm: stringArg(args, "algorithm"),
		Render:    true,
	}
	if diagonal, ok := boolArg(args, "all_directions"); ok {
		req.AllDirections = &diagonal
	}
	req.Flying, _ = boolArg(args, "flying")
	return req, nil
}

// Tool handlers

func (c *Client) handleListMaps(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var maps []service.MapInfo
	if err := c.apiCall(ctx, "GET", "/api/maps", nil, &maps); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Maps:\n\n"
	for _, m := range maps {
		result += fmt.Sprintf("• %s (%s)\n  %s\n  Grid: %dx%d, Heuristic: %s, Algorithm: %s, Diagonals: %v\n\n",
			m.MapID, m.Name, m.Description, m.Width, m.Height, m.Heuristic, m.Algorithm, m.AllDirections)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) loadMap(ctx context.Context, mapID string) (*atlas.MapConfig, error) {
	var config atlas.MapConfig
	if err := c.apiCall(ctx, "GET", "/api/maps/"+url.PathEscape(mapID), nil, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Client) handleDescribeMap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	mapID := stringArg(args, "map_id")

	if mapID == "" {
		// Fall back to the first listed map
		var maps []service.MapInfo
		if err := c.apiCall(ctx, "GET", "/api/maps", nil, &maps); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if len(maps) == 0 {
			return mcp.NewToolResultError("no maps available"), nil
		}
		mapID = maps[0].MapID
	}

	config, err := c.loadMap(ctx, mapID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMap(mapID, config)), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	mapID := stringArg(args, "map_id")
	cell, err := coordinateArgs(args, "x", "y")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	config, err := c.loadMap(ctx, mapID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	tile, ok := config.TileAt(cell)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("Coordinates %s are out of bounds. Map size is %dx%d (x 0-%d, y 0-%d)",
			cell, config.Width(), config.Height(), config.Width()-1, config.Height()-1)), nil
	}

	result := fmt.Sprintf(`Cell at position %s:
━━━━━━━━━━━━━━━━━━━━━━━━
Character: %c
Type: %s
Passable: %v

Neighbourhood (centre is the cell, outside the map shows as B):
%s`,
		cell,
		config.Layout[cell.Y][cell.X],
		tile,
		!config.IsBlocked(tile),
		strings.Join(config.LocalView(cell), "\n"))

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListHeuristics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var heuristics []service.HeuristicInfo
	if err := c.apiCall(ctx, "GET", "/api/heuristics", nil, &heuristics); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	names := make([]string, 0, len(heuristics))
	for _, h := range heuristics {
		names = append(names, h.Name)
	}
	return mcp.NewToolResultText("Heuristics: " + strings.Join(names, ", ")), nil
}

func (c *Client) handleFindRoute(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	mapID := stringArg(args, "map_id")
	req, err := routeRequest(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.RouteResult
	path := fmt.Sprintf("/api/maps/%s/route", url.PathEscape(mapID))
	if err := c.apiCall(ctx, "POST", path, req, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRouteResult(&result)), nil
}

func (c *Client) handleNearest(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	mapID := stringArg(args, "map_id")
	from, err := coordinateArgs(args, "from_x", "from_y")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := service.NearestRequest{
		From:      from,
		Tile:      stringArg(args, "tile"),
		Heuristic: stringArg(args, "heuristic"),
	}
	if diagonal, ok := boolArg(args, "all_directions"); ok {
		req.AllDirections = &diagonal
	}

	var result service.NearestResult
	path := fmt.Sprintf("/api/maps/%s/nearest", url.PathEscape(mapID))
	if err := c.apiCall(ctx, "POST", path, req, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatNearest(&result)), nil
}

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	opts := service.SessionOptions{
		SessionID: stringArg(args, "session_id"),
		MapID:     stringArg(args, "map_id"),
		Heuristic: stringArg(args, "heuristic"),
		Algorithm: stringArg(args, "algorithm"),
	}
	if diagonal, ok := boolArg(args, "all_directions"); ok {
		opts.AllDirections = &diagonal
	}
	opts.Flying, _ = boolArg(args, "flying")
	opts.Overflow, _ = intArg(args, "overflow")

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", opts, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Created " + formatSessionInfo(&session)), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		result += fmt.Sprintf("- %s (Map: %s, Routes: %d, Created: %s)\n",
			s.ID, s.MapID, s.RouteCount, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(arguments(request), "session_id")

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", "/api/sessions/"+url.PathEscape(sessionID), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleSessionRoute(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID := stringArg(args, "session_id")
	req, err := routeRequest(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.RouteResult
	path := fmt.Sprintf("/api/sessions/%s/route", url.PathEscape(sessionID))
	if err := c.apiCall(ctx, "POST", path, req, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRouteResult(&result)), nil
}

func (c *Client) handleStopSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(arguments(request), "session_id")

	var response struct {
		Stopped bool `json:"stopped"`
	}
	path := fmt.Sprintf("/api/sessions/%s/stop", url.PathEscape(sessionID))
	if err := c.apiCall(ctx, "POST", path, nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if response.Stopped {
		return mcp.NewToolResultText(fmt.Sprintf("Stopped the running search of session %s", sessionID)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Session %s had no running search", sessionID)), nil
}

func (c *Client) handleRouteHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID := stringArg(args, "session_id")

	query := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		query.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		query.Set("limit", fmt.Sprint(limit))
	}
	path := fmt.Sprintf("/api/sessions/%s/history", url.PathEscape(sessionID))
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleCacheStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var stats pathfind.CacheStats
	if err := c.apiCall(ctx, "GET", "/api/cache", nil, &stats); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Route cache: %d/%d entries, %d hits, %d misses, %d stores, %d flushes",
		stats.Entries, stats.Capacity, stats.Hits, stats.Misses, stats.Stores, stats.Flushes)), nil
}

// Formatting helpers

func formatMap(mapID string, config *atlas.MapConfig) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Map: %s (%s)\n%s\n", mapID, config.Name, config.Description)
	fmt.Fprintf(&b, "Grid: %dx%d\n", config.Width(), config.Height())

	heuristic, _ := config.RouteHeuristic()
	algorithm, _ := config.RouteAlgorithm()
	fmt.Fprintf(&b, "Defaults: heuristic=%s algorithm=%s diagonals=%v\n\n", heuristic, algorithm, config.AllDirections)

	b.WriteString("    ")
	for x := 0; x < config.Width(); x++ {
		fmt.Fprintf(&b, "%d", x%10)
	}
	b.WriteString("\n")
	for y, row := range config.Layout {
		fmt.Fprintf(&b, "%3d %s\n", y, row)
	}

	b.WriteString("\nBlocked tiles: ")
	var blocked []string
	for _, tile := range atlas.Tiles() {
		if config.IsBlocked(tile) {
			blocked = append(blocked, tile.String())
		}
	}
	b.WriteString(strings.Join(blocked, ", "))
	b.WriteString("\n")
	return b.String()
}

func formatRouteResult(result *service.RouteResult) string {
	var b strings.Builder

	scope := "Map " + result.MapID
	if result.SessionID != "" {
		scope = fmt.Sprintf("Session %s (route #%d)", result.SessionID, result.RouteNumber)
	}
	fmt.Fprintf(&b, "%s: %s -> %s\n", scope, result.From, result.To)
	fmt.Fprintf(&b, "Heuristic: %s, Algorithm: %s, Diagonals: %v\n", result.Heuristic, result.Algorithm, result.AllDirections)

	switch result.Outcome {
	case "found", "trivial":
		fmt.Fprintf(&b, "✅ Route found: %d steps", result.Steps)
	case "no_path":
		b.WriteString("❌ No route: the goal is unreachable")
	case "overflow":
		b.WriteString("⚠️ Search gave up: step limit reached")
	case "cancelled":
		b.WriteString("⏹ Search was stopped before it finished")
	default:
		fmt.Fprintf(&b, "Outcome: %s", result.Outcome)
	}
	if result.Cached {
		b.WriteString(" (cached)")
	}
	b.WriteString("\n")

	if len(result.Path) > 0 {
		cells := make([]string, 0, len(result.Path))
		for _, c := range result.Path {
			cells = append(cells, c.String())
		}
		fmt.Fprintf(&b, "Path: %s\n", strings.Join(cells, " "))
	}
	if len(result.Rendered) > 0 {
		fmt.Fprintf(&b, "\n%s\n(%c start, %c goal, %c route)\n",
			strings.Join(result.Rendered, "\n"), atlas.StartSymbol, atlas.GoalSymbol, atlas.PathSymbol)
	}
	return b.String()
}

func formatNearest(result *service.NearestResult) string {
	if !result.Found {
		return fmt.Sprintf("No reachable %s from %s on map %s (%d on the map)",
			result.Tile, result.From, result.MapID, result.Candidates)
	}
	return fmt.Sprintf("Nearest %s from %s on map %s: %s, %d steps (%d of %d reachable)",
		result.Tile, result.From, result.MapID, *result.Target, result.Steps, result.Reachable, result.Candidates)
}

func formatSessionInfo(session *service.SessionInfo) string {
	s := session.Settings
	result := fmt.Sprintf("Session: %s\nMap: %s (%s)\nHeuristic: %s, Algorithm: %s, Diagonals: %v, Flying: %v, Overflow: %d\nRoutes: %d\n",
		session.ID, session.MapID, session.MapName, s.Heuristic, s.Algorithm, s.AllDirections, s.Flying, s.Overflow, session.RouteCount)
	if session.Searching {
		result += "Status: searching\n"
	}
	if session.LastOutcome != "" {
		result += fmt.Sprintf("Last outcome: %s\n", session.LastOutcome)
	}
	return result
}

func formatHistory(history *service.HistoryResponse) string {
	result := fmt.Sprintf("Route History (Page %d/%d, Total: %d routes):\n\n",
		history.Page, history.TotalPages, history.TotalRoutes)

	for _, r := range history.Routes {
		cached := ""
		if r.Cached {
			cached = " cached"
		}
		result += fmt.Sprintf("#%d %s -> %s %s steps=%d h=%s%s\n",
			r.RouteNumber, r.From, r.To, r.Outcome, r.Steps, r.Heuristic, cached)
	}

	if history.HasNext {
		result += fmt.Sprintf("\n(more routes on page %d)\n", history.Page+1)
	}
	return result
}
